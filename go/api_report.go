package invoicingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reporthttpmapper "github.com/Apurer/invoicing-api/internal/domains/reports/adapters/http/mapper"
	reportports "github.com/Apurer/invoicing-api/internal/domains/reports/ports"
)

// ReportAPI serves sales reports.
type ReportAPI struct {
	service reportports.Service
}

func NewReportAPI(service reportports.Service) ReportAPI {
	return ReportAPI{service: service}
}

// Get /api/reports/monthly-sales
func (api *ReportAPI) MonthlySales(c *gin.Context) {
	rows, err := api.service.MonthlySales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reporthttpmapper.FromDomainMonthlySales(rows))
}

// Get /api/reports/monthly-sales/pdf
func (api *ReportAPI) MonthlySalesPDF(c *gin.Context) {
	document, err := api.service.RenderMonthlySales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="monthly-sales.pdf"`)
	c.Data(http.StatusOK, contentTypePDF, document)
}
