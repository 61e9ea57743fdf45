package invoicingserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	invoicehttpmapper "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/http/mapper"
	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
)

const contentTypePDF = "application/pdf"

// InvoiceAPI wires HTTP transport with the invoices service and workflows.
type InvoiceAPI struct {
	service   invoiceports.Service
	workflows invoiceports.WorkflowOrchestrator
}

// NewInvoiceAPI creates an InvoiceAPI. When workflows is nil, invoices are created
// directly through the service.
func NewInvoiceAPI(service invoiceports.Service, workflows invoiceports.WorkflowOrchestrator) InvoiceAPI {
	return InvoiceAPI{service: service, workflows: workflows}
}

// Post /api/invoices/:clientId
// Issue an invoice for a client; the body is the list of product lines
func (api *InvoiceAPI) CreateInvoice(c *gin.Context) {
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	var payload []invoicehttpmapper.LineItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := invoicehttpmapper.ToCreateInput(clientID, payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.createInvoice(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/invoices/%d", created.ID))
	c.JSON(http.StatusCreated, invoicehttpmapper.FromDomainInvoice(created))
}

func (api *InvoiceAPI) createInvoice(ctx context.Context, input invoiceports.CreateInvoiceInput) (*invoicedomain.Invoice, error) {
	if api.workflows != nil {
		return api.workflows.CreateInvoice(ctx, input)
	}
	return api.service.CreateInvoice(ctx, input)
}

// Get /api/invoices
func (api *InvoiceAPI) ListInvoices(c *gin.Context) {
	invoices, err := api.service.ListInvoices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoicehttpmapper.FromDomainInvoices(invoices))
}

// Get /api/invoices/client/:clientId
func (api *InvoiceAPI) ListClientInvoices(c *gin.Context) {
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	invoices, err := api.service.ListInvoicesByClient(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoicehttpmapper.FromDomainInvoices(invoices))
}

// Get /api/invoices/:invoiceId
func (api *InvoiceAPI) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "invoiceId")
	if !ok {
		return
	}
	invoice, err := api.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoicehttpmapper.FromDomainInvoice(invoice))
}

// Get /api/invoices/:invoiceId/pdf
// Get /api/invoices/:invoiceId/export
func (api *InvoiceAPI) GetInvoicePDF(c *gin.Context) {
	id, ok := parseIDParam(c, "invoiceId")
	if !ok {
		return
	}
	document, err := api.service.RenderInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="invoice-%d.pdf"`, id))
	c.Data(http.StatusOK, contentTypePDF, document)
}
