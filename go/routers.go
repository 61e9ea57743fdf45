package invoicingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the handlers of every API area.
type ApiHandleFunctions struct {
	ClientAPI  ClientAPI
	ProductAPI ProductAPI
	InvoiceAPI InvoiceAPI
	ReportAPI  ReportAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", Healthz},

		{"CreateClient", http.MethodPost, "/api/clients", handleFunctions.ClientAPI.CreateClient},
		{"ListClients", http.MethodGet, "/api/clients", handleFunctions.ClientAPI.ListClients},
		{"GetClient", http.MethodGet, "/api/clients/:clientId", handleFunctions.ClientAPI.GetClient},
		{"DeleteClient", http.MethodDelete, "/api/clients/:clientId", handleFunctions.ClientAPI.DeleteClient},

		{"CreateProduct", http.MethodPost, "/api/products", handleFunctions.ProductAPI.CreateProduct},
		{"ListProducts", http.MethodGet, "/api/products", handleFunctions.ProductAPI.ListProducts},
		{"SearchProducts", http.MethodGet, "/api/products/search", handleFunctions.ProductAPI.SearchProducts},
		{"GetProduct", http.MethodGet, "/api/products/:productId", handleFunctions.ProductAPI.GetProduct},
		{"UpdateProduct", http.MethodPut, "/api/products/:productId", handleFunctions.ProductAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/api/products/:productId", handleFunctions.ProductAPI.DeleteProduct},

		{"ListInvoices", http.MethodGet, "/api/invoices", handleFunctions.InvoiceAPI.ListInvoices},
		{"ListClientInvoices", http.MethodGet, "/api/invoices/client/:clientId", handleFunctions.InvoiceAPI.ListClientInvoices},
		{"GetInvoice", http.MethodGet, "/api/invoices/:invoiceId", handleFunctions.InvoiceAPI.GetInvoice},
		{"GetInvoicePDF", http.MethodGet, "/api/invoices/:invoiceId/pdf", handleFunctions.InvoiceAPI.GetInvoicePDF},
		{"ExportInvoicePDF", http.MethodGet, "/api/invoices/:invoiceId/export", handleFunctions.InvoiceAPI.GetInvoicePDF},
		{"CreateInvoice", http.MethodPost, "/api/invoices/:clientId", handleFunctions.InvoiceAPI.CreateInvoice},

		{"MonthlySales", http.MethodGet, "/api/reports/monthly-sales", handleFunctions.ReportAPI.MonthlySales},
		{"MonthlySalesPDF", http.MethodGet, "/api/reports/monthly-sales/pdf", handleFunctions.ReportAPI.MonthlySalesPDF},
	}
}

// Healthz reports process liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
