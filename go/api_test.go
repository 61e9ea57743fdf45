package invoicingserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	clienthttpmapper "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/http/mapper"
	clientmemory "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/memory"
	clientsapp "github.com/Apurer/invoicing-api/internal/domains/clients/application"
	invoicehttpmapper "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/http/mapper"
	invoicememory "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/memory"
	invoicesapp "github.com/Apurer/invoicing-api/internal/domains/invoices/application"
	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	producthttpmapper "github.com/Apurer/invoicing-api/internal/domains/products/adapters/http/mapper"
	productmemory "github.com/Apurer/invoicing-api/internal/domains/products/adapters/memory"
	productsapp "github.com/Apurer/invoicing-api/internal/domains/products/application"
	reporthttpmapper "github.com/Apurer/invoicing-api/internal/domains/reports/adapters/http/mapper"
	reportmemory "github.com/Apurer/invoicing-api/internal/domains/reports/adapters/memory"
	reportsapp "github.com/Apurer/invoicing-api/internal/domains/reports/application"
	apierrors "github.com/Apurer/invoicing-api/internal/shared/errors"
	"github.com/Apurer/invoicing-api/internal/platform/render"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clientRepo := clientmemory.NewRepository()
	productRepo := productmemory.NewRepository()
	store := invoicememory.NewStore(clientRepo, productRepo)
	renderer := render.NewPDFRenderer("Test Issuer")

	handlers := ApiHandleFunctions{
		ClientAPI:  NewClientAPI(clientsapp.NewService(clientRepo)),
		ProductAPI: NewProductAPI(productsapp.NewService(productRepo)),
		InvoiceAPI: NewInvoiceAPI(invoicesapp.NewService(store, store, invoicesapp.WithRenderer(renderer)), nil),
		ReportAPI:  NewReportAPI(reportsapp.NewService(reportmemory.NewRepository(store), renderer)),
	}
	return NewRouterWithGinEngine(gin.New(), handlers)
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func seedClient(t *testing.T, router *gin.Engine, email string) clienthttpmapper.Client {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/clients",
		fmt.Sprintf(`{"name":"Acme","email":%q,"identificationNumber":%q}`, email, "ID-"+email))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[clienthttpmapper.Client](t, rec)
}

func seedProduct(t *testing.T, router *gin.Engine, name, price string, stock int64) producthttpmapper.Product {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/products",
		fmt.Sprintf(`{"name":%q,"price":%q,"stock":%d}`, name, price, stock))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[producthttpmapper.Product](t, rec)
}

func productStock(t *testing.T, router *gin.Engine, id int64) int64 {
	t.Helper()
	rec := do(t, router, http.MethodGet, fmt.Sprintf("/api/products/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[producthttpmapper.Product](t, rec).Stock
}

func TestCreateInvoice_DecrementsStock(t *testing.T) {
	router := newTestRouter(t)
	client := seedClient(t, router, "billing@acme.test")
	widget := seedProduct(t, router, "Widget", "10.00", 5)

	rec := do(t, router, http.MethodPost, fmt.Sprintf("/api/invoices/%d", client.ID),
		fmt.Sprintf(`[{"productId":%d,"quantity":3}]`, widget.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	invoice := decode[invoicehttpmapper.Invoice](t, rec)
	require.Equal(t, "30.00", invoice.Total)
	require.Equal(t, client.ID, invoice.Client.ID)
	require.Len(t, invoice.Items, 1)
	require.Equal(t, "10.00", invoice.Items[0].UnitPrice)
	require.Equal(t, fmt.Sprintf("/api/invoices/%d", invoice.ID), rec.Header().Get("Location"))
	require.Equal(t, int64(2), productStock(t, router, widget.ID))

	fetched := do(t, router, http.MethodGet, fmt.Sprintf("/api/invoices/%d", invoice.ID), "")
	require.Equal(t, http.StatusOK, fetched.Code)
	require.Equal(t, invoice.ID, decode[invoicehttpmapper.Invoice](t, fetched).ID)

	byClient := do(t, router, http.MethodGet, fmt.Sprintf("/api/invoices/client/%d", client.ID), "")
	require.Equal(t, http.StatusOK, byClient.Code)
	require.Len(t, decode[[]invoicehttpmapper.Invoice](t, byClient), 1)
}

func TestCreateInvoice_MixedPrices(t *testing.T) {
	router := newTestRouter(t)
	client := seedClient(t, router, "cafe@acme.test")
	coffee := seedProduct(t, router, "Coffee", "3.50", 10)
	cake := seedProduct(t, router, "Cake", "10.50", 10)

	rec := do(t, router, http.MethodPost, fmt.Sprintf("/api/invoices/%d", client.ID),
		fmt.Sprintf(`[{"productId":%d,"quantity":2},{"productId":%d,"quantity":1}]`, coffee.ID, cake.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "17.50", decode[invoicehttpmapper.Invoice](t, rec).Total)
}

func TestCreateInvoice_InsufficientStock(t *testing.T) {
	router := newTestRouter(t)
	client := seedClient(t, router, "billing@acme.test")
	widget := seedProduct(t, router, "Widget", "10.00", 5)

	rec := do(t, router, http.MethodPost, fmt.Sprintf("/api/invoices/%d", client.ID),
		fmt.Sprintf(`[{"productId":%d,"quantity":10}]`, widget.ID))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeInsufficientStock, problem.Type)
	require.EqualValues(t, widget.ID, problem.Extensions["productId"])
	require.EqualValues(t, 10, problem.Extensions["requested"])
	require.EqualValues(t, 5, problem.Extensions["available"])
	require.Equal(t, int64(5), productStock(t, router, widget.ID))

	list := do(t, router, http.MethodGet, "/api/invoices", "")
	require.Empty(t, decode[[]invoicehttpmapper.Invoice](t, list))
}

func TestCreateInvoice_RejectionStatuses(t *testing.T) {
	router := newTestRouter(t)
	client := seedClient(t, router, "billing@acme.test")
	widget := seedProduct(t, router, "Widget", "10.00", 5)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown client", "/api/invoices/999", fmt.Sprintf(`[{"productId":%d,"quantity":1}]`, widget.ID), http.StatusNotFound},
		{"unknown product", fmt.Sprintf("/api/invoices/%d", client.ID), `[{"productId":999,"quantity":1}]`, http.StatusUnprocessableEntity},
		{"zero quantity", fmt.Sprintf("/api/invoices/%d", client.ID), fmt.Sprintf(`[{"productId":%d,"quantity":0}]`, widget.ID), http.StatusBadRequest},
		{"missing quantity", fmt.Sprintf("/api/invoices/%d", client.ID), fmt.Sprintf(`[{"productId":%d}]`, widget.ID), http.StatusBadRequest},
		{"empty lines", fmt.Sprintf("/api/invoices/%d", client.ID), `[]`, http.StatusBadRequest},
		{"malformed body", fmt.Sprintf("/api/invoices/%d", client.ID), `{"productId":1}`, http.StatusBadRequest},
		{"non numeric client", "/api/invoices/abc", `[]`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
	require.Equal(t, int64(5), productStock(t, router, widget.ID))
}

func TestClients_DuplicateEmailConflicts(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "billing@acme.test")

	rec := do(t, router, http.MethodPost, "/api/clients",
		`{"name":"Other","email":"BILLING@acme.test","identificationNumber":"X-2"}`)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	invalid := do(t, router, http.MethodPost, "/api/clients", `{"name":"","email":"nope","identificationNumber":""}`)
	require.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestClients_DeleteKeepsInvoiceSnapshot(t *testing.T) {
	router := newTestRouter(t)
	client := seedClient(t, router, "billing@acme.test")
	widget := seedProduct(t, router, "Widget", "10.00", 5)
	created := do(t, router, http.MethodPost, fmt.Sprintf("/api/invoices/%d", client.ID),
		fmt.Sprintf(`[{"productId":%d,"quantity":1}]`, widget.ID))
	require.Equal(t, http.StatusCreated, created.Code)
	invoice := decode[invoicehttpmapper.Invoice](t, created)

	require.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, fmt.Sprintf("/api/clients/%d", client.ID), "").Code)
	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, fmt.Sprintf("/api/clients/%d", client.ID), "").Code)

	fetched := do(t, router, http.MethodGet, fmt.Sprintf("/api/invoices/%d", invoice.ID), "")
	require.Equal(t, http.StatusOK, fetched.Code)
	require.Equal(t, "Acme", decode[invoicehttpmapper.Invoice](t, fetched).Client.Name)
}

func TestProducts_UpdateAndSearch(t *testing.T) {
	router := newTestRouter(t)
	widget := seedProduct(t, router, "Blue Widget", "10.00", 5)
	seedProduct(t, router, "Gadget", "4.00", 1)

	rec := do(t, router, http.MethodPut, fmt.Sprintf("/api/products/%d", widget.ID), `{"price":"12.25"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[producthttpmapper.Product](t, rec)
	require.Equal(t, "12.25", updated.Price)
	require.Equal(t, "Blue Widget", updated.Name)
	require.Equal(t, int64(5), updated.Stock)

	search := do(t, router, http.MethodGet, "/api/products/search?name=widg", "")
	require.Equal(t, http.StatusOK, search.Code)
	found := decode[[]producthttpmapper.Product](t, search)
	require.Len(t, found, 1)
	require.Equal(t, widget.ID, found[0].ID)

	require.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, "/api/products", `{"name":"Gadget","price":"1.00"}`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/products", `{"name":"Cheap","price":"-1"}`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/products", `{"name":"Nameless"}`).Code)
	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/products/999", "").Code)
}

func TestInvoicePDFAndReports(t *testing.T) {
	router := newTestRouter(t)
	client := seedClient(t, router, "billing@acme.test")
	widget := seedProduct(t, router, "Widget", "10.00", 5)
	created := do(t, router, http.MethodPost, fmt.Sprintf("/api/invoices/%d", client.ID),
		fmt.Sprintf(`[{"productId":%d,"quantity":3}]`, widget.ID))
	require.Equal(t, http.StatusCreated, created.Code)
	invoice := decode[invoicehttpmapper.Invoice](t, created)

	pdf := do(t, router, http.MethodGet, fmt.Sprintf("/api/invoices/%d/pdf", invoice.ID), "")
	require.Equal(t, http.StatusOK, pdf.Code)
	require.Equal(t, contentTypePDF, pdf.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(pdf.Body.String(), "%PDF-"))

	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/invoices/999/pdf", "").Code)

	exported := do(t, router, http.MethodGet, fmt.Sprintf("/api/invoices/%d/export", invoice.ID), "")
	require.Equal(t, http.StatusOK, exported.Code)
	require.Equal(t, contentTypePDF, exported.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(exported.Body.String(), "%PDF-"))
	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/invoices/999/export", "").Code)

	report := do(t, router, http.MethodGet, "/api/reports/monthly-sales", "")
	require.Equal(t, http.StatusOK, report.Code)
	rows := decode[[]reporthttpmapper.MonthlySales](t, report)
	require.Len(t, rows, 1)
	require.Equal(t, int64(1), rows[0].TotalInvoices)
	require.Equal(t, "30.00", rows[0].TotalSales)

	reportPDF := do(t, router, http.MethodGet, "/api/reports/monthly-sales/pdf", "")
	require.Equal(t, http.StatusOK, reportPDF.Code)
	require.True(t, strings.HasPrefix(reportPDF.Body.String(), "%PDF-"))
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

type failingWorkflows struct {
	err error
}

func (f failingWorkflows) CreateInvoice(context.Context, invoiceports.CreateInvoiceInput) (*invoicedomain.Invoice, error) {
	return nil, f.err
}

func TestCreateInvoice_WorkflowFailureStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name      string
		err       error
		status    int
		problem   string
		retryable bool
	}{
		{"stock write conflict", fmt.Errorf("save stock of product 1: %w", invoiceports.ErrConcurrentUpdate), http.StatusConflict, apierrors.TypeConflict, true},
		{"workflow timeout", fmt.Errorf("%w: workflow timeout", invoiceports.ErrWorkflowTimeout), http.StatusServiceUnavailable, apierrors.TypeUnavailable, false},
		{"store outage", fmt.Errorf("save invoice: connection refused"), http.StatusInternalServerError, apierrors.TypeInternal, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
				InvoiceAPI: NewInvoiceAPI(nil, failingWorkflows{err: tc.err}),
			})
			rec := do(t, router, http.MethodPost, "/api/invoices/1", `[{"productId":1,"quantity":1}]`)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			problem := decode[apierrors.ProblemDetail](t, rec)
			require.Equal(t, tc.problem, problem.Type)
			if tc.retryable {
				require.Equal(t, true, problem.Extensions["retryable"])
			}
		})
	}
}
