package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	reportdomain "github.com/Apurer/invoicing-api/internal/domains/reports/domain"
)

func TestRenderInvoice_ProducesPDF(t *testing.T) {
	first, err := invoicedomain.NewLineItem(1, "Café crème", 2, decimal.RequireFromString("3.50"))
	require.NoError(t, err)
	second, err := invoicedomain.NewLineItem(2, "Croissant", 1, decimal.RequireFromString("10.50"))
	require.NoError(t, err)
	invoice, err := invoicedomain.NewInvoice(invoicedomain.ClientSnapshot{
		ID: 4, Name: "Zoë Müller", Email: "zoe@example.test", IdentificationNumber: "DE-77",
	}, []invoicedomain.LineItem{first, second})
	require.NoError(t, err)
	invoice.ID = 12
	invoice.CreatedAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	document, err := NewPDFRenderer("Invoicing Ltd.").RenderInvoice(invoice)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(document, []byte("%PDF-")))
}

func TestRenderInvoice_RejectsNil(t *testing.T) {
	_, err := NewPDFRenderer("").RenderInvoice(nil)
	require.Error(t, err)
}

func TestRenderMonthlySales_HandlesEmptyReport(t *testing.T) {
	renderer := NewPDFRenderer("")

	empty, err := renderer.RenderMonthlySales(nil)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))

	document, err := renderer.RenderMonthlySales([]reportdomain.MonthlySales{
		{Year: 2024, Month: 1, InvoiceCount: 3, TotalSales: decimal.RequireFromString("120.00")},
		{Year: 2024, Month: 2, InvoiceCount: 1, TotalSales: decimal.RequireFromString("17.50")},
	})
	require.NoError(t, err)
	require.Greater(t, len(document), len(empty))
}
