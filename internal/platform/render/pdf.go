package render

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	reportdomain "github.com/Apurer/invoicing-api/internal/domains/reports/domain"
	reportports "github.com/Apurer/invoicing-api/internal/domains/reports/ports"
)

var (
	_ invoiceports.DocumentRenderer = (*PDFRenderer)(nil)
	_ reportports.DocumentRenderer  = (*PDFRenderer)(nil)
)

const (
	fontFamily = "Helvetica"
	rowHeight  = 7.0
	dateLayout = "2006-01-02"
)

// PDFRenderer lays out invoices and sales reports as single-column A4 documents.
type PDFRenderer struct {
	issuer string
}

// NewPDFRenderer returns a renderer that prints issuer in each document header.
func NewPDFRenderer(issuer string) *PDFRenderer {
	return &PDFRenderer{issuer: issuer}
}

type column struct {
	title string
	width float64
	align string
}

var invoiceColumns = []column{
	{title: "Product", width: 80, align: "L"},
	{title: "Qty", width: 20, align: "R"},
	{title: "Unit price", width: 40, align: "R"},
	{title: "Subtotal", width: 40, align: "R"},
}

var salesColumns = []column{
	{title: "Month", width: 60, align: "L"},
	{title: "Invoices", width: 50, align: "R"},
	{title: "Total sales", width: 70, align: "R"},
}

// RenderInvoice prints the client block, one row per line item and the invoice total.
func (r *PDFRenderer) RenderInvoice(invoice *invoicedomain.Invoice) ([]byte, error) {
	if invoice == nil {
		return nil, fmt.Errorf("render invoice: invoice is nil")
	}
	pdf, tr := r.newDocument(fmt.Sprintf("Invoice #%d", invoice.ID), invoice.CreatedAt)

	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 6, "Date: "+invoice.CreatedAt.UTC().Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(0, 6, "Billed to", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 5, tr(invoice.Client.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(invoice.Client.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "ID: "+tr(invoice.Client.IdentificationNumber), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	tableHeader(pdf, invoiceColumns)
	for _, item := range invoice.Items {
		tableRow(pdf, invoiceColumns,
			tr(item.ProductName),
			strconv.FormatInt(item.Quantity, 10),
			money(item.UnitPrice),
			money(item.Subtotal),
		)
	}
	labelWidth := invoiceColumns[0].width + invoiceColumns[1].width + invoiceColumns[2].width
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(labelWidth, rowHeight, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(invoiceColumns[3].width, rowHeight, money(invoice.Total), "1", 1, "R", false, 0, "")

	return output(pdf)
}

// RenderMonthlySales prints one row per month and a grand total.
func (r *PDFRenderer) RenderMonthlySales(rows []reportdomain.MonthlySales) ([]byte, error) {
	pdf, _ := r.newDocument("Monthly sales", time.Now().UTC())

	tableHeader(pdf, salesColumns)
	var (
		invoices int64
		total    = decimal.Zero
	)
	for _, row := range rows {
		tableRow(pdf, salesColumns,
			fmt.Sprintf("%04d-%02d", row.Year, row.Month),
			strconv.FormatInt(row.InvoiceCount, 10),
			money(row.TotalSales),
		)
		invoices += row.InvoiceCount
		total = total.Add(row.TotalSales)
	}
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(salesColumns[0].width, rowHeight, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(salesColumns[1].width, rowHeight, strconv.FormatInt(invoices, 10), "1", 0, "R", false, 0, "")
	pdf.CellFormat(salesColumns[2].width, rowHeight, money(total), "1", 1, "R", false, 0, "")

	return output(pdf)
}

func (r *PDFRenderer) newDocument(title string, created time.Time) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("invoicing-api", true)
	pdf.SetCreationDate(created)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if r.issuer != "" {
		pdf.SetFont(fontFamily, "", 9)
		pdf.CellFormat(0, 5, tr(r.issuer), "", 1, "R", false, 0, "")
	}
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	return pdf, tr
}

func tableHeader(pdf *gofpdf.Fpdf, columns []column) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range columns {
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, rowHeight, col.title, "1", ln, col.align, true, 0, "")
	}
	pdf.SetFont(fontFamily, "", 10)
}

func tableRow(pdf *gofpdf.Fpdf, columns []column, values ...string) {
	for i, col := range columns {
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, rowHeight, values[i], "1", ln, col.align, false, 0, "")
	}
}

func money(amount decimal.Decimal) string {
	return amount.StringFixed(invoicedomain.MoneyScale)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
