package mapper

import (
	reportdomain "github.com/Apurer/invoicing-api/internal/domains/reports/domain"
)

// MonthlySales is the HTTP representation of one monthly sales row.
type MonthlySales struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	TotalInvoices int64  `json:"totalInvoices"`
	TotalSales    string `json:"totalSales"`
}

// FromDomainMonthlySales converts report rows to their transport shape.
func FromDomainMonthlySales(rows []reportdomain.MonthlySales) []MonthlySales {
	out := make([]MonthlySales, 0, len(rows))
	for _, row := range rows {
		out = append(out, MonthlySales{
			Year:          row.Year,
			Month:         row.Month,
			TotalInvoices: row.InvoiceCount,
			TotalSales:    row.TotalSales.StringFixed(2),
		})
	}
	return out
}
