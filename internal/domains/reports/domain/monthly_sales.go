package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonthlySales aggregates the invoices issued in one calendar month (UTC).
type MonthlySales struct {
	Year         int
	Month        int
	InvoiceCount int64
	TotalSales   decimal.Decimal
}

// SortChronologically orders rows by year, then month.
func SortChronologically(rows []MonthlySales) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
}
