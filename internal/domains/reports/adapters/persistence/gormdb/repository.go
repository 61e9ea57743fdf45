package gormdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/invoicing-api/internal/domains/reports/domain"
	"github.com/Apurer/invoicing-api/internal/domains/reports/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository aggregates sales with a GROUP BY over the invoices table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type monthlySalesRow struct {
	Year         int
	Month        int
	InvoiceCount int64
	TotalSales   decimal.NullDecimal
}

// Month extraction differs per dialect; every variant buckets by UTC calendar month.
var monthlySalesQueries = map[string]string{
	"postgres": `SELECT CAST(EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC') AS INTEGER) AS year,
       CAST(EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC') AS INTEGER) AS month,
       COUNT(*) AS invoice_count,
       SUM(total) AS total_sales
FROM invoices
GROUP BY 1, 2
ORDER BY 1, 2`,
	"mysql": `SELECT YEAR(created_at) AS year,
       MONTH(created_at) AS month,
       COUNT(*) AS invoice_count,
       SUM(total) AS total_sales
FROM invoices
GROUP BY YEAR(created_at), MONTH(created_at)
ORDER BY year, month`,
	"sqlite": `SELECT CAST(strftime('%Y', created_at) AS INTEGER) AS year,
       CAST(strftime('%m', created_at) AS INTEGER) AS month,
       COUNT(*) AS invoice_count,
       SUM(total) AS total_sales
FROM invoices
GROUP BY 1, 2
ORDER BY 1, 2`,
}

func (r *Repository) MonthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("report repository not configured")
	}
	dialect := r.db.Dialector.Name()
	query, ok := monthlySalesQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("monthly sales not supported for dialect %q", dialect)
	}
	var rows []monthlySalesRow
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.MonthlySales, 0, len(rows))
	for _, row := range rows {
		total := decimal.Zero
		if row.TotalSales.Valid {
			total = row.TotalSales.Decimal
		}
		result = append(result, domain.MonthlySales{
			Year:         row.Year,
			Month:        row.Month,
			InvoiceCount: row.InvoiceCount,
			TotalSales:   total,
		})
	}
	return result, nil
}
