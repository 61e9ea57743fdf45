package memory

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/reports/domain"
	"github.com/Apurer/invoicing-api/internal/domains/reports/ports"
)

var _ ports.Repository = (*Repository)(nil)

// InvoiceLister is satisfied by the invoice repositories.
type InvoiceLister interface {
	List(ctx context.Context) ([]*invoicedomain.Invoice, error)
}

// Repository aggregates sales in process from an invoice listing.
type Repository struct {
	invoices InvoiceLister
}

func NewRepository(invoices InvoiceLister) *Repository {
	return &Repository{invoices: invoices}
}

func (r *Repository) MonthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	if r == nil || r.invoices == nil {
		return nil, errors.New("memory report repository not configured")
	}
	invoices, err := r.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	type month struct{ year, month int }
	index := map[month]int{}
	rows := []domain.MonthlySales{}
	for _, invoice := range invoices {
		created := invoice.CreatedAt.UTC()
		key := month{created.Year(), int(created.Month())}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, domain.MonthlySales{Year: key.year, Month: key.month, TotalSales: decimal.Zero})
		}
		rows[i].InvoiceCount++
		rows[i].TotalSales = rows[i].TotalSales.Add(invoice.Total)
	}
	domain.SortChronologically(rows)
	return rows, nil
}
