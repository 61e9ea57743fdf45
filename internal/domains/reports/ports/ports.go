package ports

import (
	"context"

	"github.com/Apurer/invoicing-api/internal/domains/reports/domain"
)

// Repository computes sales aggregates from stored invoices.
type Repository interface {
	MonthlySales(ctx context.Context) ([]domain.MonthlySales, error)
}

// DocumentRenderer produces the printable form of a sales report.
type DocumentRenderer interface {
	RenderMonthlySales(rows []domain.MonthlySales) ([]byte, error)
}

// Service exposes reporting use cases to adapters.
type Service interface {
	MonthlySales(ctx context.Context) ([]domain.MonthlySales, error)
	RenderMonthlySales(ctx context.Context) ([]byte, error)
}
