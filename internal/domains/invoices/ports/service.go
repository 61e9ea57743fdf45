package ports

import (
	"context"

	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
)

// LineItemRequest asks for quantity units of a product.
type LineItemRequest struct {
	ProductID int64
	Quantity  int64
}

// CreateInvoiceInput is the command accepted by the invoice creation workflow.
type CreateInvoiceInput struct {
	ClientID int64
	Items    []LineItemRequest
}

// Service exposes invoice use cases to adapters.
type Service interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]*domain.Invoice, error)
	ListInvoicesByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error)
	RenderInvoice(ctx context.Context, id int64) ([]byte, error)
}
