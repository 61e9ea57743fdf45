package ports

import (
	"context"
	"errors"

	clientdomain "github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	productdomain "github.com/Apurer/invoicing-api/internal/domains/products/domain"
)

var (
	// ErrNotFound is returned by store lookups when the record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConcurrentUpdate means a product changed between read and write inside a unit of work.
	ErrConcurrentUpdate = errors.New("product modified by a concurrent transaction")
)

// TxStore is the view of the record store available inside a unit of work.
type TxStore interface {
	FindClientByID(ctx context.Context, id int64) (*clientdomain.Client, error)
	// FindProductByID reads a product and holds it against concurrent writers until
	// the unit of work ends.
	FindProductByID(ctx context.Context, id int64) (*productdomain.Product, error)
	// SaveProduct writes the product's stock if its version is unchanged since it was read.
	SaveProduct(ctx context.Context, product productdomain.Product) error
	// SaveInvoice persists the invoice and its lines, assigning IDs and CreatedAt.
	SaveInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
}

// UnitOfWork runs fn atomically: every write made through tx commits together when fn
// returns nil, and none persist otherwise.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
}

// Repository serves read-only invoice queries.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context) ([]*domain.Invoice, error)
	ListByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error)
}
