package ports

import (
	"context"
	"errors"

	"github.com/Apurer/invoicing-api/internal/domains/products/domain"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicateName   = errors.New("product with the same name already exists")
	ErrVersionConflict = errors.New("product was modified concurrently")
)

// Repository persists products. Update is guarded by the product's Version: the write
// only applies when the stored version still matches, and bumps it on success.
type Repository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Search(ctx context.Context, nameFragment string) ([]*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
