package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/invoicing-api/internal/domains/products/domain"
)

// CreateProductInput carries the fields required to add a product to the catalog.
type CreateProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int64
}

// UpdateProductInput applies a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	ID    int64
	Name  *string
	Price *decimal.Decimal
	Stock *int64
}

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	SearchProducts(ctx context.Context, name string) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
