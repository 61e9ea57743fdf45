package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/invoicing-api/internal/domains/products/domain"
	"github.com/Apurer/invoicing-api/internal/domains/products/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateProduct adds a product. Names are unique across the catalog.
func (s *Service) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Price, input.Stock)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureNameFree(ctx, product.Name, 0); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// SearchProducts matches products whose name contains the fragment, ignoring case.
func (s *Service) SearchProducts(ctx context.Context, name string) ([]*domain.Product, error) {
	return s.repo.Search(ctx, strings.TrimSpace(name))
}

// UpdateProduct applies the provided fields to the stored product.
func (s *Service) UpdateProduct(ctx context.Context, input ports.UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	if input.Name != nil {
		if err := s.ensureNameFree(ctx, product.Name, product.ID); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, product)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return ports.ErrDuplicateName
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
