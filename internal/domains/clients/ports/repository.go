package ports

import (
	"context"
	"errors"

	"github.com/Apurer/invoicing-api/internal/domains/clients/domain"
)

var (
	ErrNotFound  = errors.New("client not found")
	ErrDuplicate = errors.New("client with the same email or identification number already exists")
)

// Repository persists client aggregates.
type Repository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Delete(ctx context.Context, id int64) error
}
