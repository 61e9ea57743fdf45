package ports

import (
	"context"

	"github.com/Apurer/invoicing-api/internal/domains/clients/domain"
)

// CreateClientInput carries the fields required to register a client.
type CreateClientInput struct {
	Name                 string
	Email                string
	IdentificationNumber string
}

// Service exposes client use cases to adapters.
type Service interface {
	CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}
