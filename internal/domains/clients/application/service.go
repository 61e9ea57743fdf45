package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	"github.com/Apurer/invoicing-api/internal/domains/clients/ports"
)

// Service orchestrates client use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateClient registers a client. Email and identification number must be unique.
func (s *Service) CreateClient(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	client, err := domain.NewClient(input.Name, input.Email, input.IdentificationNumber)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByEmail(ctx, client.Email); err == nil {
		return nil, ports.ErrDuplicate
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.repo.Create(ctx, client)
}

func (s *Service) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
