package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/invoicing-api/internal/domains/reports/domain"
	"github.com/Apurer/invoicing-api/internal/domains/reports/ports"
)

// Service answers reporting queries.
type Service struct {
	repo     ports.Repository
	renderer ports.DocumentRenderer
}

func NewService(repo ports.Repository, renderer ports.DocumentRenderer) *Service {
	return &Service{repo: repo, renderer: renderer}
}

// MonthlySales returns one row per month that has invoices, oldest first.
func (s *Service) MonthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	rows, err := s.repo.MonthlySales(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	domain.SortChronologically(rows)
	return rows, nil
}

func (s *Service) RenderMonthlySales(ctx context.Context) ([]byte, error) {
	if s.renderer == nil {
		return nil, errors.New("report renderer not configured")
	}
	rows, err := s.MonthlySales(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderMonthlySales(rows)
}

var _ ports.Service = (*Service)(nil)
