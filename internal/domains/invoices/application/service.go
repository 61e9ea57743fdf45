package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	clientdomain "github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	productdomain "github.com/Apurer/invoicing-api/internal/domains/products/domain"
)

// Service orchestrates the invoices bounded context use cases.
type Service struct {
	uow       ports.UnitOfWork
	repo      ports.Repository
	publisher ports.EventPublisher
	renderer  ports.DocumentRenderer
	logger    *slog.Logger
}

// Option customizes the invoices service.
type Option func(*Service)

// WithEventPublisher publishes InvoiceCreated after each committed invoice.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithRenderer enables RenderInvoice.
func WithRenderer(renderer ports.DocumentRenderer) Option {
	return func(s *Service) {
		s.renderer = renderer
	}
}

// WithLogger sets the logger used for best-effort side effects.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the invoices service with its dependencies.
func NewService(uow ports.UnitOfWork, repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		uow:    uow,
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateInvoice issues an invoice for a client, decrementing product stock in the same
// unit of work. Checks run in a fixed order and the first failure wins:
//
//  1. the client exists;
//  2. per line, in request order: the product exists, then it has enough stock left
//     after earlier lines of this request;
//  3. every quantity is positive.
//
// On any failure nothing is written.
func (s *Service) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Invoice, error) {
	if s.uow == nil {
		return nil, errors.New("invoice unit of work not configured")
	}
	var created *domain.Invoice
	err := s.uow.Within(ctx, func(ctx context.Context, tx ports.TxStore) error {
		invoice, err := s.createWithin(ctx, tx, input)
		if err != nil {
			return err
		}
		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishCreated(ctx, created)
	return created, nil
}

func (s *Service) createWithin(ctx context.Context, tx ports.TxStore, input ports.CreateInvoiceInput) (*domain.Invoice, error) {
	client, err := tx.FindClientByID(ctx, input.ClientID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, &ClientNotFoundError{ClientID: input.ClientID}
	}
	if err != nil {
		return nil, fmt.Errorf("load client %d: %w", input.ClientID, err)
	}
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrNoLineItems)
	}

	productIDs := uniqueSortedProductIDs(input.Items)
	locked, err := lockProducts(ctx, tx, productIDs)
	if err != nil {
		return nil, err
	}
	if err := checkAvailability(input.Items, locked); err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidRequestError{
				Reason: fmt.Sprintf("quantity for product %d must be greater than zero, got %d", item.ProductID, item.Quantity),
			}
		}
	}

	working := make(map[int64]productdomain.Product, len(locked))
	for id, product := range locked {
		working[id] = product
	}
	lines := make([]domain.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		product := working[item.ProductID]
		line, err := domain.NewLineItem(product.ID, product.Name, item.Quantity, product.Price)
		if err != nil {
			return nil, mapError(err)
		}
		next, err := product.WithStockDecremented(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock of product %d: %w", product.ID, err)
		}
		working[item.ProductID] = next
		lines = append(lines, line)
	}

	invoice, err := domain.NewInvoice(snapshotOf(client), lines)
	if err != nil {
		return nil, mapError(err)
	}
	for _, id := range productIDs {
		if err := tx.SaveProduct(ctx, working[id]); err != nil {
			return nil, fmt.Errorf("save stock of product %d: %w", id, err)
		}
	}
	saved, err := tx.SaveInvoice(ctx, invoice)
	if err != nil {
		return nil, fmt.Errorf("save invoice: %w", err)
	}
	return saved, nil
}

// lockProducts reads every referenced product in ascending ID order so concurrent units
// of work acquire row locks in the same sequence. Missing products are simply absent
// from the result.
func lockProducts(ctx context.Context, tx ports.TxStore, ids []int64) (map[int64]productdomain.Product, error) {
	locked := make(map[int64]productdomain.Product, len(ids))
	for _, id := range ids {
		product, err := tx.FindProductByID(ctx, id)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", id, err)
		}
		locked[id] = *product
	}
	return locked, nil
}

// checkAvailability walks lines in request order against a running stock count, so a
// product listed twice is checked against what the earlier line left behind.
func checkAvailability(items []ports.LineItemRequest, products map[int64]productdomain.Product) error {
	remaining := make(map[int64]int64, len(products))
	for id, product := range products {
		remaining[id] = product.Stock
	}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return &ProductNotFoundError{ProductID: item.ProductID}
		}
		available := remaining[item.ProductID]
		if item.Quantity > available {
			return &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   available,
			}
		}
		if item.Quantity > 0 {
			remaining[item.ProductID] = available - item.Quantity
		}
	}
	return nil
}

func uniqueSortedProductIDs(items []ports.LineItemRequest) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func snapshotOf(client *clientdomain.Client) domain.ClientSnapshot {
	return domain.ClientSnapshot{
		ID:                   client.ID,
		Name:                 client.Name,
		Email:                client.Email,
		IdentificationNumber: client.IdentificationNumber,
	}
}

func (s *Service) publishCreated(ctx context.Context, invoice *domain.Invoice) {
	if s.publisher == nil || invoice == nil {
		return
	}
	event := domain.NewInvoiceCreated(invoice)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish invoice event",
			slog.String("event", event.EventName()),
			slog.Int64("invoice.id", invoice.ID),
			slog.String("error", err.Error()))
	}
}

// GetInvoice loads a single invoice.
func (s *Service) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrInvoiceNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// ListInvoices returns every invoice, oldest first.
func (s *Service) ListInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	return s.repo.List(ctx)
}

// ListInvoicesByClient returns the invoices issued to one client.
func (s *Service) ListInvoicesByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// RenderInvoice loads an invoice and renders its printable document.
func (s *Service) RenderInvoice(ctx context.Context, id int64) ([]byte, error) {
	if s.renderer == nil {
		return nil, errors.New("invoice renderer not configured")
	}
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	document, err := s.renderer.RenderInvoice(invoice)
	if err != nil {
		return nil, fmt.Errorf("render invoice %d: %w", id, err)
	}
	return document, nil
}

var _ ports.Service = (*Service)(nil)
