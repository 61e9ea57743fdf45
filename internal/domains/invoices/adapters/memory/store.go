package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	clientdomain "github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	clientports "github.com/Apurer/invoicing-api/internal/domains/clients/ports"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	productdomain "github.com/Apurer/invoicing-api/internal/domains/products/domain"
	productports "github.com/Apurer/invoicing-api/internal/domains/products/ports"
)

var (
	_ ports.UnitOfWork = (*Store)(nil)
	_ ports.Repository = (*Store)(nil)
)

// ClientReader is the slice of the clients repository the store reads from.
type ClientReader interface {
	GetByID(ctx context.Context, id int64) (*clientdomain.Client, error)
}

// ProductLedger is the slice of the products repository the store reads and writes.
// ApplyStockChanges must write all changes or none.
type ProductLedger interface {
	GetByID(ctx context.Context, id int64) (*productdomain.Product, error)
	ApplyStockChanges(ctx context.Context, changes []productdomain.Product) error
}

// Store is the in-memory invoice store. Units of work are serialized; writes are staged
// and only applied when the callback succeeds.
type Store struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	clients  ClientReader
	products ProductLedger
	invoices map[int64]*domain.Invoice
	nextID   int64
	nextLine int64
	now      func() time.Time
}

// NewStore builds a store on top of the in-memory clients and products repositories.
func NewStore(clients ClientReader, products ProductLedger) *Store {
	return &Store{
		clients:  clients,
		products: products,
		invoices: map[int64]*domain.Invoice{},
		now:      time.Now,
	}
}

// Within runs fn with exclusive access to the store and commits staged writes on success.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx ports.TxStore) error) error {
	if s == nil || s.clients == nil || s.products == nil {
		return errors.New("memory invoice store not configured")
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txStore{store: s, products: map[int64]productdomain.Product{}}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(ctx, tx)
}

func (s *Store) commit(ctx context.Context, tx *txStore) error {
	if len(tx.products) > 0 {
		changes := make([]productdomain.Product, 0, len(tx.products))
		for _, product := range tx.products {
			changes = append(changes, product)
		}
		sort.Slice(changes, func(i, j int) bool { return changes[i].ID < changes[j].ID })
		if err := s.products.ApplyStockChanges(ctx, changes); err != nil {
			if errors.Is(err, productports.ErrVersionConflict) {
				return fmt.Errorf("%w: %w", ports.ErrConcurrentUpdate, err)
			}
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, invoice := range tx.invoices {
		s.invoices[invoice.ID] = invoice.Clone()
	}
	return nil
}

// GetByID returns a copy of the stored invoice.
func (s *Store) GetByID(_ context.Context, id int64) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invoice, ok := s.invoices[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return invoice.Clone(), nil
}

// List returns all invoices ordered by ID.
func (s *Store) List(_ context.Context) ([]*domain.Invoice, error) {
	return s.filter(func(*domain.Invoice) bool { return true }), nil
}

// ListByClient returns the client's invoices ordered by ID.
func (s *Store) ListByClient(_ context.Context, clientID int64) ([]*domain.Invoice, error) {
	return s.filter(func(invoice *domain.Invoice) bool { return invoice.Client.ID == clientID }), nil
}

func (s *Store) filter(keep func(*domain.Invoice) bool) []*domain.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Invoice, 0, len(s.invoices))
	for _, invoice := range s.invoices {
		if keep(invoice) {
			list = append(list, invoice.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// reserveIDs hands out an invoice ID and count line IDs. IDs reserved by a unit of work
// that later fails are not reused.
func (s *Store) reserveIDs(lines int) (int64, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	first := s.nextLine + 1
	s.nextLine += int64(lines)
	return s.nextID, first
}

type txStore struct {
	store    *Store
	products map[int64]productdomain.Product
	invoices []*domain.Invoice
}

func (t *txStore) FindClientByID(ctx context.Context, id int64) (*clientdomain.Client, error) {
	client, err := t.store.clients.GetByID(ctx, id)
	if errors.Is(err, clientports.ErrNotFound) {
		return nil, ports.ErrNotFound
	}
	return client, err
}

func (t *txStore) FindProductByID(ctx context.Context, id int64) (*productdomain.Product, error) {
	if staged, ok := t.products[id]; ok {
		return &staged, nil
	}
	product, err := t.store.products.GetByID(ctx, id)
	if errors.Is(err, productports.ErrNotFound) {
		return nil, ports.ErrNotFound
	}
	return product, err
}

func (t *txStore) SaveProduct(_ context.Context, product productdomain.Product) error {
	if product.Stock < 0 {
		return productdomain.ErrNegativeStock
	}
	t.products[product.ID] = product
	return nil
}

func (t *txStore) SaveInvoice(_ context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	if err := invoice.Validate(); err != nil {
		return nil, err
	}
	saved := invoice.Clone()
	id, firstLine := t.store.reserveIDs(len(saved.Items))
	saved.ID = id
	saved.CreatedAt = t.store.now().UTC()
	for i := range saved.Items {
		saved.Items[i].ID = firstLine + int64(i)
	}
	t.invoices = append(t.invoices, saved)
	return saved.Clone(), nil
}
