package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/invoicing-api/internal/domains/products/domain"
	"github.com/Apurer/invoicing-api/internal/domains/products/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}, now: time.Now}
}

func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.Name == clone.Name {
			return nil, ports.ErrDuplicateName
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	now := r.now().UTC()
	clone.CreatedAt, clone.UpdatedAt = now, now
	clone.Version = 1
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.checkVersionLocked(*product)
	if err != nil {
		return nil, err
	}
	for id, existing := range r.products {
		if id != product.ID && existing.Name == product.Name {
			return nil, ports.ErrDuplicateName
		}
	}
	next := r.bumpLocked(stored, *product)
	return &next, nil
}

// ApplyStockChanges writes a batch of stock changes atomically. Either every product's
// version still matches and all are written, or nothing changes.
func (r *Repository) ApplyStockChanges(_ context.Context, changes []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]*domain.Product, len(changes))
	for i, change := range changes {
		if change.Stock < 0 {
			return domain.ErrNegativeStock
		}
		current, err := r.checkVersionLocked(change)
		if err != nil {
			return err
		}
		stored[i] = current
	}
	for i, change := range changes {
		current := *stored[i]
		current.Stock = change.Stock
		r.bumpLocked(stored[i], current)
	}
	return nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) GetByName(_ context.Context, name string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, product := range r.products {
		if product.Name == name {
			clone := *product
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Search(ctx context.Context, nameFragment string) ([]*domain.Product, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(nameFragment)
	matches := make([]*domain.Product, 0, len(all))
	for _, product := range all {
		if strings.Contains(strings.ToLower(product.Name), needle) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) checkVersionLocked(product domain.Product) (*domain.Product, error) {
	stored, ok := r.products[product.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Version != product.Version {
		return nil, ports.ErrVersionConflict
	}
	return stored, nil
}

func (r *Repository) bumpLocked(stored *domain.Product, next domain.Product) domain.Product {
	next.Version = stored.Version + 1
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = r.now().UTC()
	r.products[next.ID] = &next
	return next
}
