package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	"github.com/Apurer/invoicing-api/internal/domains/clients/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory client persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	clients map[int64]*domain.Client
	nextID  int64
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{clients: map[int64]*domain.Client{}, now: time.Now}
}

func (r *Repository) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}
	clone := *client
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.clients {
		if existing.Email == clone.Email || existing.IdentificationNumber == clone.IdentificationNumber {
			return nil, ports.ErrDuplicate
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = r.now().UTC()
	}
	r.clients[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *client
	return &clone, nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, client := range r.clients {
		if client.Email == email {
			clone := *client
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context) ([]*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		clone := *client
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}
