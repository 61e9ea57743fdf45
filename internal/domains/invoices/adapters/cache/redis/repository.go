package redis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
)

const (
	keyPrefix  = "invoice:"
	DefaultTTL = 10 * time.Minute
)

var _ ports.Repository = (*Repository)(nil)

// Repository is a read-through cache in front of an invoice repository. Invoices never
// change after creation, so entries are only evicted by TTL. Cache failures are logged
// and the lookup falls through to the inner repository.
type Repository struct {
	inner  ports.Repository
	client goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRepository wraps inner with a Redis cache. A non-positive ttl selects DefaultTTL.
func NewRepository(inner ports.Repository, client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	key := cacheKey(id)
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var invoice domain.Invoice
		if decodeErr := json.Unmarshal(raw, &invoice); decodeErr == nil {
			return &invoice, nil
		} else {
			r.warn(ctx, "discarding undecodable cached invoice", id, decodeErr)
		}
	case !errors.Is(err, goredis.Nil):
		r.warn(ctx, "invoice cache read failed", id, err)
	}

	invoice, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if encoded, encodeErr := json.Marshal(invoice); encodeErr != nil {
		r.warn(ctx, "invoice cache encode failed", id, encodeErr)
	} else if setErr := r.client.Set(ctx, key, encoded, r.ttl).Err(); setErr != nil {
		r.warn(ctx, "invoice cache write failed", id, setErr)
	}
	return invoice, nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Invoice, error) {
	return r.inner.List(ctx)
}

func (r *Repository) ListByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error) {
	return r.inner.ListByClient(ctx, clientID)
}

func (r *Repository) warn(ctx context.Context, msg string, id int64, err error) {
	r.logger.LogAttrs(ctx, slog.LevelWarn, msg, slog.Int64("invoice.id", id), slog.String("error", err.Error()))
}

func cacheKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}
