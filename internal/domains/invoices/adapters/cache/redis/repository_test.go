package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
)

type countingRepository struct {
	invoices map[int64]*domain.Invoice
	gets     int
}

func (r *countingRepository) GetByID(_ context.Context, id int64) (*domain.Invoice, error) {
	r.gets++
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return invoice.Clone(), nil
}

func (r *countingRepository) List(context.Context) ([]*domain.Invoice, error) {
	return nil, nil
}

func (r *countingRepository) ListByClient(context.Context, int64) ([]*domain.Invoice, error) {
	return nil, nil
}

func sampleInvoice(t *testing.T) *domain.Invoice {
	t.Helper()
	line, err := domain.NewLineItem(3, "Widget", 2, decimal.RequireFromString("15.00"))
	require.NoError(t, err)
	invoice, err := domain.NewInvoice(domain.ClientSnapshot{ID: 1, Name: "Acme", Email: "billing@acme.test", IdentificationNumber: "A-1"}, []domain.LineItem{line})
	require.NoError(t, err)
	invoice.ID = 7
	invoice.CreatedAt = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	return invoice
}

func newCache(t *testing.T, inner ports.Repository) (*Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRepository(inner, client, time.Minute, nil), mr
}

func TestGetByID_ReadsThrough(t *testing.T) {
	inner := &countingRepository{invoices: map[int64]*domain.Invoice{7: sampleInvoice(t)}}
	cache, mr := newCache(t, inner)
	ctx := context.Background()

	first, err := cache.GetByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, mr.Exists("invoice:7"))

	second, err := cache.GetByID(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 1, inner.gets)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "30.00", second.Total.StringFixed(domain.MoneyScale))
	require.Len(t, second.Items, 1)
	require.Equal(t, "Widget", second.Items[0].ProductName)
	require.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestGetByID_ExpiresWithTTL(t *testing.T) {
	inner := &countingRepository{invoices: map[int64]*domain.Invoice{7: sampleInvoice(t)}}
	cache, mr := newCache(t, inner)
	ctx := context.Background()

	_, err := cache.GetByID(ctx, 7)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = cache.GetByID(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 2, inner.gets)
}

func TestGetByID_NotFoundIsNotCached(t *testing.T) {
	inner := &countingRepository{invoices: map[int64]*domain.Invoice{}}
	cache, mr := newCache(t, inner)

	_, err := cache.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.False(t, mr.Exists("invoice:99"))
}

func TestGetByID_FallsBackWhenRedisIsDown(t *testing.T) {
	inner := &countingRepository{invoices: map[int64]*domain.Invoice{7: sampleInvoice(t)}}
	cache, mr := newCache(t, inner)
	mr.Close()

	invoice, err := cache.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), invoice.ID)
}

func TestGetByID_DiscardsCorruptEntry(t *testing.T) {
	inner := &countingRepository{invoices: map[int64]*domain.Invoice{7: sampleInvoice(t)}}
	cache, mr := newCache(t, inner)
	require.NoError(t, mr.Set("invoice:7", "{not json"))

	invoice, err := cache.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), invoice.ID)
	require.Equal(t, 1, inner.gets)
}
