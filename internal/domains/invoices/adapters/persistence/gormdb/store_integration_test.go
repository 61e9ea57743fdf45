//go:build integration

package gormdb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	clientsgorm "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/persistence/gormdb"
	clientdomain "github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	invoicesapp "github.com/Apurer/invoicing-api/internal/domains/invoices/application"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	productsgorm "github.com/Apurer/invoicing-api/internal/domains/products/adapters/persistence/gormdb"
	productdomain "github.com/Apurer/invoicing-api/internal/domains/products/domain"
	reportsgorm "github.com/Apurer/invoicing-api/internal/domains/reports/adapters/persistence/gormdb"
	"github.com/Apurer/invoicing-api/internal/platform/database"
	"github.com/Apurer/invoicing-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/invoicing-api/internal/platform/postgres"
)

func setupInvoicePostgres(t *testing.T) *storeFixture {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("invoicing_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, migrations.RunSQL(dsn))

	db, err := platformpostgres.Connect(ctx, dsn, database.NewGormConfig(nil))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := NewStore(db)
	return &storeFixture{
		db:       db,
		store:    store,
		clients:  clientsgorm.NewRepository(db),
		products: productsgorm.NewRepository(db),
		svc:      invoicesapp.NewService(store, store),
	}
}

func TestPostgresStore_ConcurrentSalesNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	f := setupInvoicePostgres(t)
	ctx := context.Background()

	client, err := clientdomain.NewClient("Ada Lovelace", "ada@example.com", "X-1")
	require.NoError(t, err)
	savedClient, err := f.clients.Create(ctx, client)
	require.NoError(t, err)
	pen, err := productdomain.NewProduct("Pen", decimal.RequireFromString("2.50"), 20)
	require.NoError(t, err)
	savedPen, err := f.products.Create(ctx, pen)
	require.NoError(t, err)
	pad, err := productdomain.NewProduct("Pad", decimal.RequireFromString("1.00"), 20)
	require.NoError(t, err)
	savedPad, err := f.products.Create(ctx, pad)
	require.NoError(t, err)

	const buyers = 40
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < buyers; i++ {
		// Alternate line order so lock ordering is exercised.
		items := []ports.LineItemRequest{{ProductID: savedPen.ID, Quantity: 1}, {ProductID: savedPad.ID, Quantity: 1}}
		if i%2 == 1 {
			items[0], items[1] = items[1], items[0]
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateInvoice(ctx, ports.CreateInvoiceInput{ClientID: savedClient.ID, Items: items})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, invoicesapp.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, succeeded)
	for _, id := range []int64{savedPen.ID, savedPad.ID} {
		product, err := f.products.GetByID(ctx, id)
		require.NoError(t, err)
		assert.EqualValues(t, 0, product.Stock)
	}

	invoices, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, invoices, 20)
	for _, invoice := range invoices {
		assert.Equal(t, "3.50", invoice.Total.StringFixed(2))
		assert.Len(t, invoice.Items, 2)
	}

	rows, err := reportsgorm.NewRepository(f.db).MonthlySales(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 20, rows[0].InvoiceCount)
	assert.Equal(t, "70.00", rows[0].TotalSales.StringFixed(2))
}
