package gormdb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Apurer/invoicing-api/internal/domains/products/domain"
	"github.com/Apurer/invoicing-api/internal/domains/products/ports"
	"github.com/Apurer/invoicing-api/internal/platform/database"
	"github.com/Apurer/invoicing-api/internal/platform/migrations"
	platformsqlite "github.com/Apurer/invoicing-api/internal/platform/sqlite"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := platformsqlite.Connect(context.Background(), "file:"+uuid.NewString()+"?mode=memory&cache=shared", database.NewGormConfig(nil))
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func create(t *testing.T, repo *Repository, name, price string, stock int64) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(name, decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	saved, err := repo.Create(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	saved := create(t, repo, "Pen", "10.25", 5)
	require.NotZero(t, saved.ID)
	require.EqualValues(t, 1, saved.Version)

	loaded, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "10.25", loaded.Price.StringFixed(2))
	require.EqualValues(t, 5, loaded.Stock)

	byName, err := repo.GetByName(ctx, "Pen")
	require.NoError(t, err)
	require.Equal(t, saved.ID, byName.ID)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, ports.ErrNotFound)

	duplicate, err := domain.NewProduct("Pen", decimal.NewFromInt(1), 1)
	require.NoError(t, err)
	_, err = repo.Create(ctx, duplicate)
	require.ErrorIs(t, err, ports.ErrDuplicateName)
}

func TestRepository_UpdateIsVersionGuarded(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	saved := create(t, repo, "Pen", "1.00", 5)

	fresh := *saved
	fresh.Stock = 8
	updated, err := repo.Update(ctx, &fresh)
	require.NoError(t, err)
	require.EqualValues(t, 2, updated.Version)
	require.EqualValues(t, 8, updated.Stock)

	stale := *saved
	stale.Stock = 1
	_, err = repo.Update(ctx, &stale)
	require.ErrorIs(t, err, ports.ErrVersionConflict)

	missing := *saved
	missing.ID = 999
	_, err = repo.Update(ctx, &missing)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateDuplicateName(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	pen := create(t, repo, "Pen", "1.00", 5)
	create(t, repo, "Pad", "1.00", 5)

	pen.Name = "Pad"
	_, err := repo.Update(context.Background(), pen)
	require.ErrorIs(t, err, ports.ErrDuplicateName)
}

func TestRepository_SearchEscapesWildcards(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	create(t, repo, "Blue Pen", "1.00", 1)
	create(t, repo, "red pen", "1.00", 1)
	create(t, repo, "100% cotton", "1.00", 1)

	matches, err := repo.Search(ctx, "PEN")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	percent, err := repo.Search(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, percent, 1)
	require.Equal(t, "100% cotton", percent[0].Name)

	underscore, err := repo.Search(ctx, "_")
	require.NoError(t, err)
	require.Empty(t, underscore)
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	saved := create(t, repo, "Pen", "1.00", 1)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	require.ErrorIs(t, repo.Delete(ctx, saved.ID), ports.ErrNotFound)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
