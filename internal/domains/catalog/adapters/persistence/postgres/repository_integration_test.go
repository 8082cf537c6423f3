//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/catalog/ports"
	"github.com/Apurer/gift-registry/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("registry_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedCatalog(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()
	items := []domain.Item{
		{ID: "patagonia", Title: "Patagonia", TotalPackages: 10, PackagesSold: 5, DisplayOrder: 2, Active: true, UnitPrice: domain.Price(5000)},
		{ID: "andes", Title: "Andes", TotalPackages: 3, DisplayOrder: 1, Active: true},
		{ID: domain.FreeContributionID, Title: "Back Home", DisplayOrder: 9, Active: true},
		{ID: "retired", Title: "Retired", TotalPackages: 1, DisplayOrder: 0, Active: false},
	}
	for _, item := range items {
		require.NoError(t, repo.Upsert(ctx, item))
	}
}

func TestRepository_FetchCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedCatalog(t, repo)

	items, err := repo.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "andes", items[0].ID)
	assert.Equal(t, "patagonia", items[1].ID)
	assert.Equal(t, "50.00", items[1].UnitPrice.StringFixed(2))
	assert.Nil(t, items[0].UnitPrice)
}

func TestRepository_AtomicIncrementIsBounded(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedCatalog(t, repo)
	ctx := context.Background()

	supported, err := repo.SupportsAtomicIncrement(ctx)
	require.NoError(t, err)
	require.True(t, supported)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.IncrementSold(ctx, "patagonia", 1, true)
		}()
	}
	wg.Wait()

	sold, total, err := repo.SoldCount(ctx, "patagonia")
	require.NoError(t, err)
	assert.Equal(t, 10, sold)
	assert.Equal(t, 10, total)

	err = repo.IncrementSold(ctx, "patagonia", 1, true)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)

	require.NoError(t, repo.IncrementSold(ctx, domain.FreeContributionID, 2, false))

	err = repo.IncrementSold(ctx, "atlantis", 1, true)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_MissingFunctionReportsUnavailable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedCatalog(t, repo)
	ctx := context.Background()
	require.NoError(t, migrations.DropIncrementFunction(db))

	supported, err := repo.SupportsAtomicIncrement(ctx)
	require.NoError(t, err)
	assert.False(t, supported)

	err = repo.IncrementSold(ctx, "patagonia", 1, true)
	assert.ErrorIs(t, err, ports.ErrOperationUnavailable)

	require.NoError(t, repo.UpdateSoldCount(ctx, "patagonia", 6))
	sold, _, err := repo.SoldCount(ctx, "patagonia")
	require.NoError(t, err)
	assert.Equal(t, 6, sold)
}

func TestRepository_UpsertKeepsSales(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedCatalog(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, domain.Item{ID: "patagonia", Title: "Patagonia trek", TotalPackages: 12, Active: true}))
	item, err := repo.Get(ctx, "patagonia")
	require.NoError(t, err)
	assert.Equal(t, "Patagonia trek", item.Title)
	assert.Equal(t, 12, item.TotalPackages)
	assert.Equal(t, 5, item.PackagesSold)
}
