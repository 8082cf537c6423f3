package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/gift-registry/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

func seedItems() []domain.Item {
	return []domain.Item{
		{ID: "patagonia", Title: "Patagonia", TotalPackages: 10, PackagesSold: 5, DisplayOrder: 1, Active: true},
		{ID: domain.FreeContributionID, Title: "Back Home", TotalPackages: 0, PackagesSold: 0, DisplayOrder: 9, Active: true},
	}
}

func soldOf(t *testing.T, repo *memory.Repository, id string) int {
	t.Helper()
	sold, _, err := repo.SoldCount(context.Background(), id)
	require.NoError(t, err)
	return sold
}

// barrierStore releases SoldCount only once both callers have read, forcing the lost update.
type barrierStore struct {
	ports.InventoryStore
	reads sync.WaitGroup
}

func (b *barrierStore) SoldCount(ctx context.Context, id string) (int, int, error) {
	sold, total, err := b.InventoryStore.SoldCount(ctx, id)
	b.reads.Done()
	b.reads.Wait()
	return sold, total, err
}

func TestAtomicIncrement_ConcurrentIncrementsAreNotLost(t *testing.T) {
	repo := memory.NewRepository(seedItems())
	inc := NewAtomicIncrement(repo)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, inc.Increment(context.Background(), "patagonia", 1))
		}()
	}
	wg.Wait()

	require.Equal(t, 7, soldOf(t, repo, "patagonia"))
}

func TestAtomicIncrement_NeverExceedsTotal(t *testing.T) {
	repo := memory.NewRepository(seedItems())
	inc := NewAtomicIncrement(repo)

	var ok, refused atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := inc.Increment(context.Background(), "patagonia", 1)
			switch {
			case err == nil:
				ok.Add(1)
			default:
				assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
				refused.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(5), ok.Load())
	require.Equal(t, int32(15), refused.Load())
	require.Equal(t, 10, soldOf(t, repo, "patagonia"))
}

func TestAtomicIncrement_FreeContributionIsUnbounded(t *testing.T) {
	repo := memory.NewRepository(seedItems())
	inc := NewAtomicIncrement(repo)

	for i := 0; i < 3; i++ {
		require.NoError(t, inc.Increment(context.Background(), domain.FreeContributionID, 1))
	}
	require.Equal(t, 3, soldOf(t, repo, domain.FreeContributionID))
}

func TestReadModifyWriteIncrement_InterleavedReadsLoseAnUpdate(t *testing.T) {
	repo := memory.NewRepository(seedItems())
	store := &barrierStore{InventoryStore: repo}
	store.reads.Add(2)
	inc := NewReadModifyWriteIncrement(store)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, inc.Increment(context.Background(), "patagonia", 1))
		}()
	}
	wg.Wait()

	require.Equal(t, 6, soldOf(t, repo, "patagonia"))
}

func TestFallbackIncrement_DegradesOnlyWhenUnavailable(t *testing.T) {
	repo := memory.NewRepository(seedItems(), memory.WithoutAtomicIncrement())
	inc := NewFallbackIncrement(NewAtomicIncrement(repo), NewReadModifyWriteIncrement(repo), nil)

	require.NoError(t, inc.Increment(context.Background(), "patagonia", 1))
	require.Equal(t, 6, soldOf(t, repo, "patagonia"))

	err := inc.Increment(context.Background(), "missing", 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSelectIncrementer(t *testing.T) {
	ctx := context.Background()

	withAtomic := memory.NewRepository(seedItems())
	require.Equal(t, StrategyAtomic, SelectIncrementer(ctx, withAtomic, false, nil).Strategy())
	require.Equal(t, StrategyAtomicFallback, SelectIncrementer(ctx, withAtomic, true, nil).Strategy())

	withoutAtomic := memory.NewRepository(seedItems(), memory.WithoutAtomicIncrement())
	require.Equal(t, StrategyReadModifyWrite, SelectIncrementer(ctx, withoutAtomic, true, nil).Strategy())

	strict := SelectIncrementer(ctx, withoutAtomic, false, nil)
	require.Equal(t, StrategyAtomic, strict.Strategy())
	require.ErrorIs(t, strict.Increment(ctx, "patagonia", 1), ports.ErrOperationUnavailable)
	require.Equal(t, 5, soldOf(t, withoutAtomic, "patagonia"))
}

func TestIncrement_RejectsNonPositive(t *testing.T) {
	repo := memory.NewRepository(seedItems())
	err := NewAtomicIncrement(repo).Increment(context.Background(), "patagonia", 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidIncrement)
}
