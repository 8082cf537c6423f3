package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

var (
	_ ports.Repository     = (*Repository)(nil)
	_ ports.InventoryStore = (*Repository)(nil)
)

// Repository keeps experiences in memory. IncrementSold is serialized by the mutex, which gives it
// the same guarantee as the Postgres stored function.
type Repository struct {
	mu       sync.RWMutex
	items    map[string]domain.Item
	noAtomic bool
	failWith error
}

type Option func(*Repository)

// WithoutAtomicIncrement makes IncrementSold report ports.ErrOperationUnavailable, like a database
// where the increment function was never installed.
func WithoutAtomicIncrement() Option {
	return func(r *Repository) {
		r.noAtomic = true
	}
}

// WithFetchError makes FetchCatalog fail with err.
func WithFetchError(err error) Option {
	return func(r *Repository) {
		r.failWith = err
	}
}

func NewRepository(items []domain.Item, opts ...Option) *Repository {
	r := &Repository{items: make(map[string]domain.Item, len(items))}
	for _, item := range items {
		r.items[item.ID] = item
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Upsert stores or replaces an experience.
func (r *Repository) Upsert(_ context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

// SetFetchError toggles FetchCatalog failures at runtime.
func (r *Repository) SetFetchError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

func (r *Repository) FetchCatalog(_ context.Context) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	list := make([]domain.Item, 0, len(r.items))
	for _, item := range r.items {
		if item.Active {
			list = append(list, item)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].DisplayOrder != list[j].DisplayOrder {
			return list[i].DisplayOrder < list[j].DisplayOrder
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *Repository) Get(_ context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &item, nil
}

func (r *Repository) IncrementSold(_ context.Context, id string, by int, enforceLimit bool) error {
	if r.noAtomic {
		return ports.ErrOperationUnavailable
	}
	if by <= 0 {
		return domain.ErrInvalidIncrement
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return ports.ErrNotFound
	}
	if enforceLimit && item.PackagesSold+by > item.TotalPackages {
		return domain.ErrInsufficientInventory
	}
	item.PackagesSold += by
	r.items[id] = item
	return nil
}

func (r *Repository) SoldCount(_ context.Context, id string) (int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return 0, 0, ports.ErrNotFound
	}
	return item.PackagesSold, item.TotalPackages, nil
}

func (r *Repository) UpdateSoldCount(_ context.Context, id string, newValue int) error {
	if newValue < 0 {
		return domain.ErrNegativePackages
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return ports.ErrNotFound
	}
	item.PackagesSold = newValue
	r.items[id] = item
	return nil
}

func (r *Repository) SupportsAtomicIncrement(_ context.Context) (bool, error) {
	return !r.noAtomic, nil
}
