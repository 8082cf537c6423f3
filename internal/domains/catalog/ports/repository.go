package ports

import (
	"context"
	"errors"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("experience not found")
	// ErrOperationUnavailable signals the store has no atomic increment primitive installed.
	ErrOperationUnavailable = errors.New("atomic increment operation unavailable")
)

// Repository reads the catalog from the source of truth.
type Repository interface {
	// FetchCatalog returns active experiences sorted by display order.
	FetchCatalog(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
}

// InventoryStore mutates the packages_sold counters.
type InventoryStore interface {
	// IncrementSold adds `by` to packages_sold in a single serialized step. When enforceLimit is set the
	// increment is refused with domain.ErrInsufficientInventory if it would exceed total_packages.
	IncrementSold(ctx context.Context, id string, by int, enforceLimit bool) error
	// SoldCount reads the counters used by the read-modify-write path.
	SoldCount(ctx context.Context, id string) (sold int, total int, err error)
	// UpdateSoldCount overwrites packages_sold.
	UpdateSoldCount(ctx context.Context, id string, newValue int) error
	// SupportsAtomicIncrement probes whether IncrementSold is usable.
	SupportsAtomicIncrement(ctx context.Context) (bool, error)
}
