package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
)

// ErrCatalogUnavailable is returned while no catalog snapshot could be loaded.
var ErrCatalogUnavailable = errors.New("catalog failed to load")

// Status describes the catalog snapshot held by the service.
type Status struct {
	Loaded    bool
	ItemCount int
	LoadedAt  time.Time
	LastError string
}

// Service exposes catalog use cases to adapters.
type Service interface {
	Experiences(ctx context.Context) ([]domain.Item, error)
	Experience(ctx context.Context, id string) (*domain.Item, error)
	Refresh(ctx context.Context) error
	Status(ctx context.Context) Status
}
