package ports

import (
	"context"
	"errors"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/shared/projection"
)

var ErrNotFound = errors.New("order not found")

// OrderRepository persists orders. Create assigns the order id and creation time and writes the
// order with its lines atomically.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// GetBySessionCode returns the most recent order carrying code.
	GetBySessionCode(ctx context.Context, code string) (*projection.Projection[*domain.Order], error)
}
