package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/ports"
	"github.com/Apurer/gift-registry/internal/shared/projection"
)

var _ ports.OrderRepository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := cloneOrder(order)
	clone.ID = uuid.NewString()
	clone.CreatedAt = r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, clone)
	return cloneOrder(clone), nil
}

func (r *Repository) GetBySessionCode(_ context.Context, code string) (*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].SessionCode == code {
			order := cloneOrder(r.orders[i])
			return projection.Of(order, order.CreatedAt), nil
		}
	}
	return nil, ports.ErrNotFound
}

// Len reports how many orders were created.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.Line(nil), order.Lines...)
	return &clone
}
