package ports

import (
	"context"
	"time"

	cartdomain "github.com/Apurer/gift-registry/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
)

// Catalog is the part of the catalog service checkout depends on.
type Catalog interface {
	Experiences(ctx context.Context) ([]catalogdomain.Item, error)
	Refresh(ctx context.Context) error
}

// Cart is the part of the cart service checkout depends on.
type Cart interface {
	Get(ctx context.Context, cartID string) (*cartdomain.Cart, error)
	Clear(ctx context.Context, cartID string) error
	SaveLastOrder(ctx context.Context, cartID string, snapshot cartdomain.LastOrder) error
}

// VerifiedOrder is an order looked up by session code, resolved against the catalog.
type VerifiedOrder struct {
	Order     domain.Order
	Items     []catalogdomain.Item
	Summary   catalogdomain.Summary
	CreatedAt time.Time
}

// Service exposes checkout use cases to adapters.
type Service interface {
	Checkout(ctx context.Context, cartID string, guest domain.Guest) (*domain.Confirmation, error)
	VerifyOrder(ctx context.Context, sessionCode string) (*VerifiedOrder, error)
}
