package ports

import (
	"context"

	cartdomain "github.com/Apurer/gift-registry/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
)

// Catalog is the read side of the catalog the cart validates against.
type Catalog interface {
	Experiences(ctx context.Context) ([]catalogdomain.Item, error)
	Experience(ctx context.Context, id string) (*catalogdomain.Item, error)
}

// View is a cart resolved against the catalog.
type View struct {
	CartID  string
	IDs     []string
	Items   []catalogdomain.Item
	Summary catalogdomain.Summary
}

// Service exposes cart use cases to adapters.
type Service interface {
	Get(ctx context.Context, cartID string) (*cartdomain.Cart, error)
	List(ctx context.Context, cartID string) (*View, error)
	Add(ctx context.Context, cartID, itemID string) (*View, error)
	Remove(ctx context.Context, cartID, itemID string) (*View, error)
	Clear(ctx context.Context, cartID string) error
	SaveLastOrder(ctx context.Context, cartID string, snapshot cartdomain.LastOrder) error
	LastOrder(ctx context.Context, cartID string) (*cartdomain.LastOrder, error)
}
