package mapper

import (
	"time"

	cartdomain "github.com/Apurer/gift-registry/internal/domains/cart/domain"
	"github.com/Apurer/gift-registry/internal/domains/cart/ports"
	catalogmapper "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/http/mapper"
)

// Cart is the HTTP representation of a cart resolved against the catalog.
type Cart struct {
	CartID  string                     `json:"cartId"`
	IDs     []string                   `json:"ids"`
	Items   []catalogmapper.Experience `json:"items"`
	Summary catalogmapper.Summary      `json:"summary"`
}

// LastOrder is the HTTP representation of the last-order snapshot.
type LastOrder struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	Items     []string  `json:"items"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// FromView maps a resolved cart view.
func FromView(view *ports.View) Cart {
	if view == nil {
		return Cart{IDs: []string{}, Items: []catalogmapper.Experience{}}
	}
	ids := append([]string{}, view.IDs...)
	return Cart{
		CartID:  view.CartID,
		IDs:     ids,
		Items:   catalogmapper.FromDomainItems(view.Items),
		Summary: catalogmapper.FromDomainSummary(view.Summary),
	}
}

// FromLastOrder maps a last-order snapshot.
func FromLastOrder(snapshot *cartdomain.LastOrder) LastOrder {
	if snapshot == nil {
		return LastOrder{}
	}
	return LastOrder{
		Code:      snapshot.Code,
		CreatedAt: snapshot.CreatedAt(),
		Items:     append([]string{}, snapshot.Items...),
		Name:      snapshot.Name,
		Email:     snapshot.Email,
		Message:   snapshot.Message,
	}
}
