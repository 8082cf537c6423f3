package mapper

import (
	"time"

	catalogmapper "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/ports"
)

// CheckoutRequest is the checkout form body.
type CheckoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ToGuest converts the request into the domain guest.
func (r CheckoutRequest) ToGuest() domain.Guest {
	return domain.Guest{Name: r.Name, Email: r.Email, Message: r.Message}
}

// Line is one order line.
type Line struct {
	ExperienceID  string `json:"experienceId"`
	PackagesCount int    `json:"packagesCount"`
}

// Order is the HTTP representation of a persisted order.
type Order struct {
	ID            string    `json:"id"`
	SessionCode   string    `json:"sessionCode"`
	GuestName     string    `json:"guestName"`
	GuestEmail    string    `json:"guestEmail,omitempty"`
	GuestMessage  string    `json:"guestMessage,omitempty"`
	Lines         []Line    `json:"lines"`
	TotalPackages int       `json:"totalPackages"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Fulfillment reports what happened after the order was written.
type Fulfillment struct {
	InventoryFailures int                  `json:"inventoryFailures"`
	Inventory         []domain.LineOutcome `json:"inventory"`
	Notifications     []domain.HookResult  `json:"notifications"`
	Pending           bool                 `json:"pending,omitempty"`
	Error             string               `json:"error,omitempty"`
}

// Confirmation is the checkout response body.
type Confirmation struct {
	SessionCode string                     `json:"sessionCode"`
	OrderID     string                     `json:"orderId"`
	Order       Order                      `json:"order"`
	Items       []catalogmapper.Experience `json:"items"`
	Summary     catalogmapper.Summary      `json:"summary"`
	Fulfillment Fulfillment                `json:"fulfillment"`
}

// VerifiedOrder is the order verification response body.
type VerifiedOrder struct {
	Order   Order                      `json:"order"`
	Items   []catalogmapper.Experience `json:"items"`
	Summary catalogmapper.Summary      `json:"summary"`
}

// FromDomainOrder maps an order.
func FromDomainOrder(order domain.Order) Order {
	lines := make([]Line, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, Line{ExperienceID: line.ExperienceID, PackagesCount: line.PackagesCount})
	}
	return Order{
		ID:            order.ID,
		SessionCode:   order.SessionCode,
		GuestName:     order.Guest.Name,
		GuestEmail:    order.Guest.Email,
		GuestMessage:  order.Guest.Message,
		Lines:         lines,
		TotalPackages: order.TotalPackages,
		CreatedAt:     order.CreatedAt,
	}
}

// FromConfirmation maps the checkout result.
func FromConfirmation(c *domain.Confirmation) Confirmation {
	if c == nil {
		return Confirmation{}
	}
	inventory := c.Report.Inventory
	if inventory == nil {
		inventory = []domain.LineOutcome{}
	}
	hooks := c.Report.Hooks
	if hooks == nil {
		hooks = []domain.HookResult{}
	}
	return Confirmation{
		SessionCode: c.Order.SessionCode,
		OrderID:     c.Order.ID,
		Order:       FromDomainOrder(c.Order),
		Items:       catalogmapper.FromDomainItems(c.Items),
		Summary:     catalogmapper.FromDomainSummary(c.Summary),
		Fulfillment: Fulfillment{
			InventoryFailures: c.Report.InventoryFailures(),
			Inventory:         inventory,
			Notifications:     hooks,
			Pending:           c.Report.Pending,
			Error:             c.FulfillmentError,
		},
	}
}

// FromVerifiedOrder maps an order found by session code.
func FromVerifiedOrder(v *ports.VerifiedOrder) VerifiedOrder {
	if v == nil {
		return VerifiedOrder{}
	}
	order := FromDomainOrder(v.Order)
	if order.CreatedAt.IsZero() {
		order.CreatedAt = v.CreatedAt
	}
	return VerifiedOrder{
		Order:   order,
		Items:   catalogmapper.FromDomainItems(v.Items),
		Summary: catalogmapper.FromDomainSummary(v.Summary),
	}
}
