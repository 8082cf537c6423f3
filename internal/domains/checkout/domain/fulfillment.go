package domain

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
)

// CommittedOrder is a persisted order together with the catalog items it was placed for.
type CommittedOrder struct {
	Order Order                `json:"order"`
	Items []catalogdomain.Item `json:"items"`
}

// LineOutcome records the inventory increment of one order line.
type LineOutcome struct {
	ExperienceID string `json:"experienceId"`
	Applied      bool   `json:"applied"`
	Strategy     string `json:"strategy,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HookResult records one post-commit hook run.
type HookResult struct {
	Name      string `json:"name"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// FulfillmentReport collects the outcome of the steps that follow order creation. Failures here
// never undo the order. A pending report means the steps were handed to a durable workflow that had
// not finished when the caller stopped waiting.
type FulfillmentReport struct {
	Inventory  []LineOutcome `json:"inventory"`
	Hooks      []HookResult  `json:"hooks"`
	Pending    bool          `json:"pending,omitempty"`
	WorkflowID string        `json:"workflowId,omitempty"`
}

// InventoryFailures counts lines whose increment did not apply.
func (r FulfillmentReport) InventoryFailures() int {
	failures := 0
	for _, outcome := range r.Inventory {
		if !outcome.Applied {
			failures++
		}
	}
	return failures
}

// NotificationItem is one experience as described in the order emails.
type NotificationItem struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unitPrice,omitempty"`
	FreeContribution bool             `json:"freeContribution"`
}

// Notification is the payload handed to the notification dispatcher.
type Notification struct {
	SessionCode  string             `json:"sessionCode"`
	OrderID      string             `json:"orderId"`
	GuestName    string             `json:"guestName"`
	GuestEmail   string             `json:"guestEmail,omitempty"`
	GuestMessage string             `json:"guestMessage,omitempty"`
	Items        []NotificationItem `json:"items"`
	Total        decimal.Decimal    `json:"total"`
	HasFree      bool               `json:"hasFree"`
}

// NewNotification derives the email payload from a committed order.
func NewNotification(committed CommittedOrder) Notification {
	summary := catalogdomain.Summarize(committed.Items)
	n := Notification{
		SessionCode:  committed.Order.SessionCode,
		OrderID:      committed.Order.ID,
		GuestName:    committed.Order.Guest.Name,
		GuestEmail:   committed.Order.Guest.Email,
		GuestMessage: committed.Order.Guest.Message,
		Items:        make([]NotificationItem, 0, len(committed.Items)),
		Total:        summary.Total,
		HasFree:      summary.HasFree,
	}
	for _, item := range committed.Items {
		n.Items = append(n.Items, NotificationItem{
			ID:               item.ID,
			Title:            item.Title,
			Description:      item.Description,
			UnitPrice:        item.UnitPrice,
			FreeContribution: item.IsFreeContribution(),
		})
	}
	return n
}

// Confirmation is returned to the guest after a successful checkout.
type Confirmation struct {
	Order            Order                 `json:"order"`
	Items            []catalogdomain.Item  `json:"items"`
	Summary          catalogdomain.Summary `json:"summary"`
	Report           FulfillmentReport     `json:"report"`
	FulfillmentError string                `json:"fulfillmentError,omitempty"`
}
