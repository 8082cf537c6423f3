package ports

import (
	"context"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
)

// PostCommitHook runs after an order is committed. A failing hook never fails the checkout.
type PostCommitHook interface {
	Name() string
	Run(ctx context.Context, committed domain.CommittedOrder) error
}

// Notifier sends the order emails: the admin always, the guest when an address was given.
type Notifier interface {
	SendOrderNotifications(ctx context.Context, notification domain.Notification) error
}
