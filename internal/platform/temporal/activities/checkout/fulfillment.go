package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
)

const (
	// IncrementInventoryActivityName applies one inventory increment per order line.
	IncrementInventoryActivityName = "checkout.activities.IncrementInventory"
	// RunPostCommitHooksActivityName runs the notification hooks of a committed order.
	RunPostCommitHooksActivityName = "checkout.activities.RunPostCommitHooks"
)

// Fulfiller is implemented by the checkout application fulfiller.
type Fulfiller interface {
	IncrementInventory(ctx context.Context, order domain.Order) []domain.LineOutcome
	RunHooks(ctx context.Context, committed domain.CommittedOrder) []domain.HookResult
}

// Activities groups the activities that fulfill a committed order.
type Activities struct {
	fulfiller Fulfiller
}

func NewActivities(fulfiller Fulfiller) *Activities {
	return &Activities{fulfiller: fulfiller}
}

// IncrementInventory records per-line outcomes; a failed line does not fail the activity.
func (a *Activities) IncrementInventory(ctx context.Context, order domain.Order) ([]domain.LineOutcome, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.fulfiller == nil {
		logger.Error("inventory activity not initialized", "orderId", order.ID)
		return nil, errors.New("inventory activity not initialized")
	}
	logger.Info("IncrementInventory activity started", "orderId", order.ID, "lines", len(order.Lines))
	outcomes := a.fulfiller.IncrementInventory(ctx, order)
	logger.Info("IncrementInventory activity completed", "orderId", order.ID)
	return outcomes, nil
}

// RunPostCommitHooks records per-hook results; a failed hook does not fail the activity.
func (a *Activities) RunPostCommitHooks(ctx context.Context, committed domain.CommittedOrder) ([]domain.HookResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.fulfiller == nil {
		logger.Error("hooks activity not initialized", "orderId", committed.Order.ID)
		return nil, errors.New("hooks activity not initialized")
	}
	logger.Info("RunPostCommitHooks activity started", "orderId", committed.Order.ID)
	results := a.fulfiller.RunHooks(ctx, committed)
	logger.Info("RunPostCommitHooks activity completed", "orderId", committed.Order.ID)
	return results, nil
}
