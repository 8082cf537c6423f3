package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	checkoutactivities "github.com/Apurer/gift-registry/internal/platform/temporal/activities/checkout"
)

// RunFulfillmentSequence increments inventory and then runs the post-commit hooks. Activities are
// not retried: a repeated increment would oversell and a repeated hook would send duplicate email.
func RunFulfillmentSequence(ctx workflow.Context, committed domain.CommittedOrder) domain.FulfillmentReport {
	logger := workflow.GetLogger(ctx)
	orderID := committed.Order.ID
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var report domain.FulfillmentReport
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.IncrementInventoryActivityName, committed.Order).Get(ctx, &report.Inventory); err != nil {
		logger.Error("fulfillment sequence inventory step failed", "orderId", orderID, "error", err)
		report.Inventory = failedLines(committed.Order, err)
	}
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.RunPostCommitHooksActivityName, committed).Get(ctx, &report.Hooks); err != nil {
		logger.Error("fulfillment sequence hooks step failed", "orderId", orderID, "error", err)
		report.Hooks = []domain.HookResult{{Name: "post-commit-hooks", Error: err.Error()}}
	}
	logger.Info("fulfillment sequence completed", "orderId", orderID, "inventoryFailures", report.InventoryFailures())
	return report
}

func failedLines(order domain.Order, err error) []domain.LineOutcome {
	outcomes := make([]domain.LineOutcome, 0, len(order.Lines))
	for _, line := range order.Lines {
		outcomes = append(outcomes, domain.LineOutcome{ExperienceID: line.ExperienceID, Error: err.Error()})
	}
	return outcomes
}
