package checkout

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/platform/temporal/sequences"
)

const (
	// FulfillmentWorkflowName is the public identifier for registering the workflow.
	FulfillmentWorkflowName = "checkout.workflows.Fulfillment"
	// FulfillmentTaskQueue is the queue consumed by the worker processing fulfillment workflows.
	FulfillmentTaskQueue = "CHECKOUT_FULFILLMENT"
)

// FulfillmentWorkflowInput carries the committed order to fulfill.
type FulfillmentWorkflowInput struct {
	Committed domain.CommittedOrder
	TraceID   string
}

// RegisterOptions names the workflow for worker registration.
func RegisterOptions() workflow.RegisterOptions {
	return workflow.RegisterOptions{Name: FulfillmentWorkflowName}
}

// FulfillmentWorkflow runs the post-order steps of one committed order.
func FulfillmentWorkflow(ctx workflow.Context, input FulfillmentWorkflowInput) (domain.FulfillmentReport, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Committed.Order.ID
	logger.Info("FulfillmentWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	report := sequences.RunFulfillmentSequence(ctx, input.Committed)
	logger.Info("FulfillmentWorkflow completed", withTraceID(input.TraceID, "orderId", orderID)...)
	return report, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
