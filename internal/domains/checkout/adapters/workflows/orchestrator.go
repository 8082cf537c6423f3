package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/ports"
	checkoutworkflows "github.com/Apurer/gift-registry/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.FulfillmentOrchestrator = (*TemporalFulfillment)(nil)
	_ ports.FulfillmentOrchestrator = (*InlineFulfillment)(nil)
)

const (
	defaultStartTimeout     = 5 * time.Second
	defaultResultTimeout    = 10 * time.Second
	defaultExecutionTimeout = 24 * time.Hour
)

// TemporalFulfillment runs order fulfillment as a Temporal workflow.
type TemporalFulfillment struct {
	client           client.Client
	taskQueue        string
	fallback         ports.FulfillmentOrchestrator
	startTimeout     time.Duration
	resultTimeout    time.Duration
	executionTimeout time.Duration
	logger           *slog.Logger
}

type TemporalOption func(*TemporalFulfillment)

// WithFallback runs fulfillment through fallback when the workflow cannot be started.
func WithFallback(fallback ports.FulfillmentOrchestrator) TemporalOption {
	return func(o *TemporalFulfillment) {
		o.fallback = fallback
	}
}

// WithResultTimeout bounds how long Fulfill waits for the workflow report before returning a
// pending one. The workflow keeps running after that.
func WithResultTimeout(d time.Duration) TemporalOption {
	return func(o *TemporalFulfillment) {
		if d > 0 {
			o.resultTimeout = d
		}
	}
}

// WithStartTimeout bounds the start request sent to the Temporal frontend.
func WithStartTimeout(d time.Duration) TemporalOption {
	return func(o *TemporalFulfillment) {
		if d > 0 {
			o.startTimeout = d
		}
	}
}

// WithExecutionTimeout limits how long a started workflow may wait for a worker and run.
func WithExecutionTimeout(d time.Duration) TemporalOption {
	return func(o *TemporalFulfillment) {
		if d > 0 {
			o.executionTimeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) TemporalOption {
	return func(o *TemporalFulfillment) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewTemporalFulfillment wires a Temporal client into the orchestrator.
func NewTemporalFulfillment(c client.Client, opts ...TemporalOption) *TemporalFulfillment {
	o := &TemporalFulfillment{
		client:           c,
		taskQueue:        checkoutworkflows.FulfillmentTaskQueue,
		startTimeout:     defaultStartTimeout,
		resultTimeout:    defaultResultTimeout,
		executionTimeout: defaultExecutionTimeout,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Fulfill starts the workflow and waits a bounded time for its report. The workflow id is derived
// from the order id, so an order that is already being fulfilled is joined rather than started
// twice. Both waits run on a context detached from the caller: the order already exists.
func (o *TemporalFulfillment) Fulfill(ctx context.Context, committed domain.CommittedOrder) (domain.FulfillmentReport, error) {
	var report domain.FulfillmentReport
	if o == nil || o.client == nil {
		return report, errors.New("temporal fulfillment not configured")
	}
	ctx = context.WithoutCancel(ctx)
	workflowID := BuildWorkflowID(committed.Order.ID)
	options := client.StartWorkflowOptions{
		ID:                       workflowID,
		TaskQueue:                o.taskQueue,
		WorkflowExecutionTimeout: o.executionTimeout,
	}

	startCtx, cancelStart := context.WithTimeout(ctx, o.startTimeout)
	run, err := o.client.ExecuteWorkflow(
		startCtx,
		options,
		checkoutworkflows.FulfillmentWorkflowName,
		checkoutworkflows.FulfillmentWorkflowInput{Committed: committed, TraceID: workflowTraceID(ctx)},
	)
	cancelStart()
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return o.startFailed(ctx, committed, workflowID, err)
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, o.resultTimeout)
	defer cancelWait()
	if err := run.Get(waitCtx, &report); err != nil {
		if waitCtx.Err() != nil {
			o.logger.WarnContext(ctx, "fulfillment workflow still running, returning pending report",
				slog.String("workflow.id", workflowID), slog.Duration("waited", o.resultTimeout))
			return domain.FulfillmentReport{Pending: true, WorkflowID: workflowID}, nil
		}
		return report, err
	}
	report.WorkflowID = workflowID
	return report, nil
}

func (o *TemporalFulfillment) startFailed(ctx context.Context, committed domain.CommittedOrder, workflowID string, cause error) (domain.FulfillmentReport, error) {
	if o.fallback == nil {
		return domain.FulfillmentReport{}, fmt.Errorf("start fulfillment workflow: %w", cause)
	}
	o.logger.WarnContext(ctx, "fulfillment workflow could not start, running inline",
		slog.String("workflow.id", workflowID), slog.String("error", cause.Error()))
	return o.fallback.Fulfill(ctx, committed)
}

// InlineFulfillment runs the fulfiller in-process, for tests or when Temporal is unreachable.
type InlineFulfillment struct {
	fulfiller ports.FulfillmentOrchestrator
}

// NewInlineFulfillment wraps the application fulfiller for synchronous execution.
func NewInlineFulfillment(fulfiller ports.FulfillmentOrchestrator) *InlineFulfillment {
	return &InlineFulfillment{fulfiller: fulfiller}
}

// Fulfill runs on a context detached from the caller so a disconnecting client cannot cut the
// steps short.
func (o *InlineFulfillment) Fulfill(ctx context.Context, committed domain.CommittedOrder) (domain.FulfillmentReport, error) {
	if o == nil || o.fulfiller == nil {
		return domain.FulfillmentReport{}, errors.New("inline fulfillment not configured")
	}
	return o.fulfiller.Fulfill(context.WithoutCancel(ctx), committed)
}

// BuildWorkflowID names the fulfillment workflow of an order.
func BuildWorkflowID(orderID string) string {
	return fmt.Sprintf("checkout-fulfillment-%s", orderID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
