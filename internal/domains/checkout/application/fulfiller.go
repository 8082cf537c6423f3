package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	catalogports "github.com/Apurer/gift-registry/internal/domains/catalog/ports"
	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/ports"
)

// Fulfiller runs the steps that follow order creation. Each inventory line and each hook is
// independent: a failure is logged and recorded, and the remaining steps still run.
type Fulfiller struct {
	incrementer catalogports.Incrementer
	hooks       []ports.PostCommitHook
	logger      *slog.Logger
}

type FulfillerOption func(*Fulfiller)

func WithFulfillerLogger(logger *slog.Logger) FulfillerOption {
	return func(f *Fulfiller) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithHooks appends post-commit hooks, run in the given order.
func WithHooks(hooks ...ports.PostCommitHook) FulfillerOption {
	return func(f *Fulfiller) {
		for _, hook := range hooks {
			if hook != nil {
				f.hooks = append(f.hooks, hook)
			}
		}
	}
}

func NewFulfiller(incrementer catalogports.Incrementer, opts ...FulfillerOption) *Fulfiller {
	f := &Fulfiller{
		incrementer: incrementer,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *Fulfiller) Fulfill(ctx context.Context, committed domain.CommittedOrder) (domain.FulfillmentReport, error) {
	return domain.FulfillmentReport{
		Inventory: f.IncrementInventory(ctx, committed.Order),
		Hooks:     f.RunHooks(ctx, committed),
	}, nil
}

// IncrementInventory applies one increment per order line.
func (f *Fulfiller) IncrementInventory(ctx context.Context, order domain.Order) []domain.LineOutcome {
	outcomes := make([]domain.LineOutcome, 0, len(order.Lines))
	for _, line := range order.Lines {
		outcome := domain.LineOutcome{ExperienceID: line.ExperienceID}
		if f.incrementer == nil {
			outcome.Error = "inventory incrementer not configured"
			outcomes = append(outcomes, outcome)
			continue
		}
		outcome.Strategy = f.incrementer.Strategy()
		if err := f.incrementer.Increment(ctx, line.ExperienceID, line.PackagesCount); err != nil {
			outcome.Error = err.Error()
			f.logger.ErrorContext(ctx, "inventory increment failed",
				slog.String("order.id", order.ID),
				slog.String("experience.id", line.ExperienceID),
				slog.String("strategy", outcome.Strategy),
				slog.String("error", err.Error()))
		} else {
			outcome.Applied = true
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// RunHooks invokes every post-commit hook, isolating errors and panics.
func (f *Fulfiller) RunHooks(ctx context.Context, committed domain.CommittedOrder) []domain.HookResult {
	results := make([]domain.HookResult, 0, len(f.hooks))
	for _, hook := range f.hooks {
		result := domain.HookResult{Name: hook.Name()}
		if err := runHook(ctx, hook, committed); err != nil {
			result.Error = err.Error()
			f.logger.ErrorContext(ctx, "post-commit hook failed",
				slog.String("order.id", committed.Order.ID),
				slog.String("hook", hook.Name()),
				slog.String("error", err.Error()))
		} else {
			result.Succeeded = true
		}
		results = append(results, result)
	}
	return results
}

func runHook(ctx context.Context, hook ports.PostCommitHook, committed domain.CommittedOrder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return hook.Run(ctx, committed)
}

// NotificationHook dispatches the order emails.
type NotificationHook struct {
	notifier ports.Notifier
}

func NewNotificationHook(notifier ports.Notifier) *NotificationHook {
	return &NotificationHook{notifier: notifier}
}

func (h *NotificationHook) Name() string { return "order-notifications" }

func (h *NotificationHook) Run(ctx context.Context, committed domain.CommittedOrder) error {
	if h.notifier == nil {
		return fmt.Errorf("notifier not configured")
	}
	return h.notifier.SendOrderNotifications(ctx, domain.NewNotification(committed))
}

var (
	_ ports.FulfillmentOrchestrator = (*Fulfiller)(nil)
	_ ports.PostCommitHook          = (*NotificationHook)(nil)
)
