package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/ports"
)

const tracerName = "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Checkout places an order with instrumentation.
func (s *Service) Checkout(ctx context.Context, cartID string, guest domain.Guest) (*domain.Confirmation, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Checkout", trace.WithAttributes(attribute.String("cart.id", cartID)))
	defer span.End()

	confirmation, err := s.inner.Checkout(ctx, cartID, guest)
	if err != nil {
		s.metrics.recordRejected(ctx)
		return nil, s.handleError(ctx, span, err, "checkout failed", slog.String("cart.id", cartID))
	}
	failures := confirmation.Report.InventoryFailures()
	s.metrics.recordCreated(ctx, len(confirmation.Order.Lines), failures)
	span.SetAttributes(
		attribute.String("order.id", confirmation.Order.ID),
		attribute.String("session.code", confirmation.Order.SessionCode),
		attribute.Int("order.lines", len(confirmation.Order.Lines)),
		attribute.Int("inventory.failures", failures),
	)
	if failures > 0 || confirmation.FulfillmentError != "" {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order placed with fulfillment problems",
			slog.String("order.id", confirmation.Order.ID),
			slog.Int("inventory.failures", failures),
			slog.String("fulfillment.error", confirmation.FulfillmentError))
	} else {
		s.logInfo(ctx, "order placed",
			slog.String("order.id", confirmation.Order.ID),
			slog.String("session.code", confirmation.Order.SessionCode))
	}
	return confirmation, nil
}

// VerifyOrder looks up an order by session code with instrumentation.
func (s *Service) VerifyOrder(ctx context.Context, sessionCode string) (*ports.VerifiedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.VerifyOrder", trace.WithAttributes(attribute.String("session.code", sessionCode)))
	defer span.End()

	verified, err := s.inner.VerifyOrder(ctx, sessionCode)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "order verification failed", slog.String("session.code", sessionCode))
	}
	span.SetAttributes(attribute.String("order.id", verified.Order.ID))
	return verified, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	created           metric.Int64Counter
	rejected          metric.Int64Counter
	inventoryFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("checkout.orders_created", metric.WithDescription("Number of orders placed"))
	rejected, _ := m.Int64Counter("checkout.orders_rejected", metric.WithDescription("Number of checkouts that did not produce an order"))
	failures, _ := m.Int64Counter("checkout.inventory_failures", metric.WithDescription("Number of order lines whose inventory increment failed"))
	return serviceMetrics{created: created, rejected: rejected, inventoryFailures: failures}
}

func (m serviceMetrics) recordCreated(ctx context.Context, lines, failures int) {
	if m.created != nil {
		m.created.Add(ctx, 1, metric.WithAttributes(attribute.Int("order.lines", lines)))
	}
	if m.inventoryFailures != nil && failures > 0 {
		m.inventoryFailures.Add(ctx, int64(failures))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
