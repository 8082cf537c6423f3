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

	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
	return s
}

func (s *Service) Experiences(ctx context.Context) ([]catalogdomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Experiences")
	defer span.End()

	items, err := s.inner.Experiences(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list experiences")
	}
	span.SetAttributes(attribute.Int("catalog.items", len(items)))
	return items, nil
}

func (s *Service) Experience(ctx context.Context, id string) (*catalogdomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Experience", trace.WithAttributes(attribute.String("experience.id", id)))
	defer span.End()

	item, err := s.inner.Experience(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load experience", slog.String("experience.id", id))
	}
	return item, nil
}

func (s *Service) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Refresh")
	defer span.End()

	if err := s.inner.Refresh(ctx); err != nil {
		s.metrics.recordRefresh(ctx, false)
		return s.handleError(ctx, span, err, "catalog refresh failed")
	}
	s.metrics.recordRefresh(ctx, true)
	status := s.inner.Status(ctx)
	span.SetAttributes(attribute.Int("catalog.items", status.ItemCount))
	s.logInfo(ctx, "catalog refreshed", slog.Int("catalog.items", status.ItemCount))
	return nil
}

func (s *Service) Status(ctx context.Context) catalogports.Status {
	return s.inner.Status(ctx)
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

type serviceMetrics struct {
	refreshes metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	refreshes, _ := m.Int64Counter("catalog.refreshes", metric.WithDescription("Number of catalog refresh attempts"))
	return serviceMetrics{refreshes: refreshes}
}

func (m serviceMetrics) recordRefresh(ctx context.Context, ok bool) {
	if m.refreshes != nil {
		m.refreshes.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", ok)))
	}
}

var _ catalogports.Service = (*Service)(nil)
