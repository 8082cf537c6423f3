package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	cartdomain "github.com/Apurer/gift-registry/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/ports"
)

// Service orchestrates the checkout workflow.
type Service struct {
	orders      ports.OrderRepository
	catalog     ports.Catalog
	cart        ports.Cart
	fulfillment ports.FulfillmentOrchestrator
	codes       *domain.SessionCodeGenerator
	now         func() time.Time
	logger      *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSessionCodes(codes *domain.SessionCodeGenerator) Option {
	return func(s *Service) {
		if codes != nil {
			s.codes = codes
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(orders ports.OrderRepository, catalog ports.Catalog, cart ports.Cart, fulfillment ports.FulfillmentOrchestrator, opts ...Option) *Service {
	s := &Service{
		orders:      orders,
		catalog:     catalog,
		cart:        cart,
		fulfillment: fulfillment,
		codes:       domain.NewSessionCodeGenerator(),
		now:         time.Now,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		inFlight:    map[string]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Checkout turns the cart into an order. Validation and order-creation failures leave the cart
// untouched. Once the order exists, inventory and notification failures are only reported.
func (s *Service) Checkout(ctx context.Context, cartID string, guest domain.Guest) (*domain.Confirmation, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, mapError(cartdomain.ErrEmptyCartID)
	}
	if !s.acquire(cartID) {
		return nil, domain.ErrCheckoutInProgress
	}
	defer s.release(cartID)

	cart, err := s.cart.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, mapError(domain.ErrEmptyCart)
	}
	guest = guest.Normalize()
	if err := guest.Validate(); err != nil {
		return nil, mapError(err)
	}

	items, err := s.resolveItems(ctx, cart.IDs())
	if err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(s.codes.Next(), guest, cart.IDs())
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logger.ErrorContext(ctx, "order creation failed",
			slog.String("session.code", order.SessionCode), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrOrderCreation, err)
	}

	// The order exists from here on; the remaining steps must not stop when the client goes away.
	ctx = context.WithoutCancel(ctx)
	committed := domain.CommittedOrder{Order: *created, Items: items}
	confirmation := &domain.Confirmation{
		Order:   *created,
		Items:   items,
		Summary: catalogdomain.Summarize(items),
	}
	report, err := s.fulfillment.Fulfill(ctx, committed)
	confirmation.Report = report
	if err != nil {
		confirmation.FulfillmentError = err.Error()
		s.logger.ErrorContext(ctx, "order fulfillment did not complete",
			slog.String("order.id", created.ID), slog.String("error", err.Error()))
	}

	s.finish(ctx, cartID, created)
	return confirmation, nil
}

// VerifyOrder looks up the most recent order with sessionCode.
func (s *Service) VerifyOrder(ctx context.Context, sessionCode string) (*ports.VerifiedOrder, error) {
	code := strings.ToUpper(strings.TrimSpace(sessionCode))
	if !domain.IsSessionCode(code) {
		return nil, fmt.Errorf("%w: malformed session code %q", ErrInvalidInput, sessionCode)
	}
	found, err := s.orders.GetBySessionCode(ctx, code)
	if err != nil {
		return nil, err
	}
	order := found.Entity
	catalog, err := s.catalog.Experiences(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalogdomain.Item, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}
	items := make([]catalogdomain.Item, 0, len(order.Lines))
	for _, line := range order.Lines {
		if item, ok := byID[line.ExperienceID]; ok {
			items = append(items, item)
		}
	}
	return &ports.VerifiedOrder{
		Order:     *order,
		Items:     items,
		Summary:   catalogdomain.Summarize(items),
		CreatedAt: found.Metadata.CreatedAt,
	}, nil
}

// resolveItems returns the cart's catalog items in cart order, refusing any that are no longer
// in the catalog or are sold out in the current snapshot.
func (s *Service) resolveItems(ctx context.Context, ids []string) ([]catalogdomain.Item, error) {
	catalog, err := s.catalog.Experiences(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalogdomain.Item, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}
	items := make([]catalogdomain.Item, 0, len(ids))
	var unavailable []string
	for _, id := range ids {
		item, ok := byID[id]
		if !ok || item.IsSoldOut() {
			unavailable = append(unavailable, id)
			continue
		}
		items = append(items, item)
	}
	if len(unavailable) > 0 {
		return nil, &domain.UnavailableError{IDs: unavailable}
	}
	return items, nil
}

// finish stores the last-order snapshot, clears the cart and refreshes the catalog. The order is
// already committed, so failures are logged only.
func (s *Service) finish(ctx context.Context, cartID string, order *domain.Order) {
	snapshot := cartdomain.NewLastOrder(order.SessionCode, s.now(), order.ExperienceIDs(),
		order.Guest.Name, order.Guest.Email, order.Guest.Message)
	if err := s.cart.SaveLastOrder(ctx, cartID, snapshot); err != nil {
		s.logger.WarnContext(ctx, "failed to save last order", slog.String("order.id", order.ID), slog.String("error", err.Error()))
	}
	if err := s.cart.Clear(ctx, cartID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart", slog.String("order.id", order.ID), slog.String("error", err.Error()))
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "catalog refresh after checkout failed", slog.String("error", err.Error()))
	}
}

func (s *Service) acquire(cartID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[cartID]; busy {
		return false
	}
	s.inFlight[cartID] = struct{}{}
	return true
}

func (s *Service) release(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, cartID)
}

var _ ports.Service = (*Service)(nil)
