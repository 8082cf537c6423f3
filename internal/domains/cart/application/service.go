package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/gift-registry/internal/domains/cart/domain"
	"github.com/Apurer/gift-registry/internal/domains/cart/ports"
	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

// Service orchestrates cart use cases. Every mutation is persisted before it returns; concurrent
// writers to the same cart follow last-write-wins.
type Service struct {
	store   ports.Store
	catalog ports.Catalog
}

func NewService(store ports.Store, catalog ports.Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

func (s *Service) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	key, err := cartKey(cartID)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.New(), nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return domain.Decode(data), nil
}

func (s *Service) List(ctx context.Context, cartID string) (*ports.View, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cartID, cart)
}

// Add puts an experience in the cart. Unknown and sold-out experiences are refused; adding an
// experience already in the cart is a no-op.
func (s *Service) Add(ctx context.Context, cartID, itemID string) (*ports.View, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, mapError(domain.ErrEmptyItemID)
	}
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.Has(itemID) {
		return s.view(ctx, cartID, cart)
	}
	item, err := s.catalog.Experience(ctx, itemID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownItem, itemID)
		}
		return nil, err
	}
	if item.IsSoldOut() {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemSoldOut, itemID)
	}
	cart.Add(itemID)
	if err := s.save(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cartID, cart)
}

func (s *Service) Remove(ctx context.Context, cartID, itemID string) (*ports.View, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, mapError(domain.ErrEmptyItemID)
	}
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.Remove(itemID) {
		if err := s.save(ctx, cartID, cart); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, cartID, cart)
}

func (s *Service) Clear(ctx context.Context, cartID string) error {
	key, err := cartKey(cartID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Service) SaveLastOrder(ctx context.Context, cartID string, snapshot domain.LastOrder) error {
	if strings.TrimSpace(cartID) == "" {
		return mapError(domain.ErrEmptyCartID)
	}
	data, err := snapshot.Encode()
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, domain.LastOrderKey(cartID), data); err != nil {
		return fmt.Errorf("save last order: %w", err)
	}
	return nil
}

// LastOrder returns ports.ErrNotFound when no usable snapshot exists.
func (s *Service) LastOrder(ctx context.Context, cartID string) (*domain.LastOrder, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, mapError(domain.ErrEmptyCartID)
	}
	data, err := s.store.Get(ctx, domain.LastOrderKey(cartID))
	if err != nil {
		return nil, err
	}
	snapshot, ok := domain.DecodeLastOrder(data)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &snapshot, nil
}

func (s *Service) save(ctx context.Context, cartID string, cart *domain.Cart) error {
	if err := s.store.Set(ctx, domain.Key(cartID), cart.Encode()); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// view resolves the cart against the catalog snapshot, in catalog order.
func (s *Service) view(ctx context.Context, cartID string, cart *domain.Cart) (*ports.View, error) {
	view := &ports.View{CartID: cartID, IDs: cart.IDs()}
	if cart.IsEmpty() {
		view.Summary = catalogdomain.Summarize(nil)
		return view, nil
	}
	catalog, err := s.catalog.Experiences(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range catalog {
		if cart.Has(item.ID) {
			view.Items = append(view.Items, item)
		}
	}
	view.Summary = catalogdomain.Summarize(view.Items)
	return view, nil
}

func cartKey(cartID string) (string, error) {
	if strings.TrimSpace(cartID) == "" {
		return "", mapError(domain.ErrEmptyCartID)
	}
	return domain.Key(cartID), nil
}

var _ ports.Service = (*Service)(nil)
