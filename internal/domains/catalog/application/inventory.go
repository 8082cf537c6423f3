package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

const (
	StrategyAtomic          = "atomic"
	StrategyReadModifyWrite = "read-modify-write"
	StrategyAtomicFallback  = "atomic-with-fallback"
)

// AtomicIncrement delegates the increment to the store's serialized primitive. The store refuses
// increments past total_packages for every item except the free contribution.
type AtomicIncrement struct {
	store ports.InventoryStore
}

func NewAtomicIncrement(store ports.InventoryStore) *AtomicIncrement {
	return &AtomicIncrement{store: store}
}

func (a *AtomicIncrement) Increment(ctx context.Context, id string, by int) error {
	if by <= 0 {
		return mapError(domain.ErrInvalidIncrement)
	}
	return a.store.IncrementSold(ctx, id, by, !domain.IsFreeContribution(id))
}

func (a *AtomicIncrement) Strategy() string { return StrategyAtomic }

// ReadModifyWriteIncrement reads the counter and writes it back incremented. Two callers that both
// read before either writes lose one update; it is only used when the atomic primitive is missing.
type ReadModifyWriteIncrement struct {
	store ports.InventoryStore
}

func NewReadModifyWriteIncrement(store ports.InventoryStore) *ReadModifyWriteIncrement {
	return &ReadModifyWriteIncrement{store: store}
}

func (r *ReadModifyWriteIncrement) Increment(ctx context.Context, id string, by int) error {
	if by <= 0 {
		return mapError(domain.ErrInvalidIncrement)
	}
	sold, total, err := r.store.SoldCount(ctx, id)
	if err != nil {
		return fmt.Errorf("read packages sold: %w", err)
	}
	item := domain.Item{ID: id, TotalPackages: total, PackagesSold: sold}
	if err := item.CanSell(by); err != nil {
		return err
	}
	if err := r.store.UpdateSoldCount(ctx, id, sold+by); err != nil {
		return fmt.Errorf("write packages sold: %w", err)
	}
	return nil
}

func (r *ReadModifyWriteIncrement) Strategy() string { return StrategyReadModifyWrite }

// FallbackIncrement tries the atomic path and degrades to read-modify-write only when the store
// reports the atomic operation as unavailable.
type FallbackIncrement struct {
	primary   ports.Incrementer
	secondary ports.Incrementer
	logger    *slog.Logger
}

func NewFallbackIncrement(primary, secondary ports.Incrementer, logger *slog.Logger) *FallbackIncrement {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FallbackIncrement{primary: primary, secondary: secondary, logger: logger}
}

func (f *FallbackIncrement) Increment(ctx context.Context, id string, by int) error {
	err := f.primary.Increment(ctx, id, by)
	if err == nil || !errors.Is(err, ports.ErrOperationUnavailable) {
		return err
	}
	f.logger.WarnContext(ctx, "atomic increment unavailable, using read-modify-write",
		slog.String("experience.id", id), slog.Int("increment_by", by))
	return f.secondary.Increment(ctx, id, by)
}

func (f *FallbackIncrement) Strategy() string { return StrategyAtomicFallback }

// SelectIncrementer probes the store once and picks the increment path. Without allowFallback the
// atomic path is always used, so a missing primitive surfaces as a per-item failure rather than a
// silent lost-update window.
func SelectIncrementer(ctx context.Context, store ports.InventoryStore, allowFallback bool, logger *slog.Logger) ports.Incrementer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	atomic := NewAtomicIncrement(store)
	rmw := NewReadModifyWriteIncrement(store)

	supported, err := store.SupportsAtomicIncrement(ctx)
	if err != nil {
		logger.WarnContext(ctx, "atomic increment probe failed", slog.String("error", err.Error()))
		supported = true
	}
	switch {
	case supported && allowFallback:
		logger.InfoContext(ctx, "inventory strategy selected", slog.String("strategy", StrategyAtomicFallback))
		return NewFallbackIncrement(atomic, rmw, logger)
	case supported:
		logger.InfoContext(ctx, "inventory strategy selected", slog.String("strategy", StrategyAtomic))
		return atomic
	case allowFallback:
		logger.WarnContext(ctx, "atomic increment not installed, inventory updates may race",
			slog.String("strategy", StrategyReadModifyWrite))
		return rmw
	default:
		logger.ErrorContext(ctx, "atomic increment not installed and fallback disabled, inventory updates will fail",
			slog.String("strategy", StrategyAtomic))
		return atomic
	}
}

var (
	_ ports.Incrementer = (*AtomicIncrement)(nil)
	_ ports.Incrementer = (*ReadModifyWriteIncrement)(nil)
	_ ports.Incrementer = (*FallbackIncrement)(nil)
)
