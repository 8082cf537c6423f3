package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/gift-registry/internal/domains/cart/ports"
)

func TestStore_EntriesExpire(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	store := NewStore(WithTTL(time.Minute), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(value))

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Zero(t, store.Len())
}

func TestStore_WritesSweepAbandonedCarts(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	store := NewStore(WithTTL(time.Minute), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for i := 0; i < sweepEvery-1; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("gift_cart_v1:%d", i), []byte("[]")))
	}
	require.Equal(t, sweepEvery-1, store.Len())

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Set(ctx, "gift_cart_v1:fresh", []byte(`["x"]`)))
	require.Equal(t, 1, store.Len())
}

func TestStore_SweepKeepsLiveEntries(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	store := NewStore(WithTTL(time.Minute), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "old", []byte("a")))
	now = now.Add(30 * time.Second)
	require.NoError(t, store.Set(ctx, "new", []byte("b")))
	now = now.Add(45 * time.Second)

	store.Sweep()
	require.Equal(t, 1, store.Len())
	_, err := store.Get(ctx, "new")
	require.NoError(t, err)
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	input := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", input))
	input[0] = 'x'

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(value))
}
