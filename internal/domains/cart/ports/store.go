package ports

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store persists cart state as opaque values under string keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
