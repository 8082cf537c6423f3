package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/gift-registry/internal/domains/cart/ports"
)

var _ ports.Store = (*Store)(nil)

// Store persists carts in Redis so several API replicas share them.
type Store struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewStore wires a Redis-backed store. A positive ttl sets key expiry on every write.
func NewStore(client goredis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrNotFound
	}
	return value, err
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

func (s *Store) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis cart store not configured")
	}
	return nil
}
