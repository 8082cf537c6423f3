package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/gift-registry/internal/domains/cart/ports"
)

var _ ports.Store = (*Store)(nil)

// sweepEvery is the number of writes between full passes over expired entries.
const sweepEvery = 256

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store is an in-memory cart store with optional expiry.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	writes  int
}

type Option func(*Store)

// WithTTL expires entries ttl after their last write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{entries: map[string]entry{}, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns the value under key. An expired entry is removed on the way out.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ports.ErrNotFound
	}
	if s.expired(e, s.now()) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && s.expired(current, s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	e := entry{value: append([]byte(nil), value...)}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	s.writes++
	if s.ttl > 0 && s.writes%sweepEvery == 0 {
		s.sweepLocked()
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Sweep drops every expired entry. Set calls it periodically; callers may run it on a ticker.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
}

// Len counts stored entries, expired ones included until they are swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) sweepLocked() {
	now := s.now()
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
		}
	}
}

func (s *Store) expired(e entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
