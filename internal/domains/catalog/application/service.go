package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

// Service owns the catalog snapshot. It is loaded once at startup and replaced on Refresh;
// readers always see a complete snapshot.
type Service struct {
	repo      ports.Repository
	imageBase string
	now       func() time.Time

	mu       sync.RWMutex
	items    []domain.Item
	index    map[string]int
	loaded   bool
	loadedAt time.Time
	loadErr  error
}

type Option func(*Service)

// WithImageBaseURL sets the public prefix prepended to bare image file names.
func WithImageBaseURL(base string) Option {
	return func(s *Service) {
		s.imageBase = strings.TrimSpace(base)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, index: map[string]int{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Refresh reloads the snapshot. A failed load keeps the previous snapshot and is reported in Status.
func (s *Service) Refresh(ctx context.Context) error {
	items, err := s.repo.FetchCatalog(ctx)
	if err != nil {
		s.mu.Lock()
		s.loadErr = err
		s.mu.Unlock()
		return fmt.Errorf("fetch catalog: %w", err)
	}
	index := make(map[string]int, len(items))
	snapshot := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if !item.Active {
			continue
		}
		if _, dup := index[item.ID]; dup {
			continue
		}
		item.ImageURL = domain.ImageURL(s.imageBase, item.ImageURL)
		index[item.ID] = len(snapshot)
		snapshot = append(snapshot, item)
	}

	s.mu.Lock()
	s.items = snapshot
	s.index = index
	s.loaded = true
	s.loadedAt = s.now()
	s.loadErr = nil
	s.mu.Unlock()
	return nil
}

// Experiences returns the snapshot in display order.
func (s *Service) Experiences(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, s.unavailableLocked()
	}
	out := make([]domain.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Service) Experience(_ context.Context, id string) (*domain.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, s.unavailableLocked()
	}
	pos, ok := s.index[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	item := s.items[pos]
	return &item, nil
}

func (s *Service) Status(_ context.Context) ports.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := ports.Status{Loaded: s.loaded, ItemCount: len(s.items), LoadedAt: s.loadedAt}
	if s.loadErr != nil {
		status.LastError = s.loadErr.Error()
	}
	return status
}

func (s *Service) unavailableLocked() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %w", ports.ErrCatalogUnavailable, s.loadErr)
	}
	return ports.ErrCatalogUnavailable
}

var _ ports.Service = (*Service)(nil)
