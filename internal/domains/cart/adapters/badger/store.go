package badger

import (
	"context"
	"errors"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/Apurer/gift-registry/internal/domains/cart/ports"
)

var _ ports.Store = (*Store)(nil)

// Store persists carts in an embedded badger database. Caller manages DB lifecycle.
type Store struct {
	db  *badgerdb.DB
	ttl time.Duration
}

// NewStore wires a badger-backed store. A positive ttl expires entries after their last write.
func NewStore(db *badgerdb.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, ports.ErrNotFound
	}
	return value, err
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(key), value)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (s *Store) Delete(_ context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("badger cart store not configured")
	}
	return nil
}
