package badger

import (
	"fmt"
	"log/slog"
	"strings"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// Open opens a badger database at path. An empty path opens an in-memory database.
func Open(path string, logger *slog.Logger) (*badgerdb.DB, error) {
	opts := badgerdb.DefaultOptions(strings.TrimSpace(path))
	if strings.TrimSpace(path) == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(newLogger(logger))
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// logger adapts slog to badger's printf-style Logger.
type logger struct {
	inner *slog.Logger
}

func newLogger(inner *slog.Logger) badgerdb.Logger {
	if inner == nil {
		return nil
	}
	return &logger{inner: inner.With(slog.String("component", "badger"))}
}

func (l *logger) Errorf(format string, args ...any) {
	l.inner.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *logger) Warningf(format string, args ...any) {
	l.inner.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *logger) Infof(format string, args ...any) {
	l.inner.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *logger) Debugf(format string, args ...any) {
	l.inner.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
