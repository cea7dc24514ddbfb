// Package history keeps the capped, newest-first list of shortening results
// and mirrors it to a key-value storage backend after every mutation.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

// DefaultKey is the storage key holding the serialized history.
const DefaultKey = "shortlink:history"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Storage is a key-value backend. Get returns entity.ErrKeyNotFound for a
// missing key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store is safe for concurrent use. Persistence is best effort: failures are
// logged and reported to the caller but never undo the in-memory change.
type Store struct {
	mu       sync.RWMutex
	storage  Storage
	key      string
	logger   *slog.Logger
	items    []entity.ShortenResult
	lastErr  error
	onChange func([]entity.ShortenResult)
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithOnChange registers a callback run after every mutation with a copy of
// the new sequence. fn runs with the store locked and must not call back into it.
func WithOnChange(fn func([]entity.ShortenResult)) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// New creates an empty Store. Call Load to restore persisted state.
func New(storage Storage, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		logger:  logger,
		items:   []entity.ShortenResult{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load replaces the in-memory sequence with the persisted one. A missing key
// yields an empty history and no error. Unreadable or corrupt data also yields
// an empty history; the failure is returned.
func (s *Store) Load(ctx context.Context) error {
	const op = "history.Store.Load"

	items, err := s.read(ctx)

	s.mu.Lock()
	s.items = items
	s.lastErr = nil
	if err != nil {
		s.lastErr = fmt.Errorf("%s: %w", op, err)
		s.logger.Warn("failed to load history, starting empty", slog.String("op", op), slog.Any("err", err))
	}
	err = s.lastErr
	s.mu.Unlock()

	return err
}

func (s *Store) read(ctx context.Context) ([]entity.ShortenResult, error) {
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, entity.ErrKeyNotFound) {
			return []entity.ShortenResult{}, nil
		}
		return []entity.ShortenResult{}, fmt.Errorf("failed to read history: %w", err)
	}

	var items []entity.ShortenResult
	if err := json.Unmarshal(data, &items); err != nil {
		return []entity.ShortenResult{}, fmt.Errorf("failed to decode history: %w", err)
	}

	if items == nil {
		items = []entity.ShortenResult{}
	}
	if len(items) > entity.HistoryLimit {
		items = items[:entity.HistoryLimit]
	}

	return items, nil
}

// Add prepends result, drops everything beyond entity.HistoryLimit and persists.
func (s *Store) Add(ctx context.Context, result entity.ShortenResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entity.ShortenResult, 0, entity.HistoryLimit)
	items = append(items, result)
	items = append(items, s.items...)
	if len(items) > entity.HistoryLimit {
		items = items[:entity.HistoryLimit]
	}
	s.items = items

	return s.commit(ctx)
}

// Clear empties the history and persists.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []entity.ShortenResult{}

	return s.commit(ctx)
}

// Save writes the current sequence to storage.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx)
}

// Items returns a copy of the history, newest first.
func (s *Store) Items() []entity.ShortenResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Degraded returns the outcome of the last load or save, nil when persistence
// is healthy.
func (s *Store) Degraded() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastErr
}

// commit must be called with mu held.
func (s *Store) commit(ctx context.Context) error {
	err := s.save(ctx)

	if s.onChange != nil {
		s.onChange(s.snapshot())
	}

	return err
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context) error {
	const op = "history.Store.Save"

	data, err := json.Marshal(s.items)
	if err == nil {
		err = s.storage.Put(ctx, s.key, data)
	}

	if err != nil {
		s.lastErr = fmt.Errorf("%s: failed to persist history: %w", op, err)
		s.logger.Warn("failed to persist history", slog.String("op", op), slog.Any("err", err))
		return s.lastErr
	}

	s.lastErr = nil

	return nil
}

func (s *Store) snapshot() []entity.ShortenResult {
	items := make([]entity.ShortenResult, len(s.items))
	copy(items, s.items)
	return items
}
