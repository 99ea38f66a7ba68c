// Package favorites keeps the set of favorited catalog ids, written through
// to durable storage after every change.
//
// The in-memory set is authoritative for the life of the process. Storage
// is read once at construction; failures there, or when writing, are
// logged and reported but never returned to callers.
package favorites

import (
	"log/slog"
	"sync"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/kv"
)

// DefaultKey is the storage key holding the JSON array of ids.
const DefaultKey = "abou3yta.favorites"

// Reporter receives storage failures for observability.
type Reporter func(err error)

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithReporter sets the failure reporter.
func WithReporter(r Reporter) Option {
	return func(s *Store) {
		s.report = r
	}
}

// Store is the favorites set. Safe for concurrent use.
type Store struct {
	storage kv.Storage
	key     string
	report  Reporter

	mu    sync.RWMutex
	ids   map[string]struct{}
	order []string
}

// New creates a store and loads any persisted favorites. A nil storage
// keeps favorites in memory only.
func New(storage kv.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		ids:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// load reads persisted ids. Absent, unreadable, or malformed data leaves
// the set empty.
func (s *Store) load() {
	if s.storage == nil {
		return
	}

	var persisted []string
	found, err := kv.LoadJSON(s.storage, s.key, &persisted)
	if err != nil {
		code := sferrors.ErrCodeStorageUnavailable
		if found {
			code = sferrors.ErrCodeStorageCorrupt
		}
		s.fail("favorites_load_failed", sferrors.New(code, "failed to load favorites", err).
			WithDetail("key", s.key))
		return
	}

	for _, id := range persisted {
		if id == "" {
			continue
		}
		if _, dup := s.ids[id]; dup {
			continue
		}
		s.ids[id] = struct{}{}
		s.order = append(s.order, id)
	}

	slog.Debug("favorites_loaded",
		slog.String("key", s.key),
		slog.Int("count", len(s.order)))
}

// Toggle adds id if absent or removes it if present, persists the set,
// and returns the new membership. The empty id is never a favorite:
// toggling it returns false and writes nothing.
func (s *Store) Toggle(id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.ids[id]
	if present {
		delete(s.ids, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	} else {
		s.ids[id] = struct{}{}
		s.order = append(s.order, id)
	}

	s.persistLocked()
	return !present
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Clear empties the set and persists the empty set.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = make(map[string]struct{})
	s.order = nil
	s.persistLocked()
}

// Count returns the number of favorites.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// All returns the favorite ids in the order they were added.
func (s *Store) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.order...)
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// persistLocked writes the whole set. Caller holds s.mu.
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	ids := s.order
	if ids == nil {
		ids = []string{}
	}
	if err := kv.SaveJSON(s.storage, s.key, ids); err != nil {
		s.fail("favorites_persist_failed", sferrors.New(sferrors.ErrCodeStorageWrite, "failed to persist favorites", err).
			WithDetail("key", s.key))
	}
}

func (s *Store) fail(event string, err *sferrors.Error) {
	slog.Warn(event, sferrors.LogAttrs(err)...)
	if s.report != nil {
		s.report(err)
	}
}
