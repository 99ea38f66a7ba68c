// Package theme holds the dark/light display preference, persisted across
// sessions and falling back to the ambient preference on first run.
package theme

import (
	"log/slog"
	"strings"
	"sync"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/kv"
)

// DefaultKey is the storage key holding the bare theme token.
const DefaultKey = "abou3yta.theme"

// Theme is a display theme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse returns the theme named by s. Unknown tokens report false.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	}
	return "", false
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}

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

// WithPreferDark sets the ambient preference consulted when nothing valid
// is persisted.
func WithPreferDark(fn func() bool) Option {
	return func(s *Store) {
		s.preferDark = fn
	}
}

// WithApply sets the hook invoked whenever the theme takes effect.
func WithApply(fn func(Theme)) Option {
	return func(s *Store) {
		s.apply = fn
	}
}

// WithReporter sets the receiver of storage failures.
func WithReporter(fn func(error)) Option {
	return func(s *Store) {
		s.report = fn
	}
}

// Store is the current theme. Safe for concurrent use.
type Store struct {
	storage    kv.Storage
	key        string
	preferDark func() bool
	apply      func(Theme)
	report     func(error)

	// opMu serializes changes so hook calls and writes happen in order.
	opMu sync.Mutex
	mu   sync.RWMutex
	cur  Theme
}

// New resolves the initial theme (persisted value, then ambient
// preference, then light), persists it, and applies it once.
// A nil storage keeps the theme in memory only.
func New(storage kv.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.cur = s.resolve()
	s.applyAndPersist(s.cur)
	return s
}

func (s *Store) resolve() Theme {
	if s.storage != nil {
		raw, ok, err := s.storage.Get(s.key)
		switch {
		case err != nil:
			s.fail("theme_load_failed", sferrors.New(sferrors.ErrCodeStorageUnavailable, "failed to load theme", err))
		case ok:
			if t, valid := Parse(raw); valid {
				return t
			}
			slog.Debug("theme_unknown_token", slog.String("value", raw))
		}
	}
	if s.preferDark != nil && s.preferDark() {
		return Dark
	}
	return Light
}

// Get returns the current theme.
func (s *Store) Get() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// IsDark reports whether the current theme is dark.
func (s *Store) IsDark() bool {
	return s.Get() == Dark
}

// Toggle flips the theme, applies and persists it, and returns it.
func (s *Store) Toggle() Theme {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.cur = s.cur.Opposite()
	next := s.cur
	s.mu.Unlock()

	s.applyAndPersist(next)
	return next
}

// Set makes t current. Unknown values are ignored.
func (s *Store) Set(t Theme) {
	if _, ok := Parse(string(t)); !ok {
		return
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.cur = t
	s.mu.Unlock()

	s.applyAndPersist(t)
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// applyAndPersist runs the hook then writes t. Caller holds s.opMu.
func (s *Store) applyAndPersist(t Theme) {
	if s.apply != nil {
		s.apply(t)
	}
	if s.storage == nil {
		return
	}
	if err := s.storage.Set(s.key, string(t)); err != nil {
		s.fail("theme_persist_failed", sferrors.New(sferrors.ErrCodeStorageWrite, "failed to persist theme", err).
			WithDetail("theme", string(t)))
	}
}

func (s *Store) fail(event string, err *sferrors.Error) {
	slog.Warn(event, sferrors.LogAttrs(err)...)
	if s.report != nil {
		s.report(err)
	}
}
