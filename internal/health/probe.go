// Package health reports whether durable storage is usable and what it
// currently holds, polling on an interval.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/storefront/internal/debounce"
	"github.com/Aman-CERP/storefront/internal/favorites"
	"github.com/Aman-CERP/storefront/internal/kv"
	"github.com/Aman-CERP/storefront/internal/theme"
)

const (
	// DefaultInterval is the poll period.
	DefaultInterval = time.Second

	// DefaultProbeKey is written and removed to test writability.
	DefaultProbeKey = "__storefront_probe__"

	// watchSettle coalesces bursts of file events into one refresh.
	watchSettle = 50 * time.Millisecond
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("probe already started")

// Snapshot is one observation of durable storage.
type Snapshot struct {
	Writable       bool        `json:"writable"`
	FavoritesCount int         `json:"favorites_count"`
	Theme          theme.Theme `json:"theme"`
	CheckedAt      time.Time   `json:"checked_at"`
}

// Config configures a Probe. Zero values use defaults.
type Config struct {
	Interval     time.Duration
	ProbeKey     string
	FavoritesKey string
	ThemeKey     string

	// WatchPath, when set, is the storage file to watch for changes made
	// by other processes. Changes trigger an immediate read-only refresh.
	WatchPath string

	// OnSnapshot is called after every observation.
	OnSnapshot func(Snapshot)
}

func (c *Config) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.ProbeKey == "" {
		c.ProbeKey = DefaultProbeKey
	}
	if c.FavoritesKey == "" {
		c.FavoritesKey = favorites.DefaultKey
	}
	if c.ThemeKey == "" {
		c.ThemeKey = theme.DefaultKey
	}
}

// Probe polls durable storage. Safe for concurrent use.
type Probe struct {
	storage kv.Storage
	cfg     Config

	mu      sync.RWMutex
	last    Snapshot
	started bool
	stopped bool
	stopCh  chan struct{}
}

// NewProbe creates a probe over storage. A nil storage is never writable.
func NewProbe(storage kv.Storage, cfg Config) *Probe {
	cfg.applyDefaults()
	return &Probe{
		storage: storage,
		cfg:     cfg,
		last:    Snapshot{Theme: theme.Light},
		stopCh:  make(chan struct{}),
	}
}

// Interval returns the poll period.
func (p *Probe) Interval() time.Duration {
	return p.cfg.Interval
}

// Snapshot returns the most recent observation.
func (p *Probe) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Check observes storage now, including a write-then-remove of the probe
// key, and returns the result. It never fails; a failing write reports
// Writable false.
func (p *Probe) Check() Snapshot {
	snap := p.read()
	snap.Writable = kv.IsAvailable(p.storage, p.cfg.ProbeKey)
	p.publish(snap)
	return snap
}

// refresh re-reads the stored values without writing, keeping the last
// known writability.
func (p *Probe) refresh() Snapshot {
	snap := p.read()
	snap.Writable = p.Snapshot().Writable
	p.publish(snap)
	return snap
}

// read loads favorites count and theme from storage. Unreadable or
// malformed values count as absent.
func (p *Probe) read() Snapshot {
	snap := Snapshot{Theme: theme.Light, CheckedAt: time.Now()}
	if p.storage == nil {
		return snap
	}

	var ids []string
	if _, err := kv.LoadJSON(p.storage, p.cfg.FavoritesKey, &ids); err == nil {
		snap.FavoritesCount = countDistinct(ids)
	}

	if raw, ok, err := p.storage.Get(p.cfg.ThemeKey); err == nil && ok {
		if t, valid := theme.Parse(raw); valid {
			snap.Theme = t
		}
	}
	return snap
}

func countDistinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

func (p *Probe) publish(snap Snapshot) {
	p.mu.Lock()
	p.last = snap
	p.mu.Unlock()

	if p.cfg.OnSnapshot != nil {
		p.cfg.OnSnapshot(snap)
	}
}

// Start checks immediately, then on every interval until ctx is done or
// Stop is called. It blocks; run it in its own goroutine.
func (p *Probe) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	p.mu.Unlock()

	p.Check()

	var fsEvents <-chan fsnotify.Event
	var fsErrors <-chan error
	if p.cfg.WatchPath != "" {
		w, err := p.watch()
		if err != nil {
			slog.Warn("health_watch_unavailable",
				slog.String("path", p.cfg.WatchPath),
				slog.String("error", err.Error()))
		} else {
			defer w.Close()
			fsEvents, fsErrors = w.Events, w.Errors
		}
	}

	nudge := debounce.New(watchSettle, func(struct{}) { p.refresh() })
	defer nudge.Stop()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = p.Stop()
			return ctx.Err()
		case <-p.stopCh:
			return nil
		case <-ticker.C:
			p.Check()
		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if p.isStorageFile(ev.Name) {
				nudge.Set(struct{}{})
			}
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			slog.Debug("health_watch_error", slog.String("error", err.Error()))
		}
	}
}

// watch registers the directory holding WatchPath, so atomic renames and
// SQLite side files are seen.
func (p *Probe) watch() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(p.cfg.WatchPath)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", p.cfg.WatchPath, err)
	}
	return w, nil
}

func (p *Probe) isStorageFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), filepath.Base(p.cfg.WatchPath))
}

// Stop ends polling. Safe to call multiple times.
func (p *Probe) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}
	p.stopped = true
	close(p.stopCh)
	return nil
}
