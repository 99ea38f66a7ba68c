// Package storefront wires the catalog, search engine and client state
// stores into one session. A process opens exactly one Session and every
// surface (CLI commands, the browse screen, the tool server) works through
// it, so favorites and theme have a single in-memory owner.
package storefront

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Aman-CERP/storefront/internal/catalog"
	"github.com/Aman-CERP/storefront/internal/config"
	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/favorites"
	"github.com/Aman-CERP/storefront/internal/health"
	"github.com/Aman-CERP/storefront/internal/kv"
	"github.com/Aman-CERP/storefront/internal/search"
	"github.com/Aman-CERP/storefront/internal/telemetry"
	"github.com/Aman-CERP/storefront/internal/theme"
)

// Options configures Open.
type Options struct {
	Config *config.Config

	// Items overrides the configured catalog. Items are validated like a
	// loaded catalog.
	Items []catalog.Item

	// AmbientDark reports the environment's dark preference. Used when
	// the config leaves prefer_dark on auto.
	AmbientDark func() bool

	// ApplyTheme is invoked whenever the theme takes effect.
	ApplyTheme func(theme.Theme)
}

// Session is the shared handle to catalog and client state.
type Session struct {
	Config    *config.Config
	Catalog   *catalog.Index
	Engine    *search.Engine
	Favorites *favorites.Store
	Theme     *theme.Store
	Probe     *health.Probe
	Metrics   *telemetry.QueryMetrics

	storage  kv.Storage
	degraded error

	mu          sync.RWMutex
	lastErr     error
	subscribers []func(health.Snapshot)
	closeOnce   sync.Once
	closeErr    error
}

// Open loads the catalog and opens durable storage. When storage cannot
// be opened the session runs in memory only: stores still work but
// nothing survives the process, and the probe reports storage disabled.
func Open(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	items := opts.Items
	if items == nil {
		var err error
		items, err = LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
	} else if err := catalog.Validate(items); err != nil {
		return nil, err
	}

	s := &Session{
		Config:  cfg,
		Catalog: catalog.NewIndex(items),
		Engine:  search.NewEngine(search.WithCacheSize(cfg.Search.CacheSize)),
		Metrics: telemetry.NewQueryMetrics(),
	}

	storage, err := kv.NewStorageWithBackend(storagePath(cfg), cfg.Storage.Backend)
	if err != nil {
		s.degraded = sferrors.StorageError("durable storage unavailable, state is kept in memory", err).
			WithDetail("backend", cfg.Storage.Backend).
			WithSuggestion("check storage.path in the config, or set STOREFRONT_STORAGE_BACKEND=memory")
		slog.Warn("storage_unavailable", sferrors.LogAttrs(s.degraded)...)
		storage = nil
	}
	s.storage = storage

	s.Favorites = favorites.New(storage,
		favorites.WithKey(cfg.Storage.FavoritesKey),
		favorites.WithReporter(s.report))

	themeOpts := []theme.Option{
		theme.WithKey(cfg.Storage.ThemeKey),
		theme.WithReporter(s.report),
		theme.WithPreferDark(preferDark(cfg, opts.AmbientDark)),
	}
	if opts.ApplyTheme != nil {
		themeOpts = append(themeOpts, theme.WithApply(opts.ApplyTheme))
	}
	s.Theme = theme.New(storage, themeOpts...)

	probeCfg := health.Config{
		Interval:     cfg.HealthInterval(),
		FavoritesKey: cfg.Storage.FavoritesKey,
		ThemeKey:     cfg.Storage.ThemeKey,
		OnSnapshot:   s.dispatch,
	}
	if storage != nil && cfg.WatchEnabled() {
		probeCfg.WatchPath = kv.StoragePath(storagePath(cfg), cfg.Storage.Backend)
	}
	s.Probe = health.NewProbe(storage, probeCfg)

	slog.Debug("session_opened",
		slog.Int("items", s.Catalog.Len()),
		slog.String("backend", cfg.Storage.Backend),
		slog.Bool("degraded", s.degraded != nil),
		slog.Int("favorites", s.Favorites.Count()),
		slog.String("theme", s.Theme.Get().String()))
	return s, nil
}

// LoadCatalog reads the catalog at path, or the bundled sample when path
// is empty.
func LoadCatalog(path string) ([]catalog.Item, error) {
	if path == "" {
		return catalog.LoadSample()
	}
	return catalog.LoadFile(path)
}

func storagePath(cfg *config.Config) string {
	if kv.Backend(cfg.Storage.Backend) == kv.BackendMemory {
		return ""
	}
	return cfg.Storage.Path
}

func preferDark(cfg *config.Config, ambient func() bool) func() bool {
	if dark, ok := cfg.PreferDark(); ok {
		return func() bool { return dark }
	}
	if ambient == nil {
		return func() bool { return false }
	}
	return ambient
}

// Degraded returns why durable storage is unavailable, or nil.
func (s *Session) Degraded() error {
	return s.degraded
}

// LastError returns the most recent storage failure reported by a store.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Session) report(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Subscribe registers fn to receive every probe snapshot.
func (s *Session) Subscribe(fn func(health.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) dispatch(snap health.Snapshot) {
	s.mu.RLock()
	subs := append(([]func(health.Snapshot))(nil), s.subscribers...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// Query runs req over the catalog and records it in Metrics.
func (s *Session) Query(ctx context.Context, req search.Request) (*search.Response, error) {
	resp, err := s.Engine.Query(ctx, s.Catalog, req)
	if err != nil {
		return nil, err
	}
	s.Metrics.Record(telemetry.QueryEvent{
		Query:       req.Query,
		Kind:        telemetry.ClassifyQuery(req.Query, req.Brand, req.AvailableOnly),
		ResultCount: resp.Total,
		Latency:     resp.Duration,
	})
	return resp, nil
}

// FavoriteItems returns the favorited items that are still in the catalog,
// in the order they were favorited.
func (s *Session) FavoriteItems() []catalog.Item {
	ids := s.Favorites.All()
	items := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.Catalog.ByID(id); ok {
			items = append(items, it)
		}
	}
	return items
}

// Close stops the probe and releases storage. Safe to call multiple times.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		_ = s.Probe.Stop()
		if s.storage != nil {
			s.closeErr = s.storage.Close()
		}
	})
	return s.closeErr
}
