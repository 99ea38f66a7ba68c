package storefront

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/storefront/internal/catalog"
	"github.com/Aman-CERP/storefront/internal/config"
	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/health"
	"github.com/Aman-CERP/storefront/internal/search"
	"github.com/Aman-CERP/storefront/internal/telemetry"
	"github.com/Aman-CERP/storefront/internal/theme"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Storage.Backend = backend
	cfg.Storage.Path = filepath.Join(t.TempDir(), "state")
	return cfg
}

func open(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_SampleCatalogAndDefaults(t *testing.T) {
	// Given: defaults with in-memory storage
	s := open(t, Options{Config: testConfig(t, "memory")})

	// Then: the bundled catalog is loaded and state starts empty
	assert.Equal(t, 6, s.Catalog.Len())
	assert.Equal(t, 0, s.Favorites.Count())
	assert.Equal(t, theme.Light, s.Theme.Get())
	assert.NoError(t, s.Degraded())
	assert.NoError(t, s.LastError())
}

func TestOpen_StatePersistsAcrossSessions(t *testing.T) {
	for _, backend := range []string{"sqlite", "file"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			// Given: a session that favorites an item and switches theme
			s1, err := Open(Options{Config: cfg})
			require.NoError(t, err)
			s1.Favorites.Toggle("s24-ultra")
			s1.Theme.Toggle()
			require.NoError(t, s1.Close())

			// When: a new session opens the same storage
			s2 := open(t, Options{Config: cfg})

			// Then: favorites and theme are restored
			assert.True(t, s2.Favorites.IsFavorite("s24-ultra"))
			assert.Equal(t, theme.Dark, s2.Theme.Get())
		})
	}
}

func TestOpen_ThemePreference(t *testing.T) {
	// Given: config leaves prefer_dark on auto and the environment is dark
	cfg := testConfig(t, "memory")
	var applied []theme.Theme
	s := open(t, Options{
		Config:      cfg,
		AmbientDark: func() bool { return true },
		ApplyTheme:  func(th theme.Theme) { applied = append(applied, th) },
	})

	// Then: dark is chosen and applied once
	assert.Equal(t, theme.Dark, s.Theme.Get())
	assert.Equal(t, []theme.Theme{theme.Dark}, applied)

	// Given: config forces light over a dark environment
	cfg2 := testConfig(t, "memory")
	cfg2.Theme.PreferDark = "light"
	s2 := open(t, Options{Config: cfg2, AmbientDark: func() bool { return true }})
	assert.Equal(t, theme.Light, s2.Theme.Get())
}

func TestOpen_UnusableStorageDegradesToMemory(t *testing.T) {
	// Given: a storage path beneath a regular file
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := config.NewConfig()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = filepath.Join(blocker, "state")

	// When: opening the session
	s := open(t, Options{Config: cfg})

	// Then: the session works in memory and reports storage disabled
	require.Error(t, s.Degraded())
	assert.Equal(t, sferrors.ErrCodeStorageUnavailable, sferrors.GetCode(s.Degraded()))
	assert.True(t, s.Favorites.Toggle("s24-ultra"))
	assert.True(t, s.Favorites.IsFavorite("s24-ultra"))

	snap := s.Probe.Check()
	assert.False(t, snap.Writable)
}

func TestOpen_CatalogFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: p1
  name: Pixel 8
  brand: Google
  variants:
    - {id: 8-128, ram: 8GB, storage: 128GB, price: 30000}
  colors:
    - {key: black, code: "#000000", label: Black}
  images:
    black: /p1.jpg
`), 0644))

	cfg := testConfig(t, "memory")
	cfg.Catalog.Path = path
	s := open(t, Options{Config: cfg})

	assert.Equal(t, 1, s.Catalog.Len())
	_, ok := s.Catalog.ByID("p1")
	assert.True(t, ok)
}

func TestOpen_InvalidCatalogFails(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.json")

	_, err := Open(Options{Config: cfg})
	require.Error(t, err)
	assert.Equal(t, sferrors.ErrCodeCatalogRead, sferrors.GetCode(err))
}

func acmeItem(id string) catalog.Item {
	return catalog.Item{
		ID:           id,
		Name:         "X1",
		Brand:        "Acme",
		Variants:     []catalog.Variant{{ID: id + "-v1", RAM: "8GB", Storage: "128GB", Price: 100}},
		Colors:       []catalog.Color{{Key: "black", Label: "Black"}},
		Images:       map[string]string{"black": "x1-black.png"},
		Availability: catalog.InStock,
	}
}

func TestOpen_ItemsOverrideCatalog(t *testing.T) {
	s := open(t, Options{Config: testConfig(t, "memory"), Items: []catalog.Item{acmeItem("x")}})
	assert.Equal(t, 1, s.Catalog.Len())
}

func TestOpen_ItemsOverrideRejectsDuplicateIDs(t *testing.T) {
	// Given: override items that reuse an id
	items := []catalog.Item{acmeItem("x"), acmeItem("x")}

	// When: opening a session over them
	_, err := Open(Options{Config: testConfig(t, "memory"), Items: items})

	// Then: the catalog is rejected like a loaded one
	require.Error(t, err)
	assert.Equal(t, sferrors.ErrCodeCatalogInvalid, sferrors.GetCode(err))
	var se *sferrors.Error
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Cause.Error(), "item x: duplicate id")
}

func TestSession_Query(t *testing.T) {
	s := open(t, Options{Config: testConfig(t, "memory")})
	ctx := context.Background()

	// Text search composed with a brand filter
	resp, err := s.Query(ctx, search.Request{Query: "galaxy", Brand: "samsung"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	// Available-only drops the out-of-stock A55
	resp, err = s.Query(ctx, search.Request{Query: "galaxy", AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "s24-ultra", resp.Items[0].ID)

	// Blank query without browse yields nothing
	resp, err = s.Query(ctx, search.Request{Query: "  "})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestSession_FavoriteItemsSkipsUnknownIDs(t *testing.T) {
	s := open(t, Options{Config: testConfig(t, "memory")})

	s.Favorites.Toggle("redmi-note-13")
	s.Favorites.Toggle("discontinued")
	s.Favorites.Toggle("s24-ultra")

	items := s.FavoriteItems()
	require.Len(t, items, 2)
	assert.Equal(t, "redmi-note-13", items[0].ID)
	assert.Equal(t, "s24-ultra", items[1].ID)
}

func TestSession_SubscribersReceiveSnapshots(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	cfg.Health.Interval = "100ms"
	s := open(t, Options{Config: cfg})

	var mu sync.Mutex
	var got []health.Snapshot
	s.Subscribe(func(snap health.Snapshot) {
		mu.Lock()
		got = append(got, snap)
		mu.Unlock()
	})

	s.Favorites.Toggle("s24-ultra")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Probe.Start(ctx) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Writable && got[len(got)-1].FavoritesCount == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	s, err := Open(Options{Config: testConfig(t, "sqlite")})
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestSession_QueryRecordsMetrics(t *testing.T) {
	s := open(t, Options{Config: testConfig(t, "memory")})
	ctx := context.Background()

	_, err := s.Query(ctx, search.Request{Query: "galaxy"})
	require.NoError(t, err)
	_, err = s.Query(ctx, search.Request{Query: "nokia"})
	require.NoError(t, err)
	_, err = s.Query(ctx, search.Request{Brand: "Apple", Browse: true})
	require.NoError(t, err)

	snap := s.Metrics.Snapshot()
	assert.Equal(t, int64(3), snap.TotalQueries)
	assert.Equal(t, int64(2), snap.KindCounts[telemetry.KindText])
	assert.Equal(t, int64(1), snap.KindCounts[telemetry.KindFilter])
	assert.Equal(t, []string{"nokia"}, snap.ZeroResultQueries)
}
