package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/kv"
)

type readOnlyStorage struct {
	kv.Storage
}

func (readOnlyStorage) Set(string, string) error {
	return errors.New("storage disabled")
}

func always(v bool) func() bool {
	return func() bool { return v }
}

func TestNew_AmbientDarkIsPersisted(t *testing.T) {
	// Given: empty storage and an ambient dark preference
	storage := kv.NewMemoryStore()
	var applied []Theme

	// When: the store initializes
	s := New(storage, WithPreferDark(always(true)), WithApply(func(t Theme) { applied = append(applied, t) }))

	// Then: the theme is dark, persisted, and applied once
	assert.Equal(t, Dark, s.Get())
	assert.True(t, s.IsDark())
	raw, ok, err := storage.Get(DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", raw)
	assert.Equal(t, []Theme{Dark}, applied)
}

func TestNew_ResolutionOrder(t *testing.T) {
	tests := []struct {
		name       string
		persisted  *string
		preferDark func() bool
		want       Theme
	}{
		{"persisted wins over ambient", ptr("light"), always(true), Light},
		{"persisted dark", ptr("dark"), always(false), Dark},
		{"unknown token falls back to ambient", ptr("sepia"), always(true), Dark},
		{"nothing persisted, ambient light", nil, always(false), Light},
		{"nothing persisted, no ambient signal", nil, nil, Light},
		{"empty token", ptr(""), nil, Light},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := kv.NewMemoryStore()
			if tt.persisted != nil {
				require.NoError(t, storage.Set(DefaultKey, *tt.persisted))
			}

			s := New(storage, WithPreferDark(tt.preferDark))

			assert.Equal(t, tt.want, s.Get())
			raw, _, _ := storage.Get(DefaultKey)
			assert.Equal(t, string(tt.want), raw, "resolved theme should be persisted")
		})
	}
}

func TestToggle_AppliesAndPersists(t *testing.T) {
	storage := kv.NewMemoryStore()
	var applied []Theme
	s := New(storage, WithApply(func(t Theme) { applied = append(applied, t) }))

	assert.Equal(t, Dark, s.Toggle())
	raw, _, _ := storage.Get(DefaultKey)
	assert.Equal(t, "dark", raw)

	assert.Equal(t, Light, s.Toggle())
	raw, _, _ = storage.Get(DefaultKey)
	assert.Equal(t, "light", raw)

	assert.Equal(t, []Theme{Light, Dark, Light}, applied)
}

func TestToggle_HookMayReadStore(t *testing.T) {
	var s *Store
	var seen []Theme
	s = New(kv.NewMemoryStore(), WithApply(func(Theme) {
		if s != nil {
			seen = append(seen, s.Get())
		}
	}))

	s.Toggle()
	assert.Equal(t, []Theme{Dark}, seen)
}

func TestSet(t *testing.T) {
	storage := kv.NewMemoryStore()
	s := New(storage)

	s.Set(Dark)
	assert.Equal(t, Dark, s.Get())

	// Unknown values are ignored
	s.Set(Theme("neon"))
	assert.Equal(t, Dark, s.Get())
	raw, _, _ := storage.Get(DefaultKey)
	assert.Equal(t, "dark", raw)
}

func TestPersistFailure_IsNonFatal(t *testing.T) {
	var reported []error
	s := New(readOnlyStorage{kv.NewMemoryStore()}, WithReporter(func(err error) { reported = append(reported, err) }))

	assert.Equal(t, Dark, s.Toggle())
	require.Len(t, reported, 2, "init and toggle writes both fail")
	assert.Equal(t, sferrors.ErrCodeStorageWrite, sferrors.GetCode(reported[1]))
}

func TestNilStorage(t *testing.T) {
	s := New(nil, WithPreferDark(always(true)))
	assert.Equal(t, Dark, s.Get())
	assert.Equal(t, Light, s.Toggle())
}

func TestParse(t *testing.T) {
	got, ok := Parse(" DARK ")
	assert.True(t, ok)
	assert.Equal(t, Dark, got)

	_, ok = Parse("blue")
	assert.False(t, ok)

	assert.Equal(t, Dark, Light.Opposite())
	assert.Equal(t, Light, Dark.Opposite())
}

func ptr(s string) *string { return &s }
