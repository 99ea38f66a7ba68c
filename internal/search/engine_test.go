package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/storefront/internal/catalog"
)

func phone(id, name, brand string, colors ...catalog.Color) catalog.Item {
	return catalog.Item{
		ID:           id,
		Name:         name,
		Brand:        brand,
		Variants:     []catalog.Variant{{ID: id + "-v1", RAM: "8GB", Storage: "256GB", Price: 100}},
		Colors:       colors,
		Availability: catalog.InStock,
	}
}

func testCatalog() []catalog.Item {
	return []catalog.Item{
		phone("a", "Galaxy S24", "Samsung", catalog.Color{Key: "black", Label: "أسود"}),
		phone("b", "iPhone 15", "Apple", catalog.Color{Key: "blue", Label: "Blue"}),
		phone("c", "Galaxy A55", "Samsung", catalog.Color{Key: "white", Label: "White"}),
	}
}

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSearch_GalaxyAndIPhone(t *testing.T) {
	e := NewEngine()
	items := testCatalog()

	tests := []struct {
		query string
		want  []string
	}{
		{"galaxy", []string{"a", "c"}},
		{"GALAXY s24", []string{"a"}},
		{"iphone", []string{"b"}},
		{"samsung white", []string{"c"}},
		{"galaxy iphone", []string{}},
		{"  galaxy  ", []string{"a", "c"}},
		{"256", []string{"a", "b", "c"}},
		{"أسود", []string{"a"}},
		{"pixel", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := e.Search(items, tt.query)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearch_BlankQueryReturnsEmpty(t *testing.T) {
	e := NewEngine()
	for _, q := range []string{"", " ", "\t\n"} {
		got := e.Search(testCatalog(), q)
		require.NotNil(t, got)
		assert.Empty(t, got, "query %q", q)
	}
}

func TestSearch_ArabicDigitsMatchASCII(t *testing.T) {
	// Given: an item whose storage uses ASCII digits
	e := NewEngine()

	// When: searching with Arabic-Indic digits
	got := e.Search(testCatalog(), "٢٥٦")

	// Then: it matches
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestSearch_DiacriticsIgnored(t *testing.T) {
	e := NewEngine()
	items := []catalog.Item{phone("x", "هاتف", "Brand")}

	// fatha + damma inside the query
	got := e.Search(items, "هَاتُف")
	assert.Equal(t, []string{"x"}, ids(got))
}

func TestSearch_PreservesCatalogOrder(t *testing.T) {
	e := NewEngine()
	items := testCatalog()
	reversed := []catalog.Item{items[2], items[1], items[0]}

	assert.Equal(t, []string{"c", "a"}, ids(e.Search(reversed, "galaxy")))
}

func TestEngine_BlobIsCached(t *testing.T) {
	e := NewEngine(WithCacheSize(2))
	it := testCatalog()[0]

	first := e.Blob(it)
	assert.Contains(t, first, "galaxy s24")
	assert.Contains(t, first, "samsung")
	assert.Equal(t, 1, e.cache.Len())

	// Same item hits the cache
	assert.Equal(t, first, e.Blob(it))
	assert.Equal(t, 1, e.cache.Len())

	// Same id with different text is rebuilt
	changed := it
	changed.Name = "Other"
	assert.Contains(t, e.Blob(changed), "other")
	assert.NotContains(t, e.Blob(changed), "galaxy")

	e.Purge()
	assert.Equal(t, 0, e.cache.Len())
}

func TestSearch_EngineReusedAcrossCatalogsSharingIDs(t *testing.T) {
	// Given: one engine that has already searched a catalog
	e := NewEngine()
	first := []catalog.Item{{ID: "a", Name: "Galaxy S24"}}
	require.Len(t, e.Search(first, "galaxy"), 1)

	// When: a different catalog reuses the same id
	second := []catalog.Item{{ID: "a", Name: "iPhone 15"}}

	// Then: results depend only on the items given
	assert.Len(t, e.Search(second, "iphone"), 1)
	assert.Empty(t, e.Search(second, "galaxy"))
	assert.Len(t, e.Search(first, "galaxy"), 1)
}

func TestEngine_Matches(t *testing.T) {
	e := NewEngine()
	it := testCatalog()[1]
	assert.True(t, e.Matches(it, "apple 15"))
	assert.False(t, e.Matches(it, "samsung"))
	assert.False(t, e.Matches(it, " "))
}

func TestLimit(t *testing.T) {
	items := testCatalog()
	assert.Len(t, Limit(items, 2), 2)
	assert.Len(t, Limit(items, 0), 3)
	assert.Len(t, Limit(items, 10), 3)
}

type sliceSource []catalog.Item

func (s sliceSource) All() []catalog.Item { return s }

func TestEngine_Query(t *testing.T) {
	e := NewEngine()
	src := sliceSource(testCatalog())
	ctx := context.Background()

	tests := []struct {
		name      string
		req       Request
		want      []string
		wantTotal int
	}{
		{"search", Request{Query: "galaxy"}, []string{"a", "c"}, 2},
		{"search with brand", Request{Query: "15", Brand: "apple"}, []string{"b"}, 1},
		{"search with limit", Request{Query: "galaxy", Limit: 1}, []string{"a"}, 2},
		{"blank query without browse", Request{Brand: "samsung"}, []string{}, 0},
		{"browse by brand", Request{Brand: "SAMSUNG", Browse: true}, []string{"a", "c"}, 2},
		{"browse all", Request{Browse: true}, []string{"a", "b", "c"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.Query(ctx, src, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(resp.Items))
			assert.Equal(t, tt.wantTotal, resp.Total)
		})
	}
}

func TestEngine_Query_AvailableOnly(t *testing.T) {
	items := testCatalog()
	items[2].Availability = catalog.OutOfStock

	resp, err := NewEngine().Query(context.Background(), sliceSource(items), Request{Query: "galaxy", AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(resp.Items))
}

func TestEngine_Query_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Query(ctx, sliceSource(testCatalog()), Request{Query: "galaxy"})
	assert.ErrorIs(t, err, context.Canceled)
}
