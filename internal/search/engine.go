// Package search implements free-text search over the catalog: every
// query term must appear, as a substring, in an item's normalized text.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/storefront/internal/catalog"
	"github.com/Aman-CERP/storefront/internal/normalize"
)

// DefaultCacheSize is the number of item blobs kept in the cache.
const DefaultCacheSize = 1024

// Engine matches queries against catalog items. Safe for concurrent use.
//
// Normalized blobs are cached by item id and checked against the item's
// raw text on every hit, so one engine can serve catalogs that reuse ids.
type Engine struct {
	cache *lru.Cache[string, cachedBlob]
}

type cachedBlob struct {
	raw  string
	blob string
}

// EngineOption configures the search engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	cacheSize int
}

// WithCacheSize bounds the number of cached item blobs.
func WithCacheSize(n int) EngineOption {
	return func(c *engineConfig) {
		c.cacheSize = n
	}
}

// NewEngine creates a search engine.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := engineConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cacheSize <= 0 {
		cfg.cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, cachedBlob](cfg.cacheSize)
	return &Engine{cache: cache}
}

// Search returns the items whose text contains every term of query, in
// their original order. A blank query returns an empty slice.
func (e *Engine) Search(items []catalog.Item, query string) []catalog.Item {
	terms := normalize.Terms(query)
	if len(terms) == 0 {
		return []catalog.Item{}
	}

	out := make([]catalog.Item, 0)
	for _, it := range items {
		if matchAll(e.Blob(it), terms) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether a single item satisfies query. A blank query
// matches nothing.
func (e *Engine) Matches(it catalog.Item, query string) bool {
	terms := normalize.Terms(query)
	return len(terms) > 0 && matchAll(e.Blob(it), terms)
}

// Blob returns the normalized searchable text of an item: name, brand,
// variant RAM and storage, color keys and labels, and keywords.
func (e *Engine) Blob(it catalog.Item) string {
	raw := rawText(it)
	if it.ID == "" {
		return normalize.Normalize(raw)
	}
	if c, ok := e.cache.Get(it.ID); ok && c.raw == raw {
		return c.blob
	}
	b := normalize.Normalize(raw)
	e.cache.Add(it.ID, cachedBlob{raw: raw, blob: b})
	return b
}

// Purge drops every cached blob, for use after the catalog is reloaded.
func (e *Engine) Purge() {
	e.cache.Purge()
}

func rawText(it catalog.Item) string {
	parts := make([]string, 0, 2+2*len(it.Variants)+2*len(it.Colors)+len(it.Keywords))
	parts = append(parts, it.Name, it.Brand)
	for _, v := range it.Variants {
		parts = append(parts, v.RAM, v.Storage)
	}
	for _, c := range it.Colors {
		parts = append(parts, c.Key, c.Label)
	}
	parts = append(parts, it.Keywords...)
	return strings.Join(parts, " ")
}

func matchAll(blob string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(blob, t) {
			return false
		}
	}
	return true
}

// Limit returns at most n items. n <= 0 means no limit.
func Limit(items []catalog.Item, n int) []catalog.Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// Source supplies the items a query runs over.
type Source interface {
	All() []catalog.Item
}

// Request is a composed catalog query: free text, filters and a limit.
type Request struct {
	Query         string
	Brand         string
	AvailableOnly bool
	// Limit caps the returned items; <= 0 means no limit.
	Limit int
	// Browse returns the filtered catalog when Query is blank instead of
	// an empty result.
	Browse bool
}

// Response is the outcome of a Request.
type Response struct {
	Items []catalog.Item
	// Total is the match count before Limit was applied.
	Total    int
	Duration time.Duration
}

// Query runs req over src. It only fails when ctx is done.
func (e *Engine) Query(ctx context.Context, src Source, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	items := src.All()
	filter := catalog.Filter{Brand: req.Brand, AvailableOnly: req.AvailableOnly}
	if !filter.IsZero() {
		items = filter.Apply(items)
	}

	var matched []catalog.Item
	switch {
	case strings.TrimSpace(req.Query) != "":
		matched = e.Search(items, req.Query)
	case req.Browse:
		matched = items
	default:
		matched = []catalog.Item{}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &Response{
		Items:    Limit(matched, req.Limit),
		Total:    len(matched),
		Duration: time.Since(start),
	}

	slog.Debug("search_complete",
		slog.String("query", req.Query),
		slog.String("brand", req.Brand),
		slog.Bool("available_only", req.AvailableOnly),
		slog.Int("total", resp.Total),
		slog.Duration("duration", resp.Duration))

	return resp, nil
}
