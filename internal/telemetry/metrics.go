// Package telemetry collects search statistics for the running session:
// what people look for, what finds nothing, and how long it takes.
// Nothing leaves the process.
package telemetry

import (
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/storefront/internal/normalize"
)

// QueryKind classifies a catalog query.
type QueryKind string

const (
	// KindText is a free-text search, optionally filtered.
	KindText QueryKind = "text"
	// KindFilter is a brand or availability filter without text.
	KindFilter QueryKind = "filter"
	// KindBrowse lists the catalog unfiltered.
	KindBrowse QueryKind = "browse"
)

// LatencyBucket is a latency histogram bucket.
type LatencyBucket string

const (
	BucketP1   LatencyBucket = "p1"   // <1ms
	BucketP10  LatencyBucket = "p10"  // 1-10ms
	BucketP50  LatencyBucket = "p50"  // 10-50ms
	BucketSlow LatencyBucket = "slow" // >=50ms
)

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	switch {
	case d < time.Millisecond:
		return BucketP1
	case d < 10*time.Millisecond:
		return BucketP10
	case d < 50*time.Millisecond:
		return BucketP50
	default:
		return BucketSlow
	}
}

// QueryEvent is one executed catalog query.
type QueryEvent struct {
	Query       string
	Kind        QueryKind
	ResultCount int
	Latency     time.Duration
}

// ClassifyQuery returns the kind of a query with the given filters.
func ClassifyQuery(query, brand string, availableOnly bool) QueryKind {
	switch {
	case strings.TrimSpace(query) != "":
		return KindText
	case strings.TrimSpace(brand) != "" || availableOnly:
		return KindFilter
	default:
		return KindBrowse
	}
}

// TermCount is a search term and how often it was used.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the collected statistics.
type Snapshot struct {
	TotalQueries        int64                   `json:"total_queries"`
	KindCounts          map[QueryKind]int64     `json:"kind_counts"`
	TopTerms            []TermCount             `json:"top_terms"`
	ZeroResultQueries   []string                `json:"zero_result_queries"`
	ZeroResultCount     int64                   `json:"zero_result_count"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	Since               time.Time               `json:"since"`
}

// ZeroResultPercentage returns the share of text queries that found nothing.
func (s *Snapshot) ZeroResultPercentage() float64 {
	text := s.KindCounts[KindText]
	if text == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(text) * 100
}

// Config configures a collector.
type Config struct {
	TopTermsCapacity    int // distinct terms tracked (default 100)
	ZeroResultsCapacity int // recent zero-result queries kept (default 50)
}

// QueryMetrics collects query statistics. Safe for concurrent use.
type QueryMetrics struct {
	mu sync.Mutex

	kinds       map[QueryKind]int64
	terms       *lru.Cache[string, int64]
	zeroResults *Ring[string]
	zeroCount   int64
	latencies   map[LatencyBucket]int64
	total       int64
	since       time.Time
}

// NewQueryMetrics creates a collector with default capacities.
func NewQueryMetrics() *QueryMetrics {
	return NewQueryMetricsWithConfig(Config{})
}

// NewQueryMetricsWithConfig creates a collector.
func NewQueryMetricsWithConfig(cfg Config) *QueryMetrics {
	if cfg.TopTermsCapacity <= 0 {
		cfg.TopTermsCapacity = 100
	}
	if cfg.ZeroResultsCapacity <= 0 {
		cfg.ZeroResultsCapacity = 50
	}
	terms, _ := lru.New[string, int64](cfg.TopTermsCapacity)

	return &QueryMetrics{
		kinds:       make(map[QueryKind]int64),
		terms:       terms,
		zeroResults: NewRing[string](cfg.ZeroResultsCapacity),
		latencies:   make(map[LatencyBucket]int64),
		since:       time.Now(),
	}
}

// Record adds one query. Terms are counted in normalized form, so
// "Galaxy" and "galaxy" are the same term.
func (m *QueryMetrics) Record(e QueryEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.kinds[e.Kind]++
	m.latencies[LatencyToBucket(e.Latency)]++

	if e.Kind != KindText {
		return
	}
	for _, term := range normalize.Terms(e.Query) {
		count, _ := m.terms.Get(term)
		m.terms.Add(term, count+1)
	}
	if e.ResultCount == 0 {
		m.zeroCount++
		m.zeroResults.Add(strings.TrimSpace(e.Query))
	}
}

// Snapshot returns the current statistics. Top terms are ordered by count,
// most used first, ties alphabetically.
func (m *QueryMetrics) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	kinds := make(map[QueryKind]int64, len(m.kinds))
	for k, v := range m.kinds {
		kinds[k] = v
	}
	latencies := make(map[LatencyBucket]int64, len(m.latencies))
	for k, v := range m.latencies {
		latencies[k] = v
	}

	top := make([]TermCount, 0, m.terms.Len())
	for _, term := range m.terms.Keys() {
		if count, ok := m.terms.Peek(term); ok {
			top = append(top, TermCount{Term: term, Count: count})
		}
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Term < top[j].Term
	})

	return &Snapshot{
		TotalQueries:        m.total,
		KindCounts:          kinds,
		TopTerms:            top,
		ZeroResultQueries:   m.zeroResults.Items(),
		ZeroResultCount:     m.zeroCount,
		LatencyDistribution: latencies,
		Since:               m.since,
	}
}
