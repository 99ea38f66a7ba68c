package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_KeepsNewestInOrder(t *testing.T) {
	r := NewRing[string](3)
	assert.Empty(t, r.Items())
	assert.NotNil(t, r.Items())

	for _, q := range []string{"a", "b", "c", "d", "e"} {
		r.Add(q)
	}

	assert.Equal(t, []string{"c", "d", "e"}, r.Items())
	assert.Equal(t, 3, r.Len())
}

func TestRing_PartiallyFilled(t *testing.T) {
	r := NewRing[int](0)
	r.Add(1)
	r.Add(2)
	assert.Equal(t, []int{1, 2}, r.Items())
}

func TestLatencyToBucket(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want LatencyBucket
	}{
		{200 * time.Microsecond, BucketP1},
		{5 * time.Millisecond, BucketP10},
		{20 * time.Millisecond, BucketP50},
		{time.Second, BucketSlow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LatencyToBucket(tt.d), tt.d.String())
	}
}

func TestClassifyQuery(t *testing.T) {
	assert.Equal(t, KindText, ClassifyQuery("galaxy", "", false))
	assert.Equal(t, KindText, ClassifyQuery("galaxy", "Samsung", true))
	assert.Equal(t, KindFilter, ClassifyQuery("  ", "Samsung", false))
	assert.Equal(t, KindFilter, ClassifyQuery("", "", true))
	assert.Equal(t, KindBrowse, ClassifyQuery("", "", false))
}

func TestQueryMetrics_Record(t *testing.T) {
	// Given: a collector
	m := NewQueryMetrics()

	// When: recording a mix of queries
	m.Record(QueryEvent{Query: "Galaxy Ultra", Kind: KindText, ResultCount: 1})
	m.Record(QueryEvent{Query: "galaxy", Kind: KindText, ResultCount: 2})
	m.Record(QueryEvent{Query: "nokia", Kind: KindText, ResultCount: 0})
	m.Record(QueryEvent{Kind: KindBrowse, ResultCount: 6})

	// Then: counts, terms and zero-result queries are tracked
	snap := m.Snapshot()
	assert.Equal(t, int64(4), snap.TotalQueries)
	assert.Equal(t, int64(3), snap.KindCounts[KindText])
	assert.Equal(t, int64(1), snap.KindCounts[KindBrowse])
	require.NotEmpty(t, snap.TopTerms)
	assert.Equal(t, TermCount{Term: "galaxy", Count: 2}, snap.TopTerms[0])
	assert.Equal(t, []string{"nokia"}, snap.ZeroResultQueries)
	assert.Equal(t, int64(1), snap.ZeroResultCount)
	assert.InDelta(t, 33.33, snap.ZeroResultPercentage(), 0.01)
	assert.Equal(t, int64(4), snap.LatencyDistribution[BucketP1])
}

func TestQueryMetrics_TopTermsTieBreak(t *testing.T) {
	m := NewQueryMetrics()
	m.Record(QueryEvent{Query: "oppo", Kind: KindText, ResultCount: 1})
	m.Record(QueryEvent{Query: "apple", Kind: KindText, ResultCount: 1})

	snap := m.Snapshot()
	require.Len(t, snap.TopTerms, 2)
	assert.Equal(t, "apple", snap.TopTerms[0].Term)
	assert.Equal(t, "oppo", snap.TopTerms[1].Term)
}

func TestQueryMetrics_TermCapacity(t *testing.T) {
	m := NewQueryMetricsWithConfig(Config{TopTermsCapacity: 2})
	for _, q := range []string{"a1", "b2", "c3"} {
		m.Record(QueryEvent{Query: q, Kind: KindText, ResultCount: 1})
	}
	assert.Len(t, m.Snapshot().TopTerms, 2)
}

func TestQueryMetrics_EmptySnapshot(t *testing.T) {
	snap := NewQueryMetrics().Snapshot()
	assert.Equal(t, int64(0), snap.TotalQueries)
	assert.Equal(t, float64(0), snap.ZeroResultPercentage())
	assert.NotNil(t, snap.TopTerms)
	assert.False(t, snap.Since.IsZero())
}

func TestQueryMetrics_Concurrent(t *testing.T) {
	m := NewQueryMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Record(QueryEvent{Query: "redmi", Kind: KindText, ResultCount: 1})
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, int64(1000), snap.TotalQueries)
	assert.Equal(t, int64(1000), snap.TopTerms[0].Count)
}
