package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/storefront/internal/catalog"
)

func TestLiveQuery_TypingTriggersOneSearch(t *testing.T) {
	// Given: a live query with a short window
	var mu sync.Mutex
	var published []string
	done := make(chan struct{}, 4)

	lq := NewLiveQuery(NewEngine(), sliceSource(testCatalog()), 80*time.Millisecond,
		func(query string, items []catalog.Item) {
			mu.Lock()
			published = append(published, query)
			mu.Unlock()
			done <- struct{}{}
		})
	defer lq.Stop()

	// When: "s", "sa", "sam" are typed quickly
	lq.Type("s")
	time.Sleep(10 * time.Millisecond)
	lq.Type("sa")
	time.Sleep(10 * time.Millisecond)
	lq.Type("sam")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for search")
	}
	time.Sleep(200 * time.Millisecond)

	// Then: exactly one search ran, for "sam"
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"sam"}, published)
	assert.Equal(t, 1, lq.Runs())
	assert.Equal(t, "sam", lq.Query())
	assert.Equal(t, []string{"a", "c"}, ids(lq.Results()))
}

func TestLiveQuery_StopCancelsPendingSearch(t *testing.T) {
	lq := NewLiveQuery(NewEngine(), sliceSource(testCatalog()), 50*time.Millisecond, nil)

	lq.Type("galaxy")
	require.True(t, lq.Pending())
	lq.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, lq.Runs())
	assert.Empty(t, lq.Results())
}

func TestLiveQuery_Flush(t *testing.T) {
	lq := NewLiveQuery(NewEngine(), sliceSource(testCatalog()), time.Hour, nil)
	defer lq.Stop()

	lq.Type("iphone")
	lq.Flush()

	assert.Equal(t, []string{"b"}, ids(lq.Results()))

	// Clearing the input yields no results
	lq.Type("")
	lq.Flush()
	assert.Empty(t, lq.Results())
	assert.Equal(t, 2, lq.Runs())
}
