package search

import (
	"sync"
	"time"

	"github.com/Aman-CERP/storefront/internal/catalog"
	"github.com/Aman-CERP/storefront/internal/debounce"
)

// ResultFunc receives the results of a settled query.
type ResultFunc func(query string, items []catalog.Item)

// LiveQuery runs a search each time typed input settles. Keystrokes that
// arrive within the debounce window never trigger a search of their own.
type LiveQuery struct {
	engine  *Engine
	src     Source
	publish ResultFunc
	deb     *debounce.Debouncer[string]

	mu      sync.RWMutex
	query   string
	results []catalog.Item
	runs    int
}

// NewLiveQuery creates a live query over src. A window <= 0 uses
// debounce.DefaultWindow. publish may be nil.
func NewLiveQuery(engine *Engine, src Source, window time.Duration, publish ResultFunc) *LiveQuery {
	lq := &LiveQuery{
		engine:  engine,
		src:     src,
		publish: publish,
		results: []catalog.Item{},
	}
	lq.deb = debounce.New(window, lq.run)
	return lq
}

// Type records the current input.
func (lq *LiveQuery) Type(input string) {
	lq.deb.Set(input)
}

// Flush searches for pending input immediately.
func (lq *LiveQuery) Flush() {
	lq.deb.Flush()
}

// Pending reports whether input is waiting to settle.
func (lq *LiveQuery) Pending() bool {
	return lq.deb.Pending()
}

// Query returns the last settled input.
func (lq *LiveQuery) Query() string {
	lq.mu.RLock()
	defer lq.mu.RUnlock()
	return lq.query
}

// Results returns the results of the last settled input.
func (lq *LiveQuery) Results() []catalog.Item {
	lq.mu.RLock()
	defer lq.mu.RUnlock()
	return append([]catalog.Item(nil), lq.results...)
}

// Runs returns how many searches have executed.
func (lq *LiveQuery) Runs() int {
	lq.mu.RLock()
	defer lq.mu.RUnlock()
	return lq.runs
}

// Stop cancels pending input. Safe to call multiple times.
func (lq *LiveQuery) Stop() {
	lq.deb.Stop()
}

func (lq *LiveQuery) run(query string) {
	items := lq.engine.Search(lq.src.All(), query)

	lq.mu.Lock()
	lq.query = query
	lq.results = items
	lq.runs++
	lq.mu.Unlock()

	if lq.publish != nil {
		lq.publish(query, items)
	}
}
