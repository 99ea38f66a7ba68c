package telemetry

import "sync"

// Ring is a fixed-capacity FIFO that evicts its oldest entry when full.
type Ring[T any] struct {
	mu    sync.RWMutex
	items []T
	next  int
	size  int
}

// NewRing creates a ring holding at most capacity entries.
// A capacity <= 0 uses 100.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 100
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Add appends v, evicting the oldest entry when full.
func (r *Ring[T]) Add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.next] = v
	r.next = (r.next + 1) % len(r.items)
	if r.size < len(r.items) {
		r.size++
	}
}

// Items returns the entries oldest first. Never nil.
func (r *Ring[T]) Items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, r.size)
	if r.size < len(r.items) {
		return append(out, r.items[:r.size]...)
	}
	out = append(out, r.items[r.next:]...)
	return append(out, r.items[:r.next]...)
}

// Len returns the number of entries held.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}
