// Package debounce delays a value until its input has been quiet for a
// window, so only the settled value reaches the consumer.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiet period used when none is given.
const DefaultWindow = 200 * time.Millisecond

// Debouncer delivers the latest value passed to Set once no further Set
// has happened for the window. Intermediate values are dropped.
//
// Each Set bumps a generation counter; a timer whose generation is stale
// when it fires delivers nothing, even if time.Timer.Stop lost the race.
//
// Deliveries are serialized. fn must not call Stop or Flush.
type Debouncer[T any] struct {
	window time.Duration
	fn     func(T)

	// deliver is held for the duration of each fn call.
	deliver sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	latest  T
	settled T
	pending bool
	stopped bool
}

// New creates a debouncer that calls fn with each settled value.
// A window <= 0 uses DefaultWindow.
func New[T any](window time.Duration, fn func(T)) *Debouncer[T] {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer[T]{
		window: window,
		fn:     fn,
	}
}

// Window returns the quiet period.
func (d *Debouncer[T]) Window() time.Duration {
	return d.window
}

// Set records v as the latest value and restarts the quiet window.
// Ignored after Stop.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.latest = v
	d.pending = true
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.fire(gen)
	})
}

// Flush delivers the pending value now instead of waiting for the window.
// Does nothing if no value is pending.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.mu.Unlock()

	d.fire(gen)
}

// fire delivers the latest value if gen is still current.
func (d *Debouncer[T]) fire(gen uint64) {
	d.deliver.Lock()
	defer d.deliver.Unlock()

	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.settled = d.latest
	v := d.settled
	fn := d.fn
	d.mu.Unlock()

	if fn != nil {
		fn(v)
	}
}

// Value returns the last value that was delivered.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Pending reports whether a value is waiting for its window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any outstanding delivery and waits for one already in
// progress to return, so fn is never called once Stop has returned.
// Safe to call multiple times.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		d.pending = false
		if d.timer != nil {
			d.timer.Stop()
		}
	}
	d.mu.Unlock()

	d.deliver.Lock()
	d.deliver.Unlock() //nolint:staticcheck // waits for an in-flight fn
}
