// Package debounce coalesces bursts of events into a single callback.
//
// A [Debouncer] holds at most one pending callback. Every Trigger cancels the
// pending one, replaces it and restarts the quiet window, so only the last
// event of a burst runs, exactly once, after the window elapses.
package debounce

import (
	"sync"
	"time"
)

// Default quiet windows for the interactive input streams.
const (
	DefaultDuration = 200 * time.Millisecond
	SliderDuration  = 100 * time.Millisecond
	SearchDuration  = 300 * time.Millisecond
	ResizeDuration  = 200 * time.Millisecond
)

// Debouncer delays a callback until no new trigger arrived for a window.
// It is safe for concurrent use.
type Debouncer struct {
	duration time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New returns a debouncer with the given window. A non-positive window
// uses DefaultDuration.
func New(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Debouncer{duration: d}
}

// Trigger schedules fn, replacing any pending callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Duration returns the quiet window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

// Value debounces a stream of values and applies only the last one.
type Value[T any] struct {
	d     *Debouncer
	apply func(T)
}

// NewValue returns a Value that calls apply with the last value set in each
// burst.
func NewValue[T any](d time.Duration, apply func(T)) *Value[T] {
	return &Value[T]{d: New(d), apply: apply}
}

// Set records v and restarts the quiet window.
func (v *Value[T]) Set(val T) {
	v.d.Trigger(func() { v.apply(val) })
}

// Cancel drops the pending value.
func (v *Value[T]) Cancel() {
	v.d.Cancel()
}
