// Package debounce delays a call until a quiet period has passed, so only
// the most recent of a burst of calls runs.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the last function passed to Trigger once no further
// Trigger call arrives within its delay.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// New returns a Debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, superseding any call that has not run yet.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := seq == d.seq && !d.stopped
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop cancels the pending call and ignores later Trigger calls.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
