// Package debounce provides a "cancel pending timer, schedule new one" primitive.
package debounce

import (
	"sync"
	"time"

	"github.com/krisalay/navcache/clock"
)

/*
Debouncer runs the most recently triggered function once the window has
passed without another trigger. Rapid triggers cancel the pending timer and
restart it: the last trigger wins.
*/
type Debouncer struct {
	clock  clock.Clock
	window time.Duration

	mu    sync.Mutex
	timer clock.Timer

	// gen identifies the latest schedule. A timer that fires after being
	// superseded sees a newer gen and does nothing.
	gen uint64
}

// New returns a Debouncer with the given window.
func New(clk clock.Clock, window time.Duration) *Debouncer {
	if clk == nil {
		clk = clock.System{}
	}
	return &Debouncer{clock: clk, window: window}
}

// Trigger cancels any pending call and schedules f after the window.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		f()
	})
}

// Cancel drops the pending call, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}
