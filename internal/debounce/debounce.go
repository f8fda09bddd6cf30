// Package debounce coalesces rapid successive inputs: each call
// resets a pending timer and only the last value within the window
// reaches the callback. Used for search-as-you-type.
package debounce

import (
	"sync"
	"time"
)

type Debouncer struct {
	mu    sync.Mutex
	d     time.Duration
	fn    func(string)
	timer *time.Timer
}

func New(d time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{d: d, fn: fn}
}

// Trigger schedules fn(value) after the debounce window, cancelling
// any earlier pending call.
func (db *Debouncer) Trigger(value string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.d, func() { db.fn(value) })
}

// Stop cancels the pending call, if any.
func (db *Debouncer) Stop() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}
