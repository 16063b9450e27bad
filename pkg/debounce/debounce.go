package debounce

import (
	"sync"
	"time"
)

// DefaultDelay matches the search-input settle interval used across the app.
const DefaultDelay = 500 * time.Millisecond

// Debouncer delivers the most recent pushed value once the input has been
// quiet for the configured delay. Each Push restarts the timer; intermediate
// values are dropped (last write wins). Stop cancels any pending delivery.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	emit    func(T)
	pending T
	armed   bool
	stopped bool
}

// New constructs a debouncer that calls emit with the settled value. A
// non-positive delay falls back to DefaultDelay.
func New[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, emit: emit}
}

// Push records a new value and restarts the settle timer.
func (d *Debouncer[T]) Push(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = value
	d.armed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if d.stopped || !d.armed {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.armed = false
	d.mu.Unlock()
	d.emit(value)
}

// Flush delivers the pending value immediately, if one is armed.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

// Stop cancels the pending delivery, if any. No value is emitted after Stop
// returns; the debouncer must not be reused.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
