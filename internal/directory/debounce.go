package directory

import (
	"sync"
	"time"
)

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed calls. The wall clock is used unless a test
// substitutes its own.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// WallClock returns the Clock backed by the time package.
func WallClock() Clock { return wallClock{} }

// Debouncer forwards the most recent pushed value once no newer value has
// arrived for the configured delay.
type Debouncer[T any] struct {
	delay time.Duration
	clock Clock
	emit  func(T)

	mu      sync.Mutex
	timer   Timer
	seq     uint64
	stopped bool
}

func NewDebouncer[T any](delay time.Duration, clock Clock, emit func(T)) *Debouncer[T] {
	if clock == nil {
		clock = WallClock()
	}
	return &Debouncer[T]{delay: delay, clock: clock, emit: emit}
}

// Push replaces any pending value with v and restarts the delay.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	if d.delay <= 0 {
		d.mu.Unlock()
		d.emit(v)
		return
	}
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(seq, v) })
	d.mu.Unlock()
}

func (d *Debouncer[T]) fire(seq uint64, v T) {
	d.mu.Lock()
	// a Stop or a later Push may have raced with the timer
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.emit(v)
}

// Cancel drops the pending value, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	d.cancelLocked()
	d.mu.Unlock()
}

// Stop cancels the pending value and disables the debouncer for good.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.cancelLocked()
	d.mu.Unlock()
}

// Pending reports whether a value is waiting for its delay to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}
