// Package debounce coalesces a rapidly changing value into a delayed one
// that only updates after the input has been stable for a fixed interval.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock overrides the clock used to schedule timers.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// Debouncer delivers the most recent value passed to Set once no further
// Set call happened for the configured delay.
//
// At most one timer is outstanding. Every Set cancels it and schedules a new
// one, so a value is delivered at most once per quiet period. Settled values
// are read from C.
type Debouncer[T any] struct {
	clock clockwork.Clock
	delay time.Duration

	mu      sync.Mutex
	timer   clockwork.Timer
	seq     uint64
	stopped bool
	out     chan T
}

// New creates a Debouncer with the given delay. A zero delay still defers
// delivery to a timer.
func New[T any](delay time.Duration, opts ...Option) *Debouncer[T] {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		clock: o.clock,
		delay: delay,
		out:   make(chan T, 1),
	}
}

// Delay returns the configured quiet period.
func (d *Debouncer[T]) Delay() time.Duration { return d.delay }

// C returns the channel settled values are delivered on. It is closed by Stop.
func (d *Debouncer[T]) C() <-chan T { return d.out }

// Set records v as the latest input and restarts the quiet period.
func (d *Debouncer[T]) Set(v T) {
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
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.fire(seq, v)
	})
}

// Pending reports whether a timer is scheduled and has not delivered yet.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any outstanding timer and closes C. Calling Stop more than
// once is safe; Set after Stop is ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.out)
}

func (d *Debouncer[T]) fire(seq uint64, v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// A timer that already fired when Set or Stop cancelled it lands here
	// with a stale sequence number.
	if d.stopped || seq != d.seq {
		return
	}
	d.timer = nil

	// Replace an undelivered value so readers only see the latest one.
	select {
	case <-d.out:
	default:
	}
	d.out <- v
}
