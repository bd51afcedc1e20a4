// internal/debounce/debounce.go
package debounce

import (
	"sync"
	"time"

	"github.com/vanhieuhoaiphu/currency-converter/internal/clock"
)

// Debouncer holds a value that only follows its input once the input has
// been quiet for the configured delay. Only the last value of a burst is
// ever delivered.
type Debouncer[T comparable] struct {
	mu       sync.Mutex
	clock    clock.Clock
	delay    time.Duration
	onSettle func(T)
	onDrop   func()

	input   T
	output  T
	timer   clock.Timer
	gen     uint64
	stopped bool
}

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	clock  clock.Clock
	onDrop func()
}

// WithClock replaces the runtime clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithDropHook registers f to be called whenever a pending value is
// superseded before it settles.
func WithDropHook(f func()) Option {
	return func(o *options) {
		o.onDrop = f
	}
}

// New creates a Debouncer whose output starts at initial. onSettle is
// called from the timer goroutine each time the output changes; it may be
// nil.
func New[T comparable](initial T, delay time.Duration, onSettle func(T), opts ...Option) *Debouncer[T] {
	o := options{clock: clock.Real()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Debouncer[T]{
		clock:    o.clock,
		delay:    delay,
		onSettle: onSettle,
		onDrop:   o.onDrop,
		input:    initial,
		output:   initial,
	}
}

// Set records a new input value. If it differs from the latest input, the
// pending timer (if any) is replaced by a fresh one.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || v == d.input {
		return
	}

	if d.timer != nil {
		if d.timer.Stop() && d.onDrop != nil {
			d.onDrop()
		}
	}

	d.input = v
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	changed := d.output != d.input
	d.output = d.input
	v := d.output
	cb := d.onSettle
	d.mu.Unlock()

	if changed && cb != nil {
		cb(v)
	}
}

// Value returns the current debounced output.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output
}

// Pending reports whether an input is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending timer. Inputs pending at Stop, and any later
// Set, are never delivered. A callback already running is not interrupted.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
