package asyncx

import (
	"sync"
	"time"
)

// ─── Scheduling ──────────────────────────────────────────────────────────────

// Timer is a pending delayed call.
type Timer interface {
	// Stop prevents the call from firing. It reports false if the call already
	// fired or was stopped.
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules on the runtime timers.
var SystemScheduler Scheduler = realScheduler{}

// ─── Debouncer ────────────────────────────────────────────────────────────────

// DebounceOption configures a Debouncer.
type DebounceOption func(*debounceOptions)

type debounceOptions struct {
	scheduler Scheduler
}

// WithScheduler replaces the scheduler used for idle timers.
func WithScheduler(s Scheduler) DebounceOption {
	return func(o *debounceOptions) {
		if s != nil {
			o.scheduler = s
		}
	}
}

type debounceEntry struct {
	timer Timer
	seq   uint64
	fn    func()
}

// Debouncer delays a callback per key until wait has passed without another
// Trigger for the same key. At most one timer is live per key: triggering a key
// again cancels and replaces its pending timer. Safe for concurrent use.
type Debouncer[K comparable] struct {
	wait      time.Duration
	scheduler Scheduler

	mu      sync.Mutex
	seq     uint64
	pending map[K]*debounceEntry
	running sync.WaitGroup
}

// NewDebouncer creates a Debouncer with the given idle window.
func NewDebouncer[K comparable](wait time.Duration, opts ...DebounceOption) *Debouncer[K] {
	o := debounceOptions{scheduler: SystemScheduler}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[K]{
		wait:      wait,
		scheduler: o.scheduler,
		pending:   make(map[K]*debounceEntry),
	}
}

// Wait returns the idle window.
func (d *Debouncer[K]) Wait() time.Duration {
	return d.wait
}

// Trigger (re)arms the timer for key so that fn runs once the key has been
// idle for the wait duration. A previously scheduled callback for key is
// discarded.
func (d *Debouncer[K]) Trigger(key K, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}

	d.seq++
	seq := d.seq
	entry := &debounceEntry{seq: seq, fn: fn}
	d.pending[key] = entry
	entry.timer = d.scheduler.AfterFunc(d.wait, func() {
		d.fire(key, seq)
	})
}

// fire runs the entry for key only if it is still the current one; a timer
// that lost a race with Stop is ignored. The entry leaves pending and joins
// running under the same lock, so Drain either returns it or Settle waits
// for it.
func (d *Debouncer[K]) fire(key K, seq uint64) {
	d.mu.Lock()
	entry, ok := d.pending[key]
	if !ok || entry.seq != seq {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	entry.fn()
}

// Cancel discards the pending callback for key. It reports whether one was
// pending.
func (d *Debouncer[K]) Cancel(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.pending[key]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(d.pending, key)
	return true
}

// Pending reports whether key has a scheduled callback.
func (d *Debouncer[K]) Pending(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Len returns the number of keys with a scheduled callback.
func (d *Debouncer[K]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Drain cancels every pending timer and hands back the callbacks that would
// have run, keyed by their key. The caller decides whether to run them.
func (d *Debouncer[K]) Drain() map[K]func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[K]func(), len(d.pending))
	for key, entry := range d.pending {
		entry.timer.Stop()
		out[key] = entry.fn
	}
	d.pending = make(map[K]*debounceEntry)
	return out
}

// Settle blocks until every callback already handed off by a fired timer has
// returned. Callers stop triggering first, usually through Drain.
func (d *Debouncer[K]) Settle() {
	d.running.Wait()
}

// Stop cancels every pending timer without running anything.
func (d *Debouncer[K]) Stop() {
	d.Drain()
}

// Debounced wraps fn so that it is only called after it stops being invoked
// for at least wait. Every call resets the timer. Thread-safe.
func Debounced(wait time.Duration, fn func()) func() {
	d := NewDebouncer[struct{}](wait)
	return func() {
		d.Trigger(struct{}{}, fn)
	}
}
