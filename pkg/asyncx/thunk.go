package asyncx

import (
	"context"
	"sync/atomic"
)

// Callback receives the outcome of a Thunk. A non-nil err marks failure.
type Callback func(err error, values ...any)

// Thunk is a deferred unit of work. When invoked it must eventually call done;
// only the first call is honoured.
type Thunk func(done Callback)

// EachFunc observes every individual completion inside a combinator run.
// For Parallel index is the task position, for Series the step position.
// It may be called from several goroutines at once.
type EachFunc func(err error, value any, index int)

// Value collapses a thunk's result values: none becomes nil, a single value is
// returned as is, and more than one is kept as an ordered []any.
func Value(values []any) any {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	default:
		out := make([]any, len(values))
		copy(out, values)
		return out
	}
}

// once guards cb so that only its first invocation goes through.
func once(cb Callback) Callback {
	var fired atomic.Bool
	return func(err error, values ...any) {
		if !fired.CompareAndSwap(false, true) {
			return
		}
		cb(err, values...)
	}
}

// ToFuture invokes t and returns a Future settled by its first completion.
func ToFuture(t Thunk) *Future[any] {
	f, resolve := newFuture[any]()
	t(func(err error, values ...any) {
		resolve(Value(values), err)
	})
	return f
}

// Resolve invokes t and blocks until it completes or ctx is done.
func Resolve(ctx context.Context, t Thunk) (any, error) {
	return ToFuture(t).AwaitContext(ctx)
}

// FromFunc adapts a blocking function into a Thunk that runs it on its own
// goroutine.
func FromFunc[T any](fn func() (T, error)) Thunk {
	return func(done Callback) {
		go func() {
			v, err := fn()
			if err != nil {
				done(err)
				return
			}
			done(nil, v)
		}()
	}
}
