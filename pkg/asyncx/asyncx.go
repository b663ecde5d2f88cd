package asyncx

import (
	"context"
	"sync"
	"time"
)

// ─── Future ──────────────────────────────────────────────────────────────────

// Future represents a value that will be available asynchronously.
// Create one with Run or ToFuture and retrieve its value with Await.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newFuture[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, func(v T, err error) {
		f.once.Do(func() {
			f.value, f.err = v, err
			close(f.done)
		})
	}
}

// Run executes fn in a goroutine and returns a Future for its result.
// The goroutine starts immediately.
func Run[T any](fn func() (T, error)) *Future[T] {
	f, resolve := newFuture[T]()
	go func() {
		resolve(fn())
	}()
	return f
}

// Await blocks until the Future completes and returns its value and error.
// Safe to call multiple times and from multiple goroutines.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// AwaitContext is Await bounded by ctx. When ctx ends first the zero value
// and ctx.Err() are returned; the Future itself keeps running.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the Future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// ─── Retry ────────────────────────────────────────────────────────────────────

// RetryWithBackoff calls fn up to attempts times with exponential backoff
// starting at initialDelay. The delay doubles after each failed attempt.
// Respects context cancellation between retries.
func RetryWithBackoff[T any](
	ctx context.Context,
	attempts int,
	initialDelay time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	var (
		zero  T
		err   error
		val   T
		delay = initialDelay
	)
	if attempts <= 0 {
		attempts = 1
	}
	for i := range attempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}

		if i < attempts-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
				delay *= 2
			}
		}
	}
	return zero, err
}
