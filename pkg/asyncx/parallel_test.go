package asyncx_test

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/asyncx"
)

func succeed(values ...any) asyncx.Thunk {
	return func(done asyncx.Callback) {
		done(nil, values...)
	}
}

func fail(err error) asyncx.Thunk {
	return func(done asyncx.Callback) {
		done(err)
	}
}

// deferred lets a test decide when and how a thunk completes.
type deferred struct {
	started atomic.Bool
	done    asyncx.Callback
}

func (d *deferred) thunk() asyncx.Thunk {
	return func(done asyncx.Callback) {
		d.started.Store(true)
		d.done = done
	}
}

type finalCall struct {
	err   error
	value any
}

func record(calls *[]finalCall) asyncx.Callback {
	return func(err error, values ...any) {
		*calls = append(*calls, finalCall{err: err, value: asyncx.Value(values)})
	}
}

func TestParallel_AllSucceedIndexAligned(t *testing.T) {
	a, b, c := &deferred{}, &deferred{}, &deferred{}

	var calls []finalCall
	asyncx.Parallel([]asyncx.Thunk{a.thunk(), b.thunk(), c.thunk()}, nil)(record(&calls))

	if !a.started.Load() || !b.started.Load() || !c.started.Load() {
		t.Fatal("expected every task to start before any completion")
	}

	// complete out of order
	c.done(nil, "c")
	a.done(nil, "a")
	if len(calls) != 0 {
		t.Fatalf("final callback fired before all tasks completed: %+v", calls)
	}
	b.done(nil, "b1", "b2")

	if len(calls) != 1 {
		t.Fatalf("expected exactly one final call, got %d", len(calls))
	}
	if calls[0].err != nil {
		t.Fatalf("unexpected error: %v", calls[0].err)
	}
	want := []any{"a", []any{"b1", "b2"}, "c"}
	if !reflect.DeepEqual(calls[0].value, want) {
		t.Fatalf("results = %#v, want %#v", calls[0].value, want)
	}
}

func TestParallel_FailureFiresOnce(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	var calls []finalCall
	asyncx.Parallel([]asyncx.Thunk{fail(errA), succeed("ok"), fail(errB)}, nil)(record(&calls))

	if len(calls) != 1 {
		t.Fatalf("expected exactly one final call, got %d: %+v", len(calls), calls)
	}
	if !errors.Is(calls[0].err, errA) {
		t.Fatalf("expected first failure to win, got %v", calls[0].err)
	}
	if calls[0].value != nil {
		t.Fatalf("expected no results on failure, got %#v", calls[0].value)
	}
}

func TestParallel_EachSeesEveryCompletion(t *testing.T) {
	boom := errors.New("boom")

	var (
		mu   sync.Mutex
		seen = map[int]any{}
		errs int
	)
	each := func(err error, value any, index int) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs++
			return
		}
		seen[index] = value
	}

	var calls []finalCall
	asyncx.Parallel([]asyncx.Thunk{succeed(1), fail(boom), succeed(3)}, each)(record(&calls))

	if errs != 1 || len(seen) != 2 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("each observed errs=%d seen=%v", errs, seen)
	}
	if len(calls) != 1 {
		t.Fatalf("expected one final call, got %d", len(calls))
	}
}

func TestParallel_EmptyCompletesImmediately(t *testing.T) {
	var calls []finalCall
	asyncx.Parallel(nil, nil)(record(&calls))

	if len(calls) != 1 || calls[0].err != nil || calls[0].value != nil {
		t.Fatalf("expected (nil, nil), got %+v", calls)
	}
}

func TestParallel_SkipsNilTasks(t *testing.T) {
	var calls []finalCall
	asyncx.Parallel([]asyncx.Thunk{nil, succeed("x"), nil}, nil)(record(&calls))

	want := []any{"x"}
	if len(calls) != 1 || !reflect.DeepEqual(calls[0].value, want) {
		t.Fatalf("got %+v, want %v", calls, want)
	}
}

func TestParallel_IgnoresRepeatedCompletion(t *testing.T) {
	chatty := func(done asyncx.Callback) {
		done(nil, "first")
		done(nil, "second")
		done(errors.New("late"))
	}

	var calls []finalCall
	asyncx.Parallel([]asyncx.Thunk{chatty, succeed("y")}, nil)(record(&calls))

	want := []any{"first", "y"}
	if len(calls) != 1 || calls[0].err != nil || !reflect.DeepEqual(calls[0].value, want) {
		t.Fatalf("got %+v, want %v", calls, want)
	}
}

func TestParallel_ConcurrentCompletions(t *testing.T) {
	const n = 64
	tasks := make([]asyncx.Thunk, n)
	for i := range n {
		tasks[i] = asyncx.FromFunc(func() (int, error) {
			time.Sleep(time.Duration(n-i) * 100 * time.Microsecond)
			return i * i, nil
		})
	}

	fut := asyncx.ToFuture(asyncx.Parallel(tasks, nil))
	v, err := fut.Await()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, ok := v.([]any)
	if !ok || len(results) != n {
		t.Fatalf("unexpected results %#v", v)
	}
	for i, r := range results {
		if r != i*i {
			t.Fatalf("results[%d] = %v, want %d", i, r, i*i)
		}
	}
}

func TestValue(t *testing.T) {
	if v := asyncx.Value(nil); v != nil {
		t.Fatalf("expected nil, got %#v", v)
	}
	if v := asyncx.Value([]any{"a"}); v != "a" {
		t.Fatalf("expected \"a\", got %#v", v)
	}
	if v := asyncx.Value([]any{"a", "b"}); !reflect.DeepEqual(v, []any{"a", "b"}) {
		t.Fatalf("expected [a b], got %#v", v)
	}
}
