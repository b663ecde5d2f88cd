package asyncx_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/asyncx"
)

func TestSeries_RunsInOrder(t *testing.T) {
	var order []string
	step := func(name string) asyncx.Step {
		return asyncx.Task(func(done asyncx.Callback) {
			order = append(order, name)
			done(nil, name)
		})
	}

	var calls []finalCall
	asyncx.Series([]asyncx.Step{step("one"), step("two"), step("three")}, nil)(record(&calls))

	if !reflect.DeepEqual(order, []string{"one", "two", "three"}) {
		t.Fatalf("order = %v", order)
	}
	want := []any{"one", "two", "three"}
	if len(calls) != 1 || calls[0].err != nil || !reflect.DeepEqual(calls[0].value, want) {
		t.Fatalf("got %+v, want %v", calls, want)
	}
}

func TestSeries_WaitsForPreviousCompletion(t *testing.T) {
	first, second := &deferred{}, &deferred{}

	var calls []finalCall
	asyncx.Series([]asyncx.Step{asyncx.Task(first.thunk()), asyncx.Task(second.thunk())}, nil)(record(&calls))

	if second.started.Load() {
		t.Fatal("second step started before the first completed")
	}
	first.done(nil, 1)
	if !second.started.Load() {
		t.Fatal("second step did not start after the first completed")
	}
	second.done(nil, 2)

	if len(calls) != 1 || !reflect.DeepEqual(calls[0].value, []any{1, 2}) {
		t.Fatalf("got %+v", calls)
	}
}

func TestSeries_StopsOnFirstError(t *testing.T) {
	errT2 := errors.New("t2 failed")
	t3 := &deferred{}

	var calls []finalCall
	asyncx.Series([]asyncx.Step{
		asyncx.Task(succeed("t1")),
		asyncx.Task(fail(errT2)),
		asyncx.Task(t3.thunk()),
	}, nil)(record(&calls))

	if t3.started.Load() {
		t.Fatal("t3 must not start after t2 failed")
	}
	if len(calls) != 1 || !errors.Is(calls[0].err, errT2) {
		t.Fatalf("expected t2's error once, got %+v", calls)
	}
}

func TestSeries_EmptyCompletesImmediately(t *testing.T) {
	var calls []finalCall
	asyncx.Series(nil, nil)(record(&calls))

	if len(calls) != 1 || calls[0].err != nil || calls[0].value != nil {
		t.Fatalf("expected (nil, nil), got %+v", calls)
	}
}

func TestSeries_SkipsZeroSteps(t *testing.T) {
	var calls []finalCall
	asyncx.Series([]asyncx.Step{{}, asyncx.Task(succeed("x")), asyncx.Task(nil)}, nil)(record(&calls))

	if len(calls) != 1 || !reflect.DeepEqual(calls[0].value, []any{"x"}) {
		t.Fatalf("got %+v", calls)
	}
}

func TestSeries_GroupRunsInParallel(t *testing.T) {
	a, b := &deferred{}, &deferred{}

	var calls []finalCall
	asyncx.Series([]asyncx.Step{
		asyncx.Task(succeed("head")),
		asyncx.Group(a.thunk(), b.thunk()),
		asyncx.Group(),
		asyncx.Task(succeed("tail", 2)),
	}, nil)(record(&calls))

	if !a.started.Load() || !b.started.Load() {
		t.Fatal("both group members should start together")
	}
	b.done(nil, "b")
	a.done(nil, "a")

	want := []any{"head", []any{"a", "b"}, nil, []any{"tail", 2}}
	if len(calls) != 1 || calls[0].err != nil || !reflect.DeepEqual(calls[0].value, want) {
		t.Fatalf("got %+v, want %#v", calls, want)
	}
}

func TestSeries_GroupFailureStopsSeries(t *testing.T) {
	boom := errors.New("boom")
	after := &deferred{}

	var calls []finalCall
	asyncx.Series([]asyncx.Step{
		asyncx.Group(succeed(1), fail(boom)),
		asyncx.Task(after.thunk()),
	}, nil)(record(&calls))

	if after.started.Load() {
		t.Fatal("step after failed group must not start")
	}
	if len(calls) != 1 || !errors.Is(calls[0].err, boom) {
		t.Fatalf("got %+v", calls)
	}
}

func TestSeries_EachForwardedToGroups(t *testing.T) {
	type seen struct {
		value any
		index int
	}
	var got []seen
	each := func(err error, value any, index int) {
		got = append(got, seen{value: value, index: index})
	}

	var calls []finalCall
	asyncx.Series([]asyncx.Step{
		asyncx.Task(succeed("s0")),
		asyncx.Group(succeed("g0"), succeed("g1")),
	}, each)(record(&calls))

	want := []seen{
		{value: "s0", index: 0},
		{value: "g0", index: 0},
		{value: "g1", index: 1},
		{value: []any{"g0", "g1"}, index: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("each saw %+v, want %+v", got, want)
	}
}

func TestResolve_Series(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := asyncx.Resolve(ctx, asyncx.Series([]asyncx.Step{
		asyncx.Task(asyncx.FromFunc(func() (string, error) { return "a", nil })),
		asyncx.Group(asyncx.FromFunc(func() (int, error) { return 1, nil })),
	}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(v, []any{"a", []any{1}}) {
		t.Fatalf("got %#v", v)
	}
}

func TestResolve_ContextEndsFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	never := func(done asyncx.Callback) {}
	if _, err := asyncx.Resolve(ctx, never); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
