// Package asyncx provides callback-style control flow combinators, a keyed
// debouncer and a small set of future helpers for the task board.
//
// # Thunks
//
// A [Thunk] is a deferred unit of work: a function that takes a completion
// [Callback] and eventually calls it with an error (nil on success) and zero
// or more values. Only the first completion of a thunk is honoured. Result
// values collapse through [Value]: none becomes nil, one value is used as is,
// more than one stays an ordered []any.
//
//	load := func(done asyncx.Callback) {
//	    go func() {
//	        tasks, err := api.ListByOwner(ctx, owner)
//	        done(err, tasks)
//	    }()
//	}
//
// # Parallel
//
// [Parallel] starts every thunk without waiting on the others and completes
// with index-aligned results once all of them succeeded. The first failure
// completes it with that error; the final callback never fires twice.
//
//	asyncx.Parallel([]asyncx.Thunk{load, subscribe}, nil)(func(err error, values ...any) {
//	    // values[0] is []any{tasks, listenerID}
//	})
//
// # Series
//
// [Series] runs [Step] values strictly one after another. A step built with
// [Group] runs its thunks through [Parallel] as a single step. The first
// error stops the series and later steps never start.
//
//	asyncx.Series([]asyncx.Step{
//	    asyncx.Task(connect),
//	    asyncx.Group(loadTasks, loadChat),
//	}, nil)(done)
//
// Both combinators accept an optional [EachFunc] that observes every
// individual completion.
//
// # Bridging to blocking code
//
// [ToFuture] and [Resolve] turn a thunk into a [Future] or a blocking call
// bounded by a context. [FromFunc] goes the other way.
//
//	v, err := asyncx.Resolve(ctx, asyncx.Parallel(tasks, nil))
//
// # Debounce
//
// [Debouncer] keeps at most one live timer per key. Every [Debouncer.Trigger]
// for a key cancels the pending timer and arms a new one, so a burst of
// triggers collapses into a single call once the key has been idle for the
// wait duration.
//
//	d := asyncx.NewDebouncer[int](time.Second)
//	d.Trigger(taskIndex, func() { sync(taskIndex) })
//
// Timers come from a [Scheduler]; tests swap in a manual one with
// [WithScheduler]. [Debouncer.Drain] hands back every pending callback and
// [Debouncer.Settle] waits for the ones whose timers already fired, which
// together let a shutdown account for every trigger. [Debounced] is the
// single-key shorthand.
//
// # Retry
//
// [RetryWithBackoff] retries a context-aware function with exponential
// backoff, doubling the wait after every failure.
package asyncx
