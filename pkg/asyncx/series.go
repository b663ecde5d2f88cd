package asyncx

// Step is one entry of a Series: either a single Thunk or a group of thunks
// that run in parallel as one step. The zero Step is skipped.
type Step struct {
	thunk Thunk
	group []Thunk
	multi bool
}

// Task wraps a single thunk as a Series step.
func Task(t Thunk) Step {
	return Step{thunk: t}
}

// Group wraps thunks that run through Parallel as a single Series step.
// The step's value is the group's []any, or nil when the group is empty.
func Group(tasks ...Thunk) Step {
	return Step{group: tasks, multi: true}
}

// IsZero reports whether the step carries no work.
func (s Step) IsZero() bool {
	return !s.multi && s.thunk == nil
}

func (s Step) resolve(each EachFunc) Thunk {
	if s.multi {
		return Parallel(s.group, each)
	}
	return s.thunk
}

// Series returns a Thunk that runs steps one after another in slice order.
// Each step starts only after the previous one completed successfully; the
// first error completes the series with that error and no further step runs.
// On success the step values are delivered in order.
//
// each is forwarded to group steps, so it also observes their inner tasks
// (indexed within the group) before it observes the step itself.
func Series(steps []Step, each EachFunc) Thunk {
	filtered := make([]Step, 0, len(steps))
	for _, s := range steps {
		if !s.IsZero() {
			filtered = append(filtered, s)
		}
	}

	return func(done Callback) {
		done = once(done)
		if len(filtered) == 0 {
			done(nil)
			return
		}

		results := make([]any, 0, len(filtered))

		var run func(i int)
		run = func(i int) {
			filtered[i].resolve(each)(once(func(err error, values ...any) {
				value := Value(values)
				if each != nil {
					each(err, value, i)
				}
				if err != nil {
					done(err)
					return
				}

				results = append(results, value)
				if i+1 == len(filtered) {
					done(nil, results)
					return
				}
				run(i + 1)
			}))
		}
		run(0)
	}
}
