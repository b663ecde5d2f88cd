package asyncx

import "sync"

// Parallel returns a Thunk that starts every task without waiting for the
// previous ones and completes with the index-aligned results once all of them
// succeeded. The first failure completes it with that error; later completions
// still reach each but never done. Nil tasks are dropped.
//
// An empty task list completes immediately with no error and no value.
func Parallel(tasks []Thunk, each EachFunc) Thunk {
	tasks = compactThunks(tasks)

	return func(done Callback) {
		done = once(done)
		if len(tasks) == 0 {
			done(nil)
			return
		}

		var (
			mu      sync.Mutex
			settled bool
			pending = len(tasks)
			results = make([]any, len(tasks))
		)

		for i, task := range tasks {
			task(once(func(err error, values ...any) {
				value := Value(values)
				if each != nil {
					each(err, value, i)
				}

				mu.Lock()
				if settled {
					mu.Unlock()
					return
				}
				if err != nil {
					settled = true
					mu.Unlock()
					done(err)
					return
				}

				results[i] = value
				pending--
				if pending > 0 {
					mu.Unlock()
					return
				}
				settled = true
				mu.Unlock()

				done(nil, results)
			}))
		}
	}
}

func compactThunks(tasks []Thunk) []Thunk {
	out := make([]Thunk, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
