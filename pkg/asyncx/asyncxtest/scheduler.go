// Package asyncxtest provides a manually driven asyncx.Scheduler for tests
// that need deterministic control over timers.
package asyncxtest

import (
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/asyncx"
)

// Scheduler is an asyncx.Scheduler whose clock only moves through Advance.
// Timers fire synchronously on the goroutine calling Advance.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*timer
}

type timer struct {
	s       *Scheduler
	at      time.Duration
	seq     uint64
	f       func()
	stopped bool
	fired   bool
}

var _ asyncx.Scheduler = (*Scheduler)(nil)

// New returns a Scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{}
}

// AfterFunc registers f to run once the clock reaches now+d.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) asyncx.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &timer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Now returns the time elapsed since New.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns how many timers are neither fired nor stopped.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and fires every timer that becomes
// due, in deadline order. Timers scheduled by fired callbacks are honoured
// when they fall inside the window.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.fired = true
		s.mu.Unlock()

		next.f()
	}
}

func (s *Scheduler) nextDue(target time.Duration) *timer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live

	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].at == s.timers[j].at {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].at < s.timers[j].at
	})
	if len(s.timers) == 0 || s.timers[0].at > target {
		return nil
	}
	return s.timers[0]
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
