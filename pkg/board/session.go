// Package board drives an owner's task board: it applies checklist edits to
// the local store right away and pushes each edited task to the API once the
// task has been left alone for SyncDelay, then tells the other clients about
// it over the realtime channel.
package board

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/asyncx"
	"github.com/Abraxas-365/taskboard/pkg/fnx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/Abraxas-365/taskboard/pkg/realtime"
	"github.com/Abraxas-365/taskboard/pkg/task"
)

// SyncDelay is how long a task must stay untouched before it is synced.
const SyncDelay = 1000 * time.Millisecond

// Mutation is a store action applied to the board.
type Mutation func(b *task.Board) error

// Option configures a Session.
type Option func(*Session)

// WithScheduler replaces the timer source used for sync delays.
func WithScheduler(s asyncx.Scheduler) Option {
	return func(sess *Session) { sess.scheduler = s }
}

// WithSyncTimeout bounds each synchronization call.
func WithSyncTimeout(d time.Duration) Option {
	return func(sess *Session) { sess.syncTimeout = d }
}

// OnSyncError registers a hook for failed syncs. Hooks accumulate.
func OnSyncError(fn func(error)) Option {
	return func(sess *Session) { sess.onSyncError = fnx.Chain(sess.onSyncError, fn) }
}

// OnRemoteSync registers a hook called with the previous and new version of a
// task replaced by an inbound syncTask. Hooks accumulate.
func OnRemoteSync(fn func(RemoteSync)) Option {
	return func(sess *Session) { sess.onRemoteSync = fnx.Chain(sess.onRemoteSync, fn) }
}

// RemoteSync describes a task replaced by another client's sync.
type RemoteSync struct {
	Index  int
	Before task.Task
	After  task.Task
}

// Session is one owner's live board.
type Session struct {
	owner   kernel.UserID
	board   *task.Board
	channel realtime.Channel
	loader  task.Loader
	syncer  task.Syncer

	scheduler    asyncx.Scheduler
	syncTimeout  time.Duration
	onSyncError  func(error)
	onRemoteSync func(RemoteSync)
	debouncer    *asyncx.Debouncer[int]
	log          *logx.Entry

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	listener realtime.ListenerID
	started  bool
	closed   bool
}

// NewSession wires a board for owner. Nothing is loaded until Start.
func NewSession(owner kernel.UserID, ch realtime.Channel, loader task.Loader, syncer task.Syncer, opts ...Option) *Session {
	s := &Session{
		owner:       owner,
		board:       task.NewBoard(),
		channel:     ch,
		loader:      loader,
		syncer:      syncer,
		scheduler:   asyncx.SystemScheduler,
		syncTimeout: 10 * time.Second,
		log:         logx.WithComponent("board").WithField("owner", owner),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debouncer = asyncx.NewDebouncer[int](SyncDelay, asyncx.WithScheduler(s.scheduler))
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Board exposes the store for reads.
func (s *Session) Board() *task.Board { return s.board }

// Start loads the owner's tasks and subscribes to syncTask at the same time.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed()
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted()
	}
	s.started = true
	s.mu.Unlock()

	load := asyncx.FromFunc(func() (int, error) {
		if err := s.board.Load(ctx, s.loader, s.owner); err != nil {
			return 0, err
		}
		return s.board.Len(), nil
	})
	subscribe := func(done asyncx.Callback) {
		id := s.channel.On(realtime.EventSyncTask, s.handleSyncTask)
		s.mu.Lock()
		s.listener = id
		s.mu.Unlock()
		done(nil, id)
	}

	v, err := asyncx.Resolve(ctx, asyncx.Parallel([]asyncx.Thunk{load, subscribe}, nil))
	if err != nil {
		s.mu.Lock()
		id := s.listener
		s.listener = 0
		s.started = false
		s.mu.Unlock()
		s.channel.RemoveListener(realtime.EventSyncTask, id)
		return err
	}

	results := v.([]any)
	s.log.WithField("tasks", results[0]).Info("board loaded")
	return nil
}

// Modify applies mutation to the store right away. When it succeeds the
// sync for taskIndex is (re)scheduled SyncDelay from now, replacing any sync
// still waiting for that task.
func (s *Session) Modify(taskIndex int, mutation Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed()
	}

	if err := mutation(s.board); err != nil {
		return err
	}

	s.debouncer.Trigger(taskIndex, func() { s.scheduledSync(taskIndex) })
	return nil
}

func (s *Session) CheckEntry(taskIdx, listIdx, entryIdx int) error {
	return s.Modify(taskIdx, func(b *task.Board) error { return b.CheckEntry(taskIdx, listIdx, entryIdx) })
}

func (s *Session) AddEntry(taskIdx, listIdx int, text string) error {
	return s.Modify(taskIdx, func(b *task.Board) error { return b.AddEntry(taskIdx, listIdx, text) })
}

func (s *Session) RemoveEntry(taskIdx, listIdx, entryIdx int) error {
	return s.Modify(taskIdx, func(b *task.Board) error { return b.RemoveEntry(taskIdx, listIdx, entryIdx) })
}

func (s *Session) AddChecklist(taskIdx int, title string) error {
	return s.Modify(taskIdx, func(b *task.Board) error { return b.AddChecklist(taskIdx, title) })
}

func (s *Session) RemoveChecklist(taskIdx, listIdx int) error {
	return s.Modify(taskIdx, func(b *task.Board) error { return b.RemoveChecklist(taskIdx, listIdx) })
}

// Pending reports whether taskIndex has a sync waiting.
func (s *Session) Pending(taskIndex int) bool {
	return s.debouncer.Pending(taskIndex)
}

// Flush runs every waiting sync now, concurrently.
func (s *Session) Flush(ctx context.Context) error {
	return s.flush(ctx, s.debouncer.Drain())
}

// Close stops listening for syncTask, flushes the syncs still waiting so no
// edit is lost, then clears the store. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pending := s.debouncer.Drain()
	id := s.listener
	s.listener = 0
	s.mu.Unlock()

	if id != 0 {
		s.channel.RemoveListener(realtime.EventSyncTask, id)
	}

	err := s.flush(ctx, pending)
	s.debouncer.Settle()
	s.cancel()
	s.board.Dispose()

	s.log.Debug("session closed")
	return err
}

func (s *Session) flush(ctx context.Context, pending map[int]func()) error {
	if len(pending) == 0 {
		return nil
	}

	indexes := make([]int, 0, len(pending))
	for idx := range pending {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	thunks := make([]asyncx.Thunk, len(indexes))
	for i, idx := range indexes {
		thunks[i] = asyncx.FromFunc(func() (*task.UpdateResult, error) {
			return s.sync(ctx, idx)
		})
	}
	_, err := asyncx.Resolve(ctx, asyncx.Parallel(thunks, nil))
	return err
}

// scheduledSync is what a debounce timer runs. Close waits for it through
// the debouncer, so it still runs when Close raced with the timer.
func (s *Session) scheduledSync(taskIndex int) {
	_, _ = s.sync(s.ctx, taskIndex)
}

// sync pushes the task at taskIndex and announces the stored version.
func (s *Session) sync(ctx context.Context, taskIndex int) (*task.UpdateResult, error) {
	t, err := s.board.Task(taskIndex)
	if err != nil {
		return nil, s.syncFailed(taskIndex, "", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.syncTimeout)
	defer cancel()

	res, err := s.syncer.UpdateChecklist(ctx, t.ID, t.Checklists)
	if err != nil {
		return nil, s.syncFailed(taskIndex, t.ID, err)
	}
	if err := s.channel.Emit(realtime.EventSyncTask, res.New); err != nil {
		return nil, s.syncFailed(taskIndex, t.ID, err)
	}

	s.log.WithFields(logx.Fields{"task_index": taskIndex, "task_id": t.ID}).Debug("task synced")
	return res, nil
}

func (s *Session) syncFailed(taskIndex int, id kernel.TaskID, cause error) error {
	err := task.ErrRegistry.NewWithCause(task.CodeSyncFailed, cause).
		WithDetail("task_index", taskIndex).
		WithDetail("task_id", id.String())

	s.log.WithError(cause).WithFields(logx.Fields{"task_index": taskIndex, "task_id": id}).Error("sync failed")
	if s.onSyncError != nil {
		s.onSyncError(err)
	}
	return err
}

func (s *Session) handleSyncTask(data json.RawMessage) {
	var incoming task.Task
	if err := json.Unmarshal(data, &incoming); err != nil || incoming.ID.IsEmpty() {
		s.log.WithField("data", string(data)).Warn("ignoring malformed syncTask")
		return
	}

	var before task.Task
	for _, t := range s.board.Tasks() {
		if t.ID == incoming.ID {
			before = t
			break
		}
	}

	idx := s.board.SyncTask(incoming)
	if idx < 0 {
		return
	}
	s.log.WithFields(logx.Fields{"task_index": idx, "task_id": incoming.ID}).Debug("task replaced by remote sync")
	if s.onRemoteSync != nil {
		s.onRemoteSync(RemoteSync{Index: idx, Before: before, After: incoming.Clone()})
	}
}
