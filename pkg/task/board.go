package task

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Abraxas-365/taskboard/pkg/fnx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
)

// Board is the client-side store of an owner's tasks. Every read returns a
// deep copy; every write is addressed by position, the way the board is
// rendered.
type Board struct {
	mu      sync.RWMutex
	tasks   []Task
	loading bool
}

// NewBoard returns an empty board that reports Loading until the first Load
func NewBoard() *Board {
	return &Board{loading: true}
}

// Load replaces the board contents with the owner's tasks
func (b *Board) Load(ctx context.Context, loader Loader, owner kernel.UserID) error {
	b.mu.Lock()
	b.loading = true
	b.mu.Unlock()

	tasks, err := loader.ListByOwner(ctx, owner)
	if err == nil {
		err = ctx.Err()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// an abandoned load leaves the store to whoever loads next
	if ctx.Err() == nil {
		b.loading = false
	}
	if err != nil {
		return ErrRegistry.NewWithCause(CodeLoadFailed, err).WithDetail("owner", owner.String())
	}
	b.tasks = make([]Task, len(tasks))
	for i, t := range tasks {
		b.tasks[i] = t.Clone()
	}
	return nil
}

// Loading reports whether a Load is in flight or has never completed
func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Len returns the number of tasks on the board
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tasks)
}

// Tasks returns a copy of every task
func (b *Board) Tasks() []Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Task, len(b.tasks))
	for i, t := range b.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns a copy of the task at index i
func (b *Board) Task(i int) (Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !fnx.InRange(0, len(b.tasks)-1)(i) {
		return Task{}, outOfRange("task", i)
	}
	return b.tasks[i].Clone(), nil
}

// CheckEntry toggles an entry's checked flag
func (b *Board) CheckEntry(taskIdx, listIdx, entryIdx int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, err := b.checklist(taskIdx, listIdx)
	if err != nil {
		return err
	}
	if !fnx.InRange(0, len(l.Entries)-1)(entryIdx) {
		return outOfRange("entry", entryIdx)
	}
	l.Entries[entryIdx].Checked = !l.Entries[entryIdx].Checked
	return nil
}

// AddEntry appends an unchecked entry to a checklist
func (b *Board) AddEntry(taskIdx, listIdx int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText().WithDetail("field", "entry")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	l, err := b.checklist(taskIdx, listIdx)
	if err != nil {
		return err
	}
	l.Entries = fnx.Append(l.Entries, Entry{ID: kernel.NewID(), Text: text})
	return nil
}

// RemoveEntry drops an entry from a checklist
func (b *Board) RemoveEntry(taskIdx, listIdx, entryIdx int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, err := b.checklist(taskIdx, listIdx)
	if err != nil {
		return err
	}
	if !fnx.InRange(0, len(l.Entries)-1)(entryIdx) {
		return outOfRange("entry", entryIdx)
	}
	l.Entries = fnx.RemoveAt(l.Entries, entryIdx)
	return nil
}

// AddChecklist appends an empty checklist to a task
func (b *Board) AddChecklist(taskIdx int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyText().WithDetail("field", "checklist")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := b.task(taskIdx)
	if err != nil {
		return err
	}
	t.Checklists = fnx.Append(t.Checklists, Checklist{ID: kernel.NewID(), Title: title, Entries: []Entry{}})
	return nil
}

// RemoveChecklist drops a checklist from a task
func (b *Board) RemoveChecklist(taskIdx, listIdx int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := b.task(taskIdx)
	if err != nil {
		return err
	}
	if !fnx.InRange(0, len(t.Checklists)-1)(listIdx) {
		return outOfRange("checklist", listIdx)
	}
	t.Checklists = fnx.RemoveAt(t.Checklists, listIdx)
	return nil
}

// SyncTask replaces the task with the same ID and returns its index, or -1
// when the board does not hold it.
func (b *Board) SyncTask(t Task) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.tasks, func(cur Task) bool { return cur.ID == t.ID })
	if i >= 0 {
		b.tasks[i] = t.Clone()
	}
	return i
}

// Dispose clears the board
func (b *Board) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = nil
	b.loading = true
}

func (b *Board) task(i int) (*Task, error) {
	if !fnx.InRange(0, len(b.tasks)-1)(i) {
		return nil, outOfRange("task", i)
	}
	return &b.tasks[i], nil
}

func (b *Board) checklist(taskIdx, listIdx int) (*Checklist, error) {
	t, err := b.task(taskIdx)
	if err != nil {
		return nil, err
	}
	if !fnx.InRange(0, len(t.Checklists)-1)(listIdx) {
		return nil, outOfRange("checklist", listIdx)
	}
	return &t.Checklists[listIdx], nil
}

func outOfRange(kind string, i int) error {
	return ErrIndexOutOfRange().WithDetail("kind", kind).WithDetail("index", i)
}
