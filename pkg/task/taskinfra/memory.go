package taskinfra

import (
	"context"
	"sync"

	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/task"
)

// MemoryRepository keeps tasks in process memory, in creation order.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[kernel.TaskID]task.Task
	order []kernel.TaskID
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[kernel.TaskID]task.Task)}
}

var _ task.Repository = (*MemoryRepository)(nil)

// Create stores a new task. IDs must be unique.
func (r *MemoryRepository) Create(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[t.ID]; exists {
		return task.ErrInvalidTask().WithDetail("reason", "task id already exists").WithDetail("task_id", t.ID.String())
	}
	r.byID[t.ID] = t.Clone()
	r.order = append(r.order, t.ID)
	return nil
}

// Get returns a copy of the task with id.
func (r *MemoryRepository) Get(ctx context.Context, id kernel.TaskID) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, task.ErrTaskNotFound().WithDetail("task_id", id.String())
	}
	out := t.Clone()
	return &out, nil
}

// ListByOwner returns the owner's tasks in creation order. An owner without
// tasks gets an empty, non-nil slice.
func (r *MemoryRepository) ListByOwner(ctx context.Context, owner kernel.UserID) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []task.Task{}
	for _, id := range r.order {
		if t := r.byID[id]; t.Owner == owner {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// Update overwrites an existing task.
func (r *MemoryRepository) Update(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		return task.ErrTaskNotFound().WithDetail("task_id", t.ID.String())
	}
	r.byID[t.ID] = t.Clone()
	return nil
}
