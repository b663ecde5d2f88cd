package task

import (
	"context"

	"github.com/Abraxas-365/taskboard/pkg/kernel"
)

// Loader fetches the tasks shown on an owner's board
type Loader interface {
	ListByOwner(ctx context.Context, owner kernel.UserID) ([]Task, error)
}

// Syncer persists a task's checklists and returns the stored task
type Syncer interface {
	UpdateChecklist(ctx context.Context, id kernel.TaskID, checklists []Checklist) (*UpdateResult, error)
}

// Repository stores tasks on the server side
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id kernel.TaskID) (*Task, error)
	ListByOwner(ctx context.Context, owner kernel.UserID) ([]Task, error)
	Update(ctx context.Context, t *Task) error
}
