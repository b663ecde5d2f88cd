package tasksrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/Abraxas-365/taskboard/pkg/task"
)

// CreateTaskRequest carries the fields accepted when creating a task
type CreateTaskRequest struct {
	Owner      kernel.UserID    `json:"owner"`
	Title      string           `json:"title"`
	Checklists []task.Checklist `json:"checklist"`
}

type TaskService struct {
	repo task.Repository
	now  func() time.Time
	log  *logx.Entry
}

func NewTaskService(repo task.Repository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
		log:  logx.WithComponent("tasksrv"),
	}
}

var (
	_ task.Loader = (*TaskService)(nil)
	_ task.Syncer = (*TaskService)(nil)
)

// Create validates and stores a new task
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*task.Task, error) {
	title := strings.TrimSpace(req.Title)
	if req.Owner.IsEmpty() {
		return nil, task.ErrInvalidTask().WithDetail("field", "owner")
	}
	if title == "" {
		return nil, task.ErrInvalidTask().WithDetail("field", "title")
	}

	t := &task.Task{
		ID:         kernel.GenerateTaskID(),
		Owner:      req.Owner,
		Title:      title,
		Checklists: normalize(req.Checklists),
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, errx.Wrap(err, "failed to create task", errx.TypeInternal)
	}

	s.log.WithFields(logx.Fields{"task_id": t.ID, "owner": t.Owner}).Info("task created")
	return t, nil
}

// Get returns one task
func (s *TaskService) Get(ctx context.Context, id kernel.TaskID) (*task.Task, error) {
	return s.repo.Get(ctx, id)
}

// ListByOwner returns every task owned by owner
func (s *TaskService) ListByOwner(ctx context.Context, owner kernel.UserID) ([]task.Task, error) {
	if owner.IsEmpty() {
		return nil, task.ErrInvalidTask().WithDetail("field", "owner")
	}
	return s.repo.ListByOwner(ctx, owner)
}

// UpdateChecklist replaces a task's checklists and returns the stored task
func (s *TaskService) UpdateChecklist(ctx context.Context, id kernel.TaskID, checklists []task.Checklist) (*task.UpdateResult, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Checklists = normalize(checklists)
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, errx.Wrap(err, "failed to update checklist", errx.TypeInternal)
	}

	done, total := t.Progress()
	s.log.WithFields(logx.Fields{"task_id": id, "done": done, "total": total}).Debug("checklist updated")
	return &task.UpdateResult{New: *t}, nil
}

// Seed creates a few demo tasks for owner
func (s *TaskService) Seed(ctx context.Context, owner kernel.UserID) error {
	demo := []CreateTaskRequest{
		{Owner: owner, Title: "Ship release", Checklists: []task.Checklist{
			{Title: "Before", Entries: []task.Entry{{Text: "Freeze branch"}, {Text: "Update changelog"}}},
			{Title: "After", Entries: []task.Entry{{Text: "Announce"}}},
		}},
		{Owner: owner, Title: "Onboarding", Checklists: []task.Checklist{
			{Title: "Day one", Entries: []task.Entry{{Text: "Laptop"}, {Text: "Accounts"}, {Text: "Walkthrough"}}},
		}},
	}
	for _, req := range demo {
		if _, err := s.Create(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// normalize fills missing IDs and never returns nil
func normalize(lists []task.Checklist) []task.Checklist {
	out := task.CloneChecklists(lists)
	if out == nil {
		return []task.Checklist{}
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = kernel.NewID()
		}
		if out[i].Entries == nil {
			out[i].Entries = []task.Entry{}
		}
		for j := range out[i].Entries {
			if out[i].Entries[j].ID == "" {
				out[i].Entries[j].ID = kernel.NewID()
			}
		}
	}
	return out
}
