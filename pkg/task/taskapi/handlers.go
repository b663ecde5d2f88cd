package taskapi

import (
	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/task"
	"github.com/Abraxas-365/taskboard/pkg/task/tasksrv"
	"github.com/gofiber/fiber/v2"
)

// TaskHandlers exposes the task service over REST
type TaskHandlers struct {
	service *tasksrv.TaskService
}

func NewTaskHandlers(service *tasksrv.TaskService) *TaskHandlers {
	return &TaskHandlers{service: service}
}

// RegisterRoutes mounts the task endpoints under /api/v1
func (h *TaskHandlers) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api/v1")

	api.Get("/users/:owner/tasks", h.ListByOwner)
	api.Post("/tasks", h.Create)
	api.Get("/tasks/:id", h.Get)
	api.Put("/tasks/:id/checklist", h.UpdateChecklist)
}

// ListByOwner GET /api/v1/users/:owner/tasks
func (h *TaskHandlers) ListByOwner(c *fiber.Ctx) error {
	tasks, err := h.service.ListByOwner(c.UserContext(), kernel.NewUserID(c.Params("owner")))
	if err != nil {
		return err
	}
	return c.JSON(tasks)
}

// Create POST /api/v1/tasks
func (h *TaskHandlers) Create(c *fiber.Ctx) error {
	var req tasksrv.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Wrap(err, "invalid request body", errx.TypeValidation)
	}

	t, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// Get GET /api/v1/tasks/:id
func (h *TaskHandlers) Get(c *fiber.Ctx) error {
	t, err := h.service.Get(c.UserContext(), kernel.NewTaskID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(t)
}

type updateChecklistRequest struct {
	Checklists *[]task.Checklist `json:"checklist"`
}

// UpdateChecklist PUT /api/v1/tasks/:id/checklist
func (h *TaskHandlers) UpdateChecklist(c *fiber.Ctx) error {
	var req updateChecklistRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Wrap(err, "invalid request body", errx.TypeValidation)
	}
	if req.Checklists == nil {
		return task.ErrInvalidTask().WithDetail("field", "checklist")
	}

	res, err := h.service.UpdateChecklist(c.UserContext(), kernel.NewTaskID(c.Params("id")), *req.Checklists)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
