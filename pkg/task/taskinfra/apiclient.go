package taskinfra

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/task"
	"github.com/gofiber/fiber/v2"
)

// APIClient talks to the task REST API. It satisfies task.Loader and
// task.Syncer for board sessions running outside the server process.
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewAPIClient creates a client for the API rooted at baseURL
// (e.g. http://localhost:8080). timeout bounds calls whose context has no
// deadline.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

var (
	_ task.Loader = (*APIClient)(nil)
	_ task.Syncer = (*APIClient)(nil)
)

// ListByOwner calls GET /api/v1/users/:owner/tasks.
func (c *APIClient) ListByOwner(ctx context.Context, owner kernel.UserID) ([]task.Task, error) {
	var tasks []task.Task
	a := fiber.Get(c.baseURL + "/api/v1/users/" + url.PathEscape(owner.String()) + "/tasks")
	if err := c.do(ctx, a, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateChecklist calls PUT /api/v1/tasks/:id/checklist and returns the
// stored task under New.
func (c *APIClient) UpdateChecklist(ctx context.Context, id kernel.TaskID, checklists []task.Checklist) (*task.UpdateResult, error) {
	var res task.UpdateResult
	a := fiber.Put(c.baseURL + "/api/v1/tasks/" + url.PathEscape(id.String()) + "/checklist").
		JSON(checklistRequest{Checklists: checklists})
	if err := c.do(ctx, a, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Create calls POST /api/v1/tasks.
func (c *APIClient) Create(ctx context.Context, req CreateRequest) (*task.Task, error) {
	var created task.Task
	a := fiber.Post(c.baseURL + "/api/v1/tasks").JSON(req)
	if err := c.do(ctx, a, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateRequest is the body of POST /api/v1/tasks
type CreateRequest struct {
	Owner      kernel.UserID    `json:"owner"`
	Title      string           `json:"title"`
	Checklists []task.Checklist `json:"checklist"`
}

type checklistRequest struct {
	Checklists []task.Checklist `json:"checklist"`
}

// do runs the agent and decodes a 2xx body into out. Error bodies are
// decoded back into *errx.Error so registered codes survive the round trip.
func (c *APIClient) do(ctx context.Context, a *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return errx.Wrap(err, "invalid task api url", errx.TypeInternal).WithDetail("base_url", c.baseURL)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return errx.Wrap(errors.Join(errs...), "task api unreachable", errx.TypeExternal).
			WithDetail("base_url", c.baseURL)
	}

	if code < 200 || code >= 300 {
		var resp errx.Response
		if err := json.Unmarshal(body, &resp); err != nil || resp.Code == "" {
			return errx.External("task api returned an unexpected response").
				WithDetail("status", code)
		}
		return &errx.Error{
			Code:       resp.Code,
			Message:    resp.Error,
			Type:       errx.Type(resp.Type),
			HTTPStatus: code,
			Details:    resp.Details,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errx.Wrap(err, "failed to decode task api response", errx.TypeExternal)
	}
	return nil
}
