package taskapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/Abraxas-365/taskboard/pkg/task"
	"github.com/Abraxas-365/taskboard/pkg/task/taskapi"
	"github.com/Abraxas-365/taskboard/pkg/task/taskinfra"
	"github.com/Abraxas-365/taskboard/pkg/task/tasksrv"
	"github.com/gofiber/fiber/v2"
)

func newApp(t *testing.T) (*fiber.App, *tasksrv.TaskService) {
	t.Helper()
	svc := tasksrv.NewTaskService(taskinfra.NewMemoryRepository())
	app := fiber.New(fiber.Config{ErrorHandler: errx.FiberErrorHandler})
	taskapi.NewTaskHandlers(svc).RegisterRoutes(app)
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	data, _ := io.ReadAll(res.Body)
	return res.StatusCode, data
}

func TestCreateAndList(t *testing.T) {
	app, _ := newApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/tasks",
		`{"owner":"ana","title":"Launch","checklist":[{"title":"Prep","entries":[{"text":"a"}]}]}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", status, body)
	}
	var created task.Task
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}

	status, body = do(t, app, http.MethodGet, "/api/v1/users/ana/tasks", "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	var tasks []task.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("tasks = %s", body)
	}

	status, _ = do(t, app, http.MethodGet, "/api/v1/tasks/"+created.ID.String(), "")
	if status != http.StatusOK {
		t.Fatalf("get status = %d", status)
	}
}

func TestUpdateChecklist_ReturnsNew(t *testing.T) {
	app, svc := newApp(t)
	created, err := svc.Create(context.Background(), tasksrv.CreateTaskRequest{Owner: "ana", Title: "T"})
	if err != nil {
		t.Fatal(err)
	}

	status, body := do(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID.String()+"/checklist",
		`{"checklist":[{"id":"c1","title":"L","entries":[{"id":"e1","text":"x","checked":true}]}]}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d body=%s", status, body)
	}
	var res task.UpdateResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.New.ID != created.ID || !res.New.Checklists[0].Entries[0].Checked {
		t.Fatalf("new = %+v", res.New)
	}
}

func TestErrors(t *testing.T) {
	app, _ := newApp(t)

	tests := []struct {
		name, method, path, body string
		status                   int
		code                     string
	}{
		{"unknown task", http.MethodGet, "/api/v1/tasks/nope", "", http.StatusNotFound, "TASK_NOT_FOUND"},
		{"sync unknown task", http.MethodPut, "/api/v1/tasks/nope/checklist", `{"checklist":[]}`, http.StatusNotFound, "TASK_NOT_FOUND"},
		{"missing checklist", http.MethodPut, "/api/v1/tasks/nope/checklist", `{}`, http.StatusBadRequest, "TASK_INVALID_TASK"},
		{"bad json", http.MethodPost, "/api/v1/tasks", `{`, http.StatusBadRequest, "VALIDATION"},
		{"blank title", http.MethodPost, "/api/v1/tasks", `{"owner":"ana"}`, http.StatusBadRequest, "TASK_INVALID_TASK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body=%s)", status, tt.status, body)
			}
			var resp errx.Response
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.code {
				t.Fatalf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}
