package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service"
)

func int64Ptr(v int64) *int64 { return &v }

// setupTaskHandler returns a router serving the task endpoints backed by a
// mock service.
func setupTaskHandler(t *testing.T) (*MockTaskService, http.Handler) {
	t.Helper()

	svc := &MockTaskService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })

	handler := NewTaskHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return svc, router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	msg, _ := body["message"].(string)
	return msg
}

func TestNewTaskHandler_NilDependencies(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Panics(t, func() { NewTaskHandler(nil, log) })
	assert.Panics(t, func() { NewTaskHandler(&MockTaskService{}, nil) })
}

func TestListTasks(t *testing.T) {
	t.Run("passes filter and paging to the service", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		page := &service.TaskPageResponse{
			Content:          []service.TaskResponse{{ID: 3, Title: "three", Completed: true}},
			TotalElements:    1,
			TotalPages:       1,
			Size:             5,
			NumberOfElements: 1,
			First:            true,
			Last:             true,
		}
		want := domain.PageRequest{Page: 0, Size: 5, Sort: domain.Sort{Field: "title", Direction: domain.SortAsc}}
		svc.On("List", mock.Anything, mock.MatchedBy(func(c *bool) bool { return c != nil && *c }), want).
			Return(page, nil)

		rec := serve(router, http.MethodGet, "/api/tasks?completed=true&size=5&sort=title,asc", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"content":[{"id":3,"title":"three","description":"","completed":true,"dueDate":null}],
			"totalElements":1,"totalPages":1,"size":5,"number":0,
			"numberOfElements":1,"first":true,"last":true,"empty":false
		}`, rec.Body.String())
	})

	t.Run("no filter uses defaults", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("List", mock.Anything, (*bool)(nil), domain.NewPageRequest()).
			Return(&service.TaskPageResponse{Content: []service.TaskResponse{}, Empty: true}, nil)

		rec := serve(router, http.MethodGet, "/api/tasks", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed parameter never reaches the service", func(t *testing.T) {
		_, router := setupTaskHandler(t)

		rec := serve(router, http.MethodGet, "/api/tasks?page=two", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeMessage(t, rec), "page must be an integer")
	})

	t.Run("service rejection", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("List", mock.Anything, (*bool)(nil), mock.Anything).
			Return(nil, service.NewTaskServiceError(service.KindInvalidArgument, service.OpList, "size must be between 1 and 1000", nil))

		rec := serve(router, http.MethodGet, "/api/tasks?size=5000", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "size must be between 1 and 1000", decodeMessage(t, rec))
	})
}

func TestGetTask(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		due := service.NewLocalDateTime(time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC))
		svc.On("GetByID", mock.Anything, int64(42)).
			Return(&service.TaskResponse{ID: 42, Title: "answer", DueDate: &due}, nil)

		rec := serve(router, http.MethodGet, "/api/tasks/42", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t,
			`{"id":42,"title":"answer","description":"","completed":false,"dueDate":"2030-01-02T03:04:05"}`,
			rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("GetByID", mock.Anything, int64(7)).
			Return(nil, service.NewTaskServiceError(service.KindNotFound, service.OpGet, "Task not found with id: 7", nil))

		rec := serve(router, http.MethodGet, "/api/tasks/7", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found with id: 7", decodeMessage(t, rec))
	})

	t.Run("invalid id", func(t *testing.T) {
		_, router := setupTaskHandler(t)

		rec := serve(router, http.MethodGet, "/api/tasks/abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid task ID format", decodeMessage(t, rec))
	})

	t.Run("unexpected failure hides details", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("GetByID", mock.Anything, int64(1)).
			Return(nil, service.NewTaskServiceError(service.KindUnclassified, service.OpGet, "failed to retrieve task",
				errors.New("SELECT id FROM tasks: connection reset")))

		rec := serve(router, http.MethodGet, "/api/tasks/1", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "An unexpected error occurred", decodeMessage(t, rec))
		assert.NotContains(t, rec.Body.String(), "SELECT")
	})
}

func TestCreateTask(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		want := service.TaskRequest{ID: int64Ptr(100), Title: "Test Task"}
		svc.On("Create", mock.Anything, want).
			Return(&service.TaskResponse{ID: 100, Title: "Test Task"}, nil)

		rec := serve(router, http.MethodPost, "/api/tasks", `{"id":100,"title":"Test Task","completed":false}`)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		var body service.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(100), body.ID)
		assert.Equal(t, "Test Task", body.Title)
	})

	t.Run("due date is bound", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req service.TaskRequest) bool {
			return req.DueDate != nil &&
				req.DueDate.Equal(time.Date(2031, 6, 1, 9, 30, 0, 0, time.UTC))
		})).Return(&service.TaskResponse{ID: 5}, nil)

		rec := serve(router, http.MethodPost, "/api/tasks", `{"id":5,"dueDate":"2031-06-01T09:30:00"}`)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, service.NewTaskServiceError(service.KindConflict, service.OpCreate,
				"A task already exists with this ID: 100", nil))

		rec := serve(router, http.MethodPost, "/api/tasks", `{"id":100,"title":"Test Task"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeMessage(t, rec), "already exists")
	})

	t.Run("missing id", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("Create", mock.Anything, service.TaskRequest{Title: "no id"}).
			Return(nil, service.NewTaskServiceError(service.KindInvalidArgument, service.OpCreate, "Task ID is mandatory.", nil))

		rec := serve(router, http.MethodPost, "/api/tasks", `{"title":"no id"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Task ID is mandatory.", decodeMessage(t, rec))
	})

	badBodies := map[string]string{
		"malformed JSON":   `{"id":`,
		"empty body":       "",
		"wrong type":       `{"id":"one"}`,
		"invalid due date": `{"id":1,"dueDate":"tomorrow"}`,
	}
	for name, body := range badBodies {
		t.Run(name, func(t *testing.T) {
			_, router := setupTaskHandler(t)

			rec := serve(router, http.MethodPost, "/api/tasks", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid request format", decodeMessage(t, rec))
		})
	}

	t.Run("title too long", func(t *testing.T) {
		_, router := setupTaskHandler(t)
		body := `{"id":1,"title":"` + strings.Repeat("t", 256) + `"}`

		rec := serve(router, http.MethodPost, "/api/tasks", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "title must be at most 255 characters", decodeMessage(t, rec))
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("Update", mock.Anything, int64(9), service.TaskRequest{Title: "renamed", Completed: true}).
			Return(&service.TaskResponse{ID: 9, Title: "renamed", Completed: true}, nil)

		rec := serve(router, http.MethodPut, "/api/tasks/9", `{"title":"renamed","completed":true}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":9,"title":"renamed","description":"","completed":true,"dueDate":null}`, rec.Body.String())
	})

	t.Run("id mismatch", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("Update", mock.Anything, int64(9), service.TaskRequest{ID: int64Ptr(10)}).
			Return(nil, service.NewTaskServiceError(service.KindInvalidArgument, service.OpUpdate,
				"ID in request body does not match ID in path.", nil))

		rec := serve(router, http.MethodPut, "/api/tasks/9", `{"id":10}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ID in request body does not match ID in path.", decodeMessage(t, rec))
	})

	t.Run("not found", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("Update", mock.Anything, int64(404), mock.Anything).
			Return(nil, service.NewTaskServiceError(service.KindNotFound, service.OpUpdate, "Task not found with id: 404", nil))

		rec := serve(router, http.MethodPut, "/api/tasks/404", `{"title":"x"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id is checked before the body", func(t *testing.T) {
		_, router := setupTaskHandler(t)

		rec := serve(router, http.MethodPut, "/api/tasks/x", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid task ID format", decodeMessage(t, rec))
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("Delete", mock.Anything, int64(3)).Return(nil)

		rec := serve(router, http.MethodDelete, "/api/tasks/3", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		svc, router := setupTaskHandler(t)
		svc.On("Delete", mock.Anything, int64(3)).
			Return(service.NewTaskServiceError(service.KindUnclassified, service.OpDelete, "transaction failed", errors.New("tx")))

		rec := serve(router, http.MethodDelete, "/api/tasks/3", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "An unexpected error occurred", decodeMessage(t, rec))
	})
}
