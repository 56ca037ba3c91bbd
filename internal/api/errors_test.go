package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "invalid argument",
			err:  service.NewTaskServiceError(service.KindInvalidArgument, "create", "Task ID is mandatory.", nil),
			want: http.StatusBadRequest,
		},
		{
			name: "not found",
			err:  service.NewTaskServiceError(service.KindNotFound, "get", "Task not found with id: 1", nil),
			want: http.StatusNotFound,
		},
		{
			name: "conflict",
			err:  service.NewTaskServiceError(service.KindConflict, "create", "A task already exists with this ID: 1", nil),
			want: http.StatusConflict,
		},
		{
			name: "wrapped conflict",
			err: fmt.Errorf("handler: %w",
				service.NewTaskServiceError(service.KindConflict, "create", "exists", nil)),
			want: http.StatusConflict,
		},
		{
			name: "unclassified wrapping a store not-found stays 500",
			err:  service.NewTaskServiceError(service.KindUnclassified, "list", "failed", store.ErrTaskNotFound),
			want: http.StatusInternalServerError,
		},
		{
			name: "message text is not inspected",
			err:  errors.New("task not found, already exists"),
			want: http.StatusInternalServerError,
		},
		{
			name: "domain validation error",
			err:  domain.NewValidationError("size", "must be between 1 and 1000", domain.ErrValidation),
			want: http.StatusBadRequest,
		},
		{name: "nil", err: nil, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "client error keeps its message",
			err:  service.NewTaskServiceError(service.KindNotFound, "get", "Task not found with id: 9", nil),
			want: "Task not found with id: 9",
		},
		{
			name: "unclassified hides details",
			err: service.NewTaskServiceError(service.KindUnclassified, "list", "failed to list tasks",
				errors.New(`relation "tasks" does not exist`)),
			want: "An unexpected error occurred",
		},
		{
			name: "plain error hides details",
			err:  errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			want: "An unexpected error occurred",
		},
		{
			name: "validation error",
			err:  domain.NewValidationError("page", "must not be negative", domain.ErrValidation),
			want: "page must not be negative",
		},
		{name: "nil", err: nil, want: "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "derived message",
			err:        service.NewTaskServiceError(service.KindConflict, "create", "A task already exists with this ID: 100", nil),
			wantStatus: http.StatusConflict,
			wantMsg:    "A task already exists with this ID: 100",
		},
		{
			name:       "client error keeps the service message",
			err:        service.NewTaskServiceError(service.KindInvalidArgument, "update", "ID in request body does not match ID in path.", nil),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "ID in request body does not match ID in path.",
		},
		{
			name:       "server error gets the generic message",
			err:        errors.New("postgres://admin:secret@db:5432/tasks unreachable"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)

			HandleAPIError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotContains(t, rec.Body.String(), "secret")
		})
	}
}
