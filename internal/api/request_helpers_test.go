package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

func requestWithID(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(taskIDParam, id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "100", want: 100},
		{raw: "-5", want: -5},
		{raw: "9223372036854775807", want: 9223372036854775807},
		{raw: "9223372036854775808", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := parseTaskID(requestWithID(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				var vErr *domain.ValidationError
				assert.True(t, errors.As(err, &vErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestParseListParams(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name          string
		query         string
		wantCompleted *bool
		wantPage      domain.PageRequest
		wantErrField  string
	}{
		{
			name:     "defaults",
			query:    "",
			wantPage: domain.PageRequest{Page: 0, Size: 10, Sort: domain.Sort{Field: "id", Direction: domain.SortDesc}},
		},
		{
			name:          "all parameters",
			query:         "completed=true&page=2&size=5&sort=title,asc",
			wantCompleted: boolPtr(true),
			wantPage:      domain.PageRequest{Page: 2, Size: 5, Sort: domain.Sort{Field: "title", Direction: domain.SortAsc}},
		},
		{
			name:          "completed false",
			query:         "completed=false",
			wantCompleted: boolPtr(false),
			wantPage:      domain.NewPageRequest(),
		},
		{
			name:     "split sort parameters",
			query:    "sort=dueDate&sort=ASC",
			wantPage: domain.PageRequest{Page: 0, Size: 10, Sort: domain.Sort{Field: "dueDate", Direction: domain.SortAsc}},
		},
		{
			name:     "unknown direction is descending",
			query:    "sort=title,up",
			wantPage: domain.PageRequest{Page: 0, Size: 10, Sort: domain.Sort{Field: "title", Direction: domain.SortDesc}},
		},
		{
			name:     "range checks are deferred",
			query:    "page=-1&size=0",
			wantPage: domain.PageRequest{Page: -1, Size: 0, Sort: domain.DefaultSort()},
		},
		{name: "bad completed", query: "completed=maybe", wantErrField: "completed"},
		{name: "bad page", query: "page=first", wantErrField: "page"},
		{name: "bad size", query: "size=10.5", wantErrField: "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks?"+tt.query, nil)

			params, err := parseListParams(req)

			if tt.wantErrField != "" {
				var vErr *domain.ValidationError
				require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
				assert.Equal(t, tt.wantErrField, vErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCompleted, params.completed)
			assert.Equal(t, tt.wantPage, params.page)
		})
	}
}
