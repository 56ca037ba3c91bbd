package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

// Query parameter names accepted by the list endpoint.
const (
	paramCompleted = "completed"
	paramPage      = "page"
	paramSize      = "size"
	paramSort      = "sort"
)

// taskIDParam is the chi path parameter holding the task ID.
const taskIDParam = "id"

// listParams holds the parsed query of a list request.
type listParams struct {
	completed *bool
	page      domain.PageRequest
}

// parseTaskID reads the task ID from the URL path.
func parseTaskID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, taskIDParam)
	if raw == "" {
		return 0, domain.NewValidationError(taskIDParam, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(taskIDParam, "has invalid format", domain.ErrInvalidFormat)
	}
	return id, nil
}

// parseListParams reads the completion filter, paging and sort from the
// query string. Missing values fall back to page 0, size 10 and "id,desc".
// Range checks on page and size are left to the service.
func parseListParams(r *http.Request) (listParams, error) {
	query := r.URL.Query()
	params := listParams{page: domain.NewPageRequest()}

	if raw := strings.TrimSpace(query.Get(paramCompleted)); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return listParams{}, invalidParam(paramCompleted, "must be true or false")
		}
		params.completed = &completed
	}

	var err error
	if params.page.Page, err = intParam(query.Get(paramPage), domain.DefaultPage); err != nil {
		return listParams{}, invalidParam(paramPage, "must be an integer")
	}
	if params.page.Size, err = intParam(query.Get(paramSize), domain.DefaultPageSize); err != nil {
		return listParams{}, invalidParam(paramSize, "must be an integer")
	}

	// "sort=title,asc" and "sort=title&sort=asc" are equivalent.
	if values := query[paramSort]; len(values) > 0 {
		params.page.Sort = domain.ParseSort(strings.Join(values, ","))
	}

	return params, nil
}

func intParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func invalidParam(name, message string) error {
	return domain.NewValidationError(name, message, domain.ErrInvalidFormat)
}

// invalidParamMessage renders a query parameter error for the client.
func invalidParamMessage(err error) string {
	return fmt.Sprintf("Invalid query parameter: %v", err)
}
