package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// Messages for failures detected in the HTTP layer, before the service is
// called.
const (
	msgInvalidRequestFormat = "Invalid request format"
	msgInvalidTaskID        = "Invalid task ID format"
)

// MapErrorToStatusCode maps an error to an HTTP status code by its service
// error kind. Message text is never inspected.
func MapErrorToStatusCode(err error) int {
	switch service.KindOf(err) {
	case service.KindInvalidArgument:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	}

	// Validation failures raised below the service still count as bad input.
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidFormat) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns the message to send a client for err.
// Unclassified failures get a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return service.ClientMessage(nil)
	}

	var validationErr *domain.ValidationError
	if service.KindOf(err) == service.KindUnclassified && errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	return service.ClientMessage(err)
}

// HandleAPIError writes the error response for err. Server errors always
// get the generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		// Repeated conflicts usually mean a client is retrying a create.
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
