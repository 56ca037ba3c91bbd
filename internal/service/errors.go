package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure. The HTTP layer maps kinds to
// status codes; it never inspects message text.
type ErrorKind int

const (
	// KindUnclassified covers unexpected failures, typically from the store.
	KindUnclassified ErrorKind = iota
	// KindInvalidArgument means the caller supplied bad input.
	KindInvalidArgument
	// KindNotFound means the referenced task does not exist.
	KindNotFound
	// KindConflict means a task with the requested ID already exists.
	KindConflict
)

// String returns the kind name used in logs and metric labels.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unclassified"
	}
}

// Sentinel errors matched by errors.Is against any *TaskServiceError of the
// corresponding kind.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskExists      = errors.New("task already exists")
)

// Client-facing messages.
const (
	msgIDMandatory = "Task ID is mandatory."
	msgIDMismatch  = "ID in request body does not match ID in path."
	msgUnexpected  = "An unexpected error occurred"
	msgNotFoundFmt = "Task not found with id: %d"
	msgConflictFmt = "A task already exists with this ID: %d"
)

// TaskServiceError is the error type returned by every TaskService method.
type TaskServiceError struct {
	Kind      ErrorKind
	Operation string
	// Message is safe to return to clients for every kind except
	// KindUnclassified.
	Message string
	Err     error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *TaskServiceError) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrTaskNotFound:
		return e.Kind == KindNotFound
	case ErrTaskExists:
		return e.Kind == KindConflict
	}
	return false
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(kind ErrorKind, operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Kind:      kind,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// KindOf returns the kind of the first *TaskServiceError in err's chain,
// or KindUnclassified if there is none.
func KindOf(err error) ErrorKind {
	var serviceErr *TaskServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	return KindUnclassified
}

// ClientMessage returns the message to show a client for err. Unclassified
// failures get a generic message so internals never leak.
func ClientMessage(err error) string {
	var serviceErr *TaskServiceError
	if errors.As(err, &serviceErr) && serviceErr.Kind != KindUnclassified && serviceErr.Message != "" {
		return serviceErr.Message
	}
	return msgUnexpected
}

func invalidArgument(operation, message string, err error) *TaskServiceError {
	return NewTaskServiceError(KindInvalidArgument, operation, message, err)
}

func notFound(operation string, id int64, err error) *TaskServiceError {
	return NewTaskServiceError(KindNotFound, operation, fmt.Sprintf(msgNotFoundFmt, id), err)
}

func conflict(operation string, id int64, err error) *TaskServiceError {
	return NewTaskServiceError(KindConflict, operation, fmt.Sprintf(msgConflictFmt, id), err)
}

func unclassified(operation, message string, err error) *TaskServiceError {
	return NewTaskServiceError(KindUnclassified, operation, message, err)
}
