package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

// TaskPage is one page of tasks plus the size of the whole result set.
type TaskPage struct {
	Tasks   []*domain.Task
	Total   int64
	Request domain.PageRequest
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns one page of all tasks ordered by page.Sort.
	// The sort field must be one of domain.SortableTaskFields.
	List(ctx context.Context, page domain.PageRequest) (*TaskPage, error)

	// ListByCompleted is List restricted to tasks whose completed flag
	// equals completed.
	ListByCompleted(ctx context.Context, completed bool, page domain.PageRequest) (*TaskPage, error)

	// ExistsByID reports whether a task with the given ID is stored.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Create inserts a new task. The task ID is part of the primary key,
	// so a concurrent or repeated insert fails with ErrTaskExists.
	Create(ctx context.Context, task *domain.Task) error

	// Update overwrites the mutable fields of an existing task.
	// Returns ErrTaskNotFound if no row matches the task ID.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID. Deleting a missing task is not an error.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a TaskStore that runs every statement in tx. See WithinTx.
	WithTx(tx *sql.Tx) TaskStore
}
