package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

const taskColumns = "id, title, description, completed, due_date"

// sortColumns maps the sortable task fields to their column names.
var sortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"completed":   "completed",
	"dueDate":     "due_date",
}

// TaskStore implements store.TaskStore on top of database/sql.
type TaskStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewTaskStore creates a TaskStore that runs its statements through db.
// If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx implements store.TaskStore.WithTx.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID", slog.Int64("task_id", id))

	query := s.dialect.Rebind(`
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = ?
	`)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "failed to get task", s.dialect.MapError(err))
	}

	return task, nil
}

// ExistsByID implements store.TaskStore.ExistsByID.
func (s *TaskStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`SELECT COUNT(*) FROM tasks WHERE id = ?`)

	var count int64
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		log.Error("failed to check task existence",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return false, store.NewStoreError("task", "exists", "failed to check task existence", s.dialect.MapError(err))
	}

	return count > 0, nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context, page domain.PageRequest) (*store.TaskPage, error) {
	return s.list(ctx, "", nil, page)
}

// ListByCompleted implements store.TaskStore.ListByCompleted.
func (s *TaskStore) ListByCompleted(
	ctx context.Context,
	completed bool,
	page domain.PageRequest,
) (*store.TaskPage, error) {
	return s.list(ctx, "WHERE completed = ?", []any{completed}, page)
}

func (s *TaskStore) list(
	ctx context.Context,
	where string,
	args []any,
	page domain.PageRequest,
) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	orderBy, err := orderClause(page.Sort)
	if err != nil {
		log.Warn("rejected task listing", slog.String("error", err.Error()))
		return nil, err
	}
	if page.Size <= 0 || page.Page < 0 {
		return nil, fmt.Errorf("%w: invalid page %d of size %d", store.ErrInvalidEntity, page.Page, page.Size)
	}

	var total int64
	countQuery := s.dialect.Rebind("SELECT COUNT(*) FROM tasks " + where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to count tasks", s.dialect.MapError(err))
	}

	result := &store.TaskPage{
		Tasks:   []*domain.Task{},
		Total:   total,
		Request: page,
	}
	if page.Offset() >= total {
		return result, nil
	}

	query := s.dialect.Rebind(fmt.Sprintf(`
		SELECT %s
		FROM tasks
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, taskColumns, where, orderBy))

	queryArgs := append(append([]any{}, args...), page.Size, page.Offset())
	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", s.dialect.MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		result.Tasks = append(result.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to read tasks", s.dialect.MapError(err))
	}

	log.Debug("listed tasks",
		slog.Int("page", page.Page),
		slog.Int("size", page.Size),
		slog.Int("returned", len(result.Tasks)),
		slog.Int64("total", total))
	return result, nil
}

// Create implements store.TaskStore.Create.
// The primary key rejects a second row with the same ID, which is reported
// as store.ErrTaskExists.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return err
	}

	query := s.dialect.Rebind(`
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Completed,
		dueDateValue(task.DueDate),
	)
	if err != nil {
		mapped := s.dialect.MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("task already exists",
				slog.Int64("task_id", task.ID))
			return fmt.Errorf("%w: id %d", store.ErrTaskExists, task.ID)
		}
		log.Error("failed to create task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "failed to insert task", mapped)
	}

	log.Info("task created successfully", slog.Int64("task_id", task.ID))
	return nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return err
	}

	query := s.dialect.Rebind(`
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, due_date = ?
		WHERE id = ?
	`)

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
		dueDateValue(task.DueDate),
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", "failed to update task", s.dialect.MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "update", "failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		log.Debug("task not found for update", slog.Int64("task_id", task.ID))
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully", slog.Int64("task_id", task.ID))
	return nil
}

// Delete implements store.TaskStore.Delete. Removing an ID that is not
// stored succeeds without touching any rows.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`DELETE FROM tasks WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "failed to delete task", s.dialect.MapError(err))
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected == 0 {
		log.Debug("delete matched no task", slog.Int64("task_id", id))
		return nil
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task    domain.Task
		dueDate sql.NullTime
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&dueDate,
	); err != nil {
		return nil, err
	}

	if dueDate.Valid {
		t := dueDate.Time.UTC()
		task.DueDate = &t
	}
	return &task, nil
}

// dueDateValue converts an optional due date into a driver argument.
func dueDateValue(dueDate *time.Time) any {
	if dueDate == nil {
		return nil
	}
	return dueDate.UTC()
}

// orderClause builds the ORDER BY clause for s. Only whitelisted fields are
// accepted; ties are broken by ascending ID so paging is stable.
func orderClause(s domain.Sort) (string, error) {
	column, ok := sortColumns[s.Field]
	if !ok {
		return "", fmt.Errorf("%w: unsupported sort field %q", store.ErrInvalidEntity, s.Field)
	}

	var direction string
	switch s.Direction {
	case domain.SortAsc:
		direction = "ASC"
	case domain.SortDesc:
		direction = "DESC"
	default:
		return "", fmt.Errorf("%w: unsupported sort direction %q", store.ErrInvalidEntity, s.Direction)
	}

	if column == "id" {
		return "id " + direction, nil
	}
	return fmt.Sprintf("%s %s, id ASC", column, direction), nil
}
