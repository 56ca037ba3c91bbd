package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/redact"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// Operation names used in errors, logs and metrics.
const (
	OpList    = "list"
	OpGet     = "get"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OutcomeOK = "success"
)

// OperationRecorder receives the outcome of every service operation. The
// outcome is OutcomeOK or the ErrorKind name of the failure.
type OperationRecorder interface {
	ObserveTaskOperation(operation, outcome string, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveTaskOperation(string, string, time.Duration) {}

// TaskService provides task-related operations
type TaskService interface {
	// List returns one page of tasks, restricted to the given completion
	// state when completed is non-nil.
	List(ctx context.Context, completed *bool, page domain.PageRequest) (*TaskPageResponse, error)

	// GetByID retrieves a task by its ID
	GetByID(ctx context.Context, id int64) (*TaskResponse, error)

	// Create stores a new task under the client-supplied ID in req.
	Create(ctx context.Context, req TaskRequest) (*TaskResponse, error)

	// Update overwrites every mutable field of the task with the given ID.
	Update(ctx context.Context, id int64, req TaskRequest) (*TaskResponse, error)

	// Delete removes a task. Deleting an unknown ID succeeds.
	Delete(ctx context.Context, id int64) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo     TaskRepository
	recorder OperationRecorder
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if the repository is nil. A nil recorder disables
// operation metrics and a nil logger falls back to the default logger.
func NewTaskService(
	repo TaskRepository,
	recorder OperationRecorder,
	logger *slog.Logger,
) (TaskService, error) {
	if repo == nil {
		return nil, domain.NewValidationError("repo", "cannot be nil", domain.ErrValidation)
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		repo:     repo,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "task_service")),
	}, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(
	ctx context.Context,
	completed *bool,
	page domain.PageRequest,
) (_ *TaskPageResponse, err error) {
	defer s.observe(OpList, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := page.Validate(); err != nil {
		log.Debug("rejected page request", slog.String("error", err.Error()))
		return nil, invalidArgument(OpList, err.Error(), err)
	}

	var result *store.TaskPage
	if completed != nil {
		result, err = s.repo.ListByCompleted(ctx, *completed, page)
	} else {
		result, err = s.repo.List(ctx, page)
	}
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", redact.Error(err)))
		return nil, unclassified(OpList, "failed to list tasks", err)
	}

	resp := toPageResponse(result)
	log.Debug("listed tasks",
		slog.Int("page", resp.Number),
		slog.Int("returned", resp.NumberOfElements),
		slog.Int64("total", resp.TotalElements))
	return &resp, nil
}

// GetByID implements TaskService.GetByID
func (s *taskServiceImpl) GetByID(ctx context.Context, id int64) (_ *TaskResponse, err error) {
	defer s.observe(OpGet, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, notFound(OpGet, id, err)
		}
		log.Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", redact.Error(err)))
		return nil, unclassified(OpGet, "failed to retrieve task", err)
	}

	resp := toResponse(task)
	return &resp, nil
}

// Create implements TaskService.Create
// The existence check and the insert run in one transaction; a concurrent
// insert of the same ID is caught by the primary key and reported as a
// conflict as well.
func (s *taskServiceImpl) Create(ctx context.Context, req TaskRequest) (_ *TaskResponse, err error) {
	defer s.observe(OpCreate, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.ID == nil {
		log.Debug("rejected task without ID")
		return nil, invalidArgument(OpCreate, msgIDMandatory, nil)
	}
	id := *req.ID

	task, err := req.toTask(id)
	if err != nil {
		log.Debug("rejected invalid task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, invalidArgument(OpCreate, err.Error(), err)
	}

	err = store.WithinTx(ctx, s.repo.DB(), s.repo, func(ctx context.Context, txRepo TaskRepository) error {
		exists, err := txRepo.ExistsByID(ctx, id)
		if err != nil {
			return unclassified(OpCreate, "failed to check task existence", err)
		}
		if exists {
			return conflict(OpCreate, id, nil)
		}

		if err := txRepo.Create(ctx, task); err != nil {
			switch {
			case store.IsDuplicateError(err):
				return conflict(OpCreate, id, err)
			case errors.Is(err, domain.ErrValidation):
				return invalidArgument(OpCreate, err.Error(), err)
			default:
				return unclassified(OpCreate, "failed to create task", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logFailure(log, OpCreate, id, err)
		return nil, ensureServiceError(OpCreate, err)
	}

	log.Info("task created", slog.Int64("task_id", id))
	resp := toResponse(task)
	return &resp, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(ctx context.Context, id int64, req TaskRequest) (_ *TaskResponse, err error) {
	defer s.observe(OpUpdate, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.ID != nil && *req.ID != id {
		log.Debug("rejected mismatched task ID",
			slog.Int64("path_id", id),
			slog.Int64("body_id", *req.ID))
		return nil, invalidArgument(OpUpdate, msgIDMismatch, nil)
	}

	values, err := req.toTask(id)
	if err != nil {
		log.Debug("rejected invalid task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, invalidArgument(OpUpdate, err.Error(), err)
	}

	var updated *domain.Task
	err = store.WithinTx(ctx, s.repo.DB(), s.repo, func(ctx context.Context, txRepo TaskRepository) error {
		task, err := txRepo.GetByID(ctx, id)
		if err != nil {
			if store.IsNotFoundError(err) {
				return notFound(OpUpdate, id, err)
			}
			return unclassified(OpUpdate, "failed to retrieve task", err)
		}

		if err := task.Overwrite(values.Title, values.Description, values.Completed, values.DueDate); err != nil {
			return invalidArgument(OpUpdate, err.Error(), err)
		}

		if err := txRepo.Update(ctx, task); err != nil {
			if store.IsNotFoundError(err) {
				return notFound(OpUpdate, id, err)
			}
			return unclassified(OpUpdate, "failed to update task", err)
		}

		updated = task
		return nil
	})
	if err != nil {
		s.logFailure(log, OpUpdate, id, err)
		return nil, ensureServiceError(OpUpdate, err)
	}

	log.Info("task updated", slog.Int64("task_id", id))
	resp := toResponse(updated)
	return &resp, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, id int64) (err error) {
	defer s.observe(OpDelete, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	err = store.WithinTx(ctx, s.repo.DB(), s.repo, func(ctx context.Context, txRepo TaskRepository) error {
		if err := txRepo.Delete(ctx, id); err != nil {
			return unclassified(OpDelete, "failed to delete task", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(log, OpDelete, id, err)
		return ensureServiceError(OpDelete, err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

func (s *taskServiceImpl) observe(operation string, start time.Time, errp *error) {
	outcome := OutcomeOK
	if *errp != nil {
		outcome = KindOf(*errp).String()
	}
	s.recorder.ObserveTaskOperation(operation, outcome, time.Since(start))
}

// logFailure logs expected rejections at debug level and everything else,
// redacted, at error level.
func (s *taskServiceImpl) logFailure(log *slog.Logger, operation string, id int64, err error) {
	kind := KindOf(err)
	if kind == KindUnclassified {
		log.Error("task operation failed",
			slog.String("operation", operation),
			slog.Int64("task_id", id),
			slog.String("error", redact.Error(err)))
		return
	}
	log.Debug("task operation rejected",
		slog.String("operation", operation),
		slog.Int64("task_id", id),
		slog.String("kind", kind.String()))
}

// ensureServiceError wraps errors raised outside the transaction body, such
// as a failed BEGIN or COMMIT.
func ensureServiceError(operation string, err error) error {
	var serviceErr *TaskServiceError
	if errors.As(err, &serviceErr) {
		return err
	}
	return unclassified(operation, "transaction failed", err)
}
