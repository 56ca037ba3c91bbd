package domain

import (
	"time"
	"unicode/utf8"
)

// Column limits for task text fields.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 255
)

// Task is a unit of work identified by a client-assigned ID.
// IDs are never generated by the service; uniqueness is enforced at
// creation time and by the primary key of the tasks table.
type Task struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
}

// NewTask builds a Task and validates it.
func NewTask(id int64, title, description string, completed bool, dueDate *time.Time) (*Task, error) {
	task := &Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   completed,
		DueDate:     normalizeDueDate(dueDate),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the text fields fit their columns.
func (t *Task) Validate() error {
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return NewValidationError("title", "must be at most 255 characters", ErrValidation)
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return NewValidationError("description", "must be at most 255 characters", ErrValidation)
	}
	return nil
}

// Overwrite replaces every mutable field with the given values.
// The ID is left untouched.
func (t *Task) Overwrite(title, description string, completed bool, dueDate *time.Time) error {
	updated := *t
	updated.Title = title
	updated.Description = description
	updated.Completed = completed
	updated.DueDate = normalizeDueDate(dueDate)

	if err := updated.Validate(); err != nil {
		return err
	}

	*t = updated
	return nil
}

// normalizeDueDate stores due dates as zone-less wall-clock values in UTC,
// truncated to whole seconds, which is the precision the API exposes.
func normalizeDueDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	v := d.UTC().Truncate(time.Second)
	return &v
}
