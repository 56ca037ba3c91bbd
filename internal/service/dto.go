package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// LocalDateTimeLayout is the zone-less wire format of due dates.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// dateTimeLocalLayout is what an HTML datetime-local input submits.
const dateTimeLocalLayout = "2006-01-02T15:04"

// LocalDateTime is a date-time without a zone. It is held in UTC.
type LocalDateTime struct {
	time.Time
}

// NewLocalDateTime converts t to UTC, dropping sub-second precision.
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t.UTC().Truncate(time.Second)}
}

// MarshalJSON renders the value as "YYYY-MM-DDTHH:MM:SS".
func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(LocalDateTimeLayout))
}

// UnmarshalJSON accepts "YYYY-MM-DDTHH:MM:SS", "YYYY-MM-DDTHH:MM" and
// RFC 3339. Values carrying an offset are converted to UTC.
func (d *LocalDateTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: dueDate must be a string", domain.ErrInvalidFormat)
	}

	parsed, err := ParseLocalDateTime(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseLocalDateTime parses the formats accepted by UnmarshalJSON.
func ParseLocalDateTime(raw string) (LocalDateTime, error) {
	for _, layout := range []string{LocalDateTimeLayout, dateTimeLocalLayout} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return NewLocalDateTime(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return NewLocalDateTime(t), nil
	}
	return LocalDateTime{}, fmt.Errorf("%w: %q is not a date-time", domain.ErrInvalidFormat, raw)
}

func (d *LocalDateTime) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func localDateTimePtr(t *time.Time) *LocalDateTime {
	if t == nil {
		return nil
	}
	d := NewLocalDateTime(*t)
	return &d
}

// TaskRequest is the body accepted by create and update.
type TaskRequest struct {
	ID          *int64         `json:"id"`
	Title       string         `json:"title" validate:"max=255"`
	Description string         `json:"description" validate:"max=255"`
	Completed   bool           `json:"completed"`
	DueDate     *LocalDateTime `json:"dueDate"`
}

// TaskResponse is the wire representation of a stored task.
type TaskResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Completed   bool           `json:"completed"`
	DueDate     *LocalDateTime `json:"dueDate"`
}

// TaskPageResponse is one page of tasks with paging metadata. Page numbers
// are zero-based.
type TaskPageResponse struct {
	Content          []TaskResponse `json:"content"`
	TotalElements    int64          `json:"totalElements"`
	TotalPages       int            `json:"totalPages"`
	Size             int            `json:"size"`
	Number           int            `json:"number"`
	NumberOfElements int            `json:"numberOfElements"`
	First            bool           `json:"first"`
	Last             bool           `json:"last"`
	Empty            bool           `json:"empty"`
}

func toResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		DueDate:     localDateTimePtr(task.DueDate),
	}
}

// toTask builds a validated domain task with the given id from the request.
func (r TaskRequest) toTask(id int64) (*domain.Task, error) {
	return domain.NewTask(id, r.Title, r.Description, r.Completed, r.DueDate.timePtr())
}

func toPageResponse(page *store.TaskPage) TaskPageResponse {
	content := make([]TaskResponse, 0, len(page.Tasks))
	for _, task := range page.Tasks {
		content = append(content, toResponse(task))
	}

	totalPages := domain.TotalPages(page.Total, page.Request.Size)
	number := page.Request.Page

	return TaskPageResponse{
		Content:          content,
		TotalElements:    page.Total,
		TotalPages:       totalPages,
		Size:             page.Request.Size,
		Number:           number,
		NumberOfElements: len(content),
		First:            number == 0,
		Last:             number >= totalPages-1,
		Empty:            len(content) == 0,
	}
}
