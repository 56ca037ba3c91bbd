package domain

import (
	"fmt"
	"math"
	"strings"
)

// SortDirection orders paged results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Paging defaults applied when the client omits parameters.
const (
	DefaultPage      = 0
	DefaultPageSize  = 10
	MaxPageSize      = 1000
	DefaultSortField = "id"
)

// SortableTaskFields lists the task fields a client may sort on.
var SortableTaskFields = []string{"id", "title", "description", "completed", "dueDate"}

// Sort is a single field/direction ordering.
type Sort struct {
	Field     string
	Direction SortDirection
}

// DefaultSort orders tasks by descending ID.
func DefaultSort() Sort {
	return Sort{Field: DefaultSortField, Direction: SortDesc}
}

// ParseSort reads a "field,direction" string. The direction is ascending only
// when it equals "asc" case-insensitively; anything else, including a
// missing direction, means descending. An empty string yields DefaultSort.
func ParseSort(raw string) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort()
	}

	field, direction, _ := strings.Cut(raw, ",")
	field = strings.TrimSpace(field)
	if field == "" {
		field = DefaultSortField
	}

	s := Sort{Field: field, Direction: SortDesc}
	if strings.EqualFold(strings.TrimSpace(direction), string(SortAsc)) {
		s.Direction = SortAsc
	}
	return s
}

// String renders the sort back in "field,direction" form.
func (s Sort) String() string {
	return fmt.Sprintf("%s,%s", s.Field, s.Direction)
}

// PageRequest selects one page of an ordered result set.
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// NewPageRequest returns the first page with default size and ordering.
func NewPageRequest() PageRequest {
	return PageRequest{
		Page: DefaultPage,
		Size: DefaultPageSize,
		Sort: DefaultSort(),
	}
}

// Validate checks the page bounds and that the sort field is known.
func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return NewValidationError("page", "must not be negative", ErrValidation)
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		return NewValidationError("size", fmt.Sprintf("must be between 1 and %d", MaxPageSize), ErrValidation)
	}
	// The end of the page, (Page+1)*Size, must fit in an int64 offset.
	if maxPage := math.MaxInt64/int64(p.Size) - 1; int64(p.Page) > maxPage {
		return NewValidationError("page", fmt.Sprintf("must be at most %d for size %d", maxPage, p.Size), ErrValidation)
	}
	if !isSortableTaskField(p.Sort.Field) {
		return NewValidationError(
			"sort",
			fmt.Sprintf("unknown field %q, expected one of %s", p.Sort.Field, strings.Join(SortableTaskFields, ", ")),
			ErrValidation,
		)
	}
	if p.Sort.Direction != SortAsc && p.Sort.Direction != SortDesc {
		return NewValidationError("sort", "direction must be asc or desc", ErrValidation)
	}
	return nil
}

// Offset is the number of rows skipped before this page. It is only
// meaningful for a request that passed Validate.
func (p PageRequest) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// TotalPages returns how many pages of the given size hold total items.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func isSortableTaskField(field string) bool {
	for _, f := range SortableTaskFields {
		if f == field {
			return true
		}
	}
	return false
}
