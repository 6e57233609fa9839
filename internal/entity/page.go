package entity

import (
	"math"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*limit inside int.
	MaxPage = math.MaxInt / MaxPageSize
)

// ListTasksQuery is the client-chosen window over an owner's tasks.
type ListTasksQuery struct {
	Page   int
	Limit  int
	Status string
}

// Normalize clamps the window and resolves the status filter.
// An empty filter or "all" means every status.
func (q *ListTasksQuery) Normalize() (TaskStatus, error) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}

	status := strings.TrimSpace(q.Status)
	if status == "" || strings.EqualFold(status, StatusAll) {
		return "", nil
	}
	if !TaskStatus(status).Valid() {
		return "", NewValidationError("Status filter must be all, Pending or Completed")
	}
	return TaskStatus(status), nil
}

func (q ListTasksQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// TotalPages is ceil(total/size).
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
