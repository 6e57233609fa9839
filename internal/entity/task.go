package entity

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusCompleted TaskStatus = "Completed"
)

// StatusAll is the list filter value meaning "no status restriction".
const StatusAll = "all"

func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	OwnerID     string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status,omitempty"`
	OwnerID     string     `json:"-"` // always taken from the authenticated principal
}

// Validate trims the request and fills in the default status.
func (r *CreateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Title == "" || r.Description == "" {
		return NewValidationError("Please provide title and description")
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if !r.Status.Valid() {
		return NewValidationError("Status must be Pending or Completed")
	}
	return nil
}

// UpdateTaskRequest is a partial overwrite: nil or empty fields keep their
// current value, so a field can never be cleared through an update.
type UpdateTaskRequest struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
}

// Changes returns the column updates that differ from the current task.
func (r *UpdateTaskRequest) Changes(current *Task) (map[string]any, error) {
	updates := make(map[string]any)

	if r.Title != nil {
		if title := strings.TrimSpace(*r.Title); title != "" && title != current.Title {
			updates["title"] = title
		}
	}
	if r.Description != nil {
		if desc := strings.TrimSpace(*r.Description); desc != "" && desc != current.Description {
			updates["description"] = desc
		}
	}
	if r.Status != nil && *r.Status != "" {
		if !r.Status.Valid() {
			return nil, NewValidationError("Status must be Pending or Completed")
		}
		if *r.Status != current.Status {
			updates["status"] = *r.Status
		}
	}

	return updates, nil
}

// TaskFilter is what a store needs to answer one page of a listing.
type TaskFilter struct {
	OwnerID string
	Status  TaskStatus
	Offset  int
	Limit   int
}

type TaskPage struct {
	Tasks       []Task `json:"tasks"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalTasks  int64  `json:"totalTasks"`
}
