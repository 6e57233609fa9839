// Package dashboard holds the client-side state of the task list view:
// page, page size, status filter and the create/edit dialog. Every
// mutation refetches the current page instead of patching it locally.
package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/St1cky1/taskboard/internal/client"
	"github.com/St1cky1/taskboard/internal/entity"
)

const (
	DefaultPageSize = 9
	FilterAll       = entity.StatusAll

	deletePrompt = "Are you sure you want to delete this task?"
)

// TaskAPI is the part of client.Client the dashboard drives.
type TaskAPI interface {
	ListTasks(ctx context.Context, opts client.ListOptions) (*entity.TaskPage, error)
	CreateTask(ctx context.Context, req entity.CreateTaskRequest) (*entity.Task, error)
	UpdateTask(ctx context.Context, id string, req entity.UpdateTaskRequest) (*entity.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Notifier shows short success and failure messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

// Form is the content of the create/edit dialog.
type Form struct {
	Title       string
	Description string
	Status      entity.TaskStatus
}

type Dashboard struct {
	api       TaskAPI
	notifier  Notifier
	confirmer Confirmer
	isAdmin   bool

	page     int
	pageSize int
	filter   string

	tasks      []entity.Task
	totalPages int
	totalTasks int64
	loaded     bool

	dialogOpen bool
	editing    *entity.Task
}

func New(api TaskAPI, notifier Notifier, confirmer Confirmer, isAdmin bool) *Dashboard {
	return &Dashboard{
		api:       api,
		notifier:  notifier,
		confirmer: confirmer,
		isAdmin:   isAdmin,
		page:      1,
		pageSize:  DefaultPageSize,
		filter:    FilterAll,
	}
}

func (d *Dashboard) Page() int            { return d.page }
func (d *Dashboard) PageSize() int        { return d.pageSize }
func (d *Dashboard) Filter() string       { return d.filter }
func (d *Dashboard) Tasks() []entity.Task { return d.tasks }
func (d *Dashboard) TotalPages() int      { return d.totalPages }
func (d *Dashboard) TotalTasks() int64    { return d.totalTasks }
func (d *Dashboard) Loaded() bool         { return d.loaded }

// CanDelete reports whether delete controls are shown at all.
func (d *Dashboard) CanDelete() bool { return d.isAdmin }

func (d *Dashboard) HasPrev() bool { return d.page > 1 }
func (d *Dashboard) HasNext() bool { return d.page < d.totalPages }

// Refresh fetches the current page. On failure the previous page stays
// on screen.
func (d *Dashboard) Refresh(ctx context.Context) error {
	result, err := d.api.ListTasks(ctx, client.ListOptions{
		Page:   d.page,
		Limit:  d.pageSize,
		Status: d.filter,
	})
	if err != nil {
		d.fail("Failed to fetch tasks", err)
		return err
	}

	d.tasks = result.Tasks
	d.totalPages = result.TotalPages
	d.totalTasks = result.TotalTasks
	d.loaded = true
	return nil
}

// SetFilter changes the status filter and goes back to the first page.
func (d *Dashboard) SetFilter(ctx context.Context, filter string) error {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = FilterAll
	}
	d.filter = filter
	d.page = 1
	return d.Refresh(ctx)
}

// SetPageSize changes how many tasks a page holds and goes back to the
// first page. Sizes outside [1, entity.MaxPageSize] are clamped.
func (d *Dashboard) SetPageSize(ctx context.Context, n int) error {
	if n < 1 {
		n = DefaultPageSize
	}
	if n > entity.MaxPageSize {
		n = entity.MaxPageSize
	}
	d.pageSize = n
	d.page = 1
	return d.Refresh(ctx)
}

func (d *Dashboard) Next(ctx context.Context) error {
	if !d.HasNext() {
		return nil
	}
	d.page++
	return d.Refresh(ctx)
}

func (d *Dashboard) Prev(ctx context.Context) error {
	if !d.HasPrev() {
		return nil
	}
	d.page--
	return d.Refresh(ctx)
}

// GoTo jumps to page p, clamped to the known page range.
func (d *Dashboard) GoTo(ctx context.Context, p int) error {
	if d.totalPages > 0 && p > d.totalPages {
		p = d.totalPages
	}
	if p < 1 {
		p = 1
	}
	d.page = p
	return d.Refresh(ctx)
}

func (d *Dashboard) OpenCreate() {
	d.editing = nil
	d.dialogOpen = true
}

func (d *Dashboard) OpenEdit(task entity.Task) {
	d.editing = &task
	d.dialogOpen = true
}

func (d *Dashboard) CloseDialog() {
	d.editing = nil
	d.dialogOpen = false
}

func (d *Dashboard) DialogOpen() bool { return d.dialogOpen }

// Editing returns the task in the dialog, nil when creating.
func (d *Dashboard) Editing() *entity.Task { return d.editing }

// Submit saves the dialog. On success the dialog closes and the current
// page is refetched; on failure the dialog stays open.
func (d *Dashboard) Submit(ctx context.Context, form Form) error {
	var err error
	var done string
	if d.editing != nil {
		_, err = d.api.UpdateTask(ctx, d.editing.ID, entity.UpdateTaskRequest{
			Title:       &form.Title,
			Description: &form.Description,
			Status:      &form.Status,
		})
		done = "Task updated successfully"
	} else {
		_, err = d.api.CreateTask(ctx, entity.CreateTaskRequest{
			Title:       form.Title,
			Description: form.Description,
			Status:      form.Status,
		})
		done = "Task created successfully"
	}
	if err != nil {
		d.fail("Failed to save task", err)
		return err
	}

	d.notifier.Success(done)
	d.CloseDialog()
	return d.Refresh(ctx)
}

// Delete asks for confirmation first; a declined prompt sends nothing.
func (d *Dashboard) Delete(ctx context.Context, taskID string) error {
	if !d.confirmer.Confirm(deletePrompt) {
		return nil
	}

	if err := d.api.DeleteTask(ctx, taskID); err != nil {
		d.fail("Failed to delete task", err)
		return err
	}

	d.notifier.Success("Task deleted successfully")
	return d.Refresh(ctx)
}

// fail prefers the server's message over the generic fallback.
func (d *Dashboard) fail(fallback string, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		d.notifier.Error(apiErr.Message)
		return
	}
	if errors.Is(err, client.ErrUnauthenticated) {
		d.notifier.Error("Your session has expired, please sign in again")
		return
	}
	d.notifier.Error(fallback)
}
