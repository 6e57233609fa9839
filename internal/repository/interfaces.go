package repository

import (
	"context"

	"github.com/St1cky1/taskboard/internal/entity"
)

// ITaskRepository - хранилище задач.
// GetByTaskId and Update return (nil, nil) when the task does not exist,
// including ids that are malformed for the backing store.
type ITaskRepository interface {
	Create(ctx context.Context, task *entity.CreateTaskRequest) (*entity.Task, error)
	GetByTaskId(ctx context.Context, taskId string) (*entity.Task, error)
	Update(ctx context.Context, id string, updates map[string]any) (*entity.Task, error)
	Delete(ctx context.Context, id string) error
	// List returns one page ordered by created_at DESC, id DESC plus the
	// total number of tasks matching the filter.
	List(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error)
}

// IUserRepository - хранилище пользователей.
// Create returns entity.ErrEmailTaken on a duplicate email.
type IUserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetById(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ITaskAuditRepository - журнал изменений задач.
type ITaskAuditRepository interface {
	Create(ctx context.Context, audit *entity.TaskAudit) error
	ListByTaskId(ctx context.Context, taskId string) ([]entity.TaskAudit, error)
}

// Store bundles the repositories of one backend.
type Store interface {
	Tasks() ITaskRepository
	Users() IUserRepository
	Audits() ITaskAuditRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
