package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/St1cky1/taskboard/internal/repository"
)

// AuditPublisher принимает сообщения аудита (RabbitMQ или запись напрямую в хранилище)
type AuditPublisher interface {
	PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error
}

type TaskService struct {
	taskRepo  repository.ITaskRepository
	auditRepo repository.ITaskAuditRepository
	publisher AuditPublisher
	pending   sync.WaitGroup
	now       func() time.Time
}

func NewTaskService(
	taskRepo repository.ITaskRepository,
	auditRepo repository.ITaskAuditRepository,
	publisher AuditPublisher,
) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, p entity.Principal, req *entity.CreateTaskRequest) (*entity.Task, error) {
	if err := Authorize(p, CapCreate, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Владелец всегда берется из токена, а не из тела запроса
	req.OwnerID = p.UserID

	task, err := s.taskRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.sendAuditMessage(entity.ActionCreate, p.UserID, task.ID, nil, task, nil)
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, p entity.Principal, taskID string) (*entity.Task, error) {
	task, err := s.taskRepo.GetByTaskId(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}
	if err := Authorize(p, CapRead, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, p entity.Principal, taskID string, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	oldTask, err := s.taskRepo.GetByTaskId(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if oldTask == nil {
		return nil, entity.ErrTaskNotFound
	}
	if err := Authorize(p, CapUpdate, oldTask); err != nil {
		return nil, err
	}

	updates, err := req.Changes(oldTask)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return oldTask, nil
	}

	updatedTask, err := s.taskRepo.Update(ctx, taskID, updates)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if updatedTask == nil {
		// удалена между чтением и записью
		return nil, entity.ErrTaskNotFound
	}

	s.sendAuditMessage(entity.ActionUpdate, p.UserID, taskID, oldTask, updatedTask, updates)
	return updatedTask, nil
}

// DeleteTask is admin-only; the role is checked before the lookup so that
// non-admins learn nothing about which ids exist.
func (s *TaskService) DeleteTask(ctx context.Context, p entity.Principal, taskID string) error {
	if err := Authorize(p, CapDelete, nil); err != nil {
		return err
	}

	task, err := s.taskRepo.GetByTaskId(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return entity.ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, entity.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.sendAuditMessage(entity.ActionDelete, p.UserID, taskID, task, nil, nil)
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, p entity.Principal, q entity.ListTasksQuery) (*entity.TaskPage, error) {
	if p.UserID == "" {
		return nil, entity.ErrUnauthenticated
	}

	status, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	tasks, total, err := s.taskRepo.List(ctx, entity.TaskFilter{
		OwnerID: p.UserID,
		Status:  status,
		Offset:  q.Offset(),
		Limit:   q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}

	return &entity.TaskPage{
		Tasks:       tasks,
		CurrentPage: q.Page,
		TotalPages:  entity.TotalPages(total, q.Limit),
		TotalTasks:  total,
	}, nil
}

// TaskHistory returns the audit trail of a task, newest first.
func (s *TaskService) TaskHistory(ctx context.Context, p entity.Principal, taskID string) ([]entity.TaskAudit, error) {
	if _, err := s.GetTask(ctx, p, taskID); err != nil {
		return nil, err
	}

	audits, err := s.auditRepo.ListByTaskId(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task audit: %w", err)
	}
	if audits == nil {
		audits = []entity.TaskAudit{}
	}
	return audits, nil
}

// Flush waits for audit messages that are still being published.
func (s *TaskService) Flush() {
	s.pending.Wait()
}

func taskValues(t *entity.Task) map[string]any {
	return map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"createdBy":   t.OwnerID,
	}
}

func (s *TaskService) sendAuditMessage(
	action entity.ActionType,
	userID string,
	taskID string,
	oldTask *entity.Task,
	newTask *entity.Task,
	updates map[string]any,
) {
	if s.publisher == nil {
		return
	}

	auditMsg := &entity.AuditMessage{
		Action:    action,
		UserID:    userID,
		EntityID:  taskID,
		Timestamp: s.now().UTC(),
	}

	if oldTask != nil {
		auditMsg.OldValues = taskValues(oldTask)
	}
	if newTask != nil {
		auditMsg.NewValues = taskValues(newTask)
	}
	if oldTask != nil && len(updates) > 0 {
		changes := make(map[string]any, len(updates))
		old := taskValues(oldTask)
		for field, value := range updates {
			if st, ok := value.(entity.TaskStatus); ok {
				value = string(st)
			}
			changes[field] = map[string]any{"old": old[field], "new": value}
		}
		auditMsg.Changes = changes
	}

	// Асинхронная отправка: ошибка аудита не должна ломать сам запрос
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishAuditMessage(ctx, auditMsg); err != nil {
			log.Printf("audit publish failed: %s task=%s: %v", action, taskID, err)
		}
	}()
}
