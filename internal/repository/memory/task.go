package memory

import (
	"context"
	"sort"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/google/uuid"
)

type TaskRepository struct {
	s *Store
}

func (r *TaskRepository) Create(ctx context.Context, req *entity.CreateTaskRequest) (*entity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	task := entity.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		OwnerID:     req.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.tasks[task.ID] = task

	return &task, nil
}

func (r *TaskRepository) GetByTaskId(ctx context.Context, taskId string) (*entity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	task, ok := r.s.tasks[taskId]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, updates map[string]any) (*entity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}

	for field, value := range updates {
		switch field {
		case "title":
			task.Title = value.(string)
		case "description":
			task.Description = value.(string)
		case "status":
			switch v := value.(type) {
			case entity.TaskStatus:
				task.Status = v
			case string:
				task.Status = entity.TaskStatus(v)
			}
		}
	}
	task.UpdatedAt = r.s.now()
	r.s.tasks[id] = task

	return &task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return entity.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *TaskRepository) List(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.s.mu.RLock()
	matched := make([]entity.Task, 0)
	for _, task := range r.s.tasks {
		if task.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		matched = append(matched, task)
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if filter.Offset < 0 || filter.Offset >= len(matched) {
		return []entity.Task{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}

	return matched[filter.Offset:end], total, nil
}
