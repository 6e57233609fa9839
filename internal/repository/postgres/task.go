package postgres

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, status, owner_id, created_at, updated_at`

// columns a caller may overwrite through Update
var updatableTaskColumns = map[string]bool{
	"title":       true,
	"description": true,
	"status":      true,
}

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.CreateTaskRequest) (*entity.Task, error) {
	query := `
	INSERT INTO tasks (id, title, description, status, owner_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + taskColumns

	row := r.db.QueryRow(ctx, query,
		uuid.NewString(),
		task.Title,
		task.Description,
		string(task.Status),
		task.OwnerID,
	)
	return scanTask(row)
}

func (r *TaskRepository) GetByTaskId(ctx context.Context, taskId string) (*entity.Task, error) {
	if !validID(taskId) {
		return nil, nil
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRow(ctx, query, taskId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// Update - частичное обновление задачи
func (r *TaskRepository) Update(ctx context.Context, id string, updates map[string]any) (*entity.Task, error) {
	if !validID(id) {
		return nil, nil
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		if updatableTaskColumns[field] {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for i, field := range fields {
		sets = append(sets, field+" = $"+strconv.Itoa(i+1))
		args = append(args, columnValue(updates[field]))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := `
	UPDATE tasks
	SET ` + strings.Join(sets, ", ") + `
	WHERE id = $` + strconv.Itoa(len(args)) + `
	RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return entity.ErrTaskNotFound
	}

	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return entity.ErrTaskNotFound
	}
	return nil
}

// List - страница задач владельца с фильтром по статусу
func (r *TaskRepository) List(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error) {
	where := ` WHERE owner_id = $1`
	args := []any{filter.OwnerID}

	if filter.Status != "" {
		where += ` AND status = $2`
		args = append(args, string(filter.Status))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if filter.Offset < 0 || int64(filter.Offset) >= total {
		return []entity.Task{}, total, nil
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		` ORDER BY created_at DESC, id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0, filter.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, total, rows.Err()
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var task entity.Task
	var status string
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Status = entity.TaskStatus(status)
	return &task, nil
}

func columnValue(v any) any {
	if status, ok := v.(entity.TaskStatus); ok {
		return string(status)
	}
	return v
}

// ids are generated as UUIDs; anything else cannot exist in the table
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
