package postgres

import (
	"context"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskAuditRepository struct {
	db *pgxpool.Pool
}

func NewTaskAuditRepository(db *pgxpool.Pool) *TaskAuditRepository {
	return &TaskAuditRepository{
		db: db,
	}
}

func (r *TaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {
	query := `
	INSERT INTO task_audit (user_id, action, entity_type, entity_id, old_values, new_values, changes, changed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
	RETURNING id::text, changed_at
	`

	var changedAt any
	if !audit.ChangedAt.IsZero() {
		changedAt = audit.ChangedAt
	}

	return r.db.QueryRow(
		ctx,
		query,
		audit.UserID,
		string(audit.Action),
		audit.EntityType,
		audit.EntityID,
		audit.OldValues,
		audit.NewValues,
		audit.Changes,
		changedAt,
	).Scan(&audit.ID, &audit.ChangedAt)
}

func (r *TaskAuditRepository) ListByTaskId(ctx context.Context, taskId string) ([]entity.TaskAudit, error) {
	query := `
	SELECT id::text, user_id, action, entity_type, entity_id, old_values, new_values, changes, changed_at
	FROM task_audit
	WHERE entity_id = $1 AND entity_type = $2
	ORDER BY changed_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, taskId, entity.AuditEntityTask)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	audits := make([]entity.TaskAudit, 0)
	for rows.Next() {
		var audit entity.TaskAudit
		var action string
		err := rows.Scan(
			&audit.ID,
			&audit.UserID,
			&action,
			&audit.EntityType,
			&audit.EntityID,
			&audit.OldValues,
			&audit.NewValues,
			&audit.Changes,
			&audit.ChangedAt,
		)
		if err != nil {
			return nil, err
		}
		audit.Action = entity.ActionType(action)
		audits = append(audits, audit)
	}
	return audits, rows.Err()
}
