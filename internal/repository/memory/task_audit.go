package memory

import (
	"context"
	"sort"
	"strconv"

	"github.com/St1cky1/taskboard/internal/entity"
)

type TaskAuditRepository struct {
	s *Store
}

func (r *TaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seq++
	audit.ID = strconv.Itoa(r.s.seq)
	if audit.ChangedAt.IsZero() {
		audit.ChangedAt = r.s.now()
	}
	r.s.audits = append(r.s.audits, *audit)
	return nil
}

func (r *TaskAuditRepository) ListByTaskId(ctx context.Context, taskId string) ([]entity.TaskAudit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	audits := make([]entity.TaskAudit, 0)
	for i := len(r.s.audits) - 1; i >= 0; i-- {
		audit := r.s.audits[i]
		if audit.EntityType == entity.AuditEntityTask && audit.EntityID == taskId {
			audits = append(audits, audit)
		}
	}
	r.s.mu.RUnlock()

	// newest first, later inserts win ties
	sort.SliceStable(audits, func(i, j int) bool {
		return audits[i].ChangedAt.After(audits[j].ChangedAt)
	})
	return audits, nil
}
