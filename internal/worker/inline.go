package worker

import (
	"context"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/St1cky1/taskboard/internal/repository"
)

// InlinePublisher stores audit messages directly, for deployments without
// a broker.
type InlinePublisher struct {
	auditRepo repository.ITaskAuditRepository
}

func NewInlinePublisher(auditRepo repository.ITaskAuditRepository) *InlinePublisher {
	return &InlinePublisher{auditRepo: auditRepo}
}

func (p *InlinePublisher) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	return p.auditRepo.Create(ctx, message.ToTaskAudit())
}
