package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/St1cky1/taskboard/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	consumerTag    = "audit_worker"
	prefetch       = 10
	reconnectDelay = 5 * time.Second
)

// AuditSource hands out deliveries from the audit queue together with a
// function closing the consumer channel.
type AuditSource interface {
	Consume(consumerTag string, prefetch int) (<-chan amqp.Delivery, func() error, error)
}

type AuditWorker struct {
	source    AuditSource
	auditRepo repository.ITaskAuditRepository
}

func NewAuditWorker(source AuditSource, auditRepo repository.ITaskAuditRepository) *AuditWorker {
	return &AuditWorker{
		source:    source,
		auditRepo: auditRepo,
	}
}

// Start consumes until ctx is cancelled, reopening the consumer after a
// failure.
func (w *AuditWorker) Start(ctx context.Context) {
	log.Println("audit worker started")
	for {
		err := w.run(ctx)
		if ctx.Err() != nil {
			log.Println("audit worker stopped")
			return
		}
		log.Printf("audit worker: %v, reconnecting in %s", err, reconnectDelay)

		select {
		case <-ctx.Done():
			log.Println("audit worker stopped")
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (w *AuditWorker) run(ctx context.Context) error {
	msgs, closeFn, err := w.source.Consume(consumerTag, prefetch)
	if err != nil {
		return err
	}
	defer closeFn()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.processMessage(ctx, msg)
		}
	}
}

func (w *AuditWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	requeue, err := w.handle(ctx, msg.Body)
	if err != nil {
		log.Printf("audit message rejected (requeue=%t): %v", requeue, err)
		msg.Nack(false, requeue)
		return
	}
	msg.Ack(false)
}

// handle stores one message. Malformed messages are dropped; storage
// failures are requeued for another attempt.
func (w *AuditWorker) handle(ctx context.Context, body []byte) (requeue bool, err error) {
	var auditMsg entity.AuditMessage
	if err := json.Unmarshal(body, &auditMsg); err != nil {
		return false, fmt.Errorf("decode: %w", err)
	}
	if auditMsg.EntityID == "" || auditMsg.Action == "" {
		return false, fmt.Errorf("message without entity or action")
	}

	taskAudit := auditMsg.ToTaskAudit()
	if err := w.auditRepo.Create(ctx, taskAudit); err != nil {
		return true, fmt.Errorf("save: %w", err)
	}

	log.Printf("audit saved: %s task=%s", taskAudit.Action, taskAudit.EntityID)
	return false, nil
}
