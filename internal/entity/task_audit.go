package entity

import (
	"time"
)

type ActionType string

const (
	ActionCreate ActionType = "Create"
	ActionUpdate ActionType = "Update"
	ActionDelete ActionType = "Delete"
)

const AuditEntityTask = "task"

type TaskAudit struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	Action     ActionType     `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	OldValues  map[string]any `json:"oldValues,omitempty"`
	NewValues  map[string]any `json:"newValues,omitempty"`
	Changes    map[string]any `json:"changes,omitempty"`
	ChangedAt  time.Time      `json:"changedAt"`
}

// AuditMessage is the wire form published to the audit queue.
type AuditMessage struct {
	UserID    string         `json:"user_id"`
	Action    ActionType     `json:"action"`
	EntityID  string         `json:"entity_id"`
	OldValues map[string]any `json:"old_values"`
	NewValues map[string]any `json:"new_values"`
	Changes   map[string]any `json:"changes"`
	Timestamp time.Time      `json:"timestamp"`
}

func (m *AuditMessage) ToTaskAudit() *TaskAudit {
	return &TaskAudit{
		UserID:     m.UserID,
		Action:     m.Action,
		EntityType: AuditEntityTask,
		EntityID:   m.EntityID,
		OldValues:  m.OldValues,
		NewValues:  m.NewValues,
		Changes:    m.Changes,
		ChangedAt:  m.Timestamp,
	}
}
