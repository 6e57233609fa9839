package mongo

import (
	"context"
	"time"

	"github.com/St1cky1/taskboard/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type auditDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"userId"`
	Action     string             `bson:"action"`
	EntityType string             `bson:"entityType"`
	EntityID   string             `bson:"entityId"`
	OldValues  map[string]any     `bson:"oldValues,omitempty"`
	NewValues  map[string]any     `bson:"newValues,omitempty"`
	Changes    map[string]any     `bson:"changes,omitempty"`
	ChangedAt  time.Time          `bson:"changedAt"`
}

type TaskAuditRepository struct {
	coll *mongo.Collection
}

func (r *TaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {
	if audit.ChangedAt.IsZero() {
		audit.ChangedAt = time.Now().UTC()
	}

	doc := auditDocument{
		ID:         primitive.NewObjectID(),
		UserID:     audit.UserID,
		Action:     string(audit.Action),
		EntityType: audit.EntityType,
		EntityID:   audit.EntityID,
		OldValues:  audit.OldValues,
		NewValues:  audit.NewValues,
		Changes:    audit.Changes,
		ChangedAt:  audit.ChangedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}

	audit.ID = doc.ID.Hex()
	return nil
}

func (r *TaskAuditRepository) ListByTaskId(ctx context.Context, taskId string) ([]entity.TaskAudit, error) {
	filter := bson.M{"entityType": entity.AuditEntityTask, "entityId": taskId}
	opts := options.Find().SetSort(bson.D{{Key: "changedAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	audits := make([]entity.TaskAudit, 0)
	for cursor.Next(ctx) {
		var doc auditDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		audits = append(audits, entity.TaskAudit{
			ID:         doc.ID.Hex(),
			UserID:     doc.UserID,
			Action:     entity.ActionType(doc.Action),
			EntityType: doc.EntityType,
			EntityID:   doc.EntityID,
			OldValues:  plainMap(doc.OldValues),
			NewValues:  plainMap(doc.NewValues),
			Changes:    plainMap(doc.Changes),
			ChangedAt:  doc.ChangedAt,
		})
	}
	return audits, cursor.Err()
}

// plainMap turns nested BSON documents back into maps so entries encode
// to JSON objects.
func plainMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	}
	return v
}
