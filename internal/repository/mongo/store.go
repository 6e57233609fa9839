// Package mongo implements the repositories on a MongoDB database.
package mongo

import (
	"context"
	"fmt"

	"github.com/St1cky1/taskboard/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	tasksCollection = "tasks"
	usersCollection = "users"
	auditCollection = "task_audit"
)

type Store struct {
	client *mongo.Client
	tasks  *TaskRepository
	users  *UserRepository
	audits *TaskAuditRepository
}

var _ repository.Store = (*Store)(nil)

func NewStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client: client,
		tasks:  &TaskRepository{coll: db.Collection(tasksCollection)},
		users:  &UserRepository{coll: db.Collection(usersCollection)},
		audits: &TaskAuditRepository{coll: db.Collection(auditCollection)},
	}
}

// EnsureIndexes creates the indexes the listing and sign-in queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.tasks.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}

	_, err = s.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = s.audits.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "entityType", Value: 1}, {Key: "entityId", Value: 1}, {Key: "changedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

func (s *Store) Tasks() repository.ITaskRepository       { return s.tasks }
func (s *Store) Users() repository.IUserRepository       { return s.users }
func (s *Store) Audits() repository.ITaskAuditRepository { return s.audits }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
