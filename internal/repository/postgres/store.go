// Package postgres implements the repositories on top of a pgx connection pool.
package postgres

import (
	"context"

	"github.com/St1cky1/taskboard/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db     *pgxpool.Pool
	tasks  *TaskRepository
	users  *UserRepository
	audits *TaskAuditRepository
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db:     db,
		tasks:  NewTaskRepository(db),
		users:  NewUserRepository(db),
		audits: NewTaskAuditRepository(db),
	}
}

func (s *Store) Tasks() repository.ITaskRepository       { return s.tasks }
func (s *Store) Users() repository.IUserRepository       { return s.users }
func (s *Store) Audits() repository.ITaskAuditRepository { return s.audits }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.db.Close()
	return nil
}
