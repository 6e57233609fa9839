// Package memory keeps tasks, users and audit entries in process memory.
// It backs the test suites and STORE=memory for local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/St1cky1/taskboard/internal/repository"
)

type Store struct {
	mu     sync.RWMutex
	tasks  map[string]entity.Task
	users  map[string]entity.User
	audits []entity.TaskAudit
	seq    int
	now    func() time.Time
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		tasks: make(map[string]entity.Task),
		users: make(map[string]entity.User),
		now:   monotonicClock(),
	}
}

// monotonicClock never returns the same instant twice, so tasks created in
// quick succession still list in creation order.
func monotonicClock() func() time.Time {
	var (
		mu   sync.Mutex
		last time.Time
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := time.Now().UTC()
		if !t.After(last) {
			t = last.Add(time.Microsecond)
		}
		last = t
		return t
	}
}

// WithClock replaces the time source used for created/updated timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Tasks() repository.ITaskRepository       { return &TaskRepository{s: s} }
func (s *Store) Users() repository.IUserRepository       { return &UserRepository{s: s} }
func (s *Store) Audits() repository.ITaskAuditRepository { return &TaskAuditRepository{s: s} }

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(context.Context) error {
	return nil
}
