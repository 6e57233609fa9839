package usecase

import "github.com/St1cky1/taskboard/internal/entity"

type Capability string

const (
	CapCreate Capability = "task:create"
	CapRead   Capability = "task:read"
	CapUpdate Capability = "task:update"
	CapDelete Capability = "task:delete"
)

// Authorize decides whether p may perform c on task. Delete is decided by
// role alone, so task may be nil for it; create needs no task at all.
func Authorize(p entity.Principal, c Capability, task *entity.Task) error {
	if p.UserID == "" {
		return entity.ErrUnauthenticated
	}

	switch c {
	case CapCreate:
		return nil
	case CapDelete:
		if !p.IsAdmin() {
			return entity.ErrForbidden
		}
		return nil
	case CapRead, CapUpdate:
		if task == nil || task.OwnerID != p.UserID {
			return entity.ErrForbidden
		}
		return nil
	}
	return entity.ErrForbidden
}
