package memory

import (
	"context"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) GetActor(ctx context.Context, userID string) (user.Actor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.actors[userID]
	if !ok {
		return user.Actor{}, user.ErrUserNotFound
	}
	if a.Permissions == nil {
		a.Permissions = user.NewPermissionSet()
	}
	for _, e := range r.s.employees {
		if e.DeletedAt == nil && e.UserID != nil && *e.UserID == userID {
			id := e.ID
			a.EmployeeID = &id
			a.OfficeID = e.OfficeID
			break
		}
	}
	return a, nil
}
