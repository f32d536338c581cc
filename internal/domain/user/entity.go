package user

import (
	"context"
	"strings"
)

// Actor is the authenticated caller an operation runs on behalf of.
type Actor struct {
	UserID      string
	EmployeeID  *string
	OfficeID    *string
	Roles       []string
	Permissions PermissionSet
}

// IsAdmin reports whether any of the actor's roles is an admin role.
func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if strings.Contains(strings.ToLower(r), "admin") {
			return true
		}
	}
	return false
}

// Can is a capability check. Admins hold every capability.
func (a Actor) Can(p Permission) bool {
	return a.IsAdmin() || a.Permissions.Has(p)
}

func (a Actor) HasEmployee() bool {
	return a.EmployeeID != nil && *a.EmployeeID != ""
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns ErrUnauthenticated when no actor was attached.
func ActorFromContext(ctx context.Context) (Actor, error) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.UserID == "" {
		return Actor{}, ErrUnauthenticated
	}
	return a, nil
}
