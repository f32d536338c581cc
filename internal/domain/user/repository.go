package user

import "context"

type UserRepository interface {
	// GetActor loads roles, permissions and the linked employee of a user.
	GetActor(ctx context.Context, userID string) (Actor, error)
}
