package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// GetActor implements user.UserRepository.
func (r *userRepositoryImpl) GetActor(ctx context.Context, userID string) (user.Actor, error) {
	q := GetQuerier(ctx, r.db)

	actor := user.Actor{Permissions: user.NewPermissionSet()}
	err := q.QueryRow(ctx, `
		SELECT u.id, e.id, e.office_id
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id AND e.deleted_at IS NULL
		WHERE u.id = $1 AND u.deleted_at IS NULL
		LIMIT 1
	`, userID).Scan(&actor.UserID, &actor.EmployeeID, &actor.OfficeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Actor{}, user.ErrUserNotFound
		}
		return user.Actor{}, fmt.Errorf("failed to get user: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT r.name, p.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		LEFT JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
	`, userID)
	if err != nil {
		return user.Actor{}, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	seenRoles := map[string]bool{}
	for rows.Next() {
		var role string
		var perm *string
		if err := rows.Scan(&role, &perm); err != nil {
			return user.Actor{}, fmt.Errorf("failed to scan user role: %w", err)
		}
		if !seenRoles[role] {
			seenRoles[role] = true
			actor.Roles = append(actor.Roles, role)
		}
		if perm != nil {
			actor.Permissions[user.Permission(*perm)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return user.Actor{}, err
	}
	return actor, nil
}
