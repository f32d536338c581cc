package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActor_IsAdmin(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  bool
	}{
		{name: "admin", roles: []string{"Admin"}, want: true},
		{name: "super admin", roles: []string{"Employee", "SuperAdmin"}, want: true},
		{name: "manager", roles: []string{"Manager"}, want: false},
		{name: "no roles", roles: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Actor{Roles: tt.roles}.IsAdmin())
		})
	}
}

func TestActor_Can(t *testing.T) {
	manager := Actor{Roles: []string{"Manager"}, Permissions: NewPermissionSet(PermissionViewAnyAttendance)}
	assert.True(t, manager.Can(PermissionViewAnyAttendance))
	assert.False(t, manager.Can(PermissionMarkAnyAttendance))

	admin := Actor{Roles: []string{"Admin"}}
	assert.True(t, admin.Can(PermissionDeleteAnyAttendance))
}

func TestActorFromContext(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ctx := WithActor(context.Background(), Actor{UserID: "u-1"})
	a, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", a.UserID)
}
