package user

type Permission string

// Names match the permissions table.
const (
	// Attendance
	PermissionViewOwnAttendance    Permission = "view_own_attendance"
	PermissionMarkOwnAttendance    Permission = "mark_own_attendance"
	PermissionViewAnyAttendance    Permission = "view_any_attendance"
	PermissionMarkAnyAttendance    Permission = "mark_any_attendance"
	PermissionUpdateAnyAttendance  Permission = "update_any_attendance"
	PermissionDeleteAnyAttendance  Permission = "delete_any_attendance"
	PermissionApproveLeaveRequests Permission = "approve_leave_request"

	// Organisation
	PermissionViewOffices   Permission = "view_offices"
	PermissionViewEmployees Permission = "view_employees"
)

// PermissionSet is the resolved capability set of an actor.
type PermissionSet map[Permission]struct{}

func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}
