package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)

	// FilterExisting returns the subset of ids that resolve to non-deleted employees.
	FilterExisting(ctx context.Context, ids []string) ([]string, error)

	// LockForUpdate takes a row lock on the employee for the surrounding transaction.
	LockForUpdate(ctx context.Context, id string) error

	// BindDevice stores hash only if no device is bound yet. It reports
	// whether this call performed the binding.
	BindDevice(ctx context.Context, id string, hash string) (bool, error)

	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)

	// ListWithoutAttendance returns non-deleted employees hired on or before
	// date that have no attendance row for date.
	ListWithoutAttendance(ctx context.Context, date time.Time) ([]Employee, error)
}
