package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists daily aggregates and their details.
// Uniqueness of (employee, date) and (attendance, type) is enforced by the store.
type AttendanceRepository interface {
	// FindOrCreate returns the aggregate for employee/date, inserting an
	// ABSENT placeholder when none exists. Safe under concurrent callers.
	// Inside a transaction the row stays locked until commit.
	FindOrCreate(ctx context.Context, employeeID string, userID *string, date time.Time) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error

	// InsertDetail returns ErrShiftAlreadyRecorded if the type is taken.
	InsertDetail(ctx context.Context, detail Detail) (Detail, error)

	// UpsertDetail overwrites an existing detail of the same type.
	UpsertDetail(ctx context.Context, detail Detail) (Detail, error)

	ListDetailTypes(ctx context.Context, attendanceID string) ([]ShiftType, error)

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	ListShiftRecords(ctx context.Context, filter ShiftRecordFilter) ([]ShiftRecord, error)
}
