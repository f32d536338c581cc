package attendance

import (
	"context"
	"io"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// MarkAttendance records the shift active at timeTaken, for the caller or,
	// in bulk mode, for a list of employees.
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (MarkAttendanceResponse, error)

	// SubmitAttendance records an explicitly typed shift from the mobile client.
	SubmitAttendance(ctx context.Context, req SubmitAttendanceRequest) (AttendanceResponse, error)

	// MarkFullDay stamps all four shifts for today.
	MarkFullDay(ctx context.Context, req FullDayRequest) (FullDayResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
	DeleteAttendance(ctx context.Context, id string) error

	// Grid pages employees in the caller's scope and maps each one's days
	// to status and details. Callers without view_any_attendance get only
	// their own row.
	Grid(ctx context.Context, filter AttendanceFilter) (GridResponse, error)

	// DayDetails returns one employee's shift details for a single day.
	DayDetails(ctx context.Context, req DayDetailsRequest) (DayDetailsResponse, error)

	ListByUser(ctx context.Context, userID string, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListByDateRange(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ListByOfficeHierarchy lists attendance of every office at or below the caller's.
	ListByOfficeHierarchy(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	ExportOfficeHierarchy(ctx context.Context, filter AttendanceFilter, w io.Writer) error

	// Summaries are computed for userID; an empty userID means the caller.
	UserStats(ctx context.Context, userID string, startDate, endDate string) (PeriodSummary, error)
	WeeklySummary(ctx context.Context, userID string, year, week int) (PeriodSummary, error)
	MonthlySummary(ctx context.Context, userID string, year, month int) (PeriodSummary, error)
	YearlySummary(ctx context.Context, userID string, year int) (PeriodSummary, error)
	TodaySummary(ctx context.Context, officeID *string) (TodaySummary, error)

	// SweepAbsences writes ABSENT aggregates for the previous weekday.
	SweepAbsences(ctx context.Context) (int, error)
}
