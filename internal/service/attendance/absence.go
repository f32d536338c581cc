package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SweepAbsences implements attendance.AttendanceService. It looks at the
// last weekday before today and writes an ABSENT aggregate for every
// employee with nothing recorded that day. Running it again is a no-op.
func (s *AttendanceServiceImpl) SweepAbsences(ctx context.Context) (int, error) {
	day := PreviousWeekday(s.shifts.Today(s.now()))

	missing, err := s.EmployeeRepository.ListWithoutAttendance(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees without attendance: %w", err)
	}

	created := 0
	for _, e := range missing {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if _, err := s.AttendanceRepository.FindOrCreate(ctx, e.ID, e.UserID, day); err != nil {
			slog.Error("Failed to record absence", "employee_id", e.ID, "date", day.Format("2006-01-02"), "error", err)
			continue
		}
		created++
	}

	slog.Info("Absence sweep finished", "date", day.Format("2006-01-02"), "absent", created)
	return created, nil
}

// PreviousWeekday returns the closest Monday-to-Friday date before day.
func PreviousWeekday(day time.Time) time.Time {
	d := day.AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
