package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AbsenceSweeper writes ABSENT aggregates for employees with no attendance
// on the previous weekday.
type AbsenceSweeper interface {
	SweepAbsences(ctx context.Context) (int, error)
}

type AttendanceJobs struct {
	sweeper  AbsenceSweeper
	interval time.Duration
}

func NewAttendanceJobs(sweeper AbsenceSweeper, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		sweeper:  sweeper,
		interval: interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	// A sweep that outlives its interval is cut off; the next one resumes it.
	scheduler.AddJob("mark_absent_employees", j.interval, j.interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees runs the sweep. Repeated runs on the same day create nothing.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	slog.Info("Cron: Starting mark absent employees job")

	count, err := j.sweeper.SweepAbsences(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep absences: %w", err)
	}

	slog.Info("Cron: Marked absent employees", "count", count)
	return nil
}
