package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) SweepAbsences(ctx context.Context) (int, error) {
	f.calls.Add(1)
	return 3, f.err
}

func TestAttendanceJobs_MarkAbsentEmployees(t *testing.T) {
	sweeper := &fakeSweeper{}
	jobs := NewAttendanceJobs(sweeper, time.Hour)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	assert.Equal(t, int32(1), sweeper.calls.Load())

	sweeper.err = errors.New("database unavailable")
	err := jobs.MarkAbsentEmployees(context.Background())
	assert.ErrorContains(t, err, "failed to sweep absences")
}

func TestScheduler_RunOnce(t *testing.T) {
	sweeper := &fakeSweeper{}
	scheduler := NewScheduler()
	NewAttendanceJobs(sweeper, time.Hour).RegisterJobs(scheduler)

	scheduler.RunOnce(context.Background())
	assert.Equal(t, int32(1), sweeper.calls.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	sweeper := &fakeSweeper{}
	scheduler := NewScheduler()
	NewAttendanceJobs(sweeper, time.Hour).RegisterJobs(scheduler)

	scheduler.Start(context.Background())
	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)
	scheduler.Stop()
	scheduler.Stop()
}

func TestScheduler_StopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scheduler := NewScheduler()

	var calls atomic.Int32
	scheduler.AddJob("tick", 5*time.Millisecond, 0, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	scheduler.Start(ctx)
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	scheduler.Stop()
	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestScheduler_SkipsOverlappingRun(t *testing.T) {
	scheduler := NewScheduler()
	release := make(chan struct{})
	started := make(chan struct{})

	var calls atomic.Int32
	scheduler.AddJob("slow", time.Hour, 0, func(ctx context.Context) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	})

	go scheduler.RunOnce(context.Background())
	<-started

	scheduler.RunOnce(context.Background())
	assert.Equal(t, int32(1), calls.Load())
	close(release)
}

func TestScheduler_JobTimeout(t *testing.T) {
	scheduler := NewScheduler()

	var deadline atomic.Bool
	scheduler.AddJob("bounded", time.Hour, 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		deadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	})

	scheduler.RunOnce(context.Background())
	assert.True(t, deadline.Load())
}
