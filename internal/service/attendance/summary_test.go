package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(day int, t attendance.ShiftType, s attendance.Status) attendance.ShiftRecord {
	return attendance.ShiftRecord{
		Date:   time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
		Type:   t,
		Status: s,
	}
}

func TestCalculatePeriodSummary(t *testing.T) {
	tests := []struct {
		name     string
		records  []attendance.ShiftRecord
		expected attendance.PeriodSummary
	}{
		{
			name:     "no records",
			records:  nil,
			expected: attendance.PeriodSummary{PeriodType: "week"},
		},
		{
			name: "half a day",
			records: []attendance.ShiftRecord{
				record(4, attendance.MorningCheckIn, attendance.StatusPresent),
				record(4, attendance.MorningCheckOut, attendance.StatusPresent),
			},
			expected: attendance.PeriodSummary{
				PeriodType:     "week",
				TotalDays:      1,
				Present:        2,
				OnTime:         2,
				Shifts:         attendance.ShiftCounts{Morning: attendance.ShiftPair{CheckIn: 1, CheckOut: 1}},
				AttendanceRate: 50,
			},
		},
		{
			name: "late counts as attended",
			records: []attendance.ShiftRecord{
				record(4, attendance.MorningCheckIn, attendance.StatusLate),
				record(4, attendance.MorningCheckOut, attendance.StatusPresent),
				record(4, attendance.AfternoonCheckIn, attendance.StatusPresent),
				record(4, attendance.AfternoonCheckOut, attendance.StatusPresent),
			},
			expected: attendance.PeriodSummary{
				PeriodType: "week",
				TotalDays:  1,
				Present:    4,
				OnTime:     3,
				Late:       1,
				Shifts: attendance.ShiftCounts{
					Morning:   attendance.ShiftPair{CheckIn: 1, CheckOut: 1},
					Afternoon: attendance.ShiftPair{CheckIn: 1, CheckOut: 1},
				},
				AttendanceRate: 100,
			},
		},
		{
			name: "leave is not attendance",
			records: []attendance.ShiftRecord{
				record(4, attendance.MorningCheckIn, attendance.StatusPresent),
				record(5, attendance.MorningCheckIn, attendance.StatusPermission),
				record(5, attendance.MorningCheckOut, attendance.StatusLeave),
			},
			expected: attendance.PeriodSummary{
				PeriodType:     "week",
				TotalDays:      2,
				Present:        1,
				OnTime:         1,
				Leave:          2,
				Shifts:         attendance.ShiftCounts{Morning: attendance.ShiftPair{CheckIn: 2, CheckOut: 1}},
				AttendanceRate: 13,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculatePeriodSummary(tt.records, "week"))
		})
	}
}

func TestAttendanceRateIsClamped(t *testing.T) {
	assert.Equal(t, 0, attendanceRate(3, 0))
	assert.Equal(t, 100, attendanceRate(9, 4))
	assert.Equal(t, 0, attendanceRate(-1, 4))
	assert.Equal(t, 33, attendanceRate(1, 3))
}

func TestMondayOfWeek(t *testing.T) {
	tests := []struct {
		year, week int
		expected   string
	}{
		{2024, 1, "2024-01-01"},
		{2024, 10, "2024-03-04"},
		{2023, 1, "2022-12-26"},
		{2023, 2, "2023-01-02"},
		{2021, 53, "2021-12-27"},
	}

	for _, tt := range tests {
		got := MondayOfWeek(tt.year, tt.week)
		assert.Equal(t, tt.expected, got.Format("2006-01-02"), "year %d week %d", tt.year, tt.week)
		assert.Equal(t, time.Monday, got.Weekday())
	}
}

func TestWeeklySummary(t *testing.T) {
	f := newFixture(t)

	_, err := f.mark(t, f.worker, morningIn)
	require.NoError(t, err)
	_, err = f.mark(t, f.worker, morningOut)
	require.NoError(t, err)

	summary, err := f.svc.WeeklySummary(as(f.worker), "", 2024, 10)
	require.NoError(t, err)

	assert.Equal(t, "week", summary.PeriodType)
	assert.Equal(t, "2024-03-04", summary.StartDate)
	assert.Equal(t, "2024-03-10", summary.EndDate)
	assert.Equal(t, 1, summary.TotalDays)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 2, summary.OnTime)
	assert.Equal(t, attendance.ShiftPair{CheckIn: 1, CheckOut: 1}, summary.Shifts.Morning)
	assert.Equal(t, 50, summary.AttendanceRate)

	other, err := f.svc.WeeklySummary(as(f.worker), "", 2024, 11)
	require.NoError(t, err)
	assert.Zero(t, other.TotalDays)
	assert.Zero(t, other.AttendanceRate)
}

func TestPeriodSummaries(t *testing.T) {
	f := newFixture(t)
	for _, ts := range []string{morningIn, morningOut, afternoonIn, afternoonOut} {
		_, err := f.mark(t, f.worker, ts)
		require.NoError(t, err)
	}

	t.Run("monthly", func(t *testing.T) {
		s, err := f.svc.MonthlySummary(as(f.worker), "", 2024, 3)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", s.StartDate)
		assert.Equal(t, "2024-03-31", s.EndDate)
		assert.Equal(t, 100, s.AttendanceRate)
		assert.Zero(t, s.Absent)
	})

	t.Run("yearly", func(t *testing.T) {
		s, err := f.svc.YearlySummary(as(f.worker), "", 2024)
		require.NoError(t, err)
		assert.Equal(t, "2024-12-31", s.EndDate)
		assert.Equal(t, 4, s.Present)
	})

	t.Run("range", func(t *testing.T) {
		s, err := f.svc.UserStats(as(f.manager), *f.merkatoEmp.UserID, "2024-03-01", "2024-03-04")
		require.NoError(t, err)
		assert.Equal(t, "range", s.PeriodType)
		assert.Equal(t, 1, s.TotalDays)
	})

	t.Run("absent days are counted", func(t *testing.T) {
		_, err := f.svc.SweepAbsences(as(f.admin))
		require.NoError(t, err)

		s, err := f.svc.MonthlySummary(as(f.worker), "", 2024, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Absent)
		assert.Equal(t, 1, s.TotalDays, "an absent day has no shift records")
	})

	t.Run("bad input", func(t *testing.T) {
		var verrs validator.ValidationErrors

		_, err := f.svc.WeeklySummary(as(f.worker), "", 2024, 54)
		assert.True(t, errors.As(err, &verrs))
		_, err = f.svc.MonthlySummary(as(f.worker), "", 2024, 13)
		assert.True(t, errors.As(err, &verrs))
		_, err = f.svc.YearlySummary(as(f.worker), "", 1969)
		assert.True(t, errors.As(err, &verrs))
		_, err = f.svc.UserStats(as(f.worker), "", "2024-03-10", "2024-03-01")
		assert.True(t, errors.As(err, &verrs))
		_, err = f.svc.UserStats(as(f.worker), "", "03/01/2024", "2024-03-10")
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ToMap(), "startDate")
	})

	t.Run("other user needs permission", func(t *testing.T) {
		_, err := f.svc.MonthlySummary(as(actorFor(f.kochiEmp)), *f.merkatoEmp.UserID, 2024, 3)
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})
}

func TestSummary_StartedDayIsNotAbsent(t *testing.T) {
	f := newFixture(t)
	for _, ts := range []string{morningIn, morningOut, afternoonIn} {
		_, err := f.mark(t, f.worker, ts)
		require.NoError(t, err)
	}

	s, err := f.svc.MonthlySummary(as(f.worker), "", 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Present)
	assert.Zero(t, s.Absent)
	assert.Equal(t, 75, s.AttendanceRate)

	resp, err := f.svc.ListByOfficeHierarchy(as(f.manager), attendance.AttendanceFilter{Status: ptr("ABSENT")})
	require.NoError(t, err)
	assert.Zero(t, resp.TotalCount, "a day with recorded shifts is not listed as absent")

	_, err = f.store.Attendance().FindOrCreate(as(f.admin), f.kochiEmp.ID, f.kochiEmp.UserID, f.now)
	require.NoError(t, err)
	resp, err = f.svc.ListByOfficeHierarchy(as(f.manager), attendance.AttendanceFilter{Status: ptr("ABSENT")})
	require.NoError(t, err)
	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, f.kochiEmp.ID, resp.Attendances[0].EmployeeID)
}

func TestTodaySummary(t *testing.T) {
	f := newFixture(t)
	f.markAll(t, morningIn)
	_, err := f.mark(t, f.worker, morningOut)
	require.NoError(t, err)

	t.Run("admin sees all offices", func(t *testing.T) {
		s, err := f.svc.TodaySummary(as(f.admin), nil)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-04", s.Date)
		assert.Equal(t, 5, s.Total)
		assert.Len(t, s.Records, 5)
		assert.Equal(t, 6, s.Summary.Present)
		assert.Equal(t, 1, s.Summary.TotalDays)
		assert.Equal(t, "day", s.Summary.PeriodType)
	})

	t.Run("manager narrowed to a branch", func(t *testing.T) {
		s, err := f.svc.TodaySummary(as(f.manager), &f.merkato.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Total)
		assert.Equal(t, 2, s.Summary.Present)
		assert.Equal(t, 50, s.Summary.AttendanceRate)
	})

	t.Run("manager outside scope", func(t *testing.T) {
		_, err := f.svc.TodaySummary(as(f.manager), &f.head.ID)
		assert.ErrorIs(t, err, office.ErrOutsideScope)
	})

	t.Run("worker sees only self", func(t *testing.T) {
		s, err := f.svc.TodaySummary(as(f.worker), &f.head.ID)
		require.NoError(t, err)
		require.Len(t, s.Records, 1)
		assert.Equal(t, f.merkatoEmp.ID, s.Records[0].EmployeeID)
	})

	t.Run("no employee record", func(t *testing.T) {
		_, err := f.svc.TodaySummary(as(user.Actor{UserID: "user-nobody"}), nil)
		assert.ErrorIs(t, err, employee.ErrEmployeeRecordNeeded)
	})
}

func TestSweepAbsences(t *testing.T) {
	f := newFixture(t)
	friday := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	// Kochi already has a record for Friday.
	_, err := f.store.Attendance().FindOrCreate(as(f.admin), f.kochiEmp.ID, f.kochiEmp.UserID, friday)
	require.NoError(t, err)

	created, err := f.svc.SweepAbsences(as(f.admin))
	require.NoError(t, err)
	assert.Equal(t, 4, created)
	assert.Equal(t, 5, f.store.AttendanceCount())

	again, err := f.svc.SweepAbsences(as(f.admin))
	require.NoError(t, err)
	assert.Zero(t, again)
	assert.Equal(t, 5, f.store.AttendanceCount())

	resp, err := f.svc.ListByDateRange(as(f.admin), attendance.AttendanceFilter{
		StartDate: ptr("2024-03-01"),
		EndDate:   ptr("2024-03-01"),
		Status:    ptr("ABSENT"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TotalCount)
}

func TestSweepAbsences_SkipsNewHires(t *testing.T) {
	f := newFixture(t)
	hired := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	f.store.AddEmployee(employee.Employee{UserID: ptr("user-new"), OfficeID: &f.head.ID, FirstName: "Kidist", LastName: "Mulugeta", HireDate: &hired})

	created, err := f.svc.SweepAbsences(as(f.admin))
	require.NoError(t, err)
	assert.Equal(t, 5, created)
}

func TestPreviousWeekday(t *testing.T) {
	tests := []struct {
		day, expected string
	}{
		{"2024-03-04", "2024-03-01"}, // Monday
		{"2024-03-05", "2024-03-04"},
		{"2024-03-09", "2024-03-08"}, // Saturday
		{"2024-03-10", "2024-03-08"}, // Sunday
	}

	for _, tt := range tests {
		day, err := time.Parse("2006-01-02", tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, PreviousWeekday(day).Format("2006-01-02"), tt.day)
	}
}
