package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
	officesvc "github.com/mengistu3137/jimma-zone-erp/internal/service/office"
)

const (
	shiftsPerDay = 4

	// summaryPageSize bounds the aggregates returned alongside a day summary.
	summaryPageSize = 10000
)

// CalculatePeriodSummary aggregates shift records. Every distinct day seen
// offers four shifts; the rate is the share of them attended (PRESENT or
// LATE), rounded and kept within [0, 100].
func CalculatePeriodSummary(records []attendance.ShiftRecord, periodType string) attendance.PeriodSummary {
	summary := attendance.PeriodSummary{PeriodType: periodType}

	days := make(map[time.Time]struct{})
	for _, r := range records {
		days[attendance.DayOf(r.Date)] = struct{}{}

		switch r.Status {
		case attendance.StatusPresent:
			summary.Present++
			summary.OnTime++
		case attendance.StatusLate:
			summary.Present++
			summary.Late++
		case attendance.StatusPermission, attendance.StatusLeave:
			summary.Leave++
		case attendance.StatusAbsent:
			summary.Absent++
		}

		switch r.Type {
		case attendance.MorningCheckIn:
			summary.Shifts.Morning.CheckIn++
		case attendance.MorningCheckOut:
			summary.Shifts.Morning.CheckOut++
		case attendance.AfternoonCheckIn:
			summary.Shifts.Afternoon.CheckIn++
		case attendance.AfternoonCheckOut:
			summary.Shifts.Afternoon.CheckOut++
		}
	}

	summary.TotalDays = len(days)
	summary.AttendanceRate = attendanceRate(summary.Present, summary.TotalDays*shiftsPerDay)
	return summary
}

func attendanceRate(attended, possible int) int {
	if possible <= 0 {
		return 0
	}
	rate := int(math.Round(float64(attended) / float64(possible) * 100))
	return max(0, min(rate, 100))
}

// MondayOfWeek returns the Monday of the week that contains day
// 1 + (week-1)*7 of year.
func MondayOfWeek(year, week int) time.Time {
	d := time.Date(year, time.January, 1+(week-1)*7, 0, 0, 0, 0, time.UTC)
	offset := 1 - int(d.Weekday())
	if d.Weekday() == time.Sunday {
		offset = -6
	}
	return d.AddDate(0, 0, offset)
}

// UserStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UserStats(ctx context.Context, userID string, startDate, endDate string) (attendance.PeriodSummary, error) {
	var errs validator.ValidationErrors
	start, ok := validator.IsValidDate(startDate)
	if !ok {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	end, ok := validator.IsValidDate(endDate)
	if !ok {
		errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
	}
	if len(errs) == 0 && end.Before(start) {
		errs.Add("endDate", "endDate must not be before startDate")
	}
	if err := errs.Err(); err != nil {
		return attendance.PeriodSummary{}, err
	}

	return s.userSummary(ctx, userID, "range", start, end)
}

// WeeklySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) WeeklySummary(ctx context.Context, userID string, year, week int) (attendance.PeriodSummary, error) {
	var errs validator.ValidationErrors
	validateYear(&errs, year)
	if week < 1 || week > 53 {
		errs.Add("week", "week must be between 1 and 53")
	}
	if err := errs.Err(); err != nil {
		return attendance.PeriodSummary{}, err
	}

	start := MondayOfWeek(year, week)
	return s.userSummary(ctx, userID, "week", start, start.AddDate(0, 0, 6))
}

// MonthlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthlySummary(ctx context.Context, userID string, year, month int) (attendance.PeriodSummary, error) {
	var errs validator.ValidationErrors
	validateYear(&errs, year)
	if month < 1 || month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	if err := errs.Err(); err != nil {
		return attendance.PeriodSummary{}, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return s.userSummary(ctx, userID, "month", start, start.AddDate(0, 1, -1))
}

// YearlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) YearlySummary(ctx context.Context, userID string, year int) (attendance.PeriodSummary, error) {
	var errs validator.ValidationErrors
	validateYear(&errs, year)
	if err := errs.Err(); err != nil {
		return attendance.PeriodSummary{}, err
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return s.userSummary(ctx, userID, "year", start, time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
}

func validateYear(errs *validator.ValidationErrors, year int) {
	if year < 1970 || year > 9999 {
		errs.Add("year", "year must be between 1970 and 9999")
	}
}

// userSummary summarises one employee's days in [start, end], both inclusive.
func (s *AttendanceServiceImpl) userSummary(ctx context.Context, userID, periodType string, start, end time.Time) (attendance.PeriodSummary, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.PeriodSummary{}, err
	}

	emp, err := s.employeeOfUser(ctx, actor, userID)
	if err != nil {
		return attendance.PeriodSummary{}, err
	}

	summary, err := s.summarise(ctx, periodType, &emp.ID, nil, start, end)
	if err != nil {
		return attendance.PeriodSummary{}, err
	}
	return summary, nil
}

func (s *AttendanceServiceImpl) summarise(ctx context.Context, periodType string, employeeID *string, officeIDs []string, start, end time.Time) (attendance.PeriodSummary, error) {
	from := attendance.DayOf(start)
	to := attendance.EndOfDay(end)

	records, err := s.AttendanceRepository.ListShiftRecords(ctx, attendance.ShiftRecordFilter{
		EmployeeID: employeeID,
		OfficeIDs:  officeIDs,
		From:       from,
		To:         to,
	})
	if err != nil {
		return attendance.PeriodSummary{}, fmt.Errorf("failed to list shift records: %w", err)
	}

	summary := CalculatePeriodSummary(records, periodType)
	summary.StartDate = from.Format("2006-01-02")
	summary.EndDate = to.Format("2006-01-02")

	// Only ABSENT days without any detail count; a started day also carries
	// the ABSENT placeholder until all four shifts are in.
	absent := attendance.StatusAbsent
	_, absentDays, err := s.AttendanceRepository.List(ctx, attendance.AttendanceFilter{
		Params:     pagination.Params{Page: 1, Limit: 1},
		EmployeeID: employeeID,
		OfficeIDs:  officeIDs,
		From:       &from,
		To:         &to,
		State:      &absent,
	})
	if err != nil {
		return attendance.PeriodSummary{}, fmt.Errorf("failed to count absences: %w", err)
	}
	summary.Absent += int(absentDays)

	return summary, nil
}

// TodaySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodaySummary(ctx context.Context, officeID *string) (attendance.TodaySummary, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.TodaySummary{}, err
	}

	var (
		employeeID *string
		officeIDs  []string
	)
	if actor.Can(user.PermissionViewAnyAttendance) {
		officeIDs, err = s.hierarchy.ScopeFor(ctx, actor)
		if err != nil {
			return attendance.TodaySummary{}, err
		}
		if officeID != nil && *officeID != "" {
			if !officesvc.InScope(officeIDs, officeID) {
				return attendance.TodaySummary{}, office.ErrOutsideScope
			}
			officeIDs = []string{*officeID}
		}
	} else {
		if !actor.HasEmployee() {
			return attendance.TodaySummary{}, employee.ErrEmployeeRecordNeeded
		}
		employeeID = actor.EmployeeID
	}

	today := s.shifts.Today(s.now())
	summary, err := s.summarise(ctx, "day", employeeID, officeIDs, today, today)
	if err != nil {
		return attendance.TodaySummary{}, err
	}

	from, to := today, attendance.EndOfDay(today)
	records, total, err := s.AttendanceRepository.List(ctx, attendance.AttendanceFilter{
		Params:     pagination.Params{Page: 1, Limit: summaryPageSize},
		EmployeeID: employeeID,
		OfficeIDs:  officeIDs,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return attendance.TodaySummary{}, fmt.Errorf("failed to fetch today's attendance: %w", err)
	}

	resp := attendance.TodaySummary{
		Date:    today.Format("2006-01-02"),
		Total:   int(total),
		Summary: summary,
		Records: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, a := range records {
		resp.Records = append(resp.Records, attendance.ToResponse(a))
	}
	return resp, nil
}
