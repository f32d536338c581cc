package leave

import "time"

type LeaveType string

const (
	LeaveTypeMaternity LeaveType = "MATERNITY"
	LeaveTypePaternity LeaveType = "PATERNITY"
)

// MaxDays is the longest request allowed per leave type, in weekdays.
var MaxDays = map[LeaveType]int{
	LeaveTypeMaternity: 40,
	LeaveTypePaternity: 4,
}

func (t LeaveType) Valid() bool {
	_, ok := MaxDays[t]
	return ok
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type LeaveRequest struct {
	ID          string
	EmployeeID  string
	StartDate   time.Time
	EndDate     time.Time
	DaysOfLeave int
	LeaveType   LeaveType
	Status      Status
	// ApprovedBy holds whoever decided the request, approver or rejecter.
	ApprovedBy    *string
	AttachmentURL *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Read-side joins
	EmployeeName *string
	OfficeID     *string
	OfficeName   *string
}

// Overlaps reports whether the inclusive ranges [start, end] of r and the
// given window intersect.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !start.After(r.EndDate) && !end.Before(r.StartDate)
}

func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// CalculateEndDate walks forward from start until days weekdays are
// counted. The start date is day 1 even when it falls on a weekend.
func CalculateEndDate(start time.Time, days int) time.Time {
	end := start
	for counted := 1; counted < days; {
		end = end.AddDate(0, 0, 1)
		if !IsWeekend(end) {
			counted++
		}
	}
	return end
}

// Weekdays returns every Monday to Friday date in [start, end].
func Weekdays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			days = append(days, d)
		}
	}
	return days
}
