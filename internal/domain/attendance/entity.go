package attendance

import "time"

// ShiftType labels one of the four daily shift boundary events.
type ShiftType string

const (
	MorningCheckIn    ShiftType = "morningCheckIn"
	MorningCheckOut   ShiftType = "morningCheckOut"
	AfternoonCheckIn  ShiftType = "afternoonCheckIn"
	AfternoonCheckOut ShiftType = "afternoonCheckOut"
)

// ShiftTypes lists the four shifts in chronological order.
var ShiftTypes = []ShiftType{MorningCheckIn, MorningCheckOut, AfternoonCheckIn, AfternoonCheckOut}

func (s ShiftType) Valid() bool {
	switch s {
	case MorningCheckIn, MorningCheckOut, AfternoonCheckIn, AfternoonCheckOut:
		return true
	}
	return false
}

// AttendanceType is the mobile-client name for a shift type.
type AttendanceType string

const (
	MorningIn    AttendanceType = "MORNING_IN"
	MorningOut   AttendanceType = "MORNING_OUT"
	AfternoonIn  AttendanceType = "AFTERNOON_IN"
	AfternoonOut AttendanceType = "AFTERNOON_OUT"
)

var attendanceTypeToShift = map[AttendanceType]ShiftType{
	MorningIn:    MorningCheckIn,
	MorningOut:   MorningCheckOut,
	AfternoonIn:  AfternoonCheckIn,
	AfternoonOut: AfternoonCheckOut,
}

func (t AttendanceType) ShiftType() (ShiftType, bool) {
	s, ok := attendanceTypeToShift[t]
	return s, ok
}

func (s ShiftType) AttendanceType() AttendanceType {
	for t, st := range attendanceTypeToShift {
		if st == s {
			return t
		}
	}
	return ""
}

type Status string

const (
	StatusPresent    Status = "PRESENT"
	StatusLate       Status = "LATE"
	StatusPermission Status = "PERMISSION"
	StatusLeave      Status = "LEAVE"
	StatusAbsent     Status = "ABSENT"
)

var Statuses = []Status{StatusPresent, StatusLate, StatusPermission, StatusLeave, StatusAbsent}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Attendance is the daily aggregate for one employee. A fresh aggregate
// carries StatusAbsent until its details complete the day.
type Attendance struct {
	ID         string
	EmployeeID string
	UserID     *string
	Date       time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Details []Detail

	// Read-side joins
	EmployeeName *string
	OfficeID     *string
	OfficeName   *string
}

// Detail is one recorded shift event of an Attendance.
type Detail struct {
	ID                 string
	AttendanceID       string
	Type               ShiftType
	Status             Status
	Timestamp          time.Time
	Latitude           *float64
	Longitude          *float64
	DeviceID           *string
	DistanceFromOffice *float64
	CreatedAt          time.Time
}

// ShiftRecord is the flattened detail row the summaries aggregate over.
type ShiftRecord struct {
	AttendanceID string
	EmployeeID   string
	Date         time.Time
	Type         ShiftType
	Status       Status
	Timestamp    time.Time
}

// DayOf truncates t to midnight UTC of its UTC calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// HasAllShifts reports whether types covers every shift of the day.
func HasAllShifts(types []ShiftType) bool {
	seen := make(map[ShiftType]struct{}, len(ShiftTypes))
	for _, t := range types {
		if t.Valid() {
			seen[t] = struct{}{}
		}
	}
	return len(seen) == len(ShiftTypes)
}

// MissingShifts returns the shifts absent from recorded, in day order.
func MissingShifts(recorded []ShiftType) []ShiftType {
	have := make(map[ShiftType]bool, len(recorded))
	for _, t := range recorded {
		have[t] = true
	}
	var missing []ShiftType
	for _, t := range ShiftTypes {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

// StandardClock maps each shift to the wall-clock hour used when a shift is
// stamped without a real check event (full-day marking, approved leave).
var StandardClock = map[ShiftType]int{
	MorningCheckIn:    9,
	MorningCheckOut:   12,
	AfternoonCheckIn:  14,
	AfternoonCheckOut: 17,
}
