package attendance

import (
	"strings"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
)

// ========================================
// MARKING DTOs
// ========================================

// MarkAttendanceRequest is the check-in payload. A non-nil Employees list
// switches to admin bulk mode.
type MarkAttendanceRequest struct {
	TimeTaken    string   `json:"timeTaken" validate:"required"`
	Employees    []string `json:"employees,omitempty"`
	EmployeeID   *string  `json:"employeeId,omitempty" validate:"omitempty,uuid"`
	DeviceID     *string  `json:"deviceId,omitempty"`
	GPSLatitude  *float64 `json:"gpsLatitude,omitempty" validate:"omitempty,latitude"`
	GPSLongitude *float64 `json:"gpsLongitude,omitempty" validate:"omitempty,longitude"`

	Time time.Time `json:"-"`
}

func (r *MarkAttendanceRequest) IsBulk() bool {
	return r.Employees != nil
}

func (r *MarkAttendanceRequest) Validate() error {
	errs := validator.Struct(r)

	if !validator.IsEmpty(r.TimeTaken) {
		t, ok := validator.IsValidDateTime(r.TimeTaken)
		if !ok {
			errs.Add("timeTaken", "timeTaken must be an ISO-8601 timestamp")
		}
		r.Time = t
	}

	if r.IsBulk() {
		if len(r.Employees) == 0 {
			errs.Add("employees", "employees must contain at least one id")
		}
		for _, id := range r.Employees {
			if !validator.IsValidUUID(id) {
				errs.Add("employees", "employees must contain valid ids")
				break
			}
		}
	}

	return errs.Err()
}

// SubmitAttendanceRequest is the mobile submission payload.
type SubmitAttendanceRequest struct {
	GPSLatitude    *float64 `json:"gpsLatitude" validate:"required,latitude"`
	GPSLongitude   *float64 `json:"gpsLongitude" validate:"required,longitude"`
	DateTime       string   `json:"dateTime" validate:"required"`
	DeviceHash     string   `json:"deviceHash" validate:"required"`
	AttendanceType string   `json:"attendanceType" validate:"required,oneof=MORNING_IN AFTERNOON_IN MORNING_OUT AFTERNOON_OUT"`

	Time  time.Time `json:"-"`
	Shift ShiftType `json:"-"`
}

func (r *SubmitAttendanceRequest) Validate() error {
	errs := validator.Struct(r)

	if !validator.IsEmpty(r.DateTime) {
		t, ok := validator.IsValidDateTime(r.DateTime)
		if !ok {
			errs.Add("dateTime", "dateTime must be an ISO-8601 timestamp")
		}
		r.Time = t
	}
	if s, ok := AttendanceType(r.AttendanceType).ShiftType(); ok {
		r.Shift = s
	}

	return errs.Err()
}

// FullDayRequest stamps all four shifts for today. EmployeeID is set only
// when an admin marks on behalf of someone else.
type FullDayRequest struct {
	EmployeeID   *string  `json:"employeeId,omitempty" validate:"omitempty,uuid"`
	GPSLatitude  *float64 `json:"gpsLatitude,omitempty" validate:"omitempty,latitude"`
	GPSLongitude *float64 `json:"gpsLongitude,omitempty" validate:"omitempty,longitude"`
}

func (r *FullDayRequest) Validate() error {
	errs := validator.Struct(r)
	if (r.GPSLatitude == nil) != (r.GPSLongitude == nil) {
		errs.Add("gps", "gpsLatitude and gpsLongitude must be given together")
	}
	return errs.Err()
}

type UpdateAttendanceRequest struct {
	ID     string `json:"-"`
	Status string `json:"status" validate:"required,oneof=PRESENT LATE PERMISSION LEAVE ABSENT"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	return validator.Struct(r).Err()
}

// ========================================
// QUERY DTOs
// ========================================

type AttendanceFilter struct {
	StartDate    *string `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"endDate,omitempty"`   // YYYY-MM-DD, inclusive
	Status       *string `json:"status,omitempty"`
	ShiftType    *string `json:"attendanceType,omitempty"`
	EmployeeName *string `json:"employeeName,omitempty"`
	OfficeID     *string `json:"officeId,omitempty"`

	pagination.Params

	// Scope, set by services
	EmployeeID  *string  `json:"-"`
	EmployeeIDs []string `json:"-"` // nil is unrestricted
	OfficeIDs   []string `json:"-"` // nil is unrestricted, empty matches nothing

	// Parsed by Validate
	From  *time.Time `json:"-"`
	To    *time.Time `json:"-"`
	State *Status    `json:"-"`
	Shift *ShiftType `json:"-"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)

	if f.StartDate != nil && *f.StartDate != "" {
		if d, ok := validator.IsValidDate(*f.StartDate); ok {
			f.From = &d
		} else {
			errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if d, ok := validator.IsValidDate(*f.EndDate); ok {
			end := EndOfDay(d)
			f.To = &end
		} else {
			errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
		}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		errs.Add("endDate", "endDate must not be before startDate")
	}

	if f.Status != nil && *f.Status != "" && !strings.EqualFold(*f.Status, "all") {
		s := Status(strings.ToUpper(*f.Status))
		if !s.Valid() {
			errs.Add("status", "status must be one of: PRESENT, LATE, PERMISSION, LEAVE, ABSENT")
		} else {
			f.State = &s
		}
	}

	if f.ShiftType != nil && *f.ShiftType != "" {
		s, ok := ParseShiftType(*f.ShiftType)
		if !ok {
			errs.Add("attendanceType", "attendanceType must be a shift type")
		} else {
			f.Shift = &s
		}
	}

	if f.EmployeeName != nil && strings.TrimSpace(*f.EmployeeName) == "" {
		f.EmployeeName = nil
	}

	return errs.Err()
}

// ParseShiftType accepts either naming of a shift.
func ParseShiftType(v string) (ShiftType, bool) {
	if s := ShiftType(v); s.Valid() {
		return s, true
	}
	return AttendanceType(strings.ToUpper(v)).ShiftType()
}

// EndOfDay returns the last nanosecond of d's UTC day.
func EndOfDay(d time.Time) time.Time {
	return DayOf(d).Add(24*time.Hour - time.Nanosecond)
}

type ShiftRecordFilter struct {
	EmployeeID *string
	OfficeIDs  []string
	From       time.Time
	To         time.Time
}

// ========================================
// RESPONSE DTOs
// ========================================

type DetailResponse struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	AttendanceType     string   `json:"attendance_type"`
	Status             string   `json:"status"`
	Timestamp          string   `json:"timestamp"`
	Latitude           *float64 `json:"gps_latitude,omitempty"`
	Longitude          *float64 `json:"gps_longitude,omitempty"`
	DeviceID           *string  `json:"device_id,omitempty"`
	DistanceFromOffice *float64 `json:"distance_from_office,omitempty"`
}

type AttendanceResponse struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	UserID       *string          `json:"user_id,omitempty"`
	EmployeeName string           `json:"employee_name"`
	OfficeID     *string          `json:"office_id,omitempty"`
	OfficeName   string           `json:"office_name"`
	Date         string           `json:"date"`
	Status       string           `json:"status"`
	Details      []DetailResponse `json:"details"`
}

type ListAttendanceResponse struct {
	pagination.Meta
	Attendances []AttendanceResponse `json:"attendances"`
}

// GridRow is one employee's days keyed by YYYY-MM-DD.
type GridRow struct {
	ID         string                      `json:"id"`
	Name       string                      `json:"name"`
	Office     string                      `json:"office"`
	Attendance map[string]string           `json:"attendance"`
	Details    map[string][]DetailResponse `json:"details"`
}

type GridResponse struct {
	pagination.Meta
	Employees []GridRow `json:"employees"`
}

type DayDetailsRequest struct {
	AttendanceDate string `json:"attendanceDate" validate:"required"`
	EmployeeID     string `json:"empId" validate:"required"`

	Date time.Time `json:"-"`
}

func (r *DayDetailsRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsEmpty(r.AttendanceDate) {
		d, ok := validator.IsValidDate(r.AttendanceDate)
		if !ok {
			errs.Add("attendanceDate", "attendanceDate must be in YYYY-MM-DD format")
		}
		r.Date = d
	}
	return errs.Err()
}

type DayDetailsResponse struct {
	AttendanceID string           `json:"attendance_id"`
	EmployeeID   string           `json:"employee_id"`
	Date         string           `json:"date"`
	Status       string           `json:"status"`
	Details      []DetailResponse `json:"details"`
}

type FilledItem struct {
	EmployeeID   string `json:"employee_id"`
	AttendanceID string `json:"attendance_id"`
	DetailID     string `json:"detail_id"`
	Type         string `json:"type"`
}

type FailedItem struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// MarkAttendanceResponse reports a marking run. Single-employee marks carry
// exactly one filled item.
type MarkAttendanceResponse struct {
	Filled      []FilledItem `json:"filled"`
	Failed      []FailedItem `json:"failed"`
	NonExistent []string     `json:"non_existent"`
	FilledCount int          `json:"filled_count"`
	FailedCount int          `json:"failed_count"`
}

type FullDayResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	Processed  int                `json:"processed"`
}

type ShiftPair struct {
	CheckIn  int `json:"checkIn"`
	CheckOut int `json:"checkOut"`
}

type ShiftCounts struct {
	Morning   ShiftPair `json:"morning"`
	Afternoon ShiftPair `json:"afternoon"`
}

type PeriodSummary struct {
	PeriodType     string      `json:"periodType"`
	StartDate      string      `json:"startDate,omitempty"`
	EndDate        string      `json:"endDate,omitempty"`
	TotalDays      int         `json:"totalDays"`
	Present        int         `json:"present"`
	OnTime         int         `json:"onTime"`
	Late           int         `json:"late"`
	Leave          int         `json:"leave"`
	Absent         int         `json:"absent"`
	Shifts         ShiftCounts `json:"shifts"`
	AttendanceRate int         `json:"attendanceRate"`
}

type TodaySummary struct {
	Date    string               `json:"date"`
	Total   int                  `json:"total"`
	Summary PeriodSummary        `json:"summary"`
	Records []AttendanceResponse `json:"records"`
}

func ToDetailResponse(d Detail) DetailResponse {
	return DetailResponse{
		ID:                 d.ID,
		Type:               string(d.Type),
		AttendanceType:     string(d.Type.AttendanceType()),
		Status:             string(d.Status),
		Timestamp:          d.Timestamp.UTC().Format(time.RFC3339),
		Latitude:           d.Latitude,
		Longitude:          d.Longitude,
		DeviceID:           d.DeviceID,
		DistanceFromOffice: d.DistanceFromOffice,
	}
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		UserID:     a.UserID,
		OfficeID:   a.OfficeID,
		OfficeName: "N/A",
		Date:       a.Date.Format("2006-01-02"),
		Status:     string(a.Status),
		Details:    make([]DetailResponse, 0, len(a.Details)),
	}
	if a.EmployeeName != nil {
		resp.EmployeeName = *a.EmployeeName
	}
	if a.OfficeName != nil {
		resp.OfficeName = *a.OfficeName
	}
	for _, d := range a.Details {
		resp.Details = append(resp.Details, ToDetailResponse(d))
	}
	return resp
}
