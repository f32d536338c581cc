package attendance

import "errors"

var (
	ErrAttendanceNotFound   = errors.New("attendance not found")
	ErrShiftAlreadyRecorded = errors.New("attendance is already taken for this shift")
	ErrNoActiveShift        = errors.New("no active shift at the given time")
	ErrOutsideOfficeRange   = errors.New("you are too far from the office to mark attendance")
	ErrOfficeLocationUnset  = errors.New("office location is not configured")
	ErrGPSRequired          = errors.New("gps coordinates are required")
	ErrNoEmployeesFound     = errors.New("none of the given employees exist")
	ErrNothingRecorded      = errors.New("no attendance could be recorded")
	ErrFullDayIncomplete    = errors.New("failed to create all 4 attendance records")
	ErrManagerNotFound      = errors.New("manager not found")
	ErrManagerWithoutOffice = errors.New("manager does not belong to any office")
	ErrDayOnLeave           = errors.New("attendance for this day is covered by approved leave")
)
