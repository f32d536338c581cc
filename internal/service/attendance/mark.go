package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	shiftType, ok := s.shifts.Resolve(req.Time)
	if !ok {
		return attendance.MarkAttendanceResponse{}, attendance.ErrNoActiveShift
	}

	if req.IsBulk() {
		return s.markBulk(ctx, actor, req, shiftType)
	}
	return s.markOne(ctx, actor, req, shiftType)
}

// markBulk is the admin path: every existing employee is reconciled on its
// own and a failure for one does not stop the others.
func (s *AttendanceServiceImpl) markBulk(ctx context.Context, actor user.Actor, req attendance.MarkAttendanceRequest, shiftType attendance.ShiftType) (attendance.MarkAttendanceResponse, error) {
	if !actor.IsAdmin() {
		return attendance.MarkAttendanceResponse{}, user.ErrAdminPrivilegeRequired
	}

	ids := uniqueIDs(req.Employees)
	existing, err := s.EmployeeRepository.FilterExisting(ctx, ids)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, fmt.Errorf("failed to check employees: %w", err)
	}
	if len(existing) == 0 {
		return attendance.MarkAttendanceResponse{}, attendance.ErrNoEmployeesFound
	}

	found := make(map[string]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}

	resp := attendance.MarkAttendanceResponse{
		Filled:      []attendance.FilledItem{},
		Failed:      []attendance.FailedItem{},
		NonExistent: []string{},
	}
	for _, id := range ids {
		if !found[id] {
			resp.NonExistent = append(resp.NonExistent, id)
		}
	}

	for _, id := range existing {
		agg, detail, err := s.recordShift(ctx, shiftEvent{
			EmployeeID: id,
			Type:       shiftType,
			Status:     attendance.StatusPresent,
			Time:       req.Time,
		})
		if err != nil {
			slog.Error("Failed to mark attendance", "employee_id", id, "type", shiftType, "error", err)
			resp.Failed = append(resp.Failed, attendance.FailedItem{EmployeeID: id, Reason: failureReason(err)})
			continue
		}
		resp.Filled = append(resp.Filled, attendance.FilledItem{
			EmployeeID:   id,
			AttendanceID: agg.ID,
			DetailID:     detail.ID,
			Type:         string(detail.Type),
		})
	}

	resp.FilledCount = len(resp.Filled)
	resp.FailedCount = len(resp.Failed)
	return resp, nil
}

func (s *AttendanceServiceImpl) markOne(ctx context.Context, actor user.Actor, req attendance.MarkAttendanceRequest, shiftType attendance.ShiftType) (attendance.MarkAttendanceResponse, error) {
	emp, err := s.employeeFor(ctx, actor, req.EmployeeID, user.PermissionMarkAnyAttendance)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	agg, detail, err := s.recordShift(ctx, shiftEvent{
		EmployeeID: emp.ID,
		UserID:     emp.UserID,
		Type:       shiftType,
		Status:     attendance.StatusPresent,
		Time:       req.Time,
		Latitude:   req.GPSLatitude,
		Longitude:  req.GPSLongitude,
		DeviceID:   req.DeviceID,
		Distance:   s.distanceFrom(ctx, emp, req.GPSLatitude, req.GPSLongitude),
	})
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	return attendance.MarkAttendanceResponse{
		Filled: []attendance.FilledItem{{
			EmployeeID:   emp.ID,
			AttendanceID: agg.ID,
			DetailID:     detail.ID,
			Type:         string(detail.Type),
		}},
		Failed:      []attendance.FailedItem{},
		NonExistent: []string{},
		FilledCount: 1,
	}, nil
}

// SubmitAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SubmitAttendance(ctx context.Context, req attendance.SubmitAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeFor(ctx, actor, nil, "")
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := s.validateDevice(ctx, emp, req.DeviceHash); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var distance *float64
	if actor.IsAdmin() {
		distance = s.distanceFrom(ctx, emp, req.GPSLatitude, req.GPSLongitude)
	} else {
		d, err := s.validateLocation(ctx, emp, *req.GPSLatitude, *req.GPSLongitude)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		distance = &d
	}

	deviceID := req.DeviceHash
	agg, _, err := s.recordShift(ctx, shiftEvent{
		EmployeeID: emp.ID,
		UserID:     emp.UserID,
		Type:       req.Shift,
		Status:     s.shifts.DetermineStatus(req.Shift, req.Time),
		Time:       req.Time,
		Latitude:   req.GPSLatitude,
		Longitude:  req.GPSLongitude,
		DeviceID:   &deviceID,
		Distance:   distance,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrShiftAlreadyRecorded) {
			return attendance.AttendanceResponse{}, fmt.Errorf("%w: attendance already marked for %s", err, req.AttendanceType)
		}
		return attendance.AttendanceResponse{}, err
	}

	full, err := s.AttendanceRepository.GetByID(ctx, agg.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to fetch created attendance: %w", err)
	}
	return attendance.ToResponse(full), nil
}

// validateDevice binds the first device an employee submits from and
// rejects any other device afterwards. Only the bcrypt hash is stored.
func (s *AttendanceServiceImpl) validateDevice(ctx context.Context, emp employee.Employee, deviceHash string) error {
	if emp.DeviceHash == nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(deviceHash), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash device: %w", err)
		}

		bound, err := s.EmployeeRepository.BindDevice(ctx, emp.ID, string(hashed))
		if err != nil {
			return fmt.Errorf("failed to bind device: %w", err)
		}
		if bound {
			slog.Info("New device registered for employee", "employee_id", emp.ID)
			return nil
		}

		// Another request bound a device first; check against that one.
		emp, err = s.EmployeeRepository.GetByID(ctx, emp.ID)
		if err != nil {
			return err
		}
		if emp.DeviceHash == nil {
			return employee.ErrUnauthorizedDevice
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*emp.DeviceHash), []byte(deviceHash)); err != nil {
		return employee.ErrUnauthorizedDevice
	}
	return nil
}

// MarkFullDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkFullDay(ctx context.Context, req attendance.FullDayRequest) (attendance.FullDayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.FullDayResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.FullDayResponse{}, err
	}

	onBehalf := req.EmployeeID != nil && (!actor.HasEmployee() || *actor.EmployeeID != *req.EmployeeID)
	if onBehalf && !actor.IsAdmin() {
		return attendance.FullDayResponse{}, user.ErrAdminPrivilegeRequired
	}
	emp, err := s.employeeFor(ctx, actor, req.EmployeeID, user.PermissionMarkAnyAttendance)
	if err != nil {
		return attendance.FullDayResponse{}, err
	}

	var distance *float64
	if actor.IsAdmin() {
		distance = s.distanceFrom(ctx, emp, req.GPSLatitude, req.GPSLongitude)
	} else {
		if req.GPSLatitude == nil || req.GPSLongitude == nil {
			return attendance.FullDayResponse{}, attendance.ErrGPSRequired
		}
		d, err := s.validateLocation(ctx, emp, *req.GPSLatitude, *req.GPSLongitude)
		if err != nil {
			return attendance.FullDayResponse{}, err
		}
		distance = &d
	}

	today := s.shifts.Today(s.now())
	agg, err := s.AttendanceRepository.FindOrCreate(ctx, emp.ID, emp.UserID, today)
	if err != nil {
		return attendance.FullDayResponse{}, fmt.Errorf("failed to find or create attendance: %w", err)
	}
	if agg.Status == attendance.StatusPermission || agg.Status == attendance.StatusLeave {
		return attendance.FullDayResponse{}, attendance.ErrDayOnLeave
	}

	// Each shift is written on its own; failures are logged and counted.
	processed := 0
	for _, t := range attendance.ShiftTypes {
		_, err := s.AttendanceRepository.UpsertDetail(ctx, attendance.Detail{
			AttendanceID:       agg.ID,
			Type:               t,
			Status:             attendance.StatusPresent,
			Timestamp:          s.shifts.StandardTime(today, t),
			Latitude:           req.GPSLatitude,
			Longitude:          req.GPSLongitude,
			DistanceFromOffice: distance,
		})
		if err != nil {
			slog.Error("Failed to process full-day shift", "attendance_id", agg.ID, "type", t, "error", err)
			continue
		}
		processed++
	}

	if processed < len(attendance.ShiftTypes) {
		slog.Warn("Full-day attendance incomplete", "attendance_id", agg.ID, "processed", processed)
		return attendance.FullDayResponse{}, fmt.Errorf("%w: only %d were processed", attendance.ErrFullDayIncomplete, processed)
	}

	if _, err := s.promote(ctx, agg); err != nil {
		return attendance.FullDayResponse{}, err
	}

	full, err := s.AttendanceRepository.GetByID(ctx, agg.ID)
	if err != nil {
		return attendance.FullDayResponse{}, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	return attendance.FullDayResponse{
		Attendance: attendance.ToResponse(full),
		Processed:  processed,
	}, nil
}

// failureReason is the per-item message of a batch. Unexpected errors are
// not echoed to the client.
func failureReason(err error) string {
	switch {
	case errors.Is(err, attendance.ErrShiftAlreadyRecorded),
		errors.Is(err, employee.ErrEmployeeNotFound):
		return err.Error()
	}
	return "failed to record attendance"
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
