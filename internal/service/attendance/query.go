package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
	officesvc "github.com/mengistu3137/jimma-zone-erp/internal/service/office"
)

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a, err := s.scopedAttendance(ctx, actor, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(a), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !actor.Can(user.PermissionUpdateAnyAttendance) {
		return attendance.AttendanceResponse{}, user.ErrInsufficientPermissions
	}

	if _, err := s.scopedAttendance(ctx, actor, req.ID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := s.AttendanceRepository.UpdateStatus(ctx, req.ID, attendance.Status(req.Status)); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	updated, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to fetch updated attendance: %w", err)
	}
	return attendance.ToResponse(updated), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if !actor.Can(user.PermissionDeleteAnyAttendance) {
		return user.ErrInsufficientPermissions
	}

	if _, err := s.scopedAttendance(ctx, actor, id); err != nil {
		return err
	}

	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

// ListByUser implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByUser(ctx context.Context, userID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	emp, err := s.employeeOfUser(ctx, actor, userID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.EmployeeID = &emp.ID
	filter.OfficeIDs = nil

	return s.list(ctx, filter)
}

// ListByDateRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByDateRange(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.From == nil || filter.To == nil {
		var errs validator.ValidationErrors
		if filter.From == nil {
			errs.Add("startDate", "startDate is required")
		}
		if filter.To == nil {
			errs.Add("endDate", "endDate is required")
		}
		return attendance.ListAttendanceResponse{}, errs
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !actor.Can(user.PermissionViewAnyAttendance) {
		return attendance.ListAttendanceResponse{}, user.ErrInsufficientPermissions
	}

	scope, err := s.hierarchy.ScopeFor(ctx, actor)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.OfficeIDs = scope
	if filter.OfficeID != nil && *filter.OfficeID != "" {
		if !officesvc.InScope(scope, filter.OfficeID) {
			return attendance.ListAttendanceResponse{}, office.ErrOutsideScope
		}
		filter.OfficeIDs = []string{*filter.OfficeID}
	}

	return s.list(ctx, filter)
}

// ListByOfficeHierarchy implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByOfficeHierarchy(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if err := s.scopeToManager(ctx, &filter); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.list(ctx, filter)
}

// Grid implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Grid(ctx context.Context, filter attendance.AttendanceFilter) (attendance.GridResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.GridResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.GridResponse{}, err
	}

	var (
		emps  []employee.Employee
		total int64
	)
	if actor.Can(user.PermissionViewAnyAttendance) {
		if actor.IsAdmin() {
			scope, err := s.hierarchy.ScopeFor(ctx, actor)
			if err != nil {
				return attendance.GridResponse{}, err
			}
			filter.OfficeIDs = scope
			if filter.OfficeID != nil && *filter.OfficeID != "" {
				filter.OfficeIDs = []string{*filter.OfficeID}
			}
		} else if err := s.scopeToManager(ctx, &filter); err != nil {
			return attendance.GridResponse{}, err
		}

		emps, total, err = s.EmployeeRepository.List(ctx, employee.EmployeeFilter{
			Search:    filter.EmployeeName,
			OfficeIDs: filter.OfficeIDs,
			Params:    filter.Params,
		})
		if err != nil {
			return attendance.GridResponse{}, fmt.Errorf("failed to list employees: %w", err)
		}
	} else {
		emp, err := s.employeeFor(ctx, actor, nil, user.PermissionViewAnyAttendance)
		if err != nil {
			return attendance.GridResponse{}, err
		}
		total = 1
		if filter.Page == 1 {
			emps = []employee.Employee{emp}
		}
	}

	resp := attendance.GridResponse{
		Meta:      pagination.NewMeta(filter.Params, total),
		Employees: make([]attendance.GridRow, 0, len(emps)),
	}
	if len(emps) == 0 {
		return resp, nil
	}

	ids := make([]string, len(emps))
	for i, e := range emps {
		ids[i] = e.ID
	}
	days, err := s.allDays(ctx, attendance.AttendanceFilter{EmployeeIDs: ids, From: filter.From, To: filter.To})
	if err != nil {
		return attendance.GridResponse{}, err
	}

	byEmployee := make(map[string][]attendance.Attendance, len(emps))
	for _, a := range days {
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a)
	}

	for _, e := range emps {
		row := attendance.GridRow{
			ID:         e.ID,
			Name:       e.FullName(),
			Office:     "N/A",
			Attendance: map[string]string{},
			Details:    map[string][]attendance.DetailResponse{},
		}
		if e.OfficeName != nil {
			row.Office = *e.OfficeName
		}
		for _, a := range byEmployee[e.ID] {
			key := a.Date.Format("2006-01-02")
			day := attendance.ToResponse(a)
			row.Attendance[key] = day.Status
			row.Details[key] = day.Details
		}
		resp.Employees = append(resp.Employees, row)
	}
	return resp, nil
}

// allDays reads every page of filter.
func (s *AttendanceServiceImpl) allDays(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	filter.Params = pagination.Params{Page: 1, Limit: pagination.MaxLimit}

	var out []attendance.Attendance
	for {
		items, total, err := s.AttendanceRepository.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance: %w", err)
		}
		out = append(out, items...)
		if len(items) == 0 || int64(len(out)) >= total {
			return out, nil
		}
		filter.Page++
	}
}

// DayDetails implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DayDetails(ctx context.Context, req attendance.DayDetailsRequest) (attendance.DayDetailsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayDetailsResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.DayDetailsResponse{}, err
	}

	emp, err := s.employeeFor(ctx, actor, &req.EmployeeID, user.PermissionViewAnyAttendance)
	if err != nil {
		return attendance.DayDetailsResponse{}, err
	}
	if !actor.HasEmployee() || *actor.EmployeeID != emp.ID {
		scope, err := s.hierarchy.ScopeFor(ctx, actor)
		if err != nil {
			return attendance.DayDetailsResponse{}, err
		}
		if !officesvc.InScope(scope, emp.OfficeID) {
			return attendance.DayDetailsResponse{}, office.ErrOutsideScope
		}
	}

	to := attendance.EndOfDay(req.Date)
	items, _, err := s.AttendanceRepository.List(ctx, attendance.AttendanceFilter{
		Params:     pagination.Params{Page: 1, Limit: 1},
		EmployeeID: &emp.ID,
		From:       &req.Date,
		To:         &to,
	})
	if err != nil {
		return attendance.DayDetailsResponse{}, fmt.Errorf("failed to find attendance: %w", err)
	}
	if len(items) == 0 {
		return attendance.DayDetailsResponse{}, attendance.ErrAttendanceNotFound
	}

	a := attendance.ToResponse(items[0])
	return attendance.DayDetailsResponse{
		AttendanceID: a.ID,
		EmployeeID:   a.EmployeeID,
		Date:         a.Date,
		Status:       a.Status,
		Details:      a.Details,
	}, nil
}

// scopeToManager restricts filter to the caller's office and every office
// below it. An officeId inside that tree narrows to its own subtree.
func (s *AttendanceServiceImpl) scopeToManager(ctx context.Context, filter *attendance.AttendanceFilter) error {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if !actor.HasEmployee() {
		return attendance.ErrManagerNotFound
	}
	if actor.OfficeID == nil || *actor.OfficeID == "" {
		return attendance.ErrManagerWithoutOffice
	}

	visible, err := s.hierarchy.VisibleOfficeIDs(ctx, *actor.OfficeID)
	if err != nil {
		return err
	}

	if filter.OfficeID != nil && *filter.OfficeID != "" {
		if !officesvc.InScope(visible, filter.OfficeID) {
			return office.ErrOutsideScope
		}
		visible, err = s.hierarchy.VisibleOfficeIDs(ctx, *filter.OfficeID)
		if err != nil {
			return err
		}
	}

	filter.OfficeIDs = visible
	return nil
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		Meta:        pagination.NewMeta(filter.Params, total),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, a := range records {
		resp.Attendances = append(resp.Attendances, attendance.ToResponse(a))
	}
	return resp, nil
}

// employeeOfUser resolves userID (empty for the caller) to its employee and
// checks the caller may read that employee's attendance.
func (s *AttendanceServiceImpl) employeeOfUser(ctx context.Context, actor user.Actor, userID string) (employee.Employee, error) {
	if userID == "" || userID == actor.UserID {
		if !actor.HasEmployee() {
			return employee.Employee{}, employee.ErrEmployeeRecordNeeded
		}
		return s.EmployeeRepository.GetByID(ctx, *actor.EmployeeID)
	}

	if !actor.Can(user.PermissionViewAnyAttendance) {
		return employee.Employee{}, user.ErrInsufficientPermissions
	}

	emp, err := s.EmployeeRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user: %w", err)
	}

	scope, err := s.hierarchy.ScopeFor(ctx, actor)
	if err != nil {
		return employee.Employee{}, err
	}
	if !officesvc.InScope(scope, emp.OfficeID) {
		return employee.Employee{}, office.ErrOutsideScope
	}
	return emp, nil
}
