package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/leave"
)

// ApproveLeaveRequest implements leave.LeaveService. Approving an already
// approved request re-runs the attendance fill, which only adds what is
// missing.
func (l *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, id string) (leave.ApprovalResponse, error) {
	actor, err := l.approver(ctx)
	if err != nil {
		return leave.ApprovalResponse{}, err
	}

	var resp leave.ApprovalResponse
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := l.decidable(ctx, actor, id)
		if err != nil {
			return err
		}
		if req.Status == leave.StatusRejected {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		if req.Status == leave.StatusPending {
			if err := l.LeaveRequestRepository.UpdateStatus(ctx, id, leave.StatusApproved, actor.UserID); err != nil {
				return fmt.Errorf("failed to approve leave request: %w", err)
			}
		}

		resp, err = l.fillPermissionDays(ctx, req)
		if err != nil {
			return err
		}

		approved, err := l.LeaveRequestRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		resp.LeaveRequest = leave.ToResponse(approved)
		return nil
	})
	if err != nil {
		return leave.ApprovalResponse{}, err
	}

	return resp, nil
}

// fillPermissionDays gives every weekday of the request a PERMISSION
// aggregate with all four shifts stamped at their standard clock times.
func (l *LeaveServiceImpl) fillPermissionDays(ctx context.Context, req leave.LeaveRequest) (leave.ApprovalResponse, error) {
	emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.ApprovalResponse{}, err
	}

	resp := leave.ApprovalResponse{AttendanceIDs: []string{}}
	for _, day := range leave.Weekdays(req.StartDate, req.EndDate) {
		agg, created, err := l.fillPermissionDay(ctx, req.EmployeeID, emp.UserID, day)
		if err != nil {
			slog.Error("Failed to fill leave day", "leave_request_id", req.ID, "date", day.Format("2006-01-02"), "error", err)
			return leave.ApprovalResponse{}, err
		}
		resp.DaysMarked++
		resp.DetailsCreated += created
		resp.AttendanceIDs = append(resp.AttendanceIDs, agg.ID)
	}
	return resp, nil
}

func (l *LeaveServiceImpl) fillPermissionDay(ctx context.Context, employeeID string, userID *string, day time.Time) (attendance.Attendance, int, error) {
	agg, err := l.AttendanceRepository.FindOrCreate(ctx, employeeID, userID, day)
	if err != nil {
		return attendance.Attendance{}, 0, fmt.Errorf("failed to find or create attendance: %w", err)
	}

	if agg.Status != attendance.StatusPermission {
		if err := l.AttendanceRepository.UpdateStatus(ctx, agg.ID, attendance.StatusPermission); err != nil {
			return attendance.Attendance{}, 0, fmt.Errorf("failed to set permission status: %w", err)
		}
		agg.Status = attendance.StatusPermission
	}

	recorded, err := l.AttendanceRepository.ListDetailTypes(ctx, agg.ID)
	if err != nil {
		return attendance.Attendance{}, 0, fmt.Errorf("failed to list attendance details: %w", err)
	}

	created := 0
	for _, t := range attendance.MissingShifts(recorded) {
		_, err := l.AttendanceRepository.InsertDetail(ctx, attendance.Detail{
			AttendanceID: agg.ID,
			Type:         t,
			Status:       attendance.StatusPermission,
			Timestamp:    l.shifts.StandardTime(day, t),
		})
		if errors.Is(err, attendance.ErrShiftAlreadyRecorded) {
			continue
		}
		if err != nil {
			return attendance.Attendance{}, 0, fmt.Errorf("failed to insert attendance detail: %w", err)
		}
		created++
	}

	return agg, created, nil
}
