package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/leave"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
	officesvc "github.com/mengistu3137/jimma-zone-erp/internal/service/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/service/shift"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	attendance.AttendanceRepository
	hierarchy *officesvc.HierarchyResolver
	shifts    *shift.Resolver
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	hierarchy *officesvc.HierarchyResolver,
	shifts *shift.Resolver,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepo,
		EmployeeRepository:     employeeRepo,
		AttendanceRepository:   attendanceRepo,
		hierarchy:              hierarchy,
		shifts:                 shifts,
	}
}

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	forSelf := actor.HasEmployee() && *actor.EmployeeID == req.EmployeeID
	if !forSelf && !actor.Can(user.PermissionApproveLeaveRequests) {
		return leave.LeaveRequestResponse{}, user.ErrInsufficientPermissions
	}

	end := leave.CalculateEndDate(req.Start, req.DaysOfLeave)

	var created leave.LeaveRequest
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// The row lock serialises overlap checks for one employee.
		if err := l.EmployeeRepository.LockForUpdate(ctx, req.EmployeeID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !forSelf {
			scope, err := l.hierarchy.ScopeFor(ctx, actor)
			if err != nil {
				return err
			}
			if !officesvc.InScope(scope, emp.OfficeID) {
				return office.ErrOutsideScope
			}
		}

		overlapping, err := l.LeaveRequestRepository.FindOverlapping(ctx, req.EmployeeID, req.Start, end)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave: %w", err)
		}
		if len(overlapping) > 0 {
			return leave.ErrOverlappingLeave
		}

		created, err = l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
			EmployeeID:    req.EmployeeID,
			StartDate:     req.Start,
			EndDate:       end,
			DaysOfLeave:   req.DaysOfLeave,
			LeaveType:     leave.LeaveType(req.LeaveType),
			Status:        leave.StatusPending,
			AttachmentURL: req.AttachmentURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.ToResponse(created), nil
}

// ListLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if !actor.HasEmployee() && !actor.IsAdmin() {
		return leave.ListLeaveRequestResponse{}, employee.ErrEmployeeRecordNeeded
	}

	if filter.MyRequests {
		if !actor.HasEmployee() {
			return leave.ListLeaveRequestResponse{}, employee.ErrEmployeeRecordNeeded
		}
		filter.EmployeeID = actor.EmployeeID
		return l.list(ctx, filter)
	}

	scope, err := l.hierarchy.ScopeFor(ctx, actor)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if scope != nil && len(scope) == 0 {
		// Without an office only the caller's own requests are visible.
		filter.EmployeeID = actor.EmployeeID
	}
	filter.OfficeIDs = scope
	if filter.EmployeeID != nil {
		filter.OfficeIDs = nil
	}

	return l.list(ctx, filter)
}

// ListPendingLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListPendingLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if !actor.IsAdmin() {
		if !actor.HasEmployee() {
			return leave.ListLeaveRequestResponse{}, employee.ErrEmployeeRecordNeeded
		}
		if actor.OfficeID == nil || *actor.OfficeID == "" {
			return leave.ListLeaveRequestResponse{}, employee.ErrNoOffice
		}
	}

	scope, err := l.hierarchy.ScopeFor(ctx, actor)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	pending := leave.StatusPending
	filter.State = &pending
	filter.EmployeeID = nil
	filter.OfficeIDs = scope

	return l.list(ctx, filter)
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	req, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if !actor.HasEmployee() || *actor.EmployeeID != req.EmployeeID {
		scope, err := l.hierarchy.ScopeFor(ctx, actor)
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		if !officesvc.InScope(scope, req.OfficeID) {
			return leave.LeaveRequestResponse{}, office.ErrOutsideScope
		}
	}

	return leave.ToResponse(req), nil
}

// RejectLeaveRequest implements leave.LeaveService. Only PENDING requests
// can be rejected; the rejecting user is stored in ApprovedBy.
func (l *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	actor, err := l.approver(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var rejected leave.LeaveRequest
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := l.decidable(ctx, actor, id)
		if err != nil {
			return err
		}
		if req.Status != leave.StatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		if err := l.LeaveRequestRepository.UpdateStatus(ctx, id, leave.StatusRejected, actor.UserID); err != nil {
			return fmt.Errorf("failed to reject leave request: %w", err)
		}
		rejected, err = l.LeaveRequestRepository.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.ToResponse(rejected), nil
}

// approver returns the caller if they may decide leave requests at all.
func (l *LeaveServiceImpl) approver(ctx context.Context) (user.Actor, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if !actor.HasEmployee() {
		return user.Actor{}, leave.ErrApproverRecordNeeded
	}
	if !actor.Can(user.PermissionApproveLeaveRequests) {
		return user.Actor{}, user.ErrInsufficientPermissions
	}
	return actor, nil
}

// decidable loads a request and checks it belongs to the approver's offices.
// The employee row is locked so concurrent decisions run one at a time.
func (l *LeaveServiceImpl) decidable(ctx context.Context, actor user.Actor, id string) (leave.LeaveRequest, error) {
	req, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	if !actor.IsAdmin() {
		scope, err := l.hierarchy.ScopeFor(ctx, actor)
		if err != nil {
			return leave.LeaveRequest{}, err
		}
		if !officesvc.InScope(scope, req.OfficeID) {
			return leave.LeaveRequest{}, leave.ErrOutsideApproverOffice
		}
	}

	if err := l.EmployeeRepository.LockForUpdate(ctx, req.EmployeeID); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to lock employee: %w", err)
	}

	// Re-read under the lock.
	return l.LeaveRequestRepository.GetByID(ctx, id)
}

func (l *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := leave.ListLeaveRequestResponse{
		Meta:          pagination.NewMeta(filter.Params, total),
		LeaveRequests: make([]leave.LeaveRequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.LeaveRequests = append(resp.LeaveRequests, leave.ToResponse(r))
	}
	return resp, nil
}
