package leave

import "context"

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)

	// ListLeaveRequests returns the caller's own requests when MyRequests is
	// set, otherwise every request in the caller's visible offices.
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListPendingLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)

	// ApproveLeaveRequest marks the request APPROVED and fills every weekday
	// in its range with PERMISSION attendance.
	ApproveLeaveRequest(ctx context.Context, id string) (ApprovalResponse, error)
	RejectLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
}
