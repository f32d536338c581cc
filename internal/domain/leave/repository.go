package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// FindOverlapping returns PENDING/APPROVED requests of the employee whose
	// range intersects [start, end].
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)

	UpdateStatus(ctx context.Context, id string, status Status, decidedBy string) error

	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
}
