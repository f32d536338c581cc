package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrOverlappingLeave             = errors.New("leave request overlaps with existing approved or pending leave")
	ErrApproverRecordNeeded         = errors.New("approver employee record not found")
	ErrOutsideApproverOffice        = errors.New("you can only approve leave requests from your office")
)
