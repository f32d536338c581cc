package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID  string `json:"employeeId" validate:"required,uuid"`
	StartDate   string `json:"startDate" validate:"required"`
	DaysOfLeave int    `json:"daysOfLeave" validate:"required,min=1"`
	LeaveType   string `json:"leaveType" validate:"required"`

	AttachmentURL *string `json:"attachmentUrl,omitempty" validate:"omitempty,url"`

	Start time.Time `json:"-"`
}

func (r *CreateLeaveRequest) Validate() error {
	if r.AttachmentURL != nil && validator.IsEmpty(*r.AttachmentURL) {
		r.AttachmentURL = nil
	}
	errs := validator.Struct(r)

	r.LeaveType = strings.ToUpper(strings.TrimSpace(r.LeaveType))
	if r.LeaveType != "" {
		lt := LeaveType(r.LeaveType)
		if !lt.Valid() {
			errs.Add("leaveType", "leaveType must be one of: MATERNITY, PATERNITY")
		} else if r.DaysOfLeave > MaxDays[lt] {
			errs.Add("daysOfLeave", fmt.Sprintf("maximum allowed days for %s leave is %d", lt, MaxDays[lt]))
		}
	}

	if !validator.IsEmpty(r.StartDate) {
		d, ok := validator.IsValidDate(r.StartDate)
		if !ok {
			errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
		}
		r.Start = d
	}

	return errs.Err()
}

type LeaveRequestFilter struct {
	Status     *string `json:"status,omitempty"`
	MyRequests bool    `json:"myRequests,omitempty"`

	pagination.Params

	EmployeeID *string  `json:"-"`
	OfficeIDs  []string `json:"-"` // nil is unrestricted, empty matches nothing
	State      *Status  `json:"-"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)

	if f.Status != nil && *f.Status != "" && !strings.EqualFold(*f.Status, "all") {
		s := Status(strings.ToUpper(*f.Status))
		if !s.Valid() {
			errs.Add("status", "status must be one of: PENDING, APPROVED, REJECTED, all")
		} else {
			f.State = &s
		}
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	OfficeName    string  `json:"office_name"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DaysOfLeave   int     `json:"days_of_leave"`
	LeaveType     string  `json:"leave_type"`
	Status        string  `json:"status"`
	ApprovedBy    *string `json:"approved_by,omitempty"`
	AttachmentURL *string `json:"attachment_url"`
	CreatedAt     string  `json:"created_at"`
}

type ListLeaveRequestResponse struct {
	pagination.Meta
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

// ApprovalResponse reports an approval with its synthesized attendance.
type ApprovalResponse struct {
	LeaveRequest   LeaveRequestResponse `json:"leave_request"`
	DaysMarked     int                  `json:"days_marked"`
	DetailsCreated int                  `json:"details_created"`
	AttendanceIDs  []string             `json:"attendance_ids"`
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		OfficeName:    "N/A",
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		DaysOfLeave:   r.DaysOfLeave,
		LeaveType:     string(r.LeaveType),
		Status:        string(r.Status),
		ApprovedBy:    r.ApprovedBy,
		AttachmentURL: r.AttachmentURL,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if r.OfficeName != nil {
		resp.OfficeName = *r.OfficeName
	}
	return resp
}
