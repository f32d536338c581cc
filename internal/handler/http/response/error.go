package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/leave"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authentication and authorization
	case errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, office.ErrOutsideScope),
		errors.Is(err, leave.ErrOutsideApproverOffice),
		errors.Is(err, employee.ErrUnauthorizedDevice):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrEmployeeRecordNeeded),
		errors.Is(err, office.ErrOfficeNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, attendance.ErrNoEmployeesFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, err.Error())

	// Conflicts
	case errors.Is(err, attendance.ErrShiftAlreadyRecorded),
		errors.Is(err, attendance.ErrDayOnLeave),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, err.Error())

	// Rejected input
	case errors.Is(err, attendance.ErrNoActiveShift),
		errors.Is(err, attendance.ErrOutsideOfficeRange),
		errors.Is(err, attendance.ErrOfficeLocationUnset),
		errors.Is(err, attendance.ErrGPSRequired),
		errors.Is(err, attendance.ErrNothingRecorded),
		errors.Is(err, attendance.ErrFullDayIncomplete),
		errors.Is(err, attendance.ErrManagerNotFound),
		errors.Is(err, attendance.ErrManagerWithoutOffice),
		errors.Is(err, employee.ErrNoOffice),
		errors.Is(err, leave.ErrApproverRecordNeeded):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
