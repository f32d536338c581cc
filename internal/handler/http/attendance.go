package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/handler/http/response"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	MarkFullDay(w http.ResponseWriter, r *http.Request)
	MarkMyFullDay(w http.ResponseWriter, r *http.Request)

	Grid(w http.ResponseWriter, r *http.Request)
	DayDetails(w http.ResponseWriter, r *http.Request)
	ListByDateRange(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	ListByOfficeHierarchy(w http.ResponseWriter, r *http.Request)
	ExportOfficeHierarchy(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	Stats(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Weekly(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
	Yearly(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.MarkAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.FilledCount == 0 {
		response.BadRequestWithData(w, "No attendance could be recorded", result)
		return
	}
	response.Created(w, "Attendance marked successfully", result)
}

// Submit implements AttendanceHandler.
func (h *attendanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req attendance.SubmitAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.SubmitAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance submitted successfully", result)
}

// MarkFullDay implements AttendanceHandler. Admin only, on behalf of employeeId.
func (h *attendanceHandlerImpl) MarkFullDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.FullDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	h.markFullDay(w, r, req)
}

// MarkMyFullDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkMyFullDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.FullDayRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.EmployeeID = nil

	h.markFullDay(w, r, req)
}

func (h *attendanceHandlerImpl) markFullDay(w http.ResponseWriter, r *http.Request, req attendance.FullDayRequest) {
	result, err := h.attendanceService.MarkFullDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Full day attendance marked successfully", result)
}

func attendanceFilterFromQuery(r *http.Request) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		StartDate:    queryString(r, "startDate"),
		EndDate:      queryString(r, "endDate"),
		Status:       queryString(r, "status"),
		ShiftType:    queryString(r, "attendanceType"),
		EmployeeName: queryString(r, "employeeName"),
		OfficeID:     queryString(r, "officeId"),
		Params:       queryPagination(r),
	}
}

// Grid implements AttendanceHandler.
func (h *attendanceHandlerImpl) Grid(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		StartDate:    queryString(r, "startDate"),
		EndDate:      queryString(r, "endDate"),
		EmployeeName: queryString(r, "search"),
		OfficeID:     queryString(r, "officeId"),
		Params:       queryPagination(r),
	}

	results, err := h.attendanceService.Grid(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// DayDetails implements AttendanceHandler.
func (h *attendanceHandlerImpl) DayDetails(w http.ResponseWriter, r *http.Request) {
	req := attendance.DayDetailsRequest{
		AttendanceDate: r.URL.Query().Get("attendanceDate"),
		EmployeeID:     r.URL.Query().Get("empId"),
	}

	result, err := h.attendanceService.DayDetails(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByDateRange implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByDateRange(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.ListByDateRange(r.Context(), attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListByUser implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	results, err := h.attendanceService.ListByUser(r.Context(), userID, attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListByOfficeHierarchy implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByOfficeHierarchy(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.ListByOfficeHierarchy(r.Context(), attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ExportOfficeHierarchy implements AttendanceHandler.
func (h *attendanceHandlerImpl) ExportOfficeHierarchy(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.attendanceService.ExportOfficeHierarchy(r.Context(), attendanceFilterFromQuery(r), &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write attendance export", "error", err)
	}
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.attendanceService.DeleteAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	q := r.URL.Query()

	result, err := h.attendanceService.UserStats(r.Context(), userID, q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.TodaySummary(r.Context(), queryString(r, "officeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// pathInts parses the named URL params as integers.
func pathInts(w http.ResponseWriter, r *http.Request, names ...string) ([]int, bool) {
	values := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(chi.URLParam(r, name))
		if err != nil {
			response.BadRequest(w, fmt.Sprintf("Invalid %s", name), nil)
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// Weekly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Weekly(w http.ResponseWriter, r *http.Request) {
	v, ok := pathInts(w, r, "year", "week")
	if !ok {
		return
	}

	result, err := h.attendanceService.WeeklySummary(r.Context(), r.URL.Query().Get("userId"), v[0], v[1])
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Monthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	v, ok := pathInts(w, r, "year", "month")
	if !ok {
		return
	}

	result, err := h.attendanceService.MonthlySummary(r.Context(), r.URL.Query().Get("userId"), v[0], v[1])
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Yearly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Yearly(w http.ResponseWriter, r *http.Request) {
	v, ok := pathInts(w, r, "year")
	if !ok {
		return
	}

	result, err := h.attendanceService.YearlySummary(r.Context(), r.URL.Query().Get("userId"), v[0])
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
