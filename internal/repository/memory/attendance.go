package memory

import (
	"context"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
)

type AttendanceRepository struct {
	s *Store
}

func (s *Store) attendanceFor(employeeID string, date time.Time) (int, bool) {
	for i, a := range s.attendances {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) attendanceIndex(id string) (int, bool) {
	for i, a := range s.attendances {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) hydrate(a attendance.Attendance, shift *attendance.ShiftType) attendance.Attendance {
	a.Details = []attendance.Detail{}
	for _, d := range s.details[a.ID] {
		if shift == nil || d.Type == *shift {
			a.Details = append(a.Details, d)
		}
	}
	if e, _, ok := s.employeeByID(a.EmployeeID); ok {
		e = s.withOffice(e)
		name := e.FullName()
		a.EmployeeName = &name
		a.OfficeID = e.OfficeID
		a.OfficeName = e.OfficeName
	}
	return a
}

func (r *AttendanceRepository) FindOrCreate(ctx context.Context, employeeID string, userID *string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	date = attendance.DayOf(date)
	if i, ok := r.s.attendanceFor(employeeID, date); ok {
		return r.s.attendances[i], nil
	}
	now := time.Now()
	a := attendance.Attendance{
		ID:         newID(),
		EmployeeID: employeeID,
		UserID:     userID,
		Date:       date,
		Status:     attendance.StatusAbsent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.s.attendances = append(r.s.attendances, a)
	return a, nil
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.attendanceIndex(id)
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.s.hydrate(r.s.attendances[i], nil), nil
}

func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.attendanceIndex(id)
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	r.s.attendances[i].Status = status
	r.s.attendances[i].UpdatedAt = time.Now()
	return nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.attendanceIndex(id)
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	r.s.attendances = append(r.s.attendances[:i], r.s.attendances[i+1:]...)
	delete(r.s.details, id)
	return nil
}

func (r *AttendanceRepository) writeDetail(d attendance.Detail, overwrite bool) (attendance.Detail, error) {
	if r.s.DetailHook != nil {
		if err := r.s.DetailHook(d); err != nil {
			return attendance.Detail{}, err
		}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attendanceIndex(d.AttendanceID); !ok {
		return attendance.Detail{}, attendance.ErrAttendanceNotFound
	}

	existing := r.s.details[d.AttendanceID]
	for i, cur := range existing {
		if cur.Type != d.Type {
			continue
		}
		if !overwrite {
			return attendance.Detail{}, attendance.ErrShiftAlreadyRecorded
		}
		d.ID = cur.ID
		d.CreatedAt = cur.CreatedAt
		existing[i] = d
		return d, nil
	}

	d.ID = newID()
	d.CreatedAt = time.Now()
	r.s.details[d.AttendanceID] = append(existing, d)
	return d, nil
}

func (r *AttendanceRepository) InsertDetail(ctx context.Context, d attendance.Detail) (attendance.Detail, error) {
	return r.writeDetail(d, false)
}

func (r *AttendanceRepository) UpsertDetail(ctx context.Context, d attendance.Detail) (attendance.Detail, error) {
	return r.writeDetail(d, true)
}

func (r *AttendanceRepository) ListDetailTypes(ctx context.Context, attendanceID string) ([]attendance.ShiftType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var types []attendance.ShiftType
	for _, d := range r.s.details[attendanceID] {
		types = append(types, d.Type)
	}
	return types, nil
}

func (r *AttendanceRepository) matches(a attendance.Attendance, employeeID *string, officeIDs []string, from, to *time.Time) (employee.Employee, bool) {
	if employeeID != nil && a.EmployeeID != *employeeID {
		return employee.Employee{}, false
	}
	if from != nil && a.Date.Before(*from) {
		return employee.Employee{}, false
	}
	if to != nil && a.Date.After(*to) {
		return employee.Employee{}, false
	}
	e, _, ok := r.s.employeeByID(a.EmployeeID)
	if !ok || !inIDs(officeIDs, e.OfficeID) {
		return employee.Employee{}, false
	}
	return e, true
}

func (r *AttendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []attendance.Attendance
	for _, a := range r.s.attendances {
		e, ok := r.matches(a, filter.EmployeeID, filter.OfficeIDs, filter.From, filter.To)
		if !ok {
			continue
		}
		if filter.EmployeeIDs != nil && !inIDs(filter.EmployeeIDs, &a.EmployeeID) {
			continue
		}
		if filter.State != nil && a.Status != *filter.State {
			continue
		}
		if filter.State != nil && *filter.State == attendance.StatusAbsent && len(r.s.details[a.ID]) > 0 {
			continue
		}
		if filter.EmployeeName != nil && !matchesName(e, *filter.EmployeeName) {
			continue
		}
		matched = append(matched, r.s.hydrate(a, filter.Shift))
	}
	sortByDateDesc(matched)
	return page(matched, filter.Offset(), filter.Limit), int64(len(matched)), nil
}

func (r *AttendanceRepository) ListShiftRecords(ctx context.Context, filter attendance.ShiftRecordFilter) ([]attendance.ShiftRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var records []attendance.ShiftRecord
	for _, a := range r.s.attendances {
		if _, ok := r.matches(a, filter.EmployeeID, filter.OfficeIDs, &filter.From, &filter.To); !ok {
			continue
		}
		for _, d := range r.s.details[a.ID] {
			records = append(records, attendance.ShiftRecord{
				AttendanceID: a.ID,
				EmployeeID:   a.EmployeeID,
				Date:         a.Date,
				Type:         d.Type,
				Status:       d.Status,
				Timestamp:    d.Timestamp,
			})
		}
	}
	return records, nil
}
