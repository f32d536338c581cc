package memory

import (
	"context"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
)

type EmployeeRepository struct {
	s *Store
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, _, ok := r.s.employeeByID(id)
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.s.withOffice(e), nil
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.employees {
		if e.DeletedAt == nil && e.UserID != nil && *e.UserID == userID {
			return r.s.withOffice(e), nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *EmployeeRepository) FilterExisting(ctx context.Context, ids []string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var existing []string
	for _, id := range ids {
		if _, _, ok := r.s.employeeByID(id); ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

func (r *EmployeeRepository) LockForUpdate(ctx context.Context, id string) error {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if _, _, ok := r.s.employeeByID(id); !ok {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) BindDevice(ctx context.Context, id string, hash string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, i, ok := r.s.employeeByID(id)
	if !ok {
		return false, employee.ErrEmployeeNotFound
	}
	if e.DeviceHash != nil {
		return false, nil
	}
	r.s.employees[i].DeviceHash = &hash
	r.s.employees[i].UpdatedAt = time.Now()
	return true, nil
}

func (r *EmployeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []employee.Employee
	for _, e := range r.s.employees {
		if e.DeletedAt != nil || !inIDs(filter.OfficeIDs, e.OfficeID) {
			continue
		}
		if filter.Search != nil && !matchesName(e, *filter.Search) {
			continue
		}
		matched = append(matched, r.s.withOffice(e))
	}
	return page(matched, filter.Offset(), filter.Limit), int64(len(matched)), nil
}

func (r *EmployeeRepository) ListWithoutAttendance(ctx context.Context, date time.Time) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []employee.Employee
	for _, e := range r.s.employees {
		if e.DeletedAt != nil || (e.HireDate != nil && e.HireDate.After(date)) {
			continue
		}
		if _, ok := r.s.attendanceFor(e.ID, date); ok {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
