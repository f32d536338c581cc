// Package memory holds in-process repository implementations with the same
// uniqueness guarantees as the PostgreSQL schema. Services run against it in
// tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/leave"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	offices   []office.Office
	employees []employee.Employee
	actors    map[string]user.Actor

	attendances []attendance.Attendance
	details     map[string][]attendance.Detail
	leaves      []leave.LeaveRequest

	// DetailHook, when set, runs before every detail write and can fail it.
	DetailHook func(d attendance.Detail) error
}

func NewStore() *Store {
	return &Store{
		actors:  make(map[string]user.Actor),
		details: make(map[string][]attendance.Detail),
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) Transactor() *Transactor {
	return &Transactor{s: s}
}

func (s *Store) Offices() *OfficeRepository {
	return &OfficeRepository{s: s}
}

func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{s: s}
}

func (s *Store) Attendance() *AttendanceRepository {
	return &AttendanceRepository{s: s}
}

func (s *Store) LeaveRequests() *LeaveRequestRepository {
	return &LeaveRequestRepository{s: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

// AddOffice seeds an office, assigning an id when empty.
func (s *Store) AddOffice(o office.Office) office.Office {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = newID()
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	s.offices = append(s.offices, o)
	return o
}

// AddEmployee seeds an employee, assigning an id when empty.
func (s *Store) AddEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	s.employees = append(s.employees, e)
	return e
}

// AddActor seeds the user record GetActor resolves.
func (s *Store) AddActor(a user.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[a.UserID] = a
}

// Details returns a copy of the details recorded for an attendance.
func (s *Store) Details(attendanceID string) []attendance.Detail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]attendance.Detail(nil), s.details[attendanceID]...)
}

// AttendanceCount is the number of aggregates stored.
func (s *Store) AttendanceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attendances)
}

// Transactor serialises units of work. Writes are not rolled back on error.
type Transactor struct {
	s *Store
}

type txKey struct{}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// lookups below expect s.mu to be held

func (s *Store) officeByID(id string) (office.Office, bool) {
	for _, o := range s.offices {
		if o.ID == id && o.DeletedAt == nil {
			return o, true
		}
	}
	return office.Office{}, false
}

func (s *Store) employeeByID(id string) (employee.Employee, int, bool) {
	for i, e := range s.employees {
		if e.ID == id && e.DeletedAt == nil {
			return e, i, true
		}
	}
	return employee.Employee{}, -1, false
}

func (s *Store) withOffice(e employee.Employee) employee.Employee {
	if e.OfficeID != nil {
		if o, ok := s.officeByID(*e.OfficeID); ok {
			name := o.Name
			e.OfficeName = &name
		}
	}
	return e
}

func inIDs(ids []string, id *string) bool {
	if ids == nil {
		return true
	}
	if id == nil {
		return false
	}
	for _, v := range ids {
		if v == *id {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesName(e employee.Employee, search string) bool {
	middle := ""
	if e.MiddleName != nil {
		middle = *e.MiddleName
	}
	return containsFold(e.FirstName, search) || containsFold(middle, search) ||
		containsFold(e.LastName, search) || containsFold(e.FullName(), search)
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func sortByDateDesc(items []attendance.Attendance) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].Date.After(items[j].Date)
	})
}
