package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/geo"
	officesvc "github.com/mengistu3137/jimma-zone-erp/internal/service/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/service/shift"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	office.OfficeRepository
	hierarchy   *officesvc.HierarchyResolver
	shifts      *shift.Resolver
	maxDistance float64
	now         func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now for full-day marking, summaries and the sweep.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) {
		s.now = now
	}
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	officeRepo office.OfficeRepository,
	hierarchy *officesvc.HierarchyResolver,
	shifts *shift.Resolver,
	maxDistanceMeters float64,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		OfficeRepository:     officeRepo,
		hierarchy:            hierarchy,
		shifts:               shifts,
		maxDistance:          maxDistanceMeters,
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// shiftEvent is one check-in/out to reconcile into an employee's day.
type shiftEvent struct {
	EmployeeID string
	UserID     *string
	Type       attendance.ShiftType
	Status     attendance.Status
	Time       time.Time
	Latitude   *float64
	Longitude  *float64
	DeviceID   *string
	Distance   *float64
}

// recordShift finds or creates the day's aggregate, appends the detail and
// promotes the aggregate once all four shifts are present. A second detail
// of the same type for the day fails with ErrShiftAlreadyRecorded.
func (s *AttendanceServiceImpl) recordShift(ctx context.Context, ev shiftEvent) (attendance.Attendance, attendance.Detail, error) {
	var (
		agg    attendance.Attendance
		detail attendance.Detail
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		agg, err = s.AttendanceRepository.FindOrCreate(ctx, ev.EmployeeID, ev.UserID, attendance.DayOf(ev.Time))
		if err != nil {
			return fmt.Errorf("failed to find or create attendance: %w", err)
		}

		detail, err = s.AttendanceRepository.InsertDetail(ctx, attendance.Detail{
			AttendanceID:       agg.ID,
			Type:               ev.Type,
			Status:             ev.Status,
			Timestamp:          ev.Time,
			Latitude:           ev.Latitude,
			Longitude:          ev.Longitude,
			DeviceID:           ev.DeviceID,
			DistanceFromOffice: ev.Distance,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrShiftAlreadyRecorded) {
				return err
			}
			return fmt.Errorf("failed to insert attendance detail: %w", err)
		}

		agg, err = s.promote(ctx, agg)
		return err
	})
	if err != nil {
		return attendance.Attendance{}, attendance.Detail{}, err
	}

	return agg, detail, nil
}

// promote sets PRESENT on a placeholder aggregate whose day is complete.
// Statuses set explicitly (PERMISSION, LATE, ...) are left alone.
func (s *AttendanceServiceImpl) promote(ctx context.Context, agg attendance.Attendance) (attendance.Attendance, error) {
	if agg.Status != attendance.StatusAbsent {
		return agg, nil
	}

	types, err := s.AttendanceRepository.ListDetailTypes(ctx, agg.ID)
	if err != nil {
		return agg, fmt.Errorf("failed to list attendance details: %w", err)
	}
	if !attendance.HasAllShifts(types) {
		return agg, nil
	}

	if err := s.AttendanceRepository.UpdateStatus(ctx, agg.ID, attendance.StatusPresent); err != nil {
		return agg, fmt.Errorf("failed to promote attendance status: %w", err)
	}
	agg.Status = attendance.StatusPresent
	return agg, nil
}

// employeeFor resolves the employee an actor acts on. A nil employeeID, or
// the actor's own id, means the actor's linked employee; anyone else needs perm.
func (s *AttendanceServiceImpl) employeeFor(ctx context.Context, actor user.Actor, employeeID *string, perm user.Permission) (employee.Employee, error) {
	if employeeID != nil && *employeeID != "" && (!actor.HasEmployee() || *actor.EmployeeID != *employeeID) {
		if !actor.Can(perm) {
			return employee.Employee{}, user.ErrInsufficientPermissions
		}
		emp, err := s.EmployeeRepository.GetByID(ctx, *employeeID)
		if err != nil {
			return employee.Employee{}, err
		}
		return emp, nil
	}

	if !actor.HasEmployee() {
		return employee.Employee{}, employee.ErrEmployeeRecordNeeded
	}
	emp, err := s.EmployeeRepository.GetByID(ctx, *actor.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeRecordNeeded
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// officePoint returns the GPS point of the employee's office.
func (s *AttendanceServiceImpl) officePoint(ctx context.Context, emp employee.Employee) (geo.Point, error) {
	if emp.OfficeID == nil {
		return geo.Point{}, employee.ErrNoOffice
	}
	o, err := s.OfficeRepository.GetByID(ctx, *emp.OfficeID)
	if err != nil {
		return geo.Point{}, err
	}
	p, ok := o.Coordinates()
	if !ok {
		return geo.Point{}, attendance.ErrOfficeLocationUnset
	}
	return p, nil
}

// validateLocation rejects a position further than maxDistance from the
// employee's office and returns the measured distance.
func (s *AttendanceServiceImpl) validateLocation(ctx context.Context, emp employee.Employee, lat, lon float64) (float64, error) {
	officeAt, err := s.officePoint(ctx, emp)
	if err != nil {
		return 0, err
	}
	distance, ok := geo.Within(geo.Point{Latitude: lat, Longitude: lon}, officeAt, s.maxDistance)
	if !ok {
		return distance, fmt.Errorf("%w: must be within %.0fm, current distance %.2fm",
			attendance.ErrOutsideOfficeRange, s.maxDistance, distance)
	}
	return distance, nil
}

// distanceFrom measures without enforcing. It is nil when either end is unknown.
func (s *AttendanceServiceImpl) distanceFrom(ctx context.Context, emp employee.Employee, lat, lon *float64) *float64 {
	if lat == nil || lon == nil {
		return nil
	}
	officeAt, err := s.officePoint(ctx, emp)
	if err != nil {
		return nil
	}
	d := geo.Distance(geo.Point{Latitude: *lat, Longitude: *lon}, officeAt)
	return &d
}

// scopedAttendance loads an aggregate and checks the actor may see it.
func (s *AttendanceServiceImpl) scopedAttendance(ctx context.Context, actor user.Actor, id string) (attendance.Attendance, error) {
	a, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if actor.HasEmployee() && *actor.EmployeeID == a.EmployeeID {
		return a, nil
	}
	if !actor.Can(user.PermissionViewAnyAttendance) {
		return attendance.Attendance{}, user.ErrInsufficientPermissions
	}

	scope, err := s.hierarchy.ScopeFor(ctx, actor)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if !officesvc.InScope(scope, a.OfficeID) {
		return attendance.Attendance{}, office.ErrOutsideScope
	}
	return a, nil
}
