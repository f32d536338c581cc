package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/repository/memory"
	officesvc "github.com/mengistu3137/jimma-zone-erp/internal/service/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/service/shift"
)

var eat = time.FixedZone("EAT", 3*60*60)

// Jimma zone office and two positions relative to it.
var (
	officeLat, officeLon = 7.6735, 36.8344
	nearLat, nearLon     = 7.6740, 36.8350
	farLat, farLon       = 9.0300, 38.7400
)

func ptr[T any](v T) *T {
	return &v
}

// fixture is the office tree Head -> {Sales -> {Merkato, Kochi}, Marketing}
// with one employee per office.
type fixture struct {
	store *memory.Store
	svc   attendance.AttendanceService
	now   time.Time

	head, sales, merkato, kochi, marketing office.Office

	headEmp, salesEmp, merkatoEmp, kochiEmp, marketingEmp employee.Employee

	admin, manager, worker user.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: memory.NewStore(),
		// Monday 2024-03-04, 10:00 in Jimma.
		now: time.Date(2024, time.March, 4, 10, 0, 0, 0, eat),
	}

	addOffice := func(name string, parent *office.Office) office.Office {
		o := office.Office{Name: name, Latitude: ptr(officeLat), Longitude: ptr(officeLon)}
		if parent != nil {
			o.ParentID = &parent.ID
		}
		return f.store.AddOffice(o)
	}
	f.head = addOffice("Jimma Zone Head Office", nil)
	f.sales = addOffice("Sales", &f.head)
	f.merkato = addOffice("Merkato Branch", &f.sales)
	f.kochi = addOffice("Kochi Branch", &f.sales)
	f.marketing = addOffice("Marketing", &f.head)

	addEmployee := func(first, last string, o office.Office) employee.Employee {
		return f.store.AddEmployee(employee.Employee{
			UserID:    ptr("user-" + first),
			OfficeID:  &o.ID,
			FirstName: first,
			LastName:  last,
			Gender:    employee.Female,
		})
	}
	f.headEmp = addEmployee("Abebe", "Kebede", f.head)
	f.salesEmp = addEmployee("Chaltu", "Gemechu", f.sales)
	f.merkatoEmp = addEmployee("Dawit", "Tesfaye", f.merkato)
	f.kochiEmp = addEmployee("Eyerus", "Alemu", f.kochi)
	f.marketingEmp = addEmployee("Fikru", "Bekele", f.marketing)

	f.admin = user.Actor{UserID: "user-admin", Roles: []string{"Super Admin"}}
	f.manager = actorFor(f.salesEmp, user.PermissionViewAnyAttendance, user.PermissionMarkAnyAttendance)
	f.worker = actorFor(f.merkatoEmp, user.PermissionViewOwnAttendance, user.PermissionMarkOwnAttendance)

	hierarchy := officesvc.NewHierarchyResolver(f.store.Offices())
	resolver := shift.NewResolver(shift.DefaultConfig(), eat, -3)

	f.svc = NewAttendanceService(
		f.store.Transactor(),
		f.store.Attendance(),
		f.store.Employees(),
		f.store.Offices(),
		hierarchy,
		resolver,
		1000,
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func actorFor(e employee.Employee, perms ...user.Permission) user.Actor {
	return user.Actor{
		UserID:      *e.UserID,
		EmployeeID:  &e.ID,
		OfficeID:    e.OfficeID,
		Roles:       []string{"Employee"},
		Permissions: user.NewPermissionSet(perms...),
	}
}

func as(a user.Actor) context.Context {
	return user.WithActor(context.Background(), a)
}

// Monday 2024-03-04 in UTC; with the -3 offset the UTC hour picks the window.
const (
	morningIn    = "2024-03-04T06:00:00Z"
	morningOut   = "2024-03-04T11:30:00Z"
	afternoonIn  = "2024-03-04T14:00:00Z"
	afternoonOut = "2024-03-04T17:00:00Z"
)

func (f *fixture) mark(t *testing.T, a user.Actor, timeTaken string) (attendance.MarkAttendanceResponse, error) {
	t.Helper()
	return f.svc.MarkAttendance(as(a), attendance.MarkAttendanceRequest{TimeTaken: timeTaken})
}

// markAll records a shift for every employee through the admin bulk path.
func (f *fixture) markAll(t *testing.T, timeTaken string) {
	t.Helper()
	ids := []string{f.headEmp.ID, f.salesEmp.ID, f.merkatoEmp.ID, f.kochiEmp.ID, f.marketingEmp.ID}
	resp, err := f.svc.MarkAttendance(as(f.admin), attendance.MarkAttendanceRequest{TimeTaken: timeTaken, Employees: ids})
	if err != nil {
		t.Fatalf("bulk mark failed: %v", err)
	}
	if resp.FilledCount != len(ids) {
		t.Fatalf("bulk mark filled %d of %d", resp.FilledCount, len(ids))
	}
}
