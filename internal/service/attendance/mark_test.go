package attendance

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAttendance_FullDayPromotesToPresent(t *testing.T) {
	f := newFixture(t)

	var attendanceID string
	for i, ts := range []string{morningIn, morningOut, afternoonIn} {
		resp, err := f.mark(t, f.worker, ts)
		require.NoError(t, err, "shift %d", i)
		require.Len(t, resp.Filled, 1)
		attendanceID = resp.Filled[0].AttendanceID
	}

	got, err := f.store.Attendance().GetByID(as(f.admin), attendanceID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, got.Status, "three shifts do not complete the day")

	resp, err := f.mark(t, f.worker, afternoonOut)
	require.NoError(t, err)
	assert.Equal(t, attendanceID, resp.Filled[0].AttendanceID)
	assert.Equal(t, string(attendance.AfternoonCheckOut), resp.Filled[0].Type)

	got, err = f.store.Attendance().GetByID(as(f.admin), attendanceID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, got.Status)
	assert.Len(t, got.Details, 4)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, 1, f.store.AttendanceCount())
}

func TestMarkAttendance_DuplicateShiftConflicts(t *testing.T) {
	f := newFixture(t)

	_, err := f.mark(t, f.worker, morningIn)
	require.NoError(t, err)

	// Same window, a few minutes later.
	_, err = f.mark(t, f.worker, "2024-03-04T06:10:00Z")
	assert.ErrorIs(t, err, attendance.ErrShiftAlreadyRecorded)

	assert.Equal(t, 1, f.store.AttendanceCount())
	a, err := f.store.Attendance().FindOrCreate(as(f.admin), f.merkatoEmp.ID, nil, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, f.store.Details(a.ID), 1)
}

func TestMarkAttendance_ConcurrentSameShift(t *testing.T) {
	f := newFixture(t)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.MarkAttendance(as(f.worker), attendance.MarkAttendanceRequest{TimeTaken: morningIn})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrShiftAlreadyRecorded)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.store.AttendanceCount())
}

func TestMarkAttendance_OutsideShiftWindows(t *testing.T) {
	f := newFixture(t)

	// Saturday afternoon has no window.
	_, err := f.mark(t, f.worker, "2024-03-09T14:00:00Z")
	assert.ErrorIs(t, err, attendance.ErrNoActiveShift)

	// Friday 16:30 local falls between the Friday morning and afternoon windows.
	_, err = f.mark(t, f.worker, "2024-03-08T13:30:00Z")
	assert.ErrorIs(t, err, attendance.ErrNoActiveShift)
}

func TestMarkAttendance_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.mark(t, f.worker, "")
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "timeTaken")

	_, err = f.mark(t, f.worker, "yesterday morning")
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap()["timeTaken"], "ISO-8601")
}

func TestMarkAttendance_SelfResolution(t *testing.T) {
	f := newFixture(t)

	t.Run("actor without employee record", func(t *testing.T) {
		_, err := f.mark(t, user.Actor{UserID: "user-nobody"}, morningIn)
		assert.ErrorIs(t, err, employee.ErrEmployeeRecordNeeded)
	})

	t.Run("other employee without permission", func(t *testing.T) {
		_, err := f.svc.MarkAttendance(as(f.worker), attendance.MarkAttendanceRequest{
			TimeTaken:  morningIn,
			EmployeeID: &f.kochiEmp.ID,
		})
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})

	t.Run("other employee with permission", func(t *testing.T) {
		resp, err := f.svc.MarkAttendance(as(f.manager), attendance.MarkAttendanceRequest{
			TimeTaken:  morningIn,
			EmployeeID: &f.kochiEmp.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, f.kochiEmp.ID, resp.Filled[0].EmployeeID)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := f.svc.MarkAttendance(as(f.manager), attendance.MarkAttendanceRequest{
			TimeTaken:  morningIn,
			EmployeeID: ptr(uuid.NewString()),
		})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestMarkAttendance_RecordsGPSAndDistance(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.MarkAttendance(as(f.worker), attendance.MarkAttendanceRequest{
		TimeTaken:    morningIn,
		DeviceID:     ptr("pixel-7"),
		GPSLatitude:  ptr(nearLat),
		GPSLongitude: ptr(nearLon),
	})
	require.NoError(t, err)

	details := f.store.Details(resp.Filled[0].AttendanceID)
	require.Len(t, details, 1)
	d := details[0]
	assert.Equal(t, attendance.MorningCheckIn, d.Type)
	assert.Equal(t, attendance.StatusPresent, d.Status)
	assert.Equal(t, "pixel-7", *d.DeviceID)
	require.NotNil(t, d.DistanceFromOffice)
	assert.InDelta(t, 86, *d.DistanceFromOffice, 5)
}

func TestMarkAttendance_Bulk(t *testing.T) {
	t.Run("requires admin", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.MarkAttendance(as(f.manager), attendance.MarkAttendanceRequest{
			TimeTaken: morningIn,
			Employees: []string{f.kochiEmp.ID},
		})
		assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
	})

	t.Run("no existing employees", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.MarkAttendance(as(f.admin), attendance.MarkAttendanceRequest{
			TimeTaken: morningIn,
			Employees: []string{uuid.NewString()},
		})
		assert.ErrorIs(t, err, attendance.ErrNoEmployeesFound)
	})

	t.Run("empty list is invalid", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.MarkAttendance(as(f.admin), attendance.MarkAttendanceRequest{
			TimeTaken: morningIn,
			Employees: []string{},
		})
		var verrs validator.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})

	t.Run("partial failure does not abort the batch", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.mark(t, f.worker, morningIn)
		require.NoError(t, err)

		missing := uuid.NewString()
		resp, err := f.svc.MarkAttendance(as(f.admin), attendance.MarkAttendanceRequest{
			TimeTaken: morningIn,
			Employees: []string{f.merkatoEmp.ID, f.kochiEmp.ID, missing, f.kochiEmp.ID},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, resp.FilledCount)
		assert.Equal(t, f.kochiEmp.ID, resp.Filled[0].EmployeeID)
		assert.Equal(t, 1, resp.FailedCount)
		assert.Equal(t, f.merkatoEmp.ID, resp.Failed[0].EmployeeID)
		assert.Equal(t, attendance.ErrShiftAlreadyRecorded.Error(), resp.Failed[0].Reason)
		assert.Equal(t, []string{missing}, resp.NonExistent)
	})

	t.Run("bulk details carry no location", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.MarkAttendance(as(f.admin), attendance.MarkAttendanceRequest{
			TimeTaken: afternoonIn,
			Employees: []string{f.headEmp.ID},
		})
		require.NoError(t, err)

		details := f.store.Details(resp.Filled[0].AttendanceID)
		require.Len(t, details, 1)
		assert.Nil(t, details[0].Latitude)
		assert.Nil(t, details[0].DeviceID)
		assert.Equal(t, attendance.AfternoonCheckIn, details[0].Type)
	})
}

func TestMarkAttendance_UnexpectedStoreErrorIsNotEchoed(t *testing.T) {
	f := newFixture(t)
	f.store.DetailHook = func(d attendance.Detail) error {
		return errors.New("pq: connection reset by peer")
	}

	resp, err := f.svc.MarkAttendance(as(f.admin), attendance.MarkAttendanceRequest{
		TimeTaken: morningIn,
		Employees: []string{f.headEmp.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.FilledCount)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "failed to record attendance", resp.Failed[0].Reason)
}

func TestSubmitAttendance(t *testing.T) {
	submit := func(lat, lon float64, dateTime, device, typ string) attendance.SubmitAttendanceRequest {
		return attendance.SubmitAttendanceRequest{
			GPSLatitude:    &lat,
			GPSLongitude:   &lon,
			DateTime:       dateTime,
			DeviceHash:     device,
			AttendanceType: typ,
		}
	}

	t.Run("binds first device and grades on time", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.svc.SubmitAttendance(as(f.worker), submit(nearLat, nearLon, morningIn, "device-abc", "MORNING_IN"))
		require.NoError(t, err)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "MORNING_IN", resp.Details[0].AttendanceType)
		assert.Equal(t, string(attendance.MorningCheckIn), resp.Details[0].Type)
		assert.Equal(t, string(attendance.StatusPresent), resp.Details[0].Status)
		assert.Equal(t, "Merkato Branch", resp.OfficeName)
		assert.Equal(t, "Dawit Tesfaye", resp.EmployeeName)

		emp, err := f.store.Employees().GetByID(as(f.admin), f.merkatoEmp.ID)
		require.NoError(t, err)
		require.NotNil(t, emp.DeviceHash)
		assert.NotEqual(t, "device-abc", *emp.DeviceHash, "only the hash is stored")
	})

	t.Run("late outside the window", func(t *testing.T) {
		f := newFixture(t)

		// 13:00 local is past the morning check-in window.
		resp, err := f.svc.SubmitAttendance(as(f.worker), submit(nearLat, nearLon, "2024-03-04T10:00:00Z", "device-abc", "MORNING_IN"))
		require.NoError(t, err)
		assert.Equal(t, string(attendance.StatusLate), resp.Details[0].Status)
	})

	t.Run("rejects a second device", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SubmitAttendance(as(f.worker), submit(nearLat, nearLon, morningIn, "device-abc", "MORNING_IN"))
		require.NoError(t, err)

		_, err = f.svc.SubmitAttendance(as(f.worker), submit(nearLat, nearLon, morningOut, "device-xyz", "MORNING_OUT"))
		assert.ErrorIs(t, err, employee.ErrUnauthorizedDevice)
	})

	t.Run("duplicate type conflicts", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SubmitAttendance(as(f.worker), submit(nearLat, nearLon, morningIn, "device-abc", "MORNING_IN"))
		require.NoError(t, err)

		_, err = f.svc.SubmitAttendance(as(f.worker), submit(nearLat, nearLon, morningIn, "device-abc", "MORNING_IN"))
		assert.ErrorIs(t, err, attendance.ErrShiftAlreadyRecorded)
		assert.ErrorContains(t, err, "attendance already marked for MORNING_IN")
	})

	t.Run("too far from office", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SubmitAttendance(as(f.worker), submit(farLat, farLon, morningIn, "device-abc", "MORNING_IN"))
		assert.ErrorIs(t, err, attendance.ErrOutsideOfficeRange)
		assert.Equal(t, 0, f.store.AttendanceCount())
	})

	t.Run("admins skip the distance check", func(t *testing.T) {
		f := newFixture(t)
		admin := actorFor(f.headEmp)
		admin.Roles = []string{"admin"}

		resp, err := f.svc.SubmitAttendance(as(admin), submit(farLat, farLon, morningIn, "device-abc", "MORNING_IN"))
		require.NoError(t, err)
		require.Len(t, resp.Details, 1)
		require.NotNil(t, resp.Details[0].DistanceFromOffice)
		assert.Greater(t, *resp.Details[0].DistanceFromOffice, 1000.0)
	})

	t.Run("office without coordinates", func(t *testing.T) {
		f := newFixture(t)
		bare := f.store.AddOffice(office.Office{Name: "Seka Chekorsa"})
		emp := f.store.AddEmployee(employee.Employee{UserID: ptr("user-seka"), OfficeID: &bare.ID, FirstName: "Gadisa", LastName: "Olana"})

		_, err := f.svc.SubmitAttendance(as(actorFor(emp)), submit(nearLat, nearLon, morningIn, "device-abc", "MORNING_IN"))
		assert.ErrorIs(t, err, attendance.ErrOfficeLocationUnset)
	})

	t.Run("all fields are required", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SubmitAttendance(as(f.worker), attendance.SubmitAttendanceRequest{AttendanceType: "EVENING_IN"})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		fields := verrs.ToMap()
		for _, name := range []string{"gpsLatitude", "gpsLongitude", "dateTime", "deviceHash", "attendanceType"} {
			assert.Contains(t, fields, name)
		}
	})
}

func TestMarkFullDay(t *testing.T) {
	near := attendance.FullDayRequest{GPSLatitude: ptr(nearLat), GPSLongitude: ptr(nearLon)}

	t.Run("stamps all four shifts at standard times", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.svc.MarkFullDay(as(f.worker), near)
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Processed)
		assert.Equal(t, "2024-03-04", resp.Attendance.Date)
		assert.Equal(t, string(attendance.StatusPresent), resp.Attendance.Status)

		got := map[string]string{}
		for _, d := range resp.Attendance.Details {
			got[d.AttendanceType] = d.Timestamp
		}
		assert.Equal(t, map[string]string{
			"MORNING_IN":    "2024-03-04T06:00:00Z",
			"MORNING_OUT":   "2024-03-04T09:00:00Z",
			"AFTERNOON_IN":  "2024-03-04T11:00:00Z",
			"AFTERNOON_OUT": "2024-03-04T14:00:00Z",
		}, got)
	})

	t.Run("running twice keeps four details", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.mark(t, f.worker, morningIn)
		require.NoError(t, err)

		first, err := f.svc.MarkFullDay(as(f.worker), near)
		require.NoError(t, err)
		second, err := f.svc.MarkFullDay(as(f.worker), near)
		require.NoError(t, err)

		assert.Equal(t, first.Attendance.ID, second.Attendance.ID)
		assert.Len(t, f.store.Details(first.Attendance.ID), 4)
		assert.Equal(t, 1, f.store.AttendanceCount())
	})

	t.Run("non-admins need gps", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.MarkFullDay(as(f.worker), attendance.FullDayRequest{})
		assert.ErrorIs(t, err, attendance.ErrGPSRequired)
	})

	t.Run("non-admins cannot mark for others", func(t *testing.T) {
		f := newFixture(t)
		req := near
		req.EmployeeID = &f.kochiEmp.ID
		_, err := f.svc.MarkFullDay(as(f.manager), req)
		assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
	})

	t.Run("admin on behalf without gps", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.MarkFullDay(as(f.admin), attendance.FullDayRequest{EmployeeID: &f.kochiEmp.ID})
		require.NoError(t, err)
		assert.Equal(t, f.kochiEmp.ID, resp.Attendance.EmployeeID)
		assert.Equal(t, 4, resp.Processed)
	})

	t.Run("leave day is not overwritten", func(t *testing.T) {
		f := newFixture(t)
		repo := f.store.Attendance()
		ctx := as(f.admin)

		agg, err := repo.FindOrCreate(ctx, f.merkatoEmp.ID, f.merkatoEmp.UserID, f.now)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, agg.ID, attendance.StatusPermission))
		for _, typ := range attendance.ShiftTypes {
			_, err := repo.InsertDetail(ctx, attendance.Detail{
				AttendanceID: agg.ID,
				Type:         typ,
				Status:       attendance.StatusPermission,
				Timestamp:    f.now,
			})
			require.NoError(t, err)
		}

		_, err = f.svc.MarkFullDay(as(f.worker), near)
		assert.ErrorIs(t, err, attendance.ErrDayOnLeave)

		_, err = f.svc.MarkFullDay(as(f.admin), attendance.FullDayRequest{EmployeeID: &f.merkatoEmp.ID})
		assert.ErrorIs(t, err, attendance.ErrDayOnLeave)

		got, err := repo.GetByID(ctx, agg.ID)
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusPermission, got.Status)
		require.Len(t, got.Details, 4)
		for _, d := range got.Details {
			assert.Equal(t, attendance.StatusPermission, d.Status, d.Type)
		}
	})

	t.Run("fails when a shift cannot be written", func(t *testing.T) {
		f := newFixture(t)
		f.store.DetailHook = func(d attendance.Detail) error {
			if d.Type == attendance.AfternoonCheckIn {
				return errors.New("write failed")
			}
			return nil
		}

		_, err := f.svc.MarkFullDay(as(f.worker), near)
		assert.ErrorIs(t, err, attendance.ErrFullDayIncomplete)
		assert.ErrorContains(t, err, "only 3 were processed")
	})
}
