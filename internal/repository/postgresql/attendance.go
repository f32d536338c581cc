package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.user_id, a.date, a.status, a.created_at, a.updated_at,
		concat_ws(' ', e.first_name, e.middle_name, e.last_name), e.office_id, o.name
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id AND e.deleted_at IS NULL
	LEFT JOIN offices o ON o.id = e.office_id AND o.deleted_at IS NULL
`

const detailColumns = `id, attendance_id, type, status, recorded_at, latitude, longitude, device_id, distance_from_office, created_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.UserID, &a.Date, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.OfficeID, &a.OfficeName,
	)
	return a, err
}

func scanDetail(row pgx.Row) (attendance.Detail, error) {
	var d attendance.Detail
	err := row.Scan(
		&d.ID, &d.AttendanceID, &d.Type, &d.Status, &d.Timestamp,
		&d.Latitude, &d.Longitude, &d.DeviceID, &d.DistanceFromOffice, &d.CreatedAt,
	)
	return d, err
}

// FindOrCreate locks the day's row with FOR UPDATE. Inside a transaction,
// concurrent writers for the same employee and day queue behind it, so the
// detail set each one reads afterwards includes the other's commit.
func (r *attendanceRepository) FindOrCreate(ctx context.Context, employeeID string, userID *string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	date = attendance.DayOf(date)

	_, err := q.Exec(ctx, `
		INSERT INTO attendances (id, employee_id, user_id, date, status, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (employee_id, date) DO NOTHING
	`, employeeID, userID, date, attendance.StatusAbsent)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	var a attendance.Attendance
	err = q.QueryRow(ctx, `
		SELECT id, employee_id, user_id, date, status, created_at, updated_at
		FROM attendances WHERE employee_id = $1 AND date = $2
		FOR UPDATE
	`, employeeID, date).Scan(&a.ID, &a.EmployeeID, &a.UserID, &a.Date, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	items := []attendance.Attendance{a}
	if err := r.loadDetails(ctx, items, nil); err != nil {
		return attendance.Attendance{}, err
	}
	return items[0], nil
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE attendances SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update attendance status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Delete removes the aggregate. Details go with it through ON DELETE CASCADE.
func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepository) InsertDetail(ctx context.Context, d attendance.Detail) (attendance.Detail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_details (` + detailColumns + `)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (attendance_id, type) DO NOTHING
		RETURNING ` + detailColumns
	saved, err := scanDetail(q.QueryRow(ctx, query,
		d.AttendanceID, d.Type, d.Status, d.Timestamp, d.Latitude, d.Longitude, d.DeviceID, d.DistanceFromOffice))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Detail{}, attendance.ErrShiftAlreadyRecorded
		}
		return attendance.Detail{}, fmt.Errorf("failed to insert attendance detail: %w", err)
	}
	return saved, nil
}

func (r *attendanceRepository) UpsertDetail(ctx context.Context, d attendance.Detail) (attendance.Detail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_details (` + detailColumns + `)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (attendance_id, type) DO UPDATE SET
			status = EXCLUDED.status,
			recorded_at = EXCLUDED.recorded_at,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			device_id = EXCLUDED.device_id,
			distance_from_office = EXCLUDED.distance_from_office
		RETURNING ` + detailColumns
	saved, err := scanDetail(q.QueryRow(ctx, query,
		d.AttendanceID, d.Type, d.Status, d.Timestamp, d.Latitude, d.Longitude, d.DeviceID, d.DistanceFromOffice))
	if err != nil {
		return attendance.Detail{}, fmt.Errorf("failed to upsert attendance detail: %w", err)
	}
	return saved, nil
}

func (r *attendanceRepository) ListDetailTypes(ctx context.Context, attendanceID string) ([]attendance.ShiftType, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT type FROM attendance_details WHERE attendance_id = $1`, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance details: %w", err)
	}
	types, err := pgx.CollectRows(rows, pgx.RowTo[attendance.ShiftType])
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance details: %w", err)
	}
	return types, nil
}

// scopeWhere applies the employee and office restrictions shared by List and
// ListShiftRecords.
func scopeWhere(where *whereClause, employeeID *string, officeIDs []string, from, to *time.Time) {
	if employeeID != nil {
		where.add("a.employee_id = %s", *employeeID)
	}
	if officeIDs != nil {
		where.add("e.office_id::text = ANY(%s)", officeIDs)
	}
	if from != nil {
		where.add("a.date >= %s", *from)
	}
	if to != nil {
		where.add("a.date <= %s", *to)
	}
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere()
	scopeWhere(where, filter.EmployeeID, filter.OfficeIDs, filter.From, filter.To)
	if filter.EmployeeIDs != nil {
		where.add("a.employee_id::text = ANY(%s)", filter.EmployeeIDs)
	}
	if filter.State != nil {
		where.add("a.status = %s", *filter.State)
		if *filter.State == attendance.StatusAbsent {
			// A started day keeps the ABSENT placeholder until promoted.
			where.addRaw("NOT EXISTS (SELECT 1 FROM attendance_details d WHERE d.attendance_id = a.id)")
		}
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		where.add(employeeNameMatch, "%"+*filter.EmployeeName+"%")
	}

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM attendances a
		JOIN employees e ON e.id = a.employee_id AND e.deleted_at IS NULL
		WHERE ` + where.String()
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.date DESC, a.created_at DESC LIMIT %s OFFSET %s`,
		attendanceSelect, where, where.arg(filter.Limit), where.arg(filter.Offset()))
	rows, err := q.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var items []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadDetails(ctx, items, filter.Shift); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// loadDetails fills Details of every item in one query, optionally keeping a
// single shift type.
func (r *attendanceRepository) loadDetails(ctx context.Context, items []attendance.Attendance, shift *attendance.ShiftType) error {
	if len(items) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(items))
	for i, a := range items {
		ids[i] = a.ID
		items[i].Details = []attendance.Detail{}
	}

	where := newWhere()
	where.add("attendance_id::text = ANY(%s)", ids)
	if shift != nil {
		where.add("type = %s", *shift)
	}

	rows, err := q.Query(ctx, `SELECT `+detailColumns+` FROM attendance_details WHERE `+where.String()+` ORDER BY recorded_at`, where.args...)
	if err != nil {
		return fmt.Errorf("failed to query attendance details: %w", err)
	}
	defer rows.Close()

	byAttendance := make(map[string][]attendance.Detail, len(items))
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return fmt.Errorf("failed to scan attendance detail: %w", err)
		}
		byAttendance[d.AttendanceID] = append(byAttendance[d.AttendanceID], d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		if details, ok := byAttendance[items[i].ID]; ok {
			items[i].Details = details
		}
	}
	return nil
}

func (r *attendanceRepository) ListShiftRecords(ctx context.Context, filter attendance.ShiftRecordFilter) ([]attendance.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere()
	scopeWhere(where, filter.EmployeeID, filter.OfficeIDs, &filter.From, &filter.To)

	rows, err := q.Query(ctx, `
		SELECT a.id, a.employee_id, a.date, d.type, d.status, d.recorded_at
		FROM attendance_details d
		JOIN attendances a ON a.id = d.attendance_id
		JOIN employees e ON e.id = a.employee_id AND e.deleted_at IS NULL
		WHERE `+where.String()+`
		ORDER BY a.date, d.recorded_at
	`, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift records: %w", err)
	}
	defer rows.Close()

	var records []attendance.ShiftRecord
	for rows.Next() {
		var rec attendance.ShiftRecord
		if err := rows.Scan(&rec.AttendanceID, &rec.EmployeeID, &rec.Date, &rec.Type, &rec.Status, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan shift record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
