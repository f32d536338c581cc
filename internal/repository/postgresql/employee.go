package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/employee"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.user_id, e.office_id, e.first_name, e.middle_name, e.last_name,
		e.gender, e.hire_date, e.device_hash, e.created_at, e.updated_at, e.deleted_at,
		o.name
	FROM employees e
	LEFT JOIN offices o ON o.id = e.office_id AND o.deleted_at IS NULL
`

// employeeNameMatch expects the search pattern as its only placeholder.
const employeeNameMatch = `(e.first_name ILIKE %[1]s OR e.middle_name ILIKE %[1]s OR e.last_name ILIKE %[1]s
	OR concat_ws(' ', e.first_name, e.middle_name, e.last_name) ILIKE %[1]s)`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var gender *string
	err := row.Scan(
		&e.ID, &e.UserID, &e.OfficeID, &e.FirstName, &e.MiddleName, &e.LastName,
		&gender, &e.HireDate, &e.DeviceHash, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		&e.OfficeName,
	)
	if gender != nil {
		e.Gender = employee.Gender(*gender)
	}
	return e, err
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, cond string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.deleted_at IS NULL AND `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "e.id = $1", id)
}

func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.getOne(ctx, "e.user_id = $1", userID)
}

func (r *employeeRepositoryImpl) FilterExisting(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id::text FROM employees
		WHERE id::text = ANY($1) AND deleted_at IS NULL
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}

	// keep the caller's order
	exists := make(map[string]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	var existing []string
	for _, id := range ids {
		if exists[id] {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

func (r *employeeRepositoryImpl) LockForUpdate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var locked string
	err := q.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to lock employee: %w", err)
	}
	return nil
}

func (r *employeeRepositoryImpl) BindDevice(ctx context.Context, id string, hash string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE employees SET device_hash = $2, updated_at = NOW()
		WHERE id = $1 AND device_hash IS NULL AND deleted_at IS NULL
	`, id, hash)
	if err != nil {
		return false, fmt.Errorf("failed to bind device: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere("e.deleted_at IS NULL")
	if filter.OfficeIDs != nil {
		where.add("e.office_id::text = ANY(%s)", filter.OfficeIDs)
	}
	if filter.Search != nil && *filter.Search != "" {
		where.add(employeeNameMatch, "%"+*filter.Search+"%")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM employees e WHERE ` + where.String()
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY e.first_name, e.last_name LIMIT %s OFFSET %s`,
		employeeSelect, where, where.arg(filter.Limit), where.arg(filter.Offset()))
	rows, err := q.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

func (r *employeeRepositoryImpl) ListWithoutAttendance(ctx context.Context, date time.Time) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+`
		WHERE e.deleted_at IS NULL
			AND (e.hire_date IS NULL OR e.hire_date <= $1)
			AND NOT EXISTS (
				SELECT 1 FROM attendances a WHERE a.employee_id = e.id AND a.date = $1
			)
		ORDER BY e.id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees without attendance: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
