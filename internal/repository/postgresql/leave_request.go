package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/leave"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT lr.id, lr.employee_id, lr.start_date, lr.end_date, lr.days_of_leave, lr.leave_type,
		lr.status, lr.approved_by, lr.attachment_url, lr.created_at, lr.updated_at,
		concat_ws(' ', e.first_name, e.middle_name, e.last_name), e.office_id, o.name
	FROM leave_requests lr
	JOIN employees e ON e.id = lr.employee_id
	LEFT JOIN offices o ON o.id = e.office_id AND o.deleted_at IS NULL
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.StartDate, &l.EndDate, &l.DaysOfLeave, &l.LeaveType,
		&l.Status, &l.ApprovedBy, &l.AttachmentURL, &l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeName, &l.OfficeID, &l.OfficeName,
	)
	return l, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, days_of_leave, leave_type, status, attachment_url, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id
	`, req.EmployeeID, req.StartDate, req.EndDate, req.DaysOfLeave, req.LeaveType, req.Status, req.AttachmentURL).Scan(&id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+` WHERE lr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return l, nil
}

func (r *leaveRequestRepositoryImpl) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, leaveRequestSelect+`
		WHERE lr.employee_id = $1
			AND lr.status IN ($2, $3)
			AND lr.start_date <= $5
			AND lr.end_date >= $4
	`, employeeID, leave.StatusPending, leave.StatusApproved, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping leave requests: %w", err)
	}
	defer rows.Close()

	var out []leave.LeaveRequest
	for rows.Next() {
		l, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status, decidedBy string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_requests SET status = $2, approved_by = $3, updated_at = NOW()
		WHERE id = $1
	`, id, status, decidedBy)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere()
	if filter.EmployeeID != nil {
		where.add("lr.employee_id = %s", *filter.EmployeeID)
	}
	if filter.State != nil {
		where.add("lr.status = %s", *filter.State)
	}
	if filter.OfficeIDs != nil {
		where.add("e.office_id::text = ANY(%s)", filter.OfficeIDs)
	}

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE ` + where.String()
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY lr.created_at DESC LIMIT %s OFFSET %s`,
		leaveRequestSelect, where, where.arg(filter.Limit), where.arg(filter.Offset()))
	rows, err := q.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		l, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, l)
	}
	return requests, total, rows.Err()
}
