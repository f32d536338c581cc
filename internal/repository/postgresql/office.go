package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
)

type officeRepositoryImpl struct {
	db *database.DB
}

func NewOfficeRepository(db *database.DB) office.OfficeRepository {
	return &officeRepositoryImpl{db: db}
}

const officeColumns = `id, name, location, latitude, longitude, parent_id, created_at, updated_at, deleted_at`

func scanOffice(row pgx.Row) (office.Office, error) {
	var o office.Office
	err := row.Scan(&o.ID, &o.Name, &o.Location, &o.Latitude, &o.Longitude, &o.ParentID, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	return o, err
}

// GetByID implements office.OfficeRepository.
func (r *officeRepositoryImpl) GetByID(ctx context.Context, id string) (office.Office, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + officeColumns + ` FROM offices WHERE id = $1 AND deleted_at IS NULL`
	o, err := scanOffice(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Office{}, office.ErrOfficeNotFound
		}
		return office.Office{}, fmt.Errorf("failed to get office: %w", err)
	}
	return o, nil
}

// ListChildIDs implements office.OfficeRepository.
func (r *officeRepositoryImpl) ListChildIDs(ctx context.Context, parentID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id FROM offices
		WHERE parent_id = $1 AND deleted_at IS NULL
		ORDER BY created_at, id
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query child offices: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan child offices: %w", err)
	}
	return ids, nil
}

// ListByIDs implements office.OfficeRepository.
func (r *officeRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]office.Office, error) {
	if len(ids) == 0 {
		return []office.Office{}, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + officeColumns + ` FROM offices WHERE id = ANY($1) AND deleted_at IS NULL ORDER BY created_at, id`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query offices: %w", err)
	}
	defer rows.Close()

	offices := []office.Office{}
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

// List implements office.OfficeRepository.
func (r *officeRepositoryImpl) List(ctx context.Context, filter office.OfficeFilter) ([]office.Office, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere("deleted_at IS NULL")
	if filter.IDs != nil {
		where.add("id = ANY(%s)", filter.IDs)
	}
	if filter.Search != nil && *filter.Search != "" {
		where.add("name ILIKE %s", "%"+*filter.Search+"%")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM offices WHERE `+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count offices: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM offices WHERE %s ORDER BY name LIMIT %s OFFSET %s`,
		officeColumns, where, where.arg(filter.Limit), where.arg(filter.Offset()))
	rows, err := q.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query offices: %w", err)
	}
	defer rows.Close()

	var offices []office.Office
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, o)
	}
	return offices, total, rows.Err()
}
