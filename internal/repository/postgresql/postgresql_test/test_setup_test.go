package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL and recreates the schema. Tests
// are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	schema, err := os.ReadFile("testdata/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err, "failed to apply schema")

	return db
}

func insertID(t *testing.T, db *database.DB, query string, args ...any) string {
	t.Helper()
	var id string
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&id))
	return id
}

func createUser(t *testing.T, db *database.DB, email string) string {
	return insertID(t, db, `INSERT INTO users (email) VALUES ($1) RETURNING id`, email)
}

func createOffice(t *testing.T, db *database.DB, name string, parentID *string) string {
	return insertID(t, db, `
		INSERT INTO offices (name, latitude, longitude, parent_id)
		VALUES ($1, 7.6738, 36.8344, $2) RETURNING id
	`, name, parentID)
}

func createEmployee(t *testing.T, db *database.DB, first, last string, userID, officeID *string) string {
	return insertID(t, db, `
		INSERT INTO employees (first_name, last_name, user_id, office_id, hire_date)
		VALUES ($1, $2, $3, $4, DATE '2020-01-01') RETURNING id
	`, first, last, userID, officeID)
}

// grantRole creates role with the given permissions and assigns it to userID.
func grantRole(t *testing.T, db *database.DB, userID, role string, perms ...string) {
	t.Helper()
	ctx := context.Background()
	roleID := insertID(t, db, `INSERT INTO roles (name) VALUES ($1) RETURNING id`, role)
	_, err := db.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID)
	require.NoError(t, err)
	for _, p := range perms {
		permID := insertID(t, db, `
			INSERT INTO permissions (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, p)
		_, err := db.Exec(ctx, `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`, roleID, permID)
		require.NoError(t, err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
