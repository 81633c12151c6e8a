package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedOrgs inserts units in order, parents first.
func SeedOrgs(t *testing.T, conn db.DBTX, units ...*domain.OrgUnit) {
	t.Helper()
	for _, o := range units {
		_, err := conn.ExecContext(context.Background(),
			`INSERT INTO org_units (id, designation, abbreviation, kind, parent_id, budget_code, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.Designation, o.Abbreviation, string(o.Kind), parentValue(o), o.BudgetCode,
			o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
		if err != nil {
			t.Fatalf("seeding org %s: %v", o.ID, err)
		}
	}
}

func parentValue(o *domain.OrgUnit) any {
	if o.IsRoot() {
		return nil
	}
	return *o.ParentID
}
