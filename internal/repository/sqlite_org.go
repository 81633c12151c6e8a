package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
)

// SQLiteOrgRepo implements OrgRepo using a SQLite database.
type SQLiteOrgRepo struct {
	db db.DBTX
}

// NewSQLiteOrgRepo creates a new SQLiteOrgRepo.
func NewSQLiteOrgRepo(conn db.DBTX) *SQLiteOrgRepo {
	return &SQLiteOrgRepo{db: conn}
}

const orgColumns = `id, designation, abbreviation, kind, parent_id, budget_code, created_at`

func (r *SQLiteOrgRepo) Create(ctx context.Context, o *domain.OrgUnit) error {
	query := `INSERT INTO org_units (` + orgColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.Designation,
		o.Abbreviation,
		string(o.Kind),
		nullableStringToValue(o.ParentID),
		o.BudgetCode,
		formatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting org unit %s: %w", o.ID, err)
	}
	return nil
}

func (r *SQLiteOrgRepo) GetByID(ctx context.Context, id string) (*domain.OrgUnit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM org_units WHERE id = ?`, id)
	o, err := scanOrg(row)
	if err != nil {
		return nil, notFoundOr(err, "org_unit", id, "scanning org unit")
	}
	return o, nil
}

func (r *SQLiteOrgRepo) GetParent(ctx context.Context, id string) (*domain.OrgUnit, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.IsRoot() {
		return nil, nil
	}
	parent, err := r.GetByID(ctx, *o.ParentID)
	if err != nil {
		return nil, fmt.Errorf("loading parent of %s: %w", id, err)
	}
	return parent, nil
}

func (r *SQLiteOrgRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.OrgUnit, error) {
	return r.list(ctx, `SELECT `+orgColumns+` FROM org_units WHERE parent_id = ? ORDER BY abbreviation, id`, parentID)
}

func (r *SQLiteOrgRepo) List(ctx context.Context) ([]*domain.OrgUnit, error) {
	return r.list(ctx, `SELECT `+orgColumns+` FROM org_units ORDER BY abbreviation, id`)
}

func (r *SQLiteOrgRepo) list(ctx context.Context, query string, args ...any) ([]*domain.OrgUnit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing org units: %w", err)
	}
	defer rows.Close()

	var units []*domain.OrgUnit
	for rows.Next() {
		o, err := scanOrg(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning org unit row: %w", err)
		}
		units = append(units, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating org units: %w", err)
	}
	return units, nil
}

func scanOrg(s scanner) (*domain.OrgUnit, error) {
	var o domain.OrgUnit
	var kind, createdAt string
	var parentID sql.NullString
	if err := s.Scan(&o.ID, &o.Designation, &o.Abbreviation, &kind, &parentID, &o.BudgetCode, &createdAt); err != nil {
		return nil, err
	}
	o.Kind = domain.OrgKind(kind)
	o.ParentID = nullStringToPtr(parentID)
	var err error
	if o.CreatedAt, err = parseTime("created_at", createdAt, time.RFC3339); err != nil {
		return nil, err
	}
	return &o, nil
}
