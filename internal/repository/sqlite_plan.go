package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db        db.DBTX
	expenses  *SQLiteExpenseRepo
	decisions *SQLiteDecisionRepo
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{
		db:        conn,
		expenses:  NewSQLiteExpenseRepo(conn),
		decisions: NewSQLiteDecisionRepo(conn),
	}
}

const planColumns = `id, operation_id, org_id, title, status, current_level, version,
	previous_version_id, revision, created_by, submitted_at, completed_at, created_at, updated_at`

// Create inserts the plan row and any expenses already attached to it.
func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.OperationID,
		p.OrgID,
		p.Title,
		string(p.Status),
		nullableIntToValue(p.CurrentLevel),
		p.Version,
		nullableStringToValue(p.PreviousVersionID),
		p.Revision,
		p.CreatedBy,
		nullableTimeToString(p.SubmittedAt, time.RFC3339),
		nullableTimeToString(p.CompletedAt, time.RFC3339),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan %s: %w", p.ID, err)
	}
	for _, e := range p.Expenses {
		if err := r.expenses.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err != nil {
		return nil, notFoundOr(err, "plan", id, "scanning plan")
	}
	if err := r.hydrate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListByOperation returns every plan version of the operation, expenses included.
func (r *SQLitePlanRepo) ListByOperation(ctx context.Context, operationID string) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM plans WHERE operation_id = ? ORDER BY org_id, version`, operationID)
	if err != nil {
		return nil, fmt.Errorf("listing plans of %s: %w", operationID, err)
	}
	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	rows.Close()

	for _, p := range plans {
		if p.Expenses, err = r.expenses.ListByPlan(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (r *SQLitePlanRepo) UpdateState(ctx context.Context, p *domain.Plan) error {
	query := `UPDATE plans SET status = ?, current_level = ?, submitted_at = ?, completed_at = ?,
		updated_at = ?, revision = revision + 1
		WHERE id = ? AND revision = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(p.Status),
		nullableIntToValue(p.CurrentLevel),
		nullableTimeToString(p.SubmittedAt, time.RFC3339),
		nullableTimeToString(p.CompletedAt, time.RFC3339),
		formatTime(p.UpdatedAt),
		p.ID,
		p.Revision,
	)
	if err != nil {
		return fmt.Errorf("updating plan %s: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of plan %s: %w", p.ID, err)
	}
	if n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM plans WHERE id = ?`, p.ID).Scan(&exists)
		if err != nil {
			return notFoundOr(err, "plan", p.ID, "checking plan")
		}
		return domain.NewFieldError(domain.ErrConflict, "revision",
			fmt.Sprintf("plan %s was modified concurrently", p.ID))
	}
	p.Revision++
	return nil
}

func (r *SQLitePlanRepo) ReplaceChain(ctx context.Context, planID string, chain []domain.ChainEntry) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_chain WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("clearing chain of %s: %w", planID, err)
	}
	for _, c := range chain {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO plan_chain (plan_id, level, org_id, designation, abbreviation, kind) VALUES (?, ?, ?, ?, ?, ?)`,
			planID, c.Level, c.OrgID, c.Designation, c.Abbreviation, string(c.Kind))
		if err != nil {
			return fmt.Errorf("inserting chain level %d of %s: %w", c.Level, planID, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) hydrate(ctx context.Context, p *domain.Plan) error {
	var err error
	if p.Expenses, err = r.expenses.ListByPlan(ctx, p.ID); err != nil {
		return err
	}
	if p.Chain, err = r.chain(ctx, p.ID); err != nil {
		return err
	}
	if p.Decisions, err = r.decisions.ListByPlan(ctx, p.ID); err != nil {
		return err
	}
	return nil
}

func (r *SQLitePlanRepo) chain(ctx context.Context, planID string) ([]domain.ChainEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT level, org_id, designation, abbreviation, kind FROM plan_chain WHERE plan_id = ? ORDER BY level`, planID)
	if err != nil {
		return nil, fmt.Errorf("loading chain of %s: %w", planID, err)
	}
	defer rows.Close()

	var out []domain.ChainEntry
	for rows.Next() {
		var c domain.ChainEntry
		var kind string
		if err := rows.Scan(&c.Level, &c.OrgID, &c.Designation, &c.Abbreviation, &kind); err != nil {
			return nil, fmt.Errorf("scanning chain entry: %w", err)
		}
		c.Kind = domain.OrgKind(kind)
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanPlan(s scanner) (*domain.Plan, error) {
	var p domain.Plan
	var status, createdAt, updatedAt string
	var level sql.NullInt64
	var prev, submittedAt, completedAt sql.NullString
	if err := s.Scan(&p.ID, &p.OperationID, &p.OrgID, &p.Title, &status, &level, &p.Version,
		&prev, &p.Revision, &p.CreatedBy, &submittedAt, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Status = domain.PlanStatus(status)
	p.CurrentLevel = nullIntToPtr(level)
	p.PreviousVersionID = nullStringToPtr(prev)
	p.SubmittedAt = parseNullableTime(submittedAt, time.RFC3339)
	p.CompletedAt = parseNullableTime(completedAt, time.RFC3339)

	var err error
	if p.CreatedAt, err = parseTime("created_at", createdAt, time.RFC3339); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAt, time.RFC3339); err != nil {
		return nil, err
	}
	return &p, nil
}
