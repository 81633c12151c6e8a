package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
)

// SQLiteExpenseRepo implements ExpenseRepo using a SQLite database.
// Shares live in expense_shares, one row per dimension and key.
type SQLiteExpenseRepo struct {
	db db.DBTX
}

// NewSQLiteExpenseRepo creates a new SQLiteExpenseRepo.
func NewSQLiteExpenseRepo(conn db.DBTX) *SQLiteExpenseRepo {
	return &SQLiteExpenseRepo{db: conn}
}

const expenseColumns = `id, plan_id, class, type, params, total, quantity, quantity_unit, trace, created_at, updated_at`

func (r *SQLiteExpenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	query := `INSERT INTO expenses (` + expenseColumns + `, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM expenses WHERE plan_id = ?))`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.PlanID,
		string(e.Class),
		e.Type,
		paramsToValue(e.Params),
		e.Total.String(),
		nullableDecimalToValue(e.Quantity),
		e.QuantityUnit,
		e.Trace,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
		e.PlanID,
	)
	if err != nil {
		return fmt.Errorf("inserting expense %s: %w", e.ID, err)
	}
	return r.insertShares(ctx, e)
}

func (r *SQLiteExpenseRepo) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return nil, notFoundOr(err, "expense", id, "scanning expense")
	}
	if err := r.loadShares(ctx, []*domain.Expense{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// Update rewrites the calculated fields and replaces both share sets.
func (r *SQLiteExpenseRepo) Update(ctx context.Context, e *domain.Expense) error {
	query := `UPDATE expenses SET class = ?, type = ?, params = ?, total = ?, quantity = ?,
		quantity_unit = ?, trace = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(e.Class),
		e.Type,
		paramsToValue(e.Params),
		e.Total.String(),
		nullableDecimalToValue(e.Quantity),
		e.QuantityUnit,
		e.Trace,
		formatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("expense", e.ID)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_id = ?`, e.ID); err != nil {
		return fmt.Errorf("clearing shares of %s: %w", e.ID, err)
	}
	return r.insertShares(ctx, e)
}

func (r *SQLiteExpenseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting expense %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("expense", id)
	}
	return nil
}

func (r *SQLiteExpenseRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE plan_id = ? ORDER BY position, created_at`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses of %s: %w", planID, err)
	}
	var out []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning expense row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}
	rows.Close()

	if err := r.loadShares(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteExpenseRepo) insertShares(ctx context.Context, e *domain.Expense) error {
	sets := []struct {
		dim    domain.ShareDimension
		shares []domain.Share
	}{
		{domain.DimensionOrg, e.OrgShares},
		{domain.DimensionNature, e.NatureShares},
	}
	for _, set := range sets {
		for i, s := range set.shares {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO expense_shares (expense_id, dimension, key, percentage, position) VALUES (?, ?, ?, ?, ?)`,
				e.ID, string(set.dim), s.Key, s.Percentage.String(), i)
			if err != nil {
				return fmt.Errorf("inserting %s share %s of expense %s: %w", set.dim, s.Key, e.ID, err)
			}
		}
	}
	return nil
}

func (r *SQLiteExpenseRepo) loadShares(ctx context.Context, expenses []*domain.Expense) error {
	for _, e := range expenses {
		rows, err := r.db.QueryContext(ctx,
			`SELECT dimension, key, percentage FROM expense_shares WHERE expense_id = ? ORDER BY dimension, position`, e.ID)
		if err != nil {
			return fmt.Errorf("loading shares of %s: %w", e.ID, err)
		}
		for rows.Next() {
			var dim, key, pct string
			if err := rows.Scan(&dim, &key, &pct); err != nil {
				rows.Close()
				return fmt.Errorf("scanning share of %s: %w", e.ID, err)
			}
			p, err := decimal.NewFromString(pct)
			if err != nil {
				rows.Close()
				return fmt.Errorf("parsing share %s of %s: %w", key, e.ID, err)
			}
			s := domain.Share{Key: key, Percentage: p}
			if domain.ShareDimension(dim) == domain.DimensionNature {
				e.NatureShares = append(e.NatureShares, s)
			} else {
				e.OrgShares = append(e.OrgShares, s)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("iterating shares of %s: %w", e.ID, err)
		}
	}
	return nil
}

func paramsToValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func scanExpense(s scanner) (*domain.Expense, error) {
	var e domain.Expense
	var class, params, total, createdAt, updatedAt string
	var quantity sql.NullString
	if err := s.Scan(&e.ID, &e.PlanID, &class, &e.Type, &params, &total, &quantity,
		&e.QuantityUnit, &e.Trace, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.Class = domain.ExpenseClass(class)
	e.Params = json.RawMessage(params)

	var err error
	if e.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parsing total: %w", err)
	}
	if quantity.Valid {
		q, err := decimal.NewFromString(quantity.String)
		if err != nil {
			return nil, fmt.Errorf("parsing quantity: %w", err)
		}
		e.Quantity = &q
	}
	if e.CreatedAt, err = parseTime("created_at", createdAt, time.RFC3339); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt, time.RFC3339); err != nil {
		return nil, err
	}
	return &e, nil
}
