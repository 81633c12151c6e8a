package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
)

// SQLiteOperationRepo implements OperationRepo using a SQLite database.
type SQLiteOperationRepo struct {
	db db.DBTX
}

// NewSQLiteOperationRepo creates a new SQLiteOperationRepo.
func NewSQLiteOperationRepo(conn db.DBTX) *SQLiteOperationRepo {
	return &SQLiteOperationRepo{db: conn}
}

const operationColumns = `id, owner_org_id, name, start_date, end_date, headcount, created_at`

// Create inserts the operation and its participants. Callers wanting
// atomicity pass a transaction-scoped DBTX.
func (r *SQLiteOperationRepo) Create(ctx context.Context, op *domain.Operation) error {
	query := `INSERT INTO operations (` + operationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		op.ID,
		op.OwnerOrgID,
		op.Name,
		op.StartDate.Format(dateLayout),
		op.EndDate.Format(dateLayout),
		op.Headcount,
		formatTime(op.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting operation %s: %w", op.ID, err)
	}

	for _, p := range op.Participants {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO operation_participants (operation_id, org_id, ceiling) VALUES (?, ?, ?)`,
			op.ID, p.OrgID, p.Ceiling.String())
		if err != nil {
			return fmt.Errorf("inserting participant %s of operation %s: %w", p.OrgID, op.ID, err)
		}
	}
	return nil
}

func (r *SQLiteOperationRepo) GetByID(ctx context.Context, id string) (*domain.Operation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+operationColumns+` FROM operations WHERE id = ?`, id)
	op, err := scanOperation(row)
	if err != nil {
		return nil, notFoundOr(err, "operation", id, "scanning operation")
	}
	if op.Participants, err = r.participants(ctx, id); err != nil {
		return nil, err
	}
	return op, nil
}

func (r *SQLiteOperationRepo) List(ctx context.Context) ([]*domain.Operation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+operationColumns+` FROM operations ORDER BY start_date, name`)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	var ops []*domain.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning operation row: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating operations: %w", err)
	}
	// Close before issuing follow-up queries; :memory: runs on one connection.
	rows.Close()

	for _, op := range ops {
		if op.Participants, err = r.participants(ctx, op.ID); err != nil {
			return nil, err
		}
	}
	return ops, nil
}

func (r *SQLiteOperationRepo) participants(ctx context.Context, operationID string) ([]domain.ParticipatingOrg, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT org_id, ceiling FROM operation_participants WHERE operation_id = ? ORDER BY org_id`, operationID)
	if err != nil {
		return nil, fmt.Errorf("listing participants of %s: %w", operationID, err)
	}
	defer rows.Close()

	var out []domain.ParticipatingOrg
	for rows.Next() {
		var p domain.ParticipatingOrg
		var ceiling string
		if err := rows.Scan(&p.OrgID, &ceiling); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		if p.Ceiling, err = decimal.NewFromString(ceiling); err != nil {
			return nil, fmt.Errorf("parsing ceiling of %s: %w", p.OrgID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanOperation(s scanner) (*domain.Operation, error) {
	var op domain.Operation
	var start, end, createdAt string
	if err := s.Scan(&op.ID, &op.OwnerOrgID, &op.Name, &start, &end, &op.Headcount, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if op.StartDate, err = parseTime("start_date", start, dateLayout); err != nil {
		return nil, err
	}
	if op.EndDate, err = parseTime("end_date", end, dateLayout); err != nil {
		return nil, err
	}
	if op.CreatedAt, err = parseTime("created_at", createdAt, time.RFC3339); err != nil {
		return nil, err
	}
	return &op, nil
}
