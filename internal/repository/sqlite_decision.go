package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
)

// SQLiteDecisionRepo implements DecisionRepo. The table rejects updates and
// deletes through triggers, so the trail can only grow.
type SQLiteDecisionRepo struct {
	db db.DBTX
}

// NewSQLiteDecisionRepo creates a new SQLiteDecisionRepo.
func NewSQLiteDecisionRepo(conn db.DBTX) *SQLiteDecisionRepo {
	return &SQLiteDecisionRepo{db: conn}
}

const decisionColumns = `id, plan_id, level, org_id, actor_id, action, reason, decided_at`

func (r *SQLiteDecisionRepo) Append(ctx context.Context, d *domain.ApprovalDecision) error {
	query := `INSERT INTO approval_decisions (` + decisionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.PlanID,
		d.Level,
		d.OrgID,
		d.ActorID,
		string(d.Action),
		d.Reason,
		d.DecidedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("appending decision for plan %s level %d: %w", d.PlanID, d.Level, err)
	}
	return nil
}

func (r *SQLiteDecisionRepo) ListByPlan(ctx context.Context, planID string) ([]domain.ApprovalDecision, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+decisionColumns+` FROM approval_decisions WHERE plan_id = ? ORDER BY level, decided_at`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing decisions of %s: %w", planID, err)
	}
	defer rows.Close()

	var out []domain.ApprovalDecision
	for rows.Next() {
		var d domain.ApprovalDecision
		var action, decidedAt string
		if err := rows.Scan(&d.ID, &d.PlanID, &d.Level, &d.OrgID, &d.ActorID, &action, &d.Reason, &decidedAt); err != nil {
			return nil, fmt.Errorf("scanning decision row: %w", err)
		}
		d.Action = domain.DecisionAction(action)
		if d.DecidedAt, err = parseTime("decided_at", decidedAt, time.RFC3339Nano); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating decisions: %w", err)
	}
	return out, nil
}
