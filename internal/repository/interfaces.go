package repository

import (
	"context"

	"github.com/alexanderramin/workplan/internal/domain"
)

type OrgRepo interface {
	Create(ctx context.Context, o *domain.OrgUnit) error
	GetByID(ctx context.Context, id string) (*domain.OrgUnit, error)
	// GetParent returns nil without error for the root.
	GetParent(ctx context.Context, id string) (*domain.OrgUnit, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.OrgUnit, error)
	List(ctx context.Context) ([]*domain.OrgUnit, error)
}

type OperationRepo interface {
	Create(ctx context.Context, op *domain.Operation) error
	GetByID(ctx context.Context, id string) (*domain.Operation, error)
	List(ctx context.Context) ([]*domain.Operation, error)
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	// GetByID loads the plan with its expenses, chain snapshot and decisions.
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	ListByOperation(ctx context.Context, operationID string) ([]*domain.Plan, error)
	// UpdateState persists status, level and timestamps if the stored
	// revision still equals p.Revision, then bumps p.Revision. A stale
	// revision fails with domain.ErrConflict.
	UpdateState(ctx context.Context, p *domain.Plan) error
	ReplaceChain(ctx context.Context, planID string, chain []domain.ChainEntry) error
}

type ExpenseRepo interface {
	Create(ctx context.Context, e *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	Update(ctx context.Context, e *domain.Expense) error
	Delete(ctx context.Context, id string) error
	ListByPlan(ctx context.Context, planID string) ([]*domain.Expense, error)
}

type DecisionRepo interface {
	Append(ctx context.Context, d *domain.ApprovalDecision) error
	ListByPlan(ctx context.Context, planID string) ([]domain.ApprovalDecision, error)
}
