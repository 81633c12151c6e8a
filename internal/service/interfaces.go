package service

import (
	"context"
	"encoding/json"

	"github.com/alexanderramin/workplan/internal/budget"
	"github.com/alexanderramin/workplan/internal/calc"
	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/importer"
)

type OrgService interface {
	GetByID(ctx context.Context, id string) (*domain.OrgUnit, error)
	List(ctx context.Context) ([]*domain.OrgUnit, error)
	// Chain resolves the approval chain that a plan owned by orgID would follow.
	Chain(ctx context.Context, orgID string) ([]domain.ChainEntry, error)
	// Tree returns rootID and every unit below it, breadth first. An unknown
	// rootID fails with domain.ErrNotFound.
	Tree(ctx context.Context, rootID string) ([]*domain.OrgUnit, error)
}

type OperationService interface {
	GetByID(ctx context.Context, id string) (*domain.Operation, error)
	List(ctx context.Context) ([]*domain.Operation, error)
}

// CreatePlanRequest opens a new draft plan.
type CreatePlanRequest struct {
	OperationID string
	OrgID       string
	Title       string
	CreatedBy   string
}

// ExpenseRequest describes one expense line. Empty share lists default to
// the plan's org and the class's default nature split.
type ExpenseRequest struct {
	PlanID       string
	Class        domain.ExpenseClass
	Type         string
	Params       json.RawMessage
	OrgShares    []domain.Share
	NatureShares []domain.Share
}

type PlanService interface {
	Create(ctx context.Context, req CreatePlanRequest) (*domain.Plan, error)
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	ListByOperation(ctx context.Context, operationID string) ([]*domain.Plan, error)
	AddExpense(ctx context.Context, req ExpenseRequest) (*domain.Expense, error)
	ReplaceExpense(ctx context.Context, expenseID string, req ExpenseRequest) (*domain.Expense, error)
	RemoveExpense(ctx context.Context, expenseID string) error
	// Quote prices a payload without storing it. When operationID is set,
	// class I payloads take headcount and duration from the operation.
	Quote(ctx context.Context, operationID string, class domain.ExpenseClass, raw json.RawMessage) (calc.Result, error)
}

// DecideRequest records one decision. ExpectedLevel, when non-zero, must
// match the plan's current level or the call fails with domain.ErrConflict.
type DecideRequest struct {
	PlanID        string
	Actor         domain.Actor
	Action        domain.DecisionAction
	Reason        string
	ExpectedLevel int
}

// DecideResult is the plan after the decision together with the decision itself.
type DecideResult struct {
	Plan     *domain.Plan
	Decision domain.ApprovalDecision
}

type WorkflowService interface {
	Submit(ctx context.Context, planID, submittedBy string) (*domain.Plan, error)
	Decide(ctx context.Context, req DecideRequest) (*DecideResult, error)
	History(ctx context.Context, planID string) ([]domain.ApprovalDecision, error)
	Chain(ctx context.Context, planID string) ([]domain.ChainEntry, error)
	Revise(ctx context.Context, planID, revisedBy string) (*domain.Plan, error)
}

// OrgBudget is the ceiling status of one participant of an operation.
type OrgBudget struct {
	OrgID  string
	Status budget.Status
}

type BudgetService interface {
	CheckOrg(ctx context.Context, operationID, orgID string) (budget.Status, error)
	CheckOperation(ctx context.Context, operationID string) ([]OrgBudget, error)
}

// ImportResult holds the outcome of a provisioning import.
type ImportResult struct {
	OrgUnitCount   int
	OperationCount int
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	Import(ctx context.Context, file *importer.ProvisioningFile) (*ImportResult, error)
}
