package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/budget"
	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/repository"
)

type budgetService struct {
	operations repository.OperationRepo
	plans      repository.PlanRepo
}

func NewBudgetService(operations repository.OperationRepo, plans repository.PlanRepo) BudgetService {
	return &budgetService{operations: operations, plans: plans}
}

func (s *budgetService) CheckOrg(ctx context.Context, operationID, orgID string) (budget.Status, error) {
	op, err := s.operations.GetByID(ctx, operationID)
	if err != nil {
		return budget.Status{}, err
	}
	ceiling, ok := op.Ceiling(orgID)
	if !ok {
		return budget.Status{}, notParticipating(op, orgID)
	}
	plans, err := s.plans.ListByOperation(ctx, operationID)
	if err != nil {
		return budget.Status{}, err
	}
	return budget.CheckLimit(ceiling, utilized(plans, orgID)), nil
}

func (s *budgetService) CheckOperation(ctx context.Context, operationID string) ([]OrgBudget, error) {
	op, err := s.operations.GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.ListByOperation(ctx, operationID)
	if err != nil {
		return nil, err
	}
	out := make([]OrgBudget, 0, len(op.Participants))
	for _, p := range op.Participants {
		out = append(out, OrgBudget{OrgID: p.OrgID, Status: budget.CheckLimit(p.Ceiling, utilized(plans, p.OrgID))})
	}
	return out, nil
}

// utilized sums the share of orgID across every live plan. Rejected versions
// are excluded since their lines survive in the revision that replaced them.
func utilized(plans []*domain.Plan, orgID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range plans {
		if p.Status == domain.PlanRejected {
			continue
		}
		for _, e := range p.Expenses {
			total = total.Add(e.AmountFor(orgID))
		}
	}
	return total
}

func notParticipating(op *domain.Operation, orgID string) error {
	return domain.NewFieldError(domain.ErrNotFound, "participant",
		fmt.Sprintf("org unit %q does not participate in operation %q", orgID, op.Name))
}
