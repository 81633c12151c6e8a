package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/workplan/internal/apportion"
	"github.com/alexanderramin/workplan/internal/budget"
	"github.com/alexanderramin/workplan/internal/calc"
	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/repository"
)

type planService struct {
	plans      repository.PlanRepo
	operations repository.OperationRepo
	uow        db.UnitOfWork
	engine     *calc.Engine
	logger     zerolog.Logger
	observer   UseCaseObserver
}

func NewPlanService(
	plans repository.PlanRepo,
	operations repository.OperationRepo,
	uow db.UnitOfWork,
	engine *calc.Engine,
	logger zerolog.Logger,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		plans:      plans,
		operations: operations,
		uow:        uow,
		engine:     engine,
		logger:     logger,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Create(ctx context.Context, req CreatePlanRequest) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "plan.create", time.Now(), &err, map[string]any{"operation_id": req.OperationID, "org_id": req.OrgID})

	if strings.TrimSpace(req.OperationID) == "" {
		return nil, domain.InvalidParameter("operation_id", "operation is required")
	}
	if strings.TrimSpace(req.OrgID) == "" {
		return nil, domain.InvalidParameter("org_id", "org unit is required")
	}

	now := time.Now().UTC()
	plan = &domain.Plan{
		ID:          uuid.New().String(),
		OperationID: req.OperationID,
		OrgID:       req.OrgID,
		Title:       req.Title,
		Status:      domain.PlanDraft,
		Version:     1,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		op, err := repository.NewSQLiteOperationRepo(tx).GetByID(ctx, req.OperationID)
		if err != nil {
			return err
		}
		if _, err := repository.NewSQLiteOrgRepo(tx).GetByID(ctx, req.OrgID); err != nil {
			return err
		}
		if _, ok := op.Ceiling(req.OrgID); !ok {
			s.logger.Warn().
				Str("operation_id", op.ID).
				Str("org_id", req.OrgID).
				Msg("Plan owner has no ceiling in operation")
		}
		return repository.NewSQLitePlanRepo(tx).Create(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("plan_id", plan.ID).Str("org_id", plan.OrgID).Msg("Plan created")
	return plan, nil
}

func (s *planService) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) ListByOperation(ctx context.Context, operationID string) ([]*domain.Plan, error) {
	return s.plans.ListByOperation(ctx, operationID)
}

func (s *planService) AddExpense(ctx context.Context, req ExpenseRequest) (expense *domain.Expense, err error) {
	defer observe(ctx, s.observer, "plan.add_expense", time.Now(), &err, map[string]any{"plan_id": req.PlanID, "class": string(req.Class)})

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		plan, err := txPlans.GetByID(ctx, req.PlanID)
		if err != nil {
			return err
		}
		op, err := repository.NewSQLiteOperationRepo(tx).GetByID(ctx, plan.OperationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		expense, err = s.price(ctx, tx, plan, op, req, now)
		if err != nil {
			return err
		}
		expense.ID = uuid.New().String()
		expense.CreatedAt = now

		if err := plan.AddExpense(expense, now); err != nil {
			return err
		}
		if err := repository.NewSQLiteExpenseRepo(tx).Create(ctx, expense); err != nil {
			return err
		}
		if err := txPlans.UpdateState(ctx, plan); err != nil {
			return err
		}
		return s.warnOverCeiling(ctx, txPlans, op, plan.OrgID)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *planService) ReplaceExpense(ctx context.Context, expenseID string, req ExpenseRequest) (expense *domain.Expense, err error) {
	defer observe(ctx, s.observer, "plan.replace_expense", time.Now(), &err, map[string]any{"expense_id": expenseID})

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txExpenses := repository.NewSQLiteExpenseRepo(tx)
		txPlans := repository.NewSQLitePlanRepo(tx)

		existing, err := txExpenses.GetByID(ctx, expenseID)
		if err != nil {
			return err
		}
		plan, err := txPlans.GetByID(ctx, existing.PlanID)
		if err != nil {
			return err
		}
		op, err := repository.NewSQLiteOperationRepo(tx).GetByID(ctx, plan.OperationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		expense, err = s.price(ctx, tx, plan, op, req, now)
		if err != nil {
			return err
		}
		expense.ID = existing.ID
		expense.CreatedAt = existing.CreatedAt

		if err := plan.ReplaceExpense(expense, now); err != nil {
			return err
		}
		if err := txExpenses.Update(ctx, expense); err != nil {
			return err
		}
		if err := txPlans.UpdateState(ctx, plan); err != nil {
			return err
		}
		return s.warnOverCeiling(ctx, txPlans, op, plan.OrgID)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *planService) RemoveExpense(ctx context.Context, expenseID string) (err error) {
	defer observe(ctx, s.observer, "plan.remove_expense", time.Now(), &err, map[string]any{"expense_id": expenseID})

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txExpenses := repository.NewSQLiteExpenseRepo(tx)
		txPlans := repository.NewSQLitePlanRepo(tx)

		existing, err := txExpenses.GetByID(ctx, expenseID)
		if err != nil {
			return err
		}
		plan, err := txPlans.GetByID(ctx, existing.PlanID)
		if err != nil {
			return err
		}
		if err := plan.RemoveExpense(expenseID, time.Now().UTC()); err != nil {
			return err
		}
		if err := txExpenses.Delete(ctx, expenseID); err != nil {
			return err
		}
		return txPlans.UpdateState(ctx, plan)
	})
}

func (s *planService) Quote(ctx context.Context, operationID string, class domain.ExpenseClass, raw json.RawMessage) (calc.Result, error) {
	p, err := calc.Decode(class, raw)
	if err != nil {
		return calc.Result{}, err
	}
	if operationID != "" {
		op, err := s.operations.GetByID(ctx, operationID)
		if err != nil {
			return calc.Result{}, err
		}
		applyOperationDefaults(p, op)
	}
	return s.engine.Calculate(p)
}

// price decodes, prices and apportions a request into an unsaved expense.
func (s *planService) price(ctx context.Context, tx db.DBTX, plan *domain.Plan, op *domain.Operation, req ExpenseRequest, now time.Time) (*domain.Expense, error) {
	if plan.Status != domain.PlanDraft {
		return nil, domain.InvalidTransition(fmt.Sprintf("cannot edit expenses of a plan in status %s", plan.Status))
	}
	if !req.Class.Valid() {
		return nil, domain.NotFound("expense_class", string(req.Class))
	}
	p, err := calc.Decode(req.Class, req.Params)
	if err != nil {
		return nil, err
	}
	applyOperationDefaults(p, op)

	res, err := s.engine.Calculate(p)
	if err != nil {
		return nil, err
	}
	params, err := calc.Encode(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %s params: %w", req.Class, err)
	}

	orgShares := req.OrgShares
	if len(orgShares) == 0 {
		orgShares = apportion.Single(plan.OrgID)
	}
	if err := apportion.ValidateOrgShares(orgShares); err != nil {
		return nil, err
	}
	orgs := repository.NewSQLiteOrgRepo(tx)
	for i, share := range orgShares {
		if _, err := orgs.GetByID(ctx, share.Key); err != nil {
			return nil, domain.NewFieldError(domain.ErrNotFound, fmt.Sprintf("org_shares[%d].key", i),
				fmt.Sprintf("org unit %q not found", share.Key))
		}
	}

	natureShares := req.NatureShares
	if len(natureShares) == 0 {
		natureShares = apportion.DefaultNatureShares(req.Class)
	}
	if err := apportion.ValidateNatureShares(req.Class, natureShares); err != nil {
		return nil, err
	}

	return &domain.Expense{
		PlanID:       plan.ID,
		Class:        req.Class,
		Type:         domain.CoalesceStr(req.Type, req.Class.Label()),
		Params:       params,
		Total:        res.Total,
		Quantity:     res.Quantity,
		QuantityUnit: res.QuantityUnit,
		OrgShares:    orgShares,
		NatureShares: natureShares,
		Trace:        res.Trace,
		UpdatedAt:    now,
	}, nil
}

func (s *planService) warnOverCeiling(ctx context.Context, plans repository.PlanRepo, op *domain.Operation, orgID string) error {
	ceiling, ok := op.Ceiling(orgID)
	if !ok {
		return nil
	}
	all, err := plans.ListByOperation(ctx, op.ID)
	if err != nil {
		return err
	}
	status := budget.CheckLimit(ceiling, utilized(all, orgID))
	if !status.WithinLimit {
		s.logger.Warn().
			Str("operation_id", op.ID).
			Str("org_id", orgID).
			Str("ceiling", status.Ceiling.StringFixed(2)).
			Str("utilized", status.Utilized.StringFixed(2)).
			Str("overage", status.Overage.StringFixed(2)).
			Msg("Budget ceiling exceeded")
	}
	return nil
}

func applyOperationDefaults(p calc.Params, op *domain.Operation) {
	if sp, ok := p.(*calc.SubsistenceParams); ok {
		sp.ApplyOperationDefaults(op.Headcount, op.Days())
	}
}
