package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/hierarchy"
	"github.com/alexanderramin/workplan/internal/repository"
)

type workflowService struct {
	plans          repository.PlanRepo
	decisions      repository.DecisionRepo
	orgs           repository.OrgRepo
	uow            db.UnitOfWork
	overrideActors []string
	logger         zerolog.Logger
	observer       UseCaseObserver
}

// NewWorkflowService wires the approval workflow. Actors listed in
// overrideActors may decide at any level.
func NewWorkflowService(
	plans repository.PlanRepo,
	decisions repository.DecisionRepo,
	orgs repository.OrgRepo,
	uow db.UnitOfWork,
	overrideActors []string,
	logger zerolog.Logger,
	observers ...UseCaseObserver,
) WorkflowService {
	return &workflowService{
		plans:          plans,
		decisions:      decisions,
		orgs:           orgs,
		uow:            uow,
		overrideActors: overrideActors,
		logger:         logger,
		observer:       useCaseObserverOrNoop(observers),
	}
}

func (s *workflowService) Submit(ctx context.Context, planID, submittedBy string) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "workflow.submit", time.Now(), &err, map[string]any{"plan_id": planID})

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		p, err := txPlans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		plan = p
		chain, err := hierarchy.ResolveChain(ctx, repository.NewSQLiteOrgRepo(tx), plan.OrgID)
		if err != nil {
			return err
		}
		if err := plan.Submit(chain, time.Now().UTC()); err != nil {
			return err
		}
		if err := txPlans.ReplaceChain(ctx, plan.ID, plan.Chain); err != nil {
			return err
		}
		return txPlans.UpdateState(ctx, plan)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("plan_id", plan.ID).
		Str("submitted_by", submittedBy).
		Int("levels", len(plan.Chain)).
		Str("first_approver", plan.Chain[0].OrgID).
		Msg("Plan submitted")
	return plan, nil
}

func (s *workflowService) Decide(ctx context.Context, req DecideRequest) (result *DecideResult, err error) {
	defer observe(ctx, s.observer, "workflow.decide", time.Now(), &err, map[string]any{
		"plan_id": req.PlanID, "actor_id": req.Actor.ID, "action": string(req.Action),
	})

	actor := req.Actor
	if slices.Contains(s.overrideActors, actor.ID) {
		actor.Override = true
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		plan, err := txPlans.GetByID(ctx, req.PlanID)
		if err != nil {
			return err
		}
		if req.ExpectedLevel != 0 && plan.Status == domain.PlanInReview && plan.Level() != req.ExpectedLevel {
			return domain.NewFieldError(domain.ErrConflict, "current_level",
				fmt.Sprintf("plan is at level %d, not %d", plan.Level(), req.ExpectedLevel))
		}

		decision, err := plan.Decide(plan.Chain, actor, req.Action, req.Reason, time.Now().UTC())
		if err != nil {
			return err
		}
		decision.ID = uuid.New().String()
		plan.Decisions[len(plan.Decisions)-1].ID = decision.ID

		if err := txPlans.UpdateState(ctx, plan); err != nil {
			return err
		}
		if err := repository.NewSQLiteDecisionRepo(tx).Append(ctx, &decision); err != nil {
			return err
		}
		result = &DecideResult{Plan: plan, Decision: decision}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("plan_id", req.PlanID).
		Str("actor_id", actor.ID).
		Bool("override", actor.Override).
		Int("level", result.Decision.Level).
		Str("action", string(result.Decision.Action)).
		Str("status", string(result.Plan.Status)).
		Msg("Plan decision recorded")
	return result, nil
}

func (s *workflowService) History(ctx context.Context, planID string) ([]domain.ApprovalDecision, error) {
	if _, err := s.plans.GetByID(ctx, planID); err != nil {
		return nil, err
	}
	return s.decisions.ListByPlan(ctx, planID)
}

// Chain returns the snapshot taken at submission, or a preview resolved from
// the current hierarchy for drafts.
func (s *workflowService) Chain(ctx context.Context, planID string) ([]domain.ChainEntry, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if len(plan.Chain) > 0 {
		return plan.Chain, nil
	}
	return hierarchy.ResolveChain(ctx, s.orgs, plan.OrgID)
}

func (s *workflowService) Revise(ctx context.Context, planID, revisedBy string) (next *domain.Plan, err error) {
	defer observe(ctx, s.observer, "workflow.revise", time.Now(), &err, map[string]any{"plan_id": planID})

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		plan, err := txPlans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		siblings, err := txPlans.ListByOperation(ctx, plan.OperationID)
		if err != nil {
			return err
		}
		for _, other := range siblings {
			if other.PreviousVersionID != nil && *other.PreviousVersionID == plan.ID {
				return domain.InvalidTransition(fmt.Sprintf("plan already revised as version %d", other.Version))
			}
		}
		next, err = plan.Revise(uuid.New().String(), func() string { return uuid.New().String() }, revisedBy, time.Now().UTC())
		if err != nil {
			return err
		}
		return txPlans.Create(ctx, next)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("plan_id", next.ID).
		Str("previous_version_id", planID).
		Int("version", next.Version).
		Msg("Plan revised")
	return next, nil
}
