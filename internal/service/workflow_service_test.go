package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/testutil"
)

func submitted(t *testing.T, h *harness) *domain.Plan {
	t.Helper()
	plan := h.draft(t, "cia")
	h.uncataloged(t, plan.ID, "500")
	plan, err := h.workflow.Submit(context.Background(), plan.ID, "sgt")
	require.NoError(t, err)
	return plan
}

func approve(t *testing.T, h *harness, planID, orgID string) *DecideResult {
	t.Helper()
	res, err := h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: planID,
		Actor:  domain.Actor{ID: "cmt-" + orgID, OrgID: orgID},
		Action: domain.ActionApprove,
	})
	require.NoError(t, err)
	return res
}

func TestWorkflow_SubmitSnapshotsChain(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)

	assert.Equal(t, domain.PlanInReview, plan.Status)
	assert.Equal(t, 1, plan.Level())
	require.Len(t, plan.Chain, 4)
	for i, want := range []string{"cia", "btl", "bda", "cmd"} {
		assert.Equal(t, want, plan.Chain[i].OrgID)
		assert.Equal(t, i+1, plan.Chain[i].Level)
	}

	chain, err := h.workflow.Chain(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Chain, chain)
	assert.Contains(t, h.logs.String(), "Plan submitted")
}

func TestWorkflow_SubmitRequiresExpenses(t *testing.T) {
	h := newHarness(t)
	plan := h.draft(t, "cia")

	_, err := h.workflow.Submit(context.Background(), plan.ID, "sgt")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	stored, err := h.plans.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, stored.Status)
	assert.Empty(t, stored.Chain)
}

func TestWorkflow_SubmitTwiceFails(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)

	_, err := h.workflow.Submit(context.Background(), plan.ID, "sgt")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestWorkflow_ChainPreviewForDraft(t *testing.T) {
	h := newHarness(t)
	plan := h.draft(t, "btl")

	chain, err := h.workflow.Chain(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, "btl", chain[0].OrgID)
	assert.Equal(t, "cmd", chain[2].OrgID)
}

func TestWorkflow_ApproveThroughEveryLevel(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)

	for i, org := range []string{"cia", "btl", "bda"} {
		res := approve(t, h, plan.ID, org)
		assert.Equal(t, domain.PlanInReview, res.Plan.Status, "non-final approvals keep the plan in review")
		assert.Equal(t, i+2, res.Plan.Level())
	}
	final := approve(t, h, plan.ID, "cmd")
	assert.Equal(t, domain.PlanApproved, final.Plan.Status)
	assert.Nil(t, final.Plan.CurrentLevel)
	assert.NotNil(t, final.Plan.CompletedAt)

	history, err := h.workflow.History(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for i, d := range history {
		assert.Equal(t, i+1, d.Level)
		assert.Equal(t, domain.ActionApprove, d.Action)
		assert.NotEmpty(t, d.ID)
	}

	_, err = h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "x", OrgID: "cmd"}, Action: domain.ActionApprove,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "approved plans are terminal")
}

func TestWorkflow_RejectIsTerminal(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)
	approve(t, h, plan.ID, "cia")

	res, err := h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "cmt-btl", OrgID: "btl"},
		Action: domain.ActionReject, Reason: "faltam cotacoes",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanRejected, res.Plan.Status)
	assert.Equal(t, 2, res.Decision.Level)
	assert.Equal(t, "faltam cotacoes", res.Decision.Reason)

	_, err = h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "cmt-bda", OrgID: "bda"}, Action: domain.ActionApprove,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestWorkflow_WrongOrgUnauthorized(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)

	_, err := h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "cmt-btl", OrgID: "btl"}, Action: domain.ActionApprove,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	history, err := h.workflow.History(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "unauthorized attempts leave no trace")
}

func TestWorkflow_OverrideActorFromConfig(t *testing.T) {
	h := newHarness(t, "auditor")
	plan := submitted(t, h)

	res, err := h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "auditor", OrgID: "cmd"}, Action: domain.ActionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, "cia", res.Decision.OrgID, "the decision is recorded against the level's org")
	assert.Equal(t, "auditor", res.Decision.ActorID)
	assert.Contains(t, h.logs.String(), `"override":true`)
}

func TestWorkflow_ExpectedLevelMismatchConflicts(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)
	approve(t, h, plan.ID, "cia")

	_, err := h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "cmt-btl", OrgID: "btl"},
		Action: domain.ActionApprove, ExpectedLevel: 1,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	res, err := h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "cmt-btl", OrgID: "btl"},
		Action: domain.ActionApprove, ExpectedLevel: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Plan.Level())
}

func TestWorkflow_UnknownAction(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)

	_, err := h.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "cmt-cia", OrgID: "cia"}, Action: "ABSTAIN",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	assert.Equal(t, "action", domain.FieldOf(err))
}

func TestWorkflow_DecideUnknownPlan(t *testing.T) {
	h := newHarness(t)
	_, err := h.workflow.Decide(context.Background(), DecideRequest{PlanID: "ghost", Action: domain.ActionApprove})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.workflow.History(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkflow_ChainSnapshotSurvivesHierarchyChange(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)

	// Re-parent btl directly under cmd after submission.
	_, err := h.db.Exec(`UPDATE org_units SET parent_id = 'cmd' WHERE id = 'btl'`)
	require.NoError(t, err)

	approve(t, h, plan.ID, "cia")
	approve(t, h, plan.ID, "btl")
	res := approve(t, h, plan.ID, "bda")
	assert.Equal(t, 4, res.Plan.Level(), "levels follow the chain captured at submission")
}

func TestWorkflow_ReviseRejectedPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := submitted(t, h)

	_, err := h.workflow.Revise(ctx, plan.ID, "sgt")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "only rejected plans can be revised")

	_, err = h.workflow.Decide(ctx, DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "cmt-cia", OrgID: "cia"}, Action: domain.ActionReject, Reason: "refazer",
	})
	require.NoError(t, err)

	next, err := h.workflow.Revise(ctx, plan.ID, "ten")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, next.Status)
	assert.Equal(t, 2, next.Version)
	require.NotNil(t, next.PreviousVersionID)
	assert.Equal(t, plan.ID, *next.PreviousVersionID)

	stored, err := h.plans.GetByID(ctx, next.ID)
	require.NoError(t, err)
	require.Len(t, stored.Expenses, 1)
	assert.Equal(t, "500.00", stored.Total().StringFixed(2))
	assert.NotEqual(t, plan.Expenses[0].ID, stored.Expenses[0].ID)

	original, err := h.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanRejected, original.Status, "the rejected version is left untouched")

	_, err = h.workflow.Revise(ctx, plan.ID, "ten")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "a rejected plan is revised once")
}

func TestWorkflow_SubmitRollsBackOnFailure(t *testing.T) {
	h := newHarness(t)
	plan := h.draft(t, "cia")
	h.uncataloged(t, plan.ID, "100")

	injected := errors.New("injected chain write failure")
	// Exec #1 clears plan_chain, #2 inserts level 1.
	failing := h.withUoW(&testutil.FailOnNthExecUoW{DB: h.db, FailOn: 2, Err: injected})

	_, err := failing.workflow.Submit(context.Background(), plan.ID, "sgt")
	require.ErrorIs(t, err, injected)

	stored, err := h.plans.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, stored.Status)
	assert.Empty(t, stored.Chain)
	assert.NotContains(t, failing.logs.String(), "Plan submitted")
}

func TestWorkflow_DecideRollsBackWhenAppendFails(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)

	injected := errors.New("injected decision append failure")
	// Exec #1 updates the plan, #2 appends the decision.
	failing := h.withUoW(&testutil.FailOnNthExecUoW{DB: h.db, FailOn: 2, Err: injected})

	_, err := failing.workflow.Decide(context.Background(), DecideRequest{
		PlanID: plan.ID, Actor: domain.Actor{ID: "cmt-cia", OrgID: "cia"}, Action: domain.ActionApprove,
	})
	require.ErrorIs(t, err, injected)

	stored, err := h.plans.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Level(), "level is unchanged after rollback")
	assert.Empty(t, stored.Decisions)
	assert.Equal(t, plan.Revision, stored.Revision)

	trail, err := h.decisions.ListByPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Empty(t, trail)
}

func TestWorkflow_StaleWriterLosesToDecision(t *testing.T) {
	h := newHarness(t)
	plan := submitted(t, h)

	stale, err := h.planRepo.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	approve(t, h, plan.ID, "cia")

	err = h.planRepo.UpdateState(context.Background(), stale)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
