package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testChain() []ChainEntry {
	return []ChainEntry{
		{Level: 1, OrgID: "cia", Abbreviation: "1ª Cia", Kind: OrgCompany},
		{Level: 2, OrgID: "btl", Abbreviation: "10º BI", Kind: OrgBattalion},
		{Level: 3, OrgID: "cmd", Abbreviation: "CMA", Kind: OrgCommand},
	}
}

func draftPlan(expenses ...*Expense) *Plan {
	return &Plan{ID: "plan-1", OrgID: "cia", Status: PlanDraft, Version: 1, Expenses: expenses}
}

func expense(id string, total string) *Expense {
	return &Expense{ID: id, Class: ClassIV, Total: decimal.RequireFromString(total)}
}

func TestSubmit_WithoutExpensesFails(t *testing.T) {
	p := draftPlan()
	err := p.Submit(testChain(), testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
	assert.Equal(t, PlanDraft, p.Status)
	assert.Nil(t, p.CurrentLevel)
}

func TestSubmit_StartsAtLevelOne(t *testing.T) {
	p := draftPlan(expense("e1", "10.00"))
	require.NoError(t, p.Submit(testChain(), testNow))

	assert.Equal(t, PlanInReview, p.Status)
	require.NotNil(t, p.CurrentLevel)
	assert.Equal(t, 1, *p.CurrentLevel)
	require.NotNil(t, p.SubmittedAt)
	assert.Equal(t, testNow, *p.SubmittedAt)
	assert.Len(t, p.Chain, 3)
}

func TestSubmit_Twice(t *testing.T) {
	p := draftPlan(expense("e1", "10.00"))
	require.NoError(t, p.Submit(testChain(), testNow))
	err := p.Submit(testChain(), testNow)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestSubmit_EmptyChain(t *testing.T) {
	p := draftPlan(expense("e1", "10.00"))
	err := p.Submit(nil, testNow)
	assert.ErrorIs(t, err, ErrCorruptHierarchy)
}

func TestDecide_ApproveThroughWholeChain(t *testing.T) {
	chain := testChain()
	p := draftPlan(expense("e1", "10.00"))
	require.NoError(t, p.Submit(chain, testNow))

	for i, entry := range chain {
		d, err := p.Decide(chain, Actor{ID: fmt.Sprintf("u%d", i), OrgID: entry.OrgID}, ActionApprove, "", testNow)
		require.NoError(t, err)
		assert.Equal(t, entry.Level, d.Level)
		if i < len(chain)-1 {
			// Non-final approvals only move the level pointer.
			assert.Equal(t, PlanInReview, p.Status)
			assert.Equal(t, entry.Level+1, p.Level())
		}
	}

	assert.Equal(t, PlanApproved, p.Status)
	assert.Nil(t, p.CurrentLevel)
	require.NotNil(t, p.CompletedAt)
	assert.Len(t, p.Decisions, 3)
}

func TestDecide_RejectIsTerminalAtAnyLevel(t *testing.T) {
	chain := testChain()
	for rejectAt := 1; rejectAt <= len(chain); rejectAt++ {
		p := draftPlan(expense("e1", "10.00"))
		require.NoError(t, p.Submit(chain, testNow))

		for lvl := 1; lvl < rejectAt; lvl++ {
			_, err := p.Decide(chain, Actor{ID: "u", OrgID: chain[lvl-1].OrgID}, ActionApprove, "", testNow)
			require.NoError(t, err)
		}
		_, err := p.Decide(chain, Actor{ID: "u", OrgID: chain[rejectAt-1].OrgID}, ActionReject, "over budget", testNow)
		require.NoError(t, err)
		assert.Equal(t, PlanRejected, p.Status, "reject at level %d", rejectAt)
		assert.Nil(t, p.CurrentLevel)

		_, err = p.Decide(chain, Actor{ID: "u", Override: true}, ActionApprove, "", testNow)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	}
}

func TestDecide_WrongOrgUnauthorized(t *testing.T) {
	chain := testChain()
	p := draftPlan(expense("e1", "10.00"))
	require.NoError(t, p.Submit(chain, testNow))

	_, err := p.Decide(chain, Actor{ID: "u", OrgID: "btl"}, ActionApprove, "", testNow)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, p.Level())
	assert.Empty(t, p.Decisions)
}

func TestDecide_OverrideActsAtAnyLevel(t *testing.T) {
	chain := testChain()
	p := draftPlan(expense("e1", "10.00"))
	require.NoError(t, p.Submit(chain, testNow))

	d, err := p.Decide(chain, Actor{ID: "admin", OrgID: "elsewhere", Override: true}, ActionApprove, "", testNow)
	require.NoError(t, err)
	assert.Equal(t, "cia", d.OrgID)
	assert.Equal(t, 2, p.Level())
}

func TestDecide_OnDraft(t *testing.T) {
	p := draftPlan(expense("e1", "10.00"))
	_, err := p.Decide(testChain(), Actor{ID: "u", OrgID: "cia"}, ActionApprove, "", testNow)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestDecide_UnknownAction(t *testing.T) {
	chain := testChain()
	p := draftPlan(expense("e1", "10.00"))
	require.NoError(t, p.Submit(chain, testNow))
	_, err := p.Decide(chain, Actor{ID: "u", OrgID: "cia"}, DecisionAction("MAYBE"), "", testNow)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, "action", FieldOf(err))
}

func TestDecide_SingleLevelChain(t *testing.T) {
	chain := testChain()[:1]
	p := draftPlan(expense("e1", "10.00"))
	require.NoError(t, p.Submit(chain, testNow))
	_, err := p.Decide(chain, Actor{ID: "u", OrgID: "cia"}, ActionApprove, "", testNow)
	require.NoError(t, err)
	assert.Equal(t, PlanApproved, p.Status)
}

func TestExpenseEditing_OnlyInDraft(t *testing.T) {
	p := draftPlan(expense("e1", "10.00"))
	require.NoError(t, p.AddExpense(expense("e2", "5.50"), testNow))
	assert.True(t, decimal.RequireFromString("15.50").Equal(p.Total()))

	require.NoError(t, p.RemoveExpense("e2", testNow))
	assert.Len(t, p.Expenses, 1)
	assert.ErrorIs(t, p.RemoveExpense("missing", testNow), ErrNotFound)

	require.NoError(t, p.Submit(testChain(), testNow))
	assert.ErrorIs(t, p.AddExpense(expense("e3", "1.00"), testNow), ErrInvalidStateTransition)
	assert.ErrorIs(t, p.ReplaceExpense(expense("e1", "1.00"), testNow), ErrInvalidStateTransition)
	assert.ErrorIs(t, p.RemoveExpense("e1", testNow), ErrInvalidStateTransition)
}

func TestRevise_OnlyFromRejected(t *testing.T) {
	chain := testChain()
	p := draftPlan(expense("e1", "10.00"))

	n := 0
	nextID := func() string { n++; return fmt.Sprintf("copy-%d", n) }

	_, err := p.Revise("plan-2", nextID, "u", testNow)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	require.NoError(t, p.Submit(chain, testNow))
	_, err = p.Decide(chain, Actor{ID: "u", OrgID: "cia"}, ActionReject, "no", testNow)
	require.NoError(t, err)

	next, err := p.Revise("plan-2", nextID, "u", testNow)
	require.NoError(t, err)
	assert.Equal(t, PlanDraft, next.Status)
	assert.Equal(t, 2, next.Version)
	require.NotNil(t, next.PreviousVersionID)
	assert.Equal(t, "plan-1", *next.PreviousVersionID)
	require.Len(t, next.Expenses, 1)
	assert.Equal(t, "copy-1", next.Expenses[0].ID)
	assert.Equal(t, "plan-2", next.Expenses[0].PlanID)
	assert.True(t, p.Total().Equal(next.Total()))
	assert.Equal(t, PlanRejected, p.Status, "original stays rejected")
}
