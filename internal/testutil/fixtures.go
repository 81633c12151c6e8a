package testutil

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

// Org options
type OrgOption func(*domain.OrgUnit)

func WithParent(id string) OrgOption {
	return func(o *domain.OrgUnit) {
		o.ParentID = &id
	}
}

func WithBudgetCode(code string) OrgOption {
	return func(o *domain.OrgUnit) {
		o.BudgetCode = code
	}
}

func NewTestOrg(id string, kind domain.OrgKind, opts ...OrgOption) *domain.OrgUnit {
	o := &domain.OrgUnit{
		ID:           id,
		Designation:  "Unidade " + id,
		Abbreviation: id,
		Kind:         kind,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StandardHierarchy returns cmd > bda > btl > cia, root first, so a plan
// from "cia" walks the four-level approval chain cia, btl, bda, cmd.
func StandardHierarchy() []*domain.OrgUnit {
	return []*domain.OrgUnit{
		NewTestOrg("cmd", domain.OrgCommand),
		NewTestOrg("bda", domain.OrgBrigade, WithParent("cmd")),
		NewTestOrg("btl", domain.OrgBattalion, WithParent("bda")),
		NewTestOrg("cia", domain.OrgCompany, WithParent("btl")),
	}
}

// Operation options
type OperationOption func(*domain.Operation)

func WithParticipant(orgID, ceiling string) OperationOption {
	return func(op *domain.Operation) {
		op.Participants = append(op.Participants, domain.ParticipatingOrg{
			OrgID:   orgID,
			Ceiling: decimal.RequireFromString(ceiling),
		})
	}
}

func WithPeriod(start, end time.Time) OperationOption {
	return func(op *domain.Operation) {
		op.StartDate = start
		op.EndDate = end
	}
}

func WithHeadcount(n int) OperationOption {
	return func(op *domain.Operation) {
		op.Headcount = n
	}
}

func NewTestOperation(ownerOrgID string, opts ...OperationOption) *domain.Operation {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	op := &domain.Operation{
		ID:         uuid.New().String(),
		OwnerOrgID: ownerOrgID,
		Name:       "Operação Teste",
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 9),
		Headcount:  50,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

// Plan options
type PlanOption func(*domain.Plan)

func WithTitle(title string) PlanOption {
	return func(p *domain.Plan) {
		p.Title = title
	}
}

func WithExpenses(expenses ...*domain.Expense) PlanOption {
	return func(p *domain.Plan) {
		for _, e := range expenses {
			e.PlanID = p.ID
			p.Expenses = append(p.Expenses, e)
		}
	}
}

func NewTestPlan(operationID, orgID string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:          uuid.New().String(),
		OperationID: operationID,
		OrgID:       orgID,
		Title:       "Plano de trabalho",
		Status:      domain.PlanDraft,
		Version:     1,
		CreatedBy:   "tester",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Expense options
type ExpenseOption func(*domain.Expense)

func WithClass(c domain.ExpenseClass) ExpenseOption {
	return func(e *domain.Expense) {
		e.Class = c
	}
}

// WithOrgSplit replaces the org shares with alternating key, percentage pairs.
func WithOrgSplit(pairs ...string) ExpenseOption {
	return func(e *domain.Expense) {
		e.OrgShares = sharesFromPairs(pairs)
	}
}

func WithNatureSplit(pairs ...string) ExpenseOption {
	return func(e *domain.Expense) {
		e.NatureShares = sharesFromPairs(pairs)
	}
}

func WithQuantity(q, unit string) ExpenseOption {
	return func(e *domain.Expense) {
		d := decimal.RequireFromString(q)
		e.Quantity = &d
		e.QuantityUnit = unit
	}
}

// NewTestExpense builds a class X line fully attributed to orgID.
func NewTestExpense(orgID, total string, opts ...ExpenseOption) *domain.Expense {
	now := time.Now().UTC()
	e := &domain.Expense{
		ID:           uuid.New().String(),
		Class:        domain.ClassX,
		Type:         "material",
		Params:       json.RawMessage(`{}`),
		Total:        decimal.RequireFromString(total),
		OrgShares:    []domain.Share{{Key: orgID, Percentage: decimal.NewFromInt(100)}},
		NatureShares: []domain.Share{{Key: "33.90.30", Percentage: decimal.NewFromInt(100)}},
		Trace:        "Classe X",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func sharesFromPairs(pairs []string) []domain.Share {
	var out []domain.Share
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Share{Key: pairs[i], Percentage: decimal.RequireFromString(pairs[i+1])})
	}
	return out
}
