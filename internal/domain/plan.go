package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Plan struct {
	ID                string
	OperationID       string
	OrgID             string
	Title             string
	Status            PlanStatus
	CurrentLevel      *int
	Version           int
	PreviousVersionID *string
	Revision          int64
	CreatedBy         string
	SubmittedAt       *time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Expenses  []*Expense
	Chain     []ChainEntry
	Decisions []ApprovalDecision
}

// ApprovalDecision is one immutable entry of a plan's audit trail.
type ApprovalDecision struct {
	ID        string
	PlanID    string
	Level     int
	OrgID     string
	ActorID   string
	Action    DecisionAction
	Reason    string
	DecidedAt time.Time
}

// Total sums the already-rounded expense totals.
func (p *Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Expenses {
		total = total.Add(e.Total)
	}
	return total
}

// IsTerminal reports whether no further decisions are accepted.
func (p *Plan) IsTerminal() bool {
	return p.Status == PlanApproved || p.Status == PlanRejected
}

// Level returns the current approval level, or 0 outside review.
func (p *Plan) Level() int {
	if p.CurrentLevel == nil {
		return 0
	}
	return *p.CurrentLevel
}

func (p *Plan) requireDraft(op string) error {
	if p.Status != PlanDraft {
		return InvalidTransition(fmt.Sprintf("cannot %s on a plan in status %s", op, p.Status))
	}
	return nil
}

// AddExpense appends an expense line. Only drafts are editable.
func (p *Plan) AddExpense(e *Expense, now time.Time) error {
	if err := p.requireDraft("add expense"); err != nil {
		return err
	}
	e.PlanID = p.ID
	p.Expenses = append(p.Expenses, e)
	p.UpdatedAt = now
	return nil
}

// ReplaceExpense swaps the line with the same id.
func (p *Plan) ReplaceExpense(e *Expense, now time.Time) error {
	if err := p.requireDraft("edit expense"); err != nil {
		return err
	}
	for i, existing := range p.Expenses {
		if existing.ID == e.ID {
			e.PlanID = p.ID
			p.Expenses[i] = e
			p.UpdatedAt = now
			return nil
		}
	}
	return NotFound("expense", e.ID)
}

// RemoveExpense drops the line with the given id.
func (p *Plan) RemoveExpense(id string, now time.Time) error {
	if err := p.requireDraft("remove expense"); err != nil {
		return err
	}
	for i, existing := range p.Expenses {
		if existing.ID == id {
			p.Expenses = append(p.Expenses[:i], p.Expenses[i+1:]...)
			p.UpdatedAt = now
			return nil
		}
	}
	return NotFound("expense", id)
}

// Submit freezes expense editing and starts review at level 1.
func (p *Plan) Submit(chain []ChainEntry, now time.Time) error {
	if p.Status != PlanDraft {
		return InvalidTransition(fmt.Sprintf("cannot submit a plan in status %s", p.Status))
	}
	if len(p.Expenses) == 0 {
		return InvalidTransition("cannot submit a plan without expenses")
	}
	if len(chain) == 0 {
		return NewFieldError(ErrCorruptHierarchy, "chain", "approval chain is empty")
	}
	level := 1
	p.Status = PlanInReview
	p.CurrentLevel = &level
	p.Chain = append([]ChainEntry(nil), chain...)
	p.SubmittedAt = &now
	p.UpdatedAt = now
	return nil
}

// Decide applies one approval decision at the current level. A rejection at
// any level is terminal; an approval at the last level of chain is terminal;
// any other approval only advances CurrentLevel and leaves Status IN_REVIEW.
func (p *Plan) Decide(chain []ChainEntry, actor Actor, action DecisionAction, reason string, now time.Time) (ApprovalDecision, error) {
	if p.Status != PlanInReview {
		return ApprovalDecision{}, InvalidTransition(fmt.Sprintf("cannot decide on a plan in status %s", p.Status))
	}
	if action != ActionApprove && action != ActionReject {
		return ApprovalDecision{}, InvalidParameter("action", fmt.Sprintf("unknown action %q", action))
	}

	level := p.Level()
	if level < 1 || level > len(chain) {
		return ApprovalDecision{}, NewFieldError(ErrCorruptHierarchy, "current_level",
			fmt.Sprintf("level %d outside approval chain of length %d", level, len(chain)))
	}
	entry := chain[level-1]
	if actor.OrgID != entry.OrgID && !actor.Override {
		return ApprovalDecision{}, NewFieldError(ErrUnauthorized, "actor",
			fmt.Sprintf("level %d must be decided by %s", level, entry.Abbreviation))
	}

	decision := ApprovalDecision{
		PlanID:    p.ID,
		Level:     level,
		OrgID:     entry.OrgID,
		ActorID:   actor.ID,
		Action:    action,
		Reason:    reason,
		DecidedAt: now,
	}
	p.Decisions = append(p.Decisions, decision)
	p.UpdatedAt = now

	switch {
	case action == ActionReject:
		p.Status = PlanRejected
		p.CurrentLevel = nil
		p.CompletedAt = &now
	case level == len(chain):
		p.Status = PlanApproved
		p.CurrentLevel = nil
		p.CompletedAt = &now
	default:
		next := level + 1
		p.CurrentLevel = &next
	}
	return decision, nil
}

// Revise opens a new draft version of a rejected plan with the same lines.
func (p *Plan) Revise(newID string, newExpenseID func() string, createdBy string, now time.Time) (*Plan, error) {
	if p.Status != PlanRejected {
		return nil, InvalidTransition(fmt.Sprintf("only rejected plans can be revised, plan is %s", p.Status))
	}
	prev := p.ID
	next := &Plan{
		ID:                newID,
		OperationID:       p.OperationID,
		OrgID:             p.OrgID,
		Title:             p.Title,
		Status:            PlanDraft,
		Version:           p.Version + 1,
		PreviousVersionID: &prev,
		CreatedBy:         createdBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, e := range p.Expenses {
		next.Expenses = append(next.Expenses, e.Clone(newExpenseID(), newID, now))
	}
	return next, nil
}
