package domain

import "time"

type OrgUnit struct {
	ID           string
	Designation  string
	Abbreviation string
	Kind         OrgKind
	ParentID     *string
	BudgetCode   string
	CreatedAt    time.Time
}

// IsRoot reports whether the unit has no parent.
func (o *OrgUnit) IsRoot() bool {
	return o.ParentID == nil || *o.ParentID == ""
}

// ChainEntry is one approval level in a resolved chain.
type ChainEntry struct {
	Level        int
	OrgID        string
	Designation  string
	Abbreviation string
	Kind         OrgKind
}

// Actor is the identity deciding on a plan. Override grants the universal
// capability to act at any level regardless of org.
type Actor struct {
	ID       string
	OrgID    string
	Override bool
}
