package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID           string
	PlanID       string
	Class        ExpenseClass
	Type         string
	Params       json.RawMessage
	Total        decimal.Decimal
	Quantity     *decimal.Decimal // secondary quantity, e.g. fuel liters
	QuantityUnit string
	OrgShares    []Share
	NatureShares []Share
	Trace        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Share is one slice of an apportionment, keyed by org id or nature code.
type Share struct {
	Key        string
	Percentage decimal.Decimal
}

// ShareOf returns the percentage allotted to key, or zero.
func (e *Expense) ShareOf(dim ShareDimension, key string) decimal.Decimal {
	shares := e.OrgShares
	if dim == DimensionNature {
		shares = e.NatureShares
	}
	for _, s := range shares {
		if s.Key == key {
			return s.Percentage
		}
	}
	return decimal.Zero
}

// AmountFor returns the portion of the total attributed to orgID, rounded to cents.
func (e *Expense) AmountFor(orgID string) decimal.Decimal {
	pct := e.ShareOf(DimensionOrg, orgID)
	if pct.IsZero() {
		return decimal.Zero
	}
	return e.Total.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}

// Clone returns a deep copy with a new id and plan id.
func (e *Expense) Clone(id, planID string, now time.Time) *Expense {
	c := *e
	c.ID = id
	c.PlanID = planID
	c.Params = append(json.RawMessage(nil), e.Params...)
	c.OrgShares = append([]Share(nil), e.OrgShares...)
	c.NatureShares = append([]Share(nil), e.NatureShares...)
	if e.Quantity != nil {
		q := *e.Quantity
		c.Quantity = &q
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return &c
}
