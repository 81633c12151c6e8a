// Package budget compares spending against operation ceilings. It only
// reports; callers decide whether an overage blocks anything.
package budget

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Status is the outcome of comparing utilization with a ceiling.
type Status struct {
	WithinLimit        bool
	Ceiling            decimal.Decimal
	Utilized           decimal.Decimal
	Overage            decimal.Decimal
	UtilizationPercent decimal.Decimal
}

// CheckLimit reports overage = max(0, utilized-ceiling) and utilization as a
// percentage capped at 100. A non-positive ceiling counts as fully used
// once anything is spent.
func CheckLimit(ceiling, utilized decimal.Decimal) Status {
	s := Status{
		WithinLimit: utilized.LessThanOrEqual(ceiling),
		Ceiling:     ceiling,
		Utilized:    utilized,
		Overage:     decimal.Max(decimal.Zero, utilized.Sub(ceiling)),
	}
	switch {
	case ceiling.IsPositive():
		s.UtilizationPercent = decimal.Min(hundred, utilized.Div(ceiling).Mul(hundred).Round(2))
	case utilized.IsPositive():
		s.UtilizationPercent = hundred
	default:
		s.UtilizationPercent = decimal.Zero
	}
	return s
}

// Remaining returns the unspent part of the ceiling, never negative.
func (s Status) Remaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, s.Ceiling.Sub(s.Utilized))
}
