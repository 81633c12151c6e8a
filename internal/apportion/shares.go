// Package apportion validates percentage splits of an expense across org
// units and expense-nature codes.
package apportion

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

var (
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.RequireFromString("0.01")
)

// ValidateShares checks that keys are unique, each percentage lies in
// (0, 100] and the total is 100 within 0.01.
func ValidateShares(shares []domain.Share) error {
	return validate("shares", shares)
}

// ValidateOrgShares is ValidateShares with field paths rooted at org_shares.
func ValidateOrgShares(shares []domain.Share) error {
	return validate("org_shares", shares)
}

func validate(field string, shares []domain.Share) error {
	if len(shares) == 0 {
		return domain.NewFieldError(domain.ErrApportionmentMismatch, field, "no shares declared")
	}
	seen := make(map[string]bool, len(shares))
	sum := decimal.Zero
	for i, s := range shares {
		path := fmt.Sprintf("%s[%d]", field, i)
		if s.Key == "" {
			return domain.InvalidParameter(path+".key", "key is required")
		}
		if seen[s.Key] {
			return domain.NewFieldError(domain.ErrDuplicateKey, path+".key",
				fmt.Sprintf("%s appears more than once", s.Key))
		}
		seen[s.Key] = true
		if !s.Percentage.IsPositive() || s.Percentage.GreaterThan(hundred) {
			return domain.NewFieldError(domain.ErrOutOfRange, path+".percentage",
				fmt.Sprintf("percentage %s must be in (0, 100]", s.Percentage.String()))
		}
		sum = sum.Add(s.Percentage)
	}
	if sum.Sub(hundred).Abs().GreaterThan(tolerance) {
		return domain.NewFieldError(domain.ErrApportionmentMismatch, field,
			fmt.Sprintf("shares total %s%%, expected 100%%", sum.String()))
	}
	return nil
}

// Single returns a one-entry apportionment giving key the whole amount.
func Single(key string) []domain.Share {
	return []domain.Share{{Key: key, Percentage: hundred}}
}
