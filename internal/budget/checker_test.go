package budget

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckLimit(t *testing.T) {
	tests := []struct {
		name      string
		ceiling   string
		utilized  string
		within    bool
		overage   string
		percent   string
		remaining string
	}{
		{"under", "1000", "250", true, "0", "25", "750"},
		{"exactly at ceiling", "1000", "1000", true, "0", "100", "0"},
		{"over is capped at 100 percent", "1000", "1500.50", false, "500.50", "100", "0"},
		{"nothing spent", "1000", "0", true, "0", "0", "1000"},
		{"fractional percent", "3", "1", true, "0", "33.33", "2"},
		{"zero ceiling with spending", "0", "10", false, "10", "100", "0"},
		{"zero ceiling unused", "0", "0", true, "0", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CheckLimit(d(tt.ceiling), d(tt.utilized))
			assert.Equal(t, tt.within, s.WithinLimit)
			assert.True(t, d(tt.overage).Equal(s.Overage), "overage %s", s.Overage)
			assert.True(t, d(tt.percent).Equal(s.UtilizationPercent), "percent %s", s.UtilizationPercent)
			assert.True(t, d(tt.remaining).Equal(s.Remaining()), "remaining %s", s.Remaining())
		})
	}
}

func TestCheckLimit_Property_OverageAndPercentBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 500; trial++ {
		ceiling := decimal.New(rng.Int63n(10_000_000), -2)
		utilized := decimal.New(rng.Int63n(20_000_000), -2)
		s := CheckLimit(ceiling, utilized)

		assert.False(t, s.Overage.IsNegative(), "trial %d", trial)
		assert.True(t, s.UtilizationPercent.LessThanOrEqual(hundred), "trial %d", trial)
		assert.False(t, s.UtilizationPercent.IsNegative(), "trial %d", trial)
		assert.Equal(t, s.Overage.IsZero(), s.WithinLimit, "trial %d", trial)
	}
}
