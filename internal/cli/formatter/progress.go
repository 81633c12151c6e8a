package formatter

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

var (
	hundred    = decimal.NewFromInt(100)
	cautionPct = decimal.NewFromInt(66)
)

// RenderUsageBar renders a ceiling usage bar like [████░░░░] for a percentage
// in 0..100. Green below 66%, yellow up to warnPercent, red beyond.
func RenderUsageBar(pct decimal.Decimal, width int) string {
	pct = decimal.Min(hundred, decimal.Max(decimal.Zero, pct))
	width = max(width, 2)

	filled := int(pct.Mul(decimal.NewFromInt(int64(width))).Div(hundred).IntPart())
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct.GreaterThanOrEqual(warnPercent):
		style = StyleRed
	case pct.GreaterThanOrEqual(cautionPct):
		style = StyleYellow
	}
	return "[" + style.Render(bar) + "]"
}
