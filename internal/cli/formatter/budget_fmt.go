package formatter

import (
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/budget"
)

var warnPercent = decimal.NewFromInt(90)

// BudgetRow is one participant's ceiling status.
type BudgetRow struct {
	OrgID  string
	Status budget.Status
}

// FormatBudget renders ceiling utilization per participant.
func FormatBudget(rows []BudgetRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.OrgID,
			Money(r.Status.Ceiling),
			Money(r.Status.Utilized),
			Money(r.Status.Remaining()),
			RenderUsageBar(r.Status.UtilizationPercent, 10) + " " + Percent(r.Status.UtilizationPercent),
			budgetIndicator(r.Status),
		})
	}
	return RenderTable([]string{"ORG", "CEILING", "UTILIZED", "REMAINING", "USED", ""}, out)
}

func budgetIndicator(s budget.Status) string {
	switch {
	case !s.WithinLimit:
		return StyleRed.Render("▲ over by " + Money(s.Overage))
	case s.UtilizationPercent.GreaterThanOrEqual(warnPercent):
		return StyleYellow.Render("● near limit")
	default:
		return StyleGreen.Render("● ok")
	}
}
