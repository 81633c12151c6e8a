package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/workplan/internal/calc"
	"github.com/alexanderramin/workplan/internal/domain"
)

// FormatPlan renders a plan summary box followed by its expense lines.
func FormatPlan(p *domain.Plan) string {
	var info strings.Builder
	fmt.Fprintf(&info, "%s  %s\n", Bold(p.Title), StatusPill(p.Status))
	fmt.Fprintf(&info, "%s %s  %s v%d\n", Dim("id"), p.ID, Dim("version"), p.Version)
	fmt.Fprintf(&info, "%s %s  %s %s\n", Dim("org"), p.OrgID, Dim("operation"), ShortID(p.OperationID))
	if p.Status == domain.PlanInReview {
		fmt.Fprintf(&info, "%s %d of %d\n", Dim("level"), p.Level(), len(p.Chain))
	}
	if p.PreviousVersionID != nil {
		fmt.Fprintf(&info, "%s %s\n", Dim("revises"), ShortID(*p.PreviousVersionID))
	}
	fmt.Fprintf(&info, "%s %s", Dim("total"), Bold(Money(p.Total())))

	var b strings.Builder
	b.WriteString(RenderBox("Plan", info.String()))
	b.WriteString("\n\n")
	if len(p.Expenses) == 0 {
		b.WriteString(Dim("No expenses yet.") + "\n")
		return b.String()
	}
	b.WriteString(FormatExpenses(p.Expenses))
	return b.String()
}

// FormatExpenses renders expense lines as a table.
func FormatExpenses(expenses []*domain.Expense) string {
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		qty := "-"
		if e.Quantity != nil {
			qty = e.Quantity.String() + " " + e.QuantityUnit
		}
		rows = append(rows, []string{
			ShortID(e.ID),
			string(e.Class),
			e.Type,
			Money(e.Total),
			qty,
			formatShares(e.OrgShares),
		})
	}
	return RenderTable([]string{"ID", "CLASS", "TYPE", "TOTAL", "QTY", "ORGS"}, rows)
}

func formatShares(shares []domain.Share) string {
	parts := make([]string, 0, len(shares))
	for _, s := range shares {
		parts = append(parts, fmt.Sprintf("%s %s%%", s.Key, s.Percentage.String()))
	}
	return strings.Join(parts, ", ")
}

// FormatChain renders approval levels, marking current when it is non-zero.
func FormatChain(chain []domain.ChainEntry, current int) string {
	rows := make([][]string, 0, len(chain))
	for _, c := range chain {
		marker := ""
		switch {
		case current > 0 && c.Level == current:
			marker = StyleYellow.Render("◀ pending")
		case current > 0 && c.Level < current:
			marker = StyleGreen.Render("✔")
		}
		rows = append(rows, []string{fmt.Sprint(c.Level), c.Abbreviation, c.Designation, string(c.Kind), marker})
	}
	return RenderTable([]string{"LEVEL", "ORG", "DESIGNATION", "KIND", ""}, rows)
}

// FormatHistory renders the decision trail in order.
func FormatHistory(decisions []domain.ApprovalDecision) string {
	if len(decisions) == 0 {
		return Dim("No decisions recorded.") + "\n"
	}
	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		decided := d.DecidedAt
		rows = append(rows, []string{
			fmt.Sprint(d.Level), d.OrgID, d.ActorID, ActionPill(d.Action), Timestamp(&decided), d.Reason,
		})
	}
	return RenderTable([]string{"LEVEL", "ORG", "ACTOR", "ACTION", "DECIDED", "REASON"}, rows)
}

// FormatQuote renders priced lines and the compliance trace of a calculation.
func FormatQuote(class domain.ExpenseClass, r calc.Result) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Classe %s - %s", class, class.Label())))
	b.WriteString("\n")
	rows := make([][]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, []string{l.Description, Money(l.Amount)})
	}
	b.WriteString(RenderTable([]string{"LINE", "AMOUNT"}, rows))
	if r.Quantity != nil {
		fmt.Fprintf(&b, "%s %s %s\n", Dim("quantity"), r.Quantity.String(), r.QuantityUnit)
	}
	fmt.Fprintf(&b, "%s %s\n\n", Dim("total"), Bold(Money(r.Total)))
	b.WriteString(Dim(r.Trace) + "\n")
	return b.String()
}
