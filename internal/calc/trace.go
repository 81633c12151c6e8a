package calc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

// Line is one priced row of a calculation.
type Line struct {
	Description string
	Amount      decimal.Decimal
}

// Result is the output of pricing one expense.
type Result struct {
	Total        decimal.Decimal
	Quantity     *decimal.Decimal
	QuantityUnit string
	Lines        []Line
	Trace        string
}

// tracer accumulates the rounded lines of a calculation and the compliance
// text describing them.
type tracer struct {
	printer
	class domain.ExpenseClass
	sb    strings.Builder
	lines []Line
	total decimal.Decimal
}

func newTracer(class domain.ExpenseClass) *tracer {
	t := &tracer{printer: newPrinter(), class: class, total: decimal.Zero}
	fmt.Fprintf(&t.sb, "Classe %s - %s\n", class, class.Label())
	return t
}

// note writes a line of explanation that carries no amount.
func (t *tracer) note(format string, args ...any) {
	fmt.Fprintf(&t.sb, format, args...)
	t.sb.WriteByte('\n')
}

// add records an already-rounded line and its arithmetic.
func (t *tracer) add(description string, amount decimal.Decimal, arithmetic string) {
	t.lines = append(t.lines, Line{Description: description, Amount: amount})
	t.total = t.total.Add(amount)
	fmt.Fprintf(&t.sb, "%s: %s = %s\n", description, arithmetic, t.money(amount))
}

func (t *tracer) result() Result {
	fmt.Fprintf(&t.sb, "Total: %s", t.money(t.total))
	return Result{Total: t.total, Lines: t.lines, Trace: t.sb.String()}
}
