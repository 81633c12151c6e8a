package calc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

func (e *Engine) maintenance(p *MaintenanceParams) (Result, error) {
	t := newTracer(domain.ClassII)
	for i, it := range p.Items {
		rate, ok := e.catalog.Maintenance[it.Category]
		if !ok {
			return Result{}, domain.InvalidParameter(fmt.Sprintf("items[%d].category", i),
				fmt.Sprintf("unknown category %s (known: %s)", it.Category, strings.Join(sortedKeys(e.catalog.Maintenance), ", ")))
		}
		amount := round2(rate.Value.
			Mul(decimal.NewFromInt(int64(it.Quantity))).
			Mul(decimal.NewFromInt(int64(it.Days))))
		t.add(rate.Description, amount, fmt.Sprintf("%s × %s × %d dias",
			t.count(it.Quantity), t.money(rate.Value), it.Days))
	}
	return t.result(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
