package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

var (
	weaponMaintenanceRate = dec("0.08")
	engineeringFactor     = dec("1.10")
)

func (e *Engine) construction(p *ConstructionParams) (Result, error) {
	t := newTracer(domain.ClassIV)
	for _, it := range p.Items {
		amount := round2(it.Quantity.Mul(it.UnitPrice))
		t.add(it.Description, amount, fmt.Sprintf("%s %s × %s", t.num(it.Quantity), it.Unit, t.money(it.UnitPrice)))
	}
	return t.result(), nil
}

func (e *Engine) munitions(p *MunitionsParams) (Result, error) {
	if len(p.Munitions) == 0 && len(p.Weapons) == 0 {
		return Result{}, domain.InvalidParameter("munitions", "at least one munition or weapon entry is required")
	}
	t := newTracer(domain.ClassV)
	for _, m := range p.Munitions {
		amount := round2(decimal.NewFromInt(int64(m.Quantity)).Mul(m.UnitPrice))
		t.add("Munição "+m.Description, amount, fmt.Sprintf("%s × %s", t.count(m.Quantity), t.money(m.UnitPrice)))
	}
	for _, w := range p.Weapons {
		amount := round2(weaponMaintenanceRate.
			Mul(decimal.NewFromInt(int64(w.Quantity))).
			Mul(w.AssetValue))
		t.add("Manutenção de armamento "+w.Description, amount,
			fmt.Sprintf("8%% × (%s × %s)", t.count(w.Quantity), t.money(w.AssetValue)))
	}
	return t.result(), nil
}

func (e *Engine) engineering(p *EngineeringParams) (Result, error) {
	t := newTracer(domain.ClassVI)
	for _, eq := range p.Equipment {
		amount := round2(eq.HourlyRate.Mul(eq.Hours).Mul(engineeringFactor))
		t.add(eq.Description, amount, fmt.Sprintf("(%s × %s h) × 1,10", t.money(eq.HourlyRate), t.num(eq.Hours)))
	}
	return t.result(), nil
}

func (e *Engine) uncataloged(p *UncatalogedParams) (Result, error) {
	t := newTracer(domain.ClassX)
	for _, it := range p.Items {
		amount := round2(it.Quantity.Mul(it.UnitPrice))
		t.add(it.Description, amount, fmt.Sprintf("%s %s × %s", t.num(it.Quantity), it.Unit, t.money(it.UnitPrice)))
		t.note("Justificativa: %s", it.Justification)
	}
	return t.result(), nil
}
