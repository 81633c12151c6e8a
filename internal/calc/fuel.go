package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

// UnitLiters is the secondary quantity unit of class III.
const UnitLiters = "L"

var fuelSafetyFactor = dec("1.3")

func (e *Engine) fuel(p *FuelParams) (Result, error) {
	t := newTracer(domain.ClassIII)

	var base decimal.Decimal
	switch {
	case !p.DistanceKm.IsZero():
		if p.DistanceKm.IsNegative() {
			return Result{}, domain.InvalidParameter("distance_km", "must be a positive amount")
		}
		if !p.ConsumptionKmPerLiter.IsPositive() {
			return Result{}, domain.InvalidParameter("consumption_km_per_liter", "must be a positive amount when distance_km is set")
		}
		base = p.DistanceKm.Div(p.ConsumptionKmPerLiter)
		t.note("%s: %s km ÷ %s km/L = %s L", p.FuelType,
			t.num(p.DistanceKm), t.num(p.ConsumptionKmPerLiter), t.num(round2(base)))
	case p.Days > 0:
		if !p.DailyLiters.IsPositive() {
			return Result{}, domain.InvalidParameter("daily_liters", "must be a positive amount when days is set")
		}
		base = p.DailyLiters.Mul(decimal.NewFromInt(int64(p.Days)))
		t.note("%s: %d dias × %s L/dia = %s L", p.FuelType, p.Days, t.num(p.DailyLiters), t.num(round2(base)))
	default:
		return Result{}, domain.InvalidParameter("distance_km", "either distance_km or days with daily_liters is required")
	}

	// The factor applies to the unrounded base so liters are rounded once.
	liters := round2(base.Mul(fuelSafetyFactor))
	t.note("Fator de segurança obrigatório: %s L × 1,3 = %s L", t.num(round2(base)), t.num(liters))

	amount := round2(liters.Mul(p.PricePerLiter))
	t.add("Combustível "+p.FuelType, amount, fmt.Sprintf("%s L × %s", t.num(liters), t.money(p.PricePerLiter)))

	res := t.result()
	res.Quantity = &liters
	res.QuantityUnit = UnitLiters
	return res, nil
}
