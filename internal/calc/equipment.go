package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

// resolveRate picks the override when present, otherwise the catalogue
// entry for code. Items absent from the catalogue must carry an override.
func resolveRate(table map[string]Rate, path, field, code, description string, override *decimal.Decimal) (decimal.Decimal, string, error) {
	if err := requirePositive(path+"."+field, override); err != nil {
		return decimal.Zero, "", err
	}
	entry, cataloged := table[code]
	label := domain.CoalesceStr(description, entry.Description, code)
	if label == "" {
		return decimal.Zero, "", domain.InvalidParameter(path+".description", "code or description is required")
	}
	if override != nil {
		return *override, label, nil
	}
	if !cataloged {
		return decimal.Zero, "", domain.InvalidParameter(path+"."+field,
			fmt.Sprintf("%s is not catalogued, %s is required", label, field))
	}
	return entry.Value, label, nil
}

func (e *Engine) electronics(p *ElectronicsParams) (Result, error) {
	t := newTracer(domain.ClassVII)
	for i, it := range p.Items {
		rate, label, err := resolveRate(e.catalog.Electronics, fmt.Sprintf("items[%d]", i), "daily_rate",
			it.Code, it.Description, it.DailyRate)
		if err != nil {
			return Result{}, err
		}
		amount := round2(rate.
			Mul(decimal.NewFromInt(int64(it.Quantity))).
			Mul(decimal.NewFromInt(int64(it.DaysUsed))))
		t.add(label, amount, fmt.Sprintf("%s/dia × %s × %d dias", t.money(rate), t.count(it.Quantity), it.DaysUsed))
	}
	return t.result(), nil
}

func (e *Engine) health(p *HealthParams) (Result, error) {
	t := newTracer(domain.ClassVIII)
	for i, k := range p.Kits {
		cost, label, err := resolveRate(e.catalog.HealthKits, fmt.Sprintf("kits[%d]", i), "unit_cost",
			k.Code, k.Description, k.UnitCost)
		if err != nil {
			return Result{}, err
		}
		amount := round2(decimal.NewFromInt(int64(k.Quantity)).Mul(cost))
		t.add(label, amount, fmt.Sprintf("%s × %s", t.count(k.Quantity), t.money(cost)))
	}
	return t.result(), nil
}

func (e *Engine) vehicles(p *VehicleParams) (Result, error) {
	t := newTracer(domain.ClassIX)
	for i, v := range p.Vehicles {
		path := fmt.Sprintf("vehicles[%d]", i)
		if err := requirePositive(path+".daily_rate", v.DailyRate); err != nil {
			return Result{}, err
		}
		if err := requirePositive(path+".activation_fee", v.ActivationFee); err != nil {
			return Result{}, err
		}

		entry, cataloged := e.catalog.Vehicles[v.Code]
		if !cataloged {
			switch {
			case v.DailyRate == nil:
				return Result{}, domain.InvalidParameter(path+".daily_rate", "uncatalogued vehicle requires daily_rate")
			case v.ActivationFee == nil:
				return Result{}, domain.InvalidParameter(path+".activation_fee", "uncatalogued vehicle requires activation_fee")
			case v.Group == "":
				return Result{}, domain.InvalidParameter(path+".group", "uncatalogued vehicle requires group")
			}
		}
		group := domain.CoalesceStr(v.Group, entry.Group)
		if !vehicleGroups[group] {
			return Result{}, domain.InvalidParameter(path+".group", "must be one of [A B C]")
		}
		label := domain.CoalesceStr(v.Description, entry.Description, v.Code)
		if label == "" {
			return Result{}, domain.InvalidParameter(path+".description", "code or description is required")
		}

		rate := domain.DecimalFromPtrWithDefault(entry.DailyRate, v.DailyRate)
		fee := domain.DecimalFromPtrWithDefault(entry.ActivationFee, v.ActivationFee)
		cycles := ceilDiv(v.DaysUsed, cycleDays)

		perUnit := round2(rate.Mul(decimal.NewFromInt(int64(v.DaysUsed)))).
			Add(round2(fee.Mul(decimal.NewFromInt(int64(cycles)))))
		amount := round2(perUnit.Mul(decimal.NewFromInt(int64(v.Quantity))))
		t.add(fmt.Sprintf("%s (grupo %s)", label, group), amount,
			fmt.Sprintf("(%d dias × %s + %d ativação(ões) × %s) × %s",
				v.DaysUsed, t.money(rate), cycles, t.money(fee), t.count(v.Quantity)))
	}
	return t.result(), nil
}
