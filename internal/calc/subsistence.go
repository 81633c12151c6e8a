package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

const (
	maxEtapeDays      = 8
	maxReferences     = 3
	maxComplementDays = 30
	cycleDays         = 30
)

// ApplyOperationDefaults fills headcount and operation length from the
// operation when the payload leaves them unset.
func (p *SubsistenceParams) ApplyOperationDefaults(headcount, operationDays int) {
	if p.Headcount == 0 {
		p.Headcount = headcount
	}
	if p.OperationDays == 0 {
		p.OperationDays = operationDays
	}
}

func (e *Engine) subsistence(p *SubsistenceParams) (Result, error) {
	ration, ok := e.catalog.Rations[p.RationTier]
	if !ok {
		return Result{}, domain.InvalidParameter("ration_tier", fmt.Sprintf("no rate catalogued for tier %s", p.RationTier))
	}

	etapeDays := min(p.EtapeDays, maxEtapeDays)
	refs := min(p.ReferenceCount, maxReferences)
	complementDays := min(p.ComplementDays, maxComplementDays)
	hasReferences := refs > 0 && complementDays > 0
	if etapeDays == 0 && !hasReferences {
		return Result{}, domain.InvalidParameter("etape_days",
			"either etape_days or reference_count with complement_days is required")
	}

	cycles := 1
	if p.OperationDays > cycleDays {
		cycles = ceilDiv(p.OperationDays, cycleDays)
	}

	t := newTracer(domain.ClassI)
	headcount := decimal.NewFromInt(int64(p.Headcount))
	t.note("Efetivo: %s militares, etapa %s de %s por dia", t.count(p.Headcount), p.RationTier, t.money(ration))
	if p.EtapeDays > maxEtapeDays {
		t.note("Dias de etapa limitados a %d (informado: %d)", maxEtapeDays, p.EtapeDays)
	}
	if p.ReferenceCount > maxReferences {
		t.note("Referências limitadas a %d (informado: %d)", maxReferences, p.ReferenceCount)
	}
	if p.ComplementDays > maxComplementDays {
		t.note("Dias de complemento limitados a %d (informado: %d)", maxComplementDays, p.ComplementDays)
	}

	if etapeDays > 0 {
		amount := round2(headcount.
			Mul(ration).
			Mul(decimal.NewFromInt(int64(etapeDays))).
			Mul(decimal.NewFromInt(int64(cycles))))
		t.add("Etapa", amount, fmt.Sprintf("%s × %s × %d dias × %d ciclo(s)",
			t.count(p.Headcount), t.money(ration), etapeDays, cycles))
	}

	if hasReferences {
		perReference := ration.Div(decimal.NewFromInt(3))
		amount := round2(headcount.
			Mul(decimal.NewFromInt(int64(refs))).
			Mul(perReference).
			Mul(decimal.NewFromInt(int64(complementDays))))
		t.add("Referências intermediárias", amount, fmt.Sprintf("%s × %d ref. × %s × %d dias",
			t.count(p.Headcount), refs, t.money(round2(perReference)), complementDays))
	}

	return t.result(), nil
}
