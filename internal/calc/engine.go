// Package calc prices expense lines. Each expense class has one pure
// formula; Engine dispatches on the concrete Params type.
package calc

import (
	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/workplan/internal/domain"
)

// Engine prices expenses against a catalog. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	catalog  Catalog
	validate *validator.Validate
}

// NewEngine creates an Engine over the given catalog.
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog, validate: newValidator()}
}

// Catalog returns the reference prices used by the engine.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Calculate validates p and applies the formula of its class. Every line is
// rounded to cents as it is computed and the total is the sum of the
// rounded lines.
func (e *Engine) Calculate(p Params) (Result, error) {
	if p == nil {
		return Result{}, domain.InvalidParameter("params", "parameters are required")
	}
	if err := e.validate.Struct(p); err != nil {
		return Result{}, toDomainError(err)
	}

	switch v := p.(type) {
	case *SubsistenceParams:
		return e.subsistence(v)
	case *MaintenanceParams:
		return e.maintenance(v)
	case *FuelParams:
		return e.fuel(v)
	case *ConstructionParams:
		return e.construction(v)
	case *MunitionsParams:
		return e.munitions(v)
	case *EngineeringParams:
		return e.engineering(v)
	case *ElectronicsParams:
		return e.electronics(v)
	case *HealthParams:
		return e.health(v)
	case *VehicleParams:
		return e.vehicles(v)
	case *UncatalogedParams:
		return e.uncataloged(v)
	default:
		return Result{}, domain.NotFound("expense_class", string(p.Class()))
	}
}

// CalculateRaw decodes a JSON payload for class and prices it.
func (e *Engine) CalculateRaw(class domain.ExpenseClass, raw []byte) (Params, Result, error) {
	p, err := Decode(class, raw)
	if err != nil {
		return nil, Result{}, err
	}
	res, err := e.Calculate(p)
	if err != nil {
		return nil, Result{}, err
	}
	return p, res, nil
}
