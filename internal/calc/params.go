package calc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

// Params is the parameter payload of one expense class. The concrete type
// selects the formula.
type Params interface {
	Class() domain.ExpenseClass
}

// Ration tiers for class I.
const (
	RationQR = "QR"
	RationQS = "QS"
)

// SubsistenceParams prices class I. Étape days, reference count and
// complement days above their caps are clamped, not rejected. Day counts
// that drive a multiplication are capped at ten years.
type SubsistenceParams struct {
	RationTier     string `json:"ration_tier" validate:"required,oneof=QR QS"`
	Headcount      int    `json:"headcount" validate:"gt=0"`
	EtapeDays      int    `json:"etape_days" validate:"gte=0"`
	ReferenceCount int    `json:"reference_count" validate:"gte=0"`
	ComplementDays int    `json:"complement_days" validate:"gte=0"`
	OperationDays  int    `json:"operation_days,omitempty" validate:"gte=0,lte=3650"`
}

type MaintenanceItem struct {
	Category string `json:"category" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Days     int    `json:"days" validate:"gt=0,lte=3650"`
}

// MaintenanceParams prices class II.
type MaintenanceParams struct {
	Items []MaintenanceItem `json:"items" validate:"required,min=1,dive"`
}

// FuelParams prices class III. Distance mode applies when DistanceKm is set,
// otherwise Days × DailyLiters.
type FuelParams struct {
	FuelType              string          `json:"fuel_type" validate:"required,oneof=DIESEL GASOLINE AVIATION"`
	DistanceKm            decimal.Decimal `json:"distance_km"`
	ConsumptionKmPerLiter decimal.Decimal `json:"consumption_km_per_liter"`
	Days                  int             `json:"days,omitempty" validate:"gte=0,lte=3650"`
	DailyLiters           decimal.Decimal `json:"daily_liters"`
	PricePerLiter         decimal.Decimal `json:"price_per_liter" validate:"positive_decimal"`
}

type PricedItem struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"positive_decimal"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"positive_decimal"`
}

// ConstructionParams prices class IV.
type ConstructionParams struct {
	Items []PricedItem `json:"items" validate:"required,min=1,dive"`
}

type MunitionItem struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"positive_decimal"`
}

type WeaponItem struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	AssetValue  decimal.Decimal `json:"asset_value" validate:"positive_decimal"`
}

// MunitionsParams prices class V. At least one of the two lists is required.
type MunitionsParams struct {
	Munitions []MunitionItem `json:"munitions,omitempty" validate:"dive"`
	Weapons   []WeaponItem   `json:"weapons,omitempty" validate:"dive"`
}

type EquipmentItem struct {
	Description string          `json:"description" validate:"required"`
	HourlyRate  decimal.Decimal `json:"hourly_rate" validate:"positive_decimal"`
	Hours       decimal.Decimal `json:"hours" validate:"positive_decimal"`
}

// EngineeringParams prices class VI.
type EngineeringParams struct {
	Equipment []EquipmentItem `json:"equipment" validate:"required,min=1,dive"`
}

type ElectronicItem struct {
	Code        string           `json:"code,omitempty"`
	Description string           `json:"description,omitempty"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	DaysUsed    int              `json:"days_used" validate:"gt=0,lte=3650"`
	DailyRate   *decimal.Decimal `json:"daily_rate,omitempty"`
}

// ElectronicsParams prices class VII.
type ElectronicsParams struct {
	Items []ElectronicItem `json:"items" validate:"required,min=1,dive"`
}

type HealthKitItem struct {
	Code        string           `json:"code,omitempty"`
	Description string           `json:"description,omitempty"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
}

// HealthParams prices class VIII.
type HealthParams struct {
	Kits []HealthKitItem `json:"kits" validate:"required,min=1,dive"`
}

type VehicleItem struct {
	Code          string           `json:"code,omitempty"`
	Description   string           `json:"description,omitempty"`
	Quantity      int              `json:"quantity" validate:"gt=0"`
	DaysUsed      int              `json:"days_used" validate:"gt=0,lte=3650"`
	DailyRate     *decimal.Decimal `json:"daily_rate,omitempty"`
	ActivationFee *decimal.Decimal `json:"activation_fee,omitempty"`
	Group         string           `json:"group,omitempty"`
}

// VehicleParams prices class IX.
type VehicleParams struct {
	Vehicles []VehicleItem `json:"vehicles" validate:"required,min=1,dive"`
}

type UncatalogedItem struct {
	Description   string          `json:"description" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity" validate:"positive_decimal"`
	Unit          string          `json:"unit,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"positive_decimal"`
	Justification string          `json:"justification" validate:"required"`
}

// UncatalogedParams prices class X.
type UncatalogedParams struct {
	Items []UncatalogedItem `json:"items" validate:"required,min=1,dive"`
}

func (*SubsistenceParams) Class() domain.ExpenseClass  { return domain.ClassI }
func (*MaintenanceParams) Class() domain.ExpenseClass  { return domain.ClassII }
func (*FuelParams) Class() domain.ExpenseClass         { return domain.ClassIII }
func (*ConstructionParams) Class() domain.ExpenseClass { return domain.ClassIV }
func (*MunitionsParams) Class() domain.ExpenseClass    { return domain.ClassV }
func (*EngineeringParams) Class() domain.ExpenseClass  { return domain.ClassVI }
func (*ElectronicsParams) Class() domain.ExpenseClass  { return domain.ClassVII }
func (*HealthParams) Class() domain.ExpenseClass       { return domain.ClassVIII }
func (*VehicleParams) Class() domain.ExpenseClass      { return domain.ClassIX }
func (*UncatalogedParams) Class() domain.ExpenseClass  { return domain.ClassX }

// New returns an empty parameter value for class.
func New(class domain.ExpenseClass) (Params, error) {
	switch class {
	case domain.ClassI:
		return &SubsistenceParams{}, nil
	case domain.ClassII:
		return &MaintenanceParams{}, nil
	case domain.ClassIII:
		return &FuelParams{}, nil
	case domain.ClassIV:
		return &ConstructionParams{}, nil
	case domain.ClassV:
		return &MunitionsParams{}, nil
	case domain.ClassVI:
		return &EngineeringParams{}, nil
	case domain.ClassVII:
		return &ElectronicsParams{}, nil
	case domain.ClassVIII:
		return &HealthParams{}, nil
	case domain.ClassIX:
		return &VehicleParams{}, nil
	case domain.ClassX:
		return &UncatalogedParams{}, nil
	default:
		return nil, domain.NotFound("expense_class", string(class))
	}
}

// Decode parses a JSON payload into the parameter type of class. Unknown
// fields are rejected.
func Decode(class domain.ExpenseClass, raw []byte) (Params, error) {
	p, err := New(class)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, domain.InvalidParameter("params", "parameters are required")
	}
	jd := json.NewDecoder(bytes.NewReader(raw))
	jd.DisallowUnknownFields()
	if err := jd.Decode(p); err != nil {
		return nil, decodeError(err)
	}
	return p, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.InvalidParameter(typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	}
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		return domain.InvalidParameter(strings.Trim(name, `"`), "unknown field")
	}
	return domain.InvalidParameter("params", fmt.Sprintf("malformed parameters: %s", msg))
}

// Encode renders p as the canonical JSON stored on the expense.
func Encode(p Params) (json.RawMessage, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %s parameters: %w", p.Class(), err)
	}
	return raw, nil
}
