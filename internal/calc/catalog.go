package calc

import "github.com/shopspring/decimal"

// Rate is a catalogued unit price.
type Rate struct {
	Description string
	Value       decimal.Decimal
}

// VehicleRate holds the maintenance tariff of a vehicle model.
type VehicleRate struct {
	Description   string
	Group         string
	DailyRate     decimal.Decimal
	ActivationFee decimal.Decimal
}

// Catalog holds the reference prices the formulas look up by code.
type Catalog struct {
	Rations     map[string]decimal.Decimal
	Maintenance map[string]Rate // class II, per item per day
	Electronics map[string]Rate // class VII, per item per day
	HealthKits  map[string]Rate // class VIII, per kit
	Vehicles    map[string]VehicleRate
}

// Vehicle group tiers accepted for uncatalogued vehicles.
var vehicleGroups = map[string]bool{"A": true, "B": true, "C": true}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultCatalog returns the reference table in force.
func DefaultCatalog() Catalog {
	return Catalog{
		Rations: map[string]decimal.Decimal{
			RationQR: dec("14.40"),
			RationQS: dec("9.60"),
		},
		Maintenance: map[string]Rate{
			"INDIVIDUAL_KIT":   {Description: "Equipamento individual", Value: dec("1.50")},
			"BALLISTIC_VEST":   {Description: "Colete balístico", Value: dec("2.80")},
			"BALLISTIC_HELMET": {Description: "Capacete balístico", Value: dec("1.20")},
			"TENT":             {Description: "Barraca", Value: dec("4.50")},
			"BUNK":             {Description: "Beliche", Value: dec("0.90")},
			"LOCKER":           {Description: "Armário", Value: dec("0.60")},
		},
		Electronics: map[string]Rate{
			"RADIO_HF":  {Description: "Rádio HF", Value: dec("12.00")},
			"RADIO_VHF": {Description: "Rádio VHF", Value: dec("6.50")},
			"GPS":       {Description: "Receptor GPS", Value: dec("3.20")},
			"NOTEBOOK":  {Description: "Notebook", Value: dec("5.00")},
			"SATPHONE":  {Description: "Telefone satelital", Value: dec("18.00")},
		},
		HealthKits: map[string]Rate{
			"KIT_APH":        {Description: "Kit de atendimento pré-hospitalar", Value: dec("180.00")},
			"KIT_INDIVIDUAL": {Description: "Kit individual de primeiros socorros", Value: dec("45.00")},
			"KIT_TRAUMA":     {Description: "Kit de trauma", Value: dec("320.00")},
		},
		Vehicles: map[string]VehicleRate{
			"VTL":         {Description: "Viatura tática leve", Group: "A", DailyRate: dec("46.00"), ActivationFee: dec("400.00")},
			"VTNE":        {Description: "Viatura de transporte não especializada", Group: "A", DailyRate: dec("38.00"), ActivationFee: dec("350.00")},
			"CAMINHAO_5T": {Description: "Caminhão 5 t", Group: "B", DailyRate: dec("92.00"), ActivationFee: dec("750.00")},
			"VBTP":        {Description: "Viatura blindada de transporte de pessoal", Group: "C", DailyRate: dec("210.00"), ActivationFee: dec("1800.00")},
		},
	}
}
