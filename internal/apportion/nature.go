package apportion

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/workplan/internal/domain"
)

// Expense-nature codes of the federal budget classification.
const (
	NatureConsumption     = "33.90.30"
	NatureServicesCompany = "33.90.39"
	NatureServicesPerson  = "33.90.36"
	NaturePermanentEquip  = "44.90.52"
)

var natureLabels = map[string]string{
	NatureConsumption:     "Material de consumo",
	NatureServicesCompany: "Outros serviços de terceiros - pessoa jurídica",
	NatureServicesPerson:  "Outros serviços de terceiros - pessoa física",
	NaturePermanentEquip:  "Equipamentos e material permanente",
}

var permittedNatures = map[domain.ExpenseClass][]string{
	domain.ClassI:    {NatureConsumption, NatureServicesCompany},
	domain.ClassII:   {NatureConsumption, NatureServicesCompany},
	domain.ClassIII:  {NatureConsumption, NatureServicesCompany},
	domain.ClassIV:   {NatureConsumption, NatureServicesCompany},
	domain.ClassV:    {NatureConsumption, NatureServicesCompany},
	domain.ClassVI:   {NatureServicesCompany, NatureServicesPerson},
	domain.ClassVII:  {NatureConsumption, NatureServicesCompany, NatureServicesPerson},
	domain.ClassVIII: {NatureConsumption, NatureServicesCompany},
	domain.ClassIX:   {NatureConsumption, NatureServicesCompany, NatureServicesPerson},
	domain.ClassX:    {NatureConsumption, NatureServicesCompany, NatureServicesPerson, NaturePermanentEquip},
}

// PermittedNatures returns the nature codes an expense of class may be split across.
func PermittedNatures(class domain.ExpenseClass) []string {
	return append([]string(nil), permittedNatures[class]...)
}

// NatureLabel returns the description of a nature code, or "" if unknown.
func NatureLabel(code string) string {
	return natureLabels[code]
}

// ValidateNatureShares runs the share checks and additionally rejects codes
// the class does not permit.
func ValidateNatureShares(class domain.ExpenseClass, shares []domain.Share) error {
	allowed, ok := permittedNatures[class]
	if !ok {
		return domain.NotFound("expense_class", string(class))
	}
	for i, s := range shares {
		if !contains(allowed, s.Key) {
			return domain.NewFieldError(domain.ErrOutOfRange, fmt.Sprintf("nature_shares[%d].key", i),
				fmt.Sprintf("nature %s not permitted for class %s (allowed: %s)", s.Key, class, strings.Join(allowed, ", ")))
		}
	}
	return validate("nature_shares", shares)
}

// DefaultNatureShares puts the whole amount on the first permitted code.
func DefaultNatureShares(class domain.ExpenseClass) []domain.Share {
	allowed := permittedNatures[class]
	if len(allowed) == 0 {
		return nil
	}
	return Single(allowed[0])
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
