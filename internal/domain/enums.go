package domain

type OrgKind string

const (
	OrgCompany   OrgKind = "company"
	OrgBattalion OrgKind = "battalion"
	OrgBrigade   OrgKind = "brigade"
	OrgCommand   OrgKind = "command"
	OrgRoot      OrgKind = "root"
)

// ValidOrgKinds is the canonical set of accepted org kind strings.
var ValidOrgKinds = map[string]bool{
	"company": true, "battalion": true, "brigade": true,
	"command": true, "root": true,
}

type PlanStatus string

const (
	PlanDraft    PlanStatus = "DRAFT"
	PlanInReview PlanStatus = "IN_REVIEW"
	PlanApproved PlanStatus = "APPROVED"
	PlanRejected PlanStatus = "REJECTED"
)

type DecisionAction string

const (
	ActionApprove DecisionAction = "APPROVE"
	ActionReject  DecisionAction = "REJECT"
)

// ExpenseClass tags one of the ten expense categories.
type ExpenseClass string

const (
	ClassI    ExpenseClass = "I"
	ClassII   ExpenseClass = "II"
	ClassIII  ExpenseClass = "III"
	ClassIV   ExpenseClass = "IV"
	ClassV    ExpenseClass = "V"
	ClassVI   ExpenseClass = "VI"
	ClassVII  ExpenseClass = "VII"
	ClassVIII ExpenseClass = "VIII"
	ClassIX   ExpenseClass = "IX"
	ClassX    ExpenseClass = "X"
)

// AllExpenseClasses lists the classes in catalogue order.
var AllExpenseClasses = []ExpenseClass{
	ClassI, ClassII, ClassIII, ClassIV, ClassV,
	ClassVI, ClassVII, ClassVIII, ClassIX, ClassX,
}

var expenseClassLabels = map[ExpenseClass]string{
	ClassI:    "Subsistência",
	ClassII:   "Manutenção individual, balística e de acantonamento",
	ClassIII:  "Combustíveis",
	ClassIV:   "Material de construção",
	ClassV:    "Munição e armamento",
	ClassVI:   "Equipamento de engenharia",
	ClassVII:  "Equipamento eletrônico",
	ClassVIII: "Material de saúde",
	ClassIX:   "Manutenção de viaturas",
	ClassX:    "Material não catalogado",
}

// Valid reports whether c is one of the ten known classes.
func (c ExpenseClass) Valid() bool {
	_, ok := expenseClassLabels[c]
	return ok
}

// Label returns the compliance label used in calculation traces.
func (c ExpenseClass) Label() string {
	return expenseClassLabels[c]
}

// ShareDimension distinguishes the two apportionment axes of an expense.
type ShareDimension string

const (
	DimensionOrg    ShareDimension = "org"
	DimensionNature ShareDimension = "nature"
)
