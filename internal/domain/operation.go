package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Operation struct {
	ID           string
	OwnerOrgID   string
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	Headcount    int
	Participants []ParticipatingOrg
	CreatedAt    time.Time
}

// ParticipatingOrg is an org taking part in an operation under a spending ceiling.
type ParticipatingOrg struct {
	OrgID   string
	Ceiling decimal.Decimal
}

// Days returns the inclusive day span of the operation.
func (o *Operation) Days() int {
	if o.EndDate.Before(o.StartDate) {
		return 0
	}
	return int(o.EndDate.Sub(o.StartDate).Hours()/24) + 1
}

// Ceiling returns the ceiling declared for orgID and whether the org participates.
func (o *Operation) Ceiling(orgID string) (decimal.Decimal, bool) {
	for _, p := range o.Participants {
		if p.OrgID == orgID {
			return p.Ceiling, true
		}
	}
	return decimal.Zero, false
}
