package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

// Provisioned holds domain objects ready for persistence. OrgUnits are
// ordered so that every parent precedes its children.
type Provisioned struct {
	OrgUnits   []*domain.OrgUnit
	Operations []*domain.Operation
}

// Convert transforms a validated ProvisioningFile into domain objects.
// Call ValidateProvisioning first; Convert assumes the file is valid.
func Convert(file *ProvisioningFile, now time.Time) (*Provisioned, error) {
	units := make([]*domain.OrgUnit, 0, len(file.OrgUnits))
	for _, u := range file.OrgUnits {
		units = append(units, toOrgUnit(u, now))
	}
	ordered, err := parentsFirst(units)
	if err != nil {
		return nil, err
	}

	ops := make([]*domain.Operation, 0, len(file.Operations))
	for _, o := range file.Operations {
		op, err := toOperation(o, now)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return &Provisioned{OrgUnits: ordered, Operations: ops}, nil
}

func toOrgUnit(u OrgUnitImport, now time.Time) *domain.OrgUnit {
	o := &domain.OrgUnit{
		ID:           u.ID,
		Designation:  u.Designation,
		Abbreviation: domain.CoalesceStr(u.Abbreviation, u.ID),
		Kind:         domain.OrgKind(u.Kind),
		BudgetCode:   u.BudgetCode,
		CreatedAt:    now,
	}
	if u.Parent != "" {
		parent := u.Parent
		o.ParentID = &parent
	}
	return o
}

func toOperation(o OperationImport, now time.Time) (*domain.Operation, error) {
	start, err := time.Parse(dateLayout, o.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date of %q: %w", o.Name, err)
	}
	end, err := time.Parse(dateLayout, o.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parsing end_date of %q: %w", o.Name, err)
	}

	op := &domain.Operation{
		ID:         domain.CoalesceStr(o.ID, uuid.New().String()),
		OwnerOrgID: o.Owner,
		Name:       o.Name,
		StartDate:  start,
		EndDate:    end,
		Headcount:  o.Headcount,
		CreatedAt:  now,
	}
	for _, p := range o.Participants {
		ceiling, err := decimal.NewFromString(p.Ceiling)
		if err != nil {
			return nil, fmt.Errorf("parsing ceiling of %s in %q: %w", p.Org, o.Name, err)
		}
		op.Participants = append(op.Participants, domain.ParticipatingOrg{OrgID: p.Org, Ceiling: ceiling})
	}
	return op, nil
}

// parentsFirst orders units so each one follows its parent. Parents outside
// the slice are assumed to be stored already.
func parentsFirst(units []*domain.OrgUnit) ([]*domain.OrgUnit, error) {
	pending := make(map[string]bool, len(units))
	for _, u := range units {
		pending[u.ID] = true
	}

	ordered := make([]*domain.OrgUnit, 0, len(units))
	for len(ordered) < len(units) {
		progressed := false
		for _, u := range units {
			if !pending[u.ID] {
				continue
			}
			if !u.IsRoot() && pending[*u.ParentID] {
				continue
			}
			ordered = append(ordered, u)
			delete(pending, u.ID)
			progressed = true
		}
		if !progressed {
			return nil, domain.NewFieldError(domain.ErrCorruptHierarchy, "parent_id",
				fmt.Sprintf("%d org units form a cycle", len(pending)))
		}
	}
	return ordered, nil
}
