package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/hierarchy"
)

const dateLayout = "2006-01-02"

// ValidateProvisioning checks the file against itself and the units already
// stored. Returns every problem found rather than stopping at the first.
func ValidateProvisioning(file *ProvisioningFile, existing []*domain.OrgUnit) []error {
	var errs []error

	known := make(map[string]bool, len(existing)+len(file.OrgUnits))
	for _, o := range existing {
		known[o.ID] = true
	}

	unitErrs, fileUnits := validateOrgUnits(file.OrgUnits, known)
	errs = append(errs, unitErrs...)
	if len(unitErrs) == 0 {
		errs = append(errs, validateTree(existing, fileUnits)...)
	}

	errs = append(errs, validateOperations(file.Operations, known)...)
	return errs
}

func validateOrgUnits(units []OrgUnitImport, known map[string]bool) ([]error, []*domain.OrgUnit) {
	var errs []error
	var out []*domain.OrgUnit

	for i, u := range units {
		prefix := fmt.Sprintf("org_units[%d]", i)

		if u.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if known[u.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, u.ID))
		} else {
			known[u.ID] = true
		}
		if u.Designation == "" {
			errs = append(errs, fmt.Errorf("%s.designation is required", prefix))
		}
		if u.Abbreviation == "" {
			errs = append(errs, fmt.Errorf("%s.abbreviation is required", prefix))
		}
		if !domain.ValidOrgKinds[u.Kind] {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, u.Kind))
		}
		if u.Parent != "" && u.Parent == u.ID {
			errs = append(errs, fmt.Errorf("%s.parent: unit %q cannot be its own parent", prefix, u.ID))
		}
		out = append(out, toOrgUnit(u, time.Time{}))
	}

	// Parents may appear later in the file, so check them once every id is known.
	for i, u := range units {
		if u.Parent != "" && !known[u.Parent] {
			errs = append(errs, fmt.Errorf("org_units[%d].parent: unknown org unit %q", i, u.Parent))
		}
	}
	return errs, out
}

// validateTree checks the combined stored and imported units still form a
// single-rooted tree with no cycles.
func validateTree(existing, imported []*domain.OrgUnit) []error {
	all := make([]*domain.OrgUnit, 0, len(existing)+len(imported))
	all = append(all, existing...)
	all = append(all, imported...)
	if len(all) == 0 {
		return nil
	}

	idx, err := hierarchy.NewIndex(all)
	if err != nil {
		return []error{fmt.Errorf("org_units: %w", err)}
	}
	if err := idx.CheckTree(context.Background()); err != nil {
		return []error{fmt.Errorf("org_units: %w", err)}
	}
	return nil
}

func validateOperations(ops []OperationImport, orgs map[string]bool) []error {
	var errs []error
	ids := make(map[string]bool)

	for i, op := range ops {
		prefix := fmt.Sprintf("operations[%d]", i)

		if op.ID != "" {
			if ids[op.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, op.ID))
			}
			ids[op.ID] = true
		}
		if op.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if op.Owner == "" {
			errs = append(errs, fmt.Errorf("%s.owner is required", prefix))
		} else if !orgs[op.Owner] {
			errs = append(errs, fmt.Errorf("%s.owner: unknown org unit %q", prefix, op.Owner))
		}
		if op.Headcount < 0 {
			errs = append(errs, fmt.Errorf("%s.headcount must not be negative", prefix))
		}

		start, startErr := parseDate(prefix+".start_date", op.StartDate)
		end, endErr := parseDate(prefix+".end_date", op.EndDate)
		if startErr != nil {
			errs = append(errs, startErr)
		}
		if endErr != nil {
			errs = append(errs, endErr)
		}
		if startErr == nil && endErr == nil && end.Before(start) {
			errs = append(errs, fmt.Errorf("%s.end_date %q must not be before start_date %q", prefix, op.EndDate, op.StartDate))
		}

		seen := make(map[string]bool)
		for j, p := range op.Participants {
			pp := fmt.Sprintf("%s.participants[%d]", prefix, j)
			switch {
			case p.Org == "":
				errs = append(errs, fmt.Errorf("%s.org is required", pp))
			case !orgs[p.Org]:
				errs = append(errs, fmt.Errorf("%s.org: unknown org unit %q", pp, p.Org))
			case seen[p.Org]:
				errs = append(errs, fmt.Errorf("%s.org: duplicate participant %q", pp, p.Org))
			}
			seen[p.Org] = true

			ceiling, err := decimal.NewFromString(p.Ceiling)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.ceiling: invalid amount %q", pp, p.Ceiling))
			} else if !ceiling.IsPositive() {
				errs = append(errs, fmt.Errorf("%s.ceiling must be positive", pp))
			}
		}
	}
	return errs
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)
	}
	return t, nil
}
