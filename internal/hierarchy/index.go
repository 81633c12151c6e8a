package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/workplan/internal/domain"
)

// Index is an in-memory org table keyed by id. It satisfies OrgLookup and
// ChildLister so the resolver can run against data not yet persisted.
type Index struct {
	units    map[string]*domain.OrgUnit
	children map[string][]string
}

// NewIndex builds an Index. Duplicate ids fail with domain.ErrDuplicateKey.
func NewIndex(units []*domain.OrgUnit) (*Index, error) {
	idx := &Index{
		units:    make(map[string]*domain.OrgUnit, len(units)),
		children: make(map[string][]string),
	}
	for _, u := range units {
		if _, dup := idx.units[u.ID]; dup {
			return nil, domain.NewFieldError(domain.ErrDuplicateKey, "id", fmt.Sprintf("org %s declared twice", u.ID))
		}
		idx.units[u.ID] = u
		if !u.IsRoot() {
			idx.children[*u.ParentID] = append(idx.children[*u.ParentID], u.ID)
		}
	}
	for _, ids := range idx.children {
		sort.Strings(ids)
	}
	return idx, nil
}

func (i *Index) GetByID(_ context.Context, id string) (*domain.OrgUnit, error) {
	u, ok := i.units[id]
	if !ok {
		return nil, domain.NotFound("org_unit", id)
	}
	return u, nil
}

func (i *Index) ListChildren(_ context.Context, parentID string) ([]*domain.OrgUnit, error) {
	ids := i.children[parentID]
	out := make([]*domain.OrgUnit, 0, len(ids))
	for _, id := range ids {
		out = append(out, i.units[id])
	}
	return out, nil
}

// Roots returns the ids of all parentless units, sorted.
func (i *Index) Roots() []string {
	var roots []string
	for id, u := range i.units {
		if u.IsRoot() {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Len returns the number of units in the index.
func (i *Index) Len() int {
	return len(i.units)
}

// CheckTree verifies the table forms a single-rooted acyclic tree: exactly
// one root, every parent resolvable, every unit reaching the root.
func (i *Index) CheckTree(ctx context.Context) error {
	roots := i.Roots()
	switch {
	case len(roots) == 0 && len(i.units) > 0:
		return domain.NewFieldError(domain.ErrCorruptHierarchy, "parent_id", "no root org unit")
	case len(roots) > 1:
		return domain.NewFieldError(domain.ErrCorruptHierarchy, "parent_id",
			fmt.Sprintf("multiple root org units: %v", roots))
	}
	ids := make([]string, 0, len(i.units))
	for id := range i.units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := ResolveChain(ctx, i, id); err != nil {
			return err
		}
	}
	return nil
}
