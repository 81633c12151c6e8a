// Package hierarchy walks the organisation tree to build approval chains.
package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/workplan/internal/domain"
)

// OrgLookup resolves a single org unit by id. Implementations return an error
// wrapping domain.ErrNotFound for unknown ids.
type OrgLookup interface {
	GetByID(ctx context.Context, id string) (*domain.OrgUnit, error)
}

// ChildLister lists the direct children of an org unit.
type ChildLister interface {
	ListChildren(ctx context.Context, parentID string) ([]*domain.OrgUnit, error)
}

// ResolveChain walks from leafID up to the root. Level 1 is the leaf itself.
// A parent that does not resolve or an id seen twice fails with
// domain.ErrCorruptHierarchy.
func ResolveChain(ctx context.Context, lookup OrgLookup, leafID string) ([]domain.ChainEntry, error) {
	leaf, err := lookup.GetByID(ctx, leafID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("org_unit", leafID)
		}
		return nil, fmt.Errorf("resolving org %s: %w", leafID, err)
	}

	visited := map[string]bool{}
	var chain []domain.ChainEntry
	for cur := leaf; ; {
		if visited[cur.ID] {
			return nil, domain.NewFieldError(domain.ErrCorruptHierarchy, "parent_id",
				fmt.Sprintf("cycle detected at org %s while resolving %s", cur.ID, leafID))
		}
		visited[cur.ID] = true
		chain = append(chain, domain.ChainEntry{
			Level:        len(chain) + 1,
			OrgID:        cur.ID,
			Designation:  cur.Designation,
			Abbreviation: cur.Abbreviation,
			Kind:         cur.Kind,
		})
		if cur.IsRoot() {
			return chain, nil
		}

		parentID := *cur.ParentID
		parent, err := lookup.GetByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewFieldError(domain.ErrCorruptHierarchy, "parent_id",
					fmt.Sprintf("org %s references missing parent %s", cur.ID, parentID))
			}
			return nil, fmt.Errorf("resolving parent %s: %w", parentID, err)
		}
		cur = parent
	}
}

// Descendants returns rootID's subtree in breadth-first order, root excluded.
func Descendants(ctx context.Context, lister ChildLister, rootID string) ([]*domain.OrgUnit, error) {
	visited := map[string]bool{rootID: true}
	queue := []string{rootID}
	var out []*domain.OrgUnit
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		children, err := lister.ListChildren(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("listing children of %s: %w", id, err)
		}
		for _, c := range children {
			if visited[c.ID] {
				return nil, domain.NewFieldError(domain.ErrCorruptHierarchy, "parent_id",
					fmt.Sprintf("org %s reached twice below %s", c.ID, rootID))
			}
			visited[c.ID] = true
			out = append(out, c)
			queue = append(queue, c.ID)
		}
	}
	return out, nil
}
