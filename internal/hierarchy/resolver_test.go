package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func unit(id string, parent string) *domain.OrgUnit {
	u := &domain.OrgUnit{ID: id, Designation: "Unidade " + id, Abbreviation: id, Kind: domain.OrgCompany}
	if parent != "" {
		u.ParentID = strPtr(parent)
	}
	return u
}

func mustIndex(t *testing.T, units ...*domain.OrgUnit) *Index {
	t.Helper()
	idx, err := NewIndex(units)
	require.NoError(t, err)
	return idx
}

// randomTree builds n units where each non-root unit points to a random
// earlier unit, so the result is always an acyclic single-rooted tree.
func randomTree(rng *rand.Rand, n int) []*domain.OrgUnit {
	units := []*domain.OrgUnit{unit("u0", "")}
	for i := 1; i < n; i++ {
		parent := units[rng.Intn(i)].ID
		units = append(units, unit(fmt.Sprintf("u%d", i), parent))
	}
	return units
}

func TestResolveChain_LeafToRoot(t *testing.T) {
	idx := mustIndex(t,
		unit("cmd", ""),
		unit("bda", "cmd"),
		unit("btl", "bda"),
		unit("cia", "btl"),
	)
	chain, err := ResolveChain(context.Background(), idx, "cia")
	require.NoError(t, err)
	require.Len(t, chain, 4)

	var ids []string
	for _, e := range chain {
		ids = append(ids, e.OrgID)
	}
	assert.Equal(t, []string{"cia", "btl", "bda", "cmd"}, ids)
	assert.Equal(t, 1, chain[0].Level)
	assert.Equal(t, 4, chain[3].Level)
	assert.Equal(t, "Unidade cia", chain[0].Designation)
}

func TestResolveChain_RootIsSingleLevel(t *testing.T) {
	idx := mustIndex(t, unit("cmd", ""))
	chain, err := ResolveChain(context.Background(), idx, "cmd")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, 1, chain[0].Level)
}

func TestResolveChain_UnknownStart(t *testing.T) {
	idx := mustIndex(t, unit("cmd", ""))
	_, err := ResolveChain(context.Background(), idx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveChain_MissingParent(t *testing.T) {
	idx := mustIndex(t, unit("cia", "ghost"))
	_, err := ResolveChain(context.Background(), idx, "cia")
	assert.ErrorIs(t, err, domain.ErrCorruptHierarchy)
}

func TestResolveChain_Cycle(t *testing.T) {
	idx := mustIndex(t,
		unit("a", "b"),
		unit("b", "c"),
		unit("c", "a"),
	)
	_, err := ResolveChain(context.Background(), idx, "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCorruptHierarchy))
	assert.Equal(t, "parent_id", domain.FieldOf(err))
}

func TestResolveChain_SelfParent(t *testing.T) {
	idx := mustIndex(t, unit("a", "a"))
	_, err := ResolveChain(context.Background(), idx, "a")
	assert.ErrorIs(t, err, domain.ErrCorruptHierarchy)
}

type failingLookup struct{}

func (failingLookup) GetByID(context.Context, string) (*domain.OrgUnit, error) {
	return nil, errors.New("disk on fire")
}

func TestResolveChain_InfrastructureErrorPassesThrough(t *testing.T) {
	_, err := ResolveChain(context.Background(), failingLookup{}, "a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "disk on fire")
}

// TestResolveChain_Property_RandomTrees checks on random acyclic trees that
// every chain starts at level 1, increases by one, ends at the root and
// never repeats an org.
func TestResolveChain_Property_RandomTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	for trial := 0; trial < 100; trial++ {
		units := randomTree(rng, rng.Intn(40)+1)
		idx := mustIndex(t, units...)
		require.NoError(t, idx.CheckTree(ctx), "trial %d", trial)

		for _, u := range units {
			chain, err := ResolveChain(ctx, idx, u.ID)
			require.NoError(t, err, "trial %d leaf %s", trial, u.ID)

			seen := map[string]bool{}
			for i, e := range chain {
				assert.Equal(t, i+1, e.Level)
				assert.False(t, seen[e.OrgID], "trial %d: duplicate org %s", trial, e.OrgID)
				seen[e.OrgID] = true
			}
			assert.Equal(t, u.ID, chain[0].OrgID)
			assert.Equal(t, "u0", chain[len(chain)-1].OrgID)
		}
	}
}

// TestResolveChain_Property_InducedCycle re-points the root at one of its
// descendants and expects every resolution to fail instead of looping.
func TestResolveChain_Property_InducedCycle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	for trial := 0; trial < 100; trial++ {
		units := randomTree(rng, rng.Intn(30)+2)
		victim := units[rng.Intn(len(units)-1)+1]
		units[0].ParentID = strPtr(victim.ID)

		idx := mustIndex(t, units...)
		for _, u := range units {
			_, err := ResolveChain(ctx, idx, u.ID)
			assert.ErrorIs(t, err, domain.ErrCorruptHierarchy, "trial %d leaf %s", trial, u.ID)
		}
		assert.ErrorIs(t, idx.CheckTree(ctx), domain.ErrCorruptHierarchy)
	}
}

func TestDescendants_BreadthFirst(t *testing.T) {
	idx := mustIndex(t,
		unit("cmd", ""),
		unit("bda1", "cmd"),
		unit("bda2", "cmd"),
		unit("btl", "bda1"),
	)
	got, err := Descendants(context.Background(), idx, "cmd")
	require.NoError(t, err)

	var ids []string
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"bda1", "bda2", "btl"}, ids)

	leaf, err := Descendants(context.Background(), idx, "btl")
	require.NoError(t, err)
	assert.Empty(t, leaf)
}

func TestIndex_DuplicateAndRoots(t *testing.T) {
	_, err := NewIndex([]*domain.OrgUnit{unit("a", ""), unit("a", "")})
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	idx := mustIndex(t, unit("a", ""), unit("b", ""))
	assert.Equal(t, []string{"a", "b"}, idx.Roots())
	assert.ErrorIs(t, idx.CheckTree(context.Background()), domain.ErrCorruptHierarchy)
	assert.Equal(t, 2, idx.Len())
}
