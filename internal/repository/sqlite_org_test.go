package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/testutil"
)

func TestOrgRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteOrgRepo(db)
	ctx := context.Background()

	root := testutil.NewTestOrg("cmd", domain.OrgCommand, testutil.WithBudgetCode("160001"))
	require.NoError(t, repo.Create(ctx, root))

	fetched, err := repo.GetByID(ctx, "cmd")
	require.NoError(t, err)
	assert.Equal(t, "Unidade cmd", fetched.Designation)
	assert.Equal(t, domain.OrgCommand, fetched.Kind)
	assert.Equal(t, "160001", fetched.BudgetCode)
	assert.True(t, fetched.IsRoot())
}

func TestOrgRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteOrgRepo(db)

	_, err := repo.GetByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "org_unit", domain.FieldOf(err))
}

func TestOrgRepo_GetParent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteOrgRepo(db)
	ctx := context.Background()
	testutil.SeedOrgs(t, db, testutil.StandardHierarchy()...)

	parent, err := repo.GetParent(ctx, "cia")
	require.NoError(t, err)
	require.NotNil(t, parent)
	assert.Equal(t, "btl", parent.ID)

	parent, err = repo.GetParent(ctx, "cmd")
	require.NoError(t, err)
	assert.Nil(t, parent, "root has no parent")

	_, err = repo.GetParent(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrgRepo_ListChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteOrgRepo(db)
	ctx := context.Background()
	testutil.SeedOrgs(t, db, testutil.StandardHierarchy()...)
	testutil.SeedOrgs(t, db, testutil.NewTestOrg("aaa", domain.OrgBattalion, testutil.WithParent("bda")))

	children, err := repo.ListChildren(ctx, "bda")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "aaa", children[0].ID)
	assert.Equal(t, "btl", children[1].ID)

	leaf, err := repo.ListChildren(ctx, "cia")
	require.NoError(t, err)
	assert.Empty(t, leaf)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestOrgRepo_RejectsSecondRoot(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteOrgRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestOrg("cmd", domain.OrgCommand)))
	err := repo.Create(ctx, testutil.NewTestOrg("other", domain.OrgCommand))
	assert.Error(t, err)
}

func TestOrgRepo_RejectsUnknownParent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteOrgRepo(db)

	err := repo.Create(context.Background(), testutil.NewTestOrg("cia", domain.OrgCompany, testutil.WithParent("ghost")))
	assert.Error(t, err)
}
