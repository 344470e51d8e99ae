package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_UpsertGetList(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestUser("c1", domain.RoleCoordinator, testutil.WithUserName("Ana"))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestUser("p1", domain.RolePrincipal, testutil.WithUserName("Paz"))))

	u, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, domain.RoleCoordinator, u.Role)

	// Upsert renames in place.
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestUser("c1", domain.RoleCoordinator, testutil.WithUserName("Ana B."))))
	u, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ana B.", u.Name)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "p1", users[0].ID, "principals list first")
}

func TestUserRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_RejectsUnknownRole(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))

	err := repo.Upsert(context.Background(), testutil.NewTestUser("x", domain.Role("janitor")))
	assert.Error(t, err)
}
