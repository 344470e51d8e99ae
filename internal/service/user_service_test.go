package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
	"github.com/alexanderramin/planportal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Add(t *testing.T) {
	svc := NewUserService(repository.NewSQLiteUserRepo(testutil.NewTestDB(t)), nil)
	ctx := context.Background()

	u, err := svc.Add(ctx, " c9 ", " Carla ", domain.RoleCoordinator)
	require.NoError(t, err)
	assert.Equal(t, "c9", u.ID)
	assert.Equal(t, "Carla", u.Name)

	got, err := svc.Get(ctx, "c9")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCoordinator, got.Role)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserService_AddValidation(t *testing.T) {
	svc := NewUserService(repository.NewSQLiteUserRepo(testutil.NewTestDB(t)), nil)

	for _, tc := range []struct {
		id, name string
		role     domain.Role
		field    string
	}{
		{id: "", name: "A", role: domain.RolePrincipal, field: "id"},
		{id: "a/b", name: "A", role: domain.RolePrincipal, field: "id"},
		{id: "a", name: "", role: domain.RolePrincipal, field: "name"},
		{id: "a", name: "A", role: "teacher", field: "role"},
	} {
		_, err := svc.Add(context.Background(), tc.id, tc.name, tc.role)
		var verr *app.ValidationError
		require.ErrorAs(t, err, &verr, "%+v", tc)
		assert.Equal(t, tc.field, verr.Field)
	}
}

func TestUserService_AddRejectsBroadcastTokens(t *testing.T) {
	users := repository.NewSQLiteUserRepo(testutil.NewTestDB(t))
	subs := domain.Subscriptions{domain.RolePrincipal: {"admin", "heads"}}
	svc := NewUserService(users, subs)
	ctx := context.Background()

	for _, id := range []string{"admin", " heads "} {
		_, err := svc.Add(ctx, id, "Mallory", domain.RoleCoordinator)
		var verr *app.ValidationError
		require.ErrorAs(t, err, &verr, "id=%q", id)
		assert.Equal(t, "id", verr.Field)
	}
	_, err := users.Get(ctx, "admin")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = NewUserService(users, nil).Add(ctx, domain.DefaultPrincipalToken, "Mallory", domain.RolePrincipal)
	assert.Error(t, err)

	_, err = svc.Add(ctx, "c9", "Carla", domain.RoleCoordinator)
	assert.NoError(t, err)
}
