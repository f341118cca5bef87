package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	apperrors "github.com/turnohq/turno-admin/internal/errors"
)

func newRoleService(t *testing.T) (*RoleService, func(...domainauth.Role)) {
	t.Helper()
	client, fake := newFakeClient(t)
	svc, err := NewRoleService(RoleServiceOptions{Client: client})
	require.NoError(t, err)
	return svc, fake.SeedRoles
}

func TestRoleServiceList(t *testing.T) {
	svc, seed := newRoleService(t)
	seed(
		domainauth.Role{ID: "role-1", Name: "admin", IsActive: true},
		domainauth.Role{ID: "role-2", Name: "employee", IsActive: true},
	)

	page, err := svc.List(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Roles, 2)
	assert.Equal(t, "admin", page.Roles[0].Name)
}

func TestRoleServiceGet(t *testing.T) {
	svc, seed := newRoleService(t)
	seed(domainauth.Role{ID: "role-1", Name: "admin"})

	role, err := svc.Get(context.Background(), "role-1")
	require.NoError(t, err)
	assert.Equal(t, "admin", role.Name)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Get(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestRoleServiceCreate(t *testing.T) {
	svc, _ := newRoleService(t)

	role, err := svc.Create(context.Background(), CreateRoleInput{
		Name:        "supervisor",
		Description: "oversees shifts",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, role.ID)
	assert.Equal(t, "supervisor", role.Name)
	assert.True(t, role.IsActive)

	_, err = svc.Create(context.Background(), CreateRoleInput{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRoleServiceUpdate(t *testing.T) {
	svc, seed := newRoleService(t)
	seed(domainauth.Role{ID: "role-1", Name: "admin", Description: "old", IsActive: true})

	desc := "full administrative access"
	role, err := svc.Update(context.Background(), "role-1", UpdateRoleInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, role.Description)
	assert.Equal(t, "admin", role.Name)
}

func TestRoleServiceDelete(t *testing.T) {
	svc, seed := newRoleService(t)
	seed(domainauth.Role{ID: "role-1", Name: "admin"})
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "role-1"))

	_, err := svc.Get(ctx, "role-1")
	assert.True(t, apperrors.IsNotFound(err))
}
