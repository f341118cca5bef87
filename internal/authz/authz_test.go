package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
)

func adminEmployee() *domainauth.User {
	return &domainauth.User{
		ID:  "u1",
		RUT: "11111111-1",
		Roles: []domainauth.Role{
			{Name: "admin", Permissions: []domainauth.Permission{
				{Name: "users.manage", Resource: "users", Action: "manage"},
			}},
			{Name: "employee", Permissions: []domainauth.Permission{
				{Name: "shifts.read", Resource: "shifts", Action: "read"},
			}},
		},
	}
}

func TestHasRole(t *testing.T) {
	u := adminEmployee()

	assert.True(t, HasRole(u, "admin"))
	assert.True(t, HasRole(u, "employee"))
	assert.False(t, HasRole(u, "supervisor"))
	assert.False(t, HasRole(nil, "admin"), "nil user must fail closed")
}

func TestHasAnyRole(t *testing.T) {
	u := adminEmployee()

	assert.True(t, HasAnyRole(u, "supervisor", "admin"))
	assert.False(t, HasAnyRole(u, "supervisor", "auditor"))
	assert.False(t, HasAnyRole(u))
	assert.False(t, HasAnyRole(nil, "admin"))
}

func TestHasAllRoles(t *testing.T) {
	u := adminEmployee()

	assert.True(t, HasAllRoles(u, "admin", "employee"))
	assert.False(t, HasAllRoles(u, "admin", "supervisor"))
	assert.True(t, HasAllRoles(u), "empty requirement is satisfied by any user")
	assert.False(t, HasAllRoles(nil), "nil user must fail closed even with no requirements")
}

func TestHasPermission(t *testing.T) {
	u := adminEmployee()

	assert.True(t, HasPermission(u, "users.manage"))
	assert.True(t, HasPermission(u, "shifts.read"))
	assert.False(t, HasPermission(u, "reports.read"))
	assert.False(t, HasPermission(nil, "users.manage"))
}

func TestHasAnyPermission(t *testing.T) {
	u := adminEmployee()

	assert.True(t, HasAnyPermission(u, "reports.read", "shifts.read"))
	assert.False(t, HasAnyPermission(u, "reports.read", "settings.write"))
	assert.False(t, HasAnyPermission(nil, "shifts.read"))
}
