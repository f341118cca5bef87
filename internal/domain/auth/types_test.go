package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_RoleNames(t *testing.T) {
	u := &User{Roles: []Role{{Name: "admin"}, {Name: "employee"}}}
	assert.Equal(t, []string{"admin", "employee"}, u.RoleNames())

	var nilUser *User
	assert.Nil(t, nilUser.RoleNames())
}

func TestUser_PermissionNames_Deduplicates(t *testing.T) {
	u := &User{Roles: []Role{
		{Name: "admin", Permissions: []Permission{{Name: "users.read"}, {Name: "users.write"}}},
		{Name: "auditor", Permissions: []Permission{{Name: "users.read"}, {Name: "reports.read"}}},
	}}

	assert.Equal(t, []string{"users.read", "users.write", "reports.read"}, u.PermissionNames())
}

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{"both names", &User{FirstName: "Ana", LastName: "Rojas"}, "Ana Rojas"},
		{"first only", &User{FirstName: "Ana"}, "Ana"},
		{"last only", &User{LastName: "Rojas"}, "Rojas"},
		{"nil user", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}

func TestTokenPair_Empty(t *testing.T) {
	assert.True(t, TokenPair{}.Empty())
	assert.False(t, TokenPair{AccessToken: "abc"}.Empty())
}
