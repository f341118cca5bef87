package authz

// Package authz evaluates role and permission membership for a user.
// All checks are pure and fail closed: a nil user holds nothing.

import (
	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
)

// HasRole reports whether the user holds the named role.
func HasRole(u *domainauth.User, name string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user holds at least one of the named roles.
func HasAnyRole(u *domainauth.User, names ...string) bool {
	for _, n := range names {
		if HasRole(u, n) {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether the user holds every named role.
// An empty name list is vacuously true for a non-nil user.
func HasAllRoles(u *domainauth.User, names ...string) bool {
	if u == nil {
		return false
	}
	for _, n := range names {
		if !HasRole(u, n) {
			return false
		}
	}
	return true
}

// HasPermission reports whether any of the user's roles grants the named
// permission.
func HasPermission(u *domainauth.User, name string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// HasAnyPermission reports whether the user holds at least one of the named
// permissions.
func HasAnyPermission(u *domainauth.User, names ...string) bool {
	for _, n := range names {
		if HasPermission(u, n) {
			return true
		}
	}
	return false
}
