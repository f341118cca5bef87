package guard

// Package guard gates operations on session and role state, the way the
// original console gated routes. Guards wait for session initialization to
// settle before evaluating anything, so a half-loaded profile never produces
// a spurious denial.

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnohq/turno-admin/internal/authz"
	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/service"
)

// Session is the slice of the session manager guards need.
type Session interface {
	Wait(ctx context.Context) (service.State, error)
}

// RequireAuth blocks until the session settles and returns the user, or an
// unauthenticated error that callers surface as "go log in".
func RequireAuth(ctx context.Context, s Session) (*domainauth.User, error) {
	st, err := s.Wait(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "session not ready")
	}
	if !st.Authenticated() {
		return nil, apperrors.Unauthenticated("login required")
	}
	return st.User, nil
}

// RoleRequirement names the roles an operation demands. By default holding
// any one of them is enough; RequireAll demands every one.
type RoleRequirement struct {
	Roles      []string
	RequireAll bool
}

func (r RoleRequirement) satisfiedBy(u *domainauth.User) bool {
	if len(r.Roles) == 0 {
		return true
	}
	if r.RequireAll {
		return authz.HasAllRoles(u, r.Roles...)
	}
	return authz.HasAnyRole(u, r.Roles...)
}

// RequireRoles is RequireAuth plus a role check. A role mismatch yields an
// access-denied error rather than an unauthenticated one, mirroring the
// in-place denial screen of the original console.
func RequireRoles(ctx context.Context, s Session, req RoleRequirement) (*domainauth.User, error) {
	user, err := RequireAuth(ctx, s)
	if err != nil {
		return nil, err
	}
	if !req.satisfiedBy(user) {
		mode := "one of"
		if req.RequireAll {
			mode = "all of"
		}
		return nil, apperrors.AccessDenied(
			fmt.Sprintf("requires %s roles: %s", mode, strings.Join(req.Roles, ", ")))
	}
	return user, nil
}
