package ports

// Package ports defines interfaces (hexagonal ports) for session-related behavior.
// Implementations live in internal/adapters and internal/api; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
)

// TokenStore persists and retrieves a bearer token pair.
// Implementations may be durable (file, Redis) or scoped to the process.
type TokenStore interface {
	Save(ctx context.Context, pair domainauth.TokenPair) error
	Load(ctx context.Context) (domainauth.TokenPair, error)
	Clear(ctx context.Context) error
}

// AuthAPI is the slice of the backend consumed by the session manager.
type AuthAPI interface {
	// Login exchanges credentials for a token pair and the authenticated user.
	Login(ctx context.Context, creds domainauth.Credentials) (domainauth.TokenPair, *domainauth.User, error)

	// Register creates an account; on success the backend answers exactly like Login.
	Register(ctx context.Context, reg domainauth.Registration) (domainauth.TokenPair, *domainauth.User, error)

	// Profile fetches the current user for the bearer token attached by the transport.
	Profile(ctx context.Context) (*domainauth.User, error)
}

// ErrNoToken is returned by TokenStore.Load when no token is stored.
type noTokenError struct{}

func (noTokenError) Error() string { return "no token stored" }

var ErrNoToken error = noTokenError{}
