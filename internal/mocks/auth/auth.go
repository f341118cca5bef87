package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	"github.com/turnohq/turno-admin/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthAPI    = (*MockAuthAPI)(nil)
	_ ports.TokenStore = (*MemoryTokenStore)(nil)
)

// MockAuthAPI simulates the backend auth endpoints with overridable hooks
// and call counters.
type MockAuthAPI struct {
	LoginFunc    func(ctx context.Context, creds domainauth.Credentials) (domainauth.TokenPair, *domainauth.User, error)
	RegisterFunc func(ctx context.Context, reg domainauth.Registration) (domainauth.TokenPair, *domainauth.User, error)
	ProfileFunc  func(ctx context.Context) (*domainauth.User, error)

	// Defaults returned when no hook is set.
	DefaultPair domainauth.TokenPair
	DefaultUser *domainauth.User

	mu            sync.Mutex
	LoginCalls    int
	RegisterCalls int
	ProfileCalls  int
}

// NewMockAuthAPI creates a MockAuthAPI with a plausible default identity.
func NewMockAuthAPI() *MockAuthAPI {
	return &MockAuthAPI{
		DefaultPair: domainauth.TokenPair{AccessToken: "mock-access-token"},
		DefaultUser: &domainauth.User{
			ID:        "mock-user-1",
			RUT:       "11111111-1",
			Email:     "mock.user@example.com",
			FirstName: "Mock",
			LastName:  "User",
			IsActive:  true,
			Roles:     []domainauth.Role{{Name: "employee"}},
		},
	}
}

func (m *MockAuthAPI) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.TokenPair, *domainauth.User, error) {
	m.mu.Lock()
	m.LoginCalls++
	m.mu.Unlock()
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return m.DefaultPair, m.DefaultUser, nil
}

func (m *MockAuthAPI) Register(ctx context.Context, reg domainauth.Registration) (domainauth.TokenPair, *domainauth.User, error) {
	m.mu.Lock()
	m.RegisterCalls++
	m.mu.Unlock()
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	return m.DefaultPair, m.DefaultUser, nil
}

func (m *MockAuthAPI) Profile(ctx context.Context) (*domainauth.User, error) {
	m.mu.Lock()
	m.ProfileCalls++
	m.mu.Unlock()
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return m.DefaultUser, nil
}

// MemoryTokenStore is an in-memory ports.TokenStore with injectable failures.
type MemoryTokenStore struct {
	SaveErr  error
	LoadErr  error
	ClearErr error

	mu   sync.Mutex
	pair domainauth.TokenPair
	set  bool
}

// NewMemoryTokenStore creates an empty MemoryTokenStore.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Seed puts a pair in the store without going through Save.
func (m *MemoryTokenStore) Seed(pair domainauth.TokenPair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = pair
	m.set = true
}

func (m *MemoryTokenStore) Save(_ context.Context, pair domainauth.TokenPair) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = pair
	m.set = true
	return nil
}

func (m *MemoryTokenStore) Load(_ context.Context) (domainauth.TokenPair, error) {
	if m.LoadErr != nil {
		return domainauth.TokenPair{}, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return domainauth.TokenPair{}, ports.ErrNoToken
	}
	return m.pair, nil
}

func (m *MemoryTokenStore) Clear(_ context.Context) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = domainauth.TokenPair{}
	m.set = false
	return nil
}
