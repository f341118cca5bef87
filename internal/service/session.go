package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	domaintoken "github.com/turnohq/turno-admin/internal/domain/token"
	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/ports"
)

// Status is the session lifecycle phase.
type Status string

const (
	StatusUninitialized   Status = "uninitialized"
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// State is a snapshot of the session. User is non-nil exactly when Status is
// StatusAuthenticated. Readers must treat the User as immutable.
type State struct {
	Status Status
	User   *domainauth.User
}

// Authenticated reports whether the snapshot belongs to a logged-in user.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// Resolved reports whether initialization has settled one way or the other.
func (s State) Resolved() bool {
	return s.Status == StatusAuthenticated || s.Status == StatusUnauthenticated
}

// DefaultExpiryCheckInterval is how often WatchExpiry re-reads the stored
// token when no interval is configured.
const DefaultExpiryCheckInterval = 5 * time.Minute

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	API    ports.AuthAPI
	Tokens *Tokens
	Logger *slog.Logger // optional
}

// SessionManager owns the in-memory session state. It is the only writer;
// everything else observes it through Current or Wait. Operations that kick
// off a profile fetch tag it with a generation, and a fetch that completes
// after a newer operation started is discarded rather than applied.
type SessionManager struct {
	api    ports.AuthAPI
	tokens *Tokens
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	gen     uint64
	changed chan struct{}

	init singleflight.Group
}

// NewSessionManager constructs a SessionManager in the uninitialized state.
func NewSessionManager(opts SessionManagerOptions) (*SessionManager, error) {
	if opts.API == nil {
		return nil, apperrors.Internal("session manager requires an auth API")
	}
	if opts.Tokens == nil {
		return nil, apperrors.Internal("session manager requires a token component")
	}

	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "session")
	}

	return &SessionManager{
		api:     opts.API,
		tokens:  opts.Tokens,
		logger:  logger,
		state:   State{Status: StatusUninitialized},
		changed: make(chan struct{}),
	}, nil
}

// Current returns a snapshot of the session state.
func (m *SessionManager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Wait blocks until the session leaves the uninitialized/loading phases and
// returns the settled state. It is what guards use to avoid evaluating roles
// against a half-loaded session.
func (m *SessionManager) Wait(ctx context.Context) (State, error) {
	for {
		m.mu.Lock()
		st := m.state
		ch := m.changed
		m.mu.Unlock()

		if st.Resolved() {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-ch:
		}
	}
}

// Initialize reconstructs the session from the stored token: a present,
// unexpired token followed by a successful profile fetch authenticates;
// anything else clears the stored tokens and settles unauthenticated.
// Concurrent calls share one flight.
func (m *SessionManager) Initialize(ctx context.Context) (State, error) {
	v, err, _ := m.init.Do("initialize", func() (any, error) {
		return m.initialize(ctx)
	})
	st, _ := v.(State)
	return st, err
}

func (m *SessionManager) initialize(ctx context.Context) (State, error) {
	gen := m.begin("initialize", State{Status: StatusLoading})

	pair, err := m.tokens.Get(ctx)
	if err != nil {
		// Absent token is the normal cold-start path; storage failures are
		// treated the same way (fail closed), only logged.
		if m.logger != nil && !errors.Is(err, ports.ErrNoToken) {
			m.logger.DebugContext(ctx, "no usable stored token", "error", err)
		}
		st, _ := m.settle(gen, "initialize: no token", State{Status: StatusUnauthenticated})
		return st, nil
	}

	if domaintoken.IsExpired(pair.AccessToken) {
		m.clearTokens(ctx, "expired token found during initialize")
		st, _ := m.settle(gen, "initialize: token expired", State{Status: StatusUnauthenticated})
		return st, nil
	}

	user, err := m.api.Profile(ctx)
	if err != nil {
		m.clearTokens(ctx, "profile fetch failed during initialize")
		st, applied := m.settle(gen, "initialize: profile fetch failed", State{Status: StatusUnauthenticated})
		if !applied {
			return st, nil
		}
		return st, err
	}

	st, _ := m.settle(gen, "initialize: authenticated", State{Status: StatusAuthenticated, User: user})
	return st, nil
}

// Login validates the RUT locally, exchanges credentials with the API,
// stores the returned tokens (durably when RememberMe is set) and
// transitions to authenticated.
func (m *SessionManager) Login(ctx context.Context, creds domainauth.Credentials) error {
	creds.RUT = domainauth.NormalizeRUT(creds.RUT)
	if !domainauth.ValidRUT(creds.RUT) {
		return apperrors.ValidationField("rut", "invalid RUT")
	}
	if creds.Password == "" {
		return apperrors.ValidationField("password", "password is required")
	}

	gen := m.begin("login", State{Status: StatusLoading})

	pair, user, err := m.api.Login(ctx, creds)
	if err != nil {
		m.settle(gen, "login failed", State{Status: StatusUnauthenticated})
		return err
	}

	if saveErr := m.tokens.Set(ctx, pair, creds.RememberMe); saveErr != nil {
		m.clearTokens(ctx, "token save failed after login")
		m.settle(gen, "login: token save failed", State{Status: StatusUnauthenticated})
		return apperrors.Wrap(saveErr, apperrors.ErrCodeInternal, "store tokens")
	}

	m.settle(gen, "login succeeded", State{Status: StatusAuthenticated, User: user})
	return nil
}

// Register creates an account and, like Login, leaves the session
// authenticated with stored tokens on success.
func (m *SessionManager) Register(ctx context.Context, reg domainauth.Registration) error {
	reg.RUT = domainauth.NormalizeRUT(reg.RUT)
	if !domainauth.ValidRUT(reg.RUT) {
		return apperrors.ValidationField("rut", "invalid RUT")
	}
	if reg.Email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if reg.Password == "" {
		return apperrors.ValidationField("password", "password is required")
	}

	gen := m.begin("register", State{Status: StatusLoading})

	pair, user, err := m.api.Register(ctx, reg)
	if err != nil {
		m.settle(gen, "register failed", State{Status: StatusUnauthenticated})
		return err
	}

	if saveErr := m.tokens.Set(ctx, pair, true); saveErr != nil {
		m.clearTokens(ctx, "token save failed after register")
		m.settle(gen, "register: token save failed", State{Status: StatusUnauthenticated})
		return apperrors.Wrap(saveErr, apperrors.ErrCodeInternal, "store tokens")
	}

	m.settle(gen, "register succeeded", State{Status: StatusAuthenticated, User: user})
	return nil
}

// Logout discards the in-memory user and stored tokens. It always succeeds
// locally and is idempotent; the server is not asked to invalidate the token,
// the session simply becomes unusable once discarded. Nothing here suspends
// on the network, so the session moves straight to unauthenticated without
// an observable loading phase. The generation still bumps so an in-flight
// profile fetch cannot resurrect the session.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	m.clearTokens(ctx, "logout")
	m.settle(gen, "logout", State{Status: StatusUnauthenticated})
}

// CheckExpiry transitions an authenticated session to unauthenticated when
// the stored token has lapsed since the last check.
func (m *SessionManager) CheckExpiry(ctx context.Context) State {
	m.mu.Lock()
	authenticated := m.state.Authenticated()
	gen := m.gen
	m.mu.Unlock()

	if !authenticated {
		return m.Current()
	}
	if _, ok := m.tokens.BearerToken(ctx); ok {
		return m.Current()
	}

	m.clearTokens(ctx, "token expired")
	st, _ := m.settle(gen, "session expired", State{Status: StatusUnauthenticated})
	return st
}

// WatchExpiry re-checks the stored token on a fixed interval until ctx is
// canceled. Zero or negative intervals fall back to
// DefaultExpiryCheckInterval.
func (m *SessionManager) WatchExpiry(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultExpiryCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckExpiry(ctx)
		}
	}
}

// begin bumps the generation and applies the transitional state, returning
// the generation that any follow-up settle must present.
func (m *SessionManager) begin(event string, st State) uint64 {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.apply(event, st)
	m.mu.Unlock()
	return gen
}

// settle applies the state only when gen is still current; a stale
// completion is dropped so the latest operation wins.
func (m *SessionManager) settle(gen uint64, event string, st State) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		if m.logger != nil {
			m.logger.Debug("discarding stale session transition", "event", event)
		}
		return m.state, false
	}
	m.apply(event, st)
	return m.state, true
}

// apply records the transition and wakes waiters. Callers hold m.mu.
func (m *SessionManager) apply(event string, st State) {
	m.state = st
	close(m.changed)
	m.changed = make(chan struct{})
	if m.logger != nil {
		m.logger.Debug("session transition", "event", event, "status", string(st.Status))
	}
}

func (m *SessionManager) clearTokens(ctx context.Context, reason string) {
	if err := m.tokens.Clear(ctx); err != nil && m.logger != nil {
		m.logger.WarnContext(ctx, "clear stored tokens failed", "reason", reason, "error", err)
	}
}
