package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
)

// ShiftFixture mirrors the wire shape of a shift history entry.
type ShiftFixture struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	Status          string     `json:"status"`
	DurationMinutes int        `json:"durationMinutes"`
}

// FakeAPI is an in-process stand-in for the turno backend. It speaks the
// standard {success, message, data, error, timestamp} envelope, issues
// bearer tokens on login, and enforces them on protected routes.
type FakeAPI struct {
	Server *httptest.Server

	mu          sync.Mutex
	password    string
	tokenTTL    time.Duration
	profile     domainauth.User
	users       []domainauth.User
	roles       []domainauth.Role
	permissions []domainauth.Permission
	shifts      []ShiftFixture
	dashboard   map[string]any
	accepted    map[string]bool
	requests    []string
}

// NewFakeAPI starts a fake backend. The default fixture accepts
// rut 11111111-1 / password "validpass" and grants the employee role.
func NewFakeAPI(t TestingTB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		password: "validpass",
		tokenTTL: time.Hour,
		profile: domainauth.User{
			ID:        "user-1",
			RUT:       "11111111-1",
			Email:     "employee@example.com",
			FirstName: "Elena",
			LastName:  "Vidal",
			IsActive:  true,
			Roles:     []domainauth.Role{{ID: "role-emp", Name: "employee"}},
		},
		dashboard: map[string]any{
			"totalUsers":    12,
			"activeUsers":   9,
			"totalRoles":    3,
			"activeShifts":  4,
			"pendingShifts": 2,
			"shiftsToday":   7,
		},
		accepted: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.handleLogin)
	mux.HandleFunc("POST /auth/register", f.handleRegister)
	mux.HandleFunc("GET /users/profile", f.protected(f.handleProfile))
	mux.HandleFunc("GET /admin/dashboard", f.protected(f.handleDashboard))
	mux.HandleFunc("GET /admin/users", f.protected(f.handleListUsers))
	mux.HandleFunc("GET /admin/users/{id}", f.protected(f.handleGetUser))
	mux.HandleFunc("POST /admin/users", f.protected(f.handleCreateUser))
	mux.HandleFunc("PUT /admin/users/{id}", f.protected(f.handleUpdateUser))
	mux.HandleFunc("DELETE /admin/users/{id}", f.protected(f.handleDeleteUser))
	mux.HandleFunc("GET /admin/roles", f.protected(f.handleListRoles))
	mux.HandleFunc("GET /admin/roles/{id}", f.protected(f.handleGetRole))
	mux.HandleFunc("POST /admin/roles", f.protected(f.handleCreateRole))
	mux.HandleFunc("PUT /admin/roles/{id}", f.protected(f.handleUpdateRole))
	mux.HandleFunc("DELETE /admin/roles/{id}", f.protected(f.handleDeleteRole))
	mux.HandleFunc("GET /admin/permissions", f.protected(f.handleListPermissions))
	mux.HandleFunc("GET /admin/permissions/{id}", f.protected(f.handleGetPermission))
	mux.HandleFunc("POST /admin/permissions", f.protected(f.handleCreatePermission))
	mux.HandleFunc("PUT /admin/permissions/{id}", f.protected(f.handleUpdatePermission))
	mux.HandleFunc("DELETE /admin/permissions/{id}", f.protected(f.handleDeletePermission))
	mux.HandleFunc("GET /shifts/history", f.protected(f.handleShiftHistory))

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.RequestURI())
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)

	return f
}

// BaseURL is the address services should be pointed at.
func (f *FakeAPI) BaseURL() string { return f.Server.URL }

// SetProfile replaces the identity returned by login and /users/profile.
func (f *FakeAPI) SetProfile(u domainauth.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = u
}

// SetPassword changes the accepted login password.
func (f *FakeAPI) SetPassword(pw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.password = pw
}

// SetTokenTTL changes the lifetime of tokens issued at login.
func (f *FakeAPI) SetTokenTTL(ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenTTL = ttl
}

// SeedUsers installs the admin user list fixture.
func (f *FakeAPI) SeedUsers(users ...domainauth.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = users
}

// SeedRoles installs the admin role list fixture.
func (f *FakeAPI) SeedRoles(roles ...domainauth.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = roles
}

// SeedPermissions installs the admin permission list fixture.
func (f *FakeAPI) SeedPermissions(perms ...domainauth.Permission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.permissions = perms
}

// SeedShifts installs the shift history fixture.
func (f *FakeAPI) SeedShifts(shifts ...ShiftFixture) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shifts = shifts
}

// AcceptToken marks an externally minted token as valid for protected routes.
func (f *FakeAPI) AcceptToken(tok string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepted[tok] = true
}

// Requests returns the "METHOD /path?query" log in arrival order.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAPI) writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	body := map[string]any{
		"success":   status >= 200 && status <= 299,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if data != nil {
		body["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *FakeAPI) writeError(w http.ResponseWriter, status int, msg string) {
	body := map[string]any{
		"success":   false,
		"message":   msg,
		"error":     msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *FakeAPI) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tok == "" {
			f.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		f.mu.Lock()
		valid := f.accepted[tok]
		f.mu.Unlock()
		if !valid {
			f.writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r)
	}
}

// issueToken mints a real signed JWT so client-side expiry decoding works
// against tokens the fake hands out. Callers hold f.mu.
func (f *FakeAPI) issueToken() string {
	tok, err := mintToken(f.tokenTTL)
	if err != nil {
		tok = fmt.Sprintf("unsigned-%s", uuid.NewString())
	}
	f.accepted[tok] = true
	return tok
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		RUT      string `json:"rut"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		f.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if domainauth.NormalizeRUT(creds.RUT) != domainauth.NormalizeRUT(f.profile.RUT) || creds.Password != f.password {
		f.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tok := f.issueToken()
	f.writeEnvelope(w, http.StatusOK, "login successful", map[string]any{
		"user":         f.profile,
		"token":        tok,
		"refreshToken": "refresh-" + tok,
	})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg domainauth.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		f.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	user := domainauth.User{
		ID:        uuid.NewString(),
		RUT:       domainauth.NormalizeRUT(reg.RUT),
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		IsActive:  true,
		Roles:     []domainauth.Role{{ID: "role-emp", Name: "employee"}},
	}
	f.users = append(f.users, user)
	f.profile = user

	tok := f.issueToken()
	f.writeEnvelope(w, http.StatusCreated, "account created", map[string]any{
		"user":         user,
		"token":        tok,
		"refreshToken": "refresh-" + tok,
	})
}

func (f *FakeAPI) handleProfile(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	profile := f.profile
	f.mu.Unlock()
	f.writeEnvelope(w, http.StatusOK, "profile", profile)
}

func (f *FakeAPI) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	dashboard := f.dashboard
	f.mu.Unlock()
	f.writeEnvelope(w, http.StatusOK, "dashboard", dashboard)
}

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (f *FakeAPI) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	search := strings.ToLower(r.URL.Query().Get("search"))

	f.mu.Lock()
	var matched []domainauth.User
	for _, u := range f.users {
		if search == "" ||
			strings.Contains(strings.ToLower(u.Email), search) ||
			strings.Contains(strings.ToLower(u.FirstName), search) ||
			strings.Contains(strings.ToLower(u.LastName), search) ||
			strings.Contains(domainauth.NormalizeRUT(u.RUT), strings.ToUpper(search)) {
			matched = append(matched, u)
		}
	}
	f.mu.Unlock()

	f.writeEnvelope(w, http.StatusOK, "users", map[string]any{
		"users": paginate(matched, page, limit),
		"total": len(matched),
		"page":  page,
		"limit": limit,
	})
}

func (f *FakeAPI) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			f.writeEnvelope(w, http.StatusOK, "user", u)
			return
		}
	}
	f.writeError(w, http.StatusNotFound, "user not found")
}

func (f *FakeAPI) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RUT       string   `json:"rut"`
		Email     string   `json:"email"`
		FirstName string   `json:"firstName"`
		LastName  string   `json:"lastName"`
		RoleIDs   []string `json:"roleIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		f.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	user := domainauth.User{
		ID:        uuid.NewString(),
		RUT:       domainauth.NormalizeRUT(in.RUT),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
	}
	for _, roleID := range in.RoleIDs {
		for _, role := range f.roles {
			if role.ID == roleID {
				user.Roles = append(user.Roles, role)
			}
		}
	}
	f.users = append(f.users, user)
	f.writeEnvelope(w, http.StatusCreated, "user created", user)
}

func (f *FakeAPI) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in struct {
		Email     *string `json:"email"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		IsActive  *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		f.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID != id {
			continue
		}
		if in.Email != nil {
			f.users[i].Email = *in.Email
		}
		if in.FirstName != nil {
			f.users[i].FirstName = *in.FirstName
		}
		if in.LastName != nil {
			f.users[i].LastName = *in.LastName
		}
		if in.IsActive != nil {
			f.users[i].IsActive = *in.IsActive
		}
		f.writeEnvelope(w, http.StatusOK, "user updated", f.users[i])
		return
	}
	f.writeError(w, http.StatusNotFound, "user not found")
}

func (f *FakeAPI) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			f.writeEnvelope(w, http.StatusOK, "user deleted", nil)
			return
		}
	}
	f.writeError(w, http.StatusNotFound, "user not found")
}

func (f *FakeAPI) handleListRoles(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	f.mu.Lock()
	roles := f.roles
	f.mu.Unlock()
	f.writeEnvelope(w, http.StatusOK, "roles", map[string]any{
		"roles": paginate(roles, page, limit),
		"total": len(roles),
		"page":  page,
		"limit": limit,
	})
}

func (f *FakeAPI) handleGetRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, role := range f.roles {
		if role.ID == id {
			f.writeEnvelope(w, http.StatusOK, "role", role)
			return
		}
	}
	f.writeError(w, http.StatusNotFound, "role not found")
}

func (f *FakeAPI) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		f.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	role := domainauth.Role{ID: uuid.NewString(), Name: in.Name, Description: in.Description, IsActive: true}
	f.roles = append(f.roles, role)
	f.writeEnvelope(w, http.StatusCreated, "role created", role)
}

func (f *FakeAPI) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		f.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.roles {
		if f.roles[i].ID != id {
			continue
		}
		if in.Name != nil {
			f.roles[i].Name = *in.Name
		}
		if in.Description != nil {
			f.roles[i].Description = *in.Description
		}
		if in.IsActive != nil {
			f.roles[i].IsActive = *in.IsActive
		}
		f.writeEnvelope(w, http.StatusOK, "role updated", f.roles[i])
		return
	}
	f.writeError(w, http.StatusNotFound, "role not found")
}

func (f *FakeAPI) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.roles {
		if f.roles[i].ID == id {
			f.roles = append(f.roles[:i], f.roles[i+1:]...)
			f.writeEnvelope(w, http.StatusOK, "role deleted", nil)
			return
		}
	}
	f.writeError(w, http.StatusNotFound, "role not found")
}

func (f *FakeAPI) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	f.mu.Lock()
	perms := f.permissions
	f.mu.Unlock()
	f.writeEnvelope(w, http.StatusOK, "permissions", map[string]any{
		"permissions": paginate(perms, page, limit),
		"total":       len(perms),
		"page":        page,
		"limit":       limit,
	})
}

func (f *FakeAPI) handleCreatePermission(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Resource    string `json:"resource"`
		Action      string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		f.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	perm := domainauth.Permission{
		ID: uuid.NewString(), Name: in.Name, Description: in.Description,
		Resource: in.Resource, Action: in.Action, IsActive: true,
	}
	f.permissions = append(f.permissions, perm)
	f.writeEnvelope(w, http.StatusCreated, "permission created", perm)
}

func (f *FakeAPI) handleGetPermission(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, perm := range f.permissions {
		if perm.ID == id {
			f.writeEnvelope(w, http.StatusOK, "permission", perm)
			return
		}
	}
	f.writeError(w, http.StatusNotFound, "permission not found")
}

func (f *FakeAPI) handleUpdatePermission(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in struct {
		Description *string `json:"description"`
		IsActive    *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		f.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.permissions {
		if f.permissions[i].ID != id {
			continue
		}
		if in.Description != nil {
			f.permissions[i].Description = *in.Description
		}
		if in.IsActive != nil {
			f.permissions[i].IsActive = *in.IsActive
		}
		f.writeEnvelope(w, http.StatusOK, "permission updated", f.permissions[i])
		return
	}
	f.writeError(w, http.StatusNotFound, "permission not found")
}

func (f *FakeAPI) handleDeletePermission(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.permissions {
		if f.permissions[i].ID == id {
			f.permissions = append(f.permissions[:i], f.permissions[i+1:]...)
			f.writeEnvelope(w, http.StatusOK, "permission deleted", nil)
			return
		}
	}
	f.writeError(w, http.StatusNotFound, "permission not found")
}

func (f *FakeAPI) handleShiftHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit < 1 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	status := q.Get("status")
	startDate := q.Get("startDate")
	endDate := q.Get("endDate")

	f.mu.Lock()
	var matched []ShiftFixture
	for _, s := range f.shifts {
		if status != "" && s.Status != status {
			continue
		}
		day := s.StartTime.Format("2006-01-02")
		if startDate != "" && day < startDate {
			continue
		}
		if endDate != "" && day > endDate {
			continue
		}
		matched = append(matched, s)
	}
	f.mu.Unlock()

	total := len(matched)
	if offset >= len(matched) {
		matched = []ShiftFixture{}
	} else {
		end := offset + limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}

	f.writeEnvelope(w, http.StatusOK, "shift history", map[string]any{
		"shifts": matched,
		"total":  total,
	})
}
