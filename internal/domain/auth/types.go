package auth

// Package auth contains domain-level types for authentication and authorization.
// It is pure and free of transport/adapter concerns.

// User is the identity record returned by the API for an authenticated account.
// RUT is the Chilean national identity number and doubles as the login name.
type User struct {
	ID        string `json:"id"`
	RUT       string `json:"rut"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsActive  bool   `json:"isActive"`
	Roles     []Role `json:"roles"`
}

// Role groups a set of permissions under a name (e.g. "admin", "employee").
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IsActive    bool         `json:"isActive"`
	Permissions []Permission `json:"permissions"`
}

// Permission is a single grantable action on a resource.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	IsActive    bool   `json:"isActive"`
}

// Credentials carries the login form fields.
type Credentials struct {
	RUT      string `json:"rut"`
	Password string `json:"password"`
	// RememberMe selects durable token storage over session-scoped storage.
	RememberMe bool `json:"-"`
}

// Registration carries the account-creation form fields.
type Registration struct {
	RUT       string `json:"rut"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TokenPair is the bearer token material issued on login or registration.
// RefreshToken may be empty when the backend does not issue one.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Empty reports whether no access token is present.
func (t TokenPair) Empty() bool { return t.AccessToken == "" }

// RoleNames returns the names of the user's roles in declaration order.
func (u *User) RoleNames() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// PermissionNames returns the deduplicated permission names granted through
// the user's roles.
func (u *User) PermissionNames() []string {
	if u == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var names []string
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if _, ok := seen[p.Name]; ok {
				continue
			}
			seen[p.Name] = struct{}{}
			names = append(names, p.Name)
		}
	}
	return names
}

// FullName joins first and last name, tolerating either being empty.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
