package service

import (
	"context"
	"log/slog"
	"net/url"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Client ports.APIClient // Required: API transport
	Logger *slog.Logger    // Optional: structured logger
}

// UserService is the typed client for the user administration endpoints.
type UserService struct {
	client ports.APIClient
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) (*UserService, error) {
	if opts.Client == nil {
		return nil, apperrors.Internal("user service requires an API client")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "user_service")
	}
	return &UserService{client: opts.Client, logger: logger}, nil
}

// UserPage is one page of the admin user list.
type UserPage struct {
	Users []domainauth.User `json:"users"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// List fetches one page of users.
func (s *UserService) List(ctx context.Context, params ListParams) (*UserPage, error) {
	var page UserPage
	if err := s.client.Get(ctx, "/admin/users?"+params.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domainauth.User, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "user id is required")
	}
	var user domainauth.User
	if err := s.client.Get(ctx, "/admin/users/"+url.PathEscape(id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserInput carries the fields for creating a user account.
type CreateUserInput struct {
	RUT       string   `json:"rut"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	RoleIDs   []string `json:"roleIds,omitempty"`
}

// Create creates a user account.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domainauth.User, error) {
	in.RUT = domainauth.NormalizeRUT(in.RUT)
	if !domainauth.ValidRUT(in.RUT) {
		return nil, apperrors.ValidationField("rut", "invalid RUT")
	}
	if in.Email == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}

	var user domainauth.User
	if err := s.client.Post(ctx, "/admin/users", in, &user); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user created", "user_id", user.ID)
	}
	return &user, nil
}

// UpdateUserInput carries the mutable user fields. Nil pointers leave the
// field untouched server-side.
type UpdateUserInput struct {
	Email     *string  `json:"email,omitempty"`
	FirstName *string  `json:"firstName,omitempty"`
	LastName  *string  `json:"lastName,omitempty"`
	IsActive  *bool    `json:"isActive,omitempty"`
	RoleIDs   []string `json:"roleIds,omitempty"`
}

// Update modifies a user account.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*domainauth.User, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "user id is required")
	}
	var user domainauth.User
	if err := s.client.Put(ctx, "/admin/users/"+url.PathEscape(id), in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ValidationField("id", "user id is required")
	}
	if err := s.client.Delete(ctx, "/admin/users/"+url.PathEscape(id), nil); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	}
	return nil
}
