package service

import (
	"context"
	"log/slog"
	"net/url"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/ports"
)

// RoleServiceOptions groups dependencies for RoleService.
type RoleServiceOptions struct {
	Client ports.APIClient
	Logger *slog.Logger
}

// RoleService is the typed client for the role administration endpoints.
type RoleService struct {
	client ports.APIClient
	logger *slog.Logger
}

// NewRoleService constructs a new RoleService.
func NewRoleService(opts RoleServiceOptions) (*RoleService, error) {
	if opts.Client == nil {
		return nil, apperrors.Internal("role service requires an API client")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "role_service")
	}
	return &RoleService{client: opts.Client, logger: logger}, nil
}

// RolePage is one page of the admin role list.
type RolePage struct {
	Roles []domainauth.Role `json:"roles"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// List fetches one page of roles.
func (s *RoleService) List(ctx context.Context, params ListParams) (*RolePage, error) {
	var page RolePage
	if err := s.client.Get(ctx, "/admin/roles?"+params.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single role by ID.
func (s *RoleService) Get(ctx context.Context, id string) (*domainauth.Role, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "role id is required")
	}
	var role domainauth.Role
	if err := s.client.Get(ctx, "/admin/roles/"+url.PathEscape(id), &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRoleInput carries the fields for creating a role.
type CreateRoleInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permissionIds,omitempty"`
}

// Create creates a role.
func (s *RoleService) Create(ctx context.Context, in CreateRoleInput) (*domainauth.Role, error) {
	if in.Name == "" {
		return nil, apperrors.ValidationField("name", "role name is required")
	}
	var role domainauth.Role
	if err := s.client.Post(ctx, "/admin/roles", in, &role); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "role created", "role_id", role.ID, "name", role.Name)
	}
	return &role, nil
}

// UpdateRoleInput carries the mutable role fields.
type UpdateRoleInput struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
	PermissionIDs []string `json:"permissionIds,omitempty"`
}

// Update modifies a role.
func (s *RoleService) Update(ctx context.Context, id string, in UpdateRoleInput) (*domainauth.Role, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "role id is required")
	}
	var role domainauth.Role
	if err := s.client.Put(ctx, "/admin/roles/"+url.PathEscape(id), in, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// Delete removes a role.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ValidationField("id", "role id is required")
	}
	return s.client.Delete(ctx, "/admin/roles/"+url.PathEscape(id), nil)
}
