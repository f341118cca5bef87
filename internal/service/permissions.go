package service

import (
	"context"
	"log/slog"
	"net/url"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/ports"
)

// PermissionServiceOptions groups dependencies for PermissionService.
type PermissionServiceOptions struct {
	Client ports.APIClient
	Logger *slog.Logger
}

// PermissionService is the typed client for the permission administration
// endpoints.
type PermissionService struct {
	client ports.APIClient
	logger *slog.Logger
}

// NewPermissionService constructs a new PermissionService.
func NewPermissionService(opts PermissionServiceOptions) (*PermissionService, error) {
	if opts.Client == nil {
		return nil, apperrors.Internal("permission service requires an API client")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "permission_service")
	}
	return &PermissionService{client: opts.Client, logger: logger}, nil
}

// PermissionPage is one page of the admin permission list.
type PermissionPage struct {
	Permissions []domainauth.Permission `json:"permissions"`
	Total       int                     `json:"total"`
	Page        int                     `json:"page"`
	Limit       int                     `json:"limit"`
}

// List fetches one page of permissions.
func (s *PermissionService) List(ctx context.Context, params ListParams) (*PermissionPage, error) {
	var page PermissionPage
	if err := s.client.Get(ctx, "/admin/permissions?"+params.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single permission by ID.
func (s *PermissionService) Get(ctx context.Context, id string) (*domainauth.Permission, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "permission id is required")
	}
	var perm domainauth.Permission
	if err := s.client.Get(ctx, "/admin/permissions/"+url.PathEscape(id), &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// CreatePermissionInput carries the fields for creating a permission.
type CreatePermissionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

// Create creates a permission.
func (s *PermissionService) Create(ctx context.Context, in CreatePermissionInput) (*domainauth.Permission, error) {
	if in.Name == "" {
		return nil, apperrors.ValidationField("name", "permission name is required")
	}
	if in.Resource == "" || in.Action == "" {
		return nil, apperrors.Validation("permission resource and action are required")
	}
	var perm domainauth.Permission
	if err := s.client.Post(ctx, "/admin/permissions", in, &perm); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "permission created", "permission_id", perm.ID, "name", perm.Name)
	}
	return &perm, nil
}

// UpdatePermissionInput carries the mutable permission fields.
type UpdatePermissionInput struct {
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Update modifies a permission.
func (s *PermissionService) Update(ctx context.Context, id string, in UpdatePermissionInput) (*domainauth.Permission, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "permission id is required")
	}
	var perm domainauth.Permission
	if err := s.client.Put(ctx, "/admin/permissions/"+url.PathEscape(id), in, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// Delete removes a permission.
func (s *PermissionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ValidationField("id", "permission id is required")
	}
	return s.client.Delete(ctx, "/admin/permissions/"+url.PathEscape(id), nil)
}
