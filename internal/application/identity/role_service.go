package identity

import (
	"context"
	"errors"

	"github.com/gestock/backend/internal/domain/identity"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleService handles role management operations
type RoleService struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// Create creates a new role
func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	existing, err := s.roleRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ROLE_CODE_TAKEN", "A role with this code already exists")
	}

	role, err := identity.NewRole(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	role.Description = req.Description

	if len(req.Permissions) > 0 {
		perms, err := parsePermissions(req.Permissions)
		if err != nil {
			return nil, err
		}
		if err := role.SetPermissions(perms); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code))

	return toRoleResponse(role), nil
}

// GetByID returns a role by ID
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

// List returns all roles
func (s *RoleService) List(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, *toRoleResponse(&roles[i]))
	}
	return items, nil
}

// Update modifies a role's name, description, and permissions
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := role.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		perms, err := parsePermissions(req.Permissions)
		if err != nil {
			return nil, err
		}
		if err := role.SetPermissions(perms); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	return toRoleResponse(role), nil
}

// Delete removes a role. System roles cannot be deleted.
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}

	s.logger.Info("Role deleted",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code))

	return s.roleRepo.Delete(ctx, id)
}

// parsePermissions converts permission code strings into value objects
func parsePermissions(codes []string) ([]identity.Permission, error) {
	perms := make([]identity.Permission, 0, len(codes))
	for _, code := range codes {
		perm, err := identity.NewPermissionFromCode(code)
		if err != nil {
			return nil, err
		}
		perms = append(perms, *perm)
	}
	return perms, nil
}
