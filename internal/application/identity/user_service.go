package identity

import (
	"context"

	"github.com/gestock/backend/internal/domain/identity"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, roleRepo identity.RoleRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// Create creates a new user account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	user, err := identity.NewUser(req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if len(req.RoleIDs) > 0 {
		if err := s.validateRoles(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(req.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if len(user.RoleIDs) > 0 {
		if err := s.userRepo.SaveRoles(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return toUserResponse(user), nil
}

// GetByID returns a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*UserListResponse, error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *toUserResponse(&users[i]))
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &UserListResponse{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.SetEmail(req.Email); err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(req.DisplayName); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// SetRoles replaces a user's role assignments
func (s *UserService) SetRoles(ctx context.Context, id uuid.UUID, req SetUserRolesRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(req.RoleIDs) > 0 {
		if err := s.validateRoles(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
	}
	if err := user.SetRoles(req.RoleIDs); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveRoles(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User roles updated",
		zap.String("user_id", user.ID.String()),
		zap.Int("role_count", len(user.RoleIDs)))

	return toUserResponse(user), nil
}

// ResetPassword sets a new password without checking the old one
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// Activate reactivates a user account and clears any lock
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// Deactivate deactivates a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User deactivated", zap.String("user_id", user.ID.String()))
	return toUserResponse(user), nil
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// validateRoles verifies all role IDs exist
func (s *UserService) validateRoles(ctx context.Context, roleIDs []uuid.UUID) error {
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}

	found := make(map[uuid.UUID]bool, len(roles))
	for i := range roles {
		found[roles[i].ID] = true
	}
	for _, rid := range roleIDs {
		if !found[rid] {
			return shared.NewDomainError("INVALID_ROLE", "One or more roles do not exist")
		}
	}
	return nil
}
