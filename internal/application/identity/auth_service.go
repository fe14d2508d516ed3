package identity

import (
	"context"
	"errors"
	"time"

	"github.com/gestock/backend/internal/domain/identity"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermissionAll is the wildcard permission carried by admin tokens.
const PermissionAll = "*"

// AuthServiceConfig tunes the lockout policy.
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig locks an account for fifteen minutes after
// five failed attempts.
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService implements login, token refresh, and session revocation.
type AuthService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService wires the authentication service. The blacklist may be
// nil, which disables revocation.
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Login checks the credentials and the lockout state, then issues a token
// pair. Unknown usernames and wrong passwords produce the same error code
// so the response does not leak which usernames exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("login attempt",
		zap.String("username", input.Username),
		zap.String("ip", input.IP))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("login for unknown username", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if err := s.checkAccountState(user); err != nil {
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		return nil, s.recordFailedLogin(ctx, user)
	}

	permissions, err := s.collectUserPermissions(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("permission lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		RoleIDs:     user.RoleIDs,
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// The login itself succeeded; losing the timestamp is acceptable
		s.logger.Error("saving login timestamp failed", zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("username", input.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  s.userInfo(user, permissions),
	}, nil
}

// checkAccountState rejects locked and deactivated accounts.
func (s *AuthService) checkAccountState(user *identity.User) error {
	if user.CanLogin() {
		return nil
	}
	if user.IsLocked() {
		s.logger.Warn("login for locked account", zap.String("username", user.Username))
		return shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact an administrator")
	}
	s.logger.Warn("login for deactivated account", zap.String("username", user.Username))
	return shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
}

// recordFailedLogin counts the failure and reports whether it triggered
// the lockout.
func (s *AuthService) recordFailedLogin(ctx context.Context, user *identity.User) error {
	locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("saving failed login counter failed", zap.Error(err))
	}

	if locked {
		s.logger.Warn("account locked after repeated failures",
			zap.String("username", user.Username),
			zap.Int("attempts", s.config.MaxLoginAttempts))
		return shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
	}

	s.logger.Warn("wrong password",
		zap.String("username", user.Username),
		zap.Int("failed_attempts", user.FailedAttempts))
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
}

// RefreshToken rotates a refresh token into a fresh pair. Permissions are
// reloaded from the roles, so a role change takes effect on the next
// refresh rather than only at the next login.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("refresh token rejected", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if err := s.checkRefreshRevocation(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		s.logger.Error("refresh token carries malformed user id", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("refresh for unknown user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if !user.CanLogin() {
		s.logger.Warn("refresh for inactive account", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	permissions, err := s.collectUserPermissions(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("permission lookup failed during refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, permissions)
	if err != nil {
		s.logger.Warn("token rotation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("token refreshed", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// checkRefreshRevocation rejects refresh tokens whose JTI was revoked or
// whose user had every session invalidated since the token was issued.
func (s *AuthService) checkRefreshRevocation(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("revocation lookup failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	}
	if revoked {
		return shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("cutoff lookup failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	}
	if invalidated {
		return shared.NewDomainError("TOKEN_INVALID", "Session has been revoked")
	}

	return nil
}

// Logout revokes the presented access token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("user logout", zap.String("user_id", input.UserID.String()))

	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}

	ttl := time.Until(input.TokenExpiresAt)
	if ttl <= 0 {
		// Already expired, nothing to revoke
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("revoking token on logout failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
	}
	return nil
}

// ForceLogout invalidates every session of the target user by setting a
// revocation cutoff that outlives the longest refresh token.
func (s *AuthService) ForceLogout(ctx context.Context, input ForceLogoutInput) error {
	s.logger.Info("force logout",
		zap.String("target_user_id", input.TargetUserID.String()),
		zap.String("reason", input.Reason))

	if s.blacklist == nil {
		return shared.NewDomainError("NOT_SUPPORTED", "Session revocation is not configured")
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.TargetUserID.String(), ttl); err != nil {
		s.logger.Error("session invalidation failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke user sessions")
	}
	return nil
}

// GetCurrentUser returns the profile and permissions behind a token.
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	permissions, err := s.collectUserPermissions(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("permission lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	return &CurrentUserResult{
		User:        s.userInfo(user, permissions),
		Permissions: permissions,
	}, nil
}

// ChangePassword is the self-service path; the domain verifies the old
// password before accepting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("saving new password failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

func (s *AuthService) userInfo(user *identity.User, permissions []string) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Email:       user.Email,
		Permissions: permissions,
		RoleIDs:     user.RoleIDs,
	}
}

// collectUserPermissions merges the permissions of every role the user
// holds. The admin role contributes the wildcard instead of its list.
func (s *AuthService) collectUserPermissions(ctx context.Context, roleIDs []uuid.UUID) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	permSet := make(map[string]struct{})
	for i := range roles {
		if roles[i].Code == identity.RoleCodeAdmin {
			permSet[PermissionAll] = struct{}{}
			continue
		}
		for _, perm := range roles[i].Permissions {
			permSet[perm.Code] = struct{}{}
		}
	}

	permissions := make([]string, 0, len(permSet))
	for perm := range permSet {
		permissions = append(permissions, perm)
	}
	return permissions, nil
}

// mapTokenError translates JWT validation errors into domain errors.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrInvalidToken):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
