package identity

import (
	"context"
	"testing"
	"time"

	"github.com/gestock/backend/internal/domain/identity"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/infrastructure/auth"
	"github.com/gestock/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveRoles(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Role, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context) ([]identity.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestAuthService(userRepo *MockUserRepository, roleRepo *MockRoleRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "test",
		MaxRefreshCount:        10,
	})
	return NewAuthService(
		userRepo,
		roleRepo,
		jwtService,
		auth.NewInMemoryTokenBlacklist(),
		DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
}

func newActiveUser(t *testing.T, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser("storekeeper1", password)
	require.NoError(t, err)
	return user
}

func storekeeperRole(t *testing.T) *identity.Role {
	t.Helper()
	role, err := identity.NewRole(identity.RoleCodeStorekeeper, "Storekeeper")
	require.NoError(t, err)
	perm, err := identity.NewPermission("document", "write")
	require.NoError(t, err)
	role.GrantPermission(*perm)
	return role
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login returns token pair with role permissions", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		role := storekeeperRole(t)
		require.NoError(t, user.SetRoles([]uuid.UUID{role.ID}))

		userRepo.On("FindByUsername", mock.Anything, "storekeeper1").Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)
		roleRepo.On("FindByIDs", mock.Anything, user.RoleIDs).Return([]identity.Role{*role}, nil)

		result, err := service.Login(ctx, LoginInput{Username: "storekeeper1", Password: "password1234"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Contains(t, result.User.Permissions, "document:write")
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("admin role grants wildcard permission", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		admin, err := identity.NewRole(identity.RoleCodeAdmin, "Administrator")
		require.NoError(t, err)
		require.NoError(t, user.SetRoles([]uuid.UUID{admin.ID}))

		userRepo.On("FindByUsername", mock.Anything, "storekeeper1").Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)
		roleRepo.On("FindByIDs", mock.Anything, user.RoleIDs).Return([]identity.Role{*admin}, nil)

		result, err := service.Login(ctx, LoginInput{Username: "storekeeper1", Password: "password1234"})

		require.NoError(t, err)
		assert.Contains(t, result.User.Permissions, PermissionAll)
	})

	t.Run("wrong password records failure", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		userRepo.On("FindByUsername", mock.Anything, "storekeeper1").Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		_, err := service.Login(ctx, LoginInput{Username: "storekeeper1", Password: "wrongpass99"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("account locks after max failed attempts", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		userRepo.On("FindByUsername", mock.Anything, "storekeeper1").Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		var lastErr error
		for i := 0; i < 5; i++ {
			_, lastErr = service.Login(ctx, LoginInput{Username: "storekeeper1", Password: "wrongpass99"})
		}

		var domainErr *shared.DomainError
		require.ErrorAs(t, lastErr, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
		assert.True(t, user.IsLocked())
	})

	t.Run("locked account cannot login even with correct password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		user.RecordLoginFailure(1, time.Hour)
		require.True(t, user.IsLocked())

		userRepo.On("FindByUsername", mock.Anything, "storekeeper1").Return(user, nil)

		_, err := service.Login(ctx, LoginInput{Username: "storekeeper1", Password: "password1234"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	})

	t.Run("deactivated account is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		require.NoError(t, user.Deactivate())

		userRepo.On("FindByUsername", mock.Anything, "storekeeper1").Return(user, nil)

		_, err := service.Login(ctx, LoginInput{Username: "storekeeper1", Password: "password1234"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})

	t.Run("unknown username returns invalid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

		_, err := service.Login(ctx, LoginInput{Username: "ghost", Password: "password1234"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

func TestAuthServiceRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh issues a new token pair", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		userRepo.On("FindByUsername", mock.Anything, "storekeeper1").Return(user, nil)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		login, err := service.Login(ctx, LoginInput{Username: "storekeeper1", Password: "password1234"})
		require.NoError(t, err)

		result, err := service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEqual(t, login.RefreshToken, result.RefreshToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		_, err := service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "not-a-token"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("force logout revokes outstanding refresh tokens", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		userRepo.On("FindByUsername", mock.Anything, "storekeeper1").Return(user, nil)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		login, err := service.Login(ctx, LoginInput{Username: "storekeeper1", Password: "password1234"})
		require.NoError(t, err)

		require.NoError(t, service.ForceLogout(ctx, ForceLogoutInput{TargetUserID: user.ID, Reason: "offboarding"}))

		_, err = service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("logout blacklists the access token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		jti := uuid.New().String()
		err := service.Logout(ctx, LogoutInput{
			UserID:         uuid.New(),
			TokenJTI:       jti,
			TokenExpiresAt: time.Now().Add(10 * time.Minute),
		})
		require.NoError(t, err)

		blacklisted, err := service.blacklist.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("expired token is a no-op", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		jti := uuid.New().String()
		err := service.Logout(ctx, LogoutInput{
			UserID:         uuid.New(),
			TokenJTI:       jti,
			TokenExpiresAt: time.Now().Add(-time.Minute),
		})
		require.NoError(t, err)

		blacklisted, err := service.blacklist.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.False(t, blacklisted)
	})
}

func TestAuthServiceChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes password with correct old password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		err := service.ChangePassword(ctx, ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "password1234",
			NewPassword: "newpassword99",
		})

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("newpassword99"))
	})

	t.Run("rejects wrong old password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo)

		user := newActiveUser(t, "password1234")
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		err := service.ChangePassword(ctx, ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "wrongpass99",
			NewPassword: "newpassword99",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
		assert.True(t, user.VerifyPassword("password1234"))
	})
}
