package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gestock/backend/internal/infrastructure/auth"
	"github.com/gestock/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys under which the middleware stores the validated claims
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	JWTRoleIDsKey  = "jwt_role_ids"
	JWTPermissions = "jwt_permissions"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig configures the authentication middleware.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService

	// TokenBlacklist enables revocation checks when set. Lookups that
	// fail are logged and treated as not revoked.
	TokenBlacklist auth.TokenBlacklist

	// SkipPaths and SkipPathPrefixes bypass authentication entirely.
	SkipPaths        []string
	SkipPathPrefixes []string

	Logger *zap.Logger
}

// DefaultJWTConfig skips the health endpoints and the ones a client
// needs before it can hold a token.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
	}
}

// JWTAuthMiddleware authenticates requests with the default configuration.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig validates the bearer token on every request
// outside the skip lists, rejects revoked tokens, and exposes the claims
// through the context for the permission middleware and handlers.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipAuth(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		token, err := bearerToken(c)
		if err != nil {
			unauthorized(c, cfg, err)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			unauthorized(c, cfg, err)
			return
		}

		if err := checkRevocation(c, cfg, claims); err != nil {
			unauthorized(c, cfg, err)
			return
		}

		storeClaims(c, claims)
		c.Next()
	}
}

func skipAuth(cfg JWTMiddlewareConfig, path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", auth.ErrInvalidToken
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

// checkRevocation consults the blacklist for the token's JTI and for a
// per-user cutoff set by force logout. Blacklist lookup errors fail open.
func checkRevocation(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) error {
	if cfg.TokenBlacklist == nil {
		return nil
	}
	ctx := c.Request.Context()

	if claims.ID != "" {
		revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		switch {
		case err != nil:
			logRevocationError(cfg, "token revocation check failed", err,
				zap.String("jti", claims.ID))
		case revoked:
			return auth.ErrTokenBlacklisted
		}
	}

	if claims.UserID != "" {
		invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		switch {
		case err != nil:
			logRevocationError(cfg, "user cutoff check failed", err,
				zap.String("user_id", claims.UserID))
		case invalidated:
			return auth.ErrTokenBlacklisted
		}
	}

	return nil
}

func logRevocationError(cfg JWTMiddlewareConfig, msg string, err error, fields ...zap.Field) {
	if cfg.Logger == nil {
		return
	}
	cfg.Logger.Error(msg, append(fields, zap.Error(err))...)
}

// storeClaims publishes the claims to the gin context and tags the
// request-scoped logger with the authenticated user.
func storeClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTUsernameKey, claims.Username)
	c.Set(JWTRoleIDsKey, claims.RoleIDs)
	c.Set(JWTPermissions, claims.Permissions)

	ctx := c.Request.Context()
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// unauthorized maps the validation error to an API error code and aborts
// with 401.
func unauthorized(c *gin.Context, cfg JWTMiddlewareConfig, err error) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("authentication rejected",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	code, message := "UNAUTHORIZED", "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken):
		code, message = "INVALID_TOKEN", "Invalid token"
	case errors.Is(err, auth.ErrInvalidTokenType):
		code, message = "INVALID_TOKEN_TYPE", "Invalid token type"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = "TOKEN_REVOKED", "Token has been revoked"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetJWTClaims returns the validated claims stored by the middleware, or
// nil on an unauthenticated request.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID returns the authenticated user's ID, or an empty string.
func GetJWTUserID(c *gin.Context) string {
	if v, ok := c.Get(JWTUserIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTUsername returns the authenticated username, or an empty string.
func GetJWTUsername(c *gin.Context) string {
	if v, ok := c.Get(JWTUsernameKey); ok {
		if username, ok := v.(string); ok {
			return username
		}
	}
	return ""
}

// GetJWTPermissions returns the authenticated user's permissions.
func GetJWTPermissions(c *gin.Context) []string {
	if v, ok := c.Get(JWTPermissions); ok {
		if perms, ok := v.([]string); ok {
			return perms
		}
	}
	return nil
}
