package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequirePermission guards a route behind a single permission. Claims
// carrying the wildcard permission pass every check.
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission lets the request through when the authenticated
// user holds at least one of the given permissions.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || !claims.HasAnyPermission(permissions...) {
			forbidden(c)
			return
		}
		c.Next()
	}
}

// RequireAllPermissions lets the request through only when the user holds
// every one of the given permissions.
func RequireAllPermissions(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || !claims.HasAllPermissions(permissions...) {
			forbidden(c)
			return
		}
		c.Next()
	}
}

// forbidden aborts with the API error envelope. The response does not
// name the missing permissions.
func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Insufficient permissions",
		},
	})
}
