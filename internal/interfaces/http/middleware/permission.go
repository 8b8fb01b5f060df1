package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that requires any of the specified
// permissions. The user must hold at least one to proceed.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig creates permission middleware with custom config
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, permissions, "No authentication claims found")
			return
		}

		if !claims.HasAnyPermission(permissions...) {
			handlePermissionDenied(c, cfg, permissions, "User lacks required permission")
			return
		}

		c.Next()
	}
}

// RequireResource creates middleware that checks permission for a resource
// with the action derived from the HTTP method.
func RequireResource(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permission := resource + ":" + methodToAction(c.Request.Method)

		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, PermissionConfig{}, []string{permission}, "No authentication claims found")
			return
		}
		if !claims.HasPermission(permission) {
			handlePermissionDenied(c, PermissionConfig{}, []string{permission}, "User lacks required permission for resource")
			return
		}

		c.Next()
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodGet:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, permissions []string, reason string) {
	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		if claims != nil {
			userID = claims.UserID
		}
		cfg.Logger.Warn("Permission denied",
			zap.String("user_id", userID),
			zap.Strings("required", permissions),
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path))
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "You do not have permission to perform this action",
		},
	})
}
