package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the operator has one of the given roles.
// It must run after RequireAuthenticated. An empty role list admits everyone.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewAPIError(models.ErrAuthenticationRequired, "User not authenticated"))
			return
		}

		if len(roles) == 0 {
			c.Next()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions", map[string]interface{}{
			"required_roles": roles,
			"user_role":      user.Role,
			"user_id":        user.ID,
		}).WithRedirect(UnauthorizedRoute))
	}
}

// PermissionCheck reads one capability flag
type PermissionCheck func(models.Permissions) bool

// RequirePermission admits the request when any of the checks passes.
// It must run after RequireAuthenticated.
func RequirePermission(action string, checks ...PermissionCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		perms := CurrentPermissions(c)
		for _, check := range checks {
			if check(perms) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden,
			"You do not have permission to "+action))
	}
}
