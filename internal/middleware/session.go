package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/auth"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/session"
	"github.com/gin-gonic/gin"
)

// Context keys set by the session guards
const (
	ContextUser        = "user"
	ContextPermissions = "permissions"
)

// UnauthorizedRoute is where operators lacking a role are sent
const UnauthorizedRoute = "/unauthorized"

// SessionSource exposes the operator session to the guards
type SessionSource interface {
	State() session.State
	Permissions() models.Permissions
}

// RequireAuthenticated rejects requests while the session is still being verified
// or when no operator is logged in. On success the user and the permissions are
// stored in the gin context.
func RequireAuthenticated(src SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := src.State()

		if state.IsLoading {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				models.NewAPIError(models.ErrSessionLoading, "Checking authentication..."))
			return
		}

		if !state.IsAuthenticated || state.User == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewAPIError(models.ErrAuthenticationRequired, "Authentication required").WithRedirect(auth.LoginRoute))
			return
		}

		c.Set(ContextUser, state.User)
		c.Set(ContextPermissions, src.Permissions())
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuthenticated
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// CurrentPermissions returns the permissions stored by RequireAuthenticated
func CurrentPermissions(c *gin.Context) models.Permissions {
	value, _ := c.Get(ContextPermissions)
	perms, _ := value.(models.Permissions)
	return perms
}
