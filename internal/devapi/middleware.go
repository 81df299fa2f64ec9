package devapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const contextUser = "devapi_user"

// bearerAuth accepts only tokens that are both correctly signed and still present
// in the token store, so revoked tokens fail even before they expire.
func (s *Server) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondUnauthorized(c, "Missing or malformed Authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if _, err := s.tokens.LoadAccessToken(c.Request.Context(), tokenString); err != nil {
			log.WithError(err).Debug("Rejected access token")
			respondUnauthorized(c, "Invalid or expired token")
			return
		}

		uid, err := parseAccessToken(tokenString, s.secret)
		if err != nil {
			log.WithError(err).Debug("Rejected access token")
			respondUnauthorized(c, "Invalid or expired token")
			return
		}

		var user User
		if err := s.db.WithContext(c.Request.Context()).Where("id = ?", uid).First(&user).Error; err != nil {
			respondUnauthorized(c, "User no longer exists")
			return
		}

		c.Set(contextUser, user)
		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": message})
}

func currentUser(c *gin.Context) User {
	user, _ := c.MustGet(contextUser).(User)
	return user
}

// requireCapability rejects users whose role lacks the capability
func requireCapability(action string, allowed func(User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if !allowed(user) {
			log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role, "action": action}).Warn("Forbidden")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "You are not allowed to " + action,
			})
			return
		}
		c.Next()
	}
}
