package devapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var user User
	err := s.db.WithContext(c.Request.Context()).Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Invalid email or password"})
		return
	}

	ti, err := s.tokens.GenerateAccessToken(c.Request.Context(), oauth2.PasswordCredentials, &oauth2.TokenGenerateRequest{
		ClientID: consoleClientID,
		UserID:   strconv.FormatUint(uint64(user.ID), 10),
		Request:  c.Request,
	})
	if err != nil {
		log.WithError(err).Error("Failed to issue access token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_generation_failed"})
		return
	}

	expiresAt := ti.GetAccessCreateAt().Add(ti.GetAccessExpiresIn())
	log.WithField("user_id", user.ID).Info("User logged in")
	c.JSON(http.StatusOK, models.LoginResponse{
		Message:   "Login successful",
		User:      user.toModel(),
		Token:     ti.GetAccess(),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) logout(c *gin.Context) {
	tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := s.tokens.RemoveAccessToken(c.Request.Context(), tokenString); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) profile(c *gin.Context) {
	c.JSON(http.StatusOK, models.ProfileResponse{Data: currentUser(c).toModel()})
}
