package controllers

import (
	"context"
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/auth"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/session"
	"github.com/gin-gonic/gin"
)

// SessionManager is the session surface used by the console
type SessionManager interface {
	State() session.State
	Permissions() models.Permissions
	Login(ctx context.Context, email, password string) (*models.User, error)
	SignOut(ctx context.Context)
}

// TokenInspector reports the expiration of the stored token
type TokenInspector interface {
	TokenInfo() *auth.TokenInfo
}

// SessionResponse describes the operator session
type SessionResponse struct {
	Status          session.Status     `json:"status"`
	IsAuthenticated bool               `json:"is_authenticated"`
	User            *models.User       `json:"user"`
	RoleName        string             `json:"role_name,omitempty"`
	Permissions     models.Permissions `json:"permissions"`
	Token           *auth.TokenInfo    `json:"token,omitempty"`
	Error           string             `json:"error,omitempty"`
}

type AuthController struct {
	session SessionManager
	tokens  TokenInspector
}

func NewAuthController(session SessionManager, tokens TokenInspector) *AuthController {
	return &AuthController{session: session, tokens: tokens}
}

func (ac *AuthController) describe() SessionResponse {
	state := ac.session.State()
	resp := SessionResponse{
		Status:          state.Status,
		IsAuthenticated: state.IsAuthenticated,
		User:            state.User,
		Permissions:     ac.session.Permissions(),
		Error:           state.Error,
	}
	if state.User != nil {
		resp.RoleName = state.User.Role.DisplayName()
	}
	if state.IsAuthenticated && ac.tokens != nil {
		resp.Token = ac.tokens.TokenInfo()
	}
	return resp
}

// Login godoc
// @Summary Log in
// @Description Exchange operator credentials for a backend session
// @Tags session
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Operator credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Router /login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error(), validationDetails(err)))
		return
	}

	if _, err := ac.session.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrLoginFailed, ac.session.State().Error))
		return
	}
	c.JSON(http.StatusOK, ac.describe())
}

// Logout godoc
// @Summary Log out
// @Description Revoke the backend token and clear the persisted session
// @Tags session
// @Produce json
// @Success 200 {object} map[string]string
// @Router /logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	ac.session.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "redirect": auth.LoginRoute})
}

// Session godoc
// @Summary Current session
// @Description Describe the operator session, permissions and token expiration
// @Tags session
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /session [get]
func (ac *AuthController) Session(c *gin.Context) {
	c.JSON(http.StatusOK, ac.describe())
}
