package client

import (
	"context"
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout tells the backend to revoke the current token
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", "/logout", nil, nil)
}

// CurrentUser returns the profile of the token owner
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var resp models.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/profile", "/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
