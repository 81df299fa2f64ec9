package client

import (
	"context"
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

// Dashboard returns the catalog statistics. This endpoint is plain JSON, not JSON:API.
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardData, error) {
	var resp models.DashboardResponse
	if err := c.do(ctx, http.MethodGet, "/dashboard", "/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Dashboard, nil
}
