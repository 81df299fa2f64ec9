package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/notify"
	"github.com/franciscosanchezn/pizza-admin/internal/services"
	"github.com/gin-gonic/gin"
)

// NotificationSource lists the notifications raised by the console operations
type NotificationSource interface {
	Recent() []notify.Notification
}

type DashboardController struct {
	dashboard     services.DashboardService
	notifications NotificationSource
}

func NewDashboardController(dashboard services.DashboardService, notifications NotificationSource) *DashboardController {
	return &DashboardController{dashboard: dashboard, notifications: notifications}
}

// Dashboard godoc
// @Summary Dashboard statistics
// @Description Refresh the catalog counters from the backend
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardState
// @Failure 502 {object} models.APIError
// @Router / [get]
func (dc *DashboardController) Dashboard(c *gin.Context) {
	if err := dc.dashboard.FetchDashboard(c.Request.Context()); err != nil {
		respondOperationError(c, err, models.ErrBackendFailure)
		return
	}
	c.JSON(http.StatusOK, dc.dashboard.State())
}

// Notifications godoc
// @Summary Recent notifications
// @Description List the most recent operation notifications, oldest first
// @Tags dashboard
// @Produce json
// @Success 200 {array} notify.Notification
// @Router /notifications [get]
func (dc *DashboardController) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, dc.notifications.Recent())
}

// Unauthorized godoc
// @Summary Access denied page
// @Tags session
// @Produce json
// @Success 403 {object} models.APIError
// @Router /unauthorized [get]
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "You don't have permission to access this page.", map[string]interface{}{
		"title": "Access Denied",
	}))
}
