package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/pizza-admin/internal/auth"
	"github.com/franciscosanchezn/pizza-admin/internal/client"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/services"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "controllers")

// validationDetails flattens ozzo field errors for the response body
func validationDetails(err error) map[string]interface{} {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]interface{}, len(verrs))
	for field, ferr := range verrs {
		details[field] = ferr.Error()
	}
	return details
}

// respondOperationError maps a failed operation onto the console error format
func respondOperationError(c *gin.Context, err error, invalidCode string) {
	message := err.Error()
	var opErr *services.OperationError
	if errors.As(err, &opErr) {
		message = opErr.Message
	}

	if details := validationDetails(err); details != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(invalidCode, message, details))
		return
	}

	var details map[string]interface{}
	if apiErr, ok := client.AsAPIError(err); ok && len(apiErr.Errors) > 0 {
		details = map[string]interface{}{"errors": apiErr.Errors}
	}

	switch status := client.StatusCode(err); status {
	case http.StatusUnauthorized:
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrAuthenticationRequired, message).WithRedirect(auth.LoginRoute))
	case http.StatusForbidden:
		c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, message))
	case http.StatusNotFound:
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, message))
	case http.StatusUnprocessableEntity:
		c.JSON(http.StatusUnprocessableEntity, models.NewAPIError(invalidCode, message, details))
	default:
		log.WithError(err).WithField("backend_status", status).Error("Backend operation failed")
		c.JSON(http.StatusBadGateway, models.NewAPIError(models.ErrBackendFailure, message))
	}
}

// idParam parses the :id path parameter, answering 400 when it is not a positive integer
func idParam(c *gin.Context, what string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid "+what+" ID format"))
		return 0, false
	}
	return id, true
}
