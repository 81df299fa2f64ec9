package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/services"
	"github.com/franciscosanchezn/pizza-admin/internal/store"
	"github.com/gin-gonic/gin"
)

type ToppingController interface {
	ListToppings(c *gin.Context)
	CreateTopping(c *gin.Context)
	UpdateTopping(c *gin.Context)
	DeleteTopping(c *gin.Context)
}

type toppingController struct {
	service services.ToppingService
	store   store.Store
}

func NewToppingController(service services.ToppingService, st store.Store) ToppingController {
	return &toppingController{service: service, store: st}
}

// ListToppings godoc
// @Summary List toppings
// @Description Refresh the topping cache from the backend and return it
// @Tags toppings
// @Produce json
// @Success 200 {array} models.Topping
// @Failure 502 {object} models.APIError
// @Router /toppings [get]
func (tc *toppingController) ListToppings(c *gin.Context) {
	if err := tc.service.FetchToppings(c.Request.Context()); err != nil {
		respondOperationError(c, err, models.ErrToppingInvalidData)
		return
	}
	c.JSON(http.StatusOK, tc.store.GetState().Toppings)
}

// CreateTopping godoc
// @Summary Create a topping
// @Description Create a topping and append it to the cache
// @Tags toppings
// @Accept json
// @Produce json
// @Param topping body models.CreateToppingRequest true "Topping data"
// @Success 201 {object} models.Topping
// @Failure 400 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Router /toppings [post]
func (tc *toppingController) CreateTopping(c *gin.Context) {
	var req models.CreateToppingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	topping, err := tc.service.CreateTopping(c.Request.Context(), req)
	if err != nil {
		respondOperationError(c, err, models.ErrToppingInvalidData)
		return
	}
	c.JSON(http.StatusCreated, topping)
}

// UpdateTopping godoc
// @Summary Update a topping
// @Description Update a topping and replace it in the cache
// @Tags toppings
// @Accept json
// @Produce json
// @Param id path int true "Topping ID"
// @Param topping body models.UpdateToppingRequest true "Topping data"
// @Success 200 {object} models.Topping
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Router /toppings/{id} [put]
func (tc *toppingController) UpdateTopping(c *gin.Context) {
	id, ok := idParam(c, "topping")
	if !ok {
		return
	}

	var req models.UpdateToppingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	topping, err := tc.service.UpdateTopping(c.Request.Context(), id, req)
	if err != nil {
		respondOperationError(c, err, models.ErrToppingInvalidData)
		return
	}
	c.JSON(http.StatusOK, topping)
}

// DeleteTopping godoc
// @Summary Delete a topping
// @Description Delete a topping and drop it from the cache
// @Tags toppings
// @Param id path int true "Topping ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Router /toppings/{id} [delete]
func (tc *toppingController) DeleteTopping(c *gin.Context) {
	id, ok := idParam(c, "topping")
	if !ok {
		return
	}

	if !tc.service.DeleteTopping(c.Request.Context(), id) {
		c.JSON(http.StatusUnprocessableEntity, models.NewAPIError(models.ErrToppingDeleteFailed, "Topping could not be deleted"))
		return
	}
	c.Status(http.StatusNoContent)
}
