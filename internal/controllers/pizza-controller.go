package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/services"
	"github.com/franciscosanchezn/pizza-admin/internal/store"
	"github.com/gin-gonic/gin"
)

type PizzaController interface {
	ListPizzas(c *gin.Context)
	CreatePizza(c *gin.Context)
	UpdatePizza(c *gin.Context)
	DeletePizza(c *gin.Context)
}

type pizzaController struct {
	service services.PizzaService
	store   store.Store
}

func NewPizzaController(service services.PizzaService, st store.Store) PizzaController {
	return &pizzaController{service: service, store: st}
}

// ListPizzas godoc
// @Summary List pizzas
// @Description Refresh the pizza cache from the backend and return it
// @Tags pizzas
// @Produce json
// @Success 200 {array} models.Pizza
// @Failure 502 {object} models.APIError
// @Router /pizzas [get]
func (pc *pizzaController) ListPizzas(c *gin.Context) {
	if err := pc.service.FetchPizzas(c.Request.Context()); err != nil {
		respondOperationError(c, err, models.ErrPizzaInvalidData)
		return
	}
	c.JSON(http.StatusOK, pc.store.GetState().Pizzas)
}

// CreatePizza godoc
// @Summary Create a pizza
// @Description Create a pizza and append it to the cache, completing partially returned toppings
// @Tags pizzas
// @Accept json
// @Produce json
// @Param pizza body models.CreatePizzaRequest true "Pizza data"
// @Success 201 {object} models.Pizza
// @Failure 400 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Router /pizzas [post]
func (pc *pizzaController) CreatePizza(c *gin.Context) {
	var req models.CreatePizzaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	pizza, err := pc.service.CreatePizza(c.Request.Context(), req)
	if err != nil {
		respondOperationError(c, err, models.ErrPizzaInvalidData)
		return
	}
	c.JSON(http.StatusCreated, pizza)
}

// UpdatePizza godoc
// @Summary Update a pizza
// @Description Update a pizza and replace it in the cache
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path int true "Pizza ID"
// @Param pizza body models.UpdatePizzaRequest true "Pizza data"
// @Success 200 {object} models.Pizza
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Router /pizzas/{id} [put]
func (pc *pizzaController) UpdatePizza(c *gin.Context) {
	id, ok := idParam(c, "pizza")
	if !ok {
		return
	}

	var req models.UpdatePizzaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	pizza, err := pc.service.UpdatePizza(c.Request.Context(), id, req)
	if err != nil {
		respondOperationError(c, err, models.ErrPizzaInvalidData)
		return
	}
	c.JSON(http.StatusOK, pizza)
}

// DeletePizza godoc
// @Summary Delete a pizza
// @Description Delete a pizza and drop it from the cache
// @Tags pizzas
// @Param id path int true "Pizza ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Router /pizzas/{id} [delete]
func (pc *pizzaController) DeletePizza(c *gin.Context) {
	id, ok := idParam(c, "pizza")
	if !ok {
		return
	}

	if !pc.service.DeletePizza(c.Request.Context(), id) {
		c.JSON(http.StatusUnprocessableEntity, models.NewAPIError(models.ErrPizzaDeleteFailed, "Pizza could not be deleted"))
		return
	}
	c.Status(http.StatusNoContent)
}
