package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/jsonapi"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

func (c *Client) ListPizzas(ctx context.Context) ([]models.Pizza, error) {
	var doc jsonapi.Document
	if err := c.do(ctx, http.MethodGet, "/pizzas", "/pizzas", nil, &doc); err != nil {
		return nil, err
	}
	return jsonapi.Pizzas(&doc), nil
}

func (c *Client) GetPizza(ctx context.Context, id int) (*models.Pizza, error) {
	return c.pizzaCall(ctx, http.MethodGet, id, nil, "failed to transform pizza data")
}

func (c *Client) CreatePizza(ctx context.Context, req models.CreatePizzaRequest) (*models.Pizza, error) {
	body := map[string]interface{}{"pizza": req}
	return c.pizzaCall(ctx, http.MethodPost, 0, body, "failed to transform created pizza data")
}

func (c *Client) UpdatePizza(ctx context.Context, id int, req models.UpdatePizzaRequest) (*models.Pizza, error) {
	body := map[string]interface{}{"pizza": req}
	return c.pizzaCall(ctx, http.MethodPut, id, body, "failed to transform updated pizza data")
}

func (c *Client) DeletePizza(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/pizzas/:id", fmt.Sprintf("/pizzas/%d", id), nil, nil)
}

func (c *Client) pizzaCall(ctx context.Context, method string, id int, body interface{}, failure string) (*models.Pizza, error) {
	route, path := "/pizzas", "/pizzas"
	if id != 0 {
		route, path = "/pizzas/:id", fmt.Sprintf("/pizzas/%d", id)
	}

	var doc jsonapi.Document
	if err := c.do(ctx, method, route, path, body, &doc); err != nil {
		return nil, err
	}
	pizza := jsonapi.Pizza(&doc)
	if pizza == nil {
		return nil, &NormalizationError{Message: failure}
	}
	return pizza, nil
}
