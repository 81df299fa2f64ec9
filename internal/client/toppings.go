package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/franciscosanchezn/pizza-admin/internal/jsonapi"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

func (c *Client) ListToppings(ctx context.Context) ([]models.Topping, error) {
	var doc jsonapi.Document
	if err := c.do(ctx, http.MethodGet, "/toppings", "/toppings", nil, &doc); err != nil {
		return nil, err
	}
	return jsonapi.Toppings(&doc), nil
}

func (c *Client) GetTopping(ctx context.Context, id int) (*models.Topping, error) {
	return c.toppingCall(ctx, http.MethodGet, id, nil, "failed to transform topping data")
}

func (c *Client) CreateTopping(ctx context.Context, req models.CreateToppingRequest) (*models.Topping, error) {
	body := map[string]interface{}{"topping": req}
	return c.toppingCall(ctx, http.MethodPost, 0, body, "failed to transform created topping data")
}

func (c *Client) UpdateTopping(ctx context.Context, id int, req models.UpdateToppingRequest) (*models.Topping, error) {
	body := map[string]interface{}{"topping": req}
	return c.toppingCall(ctx, http.MethodPut, id, body, "failed to transform updated topping data")
}

func (c *Client) DeleteTopping(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/toppings/:id", fmt.Sprintf("/toppings/%d", id), nil, nil)
}

// toppingCall sends a request answered by a single topping document. id 0 targets the collection.
func (c *Client) toppingCall(ctx context.Context, method string, id int, body interface{}, failure string) (*models.Topping, error) {
	route, path := "/toppings", "/toppings"
	if id != 0 {
		route, path = "/toppings/:id", fmt.Sprintf("/toppings/%d", id)
	}

	var doc jsonapi.Document
	if err := c.do(ctx, method, route, path, body, &doc); err != nil {
		return nil, err
	}
	topping := jsonapi.Topping(&doc)
	if topping == nil {
		return nil, &NormalizationError{Message: failure}
	}
	return topping, nil
}
