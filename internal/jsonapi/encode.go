package jsonapi

import (
	"strconv"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

// ToppingResource encodes a topping as a JSON:API resource
func ToppingResource(t models.Topping) Resource {
	attrs := map[string]interface{}{
		"name":       t.Name,
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
	}
	if t.Price != "" {
		attrs["price"] = t.Price
	}
	if t.FormattedPrice != "" {
		attrs["formatted_price"] = t.FormattedPrice
	}
	return Resource{
		ID:         strconv.Itoa(t.ID),
		Type:       TypeTopping,
		Attributes: attrs,
	}
}

// PizzaResource encodes a pizza with a to-many toppings relationship. The toppings
// themselves are not embedded; see IncludedToppings.
func PizzaResource(p models.Pizza) Resource {
	ids := make([]Identifier, 0, len(p.Toppings))
	for _, t := range p.Toppings {
		ids = append(ids, Identifier{ID: strconv.Itoa(t.ID), Type: TypeTopping})
	}
	attrs := map[string]interface{}{
		"name":          p.Name,
		"description":   p.Description,
		"total_price":   p.TotalPrice,
		"topping_names": p.ToppingNames,
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}
	return Resource{
		ID:         strconv.Itoa(p.ID),
		Type:       TypePizza,
		Attributes: attrs,
		Relationships: map[string]Relationship{
			"toppings": {Data: ToMany(ids)},
		},
	}
}

// IncludedToppings collects the distinct toppings referenced by the pizzas,
// in first-seen order.
func IncludedToppings(pizzas ...models.Pizza) []Resource {
	seen := make(map[int]bool)
	included := []Resource{}
	for _, p := range pizzas {
		for _, t := range p.Toppings {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			included = append(included, ToppingResource(t))
		}
	}
	return included
}

// NewDocument builds a top-level document. A nil included list is omitted.
func NewDocument(data PrimaryData, included []Resource) Document {
	return Document{Data: data, Included: included}
}
