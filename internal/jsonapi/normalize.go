package jsonapi

import (
	"strconv"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

// Toppings flattens a topping list document. Absent or single-resource data yields
// an empty list and the input order is preserved.
func Toppings(doc *Document) []models.Topping {
	toppings := []models.Topping{}
	if doc == nil || !doc.Data.IsMany() {
		return toppings
	}
	for _, r := range doc.Data.Resources() {
		if t, ok := toTopping(r); ok {
			toppings = append(toppings, t)
		}
	}
	return toppings
}

// Topping flattens a single topping document. It returns nil when the document has
// no data, the first element for list data, and nil for an unparseable id.
func Topping(doc *Document) *models.Topping {
	if doc == nil || !doc.Data.Present() {
		return nil
	}
	if r, ok := doc.Data.Single(); ok {
		t, ok := toTopping(*r)
		if !ok {
			return nil
		}
		return &t
	}

	toppings := Toppings(doc)
	if len(toppings) == 0 {
		return nil
	}
	return &toppings[0]
}

// Pizzas flattens a pizza list document, resolving topping relationships against
// the included toppings. Non-list data yields an empty list.
func Pizzas(doc *Document) []models.Pizza {
	pizzas := []models.Pizza{}
	if doc == nil || !doc.Data.IsMany() {
		return pizzas
	}
	lookup := includedToppings(doc.Included)
	for _, r := range doc.Data.Resources() {
		if p, ok := toPizza(r, lookup); ok {
			pizzas = append(pizzas, p)
		}
	}
	return pizzas
}

// Pizza flattens a single pizza document. See Topping for the nil cases.
func Pizza(doc *Document) *models.Pizza {
	if doc == nil || !doc.Data.Present() {
		return nil
	}
	if r, ok := doc.Data.Single(); ok {
		p, ok := toPizza(*r, includedToppings(doc.Included))
		if !ok {
			return nil
		}
		return &p
	}

	pizzas := Pizzas(doc)
	if len(pizzas) == 0 {
		return nil
	}
	return &pizzas[0]
}

// includedToppings is the first pass: index every side-loaded topping by its raw id
func includedToppings(included []Resource) map[string]models.Topping {
	lookup := make(map[string]models.Topping, len(included))
	for _, r := range included {
		if r.Type != TypeTopping {
			continue
		}
		if t, ok := toTopping(r); ok {
			lookup[r.ID] = t
		}
	}
	return lookup
}

func toTopping(r Resource) (models.Topping, bool) {
	id, err := strconv.Atoi(r.ID)
	if err != nil {
		return models.Topping{}, false
	}
	return models.Topping{
		ID:             id,
		Name:           attr(r.Attributes, "name"),
		Price:          attr(r.Attributes, "price"),
		FormattedPrice: attr(r.Attributes, "formatted_price"),
		CreatedAt:      attr(r.Attributes, "created_at"),
		UpdatedAt:      attr(r.Attributes, "updated_at"),
	}, true
}

// toPizza is the second pass. Identifiers without a matching included topping are dropped.
func toPizza(r Resource, lookup map[string]models.Topping) (models.Pizza, bool) {
	id, err := strconv.Atoi(r.ID)
	if err != nil {
		return models.Pizza{}, false
	}
	pizza := models.Pizza{
		ID:           id,
		Name:         attr(r.Attributes, "name"),
		Description:  attr(r.Attributes, "description"),
		TotalPrice:   attr(r.Attributes, "total_price"),
		ToppingNames: attr(r.Attributes, "topping_names"),
		CreatedAt:    attr(r.Attributes, "created_at"),
		UpdatedAt:    attr(r.Attributes, "updated_at"),
		Toppings:     []models.Topping{},
	}

	rel, ok := r.Relationships["toppings"]
	if !ok {
		return pizza, true
	}
	for _, ref := range rel.Data.Identifiers() {
		if t, found := lookup[ref.ID]; found {
			pizza.Toppings = append(pizza.Toppings, t)
		}
	}
	return pizza, true
}

// attr reads a scalar attribute as a string. Numbers keep their shortest decimal form.
func attr(attrs map[string]interface{}, key string) string {
	switch v := attrs[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
