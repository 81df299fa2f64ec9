package store

import (
	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

// State is the cached catalog plus the shared loading and error flags
type State struct {
	Toppings []models.Topping `json:"toppings"`
	Pizzas   []models.Pizza   `json:"pizzas"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

// InitialState returns an empty cache
func InitialState() State {
	return State{
		Toppings: []models.Topping{},
		Pizzas:   []models.Pizza{},
	}
}

// Reduce returns the state that results from applying action to state. It never
// mutates its input. Every data action clears the error and loading flags.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetLoading:
		state.Loading = a.Loading
		return state
	case SetError:
		state.Error = a.Message
		state.Loading = false
		return state

	case SetToppings:
		state.Toppings = compact(a.Toppings)
	case SetPizzas:
		state.Pizzas = compact(a.Pizzas)

	case AddTopping:
		state.Toppings = appendItem(state.Toppings, a.Topping)
	case AddPizza:
		state.Pizzas = appendItem(state.Pizzas, a.Pizza)

	case UpdateTopping:
		state.Toppings = replaceByID(state.Toppings, a.Topping, func(t models.Topping) int { return t.ID })
	case UpdatePizza:
		state.Pizzas = replaceByID(state.Pizzas, a.Pizza, func(p models.Pizza) int { return p.ID })

	case DeleteTopping:
		state.Toppings = removeByID(state.Toppings, a.ID, func(t models.Topping) int { return t.ID })
	case DeletePizza:
		state.Pizzas = removeByID(state.Pizzas, a.ID, func(p models.Pizza) int { return p.ID })

	default:
		return state
	}

	state.Error = ""
	state.Loading = false
	return state
}

// compact copies the non-nil entries
func compact[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func appendItem[T any](items []T, item *T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	if item != nil {
		out = append(out, *item)
	}
	return out
}

func replaceByID[T any](items []T, item *T, id func(T) int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if item == nil {
		return out
	}
	for i := range out {
		if id(out[i]) == id(*item) {
			out[i] = *item
		}
	}
	return out
}

func removeByID[T any](items []T, target int, id func(T) int) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if id(item) != target {
			out = append(out, item)
		}
	}
	return out
}
