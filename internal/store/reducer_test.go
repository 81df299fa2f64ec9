package store

import (
	"testing"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topping(id int, name string) *models.Topping {
	return &models.Topping{ID: id, Name: name}
}

func seeded() State {
	s := InitialState()
	s = Reduce(s, SetToppings{Toppings: []*models.Topping{
		topping(1, "Basil"), topping(2, "Ham"), topping(3, "Olives"),
	}})
	s = Reduce(s, SetPizzas{Pizzas: []*models.Pizza{
		{ID: 10, Name: "Margherita"}, {ID: 11, Name: "Hawaiian"},
	}})
	return s
}

func TestSetLoadingOnlyTouchesLoading(t *testing.T) {
	s := seeded()
	s.Error = "fetch: boom"

	next := Reduce(s, SetLoading{Loading: true})

	assert.True(t, next.Loading)
	assert.Equal(t, "fetch: boom", next.Error)
	assert.Equal(t, s.Toppings, next.Toppings)
}

func TestSetErrorClearsLoading(t *testing.T) {
	s := Reduce(seeded(), SetLoading{Loading: true})

	next := Reduce(s, SetError{Message: "fetch: unreachable"})
	assert.Equal(t, "fetch: unreachable", next.Error)
	assert.False(t, next.Loading)

	cleared := Reduce(next, SetError{})
	assert.Empty(t, cleared.Error)
}

func TestSetCollectionsDropNilEntries(t *testing.T) {
	s := Reduce(InitialState(), SetLoading{Loading: true})
	s.Error = "stale"

	next := Reduce(s, SetToppings{Toppings: []*models.Topping{nil, topping(4, "Corn"), nil}})

	assert.Equal(t, []models.Topping{{ID: 4, Name: "Corn"}}, next.Toppings)
	assert.False(t, next.Loading)
	assert.Empty(t, next.Error)
}

func TestAddAppendsOnlyPresentItems(t *testing.T) {
	s := seeded()

	next := Reduce(s, AddTopping{Topping: topping(4, "Corn")})
	require.Len(t, next.Toppings, 4)
	assert.Equal(t, "Corn", next.Toppings[3].Name)

	unchanged := Reduce(next, AddPizza{Pizza: nil})
	assert.Len(t, unchanged.Pizzas, 2)

	// the previous state is untouched
	assert.Len(t, s.Toppings, 3)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	s := seeded()
	updates := []*models.Topping{topping(2, "Prosciutto"), topping(1, "Fresh Basil"), topping(2, "Speck")}

	for _, u := range updates {
		before := s
		s = Reduce(s, UpdateTopping{Topping: u})

		require.Len(t, s.Toppings, len(before.Toppings))
		for i, t2 := range s.Toppings {
			if t2.ID == u.ID {
				assert.Equal(t, *u, t2)
			} else {
				assert.Equal(t, before.Toppings[i], t2)
			}
		}
	}
	assert.Equal(t, []string{"Fresh Basil", "Speck", "Olives"},
		[]string{s.Toppings[0].Name, s.Toppings[1].Name, s.Toppings[2].Name})
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s := seeded()
	next := Reduce(s, UpdatePizza{Pizza: &models.Pizza{ID: 99, Name: "Ghost"}})
	assert.Equal(t, s.Pizzas, next.Pizzas)
}

func TestDeleteRemovesAtMostOne(t *testing.T) {
	for _, id := range []int{1, 2, 3, 42} {
		s := seeded()
		next := Reduce(s, DeleteTopping{ID: id})

		assert.LessOrEqual(t, len(s.Toppings)-len(next.Toppings), 1)
		for _, t2 := range next.Toppings {
			assert.NotEqual(t, id, t2.ID)
		}
	}

	s := Reduce(seeded(), DeletePizza{ID: 10})
	require.Len(t, s.Pizzas, 1)
	assert.Equal(t, 11, s.Pizzas[0].ID)
}

func TestStoreDispatchAndSubscribe(t *testing.T) {
	st := New()
	var seen []State
	unsubscribe := st.Subscribe(func(s State) { seen = append(seen, s) })

	st.Dispatch(SetLoading{Loading: true})
	st.Dispatch(AddTopping{Topping: topping(1, "Basil")})
	unsubscribe()
	st.Dispatch(DeleteTopping{ID: 1})

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.Len(t, seen[1].Toppings, 1)
	assert.False(t, seen[1].Loading)
	assert.Empty(t, st.GetState().Toppings)
}
