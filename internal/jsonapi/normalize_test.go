package jsonapi

import (
	"encoding/json"
	"testing"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := Decode([]byte(body))
	require.NoError(t, err)
	return doc
}

func TestToppingSingleResource(t *testing.T) {
	doc := decode(t, `{"data":{"id":"1","type":"topping","attributes":{"name":"Pepperoni","price":"2.99"}}}`)

	topping := Topping(doc)
	require.NotNil(t, topping)
	assert.Equal(t, models.Topping{ID: 1, Name: "Pepperoni", Price: "2.99"}, *topping)
}

func TestToppingsPreservesOrder(t *testing.T) {
	doc := decode(t, `{"data":[
		{"id":"3","type":"topping","attributes":{"name":"Olives","formatted_price":"$1.00"}},
		{"id":"1","type":"topping","attributes":{"name":"Basil","price":0.5}},
		{"id":"2","type":"topping","attributes":{"name":"Ham"}}
	]}`)

	toppings := Toppings(doc)
	require.Len(t, toppings, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{toppings[0].ID, toppings[1].ID, toppings[2].ID})
	assert.Equal(t, "$1.00", toppings[0].FormattedPrice)
	assert.Equal(t, "0.5", toppings[1].Price)
}

func TestAbsentData(t *testing.T) {
	for _, body := range []string{`{}`, `{"data":null}`} {
		doc := decode(t, body)
		assert.Empty(t, Toppings(doc))
		assert.NotNil(t, Toppings(doc))
		assert.Empty(t, Pizzas(doc))
		assert.Nil(t, Topping(doc))
		assert.Nil(t, Pizza(doc))
	}
}

func TestSingleTransformOnListTakesFirst(t *testing.T) {
	doc := decode(t, `{"data":[{"id":"7","type":"topping","attributes":{"name":"Onion"}},{"id":"8","type":"topping","attributes":{"name":"Corn"}}]}`)
	topping := Topping(doc)
	require.NotNil(t, topping)
	assert.Equal(t, 7, topping.ID)

	empty := decode(t, `{"data":[]}`)
	assert.Nil(t, Topping(empty))
}

func TestListTransformOnSingleResourceIsEmpty(t *testing.T) {
	toppingDoc := decode(t, `{"data":{"id":"1","type":"topping","attributes":{"name":"Pepperoni"}}}`)
	assert.Empty(t, Toppings(toppingDoc))
	assert.NotNil(t, Toppings(toppingDoc))

	pizzaDoc := decode(t, `{"data":{"id":"4","type":"pizza","attributes":{"name":"Margherita"}}}`)
	assert.Empty(t, Pizzas(pizzaDoc))
	assert.NotNil(t, Pizza(pizzaDoc))
}

func TestPizzasResolveIncludedToppings(t *testing.T) {
	doc := decode(t, `{
		"data":[
			{"id":"10","type":"pizza","attributes":{"name":"Margherita","total_price":"9.50"},
			 "relationships":{"toppings":{"data":[{"id":"2","type":"topping"},{"id":"1","type":"topping"}]}}},
			{"id":"11","type":"pizza","attributes":{"name":"Plain"}}
		],
		"included":[
			{"id":"1","type":"topping","attributes":{"name":"Basil"}},
			{"id":"2","type":"topping","attributes":{"name":"Mozzarella"}},
			{"id":"1","type":"user","attributes":{"name":"not a topping"}}
		]
	}`)

	pizzas := Pizzas(doc)
	require.Len(t, pizzas, 2)
	assert.Equal(t, 10, pizzas[0].ID)
	assert.Equal(t, "9.50", pizzas[0].TotalPrice)
	require.Len(t, pizzas[0].Toppings, 2)
	assert.Equal(t, "Mozzarella", pizzas[0].Toppings[0].Name)
	assert.Equal(t, "Basil", pizzas[0].Toppings[1].Name)

	assert.NotNil(t, pizzas[1].Toppings)
	assert.Empty(t, pizzas[1].Toppings)
}

func TestPizzaDropsDanglingReferences(t *testing.T) {
	doc := decode(t, `{
		"data":{"id":"5","type":"pizza","attributes":{"name":"Supreme"},
			"relationships":{"toppings":{"data":[{"id":"1","type":"topping"},{"id":"99","type":"topping"}]}}},
		"included":[{"id":"1","type":"topping","attributes":{"name":"Ham"}}]
	}`)

	var pizza *models.Pizza
	require.NotPanics(t, func() { pizza = Pizza(doc) })
	require.NotNil(t, pizza)
	require.Len(t, pizza.Toppings, 1)
	assert.Equal(t, 1, pizza.Toppings[0].ID)
}

func TestPizzaToOneToppingRelationship(t *testing.T) {
	doc := decode(t, `{
		"data":{"id":"5","type":"pizza","attributes":{"name":"Solo"},
			"relationships":{"toppings":{"data":{"id":"4","type":"topping"}}}},
		"included":[{"id":"4","type":"topping","attributes":{"name":"Anchovy"}}]
	}`)

	pizza := Pizza(doc)
	require.NotNil(t, pizza)
	require.Len(t, pizza.Toppings, 1)
	assert.Equal(t, "Anchovy", pizza.Toppings[0].Name)
}

func TestNonNumericIDs(t *testing.T) {
	doc := decode(t, `{"data":[{"id":"abc","type":"topping","attributes":{"name":"Bad"}},{"id":"2","type":"topping","attributes":{"name":"Good"}}]}`)
	toppings := Toppings(doc)
	require.Len(t, toppings, 1)
	assert.Equal(t, "Good", toppings[0].Name)

	single := decode(t, `{"data":{"id":"x","type":"pizza","attributes":{}}}`)
	assert.Nil(t, Pizza(single))
}

func TestEncodeDecodePizzaDocument(t *testing.T) {
	pizza := models.Pizza{
		ID:   3,
		Name: "Hawaiian",
		Toppings: []models.Topping{
			{ID: 1, Name: "Ham", Price: "1.50"},
			{ID: 2, Name: "Pineapple", Price: "1.00"},
		},
	}
	doc := Document{
		Data:     One(PizzaResource(pizza)),
		Included: IncludedToppings(pizza),
	}

	body, err := json.Marshal(doc)
	require.NoError(t, err)

	decoded := Pizza(decode(t, string(body)))
	require.NotNil(t, decoded)
	assert.Equal(t, pizza.Name, decoded.Name)
	assert.Equal(t, pizza.Toppings, decoded.Toppings)
}

func TestDecodeRejectsScalarData(t *testing.T) {
	_, err := Decode([]byte(`{"data":"nope"}`))
	assert.Error(t, err)
}
