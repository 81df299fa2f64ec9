package store

import (
	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

// Action is a cache mutation. The set of actions is closed to this package.
type Action interface {
	isAction()
}

type SetLoading struct{ Loading bool }

// SetError sets the banner error. An empty message clears it.
type SetError struct{ Message string }

type SetToppings struct{ Toppings []*models.Topping }

type SetPizzas struct{ Pizzas []*models.Pizza }

type AddTopping struct{ Topping *models.Topping }

type AddPizza struct{ Pizza *models.Pizza }

type UpdateTopping struct{ Topping *models.Topping }

type UpdatePizza struct{ Pizza *models.Pizza }

type DeleteTopping struct{ ID int }

type DeletePizza struct{ ID int }

func (SetLoading) isAction()    {}
func (SetError) isAction()      {}
func (SetToppings) isAction()   {}
func (SetPizzas) isAction()     {}
func (AddTopping) isAction()    {}
func (AddPizza) isAction()      {}
func (UpdateTopping) isAction() {}
func (UpdatePizza) isAction()   {}
func (DeleteTopping) isAction() {}
func (DeletePizza) isAction()   {}
