package models

// Permissions are the capability flags derived from a user. They are never persisted.
type Permissions struct {
	CanViewToppings   bool `json:"can_view_toppings"`
	CanCreateToppings bool `json:"can_create_toppings"`
	CanUpdateToppings bool `json:"can_update_toppings"`
	CanDeleteToppings bool `json:"can_delete_toppings"`

	CanViewPizzas   bool `json:"can_view_pizzas"`
	CanCreatePizzas bool `json:"can_create_pizzas"`
	CanUpdatePizzas bool `json:"can_update_pizzas"`
	CanDeletePizzas bool `json:"can_delete_pizzas"`

	CanManageUsers   bool `json:"can_manage_users"`
	CanViewDashboard bool `json:"can_view_dashboard"`

	// Legacy flags mapped straight from the user
	CanManageToppings bool `json:"can_manage_toppings"`
	CanManagePizzas   bool `json:"can_manage_pizzas"`
}

// PermissionsFor derives the permission flags of the given user.
// A nil user has no permissions at all.
func PermissionsFor(user *User) Permissions {
	if user == nil {
		return Permissions{}
	}

	p := user.Permissions
	return Permissions{
		// Every role needs to see the catalog
		CanViewToppings:   true,
		CanCreateToppings: p.CanManageToppings,
		CanUpdateToppings: p.CanManageToppings,
		CanDeleteToppings: p.CanManageToppings,

		CanViewPizzas:   true,
		CanCreatePizzas: p.CanManagePizzas,
		CanUpdatePizzas: p.CanManagePizzas,
		CanDeletePizzas: p.CanManagePizzas,

		CanManageUsers:   p.CanManageUsers,
		CanViewDashboard: p.CanManageToppings || p.CanManagePizzas || p.CanManageUsers,

		CanManageToppings: p.CanManageToppings,
		CanManagePizzas:   p.CanManagePizzas,
	}
}
