package models

// Topping is a flattened topping as consumed by the console
type Topping struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price,omitempty"`
	FormattedPrice string `json:"formatted_price,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// Pizza represents a pizza with its toppings embedded by value
type Pizza struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	TotalPrice   string    `json:"total_price,omitempty"`
	ToppingNames string    `json:"topping_names,omitempty"`
	Toppings     []Topping `json:"toppings"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

// HasIncompleteToppings reports whether the pizza carries toppings that were
// returned without their attributes.
func (p Pizza) HasIncompleteToppings() bool {
	for _, t := range p.Toppings {
		if t.Name == "" {
			return true
		}
	}
	return false
}

// DashboardStatistics holds the catalog counters shown on the dashboard
type DashboardStatistics struct {
	TotalToppings int `json:"total_toppings"`
	TotalPizzas   int `json:"total_pizzas"`
	TotalUsers    int `json:"total_users"`
}

type DashboardData struct {
	Statistics DashboardStatistics `json:"statistics"`
}

type DashboardResponse struct {
	Dashboard DashboardData `json:"dashboard"`
}
