package devapi

import (
	"sort"
	"strings"
	"time"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/shopspring/decimal"
)

// User is an operator account of the development backend
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	FirstName    string
	LastName     string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

// Topping is a stored topping
type Topping struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"uniqueIndex;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Topping) TableName() string {
	return "toppings"
}

// Pizza is a stored pizza with its toppings
type Pizza struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	Toppings    []Topping `gorm:"many2many:pizza_toppings;joinForeignKey:PizzaID;joinReferences:ToppingID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Pizza) TableName() string {
	return "pizzas"
}

// AccessToken is an issued bearer token. Deleting the row revokes it.
type AccessToken struct {
	ID        uint   `gorm:"primaryKey"`
	Access    string `gorm:"uniqueIndex;not null"`
	ClientID  string
	UserID    string `gorm:"index"`
	Scope     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (AccessToken) TableName() string {
	return "access_tokens"
}

// capabilities returns the permission flags granted to a role
func capabilities(role models.Role) models.UserPermissions {
	switch role {
	case models.RoleSuperAdmin:
		return models.UserPermissions{CanManageToppings: true, CanManagePizzas: true, CanManageUsers: true}
	case models.RolePizzaStoreOwner:
		return models.UserPermissions{CanManageToppings: true}
	case models.RolePizzaChef:
		return models.UserPermissions{CanManagePizzas: true}
	default:
		return models.UserPermissions{}
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (u User) toModel() models.User {
	role := models.Role(u.Role)
	return models.User{
		ID:          int(u.ID),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    strings.TrimSpace(u.FirstName + " " + u.LastName),
		Role:        role,
		Permissions: capabilities(role),
		CreatedAt:   timestamp(u.CreatedAt),
		UpdatedAt:   timestamp(u.UpdatedAt),
	}
}

func (t Topping) toModel() models.Topping {
	return models.Topping{
		ID:             int(t.ID),
		Name:           t.Name,
		Price:          t.Price.StringFixed(2),
		FormattedPrice: formatPrice(t.Price),
		CreatedAt:      timestamp(t.CreatedAt),
		UpdatedAt:      timestamp(t.UpdatedAt),
	}
}

func (p Pizza) toModel() models.Pizza {
	toppings := append([]Topping(nil), p.Toppings...)
	sort.Slice(toppings, func(i, j int) bool { return toppings[i].ID < toppings[j].ID })

	total := decimal.Zero
	names := make([]string, 0, len(toppings))
	out := make([]models.Topping, 0, len(toppings))
	for _, t := range toppings {
		total = total.Add(t.Price)
		names = append(names, t.Name)
		out = append(out, t.toModel())
	}

	return models.Pizza{
		ID:           int(p.ID),
		Name:         p.Name,
		Description:  p.Description,
		TotalPrice:   formatPrice(total),
		ToppingNames: strings.Join(names, ", "),
		Toppings:     out,
		CreatedAt:    timestamp(p.CreatedAt),
		UpdatedAt:    timestamp(p.UpdatedAt),
	}
}
