package models

// Role is the role assigned to a console operator by the backend
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RolePizzaStoreOwner Role = "pizza_store_owner"
	RolePizzaChef       Role = "pizza_chef"
)

// DisplayName returns the human readable role name
func (r Role) DisplayName() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RolePizzaStoreOwner:
		return "Pizza Store Owner"
	case RolePizzaChef:
		return "Pizza Chef"
	default:
		return "Unknown"
	}
}

// UserPermissions are the capability flags granted by the backend
type UserPermissions struct {
	CanManageToppings bool `json:"can_manage_toppings"`
	CanManagePizzas   bool `json:"can_manage_pizzas"`
	CanManageUsers    bool `json:"can_manage_users"`
}

// User is the authenticated operator snapshot. It is replaced wholesale on every login or refresh.
type User struct {
	ID          int             `json:"id"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	FullName    string          `json:"full_name"`
	Name        string          `json:"name,omitempty"`
	Role        Role            `json:"role"`
	Permissions UserPermissions `json:"permissions"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

// LoginResponse is the payload returned by POST /login
type LoginResponse struct {
	Message   string `json:"message"`
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// ProfileResponse is the payload returned by GET /profile
type ProfileResponse struct {
	Data    User   `json:"data"`
	Message string `json:"message,omitempty"`
}
