package models

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"
)

var (
	priceFormat = regexp.MustCompile(`^\d+(\.\d{0,2})?$`)
	maxPrice    = decimal.RequireFromString("999999.99")
)

// LoginRequest is the payload of POST /login
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will validate the credentials payload
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// CreateToppingRequest is the payload for creating a topping
type CreateToppingRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Validate will validate the topping payload
func (r CreateToppingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.By(validateName)),
		validation.Field(&r.Price, validation.By(ValidatePrice)),
	)
}

// UpdateToppingRequest is the payload for updating a topping
type UpdateToppingRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Validate will validate the topping payload
func (r UpdateToppingRequest) Validate() error {
	return CreateToppingRequest(r).Validate()
}

// CreatePizzaRequest is the payload for creating a pizza
type CreatePizzaRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ToppingIDs  []int  `json:"topping_ids"`
}

// Validate will validate the pizza payload
func (r CreatePizzaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.By(validateName)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.ToppingIDs, validation.By(validateToppingIDs)),
	)
}

// UpdatePizzaRequest is the payload for updating a pizza. Empty fields are left untouched;
// a non-nil empty ToppingIDs removes every topping.
type UpdatePizzaRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ToppingIDs  []int  `json:"topping_ids,omitempty"`
}

// MarshalJSON omits nil topping ids but keeps an empty list, which clears the toppings
func (r UpdatePizzaRequest) MarshalJSON() ([]byte, error) {
	type fields UpdatePizzaRequest
	payload := struct {
		fields
		ToppingIDs *[]int `json:"topping_ids,omitempty"`
	}{fields: fields(r)}
	if r.ToppingIDs != nil {
		payload.ToppingIDs = &r.ToppingIDs
	}
	return json.Marshal(payload)
}

// Validate will validate the pizza payload
func (r UpdatePizzaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.By(validateOptionalName)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.ToppingIDs, validation.By(validateToppingIDs)),
	)
}

func validateOptionalName(value interface{}) error {
	if name, _ := value.(string); name == "" {
		return nil
	}
	return validateName(value)
}

func validateToppingIDs(value interface{}) error {
	ids, _ := value.([]int)
	for _, id := range ids {
		if id < 1 {
			return errors.New("topping ids must be positive")
		}
	}
	return nil
}

func validateName(value interface{}) error {
	name, _ := value.(string)
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return errors.New("name is required")
	case len([]rune(name)) < 2:
		return errors.New("name must be at least 2 characters")
	case len([]rune(name)) > 100:
		return errors.New("name cannot exceed 100 characters")
	}
	return nil
}

// ValidatePrice checks a price against the backend numeric(8,2) column
func ValidatePrice(value interface{}) error {
	raw, _ := value.(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("price is required")
	}
	if !priceFormat.MatchString(raw) {
		return errors.New("price must be a valid number with up to 2 decimal places (e.g., 12.99)")
	}

	integerPart := strings.SplitN(raw, ".", 2)[0]
	if len(integerPart) > 6 {
		return errors.New("price can have a maximum of 6 digits before the decimal point")
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return errors.New("price must be a valid number")
	}
	if price.IsNegative() {
		return errors.New("price must be greater than or equal to 0")
	}
	if price.GreaterThan(maxPrice) {
		return errors.New("price cannot exceed $999,999.99")
	}
	return nil
}
