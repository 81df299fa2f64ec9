package models

// APIError represents a standardized error response of the admin console
type APIError struct {
	Code     string                 `json:"code"`
	Message  string                 `json:"message"`
	Redirect string                 `json:"redirect,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrUnavailable      = "SERVICE_UNAVAILABLE"

	// Session errors
	ErrAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	ErrLoginFailed            = "LOGIN_FAILED"
	ErrSessionLoading         = "SESSION_LOADING"

	// Catalog errors
	ErrToppingInvalidData  = "TOPPING_INVALID_DATA"
	ErrToppingDeleteFailed = "TOPPING_DELETE_FAILED"
	ErrPizzaInvalidData    = "PIZZA_INVALID_DATA"
	ErrPizzaDeleteFailed   = "PIZZA_DELETE_FAILED"
	ErrBackendFailure      = "BACKEND_FAILURE"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithRedirect returns a copy of the error pointing the caller at another route
func (e APIError) WithRedirect(route string) APIError {
	e.Redirect = route
	return e
}
