package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNormalization is matched by every NormalizationError
var ErrNormalization = errors.New("normalization failed")

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	// Message is the structured "message" field of the response body
	Message string
	// ErrorText is the generic "error" field of the response body
	ErrorText string
	Errors    map[string][]string
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.ErrorText
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, detail)
}

// IsUnauthorized reports whether the backend rejected the credentials
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsUnprocessable reports a validation or conflict failure (422)
func (e *APIError) IsUnprocessable() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// NormalizationError is returned when a response cannot be turned into a domain object
type NormalizationError struct {
	Message string
}

func (e *NormalizationError) Error() string {
	return e.Message
}

func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

// AsAPIError unwraps err into an *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the backend status carried by err, or 0
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Method:     method,
		Path:       path,
	}

	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	apiErr.Message = rawString(payload.Message)
	apiErr.ErrorText = rawString(payload.Error)

	var fieldErrors map[string][]string
	if len(payload.Errors) > 0 && json.Unmarshal(payload.Errors, &fieldErrors) == nil {
		apiErr.Errors = fieldErrors
	}
	return apiErr
}

// rawString keeps only string values; objects and arrays are ignored
func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
