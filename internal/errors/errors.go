package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when input is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated is returned when no valid session accompanies the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The message is the same whichever of the two was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("you are not allowed to modify this resource")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("resource already exists")
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SuccessResponse is the body of every successful request.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	// Internal reports that the cause should be logged and hidden from the caller.
	Internal bool
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Validation errors keep their detail; everything unrecognised becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error())
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error())
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error())
	default:
		httpErr := NewHTTPError(http.StatusInternalServerError, "internal server error")
		httpErr.Internal = true
		return httpErr
	}
}

// Success wraps data in the success envelope.
func Success(data interface{}, message string) SuccessResponse {
	return SuccessResponse{Success: true, Data: data, Message: message}
}
