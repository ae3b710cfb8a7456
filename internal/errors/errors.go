package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when request input is malformed or missing.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized is returned when no session is presented.
	ErrUnauthorized = errors.New("authentication required")
	// ErrSessionExpired is returned when the session token fails signature or expiry checks.
	ErrSessionExpired = errors.New("session expired or invalid")
	// ErrInvalidProof is returned when a challenge-response login cannot be verified.
	ErrInvalidProof = errors.New("invalid or expired proof")
	// ErrForbidden is returned when the caller lacks the admin role.
	ErrForbidden = errors.New("admin role required")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username is already in use.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrRateLimited is returned when the caller exhausted its request budget.
	ErrRateLimited = errors.New("rate limit exceeded, please try again later")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Internal   error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for logging.
func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// Validation builds a 400 error carrying a client-facing message.
func Validation(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, "VALIDATION_ERROR")
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var mapped *HTTPError
	switch {
	case errors.Is(err, ErrValidation):
		mapped = NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidCredentials):
		mapped = NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		mapped = NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrSessionExpired):
		mapped = NewHTTPError(http.StatusUnauthorized, ErrSessionExpired.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrInvalidProof):
		mapped = NewHTTPError(http.StatusUnauthorized, ErrInvalidProof.Error(), "INVALID_PROOF")
	case errors.Is(err, ErrForbidden):
		mapped = NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		mapped = NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrUsernameTaken):
		mapped = NewHTTPError(http.StatusConflict, ErrUsernameTaken.Error(), "CONFLICT")
	case errors.Is(err, ErrRateLimited):
		mapped = NewHTTPError(http.StatusTooManyRequests, ErrRateLimited.Error(), "RATE_LIMITED")
	default:
		mapped = NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	mapped.Internal = err
	return mapped
}
