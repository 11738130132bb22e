package models

import "fmt"

// ErrorCode is a string type for consistent error codes.
type ErrorCode string

const (
	// Generic
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed    ErrorCode = "method_not_allowed"

	// Validation
	ErrorCodeMissingParameter ErrorCode = "missing_parameter"
	ErrorCodeInvalidFormat    ErrorCode = "invalid_format"

	// Ledger file
	ErrorCodePersistenceError ErrorCode = "persistence_error"
)

type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	StatusCode int       `json:"-"`
}

// Error makes APIError implement the error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAPIError is a constructor for APIError.
func NewAPIError(code ErrorCode, message string, details any, statusCode int) APIError {
	return APIError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: statusCode,
	}
}
