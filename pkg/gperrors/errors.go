package gperrors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for the GlobalProtect login/logout outcome taxonomy
const (
	// ErrCodeMalformedResponse indicates an unexpected document shape from the
	// server. Always fatal to the current step.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	// ErrCodeAuthorizationRequired indicates SAML or other external
	// authentication is needed and cannot be satisfied locally.
	ErrCodeAuthorizationRequired ErrorCode = "AUTHORIZATION_REQUIRED"

	// ErrCodeAuthorizationRejected indicates the server rejected the submitted
	// credentials. Retryable exactly once via the blind-retry budget.
	ErrCodeAuthorizationRejected ErrorCode = "AUTHORIZATION_REJECTED"

	// ErrCodeNeedsAdditionalFactor indicates a challenge round: the form has
	// been rebuilt and must be presented and resubmitted. Never terminal.
	ErrCodeNeedsAdditionalFactor ErrorCode = "NEEDS_ADDITIONAL_FACTOR"

	// ErrCodeNoGatewaysAvailable indicates the portal listed zero gateways.
	ErrCodeNoGatewaysAvailable ErrorCode = "NO_GATEWAYS_AVAILABLE"

	// ErrCodeTokenGenerationFailed indicates token-code generation failed;
	// token support is disabled for the remainder of the session.
	ErrCodeTokenGenerationFailed ErrorCode = "TOKEN_GENERATION_FAILED"

	// ErrCodeProtocolFieldMismatch indicates a schema literal mismatch in the
	// gateway login response (server version skew).
	ErrCodeProtocolFieldMismatch ErrorCode = "PROTOCOL_FIELD_MISMATCH"

	// ErrCodeWrongEndpoint indicates the server reported that the requested
	// endpoint type (portal vs gateway) does not exist on this host.
	ErrCodeWrongEndpoint ErrorCode = "WRONG_ENDPOINT"

	// ErrCodeCancelled indicates the user cancelled form input.
	ErrCodeCancelled ErrorCode = "CANCELLED"

	// ErrCodeInternal is the catch-all for unexpected local failures.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with code, message, and optional details
type Error struct {
	Code    ErrorCode              // Unique error code
	Message string                 // Human-readable error message
	Details map[string]interface{} // Optional additional details
	Err     error                  // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps an existing error with code and formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
// Returns ErrCodeInternal if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
