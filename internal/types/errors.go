package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for GEO system errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Graph store error codes
const (
	GRAPH_CONNECTION_FAILED ErrorCode = "GRAPH_CONNECTION_FAILED"
	GRAPH_CONNECTION_CLOSED ErrorCode = "GRAPH_CONNECTION_CLOSED"
	GRAPH_QUERY_FAILED      ErrorCode = "GRAPH_QUERY_FAILED"
	GRAPH_QUERY_TIMEOUT     ErrorCode = "GRAPH_QUERY_TIMEOUT"
	GRAPH_INVALID_CONFIG    ErrorCode = "GRAPH_INVALID_CONFIG"
	GRAPH_NODE_NOT_FOUND    ErrorCode = "GRAPH_NODE_NOT_FOUND"
	GRAPH_WRITE_FAILED      ErrorCode = "GRAPH_WRITE_FAILED"
)

// Analysis error codes
const (
	ANALYZER_INVALID_INPUT ErrorCode = "ANALYZER_INVALID_INPUT"
	SCORER_INVALID_INPUT   ErrorCode = "SCORER_INVALID_INPUT"
	ASSET_NOT_FOUND        ErrorCode = "ASSET_NOT_FOUND"
)

// Entity validation error codes
const (
	ENTITY_INVALID ErrorCode = "ENTITY_INVALID"
)

// GeoError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type GeoError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *GeoError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *GeoError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a GeoError with the same Code.
func (e *GeoError) Is(target error) bool {
	var geoErr *GeoError
	if errors.As(target, &geoErr) {
		return e.Code == geoErr.Code
	}
	return false
}

// NewError creates a new non-retryable GeoError with the given code and message.
func NewError(code ErrorCode, message string) *GeoError {
	return &GeoError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable GeoError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., store timeouts).
func NewRetryableError(code ErrorCode, message string) *GeoError {
	return &GeoError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable GeoError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *GeoError {
	return &GeoError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// WrapRetryableError creates a retryable GeoError that wraps an existing error.
// Callers seeing Retryable=true own the retry-with-backoff policy; the core
// never retries store errors internally.
func WrapRetryableError(code ErrorCode, message string, cause error) *GeoError {
	return &GeoError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// IsRetryable reports whether err carries a retryable GeoError anywhere in its chain.
func IsRetryable(err error) bool {
	var geoErr *GeoError
	if errors.As(err, &geoErr) {
		return geoErr.Retryable
	}
	return false
}

// CodeOf returns the error code of the GeoError in err's chain, or empty string.
func CodeOf(err error) ErrorCode {
	var geoErr *GeoError
	if errors.As(err, &geoErr) {
		return geoErr.Code
	}
	return ""
}
