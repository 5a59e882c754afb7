// Package errors provides custom error types for the geo engine.
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes.
const (
	CodeInternal      = "INTERNAL_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeBadRequest    = "BAD_REQUEST"
	CodeValidation    = "VALIDATION_ERROR"
	CodeTimeout       = "TIMEOUT"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
	CodeRateLimited   = "RATE_LIMITED"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeProvider      = "PROVIDER_ERROR"
)

// DetailStatus is the Details key holding a provider status code.
const DetailStatus = "status"

// AppError represents an application error with code and message.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches another error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Wrap wraps an error with an AppError.
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Common error constructors.

// Internal creates an internal server error.
func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

// InternalWrap wraps an error as an internal error.
func InternalWrap(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// BadRequest creates a bad request error.
func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// ValidationWithDetails creates a validation error with field details.
func ValidationWithDetails(message string, details map[string]string) *AppError {
	return New(CodeValidation, message).WithDetails(details)
}

// Timeout creates a timeout error.
func Timeout(message string) *AppError {
	return New(CodeTimeout, message)
}

// Configuration creates an error for a missing or invalid setting such as
// the provider credential. It is never retried.
func Configuration(message string) *AppError {
	return New(CodeConfiguration, message)
}

// Provider creates an error for a non-OK provider status. The status is kept
// verbatim so callers can tell OVER_QUERY_LIMIT from REQUEST_DENIED.
func Provider(status, message string) *AppError {
	if message == "" {
		message = "provider returned " + status
	}
	return New(CodeProvider, message).WithDetails(map[string]string{
		DetailStatus: status,
	})
}

// ProviderWrap wraps a transport failure talking to the provider.
func ProviderWrap(err error, message string) *AppError {
	return Wrap(err, CodeProvider, message)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return Code(err) == CodeNotFound
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return Code(err) == CodeValidation
}

// IsConfiguration checks if the error is a configuration error.
func IsConfiguration(err error) bool {
	return Code(err) == CodeConfiguration
}

// IsProvider checks if the error is a provider error.
func IsProvider(err error) bool {
	return Code(err) == CodeProvider
}

// ProviderStatus returns the provider status carried by err, or "".
func ProviderStatus(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Details != nil {
		return appErr.Details[DetailStatus]
	}
	return ""
}

// Code returns the error code or empty string.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
