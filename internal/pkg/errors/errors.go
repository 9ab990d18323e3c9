package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Internal   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Error codes
const (
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeConfig            = "CONFIG_ERROR"
	ErrCodeProviderAuth      = "PROVIDER_AUTH_ERROR"
	ErrCodeProviderAPI       = "PROVIDER_API_ERROR"
	ErrCodeRegistryHTTP      = "REGISTRY_HTTP_ERROR"
	ErrCodeRegistryTransport = "REGISTRY_TRANSPORT_ERROR"
	ErrCodeAborted           = "RUN_ABORTED"
	ErrCodeItemFailures      = "ITEM_FAILURES"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNotReady          = "NOT_READY"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Internal: err,
	}
}

// ConfigError reports a missing or invalid setting. It is raised before any
// network call is made.
func ConfigError(message string) *AppError {
	return New(ErrCodeConfig, message)
}

// Internal creates an unclassified error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message)
}

// ProviderAuthError creates a provider authentication error
func ProviderAuthError(provider string, err error) *AppError {
	e := Wrap(err, ErrCodeProviderAuth,
		fmt.Sprintf("Failed to authenticate with %s", provider))
	e.StatusCode = http.StatusUnauthorized
	return e
}

// ProviderAPIError creates a provider API error
func ProviderAPIError(provider string, err error) *AppError {
	e := Wrap(err, ErrCodeProviderAPI,
		fmt.Sprintf("Failed to communicate with %s API", provider))
	e.StatusCode = http.StatusBadGateway
	return e
}

// RegistryHTTPError reports a non-2xx answer from the registry.
func RegistryHTTPError(statusCode int, err error) *AppError {
	e := Wrap(err, ErrCodeRegistryHTTP,
		fmt.Sprintf("Registry returned status %d", statusCode))
	e.StatusCode = statusCode
	return e
}

// RegistryTransportError reports a request that never produced a response.
func RegistryTransportError(err error) *AppError {
	return Wrap(err, ErrCodeRegistryTransport, "Registry request failed")
}

// Aborted reports a run that stopped before every candidate was processed.
func Aborted(operation string, processed, total int, err error) *AppError {
	return Wrap(err, ErrCodeAborted,
		fmt.Sprintf("%s aborted after %d of %d projects", operation, processed, total))
}

// ItemFailures reports a completed run in which some projects were not
// reconciled.
func ItemFailures(operation string, failed int) *AppError {
	return New(ErrCodeItemFailures,
		fmt.Sprintf("%s finished with %d failed projects", operation, failed))
}

// RateLimited creates a rate limit error for the status server
func RateLimited(message string) *AppError {
	e := New(ErrCodeRateLimited, message)
	e.StatusCode = http.StatusTooManyRequests
	return e
}

// NotReady reports that no reconciliation pass has finished yet
func NotReady(message string) *AppError {
	e := New(ErrCodeNotReady, message)
	e.StatusCode = http.StatusServiceUnavailable
	return e
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	for err != nil {
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Internal
	}
	return false
}
