// Package apperror defines the typed error categories the service raises.
// Handlers and middleware return these instead of writing HTTP responses
// themselves; the common package translates them into the response envelope.
package apperror

import (
	"errors"
	"net/http"
)

// ErrorType categorizes an application error.
type ErrorType int

const (
	// UnknownError is the fallback for anything unclassified.
	UnknownError ErrorType = iota
	// AccessDeniedError means the caller is authenticated but lacks permission.
	AccessDeniedError
	// BadCredentialsError means the username or password did not match.
	BadCredentialsError
	// ValidationError means declarative field validation failed. Fields holds
	// the per-field messages.
	ValidationError
	// NotFoundError means the addressed record does not exist.
	NotFoundError
	// IllegalArgumentError means a business rule rejected the input
	// (weak password, duplicate username or email).
	IllegalArgumentError
	// AccountStatusError means the account exists but is disabled or locked.
	AccountStatusError
	// InsufficientAuthError means no authenticated identity was presented.
	InsufficientAuthError
	// InvalidTokenError means the bearer token is expired, revoked or malformed.
	InvalidTokenError
	// InternalError is a server-side failure.
	InternalError
)

// AppError carries an error category, a user-facing message, an optional
// field->message map (validation only) and an optional underlying error.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error category to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AccessDeniedError:
		return http.StatusForbidden
	case BadCredentialsError, AccountStatusError, InsufficientAuthError, InvalidTokenError:
		return http.StatusUnauthorized
	case ValidationError, IllegalArgumentError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates an AppError with an arbitrary category.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewAccessDeniedError creates an AccessDeniedError.
func NewAccessDeniedError(message string, underlying error) *AppError {
	return NewAppError(AccessDeniedError, message, underlying)
}

// NewBadCredentialsError creates a BadCredentialsError.
func NewBadCredentialsError(message string, underlying error) *AppError {
	return NewAppError(BadCredentialsError, message, underlying)
}

// NewValidationError creates a ValidationError carrying the field messages.
func NewValidationError(fields map[string]string) *AppError {
	return &AppError{Type: ValidationError, Message: "invalid arguments", Fields: fields}
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewIllegalArgumentError creates an IllegalArgumentError.
func NewIllegalArgumentError(message string, underlying error) *AppError {
	return NewAppError(IllegalArgumentError, message, underlying)
}

// NewAccountStatusError creates an AccountStatusError.
func NewAccountStatusError(message string, underlying error) *AppError {
	return NewAppError(AccountStatusError, message, underlying)
}

// NewInsufficientAuthError creates an InsufficientAuthError.
func NewInsufficientAuthError(message string, underlying error) *AppError {
	return NewAppError(InsufficientAuthError, message, underlying)
}

// NewInvalidTokenError creates an InvalidTokenError.
func NewInvalidTokenError(message string, underlying error) *AppError {
	return NewAppError(InvalidTokenError, message, underlying)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// FromError converts err to an *AppError when it is one (possibly wrapped).
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsIllegalArgument reports whether err is an IllegalArgumentError.
func IsIllegalArgument(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == IllegalArgumentError
}
