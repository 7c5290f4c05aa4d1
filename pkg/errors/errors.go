package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrAuthRequired
	ErrPermissionDenied
	ErrInternal
	ErrRateLimited
	ErrQuotaExhausted
	ErrUpstream
	ErrBackend
	ErrNetwork
)

// StatusCode maps the error code to an HTTP status, used by the
// error-handling middleware.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrAuthRequired:
		return http.StatusUnauthorized
	case ErrPermissionDenied:
		return http.StatusForbidden
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrQuotaExhausted:
		return http.StatusPaymentRequired
	case ErrUpstream, ErrNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Err:     err,
	}
}

func AuthRequired(err error) *AppError {
	return &AppError{
		Code:    ErrAuthRequired,
		Message: "authentication required",
		Err:     err,
	}
}

func PermissionDenied(message string, err error) *AppError {
	return &AppError{
		Code:    ErrPermissionDenied,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func RateLimited(err error) *AppError {
	return &AppError{
		Code:    ErrRateLimited,
		Message: "too many requests, please try again later",
		Err:     err,
	}
}

func QuotaExhausted(err error) *AppError {
	return &AppError{
		Code:    ErrQuotaExhausted,
		Message: "service quota exhausted, please try again later",
		Err:     err,
	}
}

func Upstream(service string, err error) *AppError {
	return &AppError{
		Code:    ErrUpstream,
		Message: fmt.Sprintf("%s is temporarily unavailable, please try again", service),
		Err:     err,
	}
}

func Backend(err error) *AppError {
	return &AppError{
		Code:    ErrBackend,
		Message: "storage backend failure",
		Err:     err,
	}
}

func Network(err error) *AppError {
	return &AppError{
		Code:    ErrNetwork,
		Message: "network failure, please try again",
		Err:     err,
	}
}

// Is reports whether err carries the given application error code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
