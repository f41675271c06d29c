// Package errors provides the structured errors returned across the HTTP boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error represents a structured application error.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors carrying the same code, so copies made by WithError or
// WithMessage still satisfy errors.Is against the predefined values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithError returns a copy of the error wrapping err.
func (e *Error) WithError(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage returns a copy of the error with a different client-facing message.
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// New creates a new Error.
func New(code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Common error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"

	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeUserAlreadyExists = "USER_ALREADY_EXISTS"

	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrCodeUploadFailed    = "UPLOAD_FAILED"
)

// Predefined errors
var (
	ErrInternal        = New(ErrCodeInternal, "Internal server error", http.StatusInternalServerError)
	ErrInvalidRequest  = New(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest)
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests)
)

var (
	// ErrInvalidCredentials deliberately shares its status with ErrUserNotFound:
	// neither tells the client which half of the credentials was wrong.
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "Invalid id or password", http.StatusBadRequest)
	ErrUserNotFound       = New(ErrCodeUserNotFound, "User not found", http.StatusBadRequest)
	ErrUserAlreadyExists  = New(ErrCodeUserAlreadyExists, "Id is already taken", http.StatusConflict)
)

var (
	ErrMissingField    = New(ErrCodeMissingField, "Required field missing", http.StatusBadRequest)
	ErrPayloadTooLarge = New(ErrCodePayloadTooLarge, "Image must be 100 KB or smaller", http.StatusBadRequest)
	ErrUploadFailed    = New(ErrCodeUploadFailed, "Failed to upload image", http.StatusInternalServerError)
)

// GetHTTPStatus returns the HTTP status code for an error.
// If the error is not an *Error, returns 500.
func GetHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	return appErr.HTTPStatus
}

// GetCode returns the error code for an error.
// If the error is not an *Error, returns INTERNAL_ERROR.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return ErrCodeInternal
	}
	return appErr.Code
}
