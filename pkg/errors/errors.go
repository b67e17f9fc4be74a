package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a failure kind reported to callers
type ErrorCode int

const (
	ErrInvalidInput ErrorCode = iota + 1000
	ErrMissingFile
	ErrNotFound
	ErrClassifierUnavailable
	ErrUnauthorized
	ErrTooManyRequests
	ErrInternal
)

// AppError represents an application error. Each failure is scoped to a
// single call; nothing here is fatal to the process.
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

// StatusCode maps the error kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrInvalidInput, ErrMissingFile:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrClassifierUnavailable:
		return http.StatusBadGateway
	case ErrTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// InvalidInput marks caller input rejected before matching. Always
// recoverable by resubmitting.
func InvalidInput(message string) *AppError {
	return &AppError{Code: ErrInvalidInput, Message: message}
}

// MissingFile marks a photo identification attempt with no image bytes.
func MissingFile() *AppError {
	return &AppError{Code: ErrMissingFile, Message: "no image file provided"}
}

// NotFound marks a terminal lookup miss, e.g. a classifier prediction that
// names no catalog record. It is never silently converted into "no result".
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

// ClassifierUnavailable marks a transport or service failure talking to the
// external image classifier. The engine does not retry; callers may.
func ClassifierUnavailable(err error) *AppError {
	return &AppError{
		Code:    ErrClassifierUnavailable,
		Message: "image classifier unavailable",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: "unauthorized", Err: err}
}

func TooManyRequests() *AppError {
	return &AppError{Code: ErrTooManyRequests, Message: "rate limit exceeded"}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
