package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a folio error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrConfigMissing  ErrorCode = "CONFIG_MISSING"  // 500
	ErrUpstream       ErrorCode = "UPSTREAM_ERROR"  // 500
	ErrDeliveryFailed ErrorCode = "DELIVERY_FAILED" // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// FolioError represents a structured error with code, status, and details.
type FolioError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *FolioError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *FolioError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *FolioError {
	return &FolioError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing resource (project slug, content file).
func NewNotFound(kind, identifier string) *FolioError {
	return &FolioError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a path that does not exist on disk.
func NewFileNotFound(path string) *FolioError {
	return &FolioError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: "File not found",
		Details: map[string]any{"path": path},
	}
}

// NewCancelled creates an error for an operation stopped by context cancellation.
func NewCancelled(operation string) *FolioError {
	return &FolioError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewConfigMissing creates a 500 error for required configuration that is absent.
// The message is shown to the caller verbatim.
func NewConfigMissing(msg string) *FolioError {
	return &FolioError{
		Code:    ErrConfigMissing,
		Status:  500,
		Message: msg,
	}
}

// NewUpstream creates a 500 error for a terminal failure from the language-model API.
func NewUpstream(model string, err error) *FolioError {
	return &FolioError{
		Code:    ErrUpstream,
		Status:  500,
		Message: fmt.Sprintf("model %s: %v", model, err),
		Details: map[string]any{"model": model},
		cause:   err,
	}
}

// NewDeliveryFailed creates a 500 error for an SMTP delivery failure.
func NewDeliveryFailed(err error) *FolioError {
	return &FolioError{
		Code:    ErrDeliveryFailed,
		Status:  500,
		Message: fmt.Sprintf("failed to send email: %v", err),
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *FolioError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &FolioError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// As returns err as a *FolioError, wrapping unknown errors as INTERNAL.
func As(err error) *FolioError {
	var fErr *FolioError
	if stderrors.As(err, &fErr) {
		return fErr
	}
	return NewInternal(err)
}

// Is checks if an error is a FolioError with the given code.
func Is(err error, code ErrorCode) bool {
	var fErr *FolioError
	if stderrors.As(err, &fErr) {
		return fErr.Code == code
	}
	return false
}
