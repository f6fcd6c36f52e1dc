// Package errors provides structured error types for RunArt.
//
// All errors in RunArt should use these types to enable consistent
// error handling, logging, and partial-success reporting across the
// pipeline stages.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier for categorization.
type ErrorCode string

// Common error codes used throughout RunArt.
const (
	// Credential refresh (AuthError)
	CodeAuthFailed ErrorCode = "AUTH_FAILED"

	// Activity fetch (FetchError)
	CodeNoActivities ErrorCode = "NO_ACTIVITIES"
	CodeFetchFailed  ErrorCode = "FETCH_FAILED"

	// Image generation (GenerationError)
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"

	// Image persistence (PersistError)
	CodePersistFailed ErrorCode = "PERSIST_FAILED"

	// Description write-back (UpdateError)
	CodeUpdateFailed ErrorCode = "UPDATE_FAILED"

	// Infrastructure errors
	CodeSecretError  ErrorCode = "SECRET_ERROR"
	CodeStorageError ErrorCode = "STORAGE_ERROR"
	CodePubSubError  ErrorCode = "PUBSUB_ERROR"

	// General errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// RunArtError is the base error type for all RunArt errors.
// It provides structured error information including error codes,
// retry semantics, and contextual metadata.
type RunArtError struct {
	Code      ErrorCode         // Unique error code for categorization
	Message   string            // Human-readable error message
	Cause     error             // Underlying error (if any)
	Retryable bool              // Whether the operation can be retried
	Metadata  map[string]string // Additional context
}

// Error implements the error interface.
func (e *RunArtError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *RunArtError) Unwrap() error {
	return e.Cause
}

// Is matches on error code so sentinels survive wrapping via WithCause.
func (e *RunArtError) Is(target error) bool {
	var t *RunArtError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *RunArtError) WithCause(cause error) *RunArtError {
	return &RunArtError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMessage adds a custom message.
func (e *RunArtError) WithMessage(msg string) *RunArtError {
	return &RunArtError{
		Code:      e.Code,
		Message:   msg,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMetadata adds contextual metadata.
func (e *RunArtError) WithMetadata(key, value string) *RunArtError {
	meta := make(map[string]string)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &RunArtError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  meta,
	}
}

// Pre-defined sentinel errors for common cases.
// Use these with errors.Is() or wrap them with .WithCause().
var (
	ErrAuth         = &RunArtError{Code: CodeAuthFailed, Message: "credential refresh failed", Retryable: false}
	ErrNoActivities = &RunArtError{Code: CodeNoActivities, Message: "no recent activities found", Retryable: false}
	ErrFetch        = &RunArtError{Code: CodeFetchFailed, Message: "activity fetch failed", Retryable: false}
	ErrGeneration   = &RunArtError{Code: CodeGenerationFailed, Message: "image generation failed", Retryable: false}
	ErrPersist      = &RunArtError{Code: CodePersistFailed, Message: "image persistence failed", Retryable: true}
	ErrUpdate       = &RunArtError{Code: CodeUpdateFailed, Message: "description update failed", Retryable: true}

	ErrSecret  = &RunArtError{Code: CodeSecretError, Message: "secret access error", Retryable: true}
	ErrStorage = &RunArtError{Code: CodeStorageError, Message: "storage error", Retryable: true}
	ErrPubSub  = &RunArtError{Code: CodePubSubError, Message: "pubsub error", Retryable: true}

	ErrValidation = &RunArtError{Code: CodeValidationError, Message: "validation error", Retryable: false}
	ErrInternal   = &RunArtError{Code: CodeInternalError, Message: "internal error", Retryable: false}
)

// New creates a new RunArtError with the given code and message.
func New(code ErrorCode, message string) *RunArtError {
	return &RunArtError{
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// Wrap wraps an error with a RunArtError.
func Wrap(cause error, code ErrorCode, message string) *RunArtError {
	return &RunArtError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: false,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var raErr *RunArtError
	if errors.As(err, &raErr) {
		return raErr.Retryable
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var raErr *RunArtError
	if errors.As(err, &raErr) {
		return raErr.Code
	}
	return CodeInternalError
}
