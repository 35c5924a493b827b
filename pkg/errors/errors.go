// Package errors provides structured error handling for the
// ingredient enrichment pipeline.
package errors

import (
	"fmt"
)

// ErrorCode classifies a pipeline failure
type ErrorCode string

const (
	// Parsing and matching
	CodeParseAmbiguity ErrorCode = "PARSE_AMBIGUITY"
	CodeUnknownUnit    ErrorCode = "UNKNOWN_UNIT"
	CodeNoMatchFound   ErrorCode = "NO_MATCH_FOUND"

	// External collaborators
	CodeExternalProviderFailure ErrorCode = "EXTERNAL_PROVIDER_FAILURE"
	CodeQuotaExceeded           ErrorCode = "QUOTA_EXCEEDED"

	// Persistence
	CodePersistenceConflict ErrorCode = "PERSISTENCE_CONFLICT"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	CodeNotFound            ErrorCode = "NOT_FOUND"

	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause attaches a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewUnknownUnitError creates an unknown unit error
func NewUnknownUnitError(unit string) *AppError {
	return New(CodeUnknownUnit, "unit is not in the known vocabulary").
		WithMetadata("unit", unit)
}

// NewNoMatchFoundError creates a no-match error for an ingredient name
func NewNoMatchFoundError(name string) *AppError {
	return New(CodeNoMatchFound, "no nutrition match found").
		WithMetadata("normalized_name", name)
}

// NewExternalProviderError creates an external service error
func NewExternalProviderError(service string, cause error) *AppError {
	return New(CodeExternalProviderFailure, fmt.Sprintf("call to %s failed", service)).
		WithCause(cause)
}

// NewQuotaExceededError creates a quota exceeded error
func NewQuotaExceededError(limit int) *AppError {
	return New(CodeQuotaExceeded, "daily generative call quota reached").
		WithMetadata("limit", limit)
}

// NewPersistenceConflictError creates a duplicate-key conflict error
func NewPersistenceConflictError(key string, cause error) *AppError {
	return New(CodePersistenceConflict, "row already exists").
		WithMetadata("key", key).
		WithCause(cause)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return New(CodeDatabaseError, fmt.Sprintf("failed to %s", operation)).WithCause(cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return New(CodeInternal, message).WithCause(err)
}

// Is checks if an error carries a specific error code
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
