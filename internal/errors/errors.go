// Package errors provides a lightweight structured error type (TexkitError)
// for category-based classification in the CLI and the build orchestrator.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a texkit error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External execution environment errors
	CategoryEnvironment ErrorCategory = "environment"
	CategoryToolchain   ErrorCategory = "toolchain"
	CategoryTimeout     ErrorCategory = "timeout"

	// Local operation errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"
	CategoryLint       ErrorCategory = "lint"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// TexkitError is a structured error with category, severity, and context
type TexkitError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for TexkitError
type ContextFields map[string]any

// Error implements the error interface
func (e *TexkitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *TexkitError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *TexkitError) WithContext(key string, value any) *TexkitError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new TexkitError
func New(category ErrorCategory, severity ErrorSeverity, message string) *TexkitError {
	return &TexkitError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new TexkitError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *TexkitError {
	return &TexkitError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if te, ok := err.(*TexkitError); ok {
		return te.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a TexkitError
func GetCategory(err error) ErrorCategory {
	if te, ok := err.(*TexkitError); ok {
		return te.Category
	}
	return CategoryInternal
}
