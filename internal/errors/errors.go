// Package errors defines the structured error types used by the cmdform
// adapter. Errors carry a category, a stable code, and optional command/flag
// context so callers can match on them with errors.Is/errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// ErrorTypeConfiguration marks a command that cannot be bridged at all:
	// nil command, missing callback, missing flag metadata.
	ErrorTypeConfiguration ErrorType = "configuration"

	// ErrorTypeUnsupportedType marks a flag whose type has no form field
	// mapping.
	ErrorTypeUnsupportedType ErrorType = "unsupported_type"

	// ErrorTypeValidation marks submitted data that failed binding. These
	// are recovered locally and surfaced as field errors; they never cross
	// the bridge boundary.
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeInternal marks everything else.
	ErrorTypeInternal ErrorType = "internal"
)

// BridgeError is a structured error with command/flag context.
type BridgeError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Command string
	Flag    string
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *BridgeError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Command != "" {
		parts = append(parts, "command:"+e.Command)
	}

	if e.Flag != "" {
		parts = append(parts, "flag:"+e.Flag)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so sentinel-style comparisons work.
func (e *BridgeError) Is(target error) bool {
	var t *BridgeError
	if errors.As(target, &t) {
		return e.Type == t.Type && (t.Code == "" || e.Code == t.Code)
	}

	return false
}

// WithContext adds context information to the error.
func (e *BridgeError) WithContext(key string, value interface{}) *BridgeError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithCause attaches an underlying error.
func (e *BridgeError) WithCause(cause error) *BridgeError {
	e.Cause = cause
	return e
}

// NewConfigurationError creates an error for a command that cannot be
// introspected or bridged.
func NewConfigurationError(command, message string) *BridgeError {
	return &BridgeError{
		Type:    ErrorTypeConfiguration,
		Code:    "CONFIGURATION",
		Message: message,
		Command: command,
	}
}

// NewUnsupportedTypeError creates an error for a flag type that has no
// form field mapping.
func NewUnsupportedTypeError(command, flag, flagType string) *BridgeError {
	return &BridgeError{
		Type:    ErrorTypeUnsupportedType,
		Code:    "UNSUPPORTED_TYPE",
		Message: fmt.Sprintf("cannot represent flag type %q as a form field", flagType),
		Command: command,
		Flag:    flag,
	}
}

// NewValidationError creates a field-level validation error. It is kept as
// an error type for logging symmetry; bindings store only its message.
func NewValidationError(flag, message string) *BridgeError {
	return &BridgeError{
		Type:    ErrorTypeValidation,
		Code:    "VALIDATION",
		Message: message,
		Flag:    flag,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, cause error) *BridgeError {
	return &BridgeError{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL",
		Message: message,
		Cause:   cause,
	}
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool {
	var be *BridgeError
	return errors.As(err, &be) && be.Type == ErrorTypeConfiguration
}

// IsUnsupportedTypeError reports whether err is an unsupported-type error.
func IsUnsupportedTypeError(err error) bool {
	var be *BridgeError
	return errors.As(err, &be) && be.Type == ErrorTypeUnsupportedType
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool {
	var be *BridgeError
	return errors.As(err, &be) && be.Type == ErrorTypeValidation
}
