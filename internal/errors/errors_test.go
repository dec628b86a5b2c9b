package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeErrorMessage(t *testing.T) {
	err := NewUnsupportedTypeError("repeat", "addr", "ip")

	msg := err.Error()
	assert.Contains(t, msg, "[UNSUPPORTED_TYPE]")
	assert.Contains(t, msg, "command:repeat")
	assert.Contains(t, msg, "flag:addr")
	assert.Contains(t, msg, `"ip"`)
}

func TestBridgeErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewInternalError("invoking command", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestBridgeErrorIsMatchesTypeAndCode(t *testing.T) {
	err := NewConfigurationError("repeat", "command has no callback")

	assert.True(t, errors.Is(err, &BridgeError{Type: ErrorTypeConfiguration}))
	assert.True(t, errors.Is(err, &BridgeError{Type: ErrorTypeConfiguration, Code: "CONFIGURATION"}))
	assert.False(t, errors.Is(err, &BridgeError{Type: ErrorTypeValidation}))
}

func TestBridgeErrorPredicates(t *testing.T) {
	assert.True(t, IsConfigurationError(NewConfigurationError("x", "bad")))
	assert.True(t, IsUnsupportedTypeError(NewUnsupportedTypeError("x", "f", "ip")))
	assert.True(t, IsValidationError(NewValidationError("f", "not a valid integer")))

	wrapped := fmt.Errorf("loading: %w", NewConfigurationError("x", "bad"))
	assert.True(t, IsConfigurationError(wrapped))
	assert.False(t, IsValidationError(wrapped))
}

func TestWithContext(t *testing.T) {
	err := NewConfigurationError("repeat", "no flags").
		WithContext("source", "registry")

	require.NotNil(t, err.Context)
	assert.Equal(t, "registry", err.Context["source"])
}
