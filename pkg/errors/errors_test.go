package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesWrappedSentinel(t *testing.T) {
	sentinel := NewUnauthorizedError("Invalid credentials")
	wrapped := fmt.Errorf("login: %w", NewUnauthorizedError("Invalid credentials"))

	assert.True(t, stderrors.Is(wrapped, sentinel))
	assert.False(t, stderrors.Is(wrapped, NewConflictError("Invalid credentials")))
}

func TestTypeOfAndMessageOf(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	internal := NewInternalError("failed to parse stored session", cause)

	assert.Equal(t, ErrorTypeInternal, TypeOf(internal))
	assert.Equal(t, "failed to parse stored session", MessageOf(internal))
	assert.ErrorIs(t, internal, cause)
	assert.Contains(t, internal.Error(), "unexpected end of JSON input")

	assert.Equal(t, ErrorTypeNotFound, TypeOf(fmt.Errorf("wrap: %w", NewNotFoundError("donation not found"))))
	assert.Equal(t, ErrorTypeInternal, TypeOf(cause))
	assert.Equal(t, "internal server error", MessageOf(cause))
}
