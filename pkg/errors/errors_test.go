package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", NewValidationError("name cannot be empty"), http.StatusBadRequest},
		{"not found", NewNotFoundError("medication"), http.StatusNotFound},
		{"conflict", NewConflictError("account already registered"), http.StatusConflict},
		{"forbidden", NewForbiddenError(""), http.StatusForbidden},
		{"store", NewDatabaseError("fetch medications", errors.New("throttled")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to create account: %w", NewConflictError("account already registered"))
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsForbidden(wrapped))

	assert.True(t, IsNotFound(NewNotFoundError("account")))
	assert.True(t, IsForbidden(NewForbiddenError("not visible")))
	assert.False(t, IsConflict(errors.New("plain")))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("conditional check failed")
	err := NewDatabaseError("grant caregiver", cause)
	assert.ErrorIs(t, err, cause)
}
