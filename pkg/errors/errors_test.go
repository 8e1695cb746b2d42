package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", InvalidField("page", "must be positive"), http.StatusBadRequest},
		{"not found", NewNotFound("location", 7), http.StatusNotFound},
		{"in use", NewResourceInUse("tag", 3, "facilities"), http.StatusConflict},
		{"unauthorized", Unauthorized("invalid token"), http.StatusUnauthorized},
		{"storage", NewStorage(stderrors.New("connection refused")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("failed to get facility: %w", NewNotFound("facility", 12))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, ErrInternal, CodeOf(stderrors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestStorageHidesCause(t *testing.T) {
	cause := stderrors.New("pq: password authentication failed")
	err := NewStorage(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestValidationErrorString(t *testing.T) {
	err := NewValidation("validation failed",
		FieldError{Field: "operator", Message: "must be AND or OR"},
		FieldError{Field: "filter", Message: "unknown field \"zip\""},
	)

	assert.Equal(t, `validation failed (operator: must be AND or OR; filter: unknown field "zip")`, err.Error())
	assert.Len(t, err.Fields, 2)
}
