package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("duplicate", "schema", "name"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("lookup: %w", NewNotFoundError("column", 7)), http.StatusNotFound},
		{"server", NewServerError("bad payload", nil), http.StatusInternalServerError},
		{"too large", NewTooLargeError(64), http.StatusRequestEntityTooLarge},
		{"foreign", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetHTTPStatus(tc.err))
		})
	}
}

func TestValidationErrorMessageNamesFieldPair(t *testing.T) {
	err := NewValidationError("already exists", "schema", "order")
	assert.Equal(t, "validation error on (schema, order): already exists", err.Error())

	got, ok := AsValidation(fmt.Errorf("save: %w", err))
	assert.True(t, ok)
	assert.Equal(t, []string{"schema", "order"}, got.Fields)
}

func TestServerErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewServerError("insert failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "SERVER_ERROR", GetErrorCode(err))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(cause))
}
