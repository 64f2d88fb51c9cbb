package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NotFound("doctor", nil), http.StatusNotFound},
		{Validation("bad input"), http.StatusBadRequest},
		{Conflict("slot taken", nil), http.StatusConflict},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{Unavailable("db down", nil), http.StatusServiceUnavailable},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "underlying")
}

func TestIsMatchesWrappedAppError(t *testing.T) {
	err := fmt.Errorf("handler: %w", Conflict("slot taken", nil))

	assert.True(t, Is(err, ErrConflict))
	assert.False(t, Is(err, ErrNotFound))
	assert.False(t, Is(errors.New("plain"), ErrConflict))
}
