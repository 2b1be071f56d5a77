package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NewNotFound("doctor", nil), http.StatusNotFound},
		{"bad request", NewBadRequest("bad", nil), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("", nil), http.StatusUnauthorized},
		{"internal", NewInternal("", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrappedAppError(t *testing.T) {
	base := NewNotFound("patient", nil)
	wrapped := fmt.Errorf("set status: %w", base)

	assert.True(t, stderrors.Is(wrapped, base))
	assert.True(t, HasCode(wrapped, ErrNotFound))
	assert.False(t, HasCode(wrapped, ErrInternal))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "patient not found", appErr.Error())
}

func TestAppErrorMessageIncludesCause(t *testing.T) {
	err := NewInternal("password hashing failed", stderrors.New("boom"))
	assert.Equal(t, "password hashing failed: boom", err.Error())
	assert.Equal(t, "boom", stderrors.Unwrap(err).Error())
}
