package errors

import (
	"net/http"
	"testing"

	"rentalhub/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_DerivedKindMatchesParent(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidTransition, ErrInvalidState))
	assert.True(t, errors.Is(ErrOrderNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrInvalidState, ErrInvalidTransition))
	assert.False(t, errors.Is(ErrConflict, ErrInvalidState))
	assert.Equal(t, http.StatusConflict, ErrInvalidTransition.HTTPCode())
}

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	err := ErrInvalidTransition.WithDetails("confirm is not allowed from completed")

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, "confirm is not allowed from completed", err.Details())
	assert.Contains(t, err.Error(), "confirm is not allowed")
}

func TestAsAppError_ThroughWrap(t *testing.T) {
	wrapped := errors.Wrap(ErrDiscountExhausted, "consume SPRING")

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "DISCOUNT_EXHAUSTED", appErr.ErrorCode())
	assert.True(t, IsClientError(wrapped))

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestDatabaseExecuteError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "failed to create order")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.False(t, IsClientError(err))
}
