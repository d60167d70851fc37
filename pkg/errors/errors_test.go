package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInternalError_CarriesCause(t *testing.T) {
	cause := fmt.Errorf("marshal failed")
	err := NewInternalError("failed to marshal post", cause)

	assert.True(t, IsInternal(err))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "marshal failed")

	bare := NewInternalError("something broke", nil)
	assert.True(t, IsInternal(bare))
	assert.Nil(t, bare.Unwrap())
}

func TestWrap(t *testing.T) {
	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := fmt.Errorf("boom")
		err := Wrap(cause, "loading profile")
		require.True(t, IsInternal(err))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("app error keeps its type", func(t *testing.T) {
		err := Wrap(NewNotFoundError("post"), "loading feed")
		assert.True(t, IsNotFound(err))
	})

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "anything"))
	})
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("bad input")))
	assert.True(t, IsConflict(NewConflictError("already liked")))
	assert.True(t, IsUnauthorized(NewUnauthorizedError("")))
	assert.True(t, IsForbidden(NewForbiddenError("")))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}
