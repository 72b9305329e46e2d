package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrNotFound, "Doctor not found")

	assert.Equal(t, "Doctor not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWrapAndFromError(t *testing.T) {
	cause := fmt.Errorf("parse: bad input")
	wrapped := Wrap(cause, ErrInvalidMonth.Code, ErrInvalidMonth.Status, ErrInvalidMonth.Message)

	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, ErrInvalidMonth)
	assert.Equal(t, "month must be formatted as YYYY-MM: parse: bad input", wrapped.Error())

	outer := fmt.Errorf("handler: %w", wrapped)
	assert.Same(t, wrapped, FromError(outer))

	plain := FromError(errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
	assert.Equal(t, ErrInternal.Code, plain.Code)

	assert.Nil(t, FromError(nil))
}
