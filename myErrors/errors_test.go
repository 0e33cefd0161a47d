package myErrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := NewValidationError("title", "不能为空")

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrStore)

	var ve *ValidationError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &ve))
	assert.Equal(t, "title", ve.Field)
}

func TestStoreErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("create post", cause)

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create post")
}

func TestNewStoreErrorKeepsClassifiedErrors(t *testing.T) {
	assert.Nil(t, NewStoreError("noop", nil))

	notFound := fmt.Errorf("post abc: %w", ErrNotFound)
	assert.Same(t, notFound, NewStoreError("get post", notFound))

	validation := NewValidationError("body", "不能为空")
	assert.Same(t, validation, NewStoreError("create reply", validation))
}
