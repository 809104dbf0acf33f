package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	fields := map[string][]string{"phone": {"must be at least 10 characters"}}

	assert.Equal(t, KindValidation, KindOf(NewValidation(fields)))
	assert.Equal(t, KindConflict, KindOf(NewConflict("taken")))
	assert.Equal(t, KindNotFound, KindOf(NewNotFound("patient")))
	assert.Equal(t, KindGone, KindOf(NewGone("archived")))
	assert.Equal(t, KindUnexpected, KindOf(NewUnexpected(errors.New("boom"))))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnexpected, KindOf(nil))
}

func TestKindOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NewNotFound("patient"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestFieldsOf(t *testing.T) {
	fields := map[string][]string{"sex": {"must be MALE or FEMALE"}}
	assert.Equal(t, fields, FieldsOf(NewValidation(fields)))
	assert.Nil(t, FieldsOf(NewConflict("taken")))
	assert.Nil(t, FieldsOf(errors.New("plain")))
}

func TestErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUnexpected(cause)

	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, cause))

	assert.Equal(t, "patient not found", NewNotFound("patient").Error())
}
