package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := MissingReference("album 12 has no folder id")

	assert.True(t, Is(err, ErrMissingReference))
	assert.False(t, Is(err, ErrValidation))
	assert.False(t, Is(err, ErrUnsupportedQueryClass))
}

func TestError_IsThroughFmtWrap(t *testing.T) {
	inner := UnsupportedQueryClassf("An unknown class was specified. : %s %s %s",
		"upnp:class", "derivedfrom", "object.item.imageItem")
	wrapped := fmt.Errorf("construct: %w", inner)

	assert.True(t, Is(wrapped, ErrUnsupportedQueryClass))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, CodeUnsupportedQueryClass, domainErr.Code)
	assert.Contains(t, domainErr.Message, "object.item.imageItem")
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, CodeInternal, "failed to write batch")

	assert.Equal(t, "failed to write batch: disk full", err.Error())
	assert.Equal(t, cause, Unwrap(err))
	assert.True(t, Is(err, ErrInternal))
}

func TestWithDetails(t *testing.T) {
	details := map[string]string{"count": "must be greater than 0"}
	err := ErrValidation.WithDetails(details)

	assert.Equal(t, details, err.Details)
	assert.Nil(t, ErrValidation.Details, "sentinel must not be mutated")
}

func TestCode_Retryable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{CodeValidation, false},
		{CodeMissingReference, false},
		{CodeUnsupportedQueryClass, false},
		{CodeNotFound, false},
		{CodeInternal, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Retryable())
		})
	}
}
