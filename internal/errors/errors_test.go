package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("wrapped error keeps chain", func(t *testing.T) {
		err := Wrap(ErrIO, "otp write failure")
		assert.EqualError(t, err, "otp write failure: i/o failure")
		assert.True(t, Is(err, ErrIO))
		assert.False(t, Is(err, ErrConflict))
	})

	t.Run("double wrap", func(t *testing.T) {
		err := fmt.Errorf("init: %w", Wrap(ErrUnsupported, "hardware unsupported"))
		assert.True(t, Is(err, ErrUnsupported))
	})
}

func TestNew(t *testing.T) {
	err := New("boom")
	assert.EqualError(t, err, "boom")
}
