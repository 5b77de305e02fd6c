package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("direct code", func(t *testing.T) {
		err := New(CodeForbidden, "nope")
		assert.True(t, HasCode(err, CodeForbidden))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("wrapped by fmt", func(t *testing.T) {
		err := fmt.Errorf("context: %w", New(CodeNotFound, "missing"))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("nested coded errors", func(t *testing.T) {
		inner := New(CodeUpstream, "origin rejected")
		outer := Wrap(inner, CodeInternal, "mutation failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeUpstream))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestCodeAndMessageOf(t *testing.T) {
	err := Wrap(errors.New("dial tcp"), CodeUnavailable, "origin unreachable")
	assert.Equal(t, CodeUnavailable, CodeOf(err))
	assert.Equal(t, "origin unreachable", MessageOf(err))
	assert.ErrorContains(t, err, "dial tcp")

	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, "internal error", MessageOf(errors.New("boom")))
}
