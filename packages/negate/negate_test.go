package negate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvert(t *testing.T) {
	t.Run("passing matcher fails", func(t *testing.T) {
		err := Invert("toEqual", func() error { return nil })
		require.Error(t, err)
		assert.True(t, failure.IsFailure(err))
		assert.Equal(t, "Expected `toEqual` to fail, but it did not.", err.Error())
	})

	t.Run("failing matcher passes", func(t *testing.T) {
		err := Invert("toEqual", func() error { return &failure.Failure{Message: "nope"} })
		assert.NoError(t, err)
	})

	t.Run("wrapped failure passes", func(t *testing.T) {
		err := Invert("toContain", func() error {
			return fmt.Errorf("check 3: %w", &failure.Failure{Message: "nope"})
		})
		assert.NoError(t, err)
	})

	t.Run("invalid argument surfaces", func(t *testing.T) {
		invalid := failure.Invalid("type", "unrecognized type token %q", "widget")
		err := Invert("toBeType", func() error { return invalid })
		assert.Same(t, invalid, err)
	})

	t.Run("other errors surface", func(t *testing.T) {
		boom := errors.New("boom")
		err := Invert("toThrow", func() error { return boom })
		assert.Same(t, boom, err)
	})

	t.Run("runs once", func(t *testing.T) {
		calls := 0
		_ = Invert("x", func() error {
			calls++
			return nil
		})
		assert.Equal(t, 1, calls)
	})
}

func TestInvertIf(t *testing.T) {
	pass := func() error { return nil }

	assert.NoError(t, InvertIf(false, "x", pass))
	assert.True(t, failure.IsFailure(InvertIf(true, "x", pass)))
}
