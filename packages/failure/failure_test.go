package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/value"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []any
		want     string
	}{
		{"no verbs", "plain message", nil, "plain message"},
		{"string", "hello %s", []any{"world"}, "hello world"},
		{"int", "pos %d", []any{3}, "pos 3"},
		{"int from float", "pos %d", []any{3.9}, "pos 3"},
		{"float", "%f", []any{1.5}, "1.500000"},
		{"percent", "100%% sure", nil, "100% sure"},
		{"missing arg keeps verb", "%s and %s", []any{"a"}, "a and %s"},
		{"extra args ignored", "%s", []any{"a", "b"}, "a"},
		{"unknown verb untouched", "%x %s", []any{"a"}, "%x a"},
		{"trailing percent", "50%", nil, "50%"},
		{"non-string for %s", "got %s", []any{[]int{1}}, "got " + value.Export([]int{1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.args))
		})
	}
}

func TestFail(t *testing.T) {
	f := Fail("custom %s", []any{"msg"})
	assert.Equal(t, "custom msg", f.Error())
	assert.True(t, IsFailure(f))
	assert.False(t, IsInvalid(f))
}

func TestMismatch(t *testing.T) {
	f := Mismatch("custom msg", "Failed asserting that two values are equal.", 1, "1")
	assert.Contains(t, f.Error(), "custom msg\nFailed asserting")
	assert.Equal(t, "1", f.Expected)
	assert.Equal(t, `"1"`, f.Actual)
}

func TestInvalidArgument(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Invalid("contains", "needle must be a string, got %s", "int"))
	assert.True(t, IsInvalid(err))
	assert.False(t, IsFailure(err))
	assert.EqualError(t, err, "wrapped: contains: invalid argument: needle must be a string, got int")

	var ia *InvalidArgument
	assert.True(t, errors.As(err, &ia))
	assert.Equal(t, "contains", ia.Op)
}

func TestFailure_Diff(t *testing.T) {
	f := &Failure{Message: "strings differ", Diff: "-a\n+b"}
	assert.Equal(t, "strings differ\n-a\n+b", f.Error())
}
