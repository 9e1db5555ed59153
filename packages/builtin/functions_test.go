package builtin

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Call(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		expr string
		want any
	}{
		{"base64(hello)", "aGVsbG8="},
		{`base64Decode("aGVsbG8=")`, "hello"},
		{"lower(ABC)", "abc"},
		{"upper('a, b')", "A, B"},
		{"int(42)", 42},
		{"float(1.5)", 1.5},
		{"sha256(x)", "2d711642b726b04401627ca9fbac32f5c8530fb1903cc4db02258717921a4881"},
		{"env(HITEXPECT_TEST_UNSET_VAR, fallback)", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok, err := r.Call(tt.expr)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_CallUUID(t *testing.T) {
	got, ok, err := NewRegistry().Call("uuid()")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = uuid.Parse(got.(string))
	assert.NoError(t, err)
}

func TestRegistry_CallNumbers(t *testing.T) {
	r := NewRegistry()

	got, _, err := r.Call("nan()")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.(float64)))

	got, _, err = r.Call("inf(-)")
	require.NoError(t, err)
	assert.True(t, math.IsInf(got.(float64), -1))

	for range 20 {
		got, _, err = r.Call("random(1, 3)")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.(int), 1)
		assert.LessOrEqual(t, got.(int), 3)
	}
}

func TestRegistry_CallErrors(t *testing.T) {
	r := NewRegistry()

	_, ok, err := r.Call("random(a, 3)")
	assert.True(t, ok)
	assert.ErrorContains(t, err, "random(): min argument")

	_, _, err = r.Call("random(5, 1)")
	assert.Error(t, err)

	_, _, err = r.Call("env(HITEXPECT_TEST_UNSET_VAR)")
	assert.ErrorContains(t, err, "not set")

	_, _, err = r.Call("base64()")
	assert.ErrorContains(t, err, "missing value argument")

	_, ok, err = r.Call("nope()")
	assert.False(t, ok)
	assert.NoError(t, err)

	_, ok, _ = r.Call("not a call")
	assert.False(t, ok)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("answer", func([]string) (any, error) { return 42, nil })

	got, ok, err := r.Call("answer()")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, got)
	assert.Contains(t, r.Names(), "answer")
	assert.True(t, IsCall(" answer() "))
	assert.False(t, IsCall("answer"))
}

func TestParseArgs(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d,e"}, parseArgs(`a, b c, "d,e"`))
	assert.Nil(t, parseArgs(""))
}
