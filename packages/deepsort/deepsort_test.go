package deepsort

import (
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertDeepEqualIgnoringOrder(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		wantErr  bool
	}{
		{"flat maps", map[string]int{"a": 1, "b": 2}, map[string]int{"b": 2, "a": 1}, false},
		{"nested maps", map[string]any{"x": map[int]string{2: "b", 1: "a"}}, map[string]any{"x": map[int]string{1: "a", 2: "b"}}, false},
		{"mixed key types", map[any]int{1: 1, "a": 2, 0.5: 3}, map[any]int{"a": 2, 0.5: 3, 1: 1}, false},
		{"sequences keep order", []int{1, 2}, []int{2, 1}, true},
		{"values differ", map[string]int{"a": 1}, map[string]int{"a": 2}, true},
		{"missing key", map[string]int{"a": 1, "b": 2}, map[string]int{"a": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertDeepEqualIgnoringOrder(tt.expected, tt.actual, "")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, failure.IsFailure(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalize_KeyOrder(t *testing.T) {
	got, err := Normalize(map[any]string{"b": "s2", 10: "n10", "a": "s1", 2: "n2"})
	require.NoError(t, err)

	entries, ok := got.([]Entry)
	require.True(t, ok)

	var keys []any
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []any{2, 10, "a", "b"}, keys)
}

func TestNormalize_Cycle(t *testing.T) {
	m := map[string]any{}
	m["self"] = m

	_, err := Normalize(m)
	require.Error(t, err)
	assert.True(t, failure.IsInvalid(err))
	assert.Contains(t, err.Error(), "cyclic structure")
}

func TestAssertSameContent(t *testing.T) {
	assert.NoError(t, AssertSameContent([]int{3, 1, 2}, []int{1, 2, 3}, ""))
	assert.NoError(t, AssertSameContent([]string{"b", "a", "a"}, []any{"a", "b", "a"}, ""))
	assert.NoError(t, AssertSameContent(map[int]struct{}{1: {}, 2: {}}, []int{2, 1}, ""))

	err := AssertSameContent([]int{1, 1, 2}, []int{1, 2, 2}, "multiset")
	require.Error(t, err)
	assert.True(t, failure.IsFailure(err))
	assert.Contains(t, err.Error(), "multiset")

	err = AssertSameContent(42, []int{42}, "")
	assert.True(t, failure.IsInvalid(err))
}
