package contain

import (
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct{ ID int }

type names []string

func (n names) Has(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, name := range n {
		if name == s {
			return true
		}
	}
	return false
}

func (n names) Each(fn func(any) bool) {
	for _, name := range n {
		if !fn(name) {
			return
		}
	}
}

func TestContains(t *testing.T) {
	shared := &item{ID: 1}

	tests := []struct {
		name            string
		needle          any
		haystack        any
		caseInsensitive bool
		want            bool
	}{
		{"substring", "world", "hello world", false, true},
		{"missing substring", "world", "hello", false, false},
		{"case sensitive", "WORLD", "hello world", false, false},
		{"case insensitive", "WORLD", "hello world", true, true},
		{"empty needle", "", "abc", false, true},
		{"slice by value", 2, []int{1, 2, 3}, false, true},
		{"slice cross numeric", 2.0, []int{1, 2, 3}, false, true},
		{"slice missing", 4, []int{1, 2, 3}, false, false},
		{"map values", "b", map[string]string{"x": "a", "y": "b"}, false, true},
		{"set member", "a", map[string]struct{}{"a": {}}, false, true},
		{"set missing", "b", map[string]struct{}{"a": {}}, false, false},
		{"custom membership", "bob", names{"ada", "bob"}, false, true},
		{"pointer identity", shared, []*item{{ID: 1}, shared}, false, true},
		{"pointer equal content", &item{ID: 1}, []*item{shared}, false, false},
		{"struct value", item{ID: 1}, []item{{ID: 1}}, false, true},
		{"strings insensitive", "ADA", []string{"ada"}, true, true},
		{"unicode folding", "STRASSE", "die straße", true, true},
		{"decomposed accent", "cafe\u0301", "un CAFÉ", true, true},
		{"decomposed accent sensitive", "cafe\u0301", "un café", false, false},
		{"nested slices", []int{1}, [][]int{{1}}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Contains(tt.needle, tt.haystack, tt.caseInsensitive)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContains_Channel(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	got, err := Contains(2, ch, false)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestContains_InvalidArgument(t *testing.T) {
	tests := []struct {
		name     string
		needle   any
		haystack any
	}{
		{"non string needle in string", 1, "abc"},
		{"scalar haystack", 1, 42},
		{"nil haystack", 1, nil},
		{"struct haystack", 1, item{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Contains(tt.needle, tt.haystack, false)
			require.Error(t, err)
			assert.True(t, failure.IsInvalid(err))
			assert.False(t, failure.IsFailure(err))
		})
	}
}

func TestContainsKey(t *testing.T) {
	tests := []struct {
		name     string
		key      any
		haystack any
		want     bool
	}{
		{"map key", "a", map[string]int{"a": 1}, true},
		{"map missing", "b", map[string]int{"a": 1}, false},
		{"map int64 keys", 1, map[int64]string{1: "x"}, true},
		{"slice index", 1, []string{"a", "b"}, true},
		{"slice out of range", 2, []string{"a", "b"}, false},
		{"struct field", "ID", item{}, true},
		{"set member", 3, map[int]struct{}{3: {}}, true},
		{"unhashable key", []int{1}, map[any]int{"a": 1}, false},
		{"unhashable set member", []int{1}, map[any]struct{}{"a": {}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ContainsKey(tt.key, tt.haystack)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	found, err := Contains([]int{1}, map[any]struct{}{"a": {}}, false)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = ContainsKey("a", "abc")
	assert.True(t, failure.IsInvalid(err))
}
