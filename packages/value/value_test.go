package value

import (
	"iter"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userID int

type bag struct{ items []any }

func (b *bag) Each(fn func(any) bool) {
	for _, it := range b.items {
		if !fn(it) {
			return
		}
	}
}

type point struct {
	X, Y   int
	hidden string
}

func TestKindOf(t *testing.T) {
	var nilPtr *point
	var nilFunc func()

	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"nil", nil, Null},
		{"absent", Absent, Null},
		{"typed nil pointer", nilPtr, Null},
		{"nil func", nilFunc, Null},
		{"bool", true, Bool},
		{"int", 1, Int},
		{"named int", userID(7), Int},
		{"uint8", uint8(1), Uint},
		{"float", 1.5, Float},
		{"string", "s", String},
		{"slice", []int{1}, OrderedSequence},
		{"array", [2]string{"a", "b"}, OrderedSequence},
		{"map", map[string]int{"a": 1}, AssociativeMap},
		{"set", map[string]struct{}{"a": {}}, SetLike},
		{"struct", point{}, Object},
		{"pointer", &point{}, Object},
		{"func", func() {}, Callable},
		{"chan", make(chan int), Channel},
		{"iterable", &bag{}, OrderedSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.value))
		})
	}
}

func TestEach(t *testing.T) {
	collect := func(v any) []any {
		var out []any
		require.NoError(t, Each(v, func(e any) bool {
			out = append(out, e)
			return true
		}))
		return out
	}

	t.Run("slice", func(t *testing.T) {
		assert.Equal(t, []any{1, 2, 3}, collect([]int{1, 2, 3}))
	})

	t.Run("map values in key order", func(t *testing.T) {
		assert.Equal(t, []any{"one", "two"}, collect(map[int]string{2: "two", 1: "one"}))
	})

	t.Run("set members", func(t *testing.T) {
		assert.Equal(t, []any{"a", "b"}, collect(map[string]struct{}{"b": {}, "a": {}}))
	})

	t.Run("channel is drained once", func(t *testing.T) {
		ch := make(chan int, 3)
		ch <- 1
		ch <- 2
		close(ch)
		assert.Equal(t, []any{1, 2}, collect(ch))
		assert.Empty(t, collect(ch))
	})

	t.Run("iter.Seq", func(t *testing.T) {
		var seq iter.Seq[string] = func(yield func(string) bool) {
			for _, s := range []string{"x", "y"} {
				if !yield(s) {
					return
				}
			}
		}
		assert.Equal(t, []any{"x", "y"}, collect(seq))
	})

	t.Run("custom iterable", func(t *testing.T) {
		assert.Equal(t, []any{"a", 1}, collect(&bag{items: []any{"a", 1}}))
	})

	t.Run("early stop", func(t *testing.T) {
		seen := 0
		require.NoError(t, Each([]int{1, 2, 3}, func(any) bool {
			seen++
			return false
		}))
		assert.Equal(t, 1, seen)
	})

	t.Run("not iterable", func(t *testing.T) {
		assert.ErrorIs(t, Each(42, func(any) bool { return true }), ErrNotIterable)
		assert.ErrorIs(t, Each("abc", func(any) bool { return true }), ErrNotIterable)
	})
}

func TestEachEntry_Struct(t *testing.T) {
	entries := map[any]any{}
	require.NoError(t, EachEntry(&point{X: 1, Y: 2, hidden: "h"}, func(k, v any) bool {
		entries[k] = v
		return true
	}))
	assert.Equal(t, map[any]any{"X": 1, "Y": 2}, entries)
}

func TestLookup(t *testing.T) {
	t.Run("map with converted key", func(t *testing.T) {
		v, ok := Lookup(map[int64]string{1: "a"}, 1)
		assert.True(t, ok)
		assert.Equal(t, "a", v)
	})

	t.Run("missing key is absent", func(t *testing.T) {
		v, ok := Lookup(map[string]int{"a": 1}, "b")
		assert.False(t, ok)
		assert.Equal(t, Absent, v)
	})

	t.Run("slice index", func(t *testing.T) {
		v, ok := Lookup([]string{"a", "b"}, 1)
		assert.True(t, ok)
		assert.Equal(t, "b", v)

		_, ok = Lookup([]string{"a"}, 5)
		assert.False(t, ok)
	})

	t.Run("struct field", func(t *testing.T) {
		v, ok := Lookup(point{X: 3}, "X")
		assert.True(t, ok)
		assert.Equal(t, 3, v)

		_, ok = Lookup(point{}, "hidden")
		assert.False(t, ok)
	})

	t.Run("lossy key conversion is rejected", func(t *testing.T) {
		_, ok := Lookup(map[int]string{1: "a"}, 1.5)
		assert.False(t, ok)
	})

	t.Run("unhashable key is absent", func(t *testing.T) {
		v, ok := Lookup(map[any]int{"a": 1}, []int{1})
		assert.False(t, ok)
		assert.Equal(t, Absent, v)

		_, ok = Lookup(map[any]int{"a": 1}, struct{ X any }{[]int{1}})
		assert.False(t, ok)

		v, ok = Lookup(map[any]int{"a": 1}, "a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
	})
}

func TestCompareKeys(t *testing.T) {
	assert.Negative(t, CompareKeys(2, 10))
	assert.Negative(t, CompareKeys(10, "a"))
	assert.Negative(t, CompareKeys("a", "b"))
	assert.Positive(t, CompareKeys("b", 1.5))
	assert.Zero(t, CompareKeys("k", "k"))
}

func TestRepr(t *testing.T) {
	assert.Equal(t, `"1"`, Repr("1"))
	assert.Equal(t, "1", Repr(1))
	assert.Equal(t, "1.0", Repr(1.0))
	assert.Equal(t, "int64(1)", Repr(int64(1)))
	assert.Equal(t, "value.userID(7)", Repr(userID(7)))
	assert.Equal(t, "NAN", Repr(math.NaN()))
	assert.Equal(t, "nil", Repr(nil))
	assert.Equal(t, "<absent>", Repr(Absent))
	assert.NotEqual(t, Repr("1"), Repr(1))

	m := map[string]int{"b": 2, "a": 1}
	assert.Equal(t, Repr(m), Repr(map[string]int{"a": 1, "b": 2}))
	assert.Contains(t, Repr(m), `"a"`)
}

func TestExport(t *testing.T) {
	assert.Equal(t, `"a  b"`, Export("a  b"))

	got := Export([]string{"a  b", "c\td"})
	assert.NotContains(t, got, "\n")
	assert.Contains(t, got, `"a  b"`)
	assert.Contains(t, got, `"c\td"`)
	assert.NotContains(t, got, "  (")

	got = Export(map[string]string{"k": `say "hi  there"`})
	assert.Contains(t, got, `"say \"hi  there\""`)
}

func TestNumber(t *testing.T) {
	f, ok := Number(" 2.5 ")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = Number("abc")
	assert.False(t, ok)

	f, ok = Number(uint16(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)
}

func TestLen(t *testing.T) {
	assert.Equal(t, 3, Len("abc"))
	assert.Equal(t, 2, Len(map[string]int{"a": 1, "b": 2}))
	assert.Equal(t, -1, Len(7))
}
