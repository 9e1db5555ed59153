package equality

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name string
	Age  int
}

type box struct {
	X any
}

type node struct {
	Name string
	Next *node
}

type celsius float64

func (c celsius) String() string { return "C" }

type label string

func (l label) String() string { return string(l) }

func TestIdentical(t *testing.T) {
	s := []int{1, 2}
	m := map[string]int{"a": 1}
	u := &user{Name: "ada"}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"same int", 1, 1, true},
		{"int and float", 1, 1.0, false},
		{"int and int64", 1, int64(1), false},
		{"same string", "a", "a", true},
		{"same slice", s, s, true},
		{"equal slices", []int{1, 2}, []int{1, 2}, false},
		{"resliced", s, s[:1], false},
		{"same map", m, m, true},
		{"equal maps", map[string]int{"a": 1}, m, false},
		{"same pointer", u, u, true},
		{"equal pointers", &user{Name: "ada"}, u, false},
		{"struct values", user{Name: "a"}, user{Name: "a"}, true},
		{"nan", math.NaN(), math.NaN(), false},
		{"struct holding equal slices", box{[]int{1}}, box{[]int{1}}, false},
		{"struct holding same slice", box{s}, box{s}, true},
		{"struct holding scalars", box{1}, box{1}, true},
		{"struct holding different types", box{1}, box{int64(1)}, false},
		{"struct holding nil", box{}, box{}, true},
		{"array of slices", [1][]int{s}, [1][]int{s}, true},
		// distinct empty slices share the runtime's zero-size allocation
		{"empty slices", []int{}, []int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identical(tt.a, tt.b))
		})
	}
}

func TestValueEqual_Subslices(t *testing.T) {
	s := []int{1, 2, 3}
	assert.False(t, ValueEqual([][]int{s[:1], s[:2]}, [][]int{s[:1], s[:1]}))
	assert.True(t, ValueEqual([][]int{s[:1], s[:2]}, [][]int{s[:1], s[:2]}))
	assert.False(t, ValueEqual(s[:2], s[:3]))
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"int and float", 1, 1.0, true},
		{"int and int64", 1, int64(1), true},
		{"uint and int", uint8(3), 3, true},
		{"numeric string", "1", 1, true},
		{"numeric string float", 2.5, "2.5", true},
		{"non numeric string", "one", 1, false},
		{"strings exact", "1", "1.0", false},
		{"bool vs int", true, 1, false},
		{"nil vs absent", nil, value.Absent, true},
		{"nil vs nil slice", nil, []int(nil), true},
		{"nil vs zero", nil, 0, false},
		{"slices", []int{1, 2}, []any{1.0, "2"}, true},
		{"slice order", []int{1, 2}, []int{2, 1}, false},
		{"slice length", []int{1}, []int{1, 1}, false},
		{"maps", map[string]any{"a": 1, "b": []int{2}}, map[string]int64{"a": 1, "b": 0}, false},
		{"maps nested", map[string]any{"a": []any{1}}, map[string]any{"a": []int{1}}, true},
		{"map missing key", map[string]int{"a": 1}, map[string]int{"b": 1}, false},
		{"sets", map[int]struct{}{1: {}, 2: {}}, map[int]struct{}{2: {}, 1: {}}, true},
		{"sets differ", map[int]struct{}{1: {}}, map[int]struct{}{2: {}}, false},
		{"structs", user{"ada", 36}, user{"ada", 36.0}, true},
		{"struct pointers", &user{"ada", 36}, &user{"ada", 36}, true},
		{"struct pointers differ", &user{"ada", 36}, &user{"bob", 36}, false},
		{"stringer vs string", label("x"), "x", true},
		{"errors", errors.New("boom"), errors.New("boom"), true},
		{"time", time.Unix(10, 0).UTC(), time.Unix(10, 0).In(time.FixedZone("x", 3600)), true},
		{"nan", math.NaN(), math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueEqual(tt.a, tt.b))
		})
	}
}

func TestValueEqual_Cyclic(t *testing.T) {
	a := &node{Name: "a"}
	a.Next = a
	b := &node{Name: "a"}
	b.Next = b

	assert.True(t, ValueEqual(a, b))

	c := &node{Name: "c"}
	c.Next = c
	assert.False(t, ValueEqual(a, c))
}

func TestNaNEqual(t *testing.T) {
	assert.True(t, NaNEqual(math.NaN(), math.NaN()))
	assert.True(t, NaNEqual([]float64{1, math.NaN()}, []any{1, math.NaN()}))
	assert.False(t, NaNEqual(math.NaN(), 1.0))
	assert.True(t, NaNEqual(1, 1.0))
}

func TestWithinDelta(t *testing.T) {
	tests := []struct {
		name                    string
		expected, actual, delta float64
		want                    bool
	}{
		{"close values", 3201.0499999973, 3201.0499999974, 1e-9, true},
		{"lower boundary", 0.1, 0.1 - 0.2, 0.2, true},
		{"upper boundary", 0.1, 0.1 + 0.2, 0.2, true},
		{"outside", 1.0, 1.5, 0.25, false},
		{"negative delta", 1.0, 1.2, -0.5, true},
		{"zero delta", 2.0, 2.0, 0, true},
		{"nan", math.NaN(), 1, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinDelta(tt.expected, tt.actual, tt.delta))
		})
	}
}

func TestEqualWithDelta(t *testing.T) {
	assert.True(t, EqualWithDelta([]float64{1.0, 2.0}, []float64{1.05, 1.95}, 0.1))
	assert.False(t, EqualWithDelta([]float64{1.0, 2.0}, []float64{1.05, 2.5}, 0.1))
	assert.True(t, EqualWithDelta(map[string]any{"x": 10}, map[string]any{"x": 10.4}, 0.5))
	assert.True(t, EqualWithDelta(struct{ V float64 }{1}, struct{ V float64 }{1.01}, 0.02))
	assert.False(t, EqualWithDelta("a", "b", 100))
}

func TestAlmostEqual(t *testing.T) {
	assert.True(t, AlmostEqual(math.NaN(), math.NaN(), 1e-7))
	assert.True(t, AlmostEqual(0.1+0.2, 0.3, 1e-7))
	assert.False(t, AlmostEqual(0.1, 0.2, 1e-7))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", 1, 2, -1},
		{"mixed numbers", 2.5, 2, 1},
		{"numeric string", "10", 9, 1},
		{"equal", int64(3), 3.0, 0},
		{"strings", "apple", "banana", -1},
		{"named string", label("b"), "a", 1},
		{"times", time.Unix(1, 0), time.Unix(2, 0), -1},
		{"durations", time.Second, time.Millisecond, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare_NotOrderable(t *testing.T) {
	_, err := Compare(true, false)
	require.Error(t, err)

	var invalid *failure.InvalidArgument
	assert.True(t, errors.As(err, &invalid))

	_, err = Compare([]int{1}, 1)
	assert.True(t, failure.IsInvalid(err))
}
