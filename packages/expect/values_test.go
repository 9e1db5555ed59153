package expect

import (
	"bytes"
	"io"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEqual(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
		pass     bool
	}{
		{"same int", 1, 1, true},
		{"int and float", 1, 1.0, true},
		{"numeric string", "1", 1, true},
		{"different strings", "a", "b", false},
		{"slices", []int{1, 2}, []int{1, 2}, true},
		{"slices differ", []int{1, 2}, []int{2, 1}, false},
		{"maps", map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{"nil and absent", nil, value.Absent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := That(tt.actual).ToEqual(tt.expected)
			if tt.pass {
				assert.NoError(t, err)
			} else {
				assert.True(t, failure.IsFailure(err))
			}
		})
	}
}

func TestToEqual_MultilineStringsCarryDiff(t *testing.T) {
	err := That("a\nb\n").ToEqual("a\nc\n")
	f := failureOf(t, err)
	assert.Contains(t, f.Diff, "--- Expected")
	assert.Contains(t, f.Diff, "+++ Actual")
	assert.Contains(t, f.Diff, "-c")
	assert.Contains(t, f.Diff, "+b")
	assert.Contains(t, err.Error(), "-c")
}

func TestToEqual_SingleLineHasNoDiff(t *testing.T) {
	f := failureOf(t, That("a").ToEqual("b"))
	assert.Empty(t, f.Diff)
}

func TestToEqualWithDelta(t *testing.T) {
	assert.NoError(t, That(1.05).ToEqualWithDelta(1.0, 0.1))
	assert.NoError(t, That([]float64{1.0, 2.0}).ToEqualWithDelta([]float64{1.01, 1.99}, 0.05))
	assert.Error(t, That(1.2).ToEqualWithDelta(1.0, 0.1))
	assert.NoError(t, That(map[int]float64{1: 3201.05}).ToEqualWithDelta(map[int]float64{1: 3201.0499999973}, 1e-5))

	err := That(1.0).ToEqualWithDelta(2.0, 1e-9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "within delta 1e-09.")
}

func TestToBeSame_StructHoldingSlice(t *testing.T) {
	type wrapper struct{ X any }
	s := []int{1}

	assert.NotPanics(t, func() {
		assert.Error(t, That(wrapper{[]int{1}}).ToBeSame(wrapper{[]int{1}}))
	})
	assert.NoError(t, That(wrapper{s}).ToBeSame(wrapper{s}))
	assert.NoError(t, That(wrapper{[]int{1}}).Not().ToBeSame(wrapper{[]int{1}}))
}

func TestToAlmostEqual(t *testing.T) {
	assert.NoError(t, That(1.00000001).ToAlmostEqual(1.0))
	assert.NoError(t, That(math.NaN()).ToAlmostEqual(math.NaN()))
	assert.Error(t, That(1.001).ToAlmostEqual(1.0))
}

func TestToEqualWithNaNEqual(t *testing.T) {
	assert.NoError(t, That(math.NaN()).ToEqualWithNaNEqual(math.NaN()))
	assert.NoError(t, That([]float64{1, math.NaN()}).ToEqualWithNaNEqual([]float64{1, math.NaN()}))
	assert.Error(t, That(math.NaN()).ToEqual(math.NaN()))
}

func TestToBeSame(t *testing.T) {
	x, y := 1, 1
	p := &x

	assert.NoError(t, That(p).ToBeSame(p))
	assert.NoError(t, That(1).ToBeSame(1))
	assert.Error(t, That(&y).ToBeSame(p))
	assert.Error(t, That(1).ToBeSame(1.0))
	assert.Error(t, That("1").ToBeSame(1))
}

func TestToBeTrueAndFalse(t *testing.T) {
	assert.NoError(t, That(true).ToBeTrue())
	assert.NoError(t, That(false).ToBeFalse())

	f := failureOf(t, That(1).ToBeTrue())
	assert.Equal(t, "Failed asserting that 1 is true.", f.Message)
	assert.Error(t, That(0).ToBeFalse())
}

func TestToBeNil(t *testing.T) {
	var ptr *int
	var m map[string]int

	for _, v := range []any{nil, ptr, m, value.Absent} {
		assert.NoError(t, That(v).ToBeNil())
		assert.Error(t, That(v).ToNotBeNil())
	}
	assert.Error(t, That(0).ToBeNil())
	assert.NoError(t, That(0).ToNotBeNil())
}

func TestToBeEmpty(t *testing.T) {
	empty := []any{nil, "", 0, false, []int{}, map[string]int{}}
	for _, v := range empty {
		assert.NoError(t, That(v).ToBeEmpty(), "%#v", v)
		assert.Error(t, That(v).ToNotBeEmpty(), "%#v", v)
	}

	full := []any{"a", 1, true, []int{1}, map[string]int{"a": 1}}
	for _, v := range full {
		assert.Error(t, That(v).ToBeEmpty(), "%#v", v)
		assert.NoError(t, That(v).ToNotBeEmpty(), "%#v", v)
	}
}

func TestOrdering(t *testing.T) {
	assert.NoError(t, That(3).ToBeGreaterThan(2))
	assert.NoError(t, That("b").ToBeGreaterThan("a"))
	assert.NoError(t, That(2).ToBeGreaterThanOrEqualTo(2.0))
	assert.NoError(t, That(1).ToBeLessThan(2.5))
	assert.NoError(t, That(2).ToBeLessThanOrEqualTo(2))

	now := time.Now()
	assert.NoError(t, That(now).ToBeLessThan(now.Add(time.Second)))

	f := failureOf(t, That(1).ToBeGreaterThan(2))
	assert.Equal(t, "Failed asserting that 1 is greater than 2.", f.Message)

	assert.True(t, failure.IsInvalid(That([]int{1}).ToBeGreaterThan(1)))
}

func TestToBeType(t *testing.T) {
	assert.NoError(t, That(5).ToBeType("int"))
	assert.NoError(t, That("x").ToBeType("string"))
	assert.NoError(t, That(nil).ToBeType("null"))
	assert.NoError(t, That("x").ToNotBeType("int"))

	f := failureOf(t, That(5).ToBeType("string"))
	assert.Equal(t, `Failed asserting that 5 is of type "string".`, f.Message)

	assert.True(t, failure.IsInvalid(That(5).ToBeType("bogus")))
	assert.True(t, failure.IsInvalid(That(5).ToNotBeType("bogus")))
}

func TestToBeInstanceOf(t *testing.T) {
	buf := &bytes.Buffer{}

	assert.NoError(t, That(buf).ToBeInstanceOf((*io.Reader)(nil)))
	assert.NoError(t, That(buf).ToBeInstanceOf(&bytes.Buffer{}))
	assert.NoError(t, That(time.Now()).ToBeInstanceOf(reflect.TypeOf(time.Time{})))
	assert.NoError(t, That(1).ToNotBeInstanceOf(""))

	f := failureOf(t, That(1).ToBeInstanceOf(""))
	assert.Equal(t, "Failed asserting that 1 is an instance of string.", f.Message)

	assert.Error(t, That(nil).ToBeInstanceOf((*io.Reader)(nil)))
	assert.True(t, failure.IsInvalid(That(1).ToBeInstanceOf(nil)))
}

func TestToMatchRegExp(t *testing.T) {
	assert.NoError(t, That("Hello").ToMatchRegExp("/^hello$/i"))
	assert.NoError(t, That("abc").ToMatchRegExp("b"))
	assert.NoError(t, That("abc").ToNotMatchRegExp("^b"))

	f := failureOf(t, That("abc").ToMatchRegExp("^b"))
	assert.Equal(t, `Failed asserting that "abc" matches pattern ^b.`, f.Message)

	assert.True(t, failure.IsInvalid(That(5).ToMatchRegExp("5")))
	assert.True(t, failure.IsInvalid(That("x").ToMatchRegExp("/x/q")))
	assert.True(t, failure.IsInvalid(That("x").ToMatchRegExp("(")))
}

func TestToExist(t *testing.T) {
	assert.NoError(t, That(nil).ToExist())
	assert.NoError(t, That(0).ToExist())
	assert.Error(t, That(value.Absent).ToExist())
}

func TestToNotEqual(t *testing.T) {
	assert.NoError(t, That(1).ToNotEqual(2))
	f := failureOf(t, That(1).ToNotEqual(1.0))
	assert.Equal(t, "Failed asserting that 1 is not equal to 1.0.", f.Message)
}

func TestToNotBeSame(t *testing.T) {
	x := 1
	assert.NoError(t, That(&x).ToNotBeSame(&[]int{1}[0]))
	assert.Error(t, That(&x).ToNotBeSame(&x))
}
