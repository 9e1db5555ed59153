package sorted

import (
	"maps"
	"slices"
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name string
	Age  int
}

func lessOrEqual(a, b int) bool { return a <= b }

func TestIsSortedBy(t *testing.T) {
	assert.NoError(t, IsSortedBy(slices.Values([]int{1, 2, 3}), lessOrEqual))
	assert.NoError(t, IsSortedBy(slices.Values([]int{1, 1, 1}), lessOrEqual))

	err := IsSortedBy(slices.Values([]int{3, 1, 2}), lessOrEqual)
	require.Error(t, err)
	assert.True(t, failure.IsFailure(err))
	assert.Equal(t, "Collection is not sorted: at pos 1, 3 and 1 are in the wrong order", err.Error())
}

func TestIsSortedBy_ShortSequencesNeverCompare(t *testing.T) {
	calls := 0
	never := func(a, b int) bool {
		calls++
		return false
	}

	assert.NoError(t, IsSortedBy(slices.Values([]int{}), never))
	assert.NoError(t, IsSortedBy(slices.Values([]int{7}), never))
	assert.Zero(t, calls)
}

func TestIsSortedBy_StopsAtFirstViolation(t *testing.T) {
	calls := 0
	err := IsSortedBy(slices.Values([]int{1, 5, 2, 0}), func(a, b int) bool {
		calls++
		return a <= b
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "at pos 2, 5 and 2")
}

func TestIsSortedBy_CustomMessage(t *testing.T) {
	err := IsSortedBy(slices.Values([]string{"b", "a"}), func(a, b string) bool { return a <= b }, WithMessage("names out of order"))
	require.Error(t, err)
	assert.Equal(t, `names out of order: at pos 1, "b" and "a" are in the wrong order`, err.Error())
}

func TestIsSortedByKey(t *testing.T) {
	users := []user{{"ada", 30}, {"bob", 30}, {"cy", 41}}
	assert.NoError(t, IsSortedByKey(slices.Values(users), func(u user) int { return u.Age }))

	err := IsSortedByKey(slices.Values(users), func(u user) int { return -u.Age })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at pos 2")
}

func TestVerify(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	assert.NoError(t, Verify(ch, Ascending))
	assert.NoError(t, Verify([]any{3, 2.5, "1"}, Descending))
	assert.NoError(t, Verify(maps.Keys(map[string]int{"solo": 1}), Ascending))

	err := Verify([]int{3, 1, 2}, Ascending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at pos 1, 3 and 1")

	err = Verify(42, Ascending)
	assert.True(t, failure.IsInvalid(err))
}

func TestVerifyByKey(t *testing.T) {
	rows := []map[string]any{{"n": 1}, {"n": 2}, {"n": 2}}
	byN := func(v any) any { return v.(map[string]any)["n"] }
	assert.NoError(t, VerifyByKey(rows, byN))

	err := VerifyByKey([]any{true, false}, func(v any) any { return v })
	require.Error(t, err)
	assert.True(t, failure.IsInvalid(err))
}
