package spy

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Record("save", "a", 1)
	r.Record("save", "b", 2)
	r.Record("load")

	assert.Equal(t, [][]any{{"a", 1}, {"b", 2}}, r.Calls("save"))
	assert.Equal(t, [][]any{{}}, r.Calls("load"))
	assert.Empty(t, r.Calls("delete"))
	assert.Equal(t, []string{"load", "save"}, r.Symbols())

	r.Reset()
	assert.Empty(t, r.Calls("save"))
}

func TestRecorder_ZeroValue(t *testing.T) {
	var r Recorder
	r.Record("x", 1)
	assert.Len(t, r.Calls("x"), 1)
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	defer goleak.VerifyNone(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Record("hit", i)
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Calls("hit"), 50)
}

func TestWrap(t *testing.T) {
	r := NewRecorder()

	add := Wrap(r, "add", func(a, b int) int { return a + b })
	assert.Equal(t, 5, add(2, 3))

	join := Wrap(r, "sprintf", fmt.Sprintf)
	assert.Equal(t, "x=1", join("x=%d", 1))

	assert.Equal(t, [][]any{{2, 3}}, r.Calls("add"))
	assert.Equal(t, [][]any{{"x=%d", 1}}, r.Calls("sprintf"))
}
