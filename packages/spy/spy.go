// Package spy records calls so that call matchers can ask how often, and
// with what arguments, a symbol was invoked.
package spy

import (
	"reflect"
	"slices"
	"sync"
)

// CallRecorder answers call queries for a symbol. Calls returns the argument
// lists of every recorded call in order, oldest first.
type CallRecorder interface {
	Calls(symbol string) [][]any
}

// Recorder is an in-memory CallRecorder safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls map[string][][]any
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{calls: make(map[string][][]any)}
}

// Record appends one call of symbol with args.
func (r *Recorder) Record(symbol string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string][][]any)
	}
	call := make([]any, len(args))
	copy(call, args)
	r.calls[symbol] = append(r.calls[symbol], call)
}

func (r *Recorder) Calls(symbol string) [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls[symbol])
}

// Symbols returns every symbol with at least one recorded call.
func (r *Recorder) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for s := range r.calls {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = make(map[string][][]any)
}

// Wrap returns a function with the same signature as fn that records each
// call under symbol before delegating to fn. Variadic arguments are recorded
// as they were passed, one entry per argument.
func Wrap[F any](r *Recorder, symbol string, fn F) F {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		panic("spy.Wrap: fn must be a function")
	}
	variadic := rv.Type().IsVariadic()

	wrapped := reflect.MakeFunc(rv.Type(), func(in []reflect.Value) []reflect.Value {
		args := make([]any, 0, len(in))
		for i, v := range in {
			if variadic && i == len(in)-1 {
				for j := 0; j < v.Len(); j++ {
					args = append(args, v.Index(j).Interface())
				}
				continue
			}
			args = append(args, v.Interface())
		}
		r.Record(symbol, args...)

		if variadic {
			return rv.CallSlice(in)
		}
		return rv.Call(in)
	})
	return wrapped.Interface().(F)
}
