package expect

import (
	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/spy"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// CallExpectation asserts on the calls a recorder saw for one symbol.
type CallExpectation struct {
	recorder spy.CallRecorder
	symbol   string
	cfg      *config
	negated  bool
}

// Calls starts call expectations on symbol as seen by recorder.
func Calls(recorder spy.CallRecorder, symbol string, opts ...Option) *CallExpectation {
	cfg := newConfig(opts)
	if recorder == nil {
		recorder = cfg.calls
	}
	return &CallExpectation{recorder: recorder, symbol: symbol, cfg: cfg}
}

// Calls turns the subject, a symbol name, into a call expectation using the
// recorder given to WithCalls.
func (e *Expectation) Calls() *CallExpectation {
	symbol, _ := e.actual.(string)
	return &CallExpectation{recorder: e.cfg.calls, symbol: symbol, cfg: e.cfg, negated: e.negated}
}

// Not inverts every matcher called on the returned expectation.
func (c *CallExpectation) Not() *CallExpectation {
	return &CallExpectation{recorder: c.recorder, symbol: c.symbol, cfg: c.cfg, negated: !c.negated}
}

func (c *CallExpectation) run(name string, fn func(calls [][]any) error) error {
	if c.cfg.t != nil {
		c.cfg.t.Helper()
	}
	err := evaluate(c.cfg, c.negated, name, func() error {
		if c.recorder == nil || value.IsNil(c.recorder) {
			return failure.Invalid(name, "no call recorder configured")
		}
		if c.symbol == "" {
			return failure.Invalid(name, "a symbol name is required")
		}
		return fn(c.recorder.Calls(c.symbol))
	})
	report(c.cfg.t, err)
	return err
}

// WasCalledOnce passes when the symbol was called exactly once.
func (c *CallExpectation) WasCalledOnce() error {
	return c.run("wasCalledOnce", func(calls [][]any) error {
		return c.count(calls, 1)
	})
}

// WasCalledTwice passes when the symbol was called exactly twice.
func (c *CallExpectation) WasCalledTwice() error {
	return c.run("wasCalledTwice", func(calls [][]any) error {
		return c.count(calls, 2)
	})
}

// WasCalledNTimes passes when the symbol was called exactly n times.
func (c *CallExpectation) WasCalledNTimes(n int) error {
	return c.run("wasCalledNTimes", func(calls [][]any) error {
		return c.count(calls, n)
	})
}

func (c *CallExpectation) count(calls [][]any, n int) error {
	if len(calls) == n {
		return nil
	}
	return failWith(c.cfg, "Failed asserting that %s was called %d times; it was called %d times.", []any{c.symbol, n, len(calls)})
}

// WasNotCalled passes when the symbol has no recorded calls.
func (c *CallExpectation) WasNotCalled() error {
	return c.run("wasNotCalled", func(calls [][]any) error {
		if len(calls) == 0 {
			return nil
		}
		return failWith(c.cfg, "Failed asserting that %s was not called; it was called %d times.", []any{c.symbol, len(calls)})
	})
}

// WasCalledOnceWith passes when the symbol was called exactly once, with
// args.
func (c *CallExpectation) WasCalledOnceWith(args ...any) error {
	return c.run("wasCalledOnceWith", func(calls [][]any) error {
		if err := c.count(calls, 1); err != nil {
			return err
		}
		return c.sameArgs(args, calls[0], "its only call")
	})
}

// WasCalledLastWith passes when the symbol was called at least once and the
// latest call had args.
func (c *CallExpectation) WasCalledLastWith(args ...any) error {
	return c.run("wasCalledLastWith", func(calls [][]any) error {
		if len(calls) == 0 {
			return failWith(c.cfg, "Failed asserting that %s was called.", []any{c.symbol})
		}
		return c.sameArgs(args, calls[len(calls)-1], "its last call")
	})
}

// WasCalledWith passes when the recorded calls, in order, had exactly the
// given argument lists.
func (c *CallExpectation) WasCalledWith(calls ...[]any) error {
	return c.run("wasCalledWith", func(got [][]any) error {
		want := make([]any, len(calls))
		for i, call := range calls {
			want[i] = normalizeArgs(call)
		}
		have := make([]any, len(got))
		for i, call := range got {
			have[i] = normalizeArgs(call)
		}
		if equality.ValueEqual(want, have) {
			return nil
		}
		return failure.Mismatch(c.cfg.message, "Failed asserting that the calls to "+c.symbol+" had the expected arguments.", want, have)
	})
}

// WasCalledWithArgumentsPassing passes when pred holds for the arguments of
// every recorded call. A symbol that was never called fails.
func (c *CallExpectation) WasCalledWithArgumentsPassing(pred func(args []any) bool) error {
	return c.run("wasCalledWithArgumentsPassing", func(calls [][]any) error {
		if pred == nil {
			return failure.Invalid("wasCalledWithArgumentsPassing", "predicate is nil")
		}
		if len(calls) == 0 {
			return failWith(c.cfg, "Failed asserting that %s was called.", []any{c.symbol})
		}
		for i, args := range calls {
			if !pred(args) {
				return failWith(c.cfg, "Failed asserting that call %d to %s passes the predicate: arguments %s.", []any{i, c.symbol, value.Export(args)})
			}
		}
		return nil
	})
}

func (c *CallExpectation) sameArgs(want, got []any, which string) error {
	w, g := normalizeArgs(want), normalizeArgs(got)
	if equality.ValueEqual(w, g) {
		return nil
	}
	return failure.Mismatch(c.cfg.message, "Failed asserting that "+c.symbol+" had the expected arguments in "+which+".", w, g)
}

// normalizeArgs treats a nil and an empty argument list alike.
func normalizeArgs(args []any) []any {
	if args == nil {
		return []any{}
	}
	return args
}
