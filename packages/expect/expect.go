package expect

import (
	"errors"
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/negate"
	"github.com/abdul-hamid-achik/hitexpect/packages/spy"
)

// Expectation holds one subject and the options its matchers run with.
type Expectation struct {
	actual  any
	cfg     *config
	negated bool
}

// That starts an expectation on actual.
func That(actual any, opts ...Option) *Expectation {
	return &Expectation{actual: actual, cfg: newConfig(opts)}
}

// Asserter creates expectations that report to a test.
type Asserter struct {
	t    testing.TB
	opts []Option
}

// New returns an Asserter reporting to t. opts apply to every expectation
// it creates.
func New(t testing.TB, opts ...Option) *Asserter {
	return &Asserter{t: t, opts: opts}
}

// That starts an expectation on actual that reports to the test.
func (a *Asserter) That(actual any, opts ...Option) *Expectation {
	a.t.Helper()
	all := append(append([]Option{}, a.opts...), opts...)
	return That(actual, append(all, withReporter(a.t))...)
}

// Calls starts call expectations on symbol that report to the test.
func (a *Asserter) Calls(recorder spy.CallRecorder, symbol string, opts ...Option) *CallExpectation {
	a.t.Helper()
	all := append(append([]Option{}, a.opts...), opts...)
	return Calls(recorder, symbol, append(all, withReporter(a.t))...)
}

// Not inverts every matcher called on the returned expectation: a matcher
// that holds fails and a matcher that fails passes. Misuse still surfaces
// as *failure.InvalidArgument.
func (e *Expectation) Not() *Expectation {
	return &Expectation{actual: e.actual, cfg: e.cfg, negated: !e.negated}
}

// Iff keeps the expectation as is when cond holds and inverts it otherwise,
// so That(a).Iff(a == b).ToBeSame(b) always passes.
func (e *Expectation) Iff(cond bool) *Expectation {
	if cond {
		return e
	}
	return e.Not()
}

// Actual returns the subject.
func (e *Expectation) Actual() any {
	return e.actual
}

func (e *Expectation) run(name string, fn func() error) error {
	if e.cfg.t != nil {
		e.cfg.t.Helper()
	}
	err := evaluate(e.cfg, e.negated, name, fn)
	report(e.cfg.t, err)
	return err
}

func evaluate(cfg *config, negated bool, name string, fn func() error) error {
	if !negated {
		return fn()
	}
	err := negate.Invert(name, fn)
	var f *failure.Failure
	if errors.As(err, &f) {
		f.Message = failure.Prefix(cfg.message, f.Message)
	}
	return err
}

func report(t testing.TB, err error) {
	if t == nil || err == nil {
		return
	}
	t.Helper()
	if failure.IsInvalid(err) {
		t.Fatalf("%v", err)
		return
	}
	t.Errorf("%v", err)
}

func (e *Expectation) fail(template string, args []any) error {
	return failWith(e.cfg, template, args)
}

func (e *Expectation) mismatch(summary string, expected, actual any) *failure.Failure {
	return failure.Mismatch(e.cfg.message, summary, expected, actual)
}

func failWith(cfg *config, template string, args []any) error {
	f := failure.Fail(template, args)
	f.Message = failure.Prefix(cfg.message, f.Message)
	return f
}
