// Package failure defines the two error kinds matchers return and the
// message formatting they share.
//
// A *Failure means the comparison legitimately did not hold. An
// *InvalidArgument means the matcher was misused; it is a programming error
// in the test and is never turned into a pass, not even under negation.
package failure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// Failure is returned when a comparison does not hold.
type Failure struct {
	Message  string
	Expected string
	Actual   string
	Diff     string
}

func (f *Failure) Error() string {
	var buf strings.Builder
	buf.WriteString(f.Message)
	if f.Diff != "" {
		fmt.Fprintf(&buf, "\n%s", f.Diff)
	}
	return buf.String()
}

// InvalidArgument is returned when a matcher is called with arguments it
// cannot work with.
type InvalidArgument struct {
	Op     string
	Reason string
}

func (e *InvalidArgument) Error() string {
	if e.Op == "" {
		return "invalid argument: " + e.Reason
	}
	return fmt.Sprintf("%s: invalid argument: %s", e.Op, e.Reason)
}

// Invalid builds an *InvalidArgument for op.
func Invalid(op, format string, args ...any) *InvalidArgument {
	return &InvalidArgument{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsFailure reports whether err carries a *Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// IsInvalid reports whether err carries an *InvalidArgument.
func IsInvalid(err error) bool {
	var e *InvalidArgument
	return errors.As(err, &e)
}

// Fail formats template with args and returns it as a *Failure.
func Fail(template string, args []any) *Failure {
	return &Failure{Message: Format(template, args)}
}

// Mismatch returns a *Failure for an expected/actual pair. The custom message,
// when present, comes first the way test authors expect to read it.
func Mismatch(custom, summary string, expected, actual any) *Failure {
	exp, act := value.Repr(expected), value.Repr(actual)
	var buf strings.Builder
	if custom != "" {
		buf.WriteString(custom)
		buf.WriteString("\n")
	}
	buf.WriteString(summary)
	fmt.Fprintf(&buf, "\nExpected: %s\nActual:   %s", exp, act)
	return &Failure{Message: buf.String(), Expected: exp, Actual: act}
}

// Prefix joins a custom message in front of summary.
func Prefix(custom, summary string) string {
	if custom == "" {
		return summary
	}
	return custom + "\n" + summary
}
