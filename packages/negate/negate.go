// Package negate inverts the outcome of a matcher.
package negate

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
)

// Invert runs the matcher once and swaps its outcome: a *failure.Failure
// becomes a pass and a pass becomes a *failure.Failure naming the matcher.
// Any other error, *failure.InvalidArgument included, is returned unchanged.
func Invert(name string, run func() error) error {
	err := run()
	if err == nil {
		return &failure.Failure{Message: fmt.Sprintf("Expected `%s` to fail, but it did not.", name)}
	}

	var f *failure.Failure
	if errors.As(err, &f) && !failure.IsInvalid(err) {
		return nil
	}
	return err
}

// InvertIf applies Invert only when cond holds and otherwise runs the
// matcher as is.
func InvertIf(cond bool, name string, run func() error) error {
	if !cond {
		return run()
	}
	return Invert(name, run)
}
