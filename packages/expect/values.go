package expect

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/diff"
	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// AlmostEqualDelta is the tolerance used by ToAlmostEqual.
const AlmostEqualDelta = 1e-7

// ToEqual passes when the subject equals expected in value: 1 equals 1.0,
// "1" equals 1 and containers compare element by element.
func (e *Expectation) ToEqual(expected any) error {
	return e.run("toEqual", func() error {
		if equality.ValueEqual(expected, e.actual) {
			return nil
		}
		return e.withDiff(e.mismatch("Failed asserting that two values are equal.", expected, e.actual), expected)
	})
}

// ToEqualWithDelta is ToEqual with every numeric leaf allowed to differ by
// at most delta.
func (e *Expectation) ToEqualWithDelta(expected any, delta float64) error {
	return e.run("toEqualWithDelta", func() error {
		if equality.EqualWithDelta(expected, e.actual, delta) {
			return nil
		}
		return e.mismatch("Failed asserting that two values are equal within delta "+value.Export(delta)+".", expected, e.actual)
	})
}

// ToAlmostEqual is ToEqual with NaN equal to NaN and numbers allowed to
// differ by AlmostEqualDelta.
func (e *Expectation) ToAlmostEqual(expected any) error {
	return e.run("toAlmostEqual", func() error {
		if equality.AlmostEqual(expected, e.actual, AlmostEqualDelta) {
			return nil
		}
		return e.mismatch("Failed asserting that two values are almost equal.", expected, e.actual)
	})
}

// ToEqualWithNaNEqual is ToEqual with NaN equal to NaN.
func (e *Expectation) ToEqualWithNaNEqual(expected any) error {
	return e.run("toEqualWithNaNEqual", func() error {
		if equality.NaNEqual(expected, e.actual) {
			return nil
		}
		return e.mismatch("Failed asserting that two values are equal.", expected, e.actual)
	})
}

// ToBeSame passes when the subject is the same instance as expected, or for
// primitives, the same type and value. String mismatches carry a unified
// diff.
func (e *Expectation) ToBeSame(expected any) error {
	return e.run("toBeSame", func() error {
		if equality.Identical(expected, e.actual) {
			return nil
		}
		return e.withDiff(e.mismatch("Failed asserting that two values are identical.", expected, e.actual), expected)
	})
}

// withDiff attaches a unified diff when both sides are strings and at least
// one spans several lines.
func (e *Expectation) withDiff(f *failure.Failure, expected any) error {
	exp, okE := expected.(string)
	act, okA := e.actual.(string)
	if okE && okA && (strings.Contains(exp, "\n") || strings.Contains(act, "\n")) {
		f.Diff = diff.Unified(exp, act)
	}
	return f
}

// ToBeTrue passes only for the bool true.
func (e *Expectation) ToBeTrue() error {
	return e.run("toBeTrue", func() error {
		if b, ok := e.actual.(bool); ok && b {
			return nil
		}
		return e.fail("Failed asserting that %s is true.", []any{value.Export(e.actual)})
	})
}

// ToBeFalse passes only for the bool false.
func (e *Expectation) ToBeFalse() error {
	return e.run("toBeFalse", func() error {
		if b, ok := e.actual.(bool); ok && !b {
			return nil
		}
		return e.fail("Failed asserting that %s is false.", []any{value.Export(e.actual)})
	})
}

// ToBeNil passes for nil, value.Absent and typed nil pointers, maps, slices,
// channels and funcs.
func (e *Expectation) ToBeNil() error {
	return e.run("toBeNil", func() error {
		if value.IsNil(e.actual) {
			return nil
		}
		return e.fail("Failed asserting that %s is null.", []any{value.Export(e.actual)})
	})
}

// ToBeEmpty passes for nil, zero scalars, empty strings and containers with
// no elements.
func (e *Expectation) ToBeEmpty() error {
	return e.run("toBeEmpty", func() error {
		if isEmpty(e.actual) {
			return nil
		}
		return e.fail("Failed asserting that %s is empty.", []any{value.Export(e.actual)})
	})
}

func isEmpty(v any) bool {
	if value.IsNil(v) {
		return true
	}
	switch value.KindOf(v) {
	case value.OrderedSequence, value.AssociativeMap, value.SetLike:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len() == 0
		}
		empty := true
		_ = value.Each(v, func(any) bool {
			empty = false
			return false
		})
		return empty
	case value.Channel:
		return reflect.ValueOf(v).Len() == 0
	case value.Callable:
		return false
	}
	return reflect.ValueOf(v).IsZero()
}

// ToBeGreaterThan passes when the subject orders after expected.
func (e *Expectation) ToBeGreaterThan(expected any) error {
	return e.order("toBeGreaterThan", expected, "greater than", func(n int) bool { return n > 0 })
}

// ToBeGreaterThanOrEqualTo passes when the subject does not order before
// expected.
func (e *Expectation) ToBeGreaterThanOrEqualTo(expected any) error {
	return e.order("toBeGreaterThanOrEqualTo", expected, "equal to or greater than", func(n int) bool { return n >= 0 })
}

// ToBeLessThan passes when the subject orders before expected.
func (e *Expectation) ToBeLessThan(expected any) error {
	return e.order("toBeLessThan", expected, "less than", func(n int) bool { return n < 0 })
}

// ToBeLessThanOrEqualTo passes when the subject does not order after
// expected.
func (e *Expectation) ToBeLessThanOrEqualTo(expected any) error {
	return e.order("toBeLessThanOrEqualTo", expected, "equal to or less than", func(n int) bool { return n <= 0 })
}

func (e *Expectation) order(name string, expected any, relation string, holds func(int) bool) error {
	return e.run(name, func() error {
		n, err := equality.Compare(e.actual, expected)
		if err != nil {
			return err
		}
		if holds(n) {
			return nil
		}
		return e.fail("Failed asserting that %s is %s %s.", []any{value.Export(e.actual), relation, value.Export(expected)})
	})
}

// ToBeType checks the subject against a type token such as "int", "string"
// or "map". Unknown tokens are a *failure.InvalidArgument; use
// ToBeInstanceOf for concrete types and interfaces.
func (e *Expectation) ToBeType(token string) error {
	return e.run("toBeType", func() error {
		ok, err := e.cfg.registry.Check(token, e.actual)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		return e.fail(`Failed asserting that %s is of type "%s".`, []any{value.Export(e.actual), token})
	})
}

// ToBeInstanceOf checks the subject's dynamic type. target is a
// reflect.Type, a nil interface pointer such as (*io.Reader)(nil) for an
// interface check, or a sample value of the wanted type.
func (e *Expectation) ToBeInstanceOf(target any) error {
	return e.run("toBeInstanceOf", func() error {
		ok, name, err := instanceOf(e.actual, target)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		return e.fail("Failed asserting that %s is an instance of %s.", []any{value.Export(e.actual), name})
	})
}

func instanceOf(actual, target any) (bool, string, error) {
	t, err := targetType(target)
	if err != nil {
		return false, "", err
	}
	if actual == nil || actual == value.Absent {
		return false, t.String(), nil
	}
	at := reflect.TypeOf(actual)
	if t.Kind() == reflect.Interface {
		return at.Implements(t), t.String(), nil
	}
	return at == t, t.String(), nil
}

func targetType(target any) (reflect.Type, error) {
	switch t := target.(type) {
	case nil:
		return nil, failure.Invalid("toBeInstanceOf", "expected a type, an interface pointer or a sample value, got nil")
	case reflect.Type:
		return t, nil
	}
	t := reflect.TypeOf(target)
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		return t.Elem(), nil
	}
	return t, nil
}

// ToMatchRegExp matches a string subject against pattern. Patterns may be
// written bare or delimited as /pattern/flags with flags i, m and s.
func (e *Expectation) ToMatchRegExp(pattern string) error {
	return e.run("toMatchRegExp", func() error {
		matched, err := matchPattern(pattern, e.actual)
		if err != nil {
			return err
		}
		if matched {
			return nil
		}
		return e.fail("Failed asserting that %s matches pattern %s.", []any{value.Export(e.actual), pattern})
	})
}

func matchPattern(pattern string, subject any) (bool, error) {
	if value.KindOf(subject) != value.String {
		return false, failure.Invalid("toMatchRegExp", "subject must be a string, got %s", value.TypeName(subject))
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(value.Indirect(subject).String()), nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	expr := pattern
	if len(pattern) >= 2 && pattern[0] == '/' {
		end := strings.LastIndex(pattern, "/")
		if end > 0 {
			expr = pattern[1:end]
			flags := pattern[end+1:]
			for _, f := range flags {
				if !strings.ContainsRune("ims", f) {
					return nil, failure.Invalid("toMatchRegExp", "unsupported pattern flag %q in %s", f, pattern)
				}
			}
			if flags != "" {
				expr = "(?" + flags + ")" + expr
			}
		}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, failure.Invalid("toMatchRegExp", "invalid pattern %s: %v", pattern, err)
	}
	return re, nil
}

// ToExist passes unless the subject is value.Absent, the marker for a path
// or key that resolved to nothing.
func (e *Expectation) ToExist() error {
	return e.run("toExist", func() error {
		if e.actual != value.Absent {
			return nil
		}
		return e.fail("Failed asserting that the value exists.", nil)
	})
}
