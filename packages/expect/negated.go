package expect

import (
	"github.com/abdul-hamid-achik/hitexpect/packages/contain"
	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// ToNotEqual passes when the subject is not equal in value to expected.
func (e *Expectation) ToNotEqual(expected any) error {
	return e.run("toNotEqual", func() error {
		if !equality.ValueEqual(expected, e.actual) {
			return nil
		}
		return e.fail("Failed asserting that %s is not equal to %s.", []any{value.Export(e.actual), value.Export(expected)})
	})
}

// ToNotBeNil is the inverse of ToBeNil.
func (e *Expectation) ToNotBeNil() error {
	return e.run("toNotBeNil", func() error {
		if !value.IsNil(e.actual) {
			return nil
		}
		return e.fail("Failed asserting that %s is not null.", []any{value.Export(e.actual)})
	})
}

// ToNotBeType is the inverse of ToBeType. Unknown tokens are still a
// *failure.InvalidArgument.
func (e *Expectation) ToNotBeType(token string) error {
	return e.run("toNotBeType", func() error {
		ok, err := e.cfg.registry.Check(token, e.actual)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return e.fail(`Failed asserting that %s is not of type "%s".`, []any{value.Export(e.actual), token})
	})
}

// ToNotBeSame is the inverse of ToBeSame.
func (e *Expectation) ToNotBeSame(expected any) error {
	return e.run("toNotBeSame", func() error {
		if !equality.Identical(expected, e.actual) {
			return nil
		}
		return e.fail("Failed asserting that two variables don't reference the same object: %s.", []any{value.Export(e.actual)})
	})
}

// ToNotBeEmpty is the inverse of ToBeEmpty.
func (e *Expectation) ToNotBeEmpty() error {
	return e.run("toNotBeEmpty", func() error {
		if !isEmpty(e.actual) {
			return nil
		}
		return e.fail("Failed asserting that %s is not empty.", []any{value.Export(e.actual)})
	})
}

// ToNotBeInstanceOf is the inverse of ToBeInstanceOf.
func (e *Expectation) ToNotBeInstanceOf(target any) error {
	return e.run("toNotBeInstanceOf", func() error {
		ok, name, err := instanceOf(e.actual, target)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return e.fail("Failed asserting that %s is not an instance of %s.", []any{value.Export(e.actual), name})
	})
}

// ToNotContain is the inverse of ToContain.
func (e *Expectation) ToNotContain(needle any) error {
	return e.run("toNotContain", func() error {
		found, err := contain.Contains(needle, e.actual, false)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		return e.fail("Failed asserting that %s does not contain %s.", []any{value.Export(e.actual), value.Export(needle)})
	})
}

// ToNotContainKey is the inverse of ToContainKey.
func (e *Expectation) ToNotContainKey(key any) error {
	return e.run("toNotContainKey", func() error {
		found, err := e.containsKey("toNotContainKey", key)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		return e.fail("Failed asserting that %s does not have the key %s.", []any{value.Export(e.actual), value.Export(key)})
	})
}

// ToNotMatchRegExp is the inverse of ToMatchRegExp.
func (e *Expectation) ToNotMatchRegExp(pattern string) error {
	return e.run("toNotMatchRegExp", func() error {
		matched, err := matchPattern(pattern, e.actual)
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}
		return e.fail("Failed asserting that %s does not match pattern %s.", []any{value.Export(e.actual), pattern})
	})
}
