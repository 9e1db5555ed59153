package expect

import (
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/contain"
	"github.com/abdul-hamid-achik/hitexpect/packages/deepsort"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/sorted"
	"github.com/abdul-hamid-achik/hitexpect/packages/subset"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// ToContain passes when needle is a substring of a string subject, a member
// of a set, or an element of any other iterable subject.
func (e *Expectation) ToContain(needle any) error {
	return e.run("toContain", func() error {
		return e.contains(needle, false)
	})
}

// ToContainIgnoringCase is ToContain with case folded for strings.
func (e *Expectation) ToContainIgnoringCase(needle any) error {
	return e.run("toContainIgnoringCase", func() error {
		return e.contains(needle, true)
	})
}

func (e *Expectation) contains(needle any, caseInsensitive bool) error {
	found, err := contain.Contains(needle, e.actual, caseInsensitive)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	return e.fail("Failed asserting that %s contains %s.", []any{value.Export(e.actual), value.Export(needle)})
}

// ToContainKey passes when the subject has an entry for key.
func (e *Expectation) ToContainKey(key any) error {
	return e.run("toContainKey", func() error {
		found, err := e.containsKey("toContainKey", key)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		return e.fail("Failed asserting that %s has the key %s.", []any{value.Export(e.actual), value.Export(key)})
	})
}

func (e *Expectation) containsKey(name string, key any) (bool, error) {
	found, err := contain.ContainsKey(key, e.actual)
	if failure.IsInvalid(err) {
		return false, failure.Invalid(name, "only applies to keyed containers, not %s", value.TypeName(e.actual))
	}
	return found, err
}

// ToInclude passes when every key/value pair of expectedSubset is present in
// the subject, recursively.
func (e *Expectation) ToInclude(expectedSubset any) error {
	return e.run("toInclude", func() error {
		return subset.AssertSubset(expectedSubset, e.actual, subset.WithMessage(e.cfg.message))
	})
}

// ToHaveSameShapeAs passes when the subject and expected hold the same keys
// and values regardless of key order.
func (e *Expectation) ToHaveSameShapeAs(expected any) error {
	return e.run("toHaveSameShapeAs", func() error {
		return deepsort.AssertDeepEqualIgnoringOrder(expected, e.actual, e.cfg.message)
	})
}

// ToHaveSameContentAs passes when the subject and expected hold the same
// elements regardless of order.
func (e *Expectation) ToHaveSameContentAs(expected any) error {
	return e.run("toHaveSameContentAs", func() error {
		return deepsort.AssertSameContent(expected, e.actual, e.cfg.message)
	})
}

// ToHaveLength passes when the subject has n elements, or n bytes for a
// string.
func (e *Expectation) ToHaveLength(n int) error {
	return e.run("toHaveLength", func() error {
		got, ok := length(e.actual)
		if !ok {
			return failure.Invalid("toHaveLength", "cannot get length of %s", value.TypeName(e.actual))
		}
		if got == n {
			return nil
		}
		return e.fail("Failed asserting that %s has length %d; actual length %d.", []any{value.Export(e.actual), n, got})
	})
}

func length(v any) (int, bool) {
	rv := value.Indirect(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), true
	}
	if !value.CanIterate(v) {
		return 0, false
	}
	n := 0
	_ = value.Each(v, func(any) bool {
		n++
		return true
	})
	return n, true
}

// ToStartWith passes when a string subject begins with prefix.
func (e *Expectation) ToStartWith(prefix string) error {
	return e.run("toStartWith", func() error {
		s, err := e.stringSubject("toStartWith")
		if err != nil {
			return err
		}
		if strings.HasPrefix(s, prefix) {
			return nil
		}
		return e.fail("Failed asserting that %s starts with %s.", []any{value.Export(e.actual), value.Export(prefix)})
	})
}

// ToEndWith passes when a string subject ends with suffix.
func (e *Expectation) ToEndWith(suffix string) error {
	return e.run("toEndWith", func() error {
		s, err := e.stringSubject("toEndWith")
		if err != nil {
			return err
		}
		if strings.HasSuffix(s, suffix) {
			return nil
		}
		return e.fail("Failed asserting that %s ends with %s.", []any{value.Export(e.actual), value.Export(suffix)})
	})
}

func (e *Expectation) stringSubject(name string) (string, error) {
	if value.KindOf(e.actual) != value.String {
		return "", failure.Invalid(name, "subject must be a string, got %s", value.TypeName(e.actual))
	}
	return value.Indirect(e.actual).String(), nil
}

// ToBeOneOf passes when the subject equals an element of candidates.
func (e *Expectation) ToBeOneOf(candidates any) error {
	return e.run("toBeOneOf", func() error {
		found, err := contain.Contains(e.actual, candidates, false)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		return e.fail("Failed asserting that %s is one of %s.", []any{value.Export(e.actual), value.Export(candidates)})
	})
}

// ToBeSortedBy passes when inOrder(prev, curr) holds for each consecutive
// pair of the subject. inOrder is any func(T, T) bool whose parameters
// accept the subject's elements.
func (e *Expectation) ToBeSortedBy(inOrder any) error {
	return e.run("toBeSortedBy", func() error {
		less, err := adaptComparator(inOrder)
		if err != nil {
			return err
		}
		if !value.CanIterate(e.actual) {
			return failure.Invalid("toBeSortedBy", "only applies to iterable collections, not %s", value.TypeName(e.actual))
		}
		return guardSort("toBeSortedBy", func() error {
			return sorted.Verify(e.actual, less, sorted.WithMessage(e.cfg.message))
		})
	})
}

// ToBeSortedByKey passes when the keys extracted by key are in non-strict
// ascending natural order. key is any func(T) K.
func (e *Expectation) ToBeSortedByKey(key any) error {
	return e.run("toBeSortedByKey", func() error {
		extract, err := adaptExtractor(key)
		if err != nil {
			return err
		}
		if !value.CanIterate(e.actual) {
			return failure.Invalid("toBeSortedByKey", "only applies to iterable collections, not %s", value.TypeName(e.actual))
		}
		return guardSort("toBeSortedByKey", func() error {
			return sorted.VerifyByKey(e.actual, extract, sorted.WithMessage(e.cfg.message))
		})
	})
}

// guardSort turns an element that cannot be passed to the user's function
// into a *failure.InvalidArgument.
func guardSort(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p, ok := r.(*adapterPanic)
			if !ok {
				panic(r)
			}
			err = failure.Invalid(name, "%s", p.reason)
		}
	}()
	return fn()
}

// adapterPanic carries a type mismatch out of a comparator adapter.
type adapterPanic struct{ reason string }

func adaptComparator(fn any) (func(a, b any) bool, error) {
	if f, ok := fn.(func(a, b any) bool); ok {
		return f, nil
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, failure.Invalid("toBeSortedBy", "comparator must be a function, got %s", value.TypeName(fn))
	}
	t := rv.Type()
	if t.NumIn() != 2 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.Bool {
		return nil, failure.Invalid("toBeSortedBy", "comparator must have the shape func(a, b T) bool, got %s", t)
	}
	return func(a, b any) bool {
		return rv.Call([]reflect.Value{argFor(a, t.In(0)), argFor(b, t.In(1))})[0].Bool()
	}, nil
}

func adaptExtractor(fn any) (func(any) any, error) {
	if f, ok := fn.(func(any) any); ok {
		return f, nil
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, failure.Invalid("toBeSortedByKey", "key extractor must be a function, got %s", value.TypeName(fn))
	}
	t := rv.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 {
		return nil, failure.Invalid("toBeSortedByKey", "key extractor must have the shape func(T) K, got %s", t)
	}
	return func(v any) any {
		return rv.Call([]reflect.Value{argFor(v, t.In(0))})[0].Interface()
	}, nil
}

// argFor converts v for a parameter of type t. Elements that cannot be
// passed are a programming error in the test and abort the sort check.
func argFor(v any, t reflect.Type) reflect.Value {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t)
		}
		panic(&adapterPanic{reason: "cannot pass nil as " + t.String()})
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if value.KindOf(v).IsNumeric() && rv.Type().ConvertibleTo(t) && isNumericType(t) {
		return rv.Convert(t)
	}
	panic(&adapterPanic{reason: "cannot pass " + rv.Type().String() + " as " + t.String()})
}

func isNumericType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
