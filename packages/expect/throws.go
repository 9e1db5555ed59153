package expect

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// PanicError is what a subject "threw" when it panicked instead of
// returning an error.
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Unwrap exposes a panic value that is itself an error.
func (p *PanicError) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

// ToThrow calls the subject, a function, with no arguments and passes when
// it returns a non-nil trailing error or panics with a value matching
// target. When messageSubstring is given the error text must contain it.
//
// target is nil for any error, a sentinel error compared with errors.Is, a
// typed nil such as (*fs.PathError)(nil) or a reflect.Type compared with
// errors.As, or a type name such as "*fs.PathError" or "PathError".
func (e *Expectation) ToThrow(target any, messageSubstring ...string) error {
	return e.run("toThrow", func() error {
		return e.throws(nil, target, messageSubstring)
	})
}

// ToThrowWhenCalledWith is ToThrow with args passed to the subject.
func (e *Expectation) ToThrowWhenCalledWith(args []any, target any, messageSubstring ...string) error {
	return e.run("toThrowWhenCalledWith", func() error {
		return e.throws(args, target, messageSubstring)
	})
}

// NotToThrow passes when calling the subject returns no error and does not
// panic.
func (e *Expectation) NotToThrow() error {
	return e.run("notToThrow", func() error {
		thrown, err := callSubject(e.actual, nil)
		if err != nil {
			return err
		}
		if thrown == nil {
			return nil
		}
		return e.fail("%s was thrown: %s", []any{errorTypeName(thrown), thrown.Error()})
	})
}

func (e *Expectation) throws(args []any, target any, messageSubstring []string) error {
	thrown, err := callSubject(e.actual, args)
	if err != nil {
		return err
	}
	name := targetName(target)
	if thrown == nil {
		return e.fail("Expected error %s wasn't thrown", []any{name})
	}

	ok, err := matchesTarget(thrown, target)
	if err != nil {
		return err
	}
	if !ok {
		return e.fail(`Expected to throw "%s", but instead got <%s> with message "%s"`, []any{name, errorTypeName(thrown), thrown.Error()})
	}

	for _, sub := range messageSubstring {
		if !strings.Contains(thrown.Error(), sub) {
			return e.fail("Failed asserting that %s contains %s.", []any{value.Export(thrown.Error()), value.Export(sub)})
		}
	}
	return nil
}

// callSubject calls fn with args and reports what it threw. A trailing
// error result counts, as does a panic. A result of type <-chan error or
// chan error is received from, blocking until the asynchronous work reports.
func callSubject(fn any, args []any) (thrown error, err error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, failure.Invalid("toThrow", "subject must be a function, got %s", value.TypeName(fn))
	}
	in, err := callArgs(rv.Type(), args)
	if err != nil {
		return nil, err
	}

	out, thrown := invoke(rv, in)
	if thrown != nil {
		return thrown, nil
	}

	for i, o := range out {
		switch {
		case i == len(out)-1 && o.Type().Implements(errorType):
			if !isNilValue(o) {
				return o.Interface().(error), nil
			}
		case o.Kind() == reflect.Chan && o.Type().Elem() == errorType && o.Type().ChanDir()&reflect.RecvDir != 0:
			if o.IsNil() {
				continue
			}
			v, ok := o.Recv()
			if ok && !v.IsNil() {
				return v.Interface().(error), nil
			}
		}
	}
	return nil, nil
}

func invoke(fn reflect.Value, in []reflect.Value) (out []reflect.Value, thrown error) {
	defer func() {
		if r := recover(); r != nil {
			thrown = &PanicError{Value: r}
		}
	}()
	return fn.Call(in), nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func callArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	n := t.NumIn()
	if t.IsVariadic() {
		if len(args) < n-1 {
			return nil, failure.Invalid("toThrow", "function takes at least %d arguments, got %d", n-1, len(args))
		}
	} else if len(args) != n {
		return nil, failure.Invalid("toThrow", "function takes %d arguments, got %d", n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		pt := paramType(t, i)
		v, ok := convertArg(a, pt)
		if !ok {
			return nil, failure.Invalid("toThrow", "argument %d: cannot use %s as %s", i, value.TypeName(a), pt)
		}
		in[i] = v
	}
	return in, nil
}

func paramType(t reflect.Type, i int) reflect.Type {
	if t.IsVariadic() && i >= t.NumIn()-1 {
		return t.In(t.NumIn() - 1).Elem()
	}
	return t.In(i)
}

func convertArg(a any, t reflect.Type) (reflect.Value, bool) {
	if a == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, true
	}
	if value.KindOf(a).IsNumeric() && isNumericType(t) {
		return v.Convert(t), true
	}
	if value.KindOf(a) == value.String && t.Kind() == reflect.String {
		return v.Convert(t), true
	}
	return reflect.Value{}, false
}

func matchesTarget(thrown error, target any) (bool, error) {
	switch t := target.(type) {
	case nil:
		return true, nil
	case string:
		return matchesTypeName(thrown, t), nil
	case reflect.Type:
		return asType(thrown, t)
	case error:
		if value.IsNil(t) {
			return asType(thrown, reflect.TypeOf(t))
		}
		return errors.Is(thrown, t), nil
	}
	return false, failure.Invalid("toThrow", "unsupported error target %s", value.TypeName(target))
}

func asType(thrown error, t reflect.Type) (bool, error) {
	if !t.Implements(errorType) {
		return false, failure.Invalid("toThrow", "%s does not implement error", t)
	}
	ptr := reflect.New(t)
	return errors.As(thrown, ptr.Interface()), nil
}

// matchesTypeName walks the error chain looking for a type named name,
// with or without its package qualifier.
func matchesTypeName(err error, name string) bool {
	for err != nil {
		full := errorTypeName(err)
		short := full[strings.LastIndex(full, ".")+1:]
		star := strings.HasPrefix(full, "*")
		if full == name || short == name || (star && "*"+short == name) {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

func errorTypeName(err error) string {
	return reflect.TypeOf(err).String()
}

func targetName(target any) string {
	switch t := target.(type) {
	case nil:
		return "error"
	case string:
		return t
	case reflect.Type:
		return t.String()
	case error:
		if value.IsNil(t) {
			return reflect.TypeOf(t).String()
		}
		return fmt.Sprintf("%s(%q)", reflect.TypeOf(t), t.Error())
	}
	return value.TypeName(target)
}
