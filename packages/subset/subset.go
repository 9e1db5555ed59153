// Package subset checks that a partial expected structure is included in an
// actual structure.
package subset

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// RootPath is the path prefix used for the actual value in failure messages.
const RootPath = "$actual"

// Option configures AssertSubset.
type Option func(*matcher)

// WithMessage puts a custom message in front of the failure text.
func WithMessage(msg string) Option {
	return func(m *matcher) {
		m.message = msg
	}
}

// WithPath replaces RootPath as the name of the actual value.
func WithPath(path string) Option {
	return func(m *matcher) {
		m.root = path
	}
}

type matcher struct {
	message string
	root    string
	onStack map[node]bool
}

type node struct {
	ptr uintptr
	typ reflect.Type
}

// AssertSubset walks every key/value pair of expected and requires the same
// slot in actual to hold an equal value. Nested containers and structs in
// expected are matched recursively, so actual may carry extra keys at any
// depth. Missing slots in actual are value.Absent, not errors.
//
// A mismatch returns a *failure.Failure naming the path of the offending
// slot, for example $actual["users"][0].Name. A cyclic expected structure
// returns a *failure.InvalidArgument.
func AssertSubset(expected, actual any, opts ...Option) error {
	m := &matcher{root: RootPath, onStack: make(map[node]bool)}
	for _, opt := range opts {
		opt(m)
	}
	if !structural(expected) {
		return m.leaf(expected, actual, m.root)
	}
	return m.walk(expected, actual, m.root)
}

func (m *matcher) walk(expected, actual any, path string) error {
	if n, ok := identity(expected); ok {
		if m.onStack[n] {
			return failure.Invalid("subset", "cyclic structure at %s", path)
		}
		m.onStack[n] = true
		defer delete(m.onStack, n)
	}

	if value.KindOf(expected) == value.SetLike {
		return m.members(expected, actual, path)
	}

	var err error
	walkErr := value.EachEntry(expected, func(key, want any) bool {
		got, part := slot(actual, key)
		if structural(want) {
			err = m.walk(want, got, path+part)
		} else {
			err = m.leaf(want, got, path+part)
		}
		return err == nil
	})
	if walkErr != nil {
		return failure.Invalid("subset", "expected value at %s is not a keyed structure: %v", path, walkErr)
	}
	return err
}

// members requires each member of an expected set to be present in actual.
func (m *matcher) members(expected, actual any, path string) error {
	var err error
	walkErr := value.Each(expected, func(member any) bool {
		got, part := slot(actual, member)
		if got == value.Absent {
			err = failure.Mismatch(m.message, "Key: "+path+part, member, got)
		}
		return err == nil
	})
	if walkErr != nil {
		return failure.Invalid("subset", "%v", walkErr)
	}
	return err
}

func (m *matcher) leaf(want, got any, path string) error {
	if equality.ValueEqual(want, got) {
		return nil
	}
	return failure.Mismatch(m.message, "Key: "+path, want, got)
}

// slot resolves key inside actual and returns the path segment naming it.
func slot(actual, key any) (any, string) {
	kind := value.KindOf(actual)
	switch {
	case kind.IsContainer():
		got, ok := value.Lookup(actual, key)
		if !ok {
			got = value.Absent
		}
		return got, indexPart(key)
	case kind == value.Object:
		name := fmt.Sprint(key)
		got, ok := value.Lookup(actual, name)
		if !ok {
			got = value.Absent
		}
		return got, "." + name
	}
	return value.Absent, ""
}

func indexPart(key any) string {
	switch k := key.(type) {
	case string:
		return "[" + strconv.Quote(k) + "]"
	case fmt.Stringer:
		return "[" + strconv.Quote(k.String()) + "]"
	}
	if value.KindOf(key).IsNumeric() {
		return fmt.Sprintf("[%v]", key)
	}
	return "[" + value.Export(key) + "]"
}

// structural reports whether v is matched key by key rather than compared
// as a whole. Structs without exported fields, or with their own Equal
// method, compare as values.
func structural(v any) bool {
	if value.IsNil(v) {
		return false
	}
	switch value.KindOf(v) {
	case value.OrderedSequence, value.AssociativeMap, value.SetLike:
		return value.IsKeyed(v) || value.KindOf(v) == value.SetLike
	case value.Object:
		if reflect.ValueOf(v).MethodByName("Equal").IsValid() {
			return false
		}
		rv := value.Indirect(v)
		if rv.Kind() != reflect.Struct {
			return false
		}
		for i := 0; i < rv.NumField(); i++ {
			if rv.Type().Field(i).IsExported() {
				return true
			}
		}
	}
	return false
}

func identity(v any) (node, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		return node{ptr: rv.Pointer(), typ: rv.Type()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return node{}, false
		}
		return node{ptr: rv.Pointer(), typ: rv.Type()}, true
	}
	return node{}, false
}
