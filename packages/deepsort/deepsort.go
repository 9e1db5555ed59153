// Package deepsort compares structures after putting every container in a
// canonical order, so that two structures holding the same content compare
// equal regardless of how they were built.
package deepsort

import (
	"reflect"
	"slices"

	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// Entry is one key/value pair of a normalized associative container.
type Entry struct {
	Key   any
	Value any
}

// AssertDeepEqualIgnoringOrder sorts every associative container in both
// structures by key, at every depth, and compares the results by value.
// Sequences keep their element order. msg, when set, leads the failure text.
func AssertDeepEqualIgnoringOrder(expected, actual any, msg string) error {
	exp, err := Normalize(expected)
	if err != nil {
		return err
	}
	act, err := Normalize(actual)
	if err != nil {
		return err
	}
	if equality.ValueEqual(exp, act) {
		return nil
	}
	return failure.Mismatch(msg, "Failed asserting that two structures are equal ignoring key order.", expected, actual)
}

// AssertSameContent compares two collections as multisets: both are sorted
// with the same deterministic order and compared element by element.
func AssertSameContent(expected, actual any, msg string) error {
	exp, err := sortedElements(expected)
	if err != nil {
		return err
	}
	act, err := sortedElements(actual)
	if err != nil {
		return err
	}
	if len(exp) == len(act) {
		same := true
		for i := range exp {
			if !equality.ValueEqual(exp[i], act[i]) {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return failure.Mismatch(msg, "Failed asserting that two collections have the same content.", exp, act)
}

// Normalize returns v with every associative container replaced by a slice
// of Entry sorted by value.CompareKeys. Cyclic input yields an
// *failure.InvalidArgument.
func Normalize(v any) (any, error) {
	n := &normalizer{onStack: make(map[node]bool)}
	return n.normalize(v, "$value")
}

type node struct {
	ptr uintptr
	typ reflect.Type
}

type normalizer struct {
	onStack map[node]bool
}

func (n *normalizer) normalize(v any, path string) (any, error) {
	if value.IsNil(v) {
		return v, nil
	}

	kind := value.KindOf(v)
	if !kind.IsContainer() {
		return v, nil
	}

	if id, ok := identity(v); ok {
		if n.onStack[id] {
			return nil, failure.Invalid("deepsort", "cyclic structure at %s", path)
		}
		n.onStack[id] = true
		defer delete(n.onStack, id)
	}

	switch kind {
	case value.AssociativeMap:
		var entries []Entry
		var err error
		walkErr := value.EachEntry(v, func(k, elem any) bool {
			var norm any
			norm, err = n.normalize(elem, path+"["+value.Export(k)+"]")
			entries = append(entries, Entry{Key: k, Value: norm})
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		if walkErr != nil {
			return v, nil
		}
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return value.CompareKeys(a.Key, b.Key)
		})
		return entries, nil

	case value.SetLike:
		members, err := sortedElements(v)
		if err != nil {
			return nil, err
		}
		return members, nil
	}

	if !value.IsKeyed(v) {
		return v, nil
	}
	out := make([]any, 0, value.Len(v))
	var err error
	walkErr := value.EachEntry(v, func(k, elem any) bool {
		var norm any
		norm, err = n.normalize(elem, path+"["+value.Export(k)+"]")
		out = append(out, norm)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	if walkErr != nil {
		return v, nil
	}
	return out, nil
}

func sortedElements(v any) ([]any, error) {
	var out []any
	if err := value.Each(v, func(elem any) bool {
		out = append(out, elem)
		return true
	}); err != nil {
		return nil, failure.Invalid("sameContent", "expected an iterable collection, got %s", value.TypeName(v))
	}
	slices.SortStableFunc(out, value.CompareKeys)
	return out, nil
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
