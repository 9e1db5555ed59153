package value

import (
	"errors"
	"reflect"
	"sort"
)

// ErrNotIterable is returned when a value cannot be walked.
var ErrNotIterable = errors.New("value is not iterable")

// ErrNotKeyed is returned when a value has no key/value structure.
var ErrNotKeyed = errors.New("value is not a keyed container")

// Iterable is implemented by collections that can be walked once, forward
// only. Each stops as soon as fn returns false.
type Iterable interface {
	Each(fn func(v any) bool)
}

// KeyedLookup is implemented by collections that map keys to values.
type KeyedLookup interface {
	Lookup(key any) (any, bool)
	Keys() []any
}

// Membership is implemented by set-like collections with a native
// membership test.
type Membership interface {
	Has(v any) bool
}

// CanIterate reports whether Each accepts v.
func CanIterate(v any) bool {
	switch v.(type) {
	case Iterable, KeyedLookup:
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	case reflect.Chan:
		return rv.Type().ChanDir()&reflect.RecvDir != 0
	case reflect.Func:
		return isSeqFunc(rv.Type())
	}
	return false
}

// Each walks the elements of v in order and stops when fn returns false.
// Maps yield their values in key order, set-like maps yield their members.
// Channels are drained until closed and iter.Seq functions are driven
// directly, so single-pass sources are consumed exactly once.
func Each(v any, fn func(elem any) bool) error {
	switch c := v.(type) {
	case Iterable:
		c.Each(fn)
		return nil
	case KeyedLookup:
		for _, k := range c.Keys() {
			elem, _ := c.Lookup(k)
			if !fn(elem) {
				return nil
			}
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !fn(rv.Index(i).Interface()) {
				return nil
			}
		}
		return nil
	case reflect.Map:
		setLike := rv.Type().Elem() == emptyStruct
		for _, k := range SortedMapKeys(rv) {
			elem := k
			if !setLike {
				elem = rv.MapIndex(k)
			}
			if !fn(elem.Interface()) {
				return nil
			}
		}
		return nil
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			return ErrNotIterable
		}
		for {
			elem, ok := rv.Recv()
			if !ok || !fn(elem.Interface()) {
				return nil
			}
		}
	case reflect.Func:
		if !isSeqFunc(rv.Type()) || rv.IsNil() {
			return ErrNotIterable
		}
		yield := reflect.MakeFunc(rv.Type().In(0), func(args []reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.ValueOf(fn(args[0].Interface()))}
		})
		rv.Call([]reflect.Value{yield})
		return nil
	}
	return ErrNotIterable
}

// isSeqFunc matches the shape of iter.Seq[T]: func(yield func(T) bool).
func isSeqFunc(t reflect.Type) bool {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	y := t.In(0)
	return y.Kind() == reflect.Func && y.NumIn() == 1 && y.NumOut() == 1 && y.Out(0).Kind() == reflect.Bool
}

// IsKeyed reports whether EachEntry and Lookup accept v.
func IsKeyed(v any) bool {
	if _, ok := v.(KeyedLookup); ok {
		return true
	}
	rv := Indirect(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return true
	}
	return false
}

// EachEntry walks the key/value pairs of v: map entries in key order,
// sequence elements with their index, and exported struct fields by name.
func EachEntry(v any, fn func(key, elem any) bool) error {
	if kl, ok := v.(KeyedLookup); ok {
		for _, k := range kl.Keys() {
			elem, _ := kl.Lookup(k)
			if !fn(k, elem) {
				return nil
			}
		}
		return nil
	}

	rv := Indirect(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !fn(i, rv.Index(i).Interface()) {
				return nil
			}
		}
		return nil
	case reflect.Map:
		for _, k := range SortedMapKeys(rv) {
			if !fn(k.Interface(), rv.MapIndex(k).Interface()) {
				return nil
			}
		}
		return nil
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if !fn(t.Field(i).Name, rv.Field(i).Interface()) {
				return nil
			}
		}
		return nil
	}
	return ErrNotKeyed
}

// Lookup resolves key inside container. Missing keys, out of range indexes
// and unknown fields report false rather than an error.
func Lookup(container, key any) (any, bool) {
	if kl, ok := container.(KeyedLookup); ok {
		return kl.Lookup(key)
	}

	rv := Indirect(container)
	switch rv.Kind() {
	case reflect.Map:
		kv, ok := convertKey(key, rv.Type().Key())
		if !ok {
			return Absent, false
		}
		elem := rv.MapIndex(kv)
		if !elem.IsValid() {
			return Absent, false
		}
		if rv.Type().Elem() == emptyStruct {
			return kv.Interface(), true
		}
		return elem.Interface(), true
	case reflect.Slice, reflect.Array:
		f, ok := ToFloat64(key)
		if !ok || f != float64(int(f)) {
			return Absent, false
		}
		i := int(f)
		if i < 0 || i >= rv.Len() {
			return Absent, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		name, ok := key.(string)
		if !ok {
			return Absent, false
		}
		field, found := rv.Type().FieldByName(name)
		if !found || !field.IsExported() {
			return Absent, false
		}
		return rv.FieldByIndex(field.Index).Interface(), true
	}
	return Absent, false
}

// convertKey adapts key to the map key type so that an int key finds an
// int64 entry and a string finds a named string type.
func convertKey(key any, to reflect.Type) (reflect.Value, bool) {
	if key == nil {
		if to.Kind() == reflect.Interface {
			return reflect.Zero(to), true
		}
		return reflect.Value{}, false
	}
	kv := reflect.ValueOf(key)
	if !hashable(kv) {
		return reflect.Value{}, false
	}
	if kv.Type().AssignableTo(to) {
		return kv, true
	}
	if to.Kind() == reflect.Interface {
		return reflect.Value{}, false
	}
	fromKind, toKind := kindOfReflect(kv), kindOfReflect(reflect.Zero(to))
	if fromKind == toKind || (fromKind.IsNumeric() && toKind.IsNumeric()) {
		if kv.Type().ConvertibleTo(to) {
			converted := kv.Convert(to)
			// reject lossy numeric conversions such as 1.5 -> 1
			if f, ok := ToFloat64(key); ok {
				if g, _ := ToFloat64(converted.Interface()); g != f {
					return reflect.Value{}, false
				}
			}
			return converted, true
		}
	}
	return reflect.Value{}, false
}

// hashable reports whether v can be used as a map key at runtime. A
// comparable struct type may still hold a slice in an interface field.
func hashable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface:
		return v.IsNil() || hashable(v.Elem())
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !hashable(v.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !hashable(v.Index(i)) {
				return false
			}
		}
		return true
	}
	return v.Type().Comparable()
}

// SortedMapKeys returns the keys of a map value ordered by CompareKeys.
func SortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		return CompareKeys(keys[i].Interface(), keys[j].Interface()) < 0
	})
	return keys
}

// Len returns the number of elements in a container or characters in a
// string, or -1 when v has no length.
func Len(v any) int {
	if kl, ok := v.(KeyedLookup); ok {
		return len(kl.Keys())
	}
	rv := Indirect(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	}
	return -1
}
