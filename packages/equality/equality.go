package equality

import (
	"fmt"
	"math"
	"reflect"

	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// Identical reports whether a and b are the same instance. Primitives must
// match in both type and value.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	return identicalValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

// identicalValue compares values of the same type. Reference kinds compare
// by address and composite values compare part by part.
func identicalValue(ra, rb reflect.Value) bool {
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		// zero-length slices may share the runtime's zero-size allocation
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Interface:
		if ra.IsNil() || rb.IsNil() {
			return ra.IsNil() && rb.IsNil()
		}
		ea, eb := ra.Elem(), rb.Elem()
		return ea.Type() == eb.Type() && identicalValue(ea, eb)
	case reflect.Struct:
		for i := 0; i < ra.NumField(); i++ {
			if !identicalValue(ra.Field(i), rb.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < ra.Len(); i++ {
			if !identicalValue(ra.Index(i), rb.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Bool:
		return ra.Bool() == rb.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ra.Int() == rb.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ra.Uint() == rb.Uint()
	case reflect.Float32, reflect.Float64:
		return ra.Float() == rb.Float()
	case reflect.Complex64, reflect.Complex128:
		return ra.Complex() == rb.Complex()
	case reflect.String:
		return ra.String() == rb.String()
	}
	return false
}

// ValueEqual reports whether a and b are equal in value.
func ValueEqual(a, b any) bool {
	return newComparer(false, -1).equal(a, b)
}

// NaNEqual is ValueEqual except that two NaN operands compare equal.
func NaNEqual(a, b any) bool {
	return newComparer(true, -1).equal(a, b)
}

// EqualWithDelta is ValueEqual with every pair of numeric leaves compared by
// WithinDelta instead of exact equality.
func EqualWithDelta(expected, actual any, delta float64) bool {
	return newComparer(false, math.Abs(delta)).equal(expected, actual)
}

// AlmostEqual is NaNEqual with a numeric tolerance.
func AlmostEqual(expected, actual any, delta float64) bool {
	return newComparer(true, math.Abs(delta)).equal(expected, actual)
}

// WithinDelta reports whether actual lies in the closed interval
// [expected-delta, expected+delta].
func WithinDelta(expected, actual, delta float64) bool {
	if math.IsNaN(expected) || math.IsNaN(actual) || math.IsNaN(delta) {
		return false
	}
	delta = math.Abs(delta)
	return actual >= expected-delta && actual <= expected+delta
}

type visit struct {
	a, b   uintptr
	la, lb int
	typ    reflect.Type
}

type comparer struct {
	nanEqual bool
	delta    float64 // negative means exact
	visited  map[visit]bool
}

func newComparer(nanEqual bool, delta float64) *comparer {
	return &comparer{nanEqual: nanEqual, delta: delta, visited: make(map[visit]bool)}
}

func (c *comparer) equal(a, b any) bool {
	if a == value.Absent {
		a = nil
	}
	if b == value.Absent {
		b = nil
	}
	if value.IsNil(a) || value.IsNil(b) {
		return value.IsNil(a) && value.IsNil(b)
	}

	ka, kb := value.KindOf(a), value.KindOf(b)
	switch {
	case ka.IsNumeric() || kb.IsNumeric():
		return c.numbers(a, b, ka, kb)
	case ka == value.String && kb == value.String:
		return value.Indirect(a).String() == value.Indirect(b).String()
	case ka == value.Bool && kb == value.Bool:
		return value.Indirect(a).Bool() == value.Indirect(b).Bool()
	case ka != kb:
		return stringForm(a, b)
	}

	if c.seen(a, b) {
		return true
	}

	switch ka {
	case value.OrderedSequence:
		return c.sequences(a, b)
	case value.AssociativeMap:
		return c.maps(a, b)
	case value.SetLike:
		return c.sets(a, b)
	case value.Object:
		return c.objects(a, b)
	}
	return Identical(a, b)
}

// seen records reference pairs so that cyclic structures terminate. A pair
// already under comparison is assumed equal, as reflect.DeepEqual does.
func (c *comparer) seen(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
	default:
		return false
	}
	if rb.Kind() != ra.Kind() {
		return false
	}
	v := visit{a: ra.Pointer(), b: rb.Pointer(), typ: ra.Type()}
	if ra.Kind() == reflect.Slice {
		// subslices of one array share a data pointer
		v.la, v.lb = ra.Len(), rb.Len()
	}
	if c.visited[v] {
		return true
	}
	c.visited[v] = true
	return false
}

func (c *comparer) numbers(a, b any, ka, kb value.Kind) bool {
	if ka == value.Int && kb == value.Int && c.delta < 0 {
		return value.Indirect(a).Int() == value.Indirect(b).Int()
	}
	if ka == value.Uint && kb == value.Uint && c.delta < 0 {
		return value.Indirect(a).Uint() == value.Indirect(b).Uint()
	}

	fa, okA := value.Number(a)
	fb, okB := value.Number(b)
	if !okA || !okB {
		return false
	}
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return c.nanEqual && math.IsNaN(fa) && math.IsNaN(fb)
	}
	if c.delta >= 0 {
		return WithinDelta(fa, fb, c.delta)
	}
	return fa == fb
}

func (c *comparer) sequences(a, b any) bool {
	ea, errA := collect(a)
	eb, errB := collect(b)
	if errA != nil || errB != nil || len(ea) != len(eb) {
		return false
	}
	for i := range ea {
		if !c.equal(ea[i], eb[i]) {
			return false
		}
	}
	return true
}

func (c *comparer) maps(a, b any) bool {
	if value.Len(a) != value.Len(b) {
		return false
	}
	equal := true
	err := value.EachEntry(a, func(k, va any) bool {
		vb, ok := value.Lookup(b, k)
		if !ok || !c.equal(va, vb) {
			equal = false
		}
		return equal
	})
	return err == nil && equal
}

func (c *comparer) sets(a, b any) bool {
	ma, errA := collect(a)
	mb, errB := collect(b)
	if errA != nil || errB != nil || len(ma) != len(mb) {
		return false
	}
	for _, m := range ma {
		if !memberOf(b, m) {
			return false
		}
	}
	return true
}

func memberOf(set, m any) bool {
	if s, ok := set.(value.Membership); ok {
		return s.Has(m)
	}
	_, ok := value.Lookup(set, m)
	return ok
}

func (c *comparer) objects(a, b any) bool {
	if eq, ok := equalMethod(a, b); ok {
		return eq
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return stringForm(a, b)
	}

	if ra.Kind() == reflect.Pointer || ra.Kind() == reflect.Interface {
		return c.equal(ra.Elem().Interface(), rb.Elem().Interface())
	}
	if ra.Kind() != reflect.Struct {
		return reflect.DeepEqual(a, b)
	}

	hasHidden := false
	for i := 0; i < ra.NumField(); i++ {
		if !ra.Type().Field(i).IsExported() {
			hasHidden = true
			continue
		}
		if !c.equal(ra.Field(i).Interface(), rb.Field(i).Interface()) {
			return false
		}
	}
	if hasHidden {
		return reflect.DeepEqual(a, b) || value.Repr(a) == value.Repr(b)
	}
	return true
}

// equalMethod calls a.Equal(b) when a's type declares Equal(T) bool for b's
// type, so values such as time.Time compare by meaning.
func equalMethod(a, b any) (bool, bool) {
	m := reflect.ValueOf(a).MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool {
		return false, false
	}
	if !reflect.TypeOf(b).AssignableTo(mt.In(0)) {
		return false, false
	}
	return m.Call([]reflect.Value{reflect.ValueOf(b)})[0].Bool(), true
}

// stringForm compares values of unrelated types through their canonical
// string representation when both have one.
func stringForm(a, b any) bool {
	sa, okA := canonicalString(a)
	sb, okB := canonicalString(b)
	return okA && okB && sa == sb
}

func canonicalString(v any) (string, bool) {
	switch s := v.(type) {
	case error:
		return s.Error(), true
	case fmt.Stringer:
		return s.String(), true
	}
	if value.KindOf(v) == value.String {
		return value.Indirect(v).String(), true
	}
	return "", false
}

func collect(v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	var out []any
	err := value.Each(v, func(e any) bool {
		out = append(out, e)
		return true
	})
	return out, err
}
