package equality

import (
	"cmp"
	"reflect"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// Compare orders a against b, returning -1, 0 or +1. Numbers compare across
// types (numeric strings included when the other side is a number), strings
// compare lexically and time.Time by instant. Types that declare
// Compare(T) int are asked directly. Anything else is not orderable.
func Compare(a, b any) (int, error) {
	ka, kb := value.KindOf(a), value.KindOf(b)

	if ka.IsNumeric() || kb.IsNumeric() {
		fa, okA := value.Number(a)
		fb, okB := value.Number(b)
		if okA && okB {
			if ka == value.Int && kb == value.Int {
				return cmp.Compare(value.Indirect(a).Int(), value.Indirect(b).Int()), nil
			}
			return cmp.Compare(fa, fb), nil
		}
	}

	if ka == value.String && kb == value.String {
		return strings.Compare(value.Indirect(a).String(), value.Indirect(b).String()), nil
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb), nil
		}
	}

	if n, ok := compareMethod(a, b); ok {
		return n, nil
	}

	return 0, failure.Invalid("compare", "cannot order %s against %s", value.TypeName(a), value.TypeName(b))
}

func compareMethod(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	m := reflect.ValueOf(a).MethodByName("Compare")
	if !m.IsValid() {
		return 0, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Int {
		return 0, false
	}
	if !reflect.TypeOf(b).AssignableTo(mt.In(0)) {
		return 0, false
	}
	return cmp.Compare(int(m.Call([]reflect.Value{reflect.ValueOf(b)})[0].Int()), 0), true
}
