package value

import (
	"reflect"
	"strconv"
	"strings"
)

// ToFloat64 converts any numeric value, including named numeric types, to
// float64. Strings are not converted; see ParseNumeric.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case int32:
		return float64(n), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// ParseNumeric reports whether s holds a number, ignoring surrounding
// whitespace, and returns it.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Number returns v as a float64 when v is numeric or a numeric string.
func Number(v any) (float64, bool) {
	if f, ok := ToFloat64(v); ok {
		return f, true
	}
	if KindOf(v) == String {
		return ParseNumeric(Indirect(v).String())
	}
	return 0, false
}
