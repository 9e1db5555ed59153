package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/davecgh/go-spew/spew"
)

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
	MaxDepth:                10,
}

// Repr renders v for failure messages. The output is stable across runs and
// keeps loosely equal values apart: the string "1" renders as "1" with
// quotes, the int 1 as 1 and the float 1.0 as 1.0.
func Repr(v any) string {
	if v == nil {
		return "nil"
	}
	if v == Absent {
		return "<absent>"
	}

	rv := reflect.ValueOf(v)
	t := rv.Type()
	named := t.PkgPath() != ""
	wrap := func(s string) string {
		if named {
			return fmt.Sprintf("%s(%s)", t.String(), s)
		}
		return s
	}

	switch rv.Kind() {
	case reflect.Bool:
		return wrap(strconv.FormatBool(rv.Bool()))
	case reflect.String:
		return wrap(strconv.Quote(rv.String()))
	case reflect.Int:
		return wrap(strconv.FormatInt(rv.Int(), 10))
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%s(%d)", t.String(), rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fmt.Sprintf("%s(%d)", t.String(), rv.Uint())
	case reflect.Float64:
		return wrap(formatFloat(rv.Float(), 64))
	case reflect.Float32:
		return fmt.Sprintf("%s(%s)", t.String(), formatFloat(rv.Float(), 32))
	case reflect.Func:
		if rv.IsNil() {
			return fmt.Sprintf("%s(nil)", t.String())
		}
		return fmt.Sprintf("%s{...}", t.String())
	case reflect.Chan:
		return fmt.Sprintf("%s(len=%d)", t.String(), rv.Len())
	}

	return strings.TrimRight(spewConfig.Sdump(v), "\n")
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Export renders v compactly on one line, for places where Repr would be too
// verbose such as subset paths and sortedness reports. Whitespace inside
// quoted strings is kept as is.
func Export(v any) string {
	r := Repr(v)
	if !strings.Contains(r, "\n") {
		return r
	}

	var buf strings.Builder
	buf.Grow(len(r))
	inQuote, escaped, pendingSpace := false, false, false
	for _, c := range r {
		if inQuote {
			buf.WriteRune(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuote = false
			}
			continue
		}
		if unicode.IsSpace(c) {
			pendingSpace = buf.Len() > 0
			continue
		}
		if pendingSpace {
			buf.WriteByte(' ')
			pendingSpace = false
		}
		if c == '"' {
			inQuote = true
		}
		buf.WriteRune(c)
	}
	return buf.String()
}
