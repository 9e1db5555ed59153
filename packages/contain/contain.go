// Package contain answers "is needle in haystack" for strings, sets and any
// iterable container.
package contain

import (
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// fold normalizes s for case-insensitive comparison. Casers are stateful,
// so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Contains reports whether needle occurs in haystack.
//
// A string haystack is searched for a string needle as a substring. A set
// answers through its own membership test. Any other iterable is scanned in
// order: pointers, channels and funcs match by identity, everything else by
// value equality. caseInsensitive compares strings under Unicode case
// folding, so "STRASSE" is found in "straße".
func Contains(needle, haystack any, caseInsensitive bool) (bool, error) {
	kind := value.KindOf(haystack)

	if kind == value.String {
		if value.KindOf(needle) != value.String {
			return false, failure.Invalid("contains", "needle must be a string when the haystack is a string, got %s", value.TypeName(needle))
		}
		h, n := value.Indirect(haystack).String(), value.Indirect(needle).String()
		if caseInsensitive {
			h, n = fold(h), fold(n)
		}
		return strings.Contains(h, n), nil
	}

	if kind == value.SetLike && !caseInsensitive {
		return member(haystack, needle), nil
	}

	if !value.CanIterate(haystack) {
		return false, failure.Invalid("contains", "haystack must be a string or an iterable container, got %s", value.TypeName(haystack))
	}

	byIdentity := hasIdentity(needle)
	found := false
	err := value.Each(haystack, func(elem any) bool {
		switch {
		case byIdentity:
			found = equality.Identical(needle, elem)
		case caseInsensitive && bothStrings(needle, elem):
			found = fold(value.Indirect(needle).String()) == fold(value.Indirect(elem).String())
		default:
			found = equality.ValueEqual(needle, elem)
		}
		return !found
	})
	if err != nil {
		return false, failure.Invalid("contains", "%v", err)
	}
	return found, nil
}

// ContainsKey reports whether haystack has an entry for key: a map key, a
// sequence index, an exported struct field or a set member.
func ContainsKey(key, haystack any) (bool, error) {
	if value.KindOf(haystack) == value.SetLike {
		return member(haystack, key), nil
	}
	if value.IsNil(haystack) || !value.IsKeyed(haystack) {
		return false, failure.Invalid("containsKey", "haystack must be a keyed container, got %s", value.TypeName(haystack))
	}
	_, ok := value.Lookup(haystack, key)
	return ok, nil
}

func member(set, v any) bool {
	if m, ok := set.(value.Membership); ok {
		return m.Has(v)
	}
	_, ok := value.Lookup(set, v)
	return ok
}

func bothStrings(a, b any) bool {
	return value.KindOf(a) == value.String && value.KindOf(b) == value.String
}

func hasIdentity(v any) bool {
	if value.IsNil(v) {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}
