package value

import (
	"cmp"
	"strings"
)

// keyRank orders key categories: numbers first, then strings, then
// everything else.
func keyRank(k any) int {
	switch KindOf(k) {
	case Null:
		return 0
	case Int, Uint, Float:
		return 1
	case String:
		return 2
	case Bool:
		return 3
	default:
		return 4
	}
}

// CompareKeys is a deterministic total order over mixed key types. Numeric
// keys sort numerically among themselves, string keys lexically, and numeric
// keys precede string keys. Other keys fall back to their representation.
func CompareKeys(a, b any) int {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 0:
		return 0
	case 1:
		fa, _ := ToFloat64(a)
		fb, _ := ToFloat64(b)
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
		// 1 and 1.0 are distinct keys; keep them apart deterministically
		return strings.Compare(TypeName(a), TypeName(b))
	case 2:
		return strings.Compare(Indirect(a).String(), Indirect(b).String())
	case 3:
		ba, bb := Indirect(a).Bool(), Indirect(b).Bool()
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	}
	return strings.Compare(Repr(a), Repr(b))
}
