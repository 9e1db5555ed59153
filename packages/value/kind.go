package value

import "reflect"

// Kind is the runtime category of a value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Uint
	Float
	String
	OrderedSequence
	AssociativeMap
	SetLike
	Object
	Callable
	Channel
)

var kindNames = map[Kind]string{
	Null:            "null",
	Bool:            "bool",
	Int:             "int",
	Uint:            "uint",
	Float:           "float",
	String:          "string",
	OrderedSequence: "ordered-sequence",
	AssociativeMap:  "associative-map",
	SetLike:         "set",
	Object:          "object",
	Callable:        "callable",
	Channel:         "chan",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsNumeric reports whether the kind holds a number.
func (k Kind) IsNumeric() bool {
	return k == Int || k == Uint || k == Float
}

// IsScalar reports whether the kind is a bool, number or string.
func (k Kind) IsScalar() bool {
	return k == Bool || k == String || k.IsNumeric()
}

// IsContainer reports whether the kind holds other values.
func (k Kind) IsContainer() bool {
	return k == OrderedSequence || k == AssociativeMap || k == SetLike
}

type absentValue struct{}

func (absentValue) String() string { return "<absent>" }

// Absent marks a slot that does not exist in a container or object. It
// compares equal to nil.
var Absent any = absentValue{}

var emptyStruct = reflect.TypeOf(struct{}{})

// KindOf computes the Kind of v. Capabilities win over the reflected kind so
// custom collections classify by what they can do.
func KindOf(v any) Kind {
	if v == nil || v == Absent {
		return Null
	}
	switch v.(type) {
	case Membership:
		return SetLike
	case KeyedLookup:
		return AssociativeMap
	case Iterable:
		return OrderedSequence
	}
	return kindOfReflect(reflect.ValueOf(v))
}

func kindOfReflect(rv reflect.Value) Kind {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint
	case reflect.Float32, reflect.Float64:
		return Float
	case reflect.String:
		return String
	case reflect.Slice, reflect.Array:
		return OrderedSequence
	case reflect.Map:
		if rv.Type().Elem() == emptyStruct {
			return SetLike
		}
		return AssociativeMap
	case reflect.Func:
		if rv.IsNil() {
			return Null
		}
		return Callable
	case reflect.Chan:
		return Channel
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
		return Object
	default:
		return Object
	}
}

// IsNil reports whether v is nil, Absent, or a typed nil pointer, func,
// interface, map, slice or channel.
func IsNil(v any) bool {
	if v == nil || v == Absent {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// IsReference reports whether v has identity semantics: pointers, maps,
// slices, channels and funcs. Identity comparisons use the address rather
// than the content for these.
func IsReference(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

// TypeName returns the dynamic type of v for messages.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	if v == Absent {
		return "absent"
	}
	return reflect.TypeOf(v).String()
}

// Indirect follows pointers and interfaces until it reaches a non-pointer
// value. Nil pointers yield an invalid reflect.Value.
func Indirect(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
