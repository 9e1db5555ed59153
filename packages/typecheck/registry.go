// Package typecheck maps type-name tokens such as "int" or "vec" to
// predicates over arbitrary values.
package typecheck

import (
	"reflect"
	"sort"
	"sync"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// Predicate reports whether a value belongs to a type category. Predicates
// never panic.
type Predicate func(v any) bool

// Registry is an immutable token -> predicate table.
type Registry struct {
	predicates map[string]Predicate
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(nil)
	})
	return defaultRegistry
}

// NewRegistry builds a registry with the built-in tokens plus extra. Extra
// entries cannot replace built-in tokens.
func NewRegistry(extra map[string]Predicate) *Registry {
	r := &Registry{predicates: builtins()}
	for token, pred := range extra {
		if _, exists := r.predicates[token]; !exists && pred != nil {
			r.predicates[token] = pred
		}
	}
	return r
}

// IsRecognized reports whether token names a type category. Callers use it
// to tell a type check apart from a class or interface check.
func (r *Registry) IsRecognized(token string) bool {
	_, ok := r.predicates[token]
	return ok
}

// Predicate returns the predicate for token.
func (r *Registry) Predicate(token string) (Predicate, error) {
	pred, ok := r.predicates[token]
	if !ok {
		return nil, failure.Invalid("type", "unrecognized type token %q", token)
	}
	return pred, nil
}

// Tokens lists the recognized tokens in sorted order.
func (r *Registry) Tokens() []string {
	tokens := make([]string, 0, len(r.predicates))
	for token := range r.predicates {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Check applies the predicate for token to v.
func (r *Registry) Check(token string, v any) (bool, error) {
	pred, err := r.Predicate(token)
	if err != nil {
		return false, err
	}
	return pred(v), nil
}

func kindIs(kinds ...value.Kind) Predicate {
	return func(v any) bool {
		k := value.KindOf(v)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func builtins() map[string]Predicate {
	isInt := kindIs(value.Int, value.Uint)
	isFloat := kindIs(value.Float)
	isString := kindIs(value.String)
	isBool := kindIs(value.Bool)
	isNull := func(v any) bool { return value.IsNil(v) }
	isSeq := func(v any) bool {
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
	}
	isMap := kindIs(value.AssociativeMap)
	isSet := kindIs(value.SetLike)
	isCallable := kindIs(value.Callable)

	return map[string]Predicate{
		"int":     isInt,
		"integer": isInt,
		"float":   isFloat,
		"double":  isFloat,
		"real":    isFloat,
		"numeric": func(v any) bool {
			_, ok := value.Number(v)
			return ok
		},
		"string":  isString,
		"bool":    isBool,
		"boolean": isBool,
		"null":    isNull,
		"nil":     isNull,
		"scalar":  func(v any) bool { return value.KindOf(v).IsScalar() },

		"callable": isCallable,
		"func":     isCallable,
		"iterable": value.CanIterate,

		"array":              isSeq,
		"slice":              isSeq,
		"ordered-sequence":   isSeq,
		"map":                isMap,
		"associative-map":    isMap,
		"set":                isSet,
		"set-like":           isSet,
		"set-like-container": isSet,

		"object": kindIs(value.Object),
		"struct": func(v any) bool { return value.Indirect(v).Kind() == reflect.Struct },

		// modern container shapes: index-ordered, key-ordered, unique-element
		"vec":    func(v any) bool { return reflect.ValueOf(v).Kind() == reflect.Slice },
		"dict":   isMap,
		"keyset": isSet,

		"error": func(v any) bool {
			return v != nil && reflect.TypeOf(v).Implements(errorType)
		},
		"chan": kindIs(value.Channel),
	}
}
