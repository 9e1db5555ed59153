package expect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/snapshot"
	"github.com/abdul-hamid-achik/hitexpect/packages/sorted"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

type matcher struct {
	minArgs int
	maxArgs int // -1 for no limit
	run     func(e *Expectation, args []any) error
}

var matchers map[string]matcher

var aliases = map[string]string{
	"==":         "equals",
	"eq":         "equals",
	"!=":         "notEquals",
	">":          "gt",
	">=":         "gte",
	"<":          "lt",
	"<=":         "lte",
	"in":         "oneOf",
	"null":       "nil",
	"sorted":     "sortedAsc",
	"instanceOf": "type",
}

func init() {
	matchers = map[string]matcher{
		"equals":      {1, 1, func(e *Expectation, a []any) error { return e.ToEqual(a[0]) }},
		"same":        {1, 1, func(e *Expectation, a []any) error { return e.ToBeSame(a[0]) }},
		"withinDelta": {2, 2, withinDelta},
		"almostEqual": {1, 1, func(e *Expectation, a []any) error { return e.ToAlmostEqual(a[0]) }},
		"nanEqual":    {1, 1, func(e *Expectation, a []any) error { return e.ToEqualWithNaNEqual(a[0]) }},
		"gt":          {1, 1, func(e *Expectation, a []any) error { return e.ToBeGreaterThan(a[0]) }},
		"gte":         {1, 1, func(e *Expectation, a []any) error { return e.ToBeGreaterThanOrEqualTo(a[0]) }},
		"lt":          {1, 1, func(e *Expectation, a []any) error { return e.ToBeLessThan(a[0]) }},
		"lte":         {1, 1, func(e *Expectation, a []any) error { return e.ToBeLessThanOrEqualTo(a[0]) }},
		"true":        {0, 0, func(e *Expectation, _ []any) error { return e.ToBeTrue() }},
		"false":       {0, 0, func(e *Expectation, _ []any) error { return e.ToBeFalse() }},
		"nil":         {0, 0, func(e *Expectation, _ []any) error { return e.ToBeNil() }},
		"empty":       {0, 0, func(e *Expectation, _ []any) error { return e.ToBeEmpty() }},
		"exists":      {0, 0, func(e *Expectation, _ []any) error { return e.ToExist() }},
		"type":        {1, 1, stringArg("type", (*Expectation).ToBeType)},
		"matches":     {1, 1, stringArg("matches", (*Expectation).ToMatchRegExp)},
		"startsWith":  {1, 1, stringArg("startsWith", (*Expectation).ToStartWith)},
		"endsWith":    {1, 1, stringArg("endsWith", (*Expectation).ToEndWith)},
		"equalURI":    {1, 1, stringArg("equalURI", (*Expectation).ToEqualURI)},
		"length":      {1, 1, hasLength},
		"contains":    {1, 1, func(e *Expectation, a []any) error { return e.ToContain(a[0]) }},
		"containsIgnoringCase": {1, 1, func(e *Expectation, a []any) error {
			return e.ToContainIgnoringCase(a[0])
		}},
		"containsKey": {1, 1, func(e *Expectation, a []any) error { return e.ToContainKey(a[0]) }},
		"oneOf":       {1, 1, func(e *Expectation, a []any) error { return e.ToBeOneOf(a[0]) }},
		"include":     {1, 1, func(e *Expectation, a []any) error { return e.ToInclude(a[0]) }},
		"sameShape":   {1, 1, func(e *Expectation, a []any) error { return e.ToHaveSameShapeAs(a[0]) }},
		"sameContent": {1, 1, func(e *Expectation, a []any) error { return e.ToHaveSameContentAs(a[0]) }},
		"sortedAsc":   {0, 0, func(e *Expectation, _ []any) error { return e.ToBeSortedBy(sorted.Ascending) }},
		"sortedDesc":  {0, 0, func(e *Expectation, _ []any) error { return e.ToBeSortedBy(sorted.Descending) }},
		"sortedByKey": {1, 1, sortedByKey},
		"schema":      {1, 1, func(e *Expectation, a []any) error { return e.ToMatchSchema(a[0]) }},
		"jsonPath":    {1, 2, jsonPath},
		"snapshot":    {0, 1, snapshotMatcher},
		"throws":      {0, 2, throwsMatcher},
		"throwsCoded": {1, 3, throwsCodedMatcher},
		"each":        {1, -1, eachMatcher},
		"calledOnce":  {0, 0, func(e *Expectation, _ []any) error { return e.Calls().WasCalledOnce() }},
		"calledTwice": {0, 0, func(e *Expectation, _ []any) error { return e.Calls().WasCalledTwice() }},
		"calledTimes": {1, 1, calledTimes},
		"notCalled":   {0, 0, func(e *Expectation, _ []any) error { return e.Calls().WasNotCalled() }},
		"calledOnceWith": {0, -1, func(e *Expectation, a []any) error {
			return e.Calls().WasCalledOnceWith(a...)
		}},
		"calledLastWith": {0, -1, func(e *Expectation, a []any) error {
			return e.Calls().WasCalledLastWith(a...)
		}},
	}
}

// Dispatch runs the matcher registered under name against subject. A
// "not" prefix ("notEquals" or "not equals") negates the matcher. Unknown
// names and wrong argument counts are a *failure.InvalidArgument.
func Dispatch(name string, subject any, args []any, opts ...Option) error {
	e := That(subject, opts...)
	return e.dispatch(name, args)
}

// Names lists the matcher names Dispatch accepts, without aliases.
func Names() []string {
	names := make([]string, 0, len(matchers))
	for name := range matchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether Dispatch accepts name.
func Known(name string) bool {
	_, _, ok := resolve(name)
	return ok
}

// CheckArgs reports, without running anything, whether Dispatch would
// accept name with nargs arguments.
func CheckArgs(name string, nargs int) error {
	m, _, ok := resolve(name)
	if !ok {
		return failure.Invalid("dispatch", "unknown matcher %q", name)
	}
	if nargs < m.minArgs || (m.maxArgs >= 0 && nargs > m.maxArgs) {
		return failure.Invalid(name, "%s", arity(m, nargs))
	}
	return nil
}

func (e *Expectation) dispatch(name string, args []any) error {
	m, negated, ok := resolve(name)
	if !ok {
		return e.misuse("dispatch", "unknown matcher %q", name)
	}
	if len(args) < m.minArgs || (m.maxArgs >= 0 && len(args) > m.maxArgs) {
		return e.misuse(name, "%s", arity(m, len(args)))
	}
	if negated {
		e = e.Not()
	}
	return m.run(e, args)
}

func resolve(name string) (matcher, bool, bool) {
	name = strings.TrimSpace(name)
	if target, ok := aliases[name]; ok {
		name = target
	}
	if m, ok := matchers[name]; ok {
		return m, false, true
	}

	var rest string
	switch {
	case strings.HasPrefix(name, "not "):
		rest = strings.TrimSpace(name[len("not "):])
	case strings.HasPrefix(name, "!"):
		rest = name[1:]
	case len(name) > 3 && strings.HasPrefix(name, "not"):
		r, size := utf8.DecodeRuneInString(name[3:])
		if !unicode.IsUpper(r) {
			return matcher{}, false, false
		}
		rest = string(unicode.ToLower(r)) + name[3+size:]
	default:
		return matcher{}, false, false
	}
	if target, ok := aliases[rest]; ok {
		rest = target
	}
	m, ok := matchers[rest]
	return m, true, ok
}

func arity(m matcher, got int) string {
	switch {
	case m.minArgs == m.maxArgs:
		return fmt.Sprintf("expects %d argument(s), got %d", m.minArgs, got)
	case m.maxArgs < 0:
		return fmt.Sprintf("expects at least %d argument(s), got %d", m.minArgs, got)
	}
	return fmt.Sprintf("expects %d to %d arguments, got %d", m.minArgs, m.maxArgs, got)
}

// misuse reports a dispatch error that happens before any matcher runs.
func (e *Expectation) misuse(op, format string, args ...any) error {
	err := failure.Invalid(op, format, args...)
	report(e.cfg.t, err)
	return err
}

func stringArg(name string, fn func(*Expectation, string) error) func(*Expectation, []any) error {
	return func(e *Expectation, a []any) error {
		s, ok := a[0].(string)
		if !ok {
			return e.misuse(name, "argument must be a string, got %s", value.TypeName(a[0]))
		}
		return fn(e, s)
	}
}

func intArg(v any) (int, bool) {
	f, ok := value.Number(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func withinDelta(e *Expectation, a []any) error {
	delta, ok := value.Number(a[1])
	if !ok {
		return e.misuse("withinDelta", "delta must be a number, got %s", value.TypeName(a[1]))
	}
	return e.ToEqualWithDelta(a[0], delta)
}

func hasLength(e *Expectation, a []any) error {
	n, ok := intArg(a[0])
	if !ok {
		return e.misuse("length", "length must be an integer, got %s", value.Export(a[0]))
	}
	return e.ToHaveLength(n)
}

func calledTimes(e *Expectation, a []any) error {
	n, ok := intArg(a[0])
	if !ok {
		return e.misuse("calledTimes", "count must be an integer, got %s", value.Export(a[0]))
	}
	return e.Calls().WasCalledNTimes(n)
}

// sortedByKey orders elements by the value each holds under a key, index
// or field name.
func sortedByKey(e *Expectation, a []any) error {
	key := a[0]
	return e.ToBeSortedByKey(func(elem any) any {
		v, _ := value.Lookup(elem, key)
		return v
	})
}

func jsonPath(e *Expectation, a []any) error {
	path, ok := a[0].(string)
	if !ok {
		return e.misuse("jsonPath", "path must be a string, got %s", value.TypeName(a[0]))
	}
	return e.ToHaveJSONPath(path, a[1:]...)
}

// snapshotMatcher takes an optional snapshot name that qualifies the id
// given to WithSnapshots, so one check can hold several snapshots.
func snapshotMatcher(e *Expectation, a []any) error {
	id := e.cfg.snapshotID
	if len(a) == 1 {
		name, ok := a[0].(string)
		if !ok {
			return e.misuse("snapshot", "snapshot name must be a string, got %s", value.TypeName(a[0]))
		}
		id = snapshot.Key(id, name, e.actual)
	}
	return e.run("toMatchSnapshot", func() error {
		return matchSnapshot(e.cfg, id, e.actual)
	})
}

// throwsMatcher takes an optional error type name and an optional message
// substring.
func throwsMatcher(e *Expectation, a []any) error {
	var target any
	var subs []string
	for i, arg := range a {
		s, ok := arg.(string)
		if !ok && arg != nil {
			return e.misuse("throws", "argument %d must be a string, got %s", i, value.TypeName(arg))
		}
		switch {
		case i == 0 && s != "":
			target = s
		case i == 1:
			subs = append(subs, s)
		}
	}
	return e.ToThrow(target, subs...)
}

// throwsCodedMatcher takes an error code, an optional API code (nil to
// skip) and optional error data.
func throwsCodedMatcher(e *Expectation, a []any) error {
	code, ok := intArg(a[0])
	if !ok {
		return e.misuse("throwsCoded", "error code must be an integer, got %s", value.Export(a[0]))
	}
	var opts []CodeOption
	if len(a) > 1 && a[1] != nil {
		apiCode, ok := intArg(a[1])
		if !ok {
			return e.misuse("throwsCoded", "api code must be an integer, got %s", value.Export(a[1]))
		}
		opts = append(opts, WithAPICode(apiCode))
	}
	if len(a) > 2 {
		opts = append(opts, WithErrorData(a[2]))
	}
	return e.ToThrowCodedError(code, opts...)
}

// eachMatcher applies the matcher named by the first argument to every
// element of the subject and stops at the first element that fails.
func eachMatcher(e *Expectation, a []any) error {
	name, ok := a[0].(string)
	if !ok {
		return e.misuse("each", "matcher name must be a string, got %s", value.TypeName(a[0]))
	}
	rest := a[1:]
	inner := *e.cfg
	inner.t = nil
	inner.message = ""

	return e.run("each", func() error {
		if !value.CanIterate(e.actual) {
			return failure.Invalid("each", "only applies to iterable collections, not %s", value.TypeName(e.actual))
		}
		var result error
		i := 0
		err := value.Each(e.actual, func(elem any) bool {
			el := &Expectation{actual: elem, cfg: &inner}
			if err := el.dispatch(name, rest); err != nil {
				var f *failure.Failure
				if errors.As(err, &f) {
					result = e.fail("Element %d: %s", []any{i, f.Message})
				} else {
					result = err
				}
				return false
			}
			i++
			return true
		})
		if err != nil {
			return failure.Invalid("each", "%v", err)
		}
		return result
	})
}
