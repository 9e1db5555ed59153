package expect

import (
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/snapshot"
	"github.com/abdul-hamid-achik/hitexpect/packages/spy"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	users := []any{
		map[string]any{"name": "ada", "age": 36},
		map[string]any{"name": "grace", "age": 45},
	}

	tests := []struct {
		name    string
		matcher string
		subject any
		args    []any
		pass    bool
	}{
		{"equals", "equals", 1, []any{1.0}, true},
		{"equals alias", "==", "a", []any{"a"}, true},
		{"equals fails", "equals", 1, []any{2}, false},
		{"not equals", "notEquals", 1, []any{2}, true},
		{"not with space", "not equals", 1, []any{1}, false},
		{"bang", "!equals", 1, []any{2}, true},
		{"not-equal alias", "!=", 1, []any{2}, true},
		{"same", "same", "x", []any{"x"}, true},
		{"gt", "gt", 3, []any{2}, true},
		{"gte symbol", ">=", 2, []any{2}, true},
		{"lt", "<", 1, []any{2}, true},
		{"lte fails", "lte", 3, []any{2}, false},
		{"true", "true", true, nil, true},
		{"false", "false", true, nil, false},
		{"null", "null", nil, nil, true},
		{"not null", "notNull", 1, nil, true},
		{"empty", "empty", []int{}, nil, true},
		{"not empty", "notEmpty", []int{1}, nil, true},
		{"exists", "exists", value.Absent, nil, false},
		{"type", "type", 5, []any{"int"}, true},
		{"matches", "matches", "abc", []any{"^a"}, true},
		{"startsWith", "startsWith", "abc", []any{"ab"}, true},
		{"endsWith", "endsWith", "abc", []any{"bc"}, true},
		{"length", "length", "abc", []any{3}, true},
		{"length float", "length", []int{1, 2}, []any{2.0}, true},
		{"contains", "contains", []string{"a", "b"}, []any{"b"}, true},
		{"not contains", "notContains", []string{"a"}, []any{"admin"}, true},
		{"containsIgnoringCase", "containsIgnoringCase", "Hello", []any{"HELLO"}, true},
		{"containsKey", "containsKey", map[string]int{"a": 1}, []any{"a"}, true},
		{"in", "in", 2, []any{[]int{1, 2}}, true},
		{"oneOf", "oneOf", 3, []any{[]int{1, 2}}, false},
		{"include", "include", map[string]any{"a": 1, "b": 2}, []any{map[string]any{"a": 1}}, true},
		{"sameShape", "sameShape", map[string]int{"a": 1}, []any{map[string]int{"a": 1}}, true},
		{"sameContent", "sameContent", []int{2, 1}, []any{[]int{1, 2}}, true},
		{"withinDelta", "withinDelta", 1.05, []any{1.0, 0.1}, true},
		{"almostEqual", "almostEqual", 1.00000001, []any{1.0}, true},
		{"sortedAsc", "sortedAsc", []int{1, 2, 3}, nil, true},
		{"sortedAsc fails", "sortedAsc", []int{2, 1}, nil, false},
		{"sortedDesc", "sortedDesc", []string{"c", "b", "a"}, nil, true},
		{"sortedByKey", "sortedByKey", users, []any{"age"}, true},
		{"sortedByKey name", "sortedByKey", users, []any{"name"}, true},
		{"equalURI", "equalURI", "http://a.com:80", []any{"http://a.com/"}, true},
		{"schema", "schema", map[string]any{"a": 1}, []any{`{"type": "object"}`}, true},
		{"jsonPath", "jsonPath", `{"a": {"b": 1}}`, []any{"a.b", 1}, true},
		{"jsonPath missing", "jsonPath", `{"a": 1}`, []any{"b"}, false},
		{"each", "each", []int{2, 4}, []any{"gt", 1}, true},
		{"each fails", "each", []int{2, 0}, []any{"gt", 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Dispatch(tt.matcher, tt.subject, tt.args)
			if tt.pass {
				assert.NoError(t, err)
			} else {
				assert.True(t, failure.IsFailure(err), "got %v", err)
			}
		})
	}
}

func TestDispatch_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		matcher string
		subject any
		args    []any
	}{
		{"unknown", "frobnicate", 1, nil},
		{"unknown negated", "notFrobnicate", 1, nil},
		{"lowercase after not", "nothing", 1, nil},
		{"too few", "equals", 1, nil},
		{"too many", "true", true, []any{1}},
		{"non-string pattern", "matches", "a", []any{1}},
		{"non-integer length", "length", "a", []any{1.5}},
		{"non-numeric delta", "withinDelta", 1, []any{1, "x"}},
		{"each without iterable", "each", 5, []any{"gt", 1}},
		{"each unknown matcher", "each", []int{1}, []any{"bogus"}},
		{"negation keeps misuse", "notType", 1, []any{"bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Dispatch(tt.matcher, tt.subject, tt.args)
			assert.True(t, failure.IsInvalid(err), "got %v", err)
		})
	}
}

func TestDispatch_EachReportsElement(t *testing.T) {
	f := failureOf(t, Dispatch("each", []int{2, 0}, []any{"gt", 1}))
	assert.Equal(t, "Element 1: Failed asserting that 0 is greater than 1.", f.Message)
}

func TestDispatch_WithOptions(t *testing.T) {
	f := failureOf(t, Dispatch("equals", 1, []any{2}, WithMessage("check %s", "one")))
	assert.Contains(t, f.Message, "check one\n")

	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "d.snap.json"))
	assert.NoError(t, Dispatch("snapshot", map[string]int{"a": 1}, nil, WithSnapshots(store, "check")))
	assert.NoError(t, Dispatch("snapshot", "second", []any{"named"}, WithSnapshots(store, "check")))
	assert.Error(t, Dispatch("snapshot", map[string]int{"a": 2}, nil, WithSnapshots(store, "check")))

	ids, err := idsOf(store)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"check", "check::named"}, ids)
}

func idsOf(store *snapshot.FileStore) ([]string, error) {
	var ids []string
	for _, id := range []string{"check", "check::named"} {
		_, ok, err := store.Load(id)
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func TestDispatch_CallMatchers(t *testing.T) {
	r := spy.NewRecorder()
	r.Record("save", "ada")
	r.Record("save", "grace")

	assert.NoError(t, Dispatch("calledTwice", "save", nil, WithCalls(r)))
	assert.NoError(t, Dispatch("calledTimes", "save", []any{2}, WithCalls(r)))
	assert.NoError(t, Dispatch("calledLastWith", "save", []any{"grace"}, WithCalls(r)))
	assert.NoError(t, Dispatch("notCalled", "load", nil, WithCalls(r)))
	assert.NoError(t, Dispatch("notCalledOnce", "save", nil, WithCalls(r)))
	assert.True(t, failure.IsInvalid(Dispatch("calledOnce", "save", nil)))
}

func TestDispatch_Throws(t *testing.T) {
	fn := func() error { return &validationError{Field: "name"} }

	assert.NoError(t, Dispatch("throws", fn, nil))
	assert.NoError(t, Dispatch("throws", fn, []any{"validationError", "name"}))
	assert.NoError(t, Dispatch("throws", fn, []any{"", "invalid"}))
	assert.Error(t, Dispatch("throws", fn, []any{"PathError"}))
	assert.True(t, failure.IsInvalid(Dispatch("throws", fn, []any{1})))
}

func TestDispatch_ThrowsCoded(t *testing.T) {
	fn := func() error { return &quotaError{code: 429, apiCode: 7, data: map[string]any{"limit": 10}} }

	assert.NoError(t, Dispatch("throwsCoded", fn, []any{429}))
	assert.NoError(t, Dispatch("throwsCoded", fn, []any{429.0, nil, map[string]any{"limit": 10}}))
	assert.NoError(t, Dispatch("throwsCoded", fn, []any{429, 7}))
	assert.Error(t, Dispatch("throwsCoded", fn, []any{429, 8}))
	assert.NoError(t, Dispatch("not throwsCoded", fn, []any{500}))
	assert.True(t, failure.IsInvalid(Dispatch("throwsCoded", fn, []any{"429x"})))
	assert.True(t, failure.IsInvalid(Dispatch("throwsCoded", fn, nil)))
}

func TestDispatch_ReportsToTest(t *testing.T) {
	rt := &recordingT{}
	assert.Error(t, Dispatch("frobnicate", 1, nil, withReporter(rt)))
	assert.Len(t, rt.fatals, 1)
}

func TestKnownAndNames(t *testing.T) {
	assert.True(t, Known("equals"))
	assert.True(t, Known("=="))
	assert.True(t, Known("notContains"))
	assert.False(t, Known("nothing"))
	assert.False(t, Known("frobnicate"))

	names := Names()
	assert.Contains(t, names, "each")
	assert.NotContains(t, names, "==")
	assert.IsIncreasing(t, names)
}

func TestCheckArgs(t *testing.T) {
	assert.NoError(t, CheckArgs("equals", 1))
	assert.NoError(t, CheckArgs("not contains", 1))
	assert.NoError(t, CheckArgs("each", 3))

	err := CheckArgs("withinDelta", 1)
	assert.True(t, failure.IsInvalid(err))
	assert.Contains(t, err.Error(), "expects 2 argument(s), got 1")

	assert.True(t, failure.IsInvalid(CheckArgs("frobnicate", 0)))
}
