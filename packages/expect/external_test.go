package expect

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/snapshot"
	"github.com/abdul-hamid-achik/hitexpect/packages/uri"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEqualURI(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected string
		pass     bool
	}{
		{"identical", "https://example.com/a", "https://example.com/a", true},
		{"query order", "http://example.com/?a=1&b=2", "http://example.com/?b=2&a=1", true},
		{"default port", "http://Example.com:80/x", "http://example.com/x", true},
		{"empty path", "https://example.com", "https://example.com/", true},
		{"dot segments", "https://example.com/a/../b", "https://example.com/b", true},
		{"different host", "https://example.com/a", "https://example.org/a", false},
		{"different query", "https://example.com/?a=1", "https://example.com/?a=2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := That(tt.actual).ToEqualURI(tt.expected)
			if tt.pass {
				assert.NoError(t, err)
			} else {
				assert.True(t, failure.IsFailure(err))
			}
		})
	}
}

func TestToEqualURI_URLSubject(t *testing.T) {
	u, err := url.Parse("https://example.com:443/search?q=go")
	require.NoError(t, err)
	assert.NoError(t, That(u).ToEqualURI("https://example.com/search?q=go"))
}

func TestToEqualURI_Invalid(t *testing.T) {
	assert.True(t, failure.IsInvalid(That(5).ToEqualURI("https://example.com")))
	assert.True(t, failure.IsInvalid(That("https://example.com").ToEqualURI("://bad")))
}

type refusingParser struct{}

func (refusingParser) Parse(raw string) (uri.Parts, error) {
	if strings.Contains(raw, "refuse") {
		return uri.Parts{}, errors.New("refused")
	}
	return uri.Parts{Scheme: "x", Host: raw}, nil
}

func TestToEqualURI_CustomParser(t *testing.T) {
	err := That("refuse.me", WithURIParser(refusingParser{})).ToEqualURI("ok")
	f := failureOf(t, err)
	assert.Contains(t, f.Message, "is a valid URI")
}

func TestToMatchSnapshot(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.NewFileStore(filepath.Join(dir, "users.snap.json"))

	doc := map[string]any{"name": "ada", "tags": []string{"x"}}

	// first run records
	assert.NoError(t, That(doc, WithSnapshots(store, "users")).ToMatchSnapshot())
	assert.NoError(t, That(doc, WithSnapshots(store, "users")).ToMatchSnapshot())

	changed := map[string]any{"name": "grace", "tags": []string{"x"}}
	f := failureOf(t, That(changed, WithSnapshots(store, "users")).ToMatchSnapshot())
	assert.Contains(t, f.Message, "matches snapshot users")

	assert.NoError(t, That(changed, WithSnapshots(store, "users"), WithSnapshotMode(snapshot.ModeUpdate)).ToMatchSnapshot())
	assert.NoError(t, That(changed, WithSnapshots(store, "users")).ToMatchSnapshot())
}

func TestToMatchSnapshot_Strict(t *testing.T) {
	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "strict.snap.json"))
	err := That(1, WithSnapshots(store, "missing"), WithSnapshotMode(snapshot.ModeStrict)).ToMatchSnapshot()
	assert.True(t, failure.IsFailure(err))
}

func TestToMatchSnapshot_NoStore(t *testing.T) {
	assert.True(t, failure.IsInvalid(That(1).ToMatchSnapshot()))
}

const userSchema = `{
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	}
}`

func TestToMatchSchema(t *testing.T) {
	assert.NoError(t, That(map[string]any{"name": "ada", "age": 36}).ToMatchSchema(userSchema))
	assert.NoError(t, That(`{"name": "ada", "age": 36}`).ToMatchSchema(userSchema))

	f := failureOf(t, That(map[string]any{"name": "ada"}).ToMatchSchema(userSchema))
	assert.Contains(t, f.Message, "schema validation failed")
	assert.Contains(t, f.Message, "age")
}

func TestToMatchSchema_GoValueSchema(t *testing.T) {
	schema := map[string]any{"type": "array", "items": map[string]any{"type": "number"}}
	assert.NoError(t, That([]int{1, 2}).ToMatchSchema(schema))
	assert.Error(t, That([]string{"a"}).ToMatchSchema(schema))
}

func TestToMatchSchema_File(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.schema.json"), []byte(userSchema), 0644))

	assert.NoError(t, That(map[string]any{"name": "ada", "age": 1}, WithBaseDir(dir)).ToMatchSchema("user.schema.json"))

	err := That(map[string]any{}, WithBaseDir(dir)).ToMatchSchema("../outside.json")
	assert.True(t, failure.IsInvalid(err))
	assert.Contains(t, err.Error(), "path traversal")

	assert.True(t, failure.IsInvalid(That(1, WithBaseDir(dir)).ToMatchSchema("missing.json")))
}

func TestToHaveJSONPath(t *testing.T) {
	doc := `{"users": [{"id": 1, "name": "ada"}, {"id": 2, "name": "grace"}]}`

	assert.NoError(t, That(doc).ToHaveJSONPath("users.0.name"))
	assert.NoError(t, That(doc).ToHaveJSONPath("users[1].name", "grace"))
	assert.NoError(t, That(doc).ToHaveJSONPath("users.#", 2))
	assert.NoError(t, That(map[string]any{"a": map[string]int{"b": 3}}).ToHaveJSONPath("a.b", 3))

	f := failureOf(t, That(doc).ToHaveJSONPath("users.5.name"))
	assert.Contains(t, f.Message, "users.5.name exists")

	f = failureOf(t, That(doc).ToHaveJSONPath("users.0.id", 2))
	assert.Contains(t, f.Message, "holds the expected value")

	assert.True(t, failure.IsInvalid(That(func() {}).ToHaveJSONPath("a")))
}

func TestConvertBracketNotation(t *testing.T) {
	tests := map[string]string{
		"[0].id":           "0.id",
		"items[0].tags[1]": "items.0.tags.1",
		"plain.path":       "plain.path",
		"data[12]":         "data.12",
	}
	for in, want := range tests {
		assert.Equal(t, want, ConvertBracketNotation(in), in)
	}
}
