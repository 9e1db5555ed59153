package expect

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/snapshot"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// ToEqualURI passes when the subject and expected address the same
// resource: same scheme, host and port, equal cleaned paths and the same
// query parameters in any order, the last of a repeated key winning.
func (e *Expectation) ToEqualURI(expected string) error {
	return e.run("toEqualURI", func() error {
		raw, ok := uriString(e.actual)
		if !ok {
			return failure.Invalid("toEqualURI", "subject must be a URI string, got %s", value.TypeName(e.actual))
		}
		want, err := e.cfg.uriParser.Parse(expected)
		if err != nil {
			return failure.Invalid("toEqualURI", "%v", err)
		}
		got, err := e.cfg.uriParser.Parse(raw)
		if err != nil {
			return e.fail("Failed asserting that %s is a valid URI: %s", []any{value.Export(raw), err})
		}
		if want.Equal(got) {
			return nil
		}
		return e.mismatch("Failed asserting that two URIs are equivalent.", want.String(), got.String())
	})
}

func uriString(v any) (string, bool) {
	switch u := v.(type) {
	case string:
		return u, true
	case *url.URL:
		if u == nil {
			return "", false
		}
		return u.String(), true
	case fmt.Stringer:
		return u.String(), true
	}
	if value.KindOf(v) == value.String {
		return value.Indirect(v).String(), true
	}
	return "", false
}

// ToMatchSnapshot compares the subject with the value recorded under the id
// given to WithSnapshots. Without WithSnapshots it is a
// *failure.InvalidArgument.
func (e *Expectation) ToMatchSnapshot() error {
	return e.run("toMatchSnapshot", func() error {
		return matchSnapshot(e.cfg, e.cfg.snapshotID, e.actual)
	})
}

func matchSnapshot(cfg *config, id string, actual any) error {
	if cfg.snapshots == nil {
		return failure.Invalid("toMatchSnapshot", "no snapshot store configured for this expectation")
	}
	if id == "" {
		id = snapshot.Key("", "", actual)
	}
	result, err := snapshot.Compare(cfg.snapshots, id, actual, cfg.snapshotMode)
	if err != nil {
		return failure.Invalid("toMatchSnapshot", "%v", err)
	}
	if result.Passed {
		return nil
	}
	return failure.Mismatch(cfg.message, "Failed asserting that the value matches snapshot "+id+": "+result.Message+".", result.Expected, result.Actual)
}

// ToMatchSchema validates the subject, serialized as JSON, against a JSON
// Schema. schema is inline JSON text, a path to a schema file, or a Go
// value that serializes to a schema.
func (e *Expectation) ToMatchSchema(schema any) error {
	return e.run("toMatchSchema", func() error {
		loader, err := schemaLoader(schema, e.cfg.baseDir)
		if err != nil {
			return err
		}
		doc, err := documentJSON(e.actual)
		if err != nil {
			return failure.Invalid("toMatchSchema", "failed to marshal subject: %v", err)
		}

		result, err := gojsonschema.Validate(loader, gojsonschema.NewBytesLoader(doc))
		if err != nil {
			return failure.Invalid("toMatchSchema", "schema validation error: %v", err)
		}
		if result.Valid() {
			return nil
		}

		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return e.fail("schema validation failed: %s", []any{strings.Join(problems, "; ")})
	})
}

func schemaLoader(schema any, baseDir string) (gojsonschema.JSONLoader, error) {
	s, ok := schema.(string)
	if !ok {
		return gojsonschema.NewGoLoader(schema), nil
	}
	if strings.HasPrefix(strings.TrimSpace(s), "{") {
		return gojsonschema.NewStringLoader(s), nil
	}

	path := s
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	if err := validatePathWithinBase(path, baseDir); err != nil {
		return nil, failure.Invalid("toMatchSchema", "%v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.Invalid("toMatchSchema", "failed to read schema file: %v", err)
	}
	return gojsonschema.NewBytesLoader(data), nil
}

// validatePathWithinBase checks that the resolved path stays within the base directory
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}
	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside allowed directory %s", path, baseDir)
	}
	return nil
}

// ToHaveJSONPath passes when path resolves in the subject's JSON document
// and, when want is given, the value found there equals want[0]. The
// subject may be JSON text, raw bytes or any value that marshals to JSON.
// Paths use gjson syntax; items[0].id is accepted as items.0.id.
func (e *Expectation) ToHaveJSONPath(path string, want ...any) error {
	return e.run("toHaveJSONPath", func() error {
		doc, err := documentJSON(e.actual)
		if err != nil {
			return failure.Invalid("toHaveJSONPath", "failed to marshal subject: %v", err)
		}
		if !gjson.ValidBytes(doc) {
			return failure.Invalid("toHaveJSONPath", "subject is not a JSON document")
		}

		result := gjson.GetBytes(doc, ConvertBracketNotation(path))
		if !result.Exists() {
			return e.fail("Failed asserting that JSON path %s exists.", []any{path})
		}
		if len(want) == 0 {
			return nil
		}
		if equality.ValueEqual(want[0], result.Value()) {
			return nil
		}
		return e.mismatch("Failed asserting that JSON path "+path+" holds the expected value.", want[0], result.Value())
	})
}

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// ConvertBracketNotation converts array bracket notation to gjson dot notation
// e.g., "[0].id" -> "0.id", "items[0].tags[1]" -> "items.0.tags.1"
func ConvertBracketNotation(path string) string {
	result := bracketIndex.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(result, ".")
}

func documentJSON(v any) ([]byte, error) {
	switch d := v.(type) {
	case string:
		if gjson.Valid(d) {
			return []byte(d), nil
		}
	case []byte:
		if gjson.ValidBytes(d) {
			return d, nil
		}
	case json.RawMessage:
		return d, nil
	}
	return json.Marshal(v)
}
