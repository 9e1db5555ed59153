package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
	"github.com/abdul-hamid-achik/hitexpect/packages/db"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// document is a loaded source. Paths into it are gjson paths evaluated
// against its JSON encoding.
type document struct {
	value any
	text  bool

	once sync.Once
	raw  []byte
	err  error
}

func newDocument(v any) *document {
	return &document{value: v}
}

func (d *document) json() ([]byte, error) {
	d.once.Do(func() {
		if d.raw != nil {
			return
		}
		d.raw, d.err = json.Marshal(d.value)
	})
	return d.raw, d.err
}

// extract returns the value at path, the whole document for an empty
// path, or value.Absent when nothing is there.
func (d *document) extract(path string) (any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return d.value, nil
	}
	if d.text {
		return nil, fmt.Errorf("subject path %q needs a JSON or YAML document", path)
	}

	raw, err := d.json()
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	res := gjson.GetBytes(raw, path)
	if !res.Exists() {
		return value.Absent, nil
	}
	return res.Value(), nil
}

// parseDocument decodes data in format: json, yaml or text. An empty
// format picks json for valid JSON and text otherwise.
func parseDocument(data []byte, format string) (*document, error) {
	switch format {
	case "json":
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("invalid JSON document")
		}
		return jsonDocument(data), nil
	case "yaml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("invalid YAML document: %w", err)
		}
		return newDocument(v), nil
	case "text":
		return &document{value: strings.TrimRight(string(data), "\r\n"), text: true}, nil
	}

	if gjson.ValidBytes(data) {
		return jsonDocument(data), nil
	}
	return parseDocument(data, "text")
}

func jsonDocument(data []byte) *document {
	return &document{value: gjson.ParseBytes(data).Value(), raw: data}
}

// formatFor picks the document format from an explicit setting or the
// file extension.
func formatFor(format, path string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

// document returns the named source, loading it on first use.
func (fc *fileRun) document(ctx context.Context, name string) (*document, error) {
	fc.mu.Lock()
	if d, ok := fc.docs[name]; ok {
		fc.mu.Unlock()
		return d, nil
	}
	fc.mu.Unlock()

	src, ok := fc.file.Source(name)
	if !ok {
		return nil, fmt.Errorf("unknown source %q", name)
	}

	d, err := fc.load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", name, err)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if existing, ok := fc.docs[name]; ok {
		return existing, nil
	}
	fc.docs[name] = d
	return d, nil
}

// forget drops a cached source so the next check reloads it.
func (fc *fileRun) forget(name string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	delete(fc.docs, name)
}

func (fc *fileRun) load(ctx context.Context, src *checkfile.Source) (*document, error) {
	switch src.Kind() {
	case checkfile.SourceFile:
		path := fc.path(fc.resolver.Resolve(src.File))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parseDocument(data, formatFor(src.Format, path))

	case checkfile.SourceInline:
		return newDocument(fc.resolver.ResolveValue(src.Inline)), nil

	case checkfile.SourceQuery:
		client, err := fc.client(fc.resolver.Resolve(src.Database))
		if err != nil {
			return nil, err
		}
		res, err := client.Query(ctx, fc.resolver.Resolve(src.Query))
		if err != nil {
			return nil, err
		}
		return newDocument(res.Records()), nil

	case checkfile.SourceCommand:
		out, err := fc.runCommand(ctx, fc.resolver.Resolve(src.Command))
		if err != nil {
			return nil, err
		}
		return parseDocument([]byte(out), src.Format)
	}
	return nil, fmt.Errorf("source must set exactly one of file, inline, query or command")
}

// path resolves p against the check file's directory.
func (fc *fileRun) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(fc.baseDir, p)
}

// client returns a database client for conn, shared by every source and
// hook of the file. Relative SQLite paths are relative to the check file.
func (fc *fileRun) client(conn string) (*db.Client, error) {
	for _, prefix := range []string{"sqlite://", "sqlite:"} {
		if p, ok := strings.CutPrefix(conn, prefix); ok {
			if p != ":memory:" && !strings.HasPrefix(p, "file:") {
				conn = prefix + fc.path(p)
			}
			break
		}
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if c, ok := fc.clients[conn]; ok {
		return c, nil
	}
	c, err := db.NewClient(conn)
	if err != nil {
		return nil, err
	}
	if fc.clients == nil {
		fc.clients = make(map[string]*db.Client)
	}
	fc.clients[conn] = c
	return c, nil
}
