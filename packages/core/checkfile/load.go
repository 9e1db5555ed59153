package checkfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extensions lists the suffixes that mark a check file.
var Extensions = []string{".check.yaml", ".check.yml"}

// Error is a problem in a check file. Line is zero when the problem has
// no single location.
type Error struct {
	Path string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// IsParseError reports whether err comes from reading a malformed check
// file rather than from the filesystem.
func IsParseError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// LoadFile reads and validates the check file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading check file: %w", err)
	}
	f, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes a check file without validating it. path is recorded on
// the file and used in error messages.
func Parse(data []byte, path string) (*File, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Path: path, Msg: "empty check file"}
		}
		return nil, &Error{Path: path, Line: yamlErrorLine(err), Msg: err.Error()}
	}

	f := &File{}
	if err := root.Decode(f); err != nil {
		return nil, &Error{Path: path, Line: yamlErrorLine(err), Msg: err.Error()}
	}
	f.Path = path
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), extensionOf(path))
	}
	recordCheckLines(&root, f)
	return f, nil
}

// recordCheckLines copies the line of every entry under "checks" onto the
// decoded checks.
func recordCheckLines(root *yaml.Node, f *File) {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "checks" {
			continue
		}
		seq := doc.Content[i+1]
		for j, item := range seq.Content {
			if j < len(f.Checks) && f.Checks[j] != nil {
				f.Checks[j].Line = item.Line
			}
		}
	}
}

func yamlErrorLine(err error) int {
	var typeErr *yaml.TypeError
	msg := err.Error()
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		msg = typeErr.Errors[0]
	}
	var line int
	if i := strings.Index(msg, "line "); i >= 0 {
		fmt.Sscanf(msg[i:], "line %d", &line)
	}
	return line
}

// IsCheckFile reports whether path carries a check file suffix.
func IsCheckFile(path string) bool {
	return extensionOf(path) != ""
}

func extensionOf(path string) string {
	for _, ext := range Extensions {
		if strings.HasSuffix(path, ext) {
			return ext
		}
	}
	return ""
}

// Discover expands paths into check files. Directories are walked
// recursively; files are taken as given whatever their suffix. The result
// is sorted and free of duplicates.
func Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range paths {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != arg && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !d.IsDir() && IsCheckFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
