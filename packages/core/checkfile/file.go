package checkfile

import "strings"

// DefaultSource is the source name checks use when they name none. It
// refers to the file's data document or inline subject.
const DefaultSource = "default"

type File struct {
	Path        string             `yaml:"-"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Data        string             `yaml:"data,omitempty"`
	Subject     any                `yaml:"subject,omitempty"`
	Sources     map[string]*Source `yaml:"sources,omitempty"`
	Vars        map[string]any     `yaml:"vars,omitempty"`
	WaitFor     *WaitFor           `yaml:"waitFor,omitempty"`
	Before      []*Hook            `yaml:"before,omitempty"`
	After       []*Hook            `yaml:"after,omitempty"`
	Checks      []*Check           `yaml:"checks"`
}

// Source describes where a subject document comes from. Exactly one of
// File, Inline, Query or Command is set.
type Source struct {
	File     string `yaml:"file,omitempty"`
	Format   string `yaml:"format,omitempty"`
	Inline   any    `yaml:"inline,omitempty"`
	Database string `yaml:"database,omitempty"`
	Query    string `yaml:"query,omitempty"`
	Command  string `yaml:"command,omitempty"`
}

type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceFile
	SourceInline
	SourceQuery
	SourceCommand
)

func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceInline:
		return "inline"
	case SourceQuery:
		return "query"
	case SourceCommand:
		return "command"
	}
	return "none"
}

// Kind returns the kind of the source, or SourceNone when zero or several
// kinds are set.
func (s *Source) Kind() SourceKind {
	kind := SourceNone
	set := 0
	if s.File != "" {
		kind = SourceFile
		set++
	}
	if s.Inline != nil {
		kind = SourceInline
		set++
	}
	if s.Query != "" {
		kind = SourceQuery
		set++
	}
	if s.Command != "" {
		kind = SourceCommand
		set++
	}
	if set != 1 {
		return SourceNone
	}
	return kind
}

// Hook runs before or after the checks of a file. Run is a shell command
// and Exec a SQL statement against Database.
type Hook struct {
	Run      string `yaml:"run,omitempty"`
	Database string `yaml:"database,omitempty"`
	Exec     string `yaml:"exec,omitempty"`
	Always   bool   `yaml:"always,omitempty"`
}

// WaitFor delays the checks of a file until File exists or Command exits
// zero. Timeout and Interval are in milliseconds.
type WaitFor struct {
	File     string `yaml:"file,omitempty"`
	Command  string `yaml:"command,omitempty"`
	Timeout  int    `yaml:"timeout,omitempty"`
	Interval int    `yaml:"interval,omitempty"`
}

type Check struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Source      string            `yaml:"source,omitempty"`
	Subject     string            `yaml:"subject,omitempty"`
	Matcher     string            `yaml:"matcher"`
	Not         bool              `yaml:"not,omitempty"`
	Args        []any             `yaml:"args,omitempty"`
	Message     string            `yaml:"message,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	Only        bool              `yaml:"only,omitempty"`
	Skip        string            `yaml:"skip,omitempty"`
	Depends     []string          `yaml:"depends,omitempty"`
	Capture     map[string]string `yaml:"capture,omitempty"`
	Retry       int               `yaml:"retry,omitempty"`
	RetryDelay  int               `yaml:"retryDelay,omitempty"`
	Timeout     int               `yaml:"timeout,omitempty"`

	Line int `yaml:"-"`
}

// SourceName returns the source the check reads, DefaultSource when unset.
func (c *Check) SourceName() string {
	if c.Source == "" {
		return DefaultSource
	}
	return c.Source
}

// MatcherName returns the matcher with the not flag folded in.
func (c *Check) MatcherName() string {
	if c.Not {
		return "not " + strings.TrimSpace(c.Matcher)
	}
	return strings.TrimSpace(c.Matcher)
}

// HasTag reports whether the check carries any of tags.
func (c *Check) HasTag(tags ...string) bool {
	for _, want := range tags {
		for _, tag := range c.Tags {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// DefaultSource returns the source built from the file's data or inline
// subject, or nil when the file has neither.
func (f *File) DefaultSource() *Source {
	switch {
	case f.Data != "":
		return &Source{File: f.Data}
	case f.Subject != nil:
		return &Source{Inline: f.Subject}
	}
	return nil
}

// Source looks up a source by name, falling back to DefaultSource.
func (f *File) Source(name string) (*Source, bool) {
	if s, ok := f.Sources[name]; ok {
		return s, true
	}
	if name == DefaultSource {
		if s := f.DefaultSource(); s != nil {
			return s, true
		}
	}
	return nil, false
}

// HasOnly reports whether any check is marked only.
func (f *File) HasOnly() bool {
	for _, c := range f.Checks {
		if c.Only {
			return true
		}
	}
	return false
}
