package checkfile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/abdul-hamid-achik/hitexpect/packages/expect"
)

// Validate reports every structural problem in f at once, joined with
// errors.Join. Each problem is an *Error.
func Validate(f *File) error {
	var errs []error
	add := func(line int, format string, args ...any) {
		errs = append(errs, &Error{Path: f.Path, Line: line, Msg: fmt.Sprintf(format, args...)})
	}

	if f.Data != "" && f.Subject != nil {
		add(0, "data and subject are mutually exclusive")
	}
	if len(f.Checks) == 0 {
		add(0, "no checks defined")
	}

	sourceNames := make([]string, 0, len(f.Sources))
	for name := range f.Sources {
		sourceNames = append(sourceNames, name)
	}
	sort.Strings(sourceNames)
	for _, name := range sourceNames {
		src := f.Sources[name]
		if name == DefaultSource && f.DefaultSource() != nil {
			add(0, "source %q shadows the data document", name)
		}
		if src == nil || src.Kind() == SourceNone {
			add(0, "source %q must set exactly one of file, inline, query or command", name)
			continue
		}
		if src.Kind() == SourceQuery && src.Database == "" {
			add(0, "source %q: query requires a database", name)
		}
		switch src.Format {
		case "", "json", "yaml", "text":
		default:
			add(0, "source %q: unknown format %q", name, src.Format)
		}
	}

	for _, h := range append(append([]*Hook{}, f.Before...), f.After...) {
		if h == nil || (h.Run == "") == (h.Exec == "") {
			add(0, "hook must set exactly one of run or exec")
			continue
		}
		if h.Exec != "" && h.Database == "" {
			add(0, "hook exec requires a database")
		}
	}

	if w := f.WaitFor; w != nil && (w.File == "") == (w.Command == "") {
		add(0, "waitFor must set exactly one of file or command")
	}

	names := make(map[string]bool, len(f.Checks))
	for i, c := range f.Checks {
		if c == nil {
			add(0, "check %d is empty", i+1)
			continue
		}
		label := c.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		} else if names[c.Name] {
			add(c.Line, "duplicate check name %q", c.Name)
		}
		names[c.Name] = true

		if c.Matcher == "" {
			add(c.Line, "check %s: matcher is required", label)
		} else if err := expect.CheckArgs(c.MatcherName(), len(c.Args)); err != nil {
			add(c.Line, "check %s: %v", label, err)
		}
		if _, ok := f.Source(c.SourceName()); !ok {
			add(c.Line, "check %s: unknown source %q", label, c.SourceName())
		}
		if c.Retry < 0 || c.RetryDelay < 0 || c.Timeout < 0 {
			add(c.Line, "check %s: retry, retryDelay and timeout must not be negative", label)
		}
	}

	for _, c := range f.Checks {
		if c == nil {
			continue
		}
		for _, dep := range c.Depends {
			if dep == c.Name {
				add(c.Line, "check %q depends on itself", c.Name)
			} else if !names[dep] {
				add(c.Line, "check %q depends on unknown check %q", c.Name, dep)
			}
		}
	}

	return errors.Join(errs...)
}
