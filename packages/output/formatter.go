package output

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/runner"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Names lists the formats New accepts.
var Names = []string{"console", "json", "junit", "tap", "html"}

// Extension returns the file extension for reports in format name.
func Extension(name string) string {
	switch name {
	case "json":
		return ".json"
	case "junit":
		return ".xml"
	case "tap":
		return ".tap"
	case "html":
		return ".html"
	}
	return ".txt"
}

// New returns the formatter for name writing to w.
func New(name string, w io.Writer, verbose bool) (Formatter, error) {
	switch name {
	case "console", "":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	case "html":
		return NewHTMLFormatter(HTMLWithWriter(w)), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want one of %v)", name, Names)
}

// MultiFormatter sends every result to several formatters.
type MultiFormatter struct {
	formatters []Formatter
}

func NewMultiFormatter(formatters ...Formatter) *MultiFormatter {
	return &MultiFormatter{formatters: formatters}
}

func (m *MultiFormatter) FormatResult(result *runner.RunResult) {
	for _, f := range m.formatters {
		f.FormatResult(result)
	}
}

func (m *MultiFormatter) FormatError(err error) {
	for _, f := range m.formatters {
		f.FormatError(err)
	}
}

func (m *MultiFormatter) FormatHeader(version string) {
	for _, f := range m.formatters {
		f.FormatHeader(version)
	}
}

// Flush flushes every formatter that needs it and joins their errors.
func (m *MultiFormatter) Flush(totalDuration time.Duration) error {
	var errs []error
	for _, f := range m.formatters {
		if fl, ok := f.(Flushable); ok {
			errs = append(errs, fl.Flush(totalDuration))
		}
	}
	return errors.Join(errs...)
}

// failureMessage is the text reported for a check that did not pass,
// without the diff.
func failureMessage(r *runner.CheckResult) string {
	if r.Failure != nil {
		return r.Failure.Message
	}
	return r.Message()
}

func failureDiff(r *runner.CheckResult) string {
	if r.Failure != nil {
		return r.Failure.Diff
	}
	return ""
}

// displayName names a check for reports; unnamed checks use their line.
func displayName(r *runner.CheckResult) string {
	if r.Name != "" {
		return r.Name
	}
	if r.Line > 0 {
		return fmt.Sprintf("%s (line %d)", r.Matcher, r.Line)
	}
	return r.Matcher
}

// reportedSkip drops the reason of checks removed by filters.
func reportedSkip(r *runner.CheckResult) string {
	if r.SkipReason == "filtered out" {
		return ""
	}
	return r.SkipReason
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
