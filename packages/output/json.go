package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string       `json:"runId"`
	Summary  JSONSummary  `json:"summary"`
	Checks   []JSONCheck  `json:"checks"`
	Errors   []string     `json:"errors,omitempty"`
	Latency  *JSONLatency `json:"latency,omitempty"`
	Duration float64      `json:"duration"`
	Time     string       `json:"time"`
}

// JSONSummary represents the check summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONCheck represents a single check result
type JSONCheck struct {
	Name       string         `json:"name"`
	File       string         `json:"file"`
	Line       int            `json:"line,omitempty"`
	Matcher    string         `json:"matcher"`
	Subject    string         `json:"subject,omitempty"`
	Status     string         `json:"status"`
	Passed     bool           `json:"passed"`
	Skipped    bool           `json:"skipped,omitempty"`
	SkipReason string         `json:"skipReason,omitempty"`
	Duration   float64        `json:"duration"`
	Attempts   int            `json:"attempts,omitempty"`
	Message    string         `json:"message,omitempty"`
	Expected   string         `json:"expected,omitempty"`
	Actual     string         `json:"actual,omitempty"`
	Diff       string         `json:"diff,omitempty"`
	Captures   map[string]any `json:"captures,omitempty"`
}

// JSONLatency holds check evaluation percentiles in milliseconds
type JSONLatency struct {
	Count int64   `json:"count"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// JSONFormatter formats check results as JSON
type JSONFormatter struct {
	writer  io.Writer
	runID   string
	results []JSONCheck
	errors  []string
	latency *runner.Latency
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		runID:   uuid.NewString(),
		results: make([]JSONCheck, 0),
		latency: runner.NewLatency(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

// JSONWithRunID replaces the generated run ID.
func JSONWithRunID(id string) JSONOption {
	return func(f *JSONFormatter) {
		f.runID = id
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		check := JSONCheck{
			Name:       displayName(r),
			File:       result.File,
			Line:       r.Line,
			Matcher:    r.Matcher,
			Subject:    r.Subject,
			Status:     r.Status.String(),
			Passed:     r.Passed(),
			Skipped:    r.Skipped(),
			SkipReason: reportedSkip(r),
			Duration:   ms(r.Duration),
			Attempts:   r.Attempts,
		}

		if !r.Passed() && !r.Skipped() {
			check.Message = failureMessage(r)
			check.Diff = failureDiff(r)
			if r.Failure != nil {
				check.Expected = r.Failure.Expected
				check.Actual = r.Failure.Actual
			}
		}

		if len(r.Captures) > 0 {
			check.Captures = r.Captures
		}
		if !r.Skipped() {
			f.latency.Record(r.Duration)
		}

		f.results = append(f.results, check)
	}

	if result.HookError != nil {
		f.errors = append(f.errors, result.HookError.Error())
	}
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed, skipped int
	for _, c := range f.results {
		switch {
		case c.Skipped:
			skipped++
		case c.Passed:
			passed++
		default:
			failed++
		}
	}

	output := JSONOutput{
		RunID: f.runID,
		Summary: JSONSummary{
			Total:   len(f.results),
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
		},
		Checks:   f.results,
		Errors:   f.errors,
		Duration: ms(totalDuration),
		Time:     time.Now().Format(time.RFC3339),
	}

	if l := f.latency.Summary(); l != nil {
		output.Latency = &JSONLatency{
			Count: l.Count,
			P50:   ms(l.P50),
			P90:   ms(l.P90),
			P95:   ms(l.P95),
			P99:   ms(l.P99),
			Max:   ms(l.Max),
			Mean:  ms(l.Mean),
		}
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
