package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/runner"
)

// HTMLOutput represents the complete HTML output structure
type HTMLOutput struct {
	Version        string
	Summary        HTMLSummary
	Checks         []HTMLCheck
	Errors         []string
	Duration       float64
	Time           string
	PassedPercent  float64
	FailedPercent  float64
	SkippedPercent float64
}

// HTMLSummary represents the check summary for HTML output
type HTMLSummary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// HTMLCheck represents a single check result for HTML output
type HTMLCheck struct {
	Name        string
	File        string
	Line        int
	Matcher     string
	Subject     string
	Passed      bool
	Skipped     bool
	SkipReason  string
	Duration    float64
	Message     string
	Diff        string
	StatusClass string
	Captures    map[string]any
}

// HTMLFormatter formats check results as HTML
type HTMLFormatter struct {
	writer  io.Writer
	results []HTMLCheck
	errors  []string
	version string
}

// HTMLOption is a functional option for HTMLFormatter
type HTMLOption func(*HTMLFormatter)

func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer:  os.Stdout,
		results: make([]HTMLCheck, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		f.writer = w
	}
}

func (f *HTMLFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		check := HTMLCheck{
			Name:        displayName(r),
			File:        result.File,
			Line:        r.Line,
			Matcher:     r.Matcher,
			Subject:     r.Subject,
			Passed:      r.Passed(),
			Skipped:     r.Skipped(),
			SkipReason:  reportedSkip(r),
			Duration:    ms(r.Duration),
			Captures:    r.Captures,
			StatusClass: r.Status.String(),
		}

		if !r.Passed() && !r.Skipped() {
			check.Message = failureMessage(r)
			check.Diff = failureDiff(r)
		}

		f.results = append(f.results, check)
	}

	if result.HookError != nil {
		f.errors = append(f.errors, result.HookError.Error())
	}
}

func (f *HTMLFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

// FormatHeader captures the version for the HTML report
func (f *HTMLFormatter) FormatHeader(version string) {
	f.version = version
}

// Flush writes the accumulated HTML output
func (f *HTMLFormatter) Flush(totalDuration time.Duration) error {
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

	total := len(f.results)
	var passedPct, failedPct, skippedPct float64
	if total > 0 {
		passedPct = float64(passed) / float64(total) * 100
		failedPct = float64(failed) / float64(total) * 100
		skippedPct = float64(skipped) / float64(total) * 100
	}

	output := HTMLOutput{
		Version: f.version,
		Summary: HTMLSummary{
			Total:   total,
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
		},
		Checks:         f.results,
		Errors:         f.errors,
		Duration:       ms(totalDuration),
		Time:           time.Now().Format("2006-01-02 15:04:05"),
		PassedPercent:  passedPct,
		FailedPercent:  failedPct,
		SkippedPercent: skippedPct,
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	return tmpl.Execute(f.writer, output)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hitexpect report</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
.bar { display: flex; height: 10px; border-radius: 5px; overflow: hidden; margin: 1rem 0; background: #eee; }
.bar .passed { background: #2da44e; } .bar .failed { background: #cf222e; } .bar .skipped { background: #bf8700; }
table { border-collapse: collapse; width: 100%; }
td, th { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #eee; vertical-align: top; }
tr.failed td.status, tr.error td.status, tr.invalid td.status { color: #cf222e; }
tr.passed td.status { color: #2da44e; } tr.skipped td.status { color: #bf8700; }
pre { margin: .3rem 0 0; white-space: pre-wrap; font-size: .85rem; }
.errors { color: #cf222e; }
</style>
</head>
<body>
<h1>hitexpect {{.Version}}</h1>
<p>{{.Summary.Passed}} passed, {{.Summary.Failed}} failed, {{.Summary.Skipped}} skipped, {{.Summary.Total}} total in {{printf "%.1f" .Duration}}ms ({{.Time}})</p>
<div class="bar">
<div class="passed" style="width: {{printf "%.2f" .PassedPercent}}%"></div>
<div class="failed" style="width: {{printf "%.2f" .FailedPercent}}%"></div>
<div class="skipped" style="width: {{printf "%.2f" .SkippedPercent}}%"></div>
</div>
{{if .Errors}}<ul class="errors">{{range .Errors}}<li>{{.}}</li>{{end}}</ul>{{end}}
<table>
<tr><th>Status</th><th>Check</th><th>Subject</th><th>Matcher</th><th>Time</th></tr>
{{range .Checks}}<tr class="{{.StatusClass}}">
<td class="status">{{.StatusClass}}</td>
<td>{{.Name}}<br><small>{{.File}}{{if .Line}}:{{.Line}}{{end}}</small>
{{if .SkipReason}}<pre>{{.SkipReason}}</pre>{{end}}
{{if .Message}}<pre>{{.Message}}</pre>{{end}}
{{if .Diff}}<pre>{{.Diff}}</pre>{{end}}
{{if .Captures}}<pre>{{range $k, $v := .Captures}}{{$k}} = {{$v}}
{{end}}</pre>{{end}}</td>
<td><code>{{.Subject}}</code></td>
<td><code>{{.Matcher}}</code></td>
<td>{{printf "%.1f" .Duration}}ms</td>
</tr>
{{end}}</table>
</body>
</html>
`
