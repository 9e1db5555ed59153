package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
	"github.com/abdul-hamid-achik/hitexpect/packages/core/env"
	"github.com/abdul-hamid-achik/hitexpect/packages/expect"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/snapshot"
)

const (
	// DefaultConcurrency is the default number of concurrent checks in parallel mode
	DefaultConcurrency = 4
	// DefaultRetryDelayMs is the default delay between retries in milliseconds
	DefaultRetryDelayMs = 1000
)

type Runner struct {
	config  *Config
	latency *Latency
}

type Config struct {
	Environment  string
	Environments map[string]map[string]any
	Vars         map[string]any
	Verbose      bool
	Timeout      time.Duration
	Bail         bool
	NameFilter   string
	TagsFilter   []string
	Parallel     bool
	Concurrency  int

	// Snapshots overrides the per-file __snapshots__ store. Snapshot ids
	// in a shared store are prefixed with the check file path.
	Snapshots    snapshot.Store
	SnapshotMode snapshot.Mode

	// Output receives hook and command output in verbose mode.
	Output io.Writer
	Warn   env.WarnFunc
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Runner{config: cfg, latency: NewLatency()}
}

// Latency summarizes check evaluation times across every file run so far.
func (r *Runner) Latency() *LatencySummary {
	return r.latency.Summary()
}

type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusInvalid
	StatusError
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusInvalid:
		return "invalid"
	case StatusError:
		return "error"
	case StatusSkipped:
		return "skipped"
	}
	return "unknown"
}

type RunResult struct {
	File     string
	Name     string
	Results  []*CheckResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
	Latency  *LatencySummary

	// HookError is set when an after hook failed. Before hook failures
	// abort the run and are returned by RunFile instead.
	HookError error
}

// OK reports whether every executed check passed and no hook failed.
func (res *RunResult) OK() bool {
	return res.Failed == 0 && res.HookError == nil
}

type CheckResult struct {
	Name       string
	Line       int
	Matcher    string
	Subject    string
	Status     Status
	SkipReason string
	Duration   time.Duration
	Attempts   int
	Failure    *failure.Failure
	Error      error
	Captures   map[string]any
}

func (c *CheckResult) Passed() bool {
	return c.Status == StatusPassed
}

func (c *CheckResult) Skipped() bool {
	return c.Status == StatusSkipped
}

// Message is the text shown for a check that did not pass.
func (c *CheckResult) Message() string {
	switch {
	case c.Status == StatusSkipped:
		return c.SkipReason
	case c.Error != nil:
		return c.Error.Error()
	}
	return ""
}

func (r *Runner) warn(format string, args ...any) {
	if r.config.Warn != nil {
		r.config.Warn(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	file, err := checkfile.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, file)
}

// Run executes the checks of a loaded file. Relative paths in the file are
// resolved against the file's directory.
func (r *Runner) Run(ctx context.Context, file *checkfile.File) (*RunResult, error) {
	start := time.Now()
	baseDir := filepath.Dir(file.Path)

	environment, err := env.LoadEnvironment(baseDir, r.config.Environment, r.config.Environments)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	resolver := env.NewResolver()
	resolver.SetWarnFunc(r.warn)
	resolver.SetVariables(environment.Variables)
	for name, v := range file.Vars {
		resolver.SetVariable(name, resolver.ResolveValue(v))
	}
	for name, v := range r.config.Vars {
		resolver.SetVariable(name, v)
	}

	fc := &fileRun{
		runner:   r,
		file:     file,
		baseDir:  baseDir,
		resolver: resolver,
		docs:     make(map[string]*document),
		latency:  NewLatency(),
	}
	defer fc.close()

	if fc.snapshots = r.config.Snapshots; fc.snapshots == nil {
		fc.snapshots = snapshot.ForFile(file.Path)
	} else {
		// shared stores hold snapshots of every file
		fc.snapshotPrefix = filepath.ToSlash(file.Path) + "::"
	}

	result := &RunResult{
		File: file.Path,
		Name: file.Name,
	}

	if err := fc.waitFor(ctx, file.WaitFor); err != nil {
		return nil, err
	}

	if err := fc.runBeforeHooks(ctx, file.Before); err != nil {
		if afterErr := fc.runAfterHooks(ctx, file.After, true); afterErr != nil {
			err = errors.Join(err, afterErr)
		}
		return nil, fmt.Errorf("before hook failed: %w", err)
	}

	if err := r.runChecks(ctx, fc, result); err != nil {
		return nil, err
	}

	if err := fc.runAfterHooks(ctx, file.After, result.Failed > 0); err != nil {
		result.HookError = fmt.Errorf("after hook failed: %w", err)
	}

	result.Latency = fc.latency.Summary()
	r.latency.Merge(fc.latency)
	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) runChecks(ctx context.Context, fc *fileRun, result *RunResult) error {
	sorted, err := topologicalSort(fc.file.Checks)
	if err != nil {
		return err
	}

	hasOnly := fc.file.HasOnly()
	var selected []*checkfile.Check
	for _, c := range sorted {
		if !r.shouldRun(c, hasOnly) {
			result.add(skipped(c, "filtered out"))
			continue
		}
		if c.Skip != "" {
			result.add(skipped(c, c.Skip))
			continue
		}
		selected = append(selected, c)
	}

	if r.config.Parallel && independent(selected) {
		for _, cr := range r.runParallel(ctx, fc, selected) {
			result.add(cr)
		}
		return nil
	}

	executed := make(map[string]*CheckResult)
	for _, c := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}

		if dep := failedDependency(c, executed); dep != "" {
			result.add(skipped(c, fmt.Sprintf("dependency %q did not pass", dep)))
			continue
		}

		cr := fc.runCheck(ctx, c)
		if c.Name != "" {
			executed[c.Name] = cr
		}
		result.add(cr)

		if !cr.Passed() && r.config.Bail {
			break
		}
	}
	return nil
}

func (res *RunResult) add(cr *CheckResult) {
	res.Results = append(res.Results, cr)
	switch cr.Status {
	case StatusPassed:
		res.Passed++
	case StatusSkipped:
		res.Skipped++
	default:
		res.Failed++
	}
}

func skipped(c *checkfile.Check, reason string) *CheckResult {
	return &CheckResult{
		Name:       c.Name,
		Line:       c.Line,
		Matcher:    c.MatcherName(),
		Subject:    c.Subject,
		Status:     StatusSkipped,
		SkipReason: reason,
	}
}

func failedDependency(c *checkfile.Check, executed map[string]*CheckResult) string {
	for _, dep := range c.Depends {
		if res, ok := executed[dep]; ok && !res.Passed() {
			return dep
		}
	}
	return ""
}

// independent reports whether checks can run concurrently: none depends on
// another or captures values for later checks.
func independent(checks []*checkfile.Check) bool {
	for _, c := range checks {
		if len(c.Depends) > 0 || len(c.Capture) > 0 {
			return false
		}
	}
	return true
}

func (r *Runner) runParallel(ctx context.Context, fc *fileRun, checks []*checkfile.Check) []*CheckResult {
	concurrency := r.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*CheckResult, len(checks))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, c := range checks {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, check *checkfile.Check) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = fc.runCheck(ctx, check)
		}(i, c)
	}

	wg.Wait()
	return results
}

// topologicalSort orders checks so that every check follows the checks it
// depends on. Checks keep their file order otherwise.
func topologicalSort(checks []*checkfile.Check) ([]*checkfile.Check, error) {
	index := make(map[string]int, len(checks))
	for i, c := range checks {
		if c.Name != "" {
			index[c.Name] = i
		}
	}

	inDegree := make([]int, len(checks))
	dependents := make([][]int, len(checks))
	for i, c := range checks {
		for _, dep := range c.Depends {
			j, ok := index[dep]
			if !ok {
				continue
			}
			dependents[j] = append(dependents[j], i)
			inDegree[i]++
		}
	}

	var queue []int
	for i := range checks {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	sorted := make([]*checkfile.Check, 0, len(checks))
	for len(queue) > 0 {
		// smallest index first keeps file order among ready checks
		minPos := 0
		for p := range queue {
			if queue[p] < queue[minPos] {
				minPos = p
			}
		}
		current := queue[minPos]
		queue = append(queue[:minPos], queue[minPos+1:]...)
		sorted = append(sorted, checks[current])

		for _, next := range dependents[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(checks) {
		return nil, fmt.Errorf("circular dependency detected in checks")
	}
	return sorted, nil
}

func (r *Runner) shouldRun(c *checkfile.Check, hasOnly bool) bool {
	if hasOnly && !c.Only {
		return false
	}

	if r.config.NameFilter != "" {
		if c.Name == "" || !matchesPattern(c.Name, r.config.NameFilter) {
			return false
		}
	}

	if len(r.config.TagsFilter) > 0 && !c.HasTag(r.config.TagsFilter...) {
		return false
	}

	return true
}

// matchesPattern matches name against a glob such as "user*".
func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

func (fc *fileRun) options(c *checkfile.Check, message string) []expect.Option {
	opts := []expect.Option{
		expect.WithBaseDir(fc.baseDir),
		expect.WithSnapshots(fc.snapshots, fc.snapshotPrefix+snapshotID(c)),
		expect.WithSnapshotMode(fc.runner.config.SnapshotMode),
	}
	if message != "" {
		opts = append(opts, expect.WithMessage(message))
	}
	return opts
}

func snapshotID(c *checkfile.Check) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("line %d", c.Line)
}
