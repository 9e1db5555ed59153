package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
	"github.com/abdul-hamid-achik/hitexpect/packages/core/env"
	"github.com/abdul-hamid-achik/hitexpect/packages/db"
	"github.com/abdul-hamid-achik/hitexpect/packages/expect"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/snapshot"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// ErrTimeout is wrapped by the error of a check that ran out of time.
var ErrTimeout = errors.New("check timed out")

// fileRun holds the state shared by the checks of one file.
type fileRun struct {
	runner         *Runner
	file           *checkfile.File
	baseDir        string
	resolver       *env.Resolver
	snapshots      snapshot.Store
	snapshotPrefix string
	latency        *Latency

	mu      sync.Mutex
	docs    map[string]*document
	clients map[string]*db.Client
}

func (fc *fileRun) close() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, c := range fc.clients {
		_ = c.Close()
	}
	fc.clients = nil
}

func (fc *fileRun) runCheck(ctx context.Context, c *checkfile.Check) *CheckResult {
	result := &CheckResult{
		Name:    c.Name,
		Line:    c.Line,
		Matcher: c.MatcherName(),
		Subject: c.Subject,
	}

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		fc.latency.Record(result.Duration)
	}()

	retryDelay := time.Duration(DefaultRetryDelayMs) * time.Millisecond
	if c.RetryDelay > 0 {
		retryDelay = time.Duration(c.RetryDelay) * time.Millisecond
	}

	var subject any
	for attempt := 0; attempt <= c.Retry; attempt++ {
		if attempt > 0 {
			fc.forget(c.SourceName())
		}
		result.Attempts = attempt + 1

		var err error
		subject, err = fc.evaluate(ctx, c)
		result.classify(err)
		if result.Status != StatusFailed && result.Status != StatusError {
			break
		}

		if attempt < c.Retry {
			select {
			case <-ctx.Done():
				result.classify(ctx.Err())
				return result
			case <-time.After(retryDelay):
			}
		}
	}

	if result.Passed() && len(c.Capture) > 0 {
		fc.capture(ctx, c, subject, result)
	}
	return result
}

func (res *CheckResult) classify(err error) {
	res.Error = err
	res.Failure = nil

	var f *failure.Failure
	switch {
	case err == nil:
		res.Status = StatusPassed
	case errors.As(err, &f):
		res.Status = StatusFailed
		res.Failure = f
	case failure.IsInvalid(err):
		res.Status = StatusInvalid
	default:
		res.Status = StatusError
	}
}

// evaluate extracts the subject of c and runs its matcher once.
func (fc *fileRun) evaluate(ctx context.Context, c *checkfile.Check) (any, error) {
	doc, err := fc.document(ctx, c.SourceName())
	if err != nil {
		return nil, err
	}

	subject, err := doc.extract(fc.resolver.Resolve(c.Subject))
	if err != nil {
		return nil, err
	}

	args, _ := fc.resolver.ResolveValue(c.Args).([]any)
	message := fc.resolver.Resolve(c.Message)

	return subject, fc.dispatch(ctx, c, subject, args, message)
}

func (fc *fileRun) dispatch(ctx context.Context, c *checkfile.Check, subject any, args []any, message string) error {
	opts := fc.options(c, message)

	timeout := fc.runner.config.Timeout
	if c.Timeout > 0 {
		timeout = time.Duration(c.Timeout) * time.Millisecond
	}
	if timeout <= 0 {
		return expect.Dispatch(c.MatcherName(), subject, args, opts...)
	}

	done := make(chan error, 1)
	go func() {
		done <- expect.Dispatch(c.MatcherName(), subject, args, opts...)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// capture stores the values named by c.Capture for later checks. An empty
// path captures the subject itself.
func (fc *fileRun) capture(ctx context.Context, c *checkfile.Check, subject any, result *CheckResult) {
	result.Captures = make(map[string]any, len(c.Capture))

	doc, err := fc.document(ctx, c.SourceName())
	if err != nil {
		fc.warn("check %q: capture: %v", c.Name, err)
		return
	}

	for name, path := range c.Capture {
		v := subject
		if path = fc.resolver.Resolve(path); path != "" {
			if v, err = doc.extract(path); err != nil {
				fc.warn("check %q: capture %s: %v", c.Name, name, err)
				continue
			}
		}
		if v == value.Absent {
			fc.warn("check %q: capture %s: path %q not found", c.Name, name, path)
			continue
		}
		result.Captures[name] = v
		fc.resolver.SetCapture(c.Name, name, v)
	}
}

func (fc *fileRun) warn(format string, args ...any) {
	fc.runner.warn(format, args...)
}
