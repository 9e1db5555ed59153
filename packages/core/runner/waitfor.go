package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
)

const (
	defaultWaitTimeout  = 30 * time.Second
	defaultWaitInterval = 500 * time.Millisecond
)

// waitFor polls until the file named by cfg exists or its command exits
// zero, or the timeout passes.
func (fc *fileRun) waitFor(ctx context.Context, cfg *checkfile.WaitFor) error {
	if cfg == nil {
		return nil
	}

	timeout := defaultWaitTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Millisecond
	}
	interval := defaultWaitInterval
	if cfg.Interval > 0 {
		interval = time.Duration(cfg.Interval) * time.Millisecond
	}

	target := cfg.Command
	ready := func() error {
		_, err := fc.runCommand(ctx, fc.resolver.Resolve(cfg.Command))
		return err
	}
	if cfg.File != "" {
		target = fc.path(fc.resolver.Resolve(cfg.File))
		ready = func() error {
			_, err := os.Stat(target)
			return err
		}
	}

	if fc.runner.config.Verbose {
		fmt.Fprintf(fc.runner.config.Output, "Waiting for %s (timeout: %v, interval: %v)\n", target, timeout, interval)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = ready(); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s not ready after %v: %v", target, timeout, lastErr)
		case <-ticker.C:
		}
	}
}
