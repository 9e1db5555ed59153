package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
)

// runBeforeHooks runs hooks in order and stops at the first failure.
func (fc *fileRun) runBeforeHooks(ctx context.Context, hooks []*checkfile.Hook) error {
	for _, hook := range hooks {
		if err := fc.runHook(ctx, hook); err != nil {
			return err
		}
	}
	return nil
}

// runAfterHooks runs every hook even when one fails, since after hooks are
// usually cleanup. When failed is set only hooks marked always run.
func (fc *fileRun) runAfterHooks(ctx context.Context, hooks []*checkfile.Hook, failed bool) error {
	var firstErr error
	for _, hook := range hooks {
		if failed && !hook.Always {
			continue
		}
		if err := fc.runHook(ctx, hook); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (fc *fileRun) runHook(ctx context.Context, hook *checkfile.Hook) error {
	if stmt := strings.TrimSpace(fc.resolver.Resolve(hook.Exec)); stmt != "" {
		client, err := fc.client(fc.resolver.Resolve(hook.Database))
		if err != nil {
			return fmt.Errorf("hook: %w", err)
		}
		if err := client.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("hook: %w", err)
		}
		return nil
	}

	if _, err := fc.runCommand(ctx, fc.resolver.Resolve(hook.Run)); err != nil {
		return fmt.Errorf("hook: %w", err)
	}
	return nil
}
