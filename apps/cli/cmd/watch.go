package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond

	// WatchMinInterval is the minimum time between two watch re-runs
	WatchMinInterval = time.Second
)

func watch(ctx context.Context, stdout io.Writer, args, files []string, opts *checkOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(args, files) {
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to watch %s: %v\n", dir, err)
		}
	}

	fmt.Fprintf(stdout, "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	limiter := rate.NewLimiter(rate.Every(WatchMinInterval), 1)
	var debounce <-chan time.Time
	var changed string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantChange(event, opts.outputDir) {
				continue
			}
			changed = event.Name
			debounce = time.After(WatchDebounceDelay)

		case <-debounce:
			debounce = nil
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			fmt.Fprintf(stdout, "\n\nFile changed: %s\nRe-running checks...\n\n", changed)

			files, err := checkfile.Discover(args)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			if _, err := runAll(ctx, stdout, files, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			fmt.Fprintf(stdout, "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "warning: watcher error: %v\n", err)
		}
	}
}

// watchDirs returns the directories holding the check files plus every
// directory below the directory arguments.
func watchDirs(args, files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, file := range files {
		add(filepath.Dir(file))
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			continue
		}
		_ = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if path != arg && ignoredDir(d.Name()) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
	}
	return dirs
}

func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__snapshots__"
}

// relevantChange filters out events that a run causes itself: snapshot
// writes and reports.
func relevantChange(event fsnotify.Event, outputDir string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(event.Name)), "/") {
		if part == "__snapshots__" {
			return false
		}
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") && !strings.HasPrefix(base, ".env") {
		return false
	}
	if outputDir != "" {
		if rel, err := filepath.Rel(outputDir, event.Name); err == nil && !strings.HasPrefix(rel, "..") {
			return false
		}
	}
	return true
}
