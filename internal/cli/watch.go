package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/gitlanes/pkg/pipeline"
)

// watchDebounce collapses the burst of events an editor save or a git
// command produces into one rebuild.
const watchDebounce = 250 * time.Millisecond

// watch renders input once, then again after every change until ctx is done.
// Render errors during the loop are reported and the loop keeps going.
func (c *CLI) watch(ctx context.Context, stdout io.Writer, input string, opts pipeline.Options, output string) error {
	dirs, match, err := watchTargets(input)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	if err := c.runRender(ctx, stdout, input, opts, output); err != nil {
		printWarning("%v", err)
	}
	printInfo("Watching %s (Ctrl+C to stop)", input)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !match(event.Name) {
				continue
			}
			c.Logger.Debug("input changed", "path", event.Name, "op", event.Op)
			timer.Reset(watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watcher error", "err", err)

		case <-timer.C:
			if err := c.runRender(ctx, stdout, input, opts, output); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				printWarning("%v", err)
			}
		}
	}
}

// watchTargets returns the directories to watch for input and a filter for
// event paths. A file is watched through its directory so that editors which
// replace the file on save are still seen. A repository is watched through
// HEAD, packed-refs and the branch refs.
func watchTargets(input string) ([]string, func(string) bool, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, nil, fmt.Errorf("input %s: %w", input, err)
	}

	if !info.IsDir() {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, nil, err
		}
		return []string{filepath.Dir(abs)}, func(name string) bool {
			p, err := filepath.Abs(name)
			return err == nil && p == abs
		}, nil
	}

	gitDir := filepath.Join(input, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("watch %s: not a git working tree", input)
	}
	dirs := []string{gitDir}
	heads := filepath.Join(gitDir, "refs", "heads")
	if _, err := os.Stat(heads); err == nil {
		dirs = append(dirs, heads)
	}
	return dirs, func(name string) bool {
		base := filepath.Base(name)
		if strings.HasSuffix(base, ".lock") {
			return false
		}
		return base == "HEAD" || base == "packed-refs" || filepath.Dir(name) == heads
	}, nil
}
