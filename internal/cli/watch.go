package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay lets editors finish writing before the file is re-read.
const debounceDelay = 100 * time.Millisecond

// Watch renders a snapshot file, then renders it again after every change
// until ctx is done.
func (r *Runner) Watch(ctx context.Context, opts RenderOptions) error {
	if len(opts.Paths) != 1 || opts.Paths[0] == "-" {
		return fmt.Errorf("watch needs exactly one snapshot file")
	}
	if _, err := r.Formats.Lookup(opts.Format); err != nil {
		return err
	}
	path := opts.Paths[0]
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	render := func() {
		if err := r.renderOne(ctx, path, opts); err != nil {
			r.Logger.Error("render failed", "file", path, "err", err)
			printSystemMessage(r.Stderr, "Render failed: %v", err)
		}
	}

	render()
	printSystemMessage(r.Stderr, "Watching '%s' for changes...", path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("stopping watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				r.Logger.Debug("change detected", "event", event.String())
				debounce = time.After(debounceDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Logger.Error("watch error", "err", err)
		case <-debounce:
			debounce = nil
			printSystemMessage(r.Stderr, "Change detected in '%s'.", path)
			render()
		}
	}
}
