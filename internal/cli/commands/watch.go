package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchInputs calls onChange for an input file once it has been quiet for
// debounce after a write. Directories holding the files are watched so
// editors that save by renaming are seen. It returns when ctx is done.
func watchInputs(ctx context.Context, inputs []input, debounce time.Duration, logger *slog.Logger, onChange func(input)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	byPath := make(map[string]input, len(inputs))
	dirs := make(map[string]bool)
	for _, in := range inputs {
		abs, err := filepath.Abs(in.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", in.Path, err)
		}
		byPath[abs] = in
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	// Debounced paths are handed back to this goroutine so onChange calls
	// never overlap.
	fire := make(chan string)
	done := make(chan struct{})
	defer close(done)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path := filepath.Clean(event.Name)
			if _, ok := byPath[path]; !ok {
				continue
			}
			if t := timers[path]; t != nil {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounce, func() {
				select {
				case fire <- path:
				case <-done:
				}
			})

		case path := <-fire:
			delete(timers, path)
			logger.Debug("change detected", "path", path)
			onChange(byPath[path])

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
