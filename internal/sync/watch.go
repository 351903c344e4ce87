package sync

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange after markdown files below any of dirs change,
// coalescing bursts of events that arrive within debounce. It blocks until
// ctx is done.
func Watch(ctx context.Context, dirs []string, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range dirs {
		if err := addTree(w, dir); err != nil {
			return err
		}
	}
	slog.Debug("Watching card sources", "dirs", dirs)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// New directories need their own watch.
				if err := addTree(w, ev.Name); err == nil {
					slog.Debug("Watching new directory", "path", ev.Name)
				}
			}
			if !strings.HasSuffix(strings.ToLower(ev.Name), ".md") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Source watch error", "error", err)
		}
	}
}

// addTree watches root and every directory below it, skipping .git.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
