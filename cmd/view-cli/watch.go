package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// watchTemplates calls onChange after a burst of file events under root
// settles, until ctx is done. New directories are watched as they appear.
// Events on the ignored paths, such as the render output, are dropped.
func watchTemplates(ctx context.Context, root string, logger *slog.Logger, onChange func(), ignore ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("view-cli: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		return err
	}
	logger.Info("watching templates", "root", root)

	ignored := make(map[string]struct{}, len(ignore))
	for _, path := range ignore {
		if path != "" {
			ignored[absPath(path)] = struct{}{}
		}
	}

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if _, skip := ignored[absPath(event.Name)]; skip {
				continue
			}
			if event.Has(fsnotify.Create) {
				if err := addRecursive(watcher, event.Name); err != nil {
					logger.Warn("watch new path failed", "path", event.Name, "error", err)
				}
			}
			logger.Debug("template change", "path", event.Name, "op", event.Op.String())
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer.C:
			onChange()
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("view-cli: watch %s: %w", path, err)
		}
		return nil
	})
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
