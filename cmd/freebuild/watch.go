package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/freebuild/compiler/load"
)

// debounce is how long watch waits for further changes before regenerating.
const debounce = 200 * time.Millisecond

// watch calls regenerate after source files in dirs change, until ctx is
// done. Errors of regenerate are logged, not returned.
func watch(ctx context.Context, logger *slog.Logger, dirs []string, regenerate func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Info("watching", "dir", dir)
	}

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isSourceChange(ev) {
				continue
			}
			logger.Debug("source changed", "file", ev.Name, "op", ev.Op.String())
			fire = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			if err := regenerate(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("generation failed", "error", err)
			}
		}
	}
}

// isSourceChange reports whether ev changes a Go source file that was not
// written by the generator.
func isSourceChange(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || strings.HasPrefix(name, ".") {
		return false
	}
	if !strings.HasSuffix(name, load.GeneratedSuffix) {
		return true
	}
	src, err := os.ReadFile(ev.Name)
	if err != nil {
		// A removed generated file is restored by regenerating.
		return ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
	}
	return !load.IsGenerated(src)
}
