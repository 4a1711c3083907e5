package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/miruji/RTS-sub000/pkg/driver"
	"github.com/miruji/RTS-sub000/pkg/interpreter"
)

// runWatch runs a script, then runs it again every time it is written until
// ctx is cancelled.
func (c *cli) runWatch(ctx context.Context, args []string) error {
	path, rest, err := entryPath(args)
	if err != nil {
		return err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	// Editors often replace files on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	c.runOnce(ctx, path, rest)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watch: events channel closed")
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				c.logger.Debug("source changed", slog.String("path", path), slog.String("op", event.Op.String()))
				c.runOnce(ctx, path, rest)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watch: errors channel closed")
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}

// runOnce reports failures without stopping the watch loop.
func (c *cli) runOnce(ctx context.Context, path string, args []string) {
	err := driver.RunFile(ctx, path, c.runOptions(args))
	if err == nil || ctx.Err() != nil {
		return
	}
	if code, ok := interpreter.ExitCodeFromError(err); ok {
		fmt.Fprintf(c.stderr, "rts: exited with status %d\n", code)
		return
	}
	fmt.Fprintf(c.stderr, "rts: %v\n", err)
}
