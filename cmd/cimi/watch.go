package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-parse a file every time it is written",
		Long: `Parse the file once, then again after every write until interrupted.

Errors in the file are reported but do not stop watching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], nil)
		},
	}
	cmd.Flags().StringVarP(&a.format, "format", "f", "", "AST output format: sexpr, tree or json")
	return cmd
}

// watch parses path and re-parses it on every change until ctx is done.
// If ready is non-nil it is closed once the watcher is running.
func (a *app) watch(ctx context.Context, path string, ready chan<- struct{}) error {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return usageError(err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return usageError(fmt.Errorf("watch: %w", err))
	}
	defer w.Close()

	// Watch the directory: editors often replace a file instead of
	// writing it in place.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return usageError(fmt.Errorf("watch %s: %w", path, err))
	}

	runs := 0
	reparse := func() {
		runs++
		src, err := os.ReadFile(path)
		if err != nil {
			a.log.Warn("watch: read failed", "file", path, "err", err)
			return
		}
		fmt.Fprintf(a.stderr, "--- %s (run %d)\n", path, runs)
		if err := a.runOnce(path, src); err != nil {
			a.log.Info("watch: errors", "file", path, "run", runs, "err", err)
		}
	}

	reparse()
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			a.log.Debug("watch: stopped", "file", path, "runs", runs)
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reparse()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch: watcher error", "err", err)
		}
	}
}
