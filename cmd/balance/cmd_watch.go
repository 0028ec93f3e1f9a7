package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch file",
		Short: "Diagnose a file and run again whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			run := func() {
				err := runDiagnose(cmd, o, []string{path})
				if err != nil && !errors.Is(err, errFailed) {
					fmt.Fprintln(cmd.ErrOrStderr(), "balance:", err)
				}
			}
			run()
			return watchFile(cmd.Context(), path, o.logger, run)
		},
	}
}

// watchFile calls onChange after every write to path until ctx is done.
// The parent directory is watched so editors that replace the file on save
// are still picked up.
func watchFile(ctx context.Context, path string, log *zap.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	log.Info("watching", zap.String("path", target))

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				log.Debug("file changed", zap.String("op", ev.Op.String()))
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		case <-ctx.Done():
			return nil
		}
	}
}
