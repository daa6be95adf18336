package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchDelay time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDelay, "delay", 200*time.Millisecond, "Wait this long after the last change before converting")
	watchCmd.Flags().StringVarP(&midiOut, "midi", "m", "", "Also write a midi file to this path")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Reconverts a saved request whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return watchFile(cmd.Context(), args[0], watchDelay, func(notation string, err error) {
			if err != nil {
				slog.Error("Could not convert", "file", args[0], "error", err)
				return
			}
			fmt.Fprintln(out, notation)
		})
	},
}

// watchFile converts path once, then again after every change to it,
// until ctx is done. Reconversions call onResult from the debounce
// timer's goroutine, never after watchFile has returned.
func watchFile(ctx context.Context, path string, delay time.Duration, onResult func(string, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("could not watch %v: %w", path, err)
	}

	// a pending debounced run must not fire once we've returned
	var mu sync.Mutex
	stopped := false
	defer func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
	}()

	run := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			onResult("", err)
			return
		}
		onResult(convert(data, midiOut))
	}
	run()

	debounced := debounce.New(delay)
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != abs {
				continue
			}
			if evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) {
				slog.Debug("File changed", "file", evt.Name, "op", evt.Op.String())
				debounced(run)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}
