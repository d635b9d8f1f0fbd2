package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ievis/pkg/pipeline"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// watchCommand re-exports a document every time it changes on disk.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [model.json|model.yaml]",
		Short: "Re-export a document whenever it changes",
		Long: `Re-export a document whenever it changes.

The document is exported once on start and again after every save. Parse
errors are reported and the previous outputs are left in place. Stop with
Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			runner, err := c.newRunner(cmd, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.watch(cmd.Context(), args[0], func(ctx context.Context) {
				if _, err := c.runExport(ctx, runner, args[0], output, opts); err != nil {
					printError("%v", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	flags.bind(cmd, true)
	return cmd
}

// watch calls run once, then again after each write to path, until ctx
// ends. The parent directory is watched so editors that save by renaming
// a temporary file are seen too.
func (c *CLI) watch(ctx context.Context, path string, run func(context.Context)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	logger := loggerFromContext(ctx)
	run(ctx)
	printInfo("Watching %s", path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("change", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-fire:
			fire = nil
			run(ctx)
		}
	}
}
