package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelgrid/pkg/pipeline"
)

// watchDebounce coalesces the burst of events editors emit per save.
const watchDebounce = 100 * time.Millisecond

// watchCommand creates the watch command that re-renders a layout file on
// every save.
func (c *CLI) watchCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a layout file whenever it changes",
		Long: `Watch a file holding a layout code and re-render it on every save.
Invalid layouts are reported and the watch continues.

Example:
  panelgrid watch -f svg,tree figure.layout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.cfg.Render.Formats)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			opts.layout.file = args[0]
			base := outputBase(&opts)

			rerender := func() {
				code, err := readCodeFile(opts.layout.file)
				if err == nil {
					err = c.runRender(cmd.Context(), code, base, &opts)
				}
				switch {
				case errors.Is(err, errInvalidLayout):
					printWarning("Layout is invalid, waiting for changes")
				case err != nil:
					printError("%v", err)
				}
			}

			rerender()
			printInfo("Watching %s (ctrl+c to stop)", StyleHighlight.Render(args[0]))
			return watchFile(cmd.Context(), args[0], rerender)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), tree, dot, json, yaml (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "wireframe width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "wireframe height")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "wireframe theme: light, dark")
	cmd.Flags().BoolVar(&opts.hideLabels, "hide-labels", false, "omit panel labels from the wireframe")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show bounds in the structure diagram")
	cmd.Flags().BoolVar(&opts.layout.tolerant, "tolerant", false, "keep the partial grid when the layout is invalid")
	cmd.Flags().StringSliceVar(&opts.layout.references, "ref", nil, "panel or region labels that content refers to (repeatable)")

	return cmd
}

// watchFile calls onChange after each write to path until ctx is done. The
// parent directory is watched so editors that save by rename are seen.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(watchDebounce)
			}
		case <-timer.C:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("Watcher error: %v", err)
		}
	}
}
