package cli

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelgrid/pkg/pipeline"
)

// defaultBase names output files when neither --output nor an input file or
// template gives a name.
const defaultBase = "layout"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	layout     layoutFlags
	output     string   // output file (single format) or base path (multiple)
	formats    []string // json, yaml, svg, dot, tree
	width      float64  // wireframe width in pixels
	height     float64  // wireframe height in pixels
	theme      string   // wireframe theme: light, dark
	hideLabels bool     // omit panel labels from the wireframe
	detailed   bool     // add bounds to structure diagram nodes
	noCache    bool     // bypass the cache entirely
	refresh    bool     // recompute and overwrite cached entries
	workers    int      // concurrent format renders
}

// renderCommand creates the render command for writing layout artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [code|-]",
		Short: "Render a layout code to wireframe SVG, DOT, JSON or YAML files",
		Long: `Render a layout code to one or more artifact files.

Formats:
  svg   wireframe preview of the panel grid
  tree  structure diagram (graphviz SVG) of regions, panels and insets
  dot   the structure diagram as graphviz DOT source
  json  the outcome document
  yaml  the outcome document as YAML

Examples:
  panelgrid render "aab/aac/ddd"
  panelgrid render -f svg,tree -o figure "[main:ab]/cc"
  panelgrid render --theme dark --width 1200 -i layout.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.cfg.Render.Formats)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			code, err := c.readLayout(cmd, args, &opts.layout)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), code, outputBase(&opts), &opts)
		},
	}

	c.registerLayoutFlags(cmd, &opts.layout)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), tree, dot, json, yaml (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "wireframe width (default from config, 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "wireframe height (default from config, 600)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "wireframe theme: light (default), dark")
	cmd.Flags().BoolVar(&opts.hideLabels, "hide-labels", false, "omit panel labels from the wireframe")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show bounds in the structure diagram")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached results")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent format renders (default GOMAXPROCS)")

	return cmd
}

// outputBase derives the base output path from --output, the input file or
// the template name.
func outputBase(opts *renderOpts) string {
	if opts.output != "" {
		return basePath(opts.output)
	}
	switch {
	case opts.layout.file != "":
		return basePath(opts.layout.file)
	case opts.layout.template != "":
		return opts.layout.template
	}
	return defaultBase
}

// basePath strips a known artifact extension from p.
func basePath(p string) string {
	if ext := fileExt(pipeline.FormatTree); strings.HasSuffix(p, ext) {
		return strings.TrimSuffix(p, ext)
	}
	for _, f := range pipeline.Formats {
		if ext := fileExt(f); strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	if ext := filepath.Ext(p); ext == ".txt" || ext == ".layout" {
		return strings.TrimSuffix(p, ext)
	}
	return p
}

// fileExt returns the file extension for a format. Structure diagrams are
// SVG files too, so they get a distinct suffix.
func fileExt(format string) string {
	if format == pipeline.FormatTree {
		return ".tree.svg"
	}
	return "." + format
}

// outputPath returns the file a format is written to. A single format with
// an explicit --output that already has an extension is written verbatim.
func outputPath(base, format string, opts *renderOpts) string {
	if len(opts.formats) == 1 && opts.output != "" && filepath.Ext(opts.output) != "" {
		return opts.output
	}
	return base + fileExt(format)
}

func (c *CLI) runRender(ctx context.Context, code, base string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %q", code)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions(code, &opts.layout)
	popts.Formats = opts.formats
	popts.Width = cmp.Or(opts.width, c.cfg.Render.Width)
	popts.Height = cmp.Or(opts.height, c.cfg.Render.Height)
	popts.Theme = cmp.Or(opts.theme, c.cfg.Render.Theme)
	popts.HideLabels = opts.hideLabels
	popts.Detailed = opts.detailed
	popts.Refresh = opts.refresh
	popts.Workers = opts.workers

	spinner := newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Rendering %s", strings.Join(opts.formats, ", ")))
	spinner.Start()
	res, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	for _, format := range opts.formats {
		data, ok := res.Artifacts[format]
		if !ok {
			printWarning("Skipped %s: layout is invalid", format)
			continue
		}
		path := outputPath(base, format, opts)
		if err := writeArtifact(path, data); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(data))
		printFile(path)
	}
	printStats(res.Stats, res.CacheInfo.ParseHit && res.CacheInfo.RenderHit)

	if len(res.Outcome.Diagnostics) > 0 {
		writeDiagnostics(os.Stdout, code, res.Outcome.Diagnostics)
	}
	if !res.Outcome.Valid {
		return errInvalidLayout
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
