// Package cli implements the panelgrid command-line interface.
//
// Commands interpret layout codes, render wireframe and structure previews,
// browse figure templates, run the HTTP service and manage the pipeline
// cache:
//
//   - parse: interpret a layout code and print the outcome document
//   - validate: report validity and diagnostics only
//   - render: write JSON, YAML, wireframe SVG, DOT or structure SVG files
//   - templates: list and show built-in and user figure templates
//   - serve: run the HTTP API
//   - watch: re-render a layout file whenever it changes
//   - preview: edit a layout code interactively
//   - cache: inspect and clear the on-disk cache
//
// Human-facing output (icons, tables, grids) goes to stdout or stderr through
// the helpers in ui.go. Operational messages go through a charmbracelet
// logger that --verbose switches to debug level; commands get it from their
// context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelgrid/pkg/pipeline"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logResult reports a finished pipeline run as one structured line.
func logResult(l *log.Logger, msg string, res *pipeline.Result) {
	kv := []any{
		"panels", res.Stats.Panels,
		"errors", res.Stats.Errors,
		"warnings", res.Stats.Warnings,
		"parse", res.Stats.ParseTime.Round(time.Microsecond),
	}
	if res.Stats.RenderTime > 0 {
		kv = append(kv, "render", res.Stats.RenderTime.Round(time.Microsecond))
	}
	if res.CacheInfo.ParseHit {
		kv = append(kv, "cached", true)
	}
	l.Info(msg, kv...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
