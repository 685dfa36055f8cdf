package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/matzehuels/panelgrid/pkg/errors"
	"github.com/matzehuels/panelgrid/pkg/layout"
	"github.com/matzehuels/panelgrid/pkg/observability"
	"github.com/matzehuels/panelgrid/pkg/render/tree"
	"github.com/matzehuels/panelgrid/pkg/render/wireframe"
)

// NeedsGrid reports whether format draws the grid, as opposed to encoding
// the outcome.
func NeedsGrid(format string) bool {
	switch format {
	case FormatSVG, FormatDOT, FormatTree:
		return true
	}
	return false
}

func gridlessFormats(formats []string) []string {
	return slices.DeleteFunc(slices.Clone(formats), NeedsGrid)
}

// Render generates artifacts for out in every format of opts. Formats render
// concurrently on at most opts.Workers goroutines.
func Render(ctx context.Context, out layout.Outcome, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if out.Grid == nil {
		for _, f := range opts.Formats {
			if NeedsGrid(f) {
				return nil, errors.New(errors.ErrCodeInvalidInput, "format %s needs a valid layout", f)
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, out, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, observability.RenderEvent{Formats: opts.Formats, Duration: time.Since(start), Err: err})
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, out layout.Outcome, format string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(out, "", "  ")
	case FormatYAML:
		return yaml.Marshal(out)
	case FormatSVG:
		theme, ok := wireframe.Themes[opts.Theme]
		if !ok {
			theme = wireframe.Light
		}
		return wireframe.RenderSVG(out.Grid,
			wireframe.WithSize(opts.Width, opts.Height),
			wireframe.WithTheme(theme),
			wireframe.WithLabels(!opts.HideLabels),
		), nil
	case FormatDOT:
		return []byte(tree.ToDOT(out.Grid, tree.Options{Detailed: opts.Detailed})), nil
	case FormatTree:
		return tree.RenderSVG(ctx, tree.ToDOT(out.Grid, tree.Options{Detailed: opts.Detailed}))
	default:
		return nil, ValidateFormat(format)
	}
}
