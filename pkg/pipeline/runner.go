package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelgrid/pkg/cache"
	"github.com/matzehuels/panelgrid/pkg/core/diag"
	"github.com/matzehuels/panelgrid/pkg/layout"
	"github.com/matzehuels/panelgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute interprets opts.Code and renders every requested format.
//
// An invalid layout is not an error: the outcome and its diagnostics are
// returned and formats that need a grid are skipped when none is available.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Interpret
	parseStart := time.Now()
	out, hit, err := r.InterpretWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("interpret: %w", err)
	}
	result.Outcome = out
	result.OutcomeHash = OutcomeHash(out)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Errors, result.Stats.Warnings = diag.Count(out.Diagnostics)
	if out.Grid != nil {
		result.Stats.Panels = len(out.Grid.Panels)
	}
	result.CacheInfo.ParseHit = hit

	r.Logger.Info("interpreted layout",
		"valid", out.Valid,
		"panels", result.Stats.Panels,
		"errors", result.Stats.Errors,
		"warnings", result.Stats.Warnings,
		"duration", result.Stats.ParseTime)

	// Stage 2: Render
	formats := opts.Formats
	if out.Grid == nil {
		formats = gridlessFormats(formats)
		if len(formats) < len(opts.Formats) {
			r.Logger.Warn("layout has no grid, skipping drawn formats")
		}
	}
	if len(formats) == 0 {
		return result, nil
	}
	renderOpts := opts
	renderOpts.Formats = formats

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, out, renderOpts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// InterpretWithCacheInfo interprets opts.Code with caching and returns
// whether the outcome came from cache.
func (r *Runner) InterpretWithCacheInfo(ctx context.Context, opts Options) (layout.Outcome, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return layout.Outcome{}, false, err
	}

	cacheKey := r.Keyer.OutcomeKey(opts.Code, opts.OutcomeKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var out layout.Outcome
			if err := json.Unmarshal(data, &out); err == nil {
				observability.Cache().OnCacheHit(ctx, observability.CacheOutcome)
				return out, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, observability.CacheOutcome)
	}

	parser, err := layout.NewParser(opts.Limits)
	if err != nil {
		return layout.Outcome{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnInterpretStart(ctx, len(opts.Code))
	start := time.Now()
	out := parser.Parse(opts.Code, layout.ParseOptions{
		Tolerant:   opts.Tolerant,
		References: opts.References,
	})
	ev := observability.InterpretEvent{
		CodeLen:  len(opts.Code),
		Valid:    out.Valid,
		Duration: time.Since(start),
	}
	if out.Grid != nil {
		ev.Panels = len(out.Grid.Panels)
	}
	ev.Errors, ev.Warnings = diag.Count(out.Diagnostics)
	hooks.OnInterpretComplete(ctx, ev)

	if data, err := json.Marshal(out); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLOutcome); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, observability.CacheOutcome, len(data))
		}
	}

	return out, false, nil
}

// Interpret is a convenience wrapper that discards the cache hit info.
func (r *Runner) Interpret(ctx context.Context, opts Options) (layout.Outcome, error) {
	out, _, err := r.InterpretWithCacheInfo(ctx, opts)
	return out, err
}

// RenderWithCacheInfo renders out in every format of opts and reports
// whether all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, out layout.Outcome, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hash := OutcomeHash(out)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, observability.CacheArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, observability.CacheArtifact)
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, out, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, observability.CacheArtifact, len(data))
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, out layout.Outcome, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, out, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// OutcomeHash returns the content hash of out's JSON encoding.
func OutcomeHash(out layout.Outcome) string {
	data, err := json.Marshal(out)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
