// Package pipeline runs layout codes through interpretation and rendering.
//
// The CLI and the HTTP service share this package so caching, defaults and
// validation behave the same everywhere.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Interpret: tokenize, parse, resolve and validate the layout code
//     into a [layout.Outcome]. Outcomes are cached by code and limits.
//  2. Render: turn the outcome into artifacts (JSON, YAML, wireframe SVG,
//     DOT, structure SVG). Formats render concurrently on a bounded pool and
//     are cached by outcome hash and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Code:    "aab/aac/ddd",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelgrid/pkg/cache"
	"github.com/matzehuels/panelgrid/pkg/errors"
	"github.com/matzehuels/panelgrid/pkg/layout"
	"github.com/matzehuels/panelgrid/pkg/render/wireframe"
)

const (
	// DefaultWidth is the default wireframe width in pixels.
	DefaultWidth = wireframe.DefaultWidth

	// DefaultHeight is the default wireframe height in pixels.
	DefaultHeight = wireframe.DefaultHeight

	// DefaultTheme is the default wireframe theme.
	DefaultTheme = "light"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatTree = "tree"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatYAML, FormatSVG, FormatDOT, FormatTree}

// Options configures a pipeline run. It doubles as the JSON body of render
// requests.
type Options struct {
	// Interpretation options
	Code       string        `json:"layout"`
	Limits     layout.Limits `json:"limits,omitzero"`
	Tolerant   bool          `json:"tolerant,omitempty"`
	References []string      `json:"references,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Width      float64  `json:"width,omitempty"`
	Height     float64  `json:"height,omitempty"`
	Theme      string   `json:"theme,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Workers int         `json:"-"`
	Logger  *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Outcome is the interpreted layout.
	Outcome layout.Outcome

	// OutcomeHash is the content hash of the encoded outcome.
	OutcomeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Panels     int
	Errors     int
	Warnings   int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the outcome came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats)
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that theme names a built-in wireframe theme.
func ValidateTheme(theme string) error {
	if _, ok := wireframe.Themes[theme]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid theme: %q (must be one of: dark, light)", theme)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the interpretation options.
func (o *Options) ValidateForParse() error {
	if err := o.Limits.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults fills in render defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender fills in render defaults and checks the render options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be positive")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// OutcomeKeyOpts returns cache key options for interpretation.
func (o *Options) OutcomeKeyOpts() cache.OutcomeKeyOpts {
	return cache.OutcomeKeyOpts{
		MaxLength:  o.Limits.MaxLength,
		MaxDepth:   o.Limits.MaxDepth,
		AllowGaps:  o.Limits.AllowGaps,
		Tolerant:   o.Tolerant,
		References: o.References,
	}
}

// ArtifactKeyOpts returns cache key options for rendering format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Width, k.Height = o.Width, o.Height
		k.Theme = o.Theme
		k.ShowLabels = !o.HideLabels
	case FormatDOT, FormatTree:
		k.Detailed = o.Detailed
	}
	return k
}

func (s Stats) String() string {
	return fmt.Sprintf("%d panels, %d errors, %d warnings", s.Panels, s.Errors, s.Warnings)
}
