// Package layout is the entry point for interpreting layout codes.
//
// A [Parser] tokenizes, parses, resolves and validates a layout code in one
// call and never fails on malformed user input: it always returns an
// [Outcome] holding an optional grid and a list of diagnostics.
//
//	p := layout.MustNewParser(layout.DefaultLimits())
//	out := p.Parse("aab/aac/ddd", layout.ParseOptions{})
//	if out.Valid {
//	    fmt.Println(out.Grid.Panels["a"].RowSpan) // 2
//	}
//
// Syntax and parse errors stop processing and leave the grid nil. Structural
// and range errors are collected; in tolerant mode the best-effort grid is
// returned alongside them for live preview.
//
// A Parser holds only its limits, so one value can be shared by any number of
// goroutines.
package layout

import (
	"encoding/json"

	"github.com/matzehuels/panelgrid/pkg/core/diag"
	"github.com/matzehuels/panelgrid/pkg/core/grid"
	"github.com/matzehuels/panelgrid/pkg/core/layoutcode"
	"github.com/matzehuels/panelgrid/pkg/errors"
)

const (
	// DefaultMaxLength is the default ceiling on layout code length in bytes.
	DefaultMaxLength = errors.DefaultMaxCodeLength

	// DefaultMaxDepth is the default nesting bound for regions, subpanels
	// and nested insets.
	DefaultMaxDepth = layoutcode.DefaultMaxDepth

	// MaxLengthCeiling and MaxDepthCeiling bound what Limits may configure.
	MaxLengthCeiling = 1 << 16
	MaxDepthCeiling  = 32
)

// Limits bounds the input a Parser accepts. Zero values select the defaults.
type Limits struct {
	MaxLength int  `json:"max_length,omitempty" toml:"max_length"`
	MaxDepth  int  `json:"max_depth,omitempty" toml:"max_depth"`
	AllowGaps bool `json:"allow_gaps,omitempty" toml:"allow_gaps"`
}

// DefaultLimits returns the default limits: 256 bytes, depth 6, no gaps.
func DefaultLimits() Limits {
	return Limits{MaxLength: DefaultMaxLength, MaxDepth: DefaultMaxDepth}
}

// ValidateAndSetDefaults rejects negative or oversized limits and fills in
// zero values.
func (l *Limits) ValidateAndSetDefaults() error {
	if l.MaxLength < 0 || l.MaxLength > MaxLengthCeiling {
		return errors.New(errors.ErrCodeInvalidConfig, "max length %d out of range [0, %d]", l.MaxLength, MaxLengthCeiling)
	}
	if l.MaxDepth < 0 || l.MaxDepth > MaxDepthCeiling {
		return errors.New(errors.ErrCodeInvalidConfig, "max depth %d out of range [0, %d]", l.MaxDepth, MaxDepthCeiling)
	}
	if l.MaxLength == 0 {
		l.MaxLength = DefaultMaxLength
	}
	if l.MaxDepth == 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	return nil
}

// Parser interprets layout codes under fixed limits.
type Parser struct {
	limits Limits
}

// NewParser returns a Parser for the given limits. Misconfigured limits fail
// with INVALID_CONFIG.
func NewParser(limits Limits) (*Parser, error) {
	if err := limits.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Parser{limits: limits}, nil
}

// MustNewParser is like NewParser but panics on misconfigured limits.
func MustNewParser(limits Limits) *Parser {
	p, err := NewParser(limits)
	if err != nil {
		panic(err)
	}
	return p
}

// Limits returns the parser's effective limits.
func (p *Parser) Limits() Limits { return p.limits }

// ParseOptions controls a single parse.
type ParseOptions struct {
	// Tolerant returns the best-effort grid even when errors were found.
	Tolerant bool `json:"tolerant,omitempty"`

	// References are names the caller intends to attach content to: panel
	// IDs ("a", "a.ii"), region names, inset references ("a#zoom") and
	// panels inside nested insets ("a#zoom.b"). Unknown names are reported
	// as UNKNOWN_REFERENCE.
	References []string `json:"references,omitempty"`
}

// Outcome is the result of interpreting a layout code.
type Outcome struct {
	// Grid is nil when the code could not be parsed, or when it has errors
	// and the parse was not tolerant.
	Grid        *grid.PanelGrid
	Valid       bool
	Diagnostics []diag.Diagnostic
}

// Report is the validate-only view of an Outcome.
type Report struct {
	Valid       bool              `json:"valid" yaml:"valid"`
	Diagnostics []diag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Report drops the grid.
func (o Outcome) Report() Report {
	return Report{Valid: o.Valid, Diagnostics: o.Diagnostics}
}

// Parse interprets code. It never panics on user input.
func (p *Parser) Parse(code string, opts ParseOptions) Outcome {
	var diags diag.List

	tree, err := layoutcode.Parse(code, layoutcode.Options{
		MaxLength: p.limits.MaxLength,
		MaxDepth:  p.limits.MaxDepth,
	})
	if err != nil {
		diags.Error(err)
		return Outcome{Diagnostics: diags.Items()}
	}
	for _, e := range tree.Errors {
		diags.Error(e)
	}

	g := grid.Resolve(tree.Root, grid.Options{AllowGaps: p.limits.AllowGaps}, &diags)
	validate(g, opts.References, &diags)

	items := diags.Items()
	valid := !diag.HasErrors(items)
	if !valid && !opts.Tolerant {
		g = nil
	}
	return Outcome{Grid: g, Valid: valid, Diagnostics: items}
}

// Validate interprets code and reports only validity and diagnostics.
func (p *Parser) Validate(code string, references ...string) Report {
	return p.Parse(code, ParseOptions{References: references}).Report()
}

var defaultParser = MustNewParser(DefaultLimits())

// Parse interprets code strictly under the default limits.
func Parse(code string) Outcome {
	return defaultParser.Parse(code, ParseOptions{})
}

// Validate checks code under the default limits.
func Validate(code string) Report {
	return defaultParser.Validate(code)
}

// outcomeDoc is the wire form of an Outcome: the grid's fields inlined next
// to valid and diagnostics.
type outcomeDoc struct {
	NRows       int                     `json:"nrows" yaml:"nrows"`
	NCols       int                     `json:"ncols" yaml:"ncols"`
	Panels      map[string]*grid.Panel  `json:"panels" yaml:"panels"`
	Regions     map[string]*grid.Region `json:"regions,omitempty" yaml:"regions,omitempty"`
	Gaps        []grid.Pos              `json:"gaps,omitempty" yaml:"gaps,omitempty"`
	Valid       bool                    `json:"valid" yaml:"valid"`
	Diagnostics []diag.Diagnostic       `json:"diagnostics" yaml:"diagnostics"`
}

func (o Outcome) doc() outcomeDoc {
	d := outcomeDoc{Valid: o.Valid, Diagnostics: o.Diagnostics}
	if d.Diagnostics == nil {
		d.Diagnostics = []diag.Diagnostic{}
	}
	if g := o.Grid; g != nil {
		d.NRows, d.NCols = g.NRows, g.NCols
		d.Panels, d.Regions, d.Gaps = g.Panels, g.Regions, g.Gaps
	}
	return d
}

// MarshalJSON encodes the outcome as
// {nrows, ncols, panels, regions, gaps, valid, diagnostics}.
// A missing grid encodes as "panels": null.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.doc())
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var d outcomeDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*o = Outcome{Valid: d.Valid, Diagnostics: d.Diagnostics}
	if d.Panels != nil {
		o.Grid = &grid.PanelGrid{NRows: d.NRows, NCols: d.NCols, Panels: d.Panels, Regions: d.Regions, Gaps: d.Gaps}
		if o.Grid.Regions == nil {
			o.Grid.Regions = make(map[string]*grid.Region)
		}
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler with the same shape as MarshalJSON.
func (o Outcome) MarshalYAML() (any, error) {
	return o.doc(), nil
}
