package grid

import (
	"maps"
	"slices"

	"github.com/matzehuels/panelgrid/pkg/core/diag"
	"github.com/matzehuels/panelgrid/pkg/core/layoutcode"
)

// GapLabel marks an empty cell when gaps are enabled.
const GapLabel = "."

// Options controls resolution.
type Options struct {
	// AllowGaps accepts '.' cells as empty space instead of reporting
	// INVALID_CHARACTER.
	AllowGaps bool
}

// Resolve turns a parsed layout into a PanelGrid.
//
// Structural and range problems are recorded in diags and the offending
// sub-structure is left out, so the returned grid is always usable for a
// best-effort preview. A nil root yields an empty grid. The grid shares no
// memory with the tree.
func Resolve(root layoutcode.Node, opts Options, diags *diag.List) *PanelGrid {
	r := &resolver{opts: opts, diags: diags}
	return r.build(r.resolveNode(root, ""), "")
}

type resolver struct {
	opts  Options
	diags *diag.List
}

// placement is a panel's position within a frame plus its merged specs.
type placement struct {
	cell    layoutcode.Cell
	row     int
	col     int
	rowSpan int
	colSpan int
}

// frame is an intermediate coordinate space: one grid block, or several
// joined by composition.
type frame struct {
	rows    int
	cols    int
	offset  int
	panels  map[string]*placement
	regions map[string]*Region
	gaps    []Pos
}

func newFrame(rows, cols, offset int) *frame {
	return &frame{
		rows:    rows,
		cols:    cols,
		offset:  offset,
		panels:  make(map[string]*placement),
		regions: make(map[string]*Region),
	}
}

func (f *frame) labels() []string {
	return slices.Sorted(maps.Keys(f.panels))
}

func (r *resolver) resolveNode(n layoutcode.Node, scope string) *frame {
	switch n := n.(type) {
	case *layoutcode.GridBlock:
		return r.resolveBlock(n, scope)
	case *layoutcode.NamedRegion:
		return r.resolveRegion(n, scope)
	case *layoutcode.Composition:
		return r.resolveComposition(n, scope)
	}
	return nil
}

// build converts a frame into a PanelGrid. scope names the grid's label
// namespace: empty for the top level, "a#zoom" for an inset of panel a.
func (r *resolver) build(f *frame, scope string) *PanelGrid {
	if f == nil {
		return newPanelGrid(0, 0)
	}
	g := newPanelGrid(f.rows, f.cols)
	g.Gaps = slices.Clone(f.gaps)

	for _, label := range f.labels() {
		pl := f.panels[label]
		p := &Panel{
			ID:      label,
			Label:   label,
			Row:     pl.row,
			Col:     pl.col,
			RowSpan: pl.rowSpan,
			ColSpan: pl.colSpan,
			Bounds:  cellRect(pl.row, pl.col, pl.rowSpan, pl.colSpan, f.rows, f.cols),
			Offset:  pl.cell.Offset,
		}
		r.expandSubpanels(p, pl.cell.Subpanel, scope)
		r.resolveInsets(p, pl.cell.Insets, scope)
		g.Panels[label] = p
	}

	for name, reg := range f.regions {
		reg.Bounds = cellRect(reg.Row, reg.Col, reg.RowSpan, reg.ColSpan, f.rows, f.cols)
		g.Regions[name] = reg
	}
	return g
}

// Qualify joins a scope and a panel ID into a path usable as a reference:
// "a.ii" at the top level, "a#zoom.b" inside an inset.
func Qualify(scope, id string) string {
	if scope == "" {
		return id
	}
	return scope + "." + id
}
