package grid

import (
	"maps"
	"slices"
)

// Rect is a rectangle in fractions of its enclosing frame. X and Y locate the
// top-left corner.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Unit is the whole enclosing frame.
var Unit = Rect{X: 0, Y: 0, W: 1, H: 1}

// Within maps r, given relative to outer, into outer's frame.
func (r Rect) Within(outer Rect) Rect {
	return Rect{
		X: outer.X + r.X*outer.W,
		Y: outer.Y + r.Y*outer.H,
		W: r.W * outer.W,
		H: r.H * outer.H,
	}
}

// cellRect returns the fraction rectangle of a span in a rows x cols grid.
func cellRect(row, col, rowSpan, colSpan, rows, cols int) Rect {
	return Rect{
		X: float64(col) / float64(cols),
		Y: float64(row) / float64(rows),
		W: float64(colSpan) / float64(cols),
		H: float64(rowSpan) / float64(rows),
	}
}

// Dims is the shape of a subpanel grid.
type Dims struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// Pos is a cell position in a grid.
type Pos struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Panel is a resolved panel. Row, Col and the spans are grid-local and
// 0-indexed; Bounds is relative to the enclosing frame: the figure for
// top-level panels, the parent panel for subpanels, the inset for panels of a
// nested inset grid.
type Panel struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Row      int      `json:"row" yaml:"row"`
	Col      int      `json:"col" yaml:"col"`
	RowSpan  int      `json:"rowspan" yaml:"rowspan"`
	ColSpan  int      `json:"colspan" yaml:"colspan"`
	Bounds   Rect     `json:"bounds" yaml:"bounds"`
	Subgrid  *Dims    `json:"subgrid,omitempty" yaml:"subgrid,omitempty"`
	Children []*Panel `json:"subpanels,omitempty" yaml:"subpanels,omitempty"`
	Insets   []*Inset `json:"insets,omitempty" yaml:"insets,omitempty"`

	// Offset is the byte offset of the panel's first occurrence.
	Offset int `json:"-" yaml:"-"`
}

// InsetKind distinguishes absolute and nested insets.
type InsetKind string

const (
	InsetAbsolute InsetKind = "absolute"
	InsetNested   InsetKind = "nested"
)

// Inset is a resolved inset. Absolute insets carry their fraction rectangle;
// nested insets fill the parent panel and carry a self-contained grid with
// its own label namespace.
type Inset struct {
	Kind   InsetKind  `json:"kind" yaml:"kind"`
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
	Bounds Rect       `json:"bounds" yaml:"bounds"`
	Grid   *PanelGrid `json:"grid,omitempty" yaml:"grid,omitempty"`
	Source string     `json:"source,omitempty" yaml:"source,omitempty"`

	// Scope names the nested grid's namespace, such as "a#zoom" or "a#2".
	Scope  string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Offset int    `json:"-" yaml:"-"`
}

// Region is the extent of a named region in its grid.
type Region struct {
	Name    string   `json:"name" yaml:"name"`
	Row     int      `json:"row" yaml:"row"`
	Col     int      `json:"col" yaml:"col"`
	RowSpan int      `json:"rowspan" yaml:"rowspan"`
	ColSpan int      `json:"colspan" yaml:"colspan"`
	Bounds  Rect     `json:"bounds" yaml:"bounds"`
	Labels  []string `json:"labels" yaml:"labels"`
	Offset  int      `json:"-" yaml:"-"`
}

// PanelGrid is a resolved layout.
type PanelGrid struct {
	NRows   int                `json:"nrows" yaml:"nrows"`
	NCols   int                `json:"ncols" yaml:"ncols"`
	Panels  map[string]*Panel  `json:"panels" yaml:"panels"`
	Regions map[string]*Region `json:"regions,omitempty" yaml:"regions,omitempty"`
	Gaps    []Pos              `json:"gaps,omitempty" yaml:"gaps,omitempty"`
}

func newPanelGrid(rows, cols int) *PanelGrid {
	return &PanelGrid{
		NRows:   rows,
		NCols:   cols,
		Panels:  make(map[string]*Panel),
		Regions: make(map[string]*Region),
	}
}

// Labels returns the top-level panel labels in sorted order.
func (g *PanelGrid) Labels() []string {
	return slices.Sorted(maps.Keys(g.Panels))
}

// RegionNames returns the region names in sorted order.
func (g *PanelGrid) RegionNames() []string {
	return slices.Sorted(maps.Keys(g.Regions))
}

// Walk calls fn for every panel in g in depth-first order: top-level panels
// by label, each followed by its subpanels. Panels of nested inset grids are
// not visited. Returning false from fn skips the panel's subpanels.
func (g *PanelGrid) Walk(fn func(p *Panel, depth int) bool) {
	if g == nil {
		return
	}
	for _, label := range g.Labels() {
		walk(g.Panels[label], 0, fn)
	}
}

func walk(p *Panel, depth int, fn func(*Panel, int) bool) {
	if !fn(p, depth) {
		return
	}
	for _, c := range p.Children {
		walk(c, depth+1, fn)
	}
}

// Find returns the panel with the given qualified ID, such as "a" or "a.ii".
func (g *PanelGrid) Find(id string) (*Panel, bool) {
	var found *Panel
	g.Walk(func(p *Panel, _ int) bool {
		if found != nil {
			return false
		}
		if p.ID == id {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

// Area returns the number of grid cells covered by top-level panels.
func (g *PanelGrid) Area() int {
	n := 0
	for _, p := range g.Panels {
		n += p.RowSpan * p.ColSpan
	}
	return n
}
