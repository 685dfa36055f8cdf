package grid

import (
	"maps"
	"slices"

	"github.com/matzehuels/panelgrid/pkg/core/layoutcode"
	"github.com/matzehuels/panelgrid/pkg/errors"
)

// resolveRegion resolves a named region as an atomic block and records its
// extent. Its labels stay in the enclosing namespace.
func (r *resolver) resolveRegion(n *layoutcode.NamedRegion, scope string) *frame {
	f := r.resolveNode(n.Body, scope)
	if f == nil {
		return nil
	}
	if _, dup := f.regions[n.Name]; dup {
		r.diags.Error(errors.New(errors.ErrCodeDuplicateLabel,
			"region %q is defined more than once", n.Name).
			At(n.Offset).WithLabel(n.Name).WithScope(scope))
		return f
	}
	f.regions[n.Name] = &Region{
		Name:    n.Name,
		RowSpan: f.rows,
		ColSpan: f.cols,
		Labels:  f.labels(),
		Offset:  n.Offset,
	}
	f.offset = n.Offset
	return f
}

// resolveComposition joins the children of n left to right along its axis.
//
// A horizontal composition whose children differ in height but agree in
// width is stacked vertically instead, with an AMBIGUOUS_COMPOSITION warning.
// Children that fit neither way are reported and left out.
func (r *resolver) resolveComposition(n *layoutcode.Composition, scope string) *frame {
	if slices.Contains(n.Ops, layoutcode.Plus) && slices.Contains(n.Ops, layoutcode.Pipe) {
		r.diags.Warn(errors.New(errors.ErrCodeMixedOperators,
			"'+' and '|' are mixed in one composition; both join left to right").
			At(n.Offset).WithScope(scope))
	}

	var frames []*frame
	for _, child := range n.Children {
		if f := r.resolveNode(child, scope); f != nil {
			frames = append(frames, f)
		}
	}
	if len(frames) == 0 {
		return nil
	}

	axis := n.Axis
	if axis == layoutcode.Horizontal && !sameShape(frames, func(f *frame) int { return f.rows }) &&
		sameShape(frames, func(f *frame) int { return f.cols }) {
		r.diags.Warn(errors.New(errors.ErrCodeAmbiguousComposition,
			"blocks joined with '+' or '|' differ in height but share a width of %d; stacking them vertically", frames[0].cols).
			At(n.Offset).WithScope(scope))
		axis = layoutcode.Vertical
	}

	out := frames[0]
	for _, f := range frames[1:] {
		if axis == layoutcode.Horizontal && f.rows != out.rows {
			r.diags.Error(errors.New(errors.ErrCodeCompositionMismatch,
				"cannot place a block with %d rows beside a block with %d rows", f.rows, out.rows).
				At(f.offset).WithScope(scope))
			continue
		}
		if axis == layoutcode.Vertical && f.cols != out.cols {
			r.diags.Error(errors.New(errors.ErrCodeCompositionMismatch,
				"cannot stack a block with %d columns under a block with %d columns", f.cols, out.cols).
				At(f.offset).WithScope(scope))
			continue
		}
		r.join(out, f, axis, scope)
	}
	return out
}

func sameShape(frames []*frame, dim func(*frame) int) bool {
	for _, f := range frames[1:] {
		if dim(f) != dim(frames[0]) {
			return false
		}
	}
	return true
}

// join appends b to a along axis, shifting b's coordinates. Labels and
// region names already present in a are reported and skipped.
func (r *resolver) join(a, b *frame, axis layoutcode.Axis, scope string) {
	dr, dc := 0, a.cols
	if axis == layoutcode.Vertical {
		dr, dc = a.rows, 0
	}

	for _, label := range b.labels() {
		pl := b.panels[label]
		if _, dup := a.panels[label]; dup {
			r.diags.Error(errors.New(errors.ErrCodeDuplicateLabel,
				"label %q is used in more than one block", label).
				At(pl.cell.Offset).WithLabel(label).WithScope(scope))
			continue
		}
		pl.row += dr
		pl.col += dc
		a.panels[label] = pl
	}
	for _, name := range slices.Sorted(maps.Keys(b.regions)) {
		reg := b.regions[name]
		if _, dup := a.regions[name]; dup {
			r.diags.Error(errors.New(errors.ErrCodeDuplicateLabel,
				"region %q is defined more than once", name).
				At(reg.Offset).WithLabel(name).WithScope(scope))
			continue
		}
		reg.Row += dr
		reg.Col += dc
		a.regions[name] = reg
	}
	for _, g := range b.gaps {
		a.gaps = append(a.gaps, Pos{Row: g.Row + dr, Col: g.Col + dc})
	}

	if axis == layoutcode.Vertical {
		a.rows += b.rows
	} else {
		a.cols += b.cols
	}
}
