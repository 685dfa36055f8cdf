package grid

import (
	"slices"

	"github.com/matzehuels/panelgrid/pkg/core/layoutcode"
	"github.com/matzehuels/panelgrid/pkg/errors"
)

// occurrence tracks every cell of one label in a block.
type occurrence struct {
	minRow, maxRow int
	minCol, maxCol int
	cells          []layoutcode.Cell
}

func (o *occurrence) add(row, col int, c layoutcode.Cell) {
	if len(o.cells) == 0 {
		o.minRow, o.maxRow, o.minCol, o.maxCol = row, row, col, col
	}
	o.minRow = min(o.minRow, row)
	o.maxRow = max(o.maxRow, row)
	o.minCol = min(o.minCol, col)
	o.maxCol = max(o.maxCol, col)
	o.cells = append(o.cells, c)
}

func (o *occurrence) area() int {
	return (o.maxRow - o.minRow + 1) * (o.maxCol - o.minCol + 1)
}

// resolveBlock maps every label of a grid block to its bounding rectangle.
//
// Rows of unequal length fail the whole block. A label whose cells do not
// fill its bounding box is reported and dropped; the rest of the block still
// resolves.
func (r *resolver) resolveBlock(b *layoutcode.GridBlock, scope string) *frame {
	if len(b.Rows) == 0 {
		return nil
	}
	width := len(b.Rows[0])
	for i, row := range b.Rows[1:] {
		if len(row) != width {
			r.diags.Error(errors.New(errors.ErrCodeRowLengthMismatch,
				"row %d has %d cells, expected %d", i+2, len(row), width).
				At(row[0].Offset).WithLine(i + 2).WithScope(scope))
			return nil
		}
	}

	f := newFrame(len(b.Rows), width, b.Offset)
	occs := make(map[string]*occurrence)
	reportedGap := false
	for ri, row := range b.Rows {
		for ci, c := range row {
			if c.Label == GapLabel {
				if !r.opts.AllowGaps && !reportedGap {
					r.diags.Error(errors.New(errors.ErrCodeInvalidCharacter,
						"'.' marks an empty cell, which is not enabled").At(c.Offset).WithScope(scope))
					reportedGap = true
				}
				f.gaps = append(f.gaps, Pos{Row: ri, Col: ci})
				continue
			}
			o, ok := occs[c.Label]
			if !ok {
				o = &occurrence{}
				occs[c.Label] = o
			}
			o.add(ri, ci, c)
		}
	}

	labels := make([]string, 0, len(occs))
	for label := range occs {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	for _, label := range labels {
		o := occs[label]
		if len(o.cells) != o.area() {
			r.diags.Error(errors.New(errors.ErrCodeNonRectangular,
				"panel %q does not form a rectangle: %d cells in a %dx%d bounding box",
				label, len(o.cells), o.maxRow-o.minRow+1, o.maxCol-o.minCol+1).
				At(o.cells[0].Offset).WithLabel(label).WithScope(scope))
			continue
		}
		f.panels[label] = &placement{
			cell:    r.mergeCells(label, o.cells, scope),
			row:     o.minRow,
			col:     o.minCol,
			rowSpan: o.maxRow - o.minRow + 1,
			colSpan: o.maxCol - o.minCol + 1,
		}
	}
	return f
}

// mergeCells folds the specs attached to each occurrence of a label into one
// cell. Insets concatenate in source order; conflicting subpanel specs keep
// the first and report SUBPANEL_COUNT_MISMATCH.
func (r *resolver) mergeCells(label string, cells []layoutcode.Cell, scope string) layoutcode.Cell {
	merged := layoutcode.Cell{Label: label, Offset: cells[0].Offset}
	for _, c := range cells {
		merged.Insets = append(merged.Insets, c.Insets...)
		if c.Subpanel == nil {
			continue
		}
		if merged.Subpanel == nil {
			merged.Subpanel = c.Subpanel
			continue
		}
		if a, b := merged.Subpanel.String(), c.Subpanel.String(); a != b {
			r.diags.Error(errors.New(errors.ErrCodeSubpanelMismatch,
				"panel %q has conflicting subpanel specs %s (%d panels) and %s (%d panels)",
				label, a, merged.Subpanel.Len(), b, c.Subpanel.Len()).
				At(c.Subpanel.Offset).WithLabel(label).WithScope(scope))
		}
	}
	return merged
}
