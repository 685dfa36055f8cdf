package grid

import (
	"strconv"

	"github.com/matzehuels/panelgrid/pkg/core/layoutcode"
	"github.com/matzehuels/panelgrid/pkg/errors"
)

// expandSubpanels subdivides p according to sp.
//
// The RxC form produces R*C uniform children in row-major order labelled
// "0".."R*C-1". The list form produces a 1xN strip in declaration order; list
// items may carry their own subpanel and inset specs. Nesting depth was
// bounded by the parser.
func (r *resolver) expandSubpanels(p *Panel, sp *layoutcode.SubpanelSpec, scope string) {
	if sp == nil {
		return
	}

	switch sp.Kind {
	case layoutcode.SubpanelGrid:
		p.Subgrid = &Dims{Rows: sp.Rows, Cols: sp.Cols}
		for i := range sp.Rows * sp.Cols {
			row, col := i/sp.Cols, i%sp.Cols
			label := strconv.Itoa(i)
			p.Children = append(p.Children, &Panel{
				ID:      p.ID + "." + label,
				Label:   label,
				Row:     row,
				Col:     col,
				RowSpan: 1,
				ColSpan: 1,
				Bounds:  cellRect(row, col, 1, 1, sp.Rows, sp.Cols),
				Offset:  sp.Offset,
			})
		}

	case layoutcode.SubpanelList:
		items := make([]layoutcode.Cell, 0, len(sp.Items))
		seen := make(map[string]bool, len(sp.Items))
		for _, it := range sp.Items {
			if seen[it.Label] {
				r.diags.Error(errors.New(errors.ErrCodeDuplicateLabel,
					"subpanel %q appears more than once in %q", it.Label, p.ID).
					At(it.Offset).WithLabel(it.Label).WithScope(Qualify(scope, p.ID)))
				continue
			}
			seen[it.Label] = true
			items = append(items, it)
		}

		p.Subgrid = &Dims{Rows: 1, Cols: len(items)}
		for col, it := range items {
			child := &Panel{
				ID:      p.ID + "." + it.Label,
				Label:   it.Label,
				Row:     0,
				Col:     col,
				RowSpan: 1,
				ColSpan: 1,
				Bounds:  cellRect(0, col, 1, 1, 1, len(items)),
				Offset:  it.Offset,
			}
			r.expandSubpanels(child, it.Subpanel, scope)
			r.resolveInsets(child, it.Insets, scope)
			p.Children = append(p.Children, child)
		}
	}
}
