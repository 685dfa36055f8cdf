package layout

import (
	"github.com/matzehuels/panelgrid/pkg/core/diag"
	"github.com/matzehuels/panelgrid/pkg/core/grid"
	"github.com/matzehuels/panelgrid/pkg/errors"
)

// validate runs the checks that need the whole resolved grid: name
// uniqueness per scope, tiling of every grid, and caller references.
func validate(g *grid.PanelGrid, refs []string, diags *diag.List) {
	v := &validator{diags: diags}
	v.grid(g, "")
	v.references(g, refs)
}

type validator struct {
	diags *diag.List
}

func (v *validator) grid(g *grid.PanelGrid, scope string) {
	v.names(g, scope)
	v.tiling(g, scope)
	g.Walk(func(p *grid.Panel, _ int) bool {
		for _, in := range p.Insets {
			if in.Grid != nil {
				v.grid(in.Grid, in.Scope)
			}
		}
		return true
	})
}

// names reports region names that shadow a panel label, and inset names used
// twice on one panel.
func (v *validator) names(g *grid.PanelGrid, scope string) {
	for _, name := range g.RegionNames() {
		if _, ok := g.Panels[name]; ok {
			v.diags.Error(errors.New(errors.ErrCodeDuplicateLabel,
				"region %q has the same name as a panel", name).
				At(g.Regions[name].Offset).WithLabel(name).WithScope(scope))
		}
	}
	g.Walk(func(p *grid.Panel, _ int) bool {
		seen := make(map[string]bool)
		for _, in := range p.Insets {
			if in.Name == "" {
				continue
			}
			if seen[in.Name] {
				v.diags.Error(errors.New(errors.ErrCodeDuplicateLabel,
					"inset name %q is used twice on panel %q", in.Name, p.ID).
					At(in.Offset).WithLabel(in.Name).WithScope(grid.Qualify(scope, p.ID)))
			}
			seen[in.Name] = true
		}
		return true
	})
}

// tiling checks that the top-level panels of g cover every non-gap cell
// exactly once.
func (v *validator) tiling(g *grid.PanelGrid, scope string) {
	if g.NRows == 0 || g.NCols == 0 {
		return
	}
	cover := make([]string, g.NRows*g.NCols)
	for _, gap := range g.Gaps {
		cover[gap.Row*g.NCols+gap.Col] = grid.GapLabel
	}

	overlaps := make(map[[2]string]bool)
	for _, label := range g.Labels() {
		p := g.Panels[label]
		for r := p.Row; r < p.Row+p.RowSpan && r < g.NRows; r++ {
			for c := p.Col; c < p.Col+p.ColSpan && c < g.NCols; c++ {
				i := r*g.NCols + c
				if prev := cover[i]; prev != "" {
					if pair := [2]string{prev, label}; !overlaps[pair] {
						overlaps[pair] = true
						v.diags.Error(errors.New(errors.ErrCodePanelOverlap,
							"panels %q and %q overlap at row %d, column %d", prev, label, r+1, c+1).
							At(p.Offset).WithLine(r + 1).WithLabel(label).WithScope(scope))
					}
					continue
				}
				cover[i] = label
			}
		}
	}

	empty, first := 0, -1
	for i, label := range cover {
		if label == "" {
			empty++
			if first < 0 {
				first = i
			}
		}
	}
	if empty > 0 {
		v.diags.Error(errors.New(errors.ErrCodeTilingGap,
			"%d of %d cells are not covered by any panel, first at row %d, column %d",
			empty, len(cover), first/g.NCols+1, first%g.NCols+1).
			WithLine(first/g.NCols + 1).WithScope(scope))
	}
}

// references reports every ref that names nothing in g.
func (v *validator) references(g *grid.PanelGrid, refs []string) {
	if len(refs) == 0 {
		return
	}
	known := make(map[string]bool)
	collectNames(g, "", known)
	for _, ref := range refs {
		if !known[ref] {
			v.diags.Error(errors.New(errors.ErrCodeUnknownReference,
				"%q does not name a panel, region or inset", ref).WithLabel(ref))
		}
	}
}

// collectNames records every referable name in g: qualified panel IDs,
// region names, named insets and, recursively, the names inside nested
// insets.
func collectNames(g *grid.PanelGrid, scope string, known map[string]bool) {
	for name := range g.Regions {
		known[grid.Qualify(scope, name)] = true
	}
	g.Walk(func(p *grid.Panel, _ int) bool {
		path := grid.Qualify(scope, p.ID)
		known[path] = true
		for _, in := range p.Insets {
			if in.Name != "" {
				known[path+"#"+in.Name] = true
			}
			if in.Grid != nil {
				known[in.Scope] = true
				collectNames(in.Grid, in.Scope, known)
			}
		}
		return true
	})
}
