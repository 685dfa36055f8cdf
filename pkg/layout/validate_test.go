package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/panelgrid/pkg/core/diag"
	"github.com/matzehuels/panelgrid/pkg/core/grid"
	"github.com/matzehuels/panelgrid/pkg/errors"
)

func span(label string, row, col, rowSpan, colSpan int) *grid.Panel {
	return &grid.Panel{ID: label, Label: label, Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan}
}

// Grids that come from a decoded outcome rather than the resolver can place
// panels arbitrarily, so tiling is checked on hand-built grids here.
func TestTiling(t *testing.T) {
	tests := []struct {
		name      string
		grid      *grid.PanelGrid
		want      []errors.Code
		wantLabel string
		wantLine  int
	}{
		{
			name: "exact cover",
			grid: &grid.PanelGrid{NRows: 2, NCols: 2, Panels: map[string]*grid.Panel{
				"a": span("a", 0, 0, 1, 2),
				"b": span("b", 1, 0, 1, 1),
				"c": span("c", 1, 1, 1, 1),
			}},
		},
		{
			name: "overlap",
			grid: &grid.PanelGrid{NRows: 2, NCols: 2, Panels: map[string]*grid.Panel{
				"a": span("a", 0, 0, 1, 2),
				"b": span("b", 0, 1, 2, 1),
				"c": span("c", 1, 0, 1, 1),
			}},
			want:      []errors.Code{errors.ErrCodePanelOverlap},
			wantLabel: "b",
			wantLine:  1,
		},
		{
			name: "overlap reported once per pair",
			grid: &grid.PanelGrid{NRows: 2, NCols: 2, Panels: map[string]*grid.Panel{
				"a": span("a", 0, 0, 2, 2),
				"b": span("b", 0, 0, 2, 2),
			}},
			want:      []errors.Code{errors.ErrCodePanelOverlap},
			wantLabel: "b",
			wantLine:  1,
		},
		{
			name: "uncovered cell",
			grid: &grid.PanelGrid{NRows: 1, NCols: 2, Panels: map[string]*grid.Panel{
				"a": span("a", 0, 0, 1, 1),
			}},
			want:     []errors.Code{errors.ErrCodeTilingGap},
			wantLine: 1,
		},
		{
			name: "declared gap",
			grid: &grid.PanelGrid{NRows: 1, NCols: 2, Panels: map[string]*grid.Panel{
				"a": span("a", 0, 0, 1, 1),
			}, Gaps: []grid.Pos{{Row: 0, Col: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags diag.List
			v := &validator{diags: &diags}
			v.tiling(tt.grid, "")

			ds := diags.Items()
			if diff := cmp.Diff(tt.want, codes(ds), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s", diff)
			}
			if len(ds) == 0 {
				return
			}
			if ds[0].Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", ds[0].Label, tt.wantLabel)
			}
			if ds[0].Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", ds[0].Line, tt.wantLine)
			}
		})
	}
}
