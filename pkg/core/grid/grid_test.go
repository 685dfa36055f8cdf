package grid

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/panelgrid/pkg/core/diag"
	"github.com/matzehuels/panelgrid/pkg/core/layoutcode"
	"github.com/matzehuels/panelgrid/pkg/errors"
)

func resolve(t *testing.T, code string, opts Options) (*PanelGrid, []diag.Diagnostic) {
	t.Helper()
	tree, err := layoutcode.Parse(code, layoutcode.Options{})
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", code, err)
	}
	var diags diag.List
	g := Resolve(tree.Root, opts, &diags)
	return g, diags.Items()
}

func resolveClean(t *testing.T, code string) *PanelGrid {
	t.Helper()
	g, ds := resolve(t, code, Options{})
	if len(ds) > 0 {
		t.Fatalf("Resolve(%q) diagnostics: %v", code, ds)
	}
	return g
}

type span struct{ row, col, rowSpan, colSpan int }

func spans(g *PanelGrid) map[string]span {
	out := make(map[string]span, len(g.Panels))
	for label, p := range g.Panels {
		out[label] = span{p.Row, p.Col, p.RowSpan, p.ColSpan}
	}
	return out
}

func hasCode(ds []diag.Diagnostic, code errors.Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

func approxRect(a, b Rect) bool {
	near := func(x, y float64) bool { return math.Abs(x-y) < 1e-9 }
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.W, b.W) && near(a.H, b.H)
}

func TestResolveBlocks(t *testing.T) {
	tests := []struct {
		code  string
		rows  int
		cols  int
		spans map[string]span
	}{
		{
			code: "ab/cd", rows: 2, cols: 2,
			spans: map[string]span{"a": {0, 0, 1, 1}, "b": {0, 1, 1, 1}, "c": {1, 0, 1, 1}, "d": {1, 1, 1, 1}},
		},
		{
			code: "aab/aac/ddd", rows: 3, cols: 3,
			spans: map[string]span{"a": {0, 0, 2, 2}, "b": {0, 2, 1, 1}, "c": {1, 2, 1, 1}, "d": {2, 0, 1, 3}},
		},
		{
			code: "aabc\naade", rows: 2, cols: 4,
			spans: map[string]span{"a": {0, 0, 2, 2}, "b": {0, 2, 1, 1}, "c": {0, 3, 1, 1}, "d": {1, 2, 1, 1}, "e": {1, 3, 1, 1}},
		},
		{
			code: "a", rows: 1, cols: 1,
			spans: map[string]span{"a": {0, 0, 1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			g := resolveClean(t, tt.code)
			if g.NRows != tt.rows || g.NCols != tt.cols {
				t.Errorf("size = %dx%d, want %dx%d", g.NRows, g.NCols, tt.rows, tt.cols)
			}
			if diff := cmp.Diff(tt.spans, spans(g), cmp.AllowUnexported(span{})); diff != "" {
				t.Errorf("spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveBounds(t *testing.T) {
	g := resolveClean(t, "aab/aac/ddd")
	want := map[string]Rect{
		"a": {X: 0, Y: 0, W: 2.0 / 3, H: 2.0 / 3},
		"b": {X: 2.0 / 3, Y: 0, W: 1.0 / 3, H: 1.0 / 3},
		"d": {X: 0, Y: 2.0 / 3, W: 1, H: 1.0 / 3},
	}
	for label, r := range want {
		if got := g.Panels[label].Bounds; !approxRect(got, r) {
			t.Errorf("%s.Bounds = %+v, want %+v", label, got, r)
		}
	}
}

func TestTiling(t *testing.T) {
	codes := []string{
		"ab/cd",
		"aab/aac/ddd",
		"aabcc/ddeef/ddeeg",
		"aab/aac/aad",
		"abc/def",
		"[l:a/b]+[r:c/d]",
		"[top:aa/bb]/[bottom:cd]",
		"ab+cd+ef",
		"a[2x2]b/cc",
	}
	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			g := resolveClean(t, code)
			if got, want := g.Area(), g.NRows*g.NCols; got != want {
				t.Errorf("panel area = %d, want %d", got, want)
			}
			seen := make(map[Pos]string)
			for label, p := range g.Panels {
				for r := p.Row; r < p.Row+p.RowSpan; r++ {
					for c := p.Col; c < p.Col+p.ColSpan; c++ {
						if prev, ok := seen[Pos{r, c}]; ok {
							t.Errorf("cell (%d,%d) covered by %s and %s", r, c, prev, label)
						}
						seen[Pos{r, c}] = label
					}
				}
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	code := "a[i[2x2],ii{z:0.1,0.1,0.5,0.5}]b<x:pq/pr>/cc"
	first, d1 := resolve(t, code, Options{})
	second, d2 := resolve(t, code, Options{})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("grids differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(d1, d2); diff != "" {
		t.Errorf("diagnostics differ between runs (-first +second):\n%s", diff)
	}
}

func TestNonRectangular(t *testing.T) {
	tests := []struct {
		code    string
		dropped []string
		kept    []string
	}{
		{"aba/ccc", []string{"a"}, []string{"b", "c"}},
		{"ab/ba", []string{"a", "b"}, nil},
		{"aa/ab", []string{"a"}, []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			g, ds := resolve(t, tt.code, Options{})
			for _, label := range tt.dropped {
				if _, ok := g.Panels[label]; ok {
					t.Errorf("panel %q should be dropped", label)
				}
				found := false
				for _, d := range ds {
					if d.Code == errors.ErrCodeNonRectangular && d.Label == label {
						found = true
					}
				}
				if !found {
					t.Errorf("missing NON_RECTANGULAR_PANEL for %q in %v", label, ds)
				}
			}
			for _, label := range tt.kept {
				if _, ok := g.Panels[label]; !ok {
					t.Errorf("panel %q should be kept", label)
				}
			}
		})
	}
}

func TestRowLengthMismatch(t *testing.T) {
	g, ds := resolve(t, "ab/c", Options{})
	if len(ds) != 1 {
		t.Fatalf("diagnostics = %v, want 1", ds)
	}
	d := ds[0]
	if d.Code != errors.ErrCodeRowLengthMismatch || d.Line != 2 || d.Offset != 3 {
		t.Errorf("diagnostic = %+v, want ROW_LENGTH_MISMATCH line 2 offset 3", d)
	}
	if len(g.Panels) != 0 {
		t.Errorf("mismatched block should not resolve, got %v", g.Labels())
	}
}

func TestAbsoluteInsets(t *testing.T) {
	t.Run("in bounds", func(t *testing.T) {
		g := resolveClean(t, "a{0.7,0.7,0.25,0.25}bc/def")
		a := g.Panels["a"]
		if len(a.Insets) != 1 {
			t.Fatalf("len(a.Insets) = %d, want 1", len(a.Insets))
		}
		in := a.Insets[0]
		if in.Kind != InsetAbsolute || in.Bounds != (Rect{X: 0.7, Y: 0.7, W: 0.25, H: 0.25}) {
			t.Errorf("inset = %+v", in)
		}
	})

	tests := []struct {
		name string
		code string
	}{
		{"past right and bottom", "a{0.9,0.9,0.2,0.2}bc/def"},
		{"negative origin", "a{-0.1,0,0.5,0.5}"},
		{"zero width", "a{0,0,0,0.5}"},
		{"past bottom", "a{0,0.6,0.5,0.5}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ds := resolve(t, tt.code, Options{})
			if !hasCode(ds, errors.ErrCodeInsetOutOfBounds) {
				t.Errorf("diagnostics = %v, want INSET_OUT_OF_BOUNDS", ds)
			}
			if n := len(g.Panels["a"].Insets); n != 0 {
				t.Errorf("offending inset should be omitted, got %d insets", n)
			}
		})
	}

	t.Run("others kept", func(t *testing.T) {
		g, ds := resolve(t, "a{0.9,0.9,0.2,0.2}{0,0,0.5,0.5}", Options{})
		if len(ds) != 1 {
			t.Errorf("diagnostics = %v, want 1", ds)
		}
		if n := len(g.Panels["a"].Insets); n != 1 {
			t.Errorf("len(Insets) = %d, want 1", n)
		}
	})
}

func TestNestedInsets(t *testing.T) {
	g := resolveClean(t, "a<zoom:xy/xz>b")
	a := g.Panels["a"]
	if len(a.Insets) != 1 {
		t.Fatalf("len(a.Insets) = %d, want 1", len(a.Insets))
	}
	in := a.Insets[0]
	if in.Kind != InsetNested || in.Name != "zoom" || in.Bounds != Unit {
		t.Errorf("inset = %+v", in)
	}
	if in.Grid.NRows != 2 || in.Grid.NCols != 2 {
		t.Errorf("nested grid = %dx%d, want 2x2", in.Grid.NRows, in.Grid.NCols)
	}
	want := map[string]span{"x": {0, 0, 2, 1}, "y": {0, 1, 1, 1}, "z": {1, 1, 1, 1}}
	if diff := cmp.Diff(want, spans(in.Grid), cmp.AllowUnexported(span{})); diff != "" {
		t.Errorf("nested spans mismatch (-want +got):\n%s", diff)
	}

	t.Run("fresh namespace", func(t *testing.T) {
		g := resolveClean(t, "a<ab>b")
		if _, ok := g.Panels["a"].Insets[0].Grid.Panels["a"]; !ok {
			t.Error("nested grid should hold its own panel a")
		}
	})

	t.Run("declaration order", func(t *testing.T) {
		g := resolveClean(t, "a{first:0,0,0.5,0.5}<second:b>{third:0.5,0.5,0.5,0.5}")
		var names []string
		for _, in := range g.Panels["a"].Insets {
			names = append(names, in.Name)
		}
		if diff := cmp.Diff([]string{"first", "second", "third"}, names); diff != "" {
			t.Errorf("inset order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("errors scoped", func(t *testing.T) {
		_, ds := resolve(t, "a<zoom:pq/r>", Options{})
		if len(ds) != 1 || ds[0].Code != errors.ErrCodeRowLengthMismatch || ds[0].Scope != "a#zoom" {
			t.Errorf("diagnostics = %+v, want ROW_LENGTH_MISMATCH in scope a#zoom", ds)
		}
	})
}

func TestSubpanels(t *testing.T) {
	t.Run("grid", func(t *testing.T) {
		g := resolveClean(t, "a[2x3]b")
		a := g.Panels["a"]
		if a.Subgrid == nil || *a.Subgrid != (Dims{Rows: 2, Cols: 3}) {
			t.Fatalf("Subgrid = %+v, want 2x3", a.Subgrid)
		}
		if len(a.Children) != 6 {
			t.Fatalf("len(Children) = %d, want 6", len(a.Children))
		}
		if first := a.Children[0]; first.ID != "a.0" || first.Row != 0 || first.Col != 0 {
			t.Errorf("first child = %s (%d,%d), want a.0 (0,0)", first.ID, first.Row, first.Col)
		}
		c := a.Children[4]
		if c.ID != "a.4" || c.Row != 1 || c.Col != 1 {
			t.Errorf("child 4 = %s (%d,%d), want a.4 (1,1)", c.ID, c.Row, c.Col)
		}
		if !approxRect(c.Bounds, Rect{X: 1.0 / 3, Y: 0.5, W: 1.0 / 3, H: 0.5}) {
			t.Errorf("child 4 bounds = %+v", c.Bounds)
		}
		if _, ok := g.Find("a.6"); ok {
			t.Error("a.6 found, want labels a.0..a.5")
		}
	})

	t.Run("list", func(t *testing.T) {
		g := resolveClean(t, "a[i,ii,iii]")
		a := g.Panels["a"]
		if *a.Subgrid != (Dims{Rows: 1, Cols: 3}) {
			t.Errorf("Subgrid = %+v, want 1x3", a.Subgrid)
		}
		var ids []string
		for i, c := range a.Children {
			ids = append(ids, c.ID)
			if c.Row != 0 || c.Col != i {
				t.Errorf("%s at (%d,%d), want (0,%d)", c.ID, c.Row, c.Col, i)
			}
		}
		if diff := cmp.Diff([]string{"a.i", "a.ii", "a.iii"}, ids); diff != "" {
			t.Errorf("IDs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nested specs", func(t *testing.T) {
		g := resolveClean(t, "a[i[2x2],ii{0.1,0.1,0.5,0.5}]")
		p, ok := g.Find("a.i")
		if !ok || len(p.Children) != 4 {
			t.Fatalf("a.i = %+v, want 4 children", p)
		}
		if _, ok := g.Find("a.i.3"); !ok {
			t.Error("a.i.3 not found")
		}
		ii, _ := g.Find("a.ii")
		if len(ii.Insets) != 1 {
			t.Errorf("a.ii has %d insets, want 1", len(ii.Insets))
		}
	})

	t.Run("duplicate list label", func(t *testing.T) {
		g, ds := resolve(t, "a[i,i,j]", Options{})
		if len(ds) != 1 || ds[0].Code != errors.ErrCodeDuplicateLabel || ds[0].Scope != "a" {
			t.Errorf("diagnostics = %+v, want DUPLICATE_LABEL in scope a", ds)
		}
		if n := len(g.Panels["a"].Children); n != 2 {
			t.Errorf("len(Children) = %d, want 2", n)
		}
	})
}

func TestMergeSpecs(t *testing.T) {
	t.Run("insets concatenate", func(t *testing.T) {
		g := resolveClean(t, "a{0.1,0.1,0.2,0.2}a{0.5,0.5,0.2,0.2}")
		if n := len(g.Panels["a"].Insets); n != 2 {
			t.Errorf("len(Insets) = %d, want 2", n)
		}
	})

	t.Run("equal subpanels", func(t *testing.T) {
		resolveClean(t, "a[2x2]a[2x2]")
	})

	t.Run("conflicting subpanels", func(t *testing.T) {
		g, ds := resolve(t, "a[2x2]a[3x3]/aa", Options{})
		if !hasCode(ds, errors.ErrCodeSubpanelMismatch) {
			t.Errorf("diagnostics = %v, want SUBPANEL_COUNT_MISMATCH", ds)
		}
		if n := len(g.Panels["a"].Children); n != 4 {
			t.Errorf("first spec should win, got %d children", n)
		}
	})
}

func TestComposition(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		g := resolveClean(t, "ab+cd")
		if g.NRows != 1 || g.NCols != 4 {
			t.Errorf("size = %dx%d, want 1x4", g.NRows, g.NCols)
		}
		if d := g.Panels["d"]; d.Col != 3 {
			t.Errorf("d.Col = %d, want 3", d.Col)
		}
	})

	t.Run("regions side by side", func(t *testing.T) {
		g := resolveClean(t, "[l:a/b]+[r:c/d]")
		want := map[string]span{"a": {0, 0, 1, 1}, "b": {1, 0, 1, 1}, "c": {0, 1, 1, 1}, "d": {1, 1, 1, 1}}
		if diff := cmp.Diff(want, spans(g), cmp.AllowUnexported(span{})); diff != "" {
			t.Errorf("spans mismatch (-want +got):\n%s", diff)
		}
		r := g.Regions["r"]
		if r == nil || r.Col != 1 || r.RowSpan != 2 || !approxRect(r.Bounds, Rect{X: 0.5, Y: 0, W: 0.5, H: 1}) {
			t.Errorf("region r = %+v", r)
		}
		if diff := cmp.Diff([]string{"c", "d"}, r.Labels); diff != "" {
			t.Errorf("region labels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("regions stacked", func(t *testing.T) {
		g := resolveClean(t, "[top:aa/bb]/[bottom:cd]")
		if g.NRows != 3 || g.NCols != 2 {
			t.Errorf("size = %dx%d, want 3x2", g.NRows, g.NCols)
		}
		if b := g.Regions["bottom"]; b.Row != 2 || b.ColSpan != 2 {
			t.Errorf("bottom = %+v", b)
		}
		if c := g.Panels["c"]; c.Row != 2 {
			t.Errorf("c.Row = %d, want 2", c.Row)
		}
	})

	t.Run("nested regions", func(t *testing.T) {
		g := resolveClean(t, "[outer:[inner:ab]/cd]")
		if len(g.Regions) != 2 {
			t.Errorf("regions = %v, want inner and outer", g.RegionNames())
		}
		if diff := cmp.Diff([]string{"a", "b", "c", "d"}, g.Regions["outer"].Labels); diff != "" {
			t.Errorf("outer labels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ambiguous axis", func(t *testing.T) {
		g, ds := resolve(t, "ab/cd+ef", Options{})
		if len(ds) != 1 || ds[0].Code != errors.ErrCodeAmbiguousComposition || ds[0].IsError() {
			t.Fatalf("diagnostics = %+v, want one AMBIGUOUS_COMPOSITION warning", ds)
		}
		if g.NRows != 3 || g.NCols != 2 || g.Panels["e"].Row != 2 {
			t.Errorf("grid %dx%d e=%+v, want 3x2 with e on row 2", g.NRows, g.NCols, g.Panels["e"])
		}
	})

	t.Run("mixed operators", func(t *testing.T) {
		g, ds := resolve(t, "a+b|c", Options{})
		if len(ds) != 1 || ds[0].Code != errors.ErrCodeMixedOperators || ds[0].IsError() {
			t.Fatalf("diagnostics = %+v, want one MIXED_COMPOSITION_OPERATORS warning", ds)
		}
		if g.NCols != 3 {
			t.Errorf("NCols = %d, want 3", g.NCols)
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		g, ds := resolve(t, "ab/cd+efg", Options{})
		if !hasCode(ds, errors.ErrCodeCompositionMismatch) {
			t.Errorf("diagnostics = %v, want COMPOSITION_MISMATCH", ds)
		}
		if g.NRows != 2 || g.NCols != 2 {
			t.Errorf("size = %dx%d, want the first block 2x2", g.NRows, g.NCols)
		}
	})

	t.Run("duplicate label", func(t *testing.T) {
		_, ds := resolve(t, "ab+bc", Options{})
		if len(ds) != 1 || ds[0].Code != errors.ErrCodeDuplicateLabel || ds[0].Label != "b" {
			t.Errorf("diagnostics = %+v, want DUPLICATE_LABEL b", ds)
		}
	})

	t.Run("duplicate region", func(t *testing.T) {
		_, ds := resolve(t, "[r:a]+[r:b]", Options{})
		if !hasCode(ds, errors.ErrCodeDuplicateLabel) {
			t.Errorf("diagnostics = %v, want DUPLICATE_LABEL", ds)
		}
	})
}

func TestGaps(t *testing.T) {
	g, ds := resolve(t, "a./bb", Options{AllowGaps: true})
	if len(ds) != 0 {
		t.Fatalf("diagnostics = %v", ds)
	}
	if diff := cmp.Diff([]Pos{{Row: 0, Col: 1}}, g.Gaps); diff != "" {
		t.Errorf("gaps mismatch (-want +got):\n%s", diff)
	}
	if b := g.Panels["b"]; b.ColSpan != 2 {
		t.Errorf("b.ColSpan = %d, want 2", b.ColSpan)
	}

	_, ds = resolve(t, "a./bb", Options{})
	if len(ds) != 1 || ds[0].Code != errors.ErrCodeInvalidCharacter || ds[0].Offset != 1 {
		t.Errorf("diagnostics = %+v, want INVALID_CHARACTER at 1", ds)
	}
}

func TestResolveNil(t *testing.T) {
	var diags diag.List
	g := Resolve(nil, Options{}, &diags)
	if g == nil || g.NRows != 0 || len(g.Panels) != 0 {
		t.Errorf("Resolve(nil) = %+v, want empty grid", g)
	}
}

func TestRectWithin(t *testing.T) {
	outer := Rect{X: 0.5, Y: 0, W: 0.5, H: 0.5}
	got := Rect{X: 0.5, Y: 0.5, W: 0.5, H: 0.5}.Within(outer)
	if want := (Rect{X: 0.75, Y: 0.25, W: 0.25, H: 0.25}); !approxRect(got, want) {
		t.Errorf("Within() = %+v, want %+v", got, want)
	}
}

func TestWalk(t *testing.T) {
	g := resolveClean(t, "a[i,ii]b")
	var ids []string
	g.Walk(func(p *Panel, depth int) bool {
		ids = append(ids, p.ID)
		return true
	})
	if diff := cmp.Diff([]string{"a", "a.i", "a.ii", "b"}, ids); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}
}
