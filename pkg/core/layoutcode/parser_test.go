package layoutcode

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/panelgrid/pkg/errors"
)

func mustParse(t *testing.T, code string, opts Options) *Tree {
	t.Helper()
	tree, err := Parse(code, opts)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", code, err)
	}
	return tree
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"ab/cd", "ab/cd"},
		{"ab\ncd\n", "ab/cd"},
		{" a b / c d ", "ab/cd"},
		{"a{0.7,0.7,0.25,0.25}bc/def", "a{0.7,0.7,0.25,0.25}bc/def"},
		{"a{zoom:0.1,0.2,0.3,0.4}", "a{zoom:0.1,0.2,0.3,0.4}"},
		{"a[2X3]b", "a[2x3]b"},
		{"a[i,ii,iii]b", "a[i,ii,iii]b"},
		{"a[i[2x2],ii{0.1,0.1,0.5,0.5}]", "a[i[2x2],ii{0.1,0.1,0.5,0.5}]"},
		{"a<xy/xy>b", "a<xy/xy>b"},
		{"a<detail: x y / z w >", "a<detail:xy/zw>"},
		{"[top:aa/bb]/[bottom:cd]", "[top:aa/bb]/[bottom:cd]"},
		{"[l:a/b]+[r:c/d]", "[l:a/b]+[r:c/d]"},
		{"[outer:[inner:ab]]", "[outer:[inner:ab]]"},
		{"ab|cd", "ab|cd"},
		{"a{.5,0,0.5,1}", "a{0.5,0,0.5,1}"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			tree := mustParse(t, tt.code, Options{})
			if got := Format(tree.Root); got != tt.want {
				t.Errorf("Format(Parse(%q)) = %q, want %q", tt.code, got, tt.want)
			}
			again := mustParse(t, tt.want, Options{})
			if got := Format(again.Root); got != tt.want {
				t.Errorf("canonical form is not stable: %q -> %q", tt.want, got)
			}
		})
	}
}

func TestParseGridBlock(t *testing.T) {
	tree := mustParse(t, "ab/cd", Options{})
	block, ok := tree.Root.(*GridBlock)
	if !ok {
		t.Fatalf("Root is %T, want *GridBlock", tree.Root)
	}
	if len(block.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(block.Rows))
	}
	want := [][]Cell{
		{{Label: "a", Offset: 0}, {Label: "b", Offset: 1}},
		{{Label: "c", Offset: 3}, {Label: "d", Offset: 4}},
	}
	if diff := cmp.Diff(want, block.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpecsAttachToLastCell(t *testing.T) {
	tree := mustParse(t, "ab[2x2]{0.1,0.1,0.2,0.2}<cd>", Options{})
	block := tree.Root.(*GridBlock)
	a, b := block.Rows[0][0], block.Rows[0][1]
	if a.Subpanel != nil || len(a.Insets) != 0 {
		t.Errorf("cell a should carry no specs, got %+v", a)
	}
	if b.Subpanel == nil || b.Subpanel.Kind != SubpanelGrid || b.Subpanel.Len() != 4 {
		t.Fatalf("cell b subpanel = %+v, want 2x2 grid", b.Subpanel)
	}
	if len(b.Insets) != 2 {
		t.Fatalf("len(b.Insets) = %d, want 2", len(b.Insets))
	}
	if b.Insets[0].Kind != InsetAbsolute || b.Insets[1].Kind != InsetNested {
		t.Errorf("inset kinds = %v, %v; want absolute, nested", b.Insets[0].Kind, b.Insets[1].Kind)
	}
	if b.Insets[1].Source != "cd" {
		t.Errorf("nested Source = %q, want %q", b.Insets[1].Source, "cd")
	}
}

func TestParseComposition(t *testing.T) {
	tree := mustParse(t, "ab+cd|ef", Options{})
	comp, ok := tree.Root.(*Composition)
	if !ok {
		t.Fatalf("Root is %T, want *Composition", tree.Root)
	}
	if comp.Axis != Horizontal {
		t.Errorf("Axis = %v, want horizontal", comp.Axis)
	}
	if len(comp.Children) != 3 {
		t.Errorf("len(Children) = %d, want 3", len(comp.Children))
	}
	if diff := cmp.Diff([]Kind{Plus, Pipe}, comp.Ops); diff != "" {
		t.Errorf("Ops mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStackMergesRows(t *testing.T) {
	tree := mustParse(t, "[t:aa]/bb/cc", Options{})
	comp, ok := tree.Root.(*Composition)
	if !ok {
		t.Fatalf("Root is %T, want *Composition", tree.Root)
	}
	if comp.Axis != Vertical {
		t.Errorf("Axis = %v, want vertical", comp.Axis)
	}
	if len(comp.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(comp.Children))
	}
	if _, ok := comp.Children[0].(*NamedRegion); !ok {
		t.Errorf("Children[0] is %T, want *NamedRegion", comp.Children[0])
	}
	block, ok := comp.Children[1].(*GridBlock)
	if !ok {
		t.Fatalf("Children[1] is %T, want *GridBlock", comp.Children[1])
	}
	if len(block.Rows) != 2 {
		t.Errorf("merged block has %d rows, want 2", len(block.Rows))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantCode errors.Code
		offset   int
	}{
		{"trailing slash", "ab/", errors.ErrCodeUnexpectedToken, 3},
		{"unclosed subpanel", "a[", errors.ErrCodeUnterminatedGroup, 1},
		{"unclosed region", "[top:ab", errors.ErrCodeUnterminatedGroup, 0},
		{"unclosed inset", "a{0.1,", errors.ErrCodeUnterminatedGroup, 1},
		{"unclosed inset after value", "a{0.1,0.2", errors.ErrCodeUnterminatedGroup, 1},
		{"missing comma", "a{0.1 0.2}", errors.ErrCodeInvalidInsetSpec, 6},
		{"exponent in inset", "a{1e-1,0,0.5,0.5}", errors.ErrCodeInvalidInsetSpec, 3},
		{"zero dims", "a[0x2]", errors.ErrCodeInvalidDimension, 2},
		{"partial dims", "a[2x]", errors.ErrCodeInvalidDimension, 2},
		{"huge dims", "a[50x50]", errors.ErrCodeInvalidDimension, 2},
		{"dims product wraps to zero", "a[4294967296x4294967296]", errors.ErrCodeInvalidDimension, 2},
		{"dims product wraps to four", "a[4611686018427387905x4]", errors.ErrCodeInvalidDimension, 2},
		{"one huge side", "a[1x401]", errors.ErrCodeInvalidDimension, 2},
		{"three inset values", "a{0.1,0.2,0.3}", errors.ErrCodeInvalidInsetSpec, 1},
		{"bad number", "a{0.1,0.2,0.3,0..4}", errors.ErrCodeInvalidInsetSpec, 14},
		{"label in inset", "a{x,0,1,1}", errors.ErrCodeInvalidInsetSpec, 2},
		{"missing region name", "[:ab]", errors.ErrCodeMissingRegionName, 1},
		{"missing region colon", "[top ab]", errors.ErrCodeMissingRegionColon, 5},
		{"empty region", "[top:]", errors.ErrCodeEmptyLayout, 5},
		{"empty nested inset", "a<>", errors.ErrCodeEmptyLayout, 2},
		{"empty", "", errors.ErrCodeEmptyLayout, errors.NoOffset},
		{"blank", " \n ", errors.ErrCodeEmptyLayout, errors.NoOffset},
		{"comma at top level", "ab,cd", errors.ErrCodeUnexpectedToken, 2},
		{"adjacent regions", "[a:b][c:d]", errors.ErrCodeUnexpectedToken, 5},
		{"colon in subpanel list", "a[i:j]", errors.ErrCodeUnexpectedToken, 3},
		{"lexer error", "a]", errors.ErrCodeUnmatchedBracket, 1},
		{"too long", strings.Repeat("a", 257), errors.ErrCodeInputTooLong, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.code, Options{})
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.code)
			}
			var e *errors.Error
			if !errors.As(err, &e) {
				t.Fatalf("error is %T, want *errors.Error", err)
			}
			if e.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v (%v)", e.Code, tt.wantCode, err)
			}
			if e.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", e.Offset, tt.offset)
			}
		})
	}
}

func TestParseMaxLength(t *testing.T) {
	code := strings.Repeat("a", 300)
	if _, err := Parse(code, Options{MaxLength: 512}); err != nil {
		t.Errorf("Parse() with MaxLength 512 error: %v", err)
	}
}

func TestParseDepthLimit(t *testing.T) {
	t.Run("subpanel skipped", func(t *testing.T) {
		tree := mustParse(t, "a[i[j[2x2]]]", Options{MaxDepth: 2})
		if got := Format(tree.Root); got != "a[i[j]]" {
			t.Errorf("Format() = %q, want %q", got, "a[i[j]]")
		}
		if len(tree.Errors) != 1 {
			t.Fatalf("len(Errors) = %d, want 1", len(tree.Errors))
		}
		if tree.Errors[0].Code != errors.ErrCodeMaxDepthExceeded || tree.Errors[0].Offset != 5 {
			t.Errorf("Errors[0] = %v, want MAX_DEPTH_EXCEEDED at 5", tree.Errors[0])
		}
	})

	t.Run("region skipped", func(t *testing.T) {
		tree := mustParse(t, "ab+[a:[b:cd]]", Options{MaxDepth: 1})
		if got := Format(tree.Root); got != "ab" {
			t.Errorf("Format() = %q, want %q", got, "ab")
		}
		if len(tree.Errors) != 1 {
			t.Errorf("len(Errors) = %d, want 1", len(tree.Errors))
		}
	})

	t.Run("within limit", func(t *testing.T) {
		tree := mustParse(t, "a<b<c<d<e<f<g>>>>>>", Options{})
		if len(tree.Errors) != 0 {
			t.Errorf("unexpected depth errors: %v", tree.Errors)
		}
	})

	t.Run("beyond default", func(t *testing.T) {
		tree := mustParse(t, "a<b<c<d<e<f<g<h>>>>>>>", Options{})
		if len(tree.Errors) != 1 {
			t.Errorf("len(Errors) = %d, want 1", len(tree.Errors))
		}
	})
}
