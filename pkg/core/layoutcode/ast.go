package layoutcode

import (
	"strconv"
	"strings"
)

// Node is a layout AST node. It is one of [*GridBlock], [*NamedRegion] or
// [*Composition]; consumers switch on the concrete type.
type Node interface {
	// Pos returns the byte offset of the node's first token.
	Pos() int
	node()
}

// Axis is the direction a [Composition] concatenates its children along.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// GridBlock is a run of rows separated by '/'. Every row is a sequence of
// single-character cells.
type GridBlock struct {
	Rows   [][]Cell
	Offset int
}

// NamedRegion is a bracketed, labelled sub-layout: [name:body].
type NamedRegion struct {
	Name   string
	Body   Node
	Offset int
}

// Composition concatenates children along Axis. Ops holds the operator
// token between each pair of adjacent children, so len(Ops) == len(Children)-1.
type Composition struct {
	Children []Node
	Axis     Axis
	Ops      []Kind
	Offset   int
}

func (n *GridBlock) Pos() int   { return n.Offset }
func (n *NamedRegion) Pos() int { return n.Offset }
func (n *Composition) Pos() int { return n.Offset }

func (*GridBlock) node()   {}
func (*NamedRegion) node() {}
func (*Composition) node() {}

// Cell is one panel occurrence with the specs attached to it.
type Cell struct {
	Label    string
	Offset   int
	Subpanel *SubpanelSpec
	Insets   []InsetSpec
}

// SubpanelKind distinguishes the two subpanel forms.
type SubpanelKind int

const (
	SubpanelList SubpanelKind = iota // a[i,ii,iii]
	SubpanelGrid                     // a[2x3]
)

// SubpanelSpec subdivides a panel into children. List specs carry Items,
// grid specs carry Rows and Cols.
type SubpanelSpec struct {
	Kind   SubpanelKind
	Items  []Cell
	Rows   int
	Cols   int
	Offset int
}

// Len returns the number of children the spec produces.
func (s *SubpanelSpec) Len() int {
	if s.Kind == SubpanelGrid {
		return s.Rows * s.Cols
	}
	return len(s.Items)
}

// InsetKind distinguishes absolute and nested insets.
type InsetKind int

const (
	InsetAbsolute InsetKind = iota // {x,y,w,h}
	InsetNested                    // <layout>
)

// InsetSpec places a smaller panel inside its parent, either at a fraction
// rectangle or as a nested layout filling the parent.
type InsetSpec struct {
	Kind   InsetKind
	Name   string
	X      float64
	Y      float64
	W      float64
	H      float64
	Layout Node   // nested only
	Source string // nested only: the code between the angle brackets
	Offset int
}

// Format renders n back into canonical layout code: no whitespace, '/' as
// the only row separator and shortest float formatting. Parsing the result
// yields an equivalent tree.
func Format(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *GridBlock:
		for i, row := range n.Rows {
			if i > 0 {
				b.WriteByte('/')
			}
			for _, c := range row {
				writeCell(b, c)
			}
		}
	case *NamedRegion:
		b.WriteByte('[')
		b.WriteString(n.Name)
		b.WriteByte(':')
		writeNode(b, n.Body)
		b.WriteByte(']')
	case *Composition:
		for i, child := range n.Children {
			if i > 0 {
				b.WriteString(opText(n.Ops[i-1]))
			}
			writeNode(b, child)
		}
	case nil:
	}
}

func opText(k Kind) string {
	switch k {
	case Plus:
		return "+"
	case Pipe:
		return "|"
	default:
		return "/"
	}
}

func writeCell(b *strings.Builder, c Cell) {
	b.WriteString(c.Label)
	if c.Subpanel != nil {
		b.WriteString(c.Subpanel.String())
	}
	for _, in := range c.Insets {
		b.WriteString(in.String())
	}
}

// String renders the spec as layout code, including the brackets.
func (s *SubpanelSpec) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if s.Kind == SubpanelGrid {
		b.WriteString(strconv.Itoa(s.Rows))
		b.WriteByte('x')
		b.WriteString(strconv.Itoa(s.Cols))
	} else {
		for i, it := range s.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCell(&b, it)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// String renders the inset as layout code, including the delimiters.
func (in InsetSpec) String() string {
	var b strings.Builder
	if in.Kind == InsetNested {
		b.WriteByte('<')
	} else {
		b.WriteByte('{')
	}
	if in.Name != "" {
		b.WriteString(in.Name)
		b.WriteByte(':')
	}
	if in.Kind == InsetNested {
		writeNode(&b, in.Layout)
		b.WriteByte('>')
		return b.String()
	}
	for i, v := range []float64{in.X, in.Y, in.W, in.H} {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte('}')
	return b.String()
}
