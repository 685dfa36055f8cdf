package layoutcode

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/panelgrid/pkg/errors"
)

const (
	// DefaultMaxDepth bounds the nesting of regions, subpanel specs and
	// nested insets.
	DefaultMaxDepth = 6

	// MaxGridCells caps the number of children a single RxC spec may create.
	MaxGridCells = 400
)

var dimsRE = regexp.MustCompile(`^(\d+)[xX](\d+)$`)

// Options bounds a parse.
type Options struct {
	MaxLength int // zero means errors.DefaultMaxCodeLength
	MaxDepth  int // zero means DefaultMaxDepth
}

// Tree is a parsed layout code.
type Tree struct {
	// Root is nil only when every top-level group was skipped for depth.
	Root   Node
	Source string

	// Errors holds the MAX_DEPTH_EXCEEDED errors for groups that were
	// skipped. They are reported alongside the tree rather than failing
	// the parse.
	Errors []*errors.Error
}

// Parse tokenizes and parses code.
//
// Syntax and parse errors (UNMATCHED_BRACKET, INVALID_CHARACTER,
// UNEXPECTED_TOKEN, UNTERMINATED_GROUP, INVALID_DIMENSION_SPEC,
// INVALID_INSET_SPEC, EMPTY_LAYOUT and the region errors) stop parsing and are
// returned as the error. Input longer than MaxLength fails with
// INPUT_TOO_LONG. Groups nested deeper than MaxDepth are skipped and reported
// in [Tree.Errors].
func Parse(code string, opts Options) (*Tree, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if err := errors.ValidateLayoutCode(code, opts.MaxLength); err != nil {
		return nil, err
	}
	toks, err := Lex(code)
	if err != nil {
		return nil, err
	}

	p := &parser{src: code, toks: toks, maxDepth: opts.MaxDepth}
	root, err := p.composition(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != EOF {
		return nil, p.unexpected("end of input")
	}
	return &Tree{Root: root, Source: code, Errors: p.skipped}, nil
}

type parser struct {
	src      string
	toks     []Token
	pos      int
	maxDepth int
	groups   []Token
	skipped  []*errors.Error
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

// unexpected reports the current token. Running out of input inside a group
// is reported against the innermost open group instead.
func (p *parser) unexpected(want string) error {
	tok := p.peek()
	if tok.Kind == EOF && len(p.groups) > 0 {
		open := p.groups[len(p.groups)-1]
		return errors.New(errors.ErrCodeUnterminatedGroup, "%s opened at offset %d is never closed", open.Kind, open.Offset).At(open.Offset)
	}
	return errors.New(errors.ErrCodeUnexpectedToken, "expected %s, found %s", want, tok).At(tok.Offset)
}

func (p *parser) enter(open Token) { p.groups = append(p.groups, open) }

func (p *parser) leave(open Token) error {
	if p.peek().Kind != closerFor[open.Kind] {
		return p.unexpected(closerFor[open.Kind].String())
	}
	p.next()
	p.groups = p.groups[:len(p.groups)-1]
	return nil
}

// tooDeep skips the group opened by open when entering it would exceed the
// depth limit. It consumes the whole group, records the error and reports
// whether the group was skipped.
func (p *parser) tooDeep(open Token, depth int) (bool, error) {
	if depth <= p.maxDepth {
		return false, nil
	}
	p.enter(open)
	for n := 1; n > 0; {
		tok := p.peek()
		switch {
		case tok.Kind == EOF:
			return true, p.unexpected(closerFor[open.Kind].String())
		case isOpener(tok.Kind):
			n++
		case isCloser(tok.Kind):
			n--
		}
		p.next()
	}
	p.groups = p.groups[:len(p.groups)-1]
	p.skipped = append(p.skipped, errors.New(errors.ErrCodeMaxDepthExceeded,
		"%s group nests deeper than %d levels", open.Kind, p.maxDepth).At(open.Offset))
	return true, nil
}

// composition := stack (('+' | '|') stack)*
func (p *parser) composition(depth int) (Node, error) {
	offset := p.peek().Offset
	var (
		children []Node
		ops      []Kind
		op       Kind
	)
	for {
		n, err := p.stack(depth)
		if err != nil {
			return nil, err
		}
		if n != nil {
			if len(children) > 0 {
				ops = append(ops, op)
			}
			children = append(children, n)
		}
		tok := p.peek()
		if tok.Kind != Plus && tok.Kind != Pipe {
			break
		}
		op = p.next().Kind
	}
	switch len(children) {
	case 0:
		return nil, nil
	case 1:
		return children[0], nil
	}
	return &Composition{Children: children, Axis: Horizontal, Ops: ops, Offset: offset}, nil
}

// stack := segment ('/' segment)*
//
// Consecutive rows merge into one grid block.
func (p *parser) stack(depth int) (Node, error) {
	offset := p.peek().Offset
	var (
		segs  []Node
		block *GridBlock
	)
	flush := func() {
		if block != nil {
			segs = append(segs, block)
			block = nil
		}
	}
	for {
		switch tok := p.peek(); tok.Kind {
		case LBracket:
			flush()
			region, err := p.region(depth)
			if err != nil {
				return nil, err
			}
			if region != nil {
				segs = append(segs, region)
			}
		case Ident:
			row, err := p.row(depth)
			if err != nil {
				return nil, err
			}
			if block == nil {
				block = &GridBlock{Offset: tok.Offset}
			}
			block.Rows = append(block.Rows, row)
		default:
			return nil, p.unexpected("a row or a named region")
		}
		if p.peek().Kind != Slash {
			break
		}
		p.next()
	}
	flush()

	switch len(segs) {
	case 0:
		return nil, nil
	case 1:
		return segs[0], nil
	}
	ops := make([]Kind, len(segs)-1)
	for i := range ops {
		ops[i] = Slash
	}
	return &Composition{Children: segs, Axis: Vertical, Ops: ops, Offset: offset}, nil
}

// namedRegion := '[' ident ':' composition ']'
func (p *parser) region(depth int) (Node, error) {
	open := p.next()
	if skip, err := p.tooDeep(open, depth+1); skip || err != nil {
		return nil, err
	}
	p.enter(open)

	name := p.peek()
	if name.Kind != Ident {
		if name.Kind == EOF {
			return nil, p.unexpected("a region name")
		}
		return nil, errors.New(errors.ErrCodeMissingRegionName, "named region needs a name before ':'").At(name.Offset)
	}
	p.next()
	if tok := p.peek(); tok.Kind != Colon {
		if tok.Kind == EOF {
			return nil, p.unexpected("':'")
		}
		return nil, errors.New(errors.ErrCodeMissingRegionColon, "expected ':' after region name %q, found %s", name.Text, tok).At(tok.Offset).WithLabel(name.Text)
	}
	p.next()
	if tok := p.peek(); tok.Kind == RBracket {
		return nil, errors.New(errors.ErrCodeEmptyLayout, "region %q is empty", name.Text).At(tok.Offset).WithLabel(name.Text)
	}

	body, err := p.composition(depth + 1)
	if err != nil {
		return nil, err
	}
	if err := p.leave(open); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	return &NamedRegion{Name: name.Text, Body: body, Offset: open.Offset}, nil
}

// row := cell+
//
// Each character of a label run is a cell; specs attach to the last one.
func (p *parser) row(depth int) ([]Cell, error) {
	var cells []Cell
	for p.peek().Kind == Ident {
		tok := p.next()
		for i := 0; i < len(tok.Text); i++ {
			cells = append(cells, Cell{Label: tok.Text[i : i+1], Offset: tok.Offset + i})
		}
		if err := p.specs(&cells[len(cells)-1], depth); err != nil {
			return nil, err
		}
	}
	return cells, nil
}

// specs parses subpanelSpec? insetSpec* after a label.
func (p *parser) specs(c *Cell, depth int) error {
	if p.peek().Kind == LBracket {
		sp, err := p.subpanel(depth)
		if err != nil {
			return err
		}
		c.Subpanel = sp
	}
	for {
		switch p.peek().Kind {
		case LBrace, LAngle:
		default:
			return nil
		}
		in, err := p.inset(depth)
		if err != nil {
			return err
		}
		if in != nil {
			c.Insets = append(c.Insets, *in)
		}
	}
}

// subpanelSpec := '[' (dims | item (',' item)*) ']'
func (p *parser) subpanel(depth int) (*SubpanelSpec, error) {
	open := p.next()
	if skip, err := p.tooDeep(open, depth+1); skip || err != nil {
		return nil, err
	}
	p.enter(open)
	sp := &SubpanelSpec{Offset: open.Offset}

	switch tok := p.peek(); tok.Kind {
	case Dims:
		p.next()
		m := dimsRE.FindStringSubmatch(tok.Text)
		if m == nil {
			return nil, errors.New(errors.ErrCodeInvalidDimension, "invalid subpanel dimensions %q, want RxC", tok.Text).At(tok.Offset)
		}
		rows, err1 := strconv.Atoi(m[1])
		cols, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || rows < 1 || cols < 1 {
			return nil, errors.New(errors.ErrCodeInvalidDimension, "subpanel dimensions %q must be at least 1x1", tok.Text).At(tok.Offset)
		}
		if rows > MaxGridCells/cols {
			return nil, errors.New(errors.ErrCodeInvalidDimension, "subpanel grid %q exceeds %d cells", tok.Text, MaxGridCells).At(tok.Offset)
		}
		sp.Kind, sp.Rows, sp.Cols = SubpanelGrid, rows, cols
	case Ident:
		sp.Kind = SubpanelList
		for {
			tok := p.peek()
			if tok.Kind != Ident {
				return nil, p.unexpected("a subpanel label")
			}
			p.next()
			item := Cell{Label: tok.Text, Offset: tok.Offset}
			if err := p.specs(&item, depth+1); err != nil {
				return nil, err
			}
			sp.Items = append(sp.Items, item)
			if p.peek().Kind != Comma {
				break
			}
			p.next()
		}
	default:
		return nil, p.unexpected("subpanel labels or RxC dimensions")
	}

	if err := p.leave(open); err != nil {
		return nil, err
	}
	return sp, nil
}

// insetSpec := '{' (ident ':')? num ',' num ',' num ',' num '}'
//
//	| '<' (ident ':')? composition '>'
func (p *parser) inset(depth int) (*InsetSpec, error) {
	open := p.next()
	if skip, err := p.tooDeep(open, depth+1); skip || err != nil {
		return nil, err
	}
	p.enter(open)
	in := &InsetSpec{Offset: open.Offset}

	if p.peek().Kind == Ident && p.peekAt(1).Kind == Colon {
		in.Name = p.next().Text
		p.next()
	}

	if open.Kind == LBrace {
		in.Kind = InsetAbsolute
		var vals []float64
		for {
			tok := p.peek()
			if tok.Kind == EOF {
				return nil, p.unexpected("a number")
			}
			if tok.Kind != Number {
				return nil, errors.New(errors.ErrCodeInvalidInsetSpec, "expected a number in inset, found %s", tok).At(tok.Offset)
			}
			v, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidInsetSpec, "invalid inset value %q", tok.Text).At(tok.Offset)
			}
			p.next()
			vals = append(vals, v)
			next := p.peek()
			if next.Kind == RBrace || next.Kind == EOF {
				break
			}
			if next.Kind != Comma {
				return nil, errors.New(errors.ErrCodeInvalidInsetSpec, "expected ',' or '}' in inset, found %s", next).At(next.Offset)
			}
			p.next()
		}
		if p.peek().Kind == EOF {
			return nil, p.unexpected("'}'")
		}
		if len(vals) != 4 {
			return nil, errors.New(errors.ErrCodeInvalidInsetSpec, "inset needs 4 values x,y,w,h, got %d", len(vals)).At(open.Offset)
		}
		in.X, in.Y, in.W, in.H = vals[0], vals[1], vals[2], vals[3]
		if err := p.leave(open); err != nil {
			return nil, err
		}
		return in, nil
	}

	in.Kind = InsetNested
	start := p.peek()
	if start.Kind == RAngle {
		return nil, errors.New(errors.ErrCodeEmptyLayout, "nested inset is empty").At(start.Offset)
	}
	layout, err := p.composition(depth + 1)
	if err != nil {
		return nil, err
	}
	in.Source = strings.TrimSpace(p.src[start.Offset:p.peek().Offset])
	if err := p.leave(open); err != nil {
		return nil, err
	}
	if layout == nil {
		return nil, nil
	}
	in.Layout = layout
	return in, nil
}
