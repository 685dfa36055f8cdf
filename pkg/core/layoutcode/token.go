package layoutcode

import "fmt"

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	EOF      Kind = iota
	Ident         // run of label characters: a, ab, zoom1, ii
	Number        // numeric literal, only inside {}
	Dims          // RxC dimension spec, only directly after [
	Slash         // row separator: '/' or newline
	LBracket      // [
	RBracket      // ]
	LBrace        // {
	RBrace        // }
	LAngle        // <
	RAngle        // >
	Plus          // +
	Pipe          // |
	Colon         // :
	Comma         // ,
)

var kindNames = [...]string{
	EOF:      "end of input",
	Ident:    "label",
	Number:   "number",
	Dims:     "dimensions",
	Slash:    "'/'",
	LBracket: "'['",
	RBracket: "']'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LAngle:   "'<'",
	RAngle:   "'>'",
	Plus:     "'+'",
	Pipe:     "'|'",
	Colon:    "':'",
	Comma:    "','",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a lexeme with its byte offset into the layout code.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Number, Dims:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}

// closerFor maps each opening bracket to the kind that closes it.
var closerFor = map[Kind]Kind{
	LBracket: RBracket,
	LBrace:   RBrace,
	LAngle:   RAngle,
}

func isOpener(k Kind) bool {
	_, ok := closerFor[k]
	return ok
}

func isCloser(k Kind) bool { return k == RBracket || k == RBrace || k == RAngle }

func isLabelChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.'
}

func isNumberChar(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
