package layoutcode

import (
	"unicode/utf8"

	"github.com/matzehuels/panelgrid/pkg/errors"
)

// Lex splits a layout code into tokens. The returned slice always ends with
// an [EOF] token.
//
// Lexing is context-sensitive: digits inside braces form [Number] tokens and
// an RxC run directly after '[' forms a [Dims] token. Everywhere else label
// characters form [Ident] runs. A newline acts as a row separator unless it
// is redundant (blank lines, or a newline next to an operator or bracket).
//
// Lex fails with UNMATCHED_BRACKET for a closer that does not match the
// innermost open bracket, and with INVALID_CHARACTER for anything outside the
// alphabet. Brackets still open at the end are left to the parser.
func Lex(code string) ([]Token, error) {
	l := &lexer{src: code}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

type lexer struct {
	src   string
	pos   int
	toks  []Token
	stack []Token
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '\n':
			l.newline()
			l.pos++
		case c == '/':
			l.single(Slash)
		case c == '+':
			l.single(Plus)
		case c == '|':
			l.single(Pipe)
		case c == ':':
			l.single(Colon)
		case c == ',':
			l.single(Comma)
		case c == '[':
			l.open(LBracket)
		case c == '{':
			l.open(LBrace)
		case c == '<':
			l.open(LAngle)
		case c == ']':
			if err := l.close(RBracket); err != nil {
				return err
			}
		case c == '}':
			if err := l.close(RBrace); err != nil {
				return err
			}
		case c == '>':
			if err := l.close(RAngle); err != nil {
				return err
			}
		case l.inBraces() && isNumberChar(c):
			l.number()
		case isLabelChar(c):
			l.ident()
		default:
			r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
			return errors.New(errors.ErrCodeInvalidCharacter, "invalid character %q", r).At(l.pos)
		}
	}
	l.emit(Token{Kind: EOF, Offset: len(l.src)})
	return nil
}

func (l *lexer) single(k Kind) {
	l.emit(Token{Kind: k, Text: l.src[l.pos : l.pos+1], Offset: l.pos})
	l.pos++
}

func (l *lexer) open(k Kind) {
	tok := Token{Kind: k, Text: l.src[l.pos : l.pos+1], Offset: l.pos}
	l.stack = append(l.stack, tok)
	l.emit(tok)
	l.pos++
}

func (l *lexer) close(k Kind) error {
	if len(l.stack) == 0 {
		return errors.New(errors.ErrCodeUnmatchedBracket, "unexpected %s with no open group", k).At(l.pos)
	}
	top := l.stack[len(l.stack)-1]
	if closerFor[top.Kind] != k {
		return errors.New(errors.ErrCodeUnmatchedBracket, "%s does not close %s opened at offset %d", k, top.Kind, top.Offset).At(l.pos)
	}
	l.stack = l.stack[:len(l.stack)-1]
	l.single(k)
	return nil
}

func (l *lexer) inBraces() bool {
	return len(l.stack) > 0 && l.stack[len(l.stack)-1].Kind == LBrace
}

func (l *lexer) number() {
	start := l.pos
	for l.pos < len(l.src) && isNumberChar(l.src[l.pos]) {
		l.pos++
	}
	l.emit(Token{Kind: Number, Text: l.src[start:l.pos], Offset: start})
}

func (l *lexer) ident() {
	start := l.pos
	hasX := false
	for l.pos < len(l.src) && isLabelChar(l.src[l.pos]) {
		if c := l.src[l.pos]; c == 'x' || c == 'X' {
			hasX = true
		}
		l.pos++
	}
	kind := Ident
	if hasX && isDigit(l.src[start]) && l.last().Kind == LBracket {
		kind = Dims
	}
	l.emit(Token{Kind: kind, Text: l.src[start:l.pos], Offset: start})
}

// newline records a row separator unless the previous token makes it
// redundant.
func (l *lexer) newline() {
	if len(l.toks) == 0 {
		return
	}
	switch l.last().Kind {
	case Slash, Plus, Pipe, Colon, Comma, LBracket, LBrace, LAngle:
		return
	}
	l.toks = append(l.toks, Token{Kind: Slash, Text: "\n", Offset: l.pos})
}

func (l *lexer) emit(tok Token) {
	if n := len(l.toks); n > 0 && l.toks[n-1].Kind == Slash && l.toks[n-1].Text == "\n" {
		switch {
		case tok.Kind == EOF, tok.Kind == Slash, tok.Kind == Plus, tok.Kind == Pipe,
			tok.Kind == Colon, tok.Kind == Comma, isCloser(tok.Kind):
			l.toks = l.toks[:n-1]
		}
	}
	l.toks = append(l.toks, tok)
}

func (l *lexer) last() Token {
	if len(l.toks) == 0 {
		return Token{Kind: EOF, Offset: -1}
	}
	return l.toks[len(l.toks)-1]
}
