package layoutcode

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/panelgrid/pkg/errors"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []Kind
	}{
		{"rows", "ab/cd", []Kind{Ident, Slash, Ident, EOF}},
		{"newline rows", "ab\ncd\n", []Kind{Ident, Slash, Ident, EOF}},
		{"blank lines", "\nab\n\n\ncd", []Kind{Ident, Slash, Ident, EOF}},
		{"whitespace", " a b\t/ c\r d ", []Kind{Ident, Ident, Slash, Ident, Ident, EOF}},
		{"absolute inset", "a{0.7,0.7,0.25,0.25}", []Kind{Ident, LBrace, Number, Comma, Number, Comma, Number, Comma, Number, RBrace, EOF}},
		{"named inset", "a{z:0,0,1,1}", []Kind{Ident, LBrace, Ident, Colon, Number, Comma, Number, Comma, Number, Comma, Number, RBrace, EOF}},
		{"grid subpanel", "a[2x3]", []Kind{Ident, LBracket, Dims, RBracket, EOF}},
		{"list subpanel", "a[i,ii]", []Kind{Ident, LBracket, Ident, Comma, Ident, RBracket, EOF}},
		{"nested inset", "a<bc/de>", []Kind{Ident, LAngle, Ident, Slash, Ident, RAngle, EOF}},
		{"regions", "[l:a]+[r:b]|c", []Kind{LBracket, Ident, Colon, Ident, RBracket, Plus, LBracket, Ident, Colon, Ident, RBracket, Pipe, Ident, EOF}},
		{"newline before operator", "ab\n+cd", []Kind{Ident, Plus, Ident, EOF}},
		{"newline inside region", "[t:\naa\nbb\n]", []Kind{LBracket, Ident, Colon, Ident, Slash, Ident, RBracket, EOF}},
		{"unclosed group", "a[", []Kind{Ident, LBracket, EOF}},
		{"gap cells", "a.b", []Kind{Ident, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Lex(tt.code)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.code, err)
			}
			if diff := cmp.Diff(tt.want, kinds(toks)); diff != "" {
				t.Errorf("Lex(%q) kinds mismatch (-want +got):\n%s", tt.code, diff)
			}
		})
	}
}

func TestLexText(t *testing.T) {
	toks, err := Lex("a[2X3]{z:-0.5,1,.25,1}")
	if err != nil {
		t.Fatalf("Lex() error: %v", err)
	}
	want := []Token{
		{Ident, "a", 0},
		{LBracket, "[", 1},
		{Dims, "2X3", 2},
		{RBracket, "]", 5},
		{LBrace, "{", 6},
		{Ident, "z", 7},
		{Colon, ":", 8},
		{Number, "-0.5", 9},
		{Comma, ",", 13},
		{Number, "1", 14},
		{Comma, ",", 15},
		{Number, ".25", 16},
		{Comma, ",", 19},
		{Number, "1", 20},
		{RBrace, "}", 21},
		{EOF, "", 22},
	}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("Lex() mismatch (-want +got):\n%s", diff)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantCode errors.Code
		offset   int
	}{
		{"stray closer", "a]", errors.ErrCodeUnmatchedBracket, 1},
		{"wrong closer", "a{0.1]", errors.ErrCodeUnmatchedBracket, 5},
		{"angle closes bracket", "[a:b>", errors.ErrCodeUnmatchedBracket, 4},
		{"hash", "a#b", errors.ErrCodeInvalidCharacter, 1},
		{"minus outside braces", "a-b", errors.ErrCodeInvalidCharacter, 1},
		{"unicode", "aé", errors.ErrCodeInvalidCharacter, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.code)
			if err == nil {
				t.Fatalf("Lex(%q) expected error", tt.code)
			}
			var e *errors.Error
			if !errors.As(err, &e) {
				t.Fatalf("Lex(%q) error is %T, want *errors.Error", tt.code, err)
			}
			if e.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", e.Code, tt.wantCode)
			}
			if e.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", e.Offset, tt.offset)
			}
		})
	}
}
