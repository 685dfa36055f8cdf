// Package layoutcode tokenizes and parses layout codes, the ASCII-art
// mini-language that describes multi-panel figures.
//
// # Grammar
//
//	layout      := composition EOF
//	composition := stack (('+' | '|') stack)*
//	stack       := segment ('/' segment)*
//	segment     := namedRegion | row
//	namedRegion := '[' ident ':' composition ']'
//	row         := cell+
//	cell        := label subpanelSpec? insetSpec*
//	subpanelSpec:= '[' (dims | item (',' item)*) ']'
//	item        := ident subpanelSpec? insetSpec*
//	insetSpec   := '{' (ident ':')? num ',' num ',' num ',' num '}'
//	             | '<' (ident ':')? composition '>'
//
// In a row every character is one cell, so "aab" is three cells and the label
// a spans two of them. A newline separates rows like '/'. Brackets are
// overloaded: after a label '[' opens a subpanel spec, at the start of a
// segment it opens a named region.
//
// # Examples
//
//	ab/cd                  2x2 grid
//	aab/aac/ddd            a spans 2x2, d spans the bottom row
//	a[2x3]b                a is split into a 2x3 grid of subpanels
//	a[i,ii,iii]b           a is split into a 1x3 strip i, ii, iii
//	a{0.7,0.7,0.25,0.25}b  a carries an absolute inset
//	a<zoom:xy/xz>b         a carries a nested layout inset named zoom
//	[top:aa/bb]/[bot:cd]   two named regions stacked vertically
//	[l:a/b]+[r:c/d]        two named regions side by side
//
// The parser produces a tree of [Node] values; resolving the tree into
// coordinates is the job of package grid.
package layoutcode
