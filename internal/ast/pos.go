package ast

import "fmt"

// Pos is a byte position in a source file.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a byte range in a source file. Spans are advisory: they exist
// for diagnostics and are never used as an identity key once parsing has
// finished (see ident.ID for the stable identity that survives edits).
type Span struct {
	Start Pos
	End   Pos
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Position() Pos
}
