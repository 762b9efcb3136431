package ast

import (
	"fmt"
	"strings"
)

// TypeExpr is a surface-syntax type expression, as written by the
// programmer (or reconstructed from a prior binary). The checker resolves
// every TypeExpr to a closed internal/rtypes.Type.
type TypeExpr interface {
	Node
	typeExprNode()
	String() string
}

// Primitive names. These are not a distinct node kind; a primitive is a
// Named type expression whose Name is one of these constants, exactly as
// the surface grammar spells it.
const (
	PrimInt    = "int"
	PrimFloat  = "float"
	PrimBool   = "bool"
	PrimString = "string"
	PrimByte   = "byte"
	PrimBytes  = "bytes"
	PrimVoid   = "void"
)

// Named is a reference to a type by bare name: a primitive, a class,
// trait, enum, error, or a type parameter in scope.
type Named struct {
	Name string
	Pos  Pos
}

func (n *Named) typeExprNode()  {}
func (n *Named) Position() Pos { return n.Pos }
func (n *Named) String() string { return n.Name }

// Array is a homogeneous sequence type.
type Array struct {
	Elem TypeExpr
	Pos  Pos
}

func (a *Array) typeExprNode()  {}
func (a *Array) Position() Pos { return a.Pos }
func (a *Array) String() string { return fmt.Sprintf("[%s]", a.Elem) }

// Qualified is a module-prefixed type name (e.g. math.Vector), as it
// appears in source before module flattening resolves it away.
type Qualified struct {
	Module string
	Name   string
	Pos    Pos
}

func (q *Qualified) typeExprNode()  {}
func (q *Qualified) Position() Pos { return q.Pos }
func (q *Qualified) String() string { return q.Module + "." + q.Name }

// Fn is a function type.
type Fn struct {
	Params []TypeExpr
	Return TypeExpr
	Pos    Pos
}

func (f *Fn) typeExprNode()  {}
func (f *Fn) Position() Pos { return f.Pos }
func (f *Fn) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return fmt.Sprintf("fn(%s) %s", strings.Join(parts, ", "), ret)
}

// Generic is a parameterized type application, e.g. Box[int].
type Generic struct {
	Name string
	Args []TypeExpr
	Pos  Pos
}

func (g *Generic) typeExprNode()  {}
func (g *Generic) Position() Pos { return g.Pos }
func (g *Generic) String() string {
	parts := make([]string, len(g.Args))
	for i, a := range g.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", g.Name, strings.Join(parts, ", "))
}

// Nullable is T? — either none or a value of the inner type.
type Nullable struct {
	Inner TypeExpr
	Pos   Pos
}

func (n *Nullable) typeExprNode()  {}
func (n *Nullable) Position() Pos { return n.Pos }
func (n *Nullable) String() string { return n.Inner.String() + "?" }

// Stream is the return type of a generator function.
type Stream struct {
	Elem TypeExpr
	Pos  Pos
}

func (s *Stream) typeExprNode()  {}
func (s *Stream) Position() Pos { return s.Pos }
func (s *Stream) String() string { return fmt.Sprintf("stream %s", s.Elem) }
