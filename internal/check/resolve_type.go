package check

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/errors"
	"github.com/sablelang/sablec/internal/rtypes"
)

// resolveTypeExpr turns surface syntax into the closed resolved-type set.
// A *ast.Qualified surviving to this point is an internal/modres defect,
// not a user error, so it is reported as TC002 rather than silently
// coerced.
func (c *Checker) resolveTypeExpr(t ast.TypeExpr) rtypes.Type {
	if t == nil {
		return rtypes.Void
	}
	switch v := t.(type) {
	case *ast.Named:
		return c.resolveNamed(v)
	case *ast.Qualified:
		c.fail(errors.TC002, v.Pos, "unresolved qualified type %s.%s reached the checker", v.Module, v.Name)
		return rtypes.Void
	case *ast.Array:
		return rtypes.Array(c.resolveTypeExpr(v.Elem))
	case *ast.Nullable:
		return rtypes.Nullable(c.resolveTypeExpr(v.Inner))
	case *ast.Stream:
		return rtypes.Stream(c.resolveTypeExpr(v.Elem))
	case *ast.Fn:
		params := make([]rtypes.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = c.resolveTypeExpr(p)
		}
		return rtypes.Fn(params, c.resolveTypeExpr(v.Return))
	case *ast.Generic:
		args := make([]rtypes.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.resolveTypeExpr(a)
		}
		kind := c.genericBaseKind(v.Name)
		return rtypes.GenericInstance(kind, v.Name, args)
	default:
		c.fail(errors.TC002, t.Position(), "unrecognized type expression")
		return rtypes.Void
	}
}

func (c *Checker) genericBaseKind(name string) rtypes.Kind {
	switch {
	case c.classNames[name] != nil:
		return rtypes.KClass
	case c.enumNames[name] != nil:
		return rtypes.KEnum
	case c.traitNames[name] != nil:
		return rtypes.KTrait
	default:
		return rtypes.KClass
	}
}

func (c *Checker) resolveNamed(v *ast.Named) rtypes.Type {
	switch v.Name {
	case ast.PrimInt:
		return rtypes.Int
	case ast.PrimFloat:
		return rtypes.Float
	case ast.PrimBool:
		return rtypes.Bool
	case ast.PrimByte:
		return rtypes.Byte
	case ast.PrimBytes:
		return rtypes.Bytes
	case ast.PrimString:
		return rtypes.String
	case ast.PrimVoid:
		return rtypes.Void
	}
	if c.classNames[v.Name] != nil {
		return rtypes.Class(v.Name)
	}
	if c.traitNames[v.Name] != nil {
		return rtypes.Trait(v.Name)
	}
	if c.enumNames[v.Name] != nil {
		return rtypes.Enum(v.Name)
	}
	if c.errorNames[v.Name] != nil {
		return rtypes.Type{Kind: rtypes.KError, Name: v.Name}
	}
	// Unresolved names are assumed to be type parameters in scope; the
	// DI/lowering stages reject any that survive to codegen (IR003).
	return rtypes.TypeParam(v.Name)
}
