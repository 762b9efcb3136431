package textsync

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ast"
)

// jaccard computes the Jaccard similarity of two structural feature
// sets: |intersection| / |union|. Two empty sets are considered
// dissimilar (0), since an empty-vs-empty match would otherwise
// trivially satisfy the threshold for any pair of featureless
// declarations.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	union := make(map[string]bool, len(a)+len(b))
	for f := range a {
		union[f] = true
		if b[f] {
			inter++
		}
	}
	for f := range b {
		union[f] = true
	}
	return float64(inter) / float64(len(union))
}

func featureSet(features ...string) map[string]bool {
	m := make(map[string]bool, len(features))
	for _, f := range features {
		m[f] = true
	}
	return m
}

// typeExprName renders a TypeExpr's name for structural comparison. It
// does not need to be a faithful reprint, only stable and distinct
// across different shapes.
func typeExprName(t ast.TypeExpr) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case *ast.Named:
		return v.Name
	case *ast.Qualified:
		return v.Module + "." + v.Name
	case *ast.Array:
		return "[]" + typeExprName(v.Elem)
	case *ast.Nullable:
		return typeExprName(v.Inner) + "?"
	case *ast.Stream:
		return "stream<" + typeExprName(v.Elem) + ">"
	case *ast.Fn:
		s := "fn("
		for i, p := range v.Params {
			if i > 0 {
				s += ","
			}
			s += typeExprName(p)
		}
		return s + ")" + typeExprName(v.Return)
	case *ast.Generic:
		s := v.Name + "["
		for i, a := range v.Args {
			if i > 0 {
				s += ","
			}
			s += typeExprName(a)
		}
		return s + "]"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// funcFeatures is spec.md's function similarity feature set: parameter
// count and ordered parameter type names.
func funcFeatures(fn *ast.FuncDecl) map[string]bool {
	fs := []string{fmt.Sprintf("count:%d", len(fn.Params))}
	for i, p := range fn.Params {
		fs = append(fs, fmt.Sprintf("p%d:%s", i, typeExprName(p.Type)))
	}
	return featureSet(fs...)
}

// fieldFeatures is the field-name set plus each field's type name keyed
// by its position, shared by classes and error types.
func fieldFeatures(fields []*ast.Field) map[string]bool {
	var fs []string
	for i, f := range fields {
		fs = append(fs, "field:"+f.Name, fmt.Sprintf("ftype%d:%s", i, typeExprName(f.Type)))
	}
	return featureSet(fs...)
}

// enumFeatures is the variant-name set.
func enumFeatures(variants []*ast.Variant) map[string]bool {
	var fs []string
	for _, v := range variants {
		fs = append(fs, "variant:"+v.Name)
	}
	return featureSet(fs...)
}

// traitFeatures is the trait-method-name set, the same kind of
// structural signature classes use but over method names instead of
// fields (traits have no fields).
func traitFeatures(methods []*ast.TraitMethod) map[string]bool {
	var fs []string
	for _, m := range methods {
		fs = append(fs, "method:"+m.Name)
	}
	return featureSet(fs...)
}

const renameThreshold = 0.75
