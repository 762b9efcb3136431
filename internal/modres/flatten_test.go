package modres

import (
	"fmt"
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/stretchr/testify/require"
)

// mapLoader is a fixed in-memory Loader for tests, standing in for the
// filesystem- or binary-backed loader the CLI driver supplies.
type mapLoader struct {
	units map[string]*Unit
}

func (l *mapLoader) Load(importPath string) (*Unit, error) {
	u, ok := l.units[importPath]
	if !ok {
		return nil, fmt.Errorf("unexpected import path: %s", importPath)
	}
	return u, nil
}

func TestFlattenPrefixesImportedDeclarations(t *testing.T) {
	mathProg := &ast.Program{
		Funcs: []*ast.FuncDecl{{Name: "add"}},
	}
	entry := &ast.Program{
		Imports: []*ast.Import{{Path: "math"}},
		Funcs: []*ast.FuncDecl{{
			Name: "main",
			Body: &ast.FuncCall{
				Func: &ast.QualifiedAccess{Module: "math", Name: "add"},
				Args: []ast.Expr{&ast.Literal{Kind: ast.IntLit, Value: 1}},
			},
		}},
	}
	loader := &mapLoader{units: map[string]*Unit{
		"math": {ModulePath: "math", Program: mathProg},
	}}

	out, err := Flatten("entry", entry, loader)
	require.NoError(t, err)
	require.Len(t, out.Funcs, 2)

	var mainFn, addFn *ast.FuncDecl
	for _, fn := range out.Funcs {
		switch fn.Name {
		case "main":
			mainFn = fn
		case "math.add":
			addFn = fn
		}
	}
	require.NotNil(t, addFn, "imported function should be prefixed with its module path")
	require.NotNil(t, mainFn)

	call, ok := mainFn.Body.(*ast.FuncCall)
	require.True(t, ok)
	ident, ok := call.Func.(*ast.Identifier)
	require.True(t, ok, "QualifiedAccess must be rewritten to a plain Identifier")
	require.Equal(t, "math.add", ident.Name)
}

func TestFlattenDetectsImportCycles(t *testing.T) {
	a := &ast.Program{Imports: []*ast.Import{{Path: "b"}}}
	b := &ast.Program{Imports: []*ast.Import{{Path: "a"}}}
	loader := &mapLoader{units: map[string]*Unit{
		"a": {ModulePath: "a", Program: a},
		"b": {ModulePath: "b", Program: b},
	}}

	_, err := Flatten("a", a, loader)
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestFlattenRejectsDuplicateQualifiedNames(t *testing.T) {
	entry := &ast.Program{
		Funcs: []*ast.FuncDecl{
			{Name: "helper"},
			{Name: "helper"},
		},
	}
	loader := &mapLoader{units: map[string]*Unit{}}

	_, err := Flatten("entry", entry, loader)
	require.Error(t, err)
	require.Contains(t, err.Error(), "MOD002")
}

func TestFlattenRejectsMultipleAppDeclarations(t *testing.T) {
	entry := &ast.Program{
		Imports: []*ast.Import{{Path: "other"}},
		App:     &ast.App{Name: "Main"},
	}
	other := &ast.Program{
		App: &ast.App{Name: "OtherMain"},
	}
	loader := &mapLoader{units: map[string]*Unit{
		"other": {ModulePath: "other", Program: other},
	}}

	_, err := Flatten("entry", entry, loader)
	require.Error(t, err)
	require.Contains(t, err.Error(), "MOD001")
}

func TestFlattenResolvesQualifiedTypeExpressions(t *testing.T) {
	mathProg := &ast.Program{
		Enums: []*ast.Enum{{Name: "Result"}},
	}
	entry := &ast.Program{
		Imports: []*ast.Import{{Path: "math"}},
		Funcs: []*ast.FuncDecl{{
			Name:       "compute",
			ReturnType: &ast.Qualified{Module: "math", Name: "Result"},
			Body:       &ast.Literal{Kind: ast.IntLit, Value: 0},
		}},
	}
	loader := &mapLoader{units: map[string]*Unit{
		"math": {ModulePath: "math", Program: mathProg},
	}}

	out, err := Flatten("entry", entry, loader)
	require.NoError(t, err)

	var computeFn *ast.FuncDecl
	for _, fn := range out.Funcs {
		if fn.Name == "compute" {
			computeFn = fn
		}
	}
	require.NotNil(t, computeFn)
	named, ok := computeFn.ReturnType.(*ast.Named)
	require.True(t, ok, "Qualified type expr must be rewritten to Named")
	require.Equal(t, "math.Result", named.Name)
}
