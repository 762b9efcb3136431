package check

import (
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/rtypes"
	"github.com/stretchr/testify/require"
)

func TestCheckResolvesFuncSignature(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{{
			Name:       "add",
			Params:     []*ast.Param{{Name: "a", Type: &ast.Named{Name: ast.PrimInt}}, {Name: "b", Type: &ast.Named{Name: ast.PrimInt}}},
			ReturnType: &ast.Named{Name: ast.PrimInt},
			Body:       &ast.Literal{Kind: ast.IntLit, Value: 0},
		}},
	}

	out, err := Check(prog)
	require.NoError(t, err)

	sig, ok := out.Funcs["add"]
	require.True(t, ok)
	require.True(t, rtypes.Equal(rtypes.Int, sig.Return))
	require.Len(t, sig.Params, 2)
	require.False(t, sig.IsFallible)
}

func TestCheckPropagatesFallibilityTransitively(t *testing.T) {
	prog := &ast.Program{
		Errors: []*ast.ErrorDecl{{Name: "NotFound"}},
		Funcs: []*ast.FuncDecl{
			{
				Name: "lookup",
				Body: &ast.Raise{ErrorName: "NotFound"},
			},
			{
				Name: "caller",
				Body: &ast.Propagate{
					Call: &ast.FuncCall{Func: &ast.Identifier{Name: "lookup"}},
				},
			},
		},
	}

	out, err := Check(prog)
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"NotFound"}, out.CanRaise["lookup"])
	require.ElementsMatch(t, []string{"NotFound"}, out.CanRaise["caller"])
	require.True(t, out.Funcs["lookup"].IsFallible)
	require.True(t, out.Funcs["caller"].IsFallible)
}

func TestCheckResolvesSelfMethodCallToClassDispatch(t *testing.T) {
	prog := &ast.Program{
		Classes: []*ast.Class{{
			Name: "Counter",
			Fields: []*ast.Field{{Name: "count", Type: &ast.Named{Name: ast.PrimInt}}},
			Methods: []*ast.FuncDecl{
				{Name: "reset", ReturnType: &ast.Named{Name: ast.PrimVoid}, Body: &ast.Block{}},
				{
					Name:       "bump",
					ReturnType: &ast.Named{Name: ast.PrimVoid},
					Body: &ast.MethodCall{
						Receiver: &ast.Identifier{Name: "self"},
						Method:   "reset",
					},
				},
			},
		}},
	}

	out, err := Check(prog)
	require.NoError(t, err)

	cl, ok := out.Classes["Counter"]
	require.True(t, ok)
	require.Len(t, cl.Fields, 1)

	bump := findMethodCall(t, prog)
	require.Equal(t, ast.ResClass, bump.Resolution.Kind)
	require.Equal(t, "Counter", bump.Resolution.ClassOrTrait)
}

func findMethodCall(t *testing.T, prog *ast.Program) *ast.MethodCall {
	t.Helper()
	for _, cl := range prog.Classes {
		for _, m := range cl.Methods {
			if call, ok := m.Body.(*ast.MethodCall); ok {
				return call
			}
		}
	}
	t.Fatal("no method call found")
	return nil
}

func TestCheckRejectsSelfOutsideMethod(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{{
			Name: "bad",
			Body: &ast.Identifier{Name: "self"},
		}},
	}
	_, err := Check(prog)
	require.Error(t, err)
}

func TestCheckRejectsBareSend(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{{
			Name: "leak",
			Body: &ast.Send{Channel: &ast.Identifier{Name: "tx"}, Value: &ast.Literal{Kind: ast.IntLit, Value: 1}},
		}},
	}
	_, err := Check(prog)
	require.Error(t, err)
}
