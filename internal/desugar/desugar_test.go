package desugar

import (
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/stretchr/testify/require"
)

func TestDesugarInsertsInjectedFieldAndRewritesReferences(t *testing.T) {
	cl := &ast.Class{
		Name:   "Service",
		Uses:   []string{"Logger"},
		Fields: []*ast.Field{{Name: "count", Type: &ast.Named{Name: ast.PrimInt}}},
		Methods: []*ast.FuncDecl{{
			Name: "run",
			Body: &ast.FuncCall{
				Func: &ast.RecordAccess{Receiver: &ast.Identifier{Name: "logger"}, Field: "info"},
			},
		}},
	}
	prog := &ast.Program{Classes: []*ast.Class{cl}}

	out, err := Desugar(prog)
	require.NoError(t, err)

	require.Len(t, out.Classes[0].Fields, 2)
	injected := out.Classes[0].Fields[0]
	require.Equal(t, "logger", injected.Name)
	require.True(t, injected.IsInjected)
	require.True(t, injected.IsAmbient)

	call := out.Classes[0].Methods[0].Body.(*ast.FuncCall)
	access := call.Func.(*ast.RecordAccess)
	rewritten, ok := access.Receiver.(*ast.RecordAccess)
	require.True(t, ok, "bare `logger` reference should become self.logger")
	require.Equal(t, "logger", rewritten.Field)
	selfIdent, ok := rewritten.Receiver.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "self", selfIdent.Name)
}

func TestDesugarRespectsParamShadowing(t *testing.T) {
	cl := &ast.Class{
		Name: "Service",
		Uses: []string{"Logger"},
		Methods: []*ast.FuncDecl{{
			Name:   "run",
			Params: []*ast.Param{{Name: "logger", Type: &ast.Named{Name: "Logger"}}},
			Body:   &ast.Identifier{Name: "logger"},
		}},
	}
	prog := &ast.Program{Classes: []*ast.Class{cl}}

	out, err := Desugar(prog)
	require.NoError(t, err)

	// The ambient field is still injected, but the `logger` param shadows
	// it, so the body's bare `logger` is left as an identifier rather than
	// rewritten to self.logger.
	require.Len(t, out.Classes[0].Fields, 1)
	require.IsType(t, &ast.Identifier{}, out.Classes[0].Methods[0].Body)
}

func TestDesugarRejectsDuplicateAmbientType(t *testing.T) {
	cl := &ast.Class{Name: "Service", Uses: []string{"Logger", "Logger"}}
	prog := &ast.Program{Classes: []*ast.Class{cl}}

	_, err := Desugar(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DSG001")
}

func TestDesugarRejectsFieldConflict(t *testing.T) {
	cl := &ast.Class{
		Name:   "Service",
		Uses:   []string{"Logger"},
		Fields: []*ast.Field{{Name: "logger", Type: &ast.Named{Name: ast.PrimInt}}},
	}
	prog := &ast.Program{Classes: []*ast.Class{cl}}

	_, err := Desugar(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DSG002")
}

func TestDesugarRejectsGenericClass(t *testing.T) {
	cl := &ast.Class{
		Name:       "Box",
		TypeParams: []ast.TypeParam{{Name: "T"}},
		Uses:       []string{"Logger"},
	}
	prog := &ast.Program{Classes: []*ast.Class{cl}}

	_, err := Desugar(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DSG003")
}
