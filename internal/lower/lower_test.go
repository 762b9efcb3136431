package lower

import (
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/stretchr/testify/require"
)

func funcWithBody(name string, params []*ast.Param, ret ast.TypeExpr, body ast.Expr) *ast.FuncDecl {
	return &ast.FuncDecl{Name: name, Params: params, ReturnType: ret, Body: body}
}

func intParam(name string) *ast.Param {
	return &ast.Param{Name: name, Type: &ast.Named{Name: ast.PrimInt}}
}

func TestLowerSimpleArithmeticFunction(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{
			funcWithBody("add", []*ast.Param{intParam("a"), intParam("b")}, &ast.Named{Name: ast.PrimInt},
				&ast.Return{Value: &ast.BinaryOp{Left: &ast.Identifier{Name: "a"}, Op: "+", Right: &ast.Identifier{Name: "b"}}},
			),
		},
	}
	checked, err := check.Check(prog)
	require.NoError(t, err)

	mod, err := Lower(prog, checked, nil)
	require.NoError(t, err)
	require.Len(t, mod.Funcs, 1)
	require.Equal(t, "add", mod.Funcs[0].Name)
	require.True(t, mod.Funcs[0].HasReturn)
	require.NotEmpty(t, mod.Funcs[0].Blocks)
}

func TestLowerIfElseMergesViaBlockParam(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{
			funcWithBody("choose", []*ast.Param{intParam("x")}, &ast.Named{Name: ast.PrimInt},
				&ast.Return{Value: &ast.If{
					Cond: &ast.BinaryOp{Left: &ast.Identifier{Name: "x"}, Op: ">", Right: &ast.Literal{Kind: ast.IntLit, Value: int64(0)}},
					Then: &ast.Literal{Kind: ast.IntLit, Value: int64(1)},
					Else: &ast.Literal{Kind: ast.IntLit, Value: int64(-1)},
				}},
			),
		},
	}
	checked, err := check.Check(prog)
	require.NoError(t, err)

	mod, err := Lower(prog, checked, nil)
	require.NoError(t, err)
	require.Len(t, mod.Funcs, 1)

	found := false
	for _, b := range mod.Funcs[0].Blocks {
		if len(b.Params) > 0 {
			found = true
		}
	}
	require.True(t, found, "expected at least one block with a merge parameter")
}

func TestLowerWhileLoopEmitsSafepointBeforeBackEdge(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{
			funcWithBody("loopy", []*ast.Param{intParam("n")}, nil,
				&ast.While{
					Cond: &ast.BinaryOp{Left: &ast.Identifier{Name: "n"}, Op: ">", Right: &ast.Literal{Kind: ast.IntLit, Value: int64(0)}},
					Body: &ast.Assign{Name: "n", Value: &ast.BinaryOp{Left: &ast.Identifier{Name: "n"}, Op: "-", Right: &ast.Literal{Kind: ast.IntLit, Value: int64(1)}}},
				},
			),
		},
	}
	checked, err := check.Check(prog)
	require.NoError(t, err)

	mod, err := Lower(prog, checked, nil)
	require.NoError(t, err)

	hasSafepoint := false
	for _, b := range mod.Funcs[0].Blocks {
		for _, in := range b.Instrs {
			if in.String() == "safepoint" {
				hasSafepoint = true
			}
		}
	}
	require.True(t, hasSafepoint)
}

func TestLowerSynchronizedSingletonMethodCallLocksAndUnlocks(t *testing.T) {
	prog := &ast.Program{
		Classes: []*ast.Class{{
			Name:   "Counter",
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
	checked, err := check.Check(prog)
	require.NoError(t, err)
	checked.SynchronizedSingletons = map[string]bool{"Counter": true}

	mod, err := Lower(prog, checked, nil)
	require.NoError(t, err)

	lockSeen, unlockSeen := false, false
	for _, f := range mod.Funcs {
		if f.Name != "Counter$bump" {
			continue
		}
		for _, b := range f.Blocks {
			for _, in := range b.Instrs {
				if in.String() == "rwlock.wrlock(Counter)" {
					lockSeen = true
				}
				if in.String() == "rwlock.unlock(Counter)" {
					unlockSeen = true
				}
			}
		}
	}
	require.True(t, lockSeen)
	require.True(t, unlockSeen)
	require.Contains(t, mod.LockSlots, "Counter")
}

func TestLowerGeneratorSplitsIntoCreatorAndNextFunc(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{
			{
				Name:        "counter",
				IsGenerator: true,
				ReturnType:  &ast.Named{Name: ast.PrimInt},
				Body: &ast.Block{Exprs: []ast.Expr{
					&ast.Yield{Value: &ast.Literal{Kind: ast.IntLit, Value: int64(1)}},
					&ast.Yield{Value: &ast.Literal{Kind: ast.IntLit, Value: int64(2)}},
				}},
			},
		},
	}
	checked, err := check.Check(prog)
	require.NoError(t, err)

	mod, err := Lower(prog, checked, nil)
	require.NoError(t, err)
	require.Len(t, mod.Funcs, 2)

	names := []string{mod.Funcs[0].Name, mod.Funcs[1].Name}
	require.Contains(t, names, "counter")
	require.Contains(t, names, "counter$next")

	for _, f := range mod.Funcs {
		if f.Name == "counter$next" {
			require.True(t, f.IsGenerator)
			require.GreaterOrEqual(t, len(f.Blocks), 5) // dispatch, start, 2 resumes, invalid
		}
	}
}

func TestLowerUnresolvedQualifiedAccessIsCodegenFatal(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{
			funcWithBody("bad", nil, &ast.Named{Name: ast.PrimInt},
				&ast.Return{Value: &ast.QualifiedAccess{Module: "math", Name: "pi"}},
			),
		},
	}
	checked, err := check.Check(prog)
	require.NoError(t, err)

	_, err = Lower(prog, checked, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "IR001")
}

func TestLowerSpawnOfNonClosureIsRejected(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{
			funcWithBody("bad", nil, nil,
				&ast.Spawn{Closure: &ast.Identifier{Name: "notAClosure"}},
			),
		},
	}
	checked, err := check.Check(prog)
	require.NoError(t, err)

	_, err = Lower(prog, checked, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "IR004")
}
