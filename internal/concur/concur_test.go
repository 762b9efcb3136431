package concur

import (
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/stretchr/testify/require"
)

func singletonClass(name string) *ast.Class {
	return &ast.Class{Name: name, Lifecycle: ast.Singleton, Methods: []*ast.FuncDecl{
		{Name: "bump", Body: &ast.Literal{Kind: ast.IntLit, Value: 1}},
	}}
}

func selfCallTo(class, method string) ast.Expr {
	return &ast.MethodCall{
		Receiver:   &ast.Identifier{Name: "self"},
		Method:     method,
		Resolution: ast.MethodResolution{Kind: ast.ResClass, ClassOrTrait: class},
	}
}

// Two distinct spawn sites both touch Counter: it must be synchronized.
func TestAnalyzeMarksSingletonReachableFromTwoSpawns(t *testing.T) {
	counter := singletonClass("Counter")
	app := &ast.App{
		Name: "Main",
		Methods: []*ast.FuncDecl{
			{Name: "main", Body: &ast.Block{Exprs: []ast.Expr{
				&ast.Spawn{Closure: &ast.ClosureCreate{Body: selfCallTo("Counter", "bump")}},
				&ast.Spawn{Closure: &ast.ClosureCreate{Body: selfCallTo("Counter", "bump")}},
			}}},
		},
	}
	prog := &ast.Program{Classes: []*ast.Class{counter}, App: app}

	result, err := Analyze(prog, &check.Program{})
	require.NoError(t, err)
	require.True(t, result.SynchronizedSingletons["Counter"])
}

// Reachable from exactly one spawn and never from main: no sync needed.
func TestAnalyzeLeavesSingleSpawnOnlySingletonUnsynchronized(t *testing.T) {
	counter := singletonClass("Counter")
	app := &ast.App{
		Name: "Main",
		Methods: []*ast.FuncDecl{
			{Name: "main", Body: &ast.Block{Exprs: []ast.Expr{
				&ast.Spawn{Closure: &ast.ClosureCreate{Body: selfCallTo("Counter", "bump")}},
			}}},
		},
	}
	prog := &ast.Program{Classes: []*ast.Class{counter}, App: app}

	result, err := Analyze(prog, &check.Program{})
	require.NoError(t, err)
	require.False(t, result.SynchronizedSingletons["Counter"])
}

// Reachable from one spawn AND from main: needs sync.
func TestAnalyzeMarksSingletonSharedBetweenSpawnAndMain(t *testing.T) {
	counter := singletonClass("Counter")
	app := &ast.App{
		Name: "Main",
		Methods: []*ast.FuncDecl{
			{Name: "main", Body: &ast.Block{Exprs: []ast.Expr{
				selfCallTo("Counter", "bump"),
				&ast.Spawn{Closure: &ast.ClosureCreate{Body: selfCallTo("Counter", "bump")}},
			}}},
		},
	}
	prog := &ast.Program{Classes: []*ast.Class{counter}, App: app}

	result, err := Analyze(prog, &check.Program{})
	require.NoError(t, err)
	require.True(t, result.SynchronizedSingletons["Counter"])
}

// A spawned closure's access to a singleton does not leak back into its
// spawner's own reach: the spawner body itself records no access (the
// spawn boundary is opaque to the caller).
func TestDirectEffectsStopsAtSpawnBoundary(t *testing.T) {
	body := &ast.Block{Exprs: []ast.Expr{
		&ast.Spawn{Closure: &ast.ClosureCreate{Body: selfCallTo("Counter", "bump")}},
	}}
	eff := map[string]ast.Lifecycle{"Counter": ast.Singleton}
	access, _ := directEffects(body, eff)
	require.Empty(t, access)
}

// Calling through an intermediate helper function still attributes the
// access to the spawn root via the fixed-point call graph.
func TestAnalyzeFollowsCallGraphThroughHelperFunction(t *testing.T) {
	counter := singletonClass("Counter")
	helper := &ast.FuncDecl{Name: "touch", Body: selfCallTo("Counter", "bump")}
	app := &ast.App{
		Name: "Main",
		Methods: []*ast.FuncDecl{
			{Name: "main", Body: &ast.Block{Exprs: []ast.Expr{
				&ast.Spawn{Closure: &ast.ClosureCreate{Body: &ast.FuncCall{Func: &ast.Identifier{Name: "touch"}}}},
				&ast.Spawn{Closure: &ast.ClosureCreate{Body: &ast.FuncCall{Func: &ast.Identifier{Name: "touch"}}}},
			}}},
		},
	}
	prog := &ast.Program{Classes: []*ast.Class{counter}, Funcs: []*ast.FuncDecl{helper}, App: app}

	result, err := Analyze(prog, &check.Program{})
	require.NoError(t, err)
	require.True(t, result.SynchronizedSingletons["Counter"])
}
