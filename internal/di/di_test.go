package di

import (
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/stretchr/testify/require"
)

func classWithField(name string, lifecycle ast.Lifecycle, fieldType string) *ast.Class {
	cl := &ast.Class{Name: name, Lifecycle: lifecycle}
	if fieldType != "" {
		cl.Fields = append(cl.Fields, &ast.Field{Name: "dep", Type: &ast.Named{Name: fieldType}, IsInjected: true})
	}
	return cl
}

func TestBuildSingletonPlanOrdersDependenciesFirst(t *testing.T) {
	db := classWithField("DB", ast.Singleton, "")
	service := classWithField("Service", ast.Singleton, "DB")
	prog := &ast.Program{Classes: []*ast.Class{service, db}}

	plan, err := BuildSingletonPlan(prog, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"DB", "Service"}, plan.Order)
}

func TestBuildSingletonPlanRejectsCycle(t *testing.T) {
	a := classWithField("A", ast.Singleton, "B")
	b := classWithField("B", ast.Singleton, "A")
	prog := &ast.Program{Classes: []*ast.Class{a, b}}

	_, err := BuildSingletonPlan(prog, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DI001")
}

func TestEffectiveLifecyclesAppliesOverride(t *testing.T) {
	cl := classWithField("Widget", ast.Singleton, "")
	prog := &ast.Program{
		Classes: []*ast.Class{cl},
		App: &ast.App{
			Name:               "Main",
			LifecycleOverrides: []ast.LifecycleOverride{{ClassName: "Widget", Lifecycle: ast.Scoped}},
		},
	}

	eff := EffectiveLifecycles(prog)
	require.Equal(t, ast.Scoped, eff["Widget"])
}

func TestBuildScopePlanClassifiesSeedAndSingletonDeps(t *testing.T) {
	db := classWithField("DB", ast.Singleton, "")
	request := classWithField("Request", ast.Scoped, "DB")
	classByName := map[string]*ast.Class{"DB": db, "Request": request}
	eff := map[string]ast.Lifecycle{"DB": ast.Singleton, "Request": ast.Scoped}

	sb := &ast.ScopeBlock{
		Seeds: []ast.ScopeSeed{{Expr: &ast.Construct{ClassName: "Request"}}},
		Bindings: []ast.ScopeBinding{
			{Name: "req", Type: &ast.Named{Name: "Request"}},
		},
		Body: &ast.Block{},
	}

	plan, err := BuildScopePlan(sb, classByName, eff)
	require.NoError(t, err)
	require.Equal(t, []string{"Request"}, plan.SeedClasses)
	require.Contains(t, plan.CreationOrder, "Request")
	require.Len(t, plan.Wiring["Request"], 1)
	require.Equal(t, DepSingleton, plan.Wiring["Request"][0].Kind)
	require.Equal(t, "DB", plan.Wiring["Request"][0].ClassName)
}

func TestBuildScopePlanRejectsNonConstructSeed(t *testing.T) {
	sb := &ast.ScopeBlock{
		Seeds: []ast.ScopeSeed{{Expr: &ast.Identifier{Name: "x"}}},
		Body:  &ast.Block{},
	}
	_, err := BuildScopePlan(sb, map[string]*ast.Class{}, map[string]ast.Lifecycle{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "DI002")
}

func TestAnalyzeEscapeRejectsReturnedCapturingClosureThroughLet(t *testing.T) {
	sb := &ast.ScopeBlock{
		Bindings: []ast.ScopeBinding{{Name: "req", Type: &ast.Named{Name: "Request"}}},
		Body: &ast.Let{
			Name: "f",
			Value: &ast.ClosureCreate{
				Body: &ast.Identifier{Name: "req"},
			},
			Body: &ast.Return{Value: &ast.Identifier{Name: "f"}},
		},
	}

	err := AnalyzeEscape(sb)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DI006")
	// spec.md 8.6: the message must literally contain this substring.
	require.Contains(t, err.Error(), "cannot escape scope block")
}

func TestAnalyzeEscapeAllowsNonCapturingClosureReturn(t *testing.T) {
	sb := &ast.ScopeBlock{
		Bindings: []ast.ScopeBinding{{Name: "req", Type: &ast.Named{Name: "Request"}}},
		Body: &ast.Return{
			Value: &ast.ClosureCreate{Body: &ast.Literal{Kind: ast.IntLit, Value: 1}},
		},
	}

	err := AnalyzeEscape(sb)
	require.NoError(t, err)
}
