package di

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
)

// Plan is the full DI wiring result for a program: the global singleton
// order plus one ScopePlan per `scope` statement found in any function,
// method, or class/app/stage body.
type Plan struct {
	Singletons *SingletonPlan
	Scopes     map[*ast.ScopeBlock]*ScopePlan
}

// Wire runs the full DI wiring pass (spec.md 4.7): builds the singleton
// DAG, then resolves and escape-checks every scope block reachable from
// any function, method, app, or stage body.
func Wire(prog *ast.Program, checked *check.Program) (*Plan, error) {
	singletons, err := BuildSingletonPlan(prog, checked)
	if err != nil {
		return nil, err
	}

	classByName := make(map[string]*ast.Class, len(prog.Classes))
	for _, cl := range prog.Classes {
		classByName[cl.Name] = cl
	}
	eff := EffectiveLifecycles(prog)

	scopes := make(map[*ast.ScopeBlock]*ScopePlan)
	var walkErr error
	visit := func(body ast.Expr) {
		if walkErr != nil || body == nil {
			return
		}
		check.Walk(body, func(e ast.Expr) {
			if walkErr != nil {
				return
			}
			sb, ok := e.(*ast.ScopeBlock)
			if !ok {
				return
			}
			plan, err := BuildScopePlan(sb, classByName, eff)
			if err != nil {
				walkErr = err
				return
			}
			if err := AnalyzeEscape(sb); err != nil {
				walkErr = err
				return
			}
			scopes[sb] = plan
		})
	}

	for _, fn := range prog.Funcs {
		visit(fn.Body)
	}
	for _, cl := range prog.Classes {
		for _, m := range cl.Methods {
			visit(m.Body)
		}
	}
	if prog.App != nil {
		for _, m := range prog.App.Methods {
			visit(m.Body)
		}
	}
	for _, st := range prog.Stages {
		for _, m := range st.Methods {
			visit(m.Body)
		}
	}
	if walkErr != nil {
		return nil, walkErr
	}

	return &Plan{Singletons: singletons, Scopes: scopes}, nil
}
