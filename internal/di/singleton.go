// Package di wires the program's singleton dependency graph and computes
// a per-scope-block instantiation plan (spec.md 4.7).
package di

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/errors"
)

// Lifecycle mirrors ast.Lifecycle for packages that only need DI's view
// of it (effective lifecycle, after app/stage overrides).
type Lifecycle = ast.Lifecycle

// SingletonPlan is the global wiring order: singletons constructed before
// any other singleton that depends on them.
type SingletonPlan struct {
	Order []string // class names, dependency-first
}

// EffectiveLifecycles computes each class's lifecycle after applying
// every app/stage lifecycle-override entry (spec.md 4.7: "force
// scoped/transient on classes declared singleton").
func EffectiveLifecycles(prog *ast.Program) map[string]ast.Lifecycle {
	eff := make(map[string]ast.Lifecycle, len(prog.Classes))
	for _, cl := range prog.Classes {
		eff[cl.Name] = cl.Lifecycle
	}
	apply := func(overrides []ast.LifecycleOverride) {
		for _, o := range overrides {
			eff[o.ClassName] = o.Lifecycle
		}
	}
	if prog.App != nil {
		apply(prog.App.LifecycleOverrides)
	}
	for _, st := range prog.Stages {
		apply(st.LifecycleOverrides)
	}
	return eff
}

// BuildSingletonPlan builds the DAG over classes whose effective
// lifecycle is Singleton, from their injected fields, and topologically
// orders it (dependency-first). Cycles are rejected as DI001.
func BuildSingletonPlan(prog *ast.Program, checked *check.Program) (*SingletonPlan, error) {
	eff := EffectiveLifecycles(prog)

	classByName := make(map[string]*ast.Class, len(prog.Classes))
	for _, cl := range prog.Classes {
		classByName[cl.Name] = cl
	}

	isSingleton := func(name string) bool {
		cl, ok := classByName[name]
		return ok && eff[cl.Name] == ast.Singleton
	}

	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var order []string
	var path []string

	var dfs func(name string) error
	dfs = func(name string) error {
		if visited[name] {
			return nil
		}
		if inPath[name] {
			cycle := append([]string{}, path...)
			start := 0
			for i, n := range cycle {
				if n == name {
					start = i
					break
				}
			}
			cycle = append(cycle[start:], name)
			return fmt.Errorf("%s: singleton dependency cycle: %v", errors.DI001, cycle)
		}

		cl := classByName[name]
		if cl == nil {
			return nil
		}

		inPath[name] = true
		path = append(path, name)

		for _, f := range cl.Fields {
			if !f.IsInjected {
				continue
			}
			depName := classNameOfType(f.Type)
			if depName == "" || !isSingleton(depName) {
				continue
			}
			if err := dfs(depName); err != nil {
				return err
			}
		}

		visited[name] = true
		inPath[name] = false
		path = path[:len(path)-1]
		order = append(order, name)
		return nil
	}

	for _, cl := range prog.Classes {
		if isSingleton(cl.Name) {
			if err := dfs(cl.Name); err != nil {
				return nil, err
			}
		}
	}

	return &SingletonPlan{Order: order}, nil
}

// classNameOfType extracts a bare class/trait name from a field's
// TypeExpr, if it names one directly (as opposed to e.g. an array or
// nullable wrapper, which the DI graph does not follow).
func classNameOfType(t ast.TypeExpr) string {
	named, ok := t.(*ast.Named)
	if !ok {
		return ""
	}
	return named.Name
}
