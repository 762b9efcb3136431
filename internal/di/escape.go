package di

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/errors"
)

// AnalyzeEscape rejects a scope block if any closure that captures one
// of its bindings is returned from the enclosing function, assigned to a
// variable declared before the scope statement, or passed to spawn
// (spec.md 4.7). Taint is flow-insensitive: it flows through `let`
// aliasing only, as spec.md's own worked example does (`let f =
// <capturing-closure>; return f` is rejected without branch-sensitive
// reasoning).
func AnalyzeEscape(sb *ast.ScopeBlock) error {
	bindingNames := make(map[string]bool, len(sb.Bindings))
	for _, b := range sb.Bindings {
		bindingNames[b.Name] = true
	}

	tainted := make(map[string]bool)
	localNames := make(map[string]bool)
	collectTaint(sb.Body, bindingNames, tainted, localNames)

	return checkEscapeSites(sb.Body, bindingNames, tainted, localNames)
}

// capturesBinding reports whether closure's body references any scope
// binding as a free variable (its own parameters shadow).
func capturesBinding(closure *ast.ClosureCreate, bindingNames map[string]bool) bool {
	params := make(map[string]bool, len(closure.Params))
	for _, p := range closure.Params {
		params[p.Name] = true
	}
	captured := false
	check.Walk(closure.Body, func(e ast.Expr) {
		if id, ok := e.(*ast.Identifier); ok && bindingNames[id.Name] && !params[id.Name] {
			captured = true
		}
	})
	return captured
}

func isTaintedExpr(e ast.Expr, bindingNames, tainted map[string]bool) bool {
	switch v := e.(type) {
	case *ast.ClosureCreate:
		return capturesBinding(v, bindingNames)
	case *ast.Identifier:
		return tainted[v.Name]
	default:
		return false
	}
}

// collectTaint runs a flow-insensitive fixed point over every `let` in
// body: a name is tainted if it is bound to a capturing closure or to an
// already-tainted name.
func collectTaint(body ast.Expr, bindingNames, tainted, localNames map[string]bool) {
	changed := true
	for changed {
		changed = false
		check.Walk(body, func(e ast.Expr) {
			let, ok := e.(*ast.Let)
			if !ok {
				return
			}
			localNames[let.Name] = true
			if isTaintedExpr(let.Value, bindingNames, tainted) && !tainted[let.Name] {
				tainted[let.Name] = true
				changed = true
			}
		})
	}
}

func checkEscapeSites(body ast.Expr, bindingNames, tainted, localNames map[string]bool) error {
	var firstErr error
	report := func(kind string) {
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: scope-local binding cannot escape scope block (%s)", errors.DI006, kind)
		}
	}
	check.Walk(body, func(e ast.Expr) {
		switch v := e.(type) {
		case *ast.Return:
			if isTaintedExpr(v.Value, bindingNames, tainted) {
				report("return")
			}
		case *ast.Spawn:
			if isTaintedExpr(v.Closure, bindingNames, tainted) {
				report("spawn")
			}
		case *ast.Assign:
			if isTaintedExpr(v.Value, bindingNames, tainted) && !localNames[v.Name] && !bindingNames[v.Name] {
				report("assign")
			}
		}
	})
	return firstErr
}
