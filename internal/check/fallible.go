package check

import "github.com/sablelang/sablec/internal/ast"

// bodyOwner identifies a function or method whose body the can-raise and
// method-resolution passes need to walk.
type bodyOwner struct {
	key       string // function name, or Class$method
	selfClass string // "" for a top-level function
	body      ast.Expr
}

func (c *Checker) bodyOwners(prog *ast.Program) []bodyOwner {
	var owners []bodyOwner
	for _, fn := range prog.Funcs {
		if fn.Body != nil {
			owners = append(owners, bodyOwner{key: fn.Name, body: fn.Body})
		}
	}
	for _, cl := range prog.Classes {
		for _, m := range cl.Methods {
			if m.Body != nil {
				owners = append(owners, bodyOwner{key: MangleMethod(cl.Name, m.Name), selfClass: cl.Name, body: m.Body})
			}
		}
	}
	if prog.App != nil {
		for _, m := range prog.App.Methods {
			if m.Body != nil {
				owners = append(owners, bodyOwner{key: MangleMethod(prog.App.Name, m.Name), selfClass: prog.App.Name, body: m.Body})
			}
		}
	}
	for _, st := range prog.Stages {
		for _, m := range st.Methods {
			if m.Body != nil {
				owners = append(owners, bodyOwner{key: MangleMethod(st.Name, m.Name), selfClass: st.Name, body: m.Body})
			}
		}
	}
	return owners
}

// computeCanRaise derives, for every function and method, the set of
// error names it can raise directly or transitively (spec.md 4.5). A
// `catch` discharges the caller's obligation for the call it wraps, so
// propagation only crosses an un-caught `!`.
func (c *Checker) computeCanRaise(prog *ast.Program) {
	owners := c.bodyOwners(prog)
	raises := make(map[string]map[string]bool, len(owners))
	for _, o := range owners {
		raises[o.key] = directRaises(o.body)
	}

	changed := true
	for changed {
		changed = false
		for _, o := range owners {
			set := raises[o.key]
			for _, callee := range propagatedCallees(o.body, o.selfClass) {
				for errName := range raises[callee] {
					if !set[errName] {
						set[errName] = true
						changed = true
					}
				}
			}
		}
	}

	c.prog.CanRaise = make(map[string][]string, len(raises))
	for key, set := range raises {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		c.prog.CanRaise[key] = names
		if sig, ok := c.sigsByKey[key]; ok {
			sig.IsFallible = len(names) > 0
		}
	}
}

func directRaises(body ast.Expr) map[string]bool {
	set := make(map[string]bool)
	Walk(body, func(e ast.Expr) {
		if r, ok := e.(*ast.Raise); ok {
			set[r.ErrorName] = true
		}
	})
	return set
}

// propagatedCallees returns the can-raise keys of every call reached
// through an un-caught `!` inside body.
func propagatedCallees(body ast.Expr, selfClass string) []string {
	var callees []string
	Walk(body, func(e ast.Expr) {
		p, ok := e.(*ast.Propagate)
		if !ok {
			return
		}
		if key, ok := calleeKey(p.Call, selfClass); ok {
			callees = append(callees, key)
		}
	})
	return callees
}

// calleeKey resolves a call expression to the key computeCanRaise/body
// ownership uses: a bare function name, or Class$method for a self-call.
// Calls through an unresolved receiver (anything but a literal `self`)
// cannot be attributed without a full type pass, so they are skipped —
// they simply don't contribute to the caller's can-raise set.
func calleeKey(call ast.Expr, selfClass string) (string, bool) {
	switch v := call.(type) {
	case *ast.FuncCall:
		if id, ok := v.Func.(*ast.Identifier); ok {
			return id.Name, true
		}
	case *ast.MethodCall:
		if id, ok := v.Receiver.(*ast.Identifier); ok && id.Name == "self" && selfClass != "" {
			return MangleMethod(selfClass, v.Method), true
		}
	}
	return "", false
}
