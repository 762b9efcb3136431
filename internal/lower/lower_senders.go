package lower

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/lowir"
)

// collectChanDecls finds every `let (tx, rx) = chan<T>(...)` in body,
// pre-declared at function entry per spec.md 4.10.7. The walk stops at
// ClosureCreate boundaries: a lifted closure is lowered as its own
// function with its own sender set, except the non-spawn-closure case
// which shares the enclosing function's cleanup (handled by not
// descending into the closure at all — its senders, if any, belong to
// whichever function ultimately owns its lowering).
func collectChanDecls(body ast.Expr) []string {
	var names []string
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch v := e.(type) {
		case *ast.ChanDecl:
			names = append(names, v.TxName)
			if v.Cap != nil {
				walk(v.Cap)
			}
			walk(v.Body)
		case *ast.ClosureCreate:
			// boundary: lowered separately, owns its own senders.
		case *ast.Let:
			walk(v.Value)
			walk(v.Body)
		case *ast.Block:
			for _, x := range v.Exprs {
				walk(x)
			}
		case *ast.If:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *ast.While:
			walk(v.Cond)
			walk(v.Body)
		case *ast.For:
			walk(v.Iterable)
			walk(v.Body)
		case *ast.Match:
			walk(v.Scrutinee)
			for _, c := range v.Cases {
				walk(c.Guard)
				walk(c.Body)
			}
		case *ast.ScopeBlock:
			for _, s := range v.Seeds {
				walk(s.Expr)
			}
			walk(v.Body)
		case *ast.Return:
			walk(v.Value)
		case *ast.Catch:
			walk(v.Call)
			walk(v.Handler)
		case *ast.Propagate:
			walk(v.Call)
		}
	}
	walk(body)
	return names
}

// emitSenderCleanup decrements every pre-declared sender's refcount in
// the current block (the function-exit block). Underflow is a runtime-
// level guard, not a language-level error (spec.md 5).
func (fs *funcState) emitSenderCleanup() {
	for _, name := range fs.senders {
		r, ok := fs.env[name]
		if !ok {
			continue
		}
		fs.b.Emit(lowir.Call{Callee: "chan_sender_dec", Args: []lowir.Operand{r}})
	}
}
