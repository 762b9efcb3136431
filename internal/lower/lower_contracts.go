package lower

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/lowir"
)

// lowerRequires checks one requires clause at function entry (4.10.5):
// evaluate the predicate, branch to a violation block on failure.
func (fs *funcState) lowerRequires(c ast.Contract, fnName string) error {
	pred, err := fs.lowerExpr(c.Expr)
	if err != nil {
		return err
	}
	ok := fs.b.NewBlock("requires.ok")
	fail := fs.b.NewBlock("requires.fail")
	fs.b.Terminate(lowir.Br{Cond: pred, TrueTgt: ok.Label, FalseTgt: fail.Label})

	fs.b.SetBlock(fail)
	fs.b.Emit(lowir.Call{Callee: "requires_violation", Args: []lowir.Operand{
		lowir.ConstString{Val: fnName}, lowir.ConstString{Val: "requires clause failed"},
	}})
	fs.b.Terminate(lowir.Unreachable{})

	fs.b.SetBlock(ok)
	return nil
}

// snapshotOlds pre-evaluates every old(expr) appearing in an ensures
// clause at function entry, deduplicated by the expression's printed
// form (spec.md 4.10.5).
func (fs *funcState) snapshotOlds(e ast.Expr) {
	switch v := e.(type) {
	case *ast.Old:
		key := ast.Compact(v.Inner)
		if _, ok := fs.oldVals[key]; ok {
			return
		}
		val, err := fs.lowerExpr(v.Inner)
		if err == nil {
			fs.oldVals[key] = val
		}
	case *ast.BinaryOp:
		fs.snapshotOlds(v.Left)
		fs.snapshotOlds(v.Right)
	case *ast.UnaryOp:
		fs.snapshotOlds(v.Expr)
	case *ast.RecordAccess:
		fs.snapshotOlds(v.Receiver)
	}
}

// lowerEnsures checks every ensures clause at the distinguished exit
// block, with retVal bound as the return value old()/result can read.
func (fs *funcState) lowerEnsures(retVal lowir.Operand, fnName string) error {
	for _, c := range fs.ensures {
		pred, err := fs.lowerEnsuresExpr(c.Expr, retVal)
		if err != nil {
			return err
		}
		ok := fs.b.NewBlock("ensures.ok")
		fail := fs.b.NewBlock("ensures.fail")
		fs.b.Terminate(lowir.Br{Cond: pred, TrueTgt: ok.Label, FalseTgt: fail.Label})

		fs.b.SetBlock(fail)
		fs.b.Emit(lowir.Call{Callee: "ensures_violation", Args: []lowir.Operand{
			lowir.ConstString{Val: fnName}, lowir.ConstString{Val: "ensures clause failed"},
		}})
		fs.b.Terminate(lowir.Unreachable{})

		fs.b.SetBlock(ok)
	}
	return nil
}

// lowerEnsuresExpr is like lowerExpr but resolves old(...) against the
// entry-time snapshot instead of re-evaluating it, and resolves a bare
// `result` identifier to the function's return value.
func (fs *funcState) lowerEnsuresExpr(e ast.Expr, retVal lowir.Operand) (lowir.Operand, error) {
	switch v := e.(type) {
	case *ast.Old:
		if val, ok := fs.oldVals[ast.Compact(v.Inner)]; ok {
			return val, nil
		}
		return fs.lowerExpr(v.Inner)
	case *ast.Identifier:
		if v.Name == "result" && retVal != nil {
			return retVal, nil
		}
		return fs.lowerExpr(e)
	case *ast.BinaryOp:
		lhs, err := fs.lowerEnsuresExpr(v.Left, retVal)
		if err != nil {
			return nil, err
		}
		rhs, err := fs.lowerEnsuresExpr(v.Right, retVal)
		if err != nil {
			return nil, err
		}
		dst := fs.b.NewReg(binOpKind(v.Op, lhs))
		fs.b.Emit(lowir.BinOp{Dst: dst, Op: v.Op, Lhs: lhs, Rhs: rhs})
		return dst, nil
	default:
		return fs.lowerExpr(e)
	}
}

// emitInvariantChecks runs after struct-literal construction and after
// any mutating method call (spec.md 4.10.5), inside the lock if the
// class is synchronized.
func (fs *funcState) emitInvariantChecks(className string, invariants []ast.Expr, instance lowir.Operand) error {
	selfSave, hadSelf := fs.env["self"]
	fs.env["self"] = mustReg(instance)
	defer func() {
		if hadSelf {
			fs.env["self"] = selfSave
		} else {
			delete(fs.env, "self")
		}
	}()

	for _, inv := range invariants {
		pred, err := fs.lowerExpr(inv)
		if err != nil {
			return err
		}
		ok := fs.b.NewBlock("invariant.ok")
		fail := fs.b.NewBlock("invariant.fail")
		fs.b.Terminate(lowir.Br{Cond: pred, TrueTgt: ok.Label, FalseTgt: fail.Label})

		fs.b.SetBlock(fail)
		fs.b.Emit(lowir.Call{Callee: "invariant_violation", Args: []lowir.Operand{
			lowir.ConstString{Val: className}, lowir.ConstString{Val: "invariant failed"},
		}})
		fs.b.Terminate(lowir.Unreachable{})

		fs.b.SetBlock(ok)
	}
	return nil
}

func mustReg(op lowir.Operand) lowir.Reg {
	if r, ok := op.(lowir.Reg); ok {
		return r
	}
	return lowir.Reg{}
}
