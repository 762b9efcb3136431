package lower

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/lowir"
)

func (fs *funcState) lowerIf(v *ast.If) (lowir.Operand, error) {
	cond, err := fs.lowerExpr(v.Cond)
	if err != nil {
		return nil, err
	}
	thenBlk := fs.b.NewBlock("if.then")
	elseBlk := fs.b.NewBlock("if.else")
	join := fs.b.NewBlock("if.join")
	fs.b.Terminate(lowir.Br{Cond: cond, TrueTgt: thenBlk.Label, FalseTgt: elseBlk.Label})

	var joinKind lowir.ValueKind

	fs.b.SetBlock(thenBlk)
	thenVal, err := fs.lowerExpr(v.Then)
	if err != nil {
		return nil, err
	}
	if !fs.b.Sealed() {
		joinKind = thenVal.ValueKind()
		fs.b.Terminate(lowir.Jmp{Target: join.Label, Args: []lowir.Operand{thenVal}})
	}

	fs.b.SetBlock(elseBlk)
	var elseVal lowir.Operand = lowir.Null{}
	if v.Else != nil {
		elseVal, err = fs.lowerExpr(v.Else)
		if err != nil {
			return nil, err
		}
	}
	if !fs.b.Sealed() {
		joinKind = elseVal.ValueKind()
		fs.b.Terminate(lowir.Jmp{Target: join.Label, Args: []lowir.Operand{elseVal}})
	}

	result := fs.b.NewReg(joinKind)
	join.Params = []lowir.BlockParam{result}
	fs.b.SetBlock(join)
	return result, nil
}

func (fs *funcState) lowerWhile(v *ast.While) (lowir.Operand, error) {
	head := fs.b.NewBlock("while.head")
	body := fs.b.NewBlock("while.body")
	after := fs.b.NewBlock("while.after")

	fs.b.Terminate(lowir.Jmp{Target: head.Label})
	fs.b.SetBlock(head)
	cond, err := fs.lowerExpr(v.Cond)
	if err != nil {
		return nil, err
	}
	fs.b.Terminate(lowir.Br{Cond: cond, TrueTgt: body.Label, FalseTgt: after.Label})

	fs.b.SetBlock(body)
	fs.pushLoop(after.Label, head.Label)
	if _, err := fs.lowerExpr(v.Body); err != nil {
		fs.popLoop()
		return nil, err
	}
	fs.popLoop()
	if !fs.b.Sealed() {
		// Safepoint before the back-edge (spec.md 4.10.2).
		fs.b.Emit(lowir.Safepoint{})
		fs.b.Terminate(lowir.Jmp{Target: head.Label})
	}

	fs.b.SetBlock(after)
	return lowir.Null{}, nil
}

func (fs *funcState) lowerFor(v *ast.For) (lowir.Operand, error) {
	iterable, err := fs.lowerExpr(v.Iterable)
	if err != nil {
		return nil, err
	}

	nextCallee, closedCode := forIntrinsics(v.Kind)
	retKind := lowir.I64
	iterReg := fs.b.EmitCall(iterBeginFor(v.Kind), []lowir.Operand{iterable}, &retKind)

	head := fs.b.NewBlock("for.head")
	body := fs.b.NewBlock("for.body")
	after := fs.b.NewBlock("for.after")
	fs.b.Terminate(lowir.Jmp{Target: head.Label})

	fs.b.SetBlock(head)
	hasNext := fs.b.NewReg(lowir.I8)
	fs.b.Emit(lowir.Call{Dst: &hasNext, Callee: nextCallee + "_has_next", Args: []lowir.Operand{iterReg}})
	fs.b.Terminate(lowir.Br{Cond: hasNext, TrueTgt: body.Label, FalseTgt: after.Label})

	fs.b.SetBlock(body)
	elemKind := lowir.I64
	elem := fs.b.EmitCall(nextCallee+"_next", []lowir.Operand{iterReg}, &elemKind)
	if v.Kind == ast.ForReceiver {
		errKind := lowir.I8
		closed := fs.b.EmitCall("has_error", nil, &errKind)
		clearBlk := fs.b.NewBlock("for.closed")
		recvBlk := fs.b.NewBlock("for.recv")
		fs.b.Terminate(lowir.Br{Cond: closed, TrueTgt: clearBlk.Label, FalseTgt: recvBlk.Label})
		fs.b.SetBlock(clearBlk)
		fs.b.Emit(lowir.Call{Callee: "clear_error"})
		fs.b.Terminate(lowir.Jmp{Target: after.Label})
		fs.b.SetBlock(recvBlk)
	}
	prev, had := fs.env[v.VarName]
	fs.env[v.VarName] = mustReg(elem)
	fs.pushLoop(after.Label, head.Label)
	_, err = fs.lowerExpr(v.Body)
	fs.popLoop()
	if had {
		fs.env[v.VarName] = prev
	} else {
		delete(fs.env, v.VarName)
	}
	if err != nil {
		return nil, err
	}
	if !fs.b.Sealed() {
		fs.b.Emit(lowir.Safepoint{})
		fs.b.Terminate(lowir.Jmp{Target: head.Label})
	}

	fs.b.SetBlock(after)
	_ = closedCode
	return lowir.Null{}, nil
}

// forIntrinsics names the per-kind iterator driver pair used by lowerFor,
// dispatched by iterable shape (spec.md 4.10.2): range/array/bytes/
// string/receiver/stream each have their own runtime iterator protocol.
func forIntrinsics(k ast.ForKind) (callee string, closedCode int64) {
	switch k {
	case ast.ForRange:
		return "range_iter", 0
	case ast.ForArray:
		return "array_iter", 0
	case ast.ForBytes:
		return "bytes_iter", 0
	case ast.ForString:
		return "string_iter", 0
	case ast.ForReceiver:
		return "chan_recv_iter", -1
	case ast.ForStream:
		return "gen_stream_iter", 0
	default:
		return "array_iter", 0
	}
}

func iterBeginFor(k ast.ForKind) string {
	callee, _ := forIntrinsics(k)
	return callee + "_begin"
}

func (fs *funcState) lowerReturn(v *ast.Return) (lowir.Operand, error) {
	var val lowir.Operand = lowir.Null{}
	var err error
	if v.Value != nil {
		val, err = fs.lowerExpr(v.Value)
		if err != nil {
			return nil, err
		}
	}
	if fs.isGenerator {
		return fs.lowerGeneratorReturn(val)
	}
	if fs.hasReturn {
		fs.b.Terminate(lowir.Jmp{Target: fs.exitLabel, Args: []lowir.Operand{val}})
	} else {
		fs.b.Terminate(lowir.Jmp{Target: fs.exitLabel})
	}
	return lowir.Null{}, nil
}

func (fs *funcState) lowerBreak(v *ast.Break) (lowir.Operand, error) {
	loop, ok := fs.currentLoop()
	if !ok {
		return lowir.Null{}, nil
	}
	fs.b.Terminate(lowir.Jmp{Target: loop.breakLabel})
	return lowir.Null{}, nil
}

func (fs *funcState) lowerContinue(v *ast.Continue) (lowir.Operand, error) {
	loop, ok := fs.currentLoop()
	if !ok {
		return lowir.Null{}, nil
	}
	fs.b.Terminate(lowir.Jmp{Target: loop.continueLabel})
	return lowir.Null{}, nil
}
