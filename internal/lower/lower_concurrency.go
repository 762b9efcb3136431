package lower

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/lowir"
)

// lowerChanDecl lowers `let (tx, rx) = chan<T>(cap?) in body`. The tx
// handle was already pre-declared (null) at function entry by
// collectChanDecls/lowerFuncDecl (spec.md 4.10.7); here it is actually
// created and bound, alongside a fresh rx binding for body's scope.
func (fs *funcState) lowerChanDecl(v *ast.ChanDecl) (lowir.Operand, error) {
	capVal := lowir.Operand(lowir.ConstInt{Val: 1})
	if v.Cap != nil {
		var err error
		capVal, err = fs.lowerExpr(v.Cap)
		if err != nil {
			return nil, err
		}
	}
	pairKind := lowir.I64
	pair := fs.b.EmitCall("chan_create", []lowir.Operand{capVal}, &pairKind)

	txReg := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Load{Dst: txReg, Base: pair, Offset: 0})
	rxReg := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Load{Dst: rxReg, Base: pair, Offset: 1})

	if existing, ok := fs.env[v.TxName]; ok {
		fs.b.Emit(lowir.Move{Dst: existing, Src: txReg})
	} else {
		fs.env[v.TxName] = txReg
	}
	prevRx, hadRx := fs.env[v.RxName]
	fs.env[v.RxName] = rxReg
	defer func() {
		if hadRx {
			fs.env[v.RxName] = prevRx
		} else {
			delete(fs.env, v.RxName)
		}
	}()

	return fs.lowerExpr(v.Body)
}

func (fs *funcState) lowerSend(v *ast.Send) (lowir.Operand, error) {
	ch, err := fs.lowerExpr(v.Channel)
	if err != nil {
		return nil, err
	}
	switch v.Op {
	case ast.SendClose:
		fs.b.Emit(lowir.Call{Callee: "chan_close", Args: []lowir.Operand{ch}})
		return lowir.Null{}, nil
	case ast.SendTry:
		val, err := fs.lowerExpr(v.Value)
		if err != nil {
			return nil, err
		}
		ret := lowir.I8
		return fs.b.EmitCall("chan_try_send", []lowir.Operand{ch, val}, &ret), nil
	default:
		val, err := fs.lowerExpr(v.Value)
		if err != nil {
			return nil, err
		}
		fs.b.Emit(lowir.Call{Callee: "chan_send", Args: []lowir.Operand{ch, val}})
		return lowir.Null{}, nil
	}
}

// lowerRecv lowers rx.recv()/try_recv(). A closed channel observed by a
// blocking recv sets the thread-local error slot to ChannelClosed, which
// a surrounding `for v in rx` loop (ForReceiver) checks and clears to
// exit cleanly (spec.md 4.10.6).
func (fs *funcState) lowerRecv(v *ast.Recv) (lowir.Operand, error) {
	ch, err := fs.lowerExpr(v.Channel)
	if err != nil {
		return nil, err
	}
	callee := "chan_recv"
	if v.Try {
		callee = "chan_try_recv"
	}
	ret := lowir.I64
	return fs.b.EmitCall(callee, []lowir.Operand{ch}, &ret), nil
}

// lowerSelect builds the fixed 3*n-slot arm buffer the select runtime
// call reads (spec.md 4.10.2): each triple is (kind, channel, value-or-
// zero). select(buffer, n, has_default) returns the chosen arm index, or
// -1 for "default taken", or -2 for "all channels closed, no default".
func (fs *funcState) lowerSelect(v *ast.Select) (lowir.Operand, error) {
	n := len(v.Arms)
	buf := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Alloc{Dst: buf, Slots: 3 * n})
	for i, arm := range v.Arms {
		ch, err := fs.lowerExpr(arm.Channel)
		if err != nil {
			return nil, err
		}
		kind := int64(0)
		var val lowir.Operand = lowir.ConstInt{Val: 0}
		if arm.Kind == ast.SelectSend {
			kind = 1
			val, err = fs.lowerExpr(arm.Value)
			if err != nil {
				return nil, err
			}
		}
		fs.b.Emit(lowir.Store{Base: buf, Offset: int64(3*i + 0), Val: lowir.ConstInt{Val: kind}})
		fs.b.Emit(lowir.Store{Base: buf, Offset: int64(3*i + 1), Val: ch})
		fs.b.Emit(lowir.Store{Base: buf, Offset: int64(3*i + 2), Val: val})
	}

	hasDefault := lowir.ConstBool{Val: v.HasDefault}
	chosenKind := lowir.I64
	chosen := fs.b.EmitCall("select", []lowir.Operand{
		buf, lowir.ConstInt{Val: int64(n)}, hasDefault,
	}, &chosenKind)

	join := fs.b.NewBlock("select.join")
	var joinKind lowir.ValueKind
	var sealedAny bool

	next := fs.b.Current()
	for i, arm := range v.Arms {
		fs.b.SetBlock(next)
		armBlk := fs.b.NewBlock("select.arm")
		var cont *lowir.Block
		if i == len(v.Arms)-1 && !v.HasDefault {
			cont = join
		} else {
			cont = fs.b.NewBlock("select.test")
		}
		eq := fs.b.NewReg(lowir.I8)
		fs.b.Emit(lowir.BinOp{Dst: eq, Op: "==", Lhs: chosen, Rhs: lowir.ConstInt{Val: int64(i)}})
		fs.b.Terminate(lowir.Br{Cond: eq, TrueTgt: armBlk.Label, FalseTgt: cont.Label})

		fs.b.SetBlock(armBlk)
		var armVal lowir.Operand = lowir.Null{}
		var err error
		if arm.Kind == ast.SelectRecv && arm.VarName != "" {
			recvKind := lowir.I64
			recvVal := fs.b.EmitCall("chan_recv_result", []lowir.Operand{chosen}, &recvKind)
			prev, had := fs.env[arm.VarName]
			fs.env[arm.VarName] = mustReg(recvVal)
			armVal, err = fs.lowerExpr(arm.Body)
			if had {
				fs.env[arm.VarName] = prev
			} else {
				delete(fs.env, arm.VarName)
			}
		} else {
			armVal, err = fs.lowerExpr(arm.Body)
		}
		if err != nil {
			return nil, err
		}
		if !fs.b.Sealed() {
			joinKind = armVal.ValueKind()
			sealedAny = true
			fs.b.Terminate(lowir.Jmp{Target: join.Label, Args: []lowir.Operand{armVal}})
		}
		next = cont
	}

	if v.HasDefault {
		fs.b.SetBlock(next)
		defVal, err := fs.lowerExpr(v.Default)
		if err != nil {
			return nil, err
		}
		if !fs.b.Sealed() {
			joinKind = defVal.ValueKind()
			sealedAny = true
			fs.b.Terminate(lowir.Jmp{Target: join.Label, Args: []lowir.Operand{defVal}})
		}
	}
	if !sealedAny {
		joinKind = lowir.I64
	}

	result := fs.b.NewReg(joinKind)
	join.Params = []lowir.BlockParam{result}
	fs.b.SetBlock(join)
	return result, nil
}

// lowerSpawn starts a new task from a closure literal (spec.md 4.10.3,
// 4.10.8): non-singleton heap captures are deep-copied so the spawned
// task never aliases the parent's mutable state, and every Sender
// capture has its refcount incremented before task_spawn to keep it
// alive for the task's lifetime (released by the task's own exit-block
// cleanup once it finishes).
func (fs *funcState) lowerSpawn(v *ast.Spawn) (lowir.Operand, error) {
	cc, ok := v.Closure.(*ast.ClosureCreate)
	if !ok {
		return nil, errSpawnNotClosure()
	}
	closure, err := fs.lowerClosureCreateWithMode(cc, true)
	if err != nil {
		return nil, err
	}
	taskKind := lowir.I64
	return fs.b.EmitCall("task_spawn", []lowir.Operand{closure}, &taskKind), nil
}

func (fs *funcState) lowerClosureCreate(v *ast.ClosureCreate) (lowir.Operand, error) {
	return fs.lowerClosureCreateWithMode(v, false)
}

// lowerClosureCreateWithMode builds the (fn_ptr, capture_slots) object a
// closure literal evaluates to. spawning deep-copies non-Sender captures
// and inc's every Sender capture's refcount; an ordinary (non-spawn)
// closure sharing a capture does not own its refcount, since the
// enclosing function's own exit-block cleanup already covers it
// (spec.md 4.10.7).
func (fs *funcState) lowerClosureCreateWithMode(v *ast.ClosureCreate, forSpawn bool) (lowir.Operand, error) {
	dst := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Alloc{Dst: dst, Slots: 1 + len(v.Captures)})
	fnPtr := closureFuncName(fs, v)
	fs.b.Emit(lowir.Store{Base: dst, Offset: 0, Val: lowir.ConstString{Val: fnPtr}})

	for i, name := range v.Captures {
		r, ok := fs.env[name]
		var val lowir.Operand = lowir.Null{}
		if ok {
			val = r
		}
		if forSpawn {
			isSenderCapture := false
			for _, s := range fs.senders {
				if s == name {
					isSenderCapture = true
				}
			}
			if isSenderCapture {
				fs.b.Emit(lowir.Call{Callee: "chan_sender_inc", Args: []lowir.Operand{val}})
			} else if ok {
				copyKind := lowir.I64
				val = fs.b.EmitCall("deep_copy", []lowir.Operand{val}, &copyKind)
			}
		}
		fs.b.Emit(lowir.Store{Base: dst, Offset: int64(i + 1), Val: val})
	}
	return dst, nil
}

// closureFuncName is a stable label for the lifted closure body; the
// checker's lambda-lifting pass (out of this package's scope) is
// responsible for actually emitting that function elsewhere, keyed by
// the same name.
func closureFuncName(fs *funcState, v *ast.ClosureCreate) string {
	return "closure$" + fs.owner + "$" + ast.Compact(v)
}

// lowerYield stores the yielded value and advances generator state; only
// meaningful when lowering a generator's next-function (spec.md 4.10.4).
func (fs *funcState) lowerYield(v *ast.Yield) (lowir.Operand, error) {
	if !fs.isGenerator {
		return nil, errYieldOutsideGenerator()
	}
	return fs.lowerGeneratorYield(v)
}
