package lower

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/lowir"
	"github.com/sablelang/sablec/internal/rtypes"
)

func (fs *funcState) lowerArgs(args []ast.Expr) ([]lowir.Operand, error) {
	out := make([]lowir.Operand, 0, len(args))
	for _, a := range args {
		v, err := fs.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// lowerFuncCall handles plain function application. A FuncCall whose
// Func is an Identifier naming a top-level function lowers to a direct
// call; anything else (a bound closure value) lowers to an indirect call
// through the closure object's stored fn_ptr slot (spec.md 4.10.3).
func (fs *funcState) lowerFuncCall(v *ast.FuncCall) (lowir.Operand, error) {
	args, err := fs.lowerArgs(v.Args)
	if err != nil {
		return nil, err
	}
	if id, ok := v.Func.(*ast.Identifier); ok {
		if _, bound := fs.env[id.Name]; !bound {
			ret := lowir.I64
			return fs.b.EmitCall(id.Name, args, &ret), nil
		}
	}
	closure, err := fs.lowerExpr(v.Func)
	if err != nil {
		return nil, err
	}
	fnPtr := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Load{Dst: fnPtr, Base: closure, Offset: 0})
	callArgs := append([]lowir.Operand{closure}, args...)
	ret := lowir.I64
	return fs.b.EmitCallIndirect(fnPtr, callArgs, &ret), nil
}

// lowerMethodCall dispatches on the checker's resolution (spec.md 4.10.3):
// ResClass is a direct mangled call (lock-wrapped if the receiver class is
// a synchronized singleton), ResTrait loads the vtable slot and calls
// indirectly, ResRPC marshals over http_post.
func (fs *funcState) lowerMethodCall(v *ast.MethodCall) (lowir.Operand, error) {
	if dispatch, ok := intrinsicMethodDispatch(v.Method); ok {
		return fs.lowerIntrinsicMethodCall(v, dispatch)
	}

	recv, err := fs.lowerExpr(v.Receiver)
	if err != nil {
		return nil, err
	}
	args, err := fs.lowerArgs(v.Args)
	if err != nil {
		return nil, err
	}
	callArgs := append([]lowir.Operand{recv}, args...)

	switch v.Resolution.Kind {
	case ast.ResTrait:
		vtable := fs.b.NewReg(lowir.I64)
		fs.b.Emit(lowir.Load{Dst: vtable, Base: recv, Offset: 1})
		fnPtr := fs.b.NewReg(lowir.I64)
		fs.b.Emit(lowir.Load{Dst: fnPtr, Base: vtable, Offset: int64(v.Resolution.TraitIndex)})
		ret := lowir.I64
		return fs.b.EmitCallIndirect(fnPtr, callArgs, &ret), nil

	case ast.ResRPC:
		return fs.lowerRPCCall(v, recv, args)

	default:
		class := v.Resolution.ClassOrTrait
		mangled := check.MangleMethod(class, v.Method)
		locked := fs.l.checked.SynchronizedSingletons[class]
		if locked {
			fs.b.Emit(lowir.RWLock{Op: lowir.WLock, Handle: class})
		}
		ret := lowir.I64
		res := fs.b.EmitCall(mangled, callArgs, &ret)
		if ci, ok := fs.l.checked.Classes[class]; ok && len(ci.Fields) > 0 {
			if err := fs.emitInvariantChecks(class, fs.l.classInvariants(class), recv); err != nil {
				return nil, err
			}
		}
		if locked {
			fs.b.Emit(lowir.RWLock{Op: lowir.Unlock, Handle: class})
		}
		return res, nil
	}
}

// classInvariants finds a class declaration by name in the source AST;
// used to re-check invariants after a mutating method call.
func (l *lowerer) classInvariants(name string) []ast.Expr {
	for _, c := range l.prog.Classes {
		if c.Name == name {
			return c.Invariants
		}
	}
	return nil
}

// lowerRPCCall marshals a cross-stage call over http_post, extracting
// the typed result with the matching rpc_extract_* intrinsic (spec.md
// 4.10.3). Unsupported argument/result shapes are a lowerer error
// (IR006); this corpus's RPC surface only carries primitives and
// strings, so every other shape is rejected here rather than guessed at.
func (fs *funcState) lowerRPCCall(v *ast.MethodCall, recv lowir.Operand, args []lowir.Operand) (lowir.Operand, error) {
	if sig := fs.l.lookupMethodSig(v.Resolution.ClassOrTrait, v.Method); sig != nil {
		for _, p := range sig.Params {
			switch p.Kind {
			case rtypes.KInt, rtypes.KFloat, rtypes.KBool, rtypes.KString:
			default:
				return nil, errUnsupportedRPCType(p)
			}
		}
	}
	stage := v.Resolution.StageName
	payloadKind := lowir.I64
	payload := fs.b.EmitCall("rpc_encode_args", args, &payloadKind)
	respKind := lowir.I64
	resp := fs.b.EmitCall("http_post", []lowir.Operand{
		lowir.ConstString{Val: stage}, lowir.ConstString{Val: v.Method}, payload,
	}, &respKind)

	extractor, ok := rpcExtractor(fs, v)
	if !ok {
		return nil, errUnsupportedRPCType(fs.methodReturnType(v))
	}
	retKind := lowir.I64
	return fs.b.EmitCall(extractor, []lowir.Operand{resp}, &retKind), nil
}

func (fs *funcState) methodReturnType(v *ast.MethodCall) rtypes.Type {
	sig := fs.l.lookupMethodSig(v.Resolution.ClassOrTrait, v.Method)
	if sig == nil {
		return rtypes.Void
	}
	return sig.Return
}

func rpcExtractor(fs *funcState, v *ast.MethodCall) (string, bool) {
	class := v.Resolution.ClassOrTrait
	sig := fs.l.lookupMethodSig(class, v.Method)
	if sig == nil {
		return "rpc_extract_int", true
	}
	switch sig.Return.Kind {
	case rtypes.KInt:
		return "rpc_extract_int", true
	case rtypes.KFloat:
		return "rpc_extract_float", true
	case rtypes.KBool:
		return "rpc_extract_bool", true
	case rtypes.KString:
		return "rpc_extract_string", true
	default:
		return "", false
	}
}

func (fs *funcState) lowerConstruct(v *ast.Construct) (lowir.Operand, error) {
	ci, ok := fs.l.checked.Classes[v.ClassName]
	slots := len(v.Args)
	if ok {
		slots = len(ci.Fields)
	}
	dst := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Alloc{Dst: dst, Slots: slots})

	offsets := map[string]int{}
	if ok {
		for i, f := range ci.Fields {
			offsets[f.Name] = i
		}
	}
	for i, a := range v.Args {
		val, err := fs.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		off := i
		if i < len(v.ArgNames) {
			if o, found := offsets[v.ArgNames[i]]; found {
				off = o
			}
		}
		fs.b.Emit(lowir.Store{Base: dst, Offset: int64(off), Val: val})
	}

	if ok {
		if err := fs.emitInvariantChecks(v.ClassName, fs.l.classInvariants(v.ClassName), dst); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// lowerEnumConstruct lays out an enum instance: slot 0 the variant tag,
// slots 1..N the variant's fields widened to the widest-variant layout
// (spec.md 4.10.1).
func (fs *funcState) lowerEnumConstruct(v *ast.EnumConstruct) (lowir.Operand, error) {
	ei := fs.l.checked.Enums[v.EnumName]
	maxFields := 0
	tag := 0
	if ei != nil {
		for i, variant := range ei.Variants {
			if len(variant.Fields) > maxFields {
				maxFields = len(variant.Fields)
			}
			if variant.Name == v.VariantName {
				tag = i
			}
		}
	}
	dst := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Alloc{Dst: dst, Slots: 1 + maxFields})
	fs.b.Emit(lowir.Store{Base: dst, Offset: 0, Val: lowir.ConstInt{Val: int64(tag)}})
	for i, a := range v.Args {
		val, err := fs.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		fs.b.Emit(lowir.Store{Base: dst, Offset: int64(i + 1), Val: val})
	}
	return dst, nil
}

// lowerRaise populates an error object and stores it in the thread-local
// error slot, then returns the function's default-typed value (spec.md
// 4.10.2): the caller's Propagate/Catch is what actually observes it.
func (fs *funcState) lowerRaise(v *ast.Raise) (lowir.Operand, error) {
	dst := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Alloc{Dst: dst, Slots: len(v.Args) + 1})
	fs.b.Emit(lowir.Store{Base: dst, Offset: 0, Val: lowir.ConstString{Val: v.ErrorName}})
	for i, a := range v.Args {
		val, err := fs.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		fs.b.Emit(lowir.Store{Base: dst, Offset: int64(i + 1), Val: val})
	}
	fs.b.Emit(lowir.Call{Callee: "raise_error", Args: []lowir.Operand{dst}})
	return defaultForKind(fs.retKind), nil
}

func defaultForKind(k lowir.ValueKind) lowir.Operand {
	switch k {
	case lowir.F64:
		return lowir.ConstFloat{Val: 0}
	case lowir.I8:
		return lowir.ConstBool{Val: false}
	default:
		return lowir.Null{}
	}
}

// lowerPropagate is the `!` operator: check the thread-local error slot
// right after the inner call and either funnel straight to the function
// exit (unresolved error) or unwrap the success value.
func (fs *funcState) lowerPropagate(v *ast.Propagate) (lowir.Operand, error) {
	val, err := fs.lowerExpr(v.Call)
	if err != nil {
		return nil, err
	}
	hasErr := lowir.I8
	errFlag := fs.b.EmitCall("has_error", nil, &hasErr)

	propagate := fs.b.NewBlock("propagate.raise")
	cont := fs.b.NewBlock("propagate.ok")
	fs.b.Terminate(lowir.Br{Cond: errFlag, TrueTgt: propagate.Label, FalseTgt: cont.Label})

	fs.b.SetBlock(propagate)
	if fs.isGenerator {
		if _, err := fs.lowerGeneratorReturn(defaultForKind(fs.retKind)); err != nil {
			return nil, err
		}
	} else if fs.hasReturn {
		fs.b.Terminate(lowir.Jmp{Target: fs.exitLabel, Args: []lowir.Operand{defaultForKind(fs.retKind)}})
	} else {
		fs.b.Terminate(lowir.Jmp{Target: fs.exitLabel})
	}

	fs.b.SetBlock(cont)
	return val, nil
}

// lowerCatch handles a fallible call locally: check has_error, clear it,
// and run the wildcard handler (bound to ErrName) or the shorthand
// fallback expression, merging the two paths via a block parameter.
func (fs *funcState) lowerCatch(v *ast.Catch) (lowir.Operand, error) {
	val, err := fs.lowerExpr(v.Call)
	if err != nil {
		return nil, err
	}
	hasErr := lowir.I8
	errFlag := fs.b.EmitCall("has_error", nil, &hasErr)

	errBlk := fs.b.NewBlock("catch.err")
	okBlk := fs.b.NewBlock("catch.ok")
	join := fs.b.NewBlock("catch.join")
	fs.b.Terminate(lowir.Br{Cond: errFlag, TrueTgt: errBlk.Label, FalseTgt: okBlk.Label})

	fs.b.SetBlock(errBlk)
	errKind := lowir.I64
	errObj := fs.b.EmitCall("get_error", nil, &errKind)
	fs.b.Emit(lowir.Call{Callee: "clear_error"})
	var handlerVal lowir.Operand = lowir.Null{}
	if v.Kind == ast.CatchWildcard {
		prev, had := fs.env[v.ErrName]
		fs.env[v.ErrName] = mustReg(errObj)
		handlerVal, err = fs.lowerExpr(v.Handler)
		if had {
			fs.env[v.ErrName] = prev
		} else {
			delete(fs.env, v.ErrName)
		}
	} else {
		handlerVal, err = fs.lowerExpr(v.Handler)
	}
	if err != nil {
		return nil, err
	}
	var joinKind lowir.ValueKind
	if !fs.b.Sealed() {
		joinKind = handlerVal.ValueKind()
		fs.b.Terminate(lowir.Jmp{Target: join.Label, Args: []lowir.Operand{handlerVal}})
	}

	fs.b.SetBlock(okBlk)
	if !fs.b.Sealed() {
		joinKind = val.ValueKind()
		fs.b.Terminate(lowir.Jmp{Target: join.Label, Args: []lowir.Operand{val}})
	}

	result := fs.b.NewReg(joinKind)
	join.Params = []lowir.BlockParam{result}
	fs.b.SetBlock(join)
	return result, nil
}

// lowerNullPropagate is `?`: early-return "none" if inner is none, else
// unbox the boxed value (spec.md 4.10.1 nullable boxing: pointer-or-zero).
func (fs *funcState) lowerNullPropagate(v *ast.NullPropagate) (lowir.Operand, error) {
	inner, err := fs.lowerExpr(v.Inner)
	if err != nil {
		return nil, err
	}
	isNone := fs.b.NewReg(lowir.I8)
	fs.b.Emit(lowir.BinOp{Dst: isNone, Op: "==", Lhs: inner, Rhs: lowir.Null{}})

	noneBlk := fs.b.NewBlock("nullprop.none")
	someBlk := fs.b.NewBlock("nullprop.some")
	fs.b.Terminate(lowir.Br{Cond: isNone, TrueTgt: noneBlk.Label, FalseTgt: someBlk.Label})

	fs.b.SetBlock(noneBlk)
	if fs.isGenerator {
		if _, err := fs.lowerGeneratorReturn(lowir.Null{}); err != nil {
			return nil, err
		}
	} else if fs.hasReturn {
		fs.b.Terminate(lowir.Jmp{Target: fs.exitLabel, Args: []lowir.Operand{lowir.Null{}}})
	} else {
		fs.b.Terminate(lowir.Jmp{Target: fs.exitLabel})
	}

	fs.b.SetBlock(someBlk)
	return inner, nil
}

func (fs *funcState) lowerExpect(v *ast.Expect) (lowir.Operand, error) {
	subject, err := fs.lowerExpr(v.Subject)
	if err != nil {
		return nil, err
	}
	switch v.Method {
	case ast.ExpectTrue:
		fs.b.Emit(lowir.Call{Callee: "expect_true", Args: []lowir.Operand{subject}})
	case ast.ExpectFalse:
		fs.b.Emit(lowir.Call{Callee: "expect_false", Args: []lowir.Operand{subject}})
	case ast.ExpectEqual:
		arg, err := fs.lowerExpr(v.Arg)
		if err != nil {
			return nil, err
		}
		fs.b.Emit(lowir.Call{Callee: "expect_equal", Args: []lowir.Operand{subject, arg}})
	}
	return lowir.Null{}, nil
}

func (fs *funcState) lowerIntrinsic(v *ast.Intrinsic) (lowir.Operand, error) {
	args, err := fs.lowerArgs(v.Args)
	if err != nil {
		return nil, err
	}
	meta := lowir.Intrinsics[v.Name]
	ret := lowir.I64
	if meta != nil {
		ret = meta.Return
	}
	if meta != nil && meta.IsVoid {
		return fs.b.EmitCall(v.Name, args, nil), nil
	}
	return fs.b.EmitCall(v.Name, args, &ret), nil
}

// lowerScopeBlock binds each seed expression to its named binding and,
// for every binding past the seeds, allocates an instance sized by the
// checked class's field count; the bindings are visible to the body and
// leave env once the block exits (spec.md 4.7). The DI plan is not
// consulted: no field of a non-seed instance is stored, so its injected
// dependencies are not wired.
func (fs *funcState) lowerScopeBlock(v *ast.ScopeBlock) (lowir.Operand, error) {
	var restores []func()
	for i, seed := range v.Seeds {
		val, err := fs.lowerExpr(seed.Expr)
		if err != nil {
			for j := len(restores) - 1; j >= 0; j-- {
				restores[j]()
			}
			return nil, err
		}
		if i < len(v.Bindings) {
			name := v.Bindings[i].Name
			prev, had := fs.env[name]
			fs.env[name] = mustReg(val)
			restores = append(restores, func() {
				if had {
					fs.env[name] = prev
				} else {
					delete(fs.env, name)
				}
			})
		}
	}
	for i := len(v.Seeds); i < len(v.Bindings); i++ {
		b := v.Bindings[i]
		ci, ok := fs.l.checked.Classes[typeExprClassName(b.Type)]
		slots := 0
		if ok {
			slots = len(ci.Fields)
		}
		dst := fs.b.NewReg(lowir.I64)
		fs.b.Emit(lowir.Alloc{Dst: dst, Slots: slots})
		prev, had := fs.env[b.Name]
		fs.env[b.Name] = dst
		restores = append(restores, func() {
			if had {
				fs.env[b.Name] = prev
			} else {
				delete(fs.env, b.Name)
			}
		})
	}

	val, err := fs.lowerExpr(v.Body)
	for i := len(restores) - 1; i >= 0; i-- {
		restores[i]()
	}
	return val, err
}

func typeExprClassName(t ast.TypeExpr) string {
	if n, ok := t.(*ast.Named); ok {
		return n.Name
	}
	return ""
}

func intrinsicMethodDispatch(method string) (string, bool) {
	switch method {
	case "push", "pop", "get", "set", "len", "contains", "keys", "values",
		"insert", "remove", "to_bytes", "to_string", "upper", "lower",
		"split", "trim", "send", "try_send", "close", "recv", "try_recv":
		return method, true
	default:
		return "", false
	}
}

// lowerIntrinsicMethodCall handles the inlined-intrinsic dispatch table
// (Array/Map/Set/Bytes/String/Receiver/Sender/Task, spec.md 4.10.3): the
// receiver's runtime kind selects the concrete intrinsic name.
func (fs *funcState) lowerIntrinsicMethodCall(v *ast.MethodCall, name string) (lowir.Operand, error) {
	recv, err := fs.lowerExpr(v.Receiver)
	if err != nil {
		return nil, err
	}
	args, err := fs.lowerArgs(v.Args)
	if err != nil {
		return nil, err
	}
	callArgs := append([]lowir.Operand{recv}, args...)
	meta := lowir.Intrinsics[name]
	ret := lowir.I64
	if meta != nil {
		ret = meta.Return
	}
	if meta != nil && meta.IsVoid {
		return fs.b.EmitCall(name, callArgs, nil), nil
	}
	return fs.b.EmitCall(name, callArgs, &ret), nil
}
