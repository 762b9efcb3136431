package lower

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/lowir"
	"github.com/sablelang/sablec/internal/rtypes"
)

// lowerFuncDecl lowers one function or method. A generator is split into
// a creator/next pair (4.10.4); everything else becomes a single
// lowir.Func funnelling every return path through one exit block so
// sender cleanup (4.10.7) and ensures checks (4.10.5) run exactly once.
func lowerFuncDecl(l *lowerer, name string, fn *ast.FuncDecl, sig *check.FuncSig, owner string) ([]*lowir.Func, error) {
	if sig != nil && !fn.IsExtern {
		for _, t := range append(append([]rtypes.Type{}, sig.Params...), sig.Return) {
			if t.Kind == rtypes.KTypeParam {
				return nil, errTypeParamReachedCodegen(t.Name)
			}
		}
	}
	if fn.IsGenerator {
		return lowerGenerator(l, name, fn, sig, owner)
	}
	if fn.IsExtern || fn.Body == nil {
		return nil, nil
	}

	params := buildParams(fn, owner)
	retKind := lowir.I64
	hasReturn := fn.ReturnType != nil
	if sig != nil {
		hasReturn = sig.Return.Kind != rtypes.KVoid
		retKind = kindOf(sig.Return)
	}

	b := lowir.NewBuilder(name, params, retKind, hasReturn)
	fs := newFuncState(l, b, owner)
	fs.hasReturn = hasReturn
	fs.retKind = retKind
	for _, p := range params {
		fs.env[p.Name] = p.Reg
	}

	fs.senders = collectChanDecls(fn.Body)
	for _, txName := range fs.senders {
		r := b.NewReg(lowir.I64)
		fs.env[txName] = r
		b.Emit(lowir.Move{Dst: r, Src: lowir.Null{}})
	}

	fs.oldVals = map[string]lowir.Operand{}
	for _, c := range fn.Contracts {
		if c.Kind == ast.Requires {
			if err := fs.lowerRequires(c, name); err != nil {
				return nil, err
			}
		} else {
			fs.ensures = append(fs.ensures, c)
			fs.snapshotOlds(c.Expr)
		}
	}

	exit := b.NewBlock("exit")
	fs.exitLabel = exit.Label
	var retParam lowir.Reg
	if hasReturn {
		retParam = b.NewReg(retKind)
		exit.Params = []lowir.BlockParam{retParam}
	}

	val, err := fs.lowerExpr(fn.Body)
	if err != nil {
		return nil, err
	}
	if !b.Sealed() {
		if hasReturn {
			b.Terminate(lowir.Jmp{Target: exit.Label, Args: []lowir.Operand{val}})
		} else {
			b.Terminate(lowir.Jmp{Target: exit.Label})
		}
	}

	b.SetBlock(exit)
	var retVal lowir.Operand
	if hasReturn {
		retVal = retParam
	}
	if err := fs.lowerEnsures(retVal, name); err != nil {
		return nil, err
	}
	fs.emitSenderCleanup()
	if hasReturn {
		b.Terminate(lowir.Ret{Val: retVal})
	} else {
		b.Terminate(lowir.Ret{})
	}

	return []*lowir.Func{b.Func()}, nil
}

// buildParams assembles a method/function's IR parameter list, with an
// implicit leading "self" pointer parameter for methods.
func buildParams(fn *ast.FuncDecl, owner string) []lowir.FuncParam {
	var params []lowir.FuncParam
	seq := 0
	next := func(kind lowir.ValueKind) lowir.Reg {
		r := lowir.Reg{ID: seq, Kind: kind}
		seq++
		return r
	}
	if owner != "" {
		params = append(params, lowir.FuncParam{Reg: next(lowir.I64), Name: "self"})
	}
	for _, p := range fn.Params {
		params = append(params, lowir.FuncParam{Reg: next(paramKind(p)), Name: p.Name})
	}
	return params
}

// paramKind renders a surface TypeExpr's mechanical IR kind without the
// full resolved-type closure; good enough for the three-way split
// (float/bool-byte/everything-else) the lowerer cares about.
func paramKind(p *ast.Param) lowir.ValueKind {
	named, ok := p.Type.(*ast.Named)
	if !ok {
		return lowir.I64
	}
	switch named.Name {
	case ast.PrimFloat:
		return lowir.F64
	case ast.PrimBool, ast.PrimByte:
		return lowir.I8
	default:
		return lowir.I64
	}
}
