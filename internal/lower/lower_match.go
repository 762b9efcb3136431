package lower

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/lowir"
)

// lowerMatch lowers an enum match to a sequential equality chain on the
// tag slot (slot 0 of the enum instance), with per-arm field-slot loads
// binding constructor-pattern fields (spec.md 4.10.2).
func (fs *funcState) lowerMatch(v *ast.Match) (lowir.Operand, error) {
	scrut, err := fs.lowerExpr(v.Scrutinee)
	if err != nil {
		return nil, err
	}
	tag := fs.b.NewReg(lowir.I64)
	fs.b.Emit(lowir.Load{Dst: tag, Base: scrut, Offset: 0})

	join := fs.b.NewBlock("match.join")
	var joinKind lowir.ValueKind
	var sealedAny bool

	next := fs.b.Current()
	for i, c := range v.Cases {
		fs.b.SetBlock(next)
		armBlk := fs.b.NewBlock("match.arm")
		var cont *lowir.Block
		if i == len(v.Cases)-1 {
			cont = join
		} else {
			cont = fs.b.NewBlock("match.test")
		}

		if cp, ok := c.Pattern.(*ast.ConstructorPattern); ok {
			idx := variantIndex(fs.l, cp)
			eq := fs.b.NewReg(lowir.I8)
			fs.b.Emit(lowir.BinOp{Dst: eq, Op: "==", Lhs: tag, Rhs: lowir.ConstInt{Val: int64(idx)}})
			fs.b.Terminate(lowir.Br{Cond: eq, TrueTgt: armBlk.Label, FalseTgt: cont.Label})
		} else {
			fs.b.Terminate(lowir.Jmp{Target: armBlk.Label})
		}

		fs.b.SetBlock(armBlk)
		restore := fs.bindPattern(c.Pattern, scrut)
		var guardOK lowir.Operand = lowir.ConstBool{Val: true}
		if c.Guard != nil {
			guardOK, err = fs.lowerExpr(c.Guard)
			if err != nil {
				restore()
				return nil, err
			}
		}
		guardPass := fs.b.NewBlock("match.guardpass")
		if c.Guard != nil {
			fs.b.Terminate(lowir.Br{Cond: guardOK, TrueTgt: guardPass.Label, FalseTgt: cont.Label})
			fs.b.SetBlock(guardPass)
		}

		val, err := fs.lowerExpr(c.Body)
		restore()
		if err != nil {
			return nil, err
		}
		if !fs.b.Sealed() {
			joinKind = val.ValueKind()
			sealedAny = true
			fs.b.Terminate(lowir.Jmp{Target: join.Label, Args: []lowir.Operand{val}})
		}

		next = cont
	}
	if !sealedAny {
		joinKind = lowir.I64
	}

	result := fs.b.NewReg(joinKind)
	join.Params = []lowir.BlockParam{result}
	fs.b.SetBlock(join)
	return result, nil
}

// variantIndex resolves a constructor pattern's runtime tag from the
// checked enum's variant order (the Index field is the tag, invariant 5).
func variantIndex(l *lowerer, cp *ast.ConstructorPattern) int {
	if ei, ok := l.checked.Enums[cp.EnumName]; ok {
		for i, variant := range ei.Variants {
			if variant.Name == cp.VariantName {
				return i
			}
		}
	}
	return 0
}

// bindPattern binds a pattern's names against scrut in fs.env, returning
// a restore func that undoes the bindings once the arm is lowered.
func (fs *funcState) bindPattern(p ast.Pattern, scrut lowir.Operand) func() {
	var saved []func()
	bind := func(name string, r lowir.Reg) {
		prev, had := fs.env[name]
		fs.env[name] = r
		saved = append(saved, func() {
			if had {
				fs.env[name] = prev
			} else {
				delete(fs.env, name)
			}
		})
	}
	switch v := p.(type) {
	case *ast.VarPattern:
		bind(v.Name, mustReg(scrut))
	case *ast.ConstructorPattern:
		for i, fp := range v.Fields {
			fr := fs.b.NewReg(lowir.I64)
			fs.b.Emit(lowir.Load{Dst: fr, Base: scrut, Offset: int64(i + 1)})
			if vp, ok := fp.(*ast.VarPattern); ok {
				bind(vp.Name, fr)
			}
		}
	case *ast.RecordPattern:
		for i, fp := range v.Fields {
			fr := fs.b.NewReg(lowir.I64)
			fs.b.Emit(lowir.Load{Dst: fr, Base: scrut, Offset: int64(i)})
			if vp, ok := fp.Pattern.(*ast.VarPattern); ok {
				bind(vp.Name, fr)
			}
		}
	case *ast.ListPattern:
		for i, ep := range v.Elements {
			idxKind := lowir.I64
			el := fs.b.EmitCall("array_get", []lowir.Operand{scrut, lowir.ConstInt{Val: int64(i)}}, &idxKind)
			if vp, ok := ep.(*ast.VarPattern); ok {
				bind(vp.Name, mustReg(el))
			}
		}
		if v.Rest != nil {
			bind(v.Rest.Name, mustReg(scrut))
		}
	}
	return func() {
		for i := len(saved) - 1; i >= 0; i-- {
			saved[i]()
		}
	}
}
