// Package lower walks the checked, DI-wired, concurrency-analyzed AST
// and emits internal/lowir (spec.md 4.10). It is the last compiler phase
// before native emission/linking, which remain external collaborators.
package lower

import (
	"fmt"
	"sort"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/di"
	"github.com/sablelang/sablec/internal/lowir"
	"github.com/sablelang/sablec/internal/rtypes"
)

// Lower runs the full lowering pass over prog, using checked for
// resolved signatures/dispatch. plan is kept on the lowerer but no
// lowering step reads it: no singleton creation is emitted and scope
// blocks are not wired from it. checked.SynchronizedSingletons (populated by
// internal/concur) decides which class methods acquire a lock at their
// call sites (spec.md 9).
func Lower(prog *ast.Program, checked *check.Program, plan *di.Plan) (*lowir.Module, error) {
	mod := &lowir.Module{}

	var lockSlots []string
	for name, sync := range checked.SynchronizedSingletons {
		if sync {
			lockSlots = append(lockSlots, name)
		}
	}
	sort.Strings(lockSlots)
	mod.LockSlots = lockSlots

	l := &lowerer{prog: prog, checked: checked, plan: plan}

	for _, fn := range prog.Funcs {
		if fn.IsExtern {
			continue
		}
		f, err := l.lowerTopLevelFunc(fn, fn.Name)
		if err != nil {
			return nil, err
		}
		mod.Funcs = append(mod.Funcs, f...)
	}
	for _, cl := range prog.Classes {
		for _, m := range cl.Methods {
			f, err := l.lowerMethod(cl.Name, m)
			if err != nil {
				return nil, err
			}
			mod.Funcs = append(mod.Funcs, f...)
		}
	}
	if prog.App != nil {
		for _, m := range prog.App.Methods {
			f, err := l.lowerMethod(prog.App.Name, m)
			if err != nil {
				return nil, err
			}
			mod.Funcs = append(mod.Funcs, f...)
		}
	}
	for _, st := range prog.Stages {
		for _, m := range st.Methods {
			f, err := l.lowerMethod(st.Name, m)
			if err != nil {
				return nil, err
			}
			mod.Funcs = append(mod.Funcs, f...)
		}
	}

	return mod, nil
}

// lowerer carries the read-only, whole-program context every function
// lowering needs: resolved signatures, the DI plan, and dispatch info.
type lowerer struct {
	prog    *ast.Program
	checked *check.Program
	plan    *di.Plan
}

func (l *lowerer) lowerTopLevelFunc(fn *ast.FuncDecl, name string) ([]*lowir.Func, error) {
	sig := l.checked.Funcs[name]
	return lowerFuncDecl(l, name, fn, sig, "")
}

func (l *lowerer) lowerMethod(owner string, fn *ast.FuncDecl) ([]*lowir.Func, error) {
	mangled := check.MangleMethod(owner, fn.Name)
	sig := l.lookupMethodSig(owner, fn.Name)
	return lowerFuncDecl(l, mangled, fn, sig, owner)
}

func (l *lowerer) lookupMethodSig(owner, method string) *check.FuncSig {
	if ci, ok := l.checked.Classes[owner]; ok {
		return ci.Methods[method]
	}
	if l.checked.App != nil && l.checked.App.Name == owner {
		return l.checked.App.Methods[method]
	}
	if si, ok := l.checked.Stages[owner]; ok {
		return si.Methods[method]
	}
	return nil
}

func kindOf(t rtypes.Type) lowir.ValueKind {
	switch t.Kind {
	case rtypes.KFloat:
		return lowir.F64
	case rtypes.KBool, rtypes.KByte:
		return lowir.I8
	default:
		return lowir.I64
	}
}

func errUnresolvedQualified(name string) error {
	return fmt.Errorf("IR001: unresolved qualified access %q reached codegen", name)
}

func errGenericTypeExpr() error {
	return fmt.Errorf("IR002: unresolved generic type expression reached codegen")
}

func errTypeParamReachedCodegen(name string) error {
	return fmt.Errorf("IR003: type parameter %q reached codegen", name)
}

func errSpawnNotClosure() error {
	return fmt.Errorf("IR004: spawn's inner expression is not a closure literal")
}

func errYieldOutsideGenerator() error {
	return fmt.Errorf("IR005: yield outside a generator next-function")
}

func errUnsupportedRPCType(t rtypes.Type) error {
	return fmt.Errorf("IR006: unsupported RPC argument/result type %s", t.String())
}
