package lower

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/lowir"
)

// loopCtx is one entry of the break/continue target stack.
type loopCtx struct {
	breakLabel, continueLabel string
}

// funcState is the per-function lowering context: the builder, the
// variable environment, and the bookkeeping §4.10.7 (sender lifetime)
// and §4.10.5 (contracts) require.
type funcState struct {
	l       *lowerer
	b       *lowir.Builder
	owner   string // class/app/stage name, "" for a top-level function
	env     map[string]lowir.Reg
	loops   []loopCtx

	// exitLabel is the single function-exit block every return path
	// funnels through, so sender cleanup (4.10.7) and ensures checks
	// (4.10.5) run exactly once regardless of how the function returns.
	exitLabel string
	hasReturn bool
	retKind   lowir.ValueKind

	// senders lists every `let (tx, rx) = chan<T>(...)` tx variable name
	// declared in this function, pre-declared at entry per 4.10.7.
	senders []string

	// ensures holds the function's ensures-clause bodies, evaluated in
	// the exit block with the return value bound as a block parameter.
	ensures []ast.Contract
	oldVals map[string]lowir.Operand

	// generator-only fields, set by lowerGenerator.
	isGenerator bool
	genObj      lowir.Reg
	genLocals   []string          // parameter names, then every name collectLocals finds bound in the body
	genCases    []lowir.SwitchCase // one entry per yield point, appended as each is lowered
}

func newFuncState(l *lowerer, b *lowir.Builder, owner string) *funcState {
	return &funcState{
		l:     l,
		b:     b,
		owner: owner,
		env:   map[string]lowir.Reg{},
	}
}

func (fs *funcState) pushLoop(breakLabel, continueLabel string) {
	fs.loops = append(fs.loops, loopCtx{breakLabel, continueLabel})
}

func (fs *funcState) popLoop() { fs.loops = fs.loops[:len(fs.loops)-1] }

func (fs *funcState) currentLoop() (loopCtx, bool) {
	if len(fs.loops) == 0 {
		return loopCtx{}, false
	}
	return fs.loops[len(fs.loops)-1], true
}
