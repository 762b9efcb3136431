package lowir

import "fmt"

// Builder assembles one Func's blocks in order. Callers create blocks
// with NewBlock, select an insertion point with SetBlock, and emit
// instructions with Emit/EmitCall/etc.; Terminate closes the current
// block. internal/lower drives one Builder per lowered function.
type Builder struct {
	fn        *Func
	cur       *Block
	regSeq    int
	blockSeq  int
	byLabel   map[string]*Block
}

// NewBuilder starts a fresh function named name with the given
// parameters, entered at a freshly created "entry" block.
func NewBuilder(name string, params []FuncParam, ret ValueKind, hasReturn bool) *Builder {
	b := &Builder{
		fn:      &Func{Name: name, Params: params, Return: ret, HasReturn: hasReturn},
		byLabel: map[string]*Block{},
		regSeq:  len(params),
	}
	entry := b.NewBlock("entry")
	b.SetBlock(entry)
	return b
}

// Func returns the function built so far. Call once lowering completes;
// every reachable block must have a terminator or the IR is malformed.
func (b *Builder) Func() *Func { return b.fn }

// NewReg allocates a fresh virtual register of the given kind.
func (b *Builder) NewReg(kind ValueKind) Reg {
	r := Reg{ID: b.regSeq, Kind: kind}
	b.regSeq++
	return r
}

// NewBlock creates and registers a block with a name derived from hint,
// uniquified if hint collides with an existing label.
func (b *Builder) NewBlock(hint string) *Block {
	label := hint
	if _, exists := b.byLabel[label]; exists {
		label = fmt.Sprintf("%s.%d", hint, b.blockSeq)
	}
	b.blockSeq++
	blk := &Block{Label: label}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	b.byLabel[label] = blk
	return blk
}

// SetBlock moves the insertion point to blk.
func (b *Builder) SetBlock(blk *Block) { b.cur = blk }

// Current returns the block currently receiving instructions.
func (b *Builder) Current() *Block { return b.cur }

// Emit appends a non-terminating instruction to the current block.
func (b *Builder) Emit(in Instr) { b.cur.Instrs = append(b.cur.Instrs, in) }

// Terminate sets the current block's terminator. A block may be
// terminated exactly once; lowering logic must open a new block (via
// NewBlock+SetBlock) before emitting anything after a terminator.
func (b *Builder) Terminate(t Terminator) { b.cur.Term = t }

// Sealed reports whether the current block already has a terminator
// (used to detect and skip unreachable code after return/break/continue
// inside a Block sequence).
func (b *Builder) Sealed() bool { return b.cur.Term != nil }

// EmitCall emits a direct call and, if retKind is non-nil, returns the
// destination register holding its result.
func (b *Builder) EmitCall(callee string, args []Operand, retKind *ValueKind) Operand {
	if retKind == nil {
		b.Emit(Call{Callee: callee, Args: args})
		return nil
	}
	dst := b.NewReg(*retKind)
	b.Emit(Call{Dst: &dst, Callee: callee, Args: args})
	return dst
}

// EmitCallIndirect emits an indirect call through a loaded function
// pointer (trait dispatch, closure invocation, generator next-fn).
func (b *Builder) EmitCallIndirect(fnPtr Operand, args []Operand, retKind *ValueKind) Operand {
	if retKind == nil {
		b.Emit(CallIndirect{FuncPtr: fnPtr, Args: args})
		return nil
	}
	dst := b.NewReg(*retKind)
	b.Emit(CallIndirect{Dst: &dst, FuncPtr: fnPtr, Args: args})
	return dst
}
