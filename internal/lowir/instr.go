package lowir

import (
	"fmt"
	"strings"
)

// Instr is one IR instruction. Every concrete instruction is a plain
// struct; there is no shared base beyond the String() method, mirroring
// the small closed set of node kinds spec.md 4.10 enumerates rather than
// a generic tree of operators.
type Instr interface {
	String() string
}

// BinOp computes Dst = Lhs Op Rhs. Op is one of the surface binary
// operators ("+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=",
// "&&", "||"); the builder has already resolved which operand kind
// (int/float/string) applies.
type BinOp struct {
	Dst      Reg
	Op       string
	Lhs, Rhs Operand
}

func (b BinOp) String() string {
	return fmt.Sprintf("%s = %s %s %s", b.Dst, b.Lhs, b.Op, b.Rhs)
}

// UnOp computes Dst = Op Src ("-", "!").
type UnOp struct {
	Dst Reg
	Op  string
	Src Operand
}

func (u UnOp) String() string { return fmt.Sprintf("%s = %s%s", u.Dst, u.Op, u.Src) }

// Move copies Src into Dst without conversion.
type Move struct {
	Dst Reg
	Src Operand
}

func (m Move) String() string { return fmt.Sprintf("%s = %s", m.Dst, m.Src) }

// ToSlot widens a value to a uniform 64-bit container slot (spec.md
// 4.10.1 to_slot): i8 -> i64 (widen), f64 -> i64 (bitcast), i64 unchanged.
type ToSlot struct {
	Dst  Reg
	Src  Operand
	From ValueKind
}

func (t ToSlot) String() string { return fmt.Sprintf("%s = to_slot<%s>(%s)", t.Dst, t.From, t.Src) }

// FromSlot reverses ToSlot, narrowing a slot back to its declared kind.
type FromSlot struct {
	Dst Reg
	Src Operand
	To  ValueKind
}

func (f FromSlot) String() string { return fmt.Sprintf("%s = from_slot<%s>(%s)", f.Dst, f.To, f.Src) }

// Load reads a pointer-sized slot at Base + Offset*8 (field access, enum
// tag/payload, array/env slot).
type Load struct {
	Dst    Reg
	Base   Operand
	Offset int64
}

func (l Load) String() string { return fmt.Sprintf("%s = load(%s, %d)", l.Dst, l.Base, l.Offset) }

// Store writes Val into the slot at Base + Offset*8.
type Store struct {
	Base   Operand
	Offset int64
	Val    Operand
}

func (s Store) String() string { return fmt.Sprintf("store(%s, %d, %s)", s.Base, s.Offset, s.Val) }

// Alloc requests Slots*8 bytes of zeroed, GC-managed memory (class
// instances, enum instances, closure environments, generator objects).
type Alloc struct {
	Dst   Reg
	Slots int
}

func (a Alloc) String() string { return fmt.Sprintf("%s = alloc(%d)", a.Dst, a.Slots) }

// Call is a direct call: to a mangled function/method name, or to a
// named runtime intrinsic (lowir.Intrinsics). Dst is nil for a
// void-returning call.
type Call struct {
	Dst    *Reg
	Callee string
	Args   []Operand
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	dst := "_"
	if c.Dst != nil {
		dst = c.Dst.String()
	}
	return fmt.Sprintf("%s = call %s(%s)", dst, c.Callee, strings.Join(args, ", "))
}

// CallIndirect calls a function pointer loaded from a vtable or closure
// environment (trait dispatch, closure invocation, generator next-fn).
type CallIndirect struct {
	Dst     *Reg
	FuncPtr Operand
	Args    []Operand
}

func (c CallIndirect) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	dst := "_"
	if c.Dst != nil {
		dst = c.Dst.String()
	}
	return fmt.Sprintf("%s = call_indirect %s(%s)", dst, c.FuncPtr, strings.Join(args, ", "))
}

// Safepoint is emitted before every loop back-edge (spec.md 4.10.2) so
// the runtime can suspend the calling fiber/thread for GC.
type Safepoint struct{}

func (Safepoint) String() string { return "safepoint" }

// RWLock acquires or releases a synchronized singleton's lock (spec.md
// 9, "lock at call site"). Handle names the module-level lock-handle
// slot for the class.
type RWLockOp int

const (
	RLock RWLockOp = iota
	WLock
	Unlock
)

type RWLock struct {
	Op     RWLockOp
	Handle string
}

func (r RWLock) String() string {
	names := [...]string{"rdlock", "wrlock", "unlock"}
	return fmt.Sprintf("rwlock.%s(%s)", names[r.Op], r.Handle)
}

// Terminator is the single instruction that ends a block.
type Terminator interface {
	Instr
	terminator()
}

// Jmp is an unconditional branch, optionally passing block-parameter
// arguments (used to merge catch/select/ensures values without phi
// nodes living outside block headers).
type Jmp struct {
	Target string
	Args   []Operand
}

func (Jmp) terminator() {}
func (j Jmp) String() string {
	args := make([]string, len(j.Args))
	for i, a := range j.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("jmp %s(%s)", j.Target, strings.Join(args, ", "))
}

// Br is a conditional branch.
type Br struct {
	Cond             Operand
	TrueTgt, FalseTgt string
}

func (Br) terminator() {}
func (b Br) String() string {
	return fmt.Sprintf("br %s ? %s : %s", b.Cond, b.TrueTgt, b.FalseTgt)
}

// Switch is a sequential equality-test chain against a scrutinee: no
// jump table, a fall-through chain. The lowerer uses it only for a
// generator next-function's resume-state dispatch; match and select
// lower to chains of Br terminators instead.
type SwitchCase struct {
	Value  Operand
	Target string
}

type Switch struct {
	Scrutinee Operand
	Cases     []SwitchCase
	Default   string
}

func (Switch) terminator() {}
func (s Switch) String() string {
	cases := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = fmt.Sprintf("%s -> %s", c.Value, c.Target)
	}
	return fmt.Sprintf("switch %s {%s, default -> %s}", s.Scrutinee, strings.Join(cases, "; "), s.Default)
}

// Ret exits the function. Val is nil for a void return.
type Ret struct {
	Val Operand
}

func (Ret) terminator() {}
func (r Ret) String() string {
	if r.Val == nil {
		return "ret"
	}
	return fmt.Sprintf("ret %s", r.Val)
}

// Unreachable marks a block the builder proved can never execute
// (e.g. the fall-through after an exhaustive match the checker verified).
type Unreachable struct{}

func (Unreachable) terminator() {}
func (Unreachable) String() string { return "unreachable" }
