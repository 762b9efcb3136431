// Package lowir defines the low-level IR spec.md 4.10.1 lowers the
// checked AST into: a register-based, basic-block form over a small
// closed set of value kinds. internal/lower builds lowir.Module values;
// nothing downstream of this package (native emission, linking) is in
// scope here.
package lowir

import "fmt"

// ValueKind is the mechanical widening target spec.md 4.10 assigns to
// every resolved type: Int|Class|Array|Trait|Enum|Fn|Map|Set|Task|Sender|
// Receiver|Error|Range|Bytes|Nullable|Stream|String -> I64, Float -> F64,
// Bool|Byte -> I8.
type ValueKind int

const (
	I64 ValueKind = iota
	F64
	I8
)

func (k ValueKind) String() string {
	switch k {
	case I64:
		return "i64"
	case F64:
		return "f64"
	case I8:
		return "i8"
	default:
		return "?"
	}
}

// Operand is anything usable as instruction input: a virtual register or
// an immediate constant. ValueKind reports the operand's IR-level
// storage kind (not its Sable static type).
type Operand interface {
	ValueKind() ValueKind
	String() string
}

// Reg names a virtual register. Registers are a function-local
// namespace assigned by Builder.NewReg in allocation order; they are
// never reused across functions.
type Reg struct {
	ID   int
	Kind ValueKind
}

func (r Reg) ValueKind() ValueKind { return r.Kind }
func (r Reg) String() string       { return fmt.Sprintf("%%r%d", r.ID) }

// ConstInt is an immediate i64.
type ConstInt struct{ Val int64 }

func (ConstInt) ValueKind() ValueKind { return I64 }
func (c ConstInt) String() string     { return fmt.Sprintf("%d", c.Val) }

// ConstFloat is an immediate f64.
type ConstFloat struct{ Val float64 }

func (ConstFloat) ValueKind() ValueKind { return F64 }
func (c ConstFloat) String() string     { return fmt.Sprintf("%g", c.Val) }

// ConstBool is an immediate i8 (0 or 1).
type ConstBool struct{ Val bool }

func (ConstBool) ValueKind() ValueKind { return I8 }
func (c ConstBool) String() string {
	if c.Val {
		return "true"
	}
	return "false"
}

// ConstByte is an immediate i8.
type ConstByte struct{ Val byte }

func (ConstByte) ValueKind() ValueKind { return I8 }
func (c ConstByte) String() string     { return fmt.Sprintf("%d", c.Val) }

// ConstString is a string literal; the runtime interns it into a heap
// string object before this function is entered (module-level string
// table), so at the IR level it behaves as an i64 handle.
type ConstString struct{ Val string }

func (ConstString) ValueKind() ValueKind { return I64 }
func (c ConstString) String() string     { return fmt.Sprintf("%q", c.Val) }

// Null is the zero pointer: "none" for a Nullable, the null handle for a
// not-yet-created channel/sender, etc.
type Null struct{}

func (Null) ValueKind() ValueKind { return I64 }
func (Null) String() string       { return "null" }
