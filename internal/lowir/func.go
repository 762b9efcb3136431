package lowir

import "fmt"

// BlockParam is a value a block receives from whichever predecessor
// jumps to it, used instead of general phi nodes (spec.md 4.10.3,
// "merge via a block parameter" for catch/select/ensures).
type BlockParam = Reg

// Block is a basic block: a label, zero or more incoming parameters, a
// straight-line instruction list, and exactly one terminator.
type Block struct {
	Label  string
	Params []BlockParam
	Instrs []Instr
	Term   Terminator
}

func (b *Block) String() string {
	s := b.Label
	if len(b.Params) > 0 {
		s += "("
		for i, p := range b.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		s += ")"
	}
	s += ":\n"
	for _, in := range b.Instrs {
		s += "  " + in.String() + "\n"
	}
	if b.Term != nil {
		s += "  " + b.Term.String() + "\n"
	}
	return s
}

// FuncParam is one parameter slot of a lowered function: its register
// and its name (a method's implicit receiver is the leading "self").
type FuncParam struct {
	Reg  Reg
	Name string
}

// Func is one lowered function, method, closure body, generator
// creator, or generator next-function. Name is the mangled name the
// call-graph and the runtime symbol table both use (see
// check.MangleMethod for methods).
type Func struct {
	Name        string
	Params      []FuncParam
	Return      ValueKind
	HasReturn   bool // false for void
	Blocks      []*Block
	IsGenerator bool // true only for a lowered generator's *next* function
}

func (f *Func) String() string {
	s := fmt.Sprintf("func %s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", p.Name, p.Reg.Kind)
	}
	s += ")"
	if f.HasReturn {
		s += " " + f.Return.String()
	}
	s += " {\n"
	for _, b := range f.Blocks {
		s += b.String()
	}
	return s + "}\n"
}

// Module is a full lowered program: every function plus the global
// lock-handle slots synchronized singletons use.
type Module struct {
	Funcs      []*Func
	LockSlots  []string // one per class in check.Program.SynchronizedSingletons, sorted
}

func (m *Module) String() string {
	s := ""
	for _, f := range m.Funcs {
		s += f.String() + "\n"
	}
	return s
}
