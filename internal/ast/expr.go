package ast

// Expr is the interface implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Identifier is a bare variable reference, possibly rewritten to a
// RecordAccess on self by ambient desugaring (internal/desugar).
type Identifier struct {
	Name string
	Pos  Pos
}

func (*Identifier) exprNode()      {}
func (i *Identifier) Position() Pos { return i.Pos }

// LiteralKind discriminates Literal payloads.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
	ByteLit
	BytesLit
	UnitLit
)

// Literal is a constant value.
type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
}

func (*Literal) exprNode()      {}
func (l *Literal) Position() Pos { return l.Pos }

// BinaryOp is a binary operator application.
type BinaryOp struct {
	Left  Expr
	Op    string
	Right Expr
	Pos   Pos
}

func (*BinaryOp) exprNode()      {}
func (b *BinaryOp) Position() Pos { return b.Pos }

// UnaryOp is a unary operator application.
type UnaryOp struct {
	Op   string
	Expr Expr
	Pos  Pos
}

func (*UnaryOp) exprNode()      {}
func (u *UnaryOp) Position() Pos { return u.Pos }

// ClosureCreate is a closure literal. The checker lifts its body to a
// top-level function (out of this spec's scope); the lowerer consumes
// the resulting (fn_ptr, captures) pair (spec.md 4.10.3).
type ClosureCreate struct {
	Params   []*Param
	Body     Expr
	Captures []string // names captured from the enclosing scope, filled by the checker
	Pos      Pos
}

func (*ClosureCreate) exprNode()      {}
func (c *ClosureCreate) Position() Pos { return c.Pos }

// FuncCall is a function or closure application.
type FuncCall struct {
	Func Expr
	Args []Expr
	Pos  Pos
}

func (*FuncCall) exprNode()      {}
func (f *FuncCall) Position() Pos { return f.Pos }

// MethodCall is receiver.method(args). Dispatch kind (static, trait
// vtable, RPC) is resolved by the checker into Resolution.
type MethodCall struct {
	Receiver   Expr
	Method     string
	Args       []Expr
	Resolution MethodResolution
	Pos        Pos
}

func (*MethodCall) exprNode()      {}
func (m *MethodCall) Position() Pos { return m.Pos }

// MethodResolutionKind distinguishes static dispatch from dynamic trait
// dispatch and cross-stage RPC (spec.md 4.5, 4.10.3).
type MethodResolutionKind int

const (
	ResUnknown MethodResolutionKind = iota
	ResClass                         // direct call to a mangled method
	ResTrait                         // vtable dispatch
	ResRPC                            // cross-stage call
)

// MethodResolution is populated by the checker's method-resolution map.
type MethodResolution struct {
	Kind        MethodResolutionKind
	ClassOrTrait string // mangled class name, or trait name
	TraitIndex  int    // method index within the trait's vtable, for ResTrait
	StageName   string // target stage, for ResRPC
}

// Construct is new-instance construction of a class.
type Construct struct {
	ClassName string
	Args      []Expr // named-or-positional construction inputs (non-injected fields)
	ArgNames  []string
	Ref       Ref
	Pos       Pos
}

func (*Construct) exprNode()      {}
func (c *Construct) Position() Pos { return c.Pos }

// EnumConstruct builds an enum value: Name.Variant(args...).
type EnumConstruct struct {
	EnumName    string
	VariantName string
	Args        []Expr
	Ref         Ref
	Pos         Pos
}

func (*EnumConstruct) exprNode()      {}
func (e *EnumConstruct) Position() Pos { return e.Pos }

// Let is a non-recursive binding expression: let name = value in body.
type Let struct {
	Name  string
	Type  TypeExpr
	Value Expr
	Body  Expr
	Pos   Pos
}

func (*Let) exprNode()      {}
func (l *Let) Position() Pos { return l.Pos }

// Block sequences expressions; the last is the value, the rest run for
// effect.
type Block struct {
	Exprs []Expr
	Pos   Pos
}

func (*Block) exprNode()      {}
func (b *Block) Position() Pos { return b.Pos }

// If is a conditional expression.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (*If) exprNode()      {}
func (i *If) Position() Pos { return i.Pos }

// While is a loop with a condition evaluated before each iteration.
type While struct {
	Cond Expr
	Body Expr
	Pos  Pos
}

func (*While) exprNode()      {}
func (w *While) Position() Pos { return w.Pos }

// ForKind selects the iterable shape a For loop walks, each lowered
// differently (spec.md 4.10.2).
type ForKind int

const (
	ForRange ForKind = iota
	ForArray
	ForBytes
	ForString
	ForReceiver
	ForStream
)

// For is a loop over a range, array, bytes, string, channel receiver, or
// generator stream.
type For struct {
	Kind     ForKind
	VarName  string
	Iterable Expr
	Body     Expr
	Pos      Pos
}

func (*For) exprNode()      {}
func (f *For) Position() Pos { return f.Pos }

// Match is a pattern-matching expression over an enum value.
type Match struct {
	Scrutinee Expr
	Cases     []*Case
	Pos       Pos
}

func (*Match) exprNode()      {}
func (m *Match) Position() Pos { return m.Pos }

// Case is one arm of a Match.
type Case struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
	Pos     Pos
}

// List is a list/array literal.
type List struct {
	Elements []Expr
	Pos      Pos
}

func (*List) exprNode()      {}
func (l *List) Position() Pos { return l.Pos }

// RecordField is one field of a Record literal.
type RecordField struct {
	Name  string
	Value Expr
	Pos   Pos
}

// Record is a record/struct literal (also used for class construction
// sugar before desugaring rewrites it to Construct).
type Record struct {
	Fields []*RecordField
	Pos    Pos
}

func (*Record) exprNode()      {}
func (r *Record) Position() Pos { return r.Pos }

// RecordAccess is field read access: expr.field.
type RecordAccess struct {
	Receiver Expr
	Field    string
	Pos      Pos
}

func (*RecordAccess) exprNode()      {}
func (r *RecordAccess) Position() Pos { return r.Pos }

// Assign is a plain variable assignment.
type Assign struct {
	Name  string
	Value Expr
	Pos   Pos
}

func (*Assign) exprNode()      {}
func (a *Assign) Position() Pos { return a.Pos }

// FieldAssign is receiver.field = value.
type FieldAssign struct {
	Receiver Expr
	Field    string
	Value    Expr
	Pos      Pos
}

func (*FieldAssign) exprNode()      {}
func (f *FieldAssign) Position() Pos { return f.Pos }

// IndexAssign is receiver[index] = value (array or map set-by-key).
type IndexAssign struct {
	Receiver Expr
	Index    Expr
	Value    Expr
	Pos      Pos
}

func (*IndexAssign) exprNode()      {}
func (i *IndexAssign) Position() Pos { return i.Pos }

// Raise allocates and throws a user-declared error.
type Raise struct {
	ErrorName string
	Args      []Expr
	ArgNames  []string
	Ref       Ref
	Pos       Pos
}

func (*Raise) exprNode()      {}
func (r *Raise) Position() Pos { return r.Pos }

// Propagate is the `!` operator: propagate a fallible call's error to the
// caller, or yield its success value.
type Propagate struct {
	Call Expr
	Pos  Pos
}

func (*Propagate) exprNode()      {}
func (p *Propagate) Position() Pos { return p.Pos }

// CatchKind distinguishes the wildcard-binding form from the shorthand
// fallback-expression form (spec.md 4.10.3).
type CatchKind int

const (
	CatchWildcard CatchKind = iota
	CatchShorthand
)

// Catch handles a fallible call's error locally.
type Catch struct {
	Kind     CatchKind
	Call     Expr
	ErrName  string // bound name, for CatchWildcard
	Handler  Expr   // handler body (Wildcard) or fallback expr (Shorthand)
	Pos      Pos
}

func (*Catch) exprNode()      {}
func (c *Catch) Position() Pos { return c.Pos }

// NullPropagate is the `?` operator: early-return none if the inner
// expression is none, else unbox.
type NullPropagate struct {
	Inner Expr
	Pos   Pos
}

func (*NullPropagate) exprNode()      {}
func (n *NullPropagate) Position() Pos { return n.Pos }

// Old refers to a pre-snapshotted variable inside an `ensures` clause.
type Old struct {
	Inner Expr
	Pos   Pos
}

func (*Old) exprNode()      {}
func (o *Old) Position() Pos { return o.Pos }

// Send is tx.send(value) / tx.try_send(value) / tx.close().
type SendOp int

const (
	SendBlocking SendOp = iota
	SendTry
	SendClose
)

type Send struct {
	Op      SendOp
	Channel Expr
	Value   Expr // nil for SendClose
	Pos     Pos
}

func (*Send) exprNode()      {}
func (s *Send) Position() Pos { return s.Pos }

// Recv is rx.recv() / rx.try_recv().
type Recv struct {
	Try     bool
	Channel Expr
	Pos     Pos
}

func (*Recv) exprNode()      {}
func (r *Recv) Position() Pos { return r.Pos }

// ChanDecl is `let (tx, rx) = chan<T>(cap?)`.
type ChanDecl struct {
	TxName string
	RxName string
	Elem   TypeExpr
	Cap    Expr // nil means capacity 1
	Body   Expr
	Pos    Pos
}

func (*ChanDecl) exprNode()      {}
func (c *ChanDecl) Position() Pos { return c.Pos }

// SelectArm is one arm of a select expression: either a receive or a
// send, bound to a case body.
type SelectArmKind int

const (
	SelectRecv SelectArmKind = iota
	SelectSend
)

type SelectArm struct {
	Kind    SelectArmKind
	Channel Expr
	VarName string // bound received value, for SelectRecv
	Value   Expr   // value to send, for SelectSend
	Body    Expr
	Pos     Pos
}

// Select waits on the first ready arm among several channel operations.
type Select struct {
	Arms       []*SelectArm
	Default    Expr // nil if there is no default arm
	HasDefault bool
	Pos        Pos
}

func (*Select) exprNode()      {}
func (s *Select) Position() Pos { return s.Pos }

// Spawn starts a new concurrent task running Closure.
type Spawn struct {
	Closure Expr // must be a *ClosureCreate after elaboration (spec.md 4.10.8)
	Pos     Pos
}

func (*Spawn) exprNode()      {}
func (s *Spawn) Position() Pos { return s.Pos }

// Yield is only valid inside a generator's body.
type Yield struct {
	Value Expr
	Pos   Pos
}

func (*Yield) exprNode()      {}
func (y *Yield) Position() Pos { return y.Pos }

// ScopeSeed is one seed expression supplied to a scope block.
type ScopeSeed struct {
	Expr Expr
}

// ScopeBinding is one `|name: T|` binding introduced by a scope block.
type ScopeBinding struct {
	Name string
	Type TypeExpr
	Pos  Pos
}

// ScopeBlock introduces block-scoped DI bindings constructed from seed
// expressions and auto-wired scoped classes (spec.md 4.7).
type ScopeBlock struct {
	Seeds    []ScopeSeed
	Bindings []ScopeBinding
	Body     Expr
	Pos      Pos
}

func (*ScopeBlock) exprNode()      {}
func (s *ScopeBlock) Position() Pos { return s.Pos }

// Expect is the test-assertion builtin: expect(x).to_equal(y), etc.
type ExpectMethod int

const (
	ExpectEqual ExpectMethod = iota
	ExpectTrue
	ExpectFalse
)

type Expect struct {
	Subject Expr
	Method  ExpectMethod
	Arg     Expr // nil for ExpectTrue/ExpectFalse
	Pos     Pos
}

func (*Expect) exprNode()      {}
func (e *Expect) Position() Pos { return e.Pos }

// QualifiedAccess is a module-prefixed reference as written in source,
// e.g. math.add. internal/modres rewrites every QualifiedAccess into a
// plain Identifier naming the flattened, prefixed declaration; any
// QualifiedAccess surviving past flattening is a programming error
// caught at codegen entry (spec.md 4.3, 4.10.8, error IR001).
type QualifiedAccess struct {
	Module string
	Name   string
	Pos    Pos
}

func (*QualifiedAccess) exprNode()      {}
func (q *QualifiedAccess) Position() Pos { return q.Pos }

// Intrinsic is a direct call to a named builtin/runtime entry point
// (print, sqrt, abs, min, max, ...), resolved by name at check time.
type Intrinsic struct {
	Name string
	Args []Expr
	Pos  Pos
}

func (*Intrinsic) exprNode()      {}
func (i *Intrinsic) Position() Pos { return i.Pos }
