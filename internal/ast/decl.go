package ast

import "github.com/sablelang/sablec/internal/ident"

// Lifecycle classifies how many instances of a class exist at runtime.
type Lifecycle int

const (
	// Singleton is wired once at app start by the DI engine.
	Singleton Lifecycle = iota
	// Scoped instances live for exactly one scope block.
	Scoped
	// Transient instances are constructed fresh at each injection site.
	Transient
)

func (l Lifecycle) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// Visibility controls cross-module access; it does not affect lowering.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// Ref is a cross-reference target populated by the checker (call target,
// construct target, enum-variant target, raise target). After check, a
// reference is either unresolved (builtin/extern, Resolved == false) or
// names a declaration UUID in the same program.
type Ref struct {
	Target   ident.ID
	Resolved bool
}

func ResolvedRef(id ident.ID) Ref { return Ref{Target: id, Resolved: true} }

// Param is a function or lambda parameter.
type Param struct {
	Name    string
	Type    TypeExpr
	Mutable bool
	Pos     Pos
}

func (p *Param) Position() Pos { return p.Pos }

// TypeParam is a generic type parameter with optional trait bounds.
type TypeParam struct {
	Name   string
	Bounds []string // trait names
	Pos    Pos
}

// Contract is a requires/ensures clause attached to a function.
type Contract struct {
	Kind ContractKind
	Expr Expr
	Pos  Pos
}

type ContractKind int

const (
	Requires ContractKind = iota
	Ensures
)

// FuncDecl is a top-level or qualified function declaration.
type FuncDecl struct {
	ID         ident.ID
	Name       string
	TypeParams []TypeParam
	Params     []*Param
	ReturnType TypeExpr // nil means void
	Contracts  []Contract
	Body       Expr
	Visibility Visibility
	IsOverride bool
	IsGenerator bool
	IsExtern   bool // extern-function declaration: body is nil
	Pos        Pos
}

func (f *FuncDecl) Position() Pos { return f.Pos }

// Field is a class/app/stage field.
type Field struct {
	ID         ident.ID
	Name       string
	Type       TypeExpr
	IsInjected bool
	IsAmbient  bool
	Pos        Pos
}

func (f *Field) Position() Pos { return f.Pos }

// Class is a class declaration.
type Class struct {
	ID             ident.ID
	Name           string
	TypeParams     []TypeParam
	Fields         []*Field
	Methods        []*FuncDecl
	Invariants     []Expr
	ImplTraits     []string
	Uses           []string // ambient `uses T` list, before desugaring rewrites it into Fields
	Lifecycle      Lifecycle
	Visibility     Visibility
	Pos            Pos
}

func (c *Class) Position() Pos { return c.Pos }

// IsGeneric reports whether the class has type parameters; generic
// classes may not use ambients (spec.md 4.6).
func (c *Class) IsGeneric() bool { return len(c.TypeParams) > 0 }

// LifecycleOverride maps a class name to a forced lifecycle, as declared
// by an App or Stage.
type LifecycleOverride struct {
	ClassName string
	Lifecycle Lifecycle
}

// App is the program's single entry-point declaration.
type App struct {
	ID                 ident.ID
	Name               string
	Fields             []*Field
	Uses               []string
	LifecycleOverrides []LifecycleOverride
	Methods            []*FuncDecl
	Pos                Pos
}

func (a *App) Position() Pos { return a.Pos }

// Stage is a deployable-unit declaration; cross-stage method calls route
// through RPC (spec.md 4.10.3).
type Stage struct {
	ID                 ident.ID
	Name               string
	Fields             []*Field
	Uses               []string
	LifecycleOverrides []LifecycleOverride
	RequiredMethods    []string
	Methods            []*FuncDecl
	Pos                Pos
}

func (s *Stage) Position() Pos { return s.Pos }

// TraitMethod is a method signature inside a trait, with an optional
// default body.
type TraitMethod struct {
	ID      ident.ID
	Name    string
	Params  []*Param
	Return  TypeExpr
	Default Expr // nil if no default implementation
	Pos     Pos
}

// Trait is a trait declaration.
type Trait struct {
	ID      ident.ID
	Name    string
	Methods []*TraitMethod
	Pos     Pos
}

func (t *Trait) Position() Pos { return t.Pos }

// Variant is one constructor of an Enum.
type Variant struct {
	ID     ident.ID
	Name   string
	Fields []*Field
	Index  int // 0-based position; this is the runtime tag (invariant 5)
	Pos    Pos
}

// Enum is an algebraic-data-type declaration.
type Enum struct {
	ID         ident.ID
	Name       string
	TypeParams []TypeParam
	Variants   []*Variant
	Pos        Pos
}

func (e *Enum) Position() Pos { return e.Pos }

// ErrorDecl is a user-declared error type (fields only, no methods).
type ErrorDecl struct {
	ID     ident.ID
	Name   string
	Fields []*Field
	Pos    Pos
}

func (e *ErrorDecl) Position() Pos { return e.Pos }

// SystemMember maps a deployment name to the module that implements it.
type SystemMember struct {
	DeploymentName string
	ModuleName     string
}

// System is the top-level deployment-topology declaration.
type System struct {
	ID      ident.ID
	Name    string
	Members []SystemMember
	Pos     Pos
}

func (s *System) Position() Pos { return s.Pos }

// Import is a module import.
type Import struct {
	Path string
	Pos  Pos
}

func (i *Import) Position() Pos { return i.Pos }

// TestMeta carries test/property declarations attached to functions at
// the program level (details of test execution are out of this spec's
// core; only the data shape is fixed).
type TestMeta struct {
	FuncName string
	Inputs   []Expr
	Expected Expr
}

// Program is a full, unflattened single-file (or already-flattened)
// declaration set. Declarations are unordered semantically but stored in
// a deterministic sequence for reproducible serialization (invariant:
// the codec never reorders these slices).
type Program struct {
	Imports   []*Import
	Funcs     []*FuncDecl // includes extern-function declarations (IsExtern)
	Classes   []*Class
	Traits    []*Trait
	Enums     []*Enum
	Errors    []*ErrorDecl
	App       *App // optional
	Stages    []*Stage
	System    *System // optional
	Tests     []*TestMeta
}
