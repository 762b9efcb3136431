package check

import "github.com/sablelang/sablec/internal/rtypes"

// Program is the checker's output: every declaration's resolved shape,
// keyed by (already-flattened, qualified) name.
type Program struct {
	Funcs   map[string]*FuncSig
	Classes map[string]*ClassInfo
	Traits  map[string]*TraitInfo
	Enums   map[string]*EnumInfo
	Errors  map[string]*ErrorTypeInfo
	App     *AppInfo
	Stages  map[string]*StageInfo

	// CanRaise maps a function or Class$method mangled name to the set of
	// error type names it may raise, directly or transitively.
	CanRaise map[string][]string

	// SynchronizedSingletons is populated later, by internal/concur
	// (spec.md 4.8). It is carried here so internal/lowir has a single
	// resolved-program value to read from.
	SynchronizedSingletons map[string]bool
}

// FuncSig is a function or method's resolved signature.
type FuncSig struct {
	Params     []rtypes.Type
	Return     rtypes.Type
	IsFallible bool
}

// FieldInfo is a class/trait-variant/error field, resolved.
type FieldInfo struct {
	Name       string
	Type       rtypes.Type
	IsInjected bool
}

// ClassInfo is a class's resolved shape.
type ClassInfo struct {
	Fields     []FieldInfo
	Methods    map[string]*FuncSig
	ImplTraits []string
	Lifecycle  string
}

// TraitInfo is a trait's resolved shape.
type TraitInfo struct {
	Methods        []string
	DefaultMethods map[string]bool
	Implementors   []string
}

// VariantInfo is one enum variant, resolved.
type VariantInfo struct {
	Name   string
	Fields []FieldInfo
}

// EnumInfo is an enum's resolved shape.
type EnumInfo struct {
	Variants []VariantInfo
}

// ErrorTypeInfo is a user-declared error type's resolved shape.
type ErrorTypeInfo struct {
	Fields []FieldInfo
}

// AppInfo is the program's entry-point declaration, resolved.
type AppInfo struct {
	Name    string
	Fields  []FieldInfo
	Methods map[string]*FuncSig
}

// StageInfo is one deployable unit, resolved.
type StageInfo struct {
	Name    string
	Fields  []FieldInfo
	Methods map[string]*FuncSig
}

// MangleMethod produces the `Class$method` name the lowerer and DI engine
// use to address a class's method (spec.md 4.5).
func MangleMethod(class, method string) string {
	return class + "$" + method
}
