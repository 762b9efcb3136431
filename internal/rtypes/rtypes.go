// Package rtypes defines the closed set of resolved types the checker
// assigns to every expression (spec.md 3.1 "Resolved types"). Unlike
// internal/ast.TypeExpr, which is surface syntax, a rtypes.Type is always
// fully resolved: no qualified names, no unresolved generics, no type
// parameters left over once monomorphization-relevant checks have run.
package rtypes

import "fmt"

// Kind discriminates the members of the closed resolved-type set.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KByte
	KBytes
	KString
	KVoid
	KClass
	KTrait
	KEnum
	KError
	KArray
	KMap
	KSet
	KTask
	KSender
	KReceiver
	KFn
	KNullable
	KStream
	KRange
	KTypeParam
	KGenericInstance
)

// Type is a resolved type. Exactly one of the Kind-specific fields below
// is meaningful for a given Kind; this mirrors the teacher's own closed
// sum-type representation in internal/types/types.go, generalized from a
// Hindley-Milner lattice to the fixed set spec.md defines.
type Type struct {
	Kind Kind

	Name string // Class(n) / Trait(n) / Enum(n) / TypeParam(n)

	Elem *Type // Array(T), Nullable(T), Stream(T), Sender(T), Receiver(T), Task(T)

	Key *Type // Map(K, V)
	Val *Type // Map(K, V)

	Params []Type // Fn(params, return)
	Return *Type  // Fn(params, return)

	GenericKind Kind   // the underlying kind a GenericInstance instantiates (KClass, KEnum, ...)
	GenericName string // GenericInstance(kind, n, args)
	GenericArgs []Type
}

var (
	Int    = Type{Kind: KInt}
	Float  = Type{Kind: KFloat}
	Bool   = Type{Kind: KBool}
	Byte   = Type{Kind: KByte}
	Bytes  = Type{Kind: KBytes}
	String = Type{Kind: KString}
	Void   = Type{Kind: KVoid}
	Range  = Type{Kind: KRange}
)

func Class(name string) Type { return Type{Kind: KClass, Name: name} }
func Trait(name string) Type { return Type{Kind: KTrait, Name: name} }
func Enum(name string) Type  { return Type{Kind: KEnum, Name: name} }
func ErrorType() Type        { return Type{Kind: KError} }
func TypeParam(name string) Type { return Type{Kind: KTypeParam, Name: name} }

func Array(elem Type) Type    { return Type{Kind: KArray, Elem: &elem} }
func Nullable(elem Type) Type { return Type{Kind: KNullable, Elem: &elem} }
func Stream(elem Type) Type   { return Type{Kind: KStream, Elem: &elem} }
func Sender(elem Type) Type   { return Type{Kind: KSender, Elem: &elem} }
func Receiver(elem Type) Type { return Type{Kind: KReceiver, Elem: &elem} }
func Task(elem Type) Type     { return Type{Kind: KTask, Elem: &elem} }

func Map(key, val Type) Type { return Type{Kind: KMap, Key: &key, Val: &val} }
func Set(elem Type) Type     { return Type{Kind: KSet, Elem: &elem} }

func Fn(params []Type, ret Type) Type {
	return Type{Kind: KFn, Params: params, Return: &ret}
}

func GenericInstance(kind Kind, name string, args []Type) Type {
	return Type{Kind: KGenericInstance, GenericKind: kind, GenericName: name, GenericArgs: args}
}

// IsHeap reports whether values of this type are represented as a 64-bit
// heap pointer at the IR level (spec.md 4.10, the Int|Class|Array|...->i64
// mapping). Bool and Byte are the only non-heap, non-float scalar kinds.
func (t Type) IsHeap() bool {
	switch t.Kind {
	case KBool, KByte, KFloat:
		return false
	default:
		return true
	}
}

// Equal performs structural equality over the closed set.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KClass, KTrait, KEnum, KTypeParam:
		return a.Name == b.Name
	case KArray, KNullable, KStream, KSender, KReceiver, KTask:
		return equalPtr(a.Elem, b.Elem)
	case KMap:
		return equalPtr(a.Key, b.Key) && equalPtr(a.Val, b.Val)
	case KSet:
		return equalPtr(a.Elem, b.Elem)
	case KFn:
		if len(a.Params) != len(b.Params) || !equalPtr(a.Return, b.Return) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	case KGenericInstance:
		if a.GenericKind != b.GenericKind || a.GenericName != b.GenericName || len(a.GenericArgs) != len(b.GenericArgs) {
			return false
		}
		for i := range a.GenericArgs {
			if !Equal(a.GenericArgs[i], b.GenericArgs[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func equalPtr(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return Equal(*a, *b)
}

// String renders a resolved type for diagnostics.
func (t Type) String() string {
	switch t.Kind {
	case KInt:
		return "Int"
	case KFloat:
		return "Float"
	case KBool:
		return "Bool"
	case KByte:
		return "Byte"
	case KBytes:
		return "Bytes"
	case KString:
		return "String"
	case KVoid:
		return "Void"
	case KRange:
		return "Range"
	case KError:
		return "Error"
	case KClass:
		return fmt.Sprintf("Class(%s)", t.Name)
	case KTrait:
		return fmt.Sprintf("Trait(%s)", t.Name)
	case KEnum:
		return fmt.Sprintf("Enum(%s)", t.Name)
	case KTypeParam:
		return fmt.Sprintf("TypeParam(%s)", t.Name)
	case KArray:
		return fmt.Sprintf("Array(%s)", t.Elem)
	case KNullable:
		return fmt.Sprintf("Nullable(%s)", t.Elem)
	case KStream:
		return fmt.Sprintf("Stream(%s)", t.Elem)
	case KSender:
		return fmt.Sprintf("Sender(%s)", t.Elem)
	case KReceiver:
		return fmt.Sprintf("Receiver(%s)", t.Elem)
	case KTask:
		return fmt.Sprintf("Task(%s)", t.Elem)
	case KMap:
		return fmt.Sprintf("Map(%s, %s)", t.Key, t.Val)
	case KSet:
		return fmt.Sprintf("Set(%s)", t.Elem)
	case KFn:
		return fmt.Sprintf("Fn(%v) -> %s", t.Params, t.Return)
	case KGenericInstance:
		return fmt.Sprintf("%s[%v]", t.GenericName, t.GenericArgs)
	default:
		return "?"
	}
}
