package rtypes

import "strings"

// MangleName produces the bijective, deterministic name used for a
// generic instantiation (spec.md 9, Open Question: "the generic-
// instantiation name-mangling uses double-underscore separators"). Any
// literal underscore in a component is escaped to "_u_" first so the
// "__" separator can never be produced by component text, which is what
// makes the scheme invertible.
func MangleName(base string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, escapeComponent(base))
	for _, a := range args {
		parts = append(parts, escapeComponent(a))
	}
	return strings.Join(parts, "__")
}

// MangleType mangles a resolved type's own name component for inclusion
// as a MangleName argument.
func MangleType(t Type) string {
	switch t.Kind {
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KBool:
		return "bool"
	case KByte:
		return "byte"
	case KBytes:
		return "bytes"
	case KString:
		return "string"
	case KVoid:
		return "void"
	case KClass, KTrait, KEnum, KTypeParam:
		return t.Name
	case KArray:
		return MangleName("Array", MangleType(*t.Elem))
	case KNullable:
		return MangleName("Nullable", MangleType(*t.Elem))
	case KStream:
		return MangleName("Stream", MangleType(*t.Elem))
	case KGenericInstance:
		args := make([]string, len(t.GenericArgs))
		for i, a := range t.GenericArgs {
			args[i] = MangleType(a)
		}
		return MangleName(t.GenericName, args...)
	default:
		return "t"
	}
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(s, "_", "_u_")
}

// UnmangleComponents splits a mangled name back into its base and
// argument components. It is the inverse of MangleName given the same
// escaping discipline.
func UnmangleComponents(mangled string) []string {
	var out []string
	var cur strings.Builder
	for i := 0; i < len(mangled); {
		switch {
		case strings.HasPrefix(mangled[i:], "_u_"):
			cur.WriteByte('_')
			i += 3
		case strings.HasPrefix(mangled[i:], "__"):
			out = append(out, cur.String())
			cur.Reset()
			i += 2
		default:
			cur.WriteByte(mangled[i])
			i++
		}
	}
	return append(out, cur.String())
}
