package ast

import (
	"testing"

	"github.com/sablelang/sablec/internal/ident"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexesFunctionsClassesAndEnums(t *testing.T) {
	fnID := ident.New()
	classID := ident.New()
	fieldID := ident.New()
	methodID := ident.New()
	enumID := ident.New()
	variantID := ident.New()

	prog := &Program{
		Funcs: []*FuncDecl{{ID: fnID, Name: "add"}},
		Classes: []*Class{{
			ID:      classID,
			Name:    "Counter",
			Fields:  []*Field{{ID: fieldID, Name: "count"}},
			Methods: []*FuncDecl{{ID: methodID, Name: "incr"}},
		}},
		Enums: []*Enum{{
			ID:       enumID,
			Name:     "Option",
			Variants: []*Variant{{ID: variantID, Name: "Some", Index: 0}},
		}},
	}

	idx, err := Build(prog)
	require.NoError(t, err)
	require.Equal(t, 6, idx.Len())

	entry, ok := idx.Lookup(classID)
	require.True(t, ok)
	require.Equal(t, KindClass, entry.Kind)

	entry, ok = idx.Lookup(variantID)
	require.True(t, ok)
	require.Equal(t, KindVariant, entry.Kind)

	_, ok = idx.Lookup(ident.New())
	require.False(t, ok)
}

func TestBuildRejectsDuplicateUUIDs(t *testing.T) {
	dupID := ident.New()
	prog := &Program{
		Funcs: []*FuncDecl{
			{ID: dupID, Name: "a"},
			{ID: dupID, Name: "b"},
		},
	}
	_, err := Build(prog)
	require.Error(t, err)
}
