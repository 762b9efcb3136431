package rtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualStructural(t *testing.T) {
	a := Array(Class("Logger"))
	b := Array(Class("Logger"))
	c := Array(Class("Cache"))

	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
}

func TestEqualNestedNullable(t *testing.T) {
	a := Nullable(Array(Int))
	b := Nullable(Array(Int))
	require.True(t, Equal(a, b))
}

func TestIsHeap(t *testing.T) {
	require.False(t, Bool.IsHeap())
	require.False(t, Byte.IsHeap())
	require.False(t, Float.IsHeap())
	require.True(t, Int.IsHeap())
	require.True(t, Class("Foo").IsHeap())
	require.True(t, Nullable(Int).IsHeap())
}

func TestGenericInstanceEquality(t *testing.T) {
	a := GenericInstance(KClass, "Box", []Type{Int})
	b := GenericInstance(KClass, "Box", []Type{Int})
	c := GenericInstance(KClass, "Box", []Type{Float})
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
}
