package rtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMangleNameDeterministic(t *testing.T) {
	a := MangleName("Box", "int")
	b := MangleName("Box", "int")
	require.Equal(t, a, b)
	require.Equal(t, "Box__int", a)
}

func TestMangleNameDistinguishesArgs(t *testing.T) {
	require.NotEqual(t, MangleName("Box", "int"), MangleName("Box", "float"))
}

func TestMangleTypeNested(t *testing.T) {
	got := MangleType(GenericInstance(KClass, "Box", []Type{Array(Int)}))
	require.Equal(t, "Box__Array__int", got)
}

func TestUnmangleRoundTripsSimpleNames(t *testing.T) {
	mangled := MangleName("Box", "int", "string")
	require.Equal(t, []string{"Box", "int", "string"}, UnmangleComponents(mangled))
}
