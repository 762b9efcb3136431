package codec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/derived"
	"github.com/sablelang/sablec/internal/ident"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripsProgramAndSource(t *testing.T) {
	fnID := ident.New()
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{{
			ID:   fnID,
			Name: "add",
			Body: &ast.BinaryOp{
				Op:    "+",
				Left:  &ast.Identifier{Name: "x"},
				Right: &ast.Identifier{Name: "y"},
			},
		}},
	}
	f := &File{Program: prog, Source: "fn add(x: int, y: int) int { return x + y }"}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, f.Source, got.Source)
	require.Len(t, got.Program.Funcs, 1)
	require.Equal(t, fnID, got.Program.Funcs[0].ID)
	bin, ok := got.Program.Funcs[0].Body.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)
}

// TestEncodeDecodeRoundTripIsStructurallyIdentical is spec.md 8's round-trip
// property (encode then decode reproduces the program exactly), checked
// with a full structural diff rather than spot-checking individual fields.
func TestEncodeDecodeRoundTripIsStructurallyIdentical(t *testing.T) {
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{{
			ID:         ident.New(),
			Name:       "add",
			Params:     []*ast.Param{{Name: "x", Type: &ast.Named{Name: ast.PrimInt}}, {Name: "y", Type: &ast.Named{Name: ast.PrimInt}}},
			ReturnType: &ast.Named{Name: ast.PrimInt},
			Body: &ast.Return{Value: &ast.BinaryOp{
				Op:    "+",
				Left:  &ast.Identifier{Name: "x"},
				Right: &ast.Identifier{Name: "y"},
			}},
		}},
	}
	f := &File{Program: prog, Source: "fn add(x: int, y: int) int { return x + y }"}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f))

	got, err := Decode(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(prog, got.Program); diff != "" {
		t.Errorf("round-tripped program differs (-want +got):\n%s", diff)
	}
	require.Equal(t, f.Source, got.Source)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("nope")
	_, err := Decode(buf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "BIN001")
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, Header{Magic: Magic, Version: 99}))
	_, err := Decode(&buf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "BIN002")
}

func TestIsBinaryFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &File{Program: &ast.Program{}}))
	require.True(t, IsBinaryFormat(buf.Bytes()))
	require.False(t, IsBinaryFormat([]byte("plain text source")))
}

func TestEncodeDecodeCarriesDerivedSidecar(t *testing.T) {
	snap := derived.Build(&ast.Program{}, nil, nil, []byte("src"))
	f := &File{Program: &ast.Program{}, Source: "src", Derived: snap}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f))
	got, err := Decode(&buf)
	require.NoError(t, err)
	require.NotNil(t, got.Derived)
	require.False(t, got.Derived.IsStale([]byte("src")))
	require.True(t, got.Derived.IsStale([]byte("changed")))
}
