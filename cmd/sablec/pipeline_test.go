package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/codec"
	"github.com/sablelang/sablec/internal/lower"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name string, prog *ast.Program) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, codec.Encode(f, &codec.File{Program: prog, Source: "source"}))
	return path
}

func TestRunFrontendChecksAndWiresAFlatProgram(t *testing.T) {
	dir := t.TempDir()
	prog := &ast.Program{
		Funcs: []*ast.FuncDecl{{
			Name:       "add",
			Params:     []*ast.Param{{Name: "a", Type: &ast.Named{Name: ast.PrimInt}}, {Name: "b", Type: &ast.Named{Name: ast.PrimInt}}},
			ReturnType: &ast.Named{Name: ast.PrimInt},
			Body:       &ast.Return{Value: &ast.BinaryOp{Left: &ast.Identifier{Name: "a"}, Op: "+", Right: &ast.Identifier{Name: "b"}}},
		}},
	}
	path := writeFixture(t, dir, "prog.sab", prog)

	res, err := runFrontend(path, dir)
	require.NoError(t, err)
	require.Contains(t, res.checked.Funcs, "add")

	mod, err := lower.Lower(res.prog, res.checked, res.plan)
	require.NoError(t, err)
	require.Len(t, mod.Funcs, 1)

	idx := buildSDKIndex(res)
	fn, ok := idx.FuncByName("add")
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
}

func TestRunFrontendRejectsUndecodableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.sab")
	require.NoError(t, os.WriteFile(path, []byte("not a binary AST file"), 0o644))

	_, err := runFrontend(path, dir)
	require.Error(t, err)
}
