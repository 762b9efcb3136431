// Package modres flattens a program's transitive imports into a single
// aggregate program with qualified names, and resolves `module.name`
// references left over from parsing (spec.md 4.3).
package modres

import "github.com/sablelang/sablec/internal/ast"

// Unit is one parsed source or binary file, as produced by the lexer/
// parser or the binary codec — both external collaborators to this
// package (spec.md 1).
type Unit struct {
	ModulePath string
	Program    *ast.Program
}

// Loader resolves an import path to the Unit that defines it. The CLI
// driver supplies a filesystem- or binary-backed Loader; modres itself
// never touches disk.
type Loader interface {
	Load(importPath string) (*Unit, error)
}
