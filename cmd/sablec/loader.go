package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sablelang/sablec/internal/codec"
	"github.com/sablelang/sablec/internal/modres"
)

// fileLoader resolves a `use` import path to a binary AST file under
// root, e.g. "collections/list" -> root/collections/list.sab. Parsing a
// module's own source into that .sab file is an external collaborator's
// job (spec.md 1); this loader only ever reads already-compiled units.
type fileLoader struct {
	root string
}

func newFileLoader(root string) *fileLoader {
	return &fileLoader{root: root}
}

func (l *fileLoader) Load(importPath string) (*modres.Unit, error) {
	path := filepath.Join(l.root, filepath.FromSlash(importPath)+".sab")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", importPath, err)
	}
	defer f.Close()

	file, err := codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", importPath, err)
	}
	return &modres.Unit{ModulePath: importPath, Program: file.Program}, nil
}
