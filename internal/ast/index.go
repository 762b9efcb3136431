package ast

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ident"
)

// Kind discriminates what a UUID names in the Index.
type Kind int

const (
	KindFunc Kind = iota
	KindParam
	KindField
	KindClass
	KindMethod
	KindTrait
	KindTraitMethod
	KindEnum
	KindVariant
	KindError
	KindApp
	KindStage
	KindSystem
)

// Entry is one indexed declaration: its kind, its UUID, and the node
// itself (always one of the *ast declaration pointer types).
type Entry struct {
	Kind Kind
	ID   ident.ID
	Node Node
}

// Index answers "give me the declaration for UUID X" in O(1). It is
// built by one scan of the program (functions, then class fields and
// methods, then enum variants, and so on) and must be rebuilt after any
// structural edit to the program — it does not track edits incrementally
// (spec.md 4.1).
type Index struct {
	byID map[ident.ID]Entry
}

// Build scans prog once and returns a fresh Index.
func Build(prog *Program) (*Index, error) {
	idx := &Index{byID: make(map[ident.ID]Entry)}

	add := func(kind Kind, id ident.ID, node Node) error {
		if id.IsNil() {
			return nil
		}
		if _, exists := idx.byID[id]; exists {
			return fmt.Errorf("AST001: duplicate UUID %s", id)
		}
		idx.byID[id] = Entry{Kind: kind, ID: id, Node: node}
		return nil
	}

	for _, fn := range prog.Funcs {
		if err := add(KindFunc, fn.ID, fn); err != nil {
			return nil, err
		}
		for _, p := range fn.Params {
			_ = p // parameters are scoped to the function; no stable ID of their own beyond position, unless declared injectable in a future surface
		}
	}
	for _, c := range prog.Classes {
		if err := add(KindClass, c.ID, c); err != nil {
			return nil, err
		}
		for _, f := range c.Fields {
			if err := add(KindField, f.ID, f); err != nil {
				return nil, err
			}
		}
		for _, m := range c.Methods {
			if err := add(KindMethod, m.ID, m); err != nil {
				return nil, err
			}
		}
	}
	for _, t := range prog.Traits {
		if err := add(KindTrait, t.ID, t); err != nil {
			return nil, err
		}
		for _, m := range t.Methods {
			if err := add(KindTraitMethod, m.ID, m); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range prog.Enums {
		if err := add(KindEnum, e.ID, e); err != nil {
			return nil, err
		}
		for _, v := range e.Variants {
			if err := add(KindVariant, v.ID, v); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range prog.Errors {
		if err := add(KindError, e.ID, e); err != nil {
			return nil, err
		}
		for _, f := range e.Fields {
			if err := add(KindField, f.ID, f); err != nil {
				return nil, err
			}
		}
	}
	if prog.App != nil {
		if err := add(KindApp, prog.App.ID, prog.App); err != nil {
			return nil, err
		}
		for _, f := range prog.App.Fields {
			if err := add(KindField, f.ID, f); err != nil {
				return nil, err
			}
		}
		for _, m := range prog.App.Methods {
			if err := add(KindMethod, m.ID, m); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range prog.Stages {
		if err := add(KindStage, s.ID, s); err != nil {
			return nil, err
		}
		for _, f := range s.Fields {
			if err := add(KindField, f.ID, f); err != nil {
				return nil, err
			}
		}
		for _, m := range s.Methods {
			if err := add(KindMethod, m.ID, m); err != nil {
				return nil, err
			}
		}
	}
	if prog.System != nil {
		if err := add(KindSystem, prog.System.ID, prog.System); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Lookup returns the entry for id, or false if id is not indexed.
func (idx *Index) Lookup(id ident.ID) (Entry, bool) {
	e, ok := idx.byID[id]
	return e, ok
}

// Len returns the number of indexed declarations.
func (idx *Index) Len() int { return len(idx.byID) }
