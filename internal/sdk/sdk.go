// Package sdk exposes a small read-only query API over a built derived
// snapshot (internal/derived): find-by-name, find-by-UUID, cross-reference
// iteration, trait-implementor lookup, and DI creation-order lookup.
// External collaborators (an LSP, a lint tool, a doc generator) are meant
// to hold onto an *Index rather than re-walk the AST or the checker's
// internal maps, the way the teacher's internal/iface exposes a module's
// resolved exports without handing out the elaborator's own state.
package sdk

import (
	"github.com/sablelang/sablec/internal/derived"
	"github.com/sablelang/sablec/internal/ident"
)

// Index is a read-only, name- and UUID-indexed view of a derived.Snapshot.
// Build once per compiled program; an Index never mutates its snapshot.
type Index struct {
	snap *derived.Snapshot

	funcsByName  map[string]*derived.FuncInfo
	classesByName map[string]*derived.ClassInfo
	traitsByName  map[string]*derived.TraitInfo
	enumsByName   map[string]*derived.EnumInfo
	errorsByName  map[string]*derived.ErrorInfo
	stagesByName  map[string]*derived.StageInfo

	byID map[ident.ID]any
}

// Build indexes snap by name and by UUID. snap is retained, not copied;
// callers must not mutate it afterward.
func Build(snap *derived.Snapshot) *Index {
	idx := &Index{
		snap:          snap,
		funcsByName:   make(map[string]*derived.FuncInfo, len(snap.Funcs)),
		classesByName: make(map[string]*derived.ClassInfo, len(snap.Classes)),
		traitsByName:  make(map[string]*derived.TraitInfo, len(snap.Traits)),
		enumsByName:   make(map[string]*derived.EnumInfo, len(snap.Enums)),
		errorsByName:  make(map[string]*derived.ErrorInfo, len(snap.Errors)),
		stagesByName:  make(map[string]*derived.StageInfo, len(snap.Stages)),
		byID:          make(map[ident.ID]any),
	}

	for i := range snap.Funcs {
		f := &snap.Funcs[i]
		idx.funcsByName[f.Name] = f
		idx.byID[f.ID] = f
	}
	for i := range snap.Classes {
		c := &snap.Classes[i]
		idx.classesByName[c.Name] = c
		idx.byID[c.ID] = c
		for _, fld := range c.Fields {
			idx.byID[fld.ID] = &fld
		}
	}
	for i := range snap.Traits {
		tr := &snap.Traits[i]
		idx.traitsByName[tr.Name] = tr
		idx.byID[tr.ID] = tr
	}
	for i := range snap.Enums {
		e := &snap.Enums[i]
		idx.enumsByName[e.Name] = e
		idx.byID[e.ID] = e
		for _, v := range e.Variants {
			idx.byID[v.ID] = &v
		}
	}
	for i := range snap.Errors {
		e := &snap.Errors[i]
		idx.errorsByName[e.Name] = e
		idx.byID[e.ID] = e
	}
	for i := range snap.Stages {
		s := &snap.Stages[i]
		idx.stagesByName[s.Name] = s
		idx.byID[s.ID] = s
	}

	return idx
}

// FuncByName finds a top-level function or method's derived record.
// Methods are keyed by their own name, not Class$method, since UUID
// lookups (not name lookups) are how a caller walks from a class to its
// methods (see ClassByName's Methods field plus ByID).
func (idx *Index) FuncByName(name string) (*derived.FuncInfo, bool) {
	f, ok := idx.funcsByName[name]
	return f, ok
}

func (idx *Index) ClassByName(name string) (*derived.ClassInfo, bool) {
	c, ok := idx.classesByName[name]
	return c, ok
}

func (idx *Index) TraitByName(name string) (*derived.TraitInfo, bool) {
	tr, ok := idx.traitsByName[name]
	return tr, ok
}

func (idx *Index) EnumByName(name string) (*derived.EnumInfo, bool) {
	e, ok := idx.enumsByName[name]
	return e, ok
}

func (idx *Index) ErrorByName(name string) (*derived.ErrorInfo, bool) {
	e, ok := idx.errorsByName[name]
	return e, ok
}

func (idx *Index) StageByName(name string) (*derived.StageInfo, bool) {
	s, ok := idx.stagesByName[name]
	return s, ok
}

// ByID resolves any declaration, field, or variant UUID to its derived
// record. Callers type-switch on the result, the same way a cross-
// reference (an ErrorRef, a method ID in ClassInfo.Methods) is expected
// to be followed back to its owning record.
func (idx *Index) ByID(id ident.ID) (any, bool) {
	v, ok := idx.byID[id]
	return v, ok
}

// FuncByID is ByID narrowed to the common case of resolving a method ID
// found in a ClassInfo.Methods slice back to its FuncInfo.
func (idx *Index) FuncByID(id ident.ID) (*derived.FuncInfo, bool) {
	v, ok := idx.byID[id]
	if !ok {
		return nil, false
	}
	f, ok := v.(*derived.FuncInfo)
	return f, ok
}

// ClassMethods resolves every method ID on cls's derived record back to
// its FuncInfo, skipping any ID that does not resolve to a FuncInfo.
func (idx *Index) ClassMethods(cls *derived.ClassInfo) []*derived.FuncInfo {
	out := make([]*derived.FuncInfo, 0, len(cls.Methods))
	for _, id := range cls.Methods {
		if f, ok := idx.FuncByID(id); ok {
			out = append(out, f)
		}
	}
	return out
}

// Implementors resolves a trait's implementor IDs back to their
// ClassInfo records (spec.md 6.1 trait-implementor lookup).
func (idx *Index) Implementors(traitName string) ([]*derived.ClassInfo, bool) {
	tr, ok := idx.traitsByName[traitName]
	if !ok {
		return nil, false
	}
	out := make([]*derived.ClassInfo, 0, len(tr.Implementors))
	for _, id := range tr.Implementors {
		if v, ok := idx.byID[id]; ok {
			if c, ok := v.(*derived.ClassInfo); ok {
				out = append(out, c)
			}
		}
	}
	return out, true
}

// RaisedErrors resolves fn's ErrorRefs back to ErrorInfo records, for
// every ref that names a declared (non-builtin) error type.
func (idx *Index) RaisedErrors(fn *derived.FuncInfo) []*derived.ErrorInfo {
	var out []*derived.ErrorInfo
	for _, ref := range fn.ErrorRefs {
		if ref.ID.IsNil() {
			continue
		}
		if v, ok := idx.byID[ref.ID]; ok {
			if e, ok := v.(*derived.ErrorInfo); ok {
				out = append(out, e)
			}
		}
	}
	return out
}

// DIOrder resolves the global singleton creation order back to its
// ClassInfo records, in dependency-first order (spec.md 4.5 DI wiring).
func (idx *Index) DIOrder() []*derived.ClassInfo {
	out := make([]*derived.ClassInfo, 0, len(idx.snap.DIOrder))
	for _, id := range idx.snap.DIOrder {
		if v, ok := idx.byID[id]; ok {
			if c, ok := v.(*derived.ClassInfo); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// AllFuncs, AllClasses, AllTraits, AllEnums, AllErrors, and AllStages give
// cross-reference iteration over every record of a kind, in the order
// derived.Build produced them (declaration order).
func (idx *Index) AllFuncs() []derived.FuncInfo     { return idx.snap.Funcs }
func (idx *Index) AllClasses() []derived.ClassInfo  { return idx.snap.Classes }
func (idx *Index) AllTraits() []derived.TraitInfo   { return idx.snap.Traits }
func (idx *Index) AllEnums() []derived.EnumInfo     { return idx.snap.Enums }
func (idx *Index) AllErrors() []derived.ErrorInfo   { return idx.snap.Errors }
func (idx *Index) AllStages() []derived.StageInfo   { return idx.snap.Stages }
