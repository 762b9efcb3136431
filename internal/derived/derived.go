// Package derived builds the sidecar snapshot spec.md 4.9 requires: a
// per-declaration record keyed by UUID, computed once check and
// concurrency analysis have both succeeded, and embedded in the binary
// AST alongside the source text and the AST itself.
package derived

import (
	"crypto/sha256"
	"sort"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/di"
	"github.com/sablelang/sablec/internal/ident"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrorRef names an error type a function may raise, with its UUID when
// the error type resolves to a declaration in this program (built-in
// errors have no declaration and so carry ident.Nil).
type ErrorRef struct {
	Name string
	ID   ident.ID
}

// FuncInfo is one function or method's derived record.
type FuncInfo struct {
	ID         ident.ID
	Name       string
	Params     []string // rendered resolved-type strings, stable across runs
	Return     string
	IsFallible bool
	ErrorRefs  []ErrorRef
}

// FieldInfo is one field's derived record.
type FieldInfo struct {
	ID         ident.ID
	Name       string
	Type       string
	IsInjected bool
}

// ClassInfo is one class's derived record.
type ClassInfo struct {
	ID         ident.ID
	Name       string
	Fields     []FieldInfo
	Methods    []ident.ID // sorted by UUID string
	ImplTraits []string
	Lifecycle  ast.Lifecycle
	Visibility ast.Visibility
}

// TraitInfo is one trait's derived record.
type TraitInfo struct {
	ID             ident.ID
	Name           string
	Methods        []string
	DefaultMethods []string
	Implementors   []ident.ID // sorted by UUID string
}

// VariantInfo is one enum variant's derived record.
type VariantInfo struct {
	ID     ident.ID
	Name   string
	Fields []FieldInfo
}

// EnumInfo is one enum's derived record.
type EnumInfo struct {
	ID       ident.ID
	Name     string
	Variants []VariantInfo
}

// ErrorInfo is one user-declared error type's derived record.
type ErrorInfo struct {
	ID     ident.ID
	Name   string
	Fields []FieldInfo
}

// StageInfo is one deployable stage's derived record. RequiredCapabilities
// is additive beyond spec.md 4.9: it flags stages whose methods make at
// least one cross-stage (RPC) call, for the SDK query layer.
type StageInfo struct {
	ID                   ident.ID
	Name                 string
	RequiredCapabilities []string
}

// Snapshot is the full derived-info sidecar.
type Snapshot struct {
	Funcs      []FuncInfo
	Classes    []ClassInfo
	Traits     []TraitInfo
	Enums      []EnumInfo
	Errors     []ErrorInfo
	Stages     []StageInfo
	DIOrder    []ident.ID // global singleton creation order
	SourceHash [32]byte
}

// Build snapshots prog (with checked's resolved shapes and plan's
// singleton order) and stamps it with a hash of source for later
// staleness detection.
func Build(prog *ast.Program, checked *check.Program, plan *di.Plan, source []byte) *Snapshot {
	snap := &Snapshot{SourceHash: sha256.Sum256(source)}

	classByName := make(map[string]*ast.Class, len(prog.Classes))
	for _, cl := range prog.Classes {
		classByName[cl.Name] = cl
	}
	errorByName := make(map[string]*ast.ErrorDecl, len(prog.Errors))
	for _, e := range prog.Errors {
		errorByName[e.Name] = e
	}

	for _, fn := range prog.Funcs {
		snap.Funcs = append(snap.Funcs, buildFuncInfo(fn.ID, fn.Name, checked.Funcs[fn.Name], checked.CanRaise[fn.Name], errorByName))
	}
	for _, cl := range prog.Classes {
		snap.Classes = append(snap.Classes, buildClassInfo(cl, checked.Classes[cl.Name]))
		for _, m := range cl.Methods {
			var sig *check.FuncSig
			if ci := checked.Classes[cl.Name]; ci != nil {
				sig = ci.Methods[m.Name]
			}
			snap.Funcs = append(snap.Funcs, buildFuncInfo(m.ID, m.Name, sig, checked.CanRaise[check.MangleMethod(cl.Name, m.Name)], errorByName))
		}
	}
	for _, tr := range prog.Traits {
		snap.Traits = append(snap.Traits, buildTraitInfo(tr, checked.Traits[tr.Name], classByName))
	}
	for _, en := range prog.Enums {
		snap.Enums = append(snap.Enums, buildEnumInfo(en))
	}
	for _, e := range prog.Errors {
		snap.Errors = append(snap.Errors, buildErrorInfo(e))
	}
	for _, st := range prog.Stages {
		snap.Stages = append(snap.Stages, buildStageInfo(st))
	}

	if plan != nil && plan.Singletons != nil {
		for _, name := range plan.Singletons.Order {
			if cl, ok := classByName[name]; ok {
				snap.DIOrder = append(snap.DIOrder, cl.ID)
			}
		}
	}

	return snap
}

// IsStale reports whether source no longer matches the hash snap was
// built from.
func (snap *Snapshot) IsStale(source []byte) bool {
	return sha256.Sum256(source) != snap.SourceHash
}

func buildFuncInfo(id ident.ID, name string, sig *check.FuncSig, canRaise []string, errorByName map[string]*ast.ErrorDecl) FuncInfo {
	info := FuncInfo{ID: id, Name: name}
	if sig != nil {
		for _, p := range sig.Params {
			info.Params = append(info.Params, p.String())
		}
		info.Return = sig.Return.String()
		info.IsFallible = sig.IsFallible
	}
	for _, errName := range sortedStrings(canRaise) {
		ref := ErrorRef{Name: errName}
		if decl, ok := errorByName[errName]; ok {
			ref.ID = decl.ID
		}
		info.ErrorRefs = append(info.ErrorRefs, ref)
	}
	return info
}

func buildClassInfo(cl *ast.Class, resolved *check.ClassInfo) ClassInfo {
	info := ClassInfo{ID: cl.ID, Name: cl.Name, Lifecycle: cl.Lifecycle, Visibility: cl.Visibility}
	for _, f := range cl.Fields {
		fi := FieldInfo{ID: f.ID, Name: f.Name, IsInjected: f.IsInjected}
		if resolved != nil {
			for _, rf := range resolved.Fields {
				if rf.Name == f.Name {
					fi.Type = rf.Type.String()
				}
			}
		}
		info.Fields = append(info.Fields, fi)
	}
	ids := make([]ident.ID, 0, len(cl.Methods))
	for _, m := range cl.Methods {
		ids = append(ids, m.ID)
	}
	info.Methods = sortedIDs(ids)
	if resolved != nil {
		info.ImplTraits = sortedStrings(resolved.ImplTraits)
	}
	return info
}

func buildTraitInfo(tr *ast.Trait, resolved *check.TraitInfo, classByName map[string]*ast.Class) TraitInfo {
	info := TraitInfo{ID: tr.ID, Name: tr.Name}
	if resolved != nil {
		info.Methods = sortedStrings(resolved.Methods)
		for name, isDefault := range resolved.DefaultMethods {
			if isDefault {
				info.DefaultMethods = append(info.DefaultMethods, name)
			}
		}
		info.DefaultMethods = sortedStrings(info.DefaultMethods)
		var ids []ident.ID
		for _, implName := range resolved.Implementors {
			if cl, ok := classByName[implName]; ok {
				ids = append(ids, cl.ID)
			}
		}
		info.Implementors = sortedIDs(ids)
	}
	return info
}

func buildEnumInfo(en *ast.Enum) EnumInfo {
	info := EnumInfo{ID: en.ID, Name: en.Name}
	for _, v := range en.Variants {
		vi := VariantInfo{ID: v.ID, Name: v.Name}
		for _, f := range v.Fields {
			vi.Fields = append(vi.Fields, FieldInfo{ID: f.ID, Name: f.Name})
		}
		info.Variants = append(info.Variants, vi)
	}
	return info
}

func buildErrorInfo(e *ast.ErrorDecl) ErrorInfo {
	info := ErrorInfo{ID: e.ID, Name: e.Name}
	for _, f := range e.Fields {
		info.Fields = append(info.Fields, FieldInfo{ID: f.ID, Name: f.Name})
	}
	return info
}

func buildStageInfo(st *ast.Stage) StageInfo {
	info := StageInfo{ID: st.ID, Name: st.Name}
	hasRPC := false
	for _, m := range st.Methods {
		if m.Body == nil {
			continue
		}
		check.Walk(m.Body, func(e ast.Expr) {
			if mc, ok := e.(*ast.MethodCall); ok && mc.Resolution.Kind == ast.ResRPC {
				hasRPC = true
			}
		})
	}
	if hasRPC {
		info.RequiredCapabilities = []string{"net.rpc"}
	}
	return info
}

// sortedStrings returns a deterministic, locale-independent ordering of
// ss via a collator rather than raw byte comparison, matching the
// teacher's own locale-aware string-compare idiom.
func sortedStrings(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	out := make([]string, len(ss))
	copy(out, ss)
	col := collate.New(language.Und)
	sort.Slice(out, func(i, j int) bool {
		return col.CompareString(out[i], out[j]) < 0
	})
	return out
}

func sortedIDs(ids []ident.ID) []ident.ID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]ident.ID, len(ids))
	copy(out, ids)
	col := collate.New(language.Und)
	sort.Slice(out, func(i, j int) bool {
		return col.CompareString(out[i].String(), out[j].String()) < 0
	})
	return out
}
