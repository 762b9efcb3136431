package textsync

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/ident"
)

// Sync folds newProg (freshly parsed from edited source text) into
// oldProg (the program recovered from the prior binary AST file),
// transferring declaration UUIDs across the edit per spec.md 4.4:
//
//  1. if oldProg is nil, every declaration in newProg mints a fresh UUID
//     (the no-prior-binary fast path) and the report is all-Added.
//  2. direct name match: a declaration whose name exists in both
//     programs, within the same kind, keeps its UUID.
//  3. for every name present only in newProg, attempt a structural
//     rename match (Jaccard >= 0.75) against every name present only in
//     oldProg of the same kind; the best match above threshold keeps its
//     UUID and is reported Modified.
//  4. anything left unmatched in newProg mints a fresh UUID (Added);
//     anything left unmatched in oldProg is Removed.
//  5. within any enclosing declaration whose UUID was preserved, methods
//     are matched by the same two-pass rule; fields, variants and trait
//     methods are matched by name only (a name miss is Added/Removed).
//     Parameters carry no UUID and are not matched.
//
// Sync never mutates oldProg; newProg's declarations are updated in
// place with transferred or freshly minted IDs.
func Sync(newProg, oldProg *ast.Program) (*Report, error) {
	r := &Report{}
	if oldProg == nil {
		mintAllFresh(newProg, r)
		return r, nil
	}

	syncFuncs(newProg.Funcs, oldProg.Funcs, r)
	syncClasses(newProg.Classes, oldProg.Classes, r)
	syncTraits(newProg.Traits, oldProg.Traits, r)
	syncEnums(newProg.Enums, oldProg.Enums, r)
	syncErrors(newProg.Errors, oldProg.Errors, r)

	if newProg.App != nil {
		var oldFields []*ast.Field
		var oldMethods []*ast.FuncDecl
		if oldProg.App != nil {
			newProg.App.ID = oldProg.App.ID
			oldFields = oldProg.App.Fields
			oldMethods = oldProg.App.Methods
		} else {
			newProg.App.ID = ident.New()
		}
		syncFields(newProg.App.Fields, oldFields, r)
		syncFuncs(newProg.App.Methods, oldMethods, r)
	}

	syncStages(newProg.Stages, oldProg.Stages, r)

	return r, nil
}

func mintAllFresh(prog *ast.Program, r *Report) {
	for _, fn := range prog.Funcs {
		mintFuncTree(fn, r)
	}
	for _, cl := range prog.Classes {
		mintClassTree(cl, r)
	}
	for _, tr := range prog.Traits {
		mintTraitTree(tr, r)
	}
	for _, en := range prog.Enums {
		mintEnumTree(en, r)
	}
	for _, er := range prog.Errors {
		mintErrorTree(er, r)
	}
	if prog.App != nil {
		prog.App.ID = ident.New()
		for _, f := range prog.App.Fields {
			f.ID = ident.New()
		}
		for _, m := range prog.App.Methods {
			mintFuncTree(m, r)
		}
	}
	for _, st := range prog.Stages {
		st.ID = ident.New()
		for _, f := range st.Fields {
			f.ID = ident.New()
		}
		for _, m := range st.Methods {
			mintFuncTree(m, r)
		}
	}
}

func mintFuncTree(fn *ast.FuncDecl, r *Report) {
	fn.ID = ident.New()
	r.recordAdded(fn.Name)
}

func mintClassTree(cl *ast.Class, r *Report) {
	cl.ID = ident.New()
	for _, f := range cl.Fields {
		f.ID = ident.New()
	}
	for _, m := range cl.Methods {
		m.ID = ident.New()
	}
	r.recordAdded(cl.Name)
}

func mintTraitTree(tr *ast.Trait, r *Report) {
	tr.ID = ident.New()
	for _, m := range tr.Methods {
		m.ID = ident.New()
	}
	r.recordAdded(tr.Name)
}

func mintEnumTree(en *ast.Enum, r *Report) {
	en.ID = ident.New()
	for _, v := range en.Variants {
		v.ID = ident.New()
		for _, f := range v.Fields {
			f.ID = ident.New()
		}
	}
	r.recordAdded(en.Name)
}

func mintErrorTree(er *ast.ErrorDecl, r *Report) {
	er.ID = ident.New()
	for _, f := range er.Fields {
		f.ID = ident.New()
	}
	r.recordAdded(er.Name)
}

// matchResult tracks which old-side names have already been consumed by
// a direct or rename match, so the leftover set is exactly Removed.
type matchResult struct {
	usedOld map[string]bool
}

func newMatchResult() *matchResult { return &matchResult{usedOld: map[string]bool{}} }

func syncFuncs(newFns, oldFns []*ast.FuncDecl, r *Report) {
	oldByName := make(map[string]*ast.FuncDecl, len(oldFns))
	for _, f := range oldFns {
		oldByName[f.Name] = f
	}
	mr := newMatchResult()

	var unmatched []*ast.FuncDecl
	for _, nf := range newFns {
		if of, ok := oldByName[nf.Name]; ok {
			nf.ID = of.ID
			mr.usedOld[of.Name] = true
			r.recordUnchanged(nf.Name)
			continue
		}
		unmatched = append(unmatched, nf)
	}

	var candidates []*ast.FuncDecl
	for _, of := range oldFns {
		if !mr.usedOld[of.Name] {
			candidates = append(candidates, of)
		}
	}

	for _, nf := range unmatched {
		best, bestScore := bestFuncMatch(nf, candidates, mr.usedOld)
		if best != nil && bestScore >= renameThreshold {
			nf.ID = best.ID
			mr.usedOld[best.Name] = true
			r.recordModified(nf.Name)
			continue
		}
		mintFuncTree(nf, r)
	}

	for _, of := range oldFns {
		if !mr.usedOld[of.Name] {
			r.recordRemoved(of.Name)
		}
	}
}

func bestFuncMatch(nf *ast.FuncDecl, candidates []*ast.FuncDecl, used map[string]bool) (*ast.FuncDecl, float64) {
	var best *ast.FuncDecl
	bestScore := -1.0
	nfFeat := funcFeatures(nf)
	for _, of := range candidates {
		if used[of.Name] {
			continue
		}
		score := jaccard(nfFeat, funcFeatures(of))
		if score > bestScore {
			best, bestScore = of, score
		}
	}
	return best, bestScore
}

func syncFields(newFields, oldFields []*ast.Field, r *Report) {
	oldByName := make(map[string]*ast.Field, len(oldFields))
	for _, f := range oldFields {
		oldByName[f.Name] = f
	}
	used := map[string]bool{}
	var unmatched []*ast.Field
	for _, nf := range newFields {
		if of, ok := oldByName[nf.Name]; ok {
			nf.ID = of.ID
			used[of.Name] = true
			r.recordUnchanged(nf.Name)
			continue
		}
		unmatched = append(unmatched, nf)
	}
	// Fields have no richer structural signature than their own name, so
	// a name miss is always treated as add/remove, never a rename match.
	for _, nf := range unmatched {
		nf.ID = ident.New()
		r.recordAdded(nf.Name)
	}
	for _, of := range oldFields {
		if !used[of.Name] {
			r.recordRemoved(of.Name)
		}
	}
}

func syncClasses(newClasses, oldClasses []*ast.Class, r *Report) {
	oldByName := make(map[string]*ast.Class, len(oldClasses))
	for _, c := range oldClasses {
		oldByName[c.Name] = c
	}
	used := map[string]bool{}
	var unmatched []*ast.Class
	for _, nc := range newClasses {
		if oc, ok := oldByName[nc.Name]; ok {
			nc.ID = oc.ID
			used[oc.Name] = true
			r.recordUnchanged(nc.Name)
			syncFields(nc.Fields, oc.Fields, r)
			syncFuncs(nc.Methods, oc.Methods, r)
			continue
		}
		unmatched = append(unmatched, nc)
	}

	var candidates []*ast.Class
	for _, oc := range oldClasses {
		if !used[oc.Name] {
			candidates = append(candidates, oc)
		}
	}

	for _, nc := range unmatched {
		var best *ast.Class
		bestScore := -1.0
		nfFeat := fieldFeatures(nc.Fields)
		for _, oc := range candidates {
			if used[oc.Name] {
				continue
			}
			score := jaccard(nfFeat, fieldFeatures(oc.Fields))
			if score > bestScore {
				best, bestScore = oc, score
			}
		}
		if best != nil && bestScore >= renameThreshold {
			nc.ID = best.ID
			used[best.Name] = true
			r.recordModified(nc.Name)
			syncFields(nc.Fields, best.Fields, r)
			syncFuncs(nc.Methods, best.Methods, r)
			continue
		}
		mintClassTree(nc, r)
	}

	for _, oc := range oldClasses {
		if !used[oc.Name] {
			r.recordRemoved(oc.Name)
		}
	}
}

func syncTraits(newTraits, oldTraits []*ast.Trait, r *Report) {
	oldByName := make(map[string]*ast.Trait, len(oldTraits))
	for _, t := range oldTraits {
		oldByName[t.Name] = t
	}
	used := map[string]bool{}
	var unmatched []*ast.Trait
	for _, nt := range newTraits {
		if ot, ok := oldByName[nt.Name]; ok {
			nt.ID = ot.ID
			used[ot.Name] = true
			r.recordUnchanged(nt.Name)
			syncTraitMethods(nt.Methods, ot.Methods, r)
			continue
		}
		unmatched = append(unmatched, nt)
	}

	var candidates []*ast.Trait
	for _, ot := range oldTraits {
		if !used[ot.Name] {
			candidates = append(candidates, ot)
		}
	}

	for _, nt := range unmatched {
		var best *ast.Trait
		bestScore := -1.0
		nfFeat := traitFeatures(nt.Methods)
		for _, ot := range candidates {
			if used[ot.Name] {
				continue
			}
			score := jaccard(nfFeat, traitFeatures(ot.Methods))
			if score > bestScore {
				best, bestScore = ot, score
			}
		}
		if best != nil && bestScore >= renameThreshold {
			nt.ID = best.ID
			used[best.Name] = true
			r.recordModified(nt.Name)
			syncTraitMethods(nt.Methods, best.Methods, r)
			continue
		}
		mintTraitTree(nt, r)
	}

	for _, ot := range oldTraits {
		if !used[ot.Name] {
			r.recordRemoved(ot.Name)
		}
	}
}

func syncTraitMethods(newMethods, oldMethods []*ast.TraitMethod, r *Report) {
	oldByName := make(map[string]*ast.TraitMethod, len(oldMethods))
	for _, m := range oldMethods {
		oldByName[m.Name] = m
	}
	used := map[string]bool{}
	for _, nm := range newMethods {
		if om, ok := oldByName[nm.Name]; ok {
			nm.ID = om.ID
			used[om.Name] = true
			r.recordUnchanged(nm.Name)
			continue
		}
		nm.ID = ident.New()
		r.recordAdded(nm.Name)
	}
	for _, om := range oldMethods {
		if !used[om.Name] {
			r.recordRemoved(om.Name)
		}
	}
}

func syncEnums(newEnums, oldEnums []*ast.Enum, r *Report) {
	oldByName := make(map[string]*ast.Enum, len(oldEnums))
	for _, e := range oldEnums {
		oldByName[e.Name] = e
	}
	used := map[string]bool{}
	var unmatched []*ast.Enum
	for _, ne := range newEnums {
		if oe, ok := oldByName[ne.Name]; ok {
			ne.ID = oe.ID
			used[oe.Name] = true
			r.recordUnchanged(ne.Name)
			syncVariants(ne.Variants, oe.Variants, r)
			continue
		}
		unmatched = append(unmatched, ne)
	}

	var candidates []*ast.Enum
	for _, oe := range oldEnums {
		if !used[oe.Name] {
			candidates = append(candidates, oe)
		}
	}

	for _, ne := range unmatched {
		var best *ast.Enum
		bestScore := -1.0
		nfFeat := enumFeatures(ne.Variants)
		for _, oe := range candidates {
			if used[oe.Name] {
				continue
			}
			score := jaccard(nfFeat, enumFeatures(oe.Variants))
			if score > bestScore {
				best, bestScore = oe, score
			}
		}
		if best != nil && bestScore >= renameThreshold {
			ne.ID = best.ID
			used[best.Name] = true
			r.recordModified(ne.Name)
			syncVariants(ne.Variants, best.Variants, r)
			continue
		}
		mintEnumTree(ne, r)
	}

	for _, oe := range oldEnums {
		if !used[oe.Name] {
			r.recordRemoved(oe.Name)
		}
	}
}

func syncVariants(newVariants, oldVariants []*ast.Variant, r *Report) {
	oldByName := make(map[string]*ast.Variant, len(oldVariants))
	for _, v := range oldVariants {
		oldByName[v.Name] = v
	}
	used := map[string]bool{}
	for _, nv := range newVariants {
		if ov, ok := oldByName[nv.Name]; ok {
			nv.ID = ov.ID
			used[ov.Name] = true
			r.recordUnchanged(nv.Name)
			syncFields(nv.Fields, ov.Fields, r)
			continue
		}
		nv.ID = ident.New()
		for _, f := range nv.Fields {
			f.ID = ident.New()
		}
		r.recordAdded(nv.Name)
	}
	for _, ov := range oldVariants {
		if !used[ov.Name] {
			r.recordRemoved(ov.Name)
		}
	}
}

func syncErrors(newErrors, oldErrors []*ast.ErrorDecl, r *Report) {
	oldByName := make(map[string]*ast.ErrorDecl, len(oldErrors))
	for _, e := range oldErrors {
		oldByName[e.Name] = e
	}
	used := map[string]bool{}
	var unmatched []*ast.ErrorDecl
	for _, ne := range newErrors {
		if oe, ok := oldByName[ne.Name]; ok {
			ne.ID = oe.ID
			used[oe.Name] = true
			r.recordUnchanged(ne.Name)
			syncFields(ne.Fields, oe.Fields, r)
			continue
		}
		unmatched = append(unmatched, ne)
	}

	var candidates []*ast.ErrorDecl
	for _, oe := range oldErrors {
		if !used[oe.Name] {
			candidates = append(candidates, oe)
		}
	}

	for _, ne := range unmatched {
		var best *ast.ErrorDecl
		bestScore := -1.0
		nfFeat := fieldFeatures(ne.Fields)
		for _, oe := range candidates {
			if used[oe.Name] {
				continue
			}
			score := jaccard(nfFeat, fieldFeatures(oe.Fields))
			if score > bestScore {
				best, bestScore = oe, score
			}
		}
		if best != nil && bestScore >= renameThreshold {
			ne.ID = best.ID
			used[best.Name] = true
			r.recordModified(ne.Name)
			syncFields(ne.Fields, best.Fields, r)
			continue
		}
		mintErrorTree(ne, r)
	}

	for _, oe := range oldErrors {
		if !used[oe.Name] {
			r.recordRemoved(oe.Name)
		}
	}
}

func syncStages(newStages, oldStages []*ast.Stage, r *Report) {
	oldByName := make(map[string]*ast.Stage, len(oldStages))
	for _, s := range oldStages {
		oldByName[s.Name] = s
	}
	used := map[string]bool{}
	for _, ns := range newStages {
		if os, ok := oldByName[ns.Name]; ok {
			ns.ID = os.ID
			used[os.Name] = true
			r.recordUnchanged(ns.Name)
			syncFields(ns.Fields, os.Fields, r)
			syncFuncs(ns.Methods, os.Methods, r)
			continue
		}
		ns.ID = ident.New()
		for _, f := range ns.Fields {
			f.ID = ident.New()
		}
		for _, m := range ns.Methods {
			mintFuncTree(m, r)
		}
		r.recordAdded(ns.Name)
	}
	for _, os := range oldStages {
		if !used[os.Name] {
			r.recordRemoved(os.Name)
		}
	}
}
