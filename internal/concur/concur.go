// Package concur computes the set of singleton classes that need
// read/write-lock synchronization (spec.md 4.8): those reachable from
// two or more concurrent entry points, where an entry point is either
// a spawn site or the app/stage main method.
package concur

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/di"
)

// owner pairs a call-graph key with the body it resolves to, mirroring
// check's bodyOwners but kept local since that collector isn't exported.
type owner struct {
	key  string
	body ast.Expr
}

func bodyOwners(prog *ast.Program) []owner {
	var owners []owner
	for _, fn := range prog.Funcs {
		owners = append(owners, owner{fn.Name, fn.Body})
	}
	for _, cl := range prog.Classes {
		for _, m := range cl.Methods {
			owners = append(owners, owner{check.MangleMethod(cl.Name, m.Name), m.Body})
		}
	}
	if prog.App != nil {
		for _, m := range prog.App.Methods {
			owners = append(owners, owner{check.MangleMethod(prog.App.Name, m.Name), m.Body})
		}
	}
	for _, st := range prog.Stages {
		for _, m := range st.Methods {
			owners = append(owners, owner{check.MangleMethod(st.Name, m.Name), m.Body})
		}
	}
	return owners
}

// directEffects scans body (stopping at spawn boundaries) for singleton
// accesses and outgoing call-graph edges.
func directEffects(body ast.Expr, eff map[string]ast.Lifecycle) (access map[string]bool, callees map[string]bool) {
	access = make(map[string]bool)
	callees = make(map[string]bool)
	walkStoppingAtSpawn(body, func(e ast.Expr) {
		switch v := e.(type) {
		case *ast.MethodCall:
			if v.Resolution.Kind == ast.ResClass && v.Resolution.ClassOrTrait != "" {
				callees[check.MangleMethod(v.Resolution.ClassOrTrait, v.Method)] = true
				if eff[v.Resolution.ClassOrTrait] == ast.Singleton {
					access[v.Resolution.ClassOrTrait] = true
				}
			}
		case *ast.FuncCall:
			if id, ok := v.Func.(*ast.Identifier); ok {
				callees[id.Name] = true
			}
		}
	})
	return access, callees
}

// Result is the concurrency-analysis output.
type Result struct {
	// SynchronizedSingletons is the set of singleton class names that
	// need a read/write lock around their method calls.
	SynchronizedSingletons map[string]bool
}

// Analyze runs the fixed-point reachability pass and writes its result
// both into the returned Result and into checked.SynchronizedSingletons.
func Analyze(prog *ast.Program, checked *check.Program) (*Result, error) {
	eff := di.EffectiveLifecycles(prog)
	owners := bodyOwners(prog)

	direct := make(map[string]map[string]bool, len(owners))
	callees := make(map[string]map[string]bool, len(owners))
	for _, o := range owners {
		d, c := directEffects(o.body, eff)
		direct[o.key] = d
		callees[o.key] = c
	}

	reach := fixedPointReach(direct, callees)

	mainKey := ""
	if prog.App != nil {
		for _, m := range prog.App.Methods {
			if m.Name == "main" {
				mainKey = check.MangleMethod(prog.App.Name, "main")
			}
		}
	}
	for _, st := range prog.Stages {
		for _, m := range st.Methods {
			if m.Name == "main" {
				mainKey = check.MangleMethod(st.Name, "main")
			}
		}
	}
	mainReach := reach[mainKey]

	spawnReaches := collectSpawnReaches(prog, eff, reach)

	accessCount := make(map[string]int)
	for _, sr := range spawnReaches {
		for class := range sr {
			accessCount[class]++
		}
	}

	sync := make(map[string]bool)
	for class, count := range accessCount {
		if count >= 2 {
			sync[class] = true
			continue
		}
		if count >= 1 && mainReach[class] {
			sync[class] = true
		}
	}

	if checked != nil {
		checked.SynchronizedSingletons = sync
	}
	return &Result{SynchronizedSingletons: sync}, nil
}

// fixedPointReach propagates direct accesses backwards along the call
// graph edges (callees) until no key's reachable set grows further.
func fixedPointReach(direct, callees map[string]map[string]bool) map[string]map[string]bool {
	reach := make(map[string]map[string]bool, len(direct))
	for key, d := range direct {
		cp := make(map[string]bool, len(d))
		for k := range d {
			cp[k] = true
		}
		reach[key] = cp
	}

	changed := true
	for changed {
		changed = false
		for key, outs := range callees {
			for callee := range outs {
				for class := range reach[callee] {
					if !reach[key][class] {
						reach[key][class] = true
						changed = true
					}
				}
			}
		}
	}
	return reach
}

// collectSpawnReaches finds every spawn site in the program and computes
// the set of singletons reachable from that site's closure: its own
// direct accesses plus the already-fixed-point reach of anything it
// calls directly. Each spawn site is its own independent root, since a
// singleton reachable from two distinct spawns may run concurrently.
func collectSpawnReaches(prog *ast.Program, eff map[string]ast.Lifecycle, reach map[string]map[string]bool) []map[string]bool {
	var spawnBodies []ast.Expr
	for _, o := range bodyOwners(prog) {
		check.Walk(o.body, func(e ast.Expr) {
			sp, ok := e.(*ast.Spawn)
			if !ok {
				return
			}
			cl, ok := sp.Closure.(*ast.ClosureCreate)
			if !ok {
				return
			}
			spawnBodies = append(spawnBodies, cl.Body)
		})
	}

	reaches := make([]map[string]bool, 0, len(spawnBodies))
	for _, body := range spawnBodies {
		d, c := directEffects(body, eff)
		merged := make(map[string]bool, len(d))
		for class := range d {
			merged[class] = true
		}
		for callee := range c {
			for class := range reach[callee] {
				merged[class] = true
			}
		}
		reaches = append(reaches, merged)
	}
	return reaches
}
