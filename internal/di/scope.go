package di

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/errors"
)

// DepSourceKind classifies where a scoped instantiation's dependency
// comes from (spec.md 4.7).
type DepSourceKind int

const (
	DepSeed DepSourceKind = iota
	DepSingleton
	DepScopedInstance
)

// DepSource is one resolved dependency edge for a scope-block field wire.
type DepSource struct {
	Kind      DepSourceKind
	SeedIndex int    // valid for DepSeed
	ClassName string // valid for DepSingleton / DepScopedInstance
}

// ScopePlan is the fully resolved instantiation plan for one `scope`
// block: which classes get built, in what order, and how each
// injected field is wired.
type ScopePlan struct {
	SeedClasses   []string             // seed expressions' class names, by index
	CreationOrder []string             // scoped classes, dependency-first
	Wiring        map[string][]DepSource // class name -> per-injected-field source, in field order
}

// BuildScopePlan resolves one ast.ScopeBlock into a ScopePlan.
func BuildScopePlan(sb *ast.ScopeBlock, classByName map[string]*ast.Class, eff map[string]ast.Lifecycle) (*ScopePlan, error) {
	seedClasses := make([]string, len(sb.Seeds))
	for i, seed := range sb.Seeds {
		ctor, ok := seed.Expr.(*ast.Construct)
		if !ok {
			return nil, fmt.Errorf("%s: seed-not-scoped: seed expression is not a direct construction", errors.DI002)
		}
		cl, known := classByName[ctor.ClassName]
		if !known || (eff[cl.Name] != ast.Scoped && eff[cl.Name] != ast.Transient) {
			return nil, fmt.Errorf("%s: seed-not-scoped: %s is not a scoped/transient class", errors.DI002, ctor.ClassName)
		}
		seedClasses[i] = ctor.ClassName
	}

	seedIndexByClass := make(map[string]int, len(seedClasses))
	for i, name := range seedClasses {
		seedIndexByClass[name] = i
	}

	scopedClasses := make(map[string]bool, len(sb.Bindings))
	for _, b := range sb.Bindings {
		typeName := classNameOfType(b.Type)
		if _, isSeed := seedIndexByClass[typeName]; isSeed {
			continue // seed-binding: resolved directly against the seed, no instantiation needed
		}
		cl, known := classByName[typeName]
		if !known {
			return nil, fmt.Errorf("%s: binding-not-class: %q does not name a class", errors.DI004, typeName)
		}
		if hasNonInjectedFields(cl) {
			return nil, fmt.Errorf("%s: non-injected-fields-not-seed: auto-bound class %s needs a seed expression", errors.DI003, cl.Name)
		}
		scopedClasses[cl.Name] = true
	}
	for _, name := range seedClasses {
		scopedClasses[name] = true
	}

	wiring := make(map[string][]DepSource, len(scopedClasses))
	for name := range scopedClasses {
		cl := classByName[name]
		if cl == nil {
			continue
		}
		var sources []DepSource
		for _, f := range cl.Fields {
			if !f.IsInjected {
				continue
			}
			depName := classNameOfType(f.Type)
			switch {
			case seedIdx(seedIndexByClass, depName) >= 0:
				sources = append(sources, DepSource{Kind: DepSeed, SeedIndex: seedIndexByClass[depName]})
			case eff[depName] == ast.Singleton:
				sources = append(sources, DepSource{Kind: DepSingleton, ClassName: depName})
			case scopedClasses[depName]:
				sources = append(sources, DepSource{Kind: DepScopedInstance, ClassName: depName})
			}
		}
		wiring[name] = sources
	}

	order, err := topoSortScoped(scopedClasses, wiring)
	if err != nil {
		return nil, err
	}

	return &ScopePlan{SeedClasses: seedClasses, CreationOrder: order, Wiring: wiring}, nil
}

func seedIdx(m map[string]int, name string) int {
	if idx, ok := m[name]; ok {
		return idx
	}
	return -1
}

func hasNonInjectedFields(cl *ast.Class) bool {
	for _, f := range cl.Fields {
		if !f.IsInjected {
			return true
		}
	}
	return false
}

func topoSortScoped(classes map[string]bool, wiring map[string][]DepSource) ([]string, error) {
	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var order []string
	var path []string

	var dfs func(name string) error
	dfs = func(name string) error {
		if visited[name] {
			return nil
		}
		if inPath[name] {
			return fmt.Errorf("%s: scope-cycle: %v", errors.DI005, append(append([]string{}, path...), name))
		}
		inPath[name] = true
		path = append(path, name)
		for _, dep := range wiring[name] {
			if dep.Kind == DepScopedInstance {
				if err := dfs(dep.ClassName); err != nil {
					return err
				}
			}
		}
		visited[name] = true
		inPath[name] = false
		path = path[:len(path)-1]
		order = append(order, name)
		return nil
	}

	for name := range classes {
		if err := dfs(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
