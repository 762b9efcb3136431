package modres

import (
	"fmt"
	"strings"
)

// CycleError reports a circular module dependency, rejected before
// flattening completes (spec.md 4.3, error LDR002). The DFS-with-
// visited/in-path sets below is ported from the teacher's
// internal/link/topo.go TopoSortFromRoot.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("LDR002: circular module dependency: %s", strings.Join(e.Cycle, " -> "))
}

// loadAll walks the import graph transitively from entry, returning the
// set of loaded units keyed by module path in dependency order
// (dependencies first) and detecting cycles via DFS visited/in-path
// tracking.
func loadAll(entryPath string, entry *Unit, loader Loader) ([]string, map[string]*Unit, error) {
	units := map[string]*Unit{entryPath: entry}
	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var order []string
	var path []string

	var dfs func(modPath string) error
	dfs = func(modPath string) error {
		if visited[modPath] {
			return nil
		}
		if inPath[modPath] {
			cyclePath := append([]string{}, path...)
			start := 0
			for i, m := range cyclePath {
				if m == modPath {
					start = i
					break
				}
			}
			cyclePath = append(cyclePath[start:], modPath)
			return &CycleError{Cycle: cyclePath}
		}

		inPath[modPath] = true
		path = append(path, modPath)

		unit, ok := units[modPath]
		if !ok {
			loaded, err := loader.Load(modPath)
			if err != nil {
				return err
			}
			unit = loaded
			units[modPath] = unit
		}

		for _, imp := range unit.Program.Imports {
			if err := dfs(imp.Path); err != nil {
				return err
			}
		}

		visited[modPath] = true
		inPath[modPath] = false
		path = path[:len(path)-1]
		order = append(order, modPath)
		return nil
	}

	if err := dfs(entryPath); err != nil {
		return nil, nil, err
	}
	return order, units, nil
}
