package modres

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ast"
)

// Flatten walks entry's transitive imports, loads each file, and folds
// every declaration into one aggregate program with names prefixed by
// module path (spec.md 4.3). Circular imports are rejected before
// flattening completes (LDR002). After Flatten returns, every
// QualifiedAccess expression and every Qualified type expression has been
// rewritten to the prefixed plain form; any that remain are a
// programming error the lowerer rejects at codegen entry (IR001).
func Flatten(entryPath string, entry *ast.Program, loader Loader) (*ast.Program, error) {
	order, units, err := loadAll(entryPath, &Unit{ModulePath: entryPath, Program: entry}, loader)
	if err != nil {
		return nil, err
	}

	out := &ast.Program{}
	qualifiedNames := make(map[string]bool)

	claim := func(qname string) error {
		if qualifiedNames[qname] {
			return fmt.Errorf("MOD002: qualified name collision: %s", qname)
		}
		qualifiedNames[qname] = true
		return nil
	}

	for _, modPath := range order {
		unit := units[modPath]
		prog := unit.Program
		prefix := modPath != entryPath

		for _, fn := range prog.Funcs {
			name := qualify(prefix, modPath, fn.Name)
			if err := claim(name); err != nil {
				return nil, err
			}
			fn.Name = name
			out.Funcs = append(out.Funcs, fn)
		}
		for _, c := range prog.Classes {
			name := qualify(prefix, modPath, c.Name)
			if err := claim(name); err != nil {
				return nil, err
			}
			c.Name = name
			out.Classes = append(out.Classes, c)
		}
		for _, t := range prog.Traits {
			name := qualify(prefix, modPath, t.Name)
			if err := claim(name); err != nil {
				return nil, err
			}
			t.Name = name
			out.Traits = append(out.Traits, t)
		}
		for _, e := range prog.Enums {
			name := qualify(prefix, modPath, e.Name)
			if err := claim(name); err != nil {
				return nil, err
			}
			e.Name = name
			out.Enums = append(out.Enums, e)
		}
		for _, e := range prog.Errors {
			name := qualify(prefix, modPath, e.Name)
			if err := claim(name); err != nil {
				return nil, err
			}
			e.Name = name
			out.Errors = append(out.Errors, e)
		}
		if prog.App != nil {
			if out.App != nil {
				return nil, fmt.Errorf("MOD001: more than one app declaration across modules")
			}
			out.App = prog.App
		}
		out.Stages = append(out.Stages, prog.Stages...)
		if prog.System != nil {
			if out.System != nil {
				return nil, fmt.Errorf("MOD001: more than one system declaration across modules")
			}
			out.System = prog.System
		}
		out.Tests = append(out.Tests, prog.Tests...)
	}

	resolveProgram(out, qualifiedNames)
	return out, nil
}

func qualify(prefix bool, modPath, name string) string {
	if !prefix {
		return name
	}
	return modPath + "." + name
}
