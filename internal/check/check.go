// Package check type-checks a flattened program (spec.md 4.5): it
// resolves every surface TypeExpr to a rtypes.Type, builds per-function
// and per-class resolved signatures, propagates fallibility, and
// populates each MethodCall's dispatch Resolution in place.
package check

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/errors"
)

// Checker accumulates diagnostics while walking a Program, mirroring the
// teacher's error-accumulating TypeChecker (internal/types/typechecker.go).
type Checker struct {
	prog *Program
	errs []error

	classNames map[string]*ast.Class
	traitNames map[string]*ast.Trait
	enumNames  map[string]*ast.Enum
	errorNames map[string]*ast.ErrorDecl

	// sigsByKey indexes every resolved FuncSig by its can-raise key
	// (function name, or Class$method) so computeCanRaise can flip
	// IsFallible without re-deriving the key from a map lookup.
	sigsByKey map[string]*FuncSig
}

// NewChecker creates an empty Checker.
func NewChecker() *Checker {
	return &Checker{
		prog: &Program{
			Funcs:   make(map[string]*FuncSig),
			Classes: make(map[string]*ClassInfo),
			Traits:  make(map[string]*TraitInfo),
			Enums:   make(map[string]*EnumInfo),
			Errors:  make(map[string]*ErrorTypeInfo),
			Stages:  make(map[string]*StageInfo),
		},
		classNames: make(map[string]*ast.Class),
		traitNames: make(map[string]*ast.Trait),
		enumNames:  make(map[string]*ast.Enum),
		errorNames: make(map[string]*ast.ErrorDecl),
		sigsByKey:  make(map[string]*FuncSig),
	}
}

// Check type-checks a flattened program and returns the resolved Program,
// or the accumulated errors if any declaration failed to resolve.
func Check(prog *ast.Program) (*Program, error) {
	c := NewChecker()
	c.registerNames(prog)
	c.resolveClasses(prog)
	c.resolveTraits(prog)
	c.resolveEnums(prog)
	c.resolveErrors(prog)
	c.resolveFuncs(prog)
	c.resolveAppAndStages(prog)
	c.computeCanRaise(prog)
	c.checkBodies(prog)

	if len(c.errs) > 0 {
		return nil, errList(c.errs)
	}
	return c.prog, nil
}

func (c *Checker) registerNames(prog *ast.Program) {
	for _, cl := range prog.Classes {
		c.classNames[cl.Name] = cl
	}
	for _, t := range prog.Traits {
		c.traitNames[t.Name] = t
	}
	for _, e := range prog.Enums {
		c.enumNames[e.Name] = e
	}
	for _, e := range prog.Errors {
		c.errorNames[e.Name] = e
	}
}

func (c *Checker) fail(code string, pos ast.Pos, format string, args ...interface{}) {
	span := &ast.Span{Start: pos, End: pos}
	msg := fmt.Sprintf(format, args...)
	c.errs = append(c.errs, errors.New(code, msg, span, nil))
}

// errList concatenates multiple errors into a single error value, in the
// spirit of the teacher's ErrorList (internal/types/errors.go).
type errList []error

func (e errList) Error() string {
	s := ""
	for i, err := range e {
		if i > 0 {
			s += "; "
		}
		s += err.Error()
	}
	return s
}
