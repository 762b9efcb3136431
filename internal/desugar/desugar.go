// Package desugar rewrites `class C uses L` ambient declarations into an
// injected field plus self-field references inside method bodies
// (spec.md 4.6), before internal/check and internal/di see the program.
package desugar

import (
	"fmt"
	"strings"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/errors"
)

// Desugar rewrites every class/app/stage's `uses` list in place and
// returns prog unchanged in identity (mutation happens on the shared
// node pointers, matching the rest of the pipeline's style).
func Desugar(prog *ast.Program) (*ast.Program, error) {
	for _, cl := range prog.Classes {
		if err := desugarClass(cl); err != nil {
			return nil, err
		}
	}
	if prog.App != nil {
		if err := desugarUsesOwner(prog.App.Uses, &prog.App.Fields, prog.App.Methods, false); err != nil {
			return nil, err
		}
	}
	for _, st := range prog.Stages {
		if err := desugarUsesOwner(st.Uses, &st.Fields, st.Methods, false); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

func desugarClass(cl *ast.Class) error {
	return desugarUsesOwner(cl.Uses, &cl.Fields, cl.Methods, cl.IsGeneric())
}

// ambientVarName derives a field name from a used type name: lowercase
// the first character (Logger -> logger, UserDB -> userDB).
func ambientVarName(typeName string) string {
	if typeName == "" {
		return typeName
	}
	return strings.ToLower(typeName[:1]) + typeName[1:]
}

func desugarUsesOwner(uses []string, fields *[]*ast.Field, methods []*ast.FuncDecl, isGeneric bool) error {
	if len(uses) == 0 {
		return nil
	}
	if isGeneric {
		return fmt.Errorf("%s: ambients are not allowed on a generic class", errors.DSG003)
	}

	existingFieldNames := make(map[string]bool, len(*fields))
	for _, f := range *fields {
		existingFieldNames[f.Name] = true
	}

	seenType := make(map[string]bool, len(uses))
	var injected []*ast.Field
	ambientVars := make(map[string]bool, len(uses))

	for _, typeName := range uses {
		if seenType[typeName] {
			return fmt.Errorf("%s: duplicate ambient type %s", errors.DSG001, typeName)
		}
		seenType[typeName] = true

		varName := ambientVarName(typeName)
		if existingFieldNames[varName] {
			return fmt.Errorf("%s: ambient variable %s conflicts with an existing field", errors.DSG002, varName)
		}
		ambientVars[varName] = true
		injected = append(injected, &ast.Field{
			Name:       varName,
			Type:       &ast.Named{Name: typeName},
			IsInjected: true,
			IsAmbient:  true,
		})
	}

	*fields = append(injected, *fields...)

	for _, m := range methods {
		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			params[i] = p.Name
		}
		m.Body = rewriteAmbients(m.Body, ambientVars, newScope().with(params...))
	}
	return nil
}
