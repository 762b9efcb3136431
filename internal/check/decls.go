package check

import (
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/rtypes"
)

func (c *Checker) resolveFields(fields []*ast.Field) []FieldInfo {
	out := make([]FieldInfo, len(fields))
	for i, f := range fields {
		out[i] = FieldInfo{
			Name:       f.Name,
			Type:       c.resolveTypeExpr(f.Type),
			IsInjected: f.IsInjected,
		}
	}
	return out
}

func (c *Checker) resolveParamTypes(params []*ast.Param) []rtypes.Type {
	out := make([]rtypes.Type, len(params))
	for i, p := range params {
		out[i] = c.resolveTypeExpr(p.Type)
	}
	return out
}

func (c *Checker) resolveFuncs(prog *ast.Program) {
	for _, fn := range prog.Funcs {
		sig := &FuncSig{
			Params: c.resolveParamTypes(fn.Params),
			Return: c.resolveTypeExpr(fn.ReturnType),
		}
		c.prog.Funcs[fn.Name] = sig
		c.sigsByKey[fn.Name] = sig
	}
}

func (c *Checker) resolveClasses(prog *ast.Program) {
	for _, cl := range prog.Classes {
		methods := make(map[string]*FuncSig, len(cl.Methods))
		for _, m := range cl.Methods {
			sig := &FuncSig{
				Params: c.resolveParamTypes(m.Params),
				Return: c.resolveTypeExpr(m.ReturnType),
			}
			methods[m.Name] = sig
			c.sigsByKey[MangleMethod(cl.Name, m.Name)] = sig
		}
		c.prog.Classes[cl.Name] = &ClassInfo{
			Fields:     c.resolveFields(cl.Fields),
			Methods:    methods,
			ImplTraits: append([]string{}, cl.ImplTraits...),
			Lifecycle:  cl.Lifecycle.String(),
		}
	}
}

func (c *Checker) resolveTraits(prog *ast.Program) {
	implementors := make(map[string][]string)
	for _, cl := range prog.Classes {
		for _, tr := range cl.ImplTraits {
			implementors[tr] = append(implementors[tr], cl.Name)
		}
	}
	for _, t := range prog.Traits {
		names := make([]string, len(t.Methods))
		defaults := make(map[string]bool, len(t.Methods))
		for i, m := range t.Methods {
			names[i] = m.Name
			defaults[m.Name] = m.Default != nil
		}
		c.prog.Traits[t.Name] = &TraitInfo{
			Methods:        names,
			DefaultMethods: defaults,
			Implementors:   implementors[t.Name],
		}
	}
}

func (c *Checker) resolveEnums(prog *ast.Program) {
	for _, e := range prog.Enums {
		variants := make([]VariantInfo, len(e.Variants))
		for i, v := range e.Variants {
			variants[i] = VariantInfo{Name: v.Name, Fields: c.resolveFields(v.Fields)}
		}
		c.prog.Enums[e.Name] = &EnumInfo{Variants: variants}
	}
}

func (c *Checker) resolveErrors(prog *ast.Program) {
	for _, e := range prog.Errors {
		c.prog.Errors[e.Name] = &ErrorTypeInfo{Fields: c.resolveFields(e.Fields)}
	}
}

func (c *Checker) resolveMethodSigs(name string, methods []*ast.FuncDecl) map[string]*FuncSig {
	out := make(map[string]*FuncSig, len(methods))
	for _, m := range methods {
		sig := &FuncSig{
			Params: c.resolveParamTypes(m.Params),
			Return: c.resolveTypeExpr(m.ReturnType),
		}
		out[m.Name] = sig
		c.sigsByKey[MangleMethod(name, m.Name)] = sig
	}
	return out
}

func (c *Checker) resolveAppAndStages(prog *ast.Program) {
	if prog.App != nil {
		c.prog.App = &AppInfo{
			Name:    prog.App.Name,
			Fields:  c.resolveFields(prog.App.Fields),
			Methods: c.resolveMethodSigs(prog.App.Name, prog.App.Methods),
		}
	}
	for _, st := range prog.Stages {
		c.prog.Stages[st.Name] = &StageInfo{
			Name:    st.Name,
			Fields:  c.resolveFields(st.Fields),
			Methods: c.resolveMethodSigs(st.Name, st.Methods),
		}
	}
}
