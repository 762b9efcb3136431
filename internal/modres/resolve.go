package modres

import "github.com/sablelang/sablec/internal/ast"

// resolveProgram rewrites every QualifiedAccess expression and Qualified
// type expression in prog into its flattened, prefixed plain form. known
// is the set of qualified names produced during flattening.
func resolveProgram(prog *ast.Program, known map[string]bool) {
	for _, fn := range prog.Funcs {
		resolveParams(fn.Params, known)
		fn.ReturnType = resolveType(fn.ReturnType, known)
		fn.Body = resolveExpr(fn.Body, known)
		for i := range fn.Contracts {
			fn.Contracts[i].Expr = resolveExpr(fn.Contracts[i].Expr, known)
		}
	}
	for _, c := range prog.Classes {
		for _, f := range c.Fields {
			f.Type = resolveType(f.Type, known)
		}
		for _, m := range c.Methods {
			resolveParams(m.Params, known)
			m.ReturnType = resolveType(m.ReturnType, known)
			m.Body = resolveExpr(m.Body, known)
		}
		for i := range c.Invariants {
			c.Invariants[i] = resolveExpr(c.Invariants[i], known)
		}
	}
	for _, t := range prog.Traits {
		for _, m := range t.Methods {
			resolveParams(m.Params, known)
			m.Return = resolveType(m.Return, known)
			if m.Default != nil {
				m.Default = resolveExpr(m.Default, known)
			}
		}
	}
	for _, e := range prog.Enums {
		for _, v := range e.Variants {
			for _, f := range v.Fields {
				f.Type = resolveType(f.Type, known)
			}
		}
	}
	for _, e := range prog.Errors {
		for _, f := range e.Fields {
			f.Type = resolveType(f.Type, known)
		}
	}
	if prog.App != nil {
		for _, f := range prog.App.Fields {
			f.Type = resolveType(f.Type, known)
		}
		for _, m := range prog.App.Methods {
			resolveParams(m.Params, known)
			m.ReturnType = resolveType(m.ReturnType, known)
			m.Body = resolveExpr(m.Body, known)
		}
	}
	for _, s := range prog.Stages {
		for _, f := range s.Fields {
			f.Type = resolveType(f.Type, known)
		}
		for _, m := range s.Methods {
			resolveParams(m.Params, known)
			m.ReturnType = resolveType(m.ReturnType, known)
			m.Body = resolveExpr(m.Body, known)
		}
	}
}

func resolveParams(params []*ast.Param, known map[string]bool) {
	for _, p := range params {
		p.Type = resolveType(p.Type, known)
	}
}

func resolveType(t ast.TypeExpr, known map[string]bool) ast.TypeExpr {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *ast.Qualified:
		return &ast.Named{Name: v.Module + "." + v.Name, Pos: v.Pos}
	case *ast.Array:
		v.Elem = resolveType(v.Elem, known)
		return v
	case *ast.Fn:
		for i := range v.Params {
			v.Params[i] = resolveType(v.Params[i], known)
		}
		v.Return = resolveType(v.Return, known)
		return v
	case *ast.Generic:
		for i := range v.Args {
			v.Args[i] = resolveType(v.Args[i], known)
		}
		return v
	case *ast.Nullable:
		v.Inner = resolveType(v.Inner, known)
		return v
	case *ast.Stream:
		v.Elem = resolveType(v.Elem, known)
		return v
	default:
		return t
	}
}

// resolveExpr recursively rewrites QualifiedAccess nodes and descends
// into every compound expression shape the surface language defines.
func resolveExpr(e ast.Expr, known map[string]bool) ast.Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.QualifiedAccess:
		return &ast.Identifier{Name: v.Module + "." + v.Name, Pos: v.Pos}
	case *ast.BinaryOp:
		v.Left = resolveExpr(v.Left, known)
		v.Right = resolveExpr(v.Right, known)
		return v
	case *ast.UnaryOp:
		v.Expr = resolveExpr(v.Expr, known)
		return v
	case *ast.ClosureCreate:
		resolveParams(v.Params, known)
		v.Body = resolveExpr(v.Body, known)
		return v
	case *ast.FuncCall:
		v.Func = resolveExpr(v.Func, known)
		for i := range v.Args {
			v.Args[i] = resolveExpr(v.Args[i], known)
		}
		return v
	case *ast.MethodCall:
		v.Receiver = resolveExpr(v.Receiver, known)
		for i := range v.Args {
			v.Args[i] = resolveExpr(v.Args[i], known)
		}
		return v
	case *ast.Construct:
		for i := range v.Args {
			v.Args[i] = resolveExpr(v.Args[i], known)
		}
		return v
	case *ast.EnumConstruct:
		for i := range v.Args {
			v.Args[i] = resolveExpr(v.Args[i], known)
		}
		return v
	case *ast.Let:
		v.Type = resolveType(v.Type, known)
		v.Value = resolveExpr(v.Value, known)
		v.Body = resolveExpr(v.Body, known)
		return v
	case *ast.Block:
		for i := range v.Exprs {
			v.Exprs[i] = resolveExpr(v.Exprs[i], known)
		}
		return v
	case *ast.If:
		v.Cond = resolveExpr(v.Cond, known)
		v.Then = resolveExpr(v.Then, known)
		v.Else = resolveExpr(v.Else, known)
		return v
	case *ast.While:
		v.Cond = resolveExpr(v.Cond, known)
		v.Body = resolveExpr(v.Body, known)
		return v
	case *ast.For:
		v.Iterable = resolveExpr(v.Iterable, known)
		v.Body = resolveExpr(v.Body, known)
		return v
	case *ast.Match:
		v.Scrutinee = resolveExpr(v.Scrutinee, known)
		for _, c := range v.Cases {
			if c.Guard != nil {
				c.Guard = resolveExpr(c.Guard, known)
			}
			c.Body = resolveExpr(c.Body, known)
		}
		return v
	case *ast.List:
		for i := range v.Elements {
			v.Elements[i] = resolveExpr(v.Elements[i], known)
		}
		return v
	case *ast.Record:
		for _, f := range v.Fields {
			f.Value = resolveExpr(f.Value, known)
		}
		return v
	case *ast.RecordAccess:
		v.Receiver = resolveExpr(v.Receiver, known)
		return v
	case *ast.Assign:
		v.Value = resolveExpr(v.Value, known)
		return v
	case *ast.FieldAssign:
		v.Receiver = resolveExpr(v.Receiver, known)
		v.Value = resolveExpr(v.Value, known)
		return v
	case *ast.IndexAssign:
		v.Receiver = resolveExpr(v.Receiver, known)
		v.Index = resolveExpr(v.Index, known)
		v.Value = resolveExpr(v.Value, known)
		return v
	case *ast.Raise:
		for i := range v.Args {
			v.Args[i] = resolveExpr(v.Args[i], known)
		}
		return v
	case *ast.Propagate:
		v.Call = resolveExpr(v.Call, known)
		return v
	case *ast.Catch:
		v.Call = resolveExpr(v.Call, known)
		v.Handler = resolveExpr(v.Handler, known)
		return v
	case *ast.NullPropagate:
		v.Inner = resolveExpr(v.Inner, known)
		return v
	case *ast.Old:
		v.Inner = resolveExpr(v.Inner, known)
		return v
	case *ast.Send:
		v.Channel = resolveExpr(v.Channel, known)
		if v.Value != nil {
			v.Value = resolveExpr(v.Value, known)
		}
		return v
	case *ast.Recv:
		v.Channel = resolveExpr(v.Channel, known)
		return v
	case *ast.ChanDecl:
		v.Elem = resolveType(v.Elem, known)
		if v.Cap != nil {
			v.Cap = resolveExpr(v.Cap, known)
		}
		v.Body = resolveExpr(v.Body, known)
		return v
	case *ast.Select:
		for _, arm := range v.Arms {
			arm.Channel = resolveExpr(arm.Channel, known)
			if arm.Value != nil {
				arm.Value = resolveExpr(arm.Value, known)
			}
			arm.Body = resolveExpr(arm.Body, known)
		}
		if v.Default != nil {
			v.Default = resolveExpr(v.Default, known)
		}
		return v
	case *ast.Spawn:
		v.Closure = resolveExpr(v.Closure, known)
		return v
	case *ast.Yield:
		v.Value = resolveExpr(v.Value, known)
		return v
	case *ast.ScopeBlock:
		for i := range v.Seeds {
			v.Seeds[i].Expr = resolveExpr(v.Seeds[i].Expr, known)
		}
		for i := range v.Bindings {
			v.Bindings[i].Type = resolveType(v.Bindings[i].Type, known)
		}
		v.Body = resolveExpr(v.Body, known)
		return v
	case *ast.Expect:
		v.Subject = resolveExpr(v.Subject, known)
		if v.Arg != nil {
			v.Arg = resolveExpr(v.Arg, known)
		}
		return v
	case *ast.Intrinsic:
		for i := range v.Args {
			v.Args[i] = resolveExpr(v.Args[i], known)
		}
		return v
	case *ast.Return:
		if v.Value != nil {
			v.Value = resolveExpr(v.Value, known)
		}
		return v
	default:
		return e
	}
}
