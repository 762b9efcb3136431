package desugar

import "github.com/sablelang/sablec/internal/ast"

// scope is the set of names currently shadowing an ambient at a given
// point in a method body: parameters, let bindings, for/match/scope/catch
// bindings, and closure parameters (spec.md 4.6).
type scope map[string]bool

func newScope() scope { return scope{} }

func (s scope) with(names ...string) scope {
	child := make(scope, len(s)+len(names))
	for k := range s {
		child[k] = true
	}
	for _, n := range names {
		if n != "" {
			child[n] = true
		}
	}
	return child
}

// rewriteAmbients rewrites every bare identifier naming an ambient
// variable, not currently shadowed, to self.<var>.
func rewriteAmbients(e ast.Expr, ambients map[string]bool, sc scope) ast.Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.Identifier:
		if ambients[v.Name] && !sc[v.Name] {
			return &ast.RecordAccess{Receiver: &ast.Identifier{Name: "self", Pos: v.Pos}, Field: v.Name, Pos: v.Pos}
		}
		return v
	case *ast.BinaryOp:
		v.Left = rewriteAmbients(v.Left, ambients, sc)
		v.Right = rewriteAmbients(v.Right, ambients, sc)
		return v
	case *ast.UnaryOp:
		v.Expr = rewriteAmbients(v.Expr, ambients, sc)
		return v
	case *ast.ClosureCreate:
		names := make([]string, len(v.Params))
		for i, p := range v.Params {
			names[i] = p.Name
		}
		v.Body = rewriteAmbients(v.Body, ambients, sc.with(names...))
		return v
	case *ast.FuncCall:
		v.Func = rewriteAmbients(v.Func, ambients, sc)
		for i := range v.Args {
			v.Args[i] = rewriteAmbients(v.Args[i], ambients, sc)
		}
		return v
	case *ast.MethodCall:
		v.Receiver = rewriteAmbients(v.Receiver, ambients, sc)
		for i := range v.Args {
			v.Args[i] = rewriteAmbients(v.Args[i], ambients, sc)
		}
		return v
	case *ast.Construct:
		for i := range v.Args {
			v.Args[i] = rewriteAmbients(v.Args[i], ambients, sc)
		}
		return v
	case *ast.EnumConstruct:
		for i := range v.Args {
			v.Args[i] = rewriteAmbients(v.Args[i], ambients, sc)
		}
		return v
	case *ast.Let:
		v.Value = rewriteAmbients(v.Value, ambients, sc)
		v.Body = rewriteAmbients(v.Body, ambients, sc.with(v.Name))
		return v
	case *ast.Block:
		for i := range v.Exprs {
			v.Exprs[i] = rewriteAmbients(v.Exprs[i], ambients, sc)
		}
		return v
	case *ast.If:
		v.Cond = rewriteAmbients(v.Cond, ambients, sc)
		v.Then = rewriteAmbients(v.Then, ambients, sc)
		v.Else = rewriteAmbients(v.Else, ambients, sc)
		return v
	case *ast.While:
		v.Cond = rewriteAmbients(v.Cond, ambients, sc)
		v.Body = rewriteAmbients(v.Body, ambients, sc)
		return v
	case *ast.For:
		v.Iterable = rewriteAmbients(v.Iterable, ambients, sc)
		v.Body = rewriteAmbients(v.Body, ambients, sc.with(v.VarName))
		return v
	case *ast.Match:
		v.Scrutinee = rewriteAmbients(v.Scrutinee, ambients, sc)
		for _, cs := range v.Cases {
			caseScope := sc.with(patternNames(cs.Pattern)...)
			cs.Guard = rewriteAmbients(cs.Guard, ambients, caseScope)
			cs.Body = rewriteAmbients(cs.Body, ambients, caseScope)
		}
		return v
	case *ast.List:
		for i := range v.Elements {
			v.Elements[i] = rewriteAmbients(v.Elements[i], ambients, sc)
		}
		return v
	case *ast.Record:
		for _, f := range v.Fields {
			f.Value = rewriteAmbients(f.Value, ambients, sc)
		}
		return v
	case *ast.RecordAccess:
		v.Receiver = rewriteAmbients(v.Receiver, ambients, sc)
		return v
	case *ast.Assign:
		v.Value = rewriteAmbients(v.Value, ambients, sc)
		return v
	case *ast.FieldAssign:
		v.Receiver = rewriteAmbients(v.Receiver, ambients, sc)
		v.Value = rewriteAmbients(v.Value, ambients, sc)
		return v
	case *ast.IndexAssign:
		v.Receiver = rewriteAmbients(v.Receiver, ambients, sc)
		v.Index = rewriteAmbients(v.Index, ambients, sc)
		v.Value = rewriteAmbients(v.Value, ambients, sc)
		return v
	case *ast.Raise:
		for i := range v.Args {
			v.Args[i] = rewriteAmbients(v.Args[i], ambients, sc)
		}
		return v
	case *ast.Propagate:
		v.Call = rewriteAmbients(v.Call, ambients, sc)
		return v
	case *ast.Catch:
		v.Call = rewriteAmbients(v.Call, ambients, sc)
		handlerScope := sc
		if v.Kind == ast.CatchWildcard {
			handlerScope = sc.with(v.ErrName)
		}
		v.Handler = rewriteAmbients(v.Handler, ambients, handlerScope)
		return v
	case *ast.NullPropagate:
		v.Inner = rewriteAmbients(v.Inner, ambients, sc)
		return v
	case *ast.Old:
		v.Inner = rewriteAmbients(v.Inner, ambients, sc)
		return v
	case *ast.Send:
		v.Channel = rewriteAmbients(v.Channel, ambients, sc)
		v.Value = rewriteAmbients(v.Value, ambients, sc)
		return v
	case *ast.Recv:
		v.Channel = rewriteAmbients(v.Channel, ambients, sc)
		return v
	case *ast.ChanDecl:
		v.Cap = rewriteAmbients(v.Cap, ambients, sc)
		v.Body = rewriteAmbients(v.Body, ambients, sc.with(v.TxName, v.RxName))
		return v
	case *ast.Select:
		for _, arm := range v.Arms {
			arm.Channel = rewriteAmbients(arm.Channel, ambients, sc)
			armScope := sc
			if arm.Kind == ast.SelectRecv {
				armScope = sc.with(arm.VarName)
			} else {
				arm.Value = rewriteAmbients(arm.Value, ambients, sc)
			}
			arm.Body = rewriteAmbients(arm.Body, ambients, armScope)
		}
		v.Default = rewriteAmbients(v.Default, ambients, sc)
		return v
	case *ast.Spawn:
		v.Closure = rewriteAmbients(v.Closure, ambients, sc)
		return v
	case *ast.Yield:
		v.Value = rewriteAmbients(v.Value, ambients, sc)
		return v
	case *ast.ScopeBlock:
		for i := range v.Seeds {
			v.Seeds[i].Expr = rewriteAmbients(v.Seeds[i].Expr, ambients, sc)
		}
		names := make([]string, len(v.Bindings))
		for i, b := range v.Bindings {
			names[i] = b.Name
		}
		v.Body = rewriteAmbients(v.Body, ambients, sc.with(names...))
		return v
	case *ast.Expect:
		v.Subject = rewriteAmbients(v.Subject, ambients, sc)
		v.Arg = rewriteAmbients(v.Arg, ambients, sc)
		return v
	case *ast.Intrinsic:
		for i := range v.Args {
			v.Args[i] = rewriteAmbients(v.Args[i], ambients, sc)
		}
		return v
	case *ast.Return:
		v.Value = rewriteAmbients(v.Value, ambients, sc)
		return v
	default:
		return e
	}
}

// patternNames collects every name a match pattern binds, so a case arm
// can shadow ambients the same way a let or for binding does.
func patternNames(p ast.Pattern) []string {
	switch v := p.(type) {
	case *ast.VarPattern:
		return []string{v.Name}
	case *ast.ConstructorPattern:
		var names []string
		for _, f := range v.Fields {
			names = append(names, patternNames(f)...)
		}
		return names
	case *ast.ListPattern:
		var names []string
		for _, el := range v.Elements {
			names = append(names, patternNames(el)...)
		}
		if v.Rest != nil {
			names = append(names, v.Rest.Name)
		}
		return names
	case *ast.RecordPattern:
		var names []string
		for _, f := range v.Fields {
			names = append(names, patternNames(f.Pattern)...)
		}
		return names
	default:
		return nil
	}
}
