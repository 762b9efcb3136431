package check

import "github.com/sablelang/sablec/internal/ast"

// Walk visits e and every expression nested inside it, pre-order. It is
// shared by the can-raise fixed point, method-resolution pass, and the
// nullable/bare-channel checks below, and exported so other phases
// (internal/di's escape analysis) don't need their own traversal.
func Walk(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch v := e.(type) {
	case *ast.BinaryOp:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
	case *ast.UnaryOp:
		Walk(v.Expr, visit)
	case *ast.ClosureCreate:
		Walk(v.Body, visit)
	case *ast.FuncCall:
		Walk(v.Func, visit)
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *ast.MethodCall:
		Walk(v.Receiver, visit)
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *ast.Construct:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *ast.EnumConstruct:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *ast.Let:
		Walk(v.Value, visit)
		Walk(v.Body, visit)
	case *ast.Block:
		for _, s := range v.Exprs {
			Walk(s, visit)
		}
	case *ast.If:
		Walk(v.Cond, visit)
		Walk(v.Then, visit)
		Walk(v.Else, visit)
	case *ast.While:
		Walk(v.Cond, visit)
		Walk(v.Body, visit)
	case *ast.For:
		Walk(v.Iterable, visit)
		Walk(v.Body, visit)
	case *ast.Match:
		Walk(v.Scrutinee, visit)
		for _, cs := range v.Cases {
			Walk(cs.Guard, visit)
			Walk(cs.Body, visit)
		}
	case *ast.List:
		for _, el := range v.Elements {
			Walk(el, visit)
		}
	case *ast.Record:
		for _, f := range v.Fields {
			Walk(f.Value, visit)
		}
	case *ast.RecordAccess:
		Walk(v.Receiver, visit)
	case *ast.Assign:
		Walk(v.Value, visit)
	case *ast.FieldAssign:
		Walk(v.Receiver, visit)
		Walk(v.Value, visit)
	case *ast.IndexAssign:
		Walk(v.Receiver, visit)
		Walk(v.Index, visit)
		Walk(v.Value, visit)
	case *ast.Raise:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *ast.Propagate:
		Walk(v.Call, visit)
	case *ast.Catch:
		Walk(v.Call, visit)
		Walk(v.Handler, visit)
	case *ast.NullPropagate:
		Walk(v.Inner, visit)
	case *ast.Old:
		Walk(v.Inner, visit)
	case *ast.Send:
		Walk(v.Channel, visit)
		Walk(v.Value, visit)
	case *ast.Recv:
		Walk(v.Channel, visit)
	case *ast.ChanDecl:
		Walk(v.Cap, visit)
		Walk(v.Body, visit)
	case *ast.Select:
		for _, arm := range v.Arms {
			Walk(arm.Channel, visit)
			Walk(arm.Value, visit)
			Walk(arm.Body, visit)
		}
		Walk(v.Default, visit)
	case *ast.Spawn:
		Walk(v.Closure, visit)
	case *ast.Yield:
		Walk(v.Value, visit)
	case *ast.ScopeBlock:
		for _, s := range v.Seeds {
			Walk(s.Expr, visit)
		}
		Walk(v.Body, visit)
	case *ast.Expect:
		Walk(v.Subject, visit)
		Walk(v.Arg, visit)
	case *ast.Intrinsic:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *ast.Return:
		Walk(v.Value, visit)
	}
}
