package concur

import "github.com/sablelang/sablec/internal/ast"

// walkStoppingAtSpawn is check.Walk with one exception: it visits a
// Spawn node itself but does not descend into its Closure. A spawned
// closure's body is analyzed separately, as its own root (spec.md 4.8:
// "the spawner does not inherit the callee's accesses"). Nested
// closures that are not directly spawned still merge normally.
func walkStoppingAtSpawn(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch v := e.(type) {
	case *ast.BinaryOp:
		walkStoppingAtSpawn(v.Left, visit)
		walkStoppingAtSpawn(v.Right, visit)
	case *ast.UnaryOp:
		walkStoppingAtSpawn(v.Expr, visit)
	case *ast.ClosureCreate:
		walkStoppingAtSpawn(v.Body, visit)
	case *ast.FuncCall:
		walkStoppingAtSpawn(v.Func, visit)
		for _, a := range v.Args {
			walkStoppingAtSpawn(a, visit)
		}
	case *ast.MethodCall:
		walkStoppingAtSpawn(v.Receiver, visit)
		for _, a := range v.Args {
			walkStoppingAtSpawn(a, visit)
		}
	case *ast.Construct:
		for _, a := range v.Args {
			walkStoppingAtSpawn(a, visit)
		}
	case *ast.EnumConstruct:
		for _, a := range v.Args {
			walkStoppingAtSpawn(a, visit)
		}
	case *ast.Let:
		walkStoppingAtSpawn(v.Value, visit)
		walkStoppingAtSpawn(v.Body, visit)
	case *ast.Block:
		for _, s := range v.Exprs {
			walkStoppingAtSpawn(s, visit)
		}
	case *ast.If:
		walkStoppingAtSpawn(v.Cond, visit)
		walkStoppingAtSpawn(v.Then, visit)
		walkStoppingAtSpawn(v.Else, visit)
	case *ast.While:
		walkStoppingAtSpawn(v.Cond, visit)
		walkStoppingAtSpawn(v.Body, visit)
	case *ast.For:
		walkStoppingAtSpawn(v.Iterable, visit)
		walkStoppingAtSpawn(v.Body, visit)
	case *ast.Match:
		walkStoppingAtSpawn(v.Scrutinee, visit)
		for _, cs := range v.Cases {
			walkStoppingAtSpawn(cs.Guard, visit)
			walkStoppingAtSpawn(cs.Body, visit)
		}
	case *ast.List:
		for _, el := range v.Elements {
			walkStoppingAtSpawn(el, visit)
		}
	case *ast.Record:
		for _, f := range v.Fields {
			walkStoppingAtSpawn(f.Value, visit)
		}
	case *ast.RecordAccess:
		walkStoppingAtSpawn(v.Receiver, visit)
	case *ast.Assign:
		walkStoppingAtSpawn(v.Value, visit)
	case *ast.FieldAssign:
		walkStoppingAtSpawn(v.Receiver, visit)
		walkStoppingAtSpawn(v.Value, visit)
	case *ast.IndexAssign:
		walkStoppingAtSpawn(v.Receiver, visit)
		walkStoppingAtSpawn(v.Index, visit)
		walkStoppingAtSpawn(v.Value, visit)
	case *ast.Raise:
		for _, a := range v.Args {
			walkStoppingAtSpawn(a, visit)
		}
	case *ast.Propagate:
		walkStoppingAtSpawn(v.Call, visit)
	case *ast.Catch:
		walkStoppingAtSpawn(v.Call, visit)
		walkStoppingAtSpawn(v.Handler, visit)
	case *ast.NullPropagate:
		walkStoppingAtSpawn(v.Inner, visit)
	case *ast.Old:
		walkStoppingAtSpawn(v.Inner, visit)
	case *ast.Send:
		walkStoppingAtSpawn(v.Channel, visit)
		walkStoppingAtSpawn(v.Value, visit)
	case *ast.Recv:
		walkStoppingAtSpawn(v.Channel, visit)
	case *ast.ChanDecl:
		walkStoppingAtSpawn(v.Cap, visit)
		walkStoppingAtSpawn(v.Body, visit)
	case *ast.Select:
		for _, arm := range v.Arms {
			walkStoppingAtSpawn(arm.Channel, visit)
			walkStoppingAtSpawn(arm.Value, visit)
			walkStoppingAtSpawn(arm.Body, visit)
		}
		walkStoppingAtSpawn(v.Default, visit)
	case *ast.Spawn:
		// boundary: do not descend into v.Closure.
	case *ast.Yield:
		walkStoppingAtSpawn(v.Value, visit)
	case *ast.ScopeBlock:
		for _, s := range v.Seeds {
			walkStoppingAtSpawn(s.Expr, visit)
		}
		walkStoppingAtSpawn(v.Body, visit)
	case *ast.Expect:
		walkStoppingAtSpawn(v.Subject, visit)
		walkStoppingAtSpawn(v.Arg, visit)
	case *ast.Intrinsic:
		for _, a := range v.Args {
			walkStoppingAtSpawn(a, visit)
		}
	case *ast.Return:
		walkStoppingAtSpawn(v.Value, visit)
	}
}
