package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node,
// omitting UUIDs and byte offsets so it can be used for golden snapshot
// tests that must survive cosmetic position churn.
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact is Print without indentation, for one-line diffs.
func Compact(node Node) string {
	data, err := json.Marshal(simplify(node))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// PrintProgram prints every top-level declaration of a flattened program.
func PrintProgram(prog *Program) string {
	if prog == nil {
		return "null"
	}
	m := map[string]interface{}{"type": "Program"}
	if len(prog.Funcs) > 0 {
		m["funcs"] = simplifySlice(prog.Funcs)
	}
	if len(prog.Classes) > 0 {
		m["classes"] = simplifySlice(prog.Classes)
	}
	if len(prog.Traits) > 0 {
		m["traits"] = simplifySlice(prog.Traits)
	}
	if len(prog.Enums) > 0 {
		m["enums"] = simplifySlice(prog.Enums)
	}
	if len(prog.Errors) > 0 {
		m["errors"] = simplifySlice(prog.Errors)
	}
	if prog.App != nil {
		m["app"] = simplify(prog.App)
	}
	if len(prog.Stages) > 0 {
		m["stages"] = simplifySlice(prog.Stages)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(node interface{}) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *FuncDecl:
		m := map[string]interface{}{"type": "FuncDecl", "name": n.Name}
		if len(n.Params) > 0 {
			m["params"] = simplifySlice(n.Params)
		}
		if n.ReturnType != nil {
			m["returnType"] = simplify(n.ReturnType)
		}
		if n.Body != nil {
			m["body"] = simplify(n.Body)
		}
		return m

	case *Param:
		m := map[string]interface{}{"type": "Param", "name": n.Name}
		if n.Type != nil {
			m["paramType"] = simplify(n.Type)
		}
		return m

	case *Class:
		m := map[string]interface{}{"type": "Class", "name": n.Name, "lifecycle": int(n.Lifecycle)}
		if len(n.Fields) > 0 {
			m["fields"] = simplifySlice(n.Fields)
		}
		if len(n.Methods) > 0 {
			m["methods"] = simplifySlice(n.Methods)
		}
		if len(n.ImplTraits) > 0 {
			m["implTraits"] = n.ImplTraits
		}
		return m

	case *Field:
		m := map[string]interface{}{"type": "Field", "name": n.Name, "injected": n.IsInjected, "ambient": n.IsAmbient}
		if n.Type != nil {
			m["fieldType"] = simplify(n.Type)
		}
		return m

	case *Trait:
		m := map[string]interface{}{"type": "Trait", "name": n.Name}
		if len(n.Methods) > 0 {
			methods := make([]interface{}, len(n.Methods))
			for i, tm := range n.Methods {
				methods[i] = simplify(tm)
			}
			m["methods"] = methods
		}
		return m

	case *TraitMethod:
		m := map[string]interface{}{"type": "TraitMethod", "name": n.Name}
		if n.Return != nil {
			m["returnType"] = simplify(n.Return)
		}
		return m

	case *Enum:
		m := map[string]interface{}{"type": "Enum", "name": n.Name}
		if len(n.Variants) > 0 {
			m["variants"] = simplifySlice(n.Variants)
		}
		return m

	case *Variant:
		m := map[string]interface{}{"type": "Variant", "name": n.Name, "index": n.Index}
		if len(n.Fields) > 0 {
			m["fields"] = simplifySlice(n.Fields)
		}
		return m

	case *ErrorDecl:
		m := map[string]interface{}{"type": "ErrorDecl", "name": n.Name}
		if len(n.Fields) > 0 {
			m["fields"] = simplifySlice(n.Fields)
		}
		return m

	case *App:
		m := map[string]interface{}{"type": "App", "name": n.Name}
		if len(n.Fields) > 0 {
			m["fields"] = simplifySlice(n.Fields)
		}
		if len(n.Methods) > 0 {
			m["methods"] = simplifySlice(n.Methods)
		}
		return m

	case *Stage:
		m := map[string]interface{}{"type": "Stage", "name": n.Name}
		if len(n.Fields) > 0 {
			m["fields"] = simplifySlice(n.Fields)
		}
		if len(n.Methods) > 0 {
			m["methods"] = simplifySlice(n.Methods)
		}
		return m

	case *Identifier:
		return map[string]interface{}{"type": "Identifier", "name": n.Name}

	case *Literal:
		return map[string]interface{}{"type": "Literal", "kind": literalKindString(n.Kind), "value": n.Value}

	case *BinaryOp:
		return map[string]interface{}{"type": "BinaryOp", "op": n.Op, "left": simplify(n.Left), "right": simplify(n.Right)}

	case *UnaryOp:
		return map[string]interface{}{"type": "UnaryOp", "op": n.Op, "expr": simplify(n.Expr)}

	case *ClosureCreate:
		m := map[string]interface{}{"type": "ClosureCreate", "body": simplify(n.Body)}
		if len(n.Params) > 0 {
			m["params"] = simplifySlice(n.Params)
		}
		return m

	case *FuncCall:
		m := map[string]interface{}{"type": "FuncCall", "func": simplify(n.Func)}
		if len(n.Args) > 0 {
			m["args"] = simplifyExprSlice(n.Args)
		}
		return m

	case *MethodCall:
		return map[string]interface{}{
			"type":     "MethodCall",
			"receiver": simplify(n.Receiver),
			"method":   n.Method,
			"args":     simplifyExprSlice(n.Args),
		}

	case *Construct:
		m := map[string]interface{}{"type": "Construct", "class": n.ClassName}
		if len(n.Args) > 0 {
			m["args"] = simplifyExprSlice(n.Args)
		}
		return m

	case *Let:
		m := map[string]interface{}{"type": "Let", "name": n.Name, "value": simplify(n.Value), "body": simplify(n.Body)}
		if n.Type != nil {
			m["letType"] = simplify(n.Type)
		}
		return m

	case *Block:
		return map[string]interface{}{"type": "Block", "exprs": simplifyExprSlice(n.Exprs)}

	case *If:
		return map[string]interface{}{"type": "If", "cond": simplify(n.Cond), "then": simplify(n.Then), "else": simplify(n.Else)}

	case *While:
		return map[string]interface{}{"type": "While", "cond": simplify(n.Cond), "body": simplify(n.Body)}

	case *For:
		return map[string]interface{}{"type": "For", "var": n.VarName, "iterable": simplify(n.Iterable), "body": simplify(n.Body)}

	case *Match:
		m := map[string]interface{}{"type": "Match", "scrutinee": simplify(n.Scrutinee)}
		if len(n.Cases) > 0 {
			m["cases"] = simplifySlice(n.Cases)
		}
		return m

	case *Case:
		m := map[string]interface{}{"type": "Case", "pattern": simplify(n.Pattern), "body": simplify(n.Body)}
		if n.Guard != nil {
			m["guard"] = simplify(n.Guard)
		}
		return m

	case *List:
		return map[string]interface{}{"type": "List", "elements": simplifyExprSlice(n.Elements)}

	case *Record:
		fields := make([]interface{}, 0, len(n.Fields))
		for _, f := range n.Fields {
			fields = append(fields, map[string]interface{}{"name": f.Name, "value": simplify(f.Value)})
		}
		return map[string]interface{}{"type": "Record", "fields": fields}

	case *RecordAccess:
		return map[string]interface{}{"type": "RecordAccess", "receiver": simplify(n.Receiver), "field": n.Field}

	case *Return:
		return map[string]interface{}{"type": "Return", "value": simplify(n.Value)}

	case *Spawn:
		return map[string]interface{}{"type": "Spawn", "closure": simplify(n.Closure)}

	case *Named:
		return map[string]interface{}{"type": "Named", "name": n.Name}

	case *VarPattern:
		return map[string]interface{}{"type": "VarPattern", "name": n.Name}

	case *WildcardPattern:
		return map[string]interface{}{"type": "WildcardPattern"}

	case *ConstructorPattern:
		m := map[string]interface{}{"type": "ConstructorPattern", "enum": n.EnumName, "variant": n.VariantName}
		if len(n.Fields) > 0 {
			m["fields"] = simplifyPatternSlice(n.Fields)
		}
		return m

	default:
		return map[string]interface{}{"type": fmt.Sprintf("%T", node), "_note": "not handled by printer"}
	}
}

func simplifyExprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = simplify(e)
	}
	return result
}

func simplifyPatternSlice(patterns []Pattern) []interface{} {
	result := make([]interface{}, len(patterns))
	for i, p := range patterns {
		result[i] = simplify(p)
	}
	return result
}

func simplifySlice(items interface{}) []interface{} {
	switch items := items.(type) {
	case []*FuncDecl:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*Param:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*Field:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*Class:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*Trait:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*Enum:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*Variant:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*ErrorDecl:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*Stage:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	case []*Case:
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = simplify(item)
		}
		return result
	default:
		return []interface{}{fmt.Sprintf("unhandled slice type: %T", items)}
	}
}

func literalKindString(kind LiteralKind) string {
	switch kind {
	case IntLit:
		return "Int"
	case FloatLit:
		return "Float"
	case StringLit:
		return "String"
	case BoolLit:
		return "Bool"
	case UnitLit:
		return "Unit"
	default:
		return "Unknown"
	}
}
