package transform

import "github.com/klve/jstrace/pkg/ast"

// This file builds the JS object-literal text for each node kind's Detail
// payload (spec §4.1 "Detail extraction"), computed once at transform time
// and embedded literally into the emitted meta object so the reporter never
// re-inspects the AST at runtime.

func detailRead(name string) string {
	return jsObj("action", "read", "name", name)
}

func detailMember(n *ast.MemberExpression) string {
	var property interface{}
	if !n.Computed {
		if id, ok := n.Property.(*ast.Identifier); ok {
			property = id.Name
		}
	}
	kv := []interface{}{"action", "access", "computed", n.Computed, "property", property}
	if n.Optional {
		kv = append(kv, "optional", true)
	}
	return jsObj(kv...)
}

func detailAssign(n *ast.AssignmentExpression) string {
	var target interface{}
	if id, ok := n.Target.(*ast.Identifier); ok {
		target = id.Name
	}
	return jsObj("action", "assign", "operator", n.Operator, "target", target)
}

func detailUpdate(n *ast.UpdateExpression) string {
	var target interface{}
	if id, ok := n.Target.(*ast.Identifier); ok {
		target = id.Name
	}
	return jsObj("action", "update", "operator", n.Operator, "prefix", n.Prefix, "target", target)
}

func detailDeclare(n *ast.VariableDeclaration) string {
	var target interface{}
	if len(n.Declarations) > 0 {
		target = n.Declarations[0].Name
	}
	return jsObj("action", "declare", "kind", n.Kind, "target", target)
}

func detailCall(n *ast.CallExpression) string {
	var callee interface{}
	method := false
	if m, ok := n.Callee.(*ast.MemberExpression); ok {
		method = true
		if !m.Computed {
			if id, ok2 := m.Property.(*ast.Identifier); ok2 {
				callee = id.Name
			}
		}
	} else if id, ok := n.Callee.(*ast.Identifier); ok {
		callee = id.Name
	}
	return jsObj("action", "call", "arity", len(n.Arguments), "callee", callee, "method", method)
}

func detailNew(n *ast.NewExpression) string {
	var callee interface{}
	if id, ok := n.Callee.(*ast.Identifier); ok {
		callee = id.Name
	}
	return jsObj("action", "construct", "arity", len(n.Arguments), "callee", callee, "method", false)
}

func detailCompute(operator string, prefix bool) string {
	kv := []interface{}{"action", "compute"}
	if operator != "" {
		kv = append(kv, "operator", operator)
	}
	if prefix {
		kv = append(kv, "prefix", true)
	}
	return jsObj(kv...)
}

func detailBranch(hasAlternate bool) string {
	return jsObj("action", "branch", "hasAlternate", hasAlternate)
}

func detailLoopFor(n *ast.ForStatement) string {
	return jsObj("action", "loop", "hasInit", n.Init != nil, "hasTest", n.Test != nil, "hasUpdate", n.Update != nil)
}

func detailLoopWhile() string {
	return jsObj("action", "loop")
}

func detailProtect(n *ast.TryStatement) string {
	return jsObj("action", "protect", "hasCatch", n.Handler != nil, "hasFinally", n.Finalizer != nil)
}

// detailReturn uses the "evaluate" action: spec §4.1's Detail extraction
// list never assigns ReturnStatement one of the more specific actions, and
// "evaluate" is exactly the catch-all spec §3's action enum reserves for
// this.
func detailReturn() string {
	return jsObj("action", "evaluate")
}

func detailPrimitiveLiteral() string {
	return jsObj("action", "literal")
}

func detailArrayLiteral(count int) string {
	return jsObj("action", "literal", "elementCount", count)
}

func detailObjectLiteral(count int) string {
	return jsObj("action", "literal", "propertyCount", count)
}

func detailDefineArrow(n *ast.ArrowFunctionExpression) string {
	kv := []interface{}{"action", "define", "arity", len(n.Params), "expressionBody", n.Body == nil}
	if n.Async {
		kv = append(kv, "async", true)
	}
	return jsObj(kv...)
}

func detailDefineFunction(n *ast.FunctionExpression) string {
	var name interface{}
	if n.Name != "" {
		name = n.Name
	}
	kv := []interface{}{"action", "define", "name", name, "arity", len(n.Params)}
	if n.Async {
		kv = append(kv, "async", true)
	}
	return jsObj(kv...)
}
