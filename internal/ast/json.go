package ast

import (
	"mint-lang/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return m("Program", n.Span, "body", stmtSlice(n.Body))

	// ---- Expressions ----
	case *IntLiteral:
		return m("IntLiteral", n.Span, "value", n.Value)
	case *StringLiteral:
		return m("StringLiteral", n.Span, "value", n.Value)
	case *ScalarRef:
		return m("ScalarRef", n.Span, "name", n.Name)
	case *AttrRef:
		return m("AttrRef", n.Span, "object", n.Object, "attr", n.Attr)
	case *Invocation:
		return m("Invocation", n.Span,
			"callee", n.Callee,
			"arg", NodeToMap(n.Arg))

	// ---- Statements ----
	case *Block:
		return m("Block", n.Span, "stmts", stmtSlice(n.Stmts))
	case *ExprStmt:
		return m("ExprStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *AssignStmt:
		return m("AssignStmt", n.Span,
			"target", NodeToMap(n.Target),
			"value", NodeToMap(n.Value))
	case *NewStmt:
		return m("NewStmt", n.Span,
			"target", NodeToMap(n.Target),
			"typeName", n.TypeName)
	case *ListOpStmt:
		return m("ListOpStmt", n.Span,
			"target", NodeToMap(n.Target),
			"op", n.Op,
			"operand", NodeToMap(n.Operand))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": posToMap(s.Start),
		"end":   posToMap(s.End),
	}
}

func posToMap(p span.Pos) map[string]interface{} {
	return map[string]interface{}{
		"offset": p.Offset,
		"line":   p.Line,
		"column": p.Column,
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}
