// Package ast defines the abstract syntax tree for mint.
//
// The tree is a closed set of node types: the evaluator dispatches on the
// concrete type and treats any type outside this package's set as an
// internal error. Nodes are immutable once produced by the parser.
package ast

import (
	"mint-lang/internal/span"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the interface for value-producing nodes: literals and variable
// reads. These are the only nodes that may appear on the right-hand side of
// an assignment or as an invocation argument.
type Expr interface {
	Node
	exprNode()
}

// Target is the interface for assignable variable nodes: a bare name or a
// two-part object-attribute path. Every Target is also a readable Expr.
type Target interface {
	Expr
	targetNode()

	// Path returns the name components of the target: one element for a
	// scalar slot, two for an object-attribute slot.
	Path() []string
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program (top-level AST root)
// ============================================================

// Program represents an entire source file.
type Program struct {
	NodeBase
	Body []Stmt
}

// ============================================================
// Expressions
// ============================================================

// IntLiteral represents an integer literal.
type IntLiteral struct {
	ExprBase
	Value int64
}

// StringLiteral represents a string literal.
type StringLiteral struct {
	ExprBase
	Value string
}

// ScalarRef represents a read of (or assignment to) a bare variable: x.
type ScalarRef struct {
	ExprBase
	Name string
}

func (*ScalarRef) targetNode() {}

// Path returns the single-element slot path.
func (s *ScalarRef) Path() []string { return []string{s.Name} }

// AttrRef represents a read of (or assignment to) an object attribute: x.y.
type AttrRef struct {
	ExprBase
	Object string
	Attr   string
}

func (*AttrRef) targetNode() {}

// Path returns the two-element slot path.
func (a *AttrRef) Path() []string { return []string{a.Object, a.Attr} }

// Invocation represents a call with a single argument: print(x).
type Invocation struct {
	ExprBase
	Callee string
	Arg    Expr
}

// ============================================================
// Statements
// ============================================================

// Block represents a brace-delimited group of statements. Blocks group
// statements for the sequencer; they do not open a new scope.
type Block struct {
	StmtBase
	Stmts []Stmt
}

// ExprStmt wraps an invocation used as a statement.
type ExprStmt struct {
	StmtBase
	Expr *Invocation
}

// AssignStmt represents a value assignment: target = value.
type AssignStmt struct {
	StmtBase
	Target Target
	Value  Expr
}

// NewStmt represents a type instantiation assignment: target = new ident.
type NewStmt struct {
	StmtBase
	Target   Target
	TypeName string
}

// ListOpStmt represents a list mutation: target add value / target remove value.
type ListOpStmt struct {
	StmtBase
	Target  Target
	Op      string // operation keyword as written: "add" or "remove"
	Operand Expr
}
