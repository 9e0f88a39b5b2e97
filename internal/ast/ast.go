// Package ast defines the Lox abstract syntax tree: the data carriers
// shared by the resolver, tree interpreter, and bytecode compiler.
//
// Both passes dispatch on these nodes with a type switch rather than a
// classic Accept/Visitor double dispatch — a closed AST like this one
// doesn't need open-ended extensibility, and a single switch per pass
// keeps each pass's logic in one place instead of scattered across
// per-node Accept methods.
package ast

// Node is the base interface every statement and expression satisfies.
type Node interface {
	// Line returns the source line the node starts on, for diagnostics.
	Line() int
}

// Expr is any node that produces a Value when evaluated.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action but produces no value.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of a parsed script: a flat list of top-level
// declarations and statements.
type Program struct {
	Statements []Stmt
}
