package ast

import "github.com/loxlang/golox/internal/token"

// BinaryExpr is a two-operand arithmetic, comparison, or equality
// expression: `left op right`.
type BinaryExpr struct {
	Left     Expr
	Right    Expr
	Operator token.Token
}

func (e *BinaryExpr) exprNode()   {}
func (e *BinaryExpr) Line() int   { return e.Operator.Line }

// LogicalExpr is `left and right` or `left or right`; unlike BinaryExpr
// it short-circuits and returns an operand value, not a boolean.
type LogicalExpr struct {
	Left     Expr
	Right    Expr
	Operator token.Token
}

func (e *LogicalExpr) exprNode() {}
func (e *LogicalExpr) Line() int { return e.Operator.Line }

// GroupingExpr is a parenthesized expression, kept as its own node so
// printers can reproduce the parentheses even though precedence is
// already baked into the tree shape.
type GroupingExpr struct {
	Expression Expr
	LineNo     int
}

func (e *GroupingExpr) exprNode() {}
func (e *GroupingExpr) Line() int { return e.LineNo }

// LiteralExpr is a pre-parsed constant: number, string, boolean, or nil.
type LiteralExpr struct {
	Value  interface{}
	LineNo int
}

func (e *LiteralExpr) exprNode() {}
func (e *LiteralExpr) Line() int { return e.LineNo }

// UnaryExpr is `-right` or `!right`.
type UnaryExpr struct {
	Right    Expr
	Operator token.Token
}

func (e *UnaryExpr) exprNode() {}
func (e *UnaryExpr) Line() int { return e.Operator.Line }

// VariableExpr reads the value bound to Name. The resolver annotates
// this node (by pointer identity) with a scope depth in its resolution
// map; an unannotated node resolves against globals.
type VariableExpr struct {
	Name token.Token
}

func (e *VariableExpr) exprNode() {}
func (e *VariableExpr) Line() int { return e.Name.Line }

// AssignExpr is `name = value`, writing through the resolved scope depth
// the same way VariableExpr reads through it.
type AssignExpr struct {
	Value Expr
	Name  token.Token
}

func (e *AssignExpr) exprNode() {}
func (e *AssignExpr) Line() int { return e.Name.Line }

// CallExpr is `callee(args...)`. Chained calls/property accesses such as
// `a.b()(c).d` are represented as nested CallExpr/GetExpr nodes, the
// outermost node being the last operation performed left to right.
type CallExpr struct {
	Callee    Expr
	Args      []Expr
	ClosingParen token.Token
}

func (e *CallExpr) exprNode() {}
func (e *CallExpr) Line() int { return e.ClosingParen.Line }

// GetExpr is `object.Name`, a property read that may resolve to a field
// or a bound method.
type GetExpr struct {
	Object Expr
	Name   token.Token
}

func (e *GetExpr) exprNode() {}
func (e *GetExpr) Line() int { return e.Name.Line }

// SetExpr is `object.Name = Value`, a property write. Only instances
// accept property writes; the interpreter creates the field if absent.
type SetExpr struct {
	Object Expr
	Value  Expr
	Name   token.Token
}

func (e *SetExpr) exprNode() {}
func (e *SetExpr) Line() int { return e.Name.Line }

// ThisExpr reads the implicit receiver inside a method body. Only valid
// inside a method or initializer, enforced by the resolver.
type ThisExpr struct {
	Keyword token.Token
}

func (e *ThisExpr) exprNode() {}
func (e *ThisExpr) Line() int { return e.Keyword.Line }
