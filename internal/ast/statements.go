package ast

import "github.com/loxlang/golox/internal/token"

// ExpressionStmt evaluates Expression and discards the result.
type ExpressionStmt struct {
	Expression Expr
}

func (s *ExpressionStmt) stmtNode() {}
func (s *ExpressionStmt) Line() int { return s.Expression.Line() }

// PrintStmt evaluates Expression and writes its textual form to stdout.
type PrintStmt struct {
	Expression Expr
	Keyword    token.Token
}

func (s *PrintStmt) stmtNode() {}
func (s *PrintStmt) Line() int { return s.Keyword.Line }

// VarStmt is a variable declaration. Initializer is nil when the
// declaration has no initializer; the value is then nil, not undefined.
type VarStmt struct {
	Initializer Expr
	Name        token.Token
}

func (s *VarStmt) stmtNode() {}
func (s *VarStmt) Line() int { return s.Name.Line }

// BlockStmt introduces a new lexical scope around Statements.
type BlockStmt struct {
	Statements []Stmt
	LineNo     int
}

func (s *BlockStmt) stmtNode() {}
func (s *BlockStmt) Line() int { return s.LineNo }

// IfStmt is `if (Condition) Then else Else`. Else is nil when the
// statement has no else branch; Then is never nil.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
	LineNo    int
}

func (s *IfStmt) stmtNode() {}
func (s *IfStmt) Line() int { return s.LineNo }

// WhileStmt is `while (Condition) Body`. The parser desugars `for` into
// a WhileStmt wrapped in a BlockStmt — see parser.forStatement.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
	LineNo    int
}

func (s *WhileStmt) stmtNode() {}
func (s *WhileStmt) Line() int { return s.LineNo }

// FunctionStmt is a named function (or method, when it appears inside a
// ClassStmt's Methods) declaration.
type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (s *FunctionStmt) stmtNode() {}
func (s *FunctionStmt) Line() int { return s.Name.Line }

// ReturnStmt unwinds the current call with Value's result, or nil if
// Value is nil (a bare `return;`).
type ReturnStmt struct {
	Value   Expr
	Keyword token.Token
}

func (s *ReturnStmt) stmtNode() {}
func (s *ReturnStmt) Line() int { return s.Keyword.Line }

// ClassStmt declares a class and its methods. Inheritance is an Open
// Question left out of scope (see SPEC_FULL.md §9.1): there is no
// superclass field here.
type ClassStmt struct {
	Name    token.Token
	Methods []*FunctionStmt
}

func (s *ClassStmt) stmtNode() {}
func (s *ClassStmt) Line() int { return s.Name.Line }
