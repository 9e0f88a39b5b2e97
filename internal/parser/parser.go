// Package parser implements the recursive-descent parser for the
// tree-walking pipeline: tokens in, an *ast.Program out.
//
// Grammar (precedence low -> high), matching one method per level:
//
//	assignment -> logical_or -> logical_and -> equality -> comparison ->
//	term -> factor -> unary -> call -> primary
package parser

import (
	"fmt"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/token"
)

const maxParams = 255

// parseError aborts the current top-level declaration; it is recovered
// by synchronize and never escapes Parse.
type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

// Parser consumes a lexer's token stream and builds an AST.
type Parser struct {
	lex    *lexer.Lexer
	report reporter.Reporter
	prev   token.Token
}

// New creates a Parser reading from lex and reporting syntax errors
// through r.
func New(lex *lexer.Lexer, r reporter.Reporter) *Parser {
	return &Parser{lex: lex, report: r}
}

// Parse runs declaration() until EOF, recovering from a parse error by
// discarding the rest of the current statement and resuming at the next
// likely declaration boundary (spec.md §4.2 permits this as a quality
// improvement on top of the required "abort the current top-level
// declaration" behavior).
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	for p.peek().Kind != token.EOF {
		stmt := p.declarationRecovered()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

func (p *Parser) declarationRecovered() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.declaration()
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Var):
		return p.varDeclaration()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Class):
		return p.classDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "expect variable name")

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}
	p.consume(token.Semicolon, "expect ';' after variable declaration")
	return &ast.VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) function(kind string) *ast.FunctionStmt {
	name := p.consume(token.Identifier, "expect "+kind+" name")
	p.consume(token.LeftParen, "expect '(' after "+kind+" name")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxParams {
				p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d parameters", maxParams))
			}
			params = append(params, p.consume(token.Identifier, "expect parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "expect ')' after parameters")

	p.consume(token.LeftBrace, "expect '{' before "+kind+" body")
	body := p.block()
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "expect class name")
	p.consume(token.LeftBrace, "expect '{' before class body")

	var methods []*ast.FunctionStmt
	for !p.check(token.RightBrace) && p.peek().Kind != token.EOF {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RightBrace, "expect '}' after class body")
	return &ast.ClassStmt{Name: name, Methods: methods}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.LeftBrace):
		line := p.prev.Line
		return &ast.BlockStmt{Statements: p.block(), LineNo: line}
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.Semicolon):
		return &ast.ExpressionStmt{Expression: &ast.LiteralExpr{Value: nil, LineNo: p.prev.Line}}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	keyword := p.prev
	value := p.expression()
	p.consume(token.Semicolon, "expect ';' after value")
	return &ast.PrintStmt{Expression: value, Keyword: keyword}
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "expect ';' after expression")
	return &ast.ExpressionStmt{Expression: expr}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && p.peek().Kind != token.EOF {
		if stmt := p.declarationRecovered(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "expect '}' after block")
	return stmts
}

func (p *Parser) ifStatement() ast.Stmt {
	line := p.prev.Line
	p.consume(token.LeftParen, "expect '(' after 'if'")
	condition := p.expression()
	p.consume(token.RightParen, "expect ')' after if condition")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch, LineNo: line}
}

func (p *Parser) whileStatement() ast.Stmt {
	line := p.prev.Line
	p.consume(token.LeftParen, "expect '(' after 'while'")
	condition := p.expression()
	p.consume(token.RightParen, "expect ')' after while condition")
	body := p.statement()
	return &ast.WhileStmt{Condition: condition, Body: body, LineNo: line}
}

// forStatement desugars `for (init; cond; incr) body` into:
//
//	{ init; while (cond) { body; incr; } }
//
// per spec.md §4.2. A missing condition becomes the literal `true`.
func (p *Parser) forStatement() ast.Stmt {
	line := p.prev.Line
	p.consume(token.LeftParen, "expect '(' after 'for'")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "expect ';' after loop condition")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "expect ')' after for clauses")

	body := p.statement()

	if increment != nil {
		body = &ast.BlockStmt{
			Statements: []ast.Stmt{body, &ast.ExpressionStmt{Expression: increment}},
			LineNo:     line,
		}
	}

	if condition == nil {
		condition = &ast.LiteralExpr{Value: true, LineNo: line}
	}
	body = &ast.WhileStmt{Condition: condition, Body: body, LineNo: line}

	stmts := []ast.Stmt{body}
	if initializer != nil {
		stmts = []ast.Stmt{initializer, body}
	}
	return &ast.BlockStmt{Statements: stmts, LineNo: line}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.prev
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "expect ';' after return value")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}
