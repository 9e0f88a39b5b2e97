package parser

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/token"
)

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses right-associatively: after parsing the left-hand
// side as an ordinary expression, a trailing '=' is only legal if that
// left-hand side was a variable reference or a property get — anything
// else is a parse error (spec.md §4.2).
func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.Equal) {
		equals := p.prev
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: target.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "invalid assignment target")
		}
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.prev
		right := p.and()
		expr = &ast.LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.prev
		right := p.equality()
		expr = &ast.LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.prev
		right := p.comparison()
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.prev
		right := p.term()
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		op := p.prev
		right := p.factor()
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		op := p.prev
		right := p.unary()
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.prev
		right := p.unary()
		return &ast.UnaryExpr{Operator: op, Right: right}
	}
	return p.call()
}

// call is left-associative and interleaves `(args)` and `.ident`, so
// `a.b()(c).d` parses as nested Call/Get nodes.
func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "expect property name after '.'")
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxParams {
				p.errorAt(p.peek(), "can't have more than 255 arguments")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "expect ')' after arguments")
	return &ast.CallExpr{Callee: callee, Args: args, ClosingParen: paren}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return &ast.LiteralExpr{Value: false, LineNo: p.prev.Line}
	case p.match(token.True):
		return &ast.LiteralExpr{Value: true, LineNo: p.prev.Line}
	case p.match(token.Nil):
		return &ast.LiteralExpr{Value: nil, LineNo: p.prev.Line}
	case p.match(token.Number, token.String):
		return &ast.LiteralExpr{Value: p.prev.Literal, LineNo: p.prev.Line}
	case p.match(token.This):
		return &ast.ThisExpr{Keyword: p.prev}
	case p.match(token.Identifier):
		return &ast.VariableExpr{Name: p.prev}
	case p.match(token.LeftParen):
		line := p.prev.Line
		expr := p.expression()
		p.consume(token.RightParen, "expect ')' after expression")
		return &ast.GroupingExpr{Expression: expr, LineNo: line}
	}

	panic(p.errorAt(p.peek(), "expect expression"))
}
