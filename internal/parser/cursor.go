package parser

import "github.com/loxlang/golox/internal/token"

func (p *Parser) peek() token.Token {
	return p.lex.Peek()
}

func (p *Parser) advance() token.Token {
	if p.peek().Kind != token.EOF {
		p.prev = p.lex.Next()
	} else {
		p.prev = p.peek()
	}
	return p.prev
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), message))
}

// errorAt reports message at tok's line and returns a *parseError the
// caller may panic with to abort the current top-level declaration.
func (p *Parser) errorAt(tok token.Token, message string) *parseError {
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == token.EOF {
		where = " at end"
	}
	p.report.Report(tok.Line, message+where)
	return &parseError{msg: message}
}

// synchronize discards tokens until it reaches a likely statement
// boundary, so one syntax error doesn't cascade into spurious follow-on
// errors for the rest of the file.
func (p *Parser) synchronize() {
	for p.peek().Kind != token.EOF {
		if p.prev.Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
