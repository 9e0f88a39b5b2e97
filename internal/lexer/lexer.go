// Package lexer turns Lox source text into a token stream for both the
// tree-walking and bytecode pipelines.
package lexer

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/token"
)

// Lexer scans a source string into tokens one at a time. Peeks are
// idempotent until consumed by Next.
type Lexer struct {
	report       reporter.Reporter
	input        string
	buffered     *token.Token
	start        int
	position     int
	readPosition int
	line         int
	ch           rune
}

// New creates a Lexer over source, reporting lexical errors through r.
func New(source string, r reporter.Reporter) *Lexer {
	l := &Lexer{input: source, line: 1, report: r}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// Peek returns the next token without consuming it. Calling Peek
// repeatedly without an intervening Next returns the same token.
func (l *Lexer) Peek() token.Token {
	if l.buffered == nil {
		t := l.scan()
		l.buffered = &t
	}
	return *l.buffered
}

// Next consumes and returns the next token.
func (l *Lexer) Next() token.Token {
	if l.buffered != nil {
		t := *l.buffered
		l.buffered = nil
		return t
	}
	return l.scan()
}

func (l *Lexer) scan() token.Token {
	l.skipWhitespaceAndComments()
	l.start = l.position

	if l.atEnd() {
		return l.make(token.EOF, "")
	}

	ch := l.ch
	l.readChar()

	switch ch {
	case '(':
		return l.make(token.LeftParen, "(")
	case ')':
		return l.make(token.RightParen, ")")
	case '{':
		return l.make(token.LeftBrace, "{")
	case '}':
		return l.make(token.RightBrace, "}")
	case ',':
		return l.make(token.Comma, ",")
	case '.':
		return l.make(token.Dot, ".")
	case '-':
		return l.make(token.Minus, "-")
	case '+':
		return l.make(token.Plus, "+")
	case ';':
		return l.make(token.Semicolon, ";")
	case '*':
		return l.make(token.Star, "*")
	case '/':
		return l.make(token.Slash, "/")
	case '!':
		if l.match('=') {
			return l.make(token.BangEqual, "!=")
		}
		return l.make(token.Bang, "!")
	case '=':
		if l.match('=') {
			return l.make(token.EqualEqual, "==")
		}
		return l.make(token.Equal, "=")
	case '<':
		if l.match('=') {
			return l.make(token.LessEqual, "<=")
		}
		return l.make(token.Less, "<")
	case '>':
		if l.match('=') {
			return l.make(token.GreaterEqual, ">=")
		}
		return l.make(token.Greater, ">")
	case '"':
		return l.scanString()
	}

	switch {
	case isDigit(ch):
		return l.scanNumber()
	case isAlpha(ch):
		return l.scanIdentifier()
	}

	l.report.Report(l.line, "unexpected character")
	return l.make(token.Error, string(ch))
}

// match consumes the current character if it equals expected.
func (l *Lexer) match(expected rune) bool {
	if l.ch != expected {
		return false
	}
	l.readChar()
	return true
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\r', '\t':
			l.readChar()
		case '\n':
			l.line++
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				for l.ch != '\n' && !l.atEnd() {
					l.readChar()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanString() token.Token {
	startLine := l.line
	for l.ch != '"' && !l.atEnd() {
		if l.ch == '\n' {
			l.line++
		}
		l.readChar()
	}

	if l.atEnd() {
		l.report.Report(startLine, "unterminated string")
		return token.Token{Kind: token.Error, Lexeme: l.input[l.start:l.position], Line: startLine}
	}

	// Consume the closing quote.
	l.readChar()

	raw := l.input[l.start+1 : l.position-1]
	value := norm.NFC.String(raw)
	return token.Token{
		Kind:    token.String,
		Lexeme:  l.input[l.start:l.position],
		Line:    startLine,
		Literal: value,
	}
}

func (l *Lexer) scanNumber() token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[l.start:l.position]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.report.Report(l.line, "invalid number literal")
	}
	return token.Token{Kind: token.Number, Lexeme: lexeme, Line: l.line, Literal: value}
}

func (l *Lexer) scanIdentifier() token.Token {
	for isAlphaNumeric(l.ch) {
		l.readChar()
	}
	lexeme := l.input[l.start:l.position]
	if kind, ok := token.Keywords[lexeme]; ok {
		return l.make(kind, lexeme)
	}
	return l.make(token.Identifier, lexeme)
}

func (l *Lexer) make(kind token.Kind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: l.line}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}
