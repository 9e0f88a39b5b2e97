package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/token"
)

func collect(t *testing.T, source string) ([]token.Token, *reporter.Console) {
	t.Helper()
	rep := reporter.NewConsole(noopWriter{}, false)
	l := New(source, rep)

	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, rep
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestLexerSingleCharTokens(t *testing.T) {
	toks, rep := collect(t, "(){},.-+;*/")
	assert.False(t, rep.HadError())

	want := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.Slash, token.EOF,
	}
	assert.Equal(t, len(want), len(toks))
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestLexerTwoCharOperators(t *testing.T) {
	toks, _ := collect(t, "! != = == < <= > >=")
	want := []token.Kind{
		token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual, token.EOF,
	}
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestLexerLineComment(t *testing.T) {
	toks, _ := collect(t, "1 // a comment\n2")
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, token.Number, toks[1].Kind)
	assert.Equal(t, 2.0, toks[1].Literal)
	assert.Equal(t, 2, toks[1].Line)
}

func TestLexerStringLiteral(t *testing.T) {
	toks, rep := collect(t, `"hello world"`)
	assert.False(t, rep.HadError())
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Literal)
}

func TestLexerUnterminatedString(t *testing.T) {
	toks, rep := collect(t, `"hello`)
	assert.True(t, rep.HadError())
	assert.Equal(t, token.Error, toks[0].Kind)
}

func TestLexerMultilineString(t *testing.T) {
	toks, rep := collect(t, "\"a\nb\"\nprint")
	assert.False(t, rep.HadError())
	assert.Equal(t, "a\nb", toks[0].Literal)
	assert.Equal(t, token.Print, toks[1].Kind)
	assert.Equal(t, 3, toks[1].Line)
}

func TestLexerNumbers(t *testing.T) {
	toks, _ := collect(t, "123 45.67")
	assert.Equal(t, 123.0, toks[0].Literal)
	assert.Equal(t, 45.67, toks[1].Literal)
}

func TestLexerIdentifiersAndKeywords(t *testing.T) {
	toks, _ := collect(t, "and class else false fun for if nil or print return super this true var while myVar _underscore")
	want := []token.Kind{
		token.And, token.Class, token.Else, token.False, token.Fun, token.For,
		token.If, token.Nil, token.Or, token.Print, token.Return, token.Super,
		token.This, token.True, token.Var, token.While, token.Identifier, token.Identifier,
	}
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "token %d (%s)", i, toks[i].Lexeme)
	}
}

func TestLexerUnexpectedCharacterReports(t *testing.T) {
	toks, rep := collect(t, "@")
	assert.True(t, rep.HadError())
	assert.Equal(t, token.Error, toks[0].Kind)
	assert.Len(t, rep.Diagnostics(), 1)
	assert.Equal(t, "unexpected character", rep.Diagnostics()[0].Message)
}

func TestLexerEndsWithEOF(t *testing.T) {
	toks, _ := collect(t, "var a = 1;")
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

func TestLexerPeekIsIdempotent(t *testing.T) {
	rep := reporter.NewConsole(noopWriter{}, false)
	l := New("1 2", rep)

	first := l.Peek()
	second := l.Peek()
	assert.Equal(t, first, second)

	consumed := l.Next()
	assert.Equal(t, first, consumed)

	next := l.Peek()
	assert.Equal(t, 2.0, next.Literal)
}
