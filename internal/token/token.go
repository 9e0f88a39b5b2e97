// Package token defines the lexical token kinds shared by both the
// tree-walking and bytecode pipelines.
package token

import "fmt"

// Kind identifies the category of a Token.
type Kind int

// Token kind constants, grouped the way the source groups them: punctuation,
// one-or-two-character operators, literals, keywords, then the two sentinels.
const (
	// Single-character punctuation
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One-or-two-character operators
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals
	Identifier
	String
	Number

	// Keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	// Sentinels
	Error
	EOF
)

var names = [...]string{
	LeftParen: "LEFT_PAREN", RightParen: "RIGHT_PAREN",
	LeftBrace: "LEFT_BRACE", RightBrace: "RIGHT_BRACE",
	Comma: "COMMA", Dot: "DOT", Minus: "MINUS", Plus: "PLUS",
	Semicolon: "SEMICOLON", Slash: "SLASH", Star: "STAR",
	Bang: "BANG", BangEqual: "BANG_EQUAL",
	Equal: "EQUAL", EqualEqual: "EQUAL_EQUAL",
	Greater: "GREATER", GreaterEqual: "GREATER_EQUAL",
	Less: "LESS", LessEqual: "LESS_EQUAL",
	Identifier: "IDENTIFIER", String: "STRING", Number: "NUMBER",
	And: "AND", Class: "CLASS", Else: "ELSE", False: "FALSE",
	Fun: "FUN", For: "FOR", If: "IF", Nil: "NIL", Or: "OR",
	Print: "PRINT", Return: "RETURN", Super: "SUPER", This: "THIS",
	True: "TRUE", Var: "VAR", While: "WHILE",
	Error: "ERROR", EOF: "EOF",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps exact lexeme matches to their keyword Kind. Identifiers
// that don't match any entry stay Identifier.
var Keywords = map[string]Kind{
	"and": And, "class": Class, "else": Else, "false": False,
	"for": For, "fun": Fun, "if": If, "nil": Nil, "or": Or,
	"print": Print, "return": Return, "super": Super, "this": This,
	"true": True, "var": Var, "while": While,
}

// Literal carries a pre-parsed literal payload for Number and String
// tokens. It is nil for every other kind.
type Literal interface{}

// Token is an immutable lexical unit: a kind, a lexeme view into the
// source, the line it starts on, and an optional parsed literal value.
type Token struct {
	Literal Literal
	Lexeme  string
	Line    int
	Kind    Kind
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %v", t.Kind, t.Lexeme, t.Literal)
}
