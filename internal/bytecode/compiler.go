// Package bytecode implements blox: a single-pass compiler straight
// from tokens to bytecode (no intermediate AST) plus the stack-based VM
// that executes the result.
package bytecode

import (
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/token"
)

const maxLocals = 256
const maxArgs = 255

type funcKind int

const (
	funcKindScript funcKind = iota
	funcKindFunction
	funcKindMethod
	funcKindInitializer
)

// local is a compile-time stack slot: a declared name and the scope
// depth it belongs to. depth -1 means "declared but not yet defined" —
// the same guard the tree-walk resolver uses to reject
// `var a = a;` inside its own initializer. captured marks a local that
// some nested function closes over; endScope does not consult it, since
// the VM's OP_POP closes any open upvalue on the slot it discards.
type local struct {
	name     string
	depth    int
	captured bool
}

// Compiler compiles one function body (or the top-level script) into a
// Chunk, recursively invoking a child Compiler for each nested function
// or method literal it encounters. The cursor (lex/prev) and the
// reporter are shared with every child so token position and
// diagnostics stay continuous across the whole compile.
type Compiler struct {
	lex        *lexer.Lexer
	report     reporter.Reporter
	enclosing  *Compiler
	chunk      *Chunk
	fn         *Function
	kind       funcKind
	locals     []local
	upvalues   []UpvalueDef
	loopStart  int
	scopeDepth int
	prev       token.Token
	inClass    bool
}

// Compile compiles an entire script's source into a top-level Function
// whose chunk is run directly by the VM (wrapped by the caller in a
// Closure with no upvalues).
func Compile(source string, r reporter.Reporter) *Function {
	l := lexer.New(source, r)
	c := newCompiler(l, r, nil, funcKindScript)
	c.locals = append(c.locals, local{name: "", depth: 0})

	for c.peek().Kind != token.EOF {
		c.declaration()
	}
	return c.endCompiler()
}

func newCompiler(lex *lexer.Lexer, r reporter.Reporter, enclosing *Compiler, kind funcKind) *Compiler {
	inClass := enclosing != nil && enclosing.inClass
	return &Compiler{
		lex:       lex,
		report:    r,
		enclosing: enclosing,
		chunk:     NewChunk(""),
		fn:        &Function{},
		kind:      kind,
		loopStart: -1,
		inClass:   inClass,
	}
}

func (c *Compiler) endCompiler() *Function {
	c.emitReturn()
	c.fn.Chunk = c.chunk
	c.fn.UpvalueDefs = c.upvalues
	return c.fn
}

func (c *Compiler) emitReturn() {
	if c.kind == funcKindInitializer {
		c.emitOp(OpGetLocal)
		c.emitByte(0)
	} else {
		c.emitOp(OpNil)
	}
	c.emitOp(OpReturn)
}

// --- token cursor, grounded on the tree-walk parser's cursor.go ---

func (c *Compiler) peek() token.Token { return c.lex.Peek() }

func (c *Compiler) advance() token.Token {
	if c.peek().Kind != token.EOF {
		c.prev = c.lex.Next()
	} else {
		c.prev = c.peek()
	}
	return c.prev
}

func (c *Compiler) check(kind token.Kind) bool { return c.peek().Kind == kind }

func (c *Compiler) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if c.check(k) {
			c.advance()
			return true
		}
	}
	return false
}

func (c *Compiler) consume(kind token.Kind, message string) token.Token {
	if c.check(kind) {
		return c.advance()
	}
	c.errorAt(c.peek(), message)
	panic(&compileError{})
}

func (c *Compiler) errorAt(tok token.Token, message string) {
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == token.EOF {
		where = " at end"
	}
	c.report.Report(tok.Line, message+where)
}

// compileError aborts the current top-level declaration; declaration()
// recovers it and resynchronizes, the same abort-and-catch discipline
// the tree-walk parser uses for syntax errors.
type compileError struct{}

func (c *Compiler) line() int { return c.prev.Line }

// --- bytecode emission helpers ---

func (c *Compiler) emitByte(b byte)  { c.chunk.WriteByte(b, c.line()) }
func (c *Compiler) emitOp(op OpCode) { c.chunk.WriteOp(op, c.line()) }

func (c *Compiler) emitOpByte(op OpCode, b byte) {
	c.emitOp(op)
	c.emitByte(b)
}

func (c *Compiler) makeConstant(v Value) byte {
	idx := c.chunk.AddConstant(v)
	if idx > 255 {
		c.report.Report(c.line(), "too many constants in one chunk")
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v Value) {
	c.emitOpByte(OpConstant, c.makeConstant(v))
}

func (c *Compiler) identifierConstant(name token.Token) byte {
	return c.makeConstant(name.Lexeme)
}
