package bytecode

import "github.com/loxlang/golox/internal/token"

// declaration compiles one top-level-or-block declaration, recovering
// from a compileError by discarding tokens up to the next likely
// statement boundary — identical in spirit to the tree-walk parser's
// declarationRecovered/synchronize pair.
func (c *Compiler) declaration() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*compileError); ok {
				c.synchronize()
				return
			}
			panic(r)
		}
	}()

	switch {
	case c.match(token.Var):
		c.varDeclaration()
	case c.match(token.Fun):
		c.funDeclaration()
	case c.match(token.Class):
		c.classDeclaration()
	default:
		c.statement()
	}
}

func (c *Compiler) synchronize() {
	for c.peek().Kind != token.EOF {
		if c.prev.Kind == token.Semicolon {
			return
		}
		switch c.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		c.advance()
	}
}

func (c *Compiler) varDeclaration() {
	name := c.consume(token.Identifier, "expect variable name")
	c.declareLocal(name)

	if c.match(token.Equal) {
		c.expression()
	} else {
		c.emitOp(OpNil)
	}
	c.consume(token.Semicolon, "expect ';' after variable declaration")

	c.defineVariable(name)
}

// declareLocal records name as a new local in the current scope if one
// is active; at the top level, declaration is a no-op and defineVariable
// instead emits an OP_DEFINE_GLOBAL.
func (c *Compiler) declareLocal(name token.Token) {
	if c.scopeDepth == 0 {
		return
	}
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].depth != -1 && c.locals[i].depth < c.scopeDepth {
			break
		}
		if c.locals[i].name == name.Lexeme {
			c.errorAt(name, "already a variable named '"+name.Lexeme+"' in this scope")
		}
	}
	if len(c.locals) >= maxLocals {
		c.errorAt(name, "too many local variables in one function")
		return
	}
	c.locals = append(c.locals, local{name: name.Lexeme, depth: -1})
}

func (c *Compiler) defineVariable(name token.Token) {
	if c.scopeDepth > 0 {
		c.locals[len(c.locals)-1].depth = c.scopeDepth
		return
	}
	c.emitOpByte(OpDefineGlobal, c.identifierConstant(name))
}

func (c *Compiler) funDeclaration() {
	name := c.consume(token.Identifier, "expect function name")
	c.declareLocal(name)
	if c.scopeDepth > 0 {
		c.locals[len(c.locals)-1].depth = c.scopeDepth
	}
	c.function(name.Lexeme, funcKindFunction)
	c.defineVariable(name)
}

// function compiles a parameter list and body as a nested Compiler,
// then emits an OP_CLOSURE referencing the compiled Function constant
// and describing how to capture each of its upvalues from this frame.
func (c *Compiler) function(name string, kind funcKind) {
	sub := newCompiler(c.lex, c.report, c, kind)
	sub.locals = append(sub.locals, local{name: thisSlotName(kind), depth: 0})
	sub.beginScope()

	sub.consume(token.LeftParen, "expect '(' after function name")
	arity := 0
	if !sub.check(token.RightParen) {
		for {
			arity++
			if arity > maxArgs {
				sub.errorAt(sub.peek(), "can't have more than 255 parameters")
			}
			paramName := sub.consume(token.Identifier, "expect parameter name")
			sub.declareLocal(paramName)
			sub.locals[len(sub.locals)-1].depth = sub.scopeDepth
			if !sub.match(token.Comma) {
				break
			}
		}
	}
	sub.consume(token.RightParen, "expect ')' after parameters")
	sub.consume(token.LeftBrace, "expect '{' before function body")

	for !sub.check(token.RightBrace) && sub.peek().Kind != token.EOF {
		sub.declaration()
	}
	sub.consume(token.RightBrace, "expect '}' after function body")

	fn := sub.endCompiler()
	fn.Name = name
	fn.Chunk.Name = name
	fn.Arity = arity

	c.prev = sub.prev
	idx := c.makeConstant(fn)
	c.emitOpByte(OpClosure, idx)
	for _, up := range fn.UpvalueDefs {
		if up.IsLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(byte(up.Index))
	}
}

// thisSlotName reserves local slot 0 for the receiver in a method or
// initializer, matching the tree-walk interpreter's Bind, which defines
// `this` one scope outside the method's parameters.
func thisSlotName(kind funcKind) string {
	if kind == funcKindMethod || kind == funcKindInitializer {
		return "this"
	}
	return ""
}

func (c *Compiler) classDeclaration() {
	name := c.consume(token.Identifier, "expect class name")
	nameConst := c.identifierConstant(name)
	c.declareLocal(name)
	c.emitOpByte(OpClass, nameConst)
	c.defineVariable(name)

	c.namedVariable(name, false)

	wasInClass := c.inClass
	c.inClass = true

	c.consume(token.LeftBrace, "expect '{' before class body")
	for !c.check(token.RightBrace) && c.peek().Kind != token.EOF {
		methodName := c.consume(token.Identifier, "expect method name")
		kind := funcKindMethod
		if methodName.Lexeme == "init" {
			kind = funcKindInitializer
		}
		c.function(methodName.Lexeme, kind)
		c.emitOpByte(OpMethod, c.identifierConstant(methodName))
	}
	c.consume(token.RightBrace, "expect '}' after class body")
	c.emitOp(OpPop) // discard the class value left by namedVariable

	c.inClass = wasInClass
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.Print):
		c.printStatement()
	case c.match(token.If):
		c.ifStatement()
	case c.match(token.While):
		c.whileStatement()
	case c.match(token.For):
		c.forStatement()
	case c.match(token.Return):
		c.returnStatement()
	case c.match(token.LeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.Semicolon, "expect ';' after value")
	c.emitOp(OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.Semicolon, "expect ';' after expression")
	c.emitOp(OpPop)
}

func (c *Compiler) block() {
	for !c.check(token.RightBrace) && c.peek().Kind != token.EOF {
		c.declaration()
	}
	c.consume(token.RightBrace, "expect '}' after block")
}

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops every local declared in the scope just exited. A local
// that some nested closure captured is popped with OP_CLOSE_UPVALUE's
// job folded into OP_POP at the VM level: the VM closes any open
// upvalue pointing at a slot before discarding it.
func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emitOp(OpPop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) ifStatement() {
	c.consume(token.LeftParen, "expect '(' after 'if'")
	c.expression()
	c.consume(token.RightParen, "expect ')' after condition")

	thenJump := c.chunk.EmitJump(OpJumpIfFalse, c.line())
	c.emitOp(OpPop)
	c.statement()

	elseJump := c.chunk.EmitJump(OpJump, c.line())
	c.chunk.PatchJump(thenJump)
	c.emitOp(OpPop)

	if c.match(token.Else) {
		c.statement()
	}
	c.chunk.PatchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk.Code)
	c.consume(token.LeftParen, "expect '(' after 'while'")
	c.expression()
	c.consume(token.RightParen, "expect ')' after condition")

	exitJump := c.chunk.EmitJump(OpJumpIfFalse, c.line())
	c.emitOp(OpPop)
	c.statement()
	c.chunk.EmitLoop(loopStart, c.line())

	c.chunk.PatchJump(exitJump)
	c.emitOp(OpPop)
}

// forStatement desugars `for (init; cond; incr) body` into the
// equivalent while-loop bytecode directly, the same desugaring the
// tree-walk parser performs on the AST.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LeftParen, "expect '(' after 'for'")

	switch {
	case c.match(token.Semicolon):
		// no initializer
	case c.match(token.Var):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk.Code)
	exitJump := -1
	if !c.check(token.Semicolon) {
		c.expression()
		c.consume(token.Semicolon, "expect ';' after loop condition")
		exitJump = c.chunk.EmitJump(OpJumpIfFalse, c.line())
		c.emitOp(OpPop)
	} else {
		c.advance()
	}

	if !c.check(token.RightParen) {
		bodyJump := c.chunk.EmitJump(OpJump, c.line())
		incrStart := len(c.chunk.Code)
		c.expression()
		c.emitOp(OpPop)
		c.consume(token.RightParen, "expect ')' after for clauses")

		c.chunk.EmitLoop(loopStart, c.line())
		loopStart = incrStart
		c.chunk.PatchJump(bodyJump)
	} else {
		c.consume(token.RightParen, "expect ')' after for clauses")
	}

	c.statement()
	c.chunk.EmitLoop(loopStart, c.line())

	if exitJump != -1 {
		c.chunk.PatchJump(exitJump)
		c.emitOp(OpPop)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.kind == funcKindScript {
		c.errorAt(c.prev, "can't return from top-level code")
	}
	if c.match(token.Semicolon) {
		c.emitReturn()
		return
	}
	if c.kind == funcKindInitializer {
		c.errorAt(c.prev, "can't return a value from an initializer")
	}
	c.expression()
	c.consume(token.Semicolon, "expect ';' after return value")
	c.emitOp(OpReturn)
}
