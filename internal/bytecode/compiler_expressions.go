package bytecode

import "github.com/loxlang/golox/internal/token"

// expression compiles the full precedence chain (low to high):
// assignment -> or -> and -> equality -> comparison -> term -> factor ->
// unary -> call -> primary, mirroring the tree-walk parser's grammar so
// both pipelines accept exactly the same language.
//
// canAssign threads down the leftmost operand of every level: it is
// true only for the single operand chain that could still turn out to
// be an assignment target, false for every operator's right-hand side
// (so `a + b = c` is rejected the same way the tree-walk parser rejects
// it, instead of silently compiling `b`'s get as an assignment target).
func (c *Compiler) expression() {
	c.or_(true)
}

func (c *Compiler) or_(canAssign bool) {
	c.and_(canAssign)
	for c.match(token.Or) {
		elseJump := c.chunk.EmitJump(OpJumpIfFalse, c.line())
		endJump := c.chunk.EmitJump(OpJump, c.line())
		c.chunk.PatchJump(elseJump)
		c.emitOp(OpPop)
		c.and_(false)
		c.chunk.PatchJump(endJump)
	}
}

func (c *Compiler) and_(canAssign bool) {
	c.equality(canAssign)
	for c.match(token.And) {
		endJump := c.chunk.EmitJump(OpJumpIfFalse, c.line())
		c.emitOp(OpPop)
		c.equality(false)
		c.chunk.PatchJump(endJump)
	}
}

func (c *Compiler) equality(canAssign bool) {
	c.comparison(canAssign)
	for c.match(token.EqualEqual, token.BangEqual) {
		op := c.prev
		c.comparison(false)
		c.emitOp(OpEqual)
		if op.Kind == token.BangEqual {
			c.emitOp(OpNot)
		}
	}
}

func (c *Compiler) comparison(canAssign bool) {
	c.term(canAssign)
	for c.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := c.prev
		c.term(false)
		switch op.Kind {
		case token.Greater:
			c.emitOp(OpGreater)
		case token.GreaterEqual:
			c.emitOp(OpLess)
			c.emitOp(OpNot)
		case token.Less:
			c.emitOp(OpLess)
		case token.LessEqual:
			c.emitOp(OpGreater)
			c.emitOp(OpNot)
		}
	}
}

func (c *Compiler) term(canAssign bool) {
	c.factor(canAssign)
	for c.match(token.Plus, token.Minus) {
		op := c.prev
		c.factor(false)
		if op.Kind == token.Plus {
			c.emitOp(OpAdd)
		} else {
			c.emitOp(OpSubtract)
		}
	}
}

func (c *Compiler) factor(canAssign bool) {
	c.unary(canAssign)
	for c.match(token.Star, token.Slash) {
		op := c.prev
		c.unary(false)
		if op.Kind == token.Star {
			c.emitOp(OpMultiply)
		} else {
			c.emitOp(OpDivide)
		}
	}
}

func (c *Compiler) unary(canAssign bool) {
	if c.match(token.Bang, token.Minus) {
		op := c.prev
		c.unary(false)
		if op.Kind == token.Bang {
			c.emitOp(OpNot)
		} else {
			c.emitOp(OpNegate)
		}
		return
	}
	c.call(canAssign)
}

// call compiles a primary expression followed by any chain of `(args)`
// and `.name` suffixes, left to right — `a.b()(c).d` compiles as four
// suffix operations applied in sequence to the primary. Only the first
// primary in the chain ever sees canAssign=true, and only a trailing
// `.name` (never a call result) can be an assignment target.
func (c *Compiler) call(canAssign bool) {
	c.primary(canAssign)
	for {
		switch {
		case c.match(token.LeftParen):
			argCount := c.argumentList()
			c.emitOpByte(OpCall, byte(argCount))
		case c.match(token.Dot):
			name := c.consume(token.Identifier, "expect property name after '.'")
			if canAssign && c.match(token.Equal) {
				c.expression()
				c.emitOpByte(OpSetProperty, c.identifierConstant(name))
			} else {
				c.emitOpByte(OpGetProperty, c.identifierConstant(name))
			}
		default:
			return
		}
	}
}

func (c *Compiler) argumentList() int {
	count := 0
	if !c.check(token.RightParen) {
		for {
			c.expression()
			count++
			if count > maxArgs {
				c.report.Report(c.line(), "can't have more than 255 arguments")
			}
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RightParen, "expect ')' after arguments")
	return count
}

func (c *Compiler) primary(canAssign bool) {
	switch {
	case c.match(token.False):
		c.emitOp(OpFalse)
	case c.match(token.True):
		c.emitOp(OpTrue)
	case c.match(token.Nil):
		c.emitOp(OpNil)
	case c.match(token.Number):
		c.emitConstant(c.prev.Literal)
	case c.match(token.String):
		c.emitConstant(c.prev.Literal)
	case c.match(token.This):
		if !c.inClass {
			c.errorAt(c.prev, "can't use 'this' outside of a class method")
		}
		c.emitGetVariable(c.prev)
	case c.match(token.Identifier):
		c.namedVariable(c.prev, canAssign)
	case c.match(token.LeftParen):
		c.expression()
		c.consume(token.RightParen, "expect ')' after expression")
	default:
		c.errorAt(c.peek(), "expect expression")
		panic(&compileError{})
	}
}

// namedVariable compiles a bare identifier reference: a trailing `=`
// when canAssign turns it into an assignment instead of a read. It
// resolves as a local, then an upvalue, then falls back to a global —
// the same search order the tree-walk resolver encodes as a scope
// depth.
func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	if canAssign && c.match(token.Equal) {
		c.expression()
		c.emitSetVariable(name)
		return
	}
	c.emitGetVariable(name)
}

func (c *Compiler) emitGetVariable(name token.Token) {
	if slot, ok := c.resolveLocal(name.Lexeme); ok {
		c.emitOpByte(OpGetLocal, byte(slot))
		return
	}
	if slot, ok := c.resolveUpvalue(name.Lexeme); ok {
		c.emitOpByte(OpGetUpvalue, byte(slot))
		return
	}
	c.emitOpByte(OpGetGlobal, c.identifierConstant(name))
}

func (c *Compiler) emitSetVariable(name token.Token) {
	if slot, ok := c.resolveLocal(name.Lexeme); ok {
		c.emitOpByte(OpSetLocal, byte(slot))
		return
	}
	if slot, ok := c.resolveUpvalue(name.Lexeme); ok {
		c.emitOpByte(OpSetUpvalue, byte(slot))
		return
	}
	c.emitOpByte(OpSetGlobal, c.identifierConstant(name))
}

// resolveLocal searches this compiler's own locals stack, innermost
// scope first.
func (c *Compiler) resolveLocal(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				c.errorAt(c.prev, "can't read local variable in its own initializer")
			}
			return i, true
		}
	}
	return 0, false
}

// resolveUpvalue searches the chain of enclosing compilers for name,
// capturing it as a local-in-parent or an upvalue-in-parent at every
// level in between, and caching the result so the same free variable
// referenced twice reuses one upvalue slot.
func (c *Compiler) resolveUpvalue(name string) (int, bool) {
	if c.enclosing == nil {
		return 0, false
	}
	if slot, ok := c.enclosing.resolveLocal(name); ok {
		c.enclosing.locals[slot].captured = true
		return c.addUpvalue(slot, true), true
	}
	if slot, ok := c.enclosing.resolveUpvalue(name); ok {
		return c.addUpvalue(slot, false), true
	}
	return 0, false
}

func (c *Compiler) addUpvalue(index int, isLocal bool) int {
	for i, up := range c.upvalues {
		if up.Index == index && up.IsLocal == isLocal {
			return i
		}
	}
	c.upvalues = append(c.upvalues, UpvalueDef{Index: index, IsLocal: isLocal})
	return len(c.upvalues) - 1
}
