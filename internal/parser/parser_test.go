package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/reporter"
)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func parse(t *testing.T, source string) (*ast.Program, *reporter.Console) {
	t.Helper()
	rep := reporter.NewConsole(discardWriter{}, false)
	l := lexer.New(source, rep)
	p := New(l, rep)
	return p.Parse(), rep
}

func TestParserArithmeticPrecedence(t *testing.T) {
	prog, rep := parse(t, "print 1 + 2 * 3;")
	assert.False(t, rep.HadError())
	assert.Len(t, prog.Statements, 1)

	stmt := prog.Statements[0].(*ast.PrintStmt)
	bin := stmt.Expression.(*ast.BinaryExpr)
	assert.Equal(t, "+", bin.Operator.Lexeme)
	assert.Equal(t, 1.0, bin.Left.(*ast.LiteralExpr).Value)

	rhs := bin.Right.(*ast.BinaryExpr)
	assert.Equal(t, "*", rhs.Operator.Lexeme)
}

func TestParserGroupingOverridesPrecedence(t *testing.T) {
	prog, rep := parse(t, "print (1 + 2) * 3;")
	assert.False(t, rep.HadError())
	stmt := prog.Statements[0].(*ast.PrintStmt)
	bin := stmt.Expression.(*ast.BinaryExpr)
	assert.Equal(t, "*", bin.Operator.Lexeme)
	_, isGroup := bin.Left.(*ast.GroupingExpr)
	assert.True(t, isGroup)
}

func TestParserAssignmentIsRightAssociative(t *testing.T) {
	prog, rep := parse(t, "var a; var b; var c; a = b = c;")
	assert.False(t, rep.HadError())
	exprStmt := prog.Statements[3].(*ast.ExpressionStmt)
	assign := exprStmt.Expression.(*ast.AssignExpr)
	assert.Equal(t, "a", assign.Name.Lexeme)
	inner := assign.Value.(*ast.AssignExpr)
	assert.Equal(t, "b", inner.Name.Lexeme)
}

func TestParserInvalidAssignmentTargetIsError(t *testing.T) {
	_, rep := parse(t, "1 = 2;")
	assert.True(t, rep.HadError())
}

func TestParserForDesugarsToWhile(t *testing.T) {
	prog, rep := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	assert.False(t, rep.HadError())

	outer := prog.Statements[0].(*ast.BlockStmt)
	assert.Len(t, outer.Statements, 2)
	_, isVar := outer.Statements[0].(*ast.VarStmt)
	assert.True(t, isVar)

	loop := outer.Statements[1].(*ast.WhileStmt)
	_, hasCond := loop.Condition.(*ast.BinaryExpr)
	assert.True(t, hasCond)

	body := loop.Body.(*ast.BlockStmt)
	assert.Len(t, body.Statements, 2)
}

func TestParserForMissingConditionBecomesTrue(t *testing.T) {
	prog, rep := parse(t, "for (;;) print 1;")
	assert.False(t, rep.HadError())
	outer := prog.Statements[0].(*ast.BlockStmt)
	loop := outer.Statements[0].(*ast.WhileStmt)
	lit := loop.Condition.(*ast.LiteralExpr)
	assert.Equal(t, true, lit.Value)
}

func TestParserCallChaining(t *testing.T) {
	prog, rep := parse(t, "a.b()(c).d;")
	assert.False(t, rep.HadError())
	stmt := prog.Statements[0].(*ast.ExpressionStmt)

	get := stmt.Expression.(*ast.GetExpr)
	assert.Equal(t, "d", get.Name.Lexeme)

	call := get.Object.(*ast.CallExpr)
	assert.Len(t, call.Args, 1)
}

func TestParserFunctionDeclaration(t *testing.T) {
	prog, rep := parse(t, "fun add(a, b) { return a + b; }")
	assert.False(t, rep.HadError())
	fn := prog.Statements[0].(*ast.FunctionStmt)
	assert.Equal(t, "add", fn.Name.Lexeme)
	assert.Len(t, fn.Params, 2)
	assert.Len(t, fn.Body, 1)
}

func TestParserClassDeclaration(t *testing.T) {
	prog, rep := parse(t, `class Greeter {
		init(name) { this.name = name; }
		hello() { return "hi " + this.name; }
	}`)
	assert.False(t, rep.HadError())
	cls := prog.Statements[0].(*ast.ClassStmt)
	assert.Equal(t, "Greeter", cls.Name.Lexeme)
	assert.Len(t, cls.Methods, 2)
}

func TestParserErrorRecoverySkipsOneDeclaration(t *testing.T) {
	prog, rep := parse(t, "var = 1; var ok = 2;")
	assert.True(t, rep.HadError())
	// The broken declaration is discarded; parsing resumes at "var ok".
	assert.Len(t, prog.Statements, 1)
	ok := prog.Statements[0].(*ast.VarStmt)
	assert.Equal(t, "ok", ok.Name.Lexeme)
}
