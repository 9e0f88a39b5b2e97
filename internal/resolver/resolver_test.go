package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/reporter"
)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func resolve(t *testing.T, source string) (*ast.Program, map[ast.Expr]int, *reporter.Console) {
	t.Helper()
	rep := reporter.NewConsole(discardWriter{}, false)
	l := lexer.New(source, rep)
	p := parser.New(l, rep)
	prog := p.Parse()
	depths := New(rep).Resolve(prog)
	return prog, depths, rep
}

func TestResolverShadowingDepth(t *testing.T) {
	prog, depths, rep := resolve(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	assert.False(t, rep.HadError())

	block := prog.Statements[1].(*ast.BlockStmt)
	innerPrint := block.Statements[1].(*ast.PrintStmt)
	innerVar := innerPrint.Expression.(*ast.VariableExpr)
	assert.Equal(t, 0, depths[innerVar])

	outerPrint := prog.Statements[2].(*ast.PrintStmt)
	outerVar := outerPrint.Expression.(*ast.VariableExpr)
	_, annotated := depths[outerVar]
	assert.False(t, annotated, "global reference should be left unannotated")
}

func TestResolverClosureDepth(t *testing.T) {
	_, _, rep := resolve(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
	`)
	assert.False(t, rep.HadError())
}

func TestResolverSelfInitializationIsError(t *testing.T) {
	_, _, rep := resolve(t, `{ var x = x; }`)
	assert.True(t, rep.HadError())
}

func TestResolverReturnOutsideFunctionIsError(t *testing.T) {
	_, _, rep := resolve(t, `return 1;`)
	assert.True(t, rep.HadError())
}

func TestResolverReturnValueFromInitializerIsError(t *testing.T) {
	_, _, rep := resolve(t, `
		class Foo {
			init() { return 1; }
		}
	`)
	assert.True(t, rep.HadError())
}

func TestResolverThisOutsideMethodIsError(t *testing.T) {
	_, _, rep := resolve(t, `print this;`)
	assert.True(t, rep.HadError())
}

func TestResolverThisInsideMethodResolves(t *testing.T) {
	_, _, rep := resolve(t, `
		class Greeter {
			hello() { return this; }
		}
	`)
	assert.False(t, rep.HadError())
}

func TestResolverRedeclarationInSameScopeIsError(t *testing.T) {
	_, _, rep := resolve(t, `{ var a = 1; var a = 2; }`)
	assert.True(t, rep.HadError())
}

func TestResolverGlobalRedeclarationIsNotAnError(t *testing.T) {
	_, _, rep := resolve(t, `var a = 1; var a = 2;`)
	assert.False(t, rep.HadError())
}
