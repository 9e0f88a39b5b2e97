// Package resolver implements the static scope-resolution pass that runs
// between parsing and tree-walk interpretation. It annotates every
// variable and `this` reference with the number of enclosing non-global
// scopes between the reference and its binding, so the interpreter can
// jump straight to the right Environment instead of searching.
package resolver

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/token"
)

// functionKind tracks what kind of function body the resolver is
// currently inside, for validating `return` and `this`.
type functionKind int

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
)

// scope maps a declared name to whether its initializer has finished:
// false means "declared" (visible but not yet safe to read), true means
// "defined".
type scope map[string]bool

// Resolver walks the AST once, maintaining a stack of block-local
// scopes. The outermost (global) scope is implicit and never pushed.
type Resolver struct {
	report      reporter.Reporter
	depths      map[ast.Expr]int
	scopes      []scope
	currentFn   functionKind
	currentCls  classKind
}

// New creates a Resolver reporting errors through r.
func New(r reporter.Reporter) *Resolver {
	return &Resolver{report: r, depths: make(map[ast.Expr]int)}
}

// Resolve runs the pass over prog and returns the resolution map: for
// each VariableExpr/ThisExpr/AssignExpr whose binding is not global, the
// number of enclosing scopes to climb to find it.
func (r *Resolver) Resolve(prog *ast.Program) map[ast.Expr]int {
	r.resolveStmts(prog.Statements)
	return r.depths
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(stmt.Expression)
	case *ast.PrintStmt:
		r.resolveExpr(stmt.Expression)
	case *ast.VarStmt:
		r.declare(stmt.Name)
		if stmt.Initializer != nil {
			r.resolveExpr(stmt.Initializer)
		}
		r.define(stmt.Name.Lexeme)
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(stmt.Statements)
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Body)
	case *ast.FunctionStmt:
		r.declare(stmt.Name)
		r.define(stmt.Name.Lexeme)
		r.resolveFunction(stmt, fnFunction)
	case *ast.ReturnStmt:
		if r.currentFn == fnNone {
			r.report.Report(stmt.Keyword.Line, "can't return from top-level code")
		}
		if stmt.Value != nil {
			if r.currentFn == fnInitializer {
				r.report.Report(stmt.Keyword.Line, "can't return a value from an initializer")
			}
			r.resolveExpr(stmt.Value)
		}
	case *ast.ClassStmt:
		r.resolveClass(stmt)
	}
}

func (r *Resolver) resolveClass(stmt *ast.ClassStmt) {
	enclosingClass := r.currentCls
	r.currentCls = classClass
	defer func() { r.currentCls = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name.Lexeme)

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range stmt.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt, kind functionKind) {
	enclosingFn := r.currentFn
	r.currentFn = kind
	defer func() { r.currentFn = enclosingFn }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][expr.Name.Lexeme]; ok && !defined {
				r.report.Report(expr.Name.Line, "can't read local variable in its own initializer")
			}
		}
		r.resolveLocal(expr, expr.Name.Lexeme)
	case *ast.AssignExpr:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name.Lexeme)
	case *ast.BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.GroupingExpr:
		r.resolveExpr(expr.Expression)
	case *ast.LiteralExpr:
		// nothing to resolve
	case *ast.UnaryExpr:
		r.resolveExpr(expr.Right)
	case *ast.CallExpr:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case *ast.GetExpr:
		r.resolveExpr(expr.Object)
	case *ast.SetExpr:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	case *ast.ThisExpr:
		if r.currentCls == classNone {
			r.report.Report(expr.Keyword.Line, "can't use 'this' outside of a class method")
			return
		}
		r.resolveLocal(expr, "this")
	}
}

// resolveLocal walks the scope stack top-down; distance d means the
// binding is d enclosing scopes away from the innermost one. A name not
// found in any tracked scope resolves against globals and is left
// unannotated.
func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.depths[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(tok token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	current := r.scopes[len(r.scopes)-1]
	if _, ok := current[tok.Lexeme]; ok {
		r.report.Report(tok.Line, "already a variable named '"+tok.Lexeme+"' in this scope")
	}
	current[tok.Lexeme] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}
