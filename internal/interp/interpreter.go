// Package interp implements the tree-walking interpreter: it executes an
// *ast.Program directly against a chain of lexically-scoped
// Environments, using the resolver's depth map to jump straight to a
// variable's binding instead of searching scope by scope.
package interp

import (
	"fmt"
	"io"
	"time"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/token"
)

// Interpreter executes a resolved AST. Globals is the root of the
// Environment chain; Environment is whichever scope is active at any
// given point in the walk.
type Interpreter struct {
	Globals     *Environment
	Environment *Environment
	depths      map[ast.Expr]int
	out         io.Writer
	report      reporter.Reporter
}

// New creates an Interpreter that writes `print` output to out and
// reports runtime errors through r. depths is the resolver's output;
// a nil map is treated as empty (every reference resolves as global).
func New(out io.Writer, r reporter.Reporter, depths map[ast.Expr]int) *Interpreter {
	globals := NewEnvironment()
	registerNatives(globals)
	if depths == nil {
		depths = map[ast.Expr]int{}
	}
	return &Interpreter{
		Globals:     globals,
		Environment: globals,
		depths:      depths,
		out:         out,
		report:      r,
	}
}

// SetDepths replaces the resolver depth map consulted by variable
// lookups. The REPL calls this before each line: every line is parsed
// and resolved independently, but runs against the same persistent
// Interpreter so that globals defined on one line are visible on the
// next.
func (in *Interpreter) SetDepths(depths map[ast.Expr]int) {
	if depths == nil {
		depths = map[ast.Expr]int{}
	}
	in.depths = depths
}

// registerNatives installs the toolchain's one native function, `clock`,
// the Crafting Interpreters book's canonical wall-clock builtin.
func registerNatives(globals *Environment) {
	globals.Define("clock", nativeFn{
		arity: 0,
		fn: func(*Interpreter, []Value) (Value, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})
}

type nativeFn struct {
	fn    func(*Interpreter, []Value) (Value, error)
	arity int
}

func (n nativeFn) Arity() int { return n.arity }
func (n nativeFn) Call(interp *Interpreter, args []Value) (Value, error) {
	return n.fn(interp, args)
}
func (n nativeFn) String() string { return "<native fn>" }

// Run executes every top-level statement in order. It stops and reports
// at the first runtime error, per spec.md §7.
func (in *Interpreter) Run(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		if err := in.execute(stmt); err != nil {
			in.reportRuntimeError(err)
			return
		}
	}
}

func (in *Interpreter) reportRuntimeError(err error) {
	if rerr, ok := err.(*runtimeError); ok {
		in.report.Report(rerr.line, rerr.message)
		return
	}
	in.report.Report(0, err.Error())
}

func (in *Interpreter) execute(s ast.Stmt) error {
	switch stmt := s.(type) {
	case *ast.ExpressionStmt:
		_, err := in.evaluate(stmt.Expression)
		return err

	case *ast.PrintStmt:
		v, err := in.evaluate(stmt.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, Stringify(v))
		return nil

	case *ast.VarStmt:
		var value Value
		if stmt.Initializer != nil {
			v, err := in.evaluate(stmt.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		in.Environment.Define(stmt.Name.Lexeme, value)
		return nil

	case *ast.BlockStmt:
		return in.executeBlock(stmt.Statements, NewEnclosedEnvironment(in.Environment))

	case *ast.IfStmt:
		cond, err := in.evaluate(stmt.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return in.execute(stmt.Then)
		}
		if stmt.Else != nil {
			return in.execute(stmt.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := in.evaluate(stmt.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := in.execute(stmt.Body); err != nil {
				return err
			}
		}

	case *ast.FunctionStmt:
		fn := NewFunction(stmt, in.Environment, false)
		in.Environment.Define(stmt.Name.Lexeme, fn)
		return nil

	case *ast.ReturnStmt:
		var value Value
		if stmt.Value != nil {
			v, err := in.evaluate(stmt.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}

	case *ast.ClassStmt:
		return in.executeClass(stmt)
	}

	return fmt.Errorf("internal error: unhandled statement %T", s)
}

func (in *Interpreter) executeClass(stmt *ast.ClassStmt) error {
	in.Environment.Define(stmt.Name.Lexeme, nil)

	methodEnv := in.Environment
	methods := make(map[string]*Function, len(stmt.Methods))
	for _, m := range stmt.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, methodEnv, m.Name.Lexeme == "init")
	}

	class := NewClass(stmt.Name.Lexeme, methods)
	return in.Environment.Assign(stmt.Name.Lexeme, class)
}

// executeBlock runs statements against env, restoring the previously
// active environment on every exit path — normal completion, an
// in-flight return, or a runtime error — matching spec.md §5's release
// discipline.
func (in *Interpreter) executeBlock(statements []ast.Stmt, env *Environment) error {
	previous := in.Environment
	in.Environment = env
	defer func() { in.Environment = previous }()

	for _, stmt := range statements {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (Value, error) {
	if distance, ok := in.depths[expr]; ok {
		if v, ok := in.Environment.GetAt(distance, name.Lexeme); ok {
			return v, nil
		}
		return nil, newRuntimeError(name.Line, "undefined variable '%s'", name.Lexeme)
	}
	if v, ok := in.Globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return nil, newRuntimeError(name.Line, "undefined variable '%s'", name.Lexeme)
}
