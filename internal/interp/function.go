package interp

import "github.com/loxlang/golox/internal/ast"

// Function is a closure: a declaration's parameter list and body paired
// with the environment captured at definition time. isInitializer marks
// a class's `init` method so a bare `return;` inside it still yields the
// instance rather than nil.
type Function struct {
	declaration   *ast.FunctionStmt
	closure       *Environment
	isInitializer bool
}

// NewFunction wraps declaration with the environment active when it was
// declared, capturing it for later calls (including recursive calls
// through a name bound in that very environment).
func NewFunction(declaration *ast.FunctionStmt, closure *Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

// Arity is the declared parameter count.
func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

// Bind returns a copy of f whose closure additionally defines `this` as
// instance, one scope outside the method's own parameter scope — used
// for property-get method binding (spec.md §4.4).
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.closure)
	env.Define("this", instance)
	return NewFunction(f.declaration, env, f.isInitializer)
}

// Call creates a fresh environment enclosing the closure, binds
// parameters positionally, and executes the body. A `return` inside the
// body unwinds via returnSignal; falling off the end yields nil (or the
// bound `this` for an initializer).
func (f *Function) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnclosedEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := interp.executeBlock(f.declaration.Body, env)
	if ret, ok := asReturn(err); ok {
		if f.isInitializer {
			v, _ := f.closure.GetAt(0, "this")
			return v, nil
		}
		return ret.value, nil
	}
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		v, _ := f.closure.GetAt(0, "this")
		return v, nil
	}
	return nil, nil
}

func (f *Function) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}
