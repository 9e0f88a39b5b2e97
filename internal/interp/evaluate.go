package interp

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/token"
)

func (in *Interpreter) evaluate(e ast.Expr) (Value, error) {
	switch expr := e.(type) {
	case *ast.LiteralExpr:
		return expr.Value, nil

	case *ast.GroupingExpr:
		return in.evaluate(expr.Expression)

	case *ast.VariableExpr:
		return in.lookUpVariable(expr.Name, expr)

	case *ast.ThisExpr:
		return in.lookUpVariable(expr.Keyword, expr)

	case *ast.AssignExpr:
		value, err := in.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := in.depths[expr]; ok {
			in.Environment.AssignAt(distance, expr.Name.Lexeme, value)
			return value, nil
		}
		if err := in.Globals.Assign(expr.Name.Lexeme, value); err != nil {
			return nil, newRuntimeError(expr.Name.Line, "undefined variable '%s'", expr.Name.Lexeme)
		}
		return value, nil

	case *ast.LogicalExpr:
		return in.evalLogical(expr)

	case *ast.UnaryExpr:
		return in.evalUnary(expr)

	case *ast.BinaryExpr:
		return in.evalBinary(expr)

	case *ast.CallExpr:
		return in.evalCall(expr)

	case *ast.GetExpr:
		return in.evalGet(expr)

	case *ast.SetExpr:
		return in.evalSet(expr)
	}

	return nil, newRuntimeError(e.Line(), "internal error: unhandled expression %T", e)
}

func (in *Interpreter) evalLogical(expr *ast.LogicalExpr) (Value, error) {
	left, err := in.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}

	if expr.Operator.Kind == token.Or {
		if IsTruthy(left) {
			return left, nil
		}
	} else {
		if !IsTruthy(left) {
			return left, nil
		}
	}

	return in.evaluate(expr.Right)
}

func (in *Interpreter) evalUnary(expr *ast.UnaryExpr) (Value, error) {
	right, err := in.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Kind {
	case token.Bang:
		return !IsTruthy(right), nil
	case token.Minus:
		n, ok := right.(float64)
		if !ok {
			return nil, newRuntimeError(expr.Operator.Line, "operand must be a number")
		}
		return -n, nil
	}

	return nil, newRuntimeError(expr.Operator.Line, "internal error: unhandled unary operator")
}

func (in *Interpreter) evalBinary(expr *ast.BinaryExpr) (Value, error) {
	left, err := in.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	line := expr.Operator.Line
	switch expr.Operator.Kind {
	case token.Plus:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, newRuntimeError(line, "operands must be two numbers or two strings")

	case token.Minus:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(line, "operands must be numbers")
		}
		return ln - rn, nil

	case token.Star:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(line, "operands must be numbers")
		}
		return ln * rn, nil

	case token.Slash:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(line, "operands must be numbers")
		}
		if rn == 0 {
			return nil, newRuntimeError(line, "division by zero")
		}
		return ln / rn, nil

	case token.Greater:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(line, "operands must be numbers")
		}
		return ln > rn, nil

	case token.GreaterEqual:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(line, "operands must be numbers")
		}
		return ln >= rn, nil

	case token.Less:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(line, "operands must be numbers")
		}
		return ln < rn, nil

	case token.LessEqual:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(line, "operands must be numbers")
		}
		return ln <= rn, nil

	case token.EqualEqual:
		return IsEqual(left, right), nil

	case token.BangEqual:
		return !IsEqual(left, right), nil
	}

	return nil, newRuntimeError(line, "internal error: unhandled binary operator")
}

func numberOperands(left, right Value) (float64, float64, bool) {
	ln, ok := left.(float64)
	if !ok {
		return 0, 0, false
	}
	rn, ok := right.(float64)
	if !ok {
		return 0, 0, false
	}
	return ln, rn, true
}

func (in *Interpreter) evalCall(expr *ast.CallExpr) (Value, error) {
	callee, err := in.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(expr.ClosingParen.Line, "can only call functions and classes")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(expr.ClosingParen.Line, "expected %d arguments but got %d", fn.Arity(), len(args))
	}

	return fn.Call(in, args)
}

func (in *Interpreter) evalGet(expr *ast.GetExpr) (Value, error) {
	object, err := in.evaluate(expr.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*Instance)
	if !ok {
		return nil, newRuntimeError(expr.Name.Line, "only instances have properties")
	}

	v, ok := instance.Get(expr.Name.Lexeme)
	if !ok {
		return nil, newRuntimeError(expr.Name.Line, "undefined property '%s'", expr.Name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalSet(expr *ast.SetExpr) (Value, error) {
	object, err := in.evaluate(expr.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*Instance)
	if !ok {
		return nil, newRuntimeError(expr.Name.Line, "only instances have fields")
	}

	value, err := in.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}

	instance.Set(expr.Name.Lexeme, value)
	return value, nil
}
