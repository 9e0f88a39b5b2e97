package interp

import (
	"fmt"
	"strconv"
)

// Value is any Lox runtime value: nil, bool, float64, string, *Function,
// *Class, *Instance, or the native clock function (nativeFn). Go's
// interface{} stands in for the tagged union
// spec.md §3 describes — the dynamic type IS the tag.
type Value interface{}

// Callable is implemented by anything invocable from a Lox call
// expression: user-defined functions/closures, classes (whose call
// constructs an instance), and native functions.
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
	String() string
}

// IsTruthy implements Lox's truthiness rule: nil and false are false,
// everything else is true.
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual implements Lox's `==` rule: values of different dynamic types
// are never equal; numbers compare by IEEE equality; strings and bools
// by value; callables and instances by identity (the pointer IS the
// identity, so plain `==` on the unwrapped Go value already does this).
func IsEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	default:
		return false
	}
}

// Stringify renders v the way `print` does: nil/bool literally, numbers
// in default double formatting (no trailing ".0" for integral values),
// strings verbatim, callables as "<fn name>"/"<class name>", instances
// as "<instance Classname>".
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case string:
		return val
	case *Function:
		return val.String()
	case *Class:
		return val.String()
	case *Instance:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
