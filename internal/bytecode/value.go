package bytecode

import (
	"fmt"
	"strconv"
)

// Value is any runtime value the VM's stack holds: nil, bool, float64,
// string, *Function, *Closure, *Class, *Instance, *BoundMethod, or
// NativeFn.
type Value interface{}

// Function is a compiled function body: its own chunk, arity, and the
// set of upvalues it captures from enclosing scopes. The compiler
// produces these as constants; the VM never sees a bare *Function on
// the stack, only a *Closure wrapping one.
type Function struct {
	Chunk       *Chunk
	Name        string
	Arity       int
	UpvalueDefs []UpvalueDef
}

// UpvalueDef tells a closure, at the moment it is created, where to find
// one of its captured variables: a slot in the immediately enclosing
// call frame (IsLocal) or an upvalue already captured by that frame.
type UpvalueDef struct {
	Index   int
	IsLocal bool
}

func (f *Function) String() string {
	if f.Name == "" {
		return "<script>"
	}
	return "<fn " + f.Name + ">"
}

// upvalue is a shared reference to a stack slot (open) or a value that
// has since been lifted off the stack (closed), once the frame that
// owned the slot returns. It addresses the slot by index rather than by
// Go pointer because vm.stack is a slice that can reallocate its
// backing array as it grows; an index stays valid across that, a raw
// *Value into the old array would not.
type upvalue struct {
	closed   Value
	stackIdx int
	isOpen   bool
}

// Closure pairs a compiled Function with the upvalues it captured at
// creation time, mirroring the OP_CLOSURE instruction that built it.
type Closure struct {
	Fn       *Function
	Upvalues []*upvalue
}

func (c *Closure) String() string { return c.Fn.String() }

// NativeFn is a builtin callable implemented in Go, such as clock().
type NativeFn struct {
	Fn    func(args []Value) (Value, error)
	Name  string
	Arity int
}

func (n NativeFn) String() string { return "<native fn>" }

// Class is a runtime class value: a name and its compiled method table.
// As in the tree-walking pipeline, inheritance is out of scope.
type Class struct {
	Name    string
	Methods map[string]*Closure
}

func (c *Class) String() string { return "<class " + c.Name + ">" }

// Instance is an object: a class pointer and its own field table.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (i *Instance) String() string { return "<instance " + i.Class.Name + ">" }

// BoundMethod is the value produced by reading a method off an instance:
// the method closure paired with the receiver it was read from.
type BoundMethod struct {
	Receiver *Instance
	Method   *Closure
}

func (b *BoundMethod) String() string { return b.Method.String() }

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

// IsEqual implements Lox's `==`: different dynamic types are never
// equal; numbers/strings/bools compare by value; everything else
// compares by identity.
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
	case NativeFn:
		bv, ok := b.(NativeFn)
		return ok && av.Name == bv.Name
	default:
		return a == b
	}
}

// Stringify renders v the way `print` does.
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
	case *Closure:
		return val.String()
	case *Class:
		return val.String()
	case *Instance:
		return val.String()
	case *BoundMethod:
		return val.String()
	case NativeFn:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
