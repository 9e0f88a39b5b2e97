package bytecode

import (
	"fmt"
	"io"
	"time"

	"github.com/loxlang/golox/internal/reporter"
)

const maxFrames = 256
const stackMax = maxFrames * maxLocals

// runtimeError is a VM fault: wrong operand type, divide by zero,
// undefined name, non-callable callee, arity mismatch, or non-instance
// property access — the same catalogue of faults the tree-walk
// interpreter's runtimeError reports, now raised from bytecode dispatch
// instead of a tree walk.
type runtimeError struct {
	message string
	line    int
}

func (e *runtimeError) Error() string { return fmt.Sprintf("[line %d] %s", e.line, e.message) }

func newRuntimeError(line int, format string, args ...interface{}) *runtimeError {
	return &runtimeError{line: line, message: fmt.Sprintf(format, args...)}
}

// callFrame is one active call: the closure being executed, an
// instruction pointer into its chunk, and the stack index its locals
// start at.
type callFrame struct {
	closure *Closure
	ip      int
	base    int
}

// VM is the stack machine that executes compiled chunks. Globals
// persists across calls to Interpret within a REPL session, the same way the
// tree-walk Interpreter's Globals environment does.
type VM struct {
	stack       []Value
	frames      []callFrame
	globals     map[string]Value
	openUpvals  []*upvalue
	out         io.Writer
	report      reporter.Reporter
}

// New creates a VM that writes `print` output to out and reports
// runtime faults through r.
func New(out io.Writer, r reporter.Reporter) *VM {
	vm := &VM{
		stack:   make([]Value, 0, 256),
		globals: make(map[string]Value),
		out:     out,
		report:  r,
	}
	vm.defineNatives()
	return vm
}

func (vm *VM) defineNatives() {
	vm.globals["clock"] = NativeFn{
		Name:  "clock",
		Arity: 0,
		Fn: func([]Value) (Value, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	}
}

// Interpret compiles source and, if compilation succeeded, runs it as
// the top-level script.
func (vm *VM) Interpret(source string) {
	fn := Compile(source, vm.report)
	if hadErr, ok := vm.report.(interface{ HadError() bool }); ok && hadErr.HadError() {
		return
	}
	closure := &Closure{Fn: fn}
	vm.push(closure)
	vm.frames = append(vm.frames, callFrame{closure: closure, base: 0})

	if err := vm.run(); err != nil {
		vm.reportRuntimeError(err)
		// Drop the aborted run's frames and stack so the next Interpret
		// starts from an empty stack with only globals carried over.
		vm.stack = vm.stack[:0]
		vm.frames = vm.frames[:0]
		vm.openUpvals = nil
	}
}

func (vm *VM) reportRuntimeError(err error) {
	if rerr, ok := err.(*runtimeError); ok {
		vm.report.Report(rerr.line, rerr.message)
		return
	}
	vm.report.Report(0, err.Error())
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) currentFrame() *callFrame {
	return &vm.frames[len(vm.frames)-1]
}
