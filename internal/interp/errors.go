package interp

import "fmt"

// runtimeError is a Lox runtime fault: wrong operand type, divide by
// zero, undefined name, non-callable callee, arity mismatch, or
// non-instance property access (spec.md §7's runtime error rows). The
// top-level Run loop reports it and aborts the program.
type runtimeError struct {
	message string
	line    int
}

func (e *runtimeError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.line, e.message)
}

func newRuntimeError(line int, format string, args ...interface{}) *runtimeError {
	return &runtimeError{line: line, message: fmt.Sprintf(format, args...)}
}

// returnSignal is how a `return` statement unwinds out of the current
// call: it travels up through the ordinary `error` return values of
// execute (an abort-and-catch discipline scoped to Function.Call,
// matching spec.md §5's non-local-exit requirement) without resorting
// to panic/recover.
type returnSignal struct {
	value Value
}

func (r *returnSignal) Error() string { return "return" }

func asReturn(err error) (*returnSignal, bool) {
	r, ok := err.(*returnSignal)
	return r, ok
}
