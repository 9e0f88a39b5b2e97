// Package bytecode implements the single-pass compiler and stack-based
// virtual machine: the "blox" pipeline. Unlike the tree-walking
// interpreter, it never builds an AST — the compiler emits instructions
// directly while it reads the token stream once.
package bytecode

import "fmt"

// OpCode identifies a bytecode instruction. Every instruction is at
// least one byte (the opcode itself); some carry a one-byte operand
// (a constant/local/global slot or upvalue index) and jumps carry a
// two-byte little-endian absolute-offset operand. This variable-length
// encoding keeps a chunk's Code a plain []byte rather than a fixed-width
// instruction struct array.
type OpCode byte

const (
	OpConstant OpCode = iota // [const index:1]  push constants[index]
	OpNil                    // push nil
	OpTrue                   // push true
	OpFalse                  // push false
	OpPop                    // discard top of stack

	OpGetLocal    // [slot:1]    push locals[slot]
	OpSetLocal    // [slot:1]    locals[slot] = peek(0), value left on stack
	OpGetGlobal   // [const:1]   push globals[name]
	OpDefineGlobal // [const:1]  globals[name] = pop()
	OpSetGlobal   // [const:1]   globals[name] = peek(0), error if undefined
	OpGetUpvalue  // [slot:1]    push the enclosing call's captured local
	OpSetUpvalue  // [slot:1]    write the enclosing call's captured local

	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate

	OpPrint

	OpJump        // [offset:2] unconditional absolute jump
	OpJumpIfFalse // [offset:2] jump if the top of stack is falsey, does not pop
	OpLoop        // [offset:2] unconditional absolute jump backward

	OpCall // [argCount:1] call the callable argCount below the top of stack

	OpGetProperty // [const:1] pop instance, push instance.name
	OpSetProperty // [const:1] pop value, pop instance, set instance.name=value, push value
	OpClass       // [const:1] push a new empty class named constants[const]
	OpMethod      // [const:1] pop a function, bind it as a method on the class below it

	OpClosure // [const:1][isLocal:1 upvalIndex:1]* wrap a function constant as a closure, capturing upvalues

	OpReturn // return the top of stack from the current call
)

var opcodeNames = [...]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpClass:        "OP_CLASS",
	OpMethod:       "OP_METHOD",
	OpClosure:      "OP_CLOSURE",
	OpReturn:       "OP_RETURN",
}

func (op OpCode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}
