package bytecode

import (
	"fmt"
	"io"
)

// Disassembler renders a chunk's bytecode as human-readable text, one
// instruction per line, for the `blox disasm` debug subcommand.
type Disassembler struct {
	writer io.Writer
	chunk  *Chunk
}

// NewDisassembler creates a disassembler for chunk writing to w.
func NewDisassembler(chunk *Chunk, w io.Writer) *Disassembler {
	return &Disassembler{writer: w, chunk: chunk}
}

// Disassemble prints the whole chunk: a header, then every instruction
// in order. The constant pool is not listed on its own; a constant is
// shown beside the instruction that uses it. Nested function constants are
// disassembled recursively right after the OP_CLOSURE that wraps them.
func (d *Disassembler) Disassemble() {
	name := d.chunk.Name
	if name == "" {
		name = "<script>"
	}
	fmt.Fprintf(d.writer, "== %s ==\n", name)

	offset := 0
	for offset < len(d.chunk.Code) {
		offset = d.disassembleInstruction(offset)
	}
}

func (d *Disassembler) disassembleInstruction(offset int) int {
	op := OpCode(d.chunk.Code[offset])
	line := d.chunk.Lines[offset]
	fmt.Fprintf(d.writer, "%04d %4d  %-18s", offset, line, op)

	switch op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal,
		OpGetProperty, OpSetProperty, OpClass, OpMethod:
		idx := d.chunk.Code[offset+1]
		fmt.Fprintf(d.writer, "%4d '%s'\n", idx, Stringify(d.chunk.Constants[idx]))
		return offset + 2

	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		slot := d.chunk.Code[offset+1]
		fmt.Fprintf(d.writer, "%4d\n", slot)
		return offset + 2

	case OpJump, OpJumpIfFalse, OpLoop:
		target := d.chunk.ReadUint16(offset + 1)
		fmt.Fprintf(d.writer, "%4d -> %d\n", offset, target)
		return offset + 3

	case OpClosure:
		idx := d.chunk.Code[offset+1]
		constant := d.chunk.Constants[idx]
		fmt.Fprintf(d.writer, "%4d %s\n", idx, Stringify(constant))
		next := offset + 2
		if fn, ok := constant.(*Function); ok {
			for range fn.UpvalueDefs {
				isLocal := d.chunk.Code[next]
				index := d.chunk.Code[next+1]
				kind := "upvalue"
				if isLocal == 1 {
					kind = "local"
				}
				fmt.Fprintf(d.writer, "%04d      |                     %s %d\n", next, kind, index)
				next += 2
			}
			fmt.Fprintln(d.writer)
			NewDisassembler(fn.Chunk, d.writer).Disassemble()
		}
		return next

	default:
		fmt.Fprintln(d.writer)
		return offset + 1
	}
}
