package bytecode

// run executes instructions from the top call frame until that frame's
// OP_RETURN unwinds past the outermost (script) frame. It re-fetches
// currentFrame() on every iteration since calls push and pop frames as
// execution proceeds.
func (vm *VM) run() error {
	for {
		frame := vm.currentFrame()
		chunk := frame.closure.Fn.Chunk
		op := OpCode(chunk.Code[frame.ip])
		line := chunk.Lines[frame.ip]
		frame.ip++

		switch op {
		case OpConstant:
			idx := vm.readByte(frame)
			vm.push(chunk.Constants[idx])

		case OpNil:
			vm.push(nil)
		case OpTrue:
			vm.push(true)
		case OpFalse:
			vm.push(false)
		case OpPop:
			vm.closeUpvalues(len(vm.stack) - 1)
			vm.pop()

		case OpGetLocal:
			slot := int(vm.readByte(frame))
			vm.push(vm.stack[frame.base+slot])
		case OpSetLocal:
			slot := int(vm.readByte(frame))
			vm.stack[frame.base+slot] = vm.peek(0)

		case OpGetGlobal:
			name := chunk.Constants[vm.readByte(frame)].(string)
			v, ok := vm.globals[name]
			if !ok {
				return newRuntimeError(line, "undefined variable '%s'", name)
			}
			vm.push(v)
		case OpDefineGlobal:
			name := chunk.Constants[vm.readByte(frame)].(string)
			vm.globals[name] = vm.pop()
		case OpSetGlobal:
			name := chunk.Constants[vm.readByte(frame)].(string)
			if _, ok := vm.globals[name]; !ok {
				return newRuntimeError(line, "undefined variable '%s'", name)
			}
			vm.globals[name] = vm.peek(0)

		case OpGetUpvalue:
			slot := vm.readByte(frame)
			vm.push(vm.upvalueGet(frame.closure.Upvalues[slot]))
		case OpSetUpvalue:
			slot := vm.readByte(frame)
			vm.upvalueSet(frame.closure.Upvalues[slot], vm.peek(0))

		case OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(IsEqual(a, b))
		case OpGreater:
			if err := vm.binaryCompare(line, func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case OpLess:
			if err := vm.binaryCompare(line, func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case OpAdd:
			if err := vm.add(line); err != nil {
				return err
			}
		case OpSubtract:
			if err := vm.binaryArith(line, func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case OpMultiply:
			if err := vm.binaryArith(line, func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case OpDivide:
			b, ok := vm.peek(0).(float64)
			if !ok {
				return newRuntimeError(line, "operands must be numbers")
			}
			if b == 0 {
				return newRuntimeError(line, "division by zero")
			}
			if err := vm.binaryArith(line, func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case OpNot:
			vm.push(!IsTruthy(vm.pop()))
		case OpNegate:
			n, ok := vm.peek(0).(float64)
			if !ok {
				return newRuntimeError(line, "operand must be a number")
			}
			vm.pop()
			vm.push(-n)

		case OpPrint:
			vm.out.Write([]byte(Stringify(vm.pop()) + "\n"))

		case OpJump:
			offset := vm.readUint16(frame)
			frame.ip = offset
		case OpJumpIfFalse:
			offset := vm.readUint16(frame)
			if !IsTruthy(vm.peek(0)) {
				frame.ip = offset
			}
		case OpLoop:
			offset := vm.readUint16(frame)
			frame.ip = offset

		case OpCall:
			argCount := int(vm.readByte(frame))
			callee := vm.peek(argCount)
			if err := vm.callValue(callee, argCount, line); err != nil {
				return err
			}

		case OpGetProperty:
			name := chunk.Constants[vm.readByte(frame)].(string)
			instance, ok := vm.peek(0).(*Instance)
			if !ok {
				return newRuntimeError(line, "only instances have properties")
			}
			if v, ok := instance.Fields[name]; ok {
				vm.pop()
				vm.push(v)
				break
			}
			if method, ok := instance.Class.Methods[name]; ok {
				vm.pop()
				vm.push(&BoundMethod{Receiver: instance, Method: method})
				break
			}
			return newRuntimeError(line, "undefined property '%s'", name)

		case OpSetProperty:
			name := chunk.Constants[vm.readByte(frame)].(string)
			value := vm.pop()
			instance, ok := vm.pop().(*Instance)
			if !ok {
				return newRuntimeError(line, "only instances have fields")
			}
			instance.Fields[name] = value
			vm.push(value)

		case OpClass:
			name := chunk.Constants[vm.readByte(frame)].(string)
			vm.push(&Class{Name: name, Methods: make(map[string]*Closure)})

		case OpMethod:
			name := chunk.Constants[vm.readByte(frame)].(string)
			method := vm.pop().(*Closure)
			class := vm.peek(0).(*Class)
			class.Methods[name] = method

		case OpClosure:
			fn := chunk.Constants[vm.readByte(frame)].(*Function)
			closure := &Closure{Fn: fn, Upvalues: make([]*upvalue, len(fn.UpvalueDefs))}
			for i := range fn.UpvalueDefs {
				isLocal := vm.readByte(frame) == 1
				index := int(vm.readByte(frame))
				if isLocal {
					closure.Upvalues[i] = vm.captureUpvalue(frame.base + index)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
			vm.push(closure)

		case OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.base)
			vm.stack = vm.stack[:frame.base]
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.push(result)

		default:
			return newRuntimeError(line, "internal error: unknown opcode %d", byte(op))
		}
	}
}

func (vm *VM) readByte(frame *callFrame) byte {
	b := frame.closure.Fn.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readUint16(frame *callFrame) int {
	v := frame.closure.Fn.Chunk.ReadUint16(frame.ip)
	frame.ip += 2
	return v
}

func (vm *VM) add(line int) error {
	b, a := vm.peek(0), vm.peek(1)
	if an, ok := a.(float64); ok {
		if bn, ok := b.(float64); ok {
			vm.pop()
			vm.pop()
			vm.push(an + bn)
			return nil
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			vm.pop()
			vm.pop()
			vm.push(as + bs)
			return nil
		}
	}
	return newRuntimeError(line, "operands must be two numbers or two strings")
}

func (vm *VM) binaryArith(line int, f func(a, b float64) float64) error {
	b, ok := vm.peek(0).(float64)
	if !ok {
		return newRuntimeError(line, "operands must be numbers")
	}
	a, ok := vm.peek(1).(float64)
	if !ok {
		return newRuntimeError(line, "operands must be numbers")
	}
	vm.pop()
	vm.pop()
	vm.push(f(a, b))
	return nil
}

func (vm *VM) binaryCompare(line int, f func(a, b float64) bool) error {
	b, ok := vm.peek(0).(float64)
	if !ok {
		return newRuntimeError(line, "operands must be numbers")
	}
	a, ok := vm.peek(1).(float64)
	if !ok {
		return newRuntimeError(line, "operands must be numbers")
	}
	vm.pop()
	vm.pop()
	vm.push(f(a, b))
	return nil
}

// callValue dispatches a call expression's callee to the right calling
// convention: a closure pushes a new frame, a native function runs
// immediately, a class constructs an instance (and runs `init` if
// present), and a bound method rebinds the receiver into slot 0 before
// running like any other closure call.
func (vm *VM) callValue(callee Value, argCount int, line int) error {
	switch c := callee.(type) {
	case *Closure:
		return vm.callClosure(c, argCount, line)

	case NativeFn:
		if argCount != c.Arity {
			return newRuntimeError(line, "expected %d arguments but got %d", c.Arity, argCount)
		}
		args := make([]Value, argCount)
		copy(args, vm.stack[len(vm.stack)-argCount:])
		vm.stack = vm.stack[:len(vm.stack)-argCount-1]
		result, err := c.Fn(args)
		if err != nil {
			return newRuntimeError(line, "%s", err.Error())
		}
		vm.push(result)
		return nil

	case *Class:
		calleeSlot := len(vm.stack) - argCount - 1
		instance := NewInstance(c)
		vm.stack[calleeSlot] = instance
		if init, ok := c.Methods["init"]; ok {
			return vm.callClosure(init, argCount, line)
		}
		if argCount != 0 {
			return newRuntimeError(line, "expected 0 arguments but got %d", argCount)
		}
		return nil

	case *BoundMethod:
		calleeSlot := len(vm.stack) - argCount - 1
		vm.stack[calleeSlot] = c.Receiver
		return vm.callClosure(c.Method, argCount, line)

	default:
		return newRuntimeError(line, "can only call functions and classes")
	}
}

func (vm *VM) callClosure(closure *Closure, argCount int, line int) error {
	if argCount != closure.Fn.Arity {
		return newRuntimeError(line, "expected %d arguments but got %d", closure.Fn.Arity, argCount)
	}
	if len(vm.frames) >= maxFrames {
		return newRuntimeError(line, "stack overflow")
	}
	base := len(vm.stack) - argCount - 1
	vm.frames = append(vm.frames, callFrame{closure: closure, base: base})
	return nil
}

// captureUpvalue returns the open upvalue already tracking stackIdx, or
// creates one — so two closures capturing the same enclosing local
// share one upvalue and observe each other's writes.
func (vm *VM) captureUpvalue(stackIdx int) *upvalue {
	for _, up := range vm.openUpvals {
		if up.isOpen && up.stackIdx == stackIdx {
			return up
		}
	}
	up := &upvalue{stackIdx: stackIdx, isOpen: true}
	vm.openUpvals = append(vm.openUpvals, up)
	return up
}

// closeUpvalues lifts the value out of the stack for every open upvalue
// at or above minIdx, right before those slots are discarded (by a
// block's OP_POP or a call frame's OP_RETURN).
func (vm *VM) closeUpvalues(minIdx int) {
	kept := vm.openUpvals[:0]
	for _, up := range vm.openUpvals {
		if up.isOpen && up.stackIdx >= minIdx {
			up.closed = vm.stack[up.stackIdx]
			up.isOpen = false
			continue
		}
		kept = append(kept, up)
	}
	vm.openUpvals = kept
}

func (vm *VM) upvalueGet(up *upvalue) Value {
	if up.isOpen {
		return vm.stack[up.stackIdx]
	}
	return up.closed
}

func (vm *VM) upvalueSet(up *upvalue, v Value) {
	if up.isOpen {
		vm.stack[up.stackIdx] = v
		return
	}
	up.closed = v
}
