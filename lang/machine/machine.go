package machine

import (
	"fmt"
	"math"

	"github.com/mna/izi/lang/compiler"
)

// run pushes closure as the first call frame and drives the dispatch loop
// until the call-frame stack returns to zero, or a runtime error aborts
// execution.
func (th *Thread) run(closure *Closure) error {
	th.push(closure)
	if err := th.call(closure, 0); err != nil {
		return th.runtimeError(err)
	}

	if err := th.loop(); err != nil {
		return th.runtimeError(err)
	}
	return nil
}

// loop is the single dispatch loop: it reads one opcode from the current
// top frame per iteration, consumes its operand bytes, and executes it.
// Every opcode handler that can fail returns its error directly, which ends
// loop early.
func (th *Thread) loop() error {
	for {
		fr := &th.frames[th.frameCnt-1]
		code := fr.closure.Fn.Proto.Chunk.Code
		op := compiler.Opcode(code[fr.ip])
		fr.ip++

		switch op {
		case compiler.CONSTANT:
			idx := code[fr.ip]
			fr.ip++
			th.push(th.constantValue(fr, idx))

		case compiler.NIL:
			th.push(None)
		case compiler.TRUE:
			th.push(True)
		case compiler.FALSE:
			th.push(False)

		case compiler.POP:
			th.pop()
		case compiler.DUP:
			th.push(th.peek(0))

		case compiler.GET_LOCAL:
			slot := code[fr.ip]
			fr.ip++
			th.push(th.stack[fr.slots+int(slot)])

		case compiler.SET_LOCAL:
			slot := code[fr.ip]
			fr.ip++
			th.stack[fr.slots+int(slot)] = th.peek(0)

		case compiler.GET_GLOBAL:
			idx := code[fr.ip]
			fr.ip++
			name := th.constantValue(fr, idx).(String)
			v, ok := th.globals.Get(string(name))
			if !ok {
				return fmt.Errorf("Undefined variable '%s'.", name)
			}
			th.push(v)

		case compiler.DEFINE_GLOBAL:
			idx := code[fr.ip]
			fr.ip++
			name := th.constantValue(fr, idx).(String)
			th.globals.Put(string(name), th.pop())

		case compiler.SET_GLOBAL:
			idx := code[fr.ip]
			fr.ip++
			name := string(th.constantValue(fr, idx).(String))
			if _, ok := th.globals.Get(name); !ok {
				return fmt.Errorf("Undefined variable '%s'.", name)
			}
			th.globals.Put(name, th.peek(0))

		case compiler.GET_UPVALUE:
			slot := code[fr.ip]
			fr.ip++
			th.push(fr.closure.Upvalues[slot].Get())

		case compiler.SET_UPVALUE:
			slot := code[fr.ip]
			fr.ip++
			fr.closure.Upvalues[slot].Set(th.peek(0))

		case compiler.GET_PROPERTY:
			idx := code[fr.ip]
			fr.ip++
			inst, ok := th.peek(0).(*Instance)
			if !ok {
				return fmt.Errorf("Only instances have properties.")
			}
			name := string(th.constantValue(fr, idx).(String))
			if v, ok := inst.Fields.Get(name); ok {
				th.pop()
				th.push(v)
				break
			}
			method, ok := inst.Class.FindMethod(name)
			if !ok {
				return fmt.Errorf("Undefined property '%s'.", name)
			}
			th.pop()
			th.push(&BoundMethod{Receiver: inst, Method: method})

		case compiler.SET_PROPERTY:
			idx := code[fr.ip]
			fr.ip++
			inst, ok := th.peek(1).(*Instance)
			if !ok {
				return fmt.Errorf("Only instances have fields.")
			}
			name := string(th.constantValue(fr, idx).(String))
			v := th.peek(0)
			inst.Fields.Put(name, v)
			th.pop()
			th.pop()
			th.push(v)

		case compiler.GET_SUPER:
			idx := code[fr.ip]
			fr.ip++
			name := string(th.constantValue(fr, idx).(String))
			super := th.pop().(*Class)
			receiver := th.pop()
			method, ok := super.FindMethod(name)
			if !ok {
				return fmt.Errorf("Undefined property '%s'.", name)
			}
			th.push(&BoundMethod{Receiver: receiver, Method: method})

		case compiler.EQUAL:
			b := th.pop()
			a := th.pop()
			th.push(Bool(Equal(a, b)))

		case compiler.GREATER, compiler.LESS:
			b, ok1 := th.peek(0).(Number)
			a, ok2 := th.peek(1).(Number)
			if !ok1 || !ok2 {
				return fmt.Errorf("Operands must be numbers.")
			}
			th.pop()
			th.pop()
			if op == compiler.GREATER {
				th.push(Bool(a > b))
			} else {
				th.push(Bool(a < b))
			}

		case compiler.ADD:
			b := th.peek(0)
			a := th.peek(1)
			switch a := a.(type) {
			case Number:
				bn, ok := b.(Number)
				if !ok {
					return fmt.Errorf("Operands must be two numbers or two strings.")
				}
				th.pop()
				th.pop()
				th.push(a + bn)
			case String:
				bs, ok := b.(String)
				if !ok {
					return fmt.Errorf("Operands must be two numbers or two strings.")
				}
				th.pop()
				th.pop()
				th.push(a + bs)
			default:
				return fmt.Errorf("Operands must be two numbers or two strings.")
			}

		case compiler.SUBTRACT, compiler.MULTIPLY, compiler.DIVIDE, compiler.MODULO:
			b, ok1 := th.peek(0).(Number)
			a, ok2 := th.peek(1).(Number)
			if !ok1 || !ok2 {
				return fmt.Errorf("Operands must be numbers.")
			}
			th.pop()
			th.pop()
			switch op {
			case compiler.SUBTRACT:
				th.push(a - b)
			case compiler.MULTIPLY:
				th.push(a * b)
			case compiler.DIVIDE:
				th.push(a / b)
			case compiler.MODULO:
				th.push(Number(math.Mod(float64(a), float64(b))))
			}

		case compiler.NOT:
			th.push(Bool(!Truth(th.pop())))

		case compiler.NEGATE:
			n, ok := th.peek(0).(Number)
			if !ok {
				return fmt.Errorf("Operand must be a number.")
			}
			th.pop()
			th.push(-n)

		case compiler.PRINT:
			fmt.Fprintln(th.stdout(), th.pop().String())

		case compiler.JUMP:
			offset := int(code[fr.ip])<<8 | int(code[fr.ip+1])
			fr.ip += 2
			fr.ip += offset

		case compiler.JUMP_IF_FALSE:
			offset := int(code[fr.ip])<<8 | int(code[fr.ip+1])
			fr.ip += 2
			if !Truth(th.peek(0)) {
				fr.ip += offset
			}

		case compiler.LOOP:
			offset := int(code[fr.ip])<<8 | int(code[fr.ip+1])
			fr.ip += 2
			fr.ip -= offset

		case compiler.CALL:
			argc := int(code[fr.ip])
			fr.ip++
			if err := th.callValue(argc); err != nil {
				return err
			}

		case compiler.CLOSURE:
			idx := code[fr.ip]
			fr.ip++
			proto := fr.closure.Fn.Proto.Chunk.Constants[idx].(*compiler.FunctionProto)
			closure := NewClosure(proto)
			for i := range closure.Upvalues {
				isLocal := code[fr.ip]
				index := code[fr.ip+1]
				fr.ip += 2
				if isLocal != 0 {
					closure.Upvalues[i] = th.captureUpvalue(fr.slots + int(index))
				} else {
					closure.Upvalues[i] = fr.closure.Upvalues[index]
				}
			}
			th.push(closure)

		case compiler.CLOSE_UPVALUE:
			th.closeUpvalues(th.stackTop - 1)
			th.pop()

		case compiler.RETURN:
			result := th.pop()
			th.closeUpvalues(fr.slots)
			th.frameCnt--
			if th.frameCnt == 0 {
				th.pop() // the toplevel script closure itself
				return nil
			}
			th.stackTop = fr.slots
			th.push(result)

		case compiler.CLASS:
			idx := code[fr.ip]
			fr.ip++
			name := string(th.constantValue(fr, idx).(String))
			th.push(NewClass(name))

		case compiler.METHOD:
			idx := code[fr.ip]
			fr.ip++
			name := string(th.constantValue(fr, idx).(String))
			method := th.pop().(*Closure)
			class := th.peek(0).(*Class)
			class.Methods.Put(name, method)

		case compiler.INHERIT:
			subclass := th.peek(0).(*Class)
			super, ok := th.peek(1).(*Class)
			if !ok {
				return fmt.Errorf("Superclass must be a class.")
			}
			super.Methods.Iter(func(name string, m *Closure) bool {
				subclass.Methods.Put(name, m)
				return false
			})
			th.pop()

		case compiler.IMPORT:
			fr.ip++ // reserved: name constant index, unused (see DESIGN.md)
			th.push(None)

		default:
			return fmt.Errorf("unimplemented opcode %s", op)
		}
	}
}

// constantValue converts a CONSTANT-pool entry holding a source literal
// (float64 or string, as emitted by numberLiteral/stringLiteral) into its
// runtime Value. FunctionProto constants, used only by CLOSURE, are
// fetched directly from the chunk and never go through this path.
func (th *Thread) constantValue(fr *CallFrame, idx byte) Value {
	switch c := fr.closure.Fn.Proto.Chunk.Constants[idx].(type) {
	case float64:
		return Number(c)
	case string:
		return String(c)
	default:
		panic(fmt.Sprintf("unexpected constant %T", c))
	}
}
