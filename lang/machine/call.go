package machine

import "fmt"

func (th *Thread) push(v Value) {
	th.stack[th.stackTop] = v
	th.stackTop++
}

func (th *Thread) pop() Value {
	th.stackTop--
	return th.stack[th.stackTop]
}

func (th *Thread) peek(distance int) Value {
	return th.stack[th.stackTop-1-distance]
}

// callValue dispatches a CALL opcode against whatever is in the callee
// slot (stack[stackTop-argc-1]), per the four callable kinds.
func (th *Thread) callValue(argc int) error {
	callee := th.peek(argc)
	switch c := callee.(type) {
	case *Closure:
		return th.call(c, argc)

	case *Class:
		inst := NewInstance(c)
		th.stack[th.stackTop-argc-1] = inst
		if ctor, ok := c.FindMethod(constructorName); ok {
			return th.call(ctor, argc)
		}
		if argc != 0 {
			return fmt.Errorf("Expected 0 arguments but got %d.", argc)
		}
		return nil

	case *BoundMethod:
		th.stack[th.stackTop-argc-1] = c.Receiver
		return th.call(c.Method, argc)

	case *Native:
		if c.Arity >= 0 && argc != c.Arity {
			return fmt.Errorf("Expected %d arguments but got %d.", c.Arity, argc)
		}
		args := th.stack[th.stackTop-argc : th.stackTop]
		result, err := c.Fn(th, args)
		if err != nil {
			return err
		}
		th.stackTop -= argc + 1
		th.push(result)
		return nil

	default:
		return fmt.Errorf("Can only call functions and classes.")
	}
}

// call pushes a new CallFrame for closure, with slot 0 at the callee's own
// stack position (so GET_LOCAL 0 reaches the receiver for methods, or the
// closure itself otherwise).
func (th *Thread) call(closure *Closure, argc int) error {
	if argc != closure.Fn.Proto.Arity {
		return fmt.Errorf("Expected %d arguments but got %d.", closure.Fn.Proto.Arity, argc)
	}
	if th.frameCnt == FramesMax {
		return fmt.Errorf("Stack overflow.")
	}
	fr := &th.frames[th.frameCnt]
	th.frameCnt++
	fr.closure = closure
	fr.ip = 0
	fr.slots = th.stackTop - argc - 1
	return nil
}

// captureUpvalue returns the Upvalue for the stack slot at index slot,
// reusing one already open at that slot if any closure has already
// captured it, otherwise splicing a new open Upvalue into
// th.openUpvalues (kept sorted by decreasing slot index).
func (th *Thread) captureUpvalue(slot int) *Upvalue {
	var prev *Upvalue
	up := th.openUpvalues
	for up != nil && up.slot > slot {
		prev = up
		up = up.next
	}
	if up != nil && up.slot == slot {
		return up
	}

	created := &Upvalue{location: &th.stack[slot], slot: slot}
	created.next = up
	if prev == nil {
		th.openUpvalues = created
	} else {
		prev.next = created
	}
	return created
}

// closeUpvalues closes every open upvalue whose slot is >= boundary,
// copying its current value into the upvalue's owned field and unlinking
// it from the open list.
func (th *Thread) closeUpvalues(boundary int) {
	for th.openUpvalues != nil && th.openUpvalues.slot >= boundary {
		up := th.openUpvalues
		up.closed = *up.location
		up.location = &up.closed
		th.openUpvalues = up.next
		up.next = nil
	}
}
