package machine

import (
	"fmt"

	"github.com/mna/izi/lang/compiler"
)

// Function is the runtime counterpart of a compiler.FunctionProto: its
// arity, name and chunk are immutable once the compiler has finished
// emitting into it. The top-level script is itself a Function with an
// empty name.
type Function struct {
	Proto *compiler.FunctionProto
}

var _ Value = (*Function)(nil)

func (fn *Function) String() string {
	if fn.Proto.Name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", fn.Proto.Name)
}
func (fn *Function) Type() string { return "function" }

func (fn *Function) Name() string {
	if fn.Proto.Name == "" {
		return "script"
	}
	return fn.Proto.Name
}

// Closure pairs a Function with the upvalues it captured at the point it
// was created, one per compiler.FunctionProto.UpvalueCount.
type Closure struct {
	Fn       *Function
	Upvalues []*Upvalue
}

var _ Value = (*Closure)(nil)

func (c *Closure) String() string { return c.Fn.String() }
func (c *Closure) Type() string   { return "function" }
func (c *Closure) Name() string   { return c.Fn.Name() }

// NewClosure wraps proto in a Function and allocates its (initially nil)
// upvalue slots; the CLOSURE opcode handler fills each slot in by either
// capturing an enclosing local or sharing an enclosing upvalue.
func NewClosure(proto *compiler.FunctionProto) *Closure {
	return &Closure{
		Fn:       &Function{Proto: proto},
		Upvalues: make([]*Upvalue, proto.UpvalueCount),
	}
}

// Native is a host-provided function exposed as a first-class value at a
// global name, invoked synchronously by the CALL opcode.
type Native struct {
	NativeName string
	Arity      int // -1 means variadic, any argument count accepted
	Fn         func(th *Thread, args []Value) (Value, error)
}

var _ Value = (*Native)(nil)

func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.NativeName) }
func (n *Native) Type() string   { return "native function" }
func (n *Native) Name() string   { return n.NativeName }
