package machine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dolthub/swiss"

	"github.com/mna/izi/lang/compiler"
)

// FramesMax bounds the depth of nested calls; StackMax bounds the shared
// value stack, sized so that even a call stack at FramesMax deep with 256
// locals per frame cannot overflow it.
const (
	FramesMax = 64
	StackMax  = FramesMax * 256
)

// Module is the dynamic counterpart of a compiler-produced top-level
// script once imported: its name and the Closure wrapping its toplevel
// Function. The IMPORT opcode is reserved (see DESIGN.md); Modules is
// never populated by this core, but the map exists so a future loader has
// somewhere to put entries without changing the VM state shape.
type Module struct {
	Name    string
	Closure *Closure
}

var _ Value = (*Module)(nil)

func (m *Module) String() string { return fmt.Sprintf("<module %s>", m.Name) }
func (m *Module) Type() string   { return "module" }

// Thread is one virtual machine instance: its value stack, call-frame
// stack, globals, open-upvalue list and module table. It owns no state
// shared with any other Thread.
type Thread struct {
	// Stdout and Stderr are where PRINT output and runtime error traces are
	// written, respectively. If nil, os.Stdout and os.Stderr are used.
	Stdout io.Writer
	Stderr io.Writer

	globals *swiss.Map[string, Value]
	modules *swiss.Map[string, *Module]

	stack    [StackMax]Value
	stackTop int

	frames   [FramesMax]CallFrame
	frameCnt int

	openUpvalues *Upvalue // head of the intrusive list, sorted by decreasing slot index

	ctx context.Context
}

// NewThread creates a Thread ready to Interpret one program. clock() is
// registered as a native global, per the native-function registration
// interface.
func NewThread() *Thread {
	th := &Thread{
		globals: swiss.NewMap[string, Value](0),
		modules: swiss.NewMap[string, *Module](0),
	}
	th.defineNative("clock", 0, nativeClock)
	return th
}

func (th *Thread) defineNative(name string, arity int, fn func(th *Thread, args []Value) (Value, error)) {
	th.globals.Put(name, &Native{NativeName: name, Arity: arity, Fn: fn})
}

func (th *Thread) stdout() io.Writer {
	if th.Stdout != nil {
		return th.Stdout
	}
	return os.Stdout
}

func (th *Thread) stderr() io.Writer {
	if th.Stderr != nil {
		return th.Stderr
	}
	return os.Stderr
}

var processStart = time.Now()

func nativeClock(_ *Thread, _ []Value) (Value, error) {
	return Number(time.Since(processStart).Seconds()), nil
}

// RuntimeError is returned by Interpret when execution aborts with an
// unhandled error; it carries the formatted stack trace already written to
// Stderr so callers that want to inspect it programmatically (tests) can.
type RuntimeError struct {
	Msg   string
	Trace string
}

func (e *RuntimeError) Error() string { return e.Msg }

// Interpret compiles and runs source to completion on a fresh call stack.
// It is the top-level entry point used by the REPL and file runner.
func Interpret(ctx context.Context, th *Thread, source string) error {
	proto, err := compiler.Compile(source)
	if err != nil {
		return err
	}
	th.ctx = ctx
	closure := NewClosure(proto)
	return th.run(closure)
}
