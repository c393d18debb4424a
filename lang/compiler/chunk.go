package compiler

import "fmt"

// maxConstants is the limit imposed by the one-byte constant index operand
// used by CONSTANT, CLOSURE, GET_GLOBAL, CLASS, METHOD and friends.
const maxConstants = 256

// A Chunk is an append-only sequence of bytecode, a parallel line-number
// table (one entry per byte of Code), and the constant pool it indexes into.
// A constant is either a float64, a string, or a *FunctionProto (for nested
// function/closure definitions); it is never a machine.Value, so that this
// package has no dependency on the runtime value model.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []any
}

// Write appends a single byte to the chunk, recording line as the source
// line that produced it. Every byte written has a matching line entry, so
// len(Code) == len(Lines) always holds.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// AddConstant appends v to the constant pool and returns its index. It
// fails if the pool would exceed the one-byte index space.
func (c *Chunk) AddConstant(v any) (int, error) {
	if len(c.Constants) >= maxConstants {
		return 0, fmt.Errorf("too many constants in one chunk")
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1, nil
}
