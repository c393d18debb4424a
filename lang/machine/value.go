// Package machine implements the virtual machine that executes the
// bytecode-compiled form of the source code. It also provides the runtime
// representation of the various builtin values.
package machine

import "strconv"

// Value is the interface implemented by any value manipulated by the
// machine: the primitives Nil, Bool, Number and String, and every heap
// object (Function, Closure, Native, Class, Instance, BoundMethod, Upvalue,
// Module).
type Value interface {
	// String returns the value's printed representation, as written by the
	// PRINT opcode.
	String() string

	// Type returns a short string describing the value's type.
	Type() string
}

// Nil is the value of the "nil" literal. There is exactly one nil value.
type Nil struct{}

func (Nil) String() string { return "nil" }
func (Nil) Type() string   { return "nil" }

// None is the canonical Nil value.
var None = Nil{}

// Bool is a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

const (
	True  Bool = true
	False Bool = false
)

// Number is a double-precision floating point value. The language has no
// separate integer type. It prints in plain decimal notation (never with an
// exponent), so a printed number re-lexes as a number literal.
type Number float64

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (Number) Type() string     { return "number" }

// String is an immutable sequence of bytes.
type String string

func (s String) String() string { return string(s) }
func (String) Type() string     { return "string" }

var (
	_ Value = Nil{}
	_ Value = Bool(false)
	_ Value = Number(0)
	_ Value = String("")
)

// Truth reports whether v is truthy: nil and false are falsey, everything
// else (including 0 and the empty string) is truthy.
func Truth(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Equal reports whether x and y are equal. Primitives compare by value;
// heap objects compare by identity, which for the pointer-shaped heap
// types (Function, Closure, Native, Class, Instance, BoundMethod, Upvalue,
// Module) is exactly what Go's == already does.
func Equal(x, y Value) bool {
	switch x := x.(type) {
	case Nil:
		_, ok := y.(Nil)
		return ok
	case Bool:
		yb, ok := y.(Bool)
		return ok && x == yb
	case Number:
		yn, ok := y.(Number)
		return ok && x == yn
	case String:
		ys, ok := y.(String)
		return ok && x == ys
	default:
		return x == y
	}
}
