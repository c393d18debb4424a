package compiler

import "fmt"

// Opcode identifies a single bytecode instruction. Operand layout (none, one
// byte, or a two-byte big-endian jump offset) is fixed per opcode; see the
// comment beside each constant for its "stack picture" and operand shape.
type Opcode uint8

//nolint:revive
const (
	CONSTANT     Opcode = iota // CONSTANT<u8 idx>         -> push constants[idx]
	NIL                        // NIL                      -> push nil
	TRUE                       // TRUE                     -> push true
	FALSE                      // FALSE                    -> push false
	POP                        // POP                      x ->
	DUP                        // DUP                      x -> x x
	GET_LOCAL                  // GET_LOCAL<u8 slot>       -> push frame.slots[slot]
	SET_LOCAL                  // SET_LOCAL<u8 slot>       x -> x (writes frame.slots[slot])
	GET_GLOBAL                 // GET_GLOBAL<u8 idx>       -> push globals[name]
	DEFINE_GLOBAL              // DEFINE_GLOBAL<u8 idx>    x -> (globals[name] = x)
	SET_GLOBAL                 // SET_GLOBAL<u8 idx>       x -> x (writes globals[name])
	GET_UPVALUE                // GET_UPVALUE<u8 slot>     -> push *upvalues[slot]
	SET_UPVALUE                // SET_UPVALUE<u8 slot>     x -> x (writes *upvalues[slot])
	GET_PROPERTY               // GET_PROPERTY<u8 idx>     inst -> value
	SET_PROPERTY               // SET_PROPERTY<u8 idx> inst value -> value
	GET_SUPER                  // GET_SUPER<u8 idx>    this super -> boundMethod
	EQUAL                      // EQUAL                a b -> bool
	GREATER                    // GREATER              a b -> bool
	LESS                       // LESS                 a b -> bool
	ADD                        // ADD                  a b -> a+b
	SUBTRACT                   // SUBTRACT             a b -> a-b
	MULTIPLY                   // MULTIPLY             a b -> a*b
	DIVIDE                     // DIVIDE               a b -> a/b
	MODULO                     // MODULO               a b -> a%b
	NOT                        // NOT                  a -> !truthy(a)
	NEGATE                     // NEGATE               a -> -a
	PRINT                      // PRINT                a ->
	JUMP                       // JUMP<u16 BE offset>      -> (ip += offset)
	JUMP_IF_FALSE              // JUMP_IF_FALSE<u16 BE>  cond -> cond (ip += offset if falsey)
	LOOP                       // LOOP<u16 BE offset>      -> (ip -= offset)
	CALL                       // CALL<u8 argCount>    fn arg1..argN -> result
	CLOSURE                    // CLOSURE<u8 idx> [u8 isLocal, u8 index]* -> push closure
	CLOSE_UPVALUE              // CLOSE_UPVALUE        x -> (closes upvalue at top of stack)
	RETURN                     // RETURN               x -> (pop frame, caller gets x)
	CLASS                      // CLASS<u8 idx>            -> push new class
	METHOD                     // METHOD<u8 idx>    class closure -> class
	INHERIT                    // INHERIT             super sub -> super
	IMPORT                     // IMPORT<u8 idx>           -> push nil (reserved, see DESIGN.md)

	opcodeCount
)

var opcodeNames = [...]string{
	CONSTANT:      "CONSTANT",
	NIL:           "NIL",
	TRUE:          "TRUE",
	FALSE:         "FALSE",
	POP:           "POP",
	DUP:           "DUP",
	GET_LOCAL:     "GET_LOCAL",
	SET_LOCAL:     "SET_LOCAL",
	GET_GLOBAL:    "GET_GLOBAL",
	DEFINE_GLOBAL: "DEFINE_GLOBAL",
	SET_GLOBAL:    "SET_GLOBAL",
	GET_UPVALUE:   "GET_UPVALUE",
	SET_UPVALUE:   "SET_UPVALUE",
	GET_PROPERTY:  "GET_PROPERTY",
	SET_PROPERTY:  "SET_PROPERTY",
	GET_SUPER:     "GET_SUPER",
	EQUAL:         "EQUAL",
	GREATER:       "GREATER",
	LESS:          "LESS",
	ADD:           "ADD",
	SUBTRACT:      "SUBTRACT",
	MULTIPLY:      "MULTIPLY",
	DIVIDE:        "DIVIDE",
	MODULO:        "MODULO",
	NOT:           "NOT",
	NEGATE:        "NEGATE",
	PRINT:         "PRINT",
	JUMP:          "JUMP",
	JUMP_IF_FALSE: "JUMP_IF_FALSE",
	LOOP:          "LOOP",
	CALL:          "CALL",
	CLOSURE:       "CLOSURE",
	CLOSE_UPVALUE: "CLOSE_UPVALUE",
	RETURN:        "RETURN",
	CLASS:         "CLASS",
	METHOD:        "METHOD",
	INHERIT:       "INHERIT",
	IMPORT:        "IMPORT",
}

func (op Opcode) String() string {
	if op < opcodeCount && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}

// operandKind describes how many operand bytes follow an opcode in the
// bytecode stream.
type operandKind uint8

const (
	operandNone  operandKind = iota // no operand byte
	operandByte                     // one operand byte (constant/local/slot/name index, or argument count)
	operandJump                     // two operand bytes, big-endian jump offset
	operandClosure                  // one constant index byte, followed by 2*N operand bytes (N = upvalue count)
)

var opcodeOperands = [...]operandKind{
	CONSTANT:      operandByte,
	NIL:           operandNone,
	TRUE:          operandNone,
	FALSE:         operandNone,
	POP:           operandNone,
	DUP:           operandNone,
	GET_LOCAL:     operandByte,
	SET_LOCAL:     operandByte,
	GET_GLOBAL:    operandByte,
	DEFINE_GLOBAL: operandByte,
	SET_GLOBAL:    operandByte,
	GET_UPVALUE:   operandByte,
	SET_UPVALUE:   operandByte,
	GET_PROPERTY:  operandByte,
	SET_PROPERTY:  operandByte,
	GET_SUPER:     operandByte,
	EQUAL:         operandNone,
	GREATER:       operandNone,
	LESS:          operandNone,
	ADD:           operandNone,
	SUBTRACT:      operandNone,
	MULTIPLY:      operandNone,
	DIVIDE:        operandNone,
	MODULO:        operandNone,
	NOT:           operandNone,
	NEGATE:        operandNone,
	PRINT:         operandNone,
	JUMP:          operandJump,
	JUMP_IF_FALSE: operandJump,
	LOOP:          operandJump,
	CALL:          operandByte,
	CLOSURE:       operandClosure,
	CLOSE_UPVALUE: operandNone,
	RETURN:        operandNone,
	CLASS:         operandByte,
	METHOD:        operandByte,
	INHERIT:       operandNone,
	IMPORT:        operandByte,
}
