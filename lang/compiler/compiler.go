// Package compiler implements a single-pass Pratt compiler: it drives the
// scanner and lowers source text directly into bytecode, with no
// intermediate AST. It maintains a stack of per-function compile states
// (locals, upvalues, scope depth) and a stack of per-class compile states,
// exactly as described for this language's compiler.
package compiler

import (
	"fmt"
	"strconv"

	"github.com/mna/izi/lang/scanner"
	"github.com/mna/izi/lang/token"
)

// maxLocals and maxUpvalues mirror the one-byte slot index operands used by
// GET_LOCAL/SET_LOCAL and GET_UPVALUE/SET_UPVALUE.
const (
	maxLocals   = 256
	maxUpvalues = 256
	maxParams   = 255
	maxArgs     = 255
)

// funcType distinguishes the kind of function currently being compiled, so
// that "this", "super" and implicit returns can be resolved correctly.
type funcType int

const (
	typeScript funcType = iota
	typeFunction
	typeMethod
	typeConstructor
)

// local is a name bound to a stack slot in the function currently being
// compiled. depth == -1 means "declared but its initializer has not yet
// been compiled" (reading it in that state is an error).
type local struct {
	name       string
	depth      int
	isCaptured bool
}

// upvalueRef records where an upvalue captured by the function being
// compiled comes from: either a local slot of the immediately enclosing
// function (isLocal) or an upvalue of that enclosing function.
type upvalueRef struct {
	index   byte
	isLocal bool
}

// funcState is one entry in the stack of per-function compiler states; it
// links to the state of the lexically enclosing function being compiled.
type funcState struct {
	enclosing *funcState
	proto     *FunctionProto
	typ       funcType

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

// classState is one entry in the stack of per-class compiler states, used
// to resolve "this" and "super" and to reject them outside of a class body.
type classState struct {
	enclosing     *classState
	hasSuperclass bool
}

// Parser holds all single-pass compile state: the scanner cursor, the
// current/previous token, accumulated diagnostics, and the function/class
// compile-state stacks.
type Parser struct {
	sc *scanner.Scanner

	current  token.Token
	previous token.Token

	diags     Diagnostics
	panicking bool

	fs *funcState
	cs *classState
}

// Compile compiles source into the top-level script FunctionProto. If any
// diagnostic was reported, the returned error is non-nil (a Diagnostics) and
// the returned proto is nil: a program with compile errors is never handed
// to the virtual machine.
func Compile(source string) (*FunctionProto, error) {
	p := &Parser{sc: scanner.New(source)}
	p.fs = &funcState{proto: &FunctionProto{Name: ""}, typ: typeScript}
	// slot 0 is reserved; for the top-level script it is an unnamed
	// placeholder that is never resolved by name.
	p.fs.locals = append(p.fs.locals, local{name: "", depth: 0})

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}

	proto := p.endFunction()
	if len(p.diags) > 0 {
		p.diags.Sort()
		return nil, p.diags.Err()
	}
	return proto, nil
}

func (p *Parser) currentChunk() *Chunk { return &p.fs.proto.Chunk }

// --- token stream -----------------------------------------------------

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.sc.Scan()
		if p.current.Kind != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) check(k token.Kind) bool { return p.current.Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(k token.Kind, msg string) {
	if p.current.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

// --- diagnostics --------------------------------------------------------

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *Parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *Parser) errorAt(tok token.Token, msg string) {
	if p.panicking {
		return
	}
	p.panicking = true
	d := &Diagnostic{Line: tok.Line, Msg: msg}
	if tok.Kind == token.EOF {
		d.AtEnd = true
	} else {
		d.Where = tok.Lexeme
	}
	p.diags.add(d)
}

// synchronize skips tokens until it finds a likely statement boundary,
// so that a single compile pass can report more than one diagnostic.
func (p *Parser) synchronize() {
	p.panicking = false
	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.SEMICOLON {
			return
		}
		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN, token.SWITCH, token.IMPORT:
			return
		}
		p.advance()
	}
}

// --- emission helpers ----------------------------------------------------

func (p *Parser) emitByte(b byte) { p.currentChunk().Write(b, p.previous.Line) }

func (p *Parser) emitOp(op Opcode) { p.emitByte(byte(op)) }

func (p *Parser) emitOpByte(op Opcode, operand byte) {
	p.emitOp(op)
	p.emitByte(operand)
}

func (p *Parser) emitConstant(v any) {
	idx, err := p.currentChunk().AddConstant(v)
	if err != nil {
		p.error(err.Error())
		return
	}
	p.emitOpByte(CONSTANT, byte(idx))
}

// emitJump emits op followed by a two-byte placeholder and returns the
// offset of the first placeholder byte, to be patched later.
func (p *Parser) emitJump(op Opcode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.currentChunk().Code) - 2
}

func (p *Parser) patchJump(offset int) {
	jump := len(p.currentChunk().Code) - offset - 2
	if jump > 0xffff {
		p.error("Too much code to jump over.")
		return
	}
	p.currentChunk().Code[offset] = byte(jump >> 8)
	p.currentChunk().Code[offset+1] = byte(jump)
}

func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(LOOP)
	offset := len(p.currentChunk().Code) - loopStart + 2
	if offset > 0xffff {
		p.error("Loop body too large.")
		return
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset))
}

func (p *Parser) emitReturn() {
	if p.fs.typ == typeConstructor {
		p.emitOpByte(GET_LOCAL, 0)
	} else {
		p.emitOp(NIL)
	}
	p.emitOp(RETURN)
}

// --- expressions: Pratt parser -------------------------------------------

// precedence levels, low to high.
type precedence int

//nolint:revive
const (
	precNone        precedence = iota
	precAssignment             // =
	precConditional            // ?: (unused: see DESIGN.md, mirrors the original's vestigial ternary slot)
	precOr                     // or
	precAnd                    // and
	precEquality               // == !=
	precComparison             // < > <= >=
	precTerm                   // + -
	precFactor                 // * / %
	precUnary                  // ! -
	precCall                   // . ()
	precPrimary
)

type (
	prefixFn func(p *Parser, canAssign bool)
	infixFn  func(p *Parser, canAssign bool)
)

type parseRule struct {
	prefix     prefixFn
	infix      infixFn
	precedence precedence
}

var rules [token.Count]parseRule

func init() {
	rules[token.LEFT_PAREN] = parseRule{prefix: grouping, infix: call, precedence: precCall}
	rules[token.DOT] = parseRule{infix: dot, precedence: precCall}
	rules[token.MINUS] = parseRule{prefix: unary, infix: binary, precedence: precTerm}
	rules[token.PLUS] = parseRule{infix: binary, precedence: precTerm}
	rules[token.SLASH] = parseRule{infix: binary, precedence: precFactor}
	rules[token.STAR] = parseRule{infix: binary, precedence: precFactor}
	rules[token.PERCENT] = parseRule{infix: binary, precedence: precFactor}
	rules[token.BANG] = parseRule{prefix: unary}
	rules[token.BANG_EQUAL] = parseRule{infix: binary, precedence: precEquality}
	rules[token.EQUAL_EQUAL] = parseRule{infix: binary, precedence: precEquality}
	rules[token.GREATER] = parseRule{infix: binary, precedence: precComparison}
	rules[token.GREATER_EQUAL] = parseRule{infix: binary, precedence: precComparison}
	rules[token.LESS] = parseRule{infix: binary, precedence: precComparison}
	rules[token.LESS_EQUAL] = parseRule{infix: binary, precedence: precComparison}
	rules[token.IDENT] = parseRule{prefix: variable}
	rules[token.STRING] = parseRule{prefix: stringLiteral}
	rules[token.NUMBER] = parseRule{prefix: numberLiteral}
	rules[token.AND] = parseRule{infix: and_, precedence: precAnd}
	rules[token.OR] = parseRule{infix: or_, precedence: precOr}
	rules[token.FALSE] = parseRule{prefix: literal}
	rules[token.TRUE] = parseRule{prefix: literal}
	rules[token.NIL] = parseRule{prefix: literal}
	rules[token.THIS] = parseRule{prefix: this_}
	rules[token.SUPER] = parseRule{prefix: super_}
}

func getRule(k token.Kind) *parseRule { return &rules[k] }

func (p *Parser) parsePrecedence(prec precedence) {
	p.advance()
	rule := getRule(p.previous.Kind)
	if rule.prefix == nil {
		p.error("Expect expression.")
		return
	}
	canAssign := prec <= precAssignment
	rule.prefix(p, canAssign)

	for prec <= getRule(p.current.Kind).precedence {
		p.advance()
		infix := getRule(p.previous.Kind).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQUAL) {
		p.error("Invalid assignment target.")
	}
}

func (p *Parser) expression() { p.parsePrecedence(precAssignment) }

func grouping(p *Parser, _ bool) {
	p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func numberLiteral(p *Parser, _ bool) {
	v, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	p.emitConstant(v)
}

func stringLiteral(p *Parser, _ bool) {
	// strip the surrounding quotes.
	lex := p.previous.Lexeme
	p.emitConstant(lex[1 : len(lex)-1])
}

func literal(p *Parser, _ bool) {
	switch p.previous.Kind {
	case token.FALSE:
		p.emitOp(FALSE)
	case token.TRUE:
		p.emitOp(TRUE)
	case token.NIL:
		p.emitOp(NIL)
	}
}

func unary(p *Parser, _ bool) {
	opKind := p.previous.Kind
	p.parsePrecedence(precUnary)
	switch opKind {
	case token.MINUS:
		p.emitOp(NEGATE)
	case token.BANG:
		p.emitOp(NOT)
	}
}

func binary(p *Parser, _ bool) {
	opKind := p.previous.Kind
	rule := getRule(opKind)
	p.parsePrecedence(rule.precedence + 1)

	switch opKind {
	case token.PLUS:
		p.emitOp(ADD)
	case token.MINUS:
		p.emitOp(SUBTRACT)
	case token.STAR:
		p.emitOp(MULTIPLY)
	case token.SLASH:
		p.emitOp(DIVIDE)
	case token.PERCENT:
		p.emitOp(MODULO)
	case token.EQUAL_EQUAL:
		p.emitOp(EQUAL)
	case token.BANG_EQUAL:
		p.emitOp(EQUAL)
		p.emitOp(NOT)
	case token.GREATER:
		p.emitOp(GREATER)
	case token.GREATER_EQUAL:
		p.emitOp(LESS)
		p.emitOp(NOT)
	case token.LESS:
		p.emitOp(LESS)
	case token.LESS_EQUAL:
		p.emitOp(GREATER)
		p.emitOp(NOT)
	}
}

func and_(p *Parser, _ bool) {
	end := p.emitJump(JUMP_IF_FALSE)
	p.emitOp(POP)
	p.parsePrecedence(precAnd)
	p.patchJump(end)
}

func or_(p *Parser, _ bool) {
	elseJump := p.emitJump(JUMP_IF_FALSE)
	end := p.emitJump(JUMP)
	p.patchJump(elseJump)
	p.emitOp(POP)
	p.parsePrecedence(precOr)
	p.patchJump(end)
}

func call(p *Parser, _ bool) {
	argCount := p.argumentList()
	p.emitOpByte(CALL, argCount)
}

func (p *Parser) argumentList() byte {
	var count int
	if !p.check(token.RIGHT_PAREN) {
		for {
			p.expression()
			if count == maxArgs {
				p.error(fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			count++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return byte(count)
}

func dot(p *Parser, canAssign bool) {
	p.consume(token.IDENT, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous.Lexeme)
	if canAssign && p.match(token.EQUAL) {
		p.expression()
		p.emitOpByte(SET_PROPERTY, name)
	} else {
		p.emitOpByte(GET_PROPERTY, name)
	}
}

func this_(p *Parser, _ bool) {
	if p.cs == nil {
		p.error("Can't use 'this' outside of a class.")
		return
	}
	variableRef(p, false, "this")
}

func super_(p *Parser, _ bool) {
	switch {
	case p.cs == nil:
		p.error("Can't use 'super' outside of a class.")
	case !p.cs.hasSuperclass:
		p.error("Can't use 'super' in a class with no superclass.")
	}
	p.consume(token.DOT, "Expect '.' after 'super'.")
	p.consume(token.IDENT, "Expect superclass method name.")
	name := p.identifierConstant(p.previous.Lexeme)

	variableRef(p, false, "this")
	variableRef(p, false, "super")
	p.emitOpByte(GET_SUPER, name)
}

func variable(p *Parser, canAssign bool) {
	variableRef(p, canAssign, p.previous.Lexeme)
}
