package compiler

import (
	"fmt"

	"github.com/mna/izi/lang/token"
)

func (p *Parser) declaration() {
	switch {
	case p.match(token.CLASS):
		p.classDeclaration()
	case p.match(token.FUN):
		p.funDeclaration()
	case p.match(token.VAR):
		p.varDeclaration()
	case p.match(token.IMPORT):
		p.importDeclaration()
	default:
		p.statement()
	}
	if p.panicking {
		p.synchronize()
	}
}

func (p *Parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.SWITCH):
		p.switchStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.LEFT_BRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	p.emitOp(PRINT)
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	p.emitOp(POP)
}

func (p *Parser) block() {
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")
	if p.match(token.EQUAL) {
		p.expression()
	} else {
		p.emitOp(NIL)
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	p.defineVariable(global)
}

func (p *Parser) importDeclaration() {
	p.consume(token.IDENT, "Expect module name after 'import'.")
	name := p.identifierConstant(p.previous.Lexeme)
	p.consume(token.SEMICOLON, "Expect ';' after import.")
	p.emitOpByte(IMPORT, name)
	p.emitOp(POP)
}

func (p *Parser) ifStatement() {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := p.emitJump(JUMP_IF_FALSE)
	p.emitOp(POP)
	p.statement()

	elseJump := p.emitJump(JUMP)
	p.patchJump(thenJump)
	p.emitOp(POP)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) whileStatement() {
	loopStart := len(p.currentChunk().Code)
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := p.emitJump(JUMP_IF_FALSE)
	p.emitOp(POP)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(POP)
}

func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.currentChunk().Code)
	exitJump := -1
	if !p.match(token.SEMICOLON) {
		p.expression()
		p.consume(token.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = p.emitJump(JUMP_IF_FALSE)
		p.emitOp(POP)
	}

	if !p.match(token.RIGHT_PAREN) {
		bodyJump := p.emitJump(JUMP)
		incrStart := len(p.currentChunk().Code)
		p.expression()
		p.emitOp(POP)
		p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(POP)
	}
	p.endScope()
}

// switchStatement evaluates the switch value once, compares it against each
// case with EQUAL, and falls through to the next case's guard on mismatch.
// A default clause (at most one, and only as the last clause) has no
// guard.
func (p *Parser) switchStatement() {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'switch'.")
	p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after switch value.")
	p.consume(token.LEFT_BRACE, "Expect '{' before switch body.")

	var caseEnds []int
	nextCaseSkip := -1
	sawDefault := false

	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		switch {
		case p.match(token.CASE):
			if sawDefault {
				p.error("Can't have a case after the default case.")
			}
			if nextCaseSkip != -1 {
				p.patchJump(nextCaseSkip)
				p.emitOp(POP)
			}
			p.emitOp(DUP)
			p.expression()
			p.consume(token.COLON, "Expect ':' after case value.")
			p.emitOp(EQUAL)
			nextCaseSkip = p.emitJump(JUMP_IF_FALSE)
			p.emitOp(POP)

			p.switchCaseBody()
			caseEnds = append(caseEnds, p.emitJump(JUMP))

		case p.match(token.DEFAULT):
			if sawDefault {
				p.error("Can't have two default cases.")
			}
			sawDefault = true
			if nextCaseSkip != -1 {
				p.patchJump(nextCaseSkip)
				p.emitOp(POP)
				nextCaseSkip = -1
			}
			p.consume(token.COLON, "Expect ':' after 'default'.")
			p.switchCaseBody()

		default:
			p.error("Statements before the first case or after default are not allowed.")
			p.advance()
		}
	}

	if nextCaseSkip != -1 {
		p.patchJump(nextCaseSkip)
		p.emitOp(POP)
	}
	for _, end := range caseEnds {
		p.patchJump(end)
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after switch body.")
	p.emitOp(POP) // discard the switch value
}

func (p *Parser) switchCaseBody() {
	for !p.check(token.CASE) && !p.check(token.DEFAULT) && !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		p.declaration()
	}
}

func (p *Parser) returnStatement() {
	if p.fs.typ == typeScript {
		p.error("Can't return from top-level code.")
	}
	if p.match(token.SEMICOLON) {
		p.emitReturn()
		return
	}
	if p.fs.typ == typeConstructor {
		p.error("Can't return a value from a constructor.")
	}
	p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	p.emitOp(RETURN)
}

// --- functions ------------------------------------------------------------

func (p *Parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(typeFunction)
	p.defineVariable(global)
}

// function compiles a parameter list and body into a fresh funcState, then
// emits CLOSURE (plus one (isLocal, index) byte pair per upvalue) into the
// enclosing chunk.
func (p *Parser) function(typ funcType) {
	enclosing := p.fs
	p.fs = &funcState{enclosing: enclosing, typ: typ, proto: &FunctionProto{Name: p.previous.Lexeme}}
	// slot 0: the receiver for methods/constructors, an anonymous
	// placeholder otherwise.
	recv := ""
	if typ == typeMethod || typ == typeConstructor {
		recv = "this"
	}
	p.fs.locals = append(p.fs.locals, local{name: recv, depth: 0})

	p.beginScope()
	p.consume(token.LEFT_PAREN, "Expect '(' after function name.")
	if !p.check(token.RIGHT_PAREN) {
		for {
			p.fs.proto.Arity++
			if p.fs.proto.Arity > maxParams {
				p.error(fmt.Sprintf("Can't have more than %d parameters.", maxParams))
			}
			paramConst := p.parseVariable("Expect parameter name.")
			p.defineVariable(paramConst)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	p.block()

	proto := p.endFunction()
	upvalues := p.fs.upvalues // note: p.fs is still the child here, restored below
	p.fs = enclosing

	idx, err := p.currentChunk().AddConstant(proto)
	if err != nil {
		p.error(err.Error())
		return
	}
	p.emitOpByte(CLOSURE, byte(idx))
	for _, up := range upvalues {
		if up.isLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(up.index)
	}
}

// endFunction finalizes the function currently being compiled (emitting its
// implicit return) and returns its FunctionProto.
func (p *Parser) endFunction() *FunctionProto {
	p.emitReturn()
	return p.fs.proto
}
