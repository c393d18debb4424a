package compiler

import "github.com/mna/izi/lang/token"

// constructorName is the reserved method name that designates a class's
// constructor, invoked automatically when the class is called.
const constructorName = "new"

// classDeclaration compiles `class Name [ < Super ] { method* }`.
func (p *Parser) classDeclaration() {
	p.consume(token.IDENT, "Expect class name.")
	className := p.previous
	nameConst := p.identifierConstant(className.Lexeme)
	p.declareVariable()

	p.emitOpByte(CLASS, nameConst)
	p.defineVariable(nameConst)

	cs := &classState{enclosing: p.cs}
	p.cs = cs

	if p.match(token.LESS) {
		p.consume(token.IDENT, "Expect superclass name.")
		if p.previous.Lexeme == className.Lexeme {
			p.error("A class can't inherit from itself.")
		}
		variableRef(p, false, p.previous.Lexeme)

		p.beginScope()
		p.addLocal("super")
		p.markInitialized()

		variableRef(p, false, className.Lexeme)
		p.emitOp(INHERIT)
		cs.hasSuperclass = true
	}

	variableRef(p, false, className.Lexeme)
	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	p.emitOp(POP) // discard the class reference left by the loads above

	if cs.hasSuperclass {
		p.endScope()
	}
	p.cs = cs.enclosing
}

func (p *Parser) method() {
	p.consume(token.IDENT, "Expect method name.")
	name := p.previous.Lexeme
	nameConst := p.identifierConstant(name)

	typ := typeMethod
	if name == constructorName {
		typ = typeConstructor
	}
	p.function(typ)
	p.emitOpByte(METHOD, nameConst)
}
