package compiler

import "github.com/mna/izi/lang/token"

// identifierConstant interns name as a string constant and returns its
// constant-pool index, the way global and property names are addressed by
// GET_GLOBAL/SET_GLOBAL/DEFINE_GLOBAL, GET_PROPERTY/SET_PROPERTY, CLASS and
// METHOD.
func (p *Parser) identifierConstant(name string) byte {
	idx, err := p.currentChunk().AddConstant(name)
	if err != nil {
		p.error(err.Error())
		return 0
	}
	return byte(idx)
}

func (p *Parser) beginScope() { p.fs.scopeDepth++ }

func (p *Parser) endScope() {
	p.fs.scopeDepth--
	fs := p.fs
	for len(fs.locals) > 0 && fs.locals[len(fs.locals)-1].depth > fs.scopeDepth {
		last := fs.locals[len(fs.locals)-1]
		if last.isCaptured {
			p.emitOp(CLOSE_UPVALUE)
		} else {
			p.emitOp(POP)
		}
		fs.locals = fs.locals[:len(fs.locals)-1]
	}
}

func (p *Parser) addLocal(name string) {
	if len(p.fs.locals) >= maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.fs.locals = append(p.fs.locals, local{name: name, depth: -1})
}

// declareVariable binds p.previous (an identifier token) as a new variable.
// At scope depth 0 this is a no-op: top-level variables are globals,
// reached by name at runtime rather than by a reserved stack slot.
func (p *Parser) declareVariable() {
	if p.fs.scopeDepth == 0 {
		return
	}
	name := p.previous.Lexeme
	fs := p.fs
	for i := len(fs.locals) - 1; i >= 0; i-- {
		l := fs.locals[i]
		if l.depth != -1 && l.depth < fs.scopeDepth {
			break
		}
		if l.name == name {
			p.error("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

// markInitialized sets the most-recently declared local's depth to the
// current scope depth, making it resolvable. Called right after a
// function's own name is bound (permitting recursion) and after a
// variable's initializer has been compiled.
func (p *Parser) markInitialized() {
	if p.fs.scopeDepth == 0 {
		return
	}
	p.fs.locals[len(p.fs.locals)-1].depth = p.fs.scopeDepth
}

// parseVariable consumes an identifier, declares it, and returns the
// constant-pool index to use with DEFINE_GLOBAL (0 if the variable turned
// out to be a local, in which case the caller's DEFINE_GLOBAL is skipped).
func (p *Parser) parseVariable(errMsg string) byte {
	p.consume(token.IDENT, errMsg)
	p.declareVariable()
	if p.fs.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous.Lexeme)
}

func (p *Parser) defineVariable(global byte) {
	if p.fs.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOpByte(DEFINE_GLOBAL, global)
}

// resolveLocal scans fs.locals from the top down for name, returning its
// slot index or -1. Reading a local whose initializer is still being
// compiled (depth == -1) is an error.
func resolveLocal(p *Parser, fs *funcState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		l := fs.locals[i]
		if l.name == name {
			if l.depth == -1 {
				p.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue resolves name as a captured variable of an enclosing
// function, recursively: a direct local of the immediately enclosing
// function, or (transitively) an upvalue of that enclosing function.
func resolveUpvalue(p *Parser, fs *funcState, name string) int {
	if fs.enclosing == nil {
		return -1
	}
	if local := resolveLocal(p, fs.enclosing, name); local != -1 {
		fs.enclosing.locals[local].isCaptured = true
		return addUpvalue(p, fs, byte(local), true)
	}
	if up := resolveUpvalue(p, fs.enclosing, name); up != -1 {
		return addUpvalue(p, fs, byte(up), false)
	}
	return -1
}

// addUpvalue deduplicates: an existing upvalue referring to the same
// (index, isLocal) pair is reused rather than appended twice.
func addUpvalue(p *Parser, fs *funcState, index byte, isLocal bool) int {
	for i, up := range fs.upvalues {
		if up.index == index && up.isLocal == isLocal {
			return i
		}
	}
	if len(fs.upvalues) >= maxUpvalues {
		p.error("Too many closure variables in function.")
		return 0
	}
	fs.upvalues = append(fs.upvalues, upvalueRef{index: index, isLocal: isLocal})
	fs.proto.UpvalueCount = len(fs.upvalues)
	return len(fs.upvalues) - 1
}

// variableRef compiles a read or (if canAssign and '=' follows) a write of
// name, resolving it as exactly one of local, upvalue, or global -- in that
// preference order.
func variableRef(p *Parser, canAssign bool, name string) {
	var getOp, setOp Opcode
	arg := resolveLocal(p, p.fs, name)
	if arg != -1 {
		getOp, setOp = GET_LOCAL, SET_LOCAL
	} else if arg = resolveUpvalue(p, p.fs, name); arg != -1 {
		getOp, setOp = GET_UPVALUE, SET_UPVALUE
	} else {
		arg = int(p.identifierConstant(name))
		getOp, setOp = GET_GLOBAL, SET_GLOBAL
	}

	if canAssign && p.match(token.EQUAL) {
		p.expression()
		p.emitOpByte(setOp, byte(arg))
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}
