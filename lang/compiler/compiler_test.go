package compiler_test

import (
	"testing"

	"github.com/mna/izi/lang/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSimpleExpression(t *testing.T) {
	proto, err := compiler.Compile(`print 1 + 2 * 3;`)
	require.NoError(t, err)
	require.NotNil(t, proto)
	assert.Equal(t, "", proto.Name)
	assert.Equal(t, 0, proto.Arity)
	assert.NotEmpty(t, proto.Chunk.Code)
}

func TestCompileErrorsAccumulate(t *testing.T) {
	_, err := compiler.Compile(`var x = ; var y = ;`)
	require.Error(t, err)
	diags, ok := err.(compiler.Diagnostics)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(diags), 2)
}

func TestCompileFunctionNested(t *testing.T) {
	proto, err := compiler.Compile(`
fun outer() {
	var x = 1;
	fun inner() {
		return x;
	}
	return inner;
}
`)
	require.NoError(t, err)

	var found *compiler.FunctionProto
	for _, c := range proto.Chunk.Constants {
		if fp, ok := c.(*compiler.FunctionProto); ok && fp.Name == "outer" {
			found = fp
		}
	}
	require.NotNil(t, found, "expected a nested FunctionProto named outer")

	var inner *compiler.FunctionProto
	for _, c := range found.Chunk.Constants {
		if fp, ok := c.(*compiler.FunctionProto); ok && fp.Name == "inner" {
			inner = fp
		}
	}
	require.NotNil(t, inner, "expected a nested FunctionProto named inner")
	assert.Equal(t, 1, inner.UpvalueCount)
}

func TestCompileClassAndMethod(t *testing.T) {
	proto, err := compiler.Compile(`
class Greeter {
	new(name) {
		this.name = name;
	}
	greet() {
		print this.name;
	}
}
var g = Greeter("world");
g.greet();
`)
	require.NoError(t, err)
	assert.NotEmpty(t, proto.Chunk.Code)
}

func TestCompileInheritanceAndSuper(t *testing.T) {
	proto, err := compiler.Compile(`
class Animal {
	speak() { print "..."; }
}
class Dog < Animal {
	speak() {
		super.speak();
		print "Woof";
	}
}
`)
	require.NoError(t, err)
	assert.NotEmpty(t, proto.Chunk.Code)
}

func TestCompileModuloOperator(t *testing.T) {
	proto, err := compiler.Compile(`print 7 % 2;`)
	require.NoError(t, err)

	var sawModulo bool
	for _, b := range proto.Chunk.Code {
		if compiler.Opcode(b) == compiler.MODULO {
			sawModulo = true
		}
	}
	assert.True(t, sawModulo, "expected a MODULO opcode in the compiled chunk")
}
