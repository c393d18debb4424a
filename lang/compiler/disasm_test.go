package compiler_test

import (
	"strings"
	"testing"

	"github.com/mna/izi/lang/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleIsDeterministic(t *testing.T) {
	src := `
fun add(a, b) {
	return a + b;
}
print add(1, 2);
`
	p1, err := compiler.Compile(src)
	require.NoError(t, err)
	p2, err := compiler.Compile(src)
	require.NoError(t, err)

	d1 := compiler.Disassemble(p1)
	d2 := compiler.Disassemble(p2)
	assert.Equal(t, d1, d2)
	assert.Contains(t, d1, "== <script> ==")
	assert.Contains(t, d1, "== add ==")
}

func TestDisassembleListsOpcodeNames(t *testing.T) {
	proto, err := compiler.Compile(`print 1 + 2;`)
	require.NoError(t, err)

	out := compiler.Disassemble(proto)
	assert.True(t, strings.Contains(out, "CONSTANT"))
	assert.True(t, strings.Contains(out, "ADD"))
	assert.True(t, strings.Contains(out, "PRINT"))
	assert.True(t, strings.Contains(out, "RETURN"))
}
