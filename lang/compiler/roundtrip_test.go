package compiler_test

import (
	"strconv"
	"testing"

	"github.com/mna/izi/lang/compiler"
	"github.com/mna/izi/lang/scanner"
	"github.com/mna/izi/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNumberLiteralRoundTrips checks the round-trip property from the
// spec's testable properties: a number literal, once compiled to its
// float64 constant-pool form and re-printed (the way PRINT would print
// it), re-lexes to a token whose parsed value equals the original, within
// double precision.
func TestNumberLiteralRoundTrips(t *testing.T) {
	for _, lexeme := range []string{"0", "1", "1.5", "3.14159", "1000000", "0.001"} {
		lexeme := lexeme
		t.Run(lexeme, func(t *testing.T) {
			proto, err := compiler.Compile("print " + lexeme + ";")
			require.NoError(t, err)

			var constVal float64
			var found bool
			for _, c := range proto.Chunk.Constants {
				if f, ok := c.(float64); ok {
					constVal = f
					found = true
				}
			}
			require.True(t, found, "expected a float64 constant in the chunk")

			printed := strconv.FormatFloat(constVal, 'f', -1, 64)

			s := scanner.New(printed)
			tok := s.Scan()
			require.Equal(t, token.NUMBER, tok.Kind)

			reLexed, err := strconv.ParseFloat(tok.Lexeme, 64)
			require.NoError(t, err)
			assert.InDelta(t, constVal, reLexed, 1e-12)
		})
	}
}

func TestDisassembleCompileDeterministicAcrossPrograms(t *testing.T) {
	srcs := []string{
		`print 1;`,
		`var x = 1; print x;`,
		`fun f() { return 1; } print f();`,
		`class C { m() { return 1; } } print C().m();`,
	}
	for _, src := range srcs {
		src := src
		t.Run(src, func(t *testing.T) {
			p1, err := compiler.Compile(src)
			require.NoError(t, err)
			p2, err := compiler.Compile(src)
			require.NoError(t, err)
			assert.Equal(t, compiler.Disassemble(p1), compiler.Disassemble(p2))
		})
	}
}
