package scanner_test

import (
	"testing"

	"github.com/mna/izi/lang/scanner"
	"github.com/mna/izi/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	s := scanner.New(src)
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestScanPunctuationAndKeywords(t *testing.T) {
	toks := scanAll(t, `var x = 1 + 2 * 3; // comment
print x;`)
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.EQUAL, token.NUMBER, token.PLUS, token.NUMBER,
		token.STAR, token.NUMBER, token.SEMICOLON,
		token.PRINT, token.IDENT, token.SEMICOLON, token.EOF,
	}, kinds)
}

func TestScanTwoCharOperators(t *testing.T) {
	toks := scanAll(t, `!= == <= >= < > !`)
	want := []token.Kind{
		token.BANG_EQUAL, token.EQUAL_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
		token.LESS, token.GREATER, token.BANG, token.EOF,
	}
	for i, k := range want {
		require.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanNumberTrailingDotNotConsumed(t *testing.T) {
	toks := scanAll(t, `1.5 2.`)
	require.Equal(t, token.NUMBER, toks[0].Kind)
	require.Equal(t, "1.5", toks[0].Lexeme)
	require.Equal(t, token.NUMBER, toks[1].Kind)
	require.Equal(t, "2", toks[1].Lexeme)
	require.Equal(t, token.DOT, toks[2].Kind)
}

func TestScanString(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, `"hello world"`, toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"hello`)
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
	require.Contains(t, toks[0].Lexeme, "Unterminated string")
}

func TestScanLineTracking(t *testing.T) {
	toks := scanAll(t, "var x\n= 1;")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[2].Line) // '='
}

func TestScanEOFRepeats(t *testing.T) {
	s := scanner.New("")
	require.Equal(t, token.EOF, s.Scan().Kind)
	require.Equal(t, token.EOF, s.Scan().Kind)
}
