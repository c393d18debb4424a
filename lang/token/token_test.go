package token_test

import (
	"testing"

	"github.com/mna/izi/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		lit  string
		want token.Kind
	}{
		{"and", token.AND},
		{"class", token.CLASS},
		{"super", token.SUPER},
		{"while", token.WHILE},
		{"switch", token.SWITCH},
		{"default", token.DEFAULT},
		{"x", token.IDENT},
		{"classes", token.IDENT},
		{"", token.IDENT},
	}
	for _, c := range cases {
		t.Run(c.lit, func(t *testing.T) {
			assert.Equal(t, c.want, token.Lookup(c.lit))
		})
	}
}

func TestKindString(t *testing.T) {
	require.Equal(t, "and", token.AND.String())
	require.Equal(t, "end of file", token.EOF.String())
	assert.Contains(t, token.Kind(120).String(), "unknown")
}
