// Package scanner tokenizes izi source text for the compiler to consume. It
// is adapted from the lazy, single-lookahead scanning style used by this
// repository's own language tooling (see lang/token), simplified to the
// one-token-at-a-time model a single-pass compiler needs.
package scanner

import (
	"fmt"

	"github.com/mna/izi/lang/token"
)

// Scanner tokenizes a single source string lazily: each call to Scan
// advances the cursor and returns the next Token. The source string must
// outlive every Token returned, since a Token's Lexeme is a substring of it.
type Scanner struct {
	src     string
	start   int // start of the token being scanned
	current int // offset of the next unread byte
	line    int
}

// New returns a Scanner ready to tokenize src starting at line 1.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Scan returns the next token in the source. Once the source is exhausted it
// returns an EOF token repeatedly.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespaceAndComments()
	s.start = s.current
	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LEFT_PAREN)
	case ')':
		return s.make(token.RIGHT_PAREN)
	case '{':
		return s.make(token.LEFT_BRACE)
	case '}':
		return s.make(token.RIGHT_BRACE)
	case ';':
		return s.make(token.SEMICOLON)
	case ':':
		return s.make(token.COLON)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case '/':
		return s.make(token.SLASH)
	case '*':
		return s.make(token.STAR)
	case '%':
		return s.make(token.PERCENT)
	case '!':
		return s.make(s.choose('=', token.BANG_EQUAL, token.BANG))
	case '=':
		return s.make(s.choose('=', token.EQUAL_EQUAL, token.EQUAL))
	case '<':
		return s.make(s.choose('=', token.LESS_EQUAL, token.LESS))
	case '>':
		return s.make(s.choose('=', token.GREATER_EQUAL, token.GREATER))
	case '"':
		return s.string()
	}

	return s.errorf("Unexpected character '%c'.", c)
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

// match advances and returns true only if the current byte equals want.
func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.current] != want {
		return false
	}
	s.current++
	return true
}

// choose returns yes if the current byte matches want (consuming it),
// otherwise no.
func (s *Scanner) choose(want byte, yes, no token.Kind) token.Kind {
	if s.match(want) {
		return yes
	}
	return no
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.line++
			s.current++
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.current++
	}
	lit := s.src[s.start:s.current]
	return s.make(token.Lookup(lit))
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.current++
	}
	// a fractional part is consumed only if followed by a digit: a trailing
	// dot is never part of a number literal.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++
		for isDigit(s.peek()) {
			s.current++
		}
	}
	return s.make(token.NUMBER)
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}
	if s.atEnd() {
		return s.errorf("Unterminated string.")
	}
	s.current++ // closing quote
	return s.make(token.STRING)
}

func (s *Scanner) make(k token.Kind) token.Token {
	return token.Token{Kind: k, Lexeme: s.src[s.start:s.current], Line: s.line}
}

// errorf returns an ILLEGAL token whose Lexeme carries the formatted error
// message, per the scanner/compiler error-token protocol: the compiler
// surfaces this text as a diagnostic and resynchronizes.
func (s *Scanner) errorf(format string, args ...any) token.Token {
	return token.Token{Kind: token.ILLEGAL, Lexeme: fmt.Sprintf(format, args...), Line: s.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
