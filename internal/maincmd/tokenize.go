package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/izi/lang/scanner"
	"github.com/mna/izi/lang/token"
	"github.com/mna/mainer"
)

// Tokenize runs only the scanner on each file in args and prints the
// resulting tokens, one per line, until EOF.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return exitIOError
		}

		sc := scanner.New(string(src))
		for {
			tok := sc.Scan()
			fmt.Fprintf(stdio.Stdout, "%4d %-14s %q\n", tok.Line, tok.Kind, tok.Lexeme)
			if tok.Kind == token.EOF {
				break
			}
		}
	}
	return mainer.Success
}
