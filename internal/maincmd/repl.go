package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/mna/mainer"
)

// maxReplLine is the longest line the REPL will accept per prompt, per the
// spec's CLI contract.
const maxReplLine = 1024

// repl reads one line at a time from stdio.Stdin, interpreting each on a
// fresh thread, until EOF. A line that would produce a non-success exit
// code does not stop the loop: each line is its own program, the way the
// reference REPL behaves.
func (c *Cmd) repl(ctx context.Context, stdio mainer.Stdio, _ []string) mainer.ExitCode {
	r := bufio.NewReaderSize(stdio.Stdin, maxReplLine)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		line, err := readLine(r)
		if err == io.EOF {
			fmt.Fprintln(stdio.Stdout)
			return mainer.Success
		}
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return exitIOError
		}
		interpret(ctx, stdio, line)
	}
}

// readLine reads up to maxReplLine bytes or a newline, whichever comes
// first, trimming the trailing newline.
func readLine(r *bufio.Reader) (string, error) {
	b, err := r.ReadSlice('\n')
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", err
	}
	line := string(b)
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return line, nil
}
