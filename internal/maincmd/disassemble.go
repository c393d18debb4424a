package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/izi/lang/compiler"
	"github.com/mna/mainer"
)

// Disassemble compiles each file in args and prints its bytecode in
// human-readable form, without running it. A compile error is reported the
// same way as for the normal run path.
func (c *Cmd) Disassemble(ctx context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return exitIOError
		}

		proto, err := compiler.Compile(string(src))
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return exitCompileError
		}
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(proto))
	}
	return mainer.Success
}
