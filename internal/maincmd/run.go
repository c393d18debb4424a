package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

// runFile reads path fully and interprets it once, per the spec's
// `izi <path>` CLI form.
func (c *Cmd) runFile(ctx context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitIOError
	}
	return interpret(ctx, stdio, string(src))
}
