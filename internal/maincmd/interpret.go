package maincmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/mna/izi/lang/machine"
	"github.com/mna/mainer"
)

// interpret compiles and runs source on a fresh thread, printing compile
// diagnostics to stdio.Stderr (runtime error traces are already written by
// the machine package itself) and translating the outcome to the exit code
// contract from the spec's CLI section.
//
// machine.Interpret only ever fails two ways: a compile error (returned
// directly from compiler.Compile, before any bytecode runs) or a
// *machine.RuntimeError (once the VM starts executing). Checking for the
// latter is enough to tell them apart -- anything else non-nil is, by
// construction, the compiler.Diagnostics list of compile errors (see
// compiler.Diagnostics.Err()).
func interpret(ctx context.Context, stdio mainer.Stdio, source string) mainer.ExitCode {
	th := machine.NewThread()
	th.Stdout = stdio.Stdout
	th.Stderr = stdio.Stderr

	err := machine.Interpret(ctx, th, source)
	if err == nil {
		return mainer.Success
	}

	var rerr *machine.RuntimeError
	if errors.As(err, &rerr) {
		return exitRuntimeError
	}
	fmt.Fprintln(stdio.Stderr, err)
	return exitCompileError
}
