package machine

import (
	"fmt"
	"strings"
)

// runtimeError formats err as a stack trace (top frame first), writes it
// to Stderr, resets the VM's stacks, and returns it wrapped as a
// *RuntimeError so callers can distinguish a runtime abort from a compile
// error returned by Interpret.
func (th *Thread) runtimeError(err error) error {
	var b strings.Builder
	fmt.Fprintln(&b, err.Error())
	for i := th.frameCnt - 1; i >= 0; i-- {
		fr := &th.frames[i]
		name := fr.closure.Fn.Name()
		if name == "script" {
			fmt.Fprintf(&b, "[line %d] in script\n", fr.line())
		} else {
			fmt.Fprintf(&b, "[line %d] in %s()\n", fr.line(), name)
		}
	}
	trace := b.String()
	fmt.Fprint(th.stderr(), trace)

	th.resetStacks()
	return &RuntimeError{Msg: err.Error(), Trace: trace}
}

func (th *Thread) resetStacks() {
	th.stackTop = 0
	th.frameCnt = 0
	th.openUpvalues = nil
}
