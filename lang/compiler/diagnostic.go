package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// A Diagnostic is a single compile-time error, reported the way the
// reference implementation formats them: "[line N] Error at '<lexeme>':
// <message>" (or "at end" once the scanner has reached EOF).
type Diagnostic struct {
	Line  int
	Where string // lexeme the error was reported at, or "" for "at end"
	AtEnd bool
	Msg   string
}

func (d *Diagnostic) Error() string {
	if d.AtEnd {
		return fmt.Sprintf("[line %d] Error at end: %s", d.Line, d.Msg)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", d.Line, d.Where, d.Msg)
}

// Diagnostics accumulates every error found during one compilation, in the
// order encountered, so that a single pass can surface as many problems as
// possible instead of bailing out at the first one (see the panic-mode
// recovery in compiler.go).
type Diagnostics []*Diagnostic

func (ds *Diagnostics) add(d *Diagnostic) { *ds = append(*ds, d) }

// Sort orders diagnostics by line number, for stable, deterministic output.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].Line < ds[j].Line })
}

func (ds Diagnostics) Error() string {
	switch len(ds) {
	case 0:
		return ""
	case 1:
		return ds[0].Error()
	}
	var b strings.Builder
	for i, d := range ds {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.Error())
	}
	return b.String()
}

// Err returns nil if there are no diagnostics, or the full Diagnostics
// list (itself an error, via Error() and Unwrap()) otherwise -- mirroring
// the teacher's scanner.ErrorList.Err() shape.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}

// Unwrap lets errors.Is/As reach any individual diagnostic.
func (ds Diagnostics) Unwrap() []error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errs
}
