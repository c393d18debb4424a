package maincmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNoArgsUsesRepl(t *testing.T) {
	var c Cmd
	c.SetArgs(nil)
	require.NoError(t, c.Validate())
	require.NotNil(t, c.cmdFn)
}

func TestValidateSingleFileRunsFile(t *testing.T) {
	var c Cmd
	c.SetArgs([]string{"prog.izi"})
	require.NoError(t, c.Validate())
	require.NotNil(t, c.cmdFn)
}

func TestValidateTooManyPlainArgs(t *testing.T) {
	var c Cmd
	c.SetArgs([]string{"a.izi", "b.izi"})
	assert.Error(t, c.Validate())
}

func TestValidateTokenizeRequiresAtLeastOneFile(t *testing.T) {
	var c Cmd
	c.SetArgs([]string{"tokenize"})
	assert.Error(t, c.Validate())
}

func TestValidateUnknownSubcommandWithOneArgRunsAsFile(t *testing.T) {
	// "disassemble" and "tokenize" are the only reserved first-argument
	// names; anything else is treated as a file path even if it looks
	// command-like.
	var c Cmd
	c.SetArgs([]string{"frobnicate"})
	require.NoError(t, c.Validate())
}

func TestReplEchoesPrintedOutput(t *testing.T) {
	var c Cmd
	c.SetArgs(nil)
	require.NoError(t, c.Validate())

	var out bytes.Buffer
	stdio := mainer.Stdio{
		Stdout: &out,
		Stderr: &out,
		Stdin:  strings.NewReader("print 1 + 1;\n"),
	}
	code := c.cmdFn(context.Background(), stdio, nil)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "2\n")
}

func TestRunFileExecutesScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.izi")
	require.NoError(t, os.WriteFile(path, []byte(`print "hi";`), 0600))

	var c Cmd
	var out bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &out}
	code := c.runFile(context.Background(), stdio, path)
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "hi\n", out.String())
}

func TestRunFileMissingReturnsIOError(t *testing.T) {
	var c Cmd
	var errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &errOut, Stderr: &errOut}
	code := c.runFile(context.Background(), stdio, filepath.Join(t.TempDir(), "missing.izi"))
	assert.Equal(t, exitIOError, code)
}

func TestRunFileCompileErrorReturnsExitCompileError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.izi")
	require.NoError(t, os.WriteFile(path, []byte(`var x = ;`), 0600))

	var c Cmd
	var errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &errOut, Stderr: &errOut}
	code := c.runFile(context.Background(), stdio, path)
	assert.Equal(t, exitCompileError, code)
}

func TestRunFileRuntimeErrorReturnsExitRuntimeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.izi")
	require.NoError(t, os.WriteFile(path, []byte(`print 1 + "x";`), 0600))

	var c Cmd
	var errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &errOut, Stderr: &errOut}
	code := c.runFile(context.Background(), stdio, path)
	assert.Equal(t, exitRuntimeError, code)
}

func TestTokenizePrintsTokens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tok.izi")
	require.NoError(t, os.WriteFile(path, []byte(`var x = 1;`), 0600))

	var c Cmd
	var out bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &out}
	code := c.Tokenize(context.Background(), stdio, []string{path})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "var")
	assert.Contains(t, out.String(), "end of file")
}

func TestDisassembleRejectsCompileError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.izi")
	require.NoError(t, os.WriteFile(path, []byte(`var x = ;`), 0600))

	var c Cmd
	var errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &errOut, Stderr: &errOut}
	code := c.Disassemble(context.Background(), stdio, []string{path})
	assert.Equal(t, exitCompileError, code)
}

func TestDisassembleValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.izi")
	require.NoError(t, os.WriteFile(path, []byte(`print 1 + 2;`), 0600))

	var c Cmd
	var out bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &out}
	code := c.Disassemble(context.Background(), stdio, []string{path})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "== <script> ==")
}
