package machine_test

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/izi/internal/filetest"
	"github.com/mna/izi/lang/machine"
	"github.com/stretchr/testify/require"
)

var testUpdateE2ETests = flag.Bool("test.update-e2e-tests", false, "If set, replace expected end-to-end test results with actual results.")

// TestEndToEnd runs every .izi file in testdata/e2e to completion on a
// fresh Thread and diffs its stdout/stderr against the matching .want/.err
// golden file, covering the end-to-end scenarios from the language spec.
func TestEndToEnd(t *testing.T) {
	dir := filepath.Join("testdata", "e2e")
	for _, fi := range filetest.SourceFiles(t, dir, ".izi") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, fi.Name()))
			require.NoError(t, err)

			var out, errOut bytes.Buffer
			th := machine.NewThread()
			th.Stdout = &out
			th.Stderr = &errOut
			_ = machine.Interpret(context.Background(), th, string(src))

			filetest.DiffOutput(t, fi, out.String(), dir, testUpdateE2ETests)
			filetest.DiffErrors(t, fi, errOut.String(), dir, testUpdateE2ETests)
		})
	}
}
