package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discocirq/tk"
)

const bellQASM = `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

h q[0];
cx q[0], q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`

// runApp runs the CLI with args and returns what it printed.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("QDECK_LOG_LEVEL", "disabled")
	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = io.Discard
	err := a.Run(append([]string{"qdeck"}, args...))
	return out.String(), err
}

func writeQASM(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circuit.qasm")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestExamplesCommand(t *testing.T) {
	out, err := runApp(t, "examples")
	require.NoError(t, err)
	for _, ex := range allExamples() {
		assert.Contains(t, out, ex.name)
	}
}

func TestNormalizeCommand_Print(t *testing.T) {
	out, err := runApp(t, "normalize", "--print", "snake")
	require.NoError(t, err)
	assert.Contains(t, out, "frame 1/")
	assert.Contains(t, out, "[f]")

	_, err = runApp(t, "normalize", "--print", "nope")
	assert.ErrorContains(t, err, "unknown example")
}

func TestQASMCommand(t *testing.T) {
	path := writeQASM(t, bellQASM)

	out, err := runApp(t, "qasm", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Circuit(dom=Ty(), cod=bit ** 2")

	out, err = runApp(t, "qasm", "--eval", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0.5000")
	assert.Contains(t, out, "11")

	_, err = runApp(t, "qasm")
	assert.ErrorContains(t, err, "missing <file>")

	_, err = runApp(t, "qasm", writeQASM(t, "qreg q[1];\nfoo q[0];\n"))
	assert.ErrorIs(t, err, tk.ErrParse)
}

func TestRunCommand(t *testing.T) {
	path := writeQASM(t, bellQASM)

	out, err := runApp(t, "run", "--exact", path)
	require.NoError(t, err)
	assert.Contains(t, out, "00")
	assert.Contains(t, out, "11")
	assert.NotContains(t, out, "01")

	out, err = runApp(t, "run", "--shots", "200", "--seed", "3", path)
	require.NoError(t, err)
	assert.Contains(t, out, "00")
	assert.Contains(t, out, "11")

	_, err = runApp(t, "run", "--shots", "0", path)
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	out, err := runApp(t, "export", "bell")
	require.NoError(t, err)
	assert.Contains(t, out, "OPENQASM 2.0;")
	assert.Contains(t, out, "cx q[0], q[1];")

	dir := t.TempDir()
	t.Setenv("QDECK_EXPORT_DIR", dir)
	_, err = runApp(t, "export", "--out", "snake.qasm", "qubit-snake")
	require.NoError(t, err)
	src, err := os.ReadFile(filepath.Join(dir, "snake.qasm"))
	require.NoError(t, err)
	tc, err := tk.ParseQASM(string(src))
	require.NoError(t, err)
	assert.Equal(t, 3, tc.NumQubits)
	assert.Equal(t, map[int]int{0: 0, 1: 0}, tc.PostSelection)

	_, err = runApp(t, "export", "snake")
	assert.ErrorContains(t, err, "not a circuit")
}
