package tk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedProcessing string

func (p namedProcessing) String() string { return string(p) }

func TestCircuit_String(t *testing.T) {
	c := NewCircuit(2, 2).CX(0, 1).Measure(1, 0).Measure(0, 1)
	assert.Equal(t, "tk.Circuit(2, 2).CX(0, 1).Measure(1, 0).Measure(0, 1)", c.String())

	assert.Equal(t, "tk.Circuit(0, 2)", NewCircuit(0, 2).String())
	assert.Equal(t, "tk.Circuit(1).Rx(0.5, 0)", NewCircuit(1, 0).Rx(0.5, 0).String())

	c = NewCircuit(1, 3).Measure(0, 1)
	c.PostSelect(map[int]int{1: 0}).PostProcess(namedProcessing("Swap(bit, bit)"))
	assert.Equal(t, "tk.Circuit(1, 3).Measure(0, 1).post_select({1: 0}).post_process(Swap(bit, bit))", c.String())

	c = NewCircuit(1, 1).X(0).Conditional(0, 1).Scale(2)
	assert.Equal(t, "tk.Circuit(1, 1).X(0, condition_bits=[0], condition_value=1).scale(2)", c.String())
}

func TestCircuit_MeasureAll(t *testing.T) {
	c := NewCircuit(3, 1).H(0).Measure(1, 0)
	c.MeasureAll()
	assert.Equal(t, 3, c.NumBits)
	assert.Equal(t, "tk.Circuit(3, 3).H(0).Measure(1, 0).Measure(0, 1).Measure(2, 2)", c.String())
}

func TestCircuit_CloneAndRenameBits(t *testing.T) {
	c := NewCircuit(2, 2).Measure(0, 0).Measure(1, 1).X(0).Conditional(1, 1)
	c.PostSelect(map[int]int{0: 1})

	clone := c.Clone()
	clone.RenameBits([]int{1, 0})
	assert.Equal(t, "tk.Circuit(2, 2).Measure(0, 1).Measure(1, 0).X(0, condition_bits=[0], condition_value=1).post_select({1: 1})", clone.String())
	assert.Equal(t, "tk.Circuit(2, 2).Measure(0, 0).Measure(1, 1).X(0, condition_bits=[1], condition_value=1).post_select({0: 1})", c.String())
}

func TestCircuit_Validate(t *testing.T) {
	require.NoError(t, NewCircuit(3, 1).CCX(0, 1, 2).CSWAP(0, 1, 2).Measure(2, 0).Validate())

	bad := NewCircuit(1, 0)
	bad.Ops = append(bad.Ops, Op{Name: "CX", Qubits: []int{0}})
	assert.Error(t, bad.Validate())

	bad = NewCircuit(1, 0)
	bad.Ops = append(bad.Ops, Op{Name: "Foo", Qubits: []int{0}})
	assert.Error(t, bad.Validate())

	bad = NewCircuit(1, 1)
	bad.Ops = append(bad.Ops, Op{Name: "Measure", Qubits: []int{0}, Bits: []int{4}})
	assert.Error(t, bad.Validate())

	assert.True(t, IsGate("CRz"))
	assert.False(t, IsGate("Measure"))
}

func TestDAG_ParallelGates(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[4];
creg c[1];

h q[0];
h q[1];
cx q[0], q[1];
x q[2];
measure q[1] -> c[0];
if (c[0]==1) z q[3];
`
	c, err := ParseQASM(qasm)
	require.NoError(t, err)

	dag := NewDAG(c)
	steps := make([]int, len(c.Ops))
	for _, node := range dag.Nodes {
		steps[node.Index] = node.Step
	}
	assert.Equal(t, []int{0, 0, 1, 0, 2, 3}, steps)
	assert.Equal(t, 4, dag.Depth())

	layers := dag.Layers()
	require.Len(t, layers, 4)
	assert.Len(t, layers[0], 3)
	assert.Equal(t, "CX", dag.GetNodeAt(1, 0).Op.Name)
	assert.Nil(t, dag.GetNodeAt(1, 2))

	scheduled := dag.ToCircuit()
	assert.Equal(t, "tk.Circuit(4, 1).H(0).H(1).CX(0, 1).Measure(1, 0).X(2).Z(3, condition_bits=[0], condition_value=1)", scheduled.String())
}

func TestSchedule_KeepsPostSelectionAndScalar(t *testing.T) {
	post := NewCircuit(0, 2).PostSelect(map[int]int{1: 0})
	c := NewCircuit(2, 2).H(0).CX(0, 1).Measure(0, 1).Measure(1, 0).
		PostSelect(map[int]int{1: 0}).PostProcess(post).Scale(2)

	got := c.Schedule()
	assert.Equal(t, "tk.Circuit(2, 2).H(0).CX(0, 1).Measure(1, 0).Measure(0, 1)"+
		".post_select({1: 0}).post_process(tk.Circuit(0, 2).post_select({1: 0})).scale(2)", got.String())
	assert.Equal(t, map[int]int{1: 0}, got.PostSelection)
	assert.Same(t, post, got.PostProcessing)
	assert.InDelta(t, 2, got.Scalar, 1e-12)

	// The input is left alone.
	assert.Equal(t, "Measure(0, 1)", c.Ops[2].String())
}

func TestSchedule_MeasuresEarly(t *testing.T) {
	c := NewCircuit(3, 2).H(1).CX(1, 2).CX(0, 1).H(0).Measure(0, 0).Measure(1, 1)
	got := c.Schedule()

	names := make([]string, len(got.Ops))
	for i, op := range got.Ops {
		names[i] = op.String()
	}
	assert.Equal(t, []string{"H(1)", "CX(1, 2)", "CX(0, 1)", "Measure(1, 1)", "H(0)", "Measure(0, 0)"}, names)
}
