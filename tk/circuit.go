// Package tk is a small gate-level circuit representation: a register of
// qubits and bits, a list of operations, and the post-selection,
// post-processing and scalar that diagrams carry along.
// Angles are stored in half-turns.
package tk

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Condition makes an operation depend on the value of a classical bit.
type Condition struct {
	Bit   int
	Value int
}

// Op is one operation of a circuit. Measure ops have one qubit and one bit.
type Op struct {
	Name      string
	Qubits    []int
	Bits      []int
	Params    []float64 // half-turns
	Condition *Condition
}

// gateSpec gives the arity of each gate the IR knows about.
type gateSpec struct {
	qubits, params int
}

var gateSpecs = map[string]gateSpec{
	"H": {1, 0}, "X": {1, 0}, "Y": {1, 0}, "Z": {1, 0},
	"S": {1, 0}, "T": {1, 0}, "Sdg": {1, 0}, "Tdg": {1, 0},
	"Rx": {1, 1}, "Ry": {1, 1}, "Rz": {1, 1},
	"CX": {2, 0}, "CZ": {2, 0}, "SWAP": {2, 0},
	"CRz": {2, 1}, "CRx": {2, 1}, "CU1": {2, 1},
	"CCX": {3, 0}, "CSWAP": {3, 0},
	"Reset": {1, 0},
}

// IsGate reports whether name is a unitary gate or reset known to the IR.
func IsGate(name string) bool {
	_, ok := gateSpecs[name]
	return ok
}

// Counts maps bitstrings to the number of shots that produced them. Character
// i of a key is the value of bit i.
type Counts map[string]int

// PostProcessing is the classical computation applied to the output bits of
// a circuit after it runs.
type PostProcessing interface {
	String() string
}

// Circuit is a gate-level circuit.
type Circuit struct {
	NumQubits      int
	NumBits        int
	Ops            []Op
	PostSelection  map[int]int
	PostProcessing PostProcessing
	Scalar         float64
}

// NewCircuit returns an empty circuit on the given registers with unit scalar.
func NewCircuit(qubits, bits int) *Circuit {
	return &Circuit{NumQubits: qubits, NumBits: bits, PostSelection: map[int]int{}, Scalar: 1}
}

// AddQubit grows the quantum register and returns the new index.
func (c *Circuit) AddQubit() int {
	c.NumQubits++
	return c.NumQubits - 1
}

// AddBit grows the classical register and returns the new index.
func (c *Circuit) AddBit() int {
	c.NumBits++
	return c.NumBits - 1
}

// AddGate appends a gate. Qubit indices beyond the register grow it.
func (c *Circuit) AddGate(name string, params []float64, qubits ...int) *Circuit {
	for _, q := range qubits {
		c.NumQubits = max(c.NumQubits, q+1)
	}
	c.Ops = append(c.Ops, Op{Name: name, Qubits: qubits, Params: params})
	return c
}

func (c *Circuit) H(q int) *Circuit { return c.AddGate("H", nil, q) }
func (c *Circuit) X(q int) *Circuit { return c.AddGate("X", nil, q) }
func (c *Circuit) Y(q int) *Circuit { return c.AddGate("Y", nil, q) }
func (c *Circuit) Z(q int) *Circuit { return c.AddGate("Z", nil, q) }
func (c *Circuit) S(q int) *Circuit { return c.AddGate("S", nil, q) }
func (c *Circuit) T(q int) *Circuit { return c.AddGate("T", nil, q) }
func (c *Circuit) Sdg(q int) *Circuit { return c.AddGate("Sdg", nil, q) }
func (c *Circuit) Tdg(q int) *Circuit { return c.AddGate("Tdg", nil, q) }
func (c *Circuit) Reset(q int) *Circuit { return c.AddGate("Reset", nil, q) }

func (c *Circuit) CX(control, target int) *Circuit { return c.AddGate("CX", nil, control, target) }
func (c *Circuit) CZ(control, target int) *Circuit { return c.AddGate("CZ", nil, control, target) }
func (c *Circuit) SWAP(q0, q1 int) *Circuit { return c.AddGate("SWAP", nil, q0, q1) }

func (c *Circuit) CCX(c0, c1, target int) *Circuit { return c.AddGate("CCX", nil, c0, c1, target) }
func (c *Circuit) CSWAP(control, q0, q1 int) *Circuit {
	return c.AddGate("CSWAP", nil, control, q0, q1)
}

// Rotations take their angle in half-turns.
func (c *Circuit) Rx(angle float64, q int) *Circuit { return c.AddGate("Rx", []float64{angle}, q) }
func (c *Circuit) Ry(angle float64, q int) *Circuit { return c.AddGate("Ry", []float64{angle}, q) }
func (c *Circuit) Rz(angle float64, q int) *Circuit { return c.AddGate("Rz", []float64{angle}, q) }

func (c *Circuit) CRz(angle float64, control, target int) *Circuit {
	return c.AddGate("CRz", []float64{angle}, control, target)
}

func (c *Circuit) CRx(angle float64, control, target int) *Circuit {
	return c.AddGate("CRx", []float64{angle}, control, target)
}

func (c *Circuit) CU1(angle float64, control, target int) *Circuit {
	return c.AddGate("CU1", []float64{angle}, control, target)
}

// Measure measures qubit q into bit b.
func (c *Circuit) Measure(q, b int) *Circuit {
	c.NumQubits = max(c.NumQubits, q+1)
	c.NumBits = max(c.NumBits, b+1)
	c.Ops = append(c.Ops, Op{Name: "Measure", Qubits: []int{q}, Bits: []int{b}})
	return c
}

// Conditional makes the last operation depend on bit b having the given value.
func (c *Circuit) Conditional(b, value int) *Circuit {
	if len(c.Ops) == 0 {
		return c
	}
	c.NumBits = max(c.NumBits, b+1)
	c.Ops[len(c.Ops)-1].Condition = &Condition{Bit: b, Value: value}
	return c
}

// PostSelect keeps only the runs where each bit has the given value.
func (c *Circuit) PostSelect(selection map[int]int) *Circuit {
	if c.PostSelection == nil {
		c.PostSelection = map[int]int{}
	}
	maps.Copy(c.PostSelection, selection)
	return c
}

// PostProcess sets the classical post-processing.
func (c *Circuit) PostProcess(p PostProcessing) *Circuit {
	c.PostProcessing = p
	return c
}

// Scale multiplies the scalar of the circuit.
func (c *Circuit) Scale(x float64) *Circuit {
	c.Scalar *= x
	return c
}

// MeasureAll measures every qubit that is not measured yet into a fresh bit.
func (c *Circuit) MeasureAll() *Circuit {
	measured := make(map[int]bool)
	for _, op := range c.Ops {
		if op.Name == "Measure" {
			measured[op.Qubits[0]] = true
		}
	}
	for q := range c.NumQubits {
		if !measured[q] {
			c.Measure(q, c.AddBit())
		}
	}
	return c
}

// Clone returns a deep copy. The post-processing is shared.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{
		NumQubits:      c.NumQubits,
		NumBits:        c.NumBits,
		Ops:            make([]Op, len(c.Ops)),
		PostSelection:  maps.Clone(c.PostSelection),
		PostProcessing: c.PostProcessing,
		Scalar:         c.Scalar,
	}
	if out.PostSelection == nil {
		out.PostSelection = map[int]int{}
	}
	for i, op := range c.Ops {
		op.Qubits = slices.Clone(op.Qubits)
		op.Bits = slices.Clone(op.Bits)
		op.Params = slices.Clone(op.Params)
		if op.Condition != nil {
			cond := *op.Condition
			op.Condition = &cond
		}
		out.Ops[i] = op
	}
	return out
}

// RenameBits applies the relabelling old -> rename[old] to every bit
// reference, including the post-selection.
func (c *Circuit) RenameBits(rename []int) {
	for i := range c.Ops {
		for j, b := range c.Ops[i].Bits {
			c.Ops[i].Bits[j] = rename[b]
		}
		if cond := c.Ops[i].Condition; cond != nil {
			cond.Bit = rename[cond.Bit]
		}
	}
	selection := make(map[int]int, len(c.PostSelection))
	for b, v := range c.PostSelection {
		selection[rename[b]] = v
	}
	c.PostSelection = selection
}

// Validate checks register bounds and gate arities.
func (c *Circuit) Validate() error {
	for i, op := range c.Ops {
		if op.Name == "Measure" {
			if len(op.Qubits) != 1 || len(op.Bits) != 1 {
				return fmt.Errorf("op %d: measure needs one qubit and one bit", i)
			}
		} else {
			spec, ok := gateSpecs[op.Name]
			if !ok {
				return fmt.Errorf("op %d: unknown gate %q", i, op.Name)
			}
			if len(op.Qubits) != spec.qubits || len(op.Params) != spec.params {
				return fmt.Errorf("op %d: %s takes %d qubits and %d params", i, op.Name, spec.qubits, spec.params)
			}
		}
		for _, q := range op.Qubits {
			if q < 0 || q >= c.NumQubits {
				return fmt.Errorf("op %d: qubit %d out of range", i, q)
			}
		}
		for _, b := range op.Bits {
			if b < 0 || b >= c.NumBits {
				return fmt.Errorf("op %d: bit %d out of range", i, b)
			}
		}
		if op.Condition != nil && (op.Condition.Bit < 0 || op.Condition.Bit >= c.NumBits) {
			return fmt.Errorf("op %d: condition bit %d out of range", i, op.Condition.Bit)
		}
	}
	return nil
}

// String renders the circuit as a chain of builder calls, for instance
// tk.Circuit(2, 2).CX(0, 1).Measure(0, 0).
func (c *Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tk.Circuit(%d", c.NumQubits)
	if c.NumBits > 0 {
		fmt.Fprintf(&sb, ", %d", c.NumBits)
	}
	sb.WriteString(")")
	for _, op := range c.Ops {
		sb.WriteString("." + op.String())
	}
	if len(c.PostSelection) > 0 {
		keys := slices.Sorted(maps.Keys(c.PostSelection))
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%d: %d", k, c.PostSelection[k])
		}
		fmt.Fprintf(&sb, ".post_select({%s})", strings.Join(parts, ", "))
	}
	if c.PostProcessing != nil {
		fmt.Fprintf(&sb, ".post_process(%s)", c.PostProcessing)
	}
	if c.Scalar != 1 {
		fmt.Fprintf(&sb, ".scale(%s)", strconv.FormatFloat(c.Scalar, 'g', -1, 64))
	}
	return sb.String()
}

func (op Op) String() string {
	var args []string
	for _, p := range op.Params {
		args = append(args, strconv.FormatFloat(p, 'g', -1, 64))
	}
	for _, q := range op.Qubits {
		args = append(args, strconv.Itoa(q))
	}
	for _, b := range op.Bits {
		args = append(args, strconv.Itoa(b))
	}
	if op.Condition != nil {
		args = append(args,
			fmt.Sprintf("condition_bits=[%d]", op.Condition.Bit),
			fmt.Sprintf("condition_value=%d", op.Condition.Value))
	}
	return op.Name + "(" + strings.Join(args, ", ") + ")"
}
