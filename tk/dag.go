package tk

import (
	"fmt"
	"slices"
)

// DAGNode is an operation of the circuit as a node in a DAG.
// Dependencies are the earlier operations that touch the same qubits or bits.
type DAGNode struct {
	ID           string
	Index        int // position in Circuit.Ops
	Op           Op
	Step         int // ASAP layer
	Dependencies []string
}

// DAG represents a circuit as a directed acyclic graph of operations.
type DAG struct {
	Nodes     map[string]*DAGNode
	NumQubits int
	NumBits   int
	order     []string
	source    *Circuit
}

// generateNodeID creates a unique ID for a node based on its properties.
func generateNodeID(op Op, index int) string {
	return fmt.Sprintf("%s_%d", op.Name, index)
}

// wires returns the qubit and bit wires an op touches. Bits are offset
// by the number of qubits.
func (dag *DAG) wires(op Op) []int {
	wires := slices.Clone(op.Qubits)
	for _, b := range op.Bits {
		wires = append(wires, dag.NumQubits+b)
	}
	if op.Condition != nil {
		wires = append(wires, dag.NumQubits+op.Condition.Bit)
	}
	return wires
}

// NewDAG builds the dependency graph of c and schedules every operation
// at the earliest step after its dependencies.
func NewDAG(c *Circuit) *DAG {
	dag := &DAG{
		Nodes:     make(map[string]*DAGNode, len(c.Ops)),
		NumQubits: c.NumQubits,
		NumBits:   c.NumBits,
		source:    c,
	}

	// Track the last node on each wire to establish dependencies
	lastOnWire := make(map[int]string)
	for i, op := range c.Ops {
		node := &DAGNode{ID: generateNodeID(op, i), Index: i, Op: op}
		wires := dag.wires(op)
		for _, w := range wires {
			if lastID, ok := lastOnWire[w]; ok && !slices.Contains(node.Dependencies, lastID) {
				node.Dependencies = append(node.Dependencies, lastID)
				node.Step = max(node.Step, dag.Nodes[lastID].Step+1)
			}
		}
		dag.Nodes[node.ID] = node
		dag.order = append(dag.order, node.ID)
		for _, w := range wires {
			lastOnWire[w] = node.ID
		}
	}
	return dag
}

// TopologicalSort returns nodes in topological order (respecting dependencies).
// Nodes of the same step keep their circuit order.
func (dag *DAG) TopologicalSort() []*DAGNode {
	nodes := make([]*DAGNode, 0, len(dag.order))
	for _, id := range dag.order {
		nodes = append(nodes, dag.Nodes[id])
	}
	slices.SortStableFunc(nodes, func(a, b *DAGNode) int {
		return a.Step - b.Step
	})
	return nodes
}

// Depth is the number of steps.
func (dag *DAG) Depth() int {
	depth := 0
	for _, node := range dag.Nodes {
		depth = max(depth, node.Step+1)
	}
	return depth
}

// Layers groups the nodes by step.
func (dag *DAG) Layers() [][]*DAGNode {
	layers := make([][]*DAGNode, dag.Depth())
	for _, node := range dag.TopologicalSort() {
		layers[node.Step] = append(layers[node.Step], node)
	}
	return layers
}

// GetNodeAt returns the node at the given step that touches the given qubit, if any.
func (dag *DAG) GetNodeAt(step, qubit int) *DAGNode {
	for _, node := range dag.Nodes {
		if node.Step == step && slices.Contains(node.Op.Qubits, qubit) {
			return node
		}
	}
	return nil
}

// ToCircuit rebuilds the circuit in circuit order, except that each
// measurement moves up to just after the last operation it depends on.
// Post-selection, post-processing and scalar are kept.
func (dag *DAG) ToCircuit() *Circuit {
	c := dag.source.Clone()
	order := make([]*DAGNode, 0, len(dag.order))
	for _, id := range dag.order {
		node := dag.Nodes[id]
		at := len(order)
		if node.Op.Name == "Measure" {
			at = 0
			for i, prev := range order {
				if slices.Contains(node.Dependencies, prev.ID) {
					at = i + 1
				}
			}
		}
		order = slices.Insert(order, at, node)
	}
	ops := c.Ops
	c.Ops = make([]Op, len(order))
	for i, node := range order {
		c.Ops[i] = ops[node.Index]
	}
	return c
}

// Schedule returns a copy of c with every measurement taken as early as
// its wires allow.
func (c *Circuit) Schedule() *Circuit {
	return NewDAG(c).ToCircuit()
}
