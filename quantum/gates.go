package quantum

import (
	"fmt"
	"math"
	"math/cmplx"

	"discocirq/monoidal"
	"discocirq/symbolic"
	"discocirq/tensor"
)

const r2 = 1 / math.Sqrt2

// Named gates. Arrays are indexed by input then output.
var (
	X  = namedGate("X", 1, true, 0, 1, 1, 0)
	Y  = namedGate("Y", 1, true, 0, 1i, -1i, 0)
	Z  = namedGate("Z", 1, true, 1, 0, 0, -1)
	H  = namedGate("H", 1, true, r2, r2, r2, -r2)
	S  = namedGate("S", 1, false, 1, 0, 0, 1i)
	T  = namedGate("T", 1, false, 1, 0, 0, cmplx.Exp(complex(0, math.Pi/4)))
	CX = namedGate("CX", 2, true,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0)
	CZ = namedGate("CZ", 2, true,
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1)
)

// Rotation is a parametrised gate. Phases are in turns: Rz(phi) is
// diag(exp(-i pi phi), exp(i pi phi)) and the dagger negates the phase.
type Rotation struct {
	name    string
	nQubits int
	phase   symbolic.Expr
}

func Rx(phase symbolic.Expr) *Rotation { return &Rotation{name: "Rx", nQubits: 1, phase: phase} }
func Ry(phase symbolic.Expr) *Rotation { return &Rotation{name: "Ry", nQubits: 1, phase: phase} }
func Rz(phase symbolic.Expr) *Rotation { return &Rotation{name: "Rz", nQubits: 1, phase: phase} }
func CRz(phase symbolic.Expr) *Rotation { return &Rotation{name: "CRz", nQubits: 2, phase: phase} }
func CRx(phase symbolic.Expr) *Rotation { return &Rotation{name: "CRx", nQubits: 2, phase: phase} }
func CU1(phase symbolic.Expr) *Rotation { return &Rotation{name: "CU1", nQubits: 2, phase: phase} }

func (r *Rotation) Name() string { return r.name }
func (r *Rotation) Dom() monoidal.Ty { return Qubit.Pow(r.nQubits) }
func (r *Rotation) Cod() monoidal.Ty { return Qubit.Pow(r.nQubits) }
func (r *Rotation) IsMixed() bool { return false }
func (r *Rotation) Phase() symbolic.Expr { return r.phase }
func (r *Rotation) String() string { return r.name + "(" + r.phase.String() + ")" }

func (r *Rotation) Dagger() monoidal.Box {
	return &Rotation{name: r.name, nQubits: r.nQubits, phase: symbolic.Neg(r.phase)}
}

func (r *Rotation) Equal(o monoidal.Box) bool {
	other, ok := o.(*Rotation)
	return ok && r.name == other.name && symbolic.Equal(r.phase, other.phase)
}

// withPhase returns the same rotation with another phase.
func (r *Rotation) withPhase(phase symbolic.Expr) *Rotation {
	return &Rotation{name: r.name, nQubits: r.nQubits, phase: phase}
}

// Array evaluates the phase and returns the unitary.
func (r *Rotation) Array() (*tensor.Tensor, error) {
	phi, err := r.phase.Eval()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r, err)
	}
	c, s := complex(math.Cos(math.Pi*phi), 0), complex(math.Sin(math.Pi*phi), 0)
	e := cmplx.Exp(complex(0, math.Pi*phi))
	var m [][]complex128
	switch r.name {
	case "Rx":
		m = [][]complex128{{c, -1i * s}, {-1i * s, c}}
	case "Ry":
		m = [][]complex128{{c, -s}, {s, c}}
	case "Rz":
		m = [][]complex128{{1 / e, 0}, {0, e}}
	case "CRz":
		m = controlled([][]complex128{{1 / e, 0}, {0, e}})
	case "CRx":
		m = controlled([][]complex128{{c, -1i * s}, {-1i * s, c}})
	case "CU1":
		m = controlled([][]complex128{{1, 0}, {0, e * e}})
	}
	dim := dims(r.nQubits)
	return tensor.FromMatrix(dim, dim, m)
}

// controlled embeds a one-qubit matrix in the lower block of a two-qubit one.
func controlled(u [][]complex128) [][]complex128 {
	return [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, u[0][0], u[0][1]},
		{0, 0, u[1][0], u[1][1]},
	}
}

// dims returns the tensor wires of n qubits or bits.
func dims(n int) tensor.Dim {
	d := make(tensor.Dim, n)
	for i := range d {
		d[i] = 2
	}
	return d
}
