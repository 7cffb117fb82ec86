// Package statevector simulates tk circuits on a dense state vector.
package statevector

import (
	"fmt"
	"math"
	"math/cmplx"

	"discocirq/tk"
)

type Complex = complex128

// StateVector holds 2^n amplitudes. Qubit q is bit q of the basis index.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// ApplyOp applies a unitary gate. Angles are in half-turns.
func (s *StateVector) ApplyOp(op tk.Op) error {
	q := op.Qubits
	theta := 0.0
	if len(op.Params) > 0 {
		theta = op.Params[0] * math.Pi
	}
	switch op.Name {
	case "H":
		s.applyH(q[0])
	case "X":
		s.applyX(q[0])
	case "Y":
		s.applyY(q[0])
	case "Z":
		s.applyPhase(q[0], -1)
	case "S":
		s.applyPhase(q[0], 1i)
	case "Sdg":
		s.applyPhase(q[0], -1i)
	case "T":
		s.applyPhase(q[0], cmplx.Exp(complex(0, math.Pi/4)))
	case "Tdg":
		s.applyPhase(q[0], cmplx.Exp(complex(0, -math.Pi/4)))
	case "Rx":
		s.applyRX(q[0], theta, -1)
	case "Ry":
		s.applyRY(q[0], theta)
	case "Rz":
		s.applyRZ(q[0], theta, -1)
	case "CX":
		s.applyCX(q[0], q[1])
	case "CZ":
		s.applyCZ(q[0], q[1])
	case "SWAP":
		s.applySWAP(q[0], q[1], -1)
	case "CRz":
		s.applyRZ(q[1], theta, q[0])
	case "CRx":
		s.applyRX(q[1], theta, q[0])
	case "CU1":
		s.applyCU1(q[0], q[1], theta)
	case "CCX":
		s.applyCCX(q[0], q[1], q[2])
	case "CSWAP":
		s.applySWAP(q[1], q[2], q[0])
	default:
		return fmt.Errorf("unsupported gate %q", op.Name)
	}
	return nil
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = hFactor * (s.Amplitudes[i] + s.Amplitudes[j])
			newAmps[j] = hFactor * (s.Amplitudes[i] - s.Amplitudes[j])
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyY(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = -1i*s.Amplitudes[j], 1i*s.Amplitudes[i]
		}
	}
}

// applyPhase multiplies the |1> component of qubit q by factor.
func (s *StateVector) applyPhase(q int, factor Complex) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

// controlled reports whether basis state i passes the control qubit.
// A negative control means the gate is not controlled.
func controlled(i, control int) bool {
	return control < 0 || i&(1<<control) != 0
}

func (s *StateVector) applyRX(q int, theta float64, control int) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	for i := range s.Amplitudes {
		if i&bit == 0 && controlled(i, control) {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a + js*b
			s.Amplitudes[j] = js*a + c*b
		}
	}
}

func (s *StateVector) applyRY(q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a - sn*b
			s.Amplitudes[j] = sn*a + c*b
		}
	}
}

func (s *StateVector) applyRZ(q int, theta float64, control int) {
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := range s.Amplitudes {
		if !controlled(i, control) {
			continue
		}
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

func (s *StateVector) applyCU1(control, target int, theta float64) {
	both := 1<<control | 1<<target
	phase := cmplx.Exp(complex(0, theta))
	for i := range s.Amplitudes {
		if i&both == both {
			s.Amplitudes[i] *= phase
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCCX(c0, c1, target int) {
	both := 1<<c0 | 1<<c1
	tBit := 1 << target
	for i := range s.Amplitudes {
		if i&both == both && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applySWAP(q1, q2, control int) {
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := range s.Amplitudes {
		if i&bit1 != 0 && i&bit2 == 0 && controlled(i, control) {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// Probability1 is the probability of measuring qubit q as 1.
func (s *StateVector) Probability1(q int) float64 {
	bit := 1 << q
	p := 0.0
	for i, a := range s.Amplitudes {
		if i&bit != 0 {
			p += real(a * cmplx.Conj(a))
		}
	}
	return p
}

// Collapse projects qubit q onto the given outcome and renormalises.
func (s *StateVector) Collapse(q, outcome int) {
	bit := 1 << q
	norm := 0.0
	for i, a := range s.Amplitudes {
		if (i&bit != 0) == (outcome == 1) {
			norm += real(a * cmplx.Conj(a))
		} else {
			s.Amplitudes[i] = 0
		}
	}
	if norm == 0 {
		return
	}
	scale := complex(1/math.Sqrt(norm), 0)
	for i := range s.Amplitudes {
		s.Amplitudes[i] *= scale
	}
}

// Probabilities returns |amplitude|^2 for every basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

func (s *StateVector) GetQubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, prob := range s.Probabilities() {
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}
	return probs
}
