package quantum

import (
	"fmt"

	"discocirq/symbolic"
)

// IQPAnsatz builds an instantaneous quantum polynomial circuit. Each row of
// params is one layer: Hadamards on every qubit then a ladder of CRz gates
// on neighbouring qubits, so rows have nQubits-1 phases. A single qubit
// takes one row of three Euler angles, applied as Rx, Rz, Rx.
func IQPAnsatz(nQubits int, params [][]symbolic.Expr) (*Circuit, error) {
	if nQubits < 1 {
		return nil, fmt.Errorf("%w: %d qubits", ErrBadParams, nQubits)
	}
	if nQubits == 1 {
		if len(params) != 1 || len(params[0]) != 3 {
			return nil, fmt.Errorf("%w: expected one row of 3 Euler angles", ErrBadParams)
		}
		p := params[0]
		return Then(FromBox(Rx(p[0])), FromBox(Rz(p[1])), FromBox(Rx(p[2])))
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: expected params of shape (depth, %d)", ErrBadParams, nQubits-1)
	}
	circuit := Id(Qubit.Pow(nQubits))
	for depth, row := range params {
		if len(row) != nQubits-1 {
			return nil, fmt.Errorf("%w: layer %d has %d params, expected %d", ErrBadParams, depth, len(row), nQubits-1)
		}
		layer, err := iqpLayer(nQubits, row)
		if err != nil {
			return nil, err
		}
		if circuit, err = circuit.Then(layer); err != nil {
			return nil, err
		}
	}
	return circuit, nil
}

func iqpLayer(n int, phases []symbolic.Expr) (*Circuit, error) {
	hadamards := make([]*Circuit, n)
	for i := range hadamards {
		hadamards[i] = FromBox(H)
	}
	layer, err := Tensor(hadamards[0], hadamards[1:]...)
	if err != nil {
		return nil, err
	}
	for i, phase := range phases {
		step, err := Tensor(Id(Qubit.Pow(i)), FromBox(CRz(phase)), Id(Qubit.Pow(n-2-i)))
		if err != nil {
			return nil, err
		}
		if layer, err = layer.Then(step); err != nil {
			return nil, err
		}
	}
	return layer, nil
}
