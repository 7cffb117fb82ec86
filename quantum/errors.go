package quantum

import "errors"

var (
	// ErrNotPure is returned when a pure box would mix bits and qubits, or
	// when a mixed circuit is evaluated as a tensor.
	ErrNotPure = errors.New("circuit is not pure")
	// ErrNoArray is returned when evaluating a box without an array.
	ErrNoArray = errors.New("box has no array")
	// ErrIndexRange is returned by IndexToBitstring for out of range indices.
	ErrIndexRange = errors.New("index out of range")
	// ErrNotImplemented is returned for boxes and ops with no translation.
	ErrNotImplemented = errors.New("not implemented")
	// ErrEmptyCounts is returned when a backend returns no counts.
	ErrEmptyCounts = errors.New("backend returned empty counts")
	// ErrNoDerivative is returned by Grad for boxes without a derivative rule.
	ErrNoDerivative = errors.New("no derivative rule")
	// ErrNotCircuit is returned when the bridge is given something that is not a circuit.
	ErrNotCircuit = errors.New("not a circuit")
	// ErrBadParams is returned for ansatz parameters of the wrong shape.
	ErrBadParams = errors.New("bad parameters")
)
