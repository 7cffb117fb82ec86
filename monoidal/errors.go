package monoidal

import "errors"

var (
	// ErrTypeMismatch is returned when obs from different categories are tensored.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrAxiom is returned when a composition does not type-check.
	ErrAxiom = errors.New("axiom violated")
	// ErrNotAdjoint is returned when cups or caps are built on non-adjoint types.
	ErrNotAdjoint = errors.New("types are not adjoint")
	// ErrInterchange is returned when two boxes share a wire.
	ErrInterchange = errors.New("boxes cannot be interchanged")
	// ErrIndex is returned for out of range box indices.
	ErrIndex = errors.New("index out of range")
	// ErrPermutation is returned for lists that are not permutations of the wires.
	ErrPermutation = errors.New("invalid permutation")
	// ErrNotMapped is returned when a functor has no image for an ob or a box.
	ErrNotMapped = errors.New("not in the functor's domain")
	// ErrNotConnected is returned when the interchanger loops forever.
	ErrNotConnected = errors.New("diagram is not connected")
)

// Must panics on error. Intended for tests and static diagrams.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
