package quantum

import (
	"fmt"
	"strings"

	"discocirq/monoidal"
	"discocirq/symbolic"
)

// cupFactory builds the cup on a pair of qubits or a pair of bits. The
// qubit cup is the Bell effect scaled by sqrt(2).
func cupFactory(left, right monoidal.Ty) (*monoidal.Diagram, error) {
	switch {
	case left.Equal(Qubit) && right.Equal(Qubit):
		c, err := Then(
			FromBox(CX),
			monoidal.Must(Tensor(FromBox(H), FromBox(Sqrt(symbolic.Num(2))), Id(Qubit))),
			FromBox(NewBra(0, 0)),
		)
		if err != nil {
			return nil, err
		}
		return c.d, nil
	case left.Equal(Bit) && right.Equal(Bit):
		c, err := Then(FromBox(NewMatch()), FromBox(NewDiscard(Bit)))
		if err != nil {
			return nil, err
		}
		return c.d, nil
	}
	return nil, fmt.Errorf("%w: no cup on %s @ %s", monoidal.ErrNotAdjoint, left, right)
}

func capFactory(left, right monoidal.Ty) (*monoidal.Diagram, error) {
	d, err := cupFactory(left, right)
	if err != nil {
		return nil, err
	}
	return d.Dagger(), nil
}

// Cups returns the nested cups on left @ right, which must be the same
// circuit type read in opposite directions.
func Cups(left, right monoidal.Ty) (*Circuit, error) {
	d, err := monoidal.CupsWith(left, right, cupFactory)
	if err != nil {
		return nil, err
	}
	return &Circuit{d: d}, nil
}

// Caps returns the nested caps on left @ right.
func Caps(left, right monoidal.Ty) (*Circuit, error) {
	d, err := monoidal.CapsWith(left, right, capFactory)
	if err != nil {
		return nil, err
	}
	return &Circuit{d: d}, nil
}

// CircuitFunctor maps generic diagrams to circuits. Obs go to circuit
// types and boxes to circuits, cups, caps and swaps go to their circuit
// counterparts.
type CircuitFunctor struct {
	f *monoidal.Functor
}

// NewCircuitFunctor checks that every image is a circuit.
func NewCircuitFunctor(ob []monoidal.ObEntry, ar []monoidal.ArEntry) (*CircuitFunctor, error) {
	for _, e := range ob {
		if _, err := cq(e.To); err != nil {
			return nil, err
		}
	}
	for _, e := range ar {
		if _, err := FromDiagram(e.To); err != nil {
			return nil, err
		}
	}
	return &CircuitFunctor{f: monoidal.NewFunctor(ob, ar)}, nil
}

func (f *CircuitFunctor) MapOb(o monoidal.Ob) (monoidal.Ty, error) { return f.f.MapOb(o) }
func (f *CircuitFunctor) MapBox(b monoidal.Box) (*monoidal.Diagram, error) { return f.f.MapBox(b) }

func (f *CircuitFunctor) Cups(left, right monoidal.Ty) (*monoidal.Diagram, error) {
	return monoidal.CupsWith(left, right, cupFactory)
}

func (f *CircuitFunctor) Caps(left, right monoidal.Ty) (*monoidal.Diagram, error) {
	return monoidal.CapsWith(left, right, capFactory)
}

func (f *CircuitFunctor) Swap(left, right monoidal.Ty) monoidal.Box { return NewSwap(left, right) }

// Apply maps a diagram to a circuit.
func (f *CircuitFunctor) Apply(d *monoidal.Diagram) (*Circuit, error) {
	img, err := monoidal.Apply(f, d)
	if err != nil {
		return nil, err
	}
	return FromDiagram(img)
}

func (f *CircuitFunctor) String() string {
	obs := make([]string, len(f.f.Ob))
	for i, e := range f.f.Ob {
		obs[i] = fmt.Sprintf("%s: %s", e.From, e.To)
	}
	ars := make([]string, len(f.f.Ar))
	for i, e := range f.f.Ar {
		ars[i] = fmt.Sprintf("%s: %s", e.From, e.To.Repr("Circuit"))
	}
	return fmt.Sprintf("CircuitFunctor(ob={%s}, ar={%s})", strings.Join(obs, ", "), strings.Join(ars, ", "))
}
