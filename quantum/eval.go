package quantum

import (
	"fmt"
	"math/cmplx"

	"discocirq/monoidal"
	"discocirq/tensor"
)

// cq returns the mixed system of a circuit type: its bits then its qubits.
func cq(t monoidal.Ty) (tensor.CQ, error) {
	var sys tensor.CQ
	for _, o := range t.Obs() {
		switch o.Kind {
		case monoidal.KindQubit:
			sys.Q = append(sys.Q, 2)
		case monoidal.KindBit:
			sys.C = append(sys.C, 2)
		default:
			return tensor.CQ{}, fmt.Errorf("%w: %s is not a circuit type", monoidal.ErrTypeMismatch, t)
		}
	}
	return sys, nil
}

// Eval evaluates a pure circuit to a tensor, folding each box into the
// wires at its offset.
func (c *Circuit) Eval() (*tensor.Tensor, error) {
	result := tensor.Id(dims(c.Dom().Len()))
	for i, b := range c.Boxes() {
		array, err := boxTensor(b)
		if err != nil {
			return nil, err
		}
		if result, err = result.ApplyAt(array, c.Offsets()[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// EvalMixed evaluates the circuit to a CQMap, contracting each box into
// the doubled wires at its offset.
func (c *Circuit) EvalMixed() (*tensor.CQMap, error) {
	dom, err := cq(c.Dom())
	if err != nil {
		return nil, err
	}
	result := tensor.IdCQ(dom)
	for _, layer := range c.Layers() {
		left, err := cq(layer.Left)
		if err != nil {
			return nil, err
		}
		box, err := boxCQMap(layer.Box.(Box))
		if err != nil {
			return nil, err
		}
		if result, err = result.ApplyAt(box, left); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Measure returns the outcome probabilities. For a pure circuit these are
// the squared amplitudes. With mixed, or for a mixed circuit, input qubits
// are encoded from bits and output qubits are measured, so the entries are
// indexed by input bits then output bits.
func (c *Circuit) Measure(mixed bool) ([]float64, error) {
	if !mixed && !c.IsMixed() {
		t, err := c.Eval()
		if err != nil {
			return nil, err
		}
		data := t.Data()
		probs := make([]float64, len(data))
		for i, a := range data {
			probs[i] = real(a * cmplx.Conj(a))
		}
		return probs, nil
	}
	circuit, err := classicalWrap(c)
	if err != nil {
		return nil, err
	}
	m, err := circuit.EvalMixed()
	if err != nil {
		return nil, err
	}
	return m.Array().Real(), nil
}

// classicalWrap encodes every input qubit and measures every output qubit.
func classicalWrap(c *Circuit) (*Circuit, error) {
	pre, err := perWire(c.Dom(), func() Box { return NewEncode(1, true, false) })
	if err != nil {
		return nil, err
	}
	post, err := perWire(c.Cod(), func() Box { return NewMeasure(1, true, false) })
	if err != nil {
		return nil, err
	}
	return Then(pre, c, post)
}

// perWire tensors box() for each qubit of t and Id(bit) for each bit.
func perWire(t monoidal.Ty, box func() Box) (*Circuit, error) {
	if t.Count(monoidal.KindQubit) == 0 {
		return Id(t), nil
	}
	result := Id(monoidal.NewTy())
	for _, o := range t.Obs() {
		step := Id(Bit)
		if o.Kind == monoidal.KindQubit {
			step = FromBox(box())
		}
		var err error
		if result, err = result.Tensor(step); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// boxTensor returns the pure array of a box.
func boxTensor(b Box) (*tensor.Tensor, error) {
	switch box := b.(type) {
	case *QuantumGate:
		dim := dims(box.nQubits)
		t, err := tensor.New(dim, dim, box.array)
		if err != nil {
			return nil, err
		}
		if box.dagger {
			return t.Dagger(), nil
		}
		return t, nil
	case *Rotation:
		return box.Array()
	case *ClassicalGate:
		return classicalTensor(box)
	case *Bits:
		return basis(box.values, box.dagger), nil
	case *Ket:
		return basis(box.values, false), nil
	case *Bra:
		return basis(box.values, true), nil
	case *Copy:
		return copyTensor(), nil
	case *Match:
		return copyTensor().Dagger(), nil
	case *Swap:
		return tensor.Swap(dims(box.left.Len()), dims(box.right.Len())), nil
	case *Scalar:
		if box.mixed {
			return nil, fmt.Errorf("%w: %s", ErrNotPure, box)
		}
		x, err := box.Value()
		if err != nil {
			return nil, err
		}
		return tensor.Scalar(complex(x, 0)), nil
	case *GenericBox:
		if box.array == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoArray, box)
		}
		if !box.pure {
			return nil, fmt.Errorf("%w: %s", ErrNotPure, box)
		}
		t, err := tensor.New(dims(box.dom.Len()), dims(box.cod.Len()), box.array)
		if err != nil {
			return nil, err
		}
		if box.dagger {
			return t.Dagger(), nil
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotPure, b)
}

// boxCQMap returns the CQMap of a box.
func boxCQMap(b Box) (*tensor.CQMap, error) {
	switch box := b.(type) {
	case *QuantumGate, *Rotation, *Ket, *Bra:
		t, err := boxTensor(b)
		if err != nil {
			return nil, err
		}
		return tensor.Double(t), nil
	case *ClassicalGate, *Bits, *Copy, *Match:
		t, err := boxTensor(b)
		if err != nil {
			return nil, err
		}
		return tensor.Classical(t), nil
	case *Scalar:
		x, err := box.Value()
		if err != nil {
			return nil, err
		}
		if box.mixed {
			return tensor.Classical(tensor.Scalar(complex(x, 0))), nil
		}
		return tensor.Double(tensor.Scalar(complex(x, 0))), nil
	case *Swap:
		left, err := cq(box.left)
		if err != nil {
			return nil, err
		}
		right, err := cq(box.right)
		if err != nil {
			return nil, err
		}
		return tensor.SwapCQ(left, right), nil
	case *Measure:
		m := tensor.Measure(dims(box.n), box.destructive)
		if box.override {
			m = m.Tensor(tensor.Classical(discardBits(box.n)))
		}
		return m, nil
	case *Encode:
		m, err := boxCQMap(box.Dagger().(Box))
		if err != nil {
			return nil, err
		}
		return m.Dagger(), nil
	case *Discard:
		return discardCQ(box.ty)
	case *MixedState:
		m, err := discardCQ(box.ty)
		if err != nil {
			return nil, err
		}
		return m.Dagger(), nil
	case *GenericBox:
		if box.array == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoArray, box)
		}
		if box.pure {
			t, err := boxTensor(box)
			if err != nil {
				return nil, err
			}
			if box.dom.Count(monoidal.KindBit)+box.cod.Count(monoidal.KindBit) > 0 {
				return tensor.Classical(t), nil
			}
			return tensor.Double(t), nil
		}
		dom, err := cq(box.dom)
		if err != nil {
			return nil, err
		}
		cod, err := cq(box.cod)
		if err != nil {
			return nil, err
		}
		t, err := tensor.New(dom.Doubled(), cod.Doubled(), box.array)
		if err != nil {
			return nil, err
		}
		m, err := tensor.NewCQMap(dom, cod, t)
		if err != nil {
			return nil, err
		}
		if box.dagger {
			return m.Dagger(), nil
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoArray, b)
}

// discardCQ discards qubits by tracing them out and bits by summing.
func discardCQ(t monoidal.Ty) (*tensor.CQMap, error) {
	result := tensor.IdCQ(tensor.CQ{})
	for _, o := range t.Obs() {
		switch o.Kind {
		case monoidal.KindQubit:
			result = result.Tensor(tensor.Discard(tensor.Dim{2}))
		case monoidal.KindBit:
			result = result.Tensor(tensor.Classical(discardBits(1)))
		default:
			return nil, fmt.Errorf("%w: cannot discard %s", monoidal.ErrTypeMismatch, t)
		}
	}
	return result, nil
}

// discardBits is the all-ones effect on n bits.
func discardBits(n int) *tensor.Tensor {
	data := make([]complex128, 1<<n)
	for i := range data {
		data[i] = 1
	}
	t, _ := tensor.New(dims(n), nil, data)
	return t
}

// basis is the computational basis state for values, or its effect.
func basis(values []int, effect bool) *tensor.Tensor {
	data := make([]complex128, 1<<len(values))
	data[BitstringToIndex(values)] = 1
	if effect {
		t, _ := tensor.New(dims(len(values)), nil, data)
		return t
	}
	t, _ := tensor.New(nil, dims(len(values)), data)
	return t
}

func copyTensor() *tensor.Tensor {
	t, _ := tensor.New(dims(1), dims(2), []complex128{
		1, 0, 0, 0,
		0, 0, 0, 1,
	})
	return t
}

func classicalTensor(g *ClassicalGate) (*tensor.Tensor, error) {
	data := make([]complex128, len(g.array))
	for i, x := range g.array {
		v, err := x.Eval()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g, err)
		}
		data[i] = complex(v, 0)
	}
	t, err := tensor.New(dims(g.nIn), dims(g.nOut), data)
	if err != nil {
		return nil, err
	}
	if g.dagger {
		return t.Dagger(), nil
	}
	return t, nil
}
