package quantum

import (
	"fmt"

	"discocirq/monoidal"
)

// Circuit is a diagram whose boxes are circuit boxes.
type Circuit struct {
	d *monoidal.Diagram
}

// NewCircuit checks that every box is a circuit box and that the boxes
// type-check at their offsets.
func NewCircuit(dom, cod monoidal.Ty, boxes []Box, offsets []int) (*Circuit, error) {
	mboxes := make([]monoidal.Box, len(boxes))
	for i, b := range boxes {
		mboxes[i] = b
	}
	d, err := monoidal.NewDiagram(dom, cod, mboxes, offsets)
	if err != nil {
		return nil, err
	}
	return &Circuit{d: d}, nil
}

// FromDiagram wraps a diagram made of circuit boxes.
func FromDiagram(d *monoidal.Diagram) (*Circuit, error) {
	for _, b := range d.Boxes() {
		if _, ok := b.(Box); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotCircuit, b)
		}
	}
	return &Circuit{d: d}, nil
}

// Id is the identity circuit.
func Id(t monoidal.Ty) *Circuit { return &Circuit{d: monoidal.Id(t)} }

// FromBox is the circuit with a single box.
func FromBox(b Box) *Circuit { return &Circuit{d: monoidal.FromBox(b)} }

// Then composes in sequence.
func Then(first *Circuit, rest ...*Circuit) (*Circuit, error) { return first.Then(rest...) }

// Tensor composes in parallel.
func Tensor(first *Circuit, rest ...*Circuit) (*Circuit, error) { return first.Tensor(rest...) }

func (c *Circuit) Dom() monoidal.Ty { return c.d.Dom() }
func (c *Circuit) Cod() monoidal.Ty { return c.d.Cod() }
func (c *Circuit) Len() int { return c.d.Len() }
func (c *Circuit) Offsets() []int { return c.d.Offsets() }

// Diagram returns the underlying diagram.
func (c *Circuit) Diagram() *monoidal.Diagram { return c.d }

// Boxes returns the boxes in order.
func (c *Circuit) Boxes() []Box {
	boxes := make([]Box, c.d.Len())
	for i, b := range c.d.Boxes() {
		boxes[i] = b.(Box)
	}
	return boxes
}

// BoxAt returns the i-th box and its offset.
func (c *Circuit) BoxAt(i int) (Box, int) {
	b, off := c.d.BoxAt(i)
	return b.(Box), off
}

func (c *Circuit) Then(others ...*Circuit) (*Circuit, error) {
	ds := make([]*monoidal.Diagram, len(others))
	for i, o := range others {
		ds[i] = o.d
	}
	d, err := c.d.Then(ds...)
	if err != nil {
		return nil, err
	}
	return &Circuit{d: d}, nil
}

func (c *Circuit) Tensor(others ...*Circuit) (*Circuit, error) {
	ds := make([]*monoidal.Diagram, len(others))
	for i, o := range others {
		ds[i] = o.d
	}
	d, err := c.d.Tensor(ds...)
	if err != nil {
		return nil, err
	}
	return &Circuit{d: d}, nil
}

func (c *Circuit) Dagger() *Circuit { return &Circuit{d: c.d.Dagger()} }

// Slice returns the sub-circuit made of boxes i to j.
func (c *Circuit) Slice(i, j int) *Circuit { return &Circuit{d: c.d.Slice(i, j)} }

// Layers returns each box with the identity wires around it.
func (c *Circuit) Layers() []monoidal.Layer { return c.d.Layers() }

func (c *Circuit) Equal(o *Circuit) bool { return c.d.Equal(o.d) }

func (c *Circuit) String() string { return c.d.Repr("Circuit") }

// IsMixed reports whether the circuit has a mixed box or uses both qubits
// and bits.
func (c *Circuit) IsMixed() bool {
	types := []monoidal.Ty{c.Dom(), c.Cod()}
	for _, b := range c.Boxes() {
		if b.IsMixed() {
			return true
		}
		types = append(types, b.Dom(), b.Cod())
	}
	return mixesWires(types...)
}

// withBoxes replaces the boxes, keeping the offsets.
func (c *Circuit) withBoxes(boxes []Box) (*Circuit, error) {
	mboxes := make([]monoidal.Box, len(boxes))
	for i, b := range boxes {
		mboxes[i] = b
	}
	d, err := c.d.WithBoxes(mboxes)
	if err != nil {
		return nil, err
	}
	return &Circuit{d: d}, nil
}

// replace substitutes box i with the circuit r of the same type.
func (c *Circuit) replace(i int, r *Circuit) (*Circuit, error) {
	layer := c.Layers()[i]
	mid, err := Tensor(Id(layer.Left), r, Id(layer.Right))
	if err != nil {
		return nil, err
	}
	return Then(c.Slice(0, i), mid, c.Slice(i+1, c.Len()))
}

// InitAndDiscard prepares every input wire in zero and discards every
// output qubit, keeping output bits.
func (c *Circuit) InitAndDiscard() (*Circuit, error) {
	result := c
	if c.Dom().Len() > 0 {
		init := Id(monoidal.NewTy())
		for _, o := range c.Dom().Obs() {
			var err error
			if init, err = init.Tensor(FromBox(prepareZero(o))); err != nil {
				return nil, err
			}
		}
		var err error
		if result, err = init.Then(result); err != nil {
			return nil, err
		}
	}
	if c.Cod().Count(monoidal.KindQubit) > 0 {
		discards := Id(monoidal.NewTy())
		for _, o := range c.Cod().Obs() {
			step := Id(Bit)
			if o.Kind == monoidal.KindQubit {
				step = FromBox(NewDiscard(Qubit))
			}
			var err error
			if discards, err = discards.Tensor(step); err != nil {
				return nil, err
			}
		}
		var err error
		if result, err = result.Then(discards); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func prepareZero(o monoidal.Ob) Box {
	if o.Kind == monoidal.KindBit {
		return NewBits(0)
	}
	return NewKet(0)
}

// SwapWires is the symmetry left @ right -> right @ left made of Swap boxes.
func SwapWires(left, right monoidal.Ty) (*Circuit, error) {
	d, err := monoidal.SwapWires(left, right, swapFactory)
	if err != nil {
		return nil, err
	}
	return &Circuit{d: d}, nil
}

// Permutation sends input wire i to output position perm[i].
func Permutation(dom monoidal.Ty, perm []int) (*Circuit, error) {
	d, err := monoidal.Permutation(dom, perm, swapFactory)
	if err != nil {
		return nil, err
	}
	return &Circuit{d: d}, nil
}
