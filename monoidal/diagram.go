package monoidal

import (
	"fmt"
	"strconv"
	"strings"
)

// Diagram is a list of boxes, each placed at an offset into the current
// wire layout. Diagrams are immutable.
type Diagram struct {
	dom, cod Ty
	boxes    []Box
	offsets  []int
}

// Layer is one step of a diagram: a box with identity wires on each side.
type Layer struct {
	Left  Ty
	Box   Box
	Right Ty
}

// Id returns the identity diagram on t.
func Id(t Ty) *Diagram {
	return &Diagram{dom: t, cod: t}
}

// FromBox returns the diagram with a single box.
func FromBox(b Box) *Diagram {
	return &Diagram{dom: b.Dom(), cod: b.Cod(), boxes: []Box{b}, offsets: []int{0}}
}

// NewDiagram checks that boxes placed at offsets type-check from dom to cod.
func NewDiagram(dom, cod Ty, boxes []Box, offsets []int) (*Diagram, error) {
	if len(boxes) != len(offsets) {
		return nil, fmt.Errorf("%w: %d boxes for %d offsets", ErrAxiom, len(boxes), len(offsets))
	}
	wires := dom
	for i, b := range boxes {
		off := offsets[i]
		n := b.Dom().Len()
		if off < 0 || off+n > wires.Len() || !wires.Slice(off, off+n).Equal(b.Dom()) {
			return nil, fmt.Errorf("%w: %s does not fit at offset %d of %s", ErrAxiom, b, off, wires)
		}
		wires = concat(wires.Slice(0, off), b.Cod(), wires.Slice(off+n, wires.Len()))
	}
	if !wires.Equal(cod) {
		return nil, fmt.Errorf("%w: expected codomain %s, got %s", ErrAxiom, cod, wires)
	}
	return &Diagram{
		dom:     dom,
		cod:     cod,
		boxes:   append([]Box(nil), boxes...),
		offsets: append([]int(nil), offsets...),
	}, nil
}

func (d *Diagram) Dom() Ty { return d.dom }
func (d *Diagram) Cod() Ty { return d.cod }
func (d *Diagram) Len() int { return len(d.boxes) }

// Boxes returns a copy of the box list.
func (d *Diagram) Boxes() []Box { return append([]Box(nil), d.boxes...) }

// Offsets returns a copy of the offsets.
func (d *Diagram) Offsets() []int { return append([]int(nil), d.offsets...) }

// BoxAt returns the i-th box and its offset.
func (d *Diagram) BoxAt(i int) (Box, int) { return d.boxes[i], d.offsets[i] }

// Then composes diagrams in sequence.
func (d *Diagram) Then(others ...*Diagram) (*Diagram, error) {
	result := d
	for _, o := range others {
		if !result.cod.Equal(o.dom) {
			return nil, fmt.Errorf("%w: %s does not compose with %s", ErrAxiom, result.cod, o.dom)
		}
		result = &Diagram{
			dom:     result.dom,
			cod:     o.cod,
			boxes:   append(append([]Box(nil), result.boxes...), o.boxes...),
			offsets: append(append([]int(nil), result.offsets...), o.offsets...),
		}
	}
	return result, nil
}

// Tensor composes diagrams in parallel. The boxes of the left factor come first.
func (d *Diagram) Tensor(others ...*Diagram) (*Diagram, error) {
	result := d
	for _, o := range others {
		dom, err := result.dom.Tensor(o.dom)
		if err != nil {
			return nil, err
		}
		cod, err := result.cod.Tensor(o.cod)
		if err != nil {
			return nil, err
		}
		offsets := append([]int(nil), result.offsets...)
		shift := result.cod.Len()
		for _, off := range o.offsets {
			offsets = append(offsets, off+shift)
		}
		result = &Diagram{
			dom:     dom,
			cod:     cod,
			boxes:   append(append([]Box(nil), result.boxes...), o.boxes...),
			offsets: offsets,
		}
	}
	return result, nil
}

// Dagger reverses the diagram and takes the dagger of each box.
func (d *Diagram) Dagger() *Diagram {
	n := len(d.boxes)
	boxes := make([]Box, n)
	offsets := make([]int, n)
	for i, b := range d.boxes {
		boxes[n-1-i] = b.Dagger()
		offsets[n-1-i] = d.offsets[i]
	}
	return &Diagram{dom: d.cod, cod: d.dom, boxes: boxes, offsets: offsets}
}

// Layers returns each box with the identity wires around it.
func (d *Diagram) Layers() []Layer {
	layers := make([]Layer, len(d.boxes))
	wires := d.dom
	for i, b := range d.boxes {
		off := d.offsets[i]
		n := b.Dom().Len()
		layers[i] = Layer{
			Left:  wires.Slice(0, off),
			Box:   b,
			Right: wires.Slice(off+n, wires.Len()),
		}
		wires = concat(layers[i].Left, b.Cod(), layers[i].Right)
	}
	return layers
}

// TypeAt returns the wire layout just before the i-th box. TypeAt(Len()) is the codomain.
func (d *Diagram) TypeAt(i int) Ty {
	if i >= len(d.boxes) {
		return d.cod
	}
	l := d.Layers()[i]
	return concat(l.Left, l.Box.Dom(), l.Right)
}

// Slice returns the sub-diagram made of boxes i to j.
func (d *Diagram) Slice(i, j int) *Diagram {
	i, j = max(i, 0), min(j, len(d.boxes))
	if i >= j {
		t := d.TypeAt(i)
		return Id(t)
	}
	return &Diagram{
		dom:     d.TypeAt(i),
		cod:     d.TypeAt(j),
		boxes:   append([]Box(nil), d.boxes[i:j]...),
		offsets: append([]int(nil), d.offsets[i:j]...),
	}
}

// Equal compares domains, codomains, boxes and offsets.
func (d *Diagram) Equal(o *Diagram) bool {
	if !d.dom.Equal(o.dom) || !d.cod.Equal(o.cod) || len(d.boxes) != len(o.boxes) {
		return false
	}
	for i := range d.boxes {
		if d.offsets[i] != o.offsets[i] || !d.boxes[i].Equal(o.boxes[i]) {
			return false
		}
	}
	return true
}

// Box returns the only box when the diagram is exactly that box.
func (d *Diagram) Box() (Box, bool) {
	if len(d.boxes) != 1 {
		return nil, false
	}
	b := d.boxes[0]
	if d.offsets[0] != 0 || !b.Dom().Equal(d.dom) || !b.Cod().Equal(d.cod) {
		return nil, false
	}
	return b, true
}

// Repr renders the diagram under the given constructor name.
func (d *Diagram) Repr(kind string) string {
	if b, ok := d.Box(); ok {
		return b.String()
	}
	boxes := make([]string, len(d.boxes))
	offsets := make([]string, len(d.offsets))
	for i, b := range d.boxes {
		boxes[i] = b.String()
		offsets[i] = strconv.Itoa(d.offsets[i])
	}
	return fmt.Sprintf("%s(dom=%s, cod=%s, boxes=[%s], offsets=[%s])",
		kind, d.dom, d.cod, strings.Join(boxes, ", "), strings.Join(offsets, ", "))
}

func (d *Diagram) String() string { return d.Repr("Diagram") }

// WithBoxes returns a diagram with the same offsets and replaced boxes.
// The new boxes must have the same domains and codomains as the old ones.
func (d *Diagram) WithBoxes(boxes []Box) (*Diagram, error) {
	return NewDiagram(d.dom, d.cod, boxes, d.offsets)
}
