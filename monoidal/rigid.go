package monoidal

import "fmt"

// CupFactory builds the cup (or cap) between two single-ob types.
type CupFactory func(left, right Ty) (*Diagram, error)

// DefaultCup builds a Cup box.
func DefaultCup(left, right Ty) (*Diagram, error) {
	c, err := NewCup(left, right)
	if err != nil {
		return nil, err
	}
	return FromBox(c), nil
}

// DefaultCap builds a Cap box.
func DefaultCap(left, right Ty) (*Diagram, error) {
	c, err := NewCap(left, right)
	if err != nil {
		return nil, err
	}
	return FromBox(c), nil
}

// Cups returns the nested cups from left @ right to Ty(). It requires left.R() == right.
func Cups(left, right Ty) (*Diagram, error) {
	return CupsWith(left, right, DefaultCup)
}

// Caps returns the nested caps from Ty() to left @ right. It requires left.L() == right.
func Caps(left, right Ty) (*Diagram, error) {
	return CapsWith(left, right, DefaultCap)
}

// CupsWith nests the cups produced by factory, innermost first.
func CupsWith(left, right Ty, factory CupFactory) (*Diagram, error) {
	if !left.R().Equal(right) {
		return nil, fmt.Errorf("%w: cups(%s, %s)", ErrNotAdjoint, left, right)
	}
	result := Id(concat(left, right))
	n := left.Len()
	for i := range n {
		j := n - i - 1
		cup, err := factory(left.Slice(j, j+1), right.Slice(i, i+1))
		if err != nil {
			return nil, err
		}
		layer, err := whisker(left.Slice(0, j), cup, right.Slice(i+1, right.Len()))
		if err != nil {
			return nil, err
		}
		if result, err = result.Then(layer); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// CapsWith nests the caps produced by factory, outermost first.
func CapsWith(left, right Ty, factory CupFactory) (*Diagram, error) {
	if !left.L().Equal(right) {
		return nil, fmt.Errorf("%w: caps(%s, %s)", ErrNotAdjoint, left, right)
	}
	result := Id(concat(left, right))
	n := left.Len()
	for i := range n {
		j := n - i - 1
		c, err := factory(left.Slice(j, j+1), right.Slice(i, i+1))
		if err != nil {
			return nil, err
		}
		layer, err := whisker(left.Slice(0, j), c, right.Slice(i+1, right.Len()))
		if err != nil {
			return nil, err
		}
		if result, err = layer.Then(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// whisker returns Id(left) @ d @ Id(right).
func whisker(left Ty, d *Diagram, right Ty) (*Diagram, error) {
	return Id(left).Tensor(d, Id(right))
}

// Transpose bends the wires of d with snakes. The right transpose goes from
// cod.R() to dom.R(), the left transpose from cod.L() to dom.L().
func (d *Diagram) Transpose(left bool) (*Diagram, error) {
	if left {
		caps, err := Caps(d.dom, d.dom.L())
		if err != nil {
			return nil, err
		}
		cups, err := Cups(d.cod.L(), d.cod)
		if err != nil {
			return nil, err
		}
		top, err := whisker(d.cod.L(), caps, NewTy())
		if err != nil {
			return nil, err
		}
		middle, err := whisker(d.cod.L(), d, d.dom.L())
		if err != nil {
			return nil, err
		}
		bottom, err := whisker(NewTy(), cups, d.dom.L())
		if err != nil {
			return nil, err
		}
		return top.Then(middle, bottom)
	}
	caps, err := Caps(d.dom.R(), d.dom)
	if err != nil {
		return nil, err
	}
	cups, err := Cups(d.cod, d.cod.R())
	if err != nil {
		return nil, err
	}
	top, err := whisker(NewTy(), caps, d.cod.R())
	if err != nil {
		return nil, err
	}
	middle, err := whisker(d.dom.R(), d, d.cod.R())
	if err != nil {
		return nil, err
	}
	bottom, err := whisker(d.dom.R(), cups, NewTy())
	if err != nil {
		return nil, err
	}
	return top.Then(middle, bottom)
}

// snake locates a yankable cap and cup together with the boxes in between
// that sit on either side of the wire joining them.
type snake struct {
	cup, cap    int
	left, right []int
	leftSnake   bool
}

// followWire follows the output wire at offset j of box i down the diagram.
// It returns the index of the box consuming it (or Len() for the boundary),
// the wire offset there, and the boxes passed on each side.
func (d *Diagram) followWire(i, j int) (int, int, []int, []int) {
	var left, right []int
	for i < len(d.boxes)-1 {
		i++
		box, off := d.boxes[i], d.offsets[i]
		if off <= j && j < off+box.Dom().Len() {
			return i, j, left, right
		}
		if off <= j {
			j += box.Cod().Len() - box.Dom().Len()
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return len(d.boxes), j, left, right
}

func (d *Diagram) findSnake() (snake, bool) {
	for capAt, b := range d.boxes {
		if c, ok := b.(*Cap); !ok || c.dagger {
			continue
		}
		for _, leftSnake := range []bool{true, false} {
			wire := d.offsets[capAt]
			if !leftSnake {
				wire++
			}
			cupAt, j, left, right := d.followWire(capAt, wire)
			if cupAt == len(d.boxes) {
				continue
			}
			if c, ok := d.boxes[cupAt].(*Cup); !ok || c.dagger {
				continue
			}
			if leftSnake && d.offsets[cupAt]+1 != j || !leftSnake && d.offsets[cupAt] != j {
				continue
			}
			return snake{cup: cupAt, cap: capAt, left: left, right: right, leftSnake: leftSnake}, true
		}
	}
	return snake{}, false
}

// unsnake moves the obstructions out of the way, one interchange per step,
// and ends with the diagram where the cap and cup are removed.
func (d *Diagram) unsnake(s snake) ([]*Diagram, error) {
	var steps []*Diagram
	diagram := d
	left := append([]int(nil), s.left...)
	right := append([]int(nil), s.right...)
	cupAt, capAt := s.cup, s.cap
	step := func(i, j int) error {
		next, err := diagram.Interchange(i, j, false)
		if err != nil {
			return err
		}
		diagram = next
		steps = append(steps, next)
		return nil
	}
	if s.leftSnake {
		for _, box := range left {
			if err := step(box, capAt); err != nil {
				return nil, err
			}
			for k, r := range right {
				if r < box {
					right[k] = r + 1
				}
			}
			capAt++
		}
		for k := len(right) - 1; k >= 0; k-- {
			if err := step(right[k], cupAt); err != nil {
				return nil, err
			}
			cupAt--
		}
	} else {
		for k := len(left) - 1; k >= 0; k-- {
			if err := step(left[k], cupAt); err != nil {
				return nil, err
			}
			for i, r := range right {
				if r > left[k] {
					right[i] = r - 1
				}
			}
			cupAt--
		}
		for _, box := range right {
			if err := step(box, capAt); err != nil {
				return nil, err
			}
			capAt++
		}
	}
	boxes := append(append([]Box(nil), diagram.boxes[:capAt]...), diagram.boxes[cupAt+1:]...)
	offsets := append(append([]int(nil), diagram.offsets[:capAt]...), diagram.offsets[cupAt+1:]...)
	return append(steps, &Diagram{dom: diagram.dom, cod: diagram.cod, boxes: boxes, offsets: offsets}), nil
}
