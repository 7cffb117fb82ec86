package monoidal

import (
	"fmt"
	"iter"
)

// Interchange moves the i-th box to position j by repeatedly swapping
// adjacent independent boxes. When both orders are possible, left decides
// whether the earlier box ends up on the left.
func (d *Diagram) Interchange(i, j int, left bool) (*Diagram, error) {
	n := len(d.boxes)
	if i < 0 || i >= n || j < 0 || j >= n {
		return nil, fmt.Errorf("%w: interchange(%d, %d) on %d boxes", ErrIndex, i, j, n)
	}
	result := d
	var err error
	for i < j {
		if result, err = result.swapAdjacent(i, left); err != nil {
			return nil, err
		}
		i++
	}
	for i > j {
		if result, err = result.swapAdjacent(i-1, left); err != nil {
			return nil, err
		}
		i--
	}
	return result, nil
}

// swapAdjacent exchanges boxes k and k+1.
func (d *Diagram) swapAdjacent(k int, left bool) (*Diagram, error) {
	box0, box1 := d.boxes[k], d.boxes[k+1]
	off0, off1 := d.offsets[k], d.offsets[k+1]
	dom0, cod0 := box0.Dom().Len(), box0.Cod().Len()
	dom1, cod1 := box1.Dom().Len(), box1.Cod().Len()

	rightOf := off1 >= off0+cod0
	leftOf := off0 >= off1+dom1
	var new0, new1 int
	switch {
	case left && rightOf:
		new0, new1 = off0, off1-cod0+dom0
	case leftOf:
		new0, new1 = off0-dom1+cod1, off1
	case rightOf:
		new0, new1 = off0, off1-cod0+dom0
	default:
		return nil, fmt.Errorf("%w: %s and %s", ErrInterchange, box0, box1)
	}
	boxes := append([]Box(nil), d.boxes...)
	offsets := append([]int(nil), d.offsets...)
	boxes[k], boxes[k+1] = box1, box0
	offsets[k], offsets[k+1] = new1, new0
	return &Diagram{dom: d.dom, cod: d.cod, boxes: boxes, offsets: offsets}, nil
}

// interchangerSteps yields every interchange of the interchanger
// normalisation. It stops early if a diagram repeats and reports it.
func (d *Diagram) interchangerSteps(left bool, yield func(*Diagram) bool) (cycled bool) {
	seen := map[string]bool{d.key(): true}
	diagram := d
	for moved := true; moved; {
		moved = false
		for i := 0; i < len(diagram.boxes)-1; i++ {
			box0, box1 := diagram.boxes[i], diagram.boxes[i+1]
			off0, off1 := diagram.offsets[i], diagram.offsets[i+1]
			if left && off1 >= off0+box0.Cod().Len() ||
				!left && off0 >= off1+box1.Dom().Len() {
				next, err := diagram.swapAdjacent(i, left)
				if err != nil {
					continue
				}
				k := next.key()
				if seen[k] {
					return true
				}
				seen[k] = true
				diagram = next
				moved = true
				if !yield(diagram) {
					return false
				}
			}
		}
	}
	return false
}

func (d *Diagram) key() string {
	return fmt.Sprint(d.boxes, d.offsets)
}

// Normalize returns the sequence of rewrite steps from d to its normal
// form: snakes are yanked first, then boxes are interchanged until none
// can move. The sequence is finite and can be ranged over more than once.
// If a rewrite fails, or the interchanger cycles, the last pair carries
// the error and a nil diagram.
func (d *Diagram) Normalize(left bool) iter.Seq2[*Diagram, error] {
	return func(yield func(*Diagram, error) bool) {
		diagram := d
		for {
			snake, ok := diagram.findSnake()
			if !ok {
				break
			}
			steps, err := diagram.unsnake(snake)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, step := range steps {
				if !yield(step, nil) {
					return
				}
			}
			diagram = steps[len(steps)-1]
		}
		cycled := diagram.interchangerSteps(left, func(step *Diagram) bool {
			return yield(step, nil)
		})
		if cycled {
			yield(nil, fmt.Errorf("%w: %s", ErrNotConnected, d))
		}
	}
}

// NormalForm returns the last diagram of Normalize. It fails with
// ErrNotConnected when the interchanger cycles, as for two scalars side by side.
func (d *Diagram) NormalForm(left bool) (*Diagram, error) {
	result := d
	for step, err := range d.Normalize(left) {
		if err != nil {
			return nil, err
		}
		result = step
	}
	return result, nil
}
