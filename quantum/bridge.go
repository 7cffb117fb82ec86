package quantum

import (
	"fmt"
	"slices"

	"discocirq/monoidal"
	"discocirq/symbolic"
	"discocirq/tk"
)

// wire is a qubit or bit of the tk circuit sitting at some position of the
// diagram.
type wire struct {
	bit   bool
	index int
}

type tkBuilder struct {
	circ     *tk.Circuit
	wires    []wire
	selected []int
}

func (b *tkBuilder) splice(off, n int, replacement ...wire) {
	b.wires = slices.Concat(b.wires[:off], replacement, b.wires[off+n:])
}

func (b *tkBuilder) qubits(off, n int) ([]int, error) {
	out := make([]int, n)
	for j := range n {
		w := b.wires[off+j]
		if w.bit {
			return nil, fmt.Errorf("%w: expected a qubit at position %d", ErrNotImplemented, off+j)
		}
		out[j] = w.index
	}
	return out, nil
}

func (b *tkBuilder) bits(off, n int) []int {
	out := make([]int, n)
	for j := range n {
		out[j] = b.wires[off+j].index
	}
	return out
}

func (b *tkBuilder) postSelect(bit, value int) {
	b.circ.PostSelect(map[int]int{bit: value})
	b.selected = append(b.selected, bit)
}

// ToTk translates a circuit to a tk circuit. Output bit i of the diagram
// is bit i of the result, post-selected bits come next. Boxes from the
// first classical computation on are kept as the post-processing.
// Measurements are taken as early as their wires allow.
func ToTk(c *Circuit) (*tk.Circuit, error) {
	b := &tkBuilder{circ: tk.NewCircuit(0, 0)}
	for _, o := range c.Dom().Obs() {
		if o.Kind == monoidal.KindBit {
			b.wires = append(b.wires, wire{bit: true, index: b.circ.AddBit()})
		} else {
			b.wires = append(b.wires, wire{index: b.circ.AddQubit()})
		}
	}

	boxes := c.Boxes()
	split := slices.IndexFunc(boxes, isClassical)
	if split < 0 {
		split = len(boxes)
	}
	for i := range split {
		box, off := c.BoxAt(i)
		if err := b.add(box, off); err != nil {
			return nil, err
		}
	}

	outputs := b.outputBits()
	if split < len(boxes) {
		post, err := b.postProcessing(c, split)
		if err != nil {
			return nil, err
		}
		b.circ.PostProcess(post)
	}
	b.relabel(outputs)
	return b.circ.Schedule(), nil
}

// isClassical reports whether a box computes on bits only.
func isClassical(b Box) bool {
	switch box := b.(type) {
	case *ClassicalGate, *Copy, *Match:
		return true
	case *Discard:
		return box.ty.Count(monoidal.KindQubit) == 0
	case *MixedState:
		return box.ty.Count(monoidal.KindQubit) == 0
	case *GenericBox:
		return box.Dom().Count(monoidal.KindQubit)+box.Cod().Count(monoidal.KindQubit) == 0
	}
	return false
}

var tkGateNames = map[string]string{
	"X": "X", "Y": "Y", "Z": "Z", "H": "H", "S": "S", "T": "T", "CX": "CX", "CZ": "CZ",
}

func (b *tkBuilder) add(box Box, off int) error {
	n := box.Dom().Len()
	switch box := box.(type) {
	case *Ket:
		var fresh []wire
		for _, v := range box.values {
			q := b.circ.AddQubit()
			if v == 1 {
				b.circ.X(q)
			}
			fresh = append(fresh, wire{index: q})
		}
		b.splice(off, 0, fresh...)
	case *Bra:
		qubits, err := b.qubits(off, n)
		if err != nil {
			return err
		}
		for j, v := range box.values {
			bit := b.circ.AddBit()
			b.circ.Measure(qubits[j], bit)
			b.postSelect(bit, v)
		}
		b.splice(off, n)
	case *Bits:
		if box.dagger {
			for j, v := range box.values {
				b.postSelect(b.wires[off+j].index, v)
			}
			b.splice(off, n)
			return nil
		}
		var fresh []wire
		for _, v := range box.values {
			if v != 0 {
				return fmt.Errorf("%w: %s", ErrNotImplemented, box)
			}
			fresh = append(fresh, wire{bit: true, index: b.circ.AddBit()})
		}
		b.splice(off, 0, fresh...)
	case *Measure:
		qubits, err := b.qubits(off, box.n)
		if err != nil {
			return err
		}
		var bits []int
		if box.override {
			bits = b.bits(off+box.n, box.n)
		}
		var out []wire
		for j, q := range qubits {
			if !box.override {
				bits = append(bits, b.circ.AddBit())
			}
			b.circ.Measure(q, bits[j])
			if !box.destructive {
				out = append(out, wire{index: q})
			}
		}
		for _, bit := range bits {
			out = append(out, wire{bit: true, index: bit})
		}
		b.splice(off, n, out...)
	case *Encode:
		start := off
		var qubits []int
		if !box.constructive {
			var err error
			if qubits, err = b.qubits(off, box.n); err != nil {
				return err
			}
			start += box.n
		}
		bits := b.bits(start, box.n)
		var out []wire
		for j, bit := range bits {
			var q int
			if box.constructive {
				q = b.circ.AddQubit()
			} else {
				q = qubits[j]
			}
			b.circ.X(q).Conditional(bit, 1)
			out = append(out, wire{index: q})
		}
		if box.reset {
			for _, bit := range bits {
				out = append(out, wire{bit: true, index: bit})
			}
		}
		b.splice(off, n, out...)
	case *Discard:
		b.splice(off, n)
	case *Swap:
		b.swap(box, off)
	case *Scalar:
		if box.mixed {
			return fmt.Errorf("%w: %s", ErrNotImplemented, box)
		}
		x, err := box.Value()
		if err != nil {
			return err
		}
		b.circ.Scale(x)
	case *QuantumGate:
		name, ok := tkGateNames[box.name]
		if !ok || !box.named {
			return fmt.Errorf("%w: %s", ErrNotImplemented, box)
		}
		if box.dagger {
			name += "dg"
		}
		qubits, err := b.qubits(off, n)
		if err != nil {
			return err
		}
		b.circ.AddGate(name, nil, qubits...)
	case *Rotation:
		phi, err := box.phase.Eval()
		if err != nil {
			return fmt.Errorf("%w: %s", err, box)
		}
		qubits, err := b.qubits(off, n)
		if err != nil {
			return err
		}
		b.circ.AddGate(box.name, []float64{2 * phi}, qubits...)
	default:
		return fmt.Errorf("%w: %s", ErrNotImplemented, box)
	}
	return nil
}

func (b *tkBuilder) swap(s *Swap, off int) {
	l, n := s.left.Len(), s.Dom().Len()
	b.splice(off, n, slices.Concat(b.wires[off+l:off+n], b.wires[off:off+l])...)
}

// outputBits lists the tk bits currently on the wires.
func (b *tkBuilder) outputBits() []int {
	var out []int
	for _, w := range b.wires {
		if w.bit {
			out = append(out, w.index)
		}
	}
	return out
}

// postProcessing collects the classical boxes from split on into a circuit
// on the output bits. Qubits left on the wires may only be swapped or
// discarded.
func (b *tkBuilder) postProcessing(c *Circuit, split int) (*Circuit, error) {
	dom := Bit.Pow(len(b.outputBits()))
	var boxes []Box
	var offsets []int
	for i := split; i < c.Len(); i++ {
		box, off := c.BoxAt(i)
		n := box.Dom().Len()
		switch {
		case isClassical(box) || isBitSwap(box):
			bitOff := 0
			for _, w := range b.wires[:off] {
				if w.bit {
					bitOff++
				}
			}
			boxes = append(boxes, box)
			offsets = append(offsets, bitOff)
			fresh := make([]wire, box.Cod().Len())
			for j := range fresh {
				fresh[j] = wire{bit: true, index: -1}
			}
			b.splice(off, n, fresh...)
		case isQubitOnly(box, "Swap", "Discard"):
			if err := b.add(box, off); err != nil {
				return nil, err
			}
		case isMixedSwap(box):
			b.swap(box.(*Swap), off)
		default:
			return nil, fmt.Errorf("%w: %s after classical post-processing", ErrNotImplemented, box)
		}
	}
	return NewCircuit(dom, Bit.Pow(len(b.outputBits())), boxes, offsets)
}

func isBitSwap(b Box) bool {
	s, ok := b.(*Swap)
	return ok && s.left.Equal(Bit) && s.right.Equal(Bit)
}

func isMixedSwap(b Box) bool {
	s, ok := b.(*Swap)
	return ok && s.IsMixed()
}

func isQubitOnly(b Box, names ...string) bool {
	return slices.Contains(names, b.Name()) &&
		b.Dom().Count(monoidal.KindBit)+b.Cod().Count(monoidal.KindBit) == 0
}

// relabel numbers the output bits first, then the post-selected bits, then
// any other bit.
func (b *tkBuilder) relabel(outputs []int) {
	rename := make([]int, b.circ.NumBits)
	for i := range rename {
		rename[i] = -1
	}
	next := 0
	for _, bit := range slices.Concat(outputs, b.selected) {
		if rename[bit] < 0 {
			rename[bit] = next
			next++
		}
	}
	for i := range rename {
		if rename[i] < 0 {
			rename[i] = next
			next++
		}
	}
	b.circ.RenameBits(rename)
}

// FromTk translates tk circuits back to a sum of circuits.
func FromTk(circuits ...*tk.Circuit) (*Sum, error) {
	if len(circuits) == 0 {
		return &Sum{dom: monoidal.NewTy(), cod: monoidal.NewTy()}, nil
	}
	terms := make([]*Circuit, len(circuits))
	for i, tc := range circuits {
		var err error
		if terms[i], err = FromTkCircuit(tc); err != nil {
			return nil, err
		}
	}
	return NewSum(terms[0].Dom(), terms[0].Cod(), terms...)
}

// fromTkBuilder keeps the layout qubits first, then the output bits in
// index order. Gates permute their wires next to each other and back.
type fromTkBuilder struct {
	circ     *Circuit
	layout   monoidal.Ty
	qubitPos []int
	bitPos   map[int]int
}

func (f *fromTkBuilder) then(step *Circuit) error {
	var err error
	f.circ, err = f.circ.Then(step)
	return err
}

// apply places box on the given wire positions, in order.
func (f *fromTkBuilder) apply(box Box, positions ...int) error {
	n := f.layout.Len()
	start := positions[0]
	for _, p := range positions[1:] {
		start = min(start, p)
	}
	// Move the wires next to each other from start on, keeping the
	// relative order of the others.
	perm := make([]int, n)
	next := start + len(positions)
	for i := range n {
		if !slices.Contains(positions, i) {
			if i < start {
				perm[i] = i
			} else {
				perm[i] = next
				next++
			}
		}
	}
	for j, p := range positions {
		perm[p] = start + j
	}
	sorted := true
	for i, p := range perm {
		sorted = sorted && p == i
	}
	if sorted {
		layer, err := Tensor(Id(f.layout.Slice(0, start)), FromBox(box), Id(f.layout.Slice(start+len(positions), n)))
		if err != nil {
			return err
		}
		return f.then(layer)
	}
	forward, err := Permutation(f.layout, perm)
	if err != nil {
		return err
	}
	mid := forward.Cod()
	layer, err := Tensor(Id(mid.Slice(0, start)), FromBox(box), Id(mid.Slice(start+len(positions), n)))
	if err != nil {
		return err
	}
	return f.then(monoidal.Must(Then(forward, layer, forward.Dagger())))
}

var fromTkGates = map[string]Box{
	"X": X, "Y": Y, "Z": Z, "H": H, "S": S, "T": T, "CX": CX, "CZ": CZ,
	"Sdg": S.Dagger().(Box), "Tdg": T.Dagger().(Box),
}

// FromTkCircuit translates one tk circuit. Every qubit starts in Ket(0) and
// every output bit in Bits(0). Measurements into post-selected bits become
// Bras at the end, other qubits are discarded.
func FromTkCircuit(tc *tk.Circuit) (*Circuit, error) {
	if tc == nil {
		return nil, ErrNotCircuit
	}
	f := &fromTkBuilder{circ: Id(monoidal.NewTy()), bitPos: map[int]int{}}
	for range tc.NumQubits {
		if err := f.then(monoidal.Must(Tensor(Id(f.circ.Cod()), FromBox(NewKet(0))))); err != nil {
			return nil, err
		}
	}
	for bit := range tc.NumBits {
		if _, ok := tc.PostSelection[bit]; ok {
			continue
		}
		f.bitPos[bit] = f.circ.Cod().Len()
		if err := f.then(monoidal.Must(Tensor(Id(f.circ.Cod()), FromBox(NewBits(0))))); err != nil {
			return nil, err
		}
	}
	f.layout = f.circ.Cod()

	bras := map[int]int{}
	unmeasured := map[int]int{}
	for bit, v := range tc.PostSelection {
		unmeasured[bit] = v
	}
	for _, op := range tc.Ops {
		if op.Condition != nil {
			return nil, fmt.Errorf("%w: conditional %s", ErrNotImplemented, op)
		}
		for _, q := range op.Qubits {
			if _, ok := bras[q]; ok {
				return nil, fmt.Errorf("%w: %s after a post-selected measurement", ErrNotImplemented, op)
			}
		}
		if op.Name == "Measure" {
			q, bit := op.Qubits[0], op.Bits[0]
			if v, ok := tc.PostSelection[bit]; ok {
				bras[q] = v
				delete(unmeasured, bit)
				continue
			}
			if err := f.apply(NewMeasure(1, false, true), q, f.bitPos[bit]); err != nil {
				return nil, err
			}
			continue
		}
		box, err := tkOpBox(op)
		if err != nil {
			return nil, err
		}
		if err := f.apply(box, op.Qubits...); err != nil {
			return nil, err
		}
	}

	for q := range tc.NumQubits {
		var end Box = NewDiscard(Qubit)
		if v, ok := bras[q]; ok {
			end = NewBra(v)
		}
		rest := f.circ.Cod().Slice(1, f.circ.Cod().Len())
		if err := f.then(monoidal.Must(Tensor(FromBox(end), Id(rest)))); err != nil {
			return nil, err
		}
	}
	for _, v := range unmeasured {
		if v != 0 {
			if err := f.then(monoidal.Must(Tensor(Id(f.circ.Cod()), FromBox(NewScalar(symbolic.Num(0)))))); err != nil {
				return nil, err
			}
			break
		}
	}
	if tc.Scalar != 1 {
		if err := f.then(monoidal.Must(Tensor(Id(f.circ.Cod()), FromBox(NewScalar(symbolic.Num(tc.Scalar)))))); err != nil {
			return nil, err
		}
	}
	if tc.PostProcessing != nil {
		post, ok := tc.PostProcessing.(*Circuit)
		if !ok {
			return nil, fmt.Errorf("%w: post-processing %s", ErrNotCircuit, tc.PostProcessing)
		}
		if err := f.then(post); err != nil {
			return nil, err
		}
	}
	return f.circ, nil
}

func tkOpBox(op tk.Op) (Box, error) {
	if box, ok := fromTkGates[op.Name]; ok {
		return box, nil
	}
	if len(op.Params) == 1 {
		phase := symbolic.Num(op.Params[0] / 2)
		switch op.Name {
		case "Rx":
			return Rx(phase), nil
		case "Ry":
			return Ry(phase), nil
		case "Rz":
			return Rz(phase), nil
		case "CRz":
			return CRz(phase), nil
		case "CRx":
			return CRx(phase), nil
		case "CU1":
			return CU1(phase), nil
		}
	}
	if op.Name == "SWAP" {
		return NewSwap(Qubit, Qubit), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotImplemented, op)
}
