// Package quantum is the circuit layer on top of monoidal diagrams: qubit
// and bit wires, quantum and classical gates, measurements, formal sums of
// circuits, tensor and CQMap evaluation, and the bridge to tk circuits.
package quantum

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"discocirq/monoidal"
	"discocirq/symbolic"
	"discocirq/tensor"
)

var (
	// Qubit is the type of a quantum wire.
	Qubit = monoidal.NewTy(monoidal.Ob{Name: "qubit", Kind: monoidal.KindQubit})
	// Bit is the type of a classical wire.
	Bit = monoidal.NewTy(monoidal.Ob{Name: "bit", Kind: monoidal.KindBit})
)

// Box is an atomic circuit. The set of boxes is closed.
type Box interface {
	monoidal.Box
	IsMixed() bool
	circuitBox()
}

func (*QuantumGate) circuitBox() {}
func (*ClassicalGate) circuitBox() {}
func (*Rotation) circuitBox() {}
func (*Bits) circuitBox() {}
func (*Ket) circuitBox() {}
func (*Bra) circuitBox() {}
func (*Copy) circuitBox() {}
func (*Match) circuitBox() {}
func (*Measure) circuitBox() {}
func (*Encode) circuitBox() {}
func (*Discard) circuitBox() {}
func (*MixedState) circuitBox() {}
func (*Swap) circuitBox() {}
func (*Scalar) circuitBox() {}
func (*GenericBox) circuitBox() {}

func intsRepr(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func complexRepr(xs []complex128) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = tensor.FormatComplex(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func exprRepr(xs []symbolic.Expr) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// QuantumGate is a unitary on n qubits given by its array. Array entry
// i*2^n+j is the amplitude of output j given input i.
type QuantumGate struct {
	name        string
	nQubits     int
	array       []complex128
	named       bool
	selfAdjoint bool
	dagger      bool
}

// NewQuantumGate checks the array size against the number of qubits.
func NewQuantumGate(name string, nQubits int, array []complex128) (*QuantumGate, error) {
	if n := 1 << nQubits; len(array) != n*n {
		return nil, fmt.Errorf("%w: %d entries for %d qubits", tensor.ErrShape, len(array), nQubits)
	}
	return &QuantumGate{name: name, nQubits: nQubits, array: slices.Clone(array)}, nil
}

func namedGate(name string, nQubits int, selfAdjoint bool, array ...complex128) *QuantumGate {
	return &QuantumGate{name: name, nQubits: nQubits, array: array, named: true, selfAdjoint: selfAdjoint}
}

func (g *QuantumGate) Name() string { return g.name }
func (g *QuantumGate) Dom() monoidal.Ty { return Qubit.Pow(g.nQubits) }
func (g *QuantumGate) Cod() monoidal.Ty { return Qubit.Pow(g.nQubits) }
func (g *QuantumGate) IsMixed() bool { return false }
func (g *QuantumGate) IsDagger() bool { return g.dagger }

func (g *QuantumGate) Dagger() monoidal.Box {
	if g.selfAdjoint {
		return g
	}
	c := *g
	c.dagger = !g.dagger
	return &c
}

func (g *QuantumGate) Equal(o monoidal.Box) bool {
	other, ok := o.(*QuantumGate)
	return ok && g.name == other.name && g.nQubits == other.nQubits &&
		g.dagger == other.dagger && slices.Equal(g.array, other.array)
}

func (g *QuantumGate) String() string {
	s := g.name
	if !g.named {
		s = fmt.Sprintf("QuantumGate('%s', n_qubits=%d, array=%s)", g.name, g.nQubits, complexRepr(g.array))
	}
	if g.dagger {
		s += ".dagger()"
	}
	return s
}

// ClassicalGate is a linear map on bits with a possibly symbolic array.
type ClassicalGate struct {
	name      string
	nIn, nOut int
	array     []symbolic.Expr
	dagger    bool
}

// NewClassicalGate checks the array size against the number of bits.
func NewClassicalGate(name string, nBitsIn, nBitsOut int, array []symbolic.Expr) (*ClassicalGate, error) {
	if len(array) != 1<<(nBitsIn+nBitsOut) {
		return nil, fmt.Errorf("%w: %d entries for %d -> %d bits", tensor.ErrShape, len(array), nBitsIn, nBitsOut)
	}
	return &ClassicalGate{name: name, nIn: nBitsIn, nOut: nBitsOut, array: slices.Clone(array)}, nil
}

func (g *ClassicalGate) Name() string { return g.name }
func (g *ClassicalGate) IsMixed() bool { return false }
func (g *ClassicalGate) IsDagger() bool { return g.dagger }

func (g *ClassicalGate) Dom() monoidal.Ty {
	if g.dagger {
		return Bit.Pow(g.nOut)
	}
	return Bit.Pow(g.nIn)
}

func (g *ClassicalGate) Cod() monoidal.Ty {
	if g.dagger {
		return Bit.Pow(g.nIn)
	}
	return Bit.Pow(g.nOut)
}

func (g *ClassicalGate) Dagger() monoidal.Box {
	c := *g
	c.dagger = !g.dagger
	return &c
}

// Array returns the entries as given to the constructor.
func (g *ClassicalGate) Array() []symbolic.Expr { return slices.Clone(g.array) }

func (g *ClassicalGate) Equal(o monoidal.Box) bool {
	other, ok := o.(*ClassicalGate)
	if !ok || g.name != other.name || g.nIn != other.nIn || g.nOut != other.nOut ||
		g.dagger != other.dagger || len(g.array) != len(other.array) {
		return false
	}
	for i := range g.array {
		if !symbolic.Equal(g.array[i], other.array[i]) {
			return false
		}
	}
	return true
}

func (g *ClassicalGate) String() string {
	s := fmt.Sprintf("ClassicalGate('%s', n_bits_in=%d, n_bits_out=%d, array=%s)",
		g.name, g.nIn, g.nOut, exprRepr(g.array))
	if g.dagger {
		s += ".dagger()"
	}
	return s
}

// Bits prepares classical bits with fixed values. Its dagger is the
// effect that post-selects them.
type Bits struct {
	values []int
	dagger bool
}

// NewBits returns the bitstring generator.
func NewBits(values ...int) *Bits { return &Bits{values: slices.Clone(values)} }

func (b *Bits) Name() string { return "Bits(" + intsRepr(b.values) + ")" }
func (b *Bits) IsMixed() bool { return false }
func (b *Bits) IsDagger() bool { return b.dagger }
func (b *Bits) Values() []int { return slices.Clone(b.values) }

func (b *Bits) Dom() monoidal.Ty {
	if b.dagger {
		return Bit.Pow(len(b.values))
	}
	return monoidal.NewTy()
}

func (b *Bits) Cod() monoidal.Ty {
	if b.dagger {
		return monoidal.NewTy()
	}
	return Bit.Pow(len(b.values))
}

func (b *Bits) Dagger() monoidal.Box { return &Bits{values: b.values, dagger: !b.dagger} }

func (b *Bits) Equal(o monoidal.Box) bool {
	other, ok := o.(*Bits)
	return ok && b.dagger == other.dagger && slices.Equal(b.values, other.values)
}

func (b *Bits) String() string {
	if b.dagger {
		return b.Name() + ".dagger()"
	}
	return b.Name()
}

// Ket prepares qubits in a computational basis state.
type Ket struct {
	values []int
}

// NewKet returns the basis state.
func NewKet(values ...int) *Ket { return &Ket{values: slices.Clone(values)} }

func (k *Ket) Name() string { return "Ket(" + intsRepr(k.values) + ")" }
func (k *Ket) Dom() monoidal.Ty { return monoidal.NewTy() }
func (k *Ket) Cod() monoidal.Ty { return Qubit.Pow(len(k.values)) }
func (k *Ket) IsMixed() bool { return false }
func (k *Ket) Values() []int { return slices.Clone(k.values) }
func (k *Ket) Dagger() monoidal.Box { return &Bra{values: k.values} }
func (k *Ket) String() string { return k.Name() }

func (k *Ket) Equal(o monoidal.Box) bool {
	other, ok := o.(*Ket)
	return ok && slices.Equal(k.values, other.values)
}

// Bra is the effect dual to Ket.
type Bra struct {
	values []int
}

// NewBra returns the basis effect.
func NewBra(values ...int) *Bra { return &Bra{values: slices.Clone(values)} }

func (b *Bra) Name() string { return "Bra(" + intsRepr(b.values) + ")" }
func (b *Bra) Dom() monoidal.Ty { return Qubit.Pow(len(b.values)) }
func (b *Bra) Cod() monoidal.Ty { return monoidal.NewTy() }
func (b *Bra) IsMixed() bool { return false }
func (b *Bra) Values() []int { return slices.Clone(b.values) }
func (b *Bra) Dagger() monoidal.Box { return &Ket{values: b.values} }
func (b *Bra) String() string { return b.Name() }

func (b *Bra) Equal(o monoidal.Box) bool {
	other, ok := o.(*Bra)
	return ok && slices.Equal(b.values, other.values)
}

// Copy duplicates a bit.
type Copy struct{}

// Match compares two bits and keeps one when they agree.
type Match struct{}

func NewCopy() *Copy { return &Copy{} }
func NewMatch() *Match { return &Match{} }

func (*Copy) Name() string { return "Copy" }
func (*Copy) Dom() monoidal.Ty { return Bit }
func (*Copy) Cod() monoidal.Ty { return Bit.Pow(2) }
func (*Copy) IsMixed() bool { return false }
func (*Copy) Dagger() monoidal.Box { return &Match{} }
func (*Copy) String() string { return "Copy()" }

func (*Copy) Equal(o monoidal.Box) bool {
	_, ok := o.(*Copy)
	return ok
}

func (*Match) Name() string { return "Match" }
func (*Match) Dom() monoidal.Ty { return Bit.Pow(2) }
func (*Match) Cod() monoidal.Ty { return Bit }
func (*Match) IsMixed() bool { return false }
func (*Match) Dagger() monoidal.Box { return &Copy{} }
func (*Match) String() string { return "Match()" }

func (*Match) Equal(o monoidal.Box) bool {
	_, ok := o.(*Match)
	return ok
}

// Measure measures n qubits in the computational basis. A non-destructive
// measurement keeps the qubits before the bits. With override the bits
// the outcomes are written to are inputs of the box.
type Measure struct {
	n           int
	destructive bool
	override    bool
}

// NewMeasure returns a measurement of n qubits.
func NewMeasure(n int, destructive, overrideBits bool) *Measure {
	return &Measure{n: n, destructive: destructive, override: overrideBits}
}

func (m *Measure) Name() string { return "Measure" }
func (m *Measure) IsMixed() bool { return true }
func (m *Measure) NQubits() int { return m.n }
func (m *Measure) Destructive() bool { return m.destructive }
func (m *Measure) Override() bool { return m.override }

func (m *Measure) Dom() monoidal.Ty {
	if m.override {
		return monoidal.Must(Qubit.Pow(m.n).Tensor(Bit.Pow(m.n)))
	}
	return Qubit.Pow(m.n)
}

func (m *Measure) Cod() monoidal.Ty {
	if m.destructive {
		return Bit.Pow(m.n)
	}
	return monoidal.Must(Qubit.Pow(m.n).Tensor(Bit.Pow(m.n)))
}

func (m *Measure) Dagger() monoidal.Box {
	return &Encode{n: m.n, constructive: m.destructive, reset: m.override}
}

func (m *Measure) Equal(o monoidal.Box) bool {
	other, ok := o.(*Measure)
	return ok && *m == *other
}

func (m *Measure) String() string {
	return flagsRepr("Measure", m.n, m.destructive, "destructive", m.override, "override_bits")
}

// flagsRepr renders Measure and Encode with their default arguments left out.
func flagsRepr(name string, n int, flag bool, flagName string, opt bool, optName string) string {
	var args []string
	if n != 1 || !flag || opt {
		args = append(args, strconv.Itoa(n))
	}
	if !flag {
		args = append(args, flagName+"=False")
	}
	if opt {
		args = append(args, optName+"=True")
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// Encode prepares qubits from bits. It is the dagger of Measure.
type Encode struct {
	n            int
	constructive bool
	reset        bool
}

// NewEncode returns the encoding of n bits.
func NewEncode(n int, constructive, resetBits bool) *Encode {
	return &Encode{n: n, constructive: constructive, reset: resetBits}
}

func (e *Encode) Name() string { return "Encode" }
func (e *Encode) IsMixed() bool { return true }
func (e *Encode) Dom() monoidal.Ty { return e.Dagger().Cod() }
func (e *Encode) Cod() monoidal.Ty { return e.Dagger().Dom() }

func (e *Encode) Dagger() monoidal.Box {
	return &Measure{n: e.n, destructive: e.constructive, override: e.reset}
}

func (e *Encode) Equal(o monoidal.Box) bool {
	other, ok := o.(*Encode)
	return ok && *e == *other
}

func (e *Encode) String() string {
	return flagsRepr("Encode", e.n, e.constructive, "constructive", e.reset, "reset_bits")
}

// Discard traces out its wires.
type Discard struct {
	ty monoidal.Ty
}

// NewDiscard discards wires of type t, which must be made of qubits and bits.
func NewDiscard(t monoidal.Ty) *Discard { return &Discard{ty: t} }

func (d *Discard) Name() string { return "Discard" }
func (d *Discard) Dom() monoidal.Ty { return d.ty }
func (d *Discard) Cod() monoidal.Ty { return monoidal.NewTy() }
func (d *Discard) IsMixed() bool { return true }
func (d *Discard) Dagger() monoidal.Box { return &MixedState{ty: d.ty} }
func (d *Discard) String() string { return typedRepr("Discard", d.ty) }

func (d *Discard) Equal(o monoidal.Box) bool {
	other, ok := o.(*Discard)
	return ok && d.ty.Equal(other.ty)
}

// MixedState is the maximally mixed state, the dagger of Discard.
type MixedState struct {
	ty monoidal.Ty
}

// NewMixedState prepares wires of type t in the maximally mixed state.
func NewMixedState(t monoidal.Ty) *MixedState { return &MixedState{ty: t} }

func (m *MixedState) Name() string { return "MixedState" }
func (m *MixedState) Dom() monoidal.Ty { return monoidal.NewTy() }
func (m *MixedState) Cod() monoidal.Ty { return m.ty }
func (m *MixedState) IsMixed() bool { return true }
func (m *MixedState) Dagger() monoidal.Box { return &Discard{ty: m.ty} }
func (m *MixedState) String() string { return typedRepr("MixedState", m.ty) }

func (m *MixedState) Equal(o monoidal.Box) bool {
	other, ok := o.(*MixedState)
	return ok && m.ty.Equal(other.ty)
}

func typedRepr(name string, t monoidal.Ty) string {
	if t.Equal(Qubit) {
		return name + "()"
	}
	return name + "(" + t.String() + ")"
}

// Swap exchanges two wires. It is mixed when it swaps a qubit with a bit.
type Swap struct {
	left, right monoidal.Ty
}

// NewSwap returns the swap of two single wires.
func NewSwap(left, right monoidal.Ty) *Swap { return &Swap{left: left, right: right} }

// swapFactory plugs Swap into the monoidal permutation builders.
func swapFactory(left, right monoidal.Ty) monoidal.Box { return NewSwap(left, right) }

func (s *Swap) Name() string { return "Swap" }
func (s *Swap) Dom() monoidal.Ty { return monoidal.Must(s.left.Tensor(s.right)) }
func (s *Swap) Cod() monoidal.Ty { return monoidal.Must(s.right.Tensor(s.left)) }
func (s *Swap) IsMixed() bool { return !s.left.Equal(s.right) }
func (s *Swap) Dagger() monoidal.Box { return &Swap{left: s.right, right: s.left} }
func (s *Swap) String() string { return fmt.Sprintf("Swap(%s, %s)", s.left, s.right) }

func (s *Swap) Equal(o monoidal.Box) bool {
	other, ok := o.(*Swap)
	return ok && s.left.Equal(other.left) && s.right.Equal(other.right)
}

// Scalar is a real number as a box with no wires. A sqrt scalar stands for
// the square root of its data. A mixed scalar multiplies CQMaps directly
// instead of through its square.
type Scalar struct {
	data  symbolic.Expr
	sqrt  bool
	mixed bool
}

// NewScalar returns the scalar box.
func NewScalar(x symbolic.Expr) *Scalar { return &Scalar{data: x} }

// Sqrt returns the scalar box for the square root of x.
func Sqrt(x symbolic.Expr) *Scalar { return &Scalar{data: x, sqrt: true} }

// MixedScalar returns a scalar that is not doubled in mixed evaluation.
func MixedScalar(x symbolic.Expr) *Scalar { return &Scalar{data: x, mixed: true} }

func (s *Scalar) Name() string { return "scalar" }
func (s *Scalar) Dom() monoidal.Ty { return monoidal.NewTy() }
func (s *Scalar) Cod() monoidal.Ty { return monoidal.NewTy() }
func (s *Scalar) IsMixed() bool { return s.mixed }
func (s *Scalar) Data() symbolic.Expr { return s.data }
func (s *Scalar) Dagger() monoidal.Box { return s }

// Value evaluates the scalar.
func (s *Scalar) Value() (float64, error) {
	x, err := s.data.Eval()
	if err != nil {
		return 0, err
	}
	if s.sqrt {
		return math.Sqrt(x), nil
	}
	return x, nil
}

func (s *Scalar) Equal(o monoidal.Box) bool {
	other, ok := o.(*Scalar)
	return ok && s.sqrt == other.sqrt && s.mixed == other.mixed && symbolic.Equal(s.data, other.data)
}

func (s *Scalar) String() string {
	switch {
	case s.sqrt:
		return "sqrt(" + s.data.String() + ")"
	case s.mixed:
		return "scalar(" + s.data.String() + ", is_mixed=True)"
	}
	return "scalar(" + s.data.String() + ")"
}

// GenericBox is an opaque box on qubits and bits. It is mixed unless built
// with Pure.
type GenericBox struct {
	name     string
	dom, cod monoidal.Ty
	data     symbolic.Expr
	array    []complex128
	pure     bool
	dagger   bool
}

// BoxOption configures a GenericBox.
type BoxOption func(*GenericBox)

// Pure marks the box as a pure map.
func Pure() BoxOption { return func(b *GenericBox) { b.pure = true } }

// WithData attaches a symbolic parameter.
func WithData(x symbolic.Expr) BoxOption { return func(b *GenericBox) { b.data = x } }

// WithArray attaches the array evaluation uses. For a pure box it is a
// tensor on the wires, otherwise a CQMap on the doubled wires.
func WithArray(array []complex128) BoxOption {
	return func(b *GenericBox) { b.array = slices.Clone(array) }
}

// NewBox returns a generic box. Both types must be made of qubits and bits,
// and a pure box cannot mix them.
func NewBox(name string, dom, cod monoidal.Ty, opts ...BoxOption) (*GenericBox, error) {
	for _, t := range []monoidal.Ty{dom, cod} {
		for _, o := range t.Obs() {
			if !o.IsCircuit() {
				return nil, fmt.Errorf("%w: box %s on %s", monoidal.ErrTypeMismatch, name, t)
			}
		}
	}
	b := &GenericBox{name: name, dom: dom, cod: cod}
	for _, opt := range opts {
		opt(b)
	}
	if b.pure && mixesWires(dom, cod) {
		return nil, fmt.Errorf("%w: box %s from %s to %s", ErrNotPure, name, dom, cod)
	}
	return b, nil
}

func mixesWires(ts ...monoidal.Ty) bool {
	qubits, bits := 0, 0
	for _, t := range ts {
		qubits += t.Count(monoidal.KindQubit)
		bits += t.Count(monoidal.KindBit)
	}
	return qubits > 0 && bits > 0
}

func (b *GenericBox) Name() string { return b.name }
func (b *GenericBox) IsMixed() bool { return !b.pure }
func (b *GenericBox) Data() symbolic.Expr { return b.data }
func (b *GenericBox) IsDagger() bool { return b.dagger }

func (b *GenericBox) Dom() monoidal.Ty {
	if b.dagger {
		return b.cod
	}
	return b.dom
}

func (b *GenericBox) Cod() monoidal.Ty {
	if b.dagger {
		return b.dom
	}
	return b.cod
}

func (b *GenericBox) Dagger() monoidal.Box {
	c := *b
	c.dagger = !b.dagger
	return &c
}

func (b *GenericBox) Equal(o monoidal.Box) bool {
	other, ok := o.(*GenericBox)
	return ok && b.name == other.name && b.dagger == other.dagger && b.pure == other.pure &&
		b.dom.Equal(other.dom) && b.cod.Equal(other.cod) &&
		symbolic.Equal(b.data, other.data) && slices.Equal(b.array, other.array)
}

func (b *GenericBox) String() string {
	args := []string{"'" + b.name + "'", b.dom.String(), b.cod.String()}
	if b.data != nil {
		args = append(args, "data="+b.data.String())
	}
	if b.pure {
		args = append(args, "is_mixed=False")
	}
	s := "Box(" + strings.Join(args, ", ") + ")"
	if b.dagger {
		s += ".dagger()"
	}
	return s
}
