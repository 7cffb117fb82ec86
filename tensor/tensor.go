// Package tensor holds dense complex tensors with typed input and output
// wires, and the CQMap doubling used for mixed classical-quantum maps.
package tensor

import (
	"errors"
	"fmt"
	"math/cmplx"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/cmplxs"
)

// Tolerance used by Equal.
const Tolerance = 1e-9

var (
	// ErrShape is returned when data or wires do not line up.
	ErrShape = errors.New("shape mismatch")
)

// Dim lists the dimension of each wire.
type Dim []int

// Size is the product of the wire dimensions.
func (d Dim) Size() int {
	n := 1
	for _, x := range d {
		n *= x
	}
	return n
}

// Tensor joins dims. The result is a fresh slice.
func (d Dim) Tensor(others ...Dim) Dim {
	out := append(Dim(nil), d...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

// Equal compares wire dimensions.
func (d Dim) Equal(o Dim) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if d[i] != o[i] {
			return false
		}
	}
	return true
}

func (d Dim) String() string {
	if len(d) == 0 {
		return "Dim(1)"
	}
	parts := make([]string, len(d))
	for i, x := range d {
		parts[i] = strconv.Itoa(x)
	}
	return "Dim(" + strings.Join(parts, ", ") + ")"
}

// Tensor is a linear map from dom to cod. Data is row-major over the dom
// wires followed by the cod wires, so entry (i, j) is the amplitude of
// output basis j given input basis i.
type Tensor struct {
	dom, cod Dim
	data     []complex128
}

// New checks the data length against the wires.
func New(dom, cod Dim, data []complex128) (*Tensor, error) {
	if len(data) != dom.Size()*cod.Size() {
		return nil, fmt.Errorf("%w: %d entries for %s -> %s", ErrShape, len(data), dom, cod)
	}
	return &Tensor{dom: append(Dim(nil), dom...), cod: append(Dim(nil), cod...), data: append([]complex128(nil), data...)}, nil
}

// FromMatrix builds a tensor from a matrix in the usual column convention,
// where m[j][i] is the amplitude of output j given input i.
func FromMatrix(dom, cod Dim, m [][]complex128) (*Tensor, error) {
	n, k := dom.Size(), cod.Size()
	if len(m) != k {
		return nil, fmt.Errorf("%w: %d rows for %s", ErrShape, len(m), cod)
	}
	data := make([]complex128, n*k)
	for j, row := range m {
		if len(row) != n {
			return nil, fmt.Errorf("%w: %d columns for %s", ErrShape, len(row), dom)
		}
		for i, v := range row {
			data[i*k+j] = v
		}
	}
	return &Tensor{dom: append(Dim(nil), dom...), cod: append(Dim(nil), cod...), data: data}, nil
}

// Scalar returns the tensor with no wires.
func Scalar(c complex128) *Tensor {
	return &Tensor{data: []complex128{c}}
}

// Id returns the identity on the given wires.
func Id(dim Dim) *Tensor {
	n := dim.Size()
	data := make([]complex128, n*n)
	for i := range n {
		data[i*n+i] = 1
	}
	return &Tensor{dom: append(Dim(nil), dim...), cod: append(Dim(nil), dim...), data: data}
}

func (t *Tensor) Dom() Dim { return append(Dim(nil), t.dom...) }
func (t *Tensor) Cod() Dim { return append(Dim(nil), t.cod...) }

// Data returns a copy of the entries.
func (t *Tensor) Data() []complex128 { return append([]complex128(nil), t.data...) }

// At returns entry (i, j).
func (t *Tensor) At(i, j int) complex128 { return t.data[i*t.cod.Size()+j] }

// Then composes in sequence, contracting the cod of t with the dom of o.
func (t *Tensor) Then(o *Tensor) (*Tensor, error) {
	if !t.cod.Equal(o.dom) {
		return nil, fmt.Errorf("%w: %s does not compose with %s", ErrShape, t.cod, o.dom)
	}
	n, m, k := t.dom.Size(), t.cod.Size(), o.cod.Size()
	data := make([]complex128, n*k)
	for i := range n {
		row := t.data[i*m : (i+1)*m]
		out := data[i*k : (i+1)*k]
		for j, a := range row {
			if a == 0 {
				continue
			}
			cmplxs.AddScaled(out, a, o.data[j*k:(j+1)*k])
		}
	}
	return &Tensor{dom: t.Dom(), cod: o.Cod(), data: data}, nil
}

// Tensor composes in parallel.
func (t *Tensor) Tensor(o *Tensor) *Tensor {
	n1, m1 := t.dom.Size(), t.cod.Size()
	n2, m2 := o.dom.Size(), o.cod.Size()
	data := make([]complex128, n1*n2*m1*m2)
	for i1 := range n1 {
		for i2 := range n2 {
			row := (i1*n2 + i2) * m1 * m2
			for j1 := range m1 {
				a := t.data[i1*m1+j1]
				if a == 0 {
					continue
				}
				for j2 := range m2 {
					data[row+j1*m2+j2] = a * o.data[i2*m2+j2]
				}
			}
		}
	}
	return &Tensor{dom: t.dom.Tensor(o.dom), cod: t.cod.Tensor(o.cod), data: data}
}

// Dagger is the conjugate transpose.
func (t *Tensor) Dagger() *Tensor {
	n, m := t.dom.Size(), t.cod.Size()
	data := make([]complex128, n*m)
	for i := range n {
		for j := range m {
			data[j*n+i] = cmplx.Conj(t.data[i*m+j])
		}
	}
	return &Tensor{dom: t.Cod(), cod: t.Dom(), data: data}
}

// Conj conjugates every entry.
func (t *Tensor) Conj() *Tensor {
	data := make([]complex128, len(t.data))
	for i, v := range t.data {
		data[i] = cmplx.Conj(v)
	}
	return &Tensor{dom: t.Dom(), cod: t.Cod(), data: data}
}

// Add sums two tensors of the same type.
func (t *Tensor) Add(o *Tensor) (*Tensor, error) {
	if !t.dom.Equal(o.dom) || !t.cod.Equal(o.cod) {
		return nil, fmt.Errorf("%w: cannot add %s -> %s and %s -> %s", ErrShape, t.dom, t.cod, o.dom, o.cod)
	}
	data := t.Data()
	cmplxs.Add(data, o.data)
	return &Tensor{dom: t.Dom(), cod: t.Cod(), data: data}, nil
}

// Scale multiplies every entry by c.
func (t *Tensor) Scale(c complex128) *Tensor {
	data := t.Data()
	cmplxs.Scale(c, data)
	return &Tensor{dom: t.Dom(), cod: t.Cod(), data: data}
}

// Equal compares wires exactly and entries up to Tolerance.
func (t *Tensor) Equal(o *Tensor) bool {
	return t.dom.Equal(o.dom) && t.cod.Equal(o.cod) && cmplxs.EqualApprox(t.data, o.data, Tolerance)
}

// Real returns the real parts of the entries.
func (t *Tensor) Real() []float64 {
	return cmplxs.Real(make([]float64, len(t.data)), t.data)
}

// ApplyAt contracts box into the cod wires of t starting at offset,
// replacing them with the cod wires of box.
func (t *Tensor) ApplyAt(box *Tensor, offset int) (*Tensor, error) {
	width := len(box.dom)
	if offset < 0 || offset+width > len(t.cod) || !t.cod[offset:offset+width].Equal(box.dom) {
		return nil, fmt.Errorf("%w: %s does not fit at offset %d of %s", ErrShape, box.dom, offset, t.cod)
	}
	n := t.dom.Size()
	l := t.cod[:offset].Size()
	k := box.dom.Size()
	r := t.cod[offset+width:].Size()
	kk := box.cod.Size()
	cod := t.cod[:offset].Tensor(box.cod, t.cod[offset+width:])
	m, mm := l*k*r, l*kk*r
	data := make([]complex128, n*mm)
	for i := range n {
		for a := range l {
			for c := range r {
				for b := range k {
					v := t.data[i*m+(a*k+b)*r+c]
					if v == 0 {
						continue
					}
					for bb := range kk {
						w := box.data[b*kk+bb]
						if w != 0 {
							data[i*mm+(a*kk+bb)*r+c] += v * w
						}
					}
				}
			}
		}
	}
	return &Tensor{dom: t.Dom(), cod: cod, data: data}, nil
}

// Reorder permutes the wires: dom wire k of the result is dom wire
// domPerm[k] of t, and likewise for cod. A nil permutation keeps the order.
func (t *Tensor) Reorder(domPerm, codPerm []int) (*Tensor, error) {
	if domPerm == nil {
		domPerm = identity(len(t.dom))
	}
	if codPerm == nil {
		codPerm = identity(len(t.cod))
	}
	if len(domPerm) != len(t.dom) || len(codPerm) != len(t.cod) {
		return nil, fmt.Errorf("%w: permutation of the wrong length", ErrShape)
	}
	wires := t.dom.Tensor(t.cod)
	perm := append([]int(nil), domPerm...)
	for _, p := range codPerm {
		perm = append(perm, p+len(t.dom))
	}
	newWires := make(Dim, len(perm))
	for k, p := range perm {
		newWires[k] = wires[p]
	}
	newStrides := strides(newWires)
	data := make([]complex128, len(t.data))
	digits := make([]int, len(wires))
	for idx, v := range t.data {
		rest := idx
		for w := len(wires) - 1; w >= 0; w-- {
			digits[w] = rest % wires[w]
			rest /= wires[w]
		}
		target := 0
		for k, p := range perm {
			target += digits[p] * newStrides[k]
		}
		data[target] = v
	}
	return &Tensor{dom: newWires[:len(t.dom)], cod: newWires[len(t.dom):], data: data}, nil
}

// Permutation sends dom wire i to cod position perm[i].
func Permutation(dom Dim, perm []int) (*Tensor, error) {
	if len(perm) != len(dom) {
		return nil, fmt.Errorf("%w: permutation of %d wires on %s", ErrShape, len(perm), dom)
	}
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return Id(dom).Reorder(nil, inv)
}

// Swap exchanges two groups of wires.
func Swap(left, right Dim) *Tensor {
	perm := make([]int, len(left)+len(right))
	for i := range perm {
		if i < len(left) {
			perm[i] = i + len(right)
		} else {
			perm[i] = i - len(left)
		}
	}
	t, _ := Permutation(left.Tensor(right), perm)
	return t
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func strides(d Dim) []int {
	s := make([]int, len(d))
	acc := 1
	for i := len(d) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= d[i]
	}
	return s
}

func (t *Tensor) String() string {
	parts := make([]string, len(t.data))
	for i, v := range t.data {
		parts[i] = FormatComplex(v)
	}
	return fmt.Sprintf("Tensor(dom=%s, cod=%s, array=[%s])", t.dom, t.cod, strings.Join(parts, ", "))
}

// FormatComplex renders real numbers without an imaginary part and
// complex ones as (a+bj).
func FormatComplex(c complex128) string {
	re := strconv.FormatFloat(real(c), 'g', -1, 64)
	if imag(c) == 0 {
		return re
	}
	im := strconv.FormatFloat(imag(c), 'g', -1, 64)
	if real(c) == 0 {
		return im + "j"
	}
	if imag(c) >= 0 {
		im = "+" + im
	}
	return "(" + re + im + "j)"
}
