package tensor

import (
	"fmt"
	"slices"
	"strings"
)

// CQ is the type of a mixed system: classical wires then quantum wires.
type CQ struct {
	C, Q Dim
}

// C returns the classical system with the given wires.
func C(d Dim) CQ { return CQ{C: append(Dim(nil), d...)} }

// Q returns the quantum system with the given wires.
func Q(d Dim) CQ { return CQ{Q: append(Dim(nil), d...)} }

// Tensor joins the classical and quantum parts separately.
func (t CQ) Tensor(o CQ) CQ {
	return CQ{C: t.C.Tensor(o.C), Q: t.Q.Tensor(o.Q)}
}

// Doubled returns the wires of the underlying array: classical wires,
// quantum wires, then their conjugates.
func (t CQ) Doubled() Dim {
	return t.C.Tensor(t.Q, t.Q)
}

func (t CQ) Equal(o CQ) bool { return t.C.Equal(o.C) && t.Q.Equal(o.Q) }

func (t CQ) String() string {
	return fmt.Sprintf("CQ(classical=%s, quantum=%s)", t.C, t.Q)
}

// CQMap is a completely positive map between mixed systems, stored as a
// tensor on the doubled wires.
type CQMap struct {
	dom, cod CQ
	array    *Tensor
}

// NewCQMap checks the array against the doubled wires.
func NewCQMap(dom, cod CQ, array *Tensor) (*CQMap, error) {
	if !array.dom.Equal(dom.Doubled()) || !array.cod.Equal(cod.Doubled()) {
		return nil, fmt.Errorf("%w: array %s -> %s for %s -> %s", ErrShape, array.dom, array.cod, dom, cod)
	}
	return &CQMap{dom: dom, cod: cod, array: array}, nil
}

func (m *CQMap) Dom() CQ { return m.dom }
func (m *CQMap) Cod() CQ { return m.cod }
func (m *CQMap) Array() *Tensor { return m.array }

// Double turns a pure map f into f tensored with its conjugate.
func Double(f *Tensor) *CQMap {
	return &CQMap{dom: Q(f.dom), cod: Q(f.cod), array: f.Tensor(f.Conj())}
}

// Classical embeds a classical map.
func Classical(f *Tensor) *CQMap {
	return &CQMap{dom: C(f.dom), cod: C(f.cod), array: f}
}

// IdCQ is the identity on a mixed system.
func IdCQ(t CQ) *CQMap {
	return &CQMap{dom: t, cod: t, array: Id(t.Doubled())}
}

// Discard traces out quantum wires.
func Discard(q Dim) *CQMap {
	n := q.Size()
	data := make([]complex128, n*n)
	for i := range n {
		data[i*n+i] = 1
	}
	return &CQMap{dom: Q(q), cod: CQ{}, array: &Tensor{dom: q.Tensor(q), data: data}}
}

// Measure measures quantum wires in the computational basis. A
// non-destructive measurement keeps the collapsed quantum wires after
// the classical outcome.
func Measure(q Dim, destructive bool) *CQMap {
	n := q.Size()
	cod := CQ{C: q}
	if !destructive {
		cod.Q = q
	}
	k := cod.Doubled().Size()
	data := make([]complex128, n*n*k)
	for i := range n {
		j := i
		if !destructive {
			j = (i*n+i)*n + i
		}
		data[(i*n+i)*k+j] = 1
	}
	return &CQMap{dom: Q(q), cod: cod, array: &Tensor{dom: q.Tensor(q), cod: cod.Doubled(), data: data}}
}

// Encode prepares classical values as basis states. It is the dagger of Measure.
func Encode(c Dim, constructive bool) *CQMap {
	return Measure(c, constructive).Dagger()
}

// SwapCQ exchanges two mixed systems.
func SwapCQ(left, right CQ) *CQMap {
	dom := left.Tensor(right)
	cod := right.Tensor(left)
	// dom wires: left.C right.C left.Q right.Q left.Q* right.Q*
	lc, rc, lq, rq := len(left.C), len(right.C), len(left.Q), len(right.Q)
	perm := make([]int, 0, lc+rc+2*(lq+rq))
	for i := range lc {
		perm = append(perm, rc+i)
	}
	for i := range rc {
		perm = append(perm, i)
	}
	base := lc + rc
	for range 2 {
		for i := range lq {
			perm = append(perm, base+rq+i)
		}
		for i := range rq {
			perm = append(perm, base+i)
		}
		base += lq + rq
	}
	array, _ := Permutation(dom.Doubled(), perm)
	return &CQMap{dom: dom, cod: cod, array: array}
}

// Then composes in sequence.
func (m *CQMap) Then(o *CQMap) (*CQMap, error) {
	if !m.cod.Equal(o.dom) {
		return nil, fmt.Errorf("%w: %s does not compose with %s", ErrShape, m.cod, o.dom)
	}
	array, err := m.array.Then(o.array)
	if err != nil {
		return nil, err
	}
	return &CQMap{dom: m.dom, cod: o.cod, array: array}, nil
}

// ApplyAt contracts box into the cod of m. left is the part of the cod
// before the box. This is m followed by IdCQ(left) @ box @ IdCQ(right)
// without building that map.
func (m *CQMap) ApplyAt(box *CQMap, left CQ) (*CQMap, error) {
	cod := m.cod
	lc, lq := len(left.C), len(left.Q)
	bc, bq := len(box.dom.C), len(box.dom.Q)
	nc, nq := len(cod.C), len(cod.Q)
	if lc+bc > nc || lq+bq > nq ||
		!cod.C[lc:lc+bc].Equal(box.dom.C) || !cod.Q[lq:lq+bq].Equal(box.dom.Q) {
		return nil, fmt.Errorf("%w: %s does not fit after %s in %s", ErrShape, box.dom, left, cod)
	}
	rc, rq := nc-lc-bc, nq-lq-bq

	// Bring the wires of the box to the front: box C, Q, Q*, then the
	// rest as C-left, C-right, Q-left, Q-right, Q*-left, Q*-right.
	front := slices.Concat(
		span(lc, bc), span(nc+lq, bq), span(nc+nq+lq, bq),
		span(0, lc), span(lc+bc, rc),
		span(nc, lq), span(nc+lq+bq, rq),
		span(nc+nq, lq), span(nc+nq+lq+bq, rq),
	)
	array, err := m.array.Reorder(nil, front)
	if err != nil {
		return nil, err
	}
	if array, err = array.ApplyAt(box.array, 0); err != nil {
		return nil, err
	}

	// Put them back in place.
	cc, cq := len(box.cod.C), len(box.cod.Q)
	rest := cc + 2*cq
	back := slices.Concat(
		span(rest, lc), span(0, cc), span(rest+lc, rc),
		span(rest+lc+rc, lq), span(cc, cq), span(rest+lc+rc+lq, rq),
		span(rest+lc+rc+lq+rq, lq), span(cc+cq, cq), span(rest+lc+rc+2*lq+rq, rq),
	)
	if array, err = array.Reorder(nil, back); err != nil {
		return nil, err
	}
	newCod := CQ{
		C: slices.Concat(cod.C[:lc], box.cod.C, cod.C[lc+bc:]),
		Q: slices.Concat(cod.Q[:lq], box.cod.Q, cod.Q[lq+bq:]),
	}
	return &CQMap{dom: m.dom, cod: newCod, array: array}, nil
}

// span lists n wire indices from start.
func span(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Tensor composes in parallel, regrouping classical and quantum wires.
func (m *CQMap) Tensor(o *CQMap) *CQMap {
	array := m.array.Tensor(o.array)
	array, _ = array.Reorder(interleave(m.dom, o.dom), interleave(m.cod, o.cod))
	return &CQMap{dom: m.dom.Tensor(o.dom), cod: m.cod.Tensor(o.cod), array: array}
}

// interleave maps the wires a.Doubled() @ b.Doubled() to (a @ b).Doubled().
func interleave(a, b CQ) []int {
	ac, aq, bc, bq := len(a.C), len(a.Q), len(b.C), len(b.Q)
	aw := ac + 2*aq
	var perm []int
	for i := range ac {
		perm = append(perm, i)
	}
	for i := range bc {
		perm = append(perm, aw+i)
	}
	for half := range 2 {
		for i := range aq {
			perm = append(perm, ac+half*aq+i)
		}
		for i := range bq {
			perm = append(perm, aw+bc+half*bq+i)
		}
	}
	return perm
}

// Dagger is the conjugate transpose of the array.
func (m *CQMap) Dagger() *CQMap {
	return &CQMap{dom: m.cod, cod: m.dom, array: m.array.Dagger()}
}

// Add sums two maps of the same type.
func (m *CQMap) Add(o *CQMap) (*CQMap, error) {
	if !m.dom.Equal(o.dom) || !m.cod.Equal(o.cod) {
		return nil, fmt.Errorf("%w: cannot add %s -> %s and %s -> %s", ErrShape, m.dom, m.cod, o.dom, o.cod)
	}
	array, err := m.array.Add(o.array)
	if err != nil {
		return nil, err
	}
	return &CQMap{dom: m.dom, cod: m.cod, array: array}, nil
}

// Equal compares types and arrays.
func (m *CQMap) Equal(o *CQMap) bool {
	return m.dom.Equal(o.dom) && m.cod.Equal(o.cod) && m.array.Equal(o.array)
}

func (m *CQMap) String() string {
	parts := make([]string, len(m.array.data))
	for i, v := range m.array.data {
		parts[i] = FormatComplex(v)
	}
	return fmt.Sprintf("CQMap(dom=%s, cod=%s, array=[%s])", m.dom, m.cod, strings.Join(parts, ", "))
}
