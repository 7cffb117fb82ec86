package monoidal

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tells which category an Ob belongs to.
type Kind int

const (
	KindGeneric Kind = iota
	KindQubit
	KindBit
)

// Ob is an atomic wire type. Z is the winding number: L decrements it and
// R increments it. Circuit obs (qubit, bit) are self-dual.
type Ob struct {
	Name string
	Z    int
	Kind Kind
}

// NewOb returns a generic ob with winding zero.
func NewOb(name string) Ob {
	return Ob{Name: name}
}

// IsCircuit reports whether the ob is a qubit or a bit.
func (o Ob) IsCircuit() bool {
	return o.Kind == KindQubit || o.Kind == KindBit
}

// L returns the left adjoint.
func (o Ob) L() Ob {
	if o.IsCircuit() {
		return o
	}
	return Ob{Name: o.Name, Z: o.Z - 1, Kind: o.Kind}
}

// R returns the right adjoint.
func (o Ob) R() Ob {
	if o.IsCircuit() {
		return o
	}
	return Ob{Name: o.Name, Z: o.Z + 1, Kind: o.Kind}
}

func (o Ob) String() string {
	if o.IsCircuit() {
		return o.Name
	}
	if o.Z == 0 {
		return "'" + o.Name + "'"
	}
	return fmt.Sprintf("Ob('%s', z=%d)", o.Name, o.Z)
}

// Ty is an immutable ordered sequence of obs.
type Ty struct {
	obs []Ob
}

// NewTy returns the type with the given obs. NewTy() is the monoidal unit.
func NewTy(obs ...Ob) Ty {
	return Ty{obs: append([]Ob(nil), obs...)}
}

// Named returns the generic type with one ob per name.
func Named(names ...string) Ty {
	obs := make([]Ob, len(names))
	for i, n := range names {
		obs[i] = NewOb(n)
	}
	return Ty{obs: obs}
}

// Obs returns a copy of the obs.
func (t Ty) Obs() []Ob {
	return append([]Ob(nil), t.obs...)
}

// Len returns the number of wires.
func (t Ty) Len() int { return len(t.obs) }

// At returns the i-th ob.
func (t Ty) At(i int) Ob { return t.obs[i] }

// Slice returns the sub-type t[i:j].
func (t Ty) Slice(i, j int) Ty {
	return NewTy(t.obs[i:j]...)
}

// IsEmpty reports whether t is the unit.
func (t Ty) IsEmpty() bool { return len(t.obs) == 0 }

// Count returns how many obs have the given kind.
func (t Ty) Count(k Kind) int {
	n := 0
	for _, o := range t.obs {
		if o.Kind == k {
			n++
		}
	}
	return n
}

func (t Ty) category() int {
	generic, circuit := false, false
	for _, o := range t.obs {
		if o.IsCircuit() {
			circuit = true
		} else {
			generic = true
		}
	}
	switch {
	case generic && circuit:
		return -1
	case generic:
		return 1
	case circuit:
		return 2
	}
	return 0
}

// Tensor concatenates types. Generic obs and circuit obs cannot be mixed.
func (t Ty) Tensor(others ...Ty) (Ty, error) {
	cat := t.category()
	obs := append([]Ob(nil), t.obs...)
	for _, o := range others {
		c := o.category()
		if cat != 0 && c != 0 && cat != c {
			return Ty{}, fmt.Errorf("%w: %s @ %s", ErrTypeMismatch, t, o)
		}
		if cat == 0 {
			cat = c
		}
		obs = append(obs, o.obs...)
	}
	return Ty{obs: obs}, nil
}

// concat is Tensor for types already known to be compatible.
func concat(ts ...Ty) Ty {
	var obs []Ob
	for _, t := range ts {
		obs = append(obs, t.obs...)
	}
	return Ty{obs: obs}
}

// Pow returns t tensored with itself n times.
func (t Ty) Pow(n int) Ty {
	obs := make([]Ob, 0, n*len(t.obs))
	for range n {
		obs = append(obs, t.obs...)
	}
	return Ty{obs: obs}
}

// L reverses the order and takes the left adjoint of each ob.
func (t Ty) L() Ty {
	n := len(t.obs)
	obs := make([]Ob, n)
	for i, o := range t.obs {
		obs[n-1-i] = o.L()
	}
	return Ty{obs: obs}
}

// R reverses the order and takes the right adjoint of each ob.
func (t Ty) R() Ty {
	n := len(t.obs)
	obs := make([]Ob, n)
	for i, o := range t.obs {
		obs[n-1-i] = o.R()
	}
	return Ty{obs: obs}
}

// Equal compares obs pairwise.
func (t Ty) Equal(o Ty) bool {
	if len(t.obs) != len(o.obs) {
		return false
	}
	for i := range t.obs {
		if t.obs[i] != o.obs[i] {
			return false
		}
	}
	return true
}

// String renders generic types as Ty('x', 'y') and circuit types as
// runs like qubit ** 2 @ bit.
func (t Ty) String() string {
	if len(t.obs) == 0 {
		return "Ty()"
	}
	if t.category() != 2 {
		parts := make([]string, len(t.obs))
		for i, o := range t.obs {
			parts[i] = o.String()
		}
		return "Ty(" + strings.Join(parts, ", ") + ")"
	}
	var runs []string
	for i := 0; i < len(t.obs); {
		j := i
		for j < len(t.obs) && t.obs[j] == t.obs[i] {
			j++
		}
		if j-i == 1 {
			runs = append(runs, t.obs[i].Name)
		} else {
			runs = append(runs, t.obs[i].Name+" ** "+strconv.Itoa(j-i))
		}
		i = j
	}
	return strings.Join(runs, " @ ")
}
