package monoidal

import (
	"fmt"
	"strings"
)

// Mapping sends atomic obs to types and boxes to diagrams. Apply extends
// it to whole diagrams.
type Mapping interface {
	MapOb(Ob) (Ty, error)
	MapBox(Box) (*Diagram, error)
}

// Structure is implemented by mappings whose target category has its own
// cups, caps and swaps.
type Structure interface {
	Cups(left, right Ty) (*Diagram, error)
	Caps(left, right Ty) (*Diagram, error)
	Swap(left, right Ty) Box
}

// ApplyTy maps each ob of t. Adjoint obs are sent to the adjoints of the
// image of their base ob.
func ApplyTy(m Mapping, t Ty) (Ty, error) {
	result := NewTy()
	for _, o := range t.obs {
		base := Ob{Name: o.Name, Kind: o.Kind}
		img, err := m.MapOb(base)
		if err != nil {
			return Ty{}, err
		}
		for z := o.Z; z > 0; z-- {
			img = img.R()
		}
		for z := o.Z; z < 0; z++ {
			img = img.L()
		}
		if result, err = result.Tensor(img); err != nil {
			return Ty{}, err
		}
	}
	return result, nil
}

// Apply maps every layer of d and composes the images.
func Apply(m Mapping, d *Diagram) (*Diagram, error) {
	dom, err := ApplyTy(m, d.dom)
	if err != nil {
		return nil, err
	}
	result := Id(dom)
	for _, layer := range d.Layers() {
		left, err := ApplyTy(m, layer.Left)
		if err != nil {
			return nil, err
		}
		right, err := ApplyTy(m, layer.Right)
		if err != nil {
			return nil, err
		}
		img, err := applyBox(m, layer.Box)
		if err != nil {
			return nil, err
		}
		step, err := whisker(left, img, right)
		if err != nil {
			return nil, err
		}
		if result, err = result.Then(step); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func applyBox(m Mapping, b Box) (*Diagram, error) {
	s, structured := m.(Structure)
	switch box := b.(type) {
	case *Cup:
		left, right, err := mapPair(m, box.left, box.right)
		if err != nil {
			return nil, err
		}
		cups := Cups
		if structured {
			cups = s.Cups
		}
		d, err := cups(left, right)
		if err != nil {
			return nil, err
		}
		if box.dagger {
			return d.Dagger(), nil
		}
		return d, nil
	case *Cap:
		left, right, err := mapPair(m, box.left, box.right)
		if err != nil {
			return nil, err
		}
		caps := Caps
		if structured {
			caps = s.Caps
		}
		d, err := caps(left, right)
		if err != nil {
			return nil, err
		}
		if box.dagger {
			return d.Dagger(), nil
		}
		return d, nil
	case *Swap:
		left, right, err := mapPair(m, box.left, box.right)
		if err != nil {
			return nil, err
		}
		var factory SwapFactory
		if structured {
			factory = s.Swap
		}
		return SwapWires(left, right, factory)
	}
	return m.MapBox(b)
}

func mapPair(m Mapping, left, right Ty) (Ty, Ty, error) {
	l, err := ApplyTy(m, left)
	if err != nil {
		return Ty{}, Ty{}, err
	}
	r, err := ApplyTy(m, right)
	if err != nil {
		return Ty{}, Ty{}, err
	}
	return l, r, nil
}

// ObEntry is one generator of a functor on objects.
type ObEntry struct {
	From Ty
	To   Ty
}

// ArEntry is one generator of a functor on arrows.
type ArEntry struct {
	From Box
	To   *Diagram
}

// Functor is a Mapping defined by finite lists of generators. Daggered
// boxes are sent to the dagger of the image of their dagger.
type Functor struct {
	Ob []ObEntry
	Ar []ArEntry
}

// NewFunctor returns the functor with the given generators.
func NewFunctor(ob []ObEntry, ar []ArEntry) *Functor {
	return &Functor{Ob: ob, Ar: ar}
}

func (f *Functor) MapOb(o Ob) (Ty, error) {
	key := NewTy(o)
	for _, e := range f.Ob {
		if e.From.Equal(key) {
			return e.To, nil
		}
	}
	return Ty{}, fmt.Errorf("%w: %s", ErrNotMapped, key)
}

func (f *Functor) MapBox(b Box) (*Diagram, error) {
	for _, e := range f.Ar {
		if e.From.Equal(b) {
			return e.To, nil
		}
	}
	dagger := b.Dagger()
	for _, e := range f.Ar {
		if e.From.Equal(dagger) {
			return e.To.Dagger(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotMapped, b)
}

// Apply maps a diagram.
func (f *Functor) Apply(d *Diagram) (*Diagram, error) {
	return Apply(f, d)
}

// Repr renders the generators under the given constructor name.
func (f *Functor) Repr(kind string) string {
	obs := make([]string, len(f.Ob))
	for i, e := range f.Ob {
		obs[i] = fmt.Sprintf("%s: %s", e.From, e.To)
	}
	ars := make([]string, len(f.Ar))
	for i, e := range f.Ar {
		ars[i] = fmt.Sprintf("%s: %s", e.From, e.To)
	}
	return fmt.Sprintf("%s(ob={%s}, ar={%s})", kind, strings.Join(obs, ", "), strings.Join(ars, ", "))
}

func (f *Functor) String() string { return f.Repr("Functor") }
