package monoidal

import "fmt"

// Box is an atomic morphism.
type Box interface {
	Name() string
	Dom() Ty
	Cod() Ty
	Dagger() Box
	Equal(Box) bool
	String() string
}

// BasicBox is a named box with an optional data payload.
type BasicBox struct {
	name     string
	dom, cod Ty
	data     any
	dagger   bool
}

// NewBox returns a generic box.
func NewBox(name string, dom, cod Ty) *BasicBox {
	return &BasicBox{name: name, dom: dom, cod: cod}
}

// WithData returns a copy of the box carrying data.
func (b *BasicBox) WithData(data any) *BasicBox {
	c := *b
	c.data = data
	return &c
}

func (b *BasicBox) Name() string { return b.name }
func (b *BasicBox) Dom() Ty { return b.dom }
func (b *BasicBox) Cod() Ty { return b.cod }
func (b *BasicBox) Data() any { return b.data }
func (b *BasicBox) IsDagger() bool { return b.dagger }

func (b *BasicBox) Dagger() Box {
	return &BasicBox{name: b.name, dom: b.cod, cod: b.dom, data: b.data, dagger: !b.dagger}
}

func (b *BasicBox) Equal(o Box) bool {
	other, ok := o.(*BasicBox)
	return ok && b.name == other.name && b.dagger == other.dagger &&
		b.dom.Equal(other.dom) && b.cod.Equal(other.cod) &&
		fmt.Sprint(b.data) == fmt.Sprint(other.data)
}

func (b *BasicBox) String() string {
	dom, cod := b.dom, b.cod
	if b.dagger {
		dom, cod = cod, dom
	}
	s := fmt.Sprintf("Box('%s', %s, %s)", b.name, dom, cod)
	if b.data != nil {
		s = fmt.Sprintf("Box('%s', %s, %s, data=%v)", b.name, dom, cod, b.data)
	}
	if b.dagger {
		s += ".dagger()"
	}
	return s
}

// Cup is the counit of an adjunction: left @ right -> Ty(), with left.R() == right.
type Cup struct {
	left, right Ty
	dagger      bool
}

// NewCup returns a cup on single-ob types.
func NewCup(left, right Ty) (*Cup, error) {
	if left.Len() != 1 || right.Len() != 1 || !left.R().Equal(right) {
		return nil, fmt.Errorf("%w: cup(%s, %s)", ErrNotAdjoint, left, right)
	}
	return &Cup{left: left, right: right}, nil
}

func (c *Cup) Name() string { return fmt.Sprintf("Cup(%s, %s)", c.left, c.right) }

func (c *Cup) Dom() Ty {
	if c.dagger {
		return NewTy()
	}
	return concat(c.left, c.right)
}

func (c *Cup) Cod() Ty {
	if c.dagger {
		return concat(c.left, c.right)
	}
	return NewTy()
}

func (c *Cup) Dagger() Box { return &Cup{left: c.left, right: c.right, dagger: !c.dagger} }

func (c *Cup) Equal(o Box) bool {
	other, ok := o.(*Cup)
	return ok && c.dagger == other.dagger && c.left.Equal(other.left) && c.right.Equal(other.right)
}

func (c *Cup) String() string {
	if c.dagger {
		return c.Name() + ".dagger()"
	}
	return c.Name()
}

// Cap is the unit of an adjunction: Ty() -> left @ right, with left.L() == right.
type Cap struct {
	left, right Ty
	dagger      bool
}

// NewCap returns a cap on single-ob types.
func NewCap(left, right Ty) (*Cap, error) {
	if left.Len() != 1 || right.Len() != 1 || !left.L().Equal(right) {
		return nil, fmt.Errorf("%w: cap(%s, %s)", ErrNotAdjoint, left, right)
	}
	return &Cap{left: left, right: right}, nil
}

func (c *Cap) Name() string { return fmt.Sprintf("Cap(%s, %s)", c.left, c.right) }

func (c *Cap) Dom() Ty {
	if c.dagger {
		return concat(c.left, c.right)
	}
	return NewTy()
}

func (c *Cap) Cod() Ty {
	if c.dagger {
		return NewTy()
	}
	return concat(c.left, c.right)
}

func (c *Cap) Dagger() Box { return &Cap{left: c.left, right: c.right, dagger: !c.dagger} }

func (c *Cap) Equal(o Box) bool {
	other, ok := o.(*Cap)
	return ok && c.dagger == other.dagger && c.left.Equal(other.left) && c.right.Equal(other.right)
}

func (c *Cap) String() string {
	if c.dagger {
		return c.Name() + ".dagger()"
	}
	return c.Name()
}

// Swap exchanges two wires.
type Swap struct {
	left, right Ty
}

// NewSwap returns the symmetry on two single-ob types.
func NewSwap(left, right Ty) Box {
	return &Swap{left: left, right: right}
}

func (s *Swap) Name() string { return "Swap" }
func (s *Swap) Dom() Ty { return concat(s.left, s.right) }
func (s *Swap) Cod() Ty { return concat(s.right, s.left) }
func (s *Swap) Dagger() Box { return &Swap{left: s.right, right: s.left} }
func (s *Swap) String() string { return fmt.Sprintf("Swap(%s, %s)", s.left, s.right) }

func (s *Swap) Equal(o Box) bool {
	other, ok := o.(*Swap)
	return ok && s.left.Equal(other.left) && s.right.Equal(other.right)
}
