package quantum

import (
	"fmt"
	"strings"

	"discocirq/monoidal"
	"discocirq/symbolic"
	"discocirq/tensor"
	"discocirq/tk"
)

// Sum is a formal sum of circuits with the same type. The order of the
// terms is kept.
type Sum struct {
	dom, cod monoidal.Ty
	terms    []*Circuit
}

// NewSum checks every term against dom and cod.
func NewSum(dom, cod monoidal.Ty, terms ...*Circuit) (*Sum, error) {
	for _, t := range terms {
		if !t.Dom().Equal(dom) || !t.Cod().Equal(cod) {
			return nil, fmt.Errorf("%w: term %s -> %s in a sum %s -> %s", monoidal.ErrAxiom, t.Dom(), t.Cod(), dom, cod)
		}
	}
	return &Sum{dom: dom, cod: cod, terms: append([]*Circuit(nil), terms...)}, nil
}

// Add sums circuits of the same type.
func Add(first *Circuit, rest ...*Circuit) (*Sum, error) {
	return NewSum(first.Dom(), first.Cod(), append([]*Circuit{first}, rest...)...)
}

// AsSum is the sum with c as its only term.
func (c *Circuit) AsSum() *Sum {
	return &Sum{dom: c.Dom(), cod: c.Cod(), terms: []*Circuit{c}}
}

func (s *Sum) Dom() monoidal.Ty { return s.dom }
func (s *Sum) Cod() monoidal.Ty { return s.cod }
func (s *Sum) Len() int { return len(s.terms) }

// Terms returns the terms in order.
func (s *Sum) Terms() []*Circuit { return append([]*Circuit(nil), s.terms...) }

// Add concatenates the terms.
func (s *Sum) Add(others ...*Sum) (*Sum, error) {
	terms := s.Terms()
	for _, o := range others {
		terms = append(terms, o.terms...)
	}
	return NewSum(s.dom, s.cod, terms...)
}

// Then composes every pair of terms in sequence.
func (s *Sum) Then(o *Sum) (*Sum, error) {
	if !s.cod.Equal(o.dom) {
		return nil, fmt.Errorf("%w: %s does not compose with %s", monoidal.ErrAxiom, s.cod, o.dom)
	}
	var terms []*Circuit
	for _, a := range s.terms {
		for _, b := range o.terms {
			t, err := a.Then(b)
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
		}
	}
	return NewSum(s.dom, o.cod, terms...)
}

// Tensor composes every pair of terms in parallel.
func (s *Sum) Tensor(o *Sum) (*Sum, error) {
	dom, err := s.dom.Tensor(o.dom)
	if err != nil {
		return nil, err
	}
	cod, err := s.cod.Tensor(o.cod)
	if err != nil {
		return nil, err
	}
	var terms []*Circuit
	for _, a := range s.terms {
		for _, b := range o.terms {
			t, err := a.Tensor(b)
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
		}
	}
	return NewSum(dom, cod, terms...)
}

func (s *Sum) Dagger() *Sum {
	terms := make([]*Circuit, len(s.terms))
	for i, t := range s.terms {
		terms[i] = t.Dagger()
	}
	return &Sum{dom: s.cod, cod: s.dom, terms: terms}
}

// IsMixed reports whether any term is mixed.
func (s *Sum) IsMixed() bool {
	for _, t := range s.terms {
		if t.IsMixed() {
			return true
		}
	}
	return false
}

// Eval adds the tensors of the terms.
func (s *Sum) Eval() (*tensor.Tensor, error) {
	n, k := dims(s.dom.Len()), dims(s.cod.Len())
	result, err := tensor.New(n, k, make([]complex128, n.Size()*k.Size()))
	if err != nil {
		return nil, err
	}
	for _, t := range s.terms {
		array, err := t.Eval()
		if err != nil {
			return nil, err
		}
		if result, err = result.Add(array); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// EvalMixed adds the CQMaps of the terms.
func (s *Sum) EvalMixed() (*tensor.CQMap, error) {
	dom, err := cq(s.dom)
	if err != nil {
		return nil, err
	}
	cod, err := cq(s.cod)
	if err != nil {
		return nil, err
	}
	zero, err := tensor.New(dom.Doubled(), cod.Doubled(), make([]complex128, dom.Doubled().Size()*cod.Doubled().Size()))
	if err != nil {
		return nil, err
	}
	result, err := tensor.NewCQMap(dom, cod, zero)
	if err != nil {
		return nil, err
	}
	for _, t := range s.terms {
		m, err := t.EvalMixed()
		if err != nil {
			return nil, err
		}
		if result, err = result.Add(m); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Subs substitutes value for the symbol in every term.
func (s *Sum) Subs(name string, value symbolic.Expr) (*Sum, error) {
	terms := make([]*Circuit, len(s.terms))
	for i, t := range s.terms {
		var err error
		if terms[i], err = t.Subs(name, value); err != nil {
			return nil, err
		}
	}
	return NewSum(s.dom, s.cod, terms...)
}

// Grad is the sum of the gradients of the terms.
func (s *Sum) Grad(name string) (*Sum, error) {
	result := &Sum{dom: s.dom, cod: s.cod}
	for _, t := range s.terms {
		g, err := t.Grad(name)
		if err != nil {
			return nil, err
		}
		if result, err = result.Add(g); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// InitAndDiscard applies InitAndDiscard to every term.
func (s *Sum) InitAndDiscard() (*Sum, error) {
	if len(s.terms) == 0 {
		return s, nil
	}
	terms := make([]*Circuit, len(s.terms))
	for i, t := range s.terms {
		var err error
		if terms[i], err = t.InitAndDiscard(); err != nil {
			return nil, err
		}
	}
	return NewSum(terms[0].Dom(), terms[0].Cod(), terms...)
}

// ToTk translates every term.
func (s *Sum) ToTk() ([]*tk.Circuit, error) {
	out := make([]*tk.Circuit, len(s.terms))
	for i, t := range s.terms {
		var err error
		if out[i], err = ToTk(t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Sum) Equal(o *Sum) bool {
	if !s.dom.Equal(o.dom) || !s.cod.Equal(o.cod) || len(s.terms) != len(o.terms) {
		return false
	}
	for i := range s.terms {
		if !s.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (s *Sum) String() string {
	terms := make([]string, len(s.terms))
	for i, t := range s.terms {
		terms[i] = t.String()
	}
	return fmt.Sprintf("Sum([%s], dom=%s, cod=%s)", strings.Join(terms, ", "), s.dom, s.cod)
}
