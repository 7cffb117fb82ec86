package quantum

import (
	"fmt"
	"math"
	"slices"

	"discocirq/symbolic"
)

// Subs substitutes value for the named symbol in every box.
func (c *Circuit) Subs(name string, value symbolic.Expr) (*Circuit, error) {
	boxes := c.Boxes()
	for i, b := range boxes {
		boxes[i] = subsBox(b, name, value)
	}
	return c.withBoxes(boxes)
}

func subsBox(b Box, name string, value symbolic.Expr) Box {
	switch box := b.(type) {
	case *Rotation:
		return box.withPhase(box.phase.Subs(name, value))
	case *Scalar:
		s := *box
		s.data = box.data.Subs(name, value)
		return &s
	case *ClassicalGate:
		g := *box
		g.array = make([]symbolic.Expr, len(box.array))
		for i, x := range box.array {
			g.array[i] = x.Subs(name, value)
		}
		return &g
	case *GenericBox:
		if box.data == nil {
			return box
		}
		g := *box
		g.data = box.data.Subs(name, value)
		return &g
	}
	return b
}

// dependsOn reports whether the named symbol occurs free in the box.
func dependsOn(b Box, name string) bool {
	switch box := b.(type) {
	case *Rotation:
		return symbolic.Has(box.phase, name)
	case *Scalar:
		return symbolic.Has(box.data, name)
	case *ClassicalGate:
		return slices.ContainsFunc(box.array, func(x symbolic.Expr) bool { return symbolic.Has(x, name) })
	case *GenericBox:
		return box.data != nil && symbolic.Has(box.data, name)
	}
	return false
}

// Grad differentiates with respect to the named symbol by the product
// rule. Rx, Ry and Rz use the parameter shift rule with mixed scalars,
// so the gradient is meant for mixed evaluation.
func (c *Circuit) Grad(name string) (*Sum, error) {
	result := &Sum{dom: c.Dom(), cod: c.Cod()}
	for i, b := range c.Boxes() {
		if !dependsOn(b, name) {
			continue
		}
		terms, err := gradBox(b, name)
		if err != nil {
			return nil, err
		}
		for _, t := range terms {
			r, err := c.replace(i, t)
			if err != nil {
				return nil, err
			}
			result.terms = append(result.terms, r)
		}
	}
	return result, nil
}

func gradBox(b Box, name string) ([]*Circuit, error) {
	switch box := b.(type) {
	case *Rotation:
		switch box.name {
		case "Rx", "Ry", "Rz":
		default:
			return nil, fmt.Errorf("%w: %s", ErrNoDerivative, box)
		}
		d := box.phase.Diff(name)
		plus, err := Tensor(
			FromBox(MixedScalar(symbolic.Mul(symbolic.Num(math.Pi), d))),
			FromBox(box.withPhase(symbolic.Add(box.phase, symbolic.Num(0.25)))))
		if err != nil {
			return nil, err
		}
		minus, err := Tensor(
			FromBox(MixedScalar(symbolic.Mul(symbolic.Num(-math.Pi), d))),
			FromBox(box.withPhase(symbolic.Sub(box.phase, symbolic.Num(0.25)))))
		if err != nil {
			return nil, err
		}
		return []*Circuit{plus, minus}, nil
	case *Scalar:
		if box.sqrt {
			return nil, fmt.Errorf("%w: %s", ErrNoDerivative, box)
		}
		return []*Circuit{FromBox(&Scalar{data: box.data.Diff(name), mixed: box.mixed})}, nil
	case *ClassicalGate:
		g := *box
		g.name = box.name + "'"
		g.array = make([]symbolic.Expr, len(box.array))
		for i, x := range box.array {
			g.array[i] = x.Diff(name)
		}
		return []*Circuit{FromBox(&g)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoDerivative, b)
}
