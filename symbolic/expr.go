// Package symbolic implements the small expression language used for gate
// parameters: sums and products of numbers and free symbols, with
// substitution and differentiation.
package symbolic

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrUnbound is returned when evaluating an expression with free symbols.
var ErrUnbound = errors.New("expression has free symbols")

// Expr is an immutable expression.
type Expr interface {
	Subs(name string, value Expr) Expr
	Diff(name string) Expr
	Eval() (float64, error)
	FreeSymbols() []string
	String() string
}

// Num is a numeric constant.
type Num float64

// Sym is a free symbol.
type Sym string

type sum []Expr

type product []Expr

func (n Num) Subs(string, Expr) Expr { return n }
func (n Num) Diff(string) Expr { return Num(0) }
func (n Num) Eval() (float64, error) { return float64(n), nil }
func (n Num) FreeSymbols() []string { return nil }
func (n Num) String() string { return FormatFloat(float64(n)) }

func (s Sym) Subs(name string, value Expr) Expr {
	if string(s) == name {
		return value
	}
	return s
}

func (s Sym) Diff(name string) Expr {
	if string(s) == name {
		return Num(1)
	}
	return Num(0)
}

func (s Sym) Eval() (float64, error) { return 0, fmt.Errorf("%w: %s", ErrUnbound, string(s)) }
func (s Sym) FreeSymbols() []string { return []string{string(s)} }
func (s Sym) String() string { return string(s) }

func (e sum) Subs(name string, value Expr) Expr {
	terms := make([]Expr, len(e))
	for i, t := range e {
		terms[i] = t.Subs(name, value)
	}
	return Add(terms...)
}

func (e sum) Diff(name string) Expr {
	terms := make([]Expr, len(e))
	for i, t := range e {
		terms[i] = t.Diff(name)
	}
	return Add(terms...)
}

func (e sum) Eval() (float64, error) {
	total := 0.0
	for _, t := range e {
		v, err := t.Eval()
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func (e sum) FreeSymbols() []string { return freeSymbols(e) }

func (e sum) String() string {
	var b strings.Builder
	for i, t := range e {
		s := t.String()
		switch {
		case i == 0:
			b.WriteString(s)
		case strings.HasPrefix(s, "-"):
			b.WriteString(" - " + s[1:])
		default:
			b.WriteString(" + " + s)
		}
	}
	return b.String()
}

func (e product) Subs(name string, value Expr) Expr {
	factors := make([]Expr, len(e))
	for i, f := range e {
		factors[i] = f.Subs(name, value)
	}
	return Mul(factors...)
}

func (e product) Diff(name string) Expr {
	terms := make([]Expr, 0, len(e))
	for i := range e {
		factors := slices.Clone([]Expr(e))
		factors[i] = e[i].Diff(name)
		terms = append(terms, Mul(factors...))
	}
	return Add(terms...)
}

func (e product) Eval() (float64, error) {
	total := 1.0
	for _, f := range e {
		v, err := f.Eval()
		if err != nil {
			return 0, err
		}
		total *= v
	}
	return total, nil
}

func (e product) FreeSymbols() []string { return freeSymbols(e) }

func (e product) String() string {
	parts := make([]string, len(e))
	for i, f := range e {
		parts[i] = f.String()
		if _, ok := f.(sum); ok {
			parts[i] = "(" + parts[i] + ")"
		}
	}
	s := strings.Join(parts, "*")
	if rest, ok := strings.CutPrefix(s, "-1*"); ok {
		return "-" + rest
	}
	return s
}

func freeSymbols(es []Expr) []string {
	var out []string
	for _, e := range es {
		for _, s := range e.FreeSymbols() {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Add returns the sum of the terms, folding constants and collecting like terms.
func Add(terms ...Expr) Expr {
	var flat []Expr
	for _, t := range terms {
		if v, ok := t.(sum); ok {
			flat = append(flat, v...)
		} else {
			flat = append(flat, t)
		}
	}
	constant := 0.0
	var keys []string
	coef := map[string]float64{}
	rest := map[string]Expr{}
	for _, t := range flat {
		c, r := split(t)
		if r == nil {
			constant += c
			continue
		}
		k := r.String()
		if _, seen := rest[k]; !seen {
			keys = append(keys, k)
			rest[k] = r
		}
		coef[k] += c
	}
	var out []Expr
	for _, k := range keys {
		if coef[k] != 0 {
			out = append(out, Mul(Num(coef[k]), rest[k]))
		}
	}
	if constant != 0 {
		out = append(out, Num(constant))
	}
	switch len(out) {
	case 0:
		return Num(0)
	case 1:
		return out[0]
	}
	return sum(out)
}

// split separates the numeric coefficient of a term. The rest is nil for constants.
func split(e Expr) (float64, Expr) {
	switch v := e.(type) {
	case Num:
		return float64(v), nil
	case product:
		if n, ok := v[0].(Num); ok {
			return float64(n), Mul(v[1:]...)
		}
	}
	return 1, e
}

// Mul returns the product of the factors, folding constants.
func Mul(factors ...Expr) Expr {
	var flat []Expr
	constant := 1.0
	for _, f := range factors {
		switch v := f.(type) {
		case Num:
			constant *= float64(v)
		case product:
			for _, inner := range v {
				if n, ok := inner.(Num); ok {
					constant *= float64(n)
				} else {
					flat = append(flat, inner)
				}
			}
		default:
			flat = append(flat, f)
		}
	}
	if constant == 0 {
		return Num(0)
	}
	if len(flat) == 0 {
		return Num(constant)
	}
	if constant != 1 {
		flat = append([]Expr{Num(constant)}, flat...)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return product(flat)
}

// Nums wraps constants.
func Nums(xs ...float64) []Expr {
	out := make([]Expr, len(xs))
	for i, x := range xs {
		out[i] = Num(x)
	}
	return out
}

// Neg returns -e.
func Neg(e Expr) Expr { return Mul(Num(-1), e) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Equal compares the canonical renderings of two expressions.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// IsConstant reports whether e has no free symbols.
func IsConstant(e Expr) bool { return len(e.FreeSymbols()) == 0 }

// Has reports whether name occurs free in e.
func Has(e Expr, name string) bool { return slices.Contains(e.FreeSymbols(), name) }

// FormatFloat renders a float the shortest way that reads back exactly.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
