package main

import (
	"fmt"
	"iter"
	"strings"

	"discocirq/monoidal"
	"discocirq/quantum"
	"discocirq/symbolic"
)

// example is a built-in diagram the CLI can step through or export.
type example struct {
	name        string
	category    string
	description string
	circuit     bool
	build       func() (*monoidal.Diagram, error)
}

// exampleCategory groups examples under a menu tab.
type exampleCategory struct {
	name  string
	items []example
}

var catalog = []exampleCategory{
	{
		name: "Rigid",
		items: []example{
			{name: "snake", description: "a box transposed twice, yanked back straight", build: twistedBox},
			{name: "alice-loves-bob", description: "sentence diagram under an autonomising functor", build: aliceLovesBob},
		},
	},
	{
		name: "Circuit",
		items: []example{
			{name: "bell", description: "Bell state measured into two bits", circuit: true, build: bell},
			{name: "qubit-snake", description: "qubit cap and cup, post-selected teleportation", circuit: true, build: qubitSnake},
			{name: "iqp", description: "two-layer IQP ansatz on three qubits, measured", circuit: true, build: iqp},
		},
	},
}

func init() {
	for i := range catalog {
		for j := range catalog[i].items {
			catalog[i].items[j].category = catalog[i].name
		}
	}
}

// allExamples returns the catalogue flattened in menu order.
func allExamples() []example {
	var out []example
	for _, cat := range catalog {
		out = append(out, cat.items...)
	}
	return out
}

func findExample(name string) (example, error) {
	var names []string
	for _, ex := range allExamples() {
		if ex.name == name {
			return ex, nil
		}
		names = append(names, ex.name)
	}
	return example{}, fmt.Errorf("unknown example %q, expected one of %s", name, strings.Join(names, ", "))
}

// frames returns the diagram followed by every rewrite step of its
// normalisation. On error the frames up to that point are returned with it.
func frames(d *monoidal.Diagram, left bool) ([]*monoidal.Diagram, error) {
	return collect(d, d.Normalize(left))
}

func collect(first *monoidal.Diagram, steps iter.Seq2[*monoidal.Diagram, error]) ([]*monoidal.Diagram, error) {
	out := []*monoidal.Diagram{first}
	for step, err := range steps {
		if err != nil {
			return out, err
		}
		out = append(out, step)
	}
	return out, nil
}

func twistedBox() (*monoidal.Diagram, error) {
	f := monoidal.NewBox("f", monoidal.Named("x"), monoidal.Named("y"))
	once, err := monoidal.FromBox(f).Transpose(false)
	if err != nil {
		return nil, err
	}
	return once.Transpose(true)
}

func aliceLovesBob() (*monoidal.Diagram, error) {
	s, n := monoidal.Named("s"), monoidal.Named("n")
	alice := monoidal.NewBox("Alice", monoidal.NewTy(), n)
	bob := monoidal.NewBox("Bob", monoidal.NewTy(), n)
	verbTy, err := n.R().Tensor(s, n.L())
	if err != nil {
		return nil, err
	}
	loves := monoidal.NewBox("loves", monoidal.NewTy(), verbTy)

	nn, err := n.Tensor(n)
	if err != nil {
		return nil, err
	}
	capL, err := monoidal.NewCap(n.R(), n)
	if err != nil {
		return nil, err
	}
	capR, err := monoidal.NewCap(n, n.L())
	if err != nil {
		return nil, err
	}
	caps, err := monoidal.FromBox(capL).Tensor(monoidal.FromBox(capR))
	if err != nil {
		return nil, err
	}
	middle, err := monoidal.Id(n.R()).Tensor(monoidal.FromBox(monoidal.NewBox("loves", nn, s)), monoidal.Id(n.L()))
	if err != nil {
		return nil, err
	}
	ansatz, err := caps.Then(middle)
	if err != nil {
		return nil, err
	}

	words, err := monoidal.FromBox(alice).Tensor(monoidal.FromBox(loves), monoidal.FromBox(bob))
	if err != nil {
		return nil, err
	}
	cupL, err := monoidal.NewCup(n, n.R())
	if err != nil {
		return nil, err
	}
	cupR, err := monoidal.NewCup(n.L(), n)
	if err != nil {
		return nil, err
	}
	grammar, err := monoidal.FromBox(cupL).Tensor(monoidal.Id(s), monoidal.FromBox(cupR))
	if err != nil {
		return nil, err
	}
	sentence, err := words.Then(grammar)
	if err != nil {
		return nil, err
	}

	F := monoidal.NewFunctor(
		[]monoidal.ObEntry{{From: s, To: s}, {From: n, To: n}},
		[]monoidal.ArEntry{
			{From: alice, To: monoidal.FromBox(alice)},
			{From: bob, To: monoidal.FromBox(bob)},
			{From: loves, To: ansatz},
		},
	)
	return F.Apply(sentence)
}

func bell() (*monoidal.Diagram, error) {
	layer, err := quantum.Tensor(quantum.FromBox(quantum.H), quantum.Id(quantum.Qubit))
	if err != nil {
		return nil, err
	}
	c, err := quantum.Then(
		quantum.FromBox(quantum.NewKet(0, 0)),
		layer,
		quantum.FromBox(quantum.CX),
		quantum.FromBox(quantum.NewMeasure(2, true, false)),
	)
	if err != nil {
		return nil, err
	}
	return c.Diagram(), nil
}

func qubitSnake() (*monoidal.Diagram, error) {
	state, err := quantum.Caps(quantum.Qubit, quantum.Qubit)
	if err != nil {
		return nil, err
	}
	effect, err := quantum.Cups(quantum.Qubit, quantum.Qubit)
	if err != nil {
		return nil, err
	}
	top, err := quantum.Tensor(state, quantum.Id(quantum.Qubit))
	if err != nil {
		return nil, err
	}
	bottom, err := quantum.Tensor(quantum.Id(quantum.Qubit), effect)
	if err != nil {
		return nil, err
	}
	c, err := quantum.Then(top, bottom)
	if err != nil {
		return nil, err
	}
	return c.Diagram(), nil
}

func iqp() (*monoidal.Diagram, error) {
	ansatz, err := quantum.IQPAnsatz(3, [][]symbolic.Expr{
		symbolic.Nums(0.25, 0.5),
		symbolic.Nums(0.125, 0.75),
	})
	if err != nil {
		return nil, err
	}
	c, err := quantum.Then(
		quantum.FromBox(quantum.NewKet(0, 0, 0)),
		ansatz,
		quantum.FromBox(quantum.NewMeasure(3, true, false)),
	)
	if err != nil {
		return nil, err
	}
	return c.Diagram(), nil
}
