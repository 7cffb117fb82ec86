package monoidal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var qubitOb = Ob{Name: "qubit", Kind: KindQubit}

func TestTy_Adjoints(t *testing.T) {
	x := Named("x", "y")
	assert.True(t, x.L().R().Equal(x))
	assert.True(t, x.R().L().Equal(x))
	assert.False(t, x.R().Equal(x))
	assert.Equal(t, "Ty(Ob('y', z=1), Ob('x', z=1))", x.R().String())
	assert.Equal(t, "Ty('x', 'y')", x.String())
	assert.Equal(t, "Ty()", NewTy().String())
}

func TestTy_Tensor(t *testing.T) {
	unit, err := NewTy().Tensor(NewTy())
	require.NoError(t, err)
	assert.True(t, unit.IsEmpty())

	q := NewTy(qubitOb)
	_, err = q.Tensor(Named("x"))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	qq, err := q.Tensor(q, NewTy())
	require.NoError(t, err)
	assert.Equal(t, "qubit ** 2", qq.String())
	assert.True(t, qq.Equal(q.Pow(2)))
	assert.True(t, q.L().Equal(q))
}

func TestDiagram_ThenAndTensor(t *testing.T) {
	x, y, z := Named("x"), Named("y"), Named("z")
	f, g := NewBox("f", x, y), NewBox("g", y, z)

	_, err := FromBox(f).Then(FromBox(f))
	assert.ErrorIs(t, err, ErrAxiom)

	fg := Must(FromBox(f).Then(FromBox(g)))
	assert.Equal(t, "Diagram(dom=Ty('x'), cod=Ty('z'), boxes=[Box('f', Ty('x'), Ty('y')), Box('g', Ty('y'), Ty('z'))], offsets=[0, 0])", fg.String())

	par := Must(FromBox(f).Tensor(FromBox(g)))
	assert.Equal(t, []int{0, 1}, par.Offsets())
	assert.Equal(t, "Ty('x', 'y')", par.Dom().String())
	assert.Equal(t, "Ty('y', 'z')", par.Cod().String())

	assert.True(t, par.Dagger().Dagger().Equal(par))
	assert.Equal(t, "Box('f', Ty('x'), Ty('y')).dagger()", f.Dagger().String())
	assert.Equal(t, "Box('f', Ty('x'), Ty('y'))", FromBox(f).String())
}

func TestDiagram_Slice(t *testing.T) {
	x := Named("x")
	f, g := NewBox("f", x, x), NewBox("g", x, x)
	d := Must(FromBox(f).Tensor(FromBox(g)))
	assert.True(t, d.Slice(1, 2).Equal(Must(Id(x).Tensor(FromBox(g)))))
	assert.Equal(t, 0, d.Slice(2, 2).Len())
}

func TestDiagram_Interchange(t *testing.T) {
	x := Named("x")
	f, g := NewBox("f", x, x), NewBox("g", x, x)
	d := Must(FromBox(f).Tensor(FromBox(g)))

	swapped, err := d.Interchange(0, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, swapped.Offsets())
	assert.True(t, swapped.Boxes()[0].Equal(g))

	back, err := swapped.Interchange(1, 0, false)
	require.NoError(t, err)
	assert.True(t, back.Equal(d))

	seq := Must(FromBox(f).Then(FromBox(g)))
	_, err = seq.Interchange(0, 1, false)
	assert.ErrorIs(t, err, ErrInterchange)

	_, err = seq.Interchange(0, 2, false)
	assert.ErrorIs(t, err, ErrIndex)
}

func TestPermutation(t *testing.T) {
	x := Named("x")
	swap := func() *Diagram { return FromBox(NewSwap(x, x)) }
	lhs := Must(SwapWires(x, x.Pow(2), nil))
	mid := Must(Must(swap().Tensor(Id(x))).Then(Must(Id(x).Tensor(swap()))))
	rhs := Must(Permutation(x.Pow(3), []int{2, 0, 1}, nil))
	assert.True(t, lhs.Equal(mid))
	assert.True(t, mid.Equal(rhs))

	_, err := Permutation(x.Pow(2), []int{0, 0}, nil)
	assert.ErrorIs(t, err, ErrPermutation)
}

func TestCupsAndCaps(t *testing.T) {
	x := Named("x", "y")
	cups, err := Cups(x, x.R())
	require.NoError(t, err)
	assert.Equal(t, 2, cups.Len())
	assert.True(t, cups.Cod().IsEmpty())

	caps, err := Caps(x, x.L())
	require.NoError(t, err)
	assert.True(t, caps.Cod().Equal(Must(x.Tensor(x.L()))))

	_, err = Cups(x, x.L())
	assert.ErrorIs(t, err, ErrNotAdjoint)
	_, err = NewCap(Named("x"), Named("x"))
	assert.ErrorIs(t, err, ErrNotAdjoint)
}

func TestNormalForm_Snake(t *testing.T) {
	x := Named("x")
	capBox := Must(NewCap(x.R(), x))
	cupBox := Must(NewCup(x, x.R()))
	snake := Must(Must(Id(x).Tensor(FromBox(capBox))).Then(Must(FromBox(cupBox).Tensor(Id(x)))))

	nf, err := snake.NormalForm(false)
	require.NoError(t, err)
	assert.True(t, nf.Equal(Id(x)))
}

func TestNormalForm_DoubleTranspose(t *testing.T) {
	f := NewBox("f", Named("x"), Named("y"))
	twisted := Must(Must(FromBox(f).Transpose(false)).Transpose(true))
	assert.Equal(t, 5, twisted.Len())

	nf, err := twisted.NormalForm(false)
	require.NoError(t, err)
	assert.True(t, nf.Equal(FromBox(f)))
}

func TestNormalize_Autonomisation(t *testing.T) {
	s, n := Named("s"), Named("n")
	alice, bob := NewBox("Alice", NewTy(), n), NewBox("Bob", NewTy(), n)
	loves := NewBox("loves", NewTy(), Must(n.R().Tensor(s, n.L())))
	loveBox := NewBox("loves", Must(n.Tensor(n)), s)
	ansatz := Must(Must(FromBox(Must(NewCap(n.R(), n))).Tensor(FromBox(Must(NewCap(n, n.L()))))).
		Then(Must(Id(n.R()).Tensor(FromBox(loveBox), Id(n.L())))))

	F := NewFunctor(
		[]ObEntry{{From: s, To: s}, {From: n, To: n}},
		[]ArEntry{{From: alice, To: FromBox(alice)}, {From: bob, To: FromBox(bob)}, {From: loves, To: ansatz}},
	)
	sentence := Must(Must(FromBox(alice).Tensor(FromBox(loves), FromBox(bob))).
		Then(Must(FromBox(Must(NewCup(n, n.R()))).Tensor(Id(s), FromBox(Must(NewCup(n.L(), n)))))))
	image, err := F.Apply(sentence)
	require.NoError(t, err)

	var steps []*Diagram
	for step, err := range image.Normalize(false) {
		require.NoError(t, err)
		steps = append(steps, step)
	}
	require.NotEmpty(t, steps)
	again := 0
	for range image.Normalize(false) {
		again++
	}
	assert.Equal(t, len(steps), again)

	nf, err := image.NormalForm(false)
	require.NoError(t, err)
	assert.True(t, nf.Equal(steps[len(steps)-1]))
	assert.Equal(t, 3, nf.Len())
	last, off := nf.BoxAt(2)
	assert.True(t, last.Equal(loveBox))
	assert.Equal(t, 0, off)
	assert.True(t, nf.Cod().Equal(s))
}

func TestNormalForm_EckmannHilton(t *testing.T) {
	s0, s1 := NewBox("s0", NewTy(), NewTy()), NewBox("s1", NewTy(), NewTy())
	d := Must(FromBox(s0).Tensor(FromBox(s1)))
	_, err := d.NormalForm(false)
	assert.ErrorIs(t, err, ErrNotConnected)

	var steps []*Diagram
	var errs []error
	for step, err := range d.Normalize(false) {
		if err != nil {
			errs = append(errs, err)
			assert.Nil(t, step)
			continue
		}
		steps = append(steps, step)
	}
	assert.Len(t, steps, 1)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNotConnected)
}

func TestFunctor(t *testing.T) {
	x, y := Named("x"), Named("y")
	f, g := NewBox("f", x, y), NewBox("g", y, x)
	F := NewFunctor(
		[]ObEntry{{From: x, To: y}, {From: y, To: x}},
		[]ArEntry{{From: f, To: FromBox(g)}, {From: g, To: FromBox(f)}},
	)
	fg := Must(FromBox(f).Then(FromBox(g)))
	lhs := Must(F.Apply(fg))
	rhs := Must(Must(F.Apply(FromBox(f))).Then(Must(F.Apply(FromBox(g)))))
	assert.True(t, lhs.Equal(rhs))

	par := Must(FromBox(f).Tensor(FromBox(g)))
	lhs = Must(F.Apply(par))
	rhs = Must(Must(F.Apply(FromBox(f))).Tensor(Must(F.Apply(FromBox(g)))))
	assert.True(t, lhs.Equal(rhs))

	dagger := Must(F.Apply(FromBox(f.Dagger())))
	assert.True(t, dagger.Equal(FromBox(g.Dagger())))

	_, err := F.Apply(FromBox(NewBox("h", x, x)))
	assert.ErrorIs(t, err, ErrNotMapped)

	assert.Equal(t, "Functor(ob={Ty('x'): Ty('y'), Ty('y'): Ty('x')}, ar={Box('f', Ty('x'), Ty('y')): Box('g', Ty('y'), Ty('x')), Box('g', Ty('y'), Ty('x')): Box('f', Ty('x'), Ty('y'))})", F.String())
}
