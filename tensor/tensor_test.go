package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	qubit = Dim{2}
	xGate = must(FromMatrix(qubit, qubit, [][]complex128{{0, 1}, {1, 0}}))
	hGate = must(FromMatrix(qubit, qubit, [][]complex128{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}))
	ket0 = must(New(nil, qubit, []complex128{1, 0}))
	ket1 = must(New(nil, qubit, []complex128{0, 1}))
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestNew_Shape(t *testing.T) {
	_, err := New(qubit, qubit, []complex128{1, 0, 0})
	assert.ErrorIs(t, err, ErrShape)
}

func TestTensor_Then(t *testing.T) {
	state := must(ket0.Then(xGate))
	assert.True(t, state.Equal(ket1))

	hh := must(hGate.Then(hGate))
	assert.True(t, hh.Equal(Id(qubit)))

	_, err := ket0.Then(ket0)
	assert.ErrorIs(t, err, ErrShape)
}

func TestTensor_TensorAndApplyAt(t *testing.T) {
	pair := ket0.Tensor(ket1)
	assert.Equal(t, Dim{2, 2}, pair.Cod())
	assert.Equal(t, []complex128{0, 1, 0, 0}, pair.Data())

	flipped := must(pair.ApplyAt(xGate, 0))
	assert.True(t, flipped.Equal(ket1.Tensor(ket1)))

	viaLayers := must(pair.Then(Id(qubit).Tensor(xGate)))
	assert.True(t, must(pair.ApplyAt(xGate, 1)).Equal(viaLayers))

	_, err := pair.ApplyAt(Id(Dim{2, 2}), 1)
	assert.ErrorIs(t, err, ErrShape)
}

func TestTensor_Dagger(t *testing.T) {
	y := must(FromMatrix(qubit, qubit, [][]complex128{{0, -1i}, {1i, 0}}))
	assert.True(t, y.Dagger().Equal(y))
	assert.True(t, ket0.Dagger().Dagger().Equal(ket0))
	assert.Equal(t, Dim{2}, ket0.Dagger().Dom())
}

func TestTensor_AddScale(t *testing.T) {
	sum := must(xGate.Add(xGate))
	assert.True(t, sum.Equal(xGate.Scale(2)))
	_, err := xGate.Add(ket0)
	assert.ErrorIs(t, err, ErrShape)
}

func TestSwapAndPermutation(t *testing.T) {
	swapped := must(ket0.Tensor(ket1).Then(Swap(qubit, qubit)))
	assert.True(t, swapped.Equal(ket1.Tensor(ket0)))

	three := ket1.Tensor(ket0).Tensor(ket0)
	perm := must(Permutation(Dim{2, 2, 2}, []int{2, 0, 1}))
	out := must(three.Then(perm))
	assert.True(t, out.Equal(ket0.Tensor(ket0).Tensor(ket1)))
}

func TestFormatComplex(t *testing.T) {
	assert.Equal(t, "1", FormatComplex(1))
	assert.Equal(t, "0.5", FormatComplex(0.5))
	assert.Equal(t, "2j", FormatComplex(2i))
	assert.Equal(t, "(1-1j)", FormatComplex(1-1i))
	assert.Equal(t, "Tensor(dom=Dim(1), cod=Dim(2), array=[1, 0])", ket0.String())
}

func TestCQMap_DiscardIsDaggerOfMixedState(t *testing.T) {
	discard := Discard(qubit)
	mixed := discard.Dagger()
	assert.True(t, mixed.Dagger().Equal(discard))
	assert.Equal(t, []complex128{1, 0, 0, 1}, mixed.Array().Data())
}

func TestCQMap_DoubleThenDiscard(t *testing.T) {
	state := Double(hGate)
	traced := must(must(Double(ket0).Then(state)).Then(Discard(qubit)))
	require.True(t, traced.Dom().Equal(CQ{}))
	assert.InDelta(t, 1.0, real(traced.Array().Data()[0]), 1e-12)
}

func TestCQMap_Measure(t *testing.T) {
	plus := must(Double(ket0).Then(Double(hGate)))
	probs := must(plus.Then(Measure(qubit, true)))
	assert.True(t, probs.Cod().Equal(C(qubit)))
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, probs.Array().Real(), 1e-12)

	kept := must(plus.Then(Measure(qubit, false)))
	assert.True(t, kept.Cod().Equal(CQ{C: qubit, Q: qubit}))
	discarded := must(kept.Then(IdCQ(C(qubit)).Tensor(Discard(qubit))))
	assert.True(t, discarded.Equal(probs))

	assert.True(t, Encode(qubit, true).Equal(Measure(qubit, true).Dagger()))
}

func TestCQMap_Tensor(t *testing.T) {
	bit := Classical(must(New(nil, qubit, []complex128{0, 1})))
	pure := Double(ket0)
	both := bit.Tensor(pure)
	assert.True(t, both.Cod().Equal(CQ{C: qubit, Q: qubit}))
	assert.True(t, both.Cod().Doubled().Equal(Dim{2, 2, 2}))

	swapped := must(both.Then(SwapCQ(C(qubit), Q(qubit))))
	assert.True(t, swapped.Equal(pure.Tensor(bit)))
}

func TestSwapCQ_Classical(t *testing.T) {
	assert.True(t, SwapCQ(C(qubit), C(qubit)).Equal(Classical(Swap(qubit, qubit))))
}

func TestCQMap_ApplyAt(t *testing.T) {
	pair := must(New(nil, Dim{2, 2}, []complex128{0.5, 0.5i, -0.5, 0.5}))
	coin := Classical(must(New(nil, qubit, []complex128{0.25, 0.75})))
	flip := Classical(must(New(qubit, qubit, []complex128{0, 1, 1, 0})))
	// cod: one bit, two qubits
	state := Double(pair).Tensor(coin)

	tests := []struct {
		name        string
		box         *CQMap
		left, right CQ
	}{
		{"measure second qubit", Measure(qubit, false), Q(qubit), C(qubit)},
		{"flip bit after qubits", flip, Q(Dim{2, 2}), CQ{}},
		{"discard first qubit", Discard(qubit), CQ{}, CQ{C: qubit, Q: qubit}},
		{"gate on second qubit", Double(hGate), Q(qubit), C(qubit)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := must(state.Then(IdCQ(tt.left).Tensor(tt.box).Tensor(IdCQ(tt.right))))
			got, err := state.ApplyAt(tt.box, tt.left)
			require.NoError(t, err)
			assert.True(t, got.Cod().Equal(want.Cod()), got.Cod().String())
			assert.True(t, got.Equal(want), got.String())
		})
	}

	_, err := state.ApplyAt(flip, C(qubit))
	assert.ErrorIs(t, err, ErrShape)
	_, err = state.ApplyAt(Discard(qubit), Q(Dim{2, 2}))
	assert.ErrorIs(t, err, ErrShape)
}
