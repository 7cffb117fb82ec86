package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discocirq/monoidal"
	"discocirq/symbolic"
	"discocirq/tensor"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestBitstring(t *testing.T) {
	_, err := IndexToBitstring(1, 0)
	assert.ErrorIs(t, err, ErrIndexRange)

	bits, err := IndexToBitstring(42, 8)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 0, 1, 0, 1, 0}, bits)
	assert.Equal(t, 42, BitstringToIndex(bits))

	empty, err := IndexToBitstring(0, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBitsAndQubits(t *testing.T) {
	_, err := Qubit.Tensor(monoidal.Named("x"))
	assert.ErrorIs(t, err, monoidal.ErrTypeMismatch)
	assert.Equal(t, "qubit", Qubit.String())
	assert.Equal(t, "bit", Bit.String())
}

func TestNewBox(t *testing.T) {
	_, err := NewBox("f", monoidal.Named("x"), Bit)
	assert.ErrorIs(t, err, monoidal.ErrTypeMismatch)
	_, err = NewBox("f", Bit, monoidal.Named("x"))
	assert.ErrorIs(t, err, monoidal.ErrTypeMismatch)

	_, err = NewBox("f", Bit, Qubit, Pure())
	assert.ErrorIs(t, err, ErrNotPure)

	f := must(NewBox("f", Qubit, Qubit, WithData(symbolic.Sym("phi"))))
	assert.True(t, f.IsMixed())
	assert.Equal(t, "Box('f', qubit, qubit, data=phi)", f.String())
}

func TestSwap(t *testing.T) {
	assert.True(t, NewSwap(Bit, Qubit).IsMixed())
	assert.False(t, NewSwap(Qubit, Qubit).IsMixed())

	m, err := FromBox(NewSwap(Bit, Bit)).EvalMixed()
	require.NoError(t, err)
	assert.True(t, m.Equal(tensor.SwapCQ(tensor.C(dims(1)), tensor.C(dims(1)))))
}

func TestDiscardAndMixedState(t *testing.T) {
	assert.True(t, NewDiscard(Qubit).Dagger().Equal(NewMixedState(Qubit)))
	assert.True(t, NewMixedState(Qubit).Dagger().Equal(NewDiscard(Qubit)))
	assert.Equal(t, "Discard()", NewDiscard(Qubit).String())
	assert.Equal(t, "MixedState(bit)", NewMixedState(Bit).String())
}

func TestMeasureAndEncode(t *testing.T) {
	assert.True(t, NewMeasure(1, false, true).Dagger().Equal(NewEncode(1, false, true)))
	assert.True(t, NewEncode(1, true, false).Dagger().Equal(NewMeasure(1, true, false)))

	tests := []struct {
		box  Box
		repr string
		dom  string
		cod  string
	}{
		{NewMeasure(1, true, false), "Measure()", "qubit", "bit"},
		{NewMeasure(1, false, true), "Measure(1, destructive=False, override_bits=True)", "qubit @ bit", "qubit @ bit"},
		{NewMeasure(2, true, false), "Measure(2)", "qubit ** 2", "bit ** 2"},
		{NewEncode(1, true, false), "Encode()", "bit", "qubit"},
		{NewEncode(1, false, true), "Encode(1, constructive=False, reset_bits=True)", "qubit @ bit", "qubit @ bit"},
	}
	for _, tt := range tests {
		t.Run(tt.repr, func(t *testing.T) {
			assert.Equal(t, tt.repr, tt.box.String())
			assert.Equal(t, tt.dom, tt.box.Dom().String())
			assert.Equal(t, tt.cod, tt.box.Cod().String())
			assert.True(t, tt.box.IsMixed())
		})
	}
}

func TestQuantumGate(t *testing.T) {
	assert.Equal(t, "X", X.String())
	s := must(NewQuantumGate("s", 0, []complex128{1}))
	assert.Equal(t, "QuantumGate('s', n_qubits=0, array=[1])", s.String())

	_, err := NewQuantumGate("bad", 1, []complex128{1, 2, 3})
	assert.ErrorIs(t, err, tensor.ErrShape)

	assert.True(t, H.Dagger().Equal(H))
	assert.Equal(t, "S.dagger()", S.Dagger().String())
}

func TestClassicalGate(t *testing.T) {
	f := must(NewClassicalGate("f", 1, 1, symbolic.Nums(0, 1, 1, 0)))
	assert.Equal(t, "ClassicalGate('f', n_bits_in=1, n_bits_out=1, array=[0, 1, 1, 0]).dagger()", f.Dagger().String())
	assert.True(t, f.Dagger().Dagger().Equal(f))
	assert.False(t, f.IsMixed())
}

func TestBits(t *testing.T) {
	assert.Equal(t, "Bits(0).dagger()", NewBits(0).Dagger().String())
	assert.True(t, NewBits(0).Dagger().Dagger().Equal(NewBits(0)))
	assert.True(t, NewKet(1, 0).Dagger().Equal(NewBra(1, 0)))
}

func TestCopyMatch(t *testing.T) {
	assert.True(t, NewMatch().Dagger().Equal(NewCopy()))
	assert.True(t, NewCopy().Dagger().Equal(NewMatch()))

	// Copy then Match is the identity on a bit.
	loop := must(Then(FromBox(NewCopy()), FromBox(NewMatch())))
	assert.True(t, must(loop.Eval()).Equal(must(Id(Bit).Eval())))
}

func TestScalar(t *testing.T) {
	assert.Equal(t, "sqrt(2)", Sqrt(symbolic.Num(2)).String())
	assert.Equal(t, "scalar(0.5, is_mixed=True)", MixedScalar(symbolic.Num(0.5)).String())
	v, err := Sqrt(symbolic.Num(4)).Value()
	require.NoError(t, err)
	assert.InDelta(t, 2, v, 1e-12)

	_, err = FromBox(MixedScalar(symbolic.Num(1))).Eval()
	assert.ErrorIs(t, err, ErrNotPure)
}
