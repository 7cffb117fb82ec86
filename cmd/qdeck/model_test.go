package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discocirq/monoidal"
	"discocirq/quantum"
	"discocirq/tk"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func sized(t *testing.T, name string) Model {
	t.Helper()
	ex, err := findExample(name)
	require.NoError(t, err)
	return press(t, newModel(ex, false, zerolog.Nop()), tea.WindowSizeMsg{Width: 160, Height: 48})
}

func TestExamples_Build(t *testing.T) {
	for _, ex := range allExamples() {
		t.Run(ex.name, func(t *testing.T) {
			d, err := ex.build()
			require.NoError(t, err)
			fs, stopped := frames(d, false)
			require.NotEmpty(t, fs)
			assert.True(t, fs[0].Equal(d))

			// Side by side scalars make the interchanger cycle.
			if nf, err := d.NormalForm(false); err == nil {
				require.NoError(t, stopped)
				assert.True(t, fs[len(fs)-1].Equal(nf))
			} else {
				assert.ErrorIs(t, err, monoidal.ErrNotConnected)
				assert.ErrorIs(t, stopped, monoidal.ErrNotConnected)
			}

			if !ex.circuit {
				return
			}
			for _, frame := range []*monoidal.Diagram{fs[0], fs[len(fs)-1]} {
				c, err := quantum.FromDiagram(frame)
				require.NoError(t, err)
				_, err = quantum.ToTk(c)
				require.NoError(t, err)
			}
		})
	}
}

func TestExamples_NormalForms(t *testing.T) {
	snake, err := twistedBox()
	require.NoError(t, err)
	nf, err := snake.NormalForm(false)
	require.NoError(t, err)
	f := monoidal.NewBox("f", monoidal.Named("x"), monoidal.Named("y"))
	assert.True(t, nf.Equal(monoidal.FromBox(f)))

	sentence, err := aliceLovesBob()
	require.NoError(t, err)
	nf, err = sentence.NormalForm(false)
	require.NoError(t, err)
	assert.Equal(t, 3, nf.Len())
	assert.True(t, nf.Cod().Equal(monoidal.Named("s")))
}

func TestModel_Stepping(t *testing.T) {
	m := sized(t, "snake")
	require.Greater(t, len(m.frames), 1)

	m = press(t, m, runeKey("G"))
	assert.Equal(t, len(m.frames)-1, m.frame)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, len(m.frames)-1, m.frame)
	assert.Equal(t, "normal form reached", m.statusMsg)

	m = press(t, m, runeKey("g"), tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.frame)
	m = press(t, m, runeKey("l"))
	assert.Equal(t, 1, m.frame)
	m = press(t, m, runeKey("h"))
	assert.Equal(t, 0, m.frame)
}

func TestModel_Direction(t *testing.T) {
	m := sized(t, "iqp")
	m = press(t, m, runeKey("d"))
	assert.True(t, m.left)
	assert.Equal(t, 0, m.frame)
	assert.Equal(t, "interchange left", m.statusMsg)

	nf, err := m.frames[0].NormalForm(true)
	require.NoError(t, err)
	assert.True(t, m.frames[len(m.frames)-1].Equal(nf))
}

func TestModel_Translation(t *testing.T) {
	m := sized(t, "bell")
	tc, err := m.translation()
	require.NoError(t, err)
	assert.Equal(t, 2, tc.NumQubits)
	assert.Equal(t, 2, tc.NumBits)
	assert.Contains(t, tc.String(), "CX(0, 1)")
	assert.Contains(t, m.sideContent(), "M→0")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, sideQASM, m.side)
	assert.Contains(t, m.sideContent(), "OPENQASM 2.0;")

	rigid := sized(t, "snake")
	assert.Contains(t, rigid.sideContent(), "Diagram(dom=")
}

func TestModel_StoppedNormalisation(t *testing.T) {
	scalars := example{
		name:        "scalars",
		category:    "Rigid",
		description: "two scalars side by side",
		build: func() (*monoidal.Diagram, error) {
			s0 := monoidal.NewBox("s0", monoidal.NewTy(), monoidal.NewTy())
			s1 := monoidal.NewBox("s1", monoidal.NewTy(), monoidal.NewTy())
			return monoidal.FromBox(s0).Tensor(monoidal.FromBox(s1))
		},
	}
	m := press(t, newModel(scalars, false, zerolog.Nop()), tea.WindowSizeMsg{Width: 160, Height: 48})
	require.ErrorIs(t, m.stopped, monoidal.ErrNotConnected)
	require.Len(t, m.frames, 2)

	m = press(t, m, runeKey("G"))
	assert.Contains(t, m.View(), "stopped:")

	m = press(t, m, runeKey("l"))
	assert.Equal(t, "no further steps", m.statusMsg)
}

func TestModel_Menu(t *testing.T) {
	m := sized(t, "snake")
	m = press(t, m, runeKey("a"))
	require.True(t, m.menuOpen)
	assert.Contains(t, m.View(), "Examples")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.menuOpen)
	assert.Equal(t, "qubit-snake", m.ex.name)
	assert.Equal(t, 0, m.frame)

	m = press(t, m, runeKey("a"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.menuOpen)
	assert.Equal(t, "qubit-snake", m.ex.name)
}

func TestModel_View(t *testing.T) {
	ex, err := findExample("alice-loves-bob")
	require.NoError(t, err)
	assert.Equal(t, "Loading...", newModel(ex, false, zerolog.Nop()).View())

	view := sized(t, "alice-loves-bob").View()
	assert.Contains(t, view, "alice-loves-bob")
	assert.Contains(t, view, "Frame 1/")
	assert.Contains(t, view, "Alice")
}

func TestModel_Quit(t *testing.T) {
	m := sized(t, "bell")
	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderDiagram(t *testing.T) {
	f := monoidal.NewBox("f", monoidal.Named("x"), monoidal.Named("y"))
	out := renderDiagram(monoidal.FromBox(f), -1)
	assert.Contains(t, out, "[f]")
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "y")

	cup := monoidal.Must(monoidal.NewCup(monoidal.Named("x"), monoidal.Named("x").R()))
	out = renderDiagram(monoidal.FromBox(cup), 0)
	assert.Contains(t, out, "xʳ")
	assert.Contains(t, out, "╰─╯")
}

func TestBoxLabel_Dagger(t *testing.T) {
	f := monoidal.NewBox("f", monoidal.Named("x"), monoidal.Named("y"))
	assert.Equal(t, "f", boxLabel(f))
	assert.Equal(t, "f†", boxLabel(f.Dagger()))
	assert.Equal(t, "f", boxLabel(f.Dagger().Dagger()))
	assert.Equal(t, "S†", boxLabel(quantum.S.Dagger()))
	assert.Equal(t, "Swap", boxLabel(quantum.NewSwap(quantum.Qubit, quantum.Qubit)))

	out := renderDiagram(monoidal.FromBox(f.Dagger()), -1)
	assert.Contains(t, out, "f†")
}

func TestMovedBox(t *testing.T) {
	x := monoidal.Named("x")
	f, g := monoidal.NewBox("f", x, x), monoidal.NewBox("g", x, x)
	fg := monoidal.Must(monoidal.FromBox(f).Tensor(monoidal.FromBox(g)))
	swapped, err := fg.Interchange(0, 1, false)
	require.NoError(t, err)

	assert.Equal(t, -1, movedBox(nil, fg))
	assert.Equal(t, -1, movedBox(fg, fg))
	assert.Equal(t, 0, movedBox(fg, swapped))
	assert.Equal(t, 1, movedBox(monoidal.FromBox(f), fg))
}

func TestRenderTk(t *testing.T) {
	tc := tk.NewCircuit(3, 2).H(0).CX(0, 1).Rz(0.5, 2).CCX(0, 1, 2).Measure(0, 0).PostSelect(map[int]int{1: 0}).Scale(2)
	out := renderTk(tc)
	for _, want := range []string{"q[0]", "q[2]", "H", "●", "⊕", "Rz(pi/2)", "M→0", "c2", "post-select", "c[1]=0", "scalar", "depth 4"} {
		assert.Contains(t, out, want)
	}
}
