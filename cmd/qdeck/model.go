package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"discocirq/monoidal"
	"discocirq/quantum"
	"discocirq/tk"
)

// sidePanel selects what the right-hand panel shows for circuit examples.
type sidePanel int

const (
	sideTk sidePanel = iota
	sideQASM
)

// Model is the normal-form stepper: one frame per rewrite step, with the
// tk translation of the current frame alongside.
type Model struct {
	log zerolog.Logger

	ex     example
	left   bool
	frames  []*monoidal.Diagram
	frame   int
	err     error
	stopped error // why normalisation ended before a normal form

	width  int
	height int
	ready  bool

	side      sidePanel
	sideView  viewport.Model
	help      help.Model
	statusMsg string

	// Menu state
	menuOpen bool
	menuCat  int
	menuItem int
}

func newModel(ex example, left bool, log zerolog.Logger) Model {
	m := Model{
		log:  log.With().Str("component", "tui").Logger(),
		left: left,
		help: help.New(),
	}
	m.load(ex)
	return m
}

// load builds the example and its normalisation frames.
func (m *Model) load(ex example) {
	m.ex, m.frame, m.err, m.stopped, m.frames = ex, 0, nil, nil, nil
	d, err := ex.build()
	if err != nil {
		m.err = err
		m.log.Error().Err(err).Str("example", ex.name).Msg("build failed")
		return
	}
	m.frames, m.stopped = frames(d, m.left)
	if m.stopped != nil {
		m.log.Warn().Err(m.stopped).Str("example", ex.name).Msg("normalisation stopped")
	}
	m.log.Debug().Str("example", ex.name).Int("frames", len(m.frames)).Bool("left", m.left).Msg("loaded")
	m.refreshSide()
}

func (m Model) current() *monoidal.Diagram {
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[m.frame]
}

// translation converts the current frame to a tk circuit.
func (m Model) translation() (*tk.Circuit, error) {
	c, err := quantum.FromDiagram(m.current())
	if err != nil {
		return nil, err
	}
	return quantum.ToTk(c)
}

// sideContent returns the text of the right-hand panel.
func (m Model) sideContent() string {
	if m.err != nil || len(m.frames) == 0 {
		return ""
	}
	if !m.ex.circuit {
		return dimStyle.Render(m.current().String())
	}
	tc, err := m.translation()
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	if m.side == sideQASM {
		return tc.ToQASM()
	}
	return renderTk(tc) + "\n\n" + dimStyle.Render(tc.String())
}

func (m *Model) refreshSide() {
	if m.ready {
		m.sideView.SetContent(m.sideContent())
		m.sideView.GotoTop()
	}
}

// step moves to frame i, clamped to the available frames.
func (m *Model) step(i int) {
	if len(m.frames) == 0 {
		return
	}
	m.frame = min(max(i, 0), len(m.frames)-1)
	m.refreshSide()
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.sideSize()
		if !m.ready {
			m.sideView = viewport.New(w, h)
			m.ready = true
		} else {
			m.sideView.Width = w
			m.sideView.Height = h
		}
		m.help.Width = msg.Width
		m.refreshSide()
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.menuOpen {
			if m.updateMenu(msg.String()) {
				m.load(catalog[m.menuCat].items[m.menuItem])
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			if m.frame == len(m.frames)-1 {
				m.statusMsg = "normal form reached"
				if m.stopped != nil {
					m.statusMsg = "no further steps"
				}
			}
			m.step(m.frame + 1)
		case key.Matches(msg, keys.Prev):
			m.step(m.frame - 1)
		case key.Matches(msg, keys.First):
			m.step(0)
		case key.Matches(msg, keys.Last):
			m.step(len(m.frames) - 1)
		case key.Matches(msg, keys.Direction):
			m.left = !m.left
			m.load(m.ex)
			m.statusMsg = "interchange " + m.direction()
		case key.Matches(msg, keys.Side):
			if m.side == sideTk {
				m.side = sideQASM
			} else {
				m.side = sideTk
			}
			m.refreshSide()
		case key.Matches(msg, keys.Menu):
			m.menuOpen = true
		default:
			var cmd tea.Cmd
			m.sideView, cmd = m.sideView.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) direction() string {
	if m.left {
		return "left"
	}
	return "right"
}

func (m Model) sideSize() (int, int) {
	w := max(m.width/3, sideMin)
	h := max(m.height-10, 4)
	return w, h
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sideW, sideH := m.sideSize()
	diagramW := max(m.width-sideW-8, 20)
	panelH := sideH + 2

	diagramPanel := diagramStyle.Width(diagramW).Height(panelH).Render(m.renderDiagramPanel())

	var side string
	if m.menuOpen {
		side = m.renderMenu()
	} else {
		title := "Diagram"
		if m.ex.circuit {
			title = "tk Circuit"
			if m.side == sideQASM {
				title = "OpenQASM"
			}
		}
		side = titleStyle.Render(title) + "\n\n" + m.sideView.View()
	}
	sidePanel := sideStyle.Width(sideW).Height(panelH).Render(side)

	controls := controlsStyle.Width(m.width - 4).Render(m.help.View(keys))

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, diagramPanel, sidePanel)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, controls)
}

// renderDiagramPanel renders the current frame and its position in the sequence.
func (m Model) renderDiagramPanel() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.ex.name))
	sb.WriteString(dimStyle.Render("  " + m.ex.description))
	sb.WriteString("\n\n")

	if m.err != nil {
		sb.WriteString(errorStyle.Render(m.err.Error()))
		return sb.String()
	}

	var prev *monoidal.Diagram
	if m.frame > 0 {
		prev = m.frames[m.frame-1]
	}
	sb.WriteString(renderDiagram(m.current(), movedBox(prev, m.current())))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "  Frame %d/%d  │  %d boxes  │  interchange %s",
		m.frame+1, len(m.frames), m.current().Len(), m.direction())
	switch {
	case m.frame == len(m.frames)-1 && m.stopped != nil:
		sb.WriteString("  │  " + errorStyle.Render("stopped: "+m.stopped.Error()))
	case m.frame == len(m.frames)-1:
		sb.WriteString(activeStyle.Render("  │  normal form"))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeStyle.Render(m.statusMsg))
	}
	return sb.String()
}
