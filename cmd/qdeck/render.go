package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"discocirq/monoidal"
	"discocirq/tk"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given visual width.
func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	total := width - w
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// truncate cuts s to at most width runes, marking the cut.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// wireLabel names an ob the way it is drawn above a wire.
func wireLabel(o monoidal.Ob) string {
	switch o.Kind {
	case monoidal.KindQubit:
		return "q"
	case monoidal.KindBit:
		return "c"
	}
	switch {
	case o.Z > 0:
		return o.Name + strings.Repeat("ʳ", o.Z)
	case o.Z < 0:
		return o.Name + strings.Repeat("ˡ", -o.Z)
	}
	return o.Name
}

// boxLabel returns a short label for a box.
func boxLabel(b monoidal.Box) string {
	switch b.(type) {
	case *monoidal.Cup:
		return "╰─╯"
	case *monoidal.Cap:
		return "╭─╮"
	}
	name := b.Name()
	if d, ok := b.(interface{ IsDagger() bool }); ok && d.IsDagger() {
		name += "†"
	}
	return name
}

// ──────────────────────────── Diagram rendering ────────────────────────────

// wiresLine draws one "│" per wire of t, indented by indent columns.
func wiresLine(t monoidal.Ty, indent int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", indent*cellW))
	for range t.Len() {
		sb.WriteString(padCenter("│", cellW))
	}
	return sb.String()
}

// labelsLine names each wire of t.
func labelsLine(t monoidal.Ty) string {
	var sb strings.Builder
	for _, o := range t.Obs() {
		sb.WriteString(wireLabelStyle.Render(padCenter(truncate(wireLabel(o), cellW-1), cellW)))
	}
	return sb.String()
}

// renderDiagram draws d top to bottom: the domain labels, then one row per
// box with the wires passing on either side, then the codomain labels.
// The box at index highlight is drawn in the highlight colour.
func renderDiagram(d *monoidal.Diagram, highlight int) string {
	var sb strings.Builder
	sb.WriteString(labelsLine(d.Dom()) + "\n")

	for i, layer := range d.Layers() {
		dom := monoidal.Must(layer.Left.Tensor(layer.Box.Dom(), layer.Right))
		if !dom.IsEmpty() {
			sb.WriteString(wiresLine(dom, 0) + "\n")
		}

		span := max(layer.Box.Dom().Len(), layer.Box.Cod().Len(), 1)
		label := "[" + truncate(boxLabel(layer.Box), span*cellW-2) + "]"
		style := boxStyle
		if i == highlight {
			style = movedBoxStyle
		}
		line := wiresLine(layer.Left, 0) +
			style.Render(padCenter(label, span*cellW)) +
			wiresLine(layer.Right, 0)
		sb.WriteString(line + "\n")
	}

	if !d.Cod().IsEmpty() {
		sb.WriteString(wiresLine(d.Cod(), 0) + "\n")
	}
	sb.WriteString(labelsLine(d.Cod()))
	return sb.String()
}

// movedBox returns the index of the first box that differs between two
// frames, or -1 when they agree.
func movedBox(prev, next *monoidal.Diagram) int {
	if prev == nil {
		return -1
	}
	pb, po := prev.Boxes(), prev.Offsets()
	nb, no := next.Boxes(), next.Offsets()
	for i := range min(len(pb), len(nb)) {
		if !pb[i].Equal(nb[i]) || po[i] != no[i] {
			return i
		}
	}
	if len(pb) != len(nb) {
		return min(len(pb), len(nb))
	}
	return -1
}

// ──────────────────────────── tk rendering ────────────────────────────

// opSymbol returns what the op draws on qubit q.
func opSymbol(op tk.Op, q int) string {
	var sym string
	last := op.Qubits[len(op.Qubits)-1]
	switch {
	case op.Name == "Measure":
		sym = fmt.Sprintf("M→%d", op.Bits[0])
	case op.Name == "SWAP" || op.Name == "CSWAP" && q != op.Qubits[0]:
		sym = "×"
	case q != last, op.Name == "CZ":
		sym = "●"
	case op.Name == "CX" || op.Name == "CCX":
		sym = "⊕"
	default:
		sym = op.Name
		if len(op.Qubits) > 1 {
			sym = strings.TrimPrefix(sym, "C")
		}
		if len(op.Params) > 0 {
			sym += "(" + tk.FormatHalfTurns(op.Params[0]) + ")"
		}
	}
	if op.Condition != nil {
		sym += fmt.Sprintf("?%d", op.Condition.Bit)
	}
	return sym
}

// renderTk draws the circuit on a step grid scheduled by its DAG.
func renderTk(tc *tk.Circuit) string {
	var sb strings.Builder
	dag := tk.NewDAG(tc)
	depth := dag.Depth()

	header := strings.Repeat(" ", labelW)
	for step := range depth {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), stepW))
	}
	sb.WriteString(header + "\n")

	for q := range tc.NumQubits {
		line := wireLabelStyle.Render(fmt.Sprintf("%-*s", labelW, fmt.Sprintf("q[%d]", q)))
		for step := range depth {
			node := dag.GetNodeAt(step, q)
			if node == nil {
				line += strings.Repeat("─", stepW)
				continue
			}
			sym := truncate(opSymbol(node.Op, q), stepW-2)
			pad := stepW - lipgloss.Width(sym)
			line += strings.Repeat("─", pad/2) + boxStyle.Render(sym) + strings.Repeat("─", pad-pad/2)
		}
		sb.WriteString(line + "\n")
	}
	if tc.NumBits > 0 {
		sb.WriteString(bitLabelStyle.Render(fmt.Sprintf("%-*s", labelW, fmt.Sprintf("c%d", tc.NumBits))))
		sb.WriteString(dimStyle.Render(strings.Repeat("═", depth*stepW)) + "\n")
	}

	sb.WriteString("\n")
	if len(tc.PostSelection) > 0 {
		var parts []string
		for _, b := range slices.Sorted(maps.Keys(tc.PostSelection)) {
			parts = append(parts, fmt.Sprintf("c[%d]=%d", b, tc.PostSelection[b]))
		}
		sb.WriteString(activeStyle.Render("post-select ") + strings.Join(parts, " ") + "\n")
	}
	if tc.Scalar != 1 {
		sb.WriteString(activeStyle.Render("scalar ") + fmt.Sprintf("%.6g", tc.Scalar) + "\n")
	}
	if tc.PostProcessing != nil {
		sb.WriteString(activeStyle.Render("post-process ") + tc.PostProcessing.String() + "\n")
	}
	fmt.Fprintf(&sb, "depth %d", depth)
	return sb.String()
}
