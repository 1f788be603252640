package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"qsynth/circuit"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// targetGlyph returns the wire symbol drawn on an op's target qubit, or ""
// when the gate renders as a boxed name instead.
func targetGlyph(name string) string {
	switch name {
	case "x", "cx", "ccx":
		return "⊕"
	case "cz":
		return "●"
	}
	return ""
}

// boxedName returns the short name rendered inside a gate box.
func boxedName(name string) string {
	switch name {
	case "h", "ch":
		return "H"
	case "cu1", "cp", "u1", "p":
		return "P"
	case "x":
		return "X"
	}
	return strings.ToUpper(name)
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	op          *circuit.Op
	isControl   bool
	isTarget    bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// getCellInfo returns rendering information for the cell at (step, qubit).
func getCellInfo(c *circuit.Circuit, steps []int, step int, qubit circuit.Qubit) cellInfo {
	var info cellInfo

	for i := range c.Ops {
		if steps[i] != step {
			continue
		}
		op := &c.Ops[i]

		minQ, maxQ := op.Target, op.Target
		for _, q := range op.Qubits() {
			minQ, maxQ = min(minQ, q), max(maxQ, q)
		}
		if qubit < minQ || qubit > maxQ {
			continue
		}

		if op.References(qubit) {
			info.op = op
			info.isTarget = op.Target == qubit
			info.isControl = !info.isTarget
		} else {
			info.passThrough = true
		}
		info.vertAbove = qubit > minQ
		info.vertBelow = qubit < maxQ
		break
	}
	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell, each exactly
// cellW visual characters wide.
func renderCell(info cellInfo) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	topRow, botRow := emptyRow, emptyRow
	if info.vertAbove {
		topRow = vertRow
	}
	if info.vertBelow {
		botRow = vertRow
	}

	switch {
	case info.op != nil && info.isControl:
		mid = strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR)
		return topRow, mid, botRow

	case info.op != nil && info.isTarget:
		if sym := targetGlyph(info.op.Name); sym != "" {
			mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
			return topRow, mid, botRow
		}
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(boxedName(info.op.Name), gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
		if info.vertAbove {
			top = vertRow
		}
		if info.vertBelow {
			bot = vertRow
		}
		return top, mid, bot

	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		return vertRow, mid, vertRow

	default:
		mid = strings.Repeat("─", cellW)
		return topRow, mid, botRow
	}
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the synthesized circuit grid.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Synthesized Circuit"))
	sb.WriteString("\n\n")

	steps := m.steps
	depth := m.circ.Depth()

	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)
	displaySteps := min(depth, maxSteps)
	if depth > maxSteps {
		fmt.Fprintf(&sb, "  ◀ showing steps 0–%d of %d\n", displaySteps-1, depth)
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := 0; step < displaySteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each wire as 3 lines
	for q := 0; q < m.circ.NumQubits; q++ {
		qubit := circuit.Qubit(q)
		label, style := m.wireLabel(qubit)

		topLine := strings.Repeat(" ", labelVisualW)
		midLine := style.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := 0; step < displaySteps; step++ {
			info := getCellInfo(m.circ, steps, step, qubit)
			top, mid, bot := renderCell(info)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  %d ops, depth %d", m.circ.Len(), depth)
	if len(m.probs) > 0 {
		sb.WriteString(dimStyle.Render("  │  all controls on → P(target=1): "))
		for i, p := range m.probs {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(gateStyle.Render(fmt.Sprintf("%.2f", p)))
		}
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "\n  %s", statusStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM output panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("QASM"))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmView.View())
	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	gate := primitives[m.gateIdx]
	fmt.Fprintf(&sb, "%s %d   %s %d   %s %s",
		keyStyle.Render("Controls +/-:"), m.numControls,
		keyStyle.Render("Targets ]/[:"), m.numTargets,
		keyStyle.Render("Gate g:"), gate.display)
	if gate.hasParam {
		fmt.Fprintf(&sb, "(%s)  %s edit", circuit.FormatParam(m.theta), keyStyle.Render("p"))
	}
	sb.WriteString("\n")
	sb.WriteString(keyStyle.Render("Actions:  "))
	sb.WriteString("^S Save QASM  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// renderParamInput renders the phase-parameter input overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Phase Parameter"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "theta: %s_", m.paramInput)
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57"))
	return paramBoxStyle.Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position
// (x, y). Lines of the overlay falling outside the background are dropped.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		if idx := y + i; idx >= 0 && idx < len(bgLines) {
			bgLines[idx] = spliceLineAt(bgLines[idx], ovLine, x)
		}
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns [x, x+width(overlay)) of bgLine with
// the overlay, keeping styled text on either side intact.
func spliceLineAt(bgLine, overlay string, x int) string {
	prefix := ansi.Truncate(bgLine, x, "")
	if w := ansi.StringWidth(prefix); w < x {
		prefix += strings.Repeat(" ", x-w)
	}
	suffix := ansi.TruncateLeft(bgLine, x+ansi.StringWidth(overlay), "")
	return prefix + overlay + suffix
}
