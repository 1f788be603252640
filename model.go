package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qsynth/circuit"
	"qsynth/mcmt"
	"qsynth/sim"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusMain focus = iota
	focusParam
)

const (
	maxControls = 6
	maxTargets  = 4
)

// Model represents the TUI application state: the knobs of the synthesizer
// plus the circuit fragment they currently produce.
type Model struct {
	numControls int
	numTargets  int
	gateIdx     int
	theta       float64
	paramInput  string
	focus       focus

	circ  *circuit.Circuit
	steps []int
	probs []float64 // per-target P(1) with every control prepared on

	qasmView  viewport.Model
	statusMsg string
	width     int
	height    int
}

func initialModel() Model {
	m := Model{
		numControls: 3,
		numTargets:  1,
		theta:       defaultTheta,
		qasmView:    viewport.New(40, 20),
	}
	m.rebuild()
	return m
}

const defaultTheta = 1.5707963267948966 // pi/2

// layout assigns wires in role order: controls, then targets, then the k-1
// ancillae the chain needs (none when k is 1).
func (m *Model) layout() (controls, targets, ancillae []circuit.Qubit, n int) {
	k, t := m.numControls, m.numTargets
	a := 0
	if k >= 2 {
		a = k - 1
	}
	for i := 0; i < k; i++ {
		controls = append(controls, circuit.Qubit(i))
	}
	for i := 0; i < t; i++ {
		targets = append(targets, circuit.Qubit(k+i))
	}
	for i := 0; i < a; i++ {
		ancillae = append(ancillae, circuit.Qubit(k+t+i))
	}
	return controls, targets, ancillae, k + t + a
}

// wireLabel returns the display label and style for a wire.
func (m *Model) wireLabel(q circuit.Qubit) (string, lipgloss.Style) {
	k, t := m.numControls, m.numTargets
	switch {
	case int(q) < k:
		return fmt.Sprintf("c%d", q), wireLabelStyle
	case int(q) < k+t:
		return fmt.Sprintf("t%d", int(q)-k), wireLabelStyle
	default:
		return fmt.Sprintf("a%d", int(q)-k-t), ancillaLabelStyle
	}
}

// rebuild re-synthesizes the circuit from the current knobs.
func (m *Model) rebuild() {
	controls, targets, ancillae, n := m.layout()
	qc := circuit.New(n)

	gate := primitives[m.gateIdx]
	err := mcmt.Synthesize(qc, controls, ancillae, gate.emitter(m.theta), targets, mcmt.ModeBasic)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}

	m.circ = qc
	m.steps = qc.Schedule()
	m.qasmView.SetContent(qc.ToQASM())
	m.probs = targetProbabilities(qc, controls, targets)
}

// targetProbabilities simulates the fragment with every control prepared on
// and reports P(1) for each target.
func targetProbabilities(qc *circuit.Circuit, controls, targets []circuit.Qubit) []float64 {
	preview := circuit.New(qc.NumQubits)
	for _, c := range controls {
		preview.X(c)
	}
	preview.Ops = append(preview.Ops, qc.Ops...)

	state, err := sim.Run(preview)
	if err != nil {
		return nil
	}
	probs := make([]float64, len(targets))
	for i, t := range targets {
		probs[i] = state.Probability(t)
	}
	return probs
}

// saveQASM writes the current fragment to disk.
func (m *Model) saveQASM() {
	if err := os.WriteFile("mcmt.qasm", []byte(m.circ.ToQASM()), 0644); err != nil {
		m.statusMsg = fmt.Sprintf("Save error: %v", err)
	} else {
		m.statusMsg = "Saved mcmt.qasm"
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmView.Width = qasmW
		m.qasmView.Height = max(msg.Height-12, 4)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusMain:
			switch key {
			case "q":
				return m, tea.Quit
			case "+", "=":
				if m.numControls < maxControls {
					m.numControls++
					m.rebuild()
				}
			case "-":
				if m.numControls > 1 {
					m.numControls--
					m.rebuild()
				}
			case "]":
				if m.numTargets < maxTargets {
					m.numTargets++
					m.rebuild()
				}
			case "[":
				if m.numTargets > 1 {
					m.numTargets--
					m.rebuild()
				}
			case "g":
				m.gateIdx = (m.gateIdx + 1) % len(primitives)
				m.rebuild()
			case "p":
				if primitives[m.gateIdx].hasParam {
					m.paramInput = ""
					m.focus = focusParam
				}
			case "ctrl+s":
				m.saveQASM()
			default:
				var cmd tea.Cmd
				m.qasmView, cmd = m.qasmView.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusParam:
			switch key {
			case "esc":
				m.paramInput = ""
				m.focus = focusMain
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				val, ok := circuit.ParseParamExpr(m.paramInput)
				if !ok {
					m.statusMsg = "Invalid parameter — use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					break
				}
				m.theta = val
				m.paramInput = ""
				m.focus = focusMain
				m.rebuild()
			default:
				if len(key) == 1 {
					ch := key[0]
					if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == 'e' || ch == 'E' || ch == '+' ||
						ch == 'p' || ch == 'i' || ch == '*' || ch == '/' {
						m.paramInput += key
					}
				}
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	controlsHeight := 5
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusParam {
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}

	return frame
}
