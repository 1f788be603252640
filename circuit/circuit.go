// Package circuit holds the quantum circuit being built: an ordered,
// append-only list of operations over integer qubit handles, with OpenQASM 2.0
// import/export and a conflict-based step schedule for rendering.
package circuit

// Qubit is an opaque handle naming one wire of a Circuit. Handles are small
// integers assigned by the circuit; two handles are the same qubit iff they
// are equal.
type Qubit int

// Op is a single operation appended to the circuit. Controls may be empty
// (plain single-qubit gate), hold one qubit (controlled gate) or two (the
// Toffoli fold used by the synthesis chain).
type Op struct {
	Name     string
	Controls []Qubit
	Target   Qubit
	Param    float64
	HasParam bool
}

// References reports whether the op touches the given qubit.
func (op Op) References(q Qubit) bool {
	if op.Target == q {
		return true
	}
	for _, c := range op.Controls {
		if c == q {
			return true
		}
	}
	return false
}

// Qubits returns every qubit the op touches, controls first.
func (op Op) Qubits() []Qubit {
	qs := make([]Qubit, 0, len(op.Controls)+1)
	qs = append(qs, op.Controls...)
	return append(qs, op.Target)
}

// Circuit is the program under construction. Ops is positionally meaningful:
// index order is emission order.
type Circuit struct {
	NumQubits int
	Ops       []Op
}

// New returns an empty circuit over n qubits.
func New(n int) *Circuit {
	return &Circuit{NumQubits: n}
}

// Valid reports whether q names a wire of this circuit.
func (c *Circuit) Valid(q Qubit) bool {
	return q >= 0 && int(q) < c.NumQubits
}

// Len returns the number of operations appended so far.
func (c *Circuit) Len() int {
	return len(c.Ops)
}

// Append adds one operation to the end of the circuit.
func (c *Circuit) Append(op Op) {
	c.Ops = append(c.Ops, op)
}

// H appends a Hadamard gate.
func (c *Circuit) H(target Qubit) {
	c.Append(Op{Name: "h", Target: target})
}

// X appends a Pauli-X gate.
func (c *Circuit) X(target Qubit) {
	c.Append(Op{Name: "x", Target: target})
}

// CX appends a controlled-X gate.
func (c *Circuit) CX(control, target Qubit) {
	c.Append(Op{Name: "cx", Controls: []Qubit{control}, Target: target})
}

// CZ appends a controlled-Z gate.
func (c *Circuit) CZ(control, target Qubit) {
	c.Append(Op{Name: "cz", Controls: []Qubit{control}, Target: target})
}

// CH appends a controlled-Hadamard gate.
func (c *Circuit) CH(control, target Qubit) {
	c.Append(Op{Name: "ch", Controls: []Qubit{control}, Target: target})
}

// CP appends a controlled phase rotation by theta.
func (c *Circuit) CP(theta float64, control, target Qubit) {
	c.Append(Op{Name: "cu1", Controls: []Qubit{control}, Target: target, Param: theta, HasParam: true})
}

// CCX appends a Toffoli gate: X on target conditioned on both controls.
// Self-inverse, which is what lets the synthesis chain uncompute by replay.
func (c *Circuit) CCX(control1, control2, target Qubit) {
	c.Append(Op{Name: "ccx", Controls: []Qubit{control1, control2}, Target: target})
}
