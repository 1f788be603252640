// Package mcmt synthesizes multi-control, multi-target gates out of Toffolis
// and a caller-chosen single-control primitive, using the ancilla V-chain:
// fold all controls into one ancilla, apply the primitive per target off that
// ancilla, then replay the folds to restore every ancilla.
package mcmt

import (
	"fmt"

	"qsynth/circuit"
)

// Mode selects the decomposition strategy.
type Mode string

// ModeBasic is the ancilla V-chain strategy. It is the only supported mode.
const ModeBasic Mode = "basic"

// SingleControlGate appends one occurrence of the primitive gate, conditioned
// on control, to qc. (*circuit.Circuit).CX, CZ and CH have this shape.
type SingleControlGate func(qc *circuit.Circuit, control, target circuit.Qubit)

// Synthesize appends a decomposition of "apply gate to every target iff all
// controls are set" to qc. For len(controls) >= 2 the chain consumes the first
// len(controls)-1 ancillae as scratch; they must start at |0> and are returned
// to |0> before Synthesize returns. Surplus ancillae are left untouched.
//
// Validation runs in full before anything is emitted: on a non-nil error qc is
// exactly as it was.
func Synthesize(qc *circuit.Circuit, controls, ancillae []circuit.Qubit, gate SingleControlGate, targets []circuit.Qubit, mode Mode) error {
	if len(controls) == 0 {
		return fmt.Errorf("%w: no control qubits", ErrInvalidQubit)
	}
	if len(targets) == 0 {
		return fmt.Errorf("%w: no target qubits", ErrInvalidQubit)
	}

	all := make([]circuit.Qubit, 0, len(controls)+len(targets)+len(ancillae))
	all = append(all, controls...)
	all = append(all, targets...)
	all = append(all, ancillae...)

	for _, q := range all {
		if !qc.Valid(q) {
			return fmt.Errorf("%w: q[%d]", ErrInvalidQubit, q)
		}
	}
	seen := make(map[circuit.Qubit]bool, len(all))
	for _, q := range all {
		if seen[q] {
			return fmt.Errorf("%w: q[%d]", ErrDuplicateQubit, q)
		}
		seen[q] = true
	}
	if mode != ModeBasic {
		return fmt.Errorf("%w: %q (only %q is supported)", ErrUnsupportedMode, mode, ModeBasic)
	}

	k := len(controls)
	if k == 1 {
		for _, t := range targets {
			gate(qc, controls[0], t)
		}
		return nil
	}

	if len(ancillae) < k-1 {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientAncilla, k-1, len(ancillae))
	}

	vChainCompute(qc, controls, ancillae)
	// anc[k-2] now carries the AND of all controls.
	for _, t := range targets {
		gate(qc, ancillae[k-2], t)
	}
	vChainUncompute(qc, controls, ancillae)
	return nil
}

// vChainCompute folds the controls pairwise into the ancilla chain, leaving
// the AND of all of them on ancillae[len(controls)-2].
func vChainCompute(qc *circuit.Circuit, controls, ancillae []circuit.Qubit) {
	qc.CCX(controls[0], controls[1], ancillae[0])
	for i := 2; i < len(controls); i++ {
		qc.CCX(controls[i], ancillae[i-2], ancillae[i-1])
	}
}

// vChainUncompute replays the folds in reverse order. The Toffoli is its own
// inverse under unchanged control values, so every ancilla the chain touched
// returns to |0>. Indexing is keyed on the control count, never on the length
// of the supplied pool, so surplus ancillae stay out of the chain.
func vChainUncompute(qc *circuit.Circuit, controls, ancillae []circuit.Qubit) {
	for i := len(controls) - 1; i >= 2; i-- {
		qc.CCX(controls[i], ancillae[i-2], ancillae[i-1])
	}
	qc.CCX(controls[0], controls[1], ancillae[0])
}
