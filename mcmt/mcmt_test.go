package mcmt

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"qsynth/circuit"
	"qsynth/sim"
)

func qubits(ids ...int) []circuit.Qubit {
	qs := make([]circuit.Qubit, len(ids))
	for i, id := range ids {
		qs[i] = circuit.Qubit(id)
	}
	return qs
}

func TestSingleControlDegenerateCase(t *testing.T) {
	// k=1 applies the primitive once per target and never touches the
	// ancillae, even though some were supplied.
	qc := circuit.New(4)
	err := Synthesize(qc, qubits(0), qubits(3), (*circuit.Circuit).CX, qubits(1, 2), ModeBasic)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	if qc.Len() != 2 {
		t.Fatalf("expected 2 ops, got %d", qc.Len())
	}
	for i, op := range qc.Ops {
		if op.Name != "cx" || op.Controls[0] != 0 {
			t.Errorf("op %d: expected cx controlled on q[0], got %v", i, op)
		}
		if op.References(3) {
			t.Errorf("op %d touches the ancilla", i)
		}
	}
	if qc.Ops[0].Target != 1 || qc.Ops[1].Target != 2 {
		t.Errorf("targets out of order: %v, %v", qc.Ops[0].Target, qc.Ops[1].Target)
	}
}

func TestTwoControlSequence(t *testing.T) {
	// k=2, one target: fold, apply, fold — exactly 3 ops in that order.
	qc := circuit.New(4)
	err := Synthesize(qc, qubits(0, 1), qubits(3), (*circuit.Circuit).CZ, qubits(2), ModeBasic)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	if qc.Len() != 3 {
		t.Fatalf("expected 3 ops, got %d", qc.Len())
	}

	fold := circuit.Op{Name: "ccx", Controls: qubits(0, 1), Target: 3}
	for _, i := range []int{0, 2} {
		op := qc.Ops[i]
		if op.Name != fold.Name || op.Target != fold.Target ||
			op.Controls[0] != fold.Controls[0] || op.Controls[1] != fold.Controls[1] {
			t.Errorf("op %d: expected ccx c0,c1 -> a0, got %v", i, op)
		}
	}
	apply := qc.Ops[1]
	if apply.Name != "cz" || apply.Controls[0] != 3 || apply.Target != 2 {
		t.Errorf("op 1: expected cz a0 -> t0, got %v", apply)
	}
}

func TestGateCounts(t *testing.T) {
	for k := 2; k <= 6; k++ {
		for m := 1; m <= 3; m++ {
			t.Run(fmt.Sprintf("k=%d,m=%d", k, m), func(t *testing.T) {
				controls := qubits()
				for i := 0; i < k; i++ {
					controls = append(controls, circuit.Qubit(i))
				}
				targets := qubits()
				for i := 0; i < m; i++ {
					targets = append(targets, circuit.Qubit(k+i))
				}
				ancillae := qubits()
				for i := 0; i < k-1; i++ {
					ancillae = append(ancillae, circuit.Qubit(k+m+i))
				}

				qc := circuit.New(k + m + k - 1)
				if err := Synthesize(qc, controls, ancillae, (*circuit.Circuit).CX, targets, ModeBasic); err != nil {
					t.Fatalf("Synthesize error: %v", err)
				}

				// k-1 folds, m applications, k-1 mirrored folds.
				if want := 2*(k-1) + m; qc.Len() != want {
					t.Fatalf("expected %d ops, got %d", want, qc.Len())
				}
				for i := 0; i < k-1; i++ {
					if qc.Ops[i].Name != "ccx" {
						t.Errorf("op %d: expected ccx, got %s", i, qc.Ops[i].Name)
					}
				}
				for i := k - 1; i < k-1+m; i++ {
					op := qc.Ops[i]
					if op.Name != "cx" {
						t.Errorf("op %d: expected cx, got %s", i, op.Name)
					}
					if op.Controls[0] != ancillae[k-2] {
						t.Errorf("op %d conditioned on q[%d], want last chain ancilla q[%d]", i, op.Controls[0], ancillae[k-2])
					}
				}
				for i := k - 1 + m; i < qc.Len(); i++ {
					if qc.Ops[i].Name != "ccx" {
						t.Errorf("op %d: expected ccx, got %s", i, qc.Ops[i].Name)
					}
				}
			})
		}
	}
}

func TestUncomputeMirrorsCompute(t *testing.T) {
	qc := circuit.New(9)
	err := Synthesize(qc, qubits(0, 1, 2, 3), qubits(5, 6, 7), (*circuit.Circuit).CX, qubits(4), ModeBasic)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	// ops: 3 folds, 1 apply, 3 folds. Fold i must equal fold len-1-i.
	n := qc.Len()
	for i := 0; i < 3; i++ {
		a, b := qc.Ops[i], qc.Ops[n-1-i]
		if a.Name != b.Name || a.Target != b.Target ||
			a.Controls[0] != b.Controls[0] || a.Controls[1] != b.Controls[1] {
			t.Errorf("fold %d not mirrored: %v vs %v", i, a, b)
		}
	}
}

func TestValidationFailures(t *testing.T) {
	gate := (*circuit.Circuit).CX

	tests := []struct {
		name     string
		controls []circuit.Qubit
		ancillae []circuit.Qubit
		targets  []circuit.Qubit
		mode     Mode
		want     error
	}{
		{"unknown qubit", qubits(0, 9), qubits(3), qubits(2), ModeBasic, ErrInvalidQubit},
		{"negative qubit", qubits(0, -1), qubits(3), qubits(2), ModeBasic, ErrInvalidQubit},
		{"control repeated as target", qubits(0, 1), qubits(3), qubits(1), ModeBasic, ErrDuplicateQubit},
		{"ancilla repeated as control", qubits(0, 3), qubits(3), qubits(2), ModeBasic, ErrDuplicateQubit},
		{"duplicate within controls", qubits(0, 0), qubits(3), qubits(2), ModeBasic, ErrDuplicateQubit},
		{"unsupported mode", qubits(0, 1), qubits(3), qubits(2), Mode("other"), ErrUnsupportedMode},
		{"too few ancillae", qubits(0, 1, 2, 3), qubits(5), qubits(4), ModeBasic, ErrInsufficientAncilla},
		{"no ancillae at all", qubits(0, 1), nil, qubits(2), ModeBasic, ErrInsufficientAncilla},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc := circuit.New(6)
			qc.H(0) // pre-existing content must survive a failed call
			before := qc.Len()

			err := Synthesize(qc, tt.controls, tt.ancillae, gate, tt.targets, tt.mode)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if qc.Len() != before {
				t.Errorf("failed call emitted %d ops", qc.Len()-before)
			}
		})
	}
}

func TestModeCheckedEvenForSingleControl(t *testing.T) {
	qc := circuit.New(2)
	err := Synthesize(qc, qubits(0), nil, (*circuit.Circuit).CX, qubits(1), Mode("recursive"))
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
	if qc.Len() != 0 {
		t.Errorf("failed call emitted ops")
	}
}

// runOnBasis simulates the fragment with the given controls prepared to the
// given assignment and returns the final state.
func runOnBasis(t *testing.T, qc *circuit.Circuit, controls []circuit.Qubit, assignment int) *sim.StateVector {
	t.Helper()
	preview := circuit.New(qc.NumQubits)
	for i, c := range controls {
		if assignment&(1<<i) != 0 {
			preview.X(c)
		}
	}
	preview.Ops = append(preview.Ops, qc.Ops...)

	state, err := sim.Run(preview)
	if err != nil {
		t.Fatalf("simulation error: %v", err)
	}
	return state
}

func TestTruthTableEquivalence(t *testing.T) {
	// For every control count and every control assignment, the fragment with
	// a CX primitive must flip each target exactly when all controls are on,
	// and must leave every ancilla at zero.
	for k := 1; k <= 5; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			m := 2
			numAnc := 0
			if k >= 2 {
				numAnc = k - 1
			}
			controls := qubits()
			for i := 0; i < k; i++ {
				controls = append(controls, circuit.Qubit(i))
			}
			targets := qubits()
			for i := 0; i < m; i++ {
				targets = append(targets, circuit.Qubit(k+i))
			}
			ancillae := qubits()
			for i := 0; i < numAnc; i++ {
				ancillae = append(ancillae, circuit.Qubit(k+m+i))
			}

			qc := circuit.New(k + m + numAnc)
			if err := Synthesize(qc, controls, ancillae, (*circuit.Circuit).CX, targets, ModeBasic); err != nil {
				t.Fatalf("Synthesize error: %v", err)
			}

			for assignment := 0; assignment < 1<<k; assignment++ {
				state := runOnBasis(t, qc, controls, assignment)

				allOn := assignment == 1<<k-1
				expected := assignment // controls keep their values
				if allOn {
					for _, tq := range targets {
						expected |= 1 << tq
					}
				}

				amp := state.Amplitudes[expected]
				if math.Abs(cmplx.Abs(amp)-1) > 1e-9 {
					t.Errorf("assignment %0*b: amplitude of expected state is %v", k, assignment, amp)
				}
				for _, a := range ancillae {
					if p := state.Probability(a); p > 1e-9 {
						t.Errorf("assignment %0*b: ancilla q[%d] not restored, P(1)=%g", k, assignment, a, p)
					}
				}
			}
		})
	}
}

func TestAncillaRestorationWithSuperposingPrimitive(t *testing.T) {
	// A controlled-H primitive leaves the target in superposition; the
	// ancillae must still come back to zero for every control assignment.
	controls := qubits(0, 1, 2)
	targets := qubits(3)
	ancillae := qubits(4, 5)

	qc := circuit.New(6)
	if err := Synthesize(qc, controls, ancillae, (*circuit.Circuit).CH, targets, ModeBasic); err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	for assignment := 0; assignment < 8; assignment++ {
		state := runOnBasis(t, qc, controls, assignment)
		for _, a := range ancillae {
			if p := state.Probability(a); p > 1e-9 {
				t.Errorf("assignment %03b: ancilla q[%d] not restored, P(1)=%g", assignment, a, p)
			}
		}
		wantTarget := 0.0
		if assignment == 7 {
			wantTarget = 0.5 // H|0> measures 1 half the time
		}
		if p := state.Probability(targets[0]); math.Abs(p-wantTarget) > 1e-9 {
			t.Errorf("assignment %03b: target P(1)=%g, want %g", assignment, p, wantTarget)
		}
	}
}

func TestSurplusAncillaeIgnored(t *testing.T) {
	// Supplying more scratch qubits than the chain needs must neither shift
	// the conditioning wire nor disturb the extras.
	controls := qubits(0, 1, 2)
	targets := qubits(3)
	ancillae := qubits(4, 5, 6, 7) // chain needs 2

	qc := circuit.New(8)
	if err := Synthesize(qc, controls, ancillae, (*circuit.Circuit).CX, targets, ModeBasic); err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	for _, op := range qc.Ops {
		if op.References(6) || op.References(7) {
			t.Errorf("op touches surplus ancilla: %v", op)
		}
	}

	state := runOnBasis(t, qc, controls, 7)
	if p := state.Probability(targets[0]); math.Abs(p-1) > 1e-9 {
		t.Errorf("target P(1)=%g, want 1", p)
	}
}

func TestControlMarginalsPreserved(t *testing.T) {
	// With the controls in superposition the fragment may only act on the
	// targets: control and ancilla marginals must match the state snapshotted
	// before the fragment ran.
	controls := qubits(0, 1, 2)
	targets := qubits(3)
	ancillae := qubits(4, 5)

	qc := circuit.New(6)
	if err := Synthesize(qc, controls, ancillae, (*circuit.Circuit).CX, targets, ModeBasic); err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	prep := circuit.New(6)
	for _, c := range controls {
		prep.H(c)
	}
	state, err := sim.Run(prep)
	if err != nil {
		t.Fatalf("simulation error: %v", err)
	}

	before := state.Clone()
	for _, op := range qc.Ops {
		if err := state.Apply(op); err != nil {
			t.Fatalf("Apply error: %v", err)
		}
	}

	for _, q := range append(append(qubits(), controls...), ancillae...) {
		got, want := state.Probability(q), before.Probability(q)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("q[%d]: P(1)=%g, want %g as before the fragment", q, got, want)
		}
	}
	// Exactly one of the eight control assignments flips the target.
	if p := state.Probability(targets[0]); math.Abs(p-0.125) > 1e-9 {
		t.Errorf("target P(1)=%g, want 0.125", p)
	}
}

func TestPhasePrimitive(t *testing.T) {
	// cu1(pi) conditioned on the chain output acts as a controlled-Z on the
	// all-ones control state.
	controls := qubits(0, 1)
	targets := qubits(2)
	ancillae := qubits(3)

	theta := math.Pi
	gate := func(qc *circuit.Circuit, control, target circuit.Qubit) {
		qc.CP(theta, control, target)
	}

	qc := circuit.New(4)
	if err := Synthesize(qc, controls, ancillae, gate, targets, ModeBasic); err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	// Prepare controls on and target at |1>, so the phase actually lands.
	preview := circuit.New(4)
	preview.X(0)
	preview.X(1)
	preview.X(2)
	preview.Ops = append(preview.Ops, qc.Ops...)

	state, err := sim.Run(preview)
	if err != nil {
		t.Fatalf("simulation error: %v", err)
	}
	amp := state.Amplitudes[0b0111]
	if math.Abs(real(amp)+1) > 1e-9 || math.Abs(imag(amp)) > 1e-9 {
		t.Errorf("expected amplitude -1 on |0111>, got %v", amp)
	}
}
